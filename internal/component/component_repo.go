package component

import (
	"context"
	"database/sql"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, component *SalaryComponent) error
	FindAllByCompany(ctx context.Context, companyID string) ([]SalaryComponent, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*SalaryComponent, error)
	Update(ctx context.Context, component *SalaryComponent) error
	Delete(ctx context.Context, companyID string, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, component *SalaryComponent) error {
	return r.db.WithContext(ctx).Create(component).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]SalaryComponent, error) {
	var components []SalaryComponent
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("sort_order ASC").
		Find(&components).Error
	return components, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*SalaryComponent, error) {
	var component SalaryComponent
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&component).Error
	if err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *repository) Update(ctx context.Context, component *SalaryComponent) error {
	return r.db.WithContext(ctx).Save(component).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&SalaryComponent{}).Error
}
