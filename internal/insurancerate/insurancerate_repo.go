package insurancerate

import (
	"context"
	"database/sql"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rate *InsuranceRate) error
	FindAllByCompany(ctx context.Context, companyID string) ([]InsuranceRate, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*InsuranceRate, error)
	Update(ctx context.Context, rate *InsuranceRate) error
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

func (r *repository) Create(ctx context.Context, rate *InsuranceRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]InsuranceRate, error) {
	var rates []InsuranceRate
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("scheme ASC, effective_date DESC").
		Find(&rates).Error
	return rates, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*InsuranceRate, error) {
	var rate InsuranceRate
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repository) Update(ctx context.Context, rate *InsuranceRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&InsuranceRate{}).Error
}
