package taxbracket

import (
	"context"
	"database/sql"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindAllByCompany(ctx context.Context, companyID string) ([]TaxBracket, error)
	DeleteAllByCompany(ctx context.Context, companyID string) error
	CreateBatch(ctx context.Context, brackets []TaxBracket) error
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

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]TaxBracket, error) {
	var brackets []TaxBracket
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("sort_order ASC").
		Find(&brackets).Error
	return brackets, err
}

func (r *repository) DeleteAllByCompany(ctx context.Context, companyID string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&TaxBracket{}).Error
}

func (r *repository) CreateBatch(ctx context.Context, brackets []TaxBracket) error {
	return r.db.WithContext(ctx).Create(&brackets).Error
}
