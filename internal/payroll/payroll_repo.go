package payroll

import (
	"context"
	"database/sql"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *PayrollRecord) error
	FindAllByCompany(ctx context.Context, companyID string, filter GetPayrollsFilterRequest) ([]PayrollRecord, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayrollRecord, error)
	Update(ctx context.Context, record *PayrollRecord) error
	Delete(ctx context.Context, companyID string, id string) error
	HasPeriod(ctx context.Context, companyID, employeeID, period string, excludeID *string) (bool, error)
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

func (r *repository) Create(ctx context.Context, record *PayrollRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter GetPayrollsFilterRequest) ([]PayrollRecord, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("period DESC, created_at DESC")
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Period != "" {
		db = db.Where("period = ?", filter.Period)
	}

	var records []PayrollRecord
	err := db.Find(&records).Error
	return records, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayrollRecord, error) {
	var record PayrollRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) Update(ctx context.Context, record *PayrollRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&PayrollRecord{}, "id = ?", id).Error
}

func (r *repository) HasPeriod(
	ctx context.Context,
	companyID, employeeID, period string,
	excludeID *string,
) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&PayrollRecord{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("period = ?", period)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
