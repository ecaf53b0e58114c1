package exchange

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecoswap/ecoswap-backend/pkg/db/models"
	"github.com/ecoswap/ecoswap-backend/pkg/enums"
)

// Repository describes exchange persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, row *models.Exchange) (*models.Exchange, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Exchange, error)
	ListByProductTo(ctx context.Context, productToID uuid.UUID) ([]models.Exchange, error)
	ListByStatus(ctx context.Context, status enums.ExchangeStatus) ([]models.Exchange, error)
	HasPendingForProductFrom(ctx context.Context, productFromID uuid.UUID) (bool, error)
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, target enums.ExchangeStatus) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an exchange repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, row *models.Exchange) (*models.Exchange, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Exchange, error) {
	var row models.Exchange
	err := r.db.WithContext(ctx).
		Preload("ProductFrom").
		Preload("ProductTo").
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByProductTo returns every proposal targeting the product, in any status.
func (r *repository) ListByProductTo(ctx context.Context, productToID uuid.UUID) ([]models.Exchange, error) {
	var rows []models.Exchange
	err := r.db.WithContext(ctx).
		Preload("ProductFrom").
		Where("product_to_id = ?", productToID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.ExchangeStatus) ([]models.Exchange, error) {
	var rows []models.Exchange
	err := r.db.WithContext(ctx).
		Preload("ProductFrom").
		Preload("ProductTo").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) HasPendingForProductFrom(ctx context.Context, productFromID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Exchange{}).
		Where("product_from_id = ? AND status = ?", productFromID, enums.ExchangeStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatusIfPending performs a guarded transition out of pending. It
// reports whether this caller won the transition; a false result with no
// error means another writer already moved the row.
func (r *repository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, target enums.ExchangeStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Exchange{}).
		Where("id = ? AND status = ?", id, enums.ExchangeStatusPending).
		UpdateColumn("status", target)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
