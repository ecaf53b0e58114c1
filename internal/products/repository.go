package product

import (
	"context"

	"github.com/ecoswap/ecoswap-backend/pkg/db/models"
	"github.com/ecoswap/ecoswap-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines persistence operations for product listings.
type ProductRepository interface {
	CreateProduct(context.Context, *models.Product) (*models.Product, error)
	UpdateProduct(context.Context, *models.Product) (*models.Product, error)
	FindByID(context.Context, uuid.UUID) (*models.Product, error)
	ListActive(context.Context, ListFilter) ([]models.Product, error)
	SetStatus(context.Context, uuid.UUID, enums.ProductStatus) error
}

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product regardless of status.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// ListActive returns active products, optionally narrowed by category or owner.
func (r *Repository) ListActive(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).
		Where("status = ?", enums.ProductStatusActive)
	if filter.Category != nil {
		qb = qb.Where("category = ?", *filter.Category)
	}
	if filter.OwnerID != nil {
		qb = qb.Where("owner_id = ?", *filter.OwnerID)
	}
	var rows []models.Product
	err := qb.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// SetStatus overwrites the product status.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status enums.ProductStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// DeactivateIfActive flips an active product to inactive and reports whether a
// row actually changed. Already-inactive products are left untouched.
func (r *Repository) DeactivateIfActive(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND status = ?", id, enums.ProductStatusActive).
		UpdateColumn("status", enums.ProductStatusInactive)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
