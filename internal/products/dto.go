package product

import (
	"time"

	"github.com/ecoswap/ecoswap-backend/pkg/db/models"
	"github.com/ecoswap/ecoswap-backend/pkg/enums"
	"github.com/google/uuid"
)

// ProductDTO represents the product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID              `json:"id"`
	OwnerID     uuid.UUID              `json:"owner_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Category    enums.ProductCategory  `json:"category"`
	Condition   enums.ProductCondition `json:"condition"`
	ImageURL    string                 `json:"image_url,omitempty"`
	Status      enums.ProductStatus    `json:"status"`
	ReleaseDate time.Time              `json:"release_date"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:          product.ID,
		OwnerID:     product.OwnerID,
		Title:       product.Title,
		Description: product.Description,
		Category:    product.Category,
		Condition:   product.Condition,
		ImageURL:    product.ImageURL,
		Status:      product.Status,
		ReleaseDate: product.ReleaseDate,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// NewProductDTOs maps a slice of models into transport DTOs.
func NewProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewProductDTO(&rows[i]))
	}
	return out
}

// ImageInput carries the uploaded image payload.
type ImageInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Title       string
	Description string
	Category    enums.ProductCategory
	Condition   enums.ProductCondition
	Image       *ImageInput
}

// UpdateProductInput holds optional mutation values for a product.
// Status and owner are never updatable through this path.
type UpdateProductInput struct {
	Title       *string
	Description *string
	Category    *enums.ProductCategory
	Condition   *enums.ProductCondition
}

// ListFilter narrows the active-product listing.
type ListFilter struct {
	Category *enums.ProductCategory
	OwnerID  *uuid.UUID
}
