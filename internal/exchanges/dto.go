package exchange

import (
	"time"

	"github.com/google/uuid"

	product "github.com/ecoswap/ecoswap-backend/internal/products"
	"github.com/ecoswap/ecoswap-backend/pkg/db/models"
	"github.com/ecoswap/ecoswap-backend/pkg/enums"
)

// ExchangeDTO is the API-facing representation of an exchange proposal.
// ProductFrom and ProductTo are populated only when the query preloads them.
type ExchangeDTO struct {
	ID            uuid.UUID            `json:"id"`
	ProductFromID uuid.UUID            `json:"product_from_id"`
	ProductToID   uuid.UUID            `json:"product_to_id"`
	Status        enums.ExchangeStatus `json:"status"`
	ProductFrom   *product.ProductDTO  `json:"product_from,omitempty"`
	ProductTo     *product.ProductDTO  `json:"product_to,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// NewExchangeDTO converts a persisted exchange into its transport shape.
func NewExchangeDTO(row *models.Exchange) *ExchangeDTO {
	if row == nil {
		return nil
	}
	dto := &ExchangeDTO{
		ID:            row.ID,
		ProductFromID: row.ProductFromID,
		ProductToID:   row.ProductToID,
		Status:        row.Status,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.ProductFrom != nil {
		dto.ProductFrom = product.NewProductDTO(row.ProductFrom)
	}
	if row.ProductTo != nil {
		dto.ProductTo = product.NewProductDTO(row.ProductTo)
	}
	return dto
}

// NewExchangeDTOs converts a slice of exchanges.
func NewExchangeDTOs(rows []models.Exchange) []ExchangeDTO {
	dtos := make([]ExchangeDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewExchangeDTO(&rows[i]))
	}
	return dtos
}

// ProposeInput carries the product pair for a new exchange proposal.
type ProposeInput struct {
	ProductFromID uuid.UUID `json:"product_from_id" validate:"required"`
	ProductToID   uuid.UUID `json:"product_to_id" validate:"required"`
}
