package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ecoswap/ecoswap-backend/pkg/enums"
)

// Product represents a listing offered for exchange. OwnerID is assigned at
// creation and never transferred; rows are soft-deleted via Status, never removed.
type Product struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID              `gorm:"column:owner_id;type:uuid;not null;index"`
	Title       string                 `gorm:"column:title;not null"`
	Description string                 `gorm:"column:description;not null"`
	Category    enums.ProductCategory  `gorm:"column:category;not null;index"`
	Condition   enums.ProductCondition `gorm:"column:condition;not null"`
	ImageURL    string                 `gorm:"column:image_url;not null"`
	ImageObject string                 `gorm:"column:image_object;not null"`
	Status      enums.ProductStatus    `gorm:"column:status;not null;default:active;index"`
	ReleaseDate time.Time              `gorm:"column:release_date;not null"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
