package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ecoswap/ecoswap-backend/pkg/enums"
)

// Exchange is a proposal to trade ProductFrom (owned by the proposer) for
// ProductTo (owned by the counterpart). It references products without owning
// their lifecycle.
type Exchange struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductFromID uuid.UUID            `gorm:"column:product_from_id;type:uuid;not null;index"`
	ProductToID   uuid.UUID            `gorm:"column:product_to_id;type:uuid;not null;index"`
	Status        enums.ExchangeStatus `gorm:"column:status;not null;default:pending;index"`
	ProductFrom   *Product             `gorm:"foreignKey:ProductFromID"`
	ProductTo     *Product             `gorm:"foreignKey:ProductToID"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
