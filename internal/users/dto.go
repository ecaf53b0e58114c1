package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/ecoswap/ecoswap-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Address         *string    `json:"address,omitempty"`
	CellphoneNumber *string    `json:"cellphone_number,omitempty"`
	IsActive        bool       `json:"is_active"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name            string
	Email           string
	PasswordHash    string
	Address         *string
	CellphoneNumber *string
	IsActive        *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Address:         u.Address,
		CellphoneNumber: u.CellphoneNumber,
		IsActive:        u.IsActive,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return &models.User{
		Name:            c.Name,
		Email:           c.Email,
		PasswordHash:    c.PasswordHash,
		Address:         c.Address,
		CellphoneNumber: c.CellphoneNumber,
		IsActive:        isActive,
	}
}
