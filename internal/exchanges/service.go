package exchange

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecoswap/ecoswap-backend/pkg/db"
	"github.com/ecoswap/ecoswap-backend/pkg/db/models"
	"github.com/ecoswap/ecoswap-backend/pkg/enums"
	pkgerrors "github.com/ecoswap/ecoswap-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ProductDeactivator retires a product inside the caller's transaction so the
// exchange transition and the resulting product state land atomically.
type ProductDeactivator interface {
	Deactivate(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (bool, error)
}

// Service defines the exchange lifecycle operations.
type Service interface {
	Propose(ctx context.Context, actorID uuid.UUID, input ProposeInput) (*ExchangeDTO, error)
	Select(ctx context.Context, actorID, exchangeID uuid.UUID) (*ExchangeDTO, error)
	Reject(ctx context.Context, actorID, exchangeID uuid.UUID) (*ExchangeDTO, error)
	ListForProductTo(ctx context.Context, actorID, productToID uuid.UUID) ([]ExchangeDTO, error)
}

type service struct {
	repo        Repository
	products    productFinder
	deactivator ProductDeactivator
	tx          txRunner
}

// ServiceParams groups the dependencies for NewService.
type ServiceParams struct {
	Repo        Repository
	Products    productFinder
	Deactivator ProductDeactivator
	Tx          txRunner
}

// NewService builds an exchange service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("exchange repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if params.Deactivator == nil {
		return nil, fmt.Errorf("product deactivator required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:        params.Repo,
		products:    params.Products,
		deactivator: params.Deactivator,
		tx:          params.Tx,
	}, nil
}

func (s *service) Propose(ctx context.Context, actorID uuid.UUID, input ProposeInput) (*ExchangeDTO, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing actor")
	}
	if input.ProductFromID == uuid.Nil || input.ProductToID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "both product ids are required")
	}
	if input.ProductFromID == input.ProductToID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot exchange a product for itself")
	}

	productFrom, err := s.loadProduct(ctx, input.ProductFromID)
	if err != nil {
		return nil, err
	}
	productTo, err := s.loadProduct(ctx, input.ProductToID)
	if err != nil {
		return nil, err
	}

	if productFrom.OwnerID == productTo.OwnerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products belong to the same owner")
	}
	if productFrom.OwnerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "offered product does not belong to actor")
	}
	if productFrom.Status != enums.ProductStatusActive || productTo.Status != enums.ProductStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "both products must be active")
	}

	pending, err := s.repo.HasPendingForProductFrom(ctx, productFrom.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending proposals")
	}
	if pending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already has a pending proposal")
	}

	row := &models.Exchange{
		ProductFromID: productFrom.ID,
		ProductToID:   productTo.ID,
		Status:        enums.ExchangeStatusPending,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		// The partial unique index on pending proposals closes the race
		// between the existence check and the insert.
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already has a pending proposal")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create exchange proposal")
	}
	return NewExchangeDTO(created), nil
}

// Select completes a pending exchange. Only the owner of the requested product
// may accept, and concurrent selections against the same proposal resolve to a
// single winner through the guarded status update.
func (s *service) Select(ctx context.Context, actorID, exchangeID uuid.UUID) (*ExchangeDTO, error) {
	row, err := s.loadForDecision(ctx, actorID, exchangeID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		won, err := repo.UpdateStatusIfPending(ctx, row.ID, enums.ExchangeStatusCompleted)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete exchange")
		}
		if !won {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "exchange is no longer pending")
		}

		for _, productID := range []uuid.UUID{row.ProductFromID, row.ProductToID} {
			if _, err := s.deactivator.Deactivate(ctx, tx, productID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate exchanged product")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.FindByID(ctx, row.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload completed exchange")
	}
	return NewExchangeDTO(completed), nil
}

// Reject declines a pending exchange. Product statuses are untouched.
func (s *service) Reject(ctx context.Context, actorID, exchangeID uuid.UUID) (*ExchangeDTO, error) {
	row, err := s.loadForDecision(ctx, actorID, exchangeID)
	if err != nil {
		return nil, err
	}

	won, err := s.repo.UpdateStatusIfPending(ctx, row.ID, enums.ExchangeStatusRejected)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject exchange")
	}
	if !won {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "exchange is no longer pending")
	}

	rejected, err := s.repo.FindByID(ctx, row.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload rejected exchange")
	}
	return NewExchangeDTO(rejected), nil
}

// ListForProductTo surfaces every proposal targeting one of the actor's
// products, regardless of status.
func (s *service) ListForProductTo(ctx context.Context, actorID, productToID uuid.UUID) ([]ExchangeDTO, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing actor")
	}

	productTo, err := s.loadProduct(ctx, productToID)
	if err != nil {
		return nil, err
	}
	if productTo.OwnerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to actor")
	}

	rows, err := s.repo.ListByProductTo(ctx, productTo.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list exchanges")
	}
	return NewExchangeDTOs(rows), nil
}

func (s *service) loadForDecision(ctx context.Context, actorID, exchangeID uuid.UUID) (*models.Exchange, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing actor")
	}
	if exchangeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exchange id required")
	}

	row, err := s.repo.FindByID(ctx, exchangeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "exchange not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load exchange")
	}

	productTo, err := s.loadProduct(ctx, row.ProductToID)
	if err != nil {
		return nil, err
	}
	if productTo.OwnerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "exchange does not target actor's product")
	}
	if row.Status != enums.ExchangeStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "exchange is no longer pending")
	}
	return row, nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return row, nil
}

type productDeactivatorImpl struct{}

// NewProductDeactivator exposes the default product deactivation implementation.
func NewProductDeactivator() ProductDeactivator {
	return productDeactivatorImpl{}
}

func (productDeactivatorImpl) Deactivate(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (bool, error) {
	if tx == nil {
		return false, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for product deactivation")
	}

	res := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND status = ?", productID, enums.ProductStatusActive).
		UpdateColumn("status", enums.ProductStatusInactive)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
