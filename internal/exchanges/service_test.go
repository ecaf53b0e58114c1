package exchange

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecoswap/ecoswap-backend/pkg/db/models"
	"github.com/ecoswap/ecoswap-backend/pkg/enums"
	pkgerrors "github.com/ecoswap/ecoswap-backend/pkg/errors"
)

type stubExchangeRepo struct {
	rows           map[uuid.UUID]*models.Exchange
	pendingForFrom bool
	loseUpdate     bool
	created        *models.Exchange
	createErr      error
}

func newStubExchangeRepo() *stubExchangeRepo {
	return &stubExchangeRepo{rows: make(map[uuid.UUID]*models.Exchange)}
}

func (s *stubExchangeRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubExchangeRepo) Create(ctx context.Context, row *models.Exchange) (*models.Exchange, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	s.rows[row.ID] = row
	s.created = row
	return row, nil
}

func (s *stubExchangeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Exchange, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *row
	return &clone, nil
}

func (s *stubExchangeRepo) ListByProductTo(ctx context.Context, productToID uuid.UUID) ([]models.Exchange, error) {
	var rows []models.Exchange
	for _, row := range s.rows {
		if row.ProductToID == productToID {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func (s *stubExchangeRepo) ListByStatus(ctx context.Context, status enums.ExchangeStatus) ([]models.Exchange, error) {
	var rows []models.Exchange
	for _, row := range s.rows {
		if row.Status == status {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func (s *stubExchangeRepo) HasPendingForProductFrom(ctx context.Context, productFromID uuid.UUID) (bool, error) {
	return s.pendingForFrom, nil
}

func (s *stubExchangeRepo) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, target enums.ExchangeStatus) (bool, error) {
	if s.loseUpdate {
		return false, nil
	}
	row, ok := s.rows[id]
	if !ok || row.Status != enums.ExchangeStatusPending {
		return false, nil
	}
	row.Status = target
	return true, nil
}

type stubProductFinder struct {
	products map[uuid.UUID]*models.Product
}

func newStubProductFinder() *stubProductFinder {
	return &stubProductFinder{products: make(map[uuid.UUID]*models.Product)}
}

func (s *stubProductFinder) add(ownerID uuid.UUID, status enums.ProductStatus) *models.Product {
	row := &models.Product{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Title:   "Stub Product",
		Status:  status,
	}
	s.products[row.ID] = row
	return row
}

func (s *stubProductFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

type stubDeactivator struct {
	calls []uuid.UUID
	err   error
}

func (s *stubDeactivator) Deactivate(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.calls = append(s.calls, productID)
	return true, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fixture struct {
	svc         Service
	repo        *stubExchangeRepo
	products    *stubProductFinder
	deactivator *stubDeactivator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newStubExchangeRepo()
	products := newStubProductFinder()
	deactivator := &stubDeactivator{}
	svc, err := NewService(ServiceParams{
		Repo:        repo,
		Products:    products,
		Deactivator: deactivator,
		Tx:          stubTxRunner{},
	})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return &fixture{svc: svc, repo: repo, products: products, deactivator: deactivator}
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != want {
		t.Fatalf("expected %s, got %v", want, err)
	}
}

func TestProposeCreatesPendingExchange(t *testing.T) {
	f := newFixture(t)
	proposer := uuid.New()
	offered := f.products.add(proposer, enums.ProductStatusActive)
	requested := f.products.add(uuid.New(), enums.ProductStatusActive)

	dto, err := f.svc.Propose(context.Background(), proposer, ProposeInput{
		ProductFromID: offered.ID,
		ProductToID:   requested.ID,
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if dto.Status != enums.ExchangeStatusPending {
		t.Fatalf("expected pending, got %s", dto.Status)
	}
	if f.repo.created == nil || f.repo.created.ProductFromID != offered.ID {
		t.Fatal("expected persisted proposal for offered product")
	}
}

func TestProposeRejectsSameOwner(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	offered := f.products.add(owner, enums.ProductStatusActive)
	requested := f.products.add(owner, enums.ProductStatusActive)

	_, err := f.svc.Propose(context.Background(), owner, ProposeInput{
		ProductFromID: offered.ID,
		ProductToID:   requested.ID,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestProposeRequiresOwnershipOfOfferedProduct(t *testing.T) {
	f := newFixture(t)
	offered := f.products.add(uuid.New(), enums.ProductStatusActive)
	requested := f.products.add(uuid.New(), enums.ProductStatusActive)

	_, err := f.svc.Propose(context.Background(), uuid.New(), ProposeInput{
		ProductFromID: offered.ID,
		ProductToID:   requested.ID,
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestProposeRequiresBothProductsActive(t *testing.T) {
	f := newFixture(t)
	proposer := uuid.New()
	offered := f.products.add(proposer, enums.ProductStatusActive)
	requested := f.products.add(uuid.New(), enums.ProductStatusInactive)

	_, err := f.svc.Propose(context.Background(), proposer, ProposeInput{
		ProductFromID: offered.ID,
		ProductToID:   requested.ID,
	})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestProposeRejectsDuplicatePending(t *testing.T) {
	f := newFixture(t)
	proposer := uuid.New()
	offered := f.products.add(proposer, enums.ProductStatusActive)
	requested := f.products.add(uuid.New(), enums.ProductStatusActive)
	f.repo.pendingForFrom = true

	_, err := f.svc.Propose(context.Background(), proposer, ProposeInput{
		ProductFromID: offered.ID,
		ProductToID:   requested.ID,
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestProposeInsertRaceMapsToConflict(t *testing.T) {
	f := newFixture(t)
	proposer := uuid.New()
	offered := f.products.add(proposer, enums.ProductStatusActive)
	requested := f.products.add(uuid.New(), enums.ProductStatusActive)
	f.repo.createErr = errors.New(`duplicate key value violates unique constraint "idx_exchanges_pending_product_from"`)

	_, err := f.svc.Propose(context.Background(), proposer, ProposeInput{
		ProductFromID: offered.ID,
		ProductToID:   requested.ID,
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestProposeInsertFailureIsDependency(t *testing.T) {
	f := newFixture(t)
	proposer := uuid.New()
	offered := f.products.add(proposer, enums.ProductStatusActive)
	requested := f.products.add(uuid.New(), enums.ProductStatusActive)
	f.repo.createErr = errors.New("connection refused")

	_, err := f.svc.Propose(context.Background(), proposer, ProposeInput{
		ProductFromID: offered.ID,
		ProductToID:   requested.ID,
	})
	assertCode(t, err, pkgerrors.CodeDependency)
}

func TestProposeMissingProduct(t *testing.T) {
	f := newFixture(t)
	proposer := uuid.New()
	offered := f.products.add(proposer, enums.ProductStatusActive)

	_, err := f.svc.Propose(context.Background(), proposer, ProposeInput{
		ProductFromID: offered.ID,
		ProductToID:   uuid.New(),
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestSelectCompletesAndRetiresProducts(t *testing.T) {
	f := newFixture(t)
	accepter := uuid.New()
	offered := f.products.add(uuid.New(), enums.ProductStatusActive)
	requested := f.products.add(accepter, enums.ProductStatusActive)
	row := &models.Exchange{
		ID:            uuid.New(),
		ProductFromID: offered.ID,
		ProductToID:   requested.ID,
		Status:        enums.ExchangeStatusPending,
	}
	f.repo.rows[row.ID] = row

	dto, err := f.svc.Select(context.Background(), accepter, row.ID)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if dto.Status != enums.ExchangeStatusCompleted {
		t.Fatalf("expected completed, got %s", dto.Status)
	}
	if len(f.deactivator.calls) != 2 {
		t.Fatalf("expected both products deactivated, got %d calls", len(f.deactivator.calls))
	}
	if f.deactivator.calls[0] != offered.ID || f.deactivator.calls[1] != requested.ID {
		t.Fatal("deactivation targeted the wrong products")
	}
}

func TestSelectOnlyByRequestedProductOwner(t *testing.T) {
	f := newFixture(t)
	proposer := uuid.New()
	offered := f.products.add(proposer, enums.ProductStatusActive)
	requested := f.products.add(uuid.New(), enums.ProductStatusActive)
	row := &models.Exchange{
		ID:            uuid.New(),
		ProductFromID: offered.ID,
		ProductToID:   requested.ID,
		Status:        enums.ExchangeStatusPending,
	}
	f.repo.rows[row.ID] = row

	_, err := f.svc.Select(context.Background(), proposer, row.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
	if len(f.deactivator.calls) != 0 {
		t.Fatal("no product should be deactivated")
	}
}

func TestSelectConcurrentLoserGetsStateConflict(t *testing.T) {
	f := newFixture(t)
	accepter := uuid.New()
	offered := f.products.add(uuid.New(), enums.ProductStatusActive)
	requested := f.products.add(accepter, enums.ProductStatusActive)
	row := &models.Exchange{
		ID:            uuid.New(),
		ProductFromID: offered.ID,
		ProductToID:   requested.ID,
		Status:        enums.ExchangeStatusPending,
	}
	f.repo.rows[row.ID] = row
	f.repo.loseUpdate = true

	_, err := f.svc.Select(context.Background(), accepter, row.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
	if len(f.deactivator.calls) != 0 {
		t.Fatal("losing selection must not deactivate products")
	}
}

func TestRejectLeavesProductsUntouched(t *testing.T) {
	f := newFixture(t)
	accepter := uuid.New()
	offered := f.products.add(uuid.New(), enums.ProductStatusActive)
	requested := f.products.add(accepter, enums.ProductStatusActive)
	row := &models.Exchange{
		ID:            uuid.New(),
		ProductFromID: offered.ID,
		ProductToID:   requested.ID,
		Status:        enums.ExchangeStatusPending,
	}
	f.repo.rows[row.ID] = row

	dto, err := f.svc.Reject(context.Background(), accepter, row.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if dto.Status != enums.ExchangeStatusRejected {
		t.Fatalf("expected rejected, got %s", dto.Status)
	}
	if len(f.deactivator.calls) != 0 {
		t.Fatal("reject must not deactivate products")
	}
}

func TestSelectNonPendingExchange(t *testing.T) {
	f := newFixture(t)
	accepter := uuid.New()
	offered := f.products.add(uuid.New(), enums.ProductStatusActive)
	requested := f.products.add(accepter, enums.ProductStatusActive)
	row := &models.Exchange{
		ID:            uuid.New(),
		ProductFromID: offered.ID,
		ProductToID:   requested.ID,
		Status:        enums.ExchangeStatusCompleted,
	}
	f.repo.rows[row.ID] = row

	_, err := f.svc.Select(context.Background(), accepter, row.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestListForProductToReturnsAllStatuses(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	requested := f.products.add(owner, enums.ProductStatusActive)
	for _, status := range []enums.ExchangeStatus{
		enums.ExchangeStatusPending,
		enums.ExchangeStatusCompleted,
		enums.ExchangeStatusRejected,
	} {
		row := &models.Exchange{
			ID:            uuid.New(),
			ProductFromID: uuid.New(),
			ProductToID:   requested.ID,
			Status:        status,
		}
		f.repo.rows[row.ID] = row
	}

	rows, err := f.svc.ListForProductTo(context.Background(), owner, requested.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected all statuses listed, got %d", len(rows))
	}

	_, err = f.svc.ListForProductTo(context.Background(), uuid.New(), requested.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
}
