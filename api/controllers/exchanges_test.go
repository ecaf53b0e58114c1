package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	exchange "github.com/ecoswap/ecoswap-backend/internal/exchanges"
	"github.com/ecoswap/ecoswap-backend/pkg/enums"
	pkgerrors "github.com/ecoswap/ecoswap-backend/pkg/errors"
)

type stubExchangeService struct {
	proposed   *exchange.ProposeInput
	selectedID uuid.UUID
	rejectedID uuid.UUID
	listedID   uuid.UUID
	err        error
}

func (s *stubExchangeService) Propose(ctx context.Context, actorID uuid.UUID, input exchange.ProposeInput) (*exchange.ExchangeDTO, error) {
	s.proposed = &input
	if s.err != nil {
		return nil, s.err
	}
	return &exchange.ExchangeDTO{ID: uuid.New(), ProductFromID: input.ProductFromID, ProductToID: input.ProductToID, Status: enums.ExchangeStatusPending}, nil
}

func (s *stubExchangeService) Select(ctx context.Context, actorID, exchangeID uuid.UUID) (*exchange.ExchangeDTO, error) {
	s.selectedID = exchangeID
	if s.err != nil {
		return nil, s.err
	}
	return &exchange.ExchangeDTO{ID: exchangeID, Status: enums.ExchangeStatusCompleted}, nil
}

func (s *stubExchangeService) Reject(ctx context.Context, actorID, exchangeID uuid.UUID) (*exchange.ExchangeDTO, error) {
	s.rejectedID = exchangeID
	if s.err != nil {
		return nil, s.err
	}
	return &exchange.ExchangeDTO{ID: exchangeID, Status: enums.ExchangeStatusRejected}, nil
}

func (s *stubExchangeService) ListForProductTo(ctx context.Context, actorID, productToID uuid.UUID) ([]exchange.ExchangeDTO, error) {
	s.listedID = productToID
	if s.err != nil {
		return nil, s.err
	}
	return []exchange.ExchangeDTO{}, nil
}

func TestProposeExchange(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	fromID := uuid.New()
	toID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubExchangeService{}
		payload, _ := json.Marshal(map[string]string{
			"product_from_id": fromID.String(),
			"product_to_id":   toID.String(),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/exchanges", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req = authedRequest(req, userID, nil)
		rec := httptest.NewRecorder()
		ProposeExchange(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.proposed == nil || stub.proposed.ProductFromID != fromID || stub.proposed.ProductToID != toID {
			t.Fatalf("propose input not forwarded: %+v", stub.proposed)
		}
	})

	t.Run("missing product ids", func(t *testing.T) {
		stub := &stubExchangeService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/exchanges", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		req = authedRequest(req, userID, nil)
		rec := httptest.NewRecorder()
		ProposeExchange(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
		if stub.proposed != nil {
			t.Fatalf("service should not be called on validation failure")
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/exchanges", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		ProposeExchange(&stubExchangeService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 got %d", rec.Code)
		}
	})
}

func TestSelectExchange(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	exchangeID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubExchangeService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/exchanges/"+exchangeID.String()+"/select", nil)
		req = authedRequest(req, userID, map[string]string{"exchangeId": exchangeID.String()})
		rec := httptest.NewRecorder()
		SelectExchange(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.selectedID != exchangeID {
			t.Fatalf("exchange id not forwarded")
		}
	})

	t.Run("stale exchange maps to 422", func(t *testing.T) {
		stub := &stubExchangeService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "exchange is no longer pending")}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/exchanges/"+exchangeID.String()+"/select", nil)
		req = authedRequest(req, userID, map[string]string{"exchangeId": exchangeID.String()})
		rec := httptest.NewRecorder()
		SelectExchange(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 got %d", rec.Code)
		}
	})

	t.Run("invalid exchange id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/exchanges/nope/select", nil)
		req = authedRequest(req, userID, map[string]string{"exchangeId": "nope"})
		rec := httptest.NewRecorder()
		SelectExchange(&stubExchangeService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})
}

func TestRejectExchange(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	exchangeID := uuid.New()

	stub := &stubExchangeService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exchanges/"+exchangeID.String()+"/reject", nil)
	req = authedRequest(req, userID, map[string]string{"exchangeId": exchangeID.String()})
	rec := httptest.NewRecorder()
	RejectExchange(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.rejectedID != exchangeID {
		t.Fatalf("exchange id not forwarded")
	}
}

func TestListProductExchanges(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	productID := uuid.New()

	stub := &stubExchangeService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String()+"/exchanges", nil)
	req = authedRequest(req, userID, map[string]string{"productId": productID.String()})
	rec := httptest.NewRecorder()
	ListProductExchanges(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.listedID != productID {
		t.Fatalf("product id not forwarded")
	}
}
