package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ecoswap/ecoswap-backend/api/responses"
	"github.com/ecoswap/ecoswap-backend/api/validators"
	exchange "github.com/ecoswap/ecoswap-backend/internal/exchanges"
	pkgerrors "github.com/ecoswap/ecoswap-backend/pkg/errors"
	"github.com/ecoswap/ecoswap-backend/pkg/logger"
)

// ProposeExchange offers one of the caller's products for someone else's.
func ProposeExchange(svc exchange.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body exchange.ProposeInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Propose(r.Context(), actorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// SelectExchange completes a pending exchange and retires both products.
func SelectExchange(svc exchange.Service, logg *logger.Logger) http.HandlerFunc {
	return decideExchange(svc, logg, func(r *http.Request, actorID, exchangeID uuid.UUID) (*exchange.ExchangeDTO, error) {
		return svc.Select(r.Context(), actorID, exchangeID)
	})
}

// RejectExchange declines a pending exchange without touching the products.
func RejectExchange(svc exchange.Service, logg *logger.Logger) http.HandlerFunc {
	return decideExchange(svc, logg, func(r *http.Request, actorID, exchangeID uuid.UUID) (*exchange.ExchangeDTO, error) {
		return svc.Reject(r.Context(), actorID, exchangeID)
	})
}

func decideExchange(svc exchange.Service, logg *logger.Logger, decide func(*http.Request, uuid.UUID, uuid.UUID) (*exchange.ExchangeDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		exchangeID, err := exchangeIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := decide(r, actorID, exchangeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ListProductExchanges returns every exchange targeting one of the caller's products.
func ListProductExchanges(svc exchange.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListForProductTo(r.Context(), actorID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

func exchangeIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "exchangeId"))
	exchangeID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid exchange id")
	}
	return exchangeID, nil
}
