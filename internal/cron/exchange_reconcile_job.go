package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	exchange "github.com/ecoswap/ecoswap-backend/internal/exchanges"
	"github.com/ecoswap/ecoswap-backend/pkg/db/models"
	"github.com/ecoswap/ecoswap-backend/pkg/enums"
	"github.com/ecoswap/ecoswap-backend/pkg/logger"
	"github.com/ecoswap/ecoswap-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ExchangeReconcileJobParams configures the product consistency sweep.
type ExchangeReconcileJobParams struct {
	Logger       *logger.Logger
	DB           txRunner
	ExchangeRepo exchange.Repository
	Deactivator  exchange.ProductDeactivator
	Metrics      *metrics.CronJobMetrics
}

// NewExchangeReconcileJob builds the sweep that forces products referenced by
// completed exchanges into the inactive state. The sweep repairs any window
// where a completion landed but one of its product updates did not.
func NewExchangeReconcileJob(params ExchangeReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.ExchangeRepo == nil {
		return nil, fmt.Errorf("exchange repository required")
	}
	if params.Deactivator == nil {
		return nil, fmt.Errorf("product deactivator required")
	}
	return &exchangeReconcileJob{
		logg:        params.Logger,
		db:          params.DB,
		repo:        params.ExchangeRepo,
		deactivator: params.Deactivator,
		metrics:     params.Metrics,
	}, nil
}

type exchangeReconcileJob struct {
	logg        *logger.Logger
	db          txRunner
	repo        exchange.Repository
	deactivator exchange.ProductDeactivator
	metrics     *metrics.CronJobMetrics
}

func (j *exchangeReconcileJob) Name() string { return "exchange-reconcile" }

func (j *exchangeReconcileJob) Run(ctx context.Context) error {
	completed, err := j.repo.ListByStatus(ctx, enums.ExchangeStatusCompleted)
	if err != nil {
		return fmt.Errorf("list completed exchanges: %w", err)
	}

	var errs error
	deactivated := 0
	for i := range completed {
		count, err := j.reconcileExchange(ctx, &completed[i])
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		deactivated += count
	}

	if deactivated > 0 && j.metrics != nil {
		j.metrics.AddDeactivated(j.Name(), deactivated)
	}
	reportCtx := j.logg.WithFields(ctx, map[string]any{
		"candidates":  len(completed),
		"deactivated": deactivated,
	})
	j.logg.Info(reportCtx, "exchange reconcile sweep complete")
	return errs
}

// reconcileExchange retires both products of a completed exchange. Products
// already inactive are left alone, so repeated sweeps converge to zero work.
func (j *exchangeReconcileJob) reconcileExchange(ctx context.Context, row *models.Exchange) (int, error) {
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"exchange_id":     row.ID,
		"product_from_id": row.ProductFromID,
		"product_to_id":   row.ProductToID,
	})

	deactivated := 0
	err := j.db.WithTx(logCtx, func(tx *gorm.DB) error {
		for _, productID := range []uuid.UUID{row.ProductFromID, row.ProductToID} {
			changed, err := j.deactivator.Deactivate(logCtx, tx, productID)
			if err != nil {
				return err
			}
			if changed {
				deactivated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("reconcile exchange %s: %w", row.ID, err)
	}
	if deactivated > 0 {
		j.logg.Info(logCtx, "completed exchange had live products; deactivated")
	}
	return deactivated, nil
}
