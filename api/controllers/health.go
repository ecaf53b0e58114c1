package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/ecoswap/ecoswap-backend/api/responses"
	"github.com/ecoswap/ecoswap-backend/pkg/config"
	"github.com/ecoswap/ecoswap-backend/pkg/db"
	pkgerrors "github.com/ecoswap/ecoswap-backend/pkg/errors"
	"github.com/ecoswap/ecoswap-backend/pkg/logger"
	"github.com/ecoswap/ecoswap-backend/pkg/redis"
	"github.com/ecoswap/ecoswap-backend/pkg/storage/gcs"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-EcoSwap-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every external dependency and reports per-dependency status.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, storageP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-EcoSwap-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		failed := false

		probe := func(name string, ping func(context.Context) error) {
			if err := ping(ctx); err != nil {
				checks[name] = "down"
				failed = true
				if logg != nil {
					warnCtx := logg.WithFields(ctx, map[string]any{"dependency": name, "error": err.Error()})
					logg.Warn(warnCtx, "readiness probe failed")
				}
				return
			}
			checks[name] = "ok"
		}

		if dbP != nil {
			probe("database", dbP.Ping)
		} else {
			checks["database"] = "skipped"
		}
		if redisP != nil {
			probe("redis", redisP.Ping)
		} else {
			checks["redis"] = "skipped"
		}
		if storageP != nil {
			probe("storage", storageP.Ping)
		} else {
			checks["storage"] = "skipped"
		}

		if failed {
			err := pkgerrors.New(pkgerrors.CodeDependency, "one or more dependencies are unavailable").
				WithDetails(map[string]any{"checks": checks})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
