package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/vitrineturbo/vitrineturbo-backend/api/responses"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/config"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db"
	pkgerrors "github.com/vitrineturbo/vitrineturbo-backend/pkg/errors"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/logger"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VitrineTurbo-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis before reporting ready. A failing
// dependency yields 502 so the platform stops routing traffic here.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VitrineTurbo-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
			checks["database"] = "ok"
		}

		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
			checks["redis"] = "ok"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
