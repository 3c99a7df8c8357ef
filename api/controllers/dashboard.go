package controllers

import (
	"net/http"

	"github.com/rallycommand/rallycommand-backend/api/responses"
	"github.com/rallycommand/rallycommand-backend/internal/dashboard"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
	"github.com/rallycommand/rallycommand-backend/pkg/logger"
)

// DashboardStats aggregates the user's inventory into headline numbers.
func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		stats, err := svc.Stats(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
