package controllers

import (
	"net/http"

	"github.com/rallycommand/rallycommand-backend/api/responses"
	"github.com/rallycommand/rallycommand-backend/api/validators"
	"github.com/rallycommand/rallycommand-backend/internal/feedback"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
	"github.com/rallycommand/rallycommand-backend/pkg/logger"
)

// FeedbackCreate accepts a feedback message. No authentication required.
func FeedbackCreate(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		var req feedback.CreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := svc.Create(ctx, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}
