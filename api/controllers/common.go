package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/rallycommand/rallycommand-backend/api/middleware"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

// currentUserID pulls the authenticated user out of the request context.
// Handlers behind the auth middleware can rely on it being present.
func currentUserID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
	}
	return id, nil
}
