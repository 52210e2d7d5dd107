package controllers

import (
	"net/http"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/middleware"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/responses"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/google/uuid"
)

func requireUser(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, bool) {
	userID, ok := middleware.UserUUIDFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
		return uuid.Nil, false
	}
	return userID, true
}

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, what string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, what+" unavailable"))
}

func errServiceUnavailable(what string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, what+" unavailable")
}
