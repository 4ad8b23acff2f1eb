package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/verdant-io/planttracker/internal/plant"
	"github.com/verdant-io/planttracker/internal/user"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// plantError maps lifecycle engine sentinels to huma status errors. Anything
// unrecognized is logged and hidden behind a generic 500.
func plantError(logger *slog.Logger, err error, op string) error {
	switch {
	case errors.Is(err, plant.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, plant.ErrForbidden):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, plant.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	}
	logger.Error("plant operation failed", "op", op, "error", err)
	return huma.Error500InternalServerError("failed to " + op)
}

// userError maps registration/login sentinels to huma status errors.
func userError(logger *slog.Logger, err error, op string) error {
	switch {
	case errors.Is(err, user.ErrExists):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		return huma.Error401Unauthorized(err.Error())
	case errors.Is(err, user.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	}
	logger.Error("user operation failed", "op", op, "error", err)
	return huma.Error500InternalServerError("failed to " + op)
}
