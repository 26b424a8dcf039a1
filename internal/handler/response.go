package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-notes-api/internal/model"
	"go-notes-api/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "unexpected server error"
	details := []string{}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		message = apiErr.Message
		if apiErr.Details != "" {
			details = append(details, apiErr.Details)
		}
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		message = "user not found"
	case errors.Is(err, model.ErrNoteNotFound):
		status = http.StatusNotFound
		message = "note not found"
	case errors.Is(err, model.ErrUserAlreadyExists):
		status = http.StatusConflict
		message = "user already exists"
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "authentication required"
	case errors.Is(err, model.ErrTokenInvalid), errors.Is(err, model.ErrTokenExpired):
		status = http.StatusUnauthorized
		message = "invalid or expired token"
	default:
		// Unclassified errors stay generic for the client but are logged.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIErrorResponse{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     details,
	})
}
