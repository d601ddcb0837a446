package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/talentloop/talentloop/internal/apperr"
)

type errorBody struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps error kinds onto status codes. Internal errors are logged
// and rendered generically so details never leak.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)

	var status int
	switch kind {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindUnauthorized:
		status = http.StatusForbidden
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindValidation:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
		slog.Error("internal error", "error", err)
	}

	writeJSON(w, status, errorEnvelope{Error: errorBody{Kind: kind, Message: apperr.MessageOf(err)}})
}

func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
