package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/erazemk/slipgen/internal/draft"
	"github.com/erazemk/slipgen/internal/session"
	"github.com/erazemk/slipgen/internal/slip"
)

// errNothingSubmitted is returned for print and QR requests before the
// draft was submitted successfully.
var errNothingSubmitted = errors.New("draft has not been submitted")

type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Segment string `json:"segment,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{Error: message})
}

// writeError maps domain errors to a status code and a stable error code.
func writeError(w http.ResponseWriter, err error) {
	var itemErr *slip.ItemError
	switch {
	case errors.Is(err, session.ErrNotFound):
		jsonResponse(w, http.StatusNotFound, errorBody{Error: err.Error(), Code: "session_not_found"})
	case errors.Is(err, draft.ErrOutOfRange):
		jsonResponse(w, http.StatusNotFound, errorBody{Error: err.Error(), Code: draft.Code(err)})
	case errors.Is(err, draft.ErrUnknownField):
		jsonResponse(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: draft.Code(err)})
	case draft.Code(err) != "":
		jsonResponse(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Code: draft.Code(err)})
	case errors.Is(err, errNothingSubmitted):
		jsonResponse(w, http.StatusConflict, errorBody{Error: err.Error(), Code: "not_submitted"})
	case errors.As(err, &itemErr):
		jsonResponse(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Code: "malformed_item", Segment: itemErr.Segment})
	case errors.Is(err, slip.ErrMalformedPayload):
		jsonResponse(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Code: "malformed_payload"})
	default:
		slog.Error("request failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(target)
}
