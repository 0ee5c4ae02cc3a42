package api

import (
	"net/http"

	"github.com/erazemk/slipgen/internal/model"
	"github.com/erazemk/slipgen/internal/slip"
)

// PayloadsHandler parses scanned payloads.
type PayloadsHandler struct{}

type decodeRequest struct {
	Payload string `json:"payload"`
}

type decodeResponse struct {
	Version     int         `json:"version"`
	Slip        *model.Slip `json:"slip"`
	Fingerprint string      `json:"fingerprint"`
}

// Decode handles POST /api/payloads/decode.
func (h *PayloadsHandler) Decode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, v, err := slip.Decode(req.Payload)
	if err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, decodeResponse{
		Version:     int(v),
		Slip:        s,
		Fingerprint: slip.Fingerprint(req.Payload),
	})
}

// ReferenceHandler serves the configured code lists.
type ReferenceHandler struct {
	Reference model.ReferenceData
}

// Get handles GET /api/reference.
func (h *ReferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Reference)
}
