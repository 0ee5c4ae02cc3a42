package api

import (
	"bytes"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/slipgen/internal/auth"
	"github.com/erazemk/slipgen/internal/draft"
	"github.com/erazemk/slipgen/internal/imaging"
	"github.com/erazemk/slipgen/internal/model"
	"github.com/erazemk/slipgen/internal/printview"
	"github.com/erazemk/slipgen/internal/session"
	"github.com/erazemk/slipgen/internal/slip"
	"github.com/erazemk/slipgen/internal/store"
)

// DraftsHandler handles the draft session endpoints.
type DraftsHandler struct {
	DB       *sql.DB
	Sessions *session.Registry
	Secret   string
	Encoder  slip.Encoder
	QR       imaging.Renderer
	View     *printview.View
}

type createDraftResponse struct {
	SessionID  string `json:"session_id"`
	Token      string `json:"token"`
	SlipNumber string `json:"slip_number"`
	CreatedAt  string `json:"created_at"`
}

type draftState struct {
	SlipNumber    string           `json:"slip_number"`
	CreatedAt     string           `json:"created_at"`
	RequesterName string           `json:"requester_name"`
	Department    string           `json:"department"`
	Purpose       string           `json:"purpose"`
	Items         []model.LineItem `json:"items"`
	Catalog       []string         `json:"catalog"`
	Submitted     bool             `json:"submitted"`
}

type updateDraftRequest struct {
	RequesterName *string `json:"requester_name"`
	Department    *string `json:"department"`
	Purpose       *string `json:"purpose"`
}

type updateItemRequest struct {
	Field model.Field `json:"field"`
	Value string      `json:"value"`
}

type submitResponse struct {
	Slip        *model.Slip `json:"slip"`
	Payload     string      `json:"payload"`
	Fingerprint string      `json:"fingerprint"`
}

func stateOf(s *session.Session) draftState {
	d := s.Draft
	items := d.Items()
	if items == nil {
		items = []model.LineItem{}
	}
	names := d.Catalog().Names()
	if names == nil {
		names = []string{}
	}
	return draftState{
		SlipNumber:    d.SlipNumber(),
		CreatedAt:     d.CreatedAt(),
		RequesterName: d.RequesterName(),
		Department:    d.Department(),
		Purpose:       d.Purpose(),
		Items:         items,
		Catalog:       names,
		Submitted:     s.Last != nil,
	}
}

// Create handles POST /api/drafts.
func (h *DraftsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, d := h.Sessions.Create()

	token, err := auth.GenerateToken(h.Secret, id)
	if err != nil {
		h.Sessions.Discard(id)
		slog.Error("failed to generate session token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create draft")
		return
	}

	slog.Info("draft created", "session", id, "slip", d.SlipNumber())
	jsonResponse(w, http.StatusCreated, createDraftResponse{
		SessionID:  id,
		Token:      token,
		SlipNumber: d.SlipNumber(),
		CreatedAt:  d.CreatedAt(),
	})
}

// Get handles GET /api/drafts/{id}.
func (h *DraftsHandler) Get(w http.ResponseWriter, r *http.Request) {
	var state draftState
	err := h.Sessions.Do(r.PathValue("id"), func(s *session.Session) error {
		state = stateOf(s)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, state)
}

// Update handles PUT /api/drafts/{id}. Only the fields present in the body
// are replaced.
func (h *DraftsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var state draftState
	err := h.Sessions.Do(r.PathValue("id"), func(s *session.Session) error {
		if req.RequesterName != nil {
			s.Draft.SetRequesterName(*req.RequesterName)
		}
		if req.Department != nil {
			s.Draft.SetDepartment(*req.Department)
		}
		if req.Purpose != nil {
			s.Draft.SetPurpose(*req.Purpose)
		}
		state = stateOf(s)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, state)
}

// AddItem handles POST /api/drafts/{id}/items.
func (h *DraftsHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var state draftState
	err := h.Sessions.Do(r.PathValue("id"), func(s *session.Session) error {
		s.Draft.AddItem()
		state = stateOf(s)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, state)
}

// UpdateItem handles PUT /api/drafts/{id}/items/{index}.
func (h *DraftsHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item index")
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var state draftState
	err = h.Sessions.Do(r.PathValue("id"), func(s *session.Session) error {
		if err := s.Draft.UpdateItem(index, req.Field, req.Value); err != nil {
			return err
		}
		state = stateOf(s)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, state)
}

// RemoveItem handles DELETE /api/drafts/{id}/items/{index}.
func (h *DraftsHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item index")
		return
	}

	var state draftState
	err = h.Sessions.Do(r.PathValue("id"), func(s *session.Session) error {
		if err := s.Draft.RemoveItem(index); err != nil {
			return err
		}
		state = stateOf(s)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, state)
}

// Submit handles POST /api/drafts/{id}/submit.
func (h *DraftsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var sub *draft.Submission
	err := h.Sessions.Do(id, func(s *session.Session) error {
		var err error
		sub, err = s.Draft.Submit(h.Encoder)
		if err != nil {
			return err
		}
		s.Last = sub
		return nil
	})
	if err != nil {
		if draft.Code(err) != "" {
			slog.Warn("draft rejected", "session", id, "error", err)
		}
		writeError(w, err)
		return
	}

	h.rememberNames(r, sub.Slip)

	slog.Info("draft submitted", "session", id, "slip", sub.Slip.SlipNumber, "lines", sub.Slip.LineCount())
	jsonResponse(w, http.StatusOK, submitResponse{
		Slip:        sub.Slip,
		Payload:     sub.Payload,
		Fingerprint: sub.Fingerprint,
	})
}

// rememberNames stores submitted item names so later sessions offer them.
// A failure only costs future suggestions, so it is logged and ignored.
func (h *DraftsHandler) rememberNames(r *http.Request, s *model.Slip) {
	if h.DB == nil {
		return
	}
	lines := s.Lines()
	names := make([]string, 0, len(lines))
	for _, l := range lines {
		names = append(names, l.Name)
	}
	added, err := store.EnsureCatalogItems(r.Context(), h.DB, names...)
	if err != nil {
		slog.Error("failed to store catalog items", "slip", s.SlipNumber, "error", err)
		return
	}
	if added > 0 {
		slog.Info("catalog extended", "slip", s.SlipNumber, "added", added)
	}
}

// lastSubmission returns the session's latest submission.
func (h *DraftsHandler) lastSubmission(id string) (*draft.Submission, error) {
	var sub *draft.Submission
	err := h.Sessions.Do(id, func(s *session.Session) error {
		if s.Last == nil {
			return errNothingSubmitted
		}
		sub = s.Last
		return nil
	})
	return sub, err
}

// QRCode handles GET /api/drafts/{id}/qr.png. The optional size query
// parameter sets the image size in pixels.
func (h *DraftsHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	size := imaging.DefaultSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > imaging.MaxDimension {
			jsonError(w, http.StatusBadRequest, "invalid size")
			return
		}
		size = n
	}

	sub, err := h.lastSubmission(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := imaging.WritePNG(&buf, h.QR, sub.Payload, size); err != nil {
		slog.Error("failed to render qr code", "slip", sub.Slip.SlipNumber, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to render qr code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write qr response", "error", err)
	}
}

// PrintSlip handles GET /api/drafts/{id}/slip.
func (h *DraftsHandler) PrintSlip(w http.ResponseWriter, r *http.Request) {
	sub, err := h.lastSubmission(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	uri, err := imaging.DataURI(h.QR, sub.Payload, imaging.DefaultSize)
	if err != nil {
		slog.Error("failed to render qr code", "slip", sub.Slip.SlipNumber, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to render qr code")
		return
	}

	var buf bytes.Buffer
	deco := printview.Decoration{QRDataURI: uri, Fingerprint: sub.Fingerprint}
	if err := h.View.Render(&buf, sub.Slip, deco); err != nil {
		slog.Error("failed to render slip", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to render slip")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write slip response", "error", err)
	}
}

// Discard handles DELETE /api/drafts/{id}.
func (h *DraftsHandler) Discard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.Sessions.Discard(id) {
		writeError(w, session.ErrNotFound)
		return
	}
	slog.Info("draft discarded", "session", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "draft discarded"})
}
