package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/slipgen/internal/imaging"
	"github.com/erazemk/slipgen/internal/model"
	"github.com/erazemk/slipgen/internal/printview"
	"github.com/erazemk/slipgen/internal/session"
	"github.com/erazemk/slipgen/internal/slip"
)

// Options holds the router's dependencies. DB may be nil, in which case
// submitted item names are not stored.
type Options struct {
	DB        *sql.DB
	Sessions  *session.Registry
	Secret    string
	Reference model.ReferenceData
	Encoder   slip.Encoder
	QR        imaging.Renderer
	View      *printview.View
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(opts Options) http.Handler {
	mux := http.NewServeMux()

	drafts := &DraftsHandler{
		DB:       opts.DB,
		Sessions: opts.Sessions,
		Secret:   opts.Secret,
		Encoder:  opts.Encoder,
		QR:       opts.QR,
		View:     opts.View,
	}
	payloads := &PayloadsHandler{}
	reference := &ReferenceHandler{Reference: opts.Reference}

	owner := SessionMiddleware(opts.Secret)

	// Public.
	mux.HandleFunc("GET /api/reference", reference.Get)
	mux.HandleFunc("POST /api/drafts", drafts.Create)
	mux.HandleFunc("POST /api/payloads/decode", payloads.Decode)

	// Session owner only.
	mux.Handle("GET /api/drafts/{id}", owner(http.HandlerFunc(drafts.Get)))
	mux.Handle("PUT /api/drafts/{id}", owner(http.HandlerFunc(drafts.Update)))
	mux.Handle("DELETE /api/drafts/{id}", owner(http.HandlerFunc(drafts.Discard)))
	mux.Handle("POST /api/drafts/{id}/items", owner(http.HandlerFunc(drafts.AddItem)))
	mux.Handle("PUT /api/drafts/{id}/items/{index}", owner(http.HandlerFunc(drafts.UpdateItem)))
	mux.Handle("DELETE /api/drafts/{id}/items/{index}", owner(http.HandlerFunc(drafts.RemoveItem)))
	mux.Handle("POST /api/drafts/{id}/submit", owner(http.HandlerFunc(drafts.Submit)))
	mux.Handle("GET /api/drafts/{id}/qr.png", owner(http.HandlerFunc(drafts.QRCode)))
	mux.Handle("GET /api/drafts/{id}/slip", owner(http.HandlerFunc(drafts.PrintSlip)))

	return mux
}
