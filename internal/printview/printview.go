// Package printview renders the human-readable, printable form of a slip.
package printview

import (
	"fmt"
	"html/template"
	"io"

	"github.com/erazemk/slipgen/internal/model"
	webembed "github.com/erazemk/slipgen/web"
)

// Decoration is optional content printed next to the slip fields.
type Decoration struct {
	// QRDataURI is an inline PNG of the slip's QR code.
	QRDataURI string
	// Fingerprint is the short payload digest printed under the code.
	Fingerprint string
}

// page is the data passed to the slip template.
type page struct {
	Slip        *model.Slip
	Lines       []model.Line
	ShowCodes   bool
	QR          template.URL
	Fingerprint string
	Stylesheet  template.CSS
}

// View renders slips from the embedded template.
type View struct {
	tmpl *template.Template
	css  template.CSS
}

// New parses the slip template.
func New() (*View, error) {
	funcs := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}
	tmpl, err := template.New("slip.html").Funcs(funcs).ParseFS(webembed.TemplatesFS(), "slip.html")
	if err != nil {
		return nil, fmt.Errorf("parsing slip template: %w", err)
	}
	return &View{tmpl: tmpl, css: template.CSS(webembed.Stylesheet())}, nil
}

// Render writes the printable slip as HTML.
func (v *View) Render(w io.Writer, s *model.Slip, deco Decoration) error {
	lines := s.Lines()
	p := page{
		Slip:        s,
		Lines:       lines,
		ShowCodes:   hasCodes(lines),
		Fingerprint: deco.Fingerprint,
		Stylesheet:  v.css,
	}
	// Only our own PNG data URIs are marked safe.
	if deco.QRDataURI != "" {
		p.QR = template.URL(deco.QRDataURI)
	}

	if err := v.tmpl.ExecuteTemplate(w, "slip", p); err != nil {
		return fmt.Errorf("rendering slip %s: %w", s.SlipNumber, err)
	}
	return nil
}

func hasCodes(lines []model.Line) bool {
	for _, l := range lines {
		if l.AccountCode != "" || l.Dimension != "" {
			return true
		}
	}
	return false
}
