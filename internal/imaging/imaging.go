// Package imaging turns payloads into QR code images for display and print.
// The QR symbol itself comes from an external renderer; this package sizes
// and encodes the result.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// MaxDimension is the largest width or height an output image may have.
const MaxDimension = 1024

// DefaultSize is the output size used when none is requested, matching the
// on-screen code of the request form.
const DefaultSize = 256

// Renderer turns a payload into a QR code image.
type Renderer interface {
	Render(payload string) (image.Image, error)
}

// QRCode renders payloads with go-qrcode at one pixel per module.
type QRCode struct {
	Level qrcode.RecoveryLevel
}

// NewQRCode returns a renderer using medium error correction.
func NewQRCode() *QRCode {
	return &QRCode{Level: qrcode.Medium}
}

// Render returns the code for payload, including the quiet zone.
func (q *QRCode) Render(payload string) (image.Image, error) {
	code, err := qrcode.New(payload, q.Level)
	if err != nil {
		return nil, fmt.Errorf("rendering qr code: %w", err)
	}
	// A negative size is pixels per module.
	return code.Image(-1), nil
}

// Scale enlarges img by the largest whole factor that keeps it within size
// pixels, so every module stays a sharp square. Images already larger than
// size are returned unchanged.
func Scale(img image.Image, size int) image.Image {
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxDimension {
		size = MaxDimension
	}

	bounds := img.Bounds()
	side := max(bounds.Dx(), bounds.Dy())
	factor := size / side
	if factor <= 1 {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// WritePNG renders payload, scales it to size and writes it as PNG.
func WritePNG(w io.Writer, r Renderer, payload string, size int) error {
	img, err := r.Render(payload)
	if err != nil {
		return err
	}
	if err := png.Encode(w, Scale(img, size)); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// DataURI returns the PNG for payload as a data: URI for inline embedding.
func DataURI(r Renderer, payload string, size int) (string, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, r, payload, size); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
