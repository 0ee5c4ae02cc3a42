// Package slip encodes validated requests into the flat payload string that
// is embedded in the QR code, and parses such payloads back.
//
// The V1 payload is the legacy form:
//
//	slipNumber,createdAt,department,requesterName,items,Purpose:purpose
//
// where items is "name:quantityunit" entries joined by "|". V2 prefixes the
// same fields with the MRS2 tag and lets an item carry
// ":accountCode:dimension". Free text is not escaped in either version.
package slip

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/erazemk/slipgen/internal/model"
)

// Version selects the payload schema.
type Version int

// Payload schema versions.
const (
	V1 Version = 1
	V2 Version = 2

	Latest = V2
)

// Tag marks a V2 payload. It is the first top-level field.
const Tag = "MRS2"

// PurposePrefix starts the last top-level field.
const PurposePrefix = "Purpose:"

const (
	fieldSep = ","
	itemSep  = "|"
	partSep  = ":"
)

// Decode errors.
var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrMalformedItem    = errors.New("malformed item")
)

// ItemError reports which item segment could not be parsed.
type ItemError struct {
	Index   int
	Segment string
	Reason  string
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("malformed item %d %q: %s", e.Index, e.Segment, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedItem.
func (e *ItemError) Unwrap() error {
	return ErrMalformedItem
}

// ParseVersion converts a configured schema number into a Version.
func ParseVersion(n int) (Version, error) {
	switch Version(n) {
	case V1, V2:
		return Version(n), nil
	case 0:
		return Latest, nil
	}
	return 0, fmt.Errorf("unsupported payload version %d", n)
}

// Encoder renders slips in one schema version. The zero value encodes the
// latest version.
type Encoder struct {
	Version Version
}

// Encode renders s as a payload. s must come from a successful validation;
// Encode does not check it.
func (e Encoder) Encode(s *model.Slip) string {
	v := e.Version
	if v == 0 {
		v = Latest
	}

	lines := s.Lines()
	items := make([]string, 0, len(lines))
	for _, l := range lines {
		items = append(items, encodeLine(l, v))
	}

	fields := []string{
		s.SlipNumber,
		s.CreatedAt,
		s.Department,
		s.RequesterName,
		strings.Join(items, itemSep),
		PurposePrefix + s.Purpose,
	}
	if v >= V2 {
		fields = append([]string{Tag}, fields...)
	}
	return strings.Join(fields, fieldSep)
}

func encodeLine(l model.Line, v Version) string {
	var b strings.Builder
	b.WriteString(l.Name)
	b.WriteString(partSep)
	b.WriteString(strconv.Itoa(l.Quantity))
	b.WriteString(l.Unit)
	if v >= V2 && (l.AccountCode != "" || l.Dimension != "") {
		b.WriteString(partSep)
		b.WriteString(l.AccountCode)
		b.WriteString(partSep)
		b.WriteString(l.Dimension)
	}
	return b.String()
}

// Decode parses a payload of either version. The version is detected from
// the leading tag.
func Decode(payload string) (*model.Slip, Version, error) {
	fields := strings.Split(payload, fieldSep)

	v := V1
	if fields[0] == Tag {
		v = V2
		fields = fields[1:]
	}
	if len(fields) != 6 {
		return nil, v, fmt.Errorf("%w: expected 6 fields, got %d", ErrMalformedPayload, len(fields))
	}

	purpose, ok := strings.CutPrefix(fields[5], PurposePrefix)
	if !ok {
		return nil, v, fmt.Errorf("%w: last field must start with %q", ErrMalformedPayload, PurposePrefix)
	}

	var lines []model.Line
	if fields[4] != "" {
		for i, seg := range strings.Split(fields[4], itemSep) {
			l, err := decodeLine(seg, v)
			if err != nil {
				err.Index = i
				return nil, v, err
			}
			lines = append(lines, l)
		}
	}

	return model.NewSlip(fields[0], fields[1], fields[2], fields[3], purpose, lines), v, nil
}

func decodeLine(seg string, v Version) (model.Line, *ItemError) {
	parts := strings.Split(seg, partSep)
	switch {
	case len(parts) == 2:
	case len(parts) == 4 && v >= V2:
	default:
		return model.Line{}, &ItemError{Segment: seg, Reason: fmt.Sprintf("unexpected %d parts", len(parts))}
	}

	if parts[0] == "" {
		return model.Line{}, &ItemError{Segment: seg, Reason: "missing name"}
	}

	qty, unit, ok := splitQuantity(parts[1])
	if !ok {
		return model.Line{}, &ItemError{Segment: seg, Reason: "quantity and unit not separable"}
	}

	l := model.Line{Name: parts[0], Quantity: qty, Unit: unit}
	if len(parts) == 4 {
		l.AccountCode = parts[2]
		l.Dimension = parts[3]
	}
	return l, nil
}

// splitQuantity splits "12pcs" at the boundary between the leading digits
// and the unit.
func splitQuantity(s string) (int, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) {
		return 0, "", false
	}
	qty, err := strconv.Atoi(s[:i])
	if err != nil || qty < 1 {
		return 0, "", false
	}
	return qty, s[i:], true
}
