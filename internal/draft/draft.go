// Package draft holds the in-progress material request and decides when it
// is complete enough to become a slip.
package draft

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/erazemk/slipgen/internal/catalog"
	"github.com/erazemk/slipgen/internal/identity"
	"github.com/erazemk/slipgen/internal/model"
	"github.com/erazemk/slipgen/internal/slip"
)

// Policy switches the revision-dependent validation rules.
type Policy struct {
	RequireDepartment bool `yaml:"require_department"`

	// AllowReservedCharacters skips the check for payload delimiters in
	// free text. The payload is then not guaranteed to decode.
	AllowReservedCharacters bool `yaml:"allow_reserved_characters"`
}

// DefaultPolicy requires a department and rejects reserved characters.
func DefaultPolicy() Policy {
	return Policy{RequireDepartment: true}
}

// Options configures a new Draft. Nil Identity and Catalog get defaults.
type Options struct {
	Identity  identity.Provider
	Catalog   catalog.Catalog
	Reference model.ReferenceData
	Policy    Policy
}

// Draft is a mutable material request. A Draft is owned by a single
// session and is not safe for concurrent use.
type Draft struct {
	slipNumber string
	createdAt  string

	requesterName string
	department    string
	purpose       string
	items         []model.LineItem

	catalog catalog.Catalog
	ref     model.ReferenceData
	policy  Policy
}

// New creates a draft with a fresh slip number and creation time.
func New(opts Options) *Draft {
	provider := opts.Identity
	if provider == nil {
		provider = identity.NewClock()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.NewSet()
	}

	id := provider.Next()
	return &Draft{
		slipNumber: id.SlipNumber,
		createdAt:  id.CreatedAt,
		catalog:    cat,
		ref:        opts.Reference,
		policy:     opts.Policy,
	}
}

// SlipNumber returns the identifier assigned at creation.
func (d *Draft) SlipNumber() string { return d.slipNumber }

// CreatedAt returns the creation time as rendered at creation.
func (d *Draft) CreatedAt() string { return d.createdAt }

// RequesterName returns the requester as entered.
func (d *Draft) RequesterName() string { return d.requesterName }

// Department returns the selected department, "" if none.
func (d *Draft) Department() string { return d.department }

// Purpose returns the purpose as entered.
func (d *Draft) Purpose() string { return d.purpose }

// Catalog returns the catalog name updates are recorded in.
func (d *Draft) Catalog() catalog.Catalog { return d.catalog }

// Reference returns the code lists the draft was created with.
func (d *Draft) Reference() model.ReferenceData { return d.ref }

// SetRequesterName replaces the requester name.
func (d *Draft) SetRequesterName(s string) { d.requesterName = s }

// SetDepartment replaces the department. "" clears the selection.
func (d *Draft) SetDepartment(s string) { d.department = s }

// SetPurpose replaces the purpose.
func (d *Draft) SetPurpose(s string) { d.purpose = s }

// Items returns a copy of the items in insertion order.
func (d *Draft) Items() []model.LineItem {
	return append([]model.LineItem(nil), d.items...)
}

// AddItem appends an empty item with quantity 1 and the default unit and
// returns its index.
func (d *Draft) AddItem() int {
	d.items = append(d.items, model.LineItem{
		Quantity: "1",
		Unit:     d.ref.DefaultUnit(),
	})
	return len(d.items) - 1
}

// UpdateItem replaces one field of the item at index. A new name is added
// to the catalog before the item is updated.
func (d *Draft) UpdateItem(index int, field model.Field, value string) error {
	if index < 0 || index >= len(d.items) {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(d.items))
	}

	item := &d.items[index]
	switch field {
	case model.FieldName:
		d.catalog.Ensure(value)
		item.Name = value
	case model.FieldQuantity:
		item.Quantity = value
	case model.FieldUnit:
		item.Unit = value
	case model.FieldAccountCode:
		item.AccountCode = value
	case model.FieldDimension:
		item.Dimension = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// RemoveItem deletes the item at index, keeping the order of the rest.
func (d *Draft) RemoveItem(index int) error {
	if index < 0 || index >= len(d.items) {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(d.items))
	}
	d.items = append(d.items[:index], d.items[index+1:]...)
	return nil
}

// Validate checks the draft and returns a snapshot holding only its valid
// items. Rules run in a fixed order and the first failing rule is returned.
func (d *Draft) Validate() (*model.Slip, error) {
	requester := strings.TrimSpace(d.requesterName)
	purpose := strings.TrimSpace(d.purpose)

	if requester == "" {
		return nil, ErrMissingRequester
	}
	if d.policy.RequireDepartment && d.department == "" {
		return nil, ErrMissingDepartment
	}
	if len(d.items) == 0 {
		return nil, ErrNoItems
	}

	var lines []model.Line
	for _, item := range d.items {
		if l, ok := d.line(item); ok {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil, ErrNoValidItems
	}

	if purpose == "" {
		return nil, ErrMissingPurpose
	}

	if !d.policy.AllowReservedCharacters {
		if err := checkReserved(requester, d.department, purpose, lines); err != nil {
			return nil, err
		}
	}

	if d.department != "" && !d.ref.HasDepartment(d.department) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, d.department)
	}

	return model.NewSlip(d.slipNumber, d.createdAt, d.department, requester, purpose, lines), nil
}

// line converts item into a validated line. An item is valid when it has a
// name, a positive whole quantity and a known unit.
func (d *Draft) line(item model.LineItem) (model.Line, bool) {
	name := strings.TrimSpace(item.Name)
	if name == "" {
		return model.Line{}, false
	}
	qty, err := strconv.Atoi(strings.TrimSpace(item.Quantity))
	if err != nil || qty < 1 {
		return model.Line{}, false
	}
	if !d.ref.HasUnit(item.Unit) || unicode.IsDigit([]rune(item.Unit)[0]) {
		return model.Line{}, false
	}
	return model.Line{
		Name:        name,
		Quantity:    qty,
		Unit:        item.Unit,
		AccountCode: item.AccountCode,
		Dimension:   item.Dimension,
	}, true
}

// checkReserved rejects free text that would break the payload layout.
// Top-level fields may not contain commas; item parts may not contain any
// delimiter.
func checkReserved(requester, department, purpose string, lines []model.Line) error {
	top := []struct{ field, value string }{
		{"requester_name", requester},
		{"department", department},
		{"purpose", purpose},
	}
	for _, f := range top {
		if strings.Contains(f.value, ",") {
			return fmt.Errorf("%w: %s", ErrReservedCharacter, f.field)
		}
	}

	for _, l := range lines {
		parts := []struct{ field, value string }{
			{"name", l.Name},
			{"unit", l.Unit},
			{"account_code", l.AccountCode},
			{"dimension", l.Dimension},
		}
		for _, p := range parts {
			if strings.ContainsAny(p.value, model.Delimiters) {
				return fmt.Errorf("%w: %s of item %q", ErrReservedCharacter, p.field, l.Name)
			}
		}
	}
	return nil
}

// Submission is the result of a successful submit.
type Submission struct {
	Slip        *model.Slip
	Payload     string
	Fingerprint string
}

// Submit validates the draft and encodes it. Nothing is encoded when
// validation fails.
func (d *Draft) Submit(enc slip.Encoder) (*Submission, error) {
	s, err := d.Validate()
	if err != nil {
		return nil, err
	}
	payload := enc.Encode(s)
	return &Submission{
		Slip:        s,
		Payload:     payload,
		Fingerprint: slip.Fingerprint(payload),
	}, nil
}
