package draft

import (
	"errors"
	"strings"
	"testing"

	"github.com/erazemk/slipgen/internal/catalog"
	"github.com/erazemk/slipgen/internal/identity"
	"github.com/erazemk/slipgen/internal/model"
	"github.com/erazemk/slipgen/internal/slip"
)

func newTestDraft(t *testing.T) *Draft {
	t.Helper()
	return New(Options{
		Identity:  identity.Fixed{SlipNumber: "SLIP-123456", CreatedAt: "2026-10-14 09:30:00"},
		Catalog:   catalog.NewSet("Keyboard", "Mouse"),
		Reference: model.DefaultReference(),
		Policy:    DefaultPolicy(),
	})
}

// completeDraft returns a draft that passes validation with one Mouse line.
func completeDraft(t *testing.T) *Draft {
	t.Helper()
	d := newTestDraft(t)
	d.SetRequesterName("Alex")
	d.SetDepartment("IT")
	d.SetPurpose("Restock")
	i := d.AddItem()
	mustUpdate(t, d, i, model.FieldName, "Mouse")
	mustUpdate(t, d, i, model.FieldQuantity, "2")
	return d
}

func mustUpdate(t *testing.T, d *Draft, index int, field model.Field, value string) {
	t.Helper()
	if err := d.UpdateItem(index, field, value); err != nil {
		t.Fatalf("UpdateItem(%d, %s, %q): %v", index, field, value, err)
	}
}

func TestNewAssignsIdentity(t *testing.T) {
	d := newTestDraft(t)
	if d.SlipNumber() != "SLIP-123456" {
		t.Errorf("expected slip number 'SLIP-123456', got %q", d.SlipNumber())
	}
	if d.CreatedAt() != "2026-10-14 09:30:00" {
		t.Errorf("unexpected created at %q", d.CreatedAt())
	}

	d.SetRequesterName("Alex")
	d.AddItem()
	if d.SlipNumber() != "SLIP-123456" || d.CreatedAt() != "2026-10-14 09:30:00" {
		t.Error("identity changed after mutation")
	}
}

func TestNewDefaults(t *testing.T) {
	d := New(Options{})
	if !strings.HasPrefix(d.SlipNumber(), identity.DefaultPrefix) {
		t.Errorf("expected default prefix, got %q", d.SlipNumber())
	}
	if d.Catalog() == nil {
		t.Fatal("expected a default catalog")
	}
}

func TestAddItemDefaults(t *testing.T) {
	d := newTestDraft(t)
	if i := d.AddItem(); i != 0 {
		t.Errorf("expected index 0, got %d", i)
	}
	if i := d.AddItem(); i != 1 {
		t.Errorf("expected index 1, got %d", i)
	}

	items := d.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	want := model.LineItem{Quantity: "1", Unit: "pcs"}
	if items[0] != want {
		t.Errorf("expected default item %+v, got %+v", want, items[0])
	}
}

func TestUpdateItemFields(t *testing.T) {
	d := newTestDraft(t)
	d.AddItem()

	mustUpdate(t, d, 0, model.FieldName, "Toner")
	mustUpdate(t, d, 0, model.FieldQuantity, "5")
	mustUpdate(t, d, 0, model.FieldUnit, "box")
	mustUpdate(t, d, 0, model.FieldAccountCode, "4100")
	mustUpdate(t, d, 0, model.FieldDimension, "CC10")

	want := model.LineItem{Name: "Toner", Quantity: "5", Unit: "box", AccountCode: "4100", Dimension: "CC10"}
	if got := d.Items()[0]; got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestUpdateItemErrors(t *testing.T) {
	d := newTestDraft(t)
	d.AddItem()

	for _, index := range []int{-1, 1, 5} {
		if err := d.UpdateItem(index, model.FieldName, "X"); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("UpdateItem(%d) error = %v, want ErrOutOfRange", index, err)
		}
	}
	if d.Catalog().Contains("X") {
		t.Error("catalog grew on a failed update")
	}

	if err := d.UpdateItem(0, model.Field("colour"), "red"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestUpdateItemGrowsCatalogOnce(t *testing.T) {
	d := newTestDraft(t)
	d.AddItem()
	d.AddItem()

	mustUpdate(t, d, 0, model.FieldName, "Widget")
	mustUpdate(t, d, 1, model.FieldName, "Widget")

	count := 0
	for _, n := range d.Catalog().Names() {
		if n == "Widget" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one 'Widget' in catalog, got %d", count)
	}

	// Existing names are not duplicated either.
	mustUpdate(t, d, 0, model.FieldName, "Mouse")
	if got := len(d.Catalog().Names()); got != 3 {
		t.Errorf("expected 3 catalog names, got %d", got)
	}
}

func TestRemoveItem(t *testing.T) {
	d := newTestDraft(t)
	for _, name := range []string{"A", "B", "C"} {
		i := d.AddItem()
		mustUpdate(t, d, i, model.FieldName, name)
	}

	if err := d.RemoveItem(1); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	items := d.Items()
	if len(items) != 2 || items[0].Name != "A" || items[1].Name != "C" {
		t.Errorf("unexpected items after removal: %+v", items)
	}
}

func TestRemoveItemOutOfRange(t *testing.T) {
	d := newTestDraft(t)
	d.AddItem()
	d.AddItem()
	before := d.Items()

	if err := d.RemoveItem(len(before)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if err := d.RemoveItem(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for -1, got %v", err)
	}
	if len(d.Items()) != len(before) {
		t.Errorf("items changed: %d -> %d", len(before), len(d.Items()))
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	d := newTestDraft(t)
	d.AddItem()
	items := d.Items()
	items[0].Name = "Changed"

	if d.Items()[0].Name != "" {
		t.Error("mutating Items() result changed the draft")
	}
}

func TestValidateOrder(t *testing.T) {
	tests := []struct {
		name  string
		setup func(d *Draft)
		want  error
	}{
		{"missing requester wins over everything", func(d *Draft) {
			d.SetRequesterName("  ")
			d.SetDepartment("")
			d.SetPurpose("")
		}, ErrMissingRequester},
		{"missing department", func(d *Draft) {
			d.SetDepartment("")
			d.SetPurpose("")
		}, ErrMissingDepartment},
		{"no items", func(d *Draft) {
			d.RemoveItem(0)
			d.SetPurpose("")
		}, ErrNoItems},
		{"fresh item has no name", func(d *Draft) {
			d.RemoveItem(0)
			d.AddItem()
		}, ErrNoValidItems},
		{"missing purpose", func(d *Draft) {
			d.SetPurpose(" \n")
		}, ErrMissingPurpose},
		{"comma in requester", func(d *Draft) {
			d.SetRequesterName("Doe, Alex")
		}, ErrReservedCharacter},
		{"pipe in item name", func(d *Draft) {
			d.UpdateItem(0, model.FieldName, "Mouse|Pad")
		}, ErrReservedCharacter},
		{"colon in dimension", func(d *Draft) {
			d.UpdateItem(0, model.FieldDimension, "CC:10")
		}, ErrReservedCharacter},
		{"unknown department", func(d *Draft) {
			d.SetDepartment("Legal")
		}, ErrUnknownDepartment},
		{"valid", func(d *Draft) {}, nil},
	}

	for _, tt := range tests {
		d := completeDraft(t)
		tt.setup(d)

		s, err := d.Validate()
		if tt.want == nil {
			if err != nil || s == nil {
				t.Errorf("%s: expected success, got %v", tt.name, err)
			}
			continue
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: Validate() error = %v, want %v", tt.name, err, tt.want)
		}
		if s != nil {
			t.Errorf("%s: expected no snapshot on failure", tt.name)
		}
	}
}

func TestValidateAddItemOnCompleteDraft(t *testing.T) {
	d := newTestDraft(t)
	d.SetRequesterName("Alex")
	d.SetDepartment("IT")
	d.SetPurpose("Restock")
	d.AddItem()

	if _, err := d.Validate(); !errors.Is(err, ErrNoValidItems) {
		t.Errorf("expected ErrNoValidItems, got %v", err)
	}
}

func TestValidateDepartmentOptional(t *testing.T) {
	d := New(Options{
		Identity:  identity.Fixed{SlipNumber: "SLIP-1"},
		Reference: model.DefaultReference(),
		Policy:    Policy{RequireDepartment: false},
	})
	d.SetRequesterName("Alex")
	d.SetPurpose("Restock")
	i := d.AddItem()
	mustUpdate(t, d, i, model.FieldName, "Mouse")

	s, err := d.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if s.Department != "" {
		t.Errorf("expected empty department, got %q", s.Department)
	}
}

func TestValidateAllowReservedCharacters(t *testing.T) {
	d := completeDraft(t)
	d.policy.AllowReservedCharacters = true
	d.SetPurpose("Restock, urgent")

	if _, err := d.Validate(); err != nil {
		t.Errorf("expected reserved characters to be allowed, got %v", err)
	}
}

func TestValidateFiltersInvalidItems(t *testing.T) {
	d := completeDraft(t)

	// No name.
	d.AddItem()
	// Non-numeric quantity.
	i := d.AddItem()
	mustUpdate(t, d, i, model.FieldName, "Pen")
	mustUpdate(t, d, i, model.FieldQuantity, "two")
	// Zero quantity.
	i = d.AddItem()
	mustUpdate(t, d, i, model.FieldName, "Ruler")
	mustUpdate(t, d, i, model.FieldQuantity, "0")
	// Unknown unit.
	i = d.AddItem()
	mustUpdate(t, d, i, model.FieldName, "Paper")
	mustUpdate(t, d, i, model.FieldUnit, "ream")
	// Valid, trimmed.
	i = d.AddItem()
	mustUpdate(t, d, i, model.FieldName, "  Stapler ")
	mustUpdate(t, d, i, model.FieldQuantity, " 3 ")
	mustUpdate(t, d, i, model.FieldUnit, "box")

	s, err := d.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	lines := s.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 valid lines, got %+v", lines)
	}
	if lines[0] != (model.Line{Name: "Mouse", Quantity: 2, Unit: "pcs"}) {
		t.Errorf("unexpected first line %+v", lines[0])
	}
	if lines[1] != (model.Line{Name: "Stapler", Quantity: 3, Unit: "box"}) {
		t.Errorf("unexpected second line %+v", lines[1])
	}

	// Invalid items are left in the draft untouched.
	if len(d.Items()) != 6 {
		t.Errorf("expected draft to keep 6 items, got %d", len(d.Items()))
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	d := newTestDraft(t)
	d.SetRequesterName("Alex")
	d.SetDepartment("IT")
	d.SetPurpose("Restock")
	i := d.AddItem()
	mustUpdate(t, d, i, model.FieldName, "Mouse")
	mustUpdate(t, d, i, model.FieldQuantity, "2")
	mustUpdate(t, d, i, model.FieldUnit, "pcs")

	sub, err := d.Submit(slip.Encoder{Version: slip.V1})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	fields := strings.Split(sub.Payload, ",")
	if got := fields[len(fields)-2]; got != "Mouse:2pcs" {
		t.Errorf("expected items segment 'Mouse:2pcs', got %q", got)
	}
	if got := fields[len(fields)-1]; got != "Purpose:Restock" {
		t.Errorf("expected trailing segment 'Purpose:Restock', got %q", got)
	}
	if sub.Fingerprint != slip.Fingerprint(sub.Payload) {
		t.Error("fingerprint does not match payload")
	}
	if sub.Slip.SlipNumber != "SLIP-123456" {
		t.Errorf("unexpected slip number %q", sub.Slip.SlipNumber)
	}

	decoded, _, err := slip.Decode(sub.Payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Department != "IT" || decoded.RequesterName != "Alex" || decoded.Purpose != "Restock" {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestSubmitInvalidEncodesNothing(t *testing.T) {
	d := newTestDraft(t)
	sub, err := d.Submit(slip.Encoder{})
	if !errors.Is(err, ErrMissingRequester) {
		t.Errorf("expected ErrMissingRequester, got %v", err)
	}
	if sub != nil {
		t.Error("expected no submission")
	}
}

func TestCode(t *testing.T) {
	if got := Code(ErrNoItems); got != "no_items" {
		t.Errorf("expected 'no_items', got %q", got)
	}
	d := newTestDraft(t)
	if got := Code(d.RemoveItem(0)); got != "out_of_range" {
		t.Errorf("expected wrapped error to map to 'out_of_range', got %q", got)
	}
	if got := Code(errors.New("other")); got != "" {
		t.Errorf("expected empty code, got %q", got)
	}
}
