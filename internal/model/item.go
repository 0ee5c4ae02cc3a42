package model

// LineItem is one requested entry as it is being edited. Quantity holds the
// raw text supplied by the form so bad input survives until validation.
type LineItem struct {
	Name        string `json:"name"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	AccountCode string `json:"account_code,omitempty"`
	Dimension   string `json:"dimension,omitempty"`
}

// Line is a validated line item.
type Line struct {
	Name        string `json:"name" yaml:"name"`
	Quantity    int    `json:"quantity" yaml:"quantity"`
	Unit        string `json:"unit" yaml:"unit"`
	AccountCode string `json:"account_code,omitempty" yaml:"account_code,omitempty"`
	Dimension   string `json:"dimension,omitempty" yaml:"dimension,omitempty"`
}

// Field names a single editable attribute of a LineItem.
type Field string

// Line item fields.
const (
	FieldName        Field = "name"
	FieldQuantity    Field = "quantity"
	FieldUnit        Field = "unit"
	FieldAccountCode Field = "account_code"
	FieldDimension   Field = "dimension"
)

// Valid reports whether f names a LineItem field.
func (f Field) Valid() bool {
	switch f {
	case FieldName, FieldQuantity, FieldUnit, FieldAccountCode, FieldDimension:
		return true
	}
	return false
}
