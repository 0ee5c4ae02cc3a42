package draft

import "errors"

// Validation errors, reported one at a time in rule order.
var (
	ErrMissingRequester  = errors.New("requester name is required")
	ErrMissingDepartment = errors.New("department is required")
	ErrNoItems           = errors.New("at least one item is required")
	ErrNoValidItems      = errors.New("at least one item needs a name, quantity and unit")
	ErrMissingPurpose    = errors.New("purpose is required")
	ErrReservedCharacter = errors.New("field contains a reserved character")
	ErrUnknownDepartment = errors.New("unknown department")
)

// Mutation errors.
var (
	ErrOutOfRange   = errors.New("item index out of range")
	ErrUnknownField = errors.New("unknown item field")
)

// Code returns a stable identifier for a draft error, or "" if err is not
// one of the draft errors.
func Code(err error) string {
	codes := []struct {
		err  error
		code string
	}{
		{ErrMissingRequester, "missing_requester"},
		{ErrMissingDepartment, "missing_department"},
		{ErrNoItems, "no_items"},
		{ErrNoValidItems, "no_valid_items"},
		{ErrMissingPurpose, "missing_purpose"},
		{ErrReservedCharacter, "reserved_character"},
		{ErrUnknownDepartment, "unknown_department"},
		{ErrOutOfRange, "out_of_range"},
		{ErrUnknownField, "unknown_field"},
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}
