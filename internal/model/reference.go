package model

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// Delimiters are the characters the slip payload uses as separators.
const Delimiters = ",|:"

// ReferenceData holds the fixed code lists a request is composed from.
type ReferenceData struct {
	Departments  []string `json:"departments" yaml:"departments"`
	Units        []string `json:"units" yaml:"units"`
	AccountCodes []string `json:"account_codes" yaml:"account_codes"`
	Dimensions   []string `json:"dimensions" yaml:"dimensions"`
}

// DefaultReference returns the code lists used when nothing is configured.
func DefaultReference() ReferenceData {
	return ReferenceData{
		Departments:  []string{"IT", "HR", "Accounts", "Operations", "Maintenance"},
		Units:        []string{"pcs", "box", "set", "pack"},
		AccountCodes: []string{},
		Dimensions:   []string{},
	}
}

// DefaultUnit returns the first configured unit, or "" if there are none.
func (r ReferenceData) DefaultUnit() string {
	if len(r.Units) == 0 {
		return ""
	}
	return r.Units[0]
}

// HasUnit reports whether unit is allowed. Any non-empty unit is allowed
// when no units are configured.
func (r ReferenceData) HasUnit(unit string) bool {
	if unit == "" {
		return false
	}
	return len(r.Units) == 0 || slices.Contains(r.Units, unit)
}

// HasDepartment reports whether dep is a configured department. Any
// department is accepted when none are configured.
func (r ReferenceData) HasDepartment(dep string) bool {
	return len(r.Departments) == 0 || slices.Contains(r.Departments, dep)
}

// Validate checks that every code can be carried in a payload unambiguously.
func (r ReferenceData) Validate() error {
	lists := []struct {
		name  string
		codes []string
	}{
		{"departments", r.Departments},
		{"units", r.Units},
		{"account_codes", r.AccountCodes},
		{"dimensions", r.Dimensions},
	}

	for _, l := range lists {
		seen := make(map[string]bool, len(l.codes))
		for _, c := range l.codes {
			if strings.TrimSpace(c) == "" {
				return fmt.Errorf("%s: blank code", l.name)
			}
			if strings.ContainsAny(c, Delimiters) {
				return fmt.Errorf("%s: code %q contains a payload delimiter", l.name, c)
			}
			if seen[c] {
				return fmt.Errorf("%s: duplicate code %q", l.name, c)
			}
			seen[c] = true
		}
	}

	// Units directly follow the quantity digits in the payload.
	for _, u := range r.Units {
		if unicode.IsDigit([]rune(u)[0]) {
			return fmt.Errorf("units: code %q must not start with a digit", u)
		}
	}

	return nil
}

