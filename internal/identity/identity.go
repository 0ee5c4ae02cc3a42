package identity

import (
	"strconv"
	"time"
)

// Defaults for Clock.
const (
	DefaultPrefix = "SLIP-"
	DefaultDigits = 6
	DefaultLayout = "2006-01-02 15:04:05"
)

// Identity is the slip number and creation time assigned to a new draft.
type Identity struct {
	SlipNumber string
	CreatedAt  string
	Time       time.Time
}

// Provider hands out identities for new drafts.
type Provider interface {
	Next() Identity
}

// Clock derives identities from the current time. The slip number is the
// prefix followed by the last Digits digits of the Unix millisecond
// timestamp, so two drafts created in the same millisecond collide.
type Clock struct {
	Now    func() time.Time
	Prefix string
	Digits int
	Layout string
}

// NewClock returns a Clock with the default prefix, digit count and layout.
func NewClock() *Clock {
	return &Clock{
		Now:    time.Now,
		Prefix: DefaultPrefix,
		Digits: DefaultDigits,
		Layout: DefaultLayout,
	}
}

// Next returns the identity for the current instant.
func (c *Clock) Next() Identity {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	layout := c.Layout
	if layout == "" {
		layout = DefaultLayout
	}
	digits := c.Digits
	if digits <= 0 {
		digits = DefaultDigits
	}

	t := now()
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > digits {
		ms = ms[len(ms)-digits:]
	}

	return Identity{
		SlipNumber: c.Prefix + ms,
		CreatedAt:  t.Format(layout),
		Time:       t,
	}
}

// Fixed always returns the same identity.
type Fixed Identity

// Next returns the fixed identity.
func (f Fixed) Next() Identity {
	return Identity(f)
}
