package model

import "encoding/json"

// Slip is the immutable snapshot of a validated request. It only carries
// valid lines, in the order they were added to the draft.
type Slip struct {
	SlipNumber    string `json:"slip_number"`
	CreatedAt     string `json:"created_at"`
	Department    string `json:"department"`
	RequesterName string `json:"requester_name"`
	Purpose       string `json:"purpose"`
	lines         []Line
}

// NewSlip builds a slip, copying lines so later edits by the caller do not
// leak into the snapshot.
func NewSlip(slipNumber, createdAt, department, requester, purpose string, lines []Line) *Slip {
	return &Slip{
		SlipNumber:    slipNumber,
		CreatedAt:     createdAt,
		Department:    department,
		RequesterName: requester,
		Purpose:       purpose,
		lines:         append([]Line(nil), lines...),
	}
}

// Lines returns a copy of the slip's lines.
func (s *Slip) Lines() []Line {
	return append([]Line(nil), s.lines...)
}

// LineCount returns the number of lines on the slip.
func (s *Slip) LineCount() int {
	return len(s.lines)
}

type slipJSON struct {
	SlipNumber    string `json:"slip_number"`
	CreatedAt     string `json:"created_at"`
	Department    string `json:"department"`
	RequesterName string `json:"requester_name"`
	Purpose       string `json:"purpose"`
	Lines         []Line `json:"lines"`
}

// MarshalJSON includes the lines, which are not exported as a field.
func (s *Slip) MarshalJSON() ([]byte, error) {
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(slipJSON{
		SlipNumber:    s.SlipNumber,
		CreatedAt:     s.CreatedAt,
		Department:    s.Department,
		RequesterName: s.RequesterName,
		Purpose:       s.Purpose,
		Lines:         lines,
	})
}
