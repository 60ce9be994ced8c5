// Package errors provides the structured diagnostic type shared by every
// pass of the reversible core: the type engine, the inference driver, the
// lowering engine, and the partial evaluator all return *Report instead of
// a bare error, so a span and a set of notes survive up to the caller.
package errors

import (
	"encoding/json"
	"errors"
)

// Span is a primary source location: a source id plus a byte range.
// Renderers (outside the core) turn this into line/column information.
type Span struct {
	SourceID string `json:"source_id"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// Report is the canonical structured diagnostic.
type Report struct {
	Schema  string         `json:"schema"` // always "lexica.error/v1"
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *Span          `json:"span,omitempty"`
	Notes   []string       `json:"notes,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report as an error so it survives errors.As.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap wraps a Report as an error. Call sites should return errors.Wrap(r)
// rather than constructing a plain error, so the Report survives.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// Note appends a contextual note and returns the same Report, for chaining:
// return nil, errors.Wrap(New(...).Note("in parsing a binding"))
func (r *Report) Note(note string) *Report {
	r.Notes = append(r.Notes, note)
	return r
}

// At attaches a primary span.
func (r *Report) At(span Span) *Report {
	r.Span = &span
	return r
}

// New constructs a Report for the given phase/code.
func New(phase, code, message string) *Report {
	return &Report{Schema: "lexica.error/v1", Phase: phase, Code: code, Message: message}
}

// ToJSON renders the Report as deterministic JSON.
func (r *Report) ToJSON(indent bool) (string, error) {
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = json.Marshal(r)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
