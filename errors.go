package miniball

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for malformed point data: a nil or empty point
// set, ragged rows, zero-width rows, or non-finite coordinates.
// Match it with errors.Is; the concrete error is an *InputError.
var ErrInvalidInput = errors.New("miniball: invalid input")

// InputError describes where a point matrix was rejected.
// Row and Col are -1 when the problem is not tied to a single entry.
type InputError struct {
	Row, Col int
	Reason   string
}

func (e *InputError) Error() string {
	switch {
	case e.Row >= 0 && e.Col >= 0:
		return fmt.Sprintf("miniball: invalid input at row %d, col %d: %s", e.Row, e.Col, e.Reason)
	case e.Row >= 0:
		return fmt.Sprintf("miniball: invalid input at row %d: %s", e.Row, e.Reason)
	default:
		return "miniball: invalid input: " + e.Reason
	}
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalidInput(row, col int, format string, args ...any) error {
	return &InputError{Row: row, Col: col, Reason: fmt.Sprintf(format, args...)}
}
