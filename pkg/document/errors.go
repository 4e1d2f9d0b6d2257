package document

import "fmt"

// Code classifies parse failures.
type Code string

// Parse failure codes.
const (
	// MalformedMarkup covers XML syntax errors, stray text content and
	// unexpected elements.
	MalformedMarkup Code = "MalformedMarkup"

	// DuplicateID is reported when two items share an id.
	DuplicateID Code = "DuplicateId"

	// MissingRequiredAttribute is reported when an item violates the
	// attribute shape: a non-instance without a title, an item without
	// an id, or an instance carrying a title.
	MissingRequiredAttribute Code = "MissingRequiredAttribute"

	// InvalidNesting is reported when an element appears at a depth or
	// under a parent its kind does not allow, including children below
	// a nested Object Map item.
	InvalidNesting Code = "InvalidNesting"

	// DanglingReference is reported when instanceOf or linkTo does not
	// resolve, resolves into the wrong map, or resolves to an item of
	// the wrong shape.
	DanglingReference Code = "DanglingReference"
)

// ParseError is the single error value returned by a failed [Parse].
// ItemID and Line are set when the violation can be pinned to an item;
// Line is 1-based and 0 when unknown.
type ParseError struct {
	Code   Code
	ItemID string
	Line   int
	Detail string
	Cause  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := string(e.Code)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.ItemID != "" {
		msg = fmt.Sprintf("%s (item %q)", msg, e.ItemID)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("%s at line %d", msg, e.Line)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *ParseError) Unwrap() error { return e.Cause }

func parseErrf(code Code, itemID string, line int, format string, args ...any) *ParseError {
	return &ParseError{
		Code:   code,
		ItemID: itemID,
		Line:   line,
		Detail: fmt.Sprintf(format, args...),
	}
}
