package editor

import (
	"errors"
	"fmt"
)

// ErrNothingToUndo is returned by [Session.Undo] on an empty undo stack.
var ErrNothingToUndo = errors.New("nothing to undo")

// Code classifies mutation rejections.
type Code string

// Mutation rejection codes.
const (
	// NestingDepthExceeded rejects children below a nested Object Map
	// item.
	NestingDepthExceeded Code = "NestingDepthExceeded"

	// DuplicateID rejects inserts that would reuse an existing id.
	DuplicateID Code = "DuplicateId"

	// DanglingLinkTarget rejects linkTo or instanceOf references that
	// do not resolve, or instanceOf references of the wrong shape.
	DanglingLinkTarget Code = "DanglingLinkTarget"

	// CrossMapLink rejects linkTo edges and moves that would cross the
	// Object Map / Site Map boundary.
	CrossMapLink Code = "CrossMapLink"

	// NotFound rejects operations addressing an unknown id.
	NotFound Code = "NotFound"

	// InvalidItem rejects shape violations: wrong kind for the
	// position, missing title, titling an instance, moving an item
	// under its own descendant.
	InvalidItem Code = "InvalidItem"
)

// MutationError is the error value for a rejected mutation. The tree is
// guaranteed unchanged when one is returned.
type MutationError struct {
	Code   Code
	ItemID string
	Detail string
}

// Error implements the error interface.
func (e *MutationError) Error() string {
	msg := string(e.Code)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.ItemID != "" {
		msg = fmt.Sprintf("%s (item %q)", msg, e.ItemID)
	}
	return msg
}

func mutErrf(code Code, itemID, format string, args ...any) *MutationError {
	return &MutationError{Code: code, ItemID: itemID, Detail: fmt.Sprintf(format, args...)}
}
