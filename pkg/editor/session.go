package editor

import (
	"strings"

	"github.com/google/uuid"

	"github.com/archmap/archmap/pkg/diagram"
	"github.com/archmap/archmap/pkg/document"
)

// UndoDepth is the maximum number of undo snapshots a session keeps.
// Older snapshots fall off the bottom of the stack.
const UndoDepth = 50

// Session is one editing session: the live tree, its registry, and the
// undo stack. A session is owned by a single actor and is not safe for
// concurrent use; independent sessions are fully isolated.
type Session struct {
	tree *diagram.Tree
	reg  *diagram.Registry
	undo []string
}

// New starts a session over an existing tree.
func New(tree *diagram.Tree) (*Session, error) {
	reg, err := diagram.Build(tree)
	if err != nil {
		return nil, err
	}
	return &Session{tree: tree, reg: reg}, nil
}

// Open starts a session by parsing a stored document.
func Open(doc string) (*Session, error) {
	tree, reg, err := document.Parse(doc)
	if err != nil {
		return nil, err
	}
	return &Session{tree: tree, reg: reg}, nil
}

// Tree returns the live tree. Callers must not mutate it directly;
// use the session's operations so invariants and undo stay intact.
func (s *Session) Tree() *diagram.Tree { return s.tree }

// Registry returns the registry for the current tree state.
func (s *Session) Registry() *diagram.Registry { return s.reg }

// Document serializes the current tree.
func (s *Session) Document() string { return document.Generate(s.tree) }

// CanUndo reports whether an undo snapshot is available.
func (s *Session) CanUndo() bool { return len(s.undo) > 0 }

// Undo restores the most recent snapshot, replacing tree and registry
// atomically. Returns ErrNothingToUndo on an empty stack.
func (s *Session) Undo() error {
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	snap := s.undo[len(s.undo)-1]
	tree, reg, err := document.Parse(snap)
	if err != nil {
		// Snapshots are generated from a valid tree; failing to parse
		// one back is a defect, and the current state stays in place.
		return err
	}
	s.undo = s.undo[:len(s.undo)-1]
	s.tree = tree
	s.reg = reg
	return nil
}

// snapshot pushes the current document onto the undo stack. Called
// after validation and immediately before a mutation is applied.
func (s *Session) snapshot() {
	if len(s.undo) == UndoDepth {
		copy(s.undo, s.undo[1:])
		s.undo = s.undo[:UndoDepth-1]
	}
	s.undo = append(s.undo, document.Generate(s.tree))
}

// rebuild re-indexes the tree after a structural change.
func (s *Session) rebuild() {
	reg, err := diagram.Build(s.tree)
	if err != nil {
		// Mutations validate id uniqueness up front; a rebuild failure
		// means a validation gap. Restore the snapshot taken for undo.
		if restoreErr := s.Undo(); restoreErr != nil {
			panic("editor: tree corrupted and unrecoverable: " + err.Error())
		}
		panic("editor: mutation produced an invalid tree: " + err.Error())
	}
	s.reg = reg
}

// NewItemID generates a fresh item id for the given kind, in the
// conventional "<kind>_<suffix>" shape.
func NewItemID(kind diagram.Kind) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return strings.ToLower(string(kind)) + "_" + suffix
}
