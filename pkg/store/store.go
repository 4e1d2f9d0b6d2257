// Package store persists diagram document versions.
//
// Versions are append-only: saving a document for a project assigns
// the next version number, and existing versions are never rewritten.
// Two implementations are available: MemoryStore for the CLI and
// tests, and MongoStore for the API server.
package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for version store operations.
var (
	// ErrNotFound is returned when a project or version does not exist.
	ErrNotFound = errors.New("version not found")
)

// Version is one stored revision of a project's diagram document.
type Version struct {
	Project   string    `json:"project" bson:"project"`
	Number    int64     `json:"number" bson:"number"`
	Document  string    `json:"document" bson:"document"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// VersionStore persists document versions per project.
// Implementations must assign version numbers monotonically starting
// at 1 and must never mutate a stored version.
type VersionStore interface {
	// Save stores a document as the project's next version.
	Save(ctx context.Context, project, document string) (*Version, error)

	// Get returns a specific version of a project.
	// Returns ErrNotFound if the version does not exist.
	Get(ctx context.Context, project string, number int64) (*Version, error)

	// Latest returns the most recent version of a project.
	// Returns ErrNotFound if the project has no versions.
	Latest(ctx context.Context, project string) (*Version, error)

	// List returns all versions of a project in ascending order.
	// The documents themselves are omitted to keep listings small.
	List(ctx context.Context, project string) ([]Version, error)

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
