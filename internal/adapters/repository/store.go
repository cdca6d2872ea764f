// Package repository holds published scene state for readers outside the
// frame loop.
package repository

import (
	"context"

	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/domain/scene"
)

// Store provides read/write access to published scene state.
type Store interface {
	// Publish copies frame into a new immutable snapshot and returns its version.
	Publish(ctx context.Context, seed int64, frame scene.Frame) uint64

	// Snapshot returns the latest snapshot.
	// Returns ErrNoSnapshot before the first Publish.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Element returns one element of the latest snapshot.
	// Returns ErrElementNotFound for an unknown id.
	Element(ctx context.Context, id int) (model.Element, error)

	// Version returns the latest published version, 0 if none.
	Version(ctx context.Context) uint64
}
