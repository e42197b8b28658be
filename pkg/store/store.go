// Package store keeps generated scenes so they can be listed and rendered
// again later.
//
// Two backends are provided:
//   - file: one JSON document per scene under a directory (CLI)
//   - mongo: a MongoDB collection (HTTP server, shared deployments)
//
// # Usage
//
//	st, err := store.NewFileStore("")  // ~/.local/share/meru/scenes
//	rec := store.NewRecord(sc, "stock tree")
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
//	got, err := st.Get(ctx, rec.ID)   // NOT_FOUND if missing
//	recent, err := st.List(ctx, 20)   // newest first
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/meru/pkg/scene"
)

// Record is a stored scene.
type Record struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name,omitempty" bson:"name,omitempty"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	Scene     *scene.Scene `json:"scene" bson:"scene"`
}

// Summary describes a stored scene without its payload.
type Summary struct {
	ID        string     `json:"id" bson:"_id"`
	Name      string     `json:"name,omitempty" bson:"name,omitempty"`
	Kind      scene.Kind `json:"kind" bson:"kind"`
	Title     string     `json:"title,omitempty" bson:"title,omitempty"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
}

// Summary returns the record without its payload.
func (r *Record) Summary() Summary {
	s := Summary{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
	if r.Scene != nil {
		s.Kind = r.Scene.Kind
		s.Title = r.Scene.Title
	}
	return s
}

// NewRecord wraps a scene with a fresh random ID.
func NewRecord(sc *scene.Scene, name string) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Scene:     sc,
	}
}

// Store is the interface for scene storage backends.
type Store interface {
	// Put inserts or replaces a record.
	Put(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit summaries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
