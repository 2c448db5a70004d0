// Package docstore defines the document-store contract the application is
// written against: collection-based CRUD plus live queries that re-deliver a
// full snapshot of a collection whenever it changes.
package docstore

import "context"

type Document struct {
	ID     string
	Fields map[string]any
}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Subscription is a live query over one collection. Snapshots yields the full
// ordered document list for the collection; every emission supersedes the
// previous one. The channel is closed when the subscription ends, either via
// Close or because the subscribing context was cancelled.
type Subscription interface {
	Snapshots() <-chan []Document
	Close()
}

type Store interface {
	// Get performs a point read. The boolean reports whether the document
	// exists; a missing document is not an error.
	Get(ctx context.Context, collection, id string) (Document, bool, error)

	// Add creates a document under a generated id and returns the id.
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Set upserts: create the document if absent, else replace it wholesale.
	Set(ctx context.Context, collection, id string, fields map[string]any) error

	// Update merges fields into an existing document. It fails with
	// domain.ErrNotFound when the document does not exist.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes a document; deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error

	List(ctx context.Context, collection, orderBy string, dir Direction) ([]Document, error)

	// Subscribe opens a live query ordered by the named field. The initial
	// snapshot is delivered immediately; the subscription is released when
	// ctx is cancelled or Close is called.
	Subscribe(ctx context.Context, collection, orderBy string, dir Direction) (Subscription, error)
}
