package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"alumnihub/internal/docstore"
	"alumnihub/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notifyChannel = "documents_changed"

// DocumentStore implements docstore.Store on a single documents table. Every
// row change fires a NOTIFY carrying the collection name, which live queries
// turn into a fresh snapshot.
type DocumentStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewDocumentStore(pool *pgxpool.Pool, logger *slog.Logger) *DocumentStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentStore{pool: pool, logger: logger}
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (docstore.Document, bool, error) {
	const q = `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	var fields map[string]any
	err := s.pool.QueryRow(ctx, q, collection, id).Scan(&fields)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return docstore.Document{}, false, nil
		}
		return docstore.Document{}, false, fmt.Errorf("get document: %w", err)
	}
	return docstore.Document{ID: id, Fields: fields}, true, nil
}

func (s *DocumentStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	const q = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`

	id := uuid.NewString()
	if _, err := s.pool.Exec(ctx, q, collection, id, fields); err != nil {
		return "", fmt.Errorf("add document: %w", err)
	}
	return id, nil
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	const q = `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data
	`

	if _, err := s.pool.Exec(ctx, q, collection, id, fields); err != nil {
		return fmt.Errorf("set document: %w", err)
	}
	return nil
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	const q = `UPDATE documents SET data = data || $3 WHERE collection = $1 AND id = $2`

	tag, err := s.pool.Exec(ctx, q, collection, id, fields)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	const q = `DELETE FROM documents WHERE collection = $1 AND id = $2`

	if _, err := s.pool.Exec(ctx, q, collection, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *DocumentStore) List(ctx context.Context, collection, orderBy string, dir docstore.Direction) ([]docstore.Document, error) {
	// The ordering field is a jsonb key and binds as a parameter; only the
	// direction keyword is interpolated, from a closed set.
	q := `SELECT id, data FROM documents WHERE collection = $1 ORDER BY data->>$2 `
	switch dir {
	case docstore.Ascending:
		q += `ASC, id ASC`
	case docstore.Descending:
		q += `DESC, id DESC`
	default:
		return nil, fmt.Errorf("list documents: unknown direction %d", dir)
	}

	rows, err := s.pool.Query(ctx, q, collection, orderBy)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		var doc docstore.Document
		if err := rows.Scan(&doc.ID, &doc.Fields); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

type subscription struct {
	snapshots chan []docstore.Document
	cancel    context.CancelFunc
}

func (s *subscription) Snapshots() <-chan []docstore.Document { return s.snapshots }

func (s *subscription) Close() { s.cancel() }

// Subscribe holds a dedicated connection on LISTEN and re-queries the
// collection after every change notification naming it. The initial snapshot
// is delivered before the first notification; a consumer that falls behind
// sees only the latest snapshot.
func (s *DocumentStore) Subscribe(ctx context.Context, collection, orderBy string, dir docstore.Direction) (docstore.Subscription, error) {
	initial, err := s.List(ctx, collection, orderBy, dir)
	if err != nil {
		return nil, err
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("subscribe listen: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{snapshots: make(chan []docstore.Document, 1), cancel: cancel}
	sub.send(initial)

	go func() {
		defer close(sub.snapshots)
		defer func() {
			// The connection has LISTEN state; reset it before returning
			// to the pool.
			if _, err := conn.Exec(context.Background(), "UNLISTEN *"); err != nil {
				conn.Conn().Close(context.Background())
			}
			conn.Release()
		}()

		for {
			note, err := conn.Conn().WaitForNotification(subCtx)
			if err != nil {
				if subCtx.Err() == nil {
					s.logger.Warn("live query lost", "collection", collection, "err", err)
				}
				return
			}
			if note.Payload != collection {
				continue
			}
			docs, err := s.List(subCtx, collection, orderBy, dir)
			if err != nil {
				if subCtx.Err() == nil {
					s.logger.Warn("live query refresh failed", "collection", collection, "err", err)
				}
				continue
			}
			sub.send(docs)
		}
	}()
	return sub, nil
}

func (s *subscription) send(docs []docstore.Document) {
	select {
	case <-s.snapshots:
	default:
	}
	select {
	case s.snapshots <- docs:
	default:
	}
}
