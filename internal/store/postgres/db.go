// Package postgres backs the document store with a single jsonb documents
// table plus LISTEN/NOTIFY for live queries.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection text NOT NULL,
	id         text NOT NULL,
	data       jsonb NOT NULL,
	PRIMARY KEY (collection, id)
);

CREATE OR REPLACE FUNCTION documents_notify() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('documents_changed', COALESCE(NEW.collection, OLD.collection));
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS documents_changed ON documents;
CREATE TRIGGER documents_changed
	AFTER INSERT OR UPDATE OR DELETE ON documents
	FOR EACH ROW EXECUTE FUNCTION documents_notify();
`

// Init creates the documents table and its change-notification trigger.
func Init(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("init documents schema: %w", err)
	}
	return nil
}
