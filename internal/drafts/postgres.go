package drafts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the Postgres store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schemaSQL = `CREATE TABLE IF NOT EXISTS portal_drafts (
	key            TEXT PRIMARY KEY,
	schema_version INTEGER NOT NULL,
	saved_at       TIMESTAMPTZ NOT NULL,
	payload        JSONB NOT NULL
)`

// PostgresStore keeps one row per draft key.
type PostgresStore struct {
	db DB
}

// NewPostgresStore constructs the store.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the drafts table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	_, err := s.db.Exec(ctx, `INSERT INTO portal_drafts (key, schema_version, saved_at, payload)
VALUES ($1, $2, $3, $4)
ON CONFLICT (key) DO UPDATE SET schema_version = EXCLUDED.schema_version, saved_at = EXCLUDED.saved_at, payload = EXCLUDED.payload`,
		snap.Key, snap.SchemaVersion, snap.SavedAt, []byte(snap.Payload))
	return err
}

func (s *PostgresStore) Load(ctx context.Context, key string) (Snapshot, error) {
	snap := Snapshot{Key: key}
	var payload []byte
	err := s.db.QueryRow(ctx, `SELECT schema_version, saved_at, payload FROM portal_drafts WHERE key = $1`, key).
		Scan(&snap.SchemaVersion, &snap.SavedAt, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	snap.Payload = payload
	return snap, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM portal_drafts WHERE key = $1`, key)
	return err
}
