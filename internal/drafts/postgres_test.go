package drafts

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pgRow struct {
	version int
	savedAt time.Time
	payload []byte
}

// fakeDB emulates the three statements the store issues.
type fakeDB struct {
	mu      sync.Mutex
	rows    map[string]pgRow
	schemas int
}

func newFakeDB() *fakeDB { return &fakeDB{rows: map[string]pgRow{}} }

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case strings.HasPrefix(sql, "CREATE TABLE"):
		f.schemas++
		return pgconn.NewCommandTag("CREATE TABLE"), nil
	case strings.HasPrefix(sql, "INSERT INTO portal_drafts"):
		f.rows[args[0].(string)] = pgRow{version: args[1].(int), savedAt: args[2].(time.Time), payload: args[3].([]byte)}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.HasPrefix(sql, "DELETE FROM portal_drafts"):
		delete(f.rows, args[0].(string))
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[args[0].(string)]
	return fakeRow{row: row, ok: ok}
}

type fakeRow struct {
	row pgRow
	ok  bool
}

func (r fakeRow) Scan(dest ...any) error {
	if !r.ok {
		return pgx.ErrNoRows
	}
	*dest[0].(*int) = r.row.version
	*dest[1].(*time.Time) = r.row.savedAt
	*dest[2].(*[]byte) = r.row.payload
	return nil
}

func TestPostgresStore(t *testing.T) {
	db := newFakeDB()
	store := NewPostgresStore(db)
	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.Equal(t, 1, db.schemas)

	storeContract(t, store)
}

func TestPostgresStoreUpserts(t *testing.T) {
	db := newFakeDB()
	svc := fixedService(NewPostgresStore(db))
	ctx := context.Background()

	_, err := svc.Save(ctx, KeySORAccessories, json.RawMessage(`{"v":1}`))
	require.NoError(t, err)
	_, err = svc.Save(ctx, KeySORAccessories, json.RawMessage(`{"v":2}`))
	require.NoError(t, err)

	assert.Len(t, db.rows, 1)
	assert.JSONEq(t, `{"v":2}`, string(db.rows[KeySORAccessories].payload))
}
