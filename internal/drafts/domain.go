package drafts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
)

// CurrentSchemaVersion is stamped on every saved snapshot. Bump it when a
// form's payload shape changes incompatibly.
const CurrentSchemaVersion = 1

// Known draft slots.
const (
	KeySORElectrical      = "sor-electrical"
	KeySORAccessories     = "sor-accessories"
	KeyVendorDraftReplica = "vendorDraftReplica"
)

var knownKeys = map[string]struct{}{
	KeySORElectrical:      {},
	KeySORAccessories:     {},
	KeyVendorDraftReplica: {},
}

// Keys lists the known draft slots.
func Keys() []string {
	return []string{KeySORElectrical, KeySORAccessories, KeyVendorDraftReplica}
}

var (
	ErrUnknownKey    = fmt.Errorf("drafts: unknown key: %w", httpx.ErrNotFound)
	ErrNotFound      = fmt.Errorf("drafts: no saved draft: %w", httpx.ErrNotFound)
	ErrSchemaVersion = fmt.Errorf("drafts: schema version mismatch: %w", httpx.ErrConflict)
	ErrValidation    = fmt.Errorf("drafts: %w", httpx.ErrValidation)
)

// Snapshot is one saved form. A save replaces the previous snapshot wholesale.
type Snapshot struct {
	Key           string          `json:"key"`
	SchemaVersion int             `json:"schemaVersion"`
	SavedAt       time.Time       `json:"savedAt"`
	Payload       json.RawMessage `json:"payload"`
}

// Store persists snapshots by key.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, key string) (Snapshot, error)
	Delete(ctx context.Context, key string) error
}

// Kind selects a Store implementation.
type Kind string

const (
	KindMemory   Kind = "memory"
	KindRedis    Kind = "redis"
	KindPostgres Kind = "postgres"
)
