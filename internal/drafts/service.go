package drafts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Service enforces the draft rules on top of a Store.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// Save stores payload under key, replacing any earlier snapshot.
func (s *Service) Save(ctx context.Context, key string, payload json.RawMessage) (Snapshot, error) {
	if err := checkKey(key); err != nil {
		return Snapshot{}, err
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload); err != nil {
		return Snapshot{}, fmt.Errorf("%w: payload is not valid json: %v", ErrValidation, err)
	}
	snap := Snapshot{
		Key:           key,
		SchemaVersion: CurrentSchemaVersion,
		SavedAt:       s.now().UTC().Truncate(time.Microsecond),
		Payload:       compact.Bytes(),
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return Snapshot{}, fmt.Errorf("drafts: save %s: %w", key, err)
	}
	if s.logger != nil {
		s.logger.Debug("draft saved", slog.String("key", key), slog.Int("bytes", len(snap.Payload)))
	}
	return snap, nil
}

// Load returns the snapshot under key. Snapshots written by another schema
// version are refused rather than migrated.
func (s *Service) Load(ctx context.Context, key string) (Snapshot, error) {
	if err := checkKey(key); err != nil {
		return Snapshot{}, err
	}
	snap, err := s.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Snapshot{}, err
		}
		return Snapshot{}, fmt.Errorf("drafts: load %s: %w", key, err)
	}
	if snap.SchemaVersion != CurrentSchemaVersion {
		return Snapshot{}, fmt.Errorf("%w: stored %d, current %d", ErrSchemaVersion, snap.SchemaVersion, CurrentSchemaVersion)
	}
	return snap, nil
}

// Clear removes the snapshot under key. Clearing an empty slot is not an error.
func (s *Service) Clear(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("drafts: clear %s: %w", key, err)
	}
	return nil
}

func checkKey(key string) error {
	if _, ok := knownKeys[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}
