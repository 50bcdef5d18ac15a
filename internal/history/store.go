package history

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cloud-ru/mcp-deposits-go/internal/kvstore"
)

// DefaultKey is the namespace under which the snapshot list is stored.
const DefaultKey = "investment-history"

// DefaultLimit is the maximum number of retained snapshots.
const DefaultLimit = 20

var (
	// ErrNotFound is returned by LoadOne when no snapshot has the given id
	// or the stored list cannot be read.
	ErrNotFound = errors.New("snapshot not found")

	errCorrupt = errors.New("stored history is corrupt")
)

// Options configures a Store. Zero values fall back to the defaults.
type Options struct {
	Key   string
	Limit int
	Codec Codec
}

// Store keeps a bounded, newest-first list of snapshots under one key.
// It is safe for concurrent use; mutations hold mu across read and write.
type Store struct {
	mu    sync.Mutex
	kv    kvstore.Store
	key   string
	limit int
	codec Codec
	log   zerolog.Logger
}

// NewStore creates a history store on top of kv.
func NewStore(kv kvstore.Store, opts Options, log zerolog.Logger) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Codec == nil {
		opts.Codec = JSONCodec{}
	}
	return &Store{
		kv:    kv,
		key:   opts.Key,
		limit: opts.Limit,
		codec: opts.Codec,
		log:   log.With().Str("component", "history").Str("key", opts.Key).Logger(),
	}
}

// Limit returns the retention bound.
func (s *Store) Limit() int { return s.limit }

// Save prepends snapshot and drops the oldest entries beyond the limit.
// It returns only after the list is persisted.
func (s *Store) Save(ctx context.Context, snapshot Snapshot) error {
	if snapshot.ID == "" {
		return errors.New("snapshot id is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(ctx)
	if errors.Is(err, errCorrupt) {
		// Unreadable data cannot be listed anyway; start a fresh list
		s.log.Warn().Err(err).Msg("Overwriting corrupt history")
		existing = nil
	} else if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	snapshots := make([]Snapshot, 0, len(existing)+1)
	snapshots = append(snapshots, snapshot.Clone())
	snapshots = append(snapshots, existing...)
	if len(snapshots) > s.limit {
		s.log.Debug().Int("evicted", len(snapshots)-s.limit).Msg("Evicting oldest snapshots")
		snapshots = snapshots[:s.limit]
	}

	if err := s.write(ctx, snapshots); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.log.Info().Str("id", snapshot.ID).Int("count", len(snapshots)).Msg("Snapshot saved")
	return nil
}

// List returns saved snapshots, newest first. Unavailable or corrupt storage
// yields an empty list.
func (s *Store) List(ctx context.Context) []Snapshot {
	snapshots, err := s.read(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read history, returning empty list")
		return []Snapshot{}
	}

	out := make([]Snapshot, 0, len(snapshots))
	for _, snap := range snapshots {
		if !readable(snap) {
			s.log.Warn().Str("id", snap.ID).Int("version", snap.Version).Msg("Skipping snapshot with unsupported version")
			continue
		}
		out = append(out, snap)
	}
	return out
}

// LoadOne returns the snapshot with the given id or ErrNotFound.
func (s *Store) LoadOne(ctx context.Context, id string) (Snapshot, error) {
	snapshots, err := s.read(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("Failed to read history")
		return Snapshot{}, ErrNotFound
	}

	for _, snap := range snapshots {
		if snap.ID == id && readable(snap) {
			return snap, nil
		}
	}
	return Snapshot{}, ErrNotFound
}

// DeleteOne removes the snapshot with the given id. A missing id is not an error.
func (s *Store) DeleteOne(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.read(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}

	kept := make([]Snapshot, 0, len(snapshots))
	for _, snap := range snapshots {
		if snap.ID != id {
			kept = append(kept, snap)
		}
	}
	if len(kept) == len(snapshots) {
		return nil
	}

	if err := s.write(ctx, kept); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}

	s.log.Info().Str("id", id).Msg("Snapshot deleted")
	return nil
}

// Clear empties the history.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(ctx, []Snapshot{}); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	s.log.Info().Msg("History cleared")
	return nil
}

func (s *Store) read(ctx context.Context) ([]Snapshot, error) {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snapshots, err := s.codec.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	return snapshots, nil
}

func (s *Store) write(ctx context.Context, snapshots []Snapshot) error {
	data, err := s.codec.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return s.kv.Set(ctx, s.key, data)
}

// readable reports whether this binary understands the snapshot layout.
func readable(s Snapshot) bool {
	return s.Version <= SchemaVersion
}
