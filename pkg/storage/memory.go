package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is a thread-safe in-memory Store. It backs unit tests and
// single-process deployments that do not need durability; the Postgres store
// is the production backend.
type MemoryStore struct {
	mu sync.RWMutex

	nextMetadataID int64
	nextSerDesID   int64

	metadataByID   map[int64]*MetadataRecord
	metadataByName map[string]*MetadataRecord

	// versions[metadataID][version]
	versions map[int64]map[int]*VersionRecord

	serdes map[int64]*SerDesRecord

	// mappings[metadataID] is the set of mapped serdes ids.
	mappings map[int64]map[int64]struct{}
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		metadataByID:   make(map[int64]*MetadataRecord),
		metadataByName: make(map[string]*MetadataRecord),
		versions:       make(map[int64]map[int]*VersionRecord),
		serdes:         make(map[int64]*SerDesRecord),
		mappings:       make(map[int64]map[int64]struct{}),
	}
}

// CreateMetadata persists rec under a freshly assigned monotonic id.
func (s *MemoryStore) CreateMetadata(ctx context.Context, rec *MetadataRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.metadataByName[rec.Name]; exists {
		return 0, fmt.Errorf("%w: metadata %q", ErrAlreadyExists, rec.Name)
	}

	s.nextMetadataID++
	stored := *rec
	stored.ID = s.nextMetadataID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	s.metadataByID[stored.ID] = &stored
	s.metadataByName[stored.Name] = &stored
	s.versions[stored.ID] = make(map[int]*VersionRecord)

	return stored.ID, nil
}

func (s *MemoryStore) GetMetadataByID(ctx context.Context, id int64) (*MetadataRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.metadataByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: metadata id %d", ErrNotFound, id)
	}
	out := *rec
	return &out, nil
}

func (s *MemoryStore) GetMetadataByName(ctx context.Context, name string) (*MetadataRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.metadataByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: metadata %q", ErrNotFound, name)
	}
	out := *rec
	return &out, nil
}

// AppendVersion commits rec into its version slot, failing with
// ErrVersionConflict when another writer already took it.
func (s *MemoryStore) AppendVersion(ctx context.Context, rec *VersionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, ok := s.versions[rec.SchemaMetadataID]
	if !ok {
		return fmt.Errorf("%w: metadata id %d", ErrNotFound, rec.SchemaMetadataID)
	}
	if _, taken := ledger[rec.Version]; taken {
		return fmt.Errorf("%w: metadata id %d version %d", ErrVersionConflict, rec.SchemaMetadataID, rec.Version)
	}

	stored := *rec
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	ledger[rec.Version] = &stored

	return nil
}

func (s *MemoryStore) GetVersion(ctx context.Context, metadataID int64, version int) (*VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.versions[metadataID][version]
	if !ok {
		return nil, fmt.Errorf("%w: metadata id %d version %d", ErrNotFound, metadataID, version)
	}
	out := *rec
	return &out, nil
}

func (s *MemoryStore) GetLatestVersion(ctx context.Context, metadataID int64) (*VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *VersionRecord
	for _, rec := range s.versions[metadataID] {
		if latest == nil || rec.Version > latest.Version {
			latest = rec
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: metadata id %d has no versions", ErrNotFound, metadataID)
	}
	out := *latest
	return &out, nil
}

func (s *MemoryStore) ListVersions(ctx context.Context, metadataID int64) ([]VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ledger := s.versions[metadataID]
	out := make([]VersionRecord, 0, len(ledger))
	for _, rec := range ledger {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })

	return out, nil
}

func (s *MemoryStore) FindByFingerprint(ctx context.Context, metadataID int64, fingerprint string) (*VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.versions[metadataID] {
		if rec.Fingerprint == fingerprint {
			out := *rec
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: no version with fingerprint %s", ErrNotFound, fingerprint)
}

func (s *MemoryStore) ListAllVersions(ctx context.Context) ([]VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []VersionRecord
	for _, ledger := range s.versions {
		for _, rec := range ledger {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SchemaMetadataID != out[j].SchemaMetadataID {
			return out[i].SchemaMetadataID < out[j].SchemaMetadataID
		}
		return out[i].Version < out[j].Version
	})

	return out, nil
}

// CreateSerDes persists rec under a freshly assigned id. No dedup by content.
func (s *MemoryStore) CreateSerDes(ctx context.Context, rec *SerDesRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSerDesID++
	stored := *rec
	stored.ID = s.nextSerDesID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.serdes[stored.ID] = &stored

	return stored.ID, nil
}

func (s *MemoryStore) GetSerDes(ctx context.Context, id int64) (*SerDesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.serdes[id]
	if !ok {
		return nil, fmt.Errorf("%w: serdes id %d", ErrNotFound, id)
	}
	out := *rec
	return &out, nil
}

func (s *MemoryStore) MapSerDes(ctx context.Context, metadataID, serDesID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.metadataByID[metadataID]; !ok {
		return fmt.Errorf("%w: metadata id %d", ErrNotFound, metadataID)
	}
	if _, ok := s.serdes[serDesID]; !ok {
		return fmt.Errorf("%w: serdes id %d", ErrNotFound, serDesID)
	}

	if s.mappings[metadataID] == nil {
		s.mappings[metadataID] = make(map[int64]struct{})
	}
	s.mappings[metadataID][serDesID] = struct{}{}

	return nil
}

func (s *MemoryStore) ListSerDes(ctx context.Context, metadataID int64, role string) ([]SerDesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.mappings[metadataID]))
	for id := range s.mappings[metadataID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]SerDesRecord, 0, len(ids))
	for _, id := range ids {
		rec := s.serdes[id]
		if rec != nil && rec.Role == role {
			out = append(out, *rec)
		}
	}
	return out, nil
}
