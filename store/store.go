package store

import (
	"encoding/json"
	"sync"
	"time"

	"ossmanager_go/models"
)

// Mutator transforms one snapshot into the next. It must be pure: all
// reads and writes happen against the snapshot it is given.
type Mutator func(models.Snapshot) (models.Snapshot, error)

// Store owns the canonical snapshot and its persisted form. Every
// write in the system goes through Apply, which serializes the
// load-mutate-persist cycle behind one mutex so concurrent callers
// cannot lose updates.
type Store struct {
	mu      sync.Mutex
	blob    BlobStore
	key     string
	current models.Snapshot
}

// Open loads the snapshot under key, seeding and persisting seed when
// the blob store has never been written.
func Open(blob BlobStore, key string, seed models.Snapshot) (*Store, error) {
	data, ok, err := blob.Load(key)
	if err != nil {
		return nil, &models.PersistenceError{Op: "load", Err: err}
	}

	s := &Store{blob: blob, key: key}
	if !ok {
		s.current = seed.Clone()
		if err := s.persist(s.current); err != nil {
			return nil, err
		}
		return s, nil
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &models.PersistenceError{Op: "decode", Err: err}
	}
	s.current = snap
	return s, nil
}

// Apply runs mutator against the current snapshot and persists the
// result. The new snapshot is committed to memory only after the blob
// write succeeds, so a persistence failure never leaves the in-memory
// state diverged from the stored copy. The mutator's error is
// returned unchanged and aborts the operation with no effect.
func (s *Store) Apply(mutator Mutator) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := mutator(s.current.Clone())
	if err != nil {
		return models.Snapshot{}, err
	}
	if err := s.persist(next); err != nil {
		return models.Snapshot{}, err
	}
	s.current = next
	return next.Clone(), nil
}

// View returns a deep copy of the current snapshot for rendering.
func (s *Store) View() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

func (s *Store) persist(snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return &models.PersistenceError{Op: "encode", Err: err}
	}
	if err := s.blob.Save(s.key, data); err != nil {
		return &models.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// DefaultSnapshot is the documented first-run state: two seed plans,
// two seed schedules, one admin user, everything else empty.
func DefaultSnapshot(adminPasswordHash string) models.Snapshot {
	return models.Snapshot{
		Students:    []models.Student{},
		Payments:    []models.Payment{},
		Attendances: []models.Attendance{},
		Plans: []models.Plan{
			{ID: "1", Name: "Monthly", Price: 10000},
			{ID: "2", Name: "Semiannual", Price: 55000},
		},
		Logs: []models.LogEntry{},
		Schedules: []models.Schedule{
			{ID: "1", Weekday: "Monday", Time: "19:00", ClassType: "Gi"},
			{ID: "2", Weekday: "Tuesday", Time: "18:00", ClassType: "No-Gi"},
		},
		Users: []models.User{
			{
				ID:           "admin",
				Name:         "Administrator",
				Email:        "admin@ossjiujitsu.com",
				Role:         models.RoleAdmin,
				PasswordHash: adminPasswordHash,
			},
		},
	}
}

// Now is the clock used for operation timestamps. Tests may override
// it to pin time.
var Now = func() time.Time { return time.Now().UTC() }
