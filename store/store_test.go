package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ossmanager_go/models"
)

const testKey = "TEST_DB"

// failingBlobStore wraps a MemoryBlobStore and fails saves on demand.
type failingBlobStore struct {
	inner    *MemoryBlobStore
	failSave bool
}

func (f *failingBlobStore) Load(key string) ([]byte, bool, error) {
	return f.inner.Load(key)
}

func (f *failingBlobStore) Save(key string, data []byte) error {
	if f.failSave {
		return errors.New("disk full")
	}
	return f.inner.Save(key, data)
}

func TestOpenSeedsDefaultSnapshot(t *testing.T) {
	blob := NewMemoryBlobStore()
	s, err := Open(blob, testKey, DefaultSnapshot("hash"))
	require.NoError(t, err)

	snap := s.View()
	assert.Empty(t, snap.Students)
	assert.Empty(t, snap.Logs)

	require.Len(t, snap.Plans, 2)
	assert.Equal(t, "Monthly", snap.Plans[0].Name)
	assert.Equal(t, 10000, snap.Plans[0].Price)
	assert.Equal(t, "Semiannual", snap.Plans[1].Name)

	require.Len(t, snap.Schedules, 2)
	assert.Equal(t, "Monday", snap.Schedules[0].Weekday)

	require.Len(t, snap.Users, 1)
	assert.Equal(t, models.RoleAdmin, snap.Users[0].Role)
	assert.Equal(t, "hash", snap.Users[0].PasswordHash)

	// The seed must be persisted immediately, not lazily.
	_, ok, err := blob.Load(testKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReopenRoundTrip(t *testing.T) {
	blob := NewMemoryBlobStore()
	s, err := Open(blob, testKey, DefaultSnapshot("hash"))
	require.NoError(t, err)

	_, err = s.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Students = append(snap.Students, models.Student{
			ID:     "s1",
			Name:   "Ana Souza",
			Status: models.StatusActive,
			Belt:   models.BeltBlue,
		})
		snap.Logs = append(snap.Logs, models.NewLogEntry("New student enrolled: Ana Souza", "admin"))
		return snap, nil
	})
	require.NoError(t, err)

	reopened, err := Open(blob, testKey, DefaultSnapshot("other"))
	require.NoError(t, err)

	got := reopened.View()
	require.Len(t, got.Students, 1)
	assert.Equal(t, "Ana Souza", got.Students[0].Name)
	assert.Equal(t, models.BeltBlue, got.Students[0].Belt)
	require.Len(t, got.Logs, 1)

	// An existing document wins over the seed.
	assert.Equal(t, "hash", got.Users[0].PasswordHash)
}

func TestApplyPersistFailureLeavesStateUnchanged(t *testing.T) {
	blob := &failingBlobStore{inner: NewMemoryBlobStore()}
	s, err := Open(blob, testKey, DefaultSnapshot("hash"))
	require.NoError(t, err)

	before := s.View()
	blob.failSave = true

	_, err = s.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Students = append(snap.Students, models.Student{ID: "s1", Name: "Ghost"})
		return snap, nil
	})

	var perr *models.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "save", perr.Op)

	after := s.View()
	assert.Equal(t, before, after, "failed persist must not change in-memory state")
}

func TestApplyMutatorErrorAborts(t *testing.T) {
	blob := NewMemoryBlobStore()
	s, err := Open(blob, testKey, DefaultSnapshot("hash"))
	require.NoError(t, err)

	before := s.View()

	_, err = s.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Students = append(snap.Students, models.Student{ID: "s1"})
		return snap, models.NewValidation("nope")
	})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, before, s.View())
}

func TestApplyMutatesIsolatedCopy(t *testing.T) {
	blob := NewMemoryBlobStore()
	s, err := Open(blob, testKey, DefaultSnapshot("hash"))
	require.NoError(t, err)

	view := s.View()
	view.Plans[0].Price = 99999

	snap := s.View()
	assert.Equal(t, 10000, snap.Plans[0].Price, "View must hand out copies")
}

func TestAuditLoggerRecord(t *testing.T) {
	blob := NewMemoryBlobStore()
	s, err := Open(blob, testKey, DefaultSnapshot("hash"))
	require.NoError(t, err)

	audit := NewAuditLogger(s)
	require.NoError(t, audit.Record("Login: Administrator", "admin"))
	require.NoError(t, audit.Record("Kiosk mode exited", ""))

	logs := s.View().Logs
	require.Len(t, logs, 2)
	assert.Equal(t, "Login: Administrator", logs[0].Action)
	assert.Equal(t, "admin", logs[0].UserID)

	// Empty actor falls back to the system sentinel.
	assert.Equal(t, models.SystemUserID, logs[1].UserID)
}
