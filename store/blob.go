package store

import (
	"errors"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// BlobStore is the opaque persistence medium for the snapshot
// document. Writes are synchronous and whole-document; there are no
// partial writes.
type BlobStore interface {
	// Load returns the stored document, or ok=false when the key has
	// never been written.
	Load(key string) (data []byte, ok bool, err error)
	// Save replaces the stored document under key.
	Save(key string, data []byte) error
}

type snapshotBlob struct {
	Key       string `gorm:"primaryKey;size:100"`
	Data      []byte `gorm:"type:blob"`
	UpdatedAt time.Time
}

func (snapshotBlob) TableName() string {
	return "snapshot_blobs"
}

// GormBlobStore keeps the snapshot document as a single keyed row in
// a local sqlite file.
type GormBlobStore struct {
	db *gorm.DB
}

// OpenGormBlobStore opens (or creates) the sqlite file at path and
// migrates the blob table.
func OpenGormBlobStore(path string) (*GormBlobStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&snapshotBlob{}); err != nil {
		return nil, err
	}
	return &GormBlobStore{db: db}, nil
}

func (g *GormBlobStore) Load(key string) ([]byte, bool, error) {
	var blob snapshotBlob
	err := g.db.First(&blob, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blob.Data, true, nil
}

func (g *GormBlobStore) Save(key string, data []byte) error {
	blob := snapshotBlob{Key: key, Data: data, UpdatedAt: time.Now()}
	return g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&blob).Error
}

// Close releases the underlying sqlite handle.
func (g *GormBlobStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// MemoryBlobStore is an in-memory BlobStore used by tests and
// throwaway environments.
type MemoryBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryBlobStore returns an empty in-memory blob store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (m *MemoryBlobStore) Load(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (m *MemoryBlobStore) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.blobs[key] = stored
	return nil
}
