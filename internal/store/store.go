package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/vrsettings/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketEngines = []byte("engines")
	bucketAccount = []byte("account")
	bucketSync    = []byte("sync")
)

var allBuckets = [][]byte{bucketEngines, bucketAccount, bucketSync}

const accountKey = "current"

// SettingsStore implements domain.SettingsStore using BoltDB.
type SettingsStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewSettingsStore opens the settings database under dataDir.
// An empty dataDir keeps everything in memory.
func NewSettingsStore(dataDir string) (*SettingsStore, error) {
	if dataDir == "" {
		return &SettingsStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "settings.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SettingsStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *SettingsStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *SettingsStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *SettingsStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *SettingsStore) delete(bucket []byte, key string) error {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// === Engines ===

func (s *SettingsStore) EngineEnabled(engine domain.SyncEngine) (bool, bool) {
	var enabled bool
	ok := s.get(bucketEngines, string(engine), &enabled)
	return enabled, ok
}

func (s *SettingsStore) SetEngineEnabled(engine domain.SyncEngine, enabled bool) error {
	return s.set(bucketEngines, string(engine), enabled)
}

// === Account ===

func (s *SettingsStore) GetAccount() (*domain.Account, bool) {
	var acct domain.Account
	if !s.get(bucketAccount, accountKey, &acct) {
		return nil, false
	}
	return &acct, true
}

func (s *SettingsStore) SaveAccount(acct *domain.Account) error {
	if acct == nil {
		return s.ClearAccount()
	}
	return s.set(bucketAccount, accountKey, acct)
}

func (s *SettingsStore) ClearAccount() error {
	return s.delete(bucketAccount, accountKey)
}

// === Sync history (key: last:{engine}) ===

func (s *SettingsStore) LastSync(engine domain.SyncEngine) (time.Time, bool) {
	var at time.Time
	ok := s.get(bucketSync, "last:"+string(engine), &at)
	return at, ok
}

func (s *SettingsStore) SaveLastSync(engine domain.SyncEngine, at time.Time) error {
	return s.set(bucketSync, "last:"+string(engine), at)
}
