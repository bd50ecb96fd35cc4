package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/estatevault/vaultmeter/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketCounts    = []byte("counts")
	bucketSnapshots = []byte("snapshots")
)

var allBuckets = [][]byte{bucketCounts, bucketSnapshots}

// VaultStore implements domain.VaultStore using BoltDB.
type VaultStore struct {
	db     *bolt.DB
	mu     sync.RWMutex // Protects memory cache
	closed bool

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewVaultStore opens (or creates) vault.db under dir. An empty dir keeps
// everything in memory.
func NewVaultStore(dir string) (*VaultStore, error) {
	if dir == "" {
		// Memory-only mode (no persistence)
		return &VaultStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	dbPath := filepath.Join(dir, "vault.db")
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

	return &VaultStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *VaultStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *VaultStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	closed := s.closed
	s.mu.RUnlock()

	if s.db == nil || closed {
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

func (s *VaultStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrStoreClosed
	}
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

// scanPrefix returns raw values under prefix in key order, merging the
// memory cache with BoltDB.
func (s *VaultStore) scanPrefix(bucket []byte, prefix string) map[string][]byte {
	out := make(map[string][]byte)

	s.mu.RLock()
	cachePrefix := string(bucket) + ":" + prefix
	for k, v := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			out[strings.TrimPrefix(k, string(bucket)+":")] = v
		}
	}
	closed := s.closed
	s.mu.RUnlock()

	if s.db == nil || closed {
		return out
	}

	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, v := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, v = c.Next() {
			if _, ok := out[string(k)]; ok {
				continue
			}
			data := make([]byte, len(v))
			copy(data, v)
			out[string(k)] = data
		}
		return nil
	})
	return out
}

func (s *VaultStore) deletePrefix(bucket []byte, prefix string) {
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	closed := s.closed
	s.mu.Unlock()

	if s.db == nil || closed {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		// Collect first: deleting under a live cursor skips keys
		var keys [][]byte
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *VaultStore) delete(bucket []byte, key string) {
	s.mu.Lock()
	delete(s.cache, string(bucket)+":"+key)
	closed := s.closed
	s.mu.Unlock()

	if s.db == nil || closed {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

func profileKey(profile string) string {
	return "profile:" + profile
}

// snapshotKey sorts chronologically: nanos are zero-padded to a fixed width.
func snapshotKey(profile string, at time.Time) string {
	return fmt.Sprintf("profile:%s:snap:%020d", profile, at.UnixNano())
}

// === Counts ===

func (s *VaultStore) GetCounts(profile string) (domain.Counts, bool) {
	var counts domain.Counts
	ok := s.get(bucketCounts, profileKey(profile), &counts)
	return counts, ok
}

func (s *VaultStore) SaveCounts(profile string, counts domain.Counts) error {
	return s.set(bucketCounts, profileKey(profile), counts)
}

// === Snapshots ===

func (s *VaultStore) AddSnapshot(snap domain.Snapshot) error {
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now()
	}
	return s.set(bucketSnapshots, snapshotKey(snap.Profile, snap.TakenAt), snap)
}

func (s *VaultStore) Snapshots(profile string) ([]domain.Snapshot, error) {
	raw := s.scanPrefix(bucketSnapshots, profileKey(profile)+":snap:")

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	snaps := make([]domain.Snapshot, 0, len(keys))
	for _, k := range keys {
		var snap domain.Snapshot
		if err := json.Unmarshal(raw[k], &snap); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot %s: %w", k, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func (s *VaultStore) LatestSnapshot(profile string) (domain.Snapshot, bool) {
	snaps, err := s.Snapshots(profile)
	if err != nil || len(snaps) == 0 {
		return domain.Snapshot{}, false
	}
	return snaps[len(snaps)-1], true
}

// === Profile removal ===

// DeleteProfile wipes counts and all snapshots for a profile
func (s *VaultStore) DeleteProfile(profile string) {
	key := profileKey(profile)
	s.delete(bucketCounts, key)
	s.deletePrefix(bucketSnapshots, key+":snap:")
}
