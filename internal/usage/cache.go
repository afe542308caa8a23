package usage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const defaultCacheRelativePath = ".claude/ccline/.api_usage_cache.json"

// CacheStore persists the last fetched usage snapshot to a single JSON
// file under the user's home directory. Every operation fails soft: a
// broken or missing cache is indistinguishable from no cache, and a
// failed write never interrupts rendering.
type CacheStore struct {
	resolvePath func() (string, bool)
	now         func() time.Time
}

func NewCacheStore() *CacheStore {
	return &CacheStore{
		resolvePath: defaultCachePath,
		now:         time.Now,
	}
}

// NewCacheStoreAt pins the store to an explicit file path and clock.
func NewCacheStoreAt(path string, now func() time.Time) *CacheStore {
	if now == nil {
		now = time.Now
	}
	return &CacheStore{
		resolvePath: func() (string, bool) { return path, path != "" },
		now:         now,
	}
}

func defaultCachePath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, filepath.FromSlash(defaultCacheRelativePath)), true
}

// Load reads the cached record, returning nil when the file is missing,
// unreadable, or not valid JSON. Loaded records have the legacy shared
// reset timestamp migrated into the per-window fields.
func (s *CacheStore) Load() *CacheRecord {
	path, ok := s.resolvePath()
	if !ok {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var record CacheRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil
	}
	record = migrateLegacyResets(record)
	return &record
}

// migrateLegacyResets backfills per-window reset timestamps from the
// legacy shared field. After migration an absent reset timestamp means
// genuinely unknown.
func migrateLegacyResets(record CacheRecord) CacheRecord {
	if record.LegacyResetsAt == nil {
		return record
	}
	if record.FiveHourResetsAt == nil {
		record.FiveHourResetsAt = record.LegacyResetsAt
	}
	if record.SevenDayResetsAt == nil {
		record.SevenDayResetsAt = record.LegacyResetsAt
	}
	return record
}

// Save writes the record, creating parent directories as needed. All
// failures are swallowed.
func (s *CacheStore) Save(record CacheRecord) {
	path, ok := s.resolvePath()
	if !ok {
		return
	}
	record.LegacyResetsAt = nil
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0o644)
}

// SaveSnapshot stamps the snapshot with the store clock and saves it.
func (s *CacheStore) SaveSnapshot(snap Snapshot) {
	s.Save(newCacheRecord(snap, s.now()))
}

// IsValid reports whether the record is fresh enough to reuse. A record
// whose age equals maxAge exactly is already stale.
func (s *CacheStore) IsValid(record CacheRecord, maxAge time.Duration) bool {
	cachedAt, err := time.Parse(time.RFC3339, record.CachedAt)
	if err != nil {
		return false
	}
	return s.now().UTC().Sub(cachedAt.UTC()) < maxAge
}
