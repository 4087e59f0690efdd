// Package cache keeps provider lookups whose answers do not change between
// runs, such as the root device name declared by an image.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTTL bounds how long an entry is trusted.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a directory of JSON entries, one file per key.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

type entry struct {
	StoredAt time.Time       `json:"stored_at"`
	Value    json.RawMessage `json:"value"`
}

// New returns a cache rooted at dir whose entries expire after ttl.
func New(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl, now: time.Now}
}

// NewDefault returns a cache under the user cache directory. It returns a
// disabled cache when no such directory exists.
func NewDefault() *Cache {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		return New("", DefaultTTL)
	}
	return New(filepath.Join(base, "reseed"), DefaultTTL)
}

// Get decodes the entry stored under key into dest. It reports false for a
// missing, expired or unreadable entry.
func (c *Cache) Get(key string, dest any) (bool, error) {
	if c == nil || c.dir == "" || c.ttl <= 0 {
		return false, nil
	}

	data, err := os.ReadFile(c.pathForKey(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false, nil
	}
	if c.now().After(e.StoredAt.Add(c.ttl)) {
		_ = os.Remove(c.pathForKey(key))
		return false, nil
	}
	if err := json.Unmarshal(e.Value, dest); err != nil {
		return false, nil
	}
	return true, nil
}

// Set stores value under key, replacing any previous entry atomically.
func (c *Cache) Set(key string, value any) error {
	if c == nil || c.dir == "" {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(entry{StoredAt: c.now().UTC(), Value: raw})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, sanitizeKey(key)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, c.pathForKey(key))
}

// Invalidate removes the entry stored under key.
func (c *Cache) Invalidate(key string) error {
	if c == nil || c.dir == "" {
		return nil
	}
	err := os.Remove(c.pathForKey(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (c *Cache) pathForKey(key string) string {
	return filepath.Join(c.dir, sanitizeKey(key)+".json")
}

// sanitizeKey maps key onto a file name, replacing anything outside
// [A-Za-z0-9_-] with an underscore.
func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}
