// Package cache stores API responses on disk with per-type TTLs.
//
// Each entry is its own JSON file under the cache directory, named after
// the entry's type and key. An expired entry is treated as absent and
// removed on access. Read failures degrade to cache misses so a damaged
// cache never blocks a command.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/lincli/lin/internal/format"
)

// EntryType identifies what kind of response an entry holds. The type
// determines the entry's TTL: stable metadata lives longer than volatile
// data like issues or search results.
type EntryType string

const (
	TypeTeams          EntryType = "teams"
	TypeUsers          EntryType = "users"
	TypeWorkflowStates EntryType = "workflow-states"
	TypeLabels         EntryType = "labels"
	TypeProjects       EntryType = "projects"
	TypeCycles         EntryType = "cycles"
	TypeDocuments      EntryType = "documents"
	TypeIssues         EntryType = "issues"
	TypeComments       EntryType = "comments"
	TypeSearch         EntryType = "search"
)

// TTL returns how long entries of this type stay valid.
func (t EntryType) TTL() time.Duration {
	switch t {
	case TypeTeams, TypeUsers, TypeWorkflowStates:
		return time.Hour
	case TypeLabels:
		return 30 * time.Minute
	case TypeProjects, TypeCycles:
		return 15 * time.Minute
	case TypeDocuments:
		return 10 * time.Minute
	case TypeIssues, TypeComments:
		return 5 * time.Minute
	case TypeSearch:
		return 2 * time.Minute
	default:
		return 5 * time.Minute
	}
}

// entry is the on-disk envelope around a cached response.
type entry struct {
	Type      EntryType       `json:"type"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"created_at"` // unix seconds
	TTLSecs   int64           `json:"ttl_secs"`
}

func (e *entry) expired(now time.Time) bool {
	return now.Unix() >= e.CreatedAt+e.TTLSecs
}

// Cache is a directory of TTL-stamped response files.
type Cache struct {
	dir string

	// Bypass makes every Get miss while Put keeps writing, so a forced
	// refresh still repopulates the cache for later invocations.
	Bypass bool
}

// New creates a cache rooted at dir.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Default creates a cache under the user cache directory, e.g.
// ~/.cache/lin on Linux.
func Default() (*Cache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache directory: %w", err)
	}
	return New(filepath.Join(base, "lin")), nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Scope returns a cache rooted at a subdirectory. Each credential gets
// its own scope so responses fetched with one token are never served
// to another.
func (c *Cache) Scope(name string) *Cache {
	return &Cache{dir: filepath.Join(c.dir, name), Bypass: c.Bypass}
}

func (c *Cache) entryPath(typ EntryType, key string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s_%s.json", typ, key))
}

// Get loads a cached response into dest. Returns false on a miss:
// absent, expired, bypassed, tagged with a different type, or unreadable.
// Expired entries are removed.
func (c *Cache) Get(typ EntryType, key string, dest any) bool {
	if c.Bypass {
		return false
	}

	path := c.entryPath(typ, key)
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		os.Remove(path)
		return false
	}
	if e.Type != typ {
		return false
	}
	if e.expired(time.Now()) {
		os.Remove(path)
		return false
	}

	return json.Unmarshal(e.Data, dest) == nil
}

// Put stores a response under the given type and key, stamping it with
// the type's TTL. Writes happen even in bypass mode.
func (c *Cache) Put(typ EntryType, key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	e := entry{
		Type:      typ,
		Data:      raw,
		CreatedAt: time.Now().Unix(),
		TTLSecs:   int64(typ.TTL().Seconds()),
	}
	data, err := json.Marshal(&e)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := atomic.WriteFile(c.entryPath(typ, key), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}

	return nil
}

// PurgeExpired removes expired and unreadable entries and
// returns how many were removed.
func (c *Cache) PurgeExpired() (int, error) {
	files, err := c.entryFiles()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	removed := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var e entry
		if err := json.Unmarshal(data, &e); err == nil && !e.expired(now) {
			continue
		}
		if os.Remove(path) == nil {
			removed++
		}
	}

	return removed, nil
}

// Clear removes every entry and returns how many were removed.
func (c *Cache) Clear() (int, error) {
	files, err := c.entryFiles()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range files {
		if os.Remove(path) == nil {
			removed++
		}
	}

	return removed, nil
}

// Stats summarizes the cache contents.
type Stats struct {
	Total     int   `json:"total"`
	Valid     int   `json:"valid"`
	Expired   int   `json:"expired"`
	SizeBytes int64 `json:"size_bytes"`
}

// FormattedSize renders SizeBytes for display, e.g. "2.4 KB".
func (s Stats) FormattedSize() string {
	return format.Size(s.SizeBytes)
}

// Stats scans the cache directory. Unreadable entries count as expired.
func (c *Cache) Stats() (Stats, error) {
	files, err := c.entryFiles()
	if err != nil {
		return Stats{}, err
	}

	now := time.Now()
	var stats Stats
	for _, path := range files {
		stats.Total++

		if info, err := os.Stat(path); err == nil {
			stats.SizeBytes += info.Size()
		}

		data, err := os.ReadFile(path)
		if err != nil {
			stats.Expired++
			continue
		}
		var e entry
		if err := json.Unmarshal(data, &e); err != nil || e.expired(now) {
			stats.Expired++
			continue
		}
		stats.Valid++
	}

	return stats, nil
}

// entryFiles lists the entry files currently on disk, including scoped
// subdirectories. A missing cache directory means an empty cache.
func (c *Cache) entryFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(c.dir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read cache directory: %w", err)
	}
	return files, nil
}

// Fingerprint derives a stable cache key from a command name and its
// resolved filters. Filters are lowercased, sorted and deduplicated, so
// logically identical invocations share one entry regardless of flag
// order or casing.
func Fingerprint(command string, filters []string) string {
	normalized := make([]string, 0, len(filters))
	for _, f := range filters {
		normalized = append(normalized, strings.ToLower(f))
	}
	slices.Sort(normalized)
	normalized = slices.Compact(normalized)

	h := sha256.New()
	h.Write([]byte(command))
	for _, f := range normalized {
		h.Write([]byte{0})
		h.Write([]byte(f))
	}
	return hex.EncodeToString(h.Sum(nil))
}
