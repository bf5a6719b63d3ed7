// Package cache provides a modification-time keyed cache of raw file text
// and parsed todo files.
package cache

import (
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"todotree/internal/core/todo"
)

// DefaultCapacity is the soft per-map entry cap when none is configured.
const DefaultCapacity = 256

type entry[T any] struct {
	value   T
	modTime time.Time
	seq     uint64
}

// FileCache caches raw content and parse results per absolute file path.
// Each entry remembers the file's modification time when it was read; a
// matching stat on a later read returns the cached value without touching
// the file, so a file is parsed at most once per observed modification.
//
// The cache is purely a performance layer. Eviction and invalidation never
// affect correctness: a missing entry is recomputed on the next read, and
// every mutation is a single-key replacement, so concurrent readers see
// either the old value or the new one.
type FileCache struct {
	log zerolog.Logger

	mu       sync.Mutex
	seq      uint64
	capacity int
	content  map[string]entry[string]
	parsed   map[string]entry[*todo.File]

	// Overridable in tests to count I/O.
	statFile func(string) (os.FileInfo, error)
	readFile func(string) ([]byte, error)
}

// New creates a FileCache with the given per-map capacity. Capacities < 1
// fall back to DefaultCapacity.
func New(capacity int, log zerolog.Logger) *FileCache {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &FileCache{
		log:      log.With().Str("component", "file-cache").Logger(),
		capacity: capacity,
		content:  make(map[string]entry[string]),
		parsed:   make(map[string]entry[*todo.File]),
		statFile: os.Stat,
		readFile: os.ReadFile,
	}
}

// ParsedFile returns the parsed todo file at path, assigned to the given
// group. Unreadable files degrade to an empty file and never return an
// error; nothing is cached for them.
func (c *FileCache) ParsedFile(path, group string) *todo.File {
	info, err := c.statFile(path)
	if err != nil {
		c.log.Debug().Err(err).Str("path", path).Msg("stat failed, treating file as empty")
		return todo.NewFile(path, group, nil)
	}
	mod := info.ModTime()

	c.mu.Lock()
	if e, ok := c.parsed[path]; ok && e.modTime.Equal(mod) {
		f := e.value
		c.mu.Unlock()
		return f
	}
	c.mu.Unlock()

	text, ok := c.contentAt(path, mod)
	if !ok {
		return todo.NewFile(path, group, nil)
	}

	f := todo.NewFile(path, group, todo.Parse(path, text))

	c.mu.Lock()
	c.seq++
	c.parsed[path] = entry[*todo.File]{value: f, modTime: mod, seq: c.seq}
	evictOldest(c.parsed, c.capacity)
	c.mu.Unlock()

	return f
}

// contentAt returns the file text for path as of the given modification
// time, reading from disk only when the content cache is cold or stale.
func (c *FileCache) contentAt(path string, mod time.Time) (string, bool) {
	c.mu.Lock()
	if e, ok := c.content[path]; ok && e.modTime.Equal(mod) {
		c.mu.Unlock()
		return e.value, true
	}
	c.mu.Unlock()

	data, err := c.readFile(path)
	if err != nil {
		c.log.Debug().Err(err).Str("path", path).Msg("read failed, treating file as empty")
		return "", false
	}
	text := string(data)

	c.mu.Lock()
	c.seq++
	c.content[path] = entry[string]{value: text, modTime: mod, seq: c.seq}
	evictOldest(c.content, c.capacity)
	c.mu.Unlock()

	return text, true
}

// Invalidate removes the given paths from both caches. With no arguments it
// clears both caches entirely. Safe to call concurrently with reads: a
// cleared path simply misses and is recomputed.
func (c *FileCache) Invalidate(paths ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(paths) == 0 {
		c.content = make(map[string]entry[string])
		c.parsed = make(map[string]entry[*todo.File])
		return
	}

	for _, p := range paths {
		delete(c.content, p)
		delete(c.parsed, p)
	}
}

// Len returns the current entry counts of the parse and content caches.
func (c *FileCache) Len() (parsed, content int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.parsed), len(c.content)
}

// evictOldest drops the oldest-inserted tenth of entries once the map
// exceeds capacity. Insertion order is close enough to LRU here: working
// sets are small and re-reading an evicted file is cheap and correct.
func evictOldest[T any](m map[string]entry[T], capacity int) {
	if len(m) <= capacity {
		return
	}

	drop := capacity / 10
	if drop < 1 {
		drop = 1
	}

	type aged struct {
		key string
		seq uint64
	}
	all := make([]aged, 0, len(m))
	for k, e := range m {
		all = append(all, aged{key: k, seq: e.seq})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })

	for _, a := range all[:drop] {
		delete(m, a.key)
	}
}
