// Package todotree implements discovery, grouping, and change-driven
// refresh of todo outline files under configured search roots.
package todotree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"todotree/internal/core/cache"
	"todotree/internal/core/config"
	"todotree/internal/core/todo"
)

// Service discovers todo files under the search roots, parses them through
// the file cache, and owns the current grouped snapshot.
type Service struct {
	cfg   *config.Config
	cache *cache.FileCache
	log   zerolog.Logger

	mu       sync.Mutex
	snapshot []todo.Group

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func([]todo.Group)
}

// NewService creates a new Service.
func NewService(cfg *config.Config, fc *cache.FileCache, log zerolog.Logger) *Service {
	return &Service{
		cfg:   cfg,
		cache: fc,
		log:   log.With().Str("component", "todo-service").Logger(),
		subs:  map[int]func([]todo.Group){},
	}
}

// searchRoot is one resolved discovery root.
type searchRoot struct {
	dir  string // absolute directory
	name string // group label for files sitting directly under dir
}

// searchRoots resolves the configured roots, falling back to the whole
// workspace with the ungrouped label when none are configured.
func (s *Service) searchRoots() []searchRoot {
	if len(s.cfg.Roots) == 0 {
		return []searchRoot{{dir: s.cfg.Workspace, name: config.UngroupedLabel}}
	}

	roots := make([]searchRoot, 0, len(s.cfg.Roots))
	for _, r := range s.cfg.Roots {
		roots = append(roots, searchRoot{dir: s.cfg.ResolveRoot(r), name: r.DisplayName()})
	}
	return roots
}

// FindAllFiles enumerates every todo file under the search roots and
// returns them grouped. Roots are walked concurrently; a root that cannot
// be enumerated contributes nothing and does not disturb the others. The
// merge appends files for a group name discovered by multiple roots, and
// groups are sorted by name so output is stable run-to-run.
func (s *Service) FindAllFiles(ctx context.Context) []todo.Group {
	var (
		mu     sync.Mutex
		merged = map[string][]*todo.File{}
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, root := range s.searchRoots() {
		g.Go(func() error {
			files := s.collectRoot(ctx, root)

			mu.Lock()
			for _, f := range files {
				merged[f.Group] = append(merged[f.Group], f)
			}
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; failures degrade to empty contributions.
	_ = g.Wait()

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]todo.Group, 0, len(names))
	for _, name := range names {
		groups = append(groups, todo.Group{Name: name, Files: merged[name]})
	}
	return groups
}

// collectRoot walks one root and parses each matching file via the cache.
func (s *Service) collectRoot(ctx context.Context, root searchRoot) []*todo.File {
	var files []*todo.File

	err := filepath.WalkDir(root.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			s.log.Debug().Err(err).Str("path", path).Msg("skipping path during walk")
			return nil
		}
		if ctx.Err() != nil {
			return filepath.SkipAll
		}

		rel, relErr := filepath.Rel(root.dir, path)
		if relErr != nil {
			return nil
		}

		if d.IsDir() {
			if path == root.dir {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || s.excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != s.cfg.Extension || s.excluded(rel) {
			return nil
		}

		files = append(files, s.cache.ParsedFile(path, groupName(root, rel)))
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Str("root", root.dir).Msg("enumerating root failed")
	}

	return files
}

// excluded reports whether a root-relative path matches an exclude pattern.
// Directories are tested with a trailing slash so "**/node_modules/**"
// style patterns prune the directory itself.
func (s *Service) excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.cfg.ExcludePatterns() {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// groupName derives the logical group for a file: the first directory
// segment under the root when the file is nested, else the root's own
// display name.
func groupName(root searchRoot, rel string) string {
	rel = filepath.ToSlash(rel)
	if i := strings.Index(rel, "/"); i > 0 {
		return rel[:i]
	}
	return root.name
}

// Groups returns the current grouped snapshot, building it first if no
// refresh has run yet.
func (s *Service) Groups(ctx context.Context) []todo.Group {
	s.mu.Lock()
	snap := s.snapshot
	s.mu.Unlock()

	if snap != nil {
		return snap
	}
	return s.Refresh(ctx)
}

// Refresh rebuilds the grouped snapshot and notifies subscribers. The new
// snapshot replaces the old one wholesale; slices already handed to
// callers are never mutated.
func (s *Service) Refresh(ctx context.Context) []todo.Group {
	groups := s.FindAllFiles(ctx)
	if groups == nil {
		// Non-nil marks "refreshed at least once" for Groups.
		groups = []todo.Group{}
	}

	s.mu.Lock()
	s.snapshot = groups
	s.mu.Unlock()

	s.notify(groups)
	return groups
}

// ActiveTasks returns the flattened list of top-level items with
// in-progress work anywhere beneath them.
func (s *Service) ActiveTasks(ctx context.Context) []todo.ActiveTask {
	return todo.ActiveTasks(s.Groups(ctx))
}

// Invalidate removes the given paths from the file cache, or everything
// when called with no arguments. The next read recomputes.
func (s *Service) Invalidate(paths ...string) {
	s.cache.Invalidate(paths...)
}

// OnRefreshed registers a callback invoked after every completed refresh.
// The returned function unsubscribes it.
func (s *Service) OnRefreshed(fn func([]todo.Group)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// notify invokes subscribers against a copied registry snapshot. A panic
// in one subscriber is logged and does not stop the others.
func (s *Service) notify(groups []todo.Group) {
	s.subMu.Lock()
	fns := make([]func([]todo.Group), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Error().Str("panic", fmt.Sprint(r)).Msg("refresh subscriber panicked")
				}
			}()
			fn(groups)
		}()
	}
}
