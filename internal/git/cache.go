package git

import (
	"context"
	"sync"

	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/singleflight"
)

// CacheKind names a group of memoized results that can be invalidated together.
type CacheKind int

const (
	// CacheRoot is the resolved repository root.
	CacheRoot CacheKind = iota
	// CacheRefs holds ref listings, branches, the current branch and
	// revision-to-hash lookups. Stale once any ref moves.
	CacheRefs
	// CacheCommits holds per-hash results. Commit objects are immutable, so
	// these only need clearing to bound memory.
	CacheCommits
	// CacheAll clears every kind.
	CacheAll
)

func (k CacheKind) String() string {
	switch k {
	case CacheRoot:
		return "root"
	case CacheRefs:
		return "refs"
	case CacheCommits:
		return "commits"
	case CacheAll:
		return "all"
	default:
		return "unknown"
	}
}

// memo is a concurrency-safe LRU memo. Concurrent calls for the same key
// share one execution.
type memo struct {
	mu      sync.Mutex
	entries *lru.Cache
	group   singleflight.Group
	// generation guards against storing a result computed before a purge.
	generation uint64
}

// newMemo creates a memo holding at most maxEntries values (0 means unbounded).
func newMemo(maxEntries int) *memo {
	return &memo{entries: lru.New(maxEntries)}
}

func (m *memo) get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries.Get(key)
}

func (m *memo) add(key string, value any, generation uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if generation != m.generation {
		return
	}
	m.entries.Add(key, value)
}

// do returns the cached value for key or computes it with fn. Only successful
// results with keep(value) true are stored. Concurrent callers share one run
// of fn, which gets a context detached from the caller's cancellation; a
// caller whose ctx ends stops waiting without failing the others.
func (m *memo) do(ctx context.Context, key string, fn func(context.Context) (any, error), keep func(any) bool) (any, error) {
	if v, ok := m.get(key); ok {
		return v, nil
	}

	m.mu.Lock()
	generation := m.generation
	m.mu.Unlock()

	ch := m.group.DoChan(key, func() (any, error) {
		v, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if keep == nil || keep(v) {
			m.add(key, v, generation)
		}
		return v, nil
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *memo) purge() {
	m.mu.Lock()
	m.entries.Clear()
	m.generation++
	m.mu.Unlock()
}

func (m *memo) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries.Len()
}

// cached runs fn through m and converts the result back to T.
func cached[T any](ctx context.Context, m *memo, key string, fn func(context.Context) (T, error), keep func(T) bool) (T, error) {
	v, err := m.do(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	}, func(v any) bool {
		if keep == nil {
			return true
		}
		t, _ := v.(T)
		return keep(t)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}
