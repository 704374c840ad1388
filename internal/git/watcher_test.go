package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRefEvent(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/r/.git/HEAD", true},
		{"/r/.git/packed-refs", true},
		{"/r/.git/refs/heads/main", true},
		{"/r/.git/refs/remotes/origin/feature", true},
		{"/r/.git/refs/heads/main.lock", false},
		{"/r/.git/index", false},
		{"/r/.git/ORIG_HEAD", false},
		{"/r/.git/FETCH_HEAD", false},
		{"/r/.git/objects/ab/cdef", false},
	}
	for _, tt := range tests {
		if got := isRefEvent(tt.path); got != tt.want {
			t.Errorf("isRefEvent(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestResolveGitDir(t *testing.T) {
	t.Run("directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

		got, err := resolveGitDir(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ".git"), got)
	})

	t.Run("linked worktree", func(t *testing.T) {
		base := t.TempDir()
		gitDir := filepath.Join(base, "main", ".git", "worktrees", "wt")
		require.NoError(t, os.MkdirAll(gitDir, 0o755))
		require.NoError(t, os.MkdirAll(filepath.Join(base, "main", ".git", "refs"), 0o755))

		wt := filepath.Join(base, "wt")
		require.NoError(t, os.Mkdir(wt, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(wt, ".git"), []byte("gitdir: "+gitDir+"\n"), 0o644))

		got, err := resolveGitDir(wt)
		require.NoError(t, err)
		assert.Equal(t, gitDir, got)
		assert.Equal(t, filepath.Join(base, "main", ".git", "refs"), sharedBaseRefs(got))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := resolveGitDir(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("garbage file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("nope"), 0o644))
		_, err := resolveGitDir(dir)
		assert.Error(t, err)
	})
}

func TestSharedBaseRefs_NotWorktree(t *testing.T) {
	assert.Empty(t, sharedBaseRefs(filepath.Join(t.TempDir(), ".git")))
}

func TestWatchRefs_InvalidatesOnRefChange(t *testing.T) {
	dir := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	heads := filepath.Join(dir, ".git", "refs", "heads")
	require.NoError(t, os.MkdirAll(heads, 0o755))

	mock := NewMockExecutor().
		On(RootArgs(), dir+"\n", nil).
		On(RefsArgs(), hashC1+" refs/heads/main\n", nil)
	svc := NewHistoryService(ServiceOptions{WorkDir: dir, Executor: mock})
	ctx := context.Background()

	_, err := svc.GetRefs(ctx)
	require.NoError(t, err)

	changed := make(chan struct{}, 4)
	rw, err := svc.WatchRefs(ctx, 20*time.Millisecond, func() { changed <- struct{}{} })
	require.NoError(t, err)
	defer rw.Stop()

	// Lock files alone do not count.
	require.NoError(t, os.WriteFile(filepath.Join(heads, "main.lock"), []byte(hashC2+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(heads, "main"), []byte(hashC2+"\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the ref change")
	}

	mock.On(RefsArgs(), hashC2+" refs/heads/main\n", nil)
	refs, err := svc.GetRefs(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, hashC2, refs[0].Hash)
	assert.Equal(t, 2, mock.CallCount(RefsArgs()))

	rw.Stop()
	rw.Stop()
}
