package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultWatchDebounce = 250 * time.Millisecond

// RefWatcher watches a repository's git metadata and invalidates cached ref
// state when branches move.
type RefWatcher struct {
	watcher  *fsnotify.Watcher
	service  *HistoryService
	logger   *slog.Logger
	debounce time.Duration
	onChange func()

	timerMu sync.Mutex
	timer   *time.Timer

	stopCh   chan struct{}
	stopOnce sync.Once
}

// WatchRefs starts watching the repository behind s. onChange, if non-nil, runs
// after the ref cache has been invalidated. Call Stop to release the watcher.
func (s *HistoryService) WatchRefs(ctx context.Context, debounce time.Duration, onChange func()) (*RefWatcher, error) {
	root, err := s.Root(ctx)
	if err != nil {
		return nil, err
	}
	gitDir, err := resolveGitDir(root)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}

	rw := &RefWatcher{
		watcher:  w,
		service:  s,
		logger:   s.logger.With(slog.String("gitdir", gitDir)),
		debounce: debounce,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}

	// The git dir itself catches HEAD and packed-refs rewrites.
	rw.add(gitDir)
	rw.addRecursive(filepath.Join(gitDir, "refs"))
	if base := sharedBaseRefs(gitDir); base != "" {
		rw.addRecursive(base)
	}

	go rw.eventLoop()
	return rw, nil
}

// Stop closes the watcher and cancels any pending invalidation. Safe to call
// multiple times.
func (rw *RefWatcher) Stop() {
	rw.stopOnce.Do(func() {
		close(rw.stopCh)
		rw.watcher.Close()

		rw.timerMu.Lock()
		if rw.timer != nil {
			rw.timer.Stop()
		}
		rw.timerMu.Unlock()
	})
}

func (rw *RefWatcher) eventLoop() {
	for {
		select {
		case event, ok := <-rw.watcher.Events:
			if !ok {
				return
			}
			rw.handleEvent(event)
		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return
			}
			rw.logger.Warn("ref watcher error", "error", err)
		case <-rw.stopCh:
			return
		}
	}
}

func (rw *RefWatcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			rw.addRecursive(event.Name)
		}
	}
	if !isRefEvent(event.Name) {
		return
	}
	rw.resetDebounce()
}

// isRefEvent filters out churn from index, object and lock files.
func isRefEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".lock") {
		return false
	}
	switch base {
	case "index", "ORIG_HEAD", "FETCH_HEAD", "COMMIT_EDITMSG":
		return false
	}
	slashed := filepath.ToSlash(path)
	return base == "HEAD" || base == "packed-refs" || strings.Contains(slashed, "/refs/")
}

func (rw *RefWatcher) resetDebounce() {
	rw.timerMu.Lock()
	defer rw.timerMu.Unlock()

	if rw.timer != nil {
		rw.timer.Reset(rw.debounce)
		return
	}
	rw.timer = time.AfterFunc(rw.debounce, rw.fire)
}

func (rw *RefWatcher) fire() {
	select {
	case <-rw.stopCh:
		return
	default:
	}
	rw.service.Invalidate(CacheRefs)
	rw.logger.Debug("refs changed")
	if rw.onChange != nil {
		rw.onChange()
	}
}

func (rw *RefWatcher) add(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := rw.watcher.Add(path); err != nil {
		rw.logger.Warn("failed to watch path", "path", path, "error", err)
	}
}

func (rw *RefWatcher) addRecursive(dir string) {
	if _, err := os.Stat(dir); err != nil {
		return
	}
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			rw.add(path)
		}
		return nil
	})
}

// resolveGitDir returns the .git directory of a working tree. For linked
// worktrees .git is a file containing "gitdir: <path>".
func resolveGitDir(workTree string) (string, error) {
	dotGit := filepath.Join(workTree, ".git")

	info, err := os.Lstat(dotGit)
	if err != nil {
		return "", fmt.Errorf("no .git found: %w", err)
	}
	if info.IsDir() {
		return dotGit, nil
	}

	data, err := os.ReadFile(dotGit)
	if err != nil {
		return "", fmt.Errorf("failed to read .git file: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if !strings.HasPrefix(content, "gitdir: ") {
		return "", fmt.Errorf("unexpected .git file content: %s", content)
	}

	gitDir := strings.TrimPrefix(content, "gitdir: ")
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(workTree, gitDir)
	}
	return filepath.Clean(gitDir), nil
}

// sharedBaseRefs returns <base>/refs for a worktree gitdir of the form
// <base>/worktrees/<name>, or "" otherwise.
func sharedBaseRefs(gitDir string) string {
	dir := filepath.Dir(gitDir)
	if filepath.Base(dir) != "worktrees" {
		return ""
	}
	refs := filepath.Join(filepath.Dir(dir), "refs")
	if _, err := os.Stat(refs); err != nil {
		return ""
	}
	return refs
}
