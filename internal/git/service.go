package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize    = 100
	defaultMaxParallel = 8
)

// ServiceOptions configures a HistoryService.
type ServiceOptions struct {
	WorkDir string
	// Executor runs git. Defaults to a CommandExecutor for "git".
	Executor Executor
	Logger   *slog.Logger
	// DefaultPageSize is used when a query's page size is zero or negative.
	DefaultPageSize int
	// MaxParallel bounds concurrent containment lookups in the annotation pass.
	MaxParallel int
	// CommitCacheSize bounds the per-hash memo (0 means unbounded).
	CommitCacheSize int
	// Filter restricts the files reported by commit detail and diff queries.
	Filter *PathFilter
}

// HistoryService reconstructs commit history for one working directory.
type HistoryService struct {
	exec   Executor
	root   *RootResolver
	logger *slog.Logger
	filter *PathFilter

	pageSize    int
	maxParallel int

	refs    *memo
	commits *memo
}

// NewHistoryService creates a service bound to opts.WorkDir.
func NewHistoryService(opts ServiceOptions) *HistoryService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With(slog.String("component", "git"))

	exec := opts.Executor
	if exec == nil {
		exec = NewCommandExecutor("git", logger)
	}
	pageSize := opts.DefaultPageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	maxParallel := opts.MaxParallel
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallel
	}

	return &HistoryService{
		exec:        exec,
		root:        NewRootResolver(exec, opts.WorkDir),
		logger:      logger,
		filter:      opts.Filter,
		pageSize:    pageSize,
		maxParallel: maxParallel,
		refs:        newMemo(0),
		commits:     newMemo(opts.CommitCacheSize),
	}
}

// Root returns the repository root, resolving it on first use.
func (s *HistoryService) Root(ctx context.Context) (string, error) {
	return s.root.Resolve(ctx)
}

// ToRepoRelative converts path into a repository-relative, forward-slash path.
func (s *HistoryService) ToRepoRelative(ctx context.Context, path string) (string, error) {
	root, err := s.Root(ctx)
	if err != nil {
		return "", err
	}
	return ToRepoRelative(path, root), nil
}

// Invalidate drops memoized results of the given kind.
func (s *HistoryService) Invalidate(kind CacheKind) {
	switch kind {
	case CacheRoot:
		s.root.Reset()
	case CacheRefs:
		s.refs.purge()
	case CacheCommits:
		s.commits.purge()
	case CacheAll:
		s.root.Reset()
		s.refs.purge()
		s.commits.purge()
	}
	s.logger.Debug("cache invalidated", "kind", kind.String())
}

// GetLogPage returns one page of history with graph metadata.
func (s *HistoryService) GetLogPage(ctx context.Context, q LogQuery) (*LogPage, error) {
	if q.PageSize <= 0 {
		q.PageSize = s.pageSize
	}
	if q.PageIndex < 0 {
		q.PageIndex = 0
	}

	root, err := s.Root(ctx)
	if err != nil {
		return nil, err
	}
	if q.Path != "" {
		q.Path = ToRepoRelative(q.Path, root)
	}

	var logOutput, countOutput string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.exec.Exec(gctx, root, LogArgs(q)...)
		logOutput = out
		return err
	})
	g.Go(func() error {
		out, err := s.exec.Exec(gctx, root, CountArgs(q)...)
		countOutput = out
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total, err := strconv.Atoi(strings.TrimSpace(countOutput))
	if err != nil {
		return nil, &ParseError{Reason: "commit count is not a number", Record: countOutput}
	}

	items := make([]LogEntry, 0, q.PageSize)
	for _, record := range SplitRecords(logOutput) {
		entry, err := ParseRecord(root, record, FieldSeparator, LogFormatFields, "", "")
		if err != nil {
			s.logger.Warn("skipping malformed log record", "error", err)
			continue
		}
		if entry == nil {
			continue
		}
		items = append(items, *entry)
	}

	if err := s.annotate(ctx, root, items); err != nil {
		return nil, err
	}

	s.logger.Debug("log page loaded",
		"page", q.PageIndex,
		"size", q.PageSize,
		"items", len(items),
		"total", total)

	return &LogPage{
		Items:      items,
		TotalCount: total,
		Branch:     q.Branch,
		Path:       q.Path,
		PageIndex:  q.PageIndex,
		PageSize:   q.PageSize,
		SearchText: q.SearchText,
	}, nil
}

// annotate fills IsLastCommit and IsMerged for a batch. Containment lookups run
// only for tip commits; a failed lookup leaves IsMerged false.
func (s *HistoryService) annotate(ctx context.Context, root string, items []LogEntry) error {
	if len(items) == 0 {
		return nil
	}

	refs, err := s.getRefs(ctx, root)
	if err != nil {
		return err
	}
	refHashes := refHashMap(refs)
	tips := tipHashes(refs)

	var g errgroup.Group
	g.SetLimit(s.maxParallel)
	for i := range items {
		item := &items[i]
		_, isTip := tips[item.Hash.Full]
		item.IsLastCommit = isTip
		item.IsMerged = false
		if !isTip {
			continue
		}
		g.Go(func() error {
			out, err := s.exec.Exec(ctx, root, RefsContainingArgs(item.Hash.Full)...)
			if err != nil {
				s.logger.Warn("containment lookup failed", "hash", item.Hash.Full, "error", err)
				return nil
			}
			item.IsMerged = isMergedElsewhere(item.Hash.Full, ParseRefNames(out), refHashes)
			return nil
		})
	}
	return g.Wait()
}

// refHashMap maps ref name to tip hash.
func refHashMap(refs []RefHashPair) map[string]string {
	m := make(map[string]string, len(refs))
	for _, r := range refs {
		m[r.Ref] = r.Hash
	}
	return m
}

// tipHashes returns the set of hashes some ref points at.
func tipHashes(refs []RefHashPair) map[string]struct{} {
	m := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		m[r.Hash] = struct{}{}
	}
	return m
}

// isMergedElsewhere reports whether any containing ref has a tip other than hash.
func isMergedElsewhere(hash string, containing []string, refHashes map[string]string) bool {
	for _, ref := range containing {
		tip, ok := refHashes[ref]
		if ok && tip != hash {
			return true
		}
	}
	return false
}

// GetCommit returns a commit with its changed files, or nil when the hash
// resolves to no record.
func (s *HistoryService) GetCommit(ctx context.Context, hash string) (*LogEntry, error) {
	root, err := s.Root(ctx)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s.commits, "commit:"+hash, func(ctx context.Context) (*LogEntry, error) {
		return s.loadCommit(ctx, root, hash)
	}, func(e *LogEntry) bool { return e != nil })
}

func (s *HistoryService) loadCommit(ctx context.Context, root, hash string) (*LogEntry, error) {
	parentOutput, err := s.exec.Exec(ctx, root, ParentHashesArgs(hash)...)
	if err != nil {
		return nil, err
	}
	shape := ShapeFromParents(strings.Fields(parentOutput))

	var commitOutput, numStatOutput, nameStatusOutput string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.exec.Exec(gctx, root, CommitArgs(hash)...)
		commitOutput = out
		return err
	})
	g.Go(func() error {
		out, err := s.exec.Exec(gctx, root, CommitNumStatArgs(hash, shape)...)
		numStatOutput = out
		return err
	})
	g.Go(func() error {
		out, err := s.exec.Exec(gctx, root, CommitNameStatusArgs(hash, shape)...)
		nameStatusOutput = out
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, record := range SplitRecords(commitOutput) {
		entry, err := ParseRecord(root, record, FieldSeparator, LogFormatFields, numStatOutput, nameStatusOutput)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			continue
		}
		if entry.Files == nil {
			entry.Files = []CommittedFile{}
		}
		if entry.Files, err = s.filter.Apply(entry.Files); err != nil {
			return nil, err
		}
		s.logger.Debug("commit loaded", "hash", entry.Hash.Full, "shape", shape.String(), "files", len(entry.Files))
		return entry, nil
	}
	return nil, nil
}

// GetDifferences returns the files changed between two commits. The order of
// the hashes is preserved.
func (s *HistoryService) GetDifferences(ctx context.Context, hashA, hashB string) ([]CommittedFile, error) {
	root, err := s.Root(ctx)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s.commits, "diff:"+hashA+".."+hashB, func(ctx context.Context) ([]CommittedFile, error) {
		var numStatOutput, nameStatusOutput string
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			out, err := s.exec.Exec(gctx, root, DiffNumStatArgs(hashA, hashB)...)
			numStatOutput = out
			return err
		})
		g.Go(func() error {
			out, err := s.exec.Exec(gctx, root, DiffNameStatusArgs(hashA, hashB)...)
			nameStatusOutput = out
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		files := ParseDiff(root, splitLines(numStatOutput), splitLines(nameStatusOutput))
		return s.filter.Apply(files)
	}, nil)
}

// GetRefs lists local and remote-tracking branch tips.
func (s *HistoryService) GetRefs(ctx context.Context) ([]RefHashPair, error) {
	root, err := s.Root(ctx)
	if err != nil {
		return nil, err
	}
	return s.getRefs(ctx, root)
}

func (s *HistoryService) getRefs(ctx context.Context, root string) ([]RefHashPair, error) {
	return cached(ctx, s.refs, "refs", func(ctx context.Context) ([]RefHashPair, error) {
		out, err := s.exec.Exec(ctx, root, RefsArgs()...)
		if err != nil {
			return nil, err
		}
		return ParseRefs(out), nil
	}, nil)
}

// GetBranches lists local branches.
func (s *HistoryService) GetBranches(ctx context.Context) ([]Branch, error) {
	root, err := s.Root(ctx)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s.refs, "branches", func(ctx context.Context) ([]Branch, error) {
		out, err := s.exec.Exec(ctx, root, BranchesArgs()...)
		if err != nil {
			return nil, err
		}
		return ParseBranches(out), nil
	}, nil)
}

// GetCurrentBranch returns the checked-out branch ("HEAD" when detached).
func (s *HistoryService) GetCurrentBranch(ctx context.Context) (string, error) {
	root, err := s.Root(ctx)
	if err != nil {
		return "", err
	}
	return cached(ctx, s.refs, "current-branch", func(ctx context.Context) (string, error) {
		out, err := s.exec.Exec(ctx, root, CurrentBranchArgs()...)
		if err != nil {
			return "", err
		}
		return firstLine(out), nil
	}, nil)
}

// GetObjectHash resolves a revision (branch, tag, abbreviated hash) to a full hash.
func (s *HistoryService) GetObjectHash(ctx context.Context, object string) (string, error) {
	root, err := s.Root(ctx)
	if err != nil {
		return "", err
	}
	return cached(ctx, s.refs, "object:"+object, func(ctx context.Context) (string, error) {
		out, err := s.exec.Exec(ctx, root, ObjectHashArgs(object)...)
		if err != nil {
			return "", err
		}
		hash := firstLine(out)
		if !isFullHash(hash) {
			return "", &ParseError{Reason: "object did not resolve to a hash", Record: out}
		}
		return hash, nil
	}, nil)
}

// GetHash returns the full and short forms of a commit hash.
func (s *HistoryService) GetHash(ctx context.Context, hash string) (Hash, error) {
	root, err := s.Root(ctx)
	if err != nil {
		return Hash{}, err
	}
	return cached(ctx, s.commits, "hash:"+hash, func(ctx context.Context) (Hash, error) {
		out, err := s.exec.Exec(ctx, root, HashArgs(hash)...)
		if err != nil {
			return Hash{}, err
		}
		h, ok := ParseHashPair(out)
		if !ok {
			return Hash{}, &ParseError{Reason: "missing hash", Record: out}
		}
		return h, nil
	}, nil)
}

// GetCommitDate returns the committer date of a commit. ok is false when git
// reports no usable date.
func (s *HistoryService) GetCommitDate(ctx context.Context, hash string) (t time.Time, ok bool, err error) {
	root, err := s.Root(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	t, err = cached(ctx, s.commits, "date:"+hash, func(ctx context.Context) (time.Time, error) {
		out, err := s.exec.Exec(ctx, root, CommitDateArgs(hash)...)
		if err != nil {
			return time.Time{}, err
		}
		return parseUnixTime(firstLine(out)), nil
	}, func(t time.Time) bool { return !t.IsZero() })
	if err != nil {
		return time.Time{}, false, err
	}
	return t, !t.IsZero(), nil
}

// GetCommitFileContent returns the content of path as of hash.
func (s *HistoryService) GetCommitFileContent(ctx context.Context, hash, path string) (string, error) {
	root, err := s.Root(ctx)
	if err != nil {
		return "", err
	}
	return s.exec.Exec(ctx, root, FileContentArgs(hash, ToRepoRelative(path, root))...)
}

// GetPreviousCommitHashForFile returns the most recent commit before hash that
// touched path.
func (s *HistoryService) GetPreviousCommitHashForFile(ctx context.Context, hash, path string) (Hash, error) {
	root, err := s.Root(ctx)
	if err != nil {
		return Hash{}, err
	}
	rel := ToRepoRelative(path, root)
	return cached(ctx, s.commits, "previous:"+hash+":"+rel, func(ctx context.Context) (Hash, error) {
		out, err := s.exec.Exec(ctx, root, PreviousCommitForFileArgs(hash, rel)...)
		if err != nil {
			return Hash{}, err
		}
		h, ok := ParseHashPair(out)
		if !ok {
			return Hash{}, fmt.Errorf("no commit before %s touches %s", hash, rel)
		}
		return h, nil
	}, nil)
}

// CreateBranch creates and checks out a branch at hash, then drops cached
// ref state.
func (s *HistoryService) CreateBranch(ctx context.Context, name, hash string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("branch name is required")
	}
	root, err := s.Root(ctx)
	if err != nil {
		return err
	}
	if _, err := s.exec.Exec(ctx, root, CreateBranchArgs(name, hash)...); err != nil {
		return err
	}
	s.Invalidate(CacheRefs)
	return nil
}
