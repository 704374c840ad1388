package git

import "context"

// HistoryReader is the read surface of the history engine plus cache control.
type HistoryReader interface {
	GetLogPage(ctx context.Context, q LogQuery) (*LogPage, error)
	GetCommit(ctx context.Context, hash string) (*LogEntry, error)
	GetDifferences(ctx context.Context, hashA, hashB string) ([]CommittedFile, error)
	ToRepoRelative(ctx context.Context, path string) (string, error)
	Invalidate(kind CacheKind)
}

// Compile-time interface conformance checks.
var (
	_ HistoryReader = (*HistoryService)(nil)
	_ Executor      = (*CommandExecutor)(nil)
	_ Executor      = (*MockExecutor)(nil)
)
