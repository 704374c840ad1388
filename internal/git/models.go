package git

import "time"

// Hash identifies a commit object.
type Hash struct {
	Full  string
	Short string
}

// Equal reports whether both hashes name the same object.
func (h Hash) Equal(other Hash) bool {
	return h.Full == other.Full
}

func (h Hash) String() string {
	if h.Short != "" {
		return h.Short
	}
	return h.Full
}

// Signature represents an author or committer.
type Signature struct {
	Name  string
	Email string
}

// LogEntry is a single parsed commit.
type LogEntry struct {
	Hash       Hash
	Parents    []Hash
	Author     Signature
	Committer  Signature
	AuthorDate time.Time
	CommitDate time.Time
	Subject    string
	Body       string
	Refs       []string
	Files      []CommittedFile // only for commit detail queries

	// IsLastCommit is true when some local or remote branch points at this commit.
	IsLastCommit bool
	// IsMerged is true when a tip commit is contained in another ref with a
	// different tip. Always false when IsLastCommit is false.
	IsMerged bool
}

// IsMergeCommit reports whether the commit has two or more parents.
func (e *LogEntry) IsMergeCommit() bool {
	return len(e.Parents) >= 2
}

// IsRootCommit reports whether the commit has no parents.
func (e *LogEntry) IsRootCommit() bool {
	return len(e.Parents) == 0
}

// FileStatus classifies a changed file.
type FileStatus int

const (
	StatusModified FileStatus = iota
	StatusAdded
	StatusDeleted
	StatusRenamed
	StatusCopied
)

// String returns a string representation of the status.
func (s FileStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusModified:
		return "modified"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusCopied:
		return "copied"
	default:
		return "unknown"
	}
}

// Code returns the single-letter git status code.
func (s FileStatus) Code() string {
	switch s {
	case StatusAdded:
		return "A"
	case StatusDeleted:
		return "D"
	case StatusRenamed:
		return "R"
	case StatusCopied:
		return "C"
	default:
		return "M"
	}
}

// CommittedFile is a file changed by a commit or between two commits.
type CommittedFile struct {
	RelativePath string
	AbsolutePath string
	PreviousPath string // renames and copies only
	Status       FileStatus
	LinesAdded   int
	LinesDeleted int
	Binary       bool
}

// Churn returns total lines changed (added + deleted).
func (f CommittedFile) Churn() int {
	return f.LinesAdded + f.LinesDeleted
}

// Branch is a local branch.
type Branch struct {
	Name      string
	IsCurrent bool
}

// RefHashPair is one line of the ref listing.
type RefHashPair struct {
	Ref  string
	Hash string
}

// LogQuery holds the filters of a paginated log request.
type LogQuery struct {
	PageIndex  int
	PageSize   int
	Branch     string
	SearchText string
	Path       string // absolute or repository-relative; empty for no filter
}

// LogPage is one page of history.
type LogPage struct {
	Items      []LogEntry
	TotalCount int
	Branch     string
	Path       string
	PageIndex  int
	PageSize   int
	SearchText string
}
