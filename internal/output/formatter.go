package output

import (
	"io"
	"time"

	"github.com/masmgr/githistory-go/internal/git"
)

// Compile-time interface conformance checks.
// These ensure that all writer types correctly implement their respective interfaces.
var (
	// LogReportWriter implementations
	_ LogReportWriter = (*ConsoleLogWriter)(nil)
	_ LogReportWriter = (*JSONLogWriter)(nil)
	_ LogReportWriter = (*CSVLogWriter)(nil)
	_ LogReportWriter = (*MarkdownLogWriter)(nil)

	// CommitReportWriter implementations
	_ CommitReportWriter = (*ConsoleCommitWriter)(nil)
	_ CommitReportWriter = (*JSONCommitWriter)(nil)
	_ CommitReportWriter = (*CSVCommitWriter)(nil)
	_ CommitReportWriter = (*MarkdownCommitWriter)(nil)

	// DiffReportWriter implementations
	_ DiffReportWriter = (*ConsoleDiffWriter)(nil)
	_ DiffReportWriter = (*JSONDiffWriter)(nil)
	_ DiffReportWriter = (*CSVDiffWriter)(nil)
	_ DiffReportWriter = (*MarkdownDiffWriter)(nil)

	// RefsReportWriter implementations
	_ RefsReportWriter = (*ConsoleRefsWriter)(nil)
	_ RefsReportWriter = (*JSONRefsWriter)(nil)
	_ RefsReportWriter = (*CSVRefsWriter)(nil)
	_ RefsReportWriter = (*MarkdownRefsWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
	// Writer overrides OutputPath and stdout when set.
	Writer io.Writer
}

// LogReport holds one page of commit history.
type LogReport struct {
	RepoPath    string
	GeneratedAt time.Time
	Page        *git.LogPage
}

// CommitReport holds a single commit with its changed files.
type CommitReport struct {
	RepoPath    string
	GeneratedAt time.Time
	Commit      *git.LogEntry
}

// DiffReport holds the files changed between two revisions.
type DiffReport struct {
	RepoPath    string
	GeneratedAt time.Time
	Base        string
	Head        string
	Files       []git.CommittedFile
}

// RefsReport holds branch tips and local branches.
type RefsReport struct {
	RepoPath      string
	GeneratedAt   time.Time
	CurrentBranch string
	Refs          []git.RefHashPair
	Branches      []git.Branch
}

// LogReportWriter writes log pages.
type LogReportWriter interface {
	Write(report *LogReport, options OutputOptions) error
}

// CommitReportWriter writes commit detail reports.
type CommitReportWriter interface {
	Write(report *CommitReport, options OutputOptions) error
}

// DiffReportWriter writes diff reports.
type DiffReportWriter interface {
	Write(report *DiffReport, options OutputOptions) error
}

// RefsReportWriter writes ref listings.
type RefsReportWriter interface {
	Write(report *RefsReport, options OutputOptions) error
}

// NewLogReportWriter creates a log report writer for the specified format.
func NewLogReportWriter(format OutputFormat) LogReportWriter {
	switch format {
	case FormatJSON:
		return &JSONLogWriter{}
	case FormatCSV:
		return &CSVLogWriter{}
	case FormatMarkdown:
		return &MarkdownLogWriter{}
	default:
		return &ConsoleLogWriter{}
	}
}

// NewCommitReportWriter creates a commit report writer for the specified format.
func NewCommitReportWriter(format OutputFormat) CommitReportWriter {
	switch format {
	case FormatJSON:
		return &JSONCommitWriter{}
	case FormatCSV:
		return &CSVCommitWriter{}
	case FormatMarkdown:
		return &MarkdownCommitWriter{}
	default:
		return &ConsoleCommitWriter{}
	}
}

// NewDiffReportWriter creates a diff report writer for the specified format.
func NewDiffReportWriter(format OutputFormat) DiffReportWriter {
	switch format {
	case FormatJSON:
		return &JSONDiffWriter{}
	case FormatCSV:
		return &CSVDiffWriter{}
	case FormatMarkdown:
		return &MarkdownDiffWriter{}
	default:
		return &ConsoleDiffWriter{}
	}
}

// NewRefsReportWriter creates a refs report writer for the specified format.
func NewRefsReportWriter(format OutputFormat) RefsReportWriter {
	switch format {
	case FormatJSON:
		return &JSONRefsWriter{}
	case FormatCSV:
		return &CSVRefsWriter{}
	case FormatMarkdown:
		return &MarkdownRefsWriter{}
	default:
		return &ConsoleRefsWriter{}
	}
}
