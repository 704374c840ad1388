package git

import (
	"strconv"
	"strings"
)

// Separators shared by every pretty format and by the parser.
const (
	RecordSeparator = "\x1e"
	FieldSeparator  = "\x1f"

	recordSeparatorPlaceholder = "%x1e"
	fieldSeparatorPlaceholder  = "%x1f"
)

// LogField is one positional field of the log pretty format.
type LogField int

const (
	FieldHash LogField = iota
	FieldShortHash
	FieldParents
	FieldAuthorName
	FieldAuthorEmail
	FieldAuthorDate
	FieldCommitterName
	FieldCommitterEmail
	FieldCommitDate
	FieldRefs
	FieldSubject
	FieldBody
)

// LogFormatFields is the field order used by every log-shaped query.
var LogFormatFields = []LogField{
	FieldHash,
	FieldShortHash,
	FieldParents,
	FieldAuthorName,
	FieldAuthorEmail,
	FieldAuthorDate,
	FieldCommitterName,
	FieldCommitterEmail,
	FieldCommitDate,
	FieldRefs,
	FieldSubject,
	FieldBody,
}

func (f LogField) placeholder() string {
	switch f {
	case FieldHash:
		return "%H"
	case FieldShortHash:
		return "%h"
	case FieldParents:
		return "%P"
	case FieldAuthorName:
		return "%an"
	case FieldAuthorEmail:
		return "%ae"
	case FieldAuthorDate:
		return "%at"
	case FieldCommitterName:
		return "%cn"
	case FieldCommitterEmail:
		return "%ce"
	case FieldCommitDate:
		return "%ct"
	case FieldRefs:
		return "%D"
	case FieldSubject:
		return "%s"
	case FieldBody:
		return "%b"
	default:
		return ""
	}
}

// LogFormat builds a pretty format that starts every record with the record
// separator and joins fields with the field separator.
func LogFormat(fields []LogField) string {
	var b strings.Builder
	b.WriteString(recordSeparatorPlaceholder)
	for i, f := range fields {
		if i > 0 {
			b.WriteString(fieldSeparatorPlaceholder)
		}
		b.WriteString(f.placeholder())
	}
	return b.String()
}

// CommitShape selects the argument set for a commit's file statistics.
// Merge commits are diffed against their first parent so every file gets a
// stable attribution.
type CommitShape int

const (
	ShapeSingle CommitShape = iota
	ShapeMerge
)

// ShapeFromParents returns the shape for a commit with the given parents.
func ShapeFromParents(parents []string) CommitShape {
	if len(parents) >= 2 {
		return ShapeMerge
	}
	return ShapeSingle
}

func (s CommitShape) String() string {
	if s == ShapeMerge {
		return "merge"
	}
	return "single"
}

func (s CommitShape) diffArgs() []string {
	if s == ShapeMerge {
		return []string{"-m", "--first-parent"}
	}
	return nil
}

// RootArgs prints the top-level directory of the working tree.
func RootArgs() []string {
	return []string{"rev-parse", "--show-toplevel"}
}

// LogArgs lists one page of commits.
func LogArgs(q LogQuery) []string {
	pageIndex, pageSize := q.PageIndex, q.PageSize
	if pageIndex < 0 {
		pageIndex = 0
	}
	if pageSize < 0 {
		pageSize = 0
	}

	args := []string{
		"log",
		"--format=" + LogFormat(LogFormatFields),
		"--date-order",
		"--skip=" + strconv.Itoa(pageIndex*pageSize),
		"--max-count=" + strconv.Itoa(pageSize),
	}
	args = append(args, searchArgs(q.SearchText)...)
	args = append(args, revisionArgs(q.Branch)...)
	return append(args, pathArgs(q.Path)...)
}

// CountArgs counts every commit matching the same filters as LogArgs,
// ignoring pagination.
func CountArgs(q LogQuery) []string {
	args := []string{"rev-list", "--count"}
	args = append(args, searchArgs(q.SearchText)...)
	args = append(args, revisionArgs(q.Branch)...)
	return append(args, pathArgs(q.Path)...)
}

// ParentHashesArgs prints the space-separated parents of a commit.
func ParentHashesArgs(hash string) []string {
	return []string{"show", "-s", "--format=%P", hash}
}

// CommitArgs prints a single commit in the log format.
func CommitArgs(hash string) []string {
	return []string{"show", "-s", "--format=" + LogFormat(LogFormatFields), hash}
}

// CommitNumStatArgs prints per-file line counts for a commit.
func CommitNumStatArgs(hash string, shape CommitShape) []string {
	args := []string{"show", "--format=", "--numstat", "-M"}
	args = append(args, shape.diffArgs()...)
	return append(args, hash)
}

// CommitNameStatusArgs prints per-file status codes for a commit.
func CommitNameStatusArgs(hash string, shape CommitShape) []string {
	args := []string{"show", "--format=", "--name-status", "-M"}
	args = append(args, shape.diffArgs()...)
	return append(args, hash)
}

// DiffNumStatArgs prints per-file line counts between two commits.
func DiffNumStatArgs(hashA, hashB string) []string {
	return []string{"diff", "--numstat", "-M", hashA, hashB}
}

// DiffNameStatusArgs prints per-file status codes between two commits.
func DiffNameStatusArgs(hashA, hashB string) []string {
	return []string{"diff", "--name-status", "-M", hashA, hashB}
}

// RefsArgs lists local and remote-tracking branch tips.
func RefsArgs() []string {
	return []string{"for-each-ref", "--format=%(objectname) %(refname)", "refs/heads", "refs/remotes"}
}

// RefsContainingArgs lists the branch refs whose history contains hash.
func RefsContainingArgs(hash string) []string {
	return []string{"for-each-ref", "--contains", hash, "--format=%(refname)", "refs/heads", "refs/remotes"}
}

// BranchesArgs lists local branches, marking the current one.
func BranchesArgs() []string {
	return []string{"branch", "--no-color", "--list"}
}

// CurrentBranchArgs prints the checked-out branch name.
func CurrentBranchArgs() []string {
	return []string{"rev-parse", "--abbrev-ref", "HEAD"}
}

// ObjectHashArgs resolves any revision to a full commit hash.
func ObjectHashArgs(object string) []string {
	return []string{"show", "-s", "--format=%H", object}
}

// HashArgs prints the full and short hash of a commit.
func HashArgs(hash string) []string {
	return []string{"show", "-s", "--format=%H" + fieldSeparatorPlaceholder + "%h", hash}
}

// CommitDateArgs prints the committer date as unix seconds.
func CommitDateArgs(hash string) []string {
	return []string{"show", "-s", "--format=%ct", hash}
}

// FileContentArgs prints a file as of a commit.
func FileContentArgs(hash, relativePath string) []string {
	return []string{"show", hash + ":" + relativePath}
}

// PreviousCommitForFileArgs finds the last commit before hash touching the file.
func PreviousCommitForFileArgs(hash, relativePath string) []string {
	return []string{
		"log", "--max-count=1",
		"--format=%H" + fieldSeparatorPlaceholder + "%h",
		hash + "^", "--", relativePath,
	}
}

// CreateBranchArgs creates and checks out a branch at hash.
func CreateBranchArgs(name, hash string) []string {
	return []string{"checkout", "-b", name, hash}
}

func searchArgs(searchText string) []string {
	if strings.TrimSpace(searchText) == "" {
		return nil
	}
	return []string{"--regexp-ignore-case", "--fixed-strings", "--grep=" + searchText}
}

func revisionArgs(branch string) []string {
	rev := strings.TrimSpace(branch)
	if rev == "" {
		return []string{"--all"}
	}
	return []string{rev}
}

func pathArgs(path string) []string {
	if path == "" {
		return nil
	}
	return []string{"--", path}
}
