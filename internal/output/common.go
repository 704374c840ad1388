package output

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/masmgr/githistory-go/internal/git"
)

const (
	reportDateTimeLayout = "2006-01-02T15:04:05"
	consoleDateLayout    = "2006-01-02 15:04"
	subjectWidth         = 60
)

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

// openOutputWriter resolves the destination. The returned file, when non-nil,
// must be closed by the caller.
func openOutputWriter(options OutputOptions) (io.Writer, *os.File, error) {
	if options.Writer != nil {
		return options.Writer, nil, nil
	}
	if options.OutputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(options.OutputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

// truncateMessage shortens msg to at most maxLen runes, ending in "...".
func truncateMessage(msg string, maxLen int) string {
	if utf8.RuneCountInString(msg) <= maxLen {
		return msg
	}
	runes := []rune(msg)
	return string(runes[:maxLen-3]) + "..."
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// totalPages returns the page count for a page (at least 1).
func totalPages(page *git.LogPage) int {
	if page.PageSize <= 0 || page.TotalCount <= 0 {
		return 1
	}
	return (page.TotalCount + page.PageSize - 1) / page.PageSize
}

// graphMarker summarizes the graph flags of a commit.
func graphMarker(e git.LogEntry) string {
	switch {
	case e.IsLastCommit && e.IsMerged:
		return "tip, merged"
	case e.IsLastCommit:
		return "tip"
	default:
		return ""
	}
}

func branchLabel(branch string) string {
	if branch == "" {
		return "all branches"
	}
	return branch
}

func parentList(parents []git.Hash, short bool) string {
	names := make([]string, len(parents))
	for i, p := range parents {
		if short {
			names[i] = p.String()
		} else {
			names[i] = p.Full
		}
	}
	return strings.Join(names, " ")
}

func displayPath(f git.CommittedFile) string {
	if f.PreviousPath != "" {
		return f.PreviousPath + " -> " + f.RelativePath
	}
	return f.RelativePath
}

func lineCount(n int, binary bool) string {
	if binary {
		return "-"
	}
	return strconv.Itoa(n)
}

func joinRefs(refs []string) string {
	return strings.Join(refs, ", ")
}
