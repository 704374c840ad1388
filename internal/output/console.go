package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/masmgr/githistory-go/internal/git"
)

var (
	green   = color.New(color.FgGreen).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
)

// ConsoleLogWriter writes log pages to the console.
type ConsoleLogWriter struct{}

// Write outputs one page of history to the console.
func (w *ConsoleLogWriter) Write(report *LogReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	page := report.Page
	items := limitTop(page.Items, options.Top)

	fmt.Fprintln(out, green("Commit History"))
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Branch: %s\n", branchLabel(page.Branch))
	if page.Path != "" {
		fmt.Fprintf(out, "Path: %s\n", page.Path)
	}
	if page.SearchText != "" {
		fmt.Fprintf(out, "Search: %s\n", page.SearchText)
	}
	fmt.Fprintf(out, "Page %d of %d (%d commits)\n\n", page.PageIndex+1, totalPages(page), page.TotalCount)

	table := newConsoleTable(out, []string{"Hash", "Date", "Author", "Subject", "Refs", "Graph"})
	for _, e := range items {
		table.Append([]string{
			yellow(e.Hash.String()),
			formatTime(e.CommitDate, consoleDateLayout),
			e.Author.Name,
			truncateMessage(e.Subject, subjectWidth),
			cyan(joinRefs(e.Refs)),
			graphColor(e)(graphMarker(e)),
		})
	}
	table.Render()

	return nil
}

// ConsoleCommitWriter writes commit detail to the console.
type ConsoleCommitWriter struct{}

// Write outputs a commit and its changed files to the console.
func (w *ConsoleCommitWriter) Write(report *CommitReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	c := report.Commit
	fmt.Fprintf(out, "%s %s\n", yellow("commit"), yellow(c.Hash.Full))
	if c.IsMergeCommit() {
		fmt.Fprintf(out, "Merge: %s\n", parentList(c.Parents, true))
	}
	fmt.Fprintf(out, "Author: %s <%s>\n", c.Author.Name, c.Author.Email)
	fmt.Fprintf(out, "Date:   %s\n", formatTime(c.AuthorDate, consoleDateLayout))
	if c.Committer != c.Author {
		fmt.Fprintf(out, "Commit: %s <%s> %s\n", c.Committer.Name, c.Committer.Email, formatTime(c.CommitDate, consoleDateLayout))
	}
	if len(c.Refs) > 0 {
		fmt.Fprintf(out, "Refs:   %s\n", cyan(joinRefs(c.Refs)))
	}
	fmt.Fprintf(out, "\n    %s\n", c.Subject)
	if c.Body != "" {
		fmt.Fprintf(out, "\n    %s\n", c.Body)
	}
	fmt.Fprintln(out)

	writeConsoleFiles(out, limitTop(c.Files, options.Top))
	return nil
}

// ConsoleDiffWriter writes diffs to the console.
type ConsoleDiffWriter struct{}

// Write outputs the files changed between two revisions to the console.
func (w *ConsoleDiffWriter) Write(report *DiffReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintf(out, "Differences %s..%s\n", report.Base, report.Head)
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Files changed: %d\n\n", len(report.Files))

	writeConsoleFiles(out, limitTop(report.Files, options.Top))
	return nil
}

// ConsoleRefsWriter writes ref listings to the console.
type ConsoleRefsWriter struct{}

// Write outputs branch tips and local branches to the console.
func (w *ConsoleRefsWriter) Write(report *RefsReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, green("Refs"))
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	if report.CurrentBranch != "" {
		fmt.Fprintf(out, "Current branch: %s\n", report.CurrentBranch)
	}
	fmt.Fprintln(out)

	if len(report.Refs) > 0 {
		table := newConsoleTable(out, []string{"Ref", "Hash"})
		for _, r := range report.Refs {
			table.Append([]string{r.Ref, yellow(r.Hash)})
		}
		table.Render()
	}

	if len(report.Branches) > 0 {
		fmt.Fprintln(out)
		for _, b := range report.Branches {
			if b.IsCurrent {
				fmt.Fprintf(out, "* %s\n", green(b.Name))
			} else {
				fmt.Fprintf(out, "  %s\n", b.Name)
			}
		}
	}
	return nil
}

func writeConsoleFiles(out io.Writer, files []git.CommittedFile) {
	if len(files) == 0 {
		fmt.Fprintln(out, "No changed files.")
		return
	}
	table := newConsoleTable(out, []string{"Status", "Path", "+", "-"})
	for _, f := range files {
		table.Append([]string{
			statusColor(f.Status)(f.Status.Code()),
			displayPath(f),
			green(lineCount(f.LinesAdded, f.Binary)),
			red(lineCount(f.LinesDeleted, f.Binary)),
		})
	}
	table.Render()
}

func newConsoleTable(out io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func statusColor(status git.FileStatus) func(a ...interface{}) string {
	switch status {
	case git.StatusAdded:
		return green
	case git.StatusDeleted:
		return red
	case git.StatusRenamed, git.StatusCopied:
		return cyan
	default:
		return yellow
	}
}

func graphColor(e git.LogEntry) func(a ...interface{}) string {
	if e.IsMerged {
		return magenta
	}
	return green
}
