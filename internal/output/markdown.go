package output

import (
	"fmt"
	"io"

	"github.com/masmgr/githistory-go/internal/git"
)

// MarkdownLogWriter writes log pages as Markdown.
type MarkdownLogWriter struct{}

// Write outputs the log page as Markdown.
func (w *MarkdownLogWriter) Write(report *LogReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	page := report.Page
	fmt.Fprintln(out, "# Commit History")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	fmt.Fprintf(out, "**Branch:** %s\n\n", escapeMarkdown(branchLabel(page.Branch)))
	if page.Path != "" {
		fmt.Fprintf(out, "**Path:** `%s`\n\n", page.Path)
	}
	if page.SearchText != "" {
		fmt.Fprintf(out, "**Search:** %s\n\n", escapeMarkdown(page.SearchText))
	}
	fmt.Fprintf(out, "**Page:** %d of %d (%d commits)\n\n", page.PageIndex+1, totalPages(page), page.TotalCount)

	fmt.Fprintln(out, "| Hash | Date | Author | Subject | Refs | Graph |")
	fmt.Fprintln(out, "|------|------|--------|---------|------|-------|")
	for _, e := range limitTop(page.Items, options.Top) {
		fmt.Fprintf(out, "| `%s` | %s | %s | %s | %s | %s |\n",
			e.Hash.String(),
			formatTime(e.CommitDate, consoleDateLayout),
			escapeMarkdown(e.Author.Name),
			escapeMarkdown(truncateMessage(e.Subject, subjectWidth)),
			escapeMarkdown(joinRefs(e.Refs)),
			graphMarker(e))
	}

	return nil
}

// MarkdownCommitWriter writes commit detail as Markdown.
type MarkdownCommitWriter struct{}

// Write outputs the commit as Markdown.
func (w *MarkdownCommitWriter) Write(report *CommitReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	c := report.Commit
	fmt.Fprintf(out, "# Commit `%s`\n\n", c.Hash.Full)
	fmt.Fprintf(out, "**Subject:** %s\n\n", escapeMarkdown(c.Subject))
	fmt.Fprintf(out, "**Author:** %s <%s>\n\n", escapeMarkdown(c.Author.Name), c.Author.Email)
	fmt.Fprintf(out, "**Date:** %s\n\n", formatTime(c.AuthorDate, reportDateTimeLayout))
	if len(c.Parents) > 0 {
		fmt.Fprintf(out, "**Parents:** `%s`\n\n", parentList(c.Parents, true))
	}
	if len(c.Refs) > 0 {
		fmt.Fprintf(out, "**Refs:** %s\n\n", escapeMarkdown(joinRefs(c.Refs)))
	}
	if c.Body != "" {
		fmt.Fprintf(out, "```\n%s\n```\n\n", c.Body)
	}

	fmt.Fprintln(out, "## Changed Files")
	fmt.Fprintln(out)
	writeMarkdownFiles(out, limitTop(c.Files, options.Top))
	return nil
}

// MarkdownDiffWriter writes diffs as Markdown.
type MarkdownDiffWriter struct{}

// Write outputs the diff as Markdown.
func (w *MarkdownDiffWriter) Write(report *DiffReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintf(out, "# Differences `%s..%s`\n\n", report.Base, report.Head)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	fmt.Fprintf(out, "**Files Changed:** %d\n\n", len(report.Files))
	writeMarkdownFiles(out, limitTop(report.Files, options.Top))
	return nil
}

// MarkdownRefsWriter writes ref listings as Markdown.
type MarkdownRefsWriter struct{}

// Write outputs branch tips and local branches as Markdown.
func (w *MarkdownRefsWriter) Write(report *RefsReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Refs")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	if report.CurrentBranch != "" {
		fmt.Fprintf(out, "**Current Branch:** %s\n\n", escapeMarkdown(report.CurrentBranch))
	}

	fmt.Fprintln(out, "| Ref | Hash |")
	fmt.Fprintln(out, "|-----|------|")
	for _, r := range report.Refs {
		fmt.Fprintf(out, "| `%s` | `%s` |\n", r.Ref, r.Hash)
	}

	if len(report.Branches) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "## Branches")
		fmt.Fprintln(out)
		for _, b := range report.Branches {
			if b.IsCurrent {
				fmt.Fprintf(out, "- **%s** (current)\n", escapeMarkdown(b.Name))
			} else {
				fmt.Fprintf(out, "- %s\n", escapeMarkdown(b.Name))
			}
		}
	}
	return nil
}

func writeMarkdownFiles(out io.Writer, files []git.CommittedFile) {
	if len(files) == 0 {
		fmt.Fprintln(out, "_No changed files._")
		return
	}
	fmt.Fprintln(out, "| Status | Path | + | - |")
	fmt.Fprintln(out, "|--------|------|---|---|")
	for _, f := range files {
		fmt.Fprintf(out, "| %s | `%s` | %s | %s |\n",
			f.Status.Code(), displayPath(f), lineCount(f.LinesAdded, f.Binary), lineCount(f.LinesDeleted, f.Binary))
	}
}
