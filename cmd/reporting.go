package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/githistory-go/internal/git"
	"github.com/masmgr/githistory-go/internal/output"
)

func writeLogReport(c *cli.Context, repoPath string, page *git.LogPage) error {
	opts := OutputOptions(c)
	writer := output.NewLogReportWriter(opts.Format)
	return writer.Write(&output.LogReport{
		RepoPath:    repoPath,
		GeneratedAt: time.Now(),
		Page:        page,
	}, opts)
}

func writeCommitReport(c *cli.Context, repoPath string, commit *git.LogEntry) error {
	opts := OutputOptions(c)
	writer := output.NewCommitReportWriter(opts.Format)
	return writer.Write(&output.CommitReport{
		RepoPath:    repoPath,
		GeneratedAt: time.Now(),
		Commit:      commit,
	}, opts)
}

func writeDiffReport(c *cli.Context, report *output.DiffReport) error {
	opts := OutputOptions(c)
	writer := output.NewDiffReportWriter(opts.Format)
	return writer.Write(report, opts)
}

func writeRefsReport(c *cli.Context, report *output.RefsReport) error {
	opts := OutputOptions(c)
	writer := output.NewRefsReportWriter(opts.Format)
	return writer.Write(report, opts)
}
