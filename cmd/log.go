package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/githistory-go/internal/git"
)

// LogCmd returns the log command.
func LogCmd() *cli.Command {
	return &cli.Command{
		Name:    "log",
		Aliases: []string{"l"},
		Usage:   "Show one page of commit history",
		Flags:   append(historyFlags(), outputFlags()...),
		Action:  logAction,
	}
}

// Flags shared by commands that page through history
func historyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "branch",
			Aliases: []string{"b"},
			Usage:   "Branch or revision to list (default: all refs)",
		},
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "Case-insensitive text to find in commit messages",
		},
		&cli.StringFlag{
			Name:  "path",
			Usage: "Only commits touching this file or directory",
		},
		&cli.StringFlag{
			Name:    "page",
			Aliases: []string{"p"},
			Usage:   "Page number, starting at 1",
			Value:   "1",
		},
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "Commits per page (default from config)",
		},
	}
}

// logQuery builds a query from the history flags.
func logQuery(c *cli.Context) (git.LogQuery, error) {
	pageIndex, err := parsePageFlag(c.String("page"))
	if err != nil {
		return git.LogQuery{}, err
	}
	return git.LogQuery{
		PageIndex:  pageIndex,
		PageSize:   c.Int("page-size"),
		Branch:     c.String("branch"),
		SearchText: c.String("search"),
		Path:       c.String("path"),
	}, nil
}

func logAction(c *cli.Context) error {
	q, err := logQuery(c)
	if err != nil {
		return err
	}
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		page, err := ctx.Service.GetLogPage(c.Context, q)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		return writeLogReport(c, ctx.RepoPath, page)
	})
}
