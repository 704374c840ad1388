package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/githistory-go/internal/git"
	"github.com/masmgr/githistory-go/internal/output"
)

// DiffCmd returns the diff command.
func DiffCmd() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "List files changed between two revisions",
		ArgsUsage: "<base>..<head> | <base> <head>",
		Flags:     append(filterFlags(), outputFlags()...),
		Action:    diffAction,
	}
}

// diffRevisions reads the two revisions from either argument form.
func diffRevisions(args cli.Args) (string, string, error) {
	switch args.Len() {
	case 1:
		return git.ParseDiffSpec(args.First())
	case 2:
		return args.Get(0), args.Get(1), nil
	default:
		return "", "", fmt.Errorf("expected <base>..<head> or two revisions")
	}
}

func diffAction(c *cli.Context) error {
	base, head, err := diffRevisions(c.Args())
	if err != nil {
		return err
	}
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		files, err := ctx.Service.GetDifferences(c.Context, base, head)
		if err != nil {
			return fmt.Errorf("failed to diff %s..%s: %w", base, head, err)
		}
		return writeDiffReport(c, &output.DiffReport{
			RepoPath:    ctx.RepoPath,
			GeneratedAt: time.Now(),
			Base:        base,
			Head:        head,
			Files:       files,
		})
	})
}
