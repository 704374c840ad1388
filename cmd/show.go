package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// ShowCmd returns the show command.
func ShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a commit and the files it changed",
		ArgsUsage: "<revision>",
		Flags:     append(filterFlags(), outputFlags()...),
		Action:    showAction,
	}
}

func showAction(c *cli.Context) error {
	revision := c.Args().First()
	if revision == "" {
		revision = "HEAD"
	}
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		hash, err := ctx.Service.GetObjectHash(c.Context, revision)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", revision, err)
		}
		commit, err := ctx.Service.GetCommit(c.Context, hash)
		if err != nil {
			return fmt.Errorf("failed to read commit %s: %w", hash, err)
		}
		if commit == nil {
			return fmt.Errorf("commit %s not found", revision)
		}
		return writeCommitReport(c, ctx.RepoPath, commit)
	})
}
