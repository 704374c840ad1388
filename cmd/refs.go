package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/githistory-go/internal/output"
)

// RefsCmd returns the refs command.
func RefsCmd() *cli.Command {
	return &cli.Command{
		Name:   "refs",
		Usage:  "List local and remote-tracking branch tips",
		Flags:  outputFlags(),
		Action: refsAction,
	}
}

// BranchesCmd returns the branches command.
func BranchesCmd() *cli.Command {
	return &cli.Command{
		Name:   "branches",
		Usage:  "List local branches",
		Flags:  outputFlags(),
		Action: branchesAction,
	}
}

// BranchCmd returns the branch command.
func BranchCmd() *cli.Command {
	return &cli.Command{
		Name:      "branch",
		Usage:     "Create and check out a branch at a revision",
		ArgsUsage: "<name> [revision]",
		Action:    branchAction,
	}
}

func refsAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		refs, err := ctx.Service.GetRefs(c.Context)
		if err != nil {
			return fmt.Errorf("failed to list refs: %w", err)
		}
		current, err := ctx.Service.GetCurrentBranch(c.Context)
		if err != nil {
			return fmt.Errorf("failed to read current branch: %w", err)
		}
		return writeRefsReport(c, &output.RefsReport{
			RepoPath:      ctx.RepoPath,
			GeneratedAt:   time.Now(),
			CurrentBranch: current,
			Refs:          refs,
		})
	})
}

func branchesAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		branches, err := ctx.Service.GetBranches(c.Context)
		if err != nil {
			return fmt.Errorf("failed to list branches: %w", err)
		}
		current, err := ctx.Service.GetCurrentBranch(c.Context)
		if err != nil {
			return fmt.Errorf("failed to read current branch: %w", err)
		}
		return writeRefsReport(c, &output.RefsReport{
			RepoPath:      ctx.RepoPath,
			GeneratedAt:   time.Now(),
			CurrentBranch: current,
			Branches:      branches,
		})
	})
}

func branchAction(c *cli.Context) error {
	name := c.Args().Get(0)
	if name == "" {
		return fmt.Errorf("branch name is required")
	}
	revision := c.Args().Get(1)
	if revision == "" {
		revision = "HEAD"
	}
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		hash, err := ctx.Service.GetObjectHash(c.Context, revision)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", revision, err)
		}
		if err := ctx.Service.CreateBranch(c.Context, name, hash); err != nil {
			return fmt.Errorf("failed to create branch %s: %w", name, err)
		}
		short, err := ctx.Service.GetHash(c.Context, hash)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Switched to a new branch '%s' at %s\n", name, short)
		return nil
	})
}
