package cmd

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/githistory-go/config"
	"github.com/masmgr/githistory-go/internal/git"
	"github.com/masmgr/githistory-go/internal/logging"
	"github.com/masmgr/githistory-go/internal/output"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across all history commands.
type CommandContext struct {
	Config   *config.Config
	RepoPath string
	Service  *git.HistoryService
	Logger   *slog.Logger
}

// NewCommandContext creates a context from CLI flags.
// It loads configuration, builds the path filter and resolves the repository root.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	filter, err := git.NewPathFilter(cfg.Filters.Include, cfg.Filters.Exclude)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	logger := logging.Component("cmd")
	service := git.NewHistoryService(git.ServiceOptions{
		WorkDir:         c.String("repo"),
		Executor:        git.NewCommandExecutor(cfg.History.GitBinary, logging.Logger),
		Logger:          logging.Logger,
		DefaultPageSize: cfg.History.PageSize,
		MaxParallel:     cfg.History.MaxParallelLookups,
		CommitCacheSize: cfg.Cache.CommitEntries,
		Filter:          filter,
	})

	root, err := service.Root(c.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	logger.Debug("repository resolved", "root", root)

	return &CommandContext{
		Config:   cfg,
		RepoPath: root,
		Service:  service,
		Logger:   logger,
	}, nil
}

// executeWithContext builds a CommandContext and runs fn with it.
func executeWithContext(c *cli.Context, fn func(ctx *CommandContext, c *cli.Context) error) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	return fn(ctx, c)
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) output.OutputOptions {
	opts := output.OutputOptions{
		Format:     getOutputFormat(c.String("format")),
		Top:        c.Int("top"),
		OutputPath: c.String("output"),
	}
	if opts.OutputPath == "" {
		opts.Writer = c.App.Writer
	}
	return opts
}
