package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/githistory-go/config"
	"github.com/masmgr/githistory-go/internal/logging"
	"github.com/masmgr/githistory-go/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "githistory",
		Usage:   "Browse paginated Git history with branch-tip and merge annotations",
		Version: "1.0.0",
		Commands: []*cli.Command{
			LogCmd(),
			ShowCmd(),
			DiffCmd(),
			RefsCmd(),
			BranchesCmd(),
			BranchCmd(),
			WatchCmd(),
			ConfigCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (.json, .yaml or .yml)",
			},
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "Path inside the Git repository",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Log every git invocation to stderr",
				EnvVars: []string{"GITHISTORY_DEBUG"},
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "Write debug logs as JSON to this file",
				EnvVars: []string{"GITHISTORY_LOG_FILE"},
			},
		},
		Before: func(c *cli.Context) error {
			return logging.Initialize(c.Bool("debug"), c.String("log-file"))
		},
		After: func(c *cli.Context) error {
			return logging.Close()
		},
	}
}

// Output flags shared across report commands
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown)",
			Value:   "console",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Maximum number of rows to show (0 = all)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	}
}

// Filter flags for commands that list changed files
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns to exclude (can be specified multiple times)",
		},
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch strings.ToLower(s) {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatConsole
	}
}

// parsePageFlag converts a 1-based page number into a page index.
func parsePageFlag(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(s)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("invalid page: %s (expected a number >= 1)", s)
	}
	return page - 1, nil
}

// loadConfig loads configuration from file or defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply overrides from CLI
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if pageSize := c.Int("page-size"); pageSize > 0 {
		cfg.History.PageSize = pageSize
	}

	return cfg, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
