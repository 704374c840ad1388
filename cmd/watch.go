package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
)

// WatchCmd returns the watch command.
func WatchCmd() *cli.Command {
	flags := append(historyFlags(), outputFlags()...)
	flags = append(flags, &cli.DurationFlag{
		Name:  "debounce",
		Usage: "Quiet period after a ref change before re-rendering (default from config)",
	})

	return &cli.Command{
		Name:   "watch",
		Usage:  "Re-render a page of history whenever branches move",
		Flags:  flags,
		Action: watchAction,
	}
}

func watchAction(c *cli.Context) error {
	q, err := logQuery(c)
	if err != nil {
		return err
	}
	return executeWithContext(c, func(cctx *CommandContext, c *cli.Context) error {
		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		debounce := c.Duration("debounce")
		if debounce <= 0 {
			debounce = cctx.Config.Watch.Debounce()
		}

		changed := make(chan struct{}, 1)
		watcher, err := cctx.Service.WatchRefs(ctx, debounce, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
		if err != nil {
			return fmt.Errorf("failed to watch refs: %w", err)
		}
		defer watcher.Stop()

		return watchLoop(ctx, changed, func() error {
			page, err := cctx.Service.GetLogPage(ctx, q)
			if err != nil {
				// Refs can be mid-update; report and wait for the next change.
				cctx.Logger.Warn("render failed", "error", err)
				fmt.Fprintf(c.App.ErrWriter, "Error: %v\n", err)
				return nil
			}
			fmt.Fprintf(c.App.Writer, "\n--- %s ---\n", time.Now().Format(time.TimeOnly))
			return writeLogReport(c, cctx.RepoPath, page)
		})
	})
}

// watchLoop renders once, then again after every change until ctx is done.
func watchLoop(ctx context.Context, changed <-chan struct{}, render func() error) error {
	if err := render(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			if err := render(); err != nil {
				return err
			}
		}
	}
}
