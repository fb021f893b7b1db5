package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/scribeline/internal/app"
	"github.com/dshills/scribeline/internal/view"
)

// ErrNotTerminal is returned when edit runs without a terminal.
var ErrNotTerminal = errors.New("edit needs an interactive terminal")

func (c *cli) editCmd() *cobra.Command {
	var (
		out      string
		duration float64
	)
	cmd := &cobra.Command{
		Use:   "edit <transcript>",
		Short: "Open a transcript in the terminal editor",
		Long: `Open a transcript in the terminal editor.

Keys while viewing: space plays and pauses, left and right step between
lines, e edits, s saves, q quits. While editing: enter keeps the edits,
esc discards them, + and - zoom the timeline.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return ErrNotTerminal
			}
			return c.edit(cmd.Context(), args[0], out, duration)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "save to this file instead of the input")
	cmd.Flags().Float64Var(&duration, "duration", 0, "media length in seconds (default: last line end plus 5s)")
	return cmd
}

func (c *cli) edit(ctx context.Context, path, out string, duration float64) error {
	cfg, opts, err := c.load()
	if err != nil {
		return err
	}
	log, closeLog, err := c.logger(cfg, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	screen, err := view.OpenScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer screen.Fini()

	loop := view.NewLoop(screen, nil, log)
	a, err := app.New(app.Options{
		Config:   cfg,
		Reload:   opts,
		Logger:   log,
		Clock:    loop.Clock(),
		Duration: duration,
		SavePath: out,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	// a failed load leaves the application in its error state, which
	// the UI shows
	if err := a.Load(path); err != nil {
		log.WithError(err).Error("load %s", path)
	}
	loop.SetHandler(app.NewUI(a))
	a.Start()
	if err := a.WatchConfig(loop.Post); err != nil {
		log.WithError(err).Warn("config changes will not be picked up")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
