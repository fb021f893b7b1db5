package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/scribeline/internal/app"
	"github.com/dshills/scribeline/internal/event"
	"github.com/dshills/scribeline/internal/playback"
	"github.com/dshills/scribeline/internal/timing"
	"github.com/dshills/scribeline/internal/transcript"
)

type playOptions struct {
	from     float64
	duration float64
	realtime bool
}

func (c *cli) playCmd() *cobra.Command {
	var po playOptions
	cmd := &cobra.Command{
		Use:   "play <transcript>",
		Short: "Print each line as simulated playback reaches it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return c.play(ctx, cmd.OutOrStdout(), args[0], po)
		},
	}
	cmd.Flags().Float64Var(&po.from, "from", 0, "start position in seconds")
	cmd.Flags().Float64Var(&po.duration, "duration", 0, "media length in seconds (default: last line end plus 5s)")
	cmd.Flags().BoolVar(&po.realtime, "realtime", false, "pace output with the wall clock")
	return cmd
}

// play drives the application on a manual clock, advancing it one tick
// at a time until the transport stops.
func (c *cli) play(ctx context.Context, w io.Writer, path string, po playOptions) error {
	cfg, _, err := c.load()
	if err != nil {
		return err
	}
	log, closeLog, err := c.logger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	clock := timing.NewManualClock(time.Now())
	a, err := app.New(app.Options{Config: cfg, Logger: log, Clock: clock, Duration: po.duration})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	if err := a.Load(path); err != nil {
		return err
	}

	t := a.Transcript()
	sub := a.Tracker().CurrentChanged.Subscribe(event.Notify(func(ev playback.CurrentEvent) {
		if ev.Current >= 0 && ev.Current < len(t) {
			printLine(w, a.Transport().CurrentTime(), ev.Current, t[ev.Current])
		}
	}))
	defer sub.Cancel()

	if po.from > 0 {
		if err := a.Seek(po.from); err != nil {
			return err
		}
	}
	a.Start()
	a.Transport().Play()

	tick := cfg.Playback.Tick.D()
	for a.Transport().IsPlaying() {
		if po.realtime {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(tick):
			}
		}
		clock.Advance(tick)
	}
	return nil
}

var (
	stampColor  = color.New(color.FgCyan)
	indexColor  = color.New(color.Faint)
	untimedText = color.New(color.Faint, color.Italic)
)

func printLine(w io.Writer, at float64, i int, l transcript.Line) {
	text := l.Text
	if !l.IsTimed() {
		text = untimedText.Sprint(text)
	}
	fmt.Fprintf(w, "%s %s %s\n",
		stampColor.Sprintf("[%s]", stamp(at)),
		indexColor.Sprintf("%3d", i),
		text)
}

// stamp formats seconds as m:ss.s.
func stamp(t float64) string {
	t = math.Max(t, 0)
	return fmt.Sprintf("%d:%04.1f", int(t)/60, math.Mod(t, 60))
}
