package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/dshills/scribeline/internal/transcript"
)

func (c *cli) inspectCmd() *cobra.Command {
	var width uint
	cmd := &cobra.Command{
		Use:   "inspect <transcript>",
		Short: "List the lines of a transcript with their times",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := transcript.Load(args[0])
			if err != nil {
				return err
			}
			inspect(cmd.OutOrStdout(), t, width)
			return nil
		},
	}
	cmd.Flags().UintVarP(&width, "width", "w", 60, "truncate text to this many columns")
	return cmd
}

var (
	headerColor = color.New(color.Bold)
	warnColor   = color.New(color.FgYellow)
)

// inspect prints a table of lines followed by a summary. Timed lines
// that start before the previous timed line ends are flagged.
func inspect(w io.Writer, t transcript.Transcript, width uint) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = width
	tbl.AddRow(
		headerColor.Sprint("#"),
		headerColor.Sprint("START"),
		headerColor.Sprint("END"),
		headerColor.Sprint("WORDS"),
		headerColor.Sprint("TEXT"))

	var timed, words, overlaps int
	prevEnd := -1.0
	for i, l := range t {
		n := len(transcript.Words(l.Text))
		words += n
		start, end := "-", "-"
		note := ""
		if l.IsTimed() {
			timed++
			start, end = stamp(*l.Start), stamp(*l.End)
			if *l.Start < prevEnd {
				overlaps++
				note = warnColor.Sprint(" (overlaps)")
			}
			prevEnd = *l.End
		}
		tbl.AddRow(i, start, end, n, strings.TrimSpace(l.Text)+note)
	}
	fmt.Fprintln(w, tbl)

	summary := fmt.Sprintf("%d lines, %d timed, %d words", len(t), timed, words)
	if overlaps > 0 {
		summary += warnColor.Sprintf(", %d overlapping", overlaps)
	}
	fmt.Fprintln(w, summary)
}
