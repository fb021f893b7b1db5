package view

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/scribeline/internal/engine/document"
)

// DrawDocument paints the visible slots of l, styling each leaf with
// style.
func DrawDocument(s tcell.Screen, l *DocLayout, style func(n document.Node) tcell.Style) {
	for slot, n := range l.doc.Leaves() {
		r, ok := l.Rect(slot)
		if !ok {
			continue
		}
		DrawText(s, r.X, r.Y, r.W, LeafText(n), style(n))
	}
}

// LineState is how the viewing screen shows one transcript line.
type LineState struct {
	Current  bool
	Active   bool
	Progress float64
}

// DrawLines paints the visible transcript lines. The current line is
// bold; while it is active the elapsed part of its words is tinted with
// the progress gradient.
func DrawLines(s tcell.Screen, l *LineLayout, state func(i int) LineState) {
	for i := 0; i < l.Lines(); i++ {
		st := state(i)
		rects := l.WordRects(i)
		words := l.Words(i)

		total := 0
		for _, r := range rects {
			total += r.W
		}
		done := 0
		for j, r := range rects {
			if j >= len(words) || !l.Visible(r.Y) {
				done += r.W
				continue
			}
			style := StyleText
			if st.Current {
				style = StyleCurrent
			}
			if !st.Current || !st.Active {
				DrawText(s, r.X, r.Y, r.W, words[j], style)
				done += r.W
				continue
			}
			// tint cell by cell up to the playhead
			x := r.X
			for _, ch := range splitCells(words[j]) {
				frac := float64(done) / float64(max(total, 1))
				cs := style
				if frac < st.Progress {
					cs = style.Foreground(ProgressColor(frac))
				}
				x = DrawText(s, x, r.Y, r.X+r.W-x, ch, cs)
				done += CellWidth(ch)
			}
		}
	}
}

// DrawStatus fills row y with the status style and writes left and
// right aligned text.
func DrawStatus(s tcell.Screen, y, width int, left, right string, style tcell.Style) {
	for x := 0; x < width; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
	DrawText(s, 1, y, width-1, left, style)
	if right != "" {
		w := CellWidth(right)
		if w+2 < width {
			DrawText(s, width-w-1, y, w, right, style)
		}
	}
}

// splitCells splits s into grapheme clusters.
func splitCells(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}
