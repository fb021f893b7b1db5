package view

import (
	"sort"

	"github.com/rivo/uniseg"

	"github.com/dshills/scribeline/internal/engine/document"
	"github.com/dshills/scribeline/internal/input/selector"
)

// Rect is a run of cells on one row.
type Rect struct {
	X, Y, W int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return y == r.Y && x >= r.X && x < r.X+r.W
}

// Area is a screen rectangle.
type Area struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside a.
func (a Area) Contains(x, y int) bool {
	return x >= a.X && x < a.X+a.W && y >= a.Y && y < a.Y+a.H
}

// CellWidth returns the terminal width of s, at least 1.
func CellWidth(s string) int {
	return max(1, uniseg.StringWidth(s))
}

// token is one laid out item. glue items attach to the previous one
// without a space; a break forces a new row.
type token struct {
	text  string
	glue  bool
	brk   bool
	width int
}

// flow places tokens left to right in rows of width cells. Coordinates
// are relative to the flow's origin.
func flow(tokens []token, width int) (rects []Rect, rows int) {
	width = max(width, 1)
	rects = make([]Rect, len(tokens))
	col, row := 0, 0
	for i, t := range tokens {
		w := t.width
		if w == 0 {
			w = CellWidth(t.text)
		}
		if t.brk && i > 0 {
			row++
			col = 0
		}
		gap := 1
		if col == 0 || t.glue {
			gap = 0
		}
		if col > 0 && col+gap+w > width {
			row++
			col, gap = 0, 0
		}
		rects[i] = Rect{X: col + gap, Y: row, W: min(w, width)}
		col += gap + w
	}
	if len(tokens) > 0 {
		rows = row + 1
	}
	return rects, rows
}

// DocLayout places every slot of a document in an area of the screen.
// It reflows lazily when the document changes and implements the
// editing surface's geometry.
type DocLayout struct {
	doc    *document.Document
	area   Area
	scroll int

	version uint64
	width   int
	valid   bool
	rects   []Rect // per slot, relative to the flow origin
	rows    int
}

// NewDocLayout lays doc out in area.
func NewDocLayout(doc *document.Document, area Area) *DocLayout {
	return &DocLayout{doc: doc, area: area}
}

// SetArea moves or resizes the layout.
func (l *DocLayout) SetArea(a Area) {
	l.area = a
	l.clampScroll()
}

// Area returns the screen area.
func (l *DocLayout) Area() Area {
	return l.area
}

// Scroll moves the first visible row by n rows.
func (l *DocLayout) Scroll(n int) {
	l.scroll += n
	l.clampScroll()
}

// ScrollTo makes slot visible.
func (l *DocLayout) ScrollTo(slot int) {
	l.reflow()
	if slot < 0 || slot >= len(l.rects) {
		return
	}
	y := l.rects[slot].Y
	switch {
	case y < l.scroll:
		l.scroll = y
	case y >= l.scroll+l.area.H:
		l.scroll = y - l.area.H + 1
	}
	l.clampScroll()
}

func (l *DocLayout) clampScroll() {
	l.reflow()
	l.scroll = max(0, min(l.scroll, l.rows-l.area.H))
}

// Rows returns the number of rows the document needs.
func (l *DocLayout) Rows() int {
	l.reflow()
	return l.rows
}

// Rect returns the screen cells of slot and whether they are visible.
func (l *DocLayout) Rect(slot int) (Rect, bool) {
	l.reflow()
	if slot < 0 || slot >= len(l.rects) {
		return Rect{}, false
	}
	r := l.rects[slot]
	r.X += l.area.X
	r.Y += l.area.Y - l.scroll
	return r, r.Y >= l.area.Y && r.Y < l.area.Y+l.area.H
}

// SlotAt returns the slot under p. Spaces between words hit nothing.
func (l *DocLayout) SlotAt(p selector.Point) (int, bool) {
	x, y := int(p.X), int(p.Y)
	if !l.area.Contains(x, y) {
		return 0, false
	}
	l.reflow()
	row := y - l.area.Y + l.scroll
	col := x - l.area.X
	// rects are sorted by row, then column
	i := sort.Search(len(l.rects), func(i int) bool {
		r := l.rects[i]
		return r.Y > row || (r.Y == row && r.X+r.W > col)
	})
	if i < len(l.rects) && l.rects[i].Contains(col, row) {
		return i, true
	}
	return 0, false
}

func (l *DocLayout) reflow() {
	if l.valid && l.version == l.doc.Version() && l.width == l.area.W {
		return
	}
	leaves := l.doc.Leaves()
	tokens := make([]token, len(leaves))
	prevLeft := false
	for i, n := range leaves {
		t := token{text: LeafText(n)}
		if h, ok := n.(*document.Handle); ok && h.Side() == document.Right {
			t.glue = true
		}
		if prevLeft {
			t.glue = true
		}
		h, ok := n.(*document.Handle)
		prevLeft = ok && h.Side() == document.Left
		tokens[i] = t
	}
	l.rects, l.rows = flow(tokens, l.area.W)
	l.version = l.doc.Version()
	l.width = l.area.W
	l.valid = true
}

// LeafText is how a leaf is shown: an atom's text or a bracket for a
// handle.
func LeafText(n document.Node) string {
	switch n := n.(type) {
	case *document.Atom:
		return n.Text()
	case *document.Handle:
		if n.Side() == document.Left {
			return "["
		}
		return "]"
	}
	return ""
}

// LineLayout places transcript lines in an area, each line starting a
// new row, for the viewing screen.
type LineLayout struct {
	area   Area
	scroll int
	rects  [][]Rect // per line, per word
	rows   int
	words  [][]string
}

// NewLineLayout lays out lines, each given as its words.
func NewLineLayout(lines [][]string, area Area) *LineLayout {
	l := &LineLayout{area: area, words: lines}
	l.reflow()
	return l
}

// SetArea moves or resizes the layout.
func (l *LineLayout) SetArea(a Area) {
	l.area = a
	l.reflow()
}

// Area returns the screen area.
func (l *LineLayout) Area() Area {
	return l.area
}

func (l *LineLayout) reflow() {
	var tokens []token
	var owner []int
	for i, words := range l.words {
		if len(words) == 0 {
			words = []string{" "}
		}
		for j, w := range words {
			tokens = append(tokens, token{text: w, brk: j == 0})
			owner = append(owner, i)
		}
	}
	rects, rows := flow(tokens, l.area.W)
	l.rects = make([][]Rect, len(l.words))
	for k, r := range rects {
		l.rects[owner[k]] = append(l.rects[owner[k]], r)
	}
	l.rows = rows
	l.scroll = max(0, min(l.scroll, l.rows-l.area.H))
}

// Lines returns the number of lines.
func (l *LineLayout) Lines() int {
	return len(l.words)
}

// Words returns the words of line i.
func (l *LineLayout) Words(i int) []string {
	return l.words[i]
}

// WordRects returns the screen cells of each word of line i. Rows
// outside the area are included; callers clip.
func (l *LineLayout) WordRects(i int) []Rect {
	out := make([]Rect, len(l.rects[i]))
	for j, r := range l.rects[i] {
		out[j] = Rect{X: r.X + l.area.X, Y: r.Y + l.area.Y - l.scroll, W: r.W}
	}
	return out
}

// Visible reports whether row y is inside the area.
func (l *LineLayout) Visible(y int) bool {
	return y >= l.area.Y && y < l.area.Y+l.area.H
}

// LineAt returns the line whose row is under (x, y), anywhere on the row
// between its first and last word.
func (l *LineLayout) LineAt(x, y int) (int, bool) {
	if !l.area.Contains(x, y) {
		return 0, false
	}
	row := y - l.area.Y + l.scroll
	for i, rs := range l.rects {
		for _, r := range rs {
			if r.Y == row {
				return i, true
			}
		}
	}
	return 0, false
}

// ScrollToLine makes the first row of line i visible.
func (l *LineLayout) ScrollToLine(i int) {
	if i < 0 || i >= len(l.rects) || len(l.rects[i]) == 0 {
		return
	}
	first := l.rects[i][0].Y
	last := l.rects[i][len(l.rects[i])-1].Y
	switch {
	case first < l.scroll:
		l.scroll = first
	case last >= l.scroll+l.area.H:
		l.scroll = last - l.area.H + 1
	}
	l.scroll = max(0, min(l.scroll, l.rows-l.area.H))
}
