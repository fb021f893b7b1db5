package document

import (
	"fmt"
	"sort"

	"github.com/dshills/scribeline/internal/engine/span"
)

// Document is an ordered sequence of top-level atoms and Sections.
// It is not safe for concurrent use.
type Document struct {
	nodes   []Node // top-level *Atom and *Section values
	nextID  NodeID
	version uint64
	layout  *layout
}

// layout caches slot positions; it is rebuilt lazily after a mutation.
type layout struct {
	leaves      []Node
	spans       map[NodeID]span.Span
	top         []span.Span // span of each top-level node
	topIndex    map[NodeID]int
	sections    []*Section
	sectionIdx  map[NodeID]int
	selectables []Node
}

// New creates a document of top-level atoms.
func New(words ...string) *Document {
	d := &Document{}
	for _, w := range words {
		d.nodes = append(d.nodes, d.newAtom(w))
	}
	return d
}

// Builder assembles a document from runs of plain text and Sections.
type Builder struct {
	doc *Document
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{doc: &Document{}}
}

// Text appends top-level atoms.
func (b *Builder) Text(words ...string) *Builder {
	for _, w := range words {
		b.doc.nodes = append(b.doc.nodes, b.doc.newAtom(w))
	}
	return b
}

// Section appends a Section holding words. An empty word list appends nothing.
func (b *Builder) Section(words ...string) *Builder {
	if len(words) == 0 {
		return b
	}
	atoms := make([]*Atom, len(words))
	for i, w := range words {
		atoms[i] = b.doc.newAtom(w)
	}
	b.doc.nodes = append(b.doc.nodes, b.doc.newSection(atoms))
	return b
}

// Build returns the assembled document. The builder must not be reused.
func (b *Builder) Build() *Document {
	d := b.doc
	b.doc = nil
	return d
}

func (d *Document) newAtom(text string) *Atom {
	d.nextID++
	return &Atom{id: d.nextID, text: text}
}

func (d *Document) newSection(atoms []*Atom) *Section {
	d.nextID++
	s := &Section{id: d.nextID}
	d.nextID++
	s.left = &Handle{id: d.nextID, side: Left, section: s}
	d.nextID++
	s.right = &Handle{id: d.nextID, side: Right, section: s}
	s.content = atoms
	for _, a := range atoms {
		a.section = s
	}
	return s
}

func (d *Document) touch() {
	d.version++
	d.layout = nil
}

func (d *Document) lay() *layout {
	if d.layout != nil {
		return d.layout
	}
	l := &layout{
		spans:      make(map[NodeID]span.Span),
		topIndex:   make(map[NodeID]int, len(d.nodes)),
		sectionIdx: make(map[NodeID]int),
	}
	addLeaf := func(n Node) {
		slot := len(l.leaves)
		l.leaves = append(l.leaves, n)
		l.spans[n.ID()] = span.Of(slot)
	}
	for i, n := range d.nodes {
		start := len(l.leaves)
		l.topIndex[n.ID()] = i
		switch n := n.(type) {
		case *Atom:
			addLeaf(n)
			l.selectables = append(l.selectables, n)
		case *Section:
			l.sectionIdx[n.id] = len(l.sections)
			l.sections = append(l.sections, n)
			l.selectables = append(l.selectables, n, n.left)
			addLeaf(n.left)
			for _, a := range n.content {
				addLeaf(a)
				l.selectables = append(l.selectables, a)
			}
			addLeaf(n.right)
			l.selectables = append(l.selectables, n.right)
			l.spans[n.id] = span.New(start, len(l.leaves))
		}
		l.top = append(l.top, span.New(start, len(l.leaves)))
	}
	d.layout = l
	return l
}

// Version returns a counter that changes on every mutation.
func (d *Document) Version() uint64 {
	return d.version
}

// Len returns the number of slots.
func (d *Document) Len() int {
	return len(d.lay().leaves)
}

// Nodes returns a copy of the top-level nodes.
func (d *Document) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Atoms returns every atom in document order.
func (d *Document) Atoms() []*Atom {
	var out []*Atom
	for _, n := range d.lay().leaves {
		if a, ok := n.(*Atom); ok {
			out = append(out, a)
		}
	}
	return out
}

// Leaves returns every atom and handle in slot order.
func (d *Document) Leaves() []Node {
	l := d.lay()
	out := make([]Node, len(l.leaves))
	copy(out, l.leaves)
	return out
}

// Leaf returns the leaf at slot.
func (d *Document) Leaf(slot int) (Node, bool) {
	l := d.lay()
	if slot < 0 || slot >= len(l.leaves) {
		return nil, false
	}
	return l.leaves[slot], true
}

// Sections returns the Sections in document order.
func (d *Document) Sections() []*Section {
	l := d.lay()
	out := make([]*Section, len(l.sections))
	copy(out, l.sections)
	return out
}

// Section returns the i-th Section.
func (d *Document) Section(i int) (*Section, bool) {
	l := d.lay()
	if i < 0 || i >= len(l.sections) {
		return nil, false
	}
	return l.sections[i], true
}

// SectionCount returns the number of Sections.
func (d *Document) SectionCount() int {
	return len(d.lay().sections)
}

// SectionIndex returns the position of s among the document's Sections,
// or -1 if s is not in the document.
func (d *Document) SectionIndex(s *Section) int {
	if s == nil {
		return -1
	}
	if i, ok := d.lay().sectionIdx[s.id]; ok && d.lay().sections[i] == s {
		return i
	}
	return -1
}

// Selectables returns every node a pointer can select, in pre-order:
// a Section precedes its left handle, its atoms and its right handle.
func (d *Document) Selectables() []Node {
	l := d.lay()
	out := make([]Node, len(l.selectables))
	copy(out, l.selectables)
	return out
}

// Contains reports whether n is currently part of the document.
func (d *Document) Contains(n Node) bool {
	_, ok := d.Span(n)
	return ok
}

// Span returns the slots covered by n.
func (d *Document) Span(n Node) (span.Span, bool) {
	if n == nil {
		return span.Span{}, false
	}
	l := d.lay()
	sp, ok := l.spans[n.ID()]
	if !ok {
		return span.Span{}, false
	}
	// IDs are per document; confirm the node itself is the one laid out.
	switch n := n.(type) {
	case *Section:
		if i, ok := l.sectionIdx[n.id]; !ok || l.sections[i] != n {
			return span.Span{}, false
		}
	default:
		if l.leaves[sp.Start] != n {
			return span.Span{}, false
		}
	}
	return sp, true
}

// MustSpan is like Span but panics for nodes outside the document.
func (d *Document) MustSpan(n Node) span.Span {
	sp, ok := d.Span(n)
	if !ok {
		panic(fmt.Sprintf("document: %v is not in the document", n))
	}
	return sp
}

// NodesIn returns the selectable nodes lying entirely within sp, in pre-order.
func (d *Document) NodesIn(sp span.Span) []Node {
	if sp.IsEmpty() {
		return nil
	}
	l := d.lay()
	var out []Node
	for _, n := range l.selectables {
		if sp.ContainsSpan(l.spans[n.ID()]) {
			out = append(out, n)
		}
	}
	return out
}

// AtomsIn returns the atoms lying within sp.
func (d *Document) AtomsIn(sp span.Span) []*Atom {
	l := d.lay()
	var out []*Atom
	for slot := max(sp.Start, 0); slot < min(sp.End, len(l.leaves)); slot++ {
		if a, ok := l.leaves[slot].(*Atom); ok {
			out = append(out, a)
		}
	}
	return out
}

// Between returns the selectable nodes from one node to another.
// The range starts as from's span and grows toward to: if to lies
// before, the start moves to to's start; if after, the end moves to
// to's end; if to encloses from, the range becomes to's span.
func (d *Document) Between(from, to Node) []Node {
	r, ok := d.Span(from)
	if !ok {
		return nil
	}
	t, ok := d.Span(to)
	if !ok {
		return nil
	}
	switch span.CompareNode(r, t) {
	case span.NodeBefore:
		r.Start = t.Start
	case span.NodeAfter:
		r.End = t.End
	case span.NodeAround:
		r = t
	}
	return d.NodesIn(r)
}

// SpanOf returns the smallest span covering every node, grown the same
// way Between grows. Nodes outside the document are ignored.
func (d *Document) SpanOf(nodes []Node) (span.Span, bool) {
	var r span.Span
	found := false
	for _, n := range nodes {
		t, ok := d.Span(n)
		if !ok {
			continue
		}
		if !found {
			r = t
			found = true
			continue
		}
		switch span.CompareNode(r, t) {
		case span.NodeBefore:
			r.Start = t.Start
		case span.NodeAfter:
			r.End = t.End
		case span.NodeAround:
			r = t
		}
	}
	return r, found
}

// Sort orders nodes by document position. Nodes outside the document
// sort last.
func (d *Document) Sort(nodes []Node) {
	key := func(n Node) int {
		sp, ok := d.Span(n)
		if !ok {
			return int(^uint(0) >> 1)
		}
		return sp.Start
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return key(nodes[i]) < key(nodes[j])
	})
}

// Text returns every atom joined by single spaces.
func (d *Document) Text() string {
	return joinText(d.Atoms())
}
