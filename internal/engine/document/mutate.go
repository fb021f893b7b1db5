package document

import (
	"sort"

	"github.com/dshills/scribeline/internal/engine/span"
)

// MinSectionAtoms is the smallest content a Section may shrink to by a
// resize. Shrinking below it deletes the Section.
const MinSectionAtoms = 2

// Surround groups the top-level atoms covered by sp into a new Section.
// The span must be non-empty, start and end on top-level node boundaries
// and contain only top-level atoms.
func (d *Document) Surround(sp span.Span) (*Section, error) {
	lo, hi, err := d.topRange(sp)
	if err != nil {
		return nil, opError("surround", nil, err)
	}
	atoms := make([]*Atom, 0, hi-lo+1)
	for _, n := range d.nodes[lo : hi+1] {
		a, ok := n.(*Atom)
		if !ok {
			return nil, opError("surround", n, ErrNotSurroundable)
		}
		atoms = append(atoms, a)
	}
	s := d.newSection(atoms)
	d.replace(lo, hi+1, s)
	return s, nil
}

// CanSurround reports whether Surround(sp) would succeed.
func (d *Document) CanSurround(sp span.Span) bool {
	lo, hi, err := d.topRange(sp)
	if err != nil {
		return false
	}
	for _, n := range d.nodes[lo : hi+1] {
		if _, ok := n.(*Atom); !ok {
			return false
		}
	}
	return true
}

// topRange maps sp to the indexes of the first and last top-level nodes
// it covers exactly.
func (d *Document) topRange(sp span.Span) (int, int, error) {
	if sp.IsEmpty() {
		return 0, 0, ErrNotSurroundable
	}
	l := d.lay()
	lo := sort.Search(len(l.top), func(i int) bool { return l.top[i].Start >= sp.Start })
	if lo == len(l.top) || l.top[lo].Start != sp.Start {
		return 0, 0, ErrNotSurroundable
	}
	hi := sort.Search(len(l.top), func(i int) bool { return l.top[i].End >= sp.End })
	if hi == len(l.top) || l.top[hi].End != sp.End {
		return 0, 0, ErrNotSurroundable
	}
	return lo, hi, nil
}

// Unwrap dissolves s, putting its content atoms back at top level in
// its place. The handles are discarded.
func (d *Document) Unwrap(s *Section) error {
	i := d.topIndexOf(s)
	if i < 0 {
		return opError("unwrap", nil, ErrUnknownNode)
	}
	atoms := s.content
	s.content = nil
	nodes := make([]Node, len(atoms))
	for j, a := range atoms {
		a.section = nil
		nodes[j] = a
	}
	d.replace(i, i+1, nodes...)
	return nil
}

// Join groups every top-level node overlapping sp into one Section.
// Sections touched by sp are dissolved into the new one and returned
// in document order.
func (d *Document) Join(sp span.Span) (*Section, []*Section, error) {
	if sp.IsEmpty() {
		return nil, nil, opError("join", nil, ErrNotSurroundable)
	}
	l := d.lay()
	sp = sp.Intersect(span.New(0, len(l.leaves)))
	if sp.IsEmpty() {
		return nil, nil, opError("join", nil, ErrNotSurroundable)
	}
	// Top-level nodes tile the leaves, so growing over every one sp
	// overlaps lands on node boundaries.
	for _, t := range l.top {
		sp = span.Expand(sp, t)
	}
	lo, hi, err := d.topRange(sp)
	if err != nil {
		return nil, nil, opError("join", nil, err)
	}

	var atoms []*Atom
	var dissolved []*Section
	for _, n := range d.nodes[lo : hi+1] {
		switch n := n.(type) {
		case *Atom:
			atoms = append(atoms, n)
		case *Section:
			atoms = append(atoms, n.content...)
			n.content = nil
			dissolved = append(dissolved, n)
		}
	}
	s := d.newSection(atoms)
	d.replace(lo, hi+1, s)
	return s, dissolved, nil
}

// MoveIntoSection moves top-level atoms into s at the given side,
// keeping their document order.
func (d *Document) MoveIntoSection(s *Section, atoms []*Atom, side Side) error {
	if d.topIndexOf(s) < 0 {
		return opError("extend", nil, ErrUnknownNode)
	}
	if len(atoms) == 0 {
		return nil
	}
	moving := make(map[*Atom]bool, len(atoms))
	for _, a := range atoms {
		if !d.Contains(a) {
			return opError("extend", a, ErrUnknownNode)
		}
		if a.section != nil {
			return opError("extend", a, ErrNotTopLevel)
		}
		moving[a] = true
	}

	ordered := d.orderAtoms(atoms)
	kept := make([]Node, 0, len(d.nodes))
	for _, n := range d.nodes {
		if a, ok := n.(*Atom); ok && moving[a] {
			continue
		}
		kept = append(kept, n)
	}
	for _, a := range ordered {
		a.section = s
	}
	if side == Left {
		s.content = append(ordered, s.content...)
	} else {
		s.content = append(s.content, ordered...)
	}
	d.nodes = kept
	d.touch()
	return nil
}

// MoveOutOfSection moves content atoms of s to top level, before s for
// the left side or after it for the right side, keeping their order.
func (d *Document) MoveOutOfSection(s *Section, atoms []*Atom, side Side) error {
	i := d.topIndexOf(s)
	if i < 0 {
		return opError("shrink", nil, ErrUnknownNode)
	}
	if len(atoms) == 0 {
		return nil
	}
	moving := make(map[*Atom]bool, len(atoms))
	for _, a := range atoms {
		if a.section != s {
			return opError("shrink", a, ErrNotInSection)
		}
		moving[a] = true
	}

	ordered := d.orderAtoms(atoms)
	content := make([]*Atom, 0, len(s.content))
	for _, a := range s.content {
		if !moving[a] {
			content = append(content, a)
		}
	}
	s.content = content

	nodes := make([]Node, len(ordered))
	for j, a := range ordered {
		a.section = nil
		nodes[j] = a
	}
	if side == Left {
		d.replace(i, i, nodes...)
	} else {
		d.replace(i+1, i+1, nodes...)
	}
	return nil
}

func (d *Document) orderAtoms(atoms []*Atom) []*Atom {
	ordered := make([]*Atom, len(atoms))
	copy(ordered, atoms)
	l := d.lay()
	sort.SliceStable(ordered, func(i, j int) bool {
		return l.spans[ordered[i].id].Start < l.spans[ordered[j].id].Start
	})
	return ordered
}

func (d *Document) topIndexOf(s *Section) int {
	if s == nil {
		return -1
	}
	l := d.lay()
	i, ok := l.topIndex[s.id]
	if !ok || d.nodes[i] != Node(s) {
		return -1
	}
	return i
}

// replace substitutes nodes[lo:hi] with repl.
func (d *Document) replace(lo, hi int, repl ...Node) {
	nodes := make([]Node, 0, len(d.nodes)-(hi-lo)+len(repl))
	nodes = append(nodes, d.nodes[:lo]...)
	nodes = append(nodes, repl...)
	nodes = append(nodes, d.nodes[hi:]...)
	d.nodes = nodes
	d.touch()
}
