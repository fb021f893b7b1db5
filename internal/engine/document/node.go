package document

import (
	"fmt"
	"strings"
)

// NodeID identifies a node within its document.
type NodeID uint64

// Kind is the kind of a document node.
type Kind uint8

const (
	// KindAtom is a word.
	KindAtom Kind = iota
	// KindHandle is a Section boundary marker.
	KindHandle
	// KindSection is a group of atoms delimited by two handles.
	KindSection
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindHandle:
		return "handle"
	case KindSection:
		return "section"
	default:
		return "unknown"
	}
}

// Node is an element of a document: *Atom, *Handle or *Section.
type Node interface {
	ID() NodeID
	Kind() Kind
	String() string
}

// Atom is the smallest selectable unit of text.
type Atom struct {
	id      NodeID
	text    string
	section *Section
}

// ID returns the atom's identifier.
func (a *Atom) ID() NodeID { return a.id }

// Kind returns KindAtom.
func (a *Atom) Kind() Kind { return KindAtom }

// Text returns the atom's text.
func (a *Atom) Text() string { return a.text }

// Section returns the Section containing the atom, or nil for a
// top-level atom.
func (a *Atom) Section() *Section { return a.section }

// IsTopLevel returns true if the atom is not inside a Section.
func (a *Atom) IsTopLevel() bool { return a.section == nil }

func (a *Atom) String() string { return fmt.Sprintf("atom#%d(%q)", a.id, a.text) }

// Side identifies a Section boundary.
type Side uint8

const (
	// Left is the start boundary.
	Left Side = iota
	// Right is the end boundary.
	Right
)

// String returns the side name.
func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Handle is the draggable boundary of a Section.
type Handle struct {
	id      NodeID
	side    Side
	section *Section
}

// ID returns the handle's identifier.
func (h *Handle) ID() NodeID { return h.id }

// Kind returns KindHandle.
func (h *Handle) Kind() Kind { return KindHandle }

// Side returns which boundary the handle marks.
func (h *Handle) Side() Side { return h.side }

// Section returns the Section the handle belongs to.
func (h *Handle) Section() *Section { return h.section }

func (h *Handle) String() string { return fmt.Sprintf("handle#%d(%s)", h.id, h.side) }

// Section groups a run of atoms between two handles.
type Section struct {
	id      NodeID
	left    *Handle
	right   *Handle
	content []*Atom
}

// ID returns the section's identifier.
func (s *Section) ID() NodeID { return s.id }

// Kind returns KindSection.
func (s *Section) Kind() Kind { return KindSection }

// Left returns the left handle.
func (s *Section) Left() *Handle { return s.left }

// Right returns the right handle.
func (s *Section) Right() *Handle { return s.right }

// Handle returns the handle on the given side.
func (s *Section) Handle(side Side) *Handle {
	if side == Left {
		return s.left
	}
	return s.right
}

// Atoms returns a copy of the section's content atoms.
func (s *Section) Atoms() []*Atom {
	out := make([]*Atom, len(s.content))
	copy(out, s.content)
	return out
}

// Len returns the number of content atoms.
func (s *Section) Len() int { return len(s.content) }

// Text returns the content atoms joined by single spaces.
func (s *Section) Text() string { return joinText(s.content) }

func (s *Section) String() string { return fmt.Sprintf("section#%d(%d atoms)", s.id, len(s.content)) }

func joinText(atoms []*Atom) string {
	var b strings.Builder
	for i, a := range atoms {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a.text)
	}
	return b.String()
}

// IsHandle reports whether n is a Handle.
func IsHandle(n Node) bool {
	_, ok := n.(*Handle)
	return ok
}

// IsSection reports whether n is a Section.
func IsSection(n Node) bool {
	_, ok := n.(*Section)
	return ok
}

// IsTopLevelAtom reports whether n is an atom outside every Section.
func IsTopLevelAtom(n Node) bool {
	a, ok := n.(*Atom)
	return ok && a.section == nil
}
