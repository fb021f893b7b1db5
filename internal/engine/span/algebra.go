package span

// Relation describes how two spans are positioned relative to each other.
type Relation uint8

const (
	// Before means a ends at or before the start of b.
	Before Relation = iota
	// After means a starts at or after the end of b.
	After
	// OverlapPartial means the spans share slots but neither contains the other.
	OverlapPartial
	// Equal means the spans cover the same slots.
	Equal
	// Encloses means a strictly contains b.
	Encloses
	// Within means a lies strictly inside b.
	Within
)

// String returns the relation name.
func (r Relation) String() string {
	switch r {
	case Before:
		return "before"
	case After:
		return "after"
	case OverlapPartial:
		return "overlap"
	case Equal:
		return "equal"
	case Encloses:
		return "encloses"
	case Within:
		return "within"
	default:
		return "unknown"
	}
}

// Compare classifies the position of a relative to b.
func Compare(a, b Span) Relation {
	switch {
	case a == b:
		return Equal
	case a.End <= b.Start:
		return Before
	case b.End <= a.Start:
		return After
	case a.ContainsSpan(b):
		return Encloses
	case b.ContainsSpan(a):
		return Within
	default:
		return OverlapPartial
	}
}

// NodePosition describes where a node lies relative to a range, in the
// sense of the legacy DOM Range.compareNode.
type NodePosition uint8

const (
	// NodeBefore means the node starts before the range and ends inside or at its end.
	NodeBefore NodePosition = 0
	// NodeAfter means the node starts inside the range and ends after it.
	NodeAfter NodePosition = 1
	// NodeAround means the node starts before and ends after the range.
	NodeAround NodePosition = 2
	// NodeInside means the node lies within the range.
	NodeInside NodePosition = 3
)

// String returns the position name.
func (p NodePosition) String() string {
	switch p {
	case NodeBefore:
		return "before"
	case NodeAfter:
		return "after"
	case NodeAround:
		return "around"
	case NodeInside:
		return "inside"
	default:
		return "unknown"
	}
}

// CompareNode reports the position of node n relative to range r.
// A node that lies entirely before r is NodeBefore and one that lies
// entirely after r is NodeAfter.
func CompareNode(r, n Span) NodePosition {
	startsBefore := n.Start < r.Start
	endsAfter := n.End > r.End
	switch {
	case startsBefore && endsAfter:
		return NodeAround
	case startsBefore:
		return NodeBefore
	case endsAfter:
		return NodeAfter
	default:
		return NodeInside
	}
}

// Union returns the hull of a and b when they overlap or touch.
// Disjoint spans return a unchanged and ok=false.
func Union(a, b Span) (Span, bool) {
	if !a.Touches(b) {
		return a, false
	}
	return a.Hull(b), true
}

// Expand grows a to cover target when the two overlap.
func Expand(a, target Span) Span {
	if !a.Overlaps(target) {
		return a
	}
	return a.Hull(target)
}

// Difference removes node n from range a.
//
// When n does not intersect a, a is returned unchanged. A node hanging
// over one side of a trims that side. A node lying strictly inside a
// splits it into the parts left and right of n. A node equal to a, or
// one enclosing it, leaves a collapsed span at a.Start. No returned span
// has negative length.
func Difference(a, n Span) []Span {
	if !a.Overlaps(n) {
		return []Span{a}
	}
	switch CompareNode(a, n) {
	case NodeBefore:
		return []Span{collapseIfInverted(Span{Start: n.End, End: a.End})}
	case NodeAfter:
		return []Span{collapseIfInverted(Span{Start: a.Start, End: n.Start})}
	case NodeInside:
		if a == n {
			return []Span{Collapsed(a.Start)}
		}
		return []Span{
			{Start: a.Start, End: n.Start},
			{Start: n.End, End: a.End},
		}
	default:
		return []Span{Collapsed(a.Start)}
	}
}

func collapseIfInverted(s Span) Span {
	if s.Start > s.End {
		return Collapsed(s.End)
	}
	return s
}
