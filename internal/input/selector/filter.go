package selector

// Filter decides whether an element may be part of the selection.
type Filter[E comparable] func(el E) bool

// FilterID identifies an installed filter.
type FilterID uint64

type filterEntry[E comparable] struct {
	id FilterID
	fn Filter[E]
}

// AddFilter installs a filter for the current gesture. It takes effect
// on the next recomputation of the selection. If elements are given,
// the ones the filter accepts are returned.
func (s *Selector[E]) AddFilter(fn Filter[E], elements ...E) (FilterID, []E) {
	s.nextFilter++
	id := s.nextFilter
	s.filters = append(s.filters, filterEntry[E]{id: id, fn: fn})
	if len(elements) == 0 {
		return id, nil
	}
	var kept []E
	for _, el := range elements {
		if fn(el) {
			kept = append(kept, el)
		}
	}
	return id, kept
}

// RemoveFilter uninstalls a filter.
func (s *Selector[E]) RemoveFilter(id FilterID) error {
	for i, f := range s.filters {
		if f.id == id {
			s.filters = append(s.filters[:i], s.filters[i+1:]...)
			return nil
		}
	}
	return ErrUnknownFilter
}

// ClearFilters uninstalls every filter.
func (s *Selector[E]) ClearFilters() {
	s.filters = nil
}

// Filters returns the number of installed filters.
func (s *Selector[E]) Filters() int {
	return len(s.filters)
}

func (s *Selector[E]) passes(el E) bool {
	for _, f := range s.filters {
		if !f.fn(el) {
			return false
		}
	}
	return true
}
