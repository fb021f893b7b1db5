package lua

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/scribeline/internal/engine/document"
	"github.com/dshills/scribeline/internal/input/selector"
	"github.com/dshills/scribeline/internal/logging"
)

// AtomInfo is the view of a word handed to accept.
type AtomInfo struct {
	Text      string
	Index     int // 0-based; scripts see it 1-based
	InSection bool
}

// Filter is one loaded filter script.
type Filter struct {
	name  string
	state *State
}

// LoadFilter reads and compiles the script at path.
func LoadFilter(path string, opts ...StateOption) (*Filter, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading filter: %w", err)
	}
	return NewFilter(filepath.Base(path), string(src), opts...)
}

// NewFilter compiles a filter from source. name labels errors and logs.
func NewFilter(name, source string, opts ...StateOption) (*Filter, error) {
	st := NewState(opts...)
	if err := st.DoString(source); err != nil {
		st.Close()
		return nil, &ScriptError{Script: name, Err: err}
	}
	if st.GetGlobal("accept").Type() != lua.LTFunction {
		st.Close()
		return nil, &ScriptError{Script: name, Err: ErrNoAccept}
	}
	return &Filter{name: name, state: st}, nil
}

// Name returns the script's label.
func (f *Filter) Name() string {
	return f.name
}

// Accept runs the script's accept function on a word. Lua truthiness
// applies: anything but nil and false accepts.
func (f *Filter) Accept(a AtomInfo) (bool, error) {
	L := f.state.L
	t := L.NewTable()
	t.RawSetString("text", lua.LString(a.Text))
	t.RawSetString("index", lua.LNumber(a.Index+1))
	t.RawSetString("in_section", lua.LBool(a.InSection))

	ret, err := f.state.Call("accept", t)
	if err != nil {
		return false, &ScriptError{Script: f.name, Err: err}
	}
	if len(ret) == 0 {
		return false, nil
	}
	return lua.LVAsBool(ret[0]), nil
}

// Close releases the script's state.
func (f *Filter) Close() {
	f.state.Close()
}

// LoadFilters loads every script in order, closing the loaded ones if
// any fails.
func LoadFilters(paths []string, opts ...StateOption) ([]*Filter, error) {
	filters := make([]*Filter, 0, len(paths))
	for _, p := range paths {
		f, err := LoadFilter(p, opts...)
		if err != nil {
			CloseAll(filters)
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// CloseAll closes every filter.
func CloseAll(filters []*Filter) {
	for _, f := range filters {
		f.Close()
	}
}

// SelectorFilter adapts f to the editing surface. Nodes other than
// words pass. A script error is logged and the word accepted, so a
// broken script never locks selection.
func SelectorFilter(f *Filter, doc *document.Document, log *logging.Logger) selector.Filter[document.Node] {
	log = logging.OrDiscard(log).WithField("filter", f.name)
	idx := &atomIndex{doc: doc}
	return func(n document.Node) bool {
		a, ok := n.(*document.Atom)
		if !ok {
			return true
		}
		ok, err := f.Accept(AtomInfo{
			Text:      a.Text(),
			Index:     idx.of(a),
			InSection: !a.IsTopLevel(),
		})
		if err != nil {
			log.WithError(err).Warn("filter failed, accepting %q", a.Text())
			return true
		}
		return ok
	}
}

// SelectorFilters adapts every filter.
func SelectorFilters(filters []*Filter, doc *document.Document, log *logging.Logger) []selector.Filter[document.Node] {
	out := make([]selector.Filter[document.Node], len(filters))
	for i, f := range filters {
		out[i] = SelectorFilter(f, doc, log)
	}
	return out
}

// atomIndex caches word positions per document version.
type atomIndex struct {
	doc     *document.Document
	version uint64
	pos     map[*document.Atom]int
}

func (x *atomIndex) of(a *document.Atom) int {
	if x.pos == nil || x.version != x.doc.Version() {
		atoms := x.doc.Atoms()
		x.pos = make(map[*document.Atom]int, len(atoms))
		for i, at := range atoms {
			x.pos[at] = i
		}
		x.version = x.doc.Version()
	}
	if i, ok := x.pos[a]; ok {
		return i
	}
	return -1
}
