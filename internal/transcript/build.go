package transcript

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/scribeline/internal/engine/document"
	"github.com/dshills/scribeline/internal/engine/region"
)

// Words splits text into NFC-normalized, whitespace-separated words.
func Words(text string) []string {
	return strings.Fields(norm.NFC.String(text))
}

// Build turns t into a document. Each timed line becomes a Section and
// its interval is returned at the Section's index; untimed lines become
// top-level atoms. Timed lines without words are dropped.
func Build(t Transcript) (*document.Document, []region.Interval, error) {
	if err := t.Validate(); err != nil {
		return nil, nil, err
	}
	b := document.NewBuilder()
	var ivs []region.Interval
	for _, l := range t {
		words := Words(l.Text)
		iv, timed := l.Interval()
		if !timed {
			b.Text(words...)
			continue
		}
		if len(words) == 0 {
			continue
		}
		b.Section(words...)
		ivs = append(ivs, iv)
	}
	return b.Build(), ivs, nil
}

// Timing reports the interval paired with a Section.
type Timing interface {
	IntervalOf(s *document.Section) (region.Interval, bool)
}

// TimingFunc adapts a function to Timing.
type TimingFunc func(s *document.Section) (region.Interval, bool)

// IntervalOf calls f(s).
func (f TimingFunc) IntervalOf(s *document.Section) (region.Interval, bool) {
	return f(s)
}

// Export rebuilds a transcript from an edited document. Each run of
// top-level atoms becomes one untimed line and each Section becomes a
// line carrying the interval timing reports for it.
func Export(doc *document.Document, timing Timing) Transcript {
	out := Transcript{}
	var run []string
	flush := func() {
		if len(run) > 0 {
			out = append(out, Line{Text: strings.Join(run, " ")})
			run = nil
		}
	}
	for _, n := range doc.Nodes() {
		switch n := n.(type) {
		case *document.Atom:
			run = append(run, n.Text())
		case *document.Section:
			flush()
			l := Line{Text: n.Text()}
			if timing != nil {
				if iv, ok := timing.IntervalOf(n); ok {
					l = Timed(n.Text(), iv.Start, iv.End)
				}
			}
			out = append(out, l)
		}
	}
	flush()
	return out
}
