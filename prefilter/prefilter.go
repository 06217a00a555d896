// Package prefilter screens haystacks before the automaton runs.
//
// A pattern whose expression reduces to required literal words — a single
// literal sequence, or a top-level alternation of literal sequences — can
// reject most non-matching inputs with one multi-pattern scan: if none of
// the words occurs, the pattern cannot match. The scan is an Aho-Corasick
// automaton, which stays O(n) regardless of how many words the alternation
// contributes.
//
// The screen is one-sided: a hit only means "worth running the engine",
// never "match". Callers must not use it on a complemented automaton, where
// the absence of a literal implies a match rather than excluding one.
package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/regenhq/regen/syntax"
)

// Seq is the extracted literal alternation.
type Seq struct {
	lits [][]byte

	// complete reports that the pattern is exactly the alternation of the
	// extracted words, so a screen hit at the right offsets is a match by
	// itself. The engine still verifies; complete only enables callers to
	// skip that when they ask for a boolean.
	complete bool
}

// Empty reports whether no literals were extracted.
func (s *Seq) Empty() bool { return s == nil || len(s.lits) == 0 }

// Len returns the number of extracted words.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.lits)
}

// Literals returns the extracted words. The slices alias internal storage.
func (s *Seq) Literals() [][]byte {
	if s == nil {
		return nil
	}
	return s.lits
}

// Complete reports whether the pattern is exactly this alternation.
func (s *Seq) Complete() bool { return s != nil && s.complete }

// Extract walks the expression (before EOP augmentation) and collects the
// required literal words. It returns an empty Seq when the pattern has any
// non-literal structure at the top level: repetitions, classes, dots,
// anchors and operators all defeat the "every match contains one of these
// words" guarantee.
func Extract(t *syntax.Tree) *Seq {
	if t == nil || t.Expr == syntax.None {
		return &Seq{}
	}
	s := &Seq{complete: true}
	if !collectAlt(t, t.Expr, s) {
		return &Seq{}
	}
	return s
}

// collectAlt descends through top-level unions, one literal word per branch.
func collectAlt(t *syntax.Tree, id int, s *Seq) bool {
	n := t.Node(id)
	if n.Kind == syntax.KindUnion {
		return collectAlt(t, n.Left, s) && collectAlt(t, n.Right, s)
	}
	word, ok := literalWord(t, id)
	if !ok || len(word) == 0 {
		return false
	}
	s.lits = append(s.lits, word)
	return true
}

// literalWord flattens a concat chain of literal bytes.
func literalWord(t *syntax.Tree, id int) ([]byte, bool) {
	n := t.Node(id)
	switch n.Kind {
	case syntax.KindLiteral:
		return []byte{n.Lit}, true
	case syntax.KindConcat:
		left, ok := literalWord(t, n.Left)
		if !ok {
			return nil, false
		}
		right, ok := literalWord(t, n.Right)
		if !ok {
			return nil, false
		}
		return append(left, right...), true
	default:
		return nil, false
	}
}

// Prefilter is the compiled screen.
type Prefilter struct {
	auto     *ahocorasick.Automaton
	complete bool
}

// New builds a screen from the extracted literals. Returns nil (and no
// error) when the Seq is empty: there is nothing to screen on.
func New(seq *Seq) (*Prefilter, error) {
	if seq.Empty() {
		return nil, nil
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range seq.Literals() {
		builder.AddPattern(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Prefilter{auto: auto, complete: seq.Complete()}, nil
}

// IsComplete reports whether a screen hit is itself a match.
func (p *Prefilter) IsComplete() bool {
	return p.complete
}

// IsMatch reports whether any required word occurs in the haystack.
func (p *Prefilter) IsMatch(haystack []byte) bool {
	return p.auto.IsMatch(haystack)
}

// Find returns the start offset of the first required-word occurrence at or
// after 'at', or -1 when none occurs.
func (p *Prefilter) Find(haystack []byte, at int) int {
	m := p.auto.Find(haystack, at)
	if m == nil {
		return -1
	}
	return m.Start
}
