// Package staticset implements the minimal deterministic left-to-right
// matching automaton of Nedjah (1998): a tree of states compiled once
// from a fixed, ordered list of patterns, then walked with no
// backtracking at all during matching.
package staticset

import (
	"fmt"
	"sort"

	"github.com/client9/patternmatch/pattern"
)

// mitem is one (suffix, rule index) contribution to a construction-time
// state.
type mitem struct {
	suffix []pattern.Label
	rule   int
}

// mset is an unordered collection of mitems; two msets are equivalent
// iff they contain the same multiset of items, regardless of order
//.
type mset []mitem

func labelKey(l pattern.Label) string {
	if l.Var {
		return "VAR"
	}
	return fmt.Sprintf("%v/%d", l.Head, l.Arity)
}

func itemKey(it mitem) string {
	key := fmt.Sprintf("%d:", it.rule)
	for _, l := range it.suffix {
		key += labelKey(l) + ","
	}
	return key
}

// canonicalKey returns a string identifying mset m up to reordering,
// used to decide whether a newly computed state already exists.
func canonicalKey(m mset) string {
	keys := make([]string, len(m))
	for i, it := range m {
		keys[i] = itemKey(it)
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += k + "|"
	}
	return out
}

func sameHead(ctx pattern.TermContext, a, b pattern.Term) bool {
	return ctx.Equal(a, b)
}

// delta computes the transition function δ(M, s) of state m on
// next-symbol s. s is either a concrete head (s.Var false) or the
// wildcard itself (s.Var true).
func delta(ctx pattern.TermContext, m mset, s pattern.Label) mset {
	var set1 mset
	for _, it := range m {
		if len(it.suffix) == 0 {
			continue
		}
		head := it.suffix[0]
		matches := head.Var || (!s.Var && sameHead(ctx, head.Head, s.Head))
		if s.Var {
			matches = head.Var
		}
		if !matches {
			continue
		}
		set1 = append(set1, mitem{suffix: it.suffix[1:], rule: it.rule})
	}

	var varConts, concreteConts []mitem
	for _, it := range set1 {
		if len(it.suffix) == 0 {
			continue
		}
		if it.suffix[0].Var {
			varConts = append(varConts, it)
		} else {
			concreteConts = append(concreteConts, it)
		}
	}

	var synthesized mset
	for _, vc := range varConts {
		for _, cc := range concreteConts {
			head := cc.suffix[0]
			newSuffix := make([]pattern.Label, 0, 1+head.Arity+len(vc.suffix)-1)
			newSuffix = append(newSuffix, pattern.Label{Head: head.Head, Arity: head.Arity})
			for i := 0; i < head.Arity; i++ {
				newSuffix = append(newSuffix, pattern.Label{Var: true})
			}
			newSuffix = append(newSuffix, vc.suffix[1:]...)
			synthesized = append(synthesized, mitem{suffix: newSuffix, rule: vc.rule})
		}
	}

	return append(append(mset{}, set1...), synthesized...)
}

// nextSymbols returns the distinct next-symbols to transition on from
// m: one entry per distinct concrete head appearing at position 0 of a
// non-empty suffix, plus the wildcard itself if any suffix begins with
// it.
func nextSymbols(ctx pattern.TermContext, m mset) []pattern.Label {
	var out []pattern.Label
	sawVar := false
	for _, it := range m {
		if len(it.suffix) == 0 {
			continue
		}
		head := it.suffix[0]
		if head.Var {
			sawVar = true
			continue
		}
		found := false
		for _, s := range out {
			if !s.Var && sameHead(ctx, s.Head, head.Head) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, pattern.Label{Head: head.Head, Arity: head.Arity})
		}
	}
	if sawVar {
		out = append(out, pattern.Label{Var: true})
	}
	return out
}

// stateNode is one node of the compiled automaton: a transition table
// from next-symbol to either a further node or, at a terminal, the
// list of rule indices that complete there.
type stateNode struct {
	concrete map[string]*stateNode
	heads    map[string]pattern.Term // label key -> original head value, for concrete lookups at match time
	varEdge  *stateNode
	terminal []int // non-nil only at a terminal node
}

func newStateNode() *stateNode {
	return &stateNode{concrete: make(map[string]*stateNode), heads: make(map[string]pattern.Term)}
}

// StaticPatternSet is the compiled, immutable matching automaton.
type StaticPatternSet struct {
	ctx      pattern.TermContext
	patterns []pattern.Pattern
	root     *stateNode
}

// Compile builds a StaticPatternSet from patterns, in order. The
// automaton is frozen once Compile returns; there is no incremental
// Add (that is DynamicPatternSet's job).
func Compile(ctx pattern.TermContext, patterns []pattern.Pattern) (*StaticPatternSet, error) {
	for _, p := range patterns {
		if p.Context() != nil && p.Context() != ctx {
			return nil, pattern.ContextMismatchError()
		}
	}

	initial := make(mset, len(patterns))
	for i, p := range patterns {
		initial[i] = mitem{suffix: pattern.Linearize(ctx, p), rule: i}
	}

	type worklistEntry struct {
		m    mset
		node *stateNode
	}

	seen := map[string]*stateNode{}
	var worklist []worklistEntry

	rootNode := newStateNode()
	seen[canonicalKey(initial)] = rootNode
	worklist = append(worklist, worklistEntry{m: initial, node: rootNode})

	for i := 0; i < len(worklist); i++ {
		cur := worklist[i]
		for _, s := range nextSymbols(ctx, cur.m) {
			next := delta(ctx, cur.m, s)
			key := canonicalKey(next)
			child, ok := seen[key]
			if !ok {
				child = newStateNode()
				seen[key] = child
				worklist = append(worklist, worklistEntry{m: next, node: child})
			}
			if s.Var {
				cur.node.varEdge = child
			} else {
				lk := labelKey(pattern.Label{Head: s.Head})
				cur.node.concrete[lk] = child
				cur.node.heads[lk] = s.Head
			}
		}

		if len(cur.m) > 0 && allTerminal(cur.m) {
			// A rule can reach a terminal through several items (its own
			// suffix and synthesized ones), so keep each rule index once,
			// in insertion order.
			rules := make([]int, 0, len(cur.m))
			seenRule := map[int]bool{}
			for _, it := range cur.m {
				if !seenRule[it.rule] {
					seenRule[it.rule] = true
					rules = append(rules, it.rule)
				}
			}
			sort.Ints(rules)
			cur.node.terminal = rules
		}
	}

	return &StaticPatternSet{ctx: ctx, patterns: patterns, root: rootNode}, nil
}

func allTerminal(m mset) bool {
	for _, it := range m {
		if len(it.suffix) != 0 {
			return false
		}
	}
	return true
}

func (n *stateNode) lookupConcrete(ctx pattern.TermContext, head pattern.Term) *stateNode {
	for lk, h := range n.heads {
		if ctx.Equal(h, head) {
			return n.concrete[lk]
		}
	}
	return nil
}

// MatchIterator is the lazy sequence of (pattern, substitution) pairs
// produced by MatchIter.
type MatchIterator struct {
	s       *StaticPatternSet
	pending []int
	cache   map[string]pattern.Term
	done    bool
	cur     pattern.Match
}

// MatchIter walks term once, deterministically, against the compiled
// automaton, then yields one (pattern, substitution) pair per accepted
// pattern index at the resulting terminal, in insertion order, after
// running the non-linearity check on each candidate.
func (s *StaticPatternSet) MatchIter(term pattern.Term) *MatchIterator {
	cache := map[string]pattern.Term{}
	node := s.root
	it := pattern.NewPreorderIter(s.ctx, term, pattern.IterModePath)

	for it.Next() {
		subterm := it.Term()
		path := it.Path()

		v := node.varEdge
		c := node.lookupConcrete(s.ctx, s.ctx.Head(subterm))

		switch {
		case c != nil:
			node = c
			if v != nil {
				cache[pathKey(path)] = subterm
			}
		case v != nil:
			node = v
			it.Skip()
			cache[pathKey(path)] = subterm
		default:
			return &MatchIterator{s: s, done: true}
		}
	}

	return &MatchIterator{s: s, pending: append([]int(nil), node.terminal...), cache: cache}
}

func pathKey(path []int) string {
	key := ""
	for _, i := range path {
		key += fmt.Sprintf("%d.", i)
	}
	return key
}

// Next advances the iterator and reports whether a match was produced;
// call Match to read it.
func (it *MatchIterator) Next() bool {
	for len(it.pending) > 0 {
		idx := it.pending[0]
		it.pending = it.pending[1:]

		p := it.s.patterns[idx]
		subs, ok := it.resolveNonLinear(p)
		if !ok {
			continue
		}
		it.cur = pattern.Match{Pattern: p, Substitution: subs}
		return true
	}
	return false
}

// resolveNonLinear binds every variable in p to the subterm recorded in
// the cache at one of its occurrence paths, rejecting the pattern if
// any two of its occurrence paths disagree.
func (it *MatchIterator) resolveNonLinear(p pattern.Pattern) (pattern.Substitution, bool) {
	subs := pattern.Substitution{}
	for _, entry := range p.PathLookup() {
		var bound pattern.Term
		var have bool
		for _, path := range entry.Paths {
			t, ok := it.cache[pathKey(path)]
			if !ok {
				return nil, false
			}
			if have && !it.s.ctx.Equal(bound, t) {
				return nil, false
			}
			bound, have = t, true
		}
		subs[entry.Var] = bound
	}
	return subs, true
}

// Match returns the pair produced by the most recent Next call.
func (it *MatchIterator) Match() pattern.Match {
	return it.cur
}

// MatchAll eagerly materializes MatchIter.
func (s *StaticPatternSet) MatchAll(term pattern.Term) []pattern.Match {
	out := []pattern.Match{}
	it := s.MatchIter(term)
	for it.Next() {
		out = append(out, it.Match())
	}
	return out
}

// MatchOne returns the first match, or (zero value, false) if term
// matches nothing.
func (s *StaticPatternSet) MatchOne(term pattern.Term) (pattern.Match, bool) {
	it := s.MatchIter(term)
	if it.Next() {
		return it.Match(), true
	}
	return pattern.Match{}, false
}
