// Package dynamicset implements the nondeterministic discrimination
// net: a trie keyed by the preorder head sequence of each
// pattern, with variable positions collapsed onto the single wildcard
// edge VAR. Patterns can be added incrementally; matching backtracks
// over a copyable Walker, trying concrete edges before the wildcard so
// more specific matches are always reported first.
package dynamicset

import "github.com/client9/patternmatch/pattern"

// node is one trie node: edges to more specific continuations, an
// optional wildcard continuation, and the pattern indices that
// terminate exactly here.
type node struct {
	edges    map[any]*node
	varEdge  *node
	patterns []int
}

func newNode() *node {
	return &node{}
}

// DynamicPatternSet is the nondeterministic discrimination net.
type DynamicPatternSet struct {
	ctx      pattern.TermContext
	root     *node
	patterns []pattern.Pattern
}

// New creates an empty DynamicPatternSet bound to ctx.
func New(ctx pattern.TermContext) *DynamicPatternSet {
	return &DynamicPatternSet{ctx: ctx, root: newNode()}
}

// NewFrom creates a DynamicPatternSet bound to ctx and adds each of
// patterns in order.
func NewFrom(ctx pattern.TermContext, patterns []pattern.Pattern) (*DynamicPatternSet, error) {
	s := New(ctx)
	for _, p := range patterns {
		if err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add inserts p into the net. The pattern's head sequence (variable
// positions replaced by VAR) determines its path through the trie; the
// last edge taken lands at a node whose patterns list receives p's
// index. Two patterns whose head sequences agree (they differ only in
// variable identity) land on the same node.
func (s *DynamicPatternSet) Add(p pattern.Pattern) error {
	if p.Context() != nil && p.Context() != s.ctx {
		return pattern.ContextMismatchError()
	}

	n := s.root
	for _, lbl := range pattern.Linearize(s.ctx, p) {
		if lbl.Var {
			n = descendVar(n)
			continue
		}
		key, ok := safeKey(lbl.Head)
		if !ok {
			// An unhashable head cannot be a trie edge key either; fold
			// it onto the wildcard edge rather than reject the insert.
			n = descendVar(n)
			continue
		}
		n = descendConcrete(n, key)
	}

	idx := len(s.patterns)
	s.patterns = append(s.patterns, p)
	n.patterns = append(n.patterns, idx)
	return nil
}

func descendVar(n *node) *node {
	if n.varEdge == nil {
		n.varEdge = newNode()
	}
	return n.varEdge
}

func descendConcrete(n *node, key any) *node {
	if n.edges == nil {
		n.edges = make(map[any]*node)
	}
	child, ok := n.edges[key]
	if !ok {
		child = newNode()
		n.edges[key] = child
	}
	return child
}

// safeKey returns a usable map key for head, and false if head is not
// comparable (e.g. a slice- or map-valued payload). Go panics rather
// than erroring on a non-comparable map key, so the probe is wrapped in
// a recover: an unhashable head is treated as an absent edge, never as
// an error.
func safeKey(head any) (key any, ok bool) {
	defer func() {
		if recover() != nil {
			key, ok = nil, false
		}
	}()
	probe := map[any]struct{}{}
	probe[head] = struct{}{}
	return head, true
}

// searchState is one position in the backtracking search: the input
// walker, the net node reached so far, and the bindings collected along
// the way.
type searchState struct {
	walker *pattern.Walker
	node   *node
	bound  pattern.BindingSeq
}

// MatchIterator is the lazy sequence of (pattern, substitution) pairs
// produced by MatchIter.
type MatchIterator struct {
	s            *DynamicPatternSet
	cur          searchState
	active       bool
	viaBacktrack bool
	stack        []searchState

	pendingIdx   []int
	pendingBound pattern.BindingSeq
	curMatch     pattern.Match
}

// MatchIter returns a lazy sequence of every (pattern, substitution)
// pair matching term, in the order used here:
// concrete edges are always tried before the wildcard, so a pattern
// whose prefix matched concrete heads is reported before one that fell
// back to a variable at the same position.
func (s *DynamicPatternSet) MatchIter(term pattern.Term) *MatchIterator {
	return &MatchIterator{
		s:      s,
		cur:    searchState{walker: pattern.NewWalker(s.ctx, term), node: s.root},
		active: true,
	}
}

// Next advances the iterator and reports whether a match was produced;
// call Match to read it.
func (it *MatchIterator) Next() bool {
	for {
		if len(it.pendingIdx) > 0 {
			idx := it.pendingIdx[0]
			it.pendingIdx = it.pendingIdx[1:]
			m, ok, err := it.s.processMatch(idx, it.pendingBound)
			if err != nil {
				panic(err)
			}
			if ok {
				it.curMatch = m
				return true
			}
			continue
		}

		if !it.active {
			return false
		}

		if it.cur.walker.AtEnd() {
			if len(it.cur.node.patterns) > 0 {
				it.pendingIdx = append([]int(nil), it.cur.node.patterns...)
				it.pendingBound = it.cur.bound
			}
			it.popOrFinish()
			continue
		}

		if !it.viaBacktrack {
			if child, ok := it.tryConcrete(); ok {
				it.stack = append(it.stack, it.cur)
				nextWalker := it.cur.walker.Copy()
				nextWalker.Next()
				it.cur = searchState{walker: nextWalker, node: child, bound: it.cur.bound}
				continue
			}
		}
		it.viaBacktrack = false

		if it.cur.node.varEdge != nil {
			term := it.cur.walker.Term()
			nextWalker := it.cur.walker.Copy()
			nextWalker.Skip()
			it.cur = searchState{
				walker: nextWalker,
				node:   it.cur.node.varEdge,
				bound:  it.cur.bound.Append(term),
			}
			continue
		}

		it.popOrFinish()
	}
}

func (it *MatchIterator) tryConcrete() (*node, bool) {
	if it.cur.node.edges == nil {
		return nil, false
	}
	key, ok := safeKey(it.cur.walker.Head())
	if !ok {
		return nil, false
	}
	child, ok := it.cur.node.edges[key]
	return child, ok
}

func (it *MatchIterator) popOrFinish() {
	if len(it.stack) == 0 {
		it.active = false
		return
	}
	it.cur = it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.viaBacktrack = true
}

// Match returns the pair produced by the most recent Next call.
func (it *MatchIterator) Match() pattern.Match {
	return it.curMatch
}

// processMatch runs the non-linearity post-pass for one candidate
// pattern index against one collected binding sequence.
func (s *DynamicPatternSet) processMatch(idx int, bound pattern.BindingSeq) (pattern.Match, bool, error) {
	p := s.patterns[idx]
	subs, ok, err := pattern.Resolve(s.ctx, p.VarList(), bound)
	if err != nil {
		return pattern.Match{}, false, err
	}
	if !ok {
		return pattern.Match{}, false, nil
	}
	return pattern.Match{Pattern: p, Substitution: subs}, true, nil
}

// MatchAll eagerly materializes MatchIter.
func (s *DynamicPatternSet) MatchAll(term pattern.Term) []pattern.Match {
	out := []pattern.Match{}
	it := s.MatchIter(term)
	for it.Next() {
		out = append(out, it.Match())
	}
	return out
}

// MatchOne returns the first match, or (zero value, false) if term
// matches nothing.
func (s *DynamicPatternSet) MatchOne(term pattern.Term) (pattern.Match, bool) {
	it := s.MatchIter(term)
	if it.Next() {
		return it.Match(), true
	}
	return pattern.Match{}, false
}
