package pattern

// IterMode selects what a PreorderIter emits at each step. It is a
// small int enum compared with ==, not a string constant that a naive
// implementation might compare with Go's identity operator by mistake;
// representing the variant as an enum sidesteps that bug class
// entirely rather than reproducing it.
type IterMode int

const (
	// IterModeNormal emits the whole term at each preorder position.
	IterModeNormal IterMode = iota
	// IterModePath emits (term, path), the child-index tuple from root.
	IterModePath
	// IterModeArity emits (term, arity), the term's child count.
	IterModeArity
)

type preorderFrame struct {
	term Term
	path []int
}

// PreorderIter is a lazy preorder walk over a term, used by Pattern
// construction and by static-automaton matching (both in path mode).
// Static-automaton construction linearizes patterns with the Walker
// instead. Skip is single-shot: calling it
// after an emission suppresses that node's subtree for the very next
// Next call only.
type PreorderIter struct {
	ctx     TermContext
	mode    IterMode
	pending []preorderFrame
	cur     preorderFrame
	hasCur  bool
	skip    bool
}

// NewPreorderIter starts a preorder walk of root under ctx in the given
// mode.
func NewPreorderIter(ctx TermContext, root Term, mode IterMode) *PreorderIter {
	return &PreorderIter{
		ctx:     ctx,
		mode:    mode,
		pending: []preorderFrame{{term: root, path: nil}},
	}
}

// Skip suppresses the subtree of the node most recently returned by
// Next. It must be called before the following Next call; it has no
// effect once that call has happened.
func (it *PreorderIter) Skip() {
	it.skip = true
}

// Next advances the walk and reports whether a node remains. Call Term
// (and Path or Arity, depending on Mode) to read the emitted value.
func (it *PreorderIter) Next() bool {
	if it.hasCur && !it.skip {
		children := it.ctx.Children(it.cur.term)
		for i := len(children) - 1; i >= 0; i-- {
			childPath := make([]int, len(it.cur.path)+1)
			copy(childPath, it.cur.path)
			childPath[len(it.cur.path)] = i
			it.pending = append(it.pending, preorderFrame{term: children[i], path: childPath})
		}
	}
	it.skip = false

	if len(it.pending) == 0 {
		it.hasCur = false
		return false
	}
	it.cur = it.pending[len(it.pending)-1]
	it.pending = it.pending[:len(it.pending)-1]
	it.hasCur = true
	return true
}

// Mode reports the iterator's emission mode.
func (it *PreorderIter) Mode() IterMode {
	return it.mode
}

// Term returns the whole term at the current preorder position.
func (it *PreorderIter) Term() Term {
	return it.cur.term
}

// Path returns the child-index tuple locating the current term from
// the root. Meaningful in IterModePath.
func (it *PreorderIter) Path() []int {
	return it.cur.path
}

// Arity returns the number of children of the current term. Meaningful
// in IterModeArity.
func (it *PreorderIter) Arity() int {
	return len(it.ctx.Children(it.cur.term))
}
