package pattern

// Walker is the stack-based copyable preorder walk required by the
// dynamic matcher, which snapshots walker state at every backtracking
// choice point. Unlike PreorderIter it carries no path information,
// only enough state to resume traversal and to be cheaply copied.
type Walker struct {
	ctx     TermContext
	current Term
	// stack holds, innermost level last, the siblings not yet visited
	// at each ancestor level. Reslicing an entry never mutates another
	// walker's view of the same slice, so Copy only needs a fresh
	// backing array for the outer stack.
	stack [][]Term
}

// NewWalker starts a copyable preorder walk of root under ctx.
func NewWalker(ctx TermContext, root Term) *Walker {
	return &Walker{ctx: ctx, current: root}
}

// Term returns the whole term at the current position.
func (w *Walker) Term() Term {
	return w.current
}

// Head returns the head of the current term, or nil once the walker is
// exhausted.
func (w *Walker) Head() Term {
	if w.AtEnd() {
		return nil
	}
	return w.ctx.Head(w.current)
}

// Arity returns the number of children of the current term.
func (w *Walker) Arity() int {
	if w.AtEnd() {
		return 0
	}
	return len(w.ctx.Children(w.current))
}

// AtEnd reports whether the walk is exhausted: the current term is the
// End sentinel.
func (w *Walker) AtEnd() bool {
	return IsEnd(w.current)
}

// Next advances to the next preorder position: into the first child if
// the current term has any, otherwise to the next deferred sibling, or
// to End once nothing remains.
func (w *Walker) Next() {
	if !w.AtEnd() {
		children := w.ctx.Children(w.current)
		if len(children) > 0 {
			if len(children) > 1 {
				w.stack = append(w.stack, children[1:])
			}
			w.current = children[0]
			return
		}
	}
	w.popNext()
}

// Skip discards the current term's subtree: it behaves exactly like
// Next would if the current term had no children, advancing straight
// to the next deferred sibling.
func (w *Walker) Skip() {
	w.popNext()
}

func (w *Walker) popNext() {
	for len(w.stack) > 0 {
		top := w.stack[len(w.stack)-1]
		if len(top) == 0 {
			w.stack = w.stack[:len(w.stack)-1]
			continue
		}
		w.current = top[0]
		w.stack[len(w.stack)-1] = top[1:]
		return
	}
	w.current = End
}

// Copy produces an independent walker sharing no mutable state with w:
// further Next/Skip calls on either walker never affect the other.
func (w *Walker) Copy() *Walker {
	newStack := make([][]Term, len(w.stack))
	copy(newStack, w.stack)
	return &Walker{ctx: w.ctx, current: w.current, stack: newStack}
}
