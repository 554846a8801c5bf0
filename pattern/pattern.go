package pattern

// PathEntry records the occurrence paths of one pattern variable.
// PathLookup is represented as an ordered slice, not a map, because a
// caller's variable values are not guaranteed to be valid Go map keys;
// lookups use the context's own Equal.
type PathEntry struct {
	Var   Term
	Paths [][]int
}

// Pattern is an immutable term paired with its declared variable set
// and the variable bookkeeping the dynamic net and static automaton
// each need: VarList (preorder occurrence order, duplicates preserved)
// and PathLookup (path-indexed occurrence map). Both are computed once,
// from a single "path" preorder walk, at construction time.
type Pattern struct {
	ctx        TermContext
	term       Term
	vars       []Term
	varList    []Term
	pathLookup []PathEntry
}

// New builds a Pattern by walking term once in preorder. Every node
// equal (via ctx.Equal) to one of vars is recorded: appended to VarList
// in the order encountered, and its path appended to that variable's
// PathLookup entry. Non-variable nodes are not recorded.
func New(ctx TermContext, term Term, vars []Term) Pattern {
	p := Pattern{ctx: ctx, term: term, vars: vars}

	it := NewPreorderIter(ctx, term, IterModePath)
	for it.Next() {
		node := it.Term()
		if !IsVariable(ctx, vars, node) {
			continue
		}
		path := append([]int(nil), it.Path()...)
		p.varList = append(p.varList, node)
		p.pathLookup = appendPath(ctx, p.pathLookup, node, path)
	}
	return p
}

func appendPath(ctx TermContext, entries []PathEntry, v Term, path []int) []PathEntry {
	for i := range entries {
		if ctx.Equal(entries[i].Var, v) {
			entries[i].Paths = append(entries[i].Paths, path)
			return entries
		}
	}
	return append(entries, PathEntry{Var: v, Paths: [][]int{path}})
}

// Context returns the TermContext this pattern was built against.
func (p Pattern) Context() TermContext {
	return p.ctx
}

// Term returns the raw pattern term, retained for introspection and
// equality.
func (p Pattern) Term() Term {
	return p.term
}

// Variables returns the declared variable set.
func (p Pattern) Variables() []Term {
	return p.vars
}

// VarList returns the preorder occurrence order of variables in the
// pattern, duplicates preserved. Consumed by DynamicPatternSet.
func (p Pattern) VarList() []Term {
	return p.varList
}

// PathLookup returns, per variable, the non-empty list of paths at
// which it occurs. Consumed by StaticPatternSet.
func (p Pattern) PathLookup() []PathEntry {
	return p.pathLookup
}

// PathsFor returns the occurrence paths recorded for v, or nil if v
// never occurs as a variable in this pattern.
func (p Pattern) PathsFor(v Term) [][]int {
	for _, e := range p.pathLookup {
		if p.ctx.Equal(e.Var, v) {
			return e.Paths
		}
	}
	return nil
}

// IsLinear reports whether every declared variable occurs at most once.
func (p Pattern) IsLinear() bool {
	for _, e := range p.pathLookup {
		if len(e.Paths) > 1 {
			return false
		}
	}
	return true
}
