package pattern

// Match pairs a pattern that matched with the substitution that
// realizes the match. Produced by both DynamicPatternSet and
// StaticPatternSet, in whichever order each strategy reports matches.
type Match struct {
	Pattern      Pattern
	Substitution Substitution
}

// Linearize walks p's term with the copyable traversal, producing the
// (symbol, arity) suffix the static automaton compiles from: a VAR
// wildcard (arity 0) at every variable position, the term's real head
// and arity everywhere else.
func Linearize(ctx TermContext, p Pattern) []Label {
	var out []Label
	w := NewWalker(ctx, p.Term())
	for !w.AtEnd() {
		if IsVariable(ctx, p.Variables(), w.Term()) {
			out = append(out, Label{Var: true})
			w.Skip()
			continue
		}
		out = append(out, Label{Head: w.Head(), Arity: w.Arity()})
		w.Next()
	}
	return out
}

// Label is one position in a linearized pattern suffix: either the
// wildcard VAR (arity always 0) or a concrete head and its arity.
type Label struct {
	Var   bool
	Head  Term
	Arity int
}
