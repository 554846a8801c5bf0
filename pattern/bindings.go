package pattern

// Substitution maps pattern variables to the subterms they were bound
// to by a successful match. It is built once per match and never
// mutated after being handed to a caller.
type Substitution map[Term]Term

// BindingSeq is the persistent, copy-on-append accumulator the dynamic
// matcher uses while walking: appending never mutates an earlier
// snapshot, so a frame captured on a backtrack stack stays valid no
// matter how much further descent appends to it afterward.
type BindingSeq []Term

// Append returns a new BindingSeq with t added, leaving b itself (and
// anything else holding a reference to it) untouched.
func (b BindingSeq) Append(t Term) BindingSeq {
	out := make(BindingSeq, len(b)+1)
	copy(out, b)
	out[len(b)] = t
	return out
}

// Resolve zips varList (a pattern's recorded occurrence order) with the
// bound subterms collected along one matching path, rejecting the match
// if any repeated variable was bound to unequal subterms. This is the
// non-linearity post-pass of DynamicPatternSet; StaticPatternSet does
// its own check over the subterms it cached by occurrence path.
func Resolve(ctx TermContext, varList []Term, bound BindingSeq) (Substitution, bool, error) {
	if len(varList) != len(bound) {
		return nil, false, InternalInvariantError("var_list and collected bindings differ in length")
	}

	subs := make(Substitution, len(varList))
	for i, v := range varList {
		term := bound[i]
		if existing, ok := lookup(ctx, subs, v); ok {
			if !ctx.Equal(existing, term) {
				return nil, false, nil
			}
			continue
		}
		subs[v] = term
	}
	return subs, true, nil
}

// lookup finds a variable's existing binding using the context's own
// equality, since the variable type is caller-supplied and map[Term]Term
// keying uses Go's ==, which misses keys that are distinct Go values but
// compare equal under a caller's richer Equal.
func lookup(ctx TermContext, subs Substitution, v Term) (Term, bool) {
	if t, ok := subs[v]; ok {
		return t, true
	}
	for k, t := range subs {
		if ctx.Equal(k, v) {
			return t, true
		}
	}
	return nil, false
}
