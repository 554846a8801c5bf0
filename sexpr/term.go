// Package sexpr is a small, self-contained term representation used by
// this module's own tests and CLI demo: an example of how
// a consumer plugs a real term language into TermContext.
package sexpr

import (
	"fmt"
	"strings"

	"github.com/client9/patternmatch/pattern"
)

// Term is any sexpr value: an Atom or a List.
type Term interface {
	String() string
	isTerm()
}

// Atom is a leaf term: a symbol, an int, or any other comparable
// payload. Two Atoms are equal when their Value fields are ==.
type Atom struct {
	Value any
}

func (Atom) isTerm() {}

// String renders the atom's value with fmt's default verb.
func (a Atom) String() string {
	return fmt.Sprintf("%v", a.Value)
}

// Sym is a convenience constructor for a symbol atom.
func Sym(name string) Atom {
	return Atom{Value: name}
}

// Int is a convenience constructor for an integer atom.
func Int(n int64) Atom {
	return Atom{Value: n}
}

// List is a compound term: a head term followed by zero or more
// argument terms. The head is itself a term, not a bare tag.
type List struct {
	Head Term
	Args []Term
}

func (List) isTerm() {}

// NewList builds a List from a head and its arguments.
func NewList(head Term, args ...Term) List {
	elems := make([]Term, len(args))
	copy(elems, args)
	return List{Head: head, Args: elems}
}

// String renders a List in the surface syntax Parse accepts:
// "(head arg1 arg2 ...)".
func (l List) String() string {
	parts := make([]string, 0, len(l.Args)+1)
	parts = append(parts, l.Head.String())
	for _, a := range l.Args {
		parts = append(parts, a.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Copy does a shallow clone of l's argument slice: the returned List
// shares no backing array with l, but the Term values themselves are
// not deep-copied.
func (l List) Copy() List {
	args := make([]Term, len(l.Args))
	copy(args, l.Args)
	return List{Head: l.Head, Args: args}
}

// Context implements pattern.TermContext for sexpr.Term.
type Context struct{}

// NewContext returns the sexpr TermContext. There is no per-instance
// state, but the pattern sets compare contexts with ==, and pointers
// returned by two separate calls are not guaranteed to compare equal;
// callers keep one around so patterns and PatternSets built against it
// share the same context.
func NewContext() *Context {
	return &Context{}
}

// Head returns t's head: for a List, the declared Head field; for an
// Atom, the atom itself, per the TermContext contract for leaves.
func (c *Context) Head(t pattern.Term) pattern.Term {
	switch v := t.(type) {
	case List:
		return v.Head
	default:
		return t
	}
}

// Children returns a List's arguments, or nil for an Atom.
func (c *Context) Children(t pattern.Term) []pattern.Term {
	l, ok := t.(List)
	if !ok {
		return nil
	}
	out := make([]pattern.Term, len(l.Args))
	for i, a := range l.Args {
		out[i] = a
	}
	return out
}

// Rebuild constructs a List from h and xs. Rebuilding an Atom (no
// children, h itself the term) returns h unchanged.
func (c *Context) Rebuild(h pattern.Term, xs []pattern.Term) pattern.Term {
	if len(xs) == 0 {
		if _, isList := h.(List); !isList {
			return h
		}
	}
	args := make([]Term, len(xs))
	for i, x := range xs {
		args[i] = x.(Term)
	}
	return List{Head: h.(Term), Args: args}
}

// Substitute replaces every subterm of t found (by Equal) as a key in
// subs with its bound value, recursing into List arguments. A List is
// never mutated in place, only rebuilt.
func (c *Context) Substitute(t pattern.Term, subs pattern.Substitution) pattern.Term {
	for k, v := range subs {
		if c.Equal(k, t) {
			return v
		}
	}
	l, ok := t.(List)
	if !ok {
		return t
	}
	l = l.Copy()
	head := c.Substitute(l.Head, subs)
	args := make([]Term, len(l.Args))
	for i, a := range l.Args {
		args[i] = c.Substitute(a, subs).(Term)
	}
	return List{Head: head.(Term), Args: args}
}

// Equal compares Atoms by Value equality and Lists structurally
// (head and every argument, recursively); a List and an Atom are
// never equal.
func (c *Context) Equal(a, b pattern.Term) bool {
	switch av := a.(type) {
	case Atom:
		bv, ok := b.(Atom)
		return ok && av.Value == bv.Value
	case List:
		bv, ok := b.(List)
		if !ok || len(av.Args) != len(bv.Args) {
			return false
		}
		if !c.Equal(av.Head, bv.Head) {
			return false
		}
		for i := range av.Args {
			if !c.Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
