package dynamicset_test

import (
	"reflect"
	"testing"

	"github.com/client9/patternmatch/dynamicset"
	"github.com/client9/patternmatch/pattern"
)

// testCtx is a minimal TermContext over plain Go values: a symbol or
// variable is a string, a number is an int, and a compound term is a
// []any whose element 0 is the head — the same "head is element zero"
// convention as a classic s-expression list. A raw []int leaf is left
// unwrapped on purpose: it is not comparable, so it stands in for the
// spec's "exotic unhashable payload" case.
type testCtx struct{}

func lst(head any, args ...any) any {
	out := make([]any, 0, len(args)+1)
	out = append(out, head)
	out = append(out, args...)
	return out
}

func (testCtx) Head(t pattern.Term) pattern.Term {
	if l, ok := t.([]any); ok {
		return l[0]
	}
	return t
}

func (testCtx) Children(t pattern.Term) []pattern.Term {
	l, ok := t.([]any)
	if !ok {
		return nil
	}
	return l[1:]
}

func (testCtx) Rebuild(h pattern.Term, xs []pattern.Term) pattern.Term {
	out := make([]any, 0, len(xs)+1)
	out = append(out, h)
	out = append(out, xs...)
	return out
}

func (testCtx) Substitute(t pattern.Term, subs pattern.Substitution) pattern.Term {
	for k, v := range subs {
		if (testCtx{}).Equal(k, t) {
			return v
		}
	}
	l, ok := t.([]any)
	if !ok {
		return t
	}
	out := make([]any, len(l))
	for i, x := range l {
		out[i] = (testCtx{}).Substitute(x, subs)
	}
	return out
}

func (testCtx) Equal(a, b pattern.Term) bool {
	al, aok := a.([]any)
	bl, bok := b.([]any)
	if aok != bok {
		return false
	}
	if aok {
		if len(al) != len(bl) {
			return false
		}
		for i := range al {
			if !(testCtx{}).Equal(al[i], bl[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// seedPatterns builds the six patterns named in the worked example:
// p1=(add,a,1), p2=(add,(inc,a),(inc,a)), p3=(add,(inc,b),(inc,a)),
// p4=(add,a,a), p5=(sum,(list,c,b,a)), p6=(list,a).
func seedPatterns(ctx pattern.TermContext) []pattern.Pattern {
	a := pattern.Term("a")
	b := pattern.Term("b")
	c := pattern.Term("c")

	p1 := pattern.New(ctx, lst("add", a, 1), []pattern.Term{a})
	p2 := pattern.New(ctx, lst("add", lst("inc", a), lst("inc", a)), []pattern.Term{a})
	p3 := pattern.New(ctx, lst("add", lst("inc", b), lst("inc", a)), []pattern.Term{a, b})
	p4 := pattern.New(ctx, lst("add", a, a), []pattern.Term{a})
	p5 := pattern.New(ctx, lst("sum", lst("list", c, b, a)), []pattern.Term{a, b, c})
	p6 := pattern.New(ctx, lst("list", a), []pattern.Term{a})

	return []pattern.Pattern{p1, p2, p3, p4, p5, p6}
}

func buildSet(t *testing.T, ctx pattern.TermContext) *dynamicset.DynamicPatternSet {
	t.Helper()
	set, err := dynamicset.NewFrom(ctx, seedPatterns(ctx))
	if err != nil {
		t.Fatalf("NewFrom: %v", err)
	}
	return set
}

func substEqual(ctx pattern.TermContext, got, want pattern.Substitution) bool {
	if len(got) != len(want) {
		return false
	}
	for k, v := range want {
		var found bool
		for gk, gv := range got {
			if ctx.Equal(gk, k) && ctx.Equal(gv, v) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestDynamicMatchScenario1(t *testing.T) {
	ctx := testCtx{}
	set := buildSet(t, ctx)

	matches := set.MatchAll(lst("add", 2, 1))
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %+v", len(matches), matches)
	}
	want := pattern.Substitution{pattern.Term("a"): 2}
	if !substEqual(ctx, matches[0].Substitution, want) {
		t.Errorf("substitution = %v, want %v", matches[0].Substitution, want)
	}
}

func TestDynamicMatchScenario2Order(t *testing.T) {
	ctx := testCtx{}
	set := buildSet(t, ctx)

	matches := set.MatchAll(lst("add", 1, 1))
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2: %+v", len(matches), matches)
	}
	// p1=(add,a,1) is more specific at position 2 than p4=(add,a,a); the
	// specific match must be reported first.
	if !ctx.Equal(matches[0].Pattern.Term(), lst("add", "a", 1)) || !substEqual(ctx, matches[0].Substitution, pattern.Substitution{pattern.Term("a"): 1}) {
		t.Errorf("first match = %v %v, want p1 (add a 1) {a:1}", matches[0].Pattern.Term(), matches[0].Substitution)
	}
	if !ctx.Equal(matches[1].Pattern.Term(), lst("add", "a", "a")) || !substEqual(ctx, matches[1].Substitution, pattern.Substitution{pattern.Term("a"): 1}) {
		t.Errorf("second match = %v %v, want p4 (add a a) {a:1}", matches[1].Pattern.Term(), matches[1].Substitution)
	}
}

func TestDynamicMatchScenario3(t *testing.T) {
	ctx := testCtx{}
	set := buildSet(t, ctx)

	term := lst("add", lst("inc", 1), lst("inc", 1))
	matches := set.MatchAll(term)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3: %+v", len(matches), matches)
	}

	wantSubs := []pattern.Substitution{
		{pattern.Term("a"): 1},
		{pattern.Term("a"): 1, pattern.Term("b"): 1},
		{pattern.Term("a"): lst("inc", 1)},
	}
	for i, want := range wantSubs {
		if !substEqual(ctx, matches[i].Substitution, want) {
			t.Errorf("match %d substitution = %v, want %v", i, matches[i].Substitution, want)
		}
	}
}

func TestDynamicMatchScenario4UnhashableHead(t *testing.T) {
	ctx := testCtx{}
	set := buildSet(t, ctx)

	term := lst("add", []int{1}, []int{1})
	matches := set.MatchAll(term)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %+v", len(matches), matches)
	}
	want := pattern.Substitution{pattern.Term("a"): []int{1}}
	if !substEqual(ctx, matches[0].Substitution, want) {
		t.Errorf("substitution = %v, want %v", matches[0].Substitution, want)
	}
}

func TestDynamicMatchScenario5NoMatch(t *testing.T) {
	ctx := testCtx{}
	set := buildSet(t, ctx)

	matches := set.MatchAll(lst("add", 2, 3))
	if len(matches) != 0 {
		t.Fatalf("got %d matches, want 0: %+v", len(matches), matches)
	}
}

func TestDynamicMatchIdempotent(t *testing.T) {
	ctx := testCtx{}
	set := buildSet(t, ctx)
	term := lst("add", lst("inc", 1), lst("inc", 1))

	first := set.MatchAll(term)
	second := set.MatchAll(term)
	if len(first) != len(second) {
		t.Fatalf("match_all is not idempotent: %d vs %d", len(first), len(second))
	}
}

// otherCtx is a second TermContext implementation distinct from testCtx,
// used only to exercise the context-mismatch guard.
type otherCtx struct{ testCtx }

func TestDynamicAddContextMismatch(t *testing.T) {
	set := dynamicset.New(testCtx{})
	p := pattern.New(otherCtx{}, lst("add", "a", 1), []pattern.Term{"a"})
	if err := set.Add(p); err == nil {
		t.Error("expected a context-mismatch error when adding a pattern built against a different context")
	}
}
