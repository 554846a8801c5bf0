package engine_test

import (
	"testing"

	"github.com/client9/patternmatch/engine"
	"github.com/client9/patternmatch/sexpr"
)

func TestEnginePatternAndDynamicSet(t *testing.T) {
	ctx := sexpr.NewContext()
	eng := engine.New(ctx)

	x := sexpr.Sym("x")
	p := eng.Pattern(sexpr.NewList(sexpr.Sym("add"), x, sexpr.Int(1)), []any{x})

	set := eng.DynamicPatternSet()
	if err := set.Add(p); err != nil {
		t.Fatalf("Add: %v", err)
	}

	term := sexpr.NewList(sexpr.Sym("add"), sexpr.Int(5), sexpr.Int(1))
	match, ok := set.MatchOne(term)
	if !ok {
		t.Fatal("expected a match")
	}
	if got := match.Substitution[x]; got != sexpr.Int(5) {
		t.Errorf("substitution[x] = %v, want 5", got)
	}
}

func TestEnginePatternSetBothStrategies(t *testing.T) {
	ctx := sexpr.NewContext()
	eng := engine.New(ctx)

	term := sexpr.NewList(sexpr.Sym("add"), sexpr.Int(5), sexpr.Int(1))

	dynSet, err := eng.PatternSet(nil, engine.StrategyDynamic)
	if err != nil {
		t.Fatalf("PatternSet(dynamic, nil): %v", err)
	}
	if _, ok := dynSet.MatchOne(term); ok {
		t.Error("an empty pattern set should never match")
	}

	statSet, err := eng.PatternSet(nil, engine.StrategyStatic)
	if err != nil {
		t.Fatalf("PatternSet(static, nil): %v", err)
	}
	if _, ok := statSet.MatchOne(term); ok {
		t.Error("an empty pattern set should never match")
	}
}

func TestEngineContext(t *testing.T) {
	ctx := sexpr.NewContext()
	eng := engine.New(ctx)
	if eng.Context() != ctx {
		t.Error("Context() should return the bound context")
	}
}
