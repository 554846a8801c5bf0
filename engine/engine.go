// Package engine is a convenience facade: a thin wrapper binding one
// TermContext to pattern and pattern-set construction, in the same
// shape as a small struct wrapping a lower-level matcher.
package engine

import (
	"github.com/client9/patternmatch/dynamicset"
	"github.com/client9/patternmatch/pattern"
	"github.com/client9/patternmatch/staticset"
)

// Strategy selects which match implementation PatternSet compiles.
type Strategy int

const (
	// StrategyStatic compiles a minimal deterministic automaton; use it
	// when the pattern list is fixed up front.
	StrategyStatic Strategy = iota
	// StrategyDynamic builds an incrementally growable discrimination
	// net; use it when patterns are added one at a time.
	StrategyDynamic
)

// PatternSet is the common surface both match strategies expose. The
// two concrete set types each return their own lazy iterator type from
// MatchIter (*dynamicset.MatchIterator and *staticset.MatchIterator are
// not interchangeable), so PatternSet only names the eager accessors
// that really are identical across both; callers who want the lazy
// form use the concrete package directly.
type PatternSet interface {
	MatchAll(term pattern.Term) []pattern.Match
	MatchOne(term pattern.Term) (pattern.Match, bool)
}

// Engine binds a TermContext and hands out ready-to-use Patterns and
// PatternSets.
type Engine struct {
	ctx pattern.TermContext
}

// New creates an Engine bound to ctx.
func New(ctx pattern.TermContext) *Engine {
	return &Engine{ctx: ctx}
}

// Context returns the bound TermContext.
func (e *Engine) Context() pattern.TermContext {
	return e.ctx
}

// Pattern builds a Pattern over term, with vars declared as variables.
func (e *Engine) Pattern(term pattern.Term, vars []pattern.Term) pattern.Pattern {
	return pattern.New(e.ctx, term, vars)
}

// PatternSet compiles patterns into a PatternSet using the requested
// strategy.
func (e *Engine) PatternSet(patterns []pattern.Pattern, kind Strategy) (PatternSet, error) {
	switch kind {
	case StrategyDynamic:
		return dynamicset.NewFrom(e.ctx, patterns)
	default:
		return staticset.Compile(e.ctx, patterns)
	}
}

// DynamicPatternSet builds an empty, incrementally growable
// DynamicPatternSet bound to the engine's context.
func (e *Engine) DynamicPatternSet() *dynamicset.DynamicPatternSet {
	return dynamicset.New(e.ctx)
}
