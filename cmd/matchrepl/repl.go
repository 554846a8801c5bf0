package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/lmorg/readline/v4"
	"golang.org/x/term"

	"github.com/client9/patternmatch/dynamicset"
	"github.com/client9/patternmatch/engine"
	"github.com/client9/patternmatch/pattern"
	"github.com/client9/patternmatch/sexpr"
	"github.com/client9/patternmatch/staticset"
)

// REPL reads s-expression patterns and terms and reports matches. It
// always keeps patterns in a DynamicPatternSet (so "add" is always
// incremental); when run with -kind static, "match" additionally
// compiles a fresh StaticPatternSet from everything added so far and
// matches against that instead, to demo the second strategy.
type REPL struct {
	eng      *engine.Engine
	dynamic  *dynamicset.DynamicPatternSet
	patterns []pattern.Pattern
	kind     engine.Strategy
	input    io.Reader
	output   io.Writer
	prompt   string
}

// NewREPL creates a REPL backed by a fresh sexpr.Context and an empty
// dynamic pattern set.
func NewREPL() *REPL {
	start := time.Now()
	ctx := sexpr.NewContext()
	eng := engine.New(ctx)
	elapsed := time.Since(start)
	log.Printf("Start up in %g ms", 1000.0*float64(elapsed)/1.0e9)

	return &REPL{
		eng:     eng,
		dynamic: eng.DynamicPatternSet(),
		input:   os.Stdin,
		output:  os.Stdout,
		prompt:  "match> ",
	}
}

// NewREPLWithIO creates a REPL instance with custom input/output,
// primarily for tests.
func NewREPLWithIO(input io.Reader, output io.Writer) *REPL {
	ctx := sexpr.NewContext()
	eng := engine.New(ctx)
	return &REPL{
		eng:     eng,
		dynamic: eng.DynamicPatternSet(),
		input:   input,
		output:  output,
		prompt:  "match> ",
	}
}

// SetPrompt sets the REPL prompt.
func (r *REPL) SetPrompt(prompt string) {
	r.prompt = prompt
}

// SetKind selects which strategy "match" compiles against.
func (r *REPL) SetKind(kind engine.Strategy) {
	r.kind = kind
}

func (r *REPL) isInteractive() bool {
	if r.input == os.Stdin {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
	return false
}

// Run starts the REPL loop, choosing an interactive readline-backed
// loop when stdin is a terminal and a plain line scanner otherwise.
func (r *REPL) Run() error {
	if r.isInteractive() {
		return r.RunInteractive()
	}

	scanner := bufio.NewScanner(r.input)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if r.handleSpecialCommands(line) {
			continue
		}
		r.processLine(line)
	}
	return scanner.Err()
}

// RunInteractive drives the loop with github.com/lmorg/readline/v4.
func (r *REPL) RunInteractive() error {
	rl := readline.NewInstance()
	rl.SetPrompt(r.prompt)

	for {
		line, err := rl.Readline()
		if err != nil {
			fmt.Fprintln(r.output, "Error:", err)
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r.handleSpecialCommands(line) {
			continue
		}
		r.processLine(line)
	}
}

func (r *REPL) handleSpecialCommands(line string) bool {
	switch line {
	case "quit", "exit":
		if r.isInteractive() {
			fmt.Fprintln(r.output, "Goodbye!")
		}
		os.Exit(0)
		return true
	case "help":
		r.printHelp()
		return true
	case "clear":
		ctx := sexpr.NewContext()
		r.eng = engine.New(ctx)
		r.dynamic = r.eng.DynamicPatternSet()
		r.patterns = nil
		return true
	default:
		return false
	}
}

// processLine accepts two forms:
//
//	add <pattern> <var...>   adds a pattern to the running dynamic set,
//	                         declaring each subsequent atom as a variable
//	match <term>             reports every pattern in the set that
//	                         matches <term>
func (r *REPL) processLine(line string) {
	fields := strings.SplitN(line, " ", 2)
	if len(fields) != 2 {
		fmt.Fprintf(r.output, "usage: add <pattern> [var...] | match <term>\n")
		return
	}

	switch fields[0] {
	case "add":
		r.handleAdd(fields[1])
	case "match":
		r.handleMatch(fields[1])
	default:
		fmt.Fprintf(r.output, "unknown command %q\n", fields[0])
	}
}

func (r *REPL) handleAdd(rest string) {
	// The pattern is either a parenthesized list (which may contain
	// spaces) ending at the last ')', or a single bare atom; whatever
	// follows it is the list of variable names.
	rest = strings.TrimSpace(rest)
	patSrc, varSrc := rest, ""
	if strings.HasPrefix(rest, "(") {
		if i := strings.LastIndex(rest, ")"); i >= 0 {
			patSrc, varSrc = rest[:i+1], rest[i+1:]
		}
	} else if fs := strings.Fields(rest); len(fs) > 0 {
		patSrc, varSrc = fs[0], strings.Join(fs[1:], " ")
	}
	if patSrc == "" {
		fmt.Fprintf(r.output, "add: missing pattern\n")
		return
	}

	term, err := sexpr.Parse(patSrc)
	if err != nil {
		fmt.Fprintf(r.output, "parse error: %v\n", err)
		return
	}

	names := strings.Fields(varSrc)
	vars := make([]pattern.Term, 0, len(names))
	for _, name := range names {
		vars = append(vars, sexpr.Sym(name))
	}

	p := r.eng.Pattern(term, vars)
	if err := r.dynamic.Add(p); err != nil {
		fmt.Fprintf(r.output, "error: %v\n", err)
		return
	}
	r.patterns = append(r.patterns, p)
	fmt.Fprintf(r.output, "added %s\n", term.String())
}

func (r *REPL) handleMatch(rest string) {
	term, err := sexpr.Parse(strings.TrimSpace(rest))
	if err != nil {
		fmt.Fprintf(r.output, "parse error: %v\n", err)
		return
	}

	var matches []pattern.Match
	if r.kind == engine.StrategyStatic {
		set, err := staticset.Compile(r.eng.Context(), r.patterns)
		if err != nil {
			fmt.Fprintf(r.output, "error: %v\n", err)
			return
		}
		matches = set.MatchAll(term)
	} else {
		matches = r.dynamic.MatchAll(term)
	}

	if len(matches) == 0 {
		fmt.Fprintf(r.output, "no match\n")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(r.output, "%s %s\n", m.Pattern.Term().(sexpr.Term).String(), formatSubstitution(m.Substitution))
	}
}

func formatSubstitution(subs pattern.Substitution) string {
	if len(subs) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(subs))
	for v, t := range subs {
		parts = append(parts, fmt.Sprintf("%s=%s", v.(sexpr.Term).String(), t.(sexpr.Term).String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.output, `
Pattern Match REPL
==================

Commands:
  add <pattern> [var...]   parse <pattern> as an s-expression and add it
                            to the running set; each following name is
                            declared a pattern variable
  match <term>              parse <term> and print every pattern that
                            matches it, with its substitution
  clear                     discard the current pattern set
  help                      show this message
  quit, exit                exit the REPL

Example:
  add (add ?x 1) ?x
  match (add 5 1)
`)
}
