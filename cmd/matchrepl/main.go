// Command matchrepl is an interactive demo of the pattern-matching
// engine over the sample sexpr term representation: a flag-parsed
// entry point handing off to a REPL type that does the actual reading
// and printing.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/client9/patternmatch/engine"
)

func main() {
	var (
		prompt = flag.String("prompt", "match> ", "REPL prompt string")
		kind   = flag.String("kind", "dynamic", "match strategy: dynamic or static")
		help   = flag.Bool("help", false, "show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	strategy := engine.StrategyDynamic
	switch *kind {
	case "dynamic":
		strategy = engine.StrategyDynamic
	case "static":
		strategy = engine.StrategyStatic
	default:
		fmt.Fprintf(os.Stderr, "unknown -kind %q (want dynamic or static)\n", *kind)
		os.Exit(1)
	}

	repl := NewREPL()
	repl.SetPrompt(*prompt)
	repl.SetKind(strategy)

	if err := repl.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "repl error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println(`matchrepl - interactive pattern matching demo

Usage:
  matchrepl [flags]

Flags:
  -prompt string   set the REPL prompt (default "match> ")
  -kind string     match strategy: dynamic or static (default "dynamic")
  -help            show this help message

Commands once running:
  add <pattern> [var...]   add a pattern to the running set
  match <term>              print every pattern matching <term>
  clear                     discard the current pattern set
  help                      show in-REPL help
  quit, exit                exit`)
}
