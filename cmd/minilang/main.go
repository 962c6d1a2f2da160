package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	minilang "github.com/Jhosa-codes/Compiladores"
)

const (
	appName     = "minilang"
	historyFile = ".minilang_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("Mini-Lang %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", minilang.Version)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "tokens":
		os.Exit(cmdTokens(os.Args[2:]))
	case "ast":
		os.Exit(cmdAst(os.Args[2:]))
	case "symbols":
		os.Exit(cmdSymbols(os.Args[2:]))
	case "gen":
		os.Exit(cmdGen(os.Args[2:]))
	case "test":
		os.Exit(cmdTest(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(minilang.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Mini-Lang %s

Usage:
  %s run <file.min> [--strict]        Run a program (lex, parse, analyze, execute)
  %s tokens <file.min>                Print the token stream
  %s ast <file.min>                   Print the syntax tree
  %s symbols <file.min>               Print the symbol table and diagnostics
  %s gen <file.min> [-o out.py]       Generate a Python translation
  %s test [dir]                       Run fixture suites (default ./testdata)
  %s repl                             Start the REPL
  %s version                          Print the version

`, minilang.Version, appName, appName, appName, appName, appName, appName, appName, appName)
}

// loadProgram reads a file and runs the lexer and parser, printing any
// positioned error with its caret snippet. It returns the source alongside
// the tree for later phases.
func loadProgram(file string) (string, *minilang.Program, bool) {
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return "", nil, false
	}

	tokens, lerr := minilang.NewLexer(string(src)).Scan()
	if lerr != nil {
		fmt.Fprintln(os.Stderr, red(minilang.WrapErrorWithName(lerr, file, string(src)).Error()))
		return "", nil, false
	}
	prog, perr := minilang.Parse(tokens)
	if perr != nil {
		fmt.Fprintln(os.Stderr, red(minilang.WrapErrorWithName(perr, file, string(src)).Error()))
		return "", nil, false
	}
	return string(src), prog, true
}

// analyze reports diagnostics to stderr and returns whether the program is
// clean.
func analyze(prog *minilang.Program) (*minilang.Analyzer, bool) {
	a := minilang.NewAnalyzer()
	ok := a.Analyze(prog)
	for _, msg := range a.Errors {
		fmt.Fprintln(os.Stderr, red("SEMANTIC ERROR: "+msg))
	}
	return a, ok
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	strict := fs.Bool("strict", false, "refuse to execute when the analyzer reports diagnostics")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.min> [--strict]\n", appName)
		return 2
	}

	_, prog, ok := loadProgram(fs.Arg(0))
	if !ok {
		return 1
	}
	if _, clean := analyze(prog); !clean && *strict {
		return 1
	}

	ip := minilang.NewInterpreter()
	stdin := bufio.NewReader(os.Stdin)
	ip.Input = func(prompt string) (string, error) {
		if prompt != "" {
			fmt.Print(prompt)
		}
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	output, err := ip.Interpret(prog)
	for _, line := range output {
		fmt.Println(line)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// tokens / ast / symbols
// -----------------------------------------------------------------------------

func cmdTokens(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s tokens <file.min>\n", appName)
		return 2
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, args[0], err)
		return 1
	}
	tokens, lerr := minilang.NewLexer(string(src)).Scan()
	if lerr != nil {
		fmt.Fprintln(os.Stderr, red(minilang.WrapErrorWithName(lerr, args[0], string(src)).Error()))
		return 1
	}
	for _, t := range tokens {
		fmt.Printf("%4d:%-4d %-12s %s\n", t.Line, t.Col, t.Type, t.Lexeme)
	}
	return 0
}

func cmdAst(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s ast <file.min>\n", appName)
		return 2
	}
	_, prog, ok := loadProgram(args[0])
	if !ok {
		return 1
	}
	fmt.Println(minilang.PrintTree(prog))
	return 0
}

func cmdSymbols(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s symbols <file.min>\n", appName)
		return 2
	}
	_, prog, ok := loadProgram(args[0])
	if !ok {
		return 1
	}
	a, clean := analyze(prog)
	fmt.Print(a.Global.String())
	if !clean {
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// gen
// -----------------------------------------------------------------------------

func cmdGen(args []string) int {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	out := fs.String("o", "", "output file (default stdout)")
	strict := fs.Bool("strict", false, "refuse to generate when the analyzer reports diagnostics")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s gen <file.min> [-o out.py]\n", appName)
		return 2
	}

	_, prog, ok := loadProgram(fs.Arg(0))
	if !ok {
		return 1
	}
	if _, clean := analyze(prog); !clean && *strict {
		return 1
	}

	code := minilang.GenerateCode(prog)
	if *out == "" {
		fmt.Print(code)
		return 0
	}
	if err := os.WriteFile(*out, []byte(code), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot write %s: %v\n", appName, *out, err)
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// test
// -----------------------------------------------------------------------------

func cmdTest(args []string) int {
	dir := "testdata"
	if len(args) > 0 {
		dir = args[0]
	}

	suites, err := minilang.LoadSuites(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	if len(suites) == 0 {
		fmt.Fprintf(os.Stderr, "%s: no suites found under %s\n", appName, dir)
		return 1
	}

	passed, failed := 0, 0
	for _, s := range suites {
		for _, r := range s.Run() {
			if r.Pass {
				passed++
				fmt.Printf("%s %s/%s\n", green("ok"), r.Suite, r.Name)
				continue
			}
			failed++
			fmt.Printf("%s %s/%s\n", red("FAIL"), r.Suite, r.Name)
			for _, d := range r.Details {
				fmt.Printf("     %s\n", d)
			}
		}
	}

	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := minilang.NewInterpreter()
	ip.Input = func(prompt string) (string, error) {
		line, err := ln.Prompt(prompt)
		if err != nil {
			return "", err
		}
		return line, nil
	}

	for {
		code, ok := readByParseProbe(ln)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		tokens, lerr := minilang.NewLexer(code).Scan()
		if lerr != nil {
			fmt.Fprintln(os.Stderr, red(minilang.WrapErrorWithSource(lerr, code).Error()))
			continue
		}
		prog, perr := minilang.Parse(tokens)
		if perr != nil {
			fmt.Fprintln(os.Stderr, red(minilang.WrapErrorWithSource(perr, code).Error()))
			continue
		}

		output, err := ip.Interpret(prog)
		for _, line := range output {
			fmt.Println(blue(line))
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByParseProbe accumulates lines until the input parses, or fails with an
// error that is not a premature end of input. A parse error at the final
// token means the statement is still open, so a continuation prompt is shown.
func readByParseProbe(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(promptMain)
		} else {
			line, err = ln.Prompt(promptCont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		tokens, lerr := minilang.NewLexer(src).Scan()
		if lerr != nil {
			return src, true
		}
		_, perr := minilang.Parse(tokens)
		if perr == nil || !isIncomplete(perr) {
			return src, true
		}
	}
}

// isIncomplete heuristically detects a parse error caused by running out of
// tokens rather than by malformed input.
func isIncomplete(err error) bool {
	pe, ok := err.(*minilang.ParseError)
	if !ok {
		return false
	}
	return strings.Contains(pe.Msg, "found EOF")
}
