// fixture.go — YAML conformance suites.
//
// A suite is a YAML document describing end-to-end cases: a source program,
// optional stdin lines, and the expected outcome at whichever phase the case
// targets (lexer error, parse error, analyzer diagnostics, or interpreter
// output and fault). Suites drive both the package conformance tests and the
// CLI `test` subcommand, so Run reports plain results instead of talking to
// the testing package directly.
package minilang

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Suite is one conformance file.
type Suite struct {
	Name  string        `yaml:"name"`
	Cases []FixtureCase `yaml:"cases"`
}

// FixtureCase is a single program plus its expected outcome. Exactly one
// failure expectation (LexError, ParseError, Diagnostics, Fault) should be
// set; Output may accompany Fault for lines produced before the fault.
type FixtureCase struct {
	Name        string   `yaml:"name"`
	Source      string   `yaml:"source"`
	Stdin       []string `yaml:"stdin,omitempty"`
	Output      []string `yaml:"output,omitempty"`
	Diagnostics []string `yaml:"diagnostics,omitempty"`
	LexError    string   `yaml:"lex_error,omitempty"`
	ParseError  string   `yaml:"parse_error,omitempty"`
	Fault       string   `yaml:"fault,omitempty"`
}

// CaseResult is the outcome of running one case.
type CaseResult struct {
	Suite   string
	Name    string
	Pass    bool
	Details []string
}

// LoadSuite parses one YAML suite file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading suite %s: %w", path, err)
	}
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing suite %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	return &s, nil
}

// LoadSuites loads every *.yaml file in dir, sorted by name.
func LoadSuites(dir string) ([]*Suite, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	suites := make([]*Suite, 0, len(paths))
	for _, p := range paths {
		s, err := LoadSuite(p)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

// Run executes every case against the full pipeline and reports per-case
// results.
func (s *Suite) Run() []CaseResult {
	results := make([]CaseResult, 0, len(s.Cases))
	for _, c := range s.Cases {
		results = append(results, s.runCase(c))
	}
	return results
}

func (s *Suite) runCase(c FixtureCase) CaseResult {
	r := CaseResult{Suite: s.Name, Name: c.Name, Pass: true}
	failf := func(format string, args ...interface{}) {
		r.Pass = false
		r.Details = append(r.Details, fmt.Sprintf(format, args...))
	}

	tokens, err := NewLexer(c.Source).Scan()
	if c.LexError != "" {
		if err == nil {
			failf("expected lex error %q, lexing succeeded", c.LexError)
		} else if err.Error() != c.LexError {
			failf("lex error mismatch:\n  got:  %s\n  want: %s", err.Error(), c.LexError)
		}
		return r
	}
	if err != nil {
		failf("unexpected lex error: %s", err)
		return r
	}

	prog, err := Parse(tokens)
	if c.ParseError != "" {
		if err == nil {
			failf("expected parse error %q, parsing succeeded", c.ParseError)
		} else if err.Error() != c.ParseError {
			failf("parse error mismatch:\n  got:  %s\n  want: %s", err.Error(), c.ParseError)
		}
		return r
	}
	if err != nil {
		failf("unexpected parse error: %s", err)
		return r
	}

	a := NewAnalyzer()
	ok := a.Analyze(prog)
	if len(c.Diagnostics) > 0 {
		if len(a.Errors) != len(c.Diagnostics) {
			failf("diagnostic count mismatch: got %d %v, want %d %v",
				len(a.Errors), a.Errors, len(c.Diagnostics), c.Diagnostics)
			return r
		}
		for i := range c.Diagnostics {
			if a.Errors[i] != c.Diagnostics[i] {
				failf("diagnostic %d mismatch:\n  got:  %s\n  want: %s", i, a.Errors[i], c.Diagnostics[i])
			}
		}
		return r
	}
	if !ok {
		failf("unexpected diagnostics: %v", a.Errors)
		return r
	}

	ip := NewInterpreter()
	stdin := c.Stdin
	ip.Input = func(prompt string) (string, error) {
		if len(stdin) == 0 {
			return "", fmt.Errorf("no stdin line available")
		}
		line := stdin[0]
		stdin = stdin[1:]
		return line, nil
	}

	output, err := ip.Interpret(prog)
	if c.Fault != "" {
		if err == nil {
			failf("expected fault %q, execution succeeded", c.Fault)
		} else if err.Error() != c.Fault {
			failf("fault mismatch:\n  got:  %s\n  want: %s", err.Error(), c.Fault)
		}
	} else if err != nil {
		failf("unexpected fault: %s", err)
	}

	if len(output) != len(c.Output) {
		failf("output mismatch:\n  got:  %v\n  want: %v", output, c.Output)
		return r
	}
	for i := range c.Output {
		if output[i] != c.Output[i] {
			failf("output line %d mismatch:\n  got:  %s\n  want: %s", i, output[i], c.Output[i])
		}
	}
	return r
}
