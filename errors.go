// errors.go — user-facing error wrapping and caret-snippet rendering.
//
// Turns positioned lexer/parser diagnostics into readable snippets with a
// caret under the offending column:
//
//	PARSE ERROR at 3:12: expected ')', found ';'
//
//	   2 | int x = (1 + 2
//	   3 |            ;
//	     |            ^
//	   4 | print x;
//
// The snippet shows up to one line of context on each side, numbers the
// lines, and places the caret under the 1-based column. Errors without a
// position (*RuntimeFault, anything else) pass through unchanged.
package minilang

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource augments a *LexError or *ParseError with a
// caret-annotated snippet of src. Other errors are returned as-is.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source label (typically the
// file name) included in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", snippet(src, "LEXICAL ERROR", srcName, e.Line, e.Col, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", srcName, e.Line, e.Col, e.Msg))
	default:
		return err
	}
}

// snippet builds the header plus a numbered excerpt with a caret. Coordinates
// are 1-based and clamped to the source bounds so rendering never panics.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
