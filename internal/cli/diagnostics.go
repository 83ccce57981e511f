package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/tydi-lang/tilc/pkg/ilerrors"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[90m"
)

// isTerminalWriter reports whether w is a terminal this process can safely
// colorize output on, the same *os.File-fd check progress.go uses for its
// dynamic table.
func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// printParseErrors formats the lexer/parser's recovered errors, one per
// line, colorizing the code prefix when w is a terminal.
func printParseErrors(w io.Writer, file string, errs []*ilerrors.Error) {
	color := isTerminalWriter(w)
	for _, e := range errs {
		fmt.Fprintln(w, formatError(file, e, color))
	}
}

// printError formats a single evaluator/structural-validator error.
func printError(w io.Writer, file string, err error) {
	ie, ok := err.(*ilerrors.Error)
	if !ok {
		fmt.Fprintf(w, "%s: %v\n", file, err)
		return
	}
	fmt.Fprintln(w, formatError(file, ie, isTerminalWriter(w)))
}

func formatError(file string, e *ilerrors.Error, color bool) string {
	loc := file
	if e.Span != nil {
		loc = fmt.Sprintf("%s:%d:%d", file, e.Span.StartLine, e.Span.StartCol)
	}
	if !color {
		return fmt.Sprintf("%s: %s", loc, e.Error())
	}
	return fmt.Sprintf("%s%s%s: %s%s%s", colorDim, loc, colorReset, colorRed, e.Error(), colorReset)
}

// warnf prints a non-fatal warning, dimmed when w is a terminal.
func warnf(w io.Writer, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if isTerminalWriter(w) {
		fmt.Fprintf(w, "%swarning:%s %s\n", colorYellow, colorReset, msg)
		return
	}
	fmt.Fprintf(w, "warning: %s\n", msg)
}
