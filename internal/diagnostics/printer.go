package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
)

// Printer renders diagnostics for humans. Colour is only used when the
// destination is a terminal.
type Printer struct {
	w     io.Writer
	color bool
}

func NewPrinter(w io.Writer) *Printer {
	p := &Printer{w: w}
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		p.color = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return p
}

// SetColor forces colour output on or off.
func (p *Printer) SetColor(on bool) { p.color = on }

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

// Error prints a single diagnostic, followed by the source line it points at
// when source is non-empty.
func (p *Printer) Error(err *DiagnosticError, source string) {
	file := err.File
	if file == "" {
		file = "<input>"
	}
	fmt.Fprintf(p.w, "%s %s: %s\n",
		p.paint(ansiBold+ansiRed, "error["+string(err.Code)+"]"),
		p.paint(ansiBold, fmt.Sprintf("%s:%d:%d", file, err.Token.Line, err.Token.Column)),
		err.Message)

	line, ok := sourceLine(source, err.Token.Line)
	if !ok {
		return
	}
	gutter := fmt.Sprintf("%4d | ", err.Token.Line)
	fmt.Fprintf(p.w, "%s%s\n", p.paint(ansiDim, gutter), line)
	col := err.Token.Column
	if col < 1 {
		col = 1
	}
	pad := make([]byte, 0, len(gutter)+col)
	for i := 0; i < len(gutter); i++ {
		pad = append(pad, ' ')
	}
	for i := 1; i < col && i-1 < len(line); i++ {
		if line[i-1] == '\t' {
			pad = append(pad, '\t')
		} else {
			pad = append(pad, ' ')
		}
	}
	fmt.Fprintf(p.w, "%s%s\n", pad, p.paint(ansiRed, "^"))
}

func (p *Printer) Warning(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint(ansiBold+ansiYellow, "Warning:"), msg)
}

func sourceLine(source string, n int) (string, bool) {
	if source == "" || n < 1 {
		return "", false
	}
	cur := 1
	start := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			if cur == n {
				return source[start:i], true
			}
			cur++
			start = i + 1
		}
	}
	if cur == n {
		return source[start:], true
	}
	return "", false
}
