package parser_test

import (
	"testing"

	"github.com/bloch-lang/bloch/internal/prettyprinter"
)

var fuzzSeeds = []string{
	"function main() -> void { echo(1); }",
	"int x = 1 + 2 * 3;",
	"if (x > 1) { echo(x); } else echo(0);",
	"for (int i = 0; i < 3; i = i + 1) { echo(i); }",
	"@quantum function flip() -> bit { qubit q; h(q); return measure q; }",
	"class Pair { @members: public int a; @methods: public function get() -> int { return a; } }",
	"qubit a; qubit b; cx(a, b); measure a; reset b;",
	"x = -(1 - !y) % 4;",
	"function f(int a, float b) -> int { return a; } p.q[1] = 2;",
}

// FuzzParser feeds arbitrary text through the lexer and parser. Any error is
// acceptable; a panic or an AST reported alongside errors is not.
func FuzzParser(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		ctx := parse(input)
		if len(ctx.Errors) > 0 && ctx.AstRoot != nil {
			t.Fatalf("AST returned together with errors for %q", input)
		}
		if len(ctx.Errors) == 0 && ctx.AstRoot == nil {
			t.Fatalf("no AST and no errors for %q", input)
		}
	})
}

// FuzzRoundTrip checks that printed programs reparse and that printing is a
// fixed point after the first pass.
func FuzzRoundTrip(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 4096 {
			return
		}
		ctx := parse(input)
		if ctx.Failed() {
			return
		}

		printed := prettyprinter.Print(ctx.AstRoot)
		reparsed := parse(printed)
		if reparsed.Failed() {
			t.Fatalf("printed program does not reparse: %s\ninput: %q\nprinted:\n%s",
				reparsed.Errors[0].Error(), input, printed)
		}
		if again := prettyprinter.Print(reparsed.AstRoot); again != printed {
			t.Fatalf("printing is not stable\nfirst:\n%s\nsecond:\n%s", printed, again)
		}
	})
}
