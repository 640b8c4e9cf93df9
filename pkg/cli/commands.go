package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bloch-lang/bloch/internal/analyzer"
	"github.com/bloch-lang/bloch/internal/config"
	"github.com/bloch-lang/bloch/internal/doctest"
	"github.com/bloch-lang/bloch/internal/lexer"
	"github.com/bloch-lang/bloch/internal/parser"
	"github.com/bloch-lang/bloch/internal/pipeline"
	"github.com/bloch-lang/bloch/internal/prettyprinter"
	"github.com/bloch-lang/bloch/internal/server"
	"github.com/bloch-lang/bloch/internal/store"
)

func (a *app) handleCheck(args []string) int {
	if len(args) == 0 {
		fmt.Fprintf(a.stderr, "Usage: bloch check <file%s>...\n", config.SourceFileExt)
		return 2
	}

	status := 0
	for _, path := range args {
		source, err := os.ReadFile(path)
		if err != nil {
			status = a.fail("%v", err)
			continue
		}

		pctx := pipeline.NewPipelineContext(string(source))
		pctx.FilePath = path
		pctx = pipeline.New(
			&lexer.LexerProcessor{},
			&parser.ParserProcessor{},
			&analyzer.SemanticAnalyzerProcessor{},
		).Run(pctx)

		if pctx.Failed() {
			a.printDiagnostics(pctx)
			status = 1
			continue
		}
		fmt.Fprintf(a.stdout, "ok  %s\n", path)
	}
	return status
}

func (a *app) handleFmt(args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	write := fs.Bool("w", false, "rewrite the file instead of printing it")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(a.stderr, "Usage: bloch fmt [-w] <file%s>\n", config.SourceFileExt)
		return 2
	}
	path := fs.Arg(0)

	source, err := os.ReadFile(path)
	if err != nil {
		return a.fail("%v", err)
	}

	pctx := pipeline.NewPipelineContext(string(source))
	pctx.FilePath = path
	pctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(pctx)
	if pctx.Failed() {
		a.printDiagnostics(pctx)
		return 1
	}

	formatted := prettyprinter.Print(pctx.AstRoot)
	if !*write {
		fmt.Fprint(a.stdout, formatted)
		return 0
	}
	if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
		return a.fail("%v", err)
	}
	return 0
}

// handleTest runs the Markdown test cases found in the given files and
// directories.
func (a *app) handleTest(args []string) int {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	seed := fs.Uint64("seed", 1, "simulator seed for every case")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(a.stderr, "Usage: bloch test [-seed N] <file.md|dir>...")
		return 2
	}

	var files []string
	for _, arg := range fs.Args() {
		info, err := os.Stat(arg)
		if err != nil {
			return a.fail("%v", err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.md"))
		if err != nil {
			return a.fail("%v", err)
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		fmt.Fprintln(a.stdout, "No test files found")
		return 0
	}

	passed, failed := 0, 0
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return a.fail("%v", err)
		}
		cases, err := doctest.Extract(string(content))
		if err != nil {
			return a.fail("%s: %v", file, err)
		}

		fmt.Fprintf(a.stdout, "\n=== %s ===\n", file)
		for _, c := range cases {
			if err := c.Check(c.Run(*seed)); err != nil {
				failed++
				fmt.Fprintf(a.stdout, "FAIL %s (line %d)\n", c.Name, c.Line)
				for _, line := range strings.Split(err.Error(), "\n") {
					fmt.Fprintf(a.stdout, "     %s\n", line)
				}
				continue
			}
			passed++
			fmt.Fprintf(a.stdout, "PASS %s\n", c.Name)
		}
	}

	fmt.Fprintf(a.stdout, "\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func (a *app) handleServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	configPath := fs.String("config", "", "project file")
	addr := fs.String("addr", "", "listen address (default: server.addr from the project file)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := a.loadProject(*configPath)
	if err != nil {
		return a.fail("%v", err)
	}
	if *addr == "" {
		*addr = cfg.Server.Addr
	}

	runner := &server.Runner{
		MaxQubits:      cfg.MaxQubits,
		WarnUnmeasured: cfg.WarnUnmeasured,
		Logger:         a.logger,
	}
	if cfg.History.Enabled {
		h, err := store.Open(cfg.Resolve(cfg.History.Path))
		if err != nil {
			return a.fail("%v", err)
		}
		defer h.Close()
		h.Logger = a.logger
		runner.History = h
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(a.stdout, "Runner listening on %s\n", *addr)
	if err := server.Serve(ctx, *addr, runner); err != nil {
		return a.fail("%v", err)
	}
	return 0
}

func (a *app) handleHistory(args []string) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	configPath := fs.String("config", "", "project file")
	limit := fs.Int("n", 20, "number of runs to list")
	id := fs.String("id", "", "show a single run")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := a.loadProject(*configPath)
	if err != nil {
		return a.fail("%v", err)
	}

	path := cfg.Resolve(cfg.History.Path)
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(a.stdout, "No runs recorded")
		return 0
	}
	h, err := store.Open(path)
	if err != nil {
		return a.fail("%v", err)
	}
	defer h.Close()

	ctx := context.Background()
	if *id != "" {
		run, err := h.GetRun(ctx, *id)
		if err != nil {
			return a.fail("%v", err)
		}
		a.printRun(run)
		return 0
	}

	runs, err := h.ListRuns(ctx, *limit)
	if err != nil {
		return a.fail("%v", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.stdout, "No runs recorded")
		return 0
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tFILE\tSEED")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", run.ID, run.CreatedAt.Format(time.DateTime), run.File, run.Seed)
	}
	tw.Flush()
	return 0
}

func (a *app) printRun(run *store.Run) {
	fmt.Fprintf(a.stdout, "Run:      %s\n", run.ID)
	fmt.Fprintf(a.stdout, "File:     %s\n", run.File)
	fmt.Fprintf(a.stdout, "Created:  %s\n", run.CreatedAt.Format(time.DateTime))
	fmt.Fprintf(a.stdout, "Seed:     %d\n", run.Seed)
	fmt.Fprintf(a.stdout, "Version:  %s\n", run.Version)

	if len(run.Measurements) > 0 {
		fmt.Fprintln(a.stdout, "Measurements:")
		for _, m := range run.Measurements {
			fmt.Fprintf(a.stdout, "  %d:%d  %-7s  %d\n", m.Line, m.Column, m.Kind, m.Bit)
		}
	}
	if len(run.Qubits) > 0 {
		fmt.Fprintln(a.stdout, "Qubits:")
		for _, q := range run.Qubits {
			state := "unmeasured"
			if q.Measured {
				state = "measured"
			}
			fmt.Fprintf(a.stdout, "  q[%d]  %s  %s\n", q.Index, q.Name, state)
		}
	}
	if run.Output != "" {
		fmt.Fprintln(a.stdout, "Output:")
		fmt.Fprint(a.stdout, run.Output)
	}
}
