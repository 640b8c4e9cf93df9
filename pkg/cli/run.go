package cli

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bloch-lang/bloch/internal/analyzer"
	"github.com/bloch-lang/bloch/internal/backend"
	"github.com/bloch-lang/bloch/internal/config"
	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/lexer"
	"github.com/bloch-lang/bloch/internal/parser"
	"github.com/bloch-lang/bloch/internal/pipeline"
	"github.com/bloch-lang/bloch/internal/server"
	"github.com/bloch-lang/bloch/internal/store"
)

type runFlags struct {
	config   string
	seed     int64
	emitQasm string
	remote   string
}

func (a *app) handleRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var f runFlags
	fs.StringVar(&f.config, "config", "", "project file")
	fs.Int64Var(&f.seed, "seed", -1, "simulator seed")
	fs.StringVar(&f.emitQasm, "emit-qasm", "", "write the QASM trace to this file")
	fs.StringVar(&f.remote, "remote", "", "Runner service address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(a.stderr, "Usage: bloch run [flags] <file%s>\n", config.SourceFileExt)
		return 2
	}
	path := fs.Arg(0)

	cfg, err := a.loadProject(f.config)
	if err != nil {
		return a.fail("%v", err)
	}
	if f.seed >= 0 {
		seed := uint64(f.seed)
		cfg.Seed = &seed
	}
	qasmPath := cfg.Resolve(cfg.Emit.Qasm)
	if f.emitQasm != "" {
		qasmPath = f.emitQasm
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return a.fail("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if f.remote != "" {
		return a.runRemote(ctx, f.remote, path, string(source), cfg, qasmPath)
	}

	var out bytes.Buffer
	pctx := a.runPipeline(ctx, string(source), path, cfg, io.MultiWriter(a.stdout, &out))
	if pctx.Failed() {
		a.printDiagnostics(pctx)
		return 1
	}

	a.warnUnmeasured(pctx.Unmeasured)
	if qasmPath != "" {
		if err := writeFile(qasmPath, pctx.Qasm); err != nil {
			return a.fail("writing QASM: %v", err)
		}
	}
	if cfg.History.Enabled {
		a.saveHistory(ctx, cfg, store.FromContext(pctx, out.String(), config.Version))
	}
	return 0
}

func (a *app) runPipeline(ctx context.Context, source, path string, cfg *config.Project, out io.Writer) *pipeline.PipelineContext {
	pctx := pipeline.NewPipelineContext(source)
	pctx.FilePath = path
	pctx.Output = out

	exec := backend.NewTreeWalk(backend.Options{
		Seed:           cfg.Seed,
		MaxQubits:      cfg.MaxQubits,
		WarnUnmeasured: cfg.WarnUnmeasured,
		Logger:         a.logger,
		Context:        ctx,
	})
	return pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		backend.NewExecutionProcessor(exec),
	).Run(pctx)
}

func (a *app) runRemote(ctx context.Context, addr, path, source string, cfg *config.Project, qasmPath string) int {
	conn, err := server.Dial(addr)
	if err != nil {
		return a.fail("%v", err)
	}
	defer conn.Close()

	resp, err := server.NewClient(conn).Run(ctx, server.RunRequest{Source: source, File: path, Seed: cfg.Seed})
	if err != nil {
		return a.fail("%v", err)
	}

	fmt.Fprint(a.stdout, resp.Output)
	a.warnUnmeasured(resp.Unmeasured)
	if qasmPath != "" {
		if err := writeFile(qasmPath, resp.Qasm); err != nil {
			return a.fail("writing QASM: %v", err)
		}
	}
	return 0
}

func (a *app) printDiagnostics(pctx *pipeline.PipelineContext) {
	p := diagnostics.NewPrinter(a.stderr)
	for _, err := range pctx.Errors {
		p.Error(err, pctx.SourceCode)
	}
}

func (a *app) warnUnmeasured(names []string) {
	p := diagnostics.NewPrinter(a.stderr)
	for _, name := range names {
		p.Warning(fmt.Sprintf(config.UnmeasuredWarning, name))
	}
}

func (a *app) saveHistory(ctx context.Context, cfg *config.Project, run store.Run) {
	h, err := store.Open(cfg.Resolve(cfg.History.Path))
	if err != nil {
		a.logger.Warn("run history unavailable", "error", err)
		return
	}
	defer h.Close()
	h.Logger = a.logger
	if err := h.SaveRun(ctx, run); err != nil {
		a.logger.Warn("saving run failed", "error", err)
	}
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
