package server

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"strconv"

	"github.com/bloch-lang/bloch/internal/analyzer"
	"github.com/bloch-lang/bloch/internal/backend"
	"github.com/bloch-lang/bloch/internal/config"
	"github.com/bloch-lang/bloch/internal/lexer"
	"github.com/bloch-lang/bloch/internal/parser"
	"github.com/bloch-lang/bloch/internal/pipeline"
	"github.com/bloch-lang/bloch/internal/store"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Runner executes one program per request. Requests share nothing: each
// gets its own pipeline, simulator and evaluator.
type Runner struct {
	MaxQubits      int
	WarnUnmeasured bool

	// History, when set, receives every successful run.
	History *store.Store

	Logger *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Run implements RunnerServer. Request fields: source (required), seed and
// file. Compile errors map to InvalidArgument and runtime errors to Aborted.
func (r *Runner) Run(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	source := fields["source"].GetStringValue()
	if source == "" {
		return nil, status.Error(codes.InvalidArgument, "source is required")
	}

	file := fields["file"].GetStringValue()
	if file == "" {
		file = "<rpc>"
	}

	opts := backend.Options{
		MaxQubits:      r.MaxQubits,
		WarnUnmeasured: r.WarnUnmeasured,
		Logger:         r.logger(),
		Context:        ctx,
	}
	if v, ok := fields["seed"]; ok {
		seed, err := seedValue(v)
		if err != nil {
			return nil, err
		}
		opts.Seed = &seed
	}

	r.logger().Info("run request", "file", file, "bytes", len(source))

	var out bytes.Buffer
	pctx := pipeline.NewPipelineContext(source)
	pctx.FilePath = file
	pctx.Output = &out
	pctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		backend.NewExecutionProcessor(backend.NewTreeWalk(opts)),
	).Run(pctx)

	if pctx.Failed() {
		diag := pctx.Errors[0]
		code := codes.InvalidArgument
		if diag.Code.Stage() == "runtime" {
			code = codes.Aborted
		}
		r.logger().Info("run rejected", "file", file, "code", diag.Code)
		return nil, status.Error(code, diag.Error())
	}

	if r.History != nil {
		if err := r.History.SaveRun(ctx, store.FromContext(pctx, out.String(), config.Version)); err != nil {
			r.logger().Error("saving run failed", "id", pctx.RunID, "error", err)
		}
	}

	resp, err := responseStruct(pctx, out.String())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return resp, nil
}

func seedValue(v *structpb.Value) (uint64, error) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue < 0 || n.NumberValue != math.Trunc(n.NumberValue) || n.NumberValue > 1<<53 {
		return 0, status.Error(codes.InvalidArgument, "seed must be a non-negative integer")
	}
	return uint64(n.NumberValue), nil
}

func responseStruct(pctx *pipeline.PipelineContext, output string) (*structpb.Struct, error) {
	measurements := make([]any, len(pctx.Measurements))
	for i, m := range pctx.Measurements {
		measurements[i] = map[string]any{
			"line":   m.Line,
			"column": m.Column,
			"kind":   m.Kind,
			"bit":    m.Bit,
		}
	}
	unmeasured := make([]any, len(pctx.Unmeasured))
	for i, name := range pctx.Unmeasured {
		unmeasured[i] = name
	}

	return structpb.NewStruct(map[string]any{
		"run_id":       pctx.RunID,
		"seed":         strconv.FormatUint(pctx.Seed, 10),
		"output":       output,
		"qasm":         pctx.Qasm,
		"measurements": measurements,
		"unmeasured":   unmeasured,
	})
}
