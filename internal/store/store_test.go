package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/bloch-lang/bloch/internal/pipeline"
	"github.com/nalgeon/be"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(id string, at time.Time) Run {
	return Run{
		ID:        id,
		File:      "bell.bloch",
		Seed:      ^uint64(0),
		Version:   "0.1.0",
		CreatedAt: at,
		Output:    "1\n",
		Qasm:      "OPENQASM 2.0;\n",
		Measurements: []pipeline.Measurement{
			{Line: 4, Column: 12, Kind: "measure", Bit: 1},
			{Line: 9, Column: 5, Kind: "call", Bit: 1},
		},
		Qubits: []pipeline.QubitRecord{
			{Index: 0, Name: "a", Measured: true},
			{Index: 1, Name: "b", Measured: false},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	at := time.Unix(1700000000, 123)

	be.Err(t, s.SaveRun(ctx, sampleRun("r1", at)), nil)

	got, err := s.GetRun(ctx, "r1")
	be.Err(t, err, nil)
	be.Equal(t, got.ID, "r1")
	be.Equal(t, got.File, "bell.bloch")
	be.Equal(t, got.Seed, ^uint64(0))
	be.Equal(t, got.Output, "1\n")
	be.Equal(t, got.Qasm, "OPENQASM 2.0;\n")
	be.True(t, got.CreatedAt.Equal(at))
	be.Equal(t, got.Measurements, sampleRun("r1", at).Measurements)
	be.Equal(t, got.Qubits, sampleRun("r1", at).Qubits)
	be.Equal(t, got.Unmeasured(), []string{"b"})
}

func TestGetMissing(t *testing.T) {
	s := openTemp(t)
	_, err := s.GetRun(context.Background(), "nope")
	be.Err(t, err, ErrNotFound)
}

func TestDuplicateIDRollsBack(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	be.Err(t, s.SaveRun(ctx, sampleRun("dup", time.Now())), nil)

	second := sampleRun("dup", time.Now())
	second.Output = "changed"
	be.Err(t, s.SaveRun(ctx, second))

	got, err := s.GetRun(ctx, "dup")
	be.Err(t, err, nil)
	be.Equal(t, got.Output, "1\n")
	be.Equal(t, len(got.Measurements), 2)
}

func TestEmptyIDRejected(t *testing.T) {
	s := openTemp(t)
	be.Err(t, s.SaveRun(context.Background(), Run{}), "empty id")
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Unix(1700000000, 0)
	for i := range 5 {
		be.Err(t, s.SaveRun(ctx, sampleRun(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Minute))), nil)
	}

	runs, err := s.ListRuns(ctx, 3)
	be.Err(t, err, nil)
	be.Equal(t, len(runs), 3)
	be.Equal(t, runs[0].ID, "r4")
	be.Equal(t, runs[1].ID, "r3")
	be.Equal(t, runs[2].ID, "r2")
	be.Equal(t, len(runs[0].Measurements), 0)

	all, err := s.ListRuns(ctx, 0)
	be.Err(t, err, nil)
	be.Equal(t, len(all), 5)
}

func TestRunWithoutTrace(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	be.Err(t, s.SaveRun(ctx, Run{ID: "bare", CreatedAt: time.Now()}), nil)

	got, err := s.GetRun(ctx, "bare")
	be.Err(t, err, nil)
	be.Equal(t, len(got.Measurements), 0)
	be.Equal(t, len(got.Qubits), 0)
	be.Equal(t, len(got.Unmeasured()), 0)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	s, err := Open(path)
	be.Err(t, err, nil)
	be.Err(t, s.SaveRun(context.Background(), sampleRun("keep", time.Now())), nil)
	be.Err(t, s.Close(), nil)

	s, err = Open(path)
	be.Err(t, err, nil)
	defer s.Close()
	runs, err := s.ListRuns(context.Background(), 10)
	be.Err(t, err, nil)
	be.Equal(t, len(runs), 1)
}

func TestFromContext(t *testing.T) {
	pctx := pipeline.NewPipelineContext("src")
	pctx.FilePath = "x.bloch"
	pctx.RunID = "id"
	pctx.Seed = 3
	pctx.Qasm = "q"
	pctx.Qubits = []pipeline.QubitRecord{{Index: 0, Name: "q"}}

	run := FromContext(pctx, "out", "9.9")
	be.Equal(t, run.ID, "id")
	be.Equal(t, run.File, "x.bloch")
	be.Equal(t, run.Seed, uint64(3))
	be.Equal(t, run.Version, "9.9")
	be.Equal(t, run.Output, "out")
	be.Equal(t, run.Unmeasured(), []string{"q"})
}
