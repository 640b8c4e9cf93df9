package server

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bloch-lang/bloch/internal/pipeline"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

type RunRequest struct {
	Source string
	File   string
	Seed   *uint64
}

type RunResponse struct {
	RunID        string
	Seed         uint64
	Output       string
	Qasm         string
	Measurements []pipeline.Measurement
	Unmeasured   []string
}

// Client calls a remote Runner.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Dial connects to a Runner at addr without transport security.
func Dial(addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return conn, nil
}

// Run sends req and decodes the reply. Errors keep their gRPC status.
func (c *Client) Run(ctx context.Context, req RunRequest, opts ...grpc.CallOption) (*RunResponse, error) {
	fields := map[string]any{"source": req.Source}
	if req.File != "" {
		fields["file"] = req.File
	}
	if req.Seed != nil {
		fields["seed"] = float64(*req.Seed)
	}
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, RunMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return decodeResponse(out)
}

func decodeResponse(s *structpb.Struct) (*RunResponse, error) {
	f := s.GetFields()
	resp := &RunResponse{
		RunID:  f["run_id"].GetStringValue(),
		Output: f["output"].GetStringValue(),
		Qasm:   f["qasm"].GetStringValue(),
	}

	if raw := f["seed"].GetStringValue(); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decoding seed %q: %w", raw, err)
		}
		resp.Seed = seed
	}

	for _, v := range f["measurements"].GetListValue().GetValues() {
		m := v.GetStructValue().GetFields()
		resp.Measurements = append(resp.Measurements, pipeline.Measurement{
			Line:   int(m["line"].GetNumberValue()),
			Column: int(m["column"].GetNumberValue()),
			Kind:   m["kind"].GetStringValue(),
			Bit:    int(m["bit"].GetNumberValue()),
		})
	}
	for _, v := range f["unmeasured"].GetListValue().GetValues() {
		resp.Unmeasured = append(resp.Unmeasured, v.GetStringValue())
	}
	return resp, nil
}
