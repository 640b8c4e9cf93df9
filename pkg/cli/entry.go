// Package cli implements the bloch command.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bloch-lang/bloch/internal/config"
)

const usage = `Usage:
  bloch [run] [flags] <file.bloch>   run a program
  bloch check <file.bloch>...        analyse without running
  bloch fmt [-w] <file.bloch>        print the canonical form of a program
  bloch test <file.md>...            run Markdown test cases
  bloch serve [-addr host:port]      start the gRPC Runner service
  bloch history [-n N] [-id ID]      list recent runs or show one
  bloch help                         show this message
  bloch version                      print the version

Run flags:
  -config path      project file (default: bloch.yaml found from the current directory)
  -seed N           simulator seed
  -emit-qasm path   write the QASM trace after a successful run
  -remote addr      run on a Runner service instead of locally
`

// Run is the entry point used by cmd/bloch.
func Run() {
	os.Exit(Execute(os.Args[1:], os.Stdout, os.Stderr))
}

// Execute runs one bloch command and returns the process exit status.
func Execute(args []string, stdout, stderr io.Writer) (code int) {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(stderr, "Internal error: %v\n", r)
			fmt.Fprintln(stderr, "This is a bug. Please report it.")
			code = 1
		}
	}()

	a := &app{stdout: stdout, stderr: stderr}

	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	switch args[0] {
	case "help", "-help", "--help", "-h":
		fmt.Fprint(stdout, usage)
		return 0
	case "version", "-v", "-version", "--version":
		fmt.Fprintln(stdout, "bloch "+config.Version)
		return 0
	case "run":
		return a.handleRun(args[1:])
	case "check":
		return a.handleCheck(args[1:])
	case "fmt":
		return a.handleFmt(args[1:])
	case "test":
		return a.handleTest(args[1:])
	case "serve":
		return a.handleServe(args[1:])
	case "history":
		return a.handleHistory(args[1:])
	}

	if !strings.HasPrefix(args[0], "-") && !strings.HasSuffix(args[0], config.SourceFileExt) {
		if _, err := os.Stat(args[0]); err != nil {
			fmt.Fprintf(stderr, "Unknown command %q\n\n%s", args[0], usage)
			return 2
		}
	}
	return a.handleRun(args)
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// loadProject reads the project file at path, or the nearest bloch.yaml when
// path is empty, and installs a logger at the configured level.
func (a *app) loadProject(path string) (*config.Project, error) {
	if path == "" {
		found, err := config.Find(".")
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := config.Standalone()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	return cfg, nil
}

func (a *app) fail(format string, args ...any) int {
	fmt.Fprintf(a.stderr, "Error: "+format+"\n", args...)
	return 1
}
