package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MaxQubitsLimit bounds max_qubits; the state vector doubles per qubit.
const MaxQubitsLimit = 26

// Project is the content of bloch.yaml.
type Project struct {
	// Seed fixes the simulator RNG. Omitted means a random seed per run.
	Seed *uint64 `yaml:"seed,omitempty"`

	// WarnUnmeasured enables the unmeasured-qubit sweep after execution.
	WarnUnmeasured bool `yaml:"warn_unmeasured"`

	MaxQubits int    `yaml:"max_qubits"`
	LogLevel  string `yaml:"log_level"`

	Emit    EmitConfig    `yaml:"emit"`
	History HistoryConfig `yaml:"history"`
	Server  ServerConfig  `yaml:"server"`

	// Dir is the directory relative paths are resolved against. Empty for
	// defaults that were not read from a file.
	Dir string `yaml:"-"`
}

type EmitConfig struct {
	// Qasm is a file the QASM trace is written to after a successful run.
	Qasm string `yaml:"qasm,omitempty"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no bloch.yaml exists.
func Default() *Project {
	return &Project{
		WarnUnmeasured: true,
		MaxQubits:      20,
		LogLevel:       "warn",
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(".bloch", "history.db"),
		},
		Server: ServerConfig{Addr: "127.0.0.1:7411"},
	}
}

// Standalone returns the configuration for a run outside any project. It is
// Default with history disabled, so no database appears in the working
// directory.
func Standalone() *Project {
	cfg := Default()
	cfg.History.Enabled = false
	return cfg
}

// Load reads a project file. A missing file yields Standalone.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Standalone(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes bloch.yaml content over the defaults. Unknown keys are
// rejected. The path argument is used only for error messages.
func Parse(data []byte, path string) (*Project, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find searches for a project file starting from dir and walking up to
// parent directories. It returns "" and a nil error when there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Project) validate(path string) error {
	if c.MaxQubits < 1 || c.MaxQubits > MaxQubitsLimit {
		return fmt.Errorf("%s: max_qubits must be between 1 and %d, got %d", path, MaxQubitsLimit, c.MaxQubits)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("%s: history.path is required when history is enabled", path)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%s: server.addr must not be empty", path)
	}
	return nil
}

// Resolve makes p absolute against the project directory. Absolute and
// empty paths are returned unchanged.
func (c *Project) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Level returns the slog level named by log_level.
func (c *Project) Level() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log_level %q", s)
}
