// Package config loads lemonwrap.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/dhamidi/lemonwrap/grammar"
	"github.com/dhamidi/lemonwrap/mem"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "lemonwrap.yaml"

// EnvFile names the configuration file for the shared library, which has
// no command line.
const EnvFile = "LEMONWRAP_CONFIG"

type Config struct {
	Parser ParserConfig `yaml:"parser"`
	Input  InputConfig  `yaml:"input"`
	Log    LogConfig    `yaml:"log"`
	Serve  ServeConfig  `yaml:"serve"`
}

type ParserConfig struct {
	Backend string   `yaml:"backend"`
	Command []string `yaml:"command"`
}

type InputConfig struct {
	// MaxBytes caps the bytes held at once for input and results. While the
	// input buffer grows, the old and the new store both count. Zero means
	// no cap.
	MaxBytes int `yaml:"max_bytes"`
}

type LogConfig struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

func Default() *Config {
	return &Config{
		Parser: ParserConfig{Backend: grammar.DefaultBackend},
		Serve:  ServeConfig{Addr: "localhost:8080"},
	}
}

// Load reads the file at path. An empty path means DefaultFile, which may
// be absent.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv loads the file named by EnvFile, or DefaultFile.
func LoadEnv() (*Config, error) {
	return Load(os.Getenv(EnvFile))
}

// Parse decodes YAML on top of the defaults. Unknown keys are errors.
// The result is not validated, so command line overrides can still
// complete it; call Validate once they are applied.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate reports settings that cannot be used together.
func (c *Config) Validate() error {
	if c.Input.MaxBytes < 0 {
		return fmt.Errorf("input.max_bytes must not be negative, got %d", c.Input.MaxBytes)
	}
	if c.Parser.Backend == "exec" && len(c.Parser.Command) == 0 {
		return errors.New("parser.command is required for the exec backend")
	}
	return nil
}

// Allocator returns the allocator implied by Input.MaxBytes.
func (c *Config) Allocator() mem.Allocator {
	if c.Input.MaxBytes > 0 {
		return mem.NewLimit(mem.Default, c.Input.MaxBytes)
	}
	return mem.Default
}

func (c *Config) Grammar(alloc mem.Allocator) grammar.Config {
	return grammar.Config{
		Backend: c.Parser.Backend,
		Command: c.Parser.Command,
		Alloc:   alloc,
	}
}

// ConfigureLogging applies the log section to commonlog.
func (c *Config) ConfigureLogging() {
	var path *string
	if c.Log.File != "" {
		path = &c.Log.File
	}
	commonlog.Configure(c.Log.Verbosity, path)
}
