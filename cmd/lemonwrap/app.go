package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/lemonwrap/config"
	"github.com/dhamidi/lemonwrap/grammar"
	"github.com/dhamidi/lemonwrap/mem"
	"github.com/dhamidi/lemonwrap/shim"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("lemonwrap")

// exit is replaced in tests.
var exit = os.Exit

// app holds the state shared by every command: flags, the loaded
// configuration and the parser built from it.
type app struct {
	configPath string
	backend    string
	command    []string
	maxInput   int
	verbosity  int
	logFile    string
	format     string

	cfg    *config.Config
	alloc  mem.Allocator
	parser grammar.Parser
}

func (a *app) bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "configuration file (default ./"+config.DefaultFile+" if present)")
	flags.StringVar(&a.backend, "parser", "", fmt.Sprintf("parser backend %v", grammar.Backends()))
	flags.StringArrayVar(&a.command, "command", nil, "program and arguments for the exec backend (repeatable)")
	flags.IntVar(&a.maxInput, "max-input", 0, "peak bytes held for input and results, counting both stores while the input buffer grows (0 for no limit)")
	flags.CountVarP(&a.verbosity, "verbose", "v", "increase log verbosity")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.StringVarP(&a.format, "format", "f", "text", "output format (text, json)")
}

// setup loads the configuration, applies flag overrides and opens the
// parser.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("parser") {
		cfg.Parser.Backend = a.backend
	}
	if flags.Changed("command") {
		cfg.Parser.Command = a.command
		if !flags.Changed("parser") {
			cfg.Parser.Backend = "exec"
		}
	}
	if flags.Changed("max-input") {
		cfg.Input.MaxBytes = a.maxInput
	}
	if flags.Changed("verbose") {
		cfg.Log.Verbosity = a.verbosity
	}
	if flags.Changed("log-file") {
		cfg.Log.File = a.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.ConfigureLogging()
	log.Debugf("starting with parser backend %q", cfg.Parser.Backend)

	a.cfg = cfg
	a.alloc = cfg.Allocator()
	a.parser, err = grammar.Open(cfg.Grammar(a.alloc))
	if err != nil {
		return fmt.Errorf("open parser: %w", err)
	}
	return nil
}

func (a *app) newShim() *shim.Shim {
	return shim.New(a.parser, shim.WithAllocator(a.alloc))
}

// checkFatal terminates the process when err means memory ran out: there
// is no partial result worth reporting.
func checkFatal(stderr io.Writer, err error) error {
	if errors.Is(err, mem.ErrOutOfMemory) {
		fmt.Fprintf(stderr, "lemonwrap: %v\n", err)
		exit(1)
	}
	return err
}
