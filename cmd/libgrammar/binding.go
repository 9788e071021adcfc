package main

import (
	"errors"
	"sync"

	"github.com/dhamidi/lemonwrap/config"
	"github.com/dhamidi/lemonwrap/grammar"
	"github.com/dhamidi/lemonwrap/shim"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("lemonwrap.libgrammar")

var errNilInput = errors.New("input is NULL")

// binding opens the shim on first use and keeps the outcome. Parse
// results and errors belong to the call that produced them.
type binding struct {
	open func() (*shim.Shim, error)

	once sync.Once
	shim *shim.Shim
	err  error
}

func newBinding(open func() (*shim.Shim, error)) *binding {
	return &binding{open: open}
}

func (b *binding) load() (*shim.Shim, error) {
	b.once.Do(func() {
		b.shim, b.err = b.open()
	})
	return b.shim, b.err
}

// parse runs the shim on input. A nil input stands for a NULL pointer.
func (b *binding) parse(input *string) (string, error) {
	if input == nil {
		return "", errNilInput
	}
	s, err := b.load()
	if err != nil {
		return "", err
	}
	return s.Parse(*input)
}

// openConfigured builds the shim described by LEMONWRAP_CONFIG.
func openConfigured() (*shim.Shim, error) {
	cfg, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ConfigureLogging()
	alloc := cfg.Allocator()
	p, err := grammar.Open(cfg.Grammar(alloc))
	if err != nil {
		return nil, err
	}
	log.Infof("parser backend %q ready", cfg.Parser.Backend)
	return shim.New(p, shim.WithAllocator(alloc)), nil
}
