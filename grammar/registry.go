package grammar

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dhamidi/lemonwrap/mem"
)

// ErrUnknownBackend is returned by Open for names nobody registered.
var ErrUnknownBackend = errors.New("unknown parser backend")

// DefaultBackend is used when Config.Backend is empty.
const DefaultBackend = "echo"

// Config selects and configures a backend.
type Config struct {
	Backend string
	Command []string
	Alloc   mem.Allocator
}

type Factory func(cfg Config) (Parser, error)

var (
	backendsMu sync.RWMutex
	backends   = map[string]Factory{}
)

func Register(name string, f Factory) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	if _, dup := backends[name]; dup {
		panic("grammar: backend registered twice: " + name)
	}
	backends[name] = f
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Open(cfg Config) (Parser, error) {
	name := cfg.Backend
	if name == "" {
		name = DefaultBackend
	}
	backendsMu.RLock()
	f, ok := backends[name]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownBackend, name, Backends())
	}
	return f(cfg)
}

func init() {
	Register("echo", func(cfg Config) (Parser, error) {
		return Echo{Alloc: cfg.Alloc}, nil
	})
	Register("exec", func(cfg Config) (Parser, error) {
		return NewCommand(cfg.Command, cfg.Alloc)
	})
}
