package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
)

// Loader locates a reporter constructor for a name that is not built in.
// Implementations return an error wrapping reporter.ErrReporterNotFound when
// they do not know the locator.
type Loader interface {
	Load(ctx context.Context, locator string) (reporter.Constructor, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(ctx context.Context, locator string) (reporter.Constructor, error)

func (f LoaderFunc) Load(ctx context.Context, locator string) (reporter.Constructor, error) {
	return f(ctx, locator)
}

// Registry holds reporter constructors registered in-process
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]reporter.Constructor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		ctors: make(map[string]reporter.Constructor),
	}
}

// Register adds a constructor under name. Built-in names and duplicates are rejected.
func (r *Registry) Register(name string, ctor reporter.Constructor) error {
	if name == "" || ctor == nil {
		return errors.New("reporter name and constructor are required")
	}
	if IsBuiltIn(name) {
		return fmt.Errorf("reporter %q is built in", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ctors[name]; exists {
		return fmt.Errorf("reporter %q already registered", name)
	}
	r.ctors[name] = ctor
	return nil
}

// Names returns the registered names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Load(_ context.Context, locator string) (reporter.Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ctor, ok := r.ctors[locator]
	if !ok {
		return nil, reporter.ErrReporterNotFound
	}
	return ctor, nil
}

// ChainLoader tries each loader in turn. The first success wins; a
// not-found result moves on to the next loader, any other error stops.
type ChainLoader []Loader

func (c ChainLoader) Load(ctx context.Context, locator string) (reporter.Constructor, error) {
	for _, l := range c {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ctor, err := l.Load(ctx, locator)
		if err == nil {
			return ctor, nil
		}
		if !errors.Is(err, reporter.ErrReporterNotFound) {
			return nil, err
		}
	}
	return nil, reporter.ErrReporterNotFound
}
