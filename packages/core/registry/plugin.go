package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"plugin"
	"strings"

	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
)

// PluginSymbol is the symbol a reporter plugin must export
const PluginSymbol = "NewReporter"

// PluginLoader opens Go plugins (.so files built with -buildmode=plugin)
type PluginLoader struct {
	// BaseDir resolves relative locators, usually the config root
	BaseDir string
}

func (p PluginLoader) Load(ctx context.Context, locator string) (reporter.Constructor, error) {
	if !strings.HasSuffix(locator, ".so") {
		return nil, reporter.ErrReporterNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := locator
	if !filepath.IsAbs(path) && p.BaseDir != "" {
		path = filepath.Join(p.BaseDir, path)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, reporter.ErrReporterNotFound)
		}
		return nil, err
	}

	plug, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plugin: %w", err)
	}
	sym, err := plug.Lookup(PluginSymbol)
	if err != nil {
		return nil, fmt.Errorf("plugin does not export %s: %w", PluginSymbol, err)
	}
	return constructorFromSymbol(sym)
}

// constructorFromSymbol accepts an exported function or a variable holding one
func constructorFromSymbol(sym any) (reporter.Constructor, error) {
	switch fn := sym.(type) {
	case reporter.Constructor:
		return fn, nil
	case *reporter.Constructor:
		return *fn, nil
	case func(any, reporter.Env) (reporter.Reporter, error):
		return fn, nil
	case *func(any, reporter.Env) (reporter.Reporter, error):
		return *fn, nil
	default:
		return nil, fmt.Errorf("%s has unexpected type %T", PluginSymbol, sym)
	}
}
