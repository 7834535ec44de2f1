package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// parseArg turns an opaque reporter argument into a queryable JSON document.
// Maps from config files and typed option structs both work.
func parseArg(arg any) (gjson.Result, error) {
	if arg == nil {
		return gjson.Result{}, nil
	}
	data, err := json.Marshal(arg)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("invalid reporter argument: %w", err)
	}
	return gjson.ParseBytes(data), nil
}

// resolvePath makes a relative path absolute against base
func resolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}

// openOutput returns the file at path (creating parent directories) or
// fallback when path is empty. The returned close func is always safe to call.
func openOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("cannot create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create output file: %w", err)
	}
	return f, f.Close, nil
}
