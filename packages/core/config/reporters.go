package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReporterDescriptor names a reporter and the opaque argument it is built with
type ReporterDescriptor struct {
	Name string `json:"name"`
	Arg  any    `json:"arg,omitempty"`
}

// ReporterList is the ordered reporter configuration. It decodes from either a
// single name or a list whose entries are a name, [name] or [name, arg].
type ReporterList []ReporterDescriptor

// Names returns the reporter names in order
func (l ReporterList) Names() []string {
	names := make([]string, len(l))
	for i, d := range l {
		names[i] = d.Name
	}
	return names
}

func (l *ReporterList) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	list, err := NormalizeReporters(v)
	if err != nil {
		return err
	}
	*l = list
	return nil
}

func (l *ReporterList) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	list, err := NormalizeReporters(v)
	if err != nil {
		return err
	}
	*l = list
	return nil
}

// MarshalJSON writes the list form so it round-trips through UnmarshalJSON
func (l ReporterList) MarshalJSON() ([]byte, error) {
	out := make([][]any, len(l))
	for i, d := range l {
		if d.Arg == nil {
			out[i] = []any{d.Name}
		} else {
			out[i] = []any{d.Name, d.Arg}
		}
	}
	return json.Marshal(out)
}

// NormalizeReporters converts a decoded reporter value into descriptors
func NormalizeReporters(v any) (ReporterList, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		name := strings.TrimSpace(val)
		if name == "" {
			return nil, fmt.Errorf("reporter name cannot be empty")
		}
		return ReporterList{{Name: name}}, nil
	case []any:
		list := make(ReporterList, 0, len(val))
		for i, entry := range val {
			d, err := normalizeEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("reporter entry %d: %w", i, err)
			}
			list = append(list, d)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("reporter must be a name or a list, got %T", v)
	}
}

func normalizeEntry(entry any) (ReporterDescriptor, error) {
	switch val := entry.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return ReporterDescriptor{}, fmt.Errorf("reporter name cannot be empty")
		}
		return ReporterDescriptor{Name: strings.TrimSpace(val)}, nil
	case []any:
		if len(val) == 0 || len(val) > 2 {
			return ReporterDescriptor{}, fmt.Errorf("expected [name] or [name, arg], got %d items", len(val))
		}
		name, ok := val[0].(string)
		if !ok || strings.TrimSpace(name) == "" {
			return ReporterDescriptor{}, fmt.Errorf("reporter name must be a non-empty string")
		}
		d := ReporterDescriptor{Name: strings.TrimSpace(name)}
		if len(val) == 2 {
			d.Arg = val[1]
		}
		return d, nil
	default:
		return ReporterDescriptor{}, fmt.Errorf("unsupported reporter entry %T", entry)
	}
}

// ParseReporterFlag parses a comma-separated CLI value such as "dot,json"
func ParseReporterFlag(value string) ReporterList {
	var list ReporterList
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			list = append(list, ReporterDescriptor{Name: name})
		}
	}
	return list
}
