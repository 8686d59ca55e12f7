package campaign

import (
	"fmt"

	"github.com/skybreak/forcepool/internal/dispatcher"
	"github.com/skybreak/forcepool/pkg/core"
)

// YAML decodes numbers as int or float64 depending on how they are written.

func argFloat(e dispatcher.Event, name string) (float64, error) {
	v, _ := e.Arg(name)
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("%s: %s must be a number, got %T", e.Command, name, v)
	}
}

func argInt(e dispatcher.Event, name string) (int, error) {
	f, err := argFloat(e, name)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%s: %s must be a whole number, got %v", e.Command, name, f)
	}
	return int(f), nil
}

func argString(e dispatcher.Event, name string) (string, error) {
	v, _ := e.Arg(name)
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: %s must be a string, got %T", e.Command, name, v)
	}
	return s, nil
}

func argBool(e dispatcher.Event, name string) bool {
	v, _ := e.Arg(name)
	b, _ := v.(bool)
	return b
}

func argStrings(e dispatcher.Event, name string) ([]string, error) {
	v, _ := e.Arg(name)
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: %s must be a list of strings, got %T", e.Command, name, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: %s must be a list, got %T", e.Command, name, v)
	}
}

// argCounts reads a unit-type to count mapping.
func argCounts(e dispatcher.Event, name string) (core.UnitCounts, error) {
	v, _ := e.Arg(name)
	m, ok := v.(map[string]any)
	if !ok {
		return core.UnitCounts{}, fmt.Errorf("%s: %s must be a mapping of unit type to count, got %T", e.Command, name, v)
	}

	raw := make(map[string]float64, len(m))
	for k, item := range m {
		n, err := argFloat(dispatcher.Event{Command: e.Command, Args: map[string]any{k: item}}, k)
		if err != nil {
			return core.UnitCounts{}, err
		}
		raw[k] = n
	}

	counts, err := core.ParseUnitCounts(raw)
	if err != nil {
		return core.UnitCounts{}, fmt.Errorf("%s: %s: %w", e.Command, name, err)
	}
	return counts, nil
}
