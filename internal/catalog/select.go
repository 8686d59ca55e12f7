package catalog

import (
	"fmt"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/skybreak/forcepool/pkg/core"
)

// SelectorEnv is the environment a selector expression is evaluated against,
// once per catalog entry. Example: `Price >= 15 && Can("CAS")`.
type SelectorEnv struct {
	Type  string
	Price float64
	Task  string
	Tasks []string
}

// Can reports whether the entry lists task among its capabilities.
func (e SelectorEnv) Can(task string) bool {
	return slices.Contains(e.Tasks, task)
}

// Selector is a compiled unit type predicate.
type Selector struct {
	src     string
	program *vm.Program
}

// CompileSelector compiles a boolean expression over SelectorEnv.
func CompileSelector(src string) (*Selector, error) {
	prog, err := expr.Compile(src, expr.Env(SelectorEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling selector %q: %w", src, err)
	}
	return &Selector{src: src, program: prog}, nil
}

func (s *Selector) String() string {
	return s.src
}

// Match evaluates the selector against e.
func (s *Selector) Match(e Entry) (bool, error) {
	env := SelectorEnv{
		Type:  string(e.Type),
		Price: e.Price,
		Task:  string(e.Task),
		Tasks: make([]string, 0, len(e.Capabilities)),
	}
	for _, task := range e.Capabilities {
		env.Tasks = append(env.Tasks, string(task))
	}

	out, err := vm.Run(s.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating selector %q for %s: %w", s.src, e.Type, err)
	}
	return out.(bool), nil
}

// Select returns the catalog unit types matching src, in ascending order.
func (c *Catalog) Select(src string) ([]core.UnitType, error) {
	sel, err := CompileSelector(src)
	if err != nil {
		return nil, err
	}

	var out []core.UnitType
	for _, e := range c.Entries() {
		ok, err := sel.Match(e)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e.Type)
		}
	}
	return out, nil
}
