// Package script runs authored tengo command handlers. Timeline command
// clips dispatch through a Runtime so cutscene authors can script what a
// command does to the game without recompiling.
package script

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Engine is the set of host functions exposed to handler scripts.
type Engine map[string]func(args ...any) any

// Scripts define a top-level `handlers` map keyed by command name. Each
// handler receives the engine, a persistent state map, the target name and
// the command point.
const commandDispatchScript = `
h := handlers[__command]
if !is_undefined(h) {
	h(__engine, __state, __target, __x, __y)
	__handled = true
}
`

// Runtime is a compiled handler script plus its persistent state. It is not
// safe for concurrent use; dispatch from the frame loop only.
type Runtime struct {
	compiled *tengo.Compiled
	engine   *tengo.ImmutableMap
	state    *tengo.Map
}

// NewRuntime compiles a handler script against the given engine.
func NewRuntime(src []byte, engine Engine) (*Runtime, error) {
	full := string(src) + "\n" + commandDispatchScript
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__command", "")
	_ = s.Add("__target", "")
	_ = s.Add("__x", 0.0)
	_ = s.Add("__y", 0.0)
	_ = s.Add("__handled", false)
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__state", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile: %w", err)
	}
	return &Runtime{
		compiled: compiled,
		engine:   buildEngine(engine),
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

// Dispatch runs the handler for command, if the script defines one. It
// reports whether a handler ran.
func (r *Runtime) Dispatch(command, target string, x, y float64) (bool, error) {
	if r == nil || r.compiled == nil {
		return false, fmt.Errorf("script: nil runtime")
	}
	command = strings.TrimSpace(command)
	if command == "" {
		return false, nil
	}
	sets := []struct {
		name  string
		value any
	}{
		{"__command", command},
		{"__target", target},
		{"__x", x},
		{"__y", y},
		{"__handled", false},
		{"__engine", r.engine},
		{"__state", r.state},
	}
	for _, kv := range sets {
		if err := r.compiled.Set(kv.name, kv.value); err != nil {
			return false, fmt.Errorf("script: set %s: %w", kv.name, err)
		}
	}
	if err := r.compiled.Run(); err != nil {
		return false, fmt.Errorf("script: dispatch %q: %w", command, err)
	}
	return r.compiled.Get("__handled").Bool(), nil
}

func buildEngine(engine Engine) *tengo.ImmutableMap {
	values := make(map[string]tengo.Object, len(engine))
	for name, fn := range engine {
		call := fn
		values[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			converted := make([]any, 0, len(args))
			for _, a := range args {
				converted = append(converted, objectToAny(a))
			}
			return anyToObject(call(converted...)), nil
		}}
	}
	return &tengo.ImmutableMap{Value: values}
}

func objectToAny(obj tengo.Object) any {
	switch v := obj.(type) {
	case nil:
		return nil
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return v.Value
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}

func anyToObject(v any) tengo.Object {
	switch t := v.(type) {
	case nil:
		return tengo.UndefinedValue
	case bool:
		if t {
			return tengo.TrueValue
		}
		return tengo.FalseValue
	case string:
		return &tengo.String{Value: t}
	case int:
		return &tengo.Int{Value: int64(t)}
	case int64:
		return &tengo.Int{Value: t}
	case float64:
		return &tengo.Float{Value: t}
	case []any:
		arr := make([]tengo.Object, 0, len(t))
		for _, item := range t {
			arr = append(arr, anyToObject(item))
		}
		return &tengo.Array{Value: arr}
	case map[string]any:
		m := make(map[string]tengo.Object, len(t))
		for k, item := range t {
			m[k] = anyToObject(item)
		}
		return &tengo.Map{Value: m}
	default:
		return &tengo.String{Value: fmt.Sprint(t)}
	}
}
