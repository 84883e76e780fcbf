package loader

// context.go exposes the engine's test context to scripts as the T argument.

import (
	"fmt"
	"sort"

	"github.com/perfgo/pry/engine"
	"go.starlark.net/starlark"
)

// resultAttr is the attribute holding the previous test's return value.
const resultAttr = "result"

var contextMethods = []string{"fail", "fatal", "log", "skip"}

type contextValue struct {
	t *engine.Context
}

var (
	_ starlark.HasAttrs    = (*contextValue)(nil)
	_ starlark.HasSetField = (*contextValue)(nil)
	_ starlark.HasSetKey   = (*contextValue)(nil)
)

// NewContextValue wraps t for use as the argument of script test functions.
func NewContextValue(t *engine.Context) starlark.Value {
	return &contextValue{t: t}
}

func (c *contextValue) String() string        { return "<test context>" }
func (c *contextValue) Type() string          { return "context" }
func (c *contextValue) Freeze()               {}
func (c *contextValue) Truth() starlark.Bool  { return starlark.True }
func (c *contextValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: context") }

func (c *contextValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "skip":
		return c.signalMethod(name, c.t.Skip), nil
	case "fail":
		return c.signalMethod(name, c.t.Fail), nil
	case "fatal":
		return c.signalMethod(name, c.t.Fatal), nil
	case "log":
		return starlark.NewBuiltin(name, c.log), nil
	case resultAttr:
		return toValue(c.t.LastResult()), nil
	}
	return toValue(c.t.Get(name)), nil
}

func (c *contextValue) AttrNames() []string {
	names := append([]string{resultAttr}, contextMethods...)
	names = append(names, c.t.Keys()...)
	sort.Strings(names)
	return names
}

func (c *contextValue) SetField(name string, val starlark.Value) error {
	if isReserved(name) {
		return fmt.Errorf("cannot assign to context attribute %q", name)
	}
	c.t.Set(name, val)
	return nil
}

// Get implements starlark.Mapping. Keys read the same values as
// attributes; unset keys are None, never an error.
func (c *contextValue) Get(k starlark.Value) (starlark.Value, bool, error) {
	key, ok := starlark.AsString(k)
	if !ok {
		return nil, false, fmt.Errorf("context keys must be strings, got %s", k.Type())
	}
	if key == resultAttr {
		return toValue(c.t.LastResult()), true, nil
	}
	return toValue(c.t.Get(key)), true, nil
}

func (c *contextValue) SetKey(k, v starlark.Value) error {
	key, ok := starlark.AsString(k)
	if !ok {
		return fmt.Errorf("context keys must be strings, got %s", k.Type())
	}
	if isReserved(key) {
		return fmt.Errorf("cannot assign to context key %q", key)
	}
	c.t.Set(key, v)
	return nil
}

func (c *contextValue) signalMethod(name string, raise func(msg ...any) error) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var msg starlark.Value = starlark.None
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "msg?", &msg); err != nil {
			return nil, err
		}
		if msg == starlark.None {
			return nil, raise()
		}
		return nil, raise(display(msg))
	})
}

func (c *contextValue) log(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var msg starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "msg", &msg); err != nil {
		return nil, err
	}
	c.t.Log(display(msg))
	return starlark.None, nil
}

func isReserved(name string) bool {
	if name == resultAttr {
		return true
	}
	for _, m := range contextMethods {
		if m == name {
			return true
		}
	}
	return false
}

// display converts v the way str() does: strings unquoted, others in their
// literal form.
func display(v starlark.Value) string {
	if s, ok := starlark.AsString(v); ok {
		return s
	}
	return v.String()
}

func toValue(v any) starlark.Value {
	if sv, ok := v.(starlark.Value); ok && sv != nil {
		return sv
	}
	return starlark.None
}
