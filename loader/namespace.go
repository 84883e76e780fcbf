package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/perfgo/pry/patch"
	"go.starlark.net/starlark"
)

// Namespace is the Starlark value of an executed module. Attribute reads
// consult the module's patch table before its globals, so code that reaches
// a dependency through its namespace (dep.fn()) sees replacements made with
// patch().
type Namespace struct {
	name      string
	path      string
	src       []byte
	globals   starlark.StringDict
	imports   map[string]*Namespace
	overrides *patch.Table
	// reload executes the module again with its overrides bound; only set
	// for required modules
	reload func(*Namespace) error
}

var (
	_ starlark.HasAttrs = (*Namespace)(nil)
	_ patch.Target      = (*Namespace)(nil)
)

func newNamespace(name, path string) *Namespace {
	return &Namespace{
		name:      name,
		path:      path,
		imports:   make(map[string]*Namespace),
		overrides: patch.NewTable(nil),
	}
}

// Name returns the module name.
func (ns *Namespace) Name() string { return ns.name }

// Path returns the file the module was executed from.
func (ns *Namespace) Path() string { return ns.path }

// Globals returns the module globals; nil while the module is executing.
func (ns *Namespace) Globals() starlark.StringDict { return ns.globals }

func (ns *Namespace) String() string        { return fmt.Sprintf("<module %s>", ns.name) }
func (ns *Namespace) Type() string          { return "module" }
func (ns *Namespace) Freeze()               {}
func (ns *Namespace) Truth() starlark.Bool  { return starlark.True }
func (ns *Namespace) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: module") }

// Attr implements starlark.HasAttrs.
func (ns *Namespace) Attr(name string) (starlark.Value, error) {
	v, ok := ns.Lookup(name)
	if !ok {
		return nil, nil
	}
	sv, ok := v.(starlark.Value)
	if !ok {
		return nil, fmt.Errorf("%s.%s is not a script value (%T)", ns.name, name, v)
	}
	return sv, nil
}

// AttrNames implements starlark.HasAttrs.
func (ns *Namespace) AttrNames() []string {
	seen := make(map[string]struct{})
	for _, n := range ns.overrides.Names() {
		seen[n] = struct{}{}
	}
	for n := range ns.globals {
		if strings.HasPrefix(n, shadowPrefix) {
			continue
		}
		seen[n] = struct{}{}
	}
	for n := range ns.imports {
		seen[n] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup implements patch.Target. Replacements win over globals, globals
// win over modules required by name.
func (ns *Namespace) Lookup(name string) (any, bool) {
	if v, ok := ns.overrides.Lookup(name); ok {
		return v, true
	}
	if v, ok := ns.globals[name]; ok {
		return v, true
	}
	if dep, ok := ns.imports[name]; ok {
		return dep, true
	}
	return nil, false
}

// Replace implements patch.Target. Only required modules can be patched.
// The module is executed again with name bound to v, so its own functions
// call the replacement as well. On failure the previous binding stays.
func (ns *Namespace) Replace(name string, v any) error {
	if ns.reload == nil {
		return fmt.Errorf("module %s was not loaded with require() or load()", ns.name)
	}
	if ns.globals == nil {
		return fmt.Errorf("module %s is still executing", ns.name)
	}

	prev, had := ns.overrides.Lookup(name)
	ns.overrides.Register(name, v)
	if err := ns.reload(ns); err != nil {
		if had {
			ns.overrides.Register(name, prev)
		} else {
			ns.overrides.Delete(name)
		}
		return err
	}
	return nil
}

// Patched returns the names replaced in this namespace.
func (ns *Namespace) Patched() []string {
	return ns.overrides.Names()
}
