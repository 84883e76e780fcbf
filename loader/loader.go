package loader

// loader.go executes Starlark test scripts and the modules they depend on.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/perfgo/pry/engine"
	"github.com/perfgo/pry/patch"
	"github.com/perfgo/pry/scanner"
	"github.com/rs/zerolog"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

// SkipFlag is the global a module defines to opt out of testing.
const SkipFlag = "__skiptest__"

var errCycle = errors.New("cycle in load graph")

// Loader resolves module identifiers against a search path and executes
// them. Dependencies reached with load() or require() are executed once per
// Loader and shared between the test modules that use them.
type Loader struct {
	logger     zerolog.Logger
	searchPath []string
	stdout     io.Writer
	cache      map[string]*cacheEntry
}

type cacheEntry struct {
	ns  *Namespace
	err error
}

// New creates a loader resolving modules in searchPath, in order.
func New(logger zerolog.Logger, searchPath ...string) *Loader {
	l := &Loader{
		logger: logger,
		stdout: os.Stdout,
		cache:  make(map[string]*cacheEntry),
	}
	for _, dir := range searchPath {
		l.AddPath(dir)
	}
	return l
}

// AddPath appends dir to the search path unless it is already present.
func (l *Loader) AddPath(dir string) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	for _, existing := range l.searchPath {
		if existing == dir {
			return
		}
	}
	l.searchPath = append(l.searchPath, dir)
	l.logger.Debug().Str("dir", dir).Msg("Added search path")
}

// SearchPath returns the directories modules are resolved in.
func (l *Loader) SearchPath() []string {
	return append([]string(nil), l.searchPath...)
}

// SetOutput sets where print() output of scripts goes.
func (l *Loader) SetOutput(w io.Writer) {
	l.stdout = w
}

// Load executes the module identified by id and returns it. id is either a
// path to a script, used as is when the file exists, or a module name
// resolved against the search path.
// Test modules are executed on every call; they are never cached.
func (l *Loader) Load(id string) (*Module, error) {
	name := scanner.ModuleName(id)
	path, err := existingFile(id)
	if err != nil {
		path, err = l.resolve(id, "")
	}
	if err != nil {
		return nil, &LoadError{Module: name, Err: err}
	}

	thread := l.newThread(name)
	ns := newNamespace(name, path)
	l.logger.Debug().Str("module", name).Str("path", path).Msg("Loading module")
	if err := l.exec(thread, ns); err != nil {
		return nil, &LoadError{Module: name, Path: path, Err: err}
	}
	return &Module{ns: ns, thread: thread}, nil
}

// resolve finds the script for id. Relative names are looked up next to
// the loading script first (dir), then along the search path.
func (l *Loader) resolve(id, dir string) (string, error) {
	file := id
	if !strings.HasSuffix(file, scanner.Extension) {
		file += scanner.Extension
	}

	if filepath.IsAbs(file) {
		if _, err := os.Stat(file); err != nil {
			return "", err
		}
		return file, nil
	}

	candidates := make([]string, 0, len(l.searchPath)+2)
	if dir != "" {
		candidates = append(candidates, filepath.Join(dir, file))
	}
	if strings.ContainsRune(file, filepath.Separator) {
		candidates = append(candidates, file)
	}
	for _, p := range l.searchPath {
		candidates = append(candidates, filepath.Join(p, file))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			if abs, err := filepath.Abs(c); err == nil {
				return abs, nil
			}
			return c, nil
		}
	}
	return "", fmt.Errorf("module %q not found in search path [%s]", id, strings.Join(l.searchPath, ", "))
}

// existingFile returns the absolute path of id if it names a regular file.
func existingFile(id string) (string, error) {
	info, err := os.Stat(id)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", id)
	}
	return filepath.Abs(id)
}

func (l *Loader) newThread(name string) *starlark.Thread {
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(l.stdout, msg)
		},
	}
	thread.Load = l.loadGlobals
	return thread
}

// exec runs the script of ns with the builtins bound to ns. Names in the
// patch table of ns are compiled as predeclared values in place of the
// module's own bindings, so the module's functions call the replacements.
func (l *Loader) exec(thread *starlark.Thread, ns *Namespace) error {
	if ns.src == nil {
		src, err := os.ReadFile(ns.path)
		if err != nil {
			return fmt.Errorf("failed to read module: %w", err)
		}
		ns.src = src
	}
	f, err := syntax.Parse(ns.path, ns.src, 0)
	if err != nil {
		return err
	}

	predeclared := starlark.StringDict{
		"struct":  starlark.NewBuiltin("struct", starlarkstruct.Make),
		"require": l.requireBuiltin(ns),
		"patch":   l.patchBuiltin(ns),
	}
	patched := ns.overrides.Names()
	for _, name := range patched {
		v, _ := ns.overrides.Lookup(name)
		sv, ok := v.(starlark.Value)
		if !ok {
			return fmt.Errorf("replacement for %s is not a script value (%T)", name, v)
		}
		predeclared[name] = sv
		unbind(f.Stmts, name)
	}

	prog, err := starlark.FileProgram(f, predeclared.Has)
	if err != nil {
		return err
	}
	globals, err := prog.Init(thread, predeclared)
	globals.Freeze()
	if err != nil {
		return err
	}
	for _, name := range patched {
		if _, ok := globals[name]; ok {
			return fmt.Errorf("%s is still bound by module %s", name, ns.name)
		}
	}
	ns.globals = globals
	return nil
}

// reload executes a required module again after its patch table changed.
func (l *Loader) reload(ns *Namespace) error {
	l.logger.Debug().Str("module", ns.name).Strs("patched", ns.Patched()).Msg("Reloading patched module")
	return l.exec(l.newThread(ns.name), ns)
}

// dependency executes the module at id once and caches the result.
func (l *Loader) dependency(thread *starlark.Thread, id string) (*Namespace, error) {
	path, err := l.resolve(id, callerDir(thread))
	if err != nil {
		return nil, err
	}

	e, ok := l.cache[path]
	if ok {
		if e == nil {
			return nil, fmt.Errorf("%w: %s", errCycle, id)
		}
		return e.ns, e.err
	}

	// mark as in progress
	l.cache[path] = nil
	name := scanner.ModuleName(path)
	ns := newNamespace(name, path)
	l.logger.Debug().Str("module", name).Str("path", path).Msg("Loading dependency")
	err = l.exec(l.newThread(name), ns)
	if err != nil {
		ns = nil
	} else {
		ns.reload = l.reload
	}
	l.cache[path] = &cacheEntry{ns: ns, err: err}
	return ns, err
}

// loadGlobals implements load() statements.
func (l *Loader) loadGlobals(thread *starlark.Thread, id string) (starlark.StringDict, error) {
	ns, err := l.dependency(thread, id)
	if err != nil {
		return nil, err
	}
	return ns.globals, nil
}

// requireBuiltin returns require(path): it returns the namespace of another
// module and makes it reachable from ns under the module's name.
func (l *Loader) requireBuiltin(ns *Namespace) *starlark.Builtin {
	return starlark.NewBuiltin("require", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var id string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &id); err != nil {
			return nil, err
		}
		dep, err := l.dependency(thread, id)
		if err != nil {
			return nil, err
		}
		ns.imports[dep.name] = dep
		return dep, nil
	})
}

// patchBuiltin returns patch(path). The result takes a replacement function,
// installs it at path relative to the calling script and returns the
// function unchanged:
//
//	patch("store.fetch")(fake_fetch)
func (l *Loader) patchBuiltin(ns *Namespace) *starlark.Builtin {
	return starlark.NewBuiltin("patch", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var path string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &path); err != nil {
			return nil, err
		}
		name := fmt.Sprintf("patch(%q)", path)
		return starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var fn starlark.Value
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &fn); err != nil {
				return nil, err
			}
			if _, ok := fn.(starlark.Callable); !ok {
				return nil, fmt.Errorf("%s: replacement must be callable, got %s", b.Name(), fn.Type())
			}
			if err := patch.Apply(callerRoot(thread, ns), path, fn); err != nil {
				return nil, err
			}
			l.logger.Debug().Str("module", ns.name).Str("path", path).Str("replacement", fn.String()).Msg("Patched dependency")
			return fn, nil
		}), nil
	})
}

// scriptRoot is the root of patch paths: the globals of the calling script
// as they are at the time of the call, then the namespace of its module.
// While a module executes its namespace has no globals yet.
type scriptRoot struct {
	ns      *Namespace
	globals starlark.StringDict
}

func callerRoot(thread *starlark.Thread, ns *Namespace) *scriptRoot {
	root := &scriptRoot{ns: ns}
	if thread.CallStackDepth() > 1 {
		if fn, ok := thread.DebugFrame(1).Callable().(*starlark.Function); ok {
			root.globals = fn.Globals()
		}
	}
	return root
}

func (r *scriptRoot) Lookup(name string) (any, bool) {
	if v, ok := r.globals[name]; ok {
		return v, true
	}
	return r.ns.Lookup(name)
}

func (r *scriptRoot) Replace(name string, v any) error {
	return r.ns.Replace(name, v)
}

// callerDir returns the directory of the innermost script on the call
// stack, skipping builtin frames such as require itself.
func callerDir(thread *starlark.Thread) string {
	for depth := 0; depth < thread.CallStackDepth(); depth++ {
		filename := thread.CallFrame(depth).Pos.Filename()
		if filename == "" || filename == "<builtin>" {
			continue
		}
		return filepath.Dir(filename)
	}
	return ""
}

// Module is a loaded test module.
type Module struct {
	ns     *Namespace
	thread *starlark.Thread
}

var _ engine.Module = (*Module)(nil)

// Name returns the module name.
func (m *Module) Name() string { return m.ns.name }

// Namespace returns the module's namespace.
func (m *Module) Namespace() *Namespace { return m.ns }

// Skip reports whether the module sets a truthy __skiptest__.
func (m *Module) Skip() bool {
	v, ok := m.ns.globals[SkipFlag]
	return ok && bool(v.Truth())
}

// Test returns the named test function, bound to the module's thread.
func (m *Module) Test(name string) (engine.Func, error) {
	v, ok := m.ns.globals[name]
	if !ok {
		return nil, fmt.Errorf("module %s has no function %s", m.ns.name, name)
	}
	fn, ok := v.(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("%s.%s is not callable (%s)", m.ns.name, name, v.Type())
	}
	return func(t *engine.Context) (any, error) {
		result, err := starlark.Call(m.thread, fn, starlark.Tuple{NewContextValue(t)}, nil)
		if err != nil {
			return nil, &ScriptError{Err: err}
		}
		if result == starlark.None {
			return nil, nil
		}
		return result, nil
	}, nil
}
