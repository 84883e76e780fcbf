// Package patch replaces named dependencies at run time.
//
// A dependency is reached through a dotted path such as "app.store.fetch".
// Every segment but the last names a Target to descend into, the last one
// names the value that gets replaced. Instead of mutating arbitrary objects,
// replacements are stored in explicit indirection tables (Table) which the
// dependent code reads through.
package patch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnresolved is matched by every Error returned from Apply.
var ErrUnresolved = errors.New("unresolvable patch path")

// Error reports a path that could not be resolved. Nothing was replaced.
type Error struct {
	// Path as given by the caller
	Path string
	// Segment that could not be resolved
	Segment string
	// Reason is a short explanation, e.g. "no such attribute"
	Reason string
	// Err is set when the target refused the replacement
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("cannot patch %q: %s %q", e.Path, e.Reason, e.Segment)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return target == ErrUnresolved
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Target is something a patch path can walk through or replace a value in.
type Target interface {
	// Lookup returns the current value of name.
	Lookup(name string) (any, bool)
	// Replace sets name to v. It is only called for names Lookup found.
	// A target that returns an error must be left unchanged.
	Replace(name string, v any) error
}

// Apply walks path starting at root and replaces the final segment with
// replacement. All segments, including the final one, must already exist.
func Apply(root Target, path string, replacement any) error {
	if root == nil {
		return &Error{Path: path, Segment: path, Reason: "no root for"}
	}
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return &Error{Path: path, Segment: path, Reason: "malformed path"}
		}
	}

	current := root
	for _, s := range segments[:len(segments)-1] {
		v, ok := current.Lookup(s)
		if !ok {
			return &Error{Path: path, Segment: s, Reason: "no such attribute"}
		}
		next, ok := v.(Target)
		if !ok {
			return &Error{Path: path, Segment: s, Reason: "cannot descend into"}
		}
		current = next
	}

	last := segments[len(segments)-1]
	if _, ok := current.Lookup(last); !ok {
		return &Error{Path: path, Segment: last, Reason: "no such attribute"}
	}
	if err := current.Replace(last, replacement); err != nil {
		return &Error{Path: path, Segment: last, Reason: "cannot replace", Err: err}
	}
	return nil
}

// Table is a registry of named values that dependent code looks up
// indirectly. The zero value is ready to use.
type Table struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewTable creates a table holding the given defaults.
func NewTable(defaults map[string]any) *Table {
	t := &Table{values: make(map[string]any, len(defaults))}
	for k, v := range defaults {
		t.values[k] = v
	}
	return t
}

// Register adds or overwrites name.
func (t *Table) Register(name string, v any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.values == nil {
		t.values = make(map[string]any)
	}
	t.values[name] = v
}

// Lookup implements Target.
func (t *Table) Lookup(name string) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[name]
	return v, ok
}

// Replace implements Target.
func (t *Table) Replace(name string, v any) error {
	t.Register(name, v)
	return nil
}

// Delete removes name.
func (t *Table) Delete(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.values, name)
}

// Names returns the registered names in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.values))
	for k := range t.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered names.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.values)
}
