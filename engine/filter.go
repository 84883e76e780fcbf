package engine

import "strings"

// Filter restricts a run to explicitly named test functions. The zero value
// selects everything.
type Filter struct {
	names []string
	set   map[string]struct{}
}

// NewFilter builds a filter from names. Repeated names are kept once, so
// each (module, function) pair runs at most once.
func NewFilter(names ...string) Filter {
	f := Filter{set: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if _, ok := f.set[n]; ok {
			continue
		}
		f.set[n] = struct{}{}
		f.names = append(f.names, n)
	}
	return f
}

// IsDefined reports whether the filter restricts anything.
func (f Filter) IsDefined() bool {
	return len(f.names) != 0
}

// Names returns the filter names in the order they were given.
func (f Filter) Names() []string {
	return append([]string(nil), f.names...)
}

func (f Filter) String() string {
	return strings.Join(f.names, ", ")
}

// Select returns the discovered names to run, in discovery order and
// without duplicates, and the filter names that were not discovered.
func (f Filter) Select(discovered []string) (selected, missing []string) {
	seen := make(map[string]struct{}, len(discovered))
	for _, name := range discovered {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		if f.IsDefined() {
			if _, ok := f.set[name]; !ok {
				continue
			}
		}
		selected = append(selected, name)
	}
	for _, name := range f.names {
		if _, ok := seen[name]; !ok {
			missing = append(missing, name)
		}
	}
	return selected, missing
}
