package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Context is shared by all test functions of one module run. It carries
// the result of the previous test, a log buffer that is drained after
// every test, and arbitrary key/value slots.
//
// A Context is owned by the engine for the duration of a module run and is
// never used from more than one goroutine.
type Context struct {
	lastResult any
	log        []string
	attrs      map[string]any
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{attrs: make(map[string]any)}
}

// LastResult returns the value returned by the previous test if it passed,
// nil otherwise.
func (c *Context) LastResult() any {
	return c.lastResult
}

// Log appends a message. Arguments are formatted immediately so later
// changes to referenced values do not alter the message.
func (c *Context) Log(args ...any) {
	c.log = append(c.log, fmt.Sprint(args...))
}

// Logf appends a formatted message.
func (c *Context) Logf(format string, args ...any) {
	c.log = append(c.log, fmt.Sprintf(format, args...))
}

// Get returns the value stored under key, or nil when unset.
func (c *Context) Get(key string) any {
	return c.attrs[key]
}

// Lookup returns the value stored under key and whether it was set.
func (c *Context) Lookup(key string) (any, bool) {
	v, ok := c.attrs[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (c *Context) Set(key string, value any) {
	c.attrs[key] = value
}

// Keys returns the set keys in sorted order.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.attrs))
	for k := range c.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Skip returns a skip signal; the test should return it.
func (c *Context) Skip(msg ...any) error {
	return c.signal(SignalSkip, msg)
}

// Fail returns a fail signal; the test should return it.
func (c *Context) Fail(msg ...any) error {
	return c.signal(SignalFail, msg)
}

// Fatal returns a fatal signal. Every remaining test of the module is
// skipped once it is returned.
func (c *Context) Fatal(msg ...any) error {
	return c.signal(SignalFatal, msg)
}

// FailNow raises a fail signal by panicking, for use from helpers that
// cannot return an error.
func (c *Context) FailNow(msg ...any) {
	panic(c.signal(SignalFail, msg))
}

func (c *Context) signal(kind SignalKind, msg []any) *Signal {
	s := &Signal{Kind: kind}
	if len(msg) > 0 {
		s.Message = strings.TrimSuffix(fmt.Sprintln(msg...), "\n")
		c.log = append(c.log, s.Message)
	}
	return s
}

// drain returns the buffered messages and clears the buffer.
func (c *Context) drain() []string {
	out := c.log
	c.log = nil
	return out
}
