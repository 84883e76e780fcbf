package scanner

// scanner.go discovers test functions in Starlark scripts without executing them.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/syntax"
)

const (
	// TestPrefix is the prefix a top-level function name needs to be picked up as a test
	TestPrefix = "test"
	// Extension is the file extension of test scripts
	Extension = ".star"
	// FileSuffix is the suffix a file name needs to be discovered inside a directory
	FileSuffix = "_test" + Extension
)

// DiscoveryError is returned when a file cannot be read or parsed.
// It is distinct from a file that simply contains no tests.
type DiscoveryError struct {
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("cannot discover tests in %s: %v", e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// Discover parses the file at path and returns the names of all top-level
// functions starting with TestPrefix, in declaration order.
func Discover(path string) ([]string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &DiscoveryError{Path: path, Err: err}
	}
	return DiscoverSource(path, src)
}

// DiscoverSource is like Discover but reads the script from src.
// The filename is only used in error positions.
func DiscoverSource(filename string, src []byte) ([]string, error) {
	f, err := syntax.Parse(filename, src, 0)
	if err != nil {
		return nil, &DiscoveryError{Path: filename, Err: err}
	}

	names := []string{}
	for _, stmt := range f.Stmts {
		def, ok := stmt.(*syntax.DefStmt)
		if !ok {
			continue
		}
		if strings.HasPrefix(def.Name.Name, TestPrefix) {
			names = append(names, def.Name.Name)
		}
	}
	return names, nil
}

// ModuleName returns the module name for a script path: the base name
// without the extension.
func ModuleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Extension)
}

// IsTestFile reports whether a file name follows the test file convention.
func IsTestFile(name string) bool {
	return strings.HasSuffix(filepath.Base(name), FileSuffix)
}
