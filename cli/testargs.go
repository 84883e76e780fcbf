package cli

// This file contains argument processing utilities for separating
// test files from test name filters.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/perfgo/pry/engine"
	"github.com/perfgo/pry/scanner"
)

// isTestName reports whether arg names a test function rather than a path.
// Test names start with the test prefix and look like identifiers, not files.
func isTestName(arg string) bool {
	return strings.HasPrefix(arg, scanner.TestPrefix) &&
		!strings.ContainsRune(arg, filepath.Separator) &&
		!strings.HasSuffix(arg, scanner.Extension)
}

// separateTestArgs splits the positional arguments into test files and a
// filter. Paths that do not exist are reported on w and skipped.
func (a *App) separateTestArgs(w io.Writer, args []string) (files []string, filter engine.Filter, err error) {
	var paths, names []string
	switch len(args) {
	case 0:
		paths = []string{"."}
	case 1:
		paths = args
	default:
		for _, arg := range args {
			if isTestName(arg) {
				names = append(names, arg)
				continue
			}
			paths = append(paths, arg)
		}
	}

	seen := make(map[string]struct{})
	add := func(path string) {
		key := filepath.Clean(path)
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		files = append(files, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			a.logger.Debug().Err(err).Str("path", path).Msg("Skipping argument")
			fmt.Fprintf(w, "File not found: %s\n", path)
			continue
		}

		if !info.IsDir() {
			add(path)
			continue
		}

		found, err := testFiles(path)
		if err != nil {
			return nil, engine.Filter{}, err
		}
		for _, f := range found {
			add(f)
		}
	}

	if len(names) > 0 {
		filter = engine.NewFilter(names...)
		a.logger.Debug().Str("filter", filter.String()).Msg("Restricting run to named tests")
	}
	return files, filter, nil
}

// testFiles returns the test files directly inside dir, sorted by name.
func testFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !scanner.IsTestFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
