package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "test function", in: "test_add", want: true},
		{name: "bare prefix", in: "test", want: true},
		{name: "test file", in: "test_add.star", want: false},
		{name: "directory with prefix", in: "tests" + string(filepath.Separator) + "calc_test.star", want: false},
		{name: "other file", in: "calc_test.star", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTestName(tt.in))
		})
	}
}

func TestSeparateTestArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_test.star", "a_test.star", "helper.star", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub_test.star"), 0755))

	a := &App{logger: zerolog.Nop()}
	aTest := filepath.Join(dir, "a_test.star")
	bTest := filepath.Join(dir, "b_test.star")
	helper := filepath.Join(dir, "helper.star")
	missing := filepath.Join(dir, "missing_test.star")

	tests := []struct {
		name       string
		in         []string
		wantFiles  []string
		wantFilter []string
		wantOutput string
	}{
		{
			name:      "directory",
			in:        []string{dir},
			wantFiles: []string{aTest, bTest},
		},
		{
			name:      "single file with any name",
			in:        []string{helper},
			wantFiles: []string{helper},
		},
		{
			name:       "single missing file",
			in:         []string{missing},
			wantOutput: "File not found: " + missing + "\n",
		},
		{
			name:       "files and filter",
			in:         []string{bTest, "test_one", aTest, "test_two", "test_one"},
			wantFiles:  []string{bTest, aTest},
			wantFilter: []string{"test_one", "test_two"},
		},
		{
			name:       "missing file is skipped",
			in:         []string{missing, aTest, "test_one"},
			wantFiles:  []string{aTest},
			wantFilter: []string{"test_one"},
			wantOutput: "File not found: " + missing + "\n",
		},
		{
			name:      "duplicates are removed",
			in:        []string{aTest, dir, aTest},
			wantFiles: []string{aTest, bTest},
		},
		{
			name:       "filter only",
			in:         []string{"test_one", "test_two"},
			wantFilter: []string{"test_one", "test_two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			files, filter, err := a.separateTestArgs(&out, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFiles, files)
			if tt.wantFilter == nil {
				assert.False(t, filter.IsDefined())
			} else {
				assert.Equal(t, tt.wantFilter, filter.Names())
			}
			assert.Equal(t, tt.wantOutput, out.String())
		})
	}
}

func TestSeparateTestArgsDefaultsToWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "calc_test.star"), nil, 0644))
	chdir(t, dir)

	a := &App{logger: zerolog.Nop()}
	var out bytes.Buffer
	files, filter, err := a.separateTestArgs(&out, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"calc_test.star"}, files)
	assert.False(t, filter.IsDefined())
	assert.Empty(t, out.String())
}
