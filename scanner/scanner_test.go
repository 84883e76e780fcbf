package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "declaration order",
			src: `
def test_b(T):
    pass

def test_a(T):
    pass
`,
			want: []string{"test_b", "test_a"},
		},
		{
			name: "ignores helpers and nested defs",
			src: `
def helper():
    def test_nested(T):
        pass
    return test_nested

def testing_is_a_test_too(T):
    pass

x = 1
`,
			want: []string{"testing_is_a_test_too"},
		},
		{
			name: "no tests",
			src:  "x = 1\n",
			want: []string{},
		},
		{
			name: "empty file",
			src:  "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScript(t, "example_test.star", tt.src)
			got, err := Discover(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscoverDoesNotExecute(t *testing.T) {
	// A top-level failure would abort execution, but parsing does not run it.
	path := writeScript(t, "side_effects_test.star", `
fail("this must not run during discovery")

def test_one(T):
    pass
`)
	got, err := Discover(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"test_one"}, got)
}

func TestDiscoverSyntaxError(t *testing.T) {
	path := writeScript(t, "broken_test.star", "def test_one(T)\n    pass\n")
	got, err := Discover(path)
	require.Error(t, err)
	assert.Nil(t, got)

	var discoveryErr *DiscoveryError
	require.True(t, errors.As(err, &discoveryErr))
	assert.Equal(t, path, discoveryErr.Path)
}

func TestDiscoverMissingFile(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing_test.star"))
	var discoveryErr *DiscoveryError
	require.True(t, errors.As(err, &discoveryErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestModuleName(t *testing.T) {
	assert.Equal(t, "calc_test", ModuleName("/some/dir/calc_test.star"))
	assert.Equal(t, "calc_test", ModuleName("calc_test.star"))
}

func TestIsTestFile(t *testing.T) {
	assert.True(t, IsTestFile("calc_test.star"))
	assert.True(t, IsTestFile("dir/calc_test.star"))
	assert.False(t, IsTestFile("calc.star"))
	assert.False(t, IsTestFile("calc_test.py"))
}
