package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetVersion(t *testing.T) {
	tests := []struct {
		name    string
		commit  string
		version string
	}{
		{name: "no commit", commit: "none", version: "1.0.0"},
		{name: "empty commit", commit: "", version: "1.0.0"},
		{name: "short commit", commit: "abc123", version: "1.0.0 (commit: abc123, built: today)"},
		{name: "full commit", commit: "0123456789abcdef", version: "1.0.0 (commit: 01234567, built: today)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := New()
			app.SetVersion("1.0.0", tt.commit, "today")
			assert.Equal(t, tt.version, app.cli.Version)
		})
	}
}
