package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterSelect(t *testing.T) {
	tests := []struct {
		name         string
		filter       Filter
		discovered   []string
		wantSelected []string
		wantMissing  []string
	}{
		{
			name:         "no filter selects everything",
			filter:       Filter{},
			discovered:   []string{"test_b", "test_a"},
			wantSelected: []string{"test_b", "test_a"},
		},
		{
			name:         "discovery order wins over filter order",
			filter:       NewFilter("test_a", "test_b"),
			discovered:   []string{"test_b", "test_c", "test_a"},
			wantSelected: []string{"test_b", "test_a"},
		},
		{
			name:         "duplicates run once",
			filter:       NewFilter("test_a", "test_a"),
			discovered:   []string{"test_a", "test_a"},
			wantSelected: []string{"test_a"},
		},
		{
			name:         "missing names are reported",
			filter:       NewFilter("test_x", "test_a", "test_y"),
			discovered:   []string{"test_a"},
			wantSelected: []string{"test_a"},
			wantMissing:  []string{"test_x", "test_y"},
		},
		{
			name:        "empty intersection",
			filter:      NewFilter("test_x"),
			discovered:  []string{"test_a"},
			wantMissing: []string{"test_x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected, missing := tt.filter.Select(tt.discovered)
			assert.Equal(t, tt.wantSelected, selected)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}

func TestFilterNames(t *testing.T) {
	f := NewFilter("test_b", "test_a", "test_b")
	assert.True(t, f.IsDefined())
	assert.Equal(t, []string{"test_b", "test_a"}, f.Names())
	assert.Equal(t, "test_b, test_a", f.String())
	assert.False(t, Filter{}.IsDefined())
}
