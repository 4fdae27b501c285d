package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		page, perPage         int
		wantPage, wantPerPage int
	}{
		{0, 0, 1, DefaultPerPage},
		{-3, 10, 1, 10},
		{2, MaxPerPage, 2, MaxPerPage},
		{5, MaxPerPage + 1, 5, DefaultPerPage},
	}
	for _, tt := range tests {
		page, perPage := Normalize(tt.page, tt.perPage)
		assert.Equal(t, tt.wantPage, page)
		assert.Equal(t, tt.wantPerPage, perPage)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 20))
	assert.Equal(t, 40, Offset(3, 20))
	assert.Equal(t, 0, Offset(-1, 20))
	assert.Equal(t, math.MaxInt, Offset(461168601842738792, 20))
	assert.Equal(t, math.MaxInt, Offset(math.MaxInt, MaxPerPage))
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name                 string
		page, perPage, total int
		wantStart, wantEnd   int
	}{
		{"first page", 1, 2, 5, 0, 2},
		{"last partial page", 3, 2, 5, 4, 5},
		{"past the end", 4, 2, 5, 5, 5},
		{"empty", 1, 20, 0, 0, 0},
		{"huge page", 461168601842738792, 20, 3, 3, 3},
		{"max page", math.MaxInt, MaxPerPage, 3, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Bounds(tt.page, tt.perPage, tt.total)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
