package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageFor(t *testing.T) {
	tests := []struct {
		name        string
		param       string
		total       int64
		wantNumber  int
		wantPages   int
		wantOffset  int
		isPaginated bool
	}{
		{"first page of 25", "1", 25, 1, 3, 0, true},
		{"middle page", "2", 25, 2, 3, 10, true},
		{"last partial page", "3", 25, 3, 3, 20, true},
		{"out of range clamps to last", "99", 25, 3, 3, 20, true},
		{"zero clamps to first", "0", 25, 1, 3, 0, true},
		{"negative clamps to first", "-4", 25, 1, 3, 0, true},
		{"non-numeric falls back to first", "abc", 25, 1, 3, 0, true},
		{"empty param", "", 25, 1, 3, 0, true},
		{"single page", "1", 7, 1, 1, 0, false},
		{"empty collection", "5", 0, 1, 1, 0, false},
		{"exact multiple of page size", "2", 20, 2, 2, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := PageFor(tt.param, tt.total)
			assert.Equal(t, tt.wantNumber, page.Number)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.wantOffset, page.Offset())
			assert.Equal(t, tt.isPaginated, page.IsPaginated)
			assert.Equal(t, PageSize, page.Size)
		})
	}
}
