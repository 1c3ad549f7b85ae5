package option

import (
	"testing"

	"github.com/SofiaUmrish/sneaker-drop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		value string
		want  bool
	}{
		{"label exact", Label("Upcoming"), "Upcoming", true},
		{"label case-insensitive", Label("Upcoming"), "upcoming", true},
		{"label mismatch", Label("Upcoming"), "Released", false},
		{"label never matches by number", Label("1"), "01", false},
		{"entry by id", Entry{ID: 3, Name: "Nike"}, "3", true},
		{"entry by padded id", Entry{ID: 3, Name: "Nike"}, " 03 ", true},
		{"entry by name", Entry{ID: 3, Name: "Nike"}, "nike", true},
		{"entry other id", Entry{ID: 3, Name: "Nike"}, "4", false},
		{"nil option", nil, "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.opt, tt.value))
		})
	}
}

func TestFind(t *testing.T) {
	opts := Brands([]domain.Brand{{ID: 1, Name: "Adidas"}, {ID: 2, Name: "Nike"}})

	got, ok := Find(opts, "2")
	require.True(t, ok)
	assert.Equal(t, Entry{ID: 2, Name: "Nike"}, got)
	assert.Equal(t, "2", Value(got))
	assert.Equal(t, "Nike (2)", Display(got))

	_, ok = Find(opts, "Puma")
	assert.False(t, ok)
}

func TestStatusFilter(t *testing.T) {
	got, ok := Find(StatusFilter(), "released")

	require.True(t, ok)
	assert.Equal(t, Label("Released"), got)
	assert.Equal(t, "Released", Display(got))
	assert.Equal(t, "Released", Value(got))
}

func TestCategories(t *testing.T) {
	opts := Categories([]domain.Category{{ID: 9, Name: "Running"}})

	require.Len(t, opts, 1)
	assert.True(t, Matches(opts[0], "running"))
	assert.Empty(t, Display(nil))
}
