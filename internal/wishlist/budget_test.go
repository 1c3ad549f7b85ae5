package wishlist

import (
	"context"
	"testing"

	"github.com/SofiaUmrish/sneaker-drop/internal/apiclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetMetrics(t *testing.T) {
	r := New(newFakeBackend(1, 2, 3), nil, Options{})
	_, err := r.Load(context.Background(), alice)
	require.NoError(t, err)

	m := r.BudgetMetrics(catalog(100, 250, 75.5, 999), 1000)

	assert.InDelta(t, 425.5, m.TotalCost, 0.0001)
	assert.InDelta(t, 574.5, m.Remaining, 0.0001)
	assert.InDelta(t, 42.55, m.PercentUsed, 0.0001)
	assert.False(t, m.OverBudget)
}

func TestComputeMetrics_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		limit   float64
		percent float64
		over    bool
	}{
		{"zero limit with spending", 50, 0, 100, true},
		{"zero limit nothing spent", 0, 0, 0, false},
		{"negative limit", 10, -5, 100, true},
		{"exactly at limit", 200, 200, 100, false},
		{"over limit is capped", 300, 200, 100, true},
		{"empty wishlist", 0, 1000, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeMetrics(tt.total, tt.limit)
			assert.InDelta(t, tt.percent, m.PercentUsed, 0.0001)
			assert.Equal(t, tt.over, m.OverBudget)
			assert.InDelta(t, tt.limit-tt.total, m.Remaining, 0.0001)
		})
	}
}

func TestParseBudget(t *testing.T) {
	tests := map[string]float64{
		"":        0,
		"   ":     0,
		"abc":     0,
		"-20":     0,
		"NaN":     0,
		"Inf":     0,
		"0":       0,
		"750":     750,
		" 99.95 ": 99.95,
	}
	for input, want := range tests {
		assert.InDelta(t, want, ParseBudget(input), 0.0001, "input %q", input)
	}
}

func TestSetBudgetLimit_SignedIn(t *testing.T) {
	b := newFakeBackend()
	r := New(b, nil, Options{})

	m := r.SetBudgetLimit(context.Background(), alice, "640")

	assert.InDelta(t, 640, r.Limit(), 0.001, "applied before the write settles")
	assert.Equal(t, Committed, settled(t, m))
	assert.InDelta(t, 640, b.budget, 0.001)
}

func TestSetBudgetLimit_FailureKeepsLocalValue(t *testing.T) {
	b := newFakeBackend()
	b.budgetErr = &apiclient.RejectedError{Op: "set budget", Status: 500, Reason: "Failed to update budget"}
	r := New(b, nil, Options{})

	m := r.SetBudgetLimit(context.Background(), alice, "300")

	assert.Equal(t, Failed, settled(t, m))
	assert.True(t, apiclient.IsRejected(m.Err()))
	assert.InDelta(t, 300, r.Limit(), 0.001)
}

func TestSetBudgetLimit_GuestUsesLocalStore(t *testing.T) {
	cache := newLocalCache(t)
	b := newFakeBackend()
	r := New(b, cache, Options{})

	m := r.SetBudgetLimit(context.Background(), nil, "not a number")

	assert.Equal(t, Committed, m.State())
	assert.Zero(t, r.Limit())
	stored, ok := cache.GuestBudget()
	assert.True(t, ok)
	assert.Zero(t, stored)

	require.Equal(t, Committed, r.SetBudgetLimit(context.Background(), nil, "120").State())
	r.Reset()
	assert.InDelta(t, 120, r.Limit(), 0.001, "guest budget survives sign-out")
}

func TestParseShoeID(t *testing.T) {
	valid := []any{42, int64(42), uint(42), 42.0, "42", " 42 ", "42.0", ShoeID(42)}
	for _, v := range valid {
		id, err := ParseShoeID(v)
		assert.NoError(t, err, "%#v", v)
		assert.Equal(t, ShoeID(42), id)
	}
	invalid := []any{0, -1, 4.5, "", "abc", "-3", nil, true, []int{1}}
	for _, v := range invalid {
		_, err := ParseShoeID(v)
		assert.ErrorIs(t, err, apiclient.ErrInvalidInput, "%#v", v)
	}
}
