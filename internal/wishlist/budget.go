package wishlist

import (
	"context" // Request scoping
	"math"    // Rounding and finiteness
	"strconv" // Budget parsing
	"strings" // Input trimming

	"github.com/SofiaUmrish/sneaker-drop/internal/apiclient" // Identities and client errors
	"github.com/SofiaUmrish/sneaker-drop/internal/domain"    // Shared models

	"github.com/sirupsen/logrus" // Logging library
)

// Metrics summarises wishlist spending against a budget limit
type Metrics struct {
	Limit       float64 `json:"limit"`        // Budget limit in effect
	TotalCost   float64 `json:"total_cost"`   // Sum of liked prices
	Remaining   float64 `json:"remaining"`    // Limit minus total, negative when over
	PercentUsed float64 `json:"percent_used"` // Capped at 100
	OverBudget  bool    `json:"over_budget"`  // Total exceeds the limit
}

// ComputeMetrics derives the metrics of a total against a limit.
// A limit of zero or less reports 100 percent used for any positive total.
func ComputeMetrics(totalCost, limit float64) Metrics {
	m := Metrics{
		Limit:      limit,
		TotalCost:  totalCost,
		Remaining:  limit - totalCost,
		OverBudget: totalCost > limit,
	}
	switch {
	case limit <= 0 && totalCost > 0:
		m.PercentUsed = 100
	case limit > 0:
		m.PercentUsed = math.Min(100, totalCost/limit*100)
	}
	return m
}

// BudgetMetrics prices the working set against catalog. Liked ids missing from
// the catalog contribute nothing.
func (r *Reconciler) BudgetMetrics(catalog []domain.ShoeView, limit float64) Metrics {
	var total float64
	for _, s := range r.Items(catalog) {
		total += s.Price
	}
	return ComputeMetrics(total, limit)
}

// Limit returns the budget limit currently in effect
func (r *Reconciler) Limit() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ParseBudget coerces user input to a limit: blank, malformed, non-finite and
// negative input all become 0.
func ParseBudget(input string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// SetBudgetLimit applies a new limit in memory immediately. Signed-in users get
// a background write to the API; guests get a local write. The limit is not
// rolled back on failure, the mutation settles Failed instead.
func (r *Reconciler) SetBudgetLimit(ctx context.Context, user *apiclient.Identity, input string) *Mutation {
	limit := ParseBudget(input)

	r.mu.Lock()
	r.limit = limit
	r.mu.Unlock()

	m := newMutation(KindBudget, nil)
	m.Limit = limit

	if user == nil {
		var err error
		if r.cache != nil {
			err = r.cache.SetGuestBudget(limit)
		}
		m.settle(err)
		return m
	}

	r.pending.Add(1)
	go func(ctx context.Context) {
		defer r.pending.Done()
		err := r.backend.SetBudget(ctx, user.Token, limit)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"limit":   limit,
				"error":   err.Error(),
			}).Warn("Budget update failed")
		}
		m.settle(err)
	}(context.WithoutCancel(ctx))
	return m
}

// guestLimit is the locally stored guest budget, or the default
func (r *Reconciler) guestLimit() float64 {
	if r.cache != nil {
		if limit, ok := r.cache.GuestBudget(); ok {
			return limit
		}
	}
	return domain.DefaultMonthlyBudget
}
