package tier

import (
	"errors"
	"math"
)

// ErrNoActiveTiers is returned when tier resolution runs against an empty or
// fully deactivated catalog. This is a configuration defect: the catalog must
// always contain a low-threshold base tier.
var ErrNoActiveTiers = errors.New("no active loyalty tiers configured")

// Resolve returns the tier a customer with totalNights belongs to: the active
// tier with the greatest MinNights not exceeding totalNights, ties broken by
// the higher SortOrder. When no tier qualifies (all thresholds above the
// customer's nights), the lowest-SortOrder active tier is the floor.
func Resolve(tiers []Tier, totalNights int) (*Tier, error) {
	var best *Tier
	var floor *Tier

	for i := range tiers {
		t := &tiers[i]
		if !t.IsActive {
			continue
		}
		if floor == nil || t.SortOrder < floor.SortOrder {
			floor = t
		}
		if t.MinNights > totalNights {
			continue
		}
		if best == nil ||
			t.MinNights > best.MinNights ||
			(t.MinNights == best.MinNights && t.SortOrder > best.SortOrder) {
			best = t
		}
	}

	if best != nil {
		return best, nil
	}
	if floor != nil {
		return floor, nil
	}
	return nil, ErrNoActiveTiers
}

// Base returns the lowest-SortOrder active tier, the one new accounts enroll into.
func Base(tiers []Tier) (*Tier, error) {
	var base *Tier
	for i := range tiers {
		t := &tiers[i]
		if !t.IsActive {
			continue
		}
		if base == nil || t.SortOrder < base.SortOrder {
			base = t
		}
	}
	if base == nil {
		return nil, ErrNoActiveTiers
	}
	return base, nil
}

// Next returns the active tier immediately above current in SortOrder,
// or nil when current is the top tier.
func Next(tiers []Tier, current *Tier) *Tier {
	var next *Tier
	for i := range tiers {
		t := &tiers[i]
		if !t.IsActive || t.SortOrder <= current.SortOrder {
			continue
		}
		if next == nil || t.SortOrder < next.SortOrder {
			next = t
		}
	}
	return next
}

// Progress returns the percentage of the way from zero nights to the next
// tier's threshold, rounded and clamped to 100. A customer at the top tier
// (next == nil) is always at 100.
func Progress(totalNights int, next *Tier) int {
	if next == nil || next.MinNights <= 0 {
		return 100
	}
	pct := int(math.Round(float64(totalNights) / float64(next.MinNights) * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

// NightsToNext returns how many more nights reach the next tier, or nil at
// the top tier. Never negative.
func NightsToNext(totalNights int, next *Tier) *int {
	if next == nil {
		return nil
	}
	n := next.MinNights - totalNights
	if n < 0 {
		n = 0
	}
	return &n
}
