package tier_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/thehfhotel/loyalty-backend/internal/tier"
)

func mkTier(name string, minNights, sortOrder int, active bool) tier.Tier {
	return tier.Tier{
		ID:               uuid.New(),
		Name:             name,
		MinNights:        minNights,
		Benefits:         []string{},
		Color:            "#FFFFFF",
		PointsMultiplier: 1.0,
		SortOrder:        sortOrder,
		IsActive:         active,
	}
}

// threeLevels is the catalog used throughout: Bronze from 0 nights,
// Silver from 10, Gold from 30.
func threeLevels() []tier.Tier {
	return []tier.Tier{
		mkTier("Bronze", 0, 1, true),
		mkTier("Silver", 10, 2, true),
		mkTier("Gold", 30, 3, true),
	}
}

func TestResolve_ThresholdBoundaries(t *testing.T) {
	t.Parallel()

	tiers := threeLevels()

	tests := []struct {
		totalNights int
		wantName    string
	}{
		{0, "Bronze"},
		{9, "Bronze"},
		{10, "Silver"},
		{29, "Silver"},
		{30, "Gold"},
		{31, "Gold"},
		{500, "Gold"},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d nights", tc.totalNights), func(t *testing.T) {
			t.Parallel()

			got, err := tier.Resolve(tiers, tc.totalNights)

			require.NoError(t, err)
			assert.Equal(t, tc.wantName, got.Name)
		})
	}
}

func TestResolve_FallsBackToLowestTier(t *testing.T) {
	t.Parallel()

	// No tier starts at zero nights. A brand-new account still resolves
	// to the lowest-ranked active tier.
	tiers := []tier.Tier{
		mkTier("Silver", 10, 2, true),
		mkTier("Gold", 30, 3, true),
	}

	got, err := tier.Resolve(tiers, 3)

	require.NoError(t, err)
	assert.Equal(t, "Silver", got.Name)
}

func TestResolve_IgnoresInactiveTiers(t *testing.T) {
	t.Parallel()

	tiers := []tier.Tier{
		mkTier("Bronze", 0, 1, true),
		mkTier("Silver", 10, 2, true),
		mkTier("Gold", 30, 3, false),
	}

	got, err := tier.Resolve(tiers, 100)

	require.NoError(t, err)
	assert.Equal(t, "Silver", got.Name)
}

func TestResolve_BreaksThresholdTiesBySortOrder(t *testing.T) {
	t.Parallel()

	tiers := []tier.Tier{
		mkTier("Bronze", 0, 1, true),
		mkTier("Silver", 10, 2, true),
		mkTier("Silver Elite", 10, 3, true),
	}

	got, err := tier.Resolve(tiers, 15)

	require.NoError(t, err)
	assert.Equal(t, "Silver Elite", got.Name)
}

func TestResolve_NoActiveTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		tiers []tier.Tier
	}{
		{name: "empty catalog", tiers: nil},
		{name: "all inactive", tiers: []tier.Tier{
			mkTier("Bronze", 0, 1, false),
			mkTier("Silver", 10, 2, false),
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tier.Resolve(tc.tiers, 10)

			assert.Nil(t, got)
			assert.ErrorIs(t, err, tier.ErrNoActiveTiers)
		})
	}
}

func TestBase_ReturnsLowestSortOrder(t *testing.T) {
	t.Parallel()

	tiers := []tier.Tier{
		mkTier("Gold", 30, 3, true),
		mkTier("Bronze", 0, 1, true),
		mkTier("Silver", 10, 2, true),
	}

	got, err := tier.Base(tiers)

	require.NoError(t, err)
	assert.Equal(t, "Bronze", got.Name)
}

func TestBase_SkipsInactive(t *testing.T) {
	t.Parallel()

	tiers := []tier.Tier{
		mkTier("Bronze", 0, 1, false),
		mkTier("Silver", 10, 2, true),
	}

	got, err := tier.Base(tiers)

	require.NoError(t, err)
	assert.Equal(t, "Silver", got.Name)
}

func TestBase_NoActiveTiers(t *testing.T) {
	t.Parallel()

	got, err := tier.Base(nil)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, tier.ErrNoActiveTiers)
}

func TestNext_WalksSortOrder(t *testing.T) {
	t.Parallel()

	tiers := threeLevels()

	next := tier.Next(tiers, &tiers[0])
	require.NotNil(t, next)
	assert.Equal(t, "Silver", next.Name)

	next = tier.Next(tiers, &tiers[1])
	require.NotNil(t, next)
	assert.Equal(t, "Gold", next.Name)

	assert.Nil(t, tier.Next(tiers, &tiers[2]))
}

func TestNext_SkipsInactive(t *testing.T) {
	t.Parallel()

	tiers := []tier.Tier{
		mkTier("Bronze", 0, 1, true),
		mkTier("Silver", 10, 2, false),
		mkTier("Gold", 30, 3, true),
	}

	next := tier.Next(tiers, &tiers[0])

	require.NotNil(t, next)
	assert.Equal(t, "Gold", next.Name)
}

func TestNext_NilCurrent(t *testing.T) {
	t.Parallel()

	assert.Nil(t, tier.Next(threeLevels(), nil))
}

func TestProgress(t *testing.T) {
	t.Parallel()

	gold := mkTier("Gold", 30, 3, true)

	tests := []struct {
		name        string
		totalNights int
		next        *tier.Tier
		want        int
	}{
		{name: "13 of 30 rounds to 43", totalNights: 13, next: &gold, want: 43},
		{name: "zero nights", totalNights: 0, next: &gold, want: 0},
		{name: "exactly at threshold", totalNights: 30, next: &gold, want: 100},
		{name: "overshoot clamps to 100", totalNights: 45, next: &gold, want: 100},
		{name: "no next tier means done", totalNights: 5, next: nil, want: 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tier.Progress(tc.totalNights, tc.next))
		})
	}
}

func TestProgress_ZeroThresholdNext(t *testing.T) {
	t.Parallel()

	free := mkTier("Bronze", 0, 1, true)

	assert.Equal(t, 100, tier.Progress(0, &free))
}

func TestNightsToNext(t *testing.T) {
	t.Parallel()

	gold := mkTier("Gold", 30, 3, true)

	got := tier.NightsToNext(13, &gold)
	require.NotNil(t, got)
	assert.Equal(t, 17, *got)

	got = tier.NightsToNext(45, &gold)
	require.NotNil(t, got)
	assert.Equal(t, 0, *got)

	assert.Nil(t, tier.NightsToNext(45, nil))
}

// TestResolve_Properties drives Resolve with random catalogs and checks the
// invariants that matter: the result is active, it never skips a qualified
// higher threshold, and it does not depend on catalog order.
func TestResolve_Properties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 8).Draw(rt, "count")
		nights := rapid.IntRange(0, 120).Draw(rt, "nights")

		anyActive := false
		tiers := make([]tier.Tier, count)
		for i := range tiers {
			min := rapid.IntRange(0, 100).Draw(rt, fmt.Sprintf("min%d", i))
			active := rapid.Bool().Draw(rt, fmt.Sprintf("active%d", i))
			tiers[i] = mkTier(fmt.Sprintf("T%d", i), min, i+1, active)
			anyActive = anyActive || active
		}

		got, err := tier.Resolve(tiers, nights)

		if !anyActive {
			assert.ErrorIs(rt, err, tier.ErrNoActiveTiers)
			return
		}

		require.NoError(rt, err)
		require.NotNil(rt, got)
		assert.True(rt, got.IsActive)

		qualified := false
		for _, candidate := range tiers {
			if !candidate.IsActive || candidate.MinNights > nights {
				continue
			}
			qualified = true
			assert.LessOrEqual(rt, candidate.MinNights, got.MinNights)
		}
		if qualified {
			assert.LessOrEqual(rt, got.MinNights, nights)
		} else {
			// Below every threshold: fall back to the lowest-ranked tier.
			for _, candidate := range tiers {
				if candidate.IsActive {
					assert.LessOrEqual(rt, got.SortOrder, candidate.SortOrder)
				}
			}
		}

		// Order independence: a reversed catalog resolves to the same tier.
		reversed := make([]tier.Tier, count)
		for i := range tiers {
			reversed[count-1-i] = tiers[i]
		}
		same, err := tier.Resolve(reversed, nights)
		require.NoError(rt, err)
		assert.Equal(rt, got.ID, same.ID)
	})
}
