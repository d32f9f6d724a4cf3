package tier

import (
	"time"

	"github.com/google/uuid"
)

// Tier represents a row in the loyalty_tiers table. Tiers are configuration
// data: they are totally ordered by SortOrder, and MinNights is non-decreasing
// in that order. A customer's tier is derived from accumulated nights, never
// assigned directly.
type Tier struct {
	ID               uuid.UUID
	Name             string
	MinNights        int
	Benefits         []string
	Color            string
	PointsMultiplier float64
	SortOrder        int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Default is one entry of the seed catalog applied when the tier table is empty.
type Default struct {
	Name             string
	MinNights        int
	Benefits         []string
	Color            string
	PointsMultiplier float64
	SortOrder        int
}

// Defaults is the standard four-level catalog.
var Defaults = []Default{
	{
		Name:             "Bronze",
		MinNights:        0,
		Benefits:         []string{"Member rates", "Free Wi-Fi"},
		Color:            "#CD7F32",
		PointsMultiplier: 1.0,
		SortOrder:        1,
	},
	{
		Name:             "Silver",
		MinNights:        1,
		Benefits:         []string{"Member rates", "Free Wi-Fi", "Late checkout"},
		Color:            "#C0C0C0",
		PointsMultiplier: 1.25,
		SortOrder:        2,
	},
	{
		Name:             "Gold",
		MinNights:        10,
		Benefits:         []string{"Member rates", "Free Wi-Fi", "Late checkout", "Room upgrades", "Welcome drink"},
		Color:            "#D4AF37",
		PointsMultiplier: 1.5,
		SortOrder:        3,
	},
	{
		Name:             "Platinum",
		MinNights:        20,
		Benefits:         []string{"Member rates", "Free Wi-Fi", "Late checkout", "Suite upgrades", "Welcome drink", "Free breakfast", "Lounge access"},
		Color:            "#6B7280",
		PointsMultiplier: 2.0,
		SortOrder:        4,
	},
}
