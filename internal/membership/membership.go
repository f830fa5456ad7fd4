// Package membership derives a member's tier from their point balance.
package membership

// Tier is a membership classification derived solely from the point balance.
type Tier string

const (
	TierBronze  Tier = "Bronze"
	TierSilver  Tier = "Silver"
	TierGold    Tier = "Gold"
	TierDiamond Tier = "Diamond"
)

// Lower bounds (inclusive) of each tier above Bronze.
const (
	SilverThreshold  = 1000
	GoldThreshold    = 5000
	DiamondThreshold = 10000
)

// Membership is the tier label and display color for a point balance.
type Membership struct {
	Tier  Tier   `json:"tier"`
	Color string `json:"color"`
}

// Progress describes the distance to the next tier. Next is empty once the
// top tier is reached.
type Progress struct {
	Next      Tier `json:"next,omitempty"`
	Remaining int  `json:"remaining"`
}

var colors = map[Tier]string{
	TierBronze:  "#92400E",
	TierSilver:  "#6B7280",
	TierGold:    "#F59E0B",
	TierDiamond: "#8B5CF6",
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	_, ok := colors[t]
	return ok
}

// Color returns the display color for the tier, or "" for an unknown tier.
func (t Tier) Color() string {
	return colors[t]
}

// Classify maps a point balance to its membership. Balances below zero are
// never stored but classify as Bronze.
func Classify(points int) Membership {
	tier := tierFor(points)
	return Membership{Tier: tier, Color: colors[tier]}
}

// Next returns how many points separate the balance from the next tier.
func Next(points int) Progress {
	switch tierFor(points) {
	case TierBronze:
		return Progress{Next: TierSilver, Remaining: SilverThreshold - max(points, 0)}
	case TierSilver:
		return Progress{Next: TierGold, Remaining: GoldThreshold - points}
	case TierGold:
		return Progress{Next: TierDiamond, Remaining: DiamondThreshold - points}
	default:
		return Progress{}
	}
}

func tierFor(points int) Tier {
	switch {
	case points >= DiamondThreshold:
		return TierDiamond
	case points >= GoldThreshold:
		return TierGold
	case points >= SilverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}
