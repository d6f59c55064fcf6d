package reputation

// Tier is a recruiter reputation level. Tiers are ordered by their ordinal;
// the ladder is fixed at compile time.
type Tier int

const (
	TierBronze Tier = iota
	TierSilver
	TierGold
	TierPlatinum
	TierDiamond
)

var tierNames = map[Tier]string{
	TierBronze:   "bronze",
	TierSilver:   "silver",
	TierGold:     "gold",
	TierPlatinum: "platinum",
	TierDiamond:  "diamond",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "bronze"
}

// Compare returns -1, 0 or 1 by ladder position.
func (t Tier) Compare(other Tier) int {
	switch {
	case t < other:
		return -1
	case t > other:
		return 1
	default:
		return 0
	}
}

// TierForPlacements maps a lifetime placement count to a tier.
func TierForPlacements(placements int) Tier {
	switch {
	case placements >= 100:
		return TierDiamond
	case placements >= 50:
		return TierPlatinum
	case placements >= 20:
		return TierGold
	case placements >= 5:
		return TierSilver
	default:
		return TierBronze
	}
}
