package blueprint

import (
	"math"

	"github.com/yanqian/trip-blueprint/internal/domain/pricing"
)

// otherCostPerTierDay covers food, local travel and sightseeing per traveler per day per tier.
const otherCostPerTierDay = 1500

// ComputeBudget totals hotel, daily spend and the cheapest available transport.
// Flight and bus are per person; the car cost already covers the whole party.
func ComputeBudget(hotel, tier, duration, travelers int, flight, bus *int, car int) Budget {
	other := float64(otherCostPerTierDay * tier * duration * travelers)

	cheapest := math.Inf(1)
	if flight != nil {
		cheapest = math.Min(cheapest, float64(*flight*travelers))
	}
	if bus != nil {
		cheapest = math.Min(cheapest, float64(*bus*travelers))
	}
	cheapest = math.Min(cheapest, float64(car))

	total := float64(hotel) + other + cheapest
	return Budget{
		TotalEstimatedCost: pricing.RoundTo(100, total),
		CostPerPerson:      pricing.RoundTo(100, total/float64(travelers)),
	}
}
