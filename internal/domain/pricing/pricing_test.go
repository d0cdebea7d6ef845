package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBusCostThreshold(t *testing.T) {
	for _, d := range []float64{0, 10, 49.99} {
		require.Nil(t, BusCost(d), "distance %v", d)
	}
	for _, d := range []float64{50, 73.4, 120, 999.9, 2400} {
		cost := BusCost(d)
		require.NotNil(t, cost, "distance %v", d)
		require.Positive(t, *cost)
		require.Zero(t, *cost%50)
	}
	require.Equal(t, 250, *BusCost(120)) // 264 -> 250
}

func TestFlightCostThresholdAndMonotonic(t *testing.T) {
	require.Nil(t, FlightCost(249.9))

	prev := 0
	for d := 250.0; d <= 3000; d += 37.5 {
		cost := FlightCost(d)
		require.NotNil(t, cost)
		require.Zero(t, *cost%100)
		require.GreaterOrEqual(t, *cost, prev)
		prev = *cost
	}
	require.Equal(t, 4500, *FlightCost(250)) // 2800 + 1200 + 500
}

func TestCarCost(t *testing.T) {
	require.Equal(t, 11600, CarCost(300, 2, CarSUV))
	// short trip billed at the daily minimum: 250*14 + 400
	require.Equal(t, 3900, CarCost(20, 1, CarSedan))
	require.Equal(t, CarCost(500, 1, CarSedan), CarCost(500, 1, "limousine"))
	require.Equal(t, 12400, CarCost(500, 1, CarHatchback))
}

func TestHotelCost(t *testing.T) {
	require.Equal(t, 25200, HotelCost(1, 3, RoomLuxury))
	require.Equal(t, 5000, HotelCost(2, 2, RoomStandard))
	require.Equal(t, 3800, HotelCost(3, 2, RoomDeluxe)) // 3840 -> 3800
	require.Equal(t, 2000, HotelCost(9, 1, "penthouse"))
}

func TestRoundToHalfUp(t *testing.T) {
	require.Equal(t, 200, RoundTo(100, 150))
	require.Equal(t, 100, RoundTo(100, 149.99))
	require.Equal(t, 100, RoundTo(50, 75))
	require.Equal(t, 0, RoundTo(50, 24.9))
}
