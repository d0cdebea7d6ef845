// Package pricing estimates transport and accommodation costs for a trip.
// All functions are pure; the constants are business rules shared with existing clients.
package pricing

import (
	"math"
	"strings"
)

const (
	flightMinDistanceKm = 250
	flightBaseFare      = 2800
	flightPerKm         = 4.8
	flightSurcharge     = 500

	busMinDistanceKm = 50
	busPerKm         = 2.2

	carMinDailyKm       = 250
	carDriverAllowance  = 400
	defaultCarRatePerKm = 14

	defaultHotelNightly = 2000
)

// CarType selects the per-km outstation rental rate.
type CarType string

const (
	CarHatchback CarType = "hatchback"
	CarSedan     CarType = "sedan"
	CarSUV       CarType = "suv"
)

// RoomType scales the nightly hotel rate.
type RoomType string

const (
	RoomStandard RoomType = "standard"
	RoomDeluxe   RoomType = "deluxe"
	RoomLuxury   RoomType = "luxury"
)

var carRates = map[CarType]float64{
	CarHatchback: 12,
	CarSedan:     14,
	CarSUV:       18,
}

var tierNightlyRates = map[int]float64{
	1: 3500,
	2: 2500,
	3: 1200,
}

var roomMultipliers = map[RoomType]float64{
	RoomStandard: 1,
	RoomDeluxe:   1.6,
	RoomLuxury:   2.4,
}

// RoundTo rounds value half-up to the nearest multiple of unit.
func RoundTo(unit, value float64) int {
	return int(math.Floor(value/unit+0.5) * unit)
}

// FlightCost returns the per-person economy fare, or nil when the distance is too short to fly.
func FlightCost(distanceKm float64) *int {
	if distanceKm < flightMinDistanceKm {
		return nil
	}
	cost := RoundTo(100, flightBaseFare+distanceKm*flightPerKm+flightSurcharge)
	return &cost
}

// BusCost returns the per-person sleeper fare, or nil below the minimum bus distance.
func BusCost(distanceKm float64) *int {
	if distanceKm < busMinDistanceKm {
		return nil
	}
	cost := RoundTo(50, distanceKm*busPerKm)
	return &cost
}

// CarCost returns the total outstation rental cost for the whole party.
// Billing covers the return leg with a per-day minimum distance.
func CarCost(distanceKm float64, days int, carType CarType) int {
	rate, ok := carRates[CarType(strings.ToLower(string(carType)))]
	if !ok {
		rate = defaultCarRatePerKm
	}
	billable := math.Max(distanceKm*2, float64(carMinDailyKm*days))
	return RoundTo(100, billable*rate+float64(carDriverAllowance*days))
}

// HotelCost returns the total stay cost for duration nights at the destination tier.
func HotelCost(tier, duration int, roomType RoomType) int {
	base, ok := tierNightlyRates[tier]
	if !ok {
		base = defaultHotelNightly
	}
	multiplier, ok := roomMultipliers[RoomType(strings.ToLower(string(roomType)))]
	if !ok {
		multiplier = 1
	}
	return RoundTo(100, base*multiplier*float64(duration))
}
