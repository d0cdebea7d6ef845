package suggestion

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

// activitiesPerDay is how many distinct activities the local generator plans per day.
const activitiesPerDay = 4

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// fallbackItinerary plans every day from the activity library using that day's weather.
func fallbackItinerary(destination string, duration int, forecast []DayWeather, th Thresholds, rnd Random) []DayPlan {
	if strings.TrimSpace(destination) == "" {
		destination = "your destination"
	}
	plans := make([]DayPlan, 0, duration)
	for day := 1; day <= duration; day++ {
		tags := ClassifyWeather(weatherForDay(forecast, day), th)
		pool := append([]string(nil), activityLibrary[TagAny]...)
		for _, tag := range poolOrder {
			if tags.Has(tag) {
				pool = append(pool, activityLibrary[tag]...)
			}
		}
		picked := sample(pool, activitiesPerDay, rnd)
		for i, tpl := range picked {
			picked[i] = strings.ReplaceAll(tpl, destinationPlaceholder, destination)
		}
		plans = append(plans, DayPlan{Day: day, Activities: picked})
	}
	return plans
}

// weatherForDay returns the forecast of a 1-based day, else the first day, else nothing.
func weatherForDay(forecast []DayWeather, day int) DayWeather {
	if day-1 < len(forecast) {
		return forecast[day-1]
	}
	if len(forecast) > 0 {
		return forecast[0]
	}
	return DayWeather{}
}

// fallbackBackpack builds a packing list from the library using trip-wide conditions.
func fallbackBackpack(duration, travelers int, forecast []DayWeather, th Thresholds, rnd Random) []Category {
	cond := classifyTrip(forecast, th)
	groups := packingLibrary(duration, travelers)
	out := make([]Category, 0, len(groups))
	for _, g := range groups {
		var items []string
		seen := make(map[string]struct{})
		add := func(list []string) {
			for _, item := range list {
				if _, dup := seen[item]; dup {
					continue
				}
				seen[item] = struct{}{}
				items = append(items, item)
			}
		}
		add(g.base)
		if cond.cold {
			add(g.cold)
		}
		if cond.hot {
			add(g.hot)
		}
		if cond.rainy {
			add(g.rainy)
		}
		add(g.any)
		out = append(out, Category{Category: g.name, Items: sample(items, maxItemsPerCategory, rnd)})
	}
	return out
}

// sample draws up to count distinct elements without replacement.
func sample(pool []string, count int, rnd Random) []string {
	rest := append([]string(nil), pool...)
	out := make([]string, 0, min(count, len(rest)))
	for len(rest) > 0 && len(out) < count {
		idx := rnd.IntN(len(rest))
		out = append(out, rest[idx])
		rest = append(rest[:idx], rest[idx+1:]...)
	}
	return out
}

func itoa(n int) string { return strconv.Itoa(n) }
