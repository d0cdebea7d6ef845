// Package forecast turns a raw 3-hourly weather feed into fixed-length daily summaries.
package forecast

import (
	"sort"
	"strings"
	"time"

	"github.com/yanqian/trip-blueprint/pkg/util"
)

type bucket struct {
	date         string
	tempMax      float64
	tempMin      float64
	descriptions []string
	icon         string
}

// ClampDays bounds a requested trip length to the provider horizon.
func ClampDays(days int) int {
	switch {
	case days < 1:
		return 1
	case days > MaxDays:
		return MaxDays
	default:
		return days
	}
}

// Normalize produces one Day per requested day starting at start.
//
// Entries outside [start, start+days) are ignored unless that window is empty, in which
// case the whole feed is used. An empty feed yields a single placeholder dated now.
// When fewer buckets than days exist, the last bucket is repeated.
func Normalize(entries []Entry, start time.Time, days int, now time.Time) []Day {
	days = ClampDays(days)
	from := truncateDay(start)
	to := from.AddDate(0, 0, days)

	buckets := bucketize(entries, func(ts time.Time) bool {
		return !ts.Before(from) && ts.Before(to)
	})
	if len(buckets) == 0 {
		buckets = bucketize(entries, nil)
	}
	if len(buckets) == 0 {
		return []Day{{
			Date:        now.UTC().Format(util.DateLayout),
			TempMax:     placeholderMax,
			TempMin:     placeholderMin,
			Description: placeholderText,
			Icon:        defaultIcon,
		}}
	}

	out := make([]Day, 0, days)
	for i := 0; i < days; i++ {
		b := buckets[len(buckets)-1]
		if i < len(buckets) {
			b = buckets[i]
		}
		out = append(out, b.toDay())
	}
	return out
}

func bucketize(entries []Entry, keep func(time.Time) bool) []*bucket {
	byDay := make(map[string]*bucket)
	for _, e := range entries {
		ts := e.Time.UTC()
		if keep != nil && !keep(ts) {
			continue
		}
		key := ts.Format(util.DateLayout)
		b, ok := byDay[key]
		if !ok {
			icon := e.Icon
			if icon == "" {
				icon = defaultIcon
			}
			byDay[key] = &bucket{
				date:         key,
				tempMax:      e.TempMax,
				tempMin:      e.TempMin,
				descriptions: []string{e.Description},
				icon:         icon,
			}
			continue
		}
		if e.TempMax > b.tempMax {
			b.tempMax = e.TempMax
		}
		if e.TempMin < b.tempMin {
			b.tempMin = e.TempMin
		}
		b.descriptions = append(b.descriptions, e.Description)
	}

	out := make([]*bucket, 0, len(byDay))
	for _, b := range byDay {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].date < out[j].date })
	return out
}

func (b *bucket) toDay() Day {
	description := defaultDescription
	for _, d := range b.descriptions {
		if strings.TrimSpace(d) != "" {
			description = d
			break
		}
	}
	return Day{
		Date:        b.date,
		TempMax:     b.tempMax,
		TempMin:     b.tempMin,
		Description: description,
		Icon:        b.icon,
	}
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
