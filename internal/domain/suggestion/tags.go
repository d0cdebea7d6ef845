package suggestion

import "strings"

// Tag is a weather category used to pick activities.
type Tag string

const (
	TagAny    Tag = "any"
	TagClear  Tag = "clear"
	TagCloudy Tag = "cloudy"
	TagRainy  Tag = "rainy"
	TagCold   Tag = "cold"
	TagHot    Tag = "hot"
	TagSnowy  Tag = "snowy"
	TagStormy Tag = "stormy"
)

// poolOrder is the order in which tag pools are appended after the any pool.
var poolOrder = []Tag{TagClear, TagCloudy, TagRainy, TagCold, TagHot, TagSnowy, TagStormy}

var descriptionTags = []struct {
	tag      Tag
	keywords []string
}{
	{TagRainy, []string{"rain", "drizzle", "shower"}},
	{TagSnowy, []string{"snow", "sleet"}},
	{TagStormy, []string{"storm", "thunder"}},
	{TagCloudy, []string{"cloud", "overcast", "fog", "mist"}},
	{TagClear, []string{"clear", "sun"}},
}

// TagSet is the set of tags that apply to a day. TagAny is always present.
type TagSet map[Tag]bool

// Has reports membership.
func (s TagSet) Has(t Tag) bool { return s[t] }

// ClassifyWeather derives the activity tags for a single day.
func ClassifyWeather(day DayWeather, th Thresholds) TagSet {
	tags := TagSet{TagAny: true}
	desc := strings.ToLower(day.Description)
	for _, dt := range descriptionTags {
		if containsAny(desc, dt.keywords) {
			tags[dt.tag] = true
		}
	}
	if day.TempMax != nil {
		if *day.TempMax >= th.HotMax {
			tags[TagHot] = true
		}
		if *day.TempMax <= th.ColdMax {
			tags[TagCold] = true
		}
	}
	if day.TempMin != nil && *day.TempMin <= th.ColdMin {
		tags[TagCold] = true
	}
	return tags
}

// packingConditions summarises the whole trip for the packing list.
type packingConditions struct {
	cold, hot, rainy bool
}

func classifyTrip(days []DayWeather, th Thresholds) packingConditions {
	var pc packingConditions
	for _, d := range days {
		if (d.TempMax != nil && *d.TempMax <= th.PackColdMax) || (d.TempMin != nil && *d.TempMin <= th.PackColdMin) {
			pc.cold = true
		}
		if d.TempMax != nil && *d.TempMax >= th.HotMax {
			pc.hot = true
		}
		if containsAny(strings.ToLower(d.Description), []string{"rain", "drizzle", "shower"}) {
			pc.rainy = true
		}
	}
	return pc
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
