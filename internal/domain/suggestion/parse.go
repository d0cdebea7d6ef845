package suggestion

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	jsonFence = regexp.MustCompile("(?is)```json(.*?)```")
	anyFence  = regexp.MustCompile("(?s)```(.*?)```")
)

// ExtractJSON returns the body of the first ```json fence, else of the first plain fence,
// else the whole text, trimmed.
func ExtractJSON(text string) string {
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := anyFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

type itineraryWire struct {
	Suggestions []DayPlan `json:"suggestions"`
}

type backpackWire struct {
	Categories []struct {
		Category string    `json:"category"`
		Items    *[]string `json:"items"`
	} `json:"categories"`
}

// parseItinerary decodes and validates a model answer against a trip of duration days.
func parseItinerary(text string, duration int) ([]DayPlan, error) {
	var wire itineraryWire
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &wire); err != nil {
		return nil, fmt.Errorf("decode itinerary: %w", err)
	}
	if len(wire.Suggestions) == 0 {
		return nil, errors.New("itinerary has no suggestions")
	}
	seen := make(map[int]bool, len(wire.Suggestions))
	plans := make([]DayPlan, 0, len(wire.Suggestions))
	for _, s := range wire.Suggestions {
		if s.Day < 1 || s.Day > duration {
			return nil, fmt.Errorf("day %d outside 1..%d", s.Day, duration)
		}
		if seen[s.Day] {
			return nil, fmt.Errorf("day %d listed twice", s.Day)
		}
		seen[s.Day] = true
		activities, err := cleanList(s.Activities)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", s.Day, err)
		}
		plans = append(plans, DayPlan{Day: s.Day, Activities: activities})
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Day < plans[j].Day })
	return plans, nil
}

// parseBackpack decodes and validates a packing list answer.
func parseBackpack(text string) ([]Category, error) {
	var wire backpackWire
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &wire); err != nil {
		return nil, fmt.Errorf("decode backpack list: %w", err)
	}
	if len(wire.Categories) == 0 {
		return nil, errors.New("backpack list has no categories")
	}
	out := make([]Category, 0, len(wire.Categories))
	for i, c := range wire.Categories {
		name := strings.TrimSpace(c.Category)
		if name == "" {
			return nil, fmt.Errorf("category %d has no name", i)
		}
		if c.Items == nil {
			return nil, fmt.Errorf("category %q has no items array", name)
		}
		items := make([]string, 0, len(*c.Items))
		for _, item := range *c.Items {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		out = append(out, Category{Category: name, Items: items})
	}
	return out, nil
}

func cleanList(values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, errors.New("no activities")
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, errors.New("blank activity")
		}
		out = append(out, trimmed)
	}
	return out, nil
}
