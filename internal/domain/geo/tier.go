package geo

import (
	"regexp"
	"strings"
)

// TierBasis explains how a tier was derived.
type TierBasis string

const (
	BasisMetroMatch    TierBasis = "metro_match"
	BasisPlace         TierBasis = "place"
	BasisNoPlace       TierBasis = "no_place_context"
	BasisContextAbsent TierBasis = "context_absent"
)

// Defaulted reports whether the tier came from a fallback rather than matched data.
func (b TierBasis) Defaulted() bool {
	return b == BasisNoPlace || b == BasisContextAbsent
}

// DefaultMetroCities is the built-in metro allow-list.
var DefaultMetroCities = []string{"Mumbai", "Delhi", "Bangalore", "Chennai", "Kolkata", "Hyderabad", "Goa"}

// TierClassifier maps geocoder context to a Tier using a metro allow-list.
type TierClassifier struct {
	metro *regexp.Regexp
}

// NewTierClassifier compiles a case-insensitive matcher for the given metro names.
func NewTierClassifier(metros []string) *TierClassifier {
	parts := make([]string, 0, len(metros))
	for _, m := range metros {
		if m = strings.TrimSpace(m); m != "" {
			parts = append(parts, regexp.QuoteMeta(m))
		}
	}
	if len(parts) == 0 {
		return &TierClassifier{}
	}
	return &TierClassifier{metro: regexp.MustCompile("(?i)" + strings.Join(parts, "|"))}
}

// Classify inspects the first place-level context entry.
func (c *TierClassifier) Classify(context []ContextEntry) (Tier, TierBasis) {
	if context == nil {
		return defaultTier, BasisContextAbsent
	}
	for _, entry := range context {
		if !strings.HasPrefix(entry.ID, "place") {
			continue
		}
		if c.metro != nil && c.metro.MatchString(entry.Text) {
			return TierMetro, BasisMetroMatch
		}
		return TierCity, BasisPlace
	}
	return TierTown, BasisNoPlace
}
