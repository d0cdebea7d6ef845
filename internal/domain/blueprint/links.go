package blueprint

import (
	"net/url"
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

func citySlug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "-")
}

func flightLink(origin, destination string) string {
	return "https://www.skyscanner.co.in/transport/flights-from/" + citySlug(origin) + "-to/" + citySlug(destination)
}

func busLink(origin, destination string) string {
	return "https://www.redbus.in/bus-tickets/" + citySlug(origin) + "-to-" + citySlug(destination)
}

func carLink() string {
	return "https://www.olacabs.com/outstation"
}

func hotelLink(destination string) string {
	return "https://www.booking.com/searchresults.html?ss=" + queryComponent(destination)
}

// queryComponent escapes s as a query value with spaces as %20.
func queryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
