package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)

func TestNormalizeEmptyFeedReturnsPlaceholder(t *testing.T) {
	days := Normalize(nil, day("2024-07-03"), 5, testNow)

	require.Len(t, days, 1)
	require.Equal(t, "2024-07-01", days[0].Date)
	require.Equal(t, 25.0, days[0].TempMax)
	require.Equal(t, 15.0, days[0].TempMin)
	require.Equal(t, "No forecast data available", days[0].Description)
	require.Equal(t, "02d", days[0].Icon)
}

func TestNormalizeAggregatesWithinDay(t *testing.T) {
	feed := []Entry{
		entry("2024-07-03T00:00:00Z", 24, 21, "", "04n"),
		entry("2024-07-03T06:00:00Z", 29, 23, "light rain", "10d"),
		entry("2024-07-03T12:00:00Z", 31.5, 25, "overcast clouds", "04d"),
		entry("2024-07-04T03:00:00Z", 27, 20, "clear sky", "01d"),
	}

	days := Normalize(feed, day("2024-07-03"), 2, testNow)

	require.Len(t, days, 2)
	require.Equal(t, Day{Date: "2024-07-03", TempMax: 31.5, TempMin: 21, Description: "light rain", Icon: "04n"}, days[0])
	require.Equal(t, "2024-07-04", days[1].Date)
}

func TestNormalizeForwardFillsMissingTrailingDays(t *testing.T) {
	feed := []Entry{
		entry("2024-07-03T09:00:00Z", 30, 22, "scattered clouds", "03d"),
		entry("2024-07-04T09:00:00Z", 28, 20, "moderate rain", "10d"),
	}

	days := Normalize(feed, day("2024-07-03"), 5, testNow)

	require.Len(t, days, 5)
	require.Equal(t, "2024-07-03", days[0].Date)
	for i := 2; i < 5; i++ {
		require.Equal(t, days[1], days[i])
	}
}

func TestNormalizeFallsBackToWholeFeed(t *testing.T) {
	feed := []Entry{
		entry("2024-07-02T09:00:00Z", 22, 18, "mist", "50d"),
		entry("2024-07-01T09:00:00Z", 26, 19, "few clouds", "02d"),
	}

	days := Normalize(feed, day("2024-09-15"), 3, testNow)

	require.Len(t, days, 3)
	require.Equal(t, "2024-07-01", days[0].Date)
	require.Equal(t, "2024-07-02", days[1].Date)
	require.Equal(t, days[1], days[2])
}

func TestNormalizeIgnoresEntriesOutsideWindow(t *testing.T) {
	feed := []Entry{
		entry("2024-07-02T21:00:00Z", 40, 35, "heat", "01d"),
		entry("2024-07-03T09:00:00Z", 30, 22, "", ""),
		entry("2024-07-04T09:00:00Z", 10, 2, "snow", "13d"),
	}

	days := Normalize(feed, day("2024-07-03"), 1, testNow)

	require.Equal(t, []Day{{Date: "2024-07-03", TempMax: 30, TempMin: 22, Description: "clear sky", Icon: "02d"}}, days)
}

func TestNormalizeLengthMatchesClampedDays(t *testing.T) {
	feed := []Entry{entry("2024-07-03T09:00:00Z", 30, 22, "clear sky", "01d")}
	for _, tc := range []struct{ requested, want int }{{0, 1}, {1, 1}, {3, 3}, {5, 5}, {9, 5}} {
		require.Len(t, Normalize(feed, day("2024-07-03"), tc.requested, testNow), tc.want)
	}
}

func entry(ts string, max, min float64, desc, icon string) Entry {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return Entry{Time: parsed, TempMax: max, TempMin: min, Description: desc, Icon: icon}
}

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}
