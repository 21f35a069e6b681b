package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "http://example.com"

func losAngelesRow() []string {
	return []string{"x", "0", "34.05", "-118.25", "10.0", "5.2", "Los Angeles", "green", "0", testURL}
}

func TestParseRow(t *testing.T) {
	t.Run("los angeles scenario", func(t *testing.T) {
		eq, err := ParseRow(losAngelesRow())

		require.NoError(t, err)
		assert.Equal(t, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), eq.Time)
		assert.Equal(t, "1970-01-01 00:00:00", eq.Timestamp())
		assert.Equal(t, 34.05, eq.Latitude)
		assert.Equal(t, -118.25, eq.Longitude)
		assert.Equal(t, 10.0, eq.Depth)
		assert.Equal(t, 5.2, eq.Magnitude)
		assert.Equal(t, "Los Angeles", eq.Place)
		assert.Equal(t, "green", eq.Alert)
		assert.Equal(t, 0, eq.Tsunami)
		assert.Equal(t, testURL, eq.URL)
		assert.Zero(t, eq.ID)
	})

	t.Run("empty text columns kept", func(t *testing.T) {
		row := losAngelesRow()
		row[6], row[7], row[9] = "", "", ""

		eq, err := ParseRow(row)

		require.NoError(t, err)
		assert.Empty(t, eq.Place)
		assert.Empty(t, eq.Alert)
		assert.Empty(t, eq.URL)
	})

	t.Run("text columns verbatim", func(t *testing.T) {
		row := losAngelesRow()
		row[6] = "  12 km SSW of Idyllwild, CA "

		eq, err := ParseRow(row)

		require.NoError(t, err)
		assert.Equal(t, "  12 km SSW of Idyllwild, CA ", eq.Place)
	})

	t.Run("numeric columns tolerate surrounding whitespace", func(t *testing.T) {
		row := losAngelesRow()
		row[2] = " 34.05 "
		row[8] = " 1"

		eq, err := ParseRow(row)

		require.NoError(t, err)
		assert.Equal(t, 34.05, eq.Latitude)
		assert.Equal(t, 1, eq.Tsunami)
	})

	t.Run("extra columns ignored", func(t *testing.T) {
		row := append(losAngelesRow(), "extra", "more")

		_, err := ParseRow(row)

		require.NoError(t, err)
	})

	t.Run("short row", func(t *testing.T) {
		_, err := ParseRow([]string{"x", "0", "34.05"})

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrShortRow))
	})
}

func TestParseRow_FieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		index int
		value string
		field string
	}{
		{"time not numeric", 1, "yesterday", "time"},
		{"time not finite", 1, "inf", "time"},
		{"latitude", 2, "north", "latitude"},
		{"longitude", 3, "", "longitude"},
		{"depth", 4, "deep", "depth"},
		{"magnitude", 5, "big", "magnitude"},
		{"tsunami not numeric", 8, "yes", "tsunami"},
		{"tsunami float", 8, "1.0", "tsunami"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := losAngelesRow()
			row[tt.index] = tt.value

			eq, err := ParseRow(row)

			require.Error(t, err)
			assert.Equal(t, Earthquake{}, eq)
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, tt.value, fe.Value)
			assert.Contains(t, err.Error(), "parse "+tt.field)
		})
	}
}

func TestEpochMillisToTime(t *testing.T) {
	tests := []struct {
		name     string
		ms       float64
		expected time.Time
	}{
		{"epoch", 0, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"sub-second truncated", 1999, time.Date(1970, 1, 1, 0, 0, 1, 0, time.UTC)},
		{"usgs sample", 1704067200123, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"negative floors", -500, time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"fractional millis", 1000.9, time.Date(1970, 1, 1, 0, 0, 1, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EpochMillisToTime(tt.ms)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestEpochMillisToTime_Invalid(t *testing.T) {
	for _, ms := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e20, -1e20} {
		t.Run(strconv.FormatFloat(ms, 'g', -1, 64), func(t *testing.T) {
			_, err := EpochMillisToTime(ms)
			require.Error(t, err)
		})
	}
}

func TestCSVRowRoundTrip(t *testing.T) {
	eq := Earthquake{
		Time:      time.Date(2024, 3, 5, 17, 42, 9, 0, time.UTC),
		Latitude:  61.1234,
		Longitude: -149.9,
		Depth:     33.5,
		Magnitude: 4.7,
		Place:     "10 km N of Anchorage, Alaska",
		Alert:     "",
		Tsunami:   1,
		URL:       "https://earthquake.usgs.gov/earthquakes/eventpage/ak024",
	}

	row := eq.CSVRow("ak024")
	require.Len(t, row, RowWidth)
	assert.Equal(t, "ak024", row[0])
	assert.Len(t, Header, RowWidth)

	parsed, err := ParseRow(row)
	require.NoError(t, err)
	assert.Equal(t, eq, parsed)
}

func TestNewLoadedEvent(t *testing.T) {
	fixed := time.Date(2024, 4, 26, 12, 30, 45, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	eq, err := ParseRow(losAngelesRow())
	require.NoError(t, err)

	ev := NewLoadedEvent(eq)
	assert.Equal(t, fixed, ev.LoadedAt)
	assert.Equal(t, eq, ev.Earthquake)
	assert.True(t, strings.HasPrefix(ev.Key, "eq-"))

	t.Run("deterministic key", func(t *testing.T) {
		assert.Equal(t, ev.Key, NewLoadedEvent(eq).Key)
	})

	t.Run("different records produce different keys", func(t *testing.T) {
		other := eq
		other.Magnitude = 5.3
		assert.NotEqual(t, ev.Key, NewLoadedEvent(other).Key)
	})
}
