package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// RowWidth is the number of leading columns a row must carry.
const RowWidth = 10

// ErrShortRow is returned for rows with fewer than RowWidth columns.
var ErrShortRow = errors.New("row has too few columns")

// Column indexes within an input row.
const (
	colTime      = 1
	colLatitude  = 2
	colLongitude = 3
	colDepth     = 4
	colMagnitude = 5
	colPlace     = 6
	colAlert     = 7
	colTsunami   = 8
	colURL       = 9
)

// minEpochSeconds and maxEpochSeconds bound the years 0001 through 9999.
var (
	minEpochSeconds = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxEpochSeconds = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()
)

// FieldError reports the column that failed conversion.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ParseRow converts one data row. The first failing column is reported as a
// *FieldError and no partial record is returned.
func ParseRow(row []string) (Earthquake, error) {
	if len(row) < RowWidth {
		return Earthquake{}, fmt.Errorf("%w: got %d, want %d", ErrShortRow, len(row), RowWidth)
	}

	ts, err := parseEpochMillis(row[colTime])
	if err != nil {
		return Earthquake{}, &FieldError{Field: "time", Value: row[colTime], Err: err}
	}

	var floats [4]float64
	for i, name := range []string{"latitude", "longitude", "depth", "magnitude"} {
		raw := row[colLatitude+i]
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Earthquake{}, &FieldError{Field: name, Value: raw, Err: err}
		}
		floats[i] = v
	}

	tsunami, err := strconv.Atoi(strings.TrimSpace(row[colTsunami]))
	if err != nil {
		return Earthquake{}, &FieldError{Field: "tsunami", Value: row[colTsunami], Err: err}
	}

	return Earthquake{
		Time:      ts,
		Latitude:  floats[0],
		Longitude: floats[1],
		Depth:     floats[2],
		Magnitude: floats[3],
		Place:     row[colPlace],
		Alert:     row[colAlert],
		Tsunami:   tsunami,
		URL:       row[colURL],
	}, nil
}

// EpochMillisToTime converts epoch milliseconds to a whole-second UTC time,
// flooring any fractional second.
func EpochMillisToTime(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, fmt.Errorf("epoch value %v is not finite", ms)
	}
	secs := math.Floor(ms / 1000)
	if secs < float64(minEpochSeconds) || secs > float64(maxEpochSeconds) {
		return time.Time{}, fmt.Errorf("epoch value %v is out of range", ms)
	}
	return time.Unix(int64(secs), 0).UTC(), nil
}

func parseEpochMillis(s string) (time.Time, error) {
	ms, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return time.Time{}, err
	}
	return EpochMillisToTime(ms)
}

// NewLoadedEvent stamps a committed record for publishing.
func NewLoadedEvent(e Earthquake) LoadedEvent {
	return LoadedEvent{
		Key:        eventKey(e),
		Earthquake: e,
		LoadedAt:   clock.Now().UTC(),
	}
}

// eventKey is a deterministic key over the identifying fields so that
// downstream consumers can deduplicate replays of the same file.
func eventKey(e Earthquake) string {
	input := fmt.Sprintf("%d|%.4f|%.4f|%g|%g", e.Time.Unix(), e.Latitude, e.Longitude, e.Depth, e.Magnitude)
	hash := sha256.Sum256([]byte(input))
	return "eq-" + hex.EncodeToString(hash[:8])
}
