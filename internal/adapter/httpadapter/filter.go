package httpadapter

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-data-loader/internal/domain"
)

// timeLayouts are tried in order for time_start and time_end.
var timeLayouts = []string{
	domain.TimestampLayout,
	time.RFC3339,
	time.DateOnly,
}

// parseFilter reads the optional range parameters of GET /earthquakes.
// Only the first value of a repeated parameter is used.
func parseFilter(q url.Values) (domain.Filter, error) {
	var f domain.Filter
	var err error

	if f.TimeStart, err = timeParam(q, "time_start"); err != nil {
		return f, err
	}
	if f.TimeEnd, err = timeParam(q, "time_end"); err != nil {
		return f, err
	}

	for _, p := range []struct {
		name string
		dst  **float64
	}{
		{"depth_min", &f.DepthMin},
		{"depth_max", &f.DepthMax},
		{"magnitude_min", &f.MagnitudeMin},
		{"magnitude_max", &f.MagnitudeMax},
		{"longitude_min", &f.LongitudeMin},
		{"longitude_max", &f.LongitudeMax},
		{"latitude_min", &f.LatitudeMin},
		{"latitude_max", &f.LatitudeMax},
	} {
		if *p.dst, err = floatParam(q, p.name); err != nil {
			return f, err
		}
	}
	return f, nil
}

func timeParam(q url.Values, name string) (*time.Time, error) {
	if !q.Has(name) {
		return nil, nil
	}
	raw := q.Get(name)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid %s %q: want YYYY-MM-DD HH:MM:SS, RFC 3339, or YYYY-MM-DD", name, raw)
}

func floatParam(q url.Values, name string) (*float64, error) {
	if !q.Has(name) {
		return nil, nil
	}
	raw := q.Get(name)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid %s %q: want a number", name, raw)
	}
	return &v, nil
}
