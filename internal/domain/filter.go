package domain

import "time"

// Filter narrows a read of the earthquakes table. A nil bound is open; set
// bounds are inclusive and combine with AND.
type Filter struct {
	TimeStart *time.Time
	TimeEnd   *time.Time

	DepthMin     *float64
	DepthMax     *float64
	MagnitudeMin *float64
	MagnitudeMax *float64
	LongitudeMin *float64
	LongitudeMax *float64
	LatitudeMin  *float64
	LatitudeMax  *float64
}
