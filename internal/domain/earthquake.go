package domain

import (
	"strconv"
	"time"
)

// TimestampLayout is the civil time format stored in the time column.
const TimestampLayout = "2006-01-02 15:04:05"

// Earthquake is one converted catalog row. ID is assigned by storage and is
// zero until the record has been read back.
type Earthquake struct {
	ID        int64     `json:"id,omitempty"`
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Depth     float64   `json:"depth"`
	Magnitude float64   `json:"magnitude"`
	Place     string    `json:"place"`
	Alert     string    `json:"alert"`
	Tsunami   int       `json:"tsunami"`
	URL       string    `json:"url"`
}

// Timestamp renders Time in TimestampLayout.
func (e Earthquake) Timestamp() string {
	return e.Time.UTC().Format(TimestampLayout)
}

// CSVRow renders the record back into the positional input layout. The
// unused leading column carries id.
func (e Earthquake) CSVRow(id string) []string {
	return []string{
		id,
		strconv.FormatInt(e.Time.Unix()*1000, 10),
		strconv.FormatFloat(e.Latitude, 'f', -1, 64),
		strconv.FormatFloat(e.Longitude, 'f', -1, 64),
		strconv.FormatFloat(e.Depth, 'f', -1, 64),
		strconv.FormatFloat(e.Magnitude, 'f', -1, 64),
		e.Place,
		e.Alert,
		strconv.Itoa(e.Tsunami),
		e.URL,
	}
}

// Header is the column header written by CSVRow producers.
var Header = []string{"id", "time", "latitude", "longitude", "depth", "mag", "place", "alert", "tsunami", "url"}

// LoadedEvent is a committed earthquake as published to downstream consumers.
type LoadedEvent struct {
	Key        string     `json:"key"`
	Earthquake Earthquake `json:"earthquake"`
	LoadedAt   time.Time  `json:"loaded_at"`
}
