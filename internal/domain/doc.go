// Package domain models USGS earthquake feed records as loaded into the
// `earthquakes` table.
//
// # Data Source
//
// The input is a CSV export of the USGS earthquake catalog. The first line is
// a header and is never interpreted; columns are addressed by position only.
//
//	index  column     conversion
//	0      (unused)   ignored, typically the USGS event id
//	1      time       epoch milliseconds, float
//	2      latitude   float, degrees
//	3      longitude  float, degrees
//	4      depth      float, kilometres
//	5      magnitude  float
//	6      place      text, verbatim
//	7      alert      text, verbatim (PAGER level: green, yellow, orange, red, or empty)
//	8      tsunami    integer flag, 0 or 1 expected but not enforced
//	9      url        text, verbatim
//
// # Time Conversion
//
// Epoch milliseconds are divided by 1000 and floored to whole seconds, then
// interpreted as UTC. An epoch value of 0 becomes "1970-01-01 00:00:00".
// The sub-second part is dropped, never rounded.
//
// # Failure Model
//
// A row either converts completely or not at all. [ParseRow] reports the first
// column that failed as a [*FieldError]; callers skip the row.
package domain
