// Command genmock writes a synthetic USGS-style earthquake CSV for local runs
// and integration tests. Output is deterministic for a given seed, and every
// well-formed row is checked against the domain parser before it is written.
//
// Usage:
//
//	go run ./cmd/genmock -out data/earthquakes.csv -rows 1000 -bad 25
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/quake-data-loader/internal/domain"
)

var baseDate = time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

var places = []string{
	"10 km NE of Ridgecrest, CA",
	"5 km W of Prague, Oklahoma",
	"Fox Islands, Aleutian Islands, Alaska",
	"35 km SSE of Hualien City, Taiwan",
	"off the coast of Central Chile",
	"12 km SSW of Idyllwild, CA",
}

var alerts = []string{"", "", "", "green", "yellow", "orange", "red"}

// corruptions replace one column with an unparseable value.
var corruptions = []struct {
	col   int
	value string
}{
	{1, "not-a-time"},
	{2, "north"},
	{3, ""},
	{4, "deep"},
	{5, "M4.5"},
	{8, "yes"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the earthquake CSV")
	rows := flag.Int("rows", 500, "number of well-formed rows")
	bad := flag.Int("bad", 0, "number of malformed rows mixed in")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := generate(f, *rows, *bad, *seed)
	if err != nil {
		return fmt.Errorf("generate %s: %w", *out, err)
	}

	log.Printf("wrote %s: %d rows (%d malformed)", *out, s.good+s.bad, s.bad)
	log.Printf("tsunami flagged: %d, max magnitude: %g", s.tsunami, s.maxMagnitude)
	return nil
}

type stats struct {
	good         int
	bad          int
	tsunami      int
	maxMagnitude float64
}

// generate writes the header followed by good well-formed rows with bad
// malformed rows spread evenly among them.
func generate(w io.Writer, good, bad int, seed uint64) (stats, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.Header); err != nil {
		return stats{}, err
	}

	var s stats
	every := 0
	if bad > 0 {
		every = max(1, good/bad)
	}

	for i := 0; i < good; i++ {
		eq := randomEarthquake(rng, i)
		row := eq.CSVRow(fmt.Sprintf("mock%05d", i))
		if _, err := domain.ParseRow(row); err != nil {
			return s, fmt.Errorf("row %d does not parse: %w", i, err)
		}
		if err := cw.Write(row); err != nil {
			return s, err
		}
		s.good++
		s.tsunami += eq.Tsunami
		s.maxMagnitude = max(s.maxMagnitude, eq.Magnitude)

		if every > 0 && s.bad < bad && (i+1)%every == 0 {
			if err := cw.Write(corrupt(row, s.bad)); err != nil {
				return s, err
			}
			s.bad++
		}
	}
	// Remaining malformed rows when bad > good.
	for s.bad < bad {
		eq := randomEarthquake(rng, good+s.bad)
		if err := cw.Write(corrupt(eq.CSVRow("bad"), s.bad)); err != nil {
			return s, err
		}
		s.bad++
	}

	cw.Flush()
	return s, cw.Error()
}

func randomEarthquake(rng *rand.Rand, i int) domain.Earthquake {
	offset := time.Duration(rng.IntN(30*24*3600)) * time.Second
	mag := float64(int(rng.Float64()*70))/10 + 1
	tsunami := 0
	if mag >= 6.5 && rng.IntN(2) == 0 {
		tsunami = 1
	}
	return domain.Earthquake{
		Time:      baseDate.Add(offset),
		Latitude:  float64(int(rng.Float64()*180000))/1000 - 90,
		Longitude: float64(int(rng.Float64()*360000))/1000 - 180,
		Depth:     float64(int(rng.Float64()*7000)) / 10,
		Magnitude: mag,
		Place:     places[rng.IntN(len(places))],
		Alert:     alerts[rng.IntN(len(alerts))],
		Tsunami:   tsunami,
		URL:       fmt.Sprintf("https://earthquake.usgs.gov/earthquakes/eventpage/mock%05d", i),
	}
}

func corrupt(row []string, n int) []string {
	c := corruptions[n%len(corruptions)]
	out := append([]string(nil), row...)
	out[c.col] = c.value
	return out
}
