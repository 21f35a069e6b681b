// Package csvfile reads comma-delimited earthquake exports from the local filesystem.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Reader loads a whole CSV file into memory. Rows may differ in width;
// row-level validation is left to the caller.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// ReadAll returns every row of the file at path, header included, in file
// order. A blank line yields an empty row so row positions match the line
// layout of the file.
func (r *Reader) ReadAll(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		rows   [][]string
		line   = 1 // first line not yet accounted for
		offset int64
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}

		start, _ := cr.FieldPos(0)
		rows = appendBlank(rows, start-line)
		rows = append(rows, rec)

		next := cr.InputOffset()
		line += bytes.Count(data[offset:next], []byte{'\n'})
		offset = next
	}
	return appendBlank(rows, bytes.Count(data[offset:], []byte{'\n'})), nil
}

func appendBlank(rows [][]string, n int) [][]string {
	for range n {
		rows = append(rows, []string{})
	}
	return rows
}
