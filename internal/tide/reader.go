package tide

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// HeaderLines is the fixed number of metadata lines at the top of every
// gauge file. They describe the port and instrument and are skipped.
const HeaderLines = 11

// timestampLayout matches the combined date and time columns.
const timestampLayout = "2006/01/02 15:04:05"

const recordFields = 5 // cycle, date, time, sea level, residual

// ReadFile parses one tide-gauge data file into a Series.
func ReadFile(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, path)
}

// Read parses gauge records from r. The name is used only for error
// reporting. The returned series is sorted by timestamp ascending; rows
// whose readings carry a data flag are kept with the missing marker so gaps
// stay visible downstream.
func Read(r io.Reader, name string) (Series, error) {
	scanner := bufio.NewScanner(r)

	for i := 0; i < HeaderLines; i++ {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading %s: %w", name, err)
			}
			return nil, fmt.Errorf("%s: truncated header: got %d of %d lines", name, i, HeaderLines)
		}
	}

	var series Series
	lineNo := HeaderLines
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != recordFields {
			return nil, fmt.Errorf("%s:%d: expected %d columns, got %d", name, lineNo, recordFields, len(fields))
		}

		ts, err := time.Parse(timestampLayout, fields[1]+" "+fields[2])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad timestamp %q %q: %w", name, lineNo, fields[1], fields[2], err)
		}

		seaLevel, err := parseReading(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad sea level %q: %w", name, lineNo, fields[3], err)
		}
		residual, err := parseReading(fields[4])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad residual %q: %w", name, lineNo, fields[4], err)
		}

		series = append(series, Observation{Time: ts, SeaLevel: seaLevel, Residual: residual})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	// Input files are expected pre-sorted, but the merger relies on it.
	series.SortByTime()

	return series, nil
}

// parseReading converts one reading literal to a float. Values flagged by
// the gauge carry a trailing letter: M (missing), N (no data) or T
// (truncated). Those map to the missing marker, as does any other trailing
// non-digit since the flag letters are the only suffixes ever used in the
// historical records. Everything else must be a plain decimal number.
func parseReading(lit string) (float64, error) {
	last := lit[len(lit)-1]
	switch last {
	case 'M', 'N', 'T':
		return math.NaN(), nil
	}
	if last < '0' || last > '9' {
		return math.NaN(), nil
	}

	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}
