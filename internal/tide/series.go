// Package tide models tide-gauge observations as an ordered time series and
// provides the cleaning operations the analysis pipeline is built on:
// merging per-file series, windowing with mean removal, and locating the
// longest gap-free stretch of data.
package tide

import (
	"errors"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoObservations is returned when an operation needs at least one present
// (non-missing) sea-level value and the series has none.
var ErrNoObservations = errors.New("series contains no valid sea level observations")

// Observation is a single tide-gauge measurement.
type Observation struct {
	Time     time.Time
	SeaLevel float64 // NaN when the raw reading was flagged as missing
	Residual float64 // secondary channel, carried through but not analyzed
}

// Missing reports whether the sea-level reading was flagged in the source
// file and replaced with the missing marker.
func (o Observation) Missing() bool {
	return math.IsNaN(o.SeaLevel)
}

// Series is a sequence of observations ordered by time. Missing readings are
// kept in place so the gap structure of the record is preserved.
type Series []Observation

// SortByTime orders the series by timestamp ascending. The sort is stable so
// observations with identical timestamps keep their input order.
func (s Series) SortByTime() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Time.Before(s[j].Time)
	})
}

// Merge combines any number of series into a single time-ordered series.
// Observations are never dropped or deduplicated; overlapping inputs simply
// interleave by timestamp.
func Merge(series ...Series) Series {
	n := 0
	for _, s := range series {
		n += len(s)
	}

	merged := make(Series, 0, n)
	for _, s := range series {
		merged = append(merged, s...)
	}
	merged.SortByTime()

	return merged
}

// Present extracts the timestamps and sea levels of all non-missing
// observations, preserving order.
func (s Series) Present() ([]time.Time, []float64) {
	times := make([]time.Time, 0, len(s))
	levels := make([]float64, 0, len(s))
	for _, o := range s {
		if o.Missing() {
			continue
		}
		times = append(times, o.Time)
		levels = append(levels, o.SeaLevel)
	}
	return times, levels
}

// Year returns a new series holding the observations from one calendar year,
// with the mean of the present sea levels subtracted from every present
// value. The receiver is not modified.
func (s Series) Year(year int) Series {
	sub := make(Series, 0, len(s))
	for _, o := range s {
		if o.Time.Year() == year {
			sub = append(sub, o)
		}
	}
	return removeMean(sub)
}

// Range returns a new series holding the observations with timestamps in the
// inclusive interval [start, end], with the mean of the present sea levels
// subtracted from every present value. The receiver is not modified.
func (s Series) Range(start, end time.Time) Series {
	sub := make(Series, 0, len(s))
	for _, o := range s {
		if o.Time.Before(start) || o.Time.After(end) {
			continue
		}
		sub = append(sub, o)
	}
	return removeMean(sub)
}

// removeMean subtracts the mean of the present sea levels from every present
// value in place. A selection with no present values is left untouched (the
// mean is undefined, so the subtraction is a no-op rather than an error).
func removeMean(s Series) Series {
	_, present := s.Present()
	if len(present) == 0 {
		return s
	}
	mean := stat.Mean(present, nil)

	levels := make([]float64, len(s))
	for i, o := range s {
		levels[i] = o.SeaLevel
	}
	// NaN - mean stays NaN, so missing markers survive the shift.
	floats.AddConst(-mean, levels)
	for i := range s {
		s[i].SeaLevel = levels[i]
	}

	return s
}

// LongestContiguous returns the longest run of consecutive observations with
// no missing sea level, as a copy. When several runs share the maximum
// length, the earliest one wins. A series with no present observations has
// no such run and returns ErrNoObservations.
func (s Series) LongestContiguous() (Series, error) {
	bestStart, bestLen := 0, 0
	runStart, runLen := 0, 0

	for i, o := range s {
		if o.Missing() {
			runLen = 0
			continue
		}
		if runLen == 0 {
			runStart = i
		}
		runLen++
		if runLen > bestLen {
			bestStart, bestLen = runStart, runLen
		}
	}

	if bestLen == 0 {
		return nil, ErrNoObservations
	}

	segment := make(Series, bestLen)
	copy(segment, s[bestStart:bestStart+bestLen])
	return segment, nil
}
