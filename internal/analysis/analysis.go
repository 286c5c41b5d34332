// Package analysis drives the tidal pipeline: it normalizes the input path
// to a list of gauge files, loads and merges them into one series, and runs
// the two derived computations (sea-level trend and tidal constituents).
package analysis

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jdf527/SEPwC-tidal-assessment/internal/log"
	"github.com/jdf527/SEPwC-tidal-assessment/internal/tide"
	"github.com/jdf527/SEPwC-tidal-assessment/pkg/harmonic"
)

// ErrInsufficientData is returned when too few valid observations remain to
// estimate a trend.
var ErrInsufficientData = errors.New("not enough valid observations for trend estimate")

// dataSuffix selects gauge files when the input path is a directory.
const dataSuffix = ".txt"

// Trend is the result of regressing sea level against time. Slope is in the
// height unit of the input files per day.
type Trend struct {
	Slope     float64
	Intercept float64
	R         float64
	PValue    float64
	StdErr    float64
}

// NormalizeInput resolves a directory-or-file path into the list of data
// files to parse. A directory contributes every *.txt file it holds, in
// name order; a plain file contributes itself.
func NormalizeInput(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", path, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), dataSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(path, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s data files in %s", dataSuffix, path)
	}

	return paths, nil
}

// LoadSeries parses every file and merges the results into one
// time-ordered series.
func LoadSeries(paths []string) (tide.Series, error) {
	series := make([]tide.Series, 0, len(paths))
	for _, path := range paths {
		s, err := tide.ReadFile(path)
		if err != nil {
			return nil, err
		}
		log.Debugf("parsed %d observations from %s", len(s), path)
		series = append(series, s)
	}

	merged := tide.Merge(series...)
	log.Debugf("merged series holds %d observations", len(merged))

	return merged, nil
}

// SeaLevelRise regresses the present sea levels against time, with the
// observation's Julian date as the independent variable, and reports the
// slope together with its two-sided significance.
func SeaLevelRise(s tide.Series) (Trend, error) {
	times, levels := s.Present()
	n := len(levels)
	if n < 3 {
		return Trend{}, fmt.Errorf("%w: %d present observations", ErrInsufficientData, n)
	}

	days := make([]float64, n)
	for i, t := range times {
		days[i] = julian.TimeToJD(t.UTC())
	}

	intercept, slope := stat.LinearRegression(days, levels, nil, false)

	// Slope standard error from the residual and time variances.
	meanDay := stat.Mean(days, nil)
	var rss, sxx float64
	for i := range days {
		r := levels[i] - (intercept + slope*days[i])
		rss += r * r
		d := days[i] - meanDay
		sxx += d * d
	}
	if sxx == 0 {
		return Trend{}, fmt.Errorf("%w: all observations share one timestamp", ErrInsufficientData)
	}

	trend := Trend{
		Slope:     slope,
		Intercept: intercept,
		R:         stat.Correlation(days, levels, nil),
		StdErr:    math.Sqrt(rss / float64(n-2) / sxx),
	}

	if trend.StdErr == 0 {
		// Perfect fit: the slope is exact.
		trend.PValue = 0
		return trend, nil
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	trend.PValue = 2 * tDist.Survival(math.Abs(slope/trend.StdErr))
	if trend.PValue > 1 {
		trend.PValue = 1
	}

	return trend, nil
}

// TidalConstituents fits the named constituents to the present observations.
// A zero epoch means the earliest present timestamp.
func TidalConstituents(s tide.Series, names []string, epoch time.Time) ([]harmonic.Result, error) {
	times, levels := s.Present()
	if len(times) == 0 {
		return nil, tide.ErrNoObservations
	}
	if epoch.IsZero() {
		epoch = times[0]
	}
	log.Debugf("fitting %d constituents against %d observations, epoch %s",
		len(names), len(times), epoch.Format(time.RFC3339))

	return harmonic.Fit(names, epoch, times, levels)
}
