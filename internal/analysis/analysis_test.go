package analysis

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soniakeys/unit"

	"github.com/jdf527/SEPwC-tidal-assessment/internal/tide"
	"github.com/jdf527/SEPwC-tidal-assessment/pkg/harmonic"
)

// writeGaugeFile writes a series in the gauge column format under dir.
func writeGaugeFile(t *testing.T, dir, name string, s tide.Series) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	if err := tide.Write(f, s); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// tidalYear synthesizes one calendar year of hourly readings: an M2+S2 tide
// around a base level that rises linearly through the year.
func tidalYear(year int, base, risePerDay float64) tide.Series {
	m2, _ := harmonic.Speed("M2")
	s2, _ := harmonic.Speed("S2")

	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC)

	var s tide.Series
	for ts := start; ts.Before(end); ts = ts.Add(time.Hour) {
		h := ts.Sub(start).Hours()
		level := base + risePerDay*h/24 +
			1.25*math.Cos(m2.Rad()*h) +
			0.45*math.Cos(s2.Rad()*h-unit.AngleFromDeg(110).Rad())
		s = append(s, tide.Observation{Time: ts, SeaLevel: level})
	}
	return s
}

func TestNormalizeInput(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1946ABE.txt", "1947ABE.txt", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("directory", func(t *testing.T) {
		paths, err := NormalizeInput(dir)
		if err != nil {
			t.Fatalf("NormalizeInput returned error: %v", err)
		}
		if len(paths) != 2 {
			t.Fatalf("got %d paths, expected 2 (only .txt files)", len(paths))
		}
		if filepath.Base(paths[0]) != "1946ABE.txt" || filepath.Base(paths[1]) != "1947ABE.txt" {
			t.Errorf("unexpected paths %v", paths)
		}
	})

	t.Run("single file", func(t *testing.T) {
		file := filepath.Join(dir, "1946ABE.txt")
		paths, err := NormalizeInput(file)
		if err != nil {
			t.Fatalf("NormalizeInput returned error: %v", err)
		}
		if len(paths) != 1 || paths[0] != file {
			t.Errorf("got %v, expected just %s", paths, file)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		if _, err := NormalizeInput(filepath.Join(dir, "nope")); err == nil {
			t.Error("expected error for missing path")
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		if _, err := NormalizeInput(t.TempDir()); err == nil {
			t.Error("expected error for directory without data files")
		}
	})
}

func TestSeaLevelRise(t *testing.T) {
	// Daily observations rising 1 mm/day with a small oscillation so the
	// fit is not exact and the p-value path is exercised.
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	var s tide.Series
	for day := 0; day < 730; day++ {
		ts := start.AddDate(0, 0, day)
		level := 3.0 + 0.001*float64(day) + 0.05*math.Sin(float64(day)/7)
		s = append(s, tide.Observation{Time: ts, SeaLevel: level})
	}

	trend, err := SeaLevelRise(s)
	if err != nil {
		t.Fatalf("SeaLevelRise returned error: %v", err)
	}

	if math.Abs(trend.Slope-0.001) > 1e-4 {
		t.Errorf("slope = %v per day, expected ~0.001", trend.Slope)
	}
	if trend.R < 0.99 {
		t.Errorf("r = %v, expected near 1 for a strong trend", trend.R)
	}
	if trend.PValue < 0 || trend.PValue > 1 {
		t.Errorf("p-value %v outside [0, 1]", trend.PValue)
	}
	if trend.PValue > 1e-6 {
		t.Errorf("p-value %v, expected near 0 for a strong trend", trend.PValue)
	}
	if trend.StdErr < 0 || math.IsNaN(trend.StdErr) {
		t.Errorf("standard error = %v", trend.StdErr)
	}
}

func TestSeaLevelRiseInsufficientData(t *testing.T) {
	tests := []struct {
		name   string
		series tide.Series
	}{
		{name: "empty", series: tide.Series{}},
		{
			name: "all missing",
			series: tide.Series{
				{Time: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), SeaLevel: math.NaN()},
				{Time: time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC), SeaLevel: math.NaN()},
				{Time: time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC), SeaLevel: math.NaN()},
			},
		},
		{
			name: "one timestamp repeated",
			series: tide.Series{
				{Time: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), SeaLevel: 1},
				{Time: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), SeaLevel: 2},
				{Time: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), SeaLevel: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SeaLevelRise(tt.series); !errors.Is(err, ErrInsufficientData) {
				t.Errorf("expected ErrInsufficientData, got %v", err)
			}
		})
	}
}

func TestTidalConstituentsFullYear(t *testing.T) {
	dir := t.TempDir()
	path := writeGaugeFile(t, dir, "2000ABE.txt", tidalYear(2000, 3.5, 0))

	series, err := LoadSeries([]string{path})
	if err != nil {
		t.Fatalf("LoadSeries returned error: %v", err)
	}

	results, err := TidalConstituents(series, []string{"M2", "S2"}, time.Time{})
	if err != nil {
		t.Fatalf("TidalConstituents returned error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, expected 2", len(results))
	}
	if results[0].Name != "M2" || results[1].Name != "S2" {
		t.Errorf("result order %q, %q; expected M2, S2", results[0].Name, results[1].Name)
	}
	for _, r := range results {
		if math.IsNaN(r.Amplitude) || math.IsInf(r.Amplitude, 0) || r.Amplitude < 0 {
			t.Errorf("%s amplitude = %v, expected finite and non-negative", r.Name, r.Amplitude)
		}
	}

	// The written file quantizes levels to 4 decimals, so allow for that.
	if math.Abs(results[0].Amplitude-1.25) > 1e-3 {
		t.Errorf("M2 amplitude = %v, expected ~1.25", results[0].Amplitude)
	}
	if math.Abs(results[1].Amplitude-0.45) > 1e-3 {
		t.Errorf("S2 amplitude = %v, expected ~0.45", results[1].Amplitude)
	}
}

func TestTidalConstituentsNoObservations(t *testing.T) {
	s := tide.Series{
		{Time: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), SeaLevel: math.NaN()},
	}
	if _, err := TidalConstituents(s, []string{"M2"}, time.Time{}); !errors.Is(err, tide.ErrNoObservations) {
		t.Errorf("expected ErrNoObservations, got %v", err)
	}
}

func TestTwoYearPipeline(t *testing.T) {
	dir := t.TempDir()
	writeGaugeFile(t, dir, "2000ABE.txt", tidalYear(2000, 3.5, 0.0001))
	writeGaugeFile(t, dir, "2001ABE.txt", tidalYear(2001, 3.5366, 0.0001))

	paths, err := NormalizeInput(dir)
	if err != nil {
		t.Fatalf("NormalizeInput returned error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, expected 2", len(paths))
	}

	series, err := LoadSeries(paths)
	if err != nil {
		t.Fatalf("LoadSeries returned error: %v", err)
	}

	wantLen := len(tidalYear(2000, 0, 0)) + len(tidalYear(2001, 0, 0))
	if len(series) != wantLen {
		t.Fatalf("merged length = %d, expected %d", len(series), wantLen)
	}

	trend, err := SeaLevelRise(series)
	if err != nil {
		t.Fatalf("SeaLevelRise returned error: %v", err)
	}
	if math.IsNaN(trend.Slope) || math.IsInf(trend.Slope, 0) {
		t.Errorf("slope = %v, expected finite", trend.Slope)
	}
	if math.Abs(trend.Slope-0.0001) > 2e-5 {
		t.Errorf("slope = %v per day, expected ~0.0001", trend.Slope)
	}
	if trend.PValue < 0 || trend.PValue > 1 {
		t.Errorf("p-value %v outside [0, 1]", trend.PValue)
	}
}
