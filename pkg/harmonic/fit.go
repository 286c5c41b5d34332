package harmonic

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/mat"
)

// ErrInsufficientData is returned when the series is too short to determine
// every requested amplitude and phase.
var ErrInsufficientData = errors.New("not enough observations for harmonic fit")

// Result is the fitted amplitude and phase of one constituent. Amplitude is
// in the units of the input heights; phase is relative to the fit epoch,
// normalized to [0°, 360°).
type Result struct {
	Name      string
	Amplitude float64
	Phase     unit.Angle
}

// Fit solves for the amplitude and phase of each named constituent by least
// squares. Observation times are reduced to elapsed hours since epoch; the
// model is a constant mean level plus one cosine/sine pair per constituent.
// Results are returned in the order the names were given.
func Fit(names []string, epoch time.Time, times []time.Time, heights []float64) ([]Result, error) {
	if len(times) != len(heights) {
		return nil, fmt.Errorf("harmonic fit: %d times but %d heights", len(times), len(heights))
	}

	omegas := make([]float64, len(names))
	for i, name := range names {
		speed, err := Speed(name)
		if err != nil {
			return nil, err
		}
		omegas[i] = speed.Rad() // radians per hour
	}

	n := len(times)
	cols := 2*len(names) + 1
	if n < cols {
		return nil, fmt.Errorf("%w: %d observations for %d parameters", ErrInsufficientData, n, cols)
	}

	// Design matrix: constant column, then cos/sin pair per constituent.
	X := mat.NewDense(n, cols, nil)
	for i := 0; i < n; i++ {
		t := times[i].Sub(epoch).Hours()
		X.Set(i, 0, 1)
		for j, omega := range omegas {
			X.Set(i, 1+2*j, math.Cos(omega*t))
			X.Set(i, 2+2*j, math.Sin(omega*t))
		}
	}
	y := mat.NewVecDense(n, heights)

	var qr mat.QR
	qr.Factorize(X)

	coeffs := mat.NewVecDense(cols, nil)
	if err := qr.SolveVecTo(coeffs, false, y); err != nil {
		return nil, fmt.Errorf("harmonic fit: %w", err)
	}

	results := make([]Result, len(names))
	for j, name := range names {
		a := coeffs.AtVec(1 + 2*j)
		b := coeffs.AtVec(2 + 2*j)
		results[j] = Result{
			Name:      name,
			Amplitude: math.Hypot(a, b),
			Phase:     unit.Angle(math.Atan2(b, a)).Mod1(),
		}
	}

	return results, nil
}
