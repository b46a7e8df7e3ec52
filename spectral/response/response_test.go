package response

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectral/spectral/grid"
)

func mustGrid(t *testing.T, emin, emax float64, nchan int) *grid.Grid {
	t.Helper()
	g, err := grid.New(emin, emax, nchan)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	return g
}

func sum(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s
}

func TestSmoothValidation(t *testing.T) {
	g := mustGrid(t, 0.0, 10.0, 100)

	if _, err := Smooth(g, nil, 0.1); !errors.Is(err, ErrEmptySpectrum) {
		t.Fatalf("empty: got %v", err)
	}
	if _, err := Smooth(g, make([]float64, 7), 0.1); !errors.Is(err, ErrGridMismatch) {
		t.Fatalf("mismatch: got %v", err)
	}
	if _, err := Smooth(g, make([]float64, 100), 0.0); !errors.Is(err, ErrInvalidWidth) {
		t.Fatalf("zero width: got %v", err)
	}
	if _, err := SmoothResolving(g, make([]float64, 100), -5); !errors.Is(err, ErrInvalidResolution) {
		t.Fatalf("bad resolution: got %v", err)
	}
}

func TestSmoothConservesTotal(t *testing.T) {
	g := mustGrid(t, 0.0, 10.0, 1000)
	spec := make([]float64, 1000)
	spec[500] = 3.0
	spec[501] = 1.0

	out, err := Smooth(g, spec, 0.2)
	if err != nil {
		t.Fatalf("Smooth: %v", err)
	}
	if math.Abs(sum(out)-4.0) > 1e-9 {
		t.Fatalf("total %v want 4", sum(out))
	}

	// The delta must actually spread.
	if out[500] >= 3.0 {
		t.Fatalf("channel 500 = %v, no spread", out[500])
	}
	if out[490] <= 0 || out[510] <= 0 {
		t.Fatal("wings not populated")
	}
}

func TestSmoothNarrowKernelIsIdentity(t *testing.T) {
	g := mustGrid(t, 0.0, 10.0, 100)
	spec := make([]float64, 100)
	spec[42] = 7.0

	// FWHM far below one channel width collapses to a delta kernel.
	out, err := Smooth(g, spec, 1e-6)
	if err != nil {
		t.Fatalf("Smooth: %v", err)
	}
	for i, v := range out {
		if v != spec[i] {
			t.Fatalf("channel %d changed: %v", i, v)
		}
	}
}

func TestSmoothWideKernelUsesFFTPath(t *testing.T) {
	// FWHM of 1 keV on 10 eV channels gives a kernel well past the direct
	// threshold.
	g := mustGrid(t, 0.0, 10.0, 1000)
	spec := make([]float64, 1000)
	spec[500] = 1.0

	out, err := Smooth(g, spec, 1.0)
	if err != nil {
		t.Fatalf("Smooth: %v", err)
	}
	if math.Abs(sum(out)-1.0) > 1e-9 {
		t.Fatalf("total %v want 1", sum(out))
	}

	// Symmetric profile around the source channel.
	if d := out[450] - out[550]; math.Abs(d) > 1e-9 {
		t.Fatalf("asymmetric profile: %v", d)
	}
	sigmaBins := 1.0 / fwhmToSigma / 0.01
	peak := 1.0 / (sigmaBins * math.Sqrt(2*math.Pi))
	if math.Abs(out[500]-peak)/peak > 0.01 {
		t.Fatalf("peak %v want ~%v", out[500], peak)
	}
}

func TestSmoothResolvingConservesAndScales(t *testing.T) {
	g := mustGrid(t, 0.0, 10.0, 1000)
	spec := make([]float64, 1000)
	spec[200] = 1.0 // ~2 keV
	spec[800] = 1.0 // ~8 keV

	out, err := SmoothResolving(g, spec, 100)
	if err != nil {
		t.Fatalf("SmoothResolving: %v", err)
	}
	if math.Abs(sum(out)-2.0) > 1e-9 {
		t.Fatalf("total %v want 2", sum(out))
	}

	// Higher energy means a wider profile, so a lower peak.
	if out[800] >= out[200] {
		t.Fatalf("peaks %v at 2 keV, %v at 8 keV: want narrower low-energy line",
			out[200], out[800])
	}
}
