package stats

import (
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

func TestCalculateSingleChannel(t *testing.T) {
	g := mustGrid(t, 0.0, 10.0, 10)
	values := make([]float64, 10)
	values[3] = 4.0

	s := Calculate(g, values)
	if s.Channels != 10 {
		t.Fatalf("channels %d want 10", s.Channels)
	}
	if s.Total != 4.0 || s.Max != 4.0 || s.MaxChan != 3 {
		t.Fatalf("total/max/maxchan = %v/%v/%d", s.Total, s.Max, s.MaxChan)
	}
	if s.PeakEnergy != 3.5 {
		t.Fatalf("peak energy %v want 3.5", s.PeakEnergy)
	}
	if s.Centroid != 3.5 {
		t.Fatalf("centroid %v want 3.5", s.Centroid)
	}
	if s.Spread != 0 {
		t.Fatalf("spread %v want 0", s.Spread)
	}
}

func TestCalculateCentroidAndSpread(t *testing.T) {
	g := mustGrid(t, 0.0, 10.0, 10)
	values := make([]float64, 10)
	values[2] = 1.0 // center 2.5
	values[6] = 1.0 // center 6.5

	s := Calculate(g, values)
	if math.Abs(s.Centroid-4.5) > 1e-12 {
		t.Fatalf("centroid %v want 4.5", s.Centroid)
	}
	if math.Abs(s.Spread-2.0) > 1e-12 {
		t.Fatalf("spread %v want 2", s.Spread)
	}
}

func TestCalculateZeroSpectrum(t *testing.T) {
	g := mustGrid(t, 0.0, 10.0, 10)
	s := Calculate(g, make([]float64, 10))
	if s.Total != 0 || s.Centroid != 0 || s.Spread != 0 {
		t.Fatalf("zero spectrum stats %+v", s)
	}
}

func TestCalculateLengthMismatch(t *testing.T) {
	g := mustGrid(t, 0.0, 10.0, 10)
	if s := Calculate(g, make([]float64, 7)); s.Channels != 0 {
		t.Fatalf("mismatch not rejected: %+v", s)
	}
}

func TestBandSumAndFraction(t *testing.T) {
	g := mustGrid(t, 0.0, 10.0, 10)
	values := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}

	if got := BandSum(g, values, 2.0, 5.0); got != 3.0 {
		t.Fatalf("band sum %v want 3 (centers 2.5, 3.5, 4.5)", got)
	}
	if got := BandFraction(g, values, 2.0, 5.0); math.Abs(got-0.3) > 1e-12 {
		t.Fatalf("band fraction %v want 0.3", got)
	}
	if got := BandFraction(g, make([]float64, 10), 0, 10); got != 0 {
		t.Fatalf("zero-total fraction %v want 0", got)
	}
}
