// Package stats computes summary statistics of a spectrum on an energy
// grid: totals, peak location and emissivity-weighted shape descriptors.
// It backs quick-look reporting (cmd/specinfo) and test assertions; the
// synthesis packages do not depend on it.
package stats

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectral/spectral/grid"
)

// Stats holds summary statistics of a spectrum.
type Stats struct {
	Channels int

	Total   float64 // sum over all channels
	Max     float64
	MaxChan int
	Min     float64
	MinChan int
	Average float64

	// Shape descriptors, weighted by channel value.
	PeakEnergy float64 // center energy of the maximum channel, keV
	Centroid   float64 // weighted mean energy, keV
	Spread     float64 // weighted standard deviation around the centroid, keV
}

// Calculate computes statistics for values on grid g. The slice length
// must match the grid's channel count; zero-total spectra yield zero
// shape descriptors.
func Calculate(g *grid.Grid, values []float64) Stats {
	if len(values) == 0 || len(values) != g.NChan() {
		return Stats{}
	}

	s := Stats{
		Channels: len(values),
		Max:      values[0],
		Min:      values[0],
	}

	for i, v := range values {
		if v > s.Max {
			s.Max = v
			s.MaxChan = i
		}
		if v < s.Min {
			s.Min = v
			s.MinChan = i
		}
	}

	centers := g.Centers()
	s.Total = vecmath.Sum(values)
	s.Average = s.Total / float64(len(values))
	s.PeakEnergy = centers[s.MaxChan]

	if s.Total == 0 {
		return s
	}

	s.Centroid = vecmath.DotProduct(values, centers) / s.Total

	variance := 0.0
	for i, v := range values {
		d := centers[i] - s.Centroid
		variance += v * d * d
	}
	s.Spread = math.Sqrt(variance / s.Total)

	return s
}

// BandSum returns the summed channel content with centers inside
// [elo, ehi].
func BandSum(g *grid.Grid, values []float64, elo, ehi float64) float64 {
	if len(values) != g.NChan() {
		return 0
	}
	centers := g.Centers()
	sum := 0.0
	for i, v := range values {
		if centers[i] >= elo && centers[i] <= ehi {
			sum += v
		}
	}
	return sum
}

// BandFraction returns the fraction of the total content inside
// [elo, ehi]. Zero-total spectra yield 0.
func BandFraction(g *grid.Grid, values []float64, elo, ehi float64) float64 {
	total := vecmath.Sum(values)
	if total == 0 {
		return 0
	}
	return BandSum(g, values, elo, ehi) / total
}
