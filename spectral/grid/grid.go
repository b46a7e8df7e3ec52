package grid

import (
	"errors"
	"sort"

	"github.com/cwbudde/algo-spectral/internal/physics"
)

// ErrInvalidRange reports malformed grid parameters.
var ErrInvalidRange = errors.New("grid: emax must exceed emin and nchan must be positive")

// Grid is a fixed linear energy binning. It is a pure value object:
// immutable after construction and safe for concurrent reads.
type Grid struct {
	emin    float64
	emax    float64
	nchan   int
	edges   []float64
	widths  []float64
	centers []float64
}

// New creates a grid spanning [emin, emax] keV with nchan channels.
// Returns [ErrInvalidRange] if emax <= emin or nchan <= 0.
func New(emin, emax float64, nchan int) (*Grid, error) {
	if emax <= emin || nchan <= 0 {
		return nil, ErrInvalidRange
	}

	edges := make([]float64, nchan+1)
	step := (emax - emin) / float64(nchan)
	for i := range edges {
		edges[i] = emin + float64(i)*step
	}
	// Pin the last edge so the span is exact regardless of rounding.
	edges[nchan] = emax

	widths := make([]float64, nchan)
	centers := make([]float64, nchan)
	for i := range widths {
		widths[i] = edges[i+1] - edges[i]
		centers[i] = 0.5 * (edges[i] + edges[i+1])
	}

	return &Grid{
		emin:    emin,
		emax:    emax,
		nchan:   nchan,
		edges:   edges,
		widths:  widths,
		centers: centers,
	}, nil
}

// EMin returns the lower energy bound in keV.
func (g *Grid) EMin() float64 { return g.emin }

// EMax returns the upper energy bound in keV.
func (g *Grid) EMax() float64 { return g.emax }

// NChan returns the channel count.
func (g *Grid) NChan() int { return g.nchan }

// Edges returns the nchan+1 bin edges in keV.
// The slice is owned by the grid and must not be modified.
func (g *Grid) Edges() []float64 { return g.edges }

// Widths returns the nchan bin widths in keV.
// The slice is owned by the grid and must not be modified.
func (g *Grid) Widths() []float64 { return g.widths }

// Centers returns the nchan bin midpoints in keV.
// The slice is owned by the grid and must not be modified.
func (g *Grid) Centers() []float64 { return g.centers }

// ChannelOf returns the channel whose half-open interval [edge_i, edge_i+1)
// contains energy e, i.e. the rightmost edge <= e. Returns -1 if e lies
// below the grid and nchan-1 if e equals the upper bound; energies above
// the grid map to nchan.
func (g *Grid) ChannelOf(e float64) int {
	i := sort.Search(len(g.edges), func(k int) bool { return g.edges[k] > e })
	ch := i - 1
	if ch == g.nchan && e == g.emax {
		return g.nchan - 1
	}
	return ch
}

// WavelengthBins returns the bin edges transformed to wavelength via
// lambda = hc/E, in ascending angstrom (the energy order is reversed).
func (g *Grid) WavelengthBins() []float64 {
	out := make([]float64, len(g.edges))
	for i, e := range g.edges {
		out[len(out)-1-i] = physics.HC / e
	}
	return out
}
