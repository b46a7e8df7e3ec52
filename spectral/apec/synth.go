package apec

import (
	"fmt"
	"math"
	"sort"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectral/internal/physics"
)

// addElement accumulates the emission of one element at one table block
// into dst: discrete lines first, then the interpolated continuum and
// pseudo-continuum. kTgrid is the grid temperature the block is tabulated
// at; it sets the Doppler width when thermal broadening is enabled.
func (m *Model) addElement(dst []float64, element, block int, kTgrid float64) error {
	lines, err := m.lines.Lines(block)
	if err != nil {
		return fmt.Errorf("apec: element %d block %d: %w", element, block, err)
	}

	edges := m.grid.Edges()
	for _, ln := range lines {
		if ln.Element != element {
			continue
		}
		// Rest wavelength strictly inside the grid's wavelength span.
		if ln.Lambda <= m.minLambda || ln.Lambda >= m.maxLambda {
			continue
		}

		e0 := physics.HC / ln.Lambda * m.scaleFactor
		if m.cfg.ThermalBroadening {
			sigma := dopplerSigma(e0, kTgrid, element)
			depositGaussian(dst, edges, e0, sigma, ln.Epsilon)
			continue
		}

		// Delta-function deposit into the channel containing the observed
		// energy. Redshifting can push a line below the grid; skip those.
		if ch := m.grid.ChannelOf(e0); ch >= 0 && ch < len(dst) {
			dst[ch] += ln.Epsilon
		}
	}

	rec, ok, err := m.coco.Continuum(block, element)
	if err != nil {
		return fmt.Errorf("apec: element %d block %d: %w", element, block, err)
	}
	if !ok {
		// No continuum record: the element contributes lines only.
		return nil
	}

	m.addContinuum(dst, rec.Energy, rec.Continuum)
	m.addContinuum(dst, rec.PseudoEnergy, rec.Pseudo)
	return nil
}

// dopplerSigma is the thermal Doppler width of a line at observed energy
// e0 for a plasma temperature kT in keV:
//
//	sigma = e0 * sqrt(kT / (A * m_u * c^2))
func dopplerSigma(e0, kT float64, element int) float64 {
	mass := physics.AtomicWeight[element] * physics.AMU
	return e0 * math.Sqrt(kT*physics.ErgPerKeV/mass) / physics.CLight
}

// depositGaussian spreads amp over the channels as the fraction of a
// Gaussian N(e0, sigma) falling inside each bin, evaluated as differences
// of the normal CDF at the bin edges. The total deposited amplitude equals
// amp times the profile mass inside the grid span.
func depositGaussian(dst, edges []float64, e0, sigma, amp float64) {
	if sigma <= 0 {
		i := sort.Search(len(edges), func(k int) bool { return edges[k] > e0 }) - 1
		if i >= 0 && i < len(dst) {
			dst[i] += amp
		}
		return
	}

	prev := normCDF((edges[0] - e0) / sigma)
	for i := 1; i < len(edges); i++ {
		cur := normCDF((edges[i] - e0) / sigma)
		dst[i-1] += (cur - prev) * amp
		prev = cur
	}
}

// normCDF is the standard normal cumulative distribution at z.
func normCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

// addContinuum interpolates a tabulated curve onto the bin centers,
// scales by the bin widths and accumulates into dst. Sample energies are
// redshifted by the model's scale factor; the curve is clamped to its
// endpoint values outside the tabulated span.
func (m *Model) addContinuum(dst, energy, amp []float64) {
	if len(energy) == 0 || len(energy) != len(amp) {
		return
	}

	scaled := make([]float64, len(energy))
	vecmath.ScaleBlock(scaled, energy, m.scaleFactor)

	centers := m.grid.Centers()
	widths := m.grid.Widths()
	tmp := make([]float64, len(centers))
	for i, q := range centers {
		tmp[i] = interpClamped(scaled, amp, q)
	}
	vecmath.MulAddBlock(dst, tmp, widths, dst)
}

// interpClamped evaluates piecewise-linear interpolation of y over
// ascending x at q, clamping to the endpoint values outside the span.
func interpClamped(x, y []float64, q float64) float64 {
	if q <= x[0] {
		return y[0]
	}
	if q >= x[len(x)-1] {
		return y[len(y)-1]
	}
	j := sort.SearchFloat64s(x, q)
	x0, x1 := x[j-1], x[j]
	t := (q - x0) / (x1 - x0)
	return y[j-1] + t*(y[j]-y[j-1])
}
