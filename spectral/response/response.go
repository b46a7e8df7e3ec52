// Package response applies a Gaussian instrument response to synthesized
// spectra.
//
// Thermal line broadening in spectral/apec models the plasma itself;
// this package models the detector: every channel's content is spread
// over its neighbors with a Gaussian profile of the instrument's spectral
// resolution. Two resolution models are supported:
//
//   - [Smooth]: constant FWHM in keV across the band, evaluated as a
//     single convolution (FFT-based for wide kernels).
//   - [SmoothResolving]: constant resolving power R = E/dE, i.e. a FWHM
//     proportional to energy, evaluated per channel.
//
// Both conserve the total spectrum content up to the profile mass that
// leaves the grid span at the band edges.
package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectral/spectral/grid"
)

// Errors returned by response smoothing.
var (
	ErrEmptySpectrum     = errors.New("response: empty spectrum")
	ErrGridMismatch      = errors.New("response: spectrum length does not match grid")
	ErrInvalidWidth      = errors.New("response: FWHM must be positive")
	ErrInvalidResolution = errors.New("response: resolving power must be positive")
)

// fwhmToSigma converts a full width at half maximum to a Gaussian sigma.
var fwhmToSigma = 2 * math.Sqrt(2*math.Ln2)

// Kernels narrower than this fall back to direct convolution; the FFT
// setup cost only pays off for wide kernels.
const directKernelThreshold = 64

// Smooth convolves a spectrum on grid g with a Gaussian of constant FWHM
// in keV. Returns a new slice of the same length.
func Smooth(g *grid.Grid, values []float64, fwhmKeV float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, ErrEmptySpectrum
	}
	if len(values) != g.NChan() {
		return nil, fmt.Errorf("response: %d values on %d channels: %w",
			len(values), g.NChan(), ErrGridMismatch)
	}
	if fwhmKeV <= 0 {
		return nil, ErrInvalidWidth
	}

	// The grid is linear, so one width serves all channels.
	sigmaBins := fwhmKeV / fwhmToSigma / g.Widths()[0]
	kernel := gaussianKernel(sigmaBins)
	if len(kernel) == 1 {
		out := make([]float64, len(values))
		copy(out, values)
		return out, nil
	}

	if len(kernel) <= directKernelThreshold {
		return convolveSame(values, kernel), nil
	}
	return convolveSameFFT(values, kernel)
}

// SmoothResolving convolves a spectrum with a Gaussian whose FWHM grows
// linearly with energy, FWHM(E) = E/resolvingPower. Each channel is
// redistributed with its own width.
func SmoothResolving(g *grid.Grid, values []float64, resolvingPower float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, ErrEmptySpectrum
	}
	if len(values) != g.NChan() {
		return nil, fmt.Errorf("response: %d values on %d channels: %w",
			len(values), g.NChan(), ErrGridMismatch)
	}
	if resolvingPower <= 0 {
		return nil, ErrInvalidResolution
	}

	edges := g.Edges()
	centers := g.Centers()
	out := make([]float64, len(values))

	for i, v := range values {
		if v == 0 {
			continue
		}
		sigma := centers[i] / resolvingPower / fwhmToSigma
		if sigma <= 0 {
			out[i] += v
			continue
		}

		prev := normCDF((edges[0] - centers[i]) / sigma)
		for k := 1; k < len(edges); k++ {
			cur := normCDF((edges[k] - centers[i]) / sigma)
			out[k-1] += (cur - prev) * v
			prev = cur
		}
	}
	return out, nil
}

// gaussianKernel returns a unit-sum Gaussian kernel of the given width in
// bins, truncated at four sigma. Bin weights are CDF differences so the
// discrete kernel mass matches the continuous profile.
func gaussianKernel(sigmaBins float64) []float64 {
	radius := int(math.Ceil(4 * sigmaBins))
	if radius < 1 {
		return []float64{1}
	}

	out := make([]float64, 2*radius+1)
	sum := 0.0
	for i := range out {
		lo := (float64(i-radius) - 0.5) / sigmaBins
		hi := (float64(i-radius) + 0.5) / sigmaBins
		out[i] = normCDF(hi) - normCDF(lo)
		sum += out[i]
	}
	vecmath.ScaleBlockInPlace(out, 1/sum)
	return out
}

func normCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

// convolveSame performs direct linear convolution and returns the center
// portion aligned with the input.
func convolveSame(values, kernel []float64) []float64 {
	n := len(values)
	m := len(kernel)
	full := make([]float64, n+m-1)
	tmp := make([]float64, m)

	for i := 0; i < n; i++ {
		vecmath.ScaleBlock(tmp, kernel, values[i])
		vecmath.AddBlockInPlace(full[i:i+m], tmp)
	}

	return full[(m-1)/2 : (m-1)/2+n]
}

// convolveSameFFT performs the same convolution in the frequency domain.
func convolveSameFFT(values, kernel []float64) ([]float64, error) {
	n := len(values)
	m := len(kernel)
	fftSize := nextPowerOf2(n + m - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: FFT plan: %w", err)
	}

	a := make([]complex128, fftSize)
	b := make([]complex128, fftSize)
	for i, v := range values {
		a[i] = complex(v, 0)
	}
	for i, v := range kernel {
		b[i] = complex(v, 0)
	}

	if err := plan.Forward(a, a); err != nil {
		return nil, fmt.Errorf("response: forward FFT: %w", err)
	}
	if err := plan.Forward(b, b); err != nil {
		return nil, fmt.Errorf("response: forward FFT: %w", err)
	}
	for i := range a {
		a[i] *= b[i]
	}
	if err := plan.Inverse(a, a); err != nil {
		return nil, fmt.Errorf("response: inverse FFT: %w", err)
	}

	out := make([]float64, n)
	offset := (m - 1) / 2
	for i := range out {
		out[i] = real(a[offset+i])
	}
	return out, nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
