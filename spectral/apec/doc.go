// Package apec synthesizes thermal plasma emission spectra from tabulated
// line and continuum data.
//
// A [Model] reads two columnar table files, apec_v<version>_line.fits and
// apec_v<version>_coco.fits, whose data blocks are tabulated on a grid of
// plasma temperatures. For a query temperature kT the model assembles, per
// chemical element, the discrete line emission plus the interpolated
// continuum and pseudo-continuum, at the two bracketing grid temperatures,
// and blends them linearly:
//
//	spec(kT) = left*(1-dT) + right*dT,  dT = (kT - T[i]) / (T[i+1] - T[i])
//
// Elements are split into a trace/cosmic set (H, He and trace species) and
// a metal set so downstream consumers can rescale metal abundances
// independently. Spectra are emissivities in cm^3/s per channel.
//
// With thermal broadening enabled each line is spread over the channels as
// a Gaussian of width
//
//	sigma = E0 * sqrt(kT / (A*m_u*c^2))
//
// via differences of the normal CDF at the bin edges, so the deposited
// amplitude is preserved. Without broadening each line lands in the single
// channel containing its observed energy.
//
// Temperatures outside the tabulated grid yield all-zero spectra rather
// than an error; downstream photon samplers treat zero emissivity as "no
// photons" and rely on this.
package apec
