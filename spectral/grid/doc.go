// Package grid provides the fixed linear energy binning shared by all
// spectral models.
//
// A [Grid] divides the interval [EMin, EMax] keV into NChan equal channels.
// Every model in this module returns spectra aligned to the channels of its
// own grid:
//
//	g, _ := grid.New(0.05, 50.0, 1000)
//	edges := g.Edges()     // 1001 strictly increasing keV values
//	centers := g.Centers() // 1000 channel midpoints
//
// The wavelength view ([Grid.WavelengthBins]) maps the bin edges through
// lambda = hc/E, reversing the order so the result is ascending in angstrom.
// Line-emission tables are keyed by rest wavelength, so the synthesizer uses
// this view to bound its line selection.
package grid
