// Package physics holds the physical constants and atomic data used by the
// spectral model packages. All spectral energies are in keV, wavelengths in
// angstrom, and bulk quantities in CGS units.
package physics

const (
	// HC is the Planck-constant-speed-of-light product in keV*angstrom.
	// It converts between photon energy and wavelength: E = HC / lambda.
	HC = 12.3984198

	// CLight is the speed of light in cm/s.
	CLight = 2.99792458e10

	// ErgPerKeV converts keV to erg.
	ErgPerKeV = 1.602176634e-9

	// AMU is the atomic mass unit in grams.
	AMU = 1.66053906892e-24
)

// AtomicWeight maps atomic number to standard atomic weight in amu.
// Index 0 is unused. Covers H (1) through Zn (30), the species present in
// thermal plasma emission tables.
var AtomicWeight = [31]float64{
	0.0, 1.00794, 4.00262, 6.941, 9.012182, 10.811,
	12.0107, 14.0067, 15.9994, 18.9984, 20.1797,
	22.9898, 24.3050, 26.9815, 28.0855, 30.9738,
	32.0650, 35.4530, 39.9480, 39.0983, 40.0780,
	44.9559, 47.8670, 50.9415, 51.9961, 54.9380,
	55.8450, 58.9332, 58.6934, 63.5460, 65.3800,
}
