package model

import "context"

// Unit identifies the physical unit of spectrum values.
type Unit string

const (
	// Emissivity is the volumetric emission rate unit, cm^3/s per channel.
	Emissivity Unit = "cm**3/s"

	// Dimensionless marks unitless values such as transmission fractions.
	Dimensionless Unit = "1"
)

// Spectrum is a physical-quantity array with one value per grid channel.
type Spectrum struct {
	Values []float64
	Unit   Unit
}

// Zero returns an all-zero spectrum with n channels.
func Zero(n int, unit Unit) Spectrum {
	return Spectrum{Values: make([]float64, n), Unit: unit}
}

// ThermalSpectra is the two-component result of a thermal emission query.
type ThermalSpectra struct {
	// Cosmic holds the contribution of H, He and trace species.
	Cosmic Spectrum

	// Metal holds the contribution of the non-trace metals, normalized to
	// solar abundance so callers can rescale it.
	Metal Spectrum
}

// ThermalModel produces emission spectra of a thermal plasma.
type ThermalModel interface {
	// Prepare opens tables or configures the back-end for spectra observed
	// at the given redshift. It must be called once before Spectrum.
	Prepare(ctx context.Context, redshift float64) error

	// Spectrum returns the cosmic and metal emission components for a
	// plasma temperature kT in keV, both in [Emissivity] units.
	Spectrum(ctx context.Context, kT float64) (ThermalSpectra, error)
}

// AbsorberModel produces a transmission curve for a fixed column density.
type AbsorberModel interface {
	// Prepare readies the back-end. It must be called once before Spectrum.
	Prepare(ctx context.Context) error

	// Spectrum returns the dimensionless per-channel transmission in [0,1].
	Spectrum(ctx context.Context) (Spectrum, error)
}
