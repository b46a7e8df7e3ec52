package xsfit

import (
	"context"
	"fmt"
	"sort"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectral/spectral/grid"
	"github.com/cwbudde/algo-spectral/spectral/model"
)

// Normalization constants applied to the tool's raw output to obtain
// emissivities in cm^3/s. Bremsstrahlung-type models carry their own
// convention, line-rich thermal models another.
const (
	bremssNorm  = 3.02e-15
	thermalNorm = 1.0e-14
)

// ThermalConfig holds the settings of a [Thermal] model.
type ThermalConfig struct {
	// ModelName is the tool's thermal model, e.g. "apec" or "mekal".
	ModelName string

	// ThermalBroadening asks the tool for Doppler-broadened lines.
	ThermalBroadening bool

	// Settings are arbitrary key/value string options forwarded to the
	// tool during Prepare.
	Settings map[string]string
}

// Thermal is the external-tool thermal emission back-end. It implements
// [model.ThermalModel].
//
// Prepare and Spectrum mutate the session's global state (energy grid,
// active model, parameters); interleaving queries of two models on one
// session corrupts both.
type Thermal struct {
	grid     *grid.Grid
	cfg      ThermalConfig
	backend  Backend
	norm     float64
	prepared bool
}

// NewThermal creates a thermal model on the given backend session.
func NewThermal(backend Backend, cfg ThermalConfig, emin, emax float64, nchan int) (*Thermal, error) {
	if backend == nil {
		return nil, ErrBackendUnavailable
	}
	if cfg.ModelName == "" {
		return nil, ErrNoModelName
	}
	g, err := grid.New(emin, emax, nchan)
	if err != nil {
		return nil, err
	}
	return &Thermal{grid: g, cfg: cfg, backend: backend}, nil
}

// Grid returns the model's energy grid.
func (t *Thermal) Grid() *grid.Grid { return t.grid }

// Prepare configures the tool for spectra observed at the given redshift:
// chatter off, linear energy grid, model instantiated with unit norm.
func (t *Thermal) Prepare(ctx context.Context, redshift float64) error {
	b := t.backend
	if err := b.SetChatter(ctx, 0); err != nil {
		return err
	}
	if err := b.SetEnergies(ctx, t.grid.EMin(), t.grid.EMax(), t.grid.NChan(), "lin"); err != nil {
		return err
	}
	if err := b.DefineModel(ctx, t.cfg.ModelName); err != nil {
		return err
	}

	t.norm = thermalNorm
	if t.cfg.ModelName == "bremss" {
		t.norm = bremssNorm
	}

	if err := b.SetParam(ctx, t.cfg.ModelName, "norm", 1.0); err != nil {
		return err
	}
	if err := b.SetParam(ctx, t.cfg.ModelName, "Redshift", redshift); err != nil {
		return err
	}
	if t.cfg.ThermalBroadening {
		if err := b.SetModelString(ctx, "APECTHERMAL", "yes"); err != nil {
			return err
		}
	}
	if err := applySettings(ctx, b, t.cfg.Settings); err != nil {
		return err
	}

	t.prepared = true
	return nil
}

// Spectrum queries the tool at temperature kT in keV. The cosmic component
// is obtained at zero abundance; the metal component as the difference to
// the unit-abundance spectrum, except for "bremss" which has no metal
// lines at all.
func (t *Thermal) Spectrum(ctx context.Context, kT float64) (model.ThermalSpectra, error) {
	if !t.prepared {
		return model.ThermalSpectra{}, ErrNotPrepared
	}

	b := t.backend
	if err := b.SetParam(ctx, t.cfg.ModelName, "kT", kT); err != nil {
		return model.ThermalSpectra{}, err
	}
	if err := b.SetParam(ctx, t.cfg.ModelName, "Abundanc", 0.0); err != nil {
		return model.ThermalSpectra{}, err
	}

	cosmic, err := t.values(ctx)
	if err != nil {
		return model.ThermalSpectra{}, err
	}

	metal := make([]float64, t.grid.NChan())
	if t.cfg.ModelName != "bremss" {
		if err := b.SetParam(ctx, t.cfg.ModelName, "Abundanc", 1.0); err != nil {
			return model.ThermalSpectra{}, err
		}
		with, err := t.values(ctx)
		if err != nil {
			return model.ThermalSpectra{}, err
		}
		for i := range metal {
			metal[i] = with[i] - cosmic[i]
		}
	}

	vecmath.ScaleBlockInPlace(cosmic, t.norm)
	vecmath.ScaleBlockInPlace(metal, t.norm)

	return model.ThermalSpectra{
		Cosmic: model.Spectrum{Values: cosmic, Unit: model.Emissivity},
		Metal:  model.Spectrum{Values: metal, Unit: model.Emissivity},
	}, nil
}

func (t *Thermal) values(ctx context.Context) ([]float64, error) {
	v, err := t.backend.Values(ctx)
	if err != nil {
		return nil, err
	}
	if len(v) != t.grid.NChan() {
		return nil, fmt.Errorf("xsfit: backend returned %d values, want %d", len(v), t.grid.NChan())
	}
	return v, nil
}

// applySettings forwards string options in deterministic key order.
func applySettings(ctx context.Context, b Backend, settings map[string]string) error {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := b.SetModelString(ctx, k, settings[k]); err != nil {
			return err
		}
	}
	return nil
}
