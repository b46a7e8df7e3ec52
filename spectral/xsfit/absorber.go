package xsfit

import (
	"context"

	"github.com/cwbudde/algo-spectral/spectral/grid"
	"github.com/cwbudde/algo-spectral/spectral/model"
)

// AbsorberConfig holds the settings of an [Absorber] model.
type AbsorberConfig struct {
	// ModelName is the tool's absorption model, e.g. "wabs" or "tbabs".
	ModelName string

	// NH is the foreground column density in units of 10^22 cm^-2.
	NH float64

	// Settings are arbitrary key/value string options forwarded to the
	// tool during Prepare.
	Settings map[string]string
}

// Absorber is the external-tool absorption back-end. It implements
// [model.AbsorberModel].
//
// The absorption model is composed with a flat powerlaw whose norm equals
// the channel density nchan/(emax-emin), so the tool's per-channel values
// are the transmission directly.
type Absorber struct {
	grid     *grid.Grid
	cfg      AbsorberConfig
	backend  Backend
	prepared bool
}

// NewAbsorber creates an absorption model on the given backend session.
func NewAbsorber(backend Backend, cfg AbsorberConfig, emin, emax float64, nchan int) (*Absorber, error) {
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
	return &Absorber{grid: g, cfg: cfg, backend: backend}, nil
}

// Grid returns the model's energy grid.
func (a *Absorber) Grid() *grid.Grid { return a.grid }

// Prepare configures the tool: chatter off, linear energy grid, the
// absorption model times a flat unit-density powerlaw.
func (a *Absorber) Prepare(ctx context.Context) error {
	b := a.backend
	if err := b.SetChatter(ctx, 0); err != nil {
		return err
	}
	if err := b.SetEnergies(ctx, a.grid.EMin(), a.grid.EMax(), a.grid.NChan(), "lin"); err != nil {
		return err
	}
	if err := b.DefineModel(ctx, a.cfg.ModelName+"*powerlaw"); err != nil {
		return err
	}

	flatNorm := float64(a.grid.NChan()) / (a.grid.EMax() - a.grid.EMin())
	if err := b.SetParam(ctx, "powerlaw", "norm", flatNorm); err != nil {
		return err
	}
	if err := b.SetParam(ctx, "powerlaw", "PhoIndex", 0.0); err != nil {
		return err
	}
	if err := applySettings(ctx, b, a.cfg.Settings); err != nil {
		return err
	}

	a.prepared = true
	return nil
}

// Spectrum sets the column density and returns the per-channel
// transmission.
func (a *Absorber) Spectrum(ctx context.Context) (model.Spectrum, error) {
	if !a.prepared {
		return model.Spectrum{}, ErrNotPrepared
	}

	if err := a.backend.SetParam(ctx, a.cfg.ModelName, "nH", a.cfg.NH); err != nil {
		return model.Spectrum{}, err
	}
	v, err := a.backend.Values(ctx)
	if err != nil {
		return model.Spectrum{}, err
	}
	return model.Spectrum{Values: v, Unit: model.Dimensionless}, nil
}
