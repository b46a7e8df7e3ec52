package apec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectral/spectral/grid"
	"github.com/cwbudde/algo-spectral/spectral/model"
	"github.com/cwbudde/algo-spectral/spectral/table"
)

// DefaultVersion is the table version used when none is configured. Table
// files are expected as apec_v<version>_line.fits and
// apec_v<version>_coco.fits under the model root directory.
const DefaultVersion = "3.0.9"

// ErrNotPrepared reports a spectrum query before Prepare.
var ErrNotPrepared = errors.New("apec: model not prepared")

// lineTable is the slice of the columnar table surface the synthesizer
// needs from the line table. Satisfied by [table.Columnar].
type lineTable interface {
	TemperatureGrid() ([]float64, error)
	Lines(block int) ([]table.Line, error)
}

// continuumTable is the synthesizer's view of the continuum table.
// Satisfied by [table.Columnar].
type continuumTable interface {
	Continuum(block, element int) (table.ContinuumRecord, bool, error)
}

// Config holds the tunable model settings.
type Config struct {
	// Version selects the table file version. Empty means DefaultVersion.
	Version string

	// ThermalBroadening spreads each line over a Gaussian Doppler profile.
	// Only useful when simulating high-spectral-resolution detectors.
	ThermalBroadening bool

	// Logger receives prepare-time diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// WithVersion selects the table file version.
func WithVersion(version string) Option {
	return func(cfg *Config) {
		if version != "" {
			cfg.Version = version
		}
	}
}

// WithThermalBroadening enables Gaussian thermal line broadening.
func WithThermalBroadening() Option {
	return func(cfg *Config) {
		cfg.ThermalBroadening = true
	}
}

// WithLogger sets the logger for prepare-time diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// Model is the tabulated thermal emission back-end. It implements
// [model.ThermalModel].
//
// A Model must be prepared once before spectra are queried and must not be
// queried concurrently: the underlying table handles buffer reads.
type Model struct {
	grid *grid.Grid
	root string
	cfg  Config

	cache *table.Cache
	lines lineTable
	coco  continuumTable

	prepared    bool
	tvals       []float64
	dtvals      []float64
	minLambda   float64
	maxLambda   float64
	scaleFactor float64
}

// New creates a model for tables under root with the given energy grid.
// Returns [grid.ErrInvalidRange] for malformed grid parameters. Table
// files are not touched until Prepare.
func New(root string, emin, emax float64, nchan int, opts ...Option) (*Model, error) {
	g, err := grid.New(emin, emax, nchan)
	if err != nil {
		return nil, err
	}

	cfg := Config{Version: DefaultVersion, Logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Model{
		grid:  g,
		root:  root,
		cfg:   cfg,
		cache: table.NewCache(),
	}, nil
}

// Grid returns the model's energy grid.
func (m *Model) Grid() *grid.Grid { return m.grid }

// LineFile returns the path of the line table file.
func (m *Model) LineFile() string {
	return filepath.Join(m.root, "apec_v"+m.cfg.Version+"_line.fits")
}

// ContinuumFile returns the path of the continuum table file.
func (m *Model) ContinuumFile() string {
	return filepath.Join(m.root, "apec_v"+m.cfg.Version+"_coco.fits")
}

// Prepare opens the line and continuum tables, reads the temperature grid
// and fixes the wavelength bounds and the cosmological scale factor
// 1/(1+z) for spectra observed at the given redshift. A missing table file
// is logged and reported as [table.ErrTableNotFound]; the model then stays
// unprepared.
func (m *Model) Prepare(ctx context.Context, redshift float64) error {
	if m.lines == nil {
		t, err := m.cache.Columnar(m.LineFile())
		if err != nil {
			m.cfg.Logger.Error("line table unavailable", "path", m.LineFile(), "err", err)
			return err
		}
		m.lines = t
	}
	if m.coco == nil {
		t, err := m.cache.Columnar(m.ContinuumFile())
		if err != nil {
			m.cfg.Logger.Error("continuum table unavailable", "path", m.ContinuumFile(), "err", err)
			return err
		}
		m.coco = t
	}

	tvals, err := m.lines.TemperatureGrid()
	if err != nil {
		return fmt.Errorf("apec: temperature grid: %w", err)
	}
	if len(tvals) < 2 {
		return fmt.Errorf("apec: temperature grid has %d entries, need at least 2", len(tvals))
	}
	m.tvals = tvals
	m.dtvals = make([]float64, len(tvals)-1)
	for i := range m.dtvals {
		m.dtvals[i] = tvals[i+1] - tvals[i]
	}

	wv := m.grid.WavelengthBins()
	m.minLambda = wv[0]
	m.maxLambda = wv[len(wv)-1]
	m.scaleFactor = 1.0 / (1.0 + redshift)
	m.prepared = true
	return nil
}

// Close releases the table handles. The model reverts to unprepared.
func (m *Model) Close() error {
	m.prepared = false
	m.lines = nil
	m.coco = nil
	return m.cache.Close()
}

// Spectrum synthesizes the cosmic and metal emission components for a
// plasma temperature kT in keV.
//
// Temperatures below the first or at/above the last tabulated grid point
// yield all-zero spectra and no error. A caller cannot distinguish that
// from physically zero emissivity; downstream samplers depend on the
// silent zero.
func (m *Model) Spectrum(ctx context.Context, kT float64) (model.ThermalSpectra, error) {
	if !m.prepared {
		return model.ThermalSpectra{}, ErrNotPrepared
	}

	nchan := m.grid.NChan()
	out := model.ThermalSpectra{
		Cosmic: model.Zero(nchan, model.Emissivity),
		Metal:  model.Zero(nchan, model.Emissivity),
	}

	// tindex is the largest grid temperature <= kT (insertion point minus
	// one), so an exact grid match lands on its own block with dT = 0.
	// Outside [0, len-2] there is no bracketing pair.
	tindex := sort.Search(len(m.tvals), func(i int) bool { return m.tvals[i] > kT }) - 1
	if tindex < 0 || tindex >= len(m.tvals)-1 {
		return out, nil
	}
	dT := (kT - m.tvals[tindex]) / m.dtvals[tindex]

	cosmicL := make([]float64, nchan)
	cosmicR := make([]float64, nchan)
	metalL := make([]float64, nchan)
	metalR := make([]float64, nchan)

	// Data blocks are offset by 2: blocks 0 and 1 hold header and grid
	// metadata, two data blocks follow per grid temperature.
	for _, elem := range cosmicElements {
		if err := m.addElement(cosmicL, elem, tindex+2, m.tvals[tindex]); err != nil {
			return model.ThermalSpectra{}, err
		}
		if err := m.addElement(cosmicR, elem, tindex+3, m.tvals[tindex+1]); err != nil {
			return model.ThermalSpectra{}, err
		}
	}
	for _, elem := range metalElements {
		if err := m.addElement(metalL, elem, tindex+2, m.tvals[tindex]); err != nil {
			return model.ThermalSpectra{}, err
		}
		if err := m.addElement(metalR, elem, tindex+3, m.tvals[tindex+1]); err != nil {
			return model.ThermalSpectra{}, err
		}
	}

	blend(out.Cosmic.Values, cosmicL, cosmicR, dT)
	blend(out.Metal.Values, metalL, metalR, dT)
	return out, nil
}

// blend writes left*(1-dT) + right*dT into dst.
func blend(dst, left, right []float64, dT float64) {
	tmp := make([]float64, len(right))
	vecmath.ScaleBlock(dst, left, 1-dT)
	vecmath.ScaleBlock(tmp, right, dT)
	vecmath.AddBlockInPlace(dst, tmp)
}
