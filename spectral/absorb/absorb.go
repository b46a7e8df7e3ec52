// Package absorb provides the tabulated photoelectric absorption back-end.
//
// A [Table] loads a cross-section table keyed by energy and evaluates the
// Beer-Lambert transmission
//
//	T(E) = exp(-sigma(E) * nH)
//
// for a fixed foreground column density nH. The energy grid is implied by
// the table: its span comes from the "energy" dataset and its channel
// count from the "cross_section" dataset, so the caller does not choose
// grid parameters.
package absorb

import (
	"context"
	"errors"
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectral/spectral/grid"
	"github.com/cwbudde/algo-spectral/spectral/model"
	"github.com/cwbudde/algo-spectral/spectral/table"
)

// ErrMalformedTable reports a cross-section table without the required
// datasets.
var ErrMalformedTable = errors.New("absorb: table lacks energy or cross_section dataset")

// columnDensityScale converts the conventional nH input unit of
// 10^22 cm^-2 into cm^-2.
const columnDensityScale = 1.0e22

// Table is the table-driven absorption model. It implements
// [model.AbsorberModel]. The cross-section table is loaded eagerly at
// construction; Prepare is a no-op kept for the capability set.
type Table struct {
	grid  *grid.Grid
	sigma []float64 // cross-sections in cm^2, one per channel
	nH    float64   // column density in cm^-2
}

// source is the key-value table surface the model reads. Satisfied by
// [table.KeyValue].
type source interface {
	Dataset(name string) ([]float64, bool)
}

// Open loads the cross-section table at path and builds the model from it.
// A missing file is reported as [table.ErrTableNotFound]. nH is the
// foreground column density in units of 10^22 cm^-2.
func Open(path string, nH float64) (*Table, error) {
	kv, err := table.OpenKeyValue(path)
	if err != nil {
		return nil, err
	}
	return NewTable(kv, nH)
}

// NewTable builds an absorption model from an opened cross-section table.
// nH is the foreground column density in units of 10^22 cm^-2.
func NewTable(tbl source, nH float64) (*Table, error) {
	energy, ok := tbl.Dataset("energy")
	sigma, ok2 := tbl.Dataset("cross_section")
	if !ok || !ok2 || len(energy) < 2 || len(sigma) == 0 {
		return nil, ErrMalformedTable
	}

	emin, emax := energy[0], energy[0]
	for _, e := range energy[1:] {
		emin = math.Min(emin, e)
		emax = math.Max(emax, e)
	}

	g, err := grid.New(emin, emax, len(sigma))
	if err != nil {
		return nil, fmt.Errorf("absorb: grid from table span: %w", err)
	}

	own := make([]float64, len(sigma))
	copy(own, sigma)

	return &Table{
		grid:  g,
		sigma: own,
		nH:    nH * columnDensityScale,
	}, nil
}

// Grid returns the energy grid implied by the table.
func (t *Table) Grid() *grid.Grid { return t.grid }

// Prepare is a no-op: the table is loaded at construction.
func (t *Table) Prepare(ctx context.Context) error { return nil }

// Spectrum returns the per-channel transmission exp(-sigma*nH), a
// dimensionless value in [0,1] for any nonnegative column density.
func (t *Table) Spectrum(ctx context.Context) (model.Spectrum, error) {
	out := make([]float64, len(t.sigma))
	vecmath.ScaleBlock(out, t.sigma, -t.nH)
	for i, v := range out {
		out[i] = math.Exp(v)
	}
	return model.Spectrum{Values: out, Unit: model.Dimensionless}, nil
}
