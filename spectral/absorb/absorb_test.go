package absorb

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/cwbudde/algo-spectral/spectral/model"
	"github.com/cwbudde/algo-spectral/spectral/table"
)

type fakeSource map[string][]float64

func (f fakeSource) Dataset(name string) ([]float64, bool) {
	d, ok := f[name]
	return d, ok
}

func testSource() fakeSource {
	return fakeSource{
		"energy":        {0.1, 1.0, 10.0},
		"cross_section": {1e-20, 1e-21, 1e-22, 1e-23},
	}
}

func TestNewTableGridFromSpan(t *testing.T) {
	tbl, err := NewTable(testSource(), 0.1)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	g := tbl.Grid()
	if g.EMin() != 0.1 || g.EMax() != 10.0 {
		t.Fatalf("grid span %v..%v want 0.1..10", g.EMin(), g.EMax())
	}
	if g.NChan() != 4 {
		t.Fatalf("nchan %d want 4 (one per cross-section entry)", g.NChan())
	}
}

func TestSpectrumTransmissionRange(t *testing.T) {
	for _, nH := range []float64{0.0, 0.01, 0.1, 1.0, 100.0} {
		tbl, err := NewTable(testSource(), nH)
		if err != nil {
			t.Fatalf("nH=%v: %v", nH, err)
		}
		if err := tbl.Prepare(context.Background()); err != nil {
			t.Fatalf("Prepare: %v", err)
		}

		spec, err := tbl.Spectrum(context.Background())
		if err != nil {
			t.Fatalf("Spectrum: %v", err)
		}
		if spec.Unit != model.Dimensionless {
			t.Fatalf("unit %q want dimensionless", spec.Unit)
		}
		for i, v := range spec.Values {
			if v < 0 || v > 1 {
				t.Fatalf("nH=%v channel %d: transmission %v outside [0,1]", nH, i, v)
			}
		}
	}
}

func TestSpectrumZeroColumnDensity(t *testing.T) {
	tbl, err := NewTable(testSource(), 0.0)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	spec, err := tbl.Spectrum(context.Background())
	if err != nil {
		t.Fatalf("Spectrum: %v", err)
	}
	for i, v := range spec.Values {
		if v != 1.0 {
			t.Fatalf("channel %d: transmission %v want 1", i, v)
		}
	}
}

func TestSpectrumBeerLambert(t *testing.T) {
	tbl, err := NewTable(testSource(), 0.1)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	spec, err := tbl.Spectrum(context.Background())
	if err != nil {
		t.Fatalf("Spectrum: %v", err)
	}

	// nH = 0.1 * 1e22 cm^-2; first channel sigma = 1e-20 cm^2.
	want := math.Exp(-1e-20 * 0.1 * 1e22)
	if math.Abs(spec.Values[0]-want) > 1e-15 {
		t.Fatalf("channel 0 = %v want %v", spec.Values[0], want)
	}
}

func TestNewTableMalformed(t *testing.T) {
	_, err := NewTable(fakeSource{"energy": {1, 2}}, 0.1)
	if !errors.Is(err, ErrMalformedTable) {
		t.Fatalf("got %v want ErrMalformedTable", err)
	}
	_, err = NewTable(fakeSource{"cross_section": {1e-22}}, 0.1)
	if !errors.Is(err, ErrMalformedTable) {
		t.Fatalf("got %v want ErrMalformedTable", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.tbl"), 0.1)
	if !errors.Is(err, table.ErrTableNotFound) {
		t.Fatalf("got %v want ErrTableNotFound", err)
	}
}

func TestOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tbabs.tbl")
	raw, err := cbor.Marshal(map[string][]float64{
		"energy":        {0.1, 1.0, 10.0},
		"cross_section": {1e-20, 1e-21, 1e-22, 1e-23},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tbl, err := Open(path, 0.5)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if tbl.Grid().NChan() != 4 {
		t.Fatalf("nchan %d want 4", tbl.Grid().NChan())
	}
}
