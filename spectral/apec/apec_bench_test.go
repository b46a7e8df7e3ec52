package apec

import (
	"context"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-spectral/spectral/table"
)

func benchModel(b *testing.B, broad bool) *Model {
	b.Helper()

	rng := rand.New(rand.NewSource(42))
	blocks := make(map[int][]table.Line)
	for block := 2; block <= 4; block++ {
		lines := make([]table.Line, 0, 4000)
		for i := 0; i < 4000; i++ {
			elem := cosmicElements[i%len(cosmicElements)]
			if i%2 == 0 {
				elem = metalElements[i%len(metalElements)]
			}
			lines = append(lines, table.Line{
				Element: elem,
				Lambda:  lambdaFor(0.1 + 40*rng.Float64()),
				Epsilon: rng.Float64(),
			})
		}
		blocks[block] = lines
	}

	opts := []Option{}
	if broad {
		opts = append(opts, WithThermalBroadening())
	}

	m, err := New(b.TempDir(), 0.05, 50.0, 1000, opts...)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	m.lines = &fakeLines{tvals: []float64{1, 2, 3}, blocks: blocks}
	m.coco = &fakeCoco{}
	if err := m.Prepare(context.Background(), 0.05); err != nil {
		b.Fatalf("Prepare: %v", err)
	}
	return m
}

func BenchmarkSpectrum(b *testing.B) {
	m := benchModel(b, false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.Spectrum(context.Background(), 1.5); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSpectrumThermalBroadening(b *testing.B) {
	m := benchModel(b, true)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.Spectrum(context.Background(), 1.5); err != nil {
			b.Fatal(err)
		}
	}
}
