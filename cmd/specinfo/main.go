// Command specinfo synthesizes thermal plasma spectra from APEC table
// files and prints summary statistics per temperature.
//
// Usage:
//
//	specinfo [flags] [kT ...]
//
// Temperatures are in keV. Without arguments a default ladder of
// temperatures is used.
//
// Examples:
//
//	specinfo -table /data/atomdb 2.0
//	specinfo -table /data/atomdb -z 0.05 -broaden 0.5 1 2 4 8
//	specinfo -table /data/atomdb -absorb tbabs.cbor -nh 0.1 2.0
//	specinfo -table /data/atomdb -fwhm 0.12 6.7
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/algo-spectral/spectral/absorb"
	"github.com/cwbudde/algo-spectral/spectral/apec"
	"github.com/cwbudde/algo-spectral/spectral/model"
	"github.com/cwbudde/algo-spectral/spectral/response"
	"github.com/cwbudde/algo-spectral/spectral/stats"
)

var defaultTemperatures = []float64{0.5, 1, 2, 4, 8, 16}

func main() {
	table := flag.String("table", "", "directory holding the APEC line and continuum files")
	version := flag.String("version", apec.DefaultVersion, "APEC table version")
	emin := flag.Float64("emin", 0.05, "lower grid bound in keV")
	emax := flag.Float64("emax", 50.0, "upper grid bound in keV")
	nchan := flag.Int("nchan", 10000, "number of energy channels")
	redshift := flag.Float64("z", 0.0, "source redshift")
	broaden := flag.Bool("broaden", false, "apply thermal line broadening")
	abund := flag.Float64("abund", 0.3, "metal abundance in solar units")
	absorbPath := flag.String("absorb", "", "absorption cross-section table (CBOR); empty disables absorption")
	nH := flag.Float64("nh", 0.1, "hydrogen column density in 1e22 cm^-2 (with -absorb)")
	fwhm := flag.Float64("fwhm", 0.0, "instrument FWHM in keV; 0 disables response smoothing")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: specinfo [flags] [kT ...]\n\n")
		fmt.Fprintf(os.Stderr, "Synthesizes thermal plasma spectra and prints per-temperature statistics.\n")
		fmt.Fprintf(os.Stderr, "Temperatures are in keV; without arguments a default ladder is used.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  specinfo -table /data/atomdb 2.0\n")
		fmt.Fprintf(os.Stderr, "  specinfo -table /data/atomdb -z 0.05 -broaden 0.5 1 2 4 8\n")
		fmt.Fprintf(os.Stderr, "  specinfo -table /data/atomdb -absorb tbabs.cbor -nh 0.1 2.0\n")
	}
	flag.Parse()

	if *table == "" {
		fmt.Fprintf(os.Stderr, "error: -table is required\n")
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	temps := defaultTemperatures
	if args := flag.Args(); len(args) > 0 {
		temps = nil
		for _, arg := range args {
			kT, err := strconv.ParseFloat(arg, 64)
			if err != nil || kT <= 0 {
				fmt.Fprintf(os.Stderr, "warning: skipping invalid temperature %q\n", arg)
				continue
			}
			temps = append(temps, kT)
		}
	}
	if len(temps) == 0 {
		fmt.Fprintf(os.Stderr, "error: no valid temperatures\n")
		os.Exit(1)
	}

	ctx := context.Background()

	opts := []apec.Option{
		apec.WithVersion(*version),
		apec.WithLogger(logger),
	}
	if *broaden {
		opts = append(opts, apec.WithThermalBroadening())
	}

	therm, err := apec.New(*table, *emin, *emax, *nchan, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer therm.Close()

	if err := therm.Prepare(ctx, *redshift); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	grid := therm.Grid()

	var transmission []float64
	if *absorbPath != "" {
		abs, err := absorb.Open(*absorbPath, *nH)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		tspec, err := abs.Spectrum(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if len(tspec.Values) != grid.NChan() {
			fmt.Fprintf(os.Stderr, "error: absorption table has %d channels, grid has %d\n",
				len(tspec.Values), grid.NChan())
			os.Exit(1)
		}
		transmission = tspec.Values
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "kT [keV]\tTotal [cm**3/s]\tPeak [keV]\tCentroid [keV]\tSpread [keV]\tSoft frac\n")
	fmt.Fprintf(tw, "--------\t---------------\t----------\t--------------\t------------\t---------\n")

	for _, kT := range temps {
		spec, err := therm.Spectrum(ctx, kT)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: kT=%g: %v\n", kT, err)
			os.Exit(1)
		}

		values := combine(spec, *abund)
		if transmission != nil {
			for i := range values {
				values[i] *= transmission[i]
			}
		}
		if *fwhm > 0 {
			values, err = response.Smooth(grid, values, *fwhm)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: kT=%g: %v\n", kT, err)
				os.Exit(1)
			}
		}

		s := stats.Calculate(grid, values)
		soft := stats.BandFraction(grid, values, grid.EMin(), 2.0)
		fmt.Fprintf(tw, "%g\t%.6g\t%.4f\t%.4f\t%.4f\t%.4f\n",
			kT, s.Total, s.PeakEnergy, s.Centroid, s.Spread, soft)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

// combine folds cosmic and abundance-scaled metal emissivities into one
// spectrum.
func combine(spec model.ThermalSpectra, abund float64) []float64 {
	out := make([]float64, len(spec.Cosmic.Values))
	copy(out, spec.Cosmic.Values)
	for i, v := range spec.Metal.Values {
		out[i] += abund * v
	}
	return out
}
