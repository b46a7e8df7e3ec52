package stats_test

import (
	"fmt"
	"log"

	"github.com/cwbudde/algo-spectral/spectral/grid"
	"github.com/cwbudde/algo-spectral/spectral/stats"
)

func ExampleCalculate() {
	g, err := grid.New(0.0, 10.0, 10)
	if err != nil {
		log.Fatal(err)
	}

	values := make([]float64, 10)
	values[3] = 4.0

	s := stats.Calculate(g, values)
	fmt.Printf("total=%g peak=%g keV centroid=%g keV\n", s.Total, s.PeakEnergy, s.Centroid)
	// Output:
	// total=4 peak=3.5 keV centroid=3.5 keV
}

func ExampleBandFraction() {
	g, err := grid.New(0.0, 10.0, 10)
	if err != nil {
		log.Fatal(err)
	}

	values := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	fmt.Printf("%.1f\n", stats.BandFraction(g, values, 0.0, 5.0))
	// Output:
	// 0.5
}
