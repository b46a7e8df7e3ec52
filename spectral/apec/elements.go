package apec

// Element partition used to split spectra into a trace/cosmic and a metal
// component. The partition is a fixed property of the emission tables, not
// a tunable: abundance rescaling downstream applies to the metal set only.
var (
	// cosmicElements are H, He and the trace species.
	cosmicElements = []int{1, 2, 3, 4, 5, 9, 11, 15, 17, 19, 21, 22, 23, 24, 25, 27, 29, 30}

	// metalElements are the non-trace metals.
	metalElements = []int{6, 7, 8, 10, 12, 13, 14, 16, 18, 20, 26, 28}
)

// CosmicElements returns the atomic numbers of the trace/cosmic set.
func CosmicElements() []int {
	out := make([]int, len(cosmicElements))
	copy(out, cosmicElements)
	return out
}

// MetalElements returns the atomic numbers of the metal set.
func MetalElements() []int {
	out := make([]int, len(metalElements))
	copy(out, metalElements)
	return out
}
