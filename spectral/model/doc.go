// Package model defines the capability set shared by all spectral model
// back-ends and the unit-tagged spectrum value they produce.
//
// Two model families exist:
//
//   - [ThermalModel]: temperature-dependent plasma emission, split into a
//     trace/cosmic component (H, He and trace species) and a metal component
//     so downstream code can rescale abundances independently.
//   - [AbsorberModel]: a column-density-dependent transmission curve.
//
// Back-ends are independent tagged variants selected at construction time
// (table-driven synthesis in spectral/apec and spectral/absorb, an external
// fitting tool in spectral/xsfit). They share no state beyond conforming to
// these interfaces; each owns its own energy grid.
//
// All back-ends follow a two-phase lifecycle: construct, then call Prepare
// exactly once before querying spectra. Prepare opens table files or
// configures the external tool for a target redshift. A single model
// instance must not be queried concurrently.
package model
