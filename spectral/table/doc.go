// Package table provides read access to the physical table files consumed
// by the spectral model back-ends.
//
// Two file kinds exist:
//
//   - Columnar table files are FITS binary tables with indexed blocks
//     (HDUs). Line tables carry per-row element/lambda/epsilon fields with
//     the temperature grid in the first data block; continuum tables carry
//     per-element sampled continuum and pseudo-continuum curves.
//   - Key-value table files are CBOR maps of named float64 arrays, used for
//     absorption cross-section tables (datasets "energy", "cross_section").
//
// [Cache] lazily opens files on first use and retains both the handles and
// the parsed blocks for its lifetime. A cache and the tables it owns are
// not safe for concurrent use.
package table
