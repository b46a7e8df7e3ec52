package table

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/astrogo/fitsio"
)

// Errors returned by table access.
var (
	ErrTableNotFound   = errors.New("table: table file not found")
	ErrBlockOutOfRange = errors.New("table: block index out of range")
	ErrBadBlock        = errors.New("table: block is not a binary table")
)

// Line is one emission-line entry of a line table block.
type Line struct {
	Element int     // atomic number
	Lambda  float64 // rest-frame wavelength in angstrom
	Epsilon float64 // emission amplitude
}

// ContinuumRecord holds the sampled continuum and pseudo-continuum curves
// of one element, truncated to their tabulated lengths.
type ContinuumRecord struct {
	Energy       []float64 // continuum sample energies in keV
	Continuum    []float64 // continuum amplitudes
	PseudoEnergy []float64 // pseudo-continuum sample energies in keV
	Pseudo       []float64 // pseudo-continuum amplitudes
}

// Columnar is an open columnar table file. Blocks are indexed like the
// underlying FITS HDUs: block 0 is the primary header, block 1 the
// parameter block, data blocks follow. Parsed blocks are retained, so
// repeated reads of the same block do not touch the file again.
type Columnar struct {
	path string
	file *os.File
	fits *fitsio.File

	lineBlocks map[int][]Line
	contBlocks map[int][]contRow
}

type contRow struct {
	element int
	rmJ     int
	rec     ContinuumRecord
}

// OpenColumnar opens a columnar table file. A missing file is reported as
// [ErrTableNotFound].
func OpenColumnar(path string) (*Columnar, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("table: %s: %w", path, ErrTableNotFound)
		}
		return nil, fmt.Errorf("table: open %s: %w", path, err)
	}

	fit, err := fitsio.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("table: read %s: %w", path, err)
	}

	return &Columnar{
		path:       path,
		file:       f,
		fits:       fit,
		lineBlocks: make(map[int][]Line),
		contBlocks: make(map[int][]contRow),
	}, nil
}

// Path returns the file path the table was opened from.
func (c *Columnar) Path() string { return c.path }

// NumBlocks returns the number of blocks in the file.
func (c *Columnar) NumBlocks() int { return len(c.fits.HDUs()) }

// Close releases the file handle and the parsed blocks.
func (c *Columnar) Close() error {
	c.lineBlocks = nil
	c.contBlocks = nil

	err := c.fits.Close()
	cerr := c.file.Close()
	if err != nil {
		return fmt.Errorf("table: close %s: %w", c.path, err)
	}
	if cerr != nil {
		return fmt.Errorf("table: close %s: %w", c.path, cerr)
	}
	return nil
}

func (c *Columnar) block(i int) (*fitsio.Table, error) {
	if i < 0 || i >= c.NumBlocks() {
		return nil, fmt.Errorf("table: %s block %d: %w", c.path, i, ErrBlockOutOfRange)
	}
	tbl, ok := c.fits.HDU(i).(*fitsio.Table)
	if !ok {
		return nil, fmt.Errorf("table: %s block %d: %w", c.path, i, ErrBadBlock)
	}
	return tbl, nil
}

// TemperatureGrid reads the plasma temperature grid from the first data
// block ("kT" column), in keV.
func (c *Columnar) TemperatureGrid() ([]float64, error) {
	tbl, err := c.block(1)
	if err != nil {
		return nil, err
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, fmt.Errorf("table: %s temperature grid: %w", c.path, err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var rec struct {
			KT float32 `fits:"kT"`
		}
		if err := rows.Scan(&rec); err != nil {
			return nil, fmt.Errorf("table: %s temperature grid: %w", c.path, err)
		}
		out = append(out, float64(rec.KT))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table: %s temperature grid: %w", c.path, err)
	}
	return out, nil
}

// Lines reads the emission-line entries of a data block. The returned
// slice is owned by the table and must not be modified.
func (c *Columnar) Lines(block int) ([]Line, error) {
	if cached, ok := c.lineBlocks[block]; ok {
		return cached, nil
	}

	tbl, err := c.block(block)
	if err != nil {
		return nil, err
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, fmt.Errorf("table: %s lines block %d: %w", c.path, block, err)
	}
	defer rows.Close()

	out := make([]Line, 0, tbl.NumRows())
	for rows.Next() {
		var rec struct {
			Element int32   `fits:"element"`
			Lambda  float32 `fits:"lambda"`
			Epsilon float32 `fits:"epsilon"`
		}
		if err := rows.Scan(&rec); err != nil {
			return nil, fmt.Errorf("table: %s lines block %d: %w", c.path, block, err)
		}
		out = append(out, Line{
			Element: int(rec.Element),
			Lambda:  float64(rec.Lambda),
			Epsilon: float64(rec.Epsilon),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table: %s lines block %d: %w", c.path, block, err)
	}

	c.lineBlocks[block] = out
	return out, nil
}

// Continuum returns the continuum record of element in a data block,
// selecting the rest-frame entry (rmJ == 0). The second return value is
// false when the block has no such record, which is a supported condition:
// the element then contributes lines only.
func (c *Columnar) Continuum(block, element int) (ContinuumRecord, bool, error) {
	rows, err := c.continuumRows(block)
	if err != nil {
		return ContinuumRecord{}, false, err
	}
	for _, r := range rows {
		if r.element == element && r.rmJ == 0 {
			return r.rec, true, nil
		}
	}
	return ContinuumRecord{}, false, nil
}

func (c *Columnar) continuumRows(block int) ([]contRow, error) {
	if cached, ok := c.contBlocks[block]; ok {
		return cached, nil
	}

	tbl, err := c.block(block)
	if err != nil {
		return nil, err
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, fmt.Errorf("table: %s continuum block %d: %w", c.path, block, err)
	}
	defer rows.Close()

	out := make([]contRow, 0, tbl.NumRows())
	for rows.Next() {
		var rec struct {
			Z       int32     `fits:"Z"`
			RmJ     int32     `fits:"rmJ"`
			NCont   int32     `fits:"N_Cont"`
			ECont   []float32 `fits:"E_Cont"`
			Cont    []float32 `fits:"Continuum"`
			NPseudo int32     `fits:"N_Pseudo"`
			EPseudo []float32 `fits:"E_Pseudo"`
			Pseudo  []float32 `fits:"Pseudo"`
		}
		if err := rows.Scan(&rec); err != nil {
			return nil, fmt.Errorf("table: %s continuum block %d: %w", c.path, block, err)
		}

		// Array columns are fixed width; N_Cont/N_Pseudo give the used
		// prefix length.
		out = append(out, contRow{
			element: int(rec.Z),
			rmJ:     int(rec.RmJ),
			rec: ContinuumRecord{
				Energy:       toFloat64(rec.ECont, int(rec.NCont)),
				Continuum:    toFloat64(rec.Cont, int(rec.NCont)),
				PseudoEnergy: toFloat64(rec.EPseudo, int(rec.NPseudo)),
				Pseudo:       toFloat64(rec.Pseudo, int(rec.NPseudo)),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table: %s continuum block %d: %w", c.path, block, err)
	}

	c.contBlocks[block] = out
	return out, nil
}

func toFloat64(in []float32, n int) []float64 {
	if n > len(in) {
		n = len(in)
	}
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(in[i])
	}
	return out
}
