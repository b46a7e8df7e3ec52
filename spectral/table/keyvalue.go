package table

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// KeyValue is a loaded key-value table file: a CBOR map of named float64
// arrays. The whole file is decoded on open; there is no handle to release.
type KeyValue struct {
	path string
	data map[string][]float64
}

// OpenKeyValue loads a key-value table file. A missing file is reported as
// [ErrTableNotFound].
func OpenKeyValue(path string) (*KeyValue, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("table: %s: %w", path, ErrTableNotFound)
		}
		return nil, fmt.Errorf("table: open %s: %w", path, err)
	}

	var data map[string][]float64
	if err := cbor.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("table: decode %s: %w", path, err)
	}

	return &KeyValue{path: path, data: data}, nil
}

// Path returns the file path the table was loaded from.
func (kv *KeyValue) Path() string { return kv.path }

// Dataset returns the named array. The slice is owned by the table and
// must not be modified.
func (kv *KeyValue) Dataset(name string) ([]float64, bool) {
	d, ok := kv.data[name]
	return d, ok
}
