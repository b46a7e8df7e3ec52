package table

// Cache lazily opens table files and retains them until Close. Opening the
// same path twice returns the same handle. Not safe for concurrent use.
type Cache struct {
	columnar map[string]*Columnar
	keyvalue map[string]*KeyValue
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		columnar: make(map[string]*Columnar),
		keyvalue: make(map[string]*KeyValue),
	}
}

// Columnar returns the columnar table at path, opening it on first use.
func (c *Cache) Columnar(path string) (*Columnar, error) {
	if t, ok := c.columnar[path]; ok {
		return t, nil
	}
	t, err := OpenColumnar(path)
	if err != nil {
		return nil, err
	}
	c.columnar[path] = t
	return t, nil
}

// KeyValue returns the key-value table at path, loading it on first use.
func (c *Cache) KeyValue(path string) (*KeyValue, error) {
	if t, ok := c.keyvalue[path]; ok {
		return t, nil
	}
	t, err := OpenKeyValue(path)
	if err != nil {
		return nil, err
	}
	c.keyvalue[path] = t
	return t, nil
}

// Close releases every retained handle. The cache may be reused afterwards;
// tables will be reopened on demand.
func (c *Cache) Close() error {
	var first error
	for path, t := range c.columnar {
		if err := t.Close(); err != nil && first == nil {
			first = err
		}
		delete(c.columnar, path)
	}
	for path := range c.keyvalue {
		delete(c.keyvalue, path)
	}
	return first
}
