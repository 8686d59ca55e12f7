package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// file is the on-disk layout of a catalog:
//
//	units:
//	  - type: A-10C
//	    price: 20
//	    task: CAS
//	    capabilities: [CAS]
type file struct {
	Units []Entry `yaml:"units"`
}

// Decode reads a YAML catalog from r.
func Decode(r io.Reader) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return New(f.Units...)
}

// LoadYAML reads a YAML catalog from path.
func LoadYAML(path string) (*Catalog, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer fh.Close()

	c, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
