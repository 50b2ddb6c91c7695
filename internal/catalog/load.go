package catalog

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

type catalogFile struct {
	Facilities []Facility `yaml:"facilities"`
}

// Load parses a catalog YAML document and derives the priority tier and
// evidence flag for every facility. Derivation happens here, once, so the
// rest of the system reads explicit fields instead of re-matching keywords.
func Load(data []byte) ([]Facility, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Facilities) == 0 {
		return nil, fmt.Errorf("catalog has no facilities")
	}

	for i := range file.Facilities {
		f := &file.Facilities[i]
		if f.Code == "" {
			return nil, fmt.Errorf("catalog entry %d has no code", i)
		}
		f.Priority = DerivePriority(f.Type, f.Name)
		f.RequiresEvidence = DeriveRequiresEvidence(f.Type, f.Name)
	}

	return file.Facilities, nil
}

// LoadFile reads and parses the catalog at path.
func LoadFile(path string) ([]Facility, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Load(data)
}
