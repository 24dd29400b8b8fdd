package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"typecaster/options"
	"typecaster/serializer"
)

// Version is the schema file version this package reads and writes.
const Version = "1"

// LoadFile loads and parses a schema file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	if f.Version == "" {
		f.Version = Version
	}

	return &f, nil
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}

	return nil
}

// Config returns the dialect configuration described by the options.
func (o Options) Config() (serializer.Config, error) {
	cfg := serializer.DefaultConfig()

	if o.Dialect != "" {
		cfg.Name = o.Dialect
	}

	if o.Allow != nil {
		allowed, err := options.ParseCategories(o.Allow)
		if err != nil {
			return serializer.Config{}, err
		}

		cfg.Allowed = allowed
	}

	return cfg, nil
}
