package confkit

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a yaml.v3 document into T after expanding ${VAR} references
// against the process environment.
func LoadYAML[T any](path string) (*T, error) {
	LoadDotenvOnce()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg T
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Section is a config block kept in its own file and referenced from the
// main config by path, e.g. `Market: {File: market.yaml}`.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate loads File relative to base through loader. An empty File leaves
// the section untouched. On success File holds the resolved path.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	if s.File == "" {
		return nil
	}
	path := os.ExpandEnv(s.File)
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	v, err := loader(path)
	if err != nil {
		return err
	}
	s.File, s.Value = path, v
	return nil
}
