// Package yamlx reads and writes ordered YAML mappings on disk.
package yamlx

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/clashkit/clashkit/internal/coreconf"
	"github.com/clashkit/clashkit/internal/dirs"
)

// ReadMapping parses the file at path into an ordered mapping. An empty
// file yields an empty mapping; a non-mapping document is an error.
func ReadMapping(path string) (*coreconf.Mapping, error) {
	// #nosec G304 -- path comes from trusted app dir resolution.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := coreconf.NewMapping()
	if err := yaml.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

// WriteMapping serializes m to path with an optional leading comment
// banner, creating parent directories as needed.
func WriteMapping(path string, m *coreconf.Mapping, header string) error {
	var buf bytes.Buffer
	if header != "" {
		buf.WriteString(header)
		buf.WriteString("\n\n")
	}
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// FileStore is the disk-backed storage collaborator of the config guard.
type FileStore struct{}

func (FileStore) ConfigPath() (string, error) {
	return dirs.ConfigPath()
}

func (FileStore) ReadMapping(path string) (*coreconf.Mapping, error) {
	return ReadMapping(path)
}

func (FileStore) WriteMapping(path string, m *coreconf.Mapping, header string) error {
	return WriteMapping(path, m, header)
}
