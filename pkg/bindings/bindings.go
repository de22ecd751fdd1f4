// Package bindings loads declarative JSON/YAML documents that map schema
// component names and operation ids to registered model names, so a document
// can be annotated without hand-wiring each schema to its Go type.
package bindings

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store holds the merged bindings of every parsed file.
type Store struct {
	components map[string]string
	operations map[string]string
}

// Component returns the model name bound to a schema component.
func (s *Store) Component(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	model, ok := s.components[name]
	return model, ok
}

// Operation returns the model name bound to an operation id.
func (s *Store) Operation(id string) (string, bool) {
	if s == nil {
		return "", false
	}
	model, ok := s.operations[id]
	return model, ok
}

// Components returns a copy of the component bindings.
func (s *Store) Components() map[string]string {
	if s == nil {
		return nil
	}
	out := make(map[string]string, len(s.components))
	for k, v := range s.components {
		out[k] = v
	}
	return out
}

// Operations returns a copy of the operation bindings.
func (s *Store) Operations() map[string]string {
	if s == nil {
		return nil
	}
	out := make(map[string]string, len(s.operations))
	for k, v := range s.operations {
		out[k] = v
	}
	return out
}

// Empty reports whether the store holds any bindings.
func (s *Store) Empty() bool {
	return s == nil || (len(s.components) == 0 && len(s.operations) == 0)
}

type documentFile struct {
	Components map[string]string `json:"components" yaml:"components"`
	Operations map[string]string `json:"operations" yaml:"operations"`
}

// LoadFS walks the provided filesystem and parses every JSON/YAML bindings
// file. When fsys is nil or holds no bindings files, the returned store is
// empty. Duplicate bindings across files are an error.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{
		components: make(map[string]string),
		operations: make(map[string]string),
	}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isBindingsFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("bindings: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}
		if err := mergeBindings(store.components, doc.Components, "component", path); err != nil {
			return err
		}
		return mergeBindings(store.operations, doc.Operations, "operation", path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func mergeBindings(target, raw map[string]string, kind, source string) error {
	for key, model := range raw {
		name := strings.TrimSpace(key)
		if name == "" {
			return fmt.Errorf("bindings: file %s defines an empty %s name", source, kind)
		}
		if strings.TrimSpace(model) == "" {
			return fmt.Errorf("bindings: file %s binds %s %q to an empty model", source, kind, name)
		}
		if _, exists := target[name]; exists {
			return fmt.Errorf("bindings: duplicate %s binding %q (file %s)", kind, name, source)
		}
		target[name] = strings.TrimSpace(model)
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("bindings: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("bindings: parse %s: invalid JSON or YAML", source)
}

func isBindingsFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
