package conversation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ContextStore loads named system-prompt contexts from .txt files in a
// directory. The name is reduced to its base name so callers cannot escape
// the directory.
type ContextStore struct {
	dir         string
	defaultName string
}

func NewContextStore(dir, defaultName string) *ContextStore {
	if defaultName == "" {
		defaultName = "default"
	}
	return &ContextStore{dir: dir, defaultName: defaultName}
}

// Load returns the context text for name, falling back to the default name
// when name is empty. A missing file yields ErrContextNotFound.
func (s *ContextStore) Load(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultName
	}
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, ".txt")

	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrContextNotFound
		}
		return "", fmt.Errorf("conversation: failed to read context %q: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Names lists the available context names, without the .txt suffix.
func (s *ContextStore) Names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to list contexts: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".txt"))
	}
	return names, nil
}
