// Package persona holds the immutable table of system instructions the bot can
// adopt. The table is compiled into the binary and may be replaced at startup by
// an external YAML file with the same shape.
package persona

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultID is the persona used when nothing else is selected or an id is unknown.
const DefaultID = "default"

// ErrInvalidTable is returned when a persona table violates its invariants.
var ErrInvalidTable = errors.New("invalid persona table")

//go:embed personas.yaml
var builtinTable []byte

// Persona pairs an identifier with the instruction text sent as the system prompt.
type Persona struct {
	ID          string `yaml:"id"`
	Instruction string `yaml:"instruction"`
}

// Store is a read-only persona lookup. The zero value is not usable; build one
// with New, Builtin or LoadFile.
type Store struct {
	order []string
	text  map[string]string
}

// New builds a Store from personas in display order. Exactly one entry must use
// DefaultID; ids must be unique and non-empty and every instruction non-blank.
func New(personas []Persona) (*Store, error) {
	s := &Store{
		order: make([]string, 0, len(personas)),
		text:  make(map[string]string, len(personas)),
	}

	for i, p := range personas {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: entry %d has an empty id", ErrInvalidTable, i)
		}
		if id != strings.ToLower(id) {
			return nil, fmt.Errorf("%w: id %q must be lower case", ErrInvalidTable, id)
		}
		if strings.TrimSpace(p.Instruction) == "" {
			return nil, fmt.Errorf("%w: persona %q has no instruction", ErrInvalidTable, id)
		}
		if _, dup := s.text[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidTable, id)
		}
		s.text[id] = p.Instruction
		if id != DefaultID {
			s.order = append(s.order, id)
		}
	}

	if _, ok := s.text[DefaultID]; !ok {
		return nil, fmt.Errorf("%w: missing %q persona", ErrInvalidTable, DefaultID)
	}
	return s, nil
}

// Parse decodes a YAML sequence of {id, instruction} entries into a Store.
func Parse(data []byte) (*Store, error) {
	var personas []Persona
	if err := yaml.Unmarshal(data, &personas); err != nil {
		return nil, fmt.Errorf("failed to decode persona table: %w", err)
	}
	return New(personas)
}

// Builtin returns the Store compiled into the binary.
func Builtin() (*Store, error) {
	return Parse(builtinTable)
}

// LoadFile reads a persona table from path. An empty path selects the builtin table.
func LoadFile(path string) (*Store, error) {
	if path == "" {
		return Builtin()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file %s: %w", path, err)
	}
	return Parse(data)
}

// Get returns the instruction text for id, or the default persona's text when id
// is not in the table.
func (s *Store) Get(id string) string {
	if text, ok := s.text[id]; ok {
		return text
	}
	return s.text[DefaultID]
}

// Has reports whether id is a selectable persona. The default persona is not.
func (s *Store) Has(id string) bool {
	if id == DefaultID {
		return false
	}
	_, ok := s.text[id]
	return ok
}

// List returns every persona id except DefaultID, in table order.
func (s *Store) List() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
