package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// MissingError lists the required fields that are still empty, in render order.
type MissingError struct {
	Fields []string
}

func (e *MissingError) Error() string {
	return "required fields missing: " + strings.Join(e.Fields, ", ")
}

// State tracks one value per metadata field. Every field starts empty.
type State struct {
	meta   Metadata
	values map[string]string
}

// NewState returns a state with an empty value for each field of meta.
func NewState(meta Metadata) *State {
	s := &State{meta: meta}
	s.Reset()
	return s
}

// Metadata returns the metadata the state was built from.
func (s *State) Metadata() Metadata { return s.meta }

// Reset sets every field back to the empty string.
func (s *State) Reset() {
	s.values = make(map[string]string, s.meta.Len())
	for _, f := range s.meta.fields {
		s.values[f.Name] = ""
	}
}

// Set updates a single field. Other fields are untouched.
func (s *State) Set(name, value string) error {
	if _, ok := s.values[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	s.values[name] = value
	return nil
}

// Apply sets several fields at once. Unknown names are reported together and
// leave the state unchanged.
func (s *State) Apply(values map[string]string) error {
	var unknown []string
	for name := range values {
		if _, ok := s.values[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %s", ErrUnknownField, strings.Join(unknown, ", "))
	}
	for name, value := range values {
		s.values[name] = value
	}
	return nil
}

// Value returns the current value of a field, or "" when the field is unknown.
func (s *State) Value(name string) string {
	return s.values[name]
}

// Missing returns the names of empty fields in render order.
func (s *State) Missing() []string {
	var missing []string
	for _, f := range s.meta.fields {
		if strings.TrimSpace(s.values[f.Name]) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// Validate returns a *MissingError when any required field is empty.
func (s *State) Validate() error {
	if missing := s.Missing(); len(missing) > 0 {
		return &MissingError{Fields: missing}
	}
	return nil
}

// Snapshot copies the current values in render order.
func (s *State) Snapshot() Snapshot {
	out := make(Snapshot, 0, len(s.meta.fields))
	for _, f := range s.meta.fields {
		out = append(out, Entry{Name: f.Name, Value: s.values[f.Name]})
	}
	return out
}

// Entry is a single field/value pair of a snapshot.
type Entry struct {
	Name  string
	Value string
}

// Snapshot is an immutable, ordered copy of a form's values. It encodes as a
// JSON object whose keys follow the metadata order.
type Snapshot []Entry

// Map returns the snapshot as a plain map.
func (s Snapshot) Map() map[string]string {
	out := make(map[string]string, len(s))
	for _, e := range s {
		out[e.Name] = e.Value
	}
	return out
}

// MarshalJSON encodes the snapshot as an ordered JSON object.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
