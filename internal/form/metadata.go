// internal/form/metadata.go
// Package form holds the server-declared form shape and the values a user
// enters against it.
package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Placeholder is the label of the empty option offered ahead of the allowed
// values of a select field.
const Placeholder = "--"

var (
	// ErrDuplicateField is returned when metadata names the same field twice.
	ErrDuplicateField = errors.New("duplicate field")
	// ErrUnknownField is returned when a value is set for a field the metadata does not declare.
	ErrUnknownField = errors.New("unknown field")
)

// Kind distinguishes free-text fields from constrained single-choice fields.
type Kind int

const (
	// KindText is a free-text input.
	KindText Kind = iota
	// KindSelect is a single choice among the field's options.
	KindSelect
)

// String returns the name of the kind.
func (k Kind) String() string {
	if k == KindSelect {
		return "select"
	}
	return "text"
}

// Field is a single form input as declared by the metadata endpoint.
type Field struct {
	Name    string
	Options []string
}

// Kind reports whether the field is rendered as a text input or a select.
func (f Field) Kind() Kind {
	if len(f.Options) > 0 {
		return KindSelect
	}
	return KindText
}

// Choice is one entry of a select control.
type Choice struct {
	Label string
	Value string
}

// Choices returns the placeholder followed by every allowed value. Text fields
// have no choices.
func (f Field) Choices() []Choice {
	if f.Kind() != KindSelect {
		return nil
	}
	out := make([]Choice, 0, len(f.Options)+1)
	out = append(out, Choice{Label: Placeholder, Value: ""})
	for _, opt := range f.Options {
		out = append(out, Choice{Label: opt, Value: opt})
	}
	return out
}

// Metadata is the ordered set of fields a form renders. The zero value is a
// valid form with no fields.
type Metadata struct {
	fields []Field
	index  map[string]int
}

// NewMetadata builds metadata from fields in render order.
func NewMetadata(fields ...Field) (Metadata, error) {
	m := Metadata{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if _, exists := m.index[f.Name]; exists {
			return Metadata{}, fmt.Errorf("%w: %q", ErrDuplicateField, f.Name)
		}
		opts := make([]string, len(f.Options))
		copy(opts, f.Options)
		m.index[f.Name] = len(m.fields)
		m.fields = append(m.fields, Field{Name: f.Name, Options: opts})
	}
	return m, nil
}

// ParseMetadata decodes a JSON object of field name to allowed values,
// keeping the object's key order. A null or empty array marks a free-text
// field.
func ParseMetadata(data []byte) (Metadata, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return Metadata{}, fmt.Errorf("decode metadata: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Metadata{}, fmt.Errorf("decode metadata: expected object, got %v", tok)
	}

	var fields []Field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Metadata{}, fmt.Errorf("decode metadata: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return Metadata{}, fmt.Errorf("decode metadata: unexpected key %v", keyTok)
		}
		var options []string
		if err := dec.Decode(&options); err != nil {
			return Metadata{}, fmt.Errorf("decode metadata field %q: %w", name, err)
		}
		fields = append(fields, Field{Name: name, Options: options})
	}
	if _, err := dec.Token(); err != nil {
		return Metadata{}, fmt.Errorf("decode metadata: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Metadata{}, errors.New("decode metadata: trailing data after object")
	}

	return NewMetadata(fields...)
}

// Len returns the number of fields.
func (m Metadata) Len() int { return len(m.fields) }

// Fields returns a copy of the fields in render order.
func (m Metadata) Fields() []Field {
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// Names returns the field names in render order.
func (m Metadata) Names() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Name
	}
	return names
}

// Field looks up a field by name.
func (m Metadata) Field(name string) (Field, bool) {
	i, ok := m.index[name]
	if !ok {
		return Field{}, false
	}
	return m.fields[i], true
}

// MarshalJSON encodes the metadata as an object in render order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		opts := f.Options
		if opts == nil {
			opts = []string{}
		}
		val, err := json.Marshal(opts)
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

// String summarises the metadata for log lines.
func (m Metadata) String() string {
	parts := make([]string, len(m.fields))
	for i, f := range m.fields {
		parts[i] = fmt.Sprintf("%s(%s:%d)", f.Name, f.Kind(), len(f.Options))
	}
	return strings.Join(parts, " ")
}
