// Package schema builds JSON Schemas for tool inputs and binds call
// arguments against them.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/wagiedev/opendata-mcp-go/internal/errors"
)

// Constraint narrows an inferred property schema.
type Constraint struct {
	Min     *float64
	Max     *float64
	Default any
	Enum    []any
	Pattern string

	// Nullable admits JSON null, which binds as if the property were absent.
	Nullable bool
}

// Float returns a pointer to f, for Constraint bounds.
func Float(f float64) *float64 {
	return &f
}

// For infers the schema of T and applies constraints keyed by JSON property name.
//
// T must be a struct. Fields tagged omitempty are optional; a `jsonschema`
// struct tag becomes the property description.
func For[T any](constraints map[string]Constraint) (*jsonschema.Schema, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to infer schema: %w", err)
	}

	if s.Type != "object" {
		return nil, fmt.Errorf("input schema must have type \"object\", got %q", s.Type)
	}

	for name, c := range constraints {
		prop, ok := s.Properties[name]
		if !ok {
			return nil, fmt.Errorf("constraint for unknown property %q", name)
		}

		if err := c.apply(prop); err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
	}

	return s, nil
}

func (c Constraint) apply(prop *jsonschema.Schema) error {
	if c.Min != nil {
		prop.Minimum = c.Min
	}

	if c.Max != nil {
		prop.Maximum = c.Max
	}

	if c.Default != nil {
		data, err := json.Marshal(c.Default)
		if err != nil {
			return fmt.Errorf("failed to marshal default: %w", err)
		}

		prop.Default = data
	}

	if len(c.Enum) > 0 {
		prop.Enum = c.Enum
	}

	if c.Pattern != "" {
		if _, err := regexp.Compile(c.Pattern); err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}

		prop.Pattern = c.Pattern
	}

	if c.Nullable && prop.Type != "" {
		prop.Types = []string{prop.Type, "null"}
		prop.Type = ""
	}

	return nil
}

// Binder validates call arguments against a schema and decodes them into T.
type Binder[T any] struct {
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
	nullable []string
}

// NewBinder infers the schema of T with constraints and prepares it for validation.
func NewBinder[T any](constraints map[string]Constraint) (*Binder[T], error) {
	s, err := For[T](constraints)
	if err != nil {
		return nil, err
	}

	resolved, err := s.Resolve(&jsonschema.ResolveOptions{ValidateDefaults: true})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema: %w", err)
	}

	var nullable []string

	for name, c := range constraints {
		if c.Nullable {
			nullable = append(nullable, name)
		}
	}

	return &Binder[T]{schema: s, resolved: resolved, nullable: nullable}, nil
}

// MustBinder is like NewBinder but panics on error.
func MustBinder[T any](constraints map[string]Constraint) *Binder[T] {
	b, err := NewBinder[T](constraints)
	if err != nil {
		panic(err)
	}

	return b
}

// Schema returns the input schema advertised to callers.
func (b *Binder[T]) Schema() *jsonschema.Schema {
	return b.schema
}

// Bind applies defaults to args, validates them, and decodes the result.
// Any mismatch is reported as *errors.ValidationError. args is not modified.
func (b *Binder[T]) Bind(args map[string]any) (T, error) {
	var zero T

	// Round-trip through JSON so Go callers and wire callers see the same types.
	raw, err := json.Marshal(args)
	if err != nil {
		return zero, &errors.ValidationError{Reason: "arguments are not valid JSON", Err: err}
	}

	instance := make(map[string]any, len(args))
	if err := json.Unmarshal(raw, &instance); err != nil {
		return zero, &errors.ValidationError{Reason: "arguments must be an object", Err: err}
	}

	if instance == nil {
		instance = make(map[string]any)
	}

	for _, name := range b.nullable {
		if v, ok := instance[name]; ok && v == nil {
			delete(instance, name)
		}
	}

	if err := b.resolved.ApplyDefaults(&instance); err != nil {
		return zero, &errors.ValidationError{Reason: "failed to apply defaults", Err: err}
	}

	if err := b.resolved.Validate(instance); err != nil {
		return zero, &errors.ValidationError{
			Field:  fieldOf(err),
			Reason: strings.ReplaceAll(err.Error(), "<invalid reflect.Value>", "null"),
			Err:    err,
		}
	}

	raw, err = json.Marshal(instance)
	if err != nil {
		return zero, &errors.ValidationError{Reason: "arguments are not valid JSON", Err: err}
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, &errors.ValidationError{Reason: err.Error(), Err: err}
	}

	return out, nil
}

var (
	propertyPathRe    = regexp.MustCompile(`/properties/([^/: ]+)`)
	missingPropertyRe = regexp.MustCompile(`missing properties: \["([^"]+)"`)
	additionalPropRe  = regexp.MustCompile(`additional properties \["([^"]+)"`)
)

// fieldOf extracts the offending property name from a validation error, if any.
func fieldOf(err error) string {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{propertyPathRe, missingPropertyRe, additionalPropRe} {
		if m := re.FindStringSubmatch(msg); m != nil {
			return m[1]
		}
	}

	return ""
}
