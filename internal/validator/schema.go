package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldType is the JSON type a field must hold.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
)

// Field declares the type of a JSON object member and whether it must be present.
type Field struct {
	Type     FieldType
	Required bool
}

// Fields maps JSON member names to their declaration.
type Fields map[string]Field

// ValidationError reports every constraint a document violated, one message each.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "failed validation: " + strings.Join(e.Messages, "; ")
}

// Schema is a compiled JSON schema for objects described by Fields.
// A Schema is safe for concurrent use.
type Schema struct {
	name   string
	schema *jsonschema.Schema
}

// NewSchema compiles fields into a draft 2020-12 JSON schema for an object.
// Members not declared in fields are allowed and left unchecked.
func NewSchema(name string, fields Fields) (*Schema, error) {
	doc, err := json.Marshal(schemaDocument(fields))
	if err != nil {
		return nil, err
	}
	url := name + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", url, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}
	return &Schema{name: name, schema: compiled}, nil
}

// MustSchema is like NewSchema but panics if the schema cannot be compiled.
// It is intended for package-level schemas built from constant declarations.
func MustSchema(name string, fields Fields) *Schema {
	s, err := NewSchema(name, fields)
	if err != nil {
		panic(err)
	}
	return s
}

// schemaDocument places each required member in its own allOf branch so a
// document missing several members reports one violation per member.
func schemaDocument(fields Fields) map[string]interface{} {
	properties := make(map[string]interface{}, len(fields))
	required := []string{}
	for name, f := range fields {
		properties[name] = map[string]interface{}{"type": string(f.Type)}
		if f.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)
	doc := map[string]interface{}{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		allOf := make([]interface{}, 0, len(required))
		for _, name := range required {
			allOf = append(allOf, map[string]interface{}{"required": []string{name}})
		}
		doc["allOf"] = allOf
	}
	return doc
}

// Validate checks doc, a value decoded from JSON (numbers as json.Number or float64),
// and returns a *ValidationError listing every violation, or nil.
func (s *Schema) Validate(doc interface{}) error {
	err := s.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	var messages []string
	collectMessages(verr, &messages)
	sort.Strings(messages)
	return &ValidationError{Messages: messages}
}

// collectMessages walks the cause tree and keeps only the leaves, which name
// the failing keyword. Field-scoped violations are prefixed with the field path.
func collectMessages(err *jsonschema.ValidationError, messages *[]string) {
	if len(err.Causes) == 0 {
		field := strings.ReplaceAll(strings.TrimPrefix(err.InstanceLocation, "/"), "/", ".")
		if field == "" {
			*messages = append(*messages, err.Message)
			return
		}
		*messages = append(*messages, field+": "+err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectMessages(cause, messages)
	}
}
