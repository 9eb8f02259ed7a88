package compat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TypeRecord is the schema type handled by the built-in record provider.
const TypeRecord = "record"

// primitiveTypes lists the field types accepted by the record provider.
var primitiveTypes = map[string]struct{}{
	"boolean": {},
	"int":     {},
	"long":    {},
	"float":   {},
	"double":  {},
	"bytes":   {},
	"string":  {},
}

// readablePromotions maps a reader type to the writer types it can read in
// addition to its own. Numeric widening only, mirroring the usual record
// schema evolution rules.
var readablePromotions = map[string][]string{
	"long":   {"int"},
	"float":  {"int", "long"},
	"double": {"int", "long", "float"},
	"string": {"bytes"},
	"bytes":  {"string"},
}

// recordSchema is the parsed form of a record schema document:
//
//	{
//	  "name": "Device",
//	  "fields": [
//	    {"name": "id", "type": "long"},
//	    {"name": "firmware", "type": "string", "optional": true},
//	    {"name": "region", "type": "string", "default": "eu"}
//	  ]
//	}
type recordSchema struct {
	Name   string        `json:"name"`
	Fields []recordField `json:"fields"`
}

type recordField struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Optional bool            `json:"optional"`
	Default  json.RawMessage `json:"default"`
}

// hasFallback reports whether a reader can materialize this field when the
// writer never wrote it. An explicit null default counts as a fallback.
func (f recordField) hasFallback() bool {
	return f.Optional || len(f.Default) > 0
}

// RecordProvider implements Provider for JSON record schemas with named,
// typed fields. It is the built-in provider of the registry; providers for
// other schema types are registered by the embedding application.
type RecordProvider struct{}

// NewRecordProvider returns the built-in record schema provider.
func NewRecordProvider() *RecordProvider {
	return &RecordProvider{}
}

// Type returns "record".
func (p *RecordProvider) Type() string {
	return TypeRecord
}

// Validate parses the schema text and checks structural well-formedness:
// non-empty record and field names, unique field names, known field types.
func (p *RecordProvider) Validate(schemaText string) error {
	_, err := p.parse(schemaText)
	return err
}

// IsCompatible reports whether newText can evolve from oldText in the given
// direction. Backward means a reader on the new schema reads data written
// with the old one; forward is the reverse.
func (p *RecordProvider) IsCompatible(oldText, newText string, direction Direction) (bool, error) {
	oldSchema, err := p.parse(oldText)
	if err != nil {
		return false, fmt.Errorf("old schema: %w", err)
	}
	newSchema, err := p.parse(newText)
	if err != nil {
		return false, fmt.Errorf("new schema: %w", err)
	}

	switch direction {
	case DirectionBackward:
		return canRead(newSchema, oldSchema), nil
	case DirectionForward:
		return canRead(oldSchema, newSchema), nil
	default:
		return false, fmt.Errorf("unknown compatibility direction %q", direction)
	}
}

func (p *RecordProvider) parse(schemaText string) (*recordSchema, error) {
	decoder := json.NewDecoder(strings.NewReader(schemaText))
	decoder.DisallowUnknownFields()

	var schema recordSchema
	if err := decoder.Decode(&schema); err != nil {
		return nil, fmt.Errorf("malformed record schema: %w", err)
	}
	if schema.Name == "" {
		return nil, fmt.Errorf("record schema has no name")
	}

	seen := make(map[string]struct{}, len(schema.Fields))
	for _, field := range schema.Fields {
		if field.Name == "" {
			return nil, fmt.Errorf("record %q has a field with no name", schema.Name)
		}
		if _, dup := seen[field.Name]; dup {
			return nil, fmt.Errorf("record %q has duplicate field %q", schema.Name, field.Name)
		}
		seen[field.Name] = struct{}{}
		if _, ok := primitiveTypes[field.Type]; !ok {
			return nil, fmt.Errorf("field %q has unknown type %q", field.Name, field.Type)
		}
	}
	return &schema, nil
}

// canRead reports whether the reader schema can decode data written with the
// writer schema. Every reader field must either exist in the writer with a
// readable type, or carry a fallback. Writer fields unknown to the reader are
// skipped.
func canRead(reader, writer *recordSchema) bool {
	writerFields := make(map[string]recordField, len(writer.Fields))
	for _, field := range writer.Fields {
		writerFields[field.Name] = field
	}

	for _, readerField := range reader.Fields {
		writerField, ok := writerFields[readerField.Name]
		if !ok {
			if !readerField.hasFallback() {
				return false
			}
			continue
		}
		if !typeReadable(readerField.Type, writerField.Type) {
			return false
		}
	}
	return true
}

func typeReadable(readerType, writerType string) bool {
	if readerType == writerType {
		return true
	}
	for _, promoted := range readablePromotions[readerType] {
		if promoted == writerType {
			return true
		}
	}
	return false
}
