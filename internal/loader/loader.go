// Package loader decodes serialized process documents (JSON or YAML) into
// the in-memory ProcessGraph model and runs the validation pipeline over
// them. It is the model-supplying collaborator of the converter: the
// converter itself never parses a serialized format.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rendis/flowtree/internal/validation"
	"github.com/rendis/flowtree/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Format identifies a serialized process document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Loader decodes and validates process documents. Safe for concurrent use.
type Loader struct {
	validator      *validation.GraphValidator
	skipValidation bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithoutValidation disables the semantic and graph validation stages.
// The structural JSON Schema check always runs: a document that does not
// decode into the model is useless to every caller.
func WithoutValidation() Option {
	return func(l *Loader) { l.skipValidation = true }
}

// New creates a Loader with a pre-compiled process schema.
func New(opts ...Option) (*Loader, error) {
	gv, err := validation.NewGraphValidator()
	if err != nil {
		return nil, fmt.Errorf("loader: create validator: %w", err)
	}
	l := &Loader{validator: gv}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// LoadFile reads and decodes the process document at path. The format is
// derived from the file extension (.json, .yaml, .yml).
func (l *Loader) LoadFile(path string) (*schema.ProcessGraph, error) {
	format, err := formatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "open process document: %s", err.Error()).WithCause(err)
	}
	defer f.Close()

	return l.Load(f, format)
}

// Load decodes a process document from r in the given format.
func (l *Loader) Load(r io.Reader, format Format) (*schema.ProcessGraph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "read process document").WithCause(err)
	}

	var doc any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, schema.NewErrorf(schema.ErrCodeValidation, "invalid JSON: %s", err.Error()).WithCause(err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, schema.NewErrorf(schema.ErrCodeValidation, "invalid YAML: %s", err.Error()).WithCause(err)
		}
		doc = normalizeYAML(doc)
	default:
		return nil, schema.NewErrorf(schema.ErrCodeValidation, "unsupported document format %q", format)
	}

	// Structural check against the raw document, before the model hides
	// unknown fields.
	if err := l.validator.ValidateDocument(doc); err != nil {
		return nil, err
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "normalize process document").WithCause(err)
	}

	var graph schema.ProcessGraph
	if err := json.Unmarshal(normalized, &graph); err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeValidation, "decode process document: %s", err.Error()).WithCause(err)
	}

	assignEdgeIDs(&graph)

	if !l.skipValidation {
		if err := l.validator.ValidateGraph(&graph); err != nil {
			return nil, err
		}
	}

	return &graph, nil
}

// formatFromPath maps a file extension to a Format.
func formatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", schema.NewErrorf(schema.ErrCodeValidation, "unsupported document extension %q", filepath.Ext(path))
	}
}

// assignEdgeIDs fills missing edge ids so every flow can be referenced in
// diagnostics. Generated ids are stable within one load only.
func assignEdgeIDs(g *schema.ProcessGraph) {
	for i := range g.Edges {
		if g.Edges[i].ID == "" {
			g.Edges[i].ID = "flow-" + uuid.NewString()
		}
	}
	for i := range g.Nodes {
		if g.Nodes[i].Kind == schema.NodeKindSubprocess && g.Nodes[i].Graph != nil {
			assignEdgeIDs(g.Nodes[i].Graph)
		}
	}
}

// normalizeYAML converts yaml.v3's map[string]any/[]any trees into
// JSON-compatible values. yaml.v3 already decodes string-keyed maps as
// map[string]any; non-string keys are rejected later by the schema, so only
// nested containers need walking.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeYAML(item)
		}
		return val
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return m
	case []any:
		for i, item := range val {
			val[i] = normalizeYAML(item)
		}
		return val
	default:
		return v
	}
}
