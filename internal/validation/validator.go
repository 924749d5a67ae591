package validation

import (
	"github.com/rendis/flowtree/internal/expressions"
	"github.com/rendis/flowtree/pkg/schema"
)

// GraphValidator orchestrates the three-stage validation pipeline:
//  1. Structural (JSON Schema)
//  2. Semantic (ids, endpoints, markers, operation bindings, guard compile)
//  3. Flow graph (cycles, reachability)
//
// The pipeline is opt-in lint for diagram authors; the converter itself only
// performs the structural checks needed to produce a correct tree.
type GraphValidator struct {
	jsonSchema *JSONSchemaValidator
	guards     *expressions.GuardSet
}

// NewGraphValidator creates a GraphValidator with a pre-compiled process
// schema and fresh guard engines.
func NewGraphValidator() (*GraphValidator, error) {
	jsv, err := NewJSONSchemaValidator()
	if err != nil {
		return nil, err
	}
	guards, err := expressions.NewGuardSet()
	if err != nil {
		return nil, err
	}
	return &GraphValidator{jsonSchema: jsv, guards: guards}, nil
}

// Validate runs the full 3-stage pipeline and returns an aggregated result.
// Structural errors short-circuit: semantic and graph stages are skipped.
func (gv *GraphValidator) Validate(g *schema.ProcessGraph) *schema.ValidationResult {
	if g == nil {
		r := &schema.ValidationResult{}
		r.AddError("/", schema.ErrCodeValidation, "process graph is nil")
		return r
	}

	// Stage 1: Structural (JSON Schema).
	result := &schema.ValidationResult{}
	if err := gv.jsonSchema.ValidateGraph(g); err != nil {
		result.AddError("/", schema.ErrCodeValidation, err.Error())
		return result
	}

	// Stage 2: Semantic.
	result.Merge(validateSemantic(g, gv.guards))

	// Stage 3: Flow graph (skip if semantic errors — the graph may be unusable).
	if result.Valid() {
		result.Merge(validateFlowGraph(g))
	}

	return result
}

// ValidateDocument validates a raw decoded document against the process
// schema only. The loader uses it before unmarshaling into a ProcessGraph.
func (gv *GraphValidator) ValidateDocument(doc any) error {
	return gv.jsonSchema.ValidateDocument(doc)
}

// ValidateGraph runs the full pipeline and converts the result to an error.
func (gv *GraphValidator) ValidateGraph(g *schema.ProcessGraph) error {
	return gv.Validate(g).ToError()
}
