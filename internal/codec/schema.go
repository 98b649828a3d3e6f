package codec

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fmac99/threat-intel-poc/internal/graph"
	"github.com/google/jsonschema-go/jsonschema"
)

func attrsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		AdditionalProperties: &jsonschema.Schema{
			Types: []string{"string", "number", "boolean"},
		},
	}
}

// recordSchema describes the portable record:
// {properties: {directed, weighted, labeled}, nodes: [{id, attrs}], edges: [{source, target, attrs}]}.
func recordSchema() *jsonschema.Schema {
	// presence is required, but "" is a valid key
	key := func() *jsonschema.Schema {
		return &jsonschema.Schema{Type: "string"}
	}
	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"properties", "nodes", "edges"},
		Properties: map[string]*jsonschema.Schema{
			"properties": {
				Type:     "object",
				Required: []string{"directed", "weighted", "labeled"},
				Properties: map[string]*jsonschema.Schema{
					"directed": {Type: "boolean"},
					"weighted": {Type: "boolean"},
					"labeled":  {Type: "boolean"},
				},
			},
			"nodes": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type:     "object",
					Required: []string{"id"},
					Properties: map[string]*jsonschema.Schema{
						"id":    key(),
						"attrs": attrsSchema(),
					},
				},
			},
			"edges": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type:     "object",
					Required: []string{"source", "target"},
					Properties: map[string]*jsonschema.Schema{
						"source": key(),
						"target": key(),
						"attrs":  attrsSchema(),
					},
				},
			},
		},
	}
}

var resolvedSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	return recordSchema().Resolve(nil)
})

// validate checks a generic JSON document (as produced by json.Unmarshal
// into any) against the record schema.
func validate(doc any) error {
	rs, err := resolvedSchema()
	if err != nil {
		return fmt.Errorf("failed to resolve record schema: %w", err)
	}
	if err := rs.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", graph.ErrMalformedRecord, err)
	}
	return nil
}

// normalize round-trips v through encoding/json so that numbers become
// float64 and maps become map[string]any before validation.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", graph.ErrMalformedRecord, err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", graph.ErrMalformedRecord, err)
	}
	return out, nil
}
