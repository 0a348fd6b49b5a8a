package comfyui

import (
	"encoding/json"
	"fmt"
)

// Graph is a ComfyUI workflow: a mapping from opaque node id (e.g. "15",
// "21", "22") to its node payload. Node payloads are kept as generic JSON so
// that fields this service never touches survive the round trip to the
// remote processor byte-for-byte; typed access goes through the accessor
// helpers below.
type Graph map[string]any

// Clone returns a structurally independent deep copy of the graph.
func (g Graph) Clone() (Graph, error) {
	raw, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to copy workflow graph: %w", err)
	}
	var out Graph
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to copy workflow graph: %w", err)
	}
	return out, nil
}

// node returns the payload object for a node id.
func (g Graph) node(id string) (map[string]any, bool) {
	payload, ok := g[id].(map[string]any)
	return payload, ok
}

// inputs returns the mutable inputs object of a node, failing with a
// structural error when the node or its inputs are absent.
func (g Graph) inputs(id string) (map[string]any, error) {
	payload, ok := g.node(id)
	if !ok {
		return nil, fmt.Errorf("%w: node %q not found in workflow", ErrMissingNode, id)
	}
	inputs, ok := payload["inputs"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: node %q has no inputs object", ErrMissingNode, id)
	}
	return inputs, nil
}

// objectField reads m[key] as a JSON object, with a named error on a missing
// key or a shape mismatch.
func objectField(m map[string]any, key string) (map[string]any, error) {
	v, ok := m[key]
	if !ok {
		return nil, &FieldError{Field: key, Reason: "is missing"}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &FieldError{Field: key, Reason: "is not an object"}
	}
	return obj, nil
}

// listField reads m[key] as a JSON array.
func listField(m map[string]any, key string) ([]any, error) {
	v, ok := m[key]
	if !ok {
		return nil, &FieldError{Field: key, Reason: "is missing"}
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &FieldError{Field: key, Reason: "is not a list"}
	}
	return list, nil
}

// stringField reads m[key] as a string.
func stringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", &FieldError{Field: key, Reason: "is missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &FieldError{Field: key, Reason: "is not a string"}
	}
	return s, nil
}
