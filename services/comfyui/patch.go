package comfyui

import "log/slog"

// Fixed node ids in the expand-image workflow template.
const (
	// LoadImageFromUrlOrPath: receives the target image
	imageNodeID = "22"
	// ImagePadForOutpaint: left/top/right/bottom padding
	padNodeID = "15"
	// ImageResize+: width/height
	resizeNodeID = "21"
	// SaveImage: where the produced artifact is recorded
	outputNodeID = "16"
)

// PatchSpec holds the per-request overrides applied to the workflow template.
// Nil scalar fields mean "leave the template value untouched".
type PatchSpec struct {
	ImageURL string
	Left     *int
	Top      *int
	Right    *int
	Bottom   *int
	Width    *int
	Height   *int
}

// ApplyOverrides deep-copies the graph and writes the spec's overrides into
// the fixed node ids. The input graph is never mutated.
//
// The image node is the one tolerated absence: without it the copy is
// returned unmodified (logged, non-fatal). The padding and resize nodes must
// exist whenever one of their overrides is set; a missing node there aborts
// with a structural error instead of silently dropping the override.
func ApplyOverrides(g Graph, spec PatchSpec) (Graph, error) {
	patched, err := g.Clone()
	if err != nil {
		return nil, err
	}

	if _, ok := patched.node(imageNodeID); !ok {
		slog.Warn("Image node not found in workflow, returning unmodified copy", "node", imageNodeID)
		return patched, nil
	}

	inputs, err := patched.inputs(imageNodeID)
	if err != nil {
		return nil, err
	}
	inputs["image"] = spec.ImageURL

	overrides := []struct {
		node  string
		field string
		value *int
	}{
		{padNodeID, "left", spec.Left},
		{padNodeID, "top", spec.Top},
		{padNodeID, "right", spec.Right},
		{padNodeID, "bottom", spec.Bottom},
		{resizeNodeID, "width", spec.Width},
		{resizeNodeID, "height", spec.Height},
	}
	for _, o := range overrides {
		if o.value == nil {
			continue
		}
		inputs, err := patched.inputs(o.node)
		if err != nil {
			return nil, err
		}
		inputs[o.field] = *o.value
	}

	return patched, nil
}
