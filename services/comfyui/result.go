package comfyui

import "fmt"

// LocateArtifact resolves the view URL of the image a completed run produced.
// It validates, in order: the run id key in the history document, its
// "outputs" object, the fixed output node, a non-empty "images" list, and the
// filename/subfolder/type fields of the first image. Each missing piece
// yields a FieldError naming exactly what was absent.
//
// Only images[0] is considered; the supported template emits a single
// artifact. Query values are composed as returned by the remote service,
// without re-encoding.
func LocateArtifact(baseURL string, history map[string]any, promptID string) (string, error) {
	run, err := objectField(history, promptID)
	if err != nil {
		return "", err
	}
	outputs, err := objectField(run, "outputs")
	if err != nil {
		return "", err
	}
	node, err := objectField(outputs, outputNodeID)
	if err != nil {
		return "", err
	}
	images, err := listField(node, "images")
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", &FieldError{Field: "images", Reason: "is empty"}
	}
	first, ok := images[0].(map[string]any)
	if !ok {
		return "", &FieldError{Field: "images", Reason: "has a non-object entry"}
	}

	filename, err := stringField(first, "filename")
	if err != nil {
		return "", err
	}
	subfolder, err := stringField(first, "subfolder")
	if err != nil {
		return "", err
	}
	imageType, err := stringField(first, "type")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/view?type=%s&filename=%s&subfolder=%s", baseURL, imageType, filename, subfolder), nil
}
