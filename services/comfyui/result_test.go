package comfyui

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustHistory(t *testing.T, raw string) map[string]any {
	t.Helper()
	var h map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &h))
	return h
}

func TestLocateArtifact(t *testing.T) {
	const base = "https://comfy.example.com"

	tests := []struct {
		label        string
		history      string
		promptID     string
		want         string
		missingField string
	}{
		{
			label:    "complete history record",
			history:  `{"p1": {"outputs": {"16": {"images": [{"filename": "a.png", "subfolder": "", "type": "output"}]}}}}`,
			promptID: "p1",
			want:     base + "/view?type=output&filename=a.png&subfolder=",
		},
		{
			label:    "subfolder preserved as returned",
			history:  `{"p2": {"outputs": {"16": {"images": [{"filename": "b.png", "subfolder": "runs/7", "type": "temp"}]}}}}`,
			promptID: "p2",
			want:     base + "/view?type=temp&filename=b.png&subfolder=runs/7",
		},
		{
			label:    "only the first image is considered",
			history:  `{"p3": {"outputs": {"16": {"images": [{"filename": "first.png", "subfolder": "", "type": "output"}, {"filename": "second.png", "subfolder": "", "type": "output"}]}}}}`,
			promptID: "p3",
			want:     base + "/view?type=output&filename=first.png&subfolder=",
		},
		{
			label:        "prompt id absent",
			history:      `{"other": {}}`,
			promptID:     "p1",
			missingField: "p1",
		},
		{
			label:        "outputs absent",
			history:      `{"p1": {"status": {}}}`,
			promptID:     "p1",
			missingField: "outputs",
		},
		{
			label:        "output node absent",
			history:      `{"p1": {"outputs": {"9": {"images": []}}}}`,
			promptID:     "p1",
			missingField: "16",
		},
		{
			label:        "images absent",
			history:      `{"p1": {"outputs": {"16": {"gifs": []}}}}`,
			promptID:     "p1",
			missingField: "images",
		},
		{
			label:        "images empty",
			history:      `{"p1": {"outputs": {"16": {"images": []}}}}`,
			promptID:     "p1",
			missingField: "images",
		},
		{
			label:        "filename absent",
			history:      `{"p1": {"outputs": {"16": {"images": [{"subfolder": "", "type": "output"}]}}}}`,
			promptID:     "p1",
			missingField: "filename",
		},
		{
			label:        "subfolder absent",
			history:      `{"p1": {"outputs": {"16": {"images": [{"filename": "a.png", "type": "output"}]}}}}`,
			promptID:     "p1",
			missingField: "subfolder",
		},
		{
			label:        "type absent",
			history:      `{"p1": {"outputs": {"16": {"images": [{"filename": "a.png", "subfolder": ""}]}}}}`,
			promptID:     "p1",
			missingField: "type",
		},
		{
			label:        "outputs has wrong shape",
			history:      `{"p1": {"outputs": "oops"}}`,
			promptID:     "p1",
			missingField: "outputs",
		},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			got, err := LocateArtifact(base, mustHistory(t, tc.history), tc.promptID)
			if tc.missingField != "" {
				require.Error(t, err)
				require.ErrorIs(t, err, ErrHistory)

				var fieldErr *FieldError
				require.ErrorAs(t, err, &fieldErr)
				require.Equal(t, tc.missingField, fieldErr.Field)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
