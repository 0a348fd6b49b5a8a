package documents

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	ErrUnsupportedInput  = errors.New("unsupported input format")
	ErrUnsupportedOutput = errors.New("unsupported output format")
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

var contentTypes = map[string]string{
	"html": "text/html",
	"txt":  "text/plain",
}

type DocumentInput struct {
	Content      string `json:"content"`
	InputFormat  string `json:"input_format"`
	OutputFormat string `json:"output_format"`
}

func (d *DocumentInput) applyDefaults() {
	if d.InputFormat == "" {
		d.InputFormat = "markdown"
	}
	if d.OutputFormat == "" {
		d.OutputFormat = "html"
	}
}

// convert renders the document into the requested output format and returns
// the bytes together with their content type. Markdown is the only supported
// input; html and txt the only outputs.
func convert(doc DocumentInput) ([]byte, string, error) {
	if doc.InputFormat != "markdown" {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedInput, doc.InputFormat)
	}

	switch doc.OutputFormat {
	case "html":
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(doc.Content), &buf); err != nil {
			return nil, "", fmt.Errorf("conversion failed: %w", err)
		}
		return buf.Bytes(), contentTypes["html"], nil
	case "txt":
		return []byte(doc.Content), contentTypes["txt"], nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedOutput, doc.OutputFormat)
	}
}
