// Package render fills the certificate SVG template and rasterizes the
// result with a headless browser.
package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

const namePlaceholder = "{{NOMBRE}}"

// TemplateRenderer substitutes the participant name into an SVG template.
// The template must contain the {{NOMBRE}} placeholder.
type TemplateRenderer struct {
	template []byte
}

// LoadTemplate reads the SVG template from disk and validates it carries the
// name placeholder.
func LoadTemplate(path string) (*TemplateRenderer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	if !bytes.Contains(data, []byte(namePlaceholder)) {
		return nil, fmt.Errorf("template %s missing %s placeholder", path, namePlaceholder)
	}
	return &TemplateRenderer{template: data}, nil
}

// NewTemplateRenderer wraps an in-memory template. Used by tests and the CLI.
func NewTemplateRenderer(template []byte) (*TemplateRenderer, error) {
	if !bytes.Contains(template, []byte(namePlaceholder)) {
		return nil, fmt.Errorf("template missing %s placeholder", namePlaceholder)
	}
	return &TemplateRenderer{template: template}, nil
}

// Render produces the personalized SVG. The name is XML-escaped so markup in
// participant input cannot break the document.
func (r *TemplateRenderer) Render(name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty participant name")
	}

	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(name)); err != nil {
		return nil, fmt.Errorf("escape participant name: %w", err)
	}

	return bytes.ReplaceAll(r.template, []byte(namePlaceholder), escaped.Bytes()), nil
}
