// Package prompts renders the instruction prompts sent to the model.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Kind selects a prompt template.
type Kind string

const (
	Extraction  Kind = "extraction"
	BRDEdit     Kind = "brd_edit"
	EcoAnalysis Kind = "eco_analysis"
)

//go:embed templates.yaml
var templatesYAML []byte

var templates = mustLoad(templatesYAML)

func mustLoad(src []byte) map[Kind]*template.Template {
	raw := map[string]string{}
	if err := yaml.Unmarshal(src, &raw); err != nil {
		panic(fmt.Sprintf("prompts: decode templates: %v", err))
	}
	out := make(map[Kind]*template.Template, len(raw))
	for name, body := range raw {
		out[Kind(name)] = template.Must(template.New(name).Option("missingkey=error").Parse(body))
	}
	for _, k := range []Kind{Extraction, BRDEdit, EcoAnalysis} {
		if _, ok := out[k]; !ok {
			panic(fmt.Sprintf("prompts: template %q missing", k))
		}
	}
	return out
}

// Product describes the item handed to the eco analysis.
type Product struct {
	URL         string
	Title       string
	Description string
}

// Build renders the template of the given kind with payload.
func Build(kind Kind, payload any) (string, error) {
	tmpl, ok := templates[kind]
	if !ok {
		return "", fmt.Errorf("unknown prompt kind %q", kind)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, payload); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", kind, err)
	}
	return b.String(), nil
}

// ForExtraction asks the model for project information found in text.
func ForExtraction(text string) (string, error) {
	return Build(Extraction, struct{ Text string }{text})
}

// ForBRDEdit asks the model to apply instruction to the current BRD document.
func ForBRDEdit(currentBRD any, instruction string) (string, error) {
	doc, err := json.Marshal(currentBRD)
	if err != nil {
		return "", fmt.Errorf("encode current brd: %w", err)
	}
	return Build(BRDEdit, struct {
		CurrentBRD  string
		Instruction string
	}{string(doc), instruction})
}

// ForEcoAnalysis asks the model for an eco scan of p.
func ForEcoAnalysis(p Product) (string, error) {
	return Build(EcoAnalysis, p)
}
