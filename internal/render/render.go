// Package render executes configuration sources as text templates before
// they are handed to the canonicalizer. Templates get the full sprig
// function set plus the netconfig filters, with variables supplied from a
// YAML file.
package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"
)

// FuncMap returns the template function set: everything sprig ships plus the
// netconfig filters. The filters use their own names (selectBy, mergeBy,
// mergeKeyed) where sprig already claims the playbook-era ones (pluck,
// merge).
func FuncMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["fmtsize"] = func(target string, val any) (any, error) {
		return FmtSize(target, 10, false, val)
	}
	funcs["fmtsizeUpper"] = func(target string, val any) (any, error) {
		return FmtSize(target, 10, true, val)
	}
	funcs["fmtsize2"] = func(target string, val any) (any, error) {
		return FmtSize(target, 2, false, val)
	}
	funcs["selectBy"] = SelectBy
	funcs["stitch"] = Stitch
	funcs["stitchBy"] = StitchBy
	funcs["mergeBy"] = MergeBy
	funcs["mergeKeyed"] = MergeKeyed
	funcs["collapse"] = Collapse
	funcs["expandRanges"] = ExpandRanges
	return funcs
}

// LoadVars parses a YAML variables file into template data.
func LoadVars(content []byte) (map[string]any, error) {
	vars := map[string]any{}
	if err := yaml.Unmarshal(content, &vars); err != nil {
		return nil, fmt.Errorf("failed to parse vars: %w", err)
	}
	return vars, nil
}

// Render executes src as a text template with vars. name only shows up in
// error positions.
func Render(name string, src []byte, vars map[string]any) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(FuncMap()).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
