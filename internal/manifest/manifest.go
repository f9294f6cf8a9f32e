// Package manifest parses the declarative launch manifest shipped inside the
// application package and resolves its {variable} placeholders into a
// concrete executable invocation.
package manifest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Manifest is the parsed launch description. Immutable once parsed.
type Manifest struct {
	ManifestVersion int             `json:"manifest_version"`
	Target          string          `json:"target"`
	TargetArguments []ArgumentGroup `json:"target_arguments"`
	Capabilities    []string        `json:"capabilities"`
}

// ArgumentGroup is one group of templated argument values; groups are
// flattened in order during resolution.
type ArgumentGroup struct {
	Value []string `json:"value"`
}

// Resolver binds a parsed manifest to a runtime variable context.
type Resolver struct {
	manifest Manifest
	vars     map[string]string
}

// Parse reads the manifest JSON and validates required fields.
func Parse(data []byte) (*Resolver, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.ManifestVersion == 0 {
		return nil, fmt.Errorf("manifest missing manifest_version")
	}
	if m.Target == "" {
		return nil, fmt.Errorf("manifest missing target")
	}
	return &Resolver{manifest: m, vars: make(map[string]string)}, nil
}

// Manifest returns the parsed manifest.
func (r *Resolver) Manifest() Manifest {
	return r.manifest
}

// SetVariable inserts or overwrites a variable binding; later calls with the
// same name win.
func (r *Resolver) SetVariable(name, value string) {
	r.vars[name] = value
}

// Target substitutes all placeholders in the manifest's target template.
func (r *Resolver) Target() (string, error) {
	target, err := r.resolve(r.manifest.Target)
	if err != nil {
		return "", fmt.Errorf("resolve target: %w", err)
	}
	return target, nil
}

// Arguments flattens every value in every argument group, applying the same
// substitution, preserving group and within-group order.
func (r *Resolver) Arguments() ([]string, error) {
	var args []string
	for _, group := range r.manifest.TargetArguments {
		for _, value := range group.Value {
			resolved, err := r.resolve(value)
			if err != nil {
				return nil, fmt.Errorf("resolve argument %q: %w", value, err)
			}
			args = append(args, resolved)
		}
	}
	return args, nil
}

// resolve substitutes {name} placeholders in a single left-to-right pass.
// Resolved values are not rescanned for further placeholders. An unknown
// variable or an unterminated placeholder is a manifest error.
func (r *Resolver) resolve(template string) (string, error) {
	var b strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:open])
		rest = rest[open+1:]

		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated placeholder in %q", template)
		}
		name := rest[:end]
		value, ok := r.vars[name]
		if !ok {
			return "", fmt.Errorf("unresolved variable %q", name)
		}
		b.WriteString(value)
		rest = rest[end+1:]
	}
}
