// document.go: the declarative configuration schema (spec §4.8)
//
// Grounded on agilira-iris/config.go's struct-tagged config surface for
// the field-naming conventions, parsed with gopkg.in/yaml.v3 the way the
// rest of the AGILira/AGILira-adjacent pack reaches for YAML
// configuration rather than a hand-rolled parser.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package configdoc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Root is the top-level configuration document (spec §4.8 grammar).
type Root struct {
	Sinks  []Sink  `yaml:"sinks"`
	Groups []Group `yaml:"groups"`

	// UnknownKeys lists every mapping key found anywhere in the parsed
	// document that isn't part of the known schema (spec §4.8:
	// "unknown keys produce warnings", not parse failures). Populated by
	// LoadFromString/LoadFromFile; not itself a document field.
	UnknownKeys []string `yaml:"-"`
}

// Sink describes one sink entry. Type-specific fields are all present on
// one struct (simpler to unmarshal than a tagged union) and validated by
// the configurator against Type.
type Sink struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// console
	Stream string `yaml:"stream"` // "stdout" | "stderr"
	Color  bool   `yaml:"color"`

	// file
	Path string `yaml:"path"`

	// syslog
	Ident string `yaml:"ident"`

	// multisink
	Sinks []string `yaml:"sinks"`

	// common optional properties
	Level    string `yaml:"level"`
	Thread   string `yaml:"thread"` // "none" | "id" | "name"
	Capacity int64  `yaml:"capacity"`
	Buffer   int    `yaml:"buffer"`
	Latency  int64  `yaml:"latency"` // milliseconds
}

// Group describes one group entry, recursively nesting children.
type Group struct {
	Name       string  `yaml:"name"`
	Sink       string  `yaml:"sink"`
	Level      string  `yaml:"level"`
	IsFallback bool    `yaml:"is_fallback"`
	Children   []Group `yaml:"children"`
}

// rootFields, sinkFields and groupFields mirror the yaml tags above; kept
// as a parallel key set because yaml.v3's typed Unmarshal silently drops
// unrecognized keys instead of reporting them, so auditing requires a
// second pass over the raw node tree (see collectUnknownKeys).
var rootFields = map[string]bool{"sinks": true, "groups": true}

var sinkFields = map[string]bool{
	"name": true, "type": true, "stream": true, "color": true, "path": true,
	"ident": true, "sinks": true, "level": true, "thread": true,
	"capacity": true, "buffer": true, "latency": true,
}

var groupFields = map[string]bool{
	"name": true, "sink": true, "level": true, "is_fallback": true, "children": true,
}

// LoadFromFile parses a document from a filesystem path.
func LoadFromFile(path string) (*Root, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadFromString(string(b))
}

// LoadFromString parses a document from an in-memory YAML string.
func LoadFromString(s string) (*Root, error) {
	var root Root
	if err := yaml.Unmarshal([]byte(s), &root); err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(s), &node); err == nil {
		root.UnknownKeys = collectUnknownKeys(&node)
	}
	return &root, nil
}

// unknownKeysInMapping returns node's top-level keys that aren't in
// known, each prefixed with where for a readable diagnostic.
func unknownKeysInMapping(node *yaml.Node, known map[string]bool, where string) []string {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	var out []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if !known[key] {
			out = append(out, where+"."+key)
		}
	}
	return out
}

// collectGroupUnknownKeys walks a "groups" or "children" sequence node,
// auditing each entry against groupFields and recursing into its own
// nested "children" sequence.
func collectGroupUnknownKeys(seq *yaml.Node, path string) []string {
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return nil
	}
	var out []string
	for i, item := range seq.Content {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		out = append(out, unknownKeysInMapping(item, groupFields, itemPath)...)
		for j := 0; j+1 < len(item.Content); j += 2 {
			if item.Content[j].Value == "children" {
				out = append(out, collectGroupUnknownKeys(item.Content[j+1], itemPath+".children")...)
			}
		}
	}
	return out
}

// collectUnknownKeys audits the whole document tree: the root mapping,
// each "sinks" entry, and each "groups" entry (recursively, through
// "children").
func collectUnknownKeys(doc *yaml.Node) []string {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}

	out := unknownKeysInMapping(doc, rootFields, "root")
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i].Value
		val := doc.Content[i+1]
		switch key {
		case "sinks":
			if val.Kind == yaml.SequenceNode {
				for i2, item := range val.Content {
					out = append(out, unknownKeysInMapping(item, sinkFields, fmt.Sprintf("sinks[%d]", i2))...)
				}
			}
		case "groups":
			out = append(out, collectGroupUnknownKeys(val, "groups")...)
		}
	}
	return out
}
