// Package frontend reads scope scripts: YAML documents that describe a
// module as a nested stream of declarations, function and block scopes,
// uses and imports. It stands in for a real parser and drives the
// resolver exactly as a compiler front end would.
//
//	module: main
//	body:
//	  - import: lib
//	  - let: x
//	  - pub: helper
//	  - fn: f
//	    body:
//	      - let: y
//	      - use: [x, y]
//	  - block:
//	      - const: t
//	  - export: util
package frontend

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Script is a parsed scope script.
type Script struct {
	Module string      `yaml:"module"`
	Body   []Statement `yaml:"body"`
	Path   string      `yaml:"-"`
}

// Statement is one entry of a body. Exactly one of its kinds is set.
type Statement struct {
	Let    string      `yaml:"let,omitempty"`
	Pub    string      `yaml:"pub,omitempty"`
	Const  string      `yaml:"const,omitempty"`
	Fn     string      `yaml:"fn,omitempty"`
	Body   []Statement `yaml:"body,omitempty"` // Function body, only with fn
	Block  []Statement `yaml:"block,omitempty"`
	Use    Names       `yaml:"use,omitempty"`
	Import string      `yaml:"import,omitempty"`
	Export string      `yaml:"export,omitempty"`

	Line    int  `yaml:"-"`
	isBlock bool // block: present, possibly empty
}

// Names accepts either a single name or a list of names.
type Names []string

func (n *Names) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*n = Names{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*n = list
	return nil
}

func (s *Statement) UnmarshalYAML(node *yaml.Node) error {
	type plain Statement
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = Statement(p)
	s.Line = node.Line
	if node.Kind == yaml.MappingNode {
		for i := 0; i < len(node.Content); i += 2 {
			if node.Content[i].Value == "block" {
				s.isBlock = true
			}
		}
	}
	return nil
}

// Kind returns the statement's keyword.
func (s *Statement) Kind() string {
	kinds := s.kinds()
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

func (s *Statement) kinds() []string {
	var kinds []string
	add := func(set bool, kind string) {
		if set {
			kinds = append(kinds, kind)
		}
	}
	add(s.Let != "", "let")
	add(s.Pub != "", "pub")
	add(s.Const != "", "const")
	add(s.Fn != "", "fn")
	add(s.isBlock || len(s.Block) > 0, "block")
	add(len(s.Use) > 0, "use")
	add(s.Import != "", "import")
	add(s.Export != "", "export")
	return kinds
}

// ScriptError reports a malformed or unresolvable script.
type ScriptError struct {
	Path string
	Line int
	Msg  string
	Err  error
}

func (e *ScriptError) Error() string {
	pos := e.Path
	if e.Line > 0 {
		pos = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", pos, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", pos, e.Msg)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// ParseFile reads and parses a scope script.
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses scope script content. The path is used only for error messages.
func Parse(data []byte, path string) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	script.Path = path
	script.Module = strings.TrimSpace(script.Module)
	if err := validate(path, script.Body, false); err != nil {
		return nil, err
	}
	return &script, nil
}

func validate(path string, body []Statement, nested bool) error {
	for i := range body {
		st := &body[i]
		kinds := st.kinds()
		switch {
		case len(kinds) == 0:
			return &ScriptError{Path: path, Line: st.Line, Msg: "empty statement"}
		case len(kinds) > 1:
			return &ScriptError{Path: path, Line: st.Line, Msg: "statement mixes " + strings.Join(kinds, " and ")}
		}
		if len(st.Body) > 0 && st.Fn == "" {
			return &ScriptError{Path: path, Line: st.Line, Msg: "body is only valid with fn"}
		}
		if nested && (st.Import != "" || st.Export != "" || st.Pub != "") {
			return &ScriptError{Path: path, Line: st.Line, Msg: kinds[0] + " is only valid at module level"}
		}
		if err := validate(path, st.Body, true); err != nil {
			return err
		}
		// A block opens its own scope even at module level.
		if err := validate(path, st.Block, true); err != nil {
			return err
		}
	}
	return nil
}
