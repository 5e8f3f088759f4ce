/*
 Copyright (c) 2025 Arenadata Softwer LLC.
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package schema

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// VariableSpec is the resolved rule for one template key.
type VariableSpec struct {
	Key        string `json:"key" yaml:"key"`
	Type       Type   `json:"type" yaml:"type"`
	Required   bool   `json:"required" yaml:"required"`
	Encrypted  bool   `json:"encrypted" yaml:"encrypted"`
	Default    string `json:"default,omitempty" yaml:"default,omitempty"`
	Annotation string `json:"-" yaml:"-"`
}

// Note describes a template line that was skipped or only partly understood.
type Note struct {
	Line int
	Text string
}

// Schema is an ordered, read-only set of variable specs.
type Schema struct {
	keys  []string
	specs map[string]VariableSpec
	notes []Note
}

type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("template %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("template: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

var errNoVariables = errors.New("no KEY= lines found")

func BuildFile(path string) (*Schema, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, &SchemaError{Path: path, Err: err}
	}
	defer fi.Close()

	s, err := Build(fi)
	var se *SchemaError
	if errors.As(err, &se) {
		se.Path = path
	}
	return s, err
}

func Build(r io.Reader) (*Schema, error) {
	var (
		lines []Line
		notes []Note
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		text := scanner.Text()
		l, ok := ParseLine(text)
		if !ok {
			trimmed := strings.TrimSpace(text)
			if len(trimmed) > 0 && trimmed[0] != '#' {
				notes = append(notes, Note{Line: n, Text: "not a KEY=value line, skipped"})
			}
			continue
		}
		l.Number = n
		lines = append(lines, l)
	}
	if err := scanner.Err(); err != nil {
		return nil, &SchemaError{Err: err}
	}

	s, err := FromLines(lines)
	if err != nil {
		return nil, err
	}
	s.notes = append(notes, s.notes...)

	return s, nil
}

// FromLines folds parsed lines into a schema. A later duplicate key replaces
// the earlier declaration but keeps its position.
func FromLines(lines []Line) (*Schema, error) {
	s := &Schema{specs: make(map[string]VariableSpec, len(lines))}

	for _, l := range lines {
		spec := resolve(l)

		for _, u := range l.Unknown {
			s.notes = append(s.notes, Note{Line: l.Number, Text: fmt.Sprintf("%s: unknown annotation %q ignored", l.Key, u)})
		}
		if _, dup := s.specs[l.Key]; dup {
			s.notes = append(s.notes, Note{Line: l.Number, Text: fmt.Sprintf("%s: duplicate key overrides earlier definition", l.Key)})
		} else {
			s.keys = append(s.keys, l.Key)
		}
		s.specs[l.Key] = spec
	}

	if len(s.keys) == 0 {
		return nil, &SchemaError{Err: errNoVariables}
	}

	return s, nil
}

func resolve(l Line) VariableSpec {
	spec := VariableSpec{
		Key:        l.Key,
		Type:       String,
		Required:   !l.Has(TokenOptional),
		Encrypted:  l.Has(TokenEncrypted),
		Default:    l.Default,
		Annotation: l.Annotation,
	}

	for _, tok := range l.Tokens {
		if t, ok := tok.Type(); ok {
			spec.Type = t
			break
		}
	}

	return spec
}

func (s *Schema) Len() int {
	return len(s.keys)
}

func (s *Schema) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s *Schema) Get(key string) (VariableSpec, bool) {
	spec, ok := s.specs[key]
	return spec, ok
}

// Specs returns the specs in template order.
func (s *Schema) Specs() []VariableSpec {
	out := make([]VariableSpec, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.specs[k])
	}
	return out
}

// Encrypted returns the keys flagged as encrypted, in template order.
func (s *Schema) Encrypted() []string {
	var out []string
	for _, k := range s.keys {
		if s.specs[k].Encrypted {
			out = append(out, k)
		}
	}
	return out
}

func (s *Schema) Notes() []Note {
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}
