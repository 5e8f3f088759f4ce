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

package generate

import (
	"fmt"
	"strings"

	"github.com/arenadata/envctl/pkg/dotenv"
	"github.com/arenadata/envctl/pkg/schema"
	"github.com/arenadata/envctl/pkg/secrets"
)

type Prompter interface {
	Prompt(spec schema.VariableSpec) (string, error)
}

type Options struct {
	// Values are used as-is and are never prompted for.
	Values map[string]string
	// Prompter is asked for every other value. Nil means non-interactive.
	Prompter Prompter
	// Engine encrypts the values of encrypted specs when set.
	Engine *secrets.Engine
	Header []string
}

type GenerationError struct {
	Unresolved []string
	Invalid    []string
}

func (e *GenerationError) Error() string {
	var parts []string
	if len(e.Unresolved) > 0 {
		parts = append(parts, "no value for required variables: "+strings.Join(e.Unresolved, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid values: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

// Generate builds a dotenv file from s in template order, re-emitting each
// annotation as a trailing comment.
func Generate(s *schema.Schema, opts Options) (*dotenv.File, error) {
	f := dotenv.New()
	for _, h := range opts.Header {
		f.AppendComment(h)
	}

	genErr := &GenerationError{}
	for _, spec := range s.Specs() {
		value, err := resolve(spec, opts)
		if err != nil {
			return nil, err
		}

		switch {
		case len(value) == 0 && spec.Required:
			genErr.Unresolved = append(genErr.Unresolved, spec.Key)
			continue
		case len(value) > 0 && !secrets.IsEncrypted(value) && !spec.Type.Accepts(value):
			genErr.Invalid = append(genErr.Invalid, fmt.Sprintf("%s (want %s)", spec.Key, spec.Type))
			continue
		}

		if spec.Encrypted && opts.Engine != nil && len(value) > 0 {
			if value, err = opts.Engine.Encrypt(value); err != nil {
				return nil, fmt.Errorf("%s: %w", spec.Key, err)
			}
		}

		f.Append(spec.Key, value, spec.Annotation)
	}

	if len(genErr.Unresolved) > 0 || len(genErr.Invalid) > 0 {
		return nil, genErr
	}

	return f, nil
}

func resolve(spec schema.VariableSpec, opts Options) (string, error) {
	if v, ok := opts.Values[spec.Key]; ok {
		return v, nil
	}
	if opts.Prompter != nil {
		return opts.Prompter.Prompt(spec)
	}
	return spec.Default, nil
}
