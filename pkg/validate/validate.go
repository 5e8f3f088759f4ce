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

package validate

import (
	"fmt"

	"github.com/arenadata/envctl/pkg/dotenv"
	"github.com/arenadata/envctl/pkg/schema"
	"github.com/arenadata/envctl/pkg/secrets"
)

type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Kind string

const (
	Missing      Kind = "missing"
	TypeMismatch Kind = "type-mismatch"
	Unknown      Kind = "unknown"
	Unencrypted  Kind = "unencrypted"
)

type Finding struct {
	Key      string   `json:"key" yaml:"key"`
	Severity Severity `json:"severity" yaml:"severity"`
	Kind     Kind     `json:"kind" yaml:"kind"`
	Message  string   `json:"message" yaml:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s [%s] %s", f.Severity, f.Key, f.Kind, f.Message)
}

// Validate checks env against s. Findings follow template order, then
// variables unknown to the template in file order.
func Validate(s *schema.Schema, env *dotenv.File) *Report {
	r := &Report{}

	for _, spec := range s.Specs() {
		value, ok := env.Lookup(spec.Key)
		if !ok || len(value) == 0 {
			if spec.Required {
				r.add(spec.Key, Error, Missing, fmt.Sprintf("required variable %s is missing", spec.Key))
			}
			continue
		}

		if secrets.IsEncrypted(value) {
			continue
		}

		if !spec.Type.Accepts(value) {
			r.add(spec.Key, Error, TypeMismatch, fmt.Sprintf("variable %s must be a valid %s, got %q", spec.Key, spec.Type, value))
		}
		if spec.Encrypted {
			r.add(spec.Key, Warning, Unencrypted, fmt.Sprintf("variable %s should be encrypted but is stored in plaintext", spec.Key))
		}
	}

	for _, key := range env.Keys() {
		if _, ok := s.Get(key); !ok {
			r.add(key, Warning, Unknown, fmt.Sprintf("variable %s is not defined in the template", key))
		}
	}

	return r
}
