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
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report is the ordered result of one Validate call.
type Report struct {
	Findings []Finding `json:"findings" yaml:"findings"`
}

func (r *Report) add(key string, sev Severity, kind Kind, msg string) {
	r.Findings = append(r.Findings, Finding{Key: key, Severity: sev, Kind: kind, Message: msg})
}

func (r *Report) filter(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

func (r *Report) Errors() []Finding {
	return r.filter(Error)
}

func (r *Report) Warnings() []Finding {
	return r.filter(Warning)
}

func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

func (r *Report) ExitCode() int {
	if r.HasErrors() {
		return 1
	}
	return 0
}

func (r *Report) Render(w io.Writer, format string) error {
	switch format {
	case "", FormatText:
		return r.renderText(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.summary())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r.summary()); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown report format %q", format)
}

type summary struct {
	Valid    bool      `json:"valid" yaml:"valid"`
	Errors   int       `json:"errors" yaml:"errors"`
	Warnings int       `json:"warnings" yaml:"warnings"`
	Findings []Finding `json:"findings" yaml:"findings"`
}

func (r *Report) summary() summary {
	findings := r.Findings
	if findings == nil {
		findings = []Finding{}
	}
	return summary{
		Valid:    !r.HasErrors(),
		Errors:   len(r.Errors()),
		Warnings: len(r.Warnings()),
		Findings: findings,
	}
}

func (r *Report) renderText(w io.Writer) error {
	for _, f := range r.Findings {
		if _, err := fmt.Fprintf(w, "  - %s\n", f); err != nil {
			return err
		}
	}

	var err error
	if r.HasErrors() {
		_, err = fmt.Fprintf(w, "validation failed: %d error(s), %d warning(s)\n", len(r.Errors()), len(r.Warnings()))
	} else {
		_, err = fmt.Fprintf(w, "all environment variables are valid (%d warning(s))\n", len(r.Warnings()))
	}
	return err
}
