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

package interactive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arenadata/envctl/pkg/schema"

	"golang.org/x/term"
)

const maxAttempts = 3

type Reader func() (string, error)

func String(r *bufio.Reader) Reader {
	return func() (string, error) {
		data, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(data) > 0) {
			return "", err
		}
		return strings.TrimSpace(data), nil
	}
}

func Password(fd int) Reader {
	return func() (string, error) {
		b, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}

		return strings.TrimSpace(string(b)), nil
	}
}

// Prompter asks for template values. Secrets are read without echo when the
// input is a terminal.
type Prompter struct {
	out    io.Writer
	line   Reader
	secret Reader
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{out: out, line: String(bufio.NewReader(in))}
	p.secret = p.line

	if fi, ok := in.(*os.File); ok && term.IsTerminal(int(fi.Fd())) {
		fd := int(fi.Fd())
		p.secret = func() (string, error) {
			s, err := Password(fd)()
			fmt.Fprintln(p.out)
			return s, err
		}
	}

	return p
}

func Label(spec schema.VariableSpec) string {
	prompt := spec.Key
	if spec.Type != schema.String {
		prompt += fmt.Sprintf(" (%s)", spec.Type)
	}
	if !spec.Required {
		prompt += " [optional]"
	}
	if len(spec.Default) > 0 {
		if spec.Encrypted {
			prompt += " [default hidden]"
		} else {
			prompt += fmt.Sprintf(" [%s]", spec.Default)
		}
	}
	return prompt + ": "
}

// Prompt reads a value for spec. An empty answer takes the template default;
// answers of the wrong type are asked again.
func (p *Prompter) Prompt(spec schema.VariableSpec) (string, error) {
	read := p.line
	if spec.Encrypted {
		read = p.secret
	}

	for i := 0; i < maxAttempts; i++ {
		fmt.Fprint(p.out, Label(spec))

		data, err := read()
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if len(data) == 0 {
			data = spec.Default
		}

		switch {
		case len(data) == 0 && !spec.Required:
			return "", nil
		case len(data) == 0:
			fmt.Fprintf(p.out, "%s is required\n", spec.Key)
		case !spec.Type.Accepts(data):
			fmt.Fprintf(p.out, "%s must be a valid %s\n", spec.Key, spec.Type)
		default:
			return data, nil
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}

	return "", fmt.Errorf("%s: no valid value entered", spec.Key)
}
