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
	"bytes"
	"strings"
	"testing"

	"github.com/arenadata/envctl/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		spec schema.VariableSpec
		want string
	}{
		{"Plain", schema.VariableSpec{Key: "NAME", Required: true}, "NAME: "},
		{"Typed", schema.VariableSpec{Key: "PORT", Type: schema.Int, Required: true, Default: "8000"}, "PORT (int) [8000]: "},
		{"Optional", schema.VariableSpec{Key: "DEBUG", Type: schema.Bool, Default: "false"}, "DEBUG (bool) [optional] [false]: "},
		{"Secret", schema.VariableSpec{Key: "TOKEN", Required: true, Encrypted: true, Default: "x"}, "TOKEN [default hidden]: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.spec))
		})
	}
}

func TestPrompter_Prompt(t *testing.T) {
	tests := []struct {
		name    string
		spec    schema.VariableSpec
		input   string
		want    string
		wantErr bool
	}{
		{"Answer", schema.VariableSpec{Key: "NAME", Required: true}, "app\n", "app", false},
		{"Default", schema.VariableSpec{Key: "PORT", Type: schema.Int, Required: true, Default: "8000"}, "\n", "8000", false},
		{"RetryType", schema.VariableSpec{Key: "PORT", Type: schema.Int, Required: true}, "abc\n5432\n", "5432", false},
		{"RetryRequired", schema.VariableSpec{Key: "NAME", Required: true}, "\n\nok\n", "ok", false},
		{"OptionalEmpty", schema.VariableSpec{Key: "OPT"}, "\n", "", false},
		{"NoNewline", schema.VariableSpec{Key: "NAME", Required: true}, "app", "app", false},
		{"SecretFromPipe", schema.VariableSpec{Key: "TOKEN", Required: true, Encrypted: true}, "s3cr3t\n", "s3cr3t", false},
		{"GiveUp", schema.VariableSpec{Key: "PORT", Type: schema.Int, Required: true}, "a\nb\nc\n5\n", "", true},
		{"EOF", schema.VariableSpec{Key: "NAME", Required: true}, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := new(bytes.Buffer)
			p := NewPrompter(strings.NewReader(tt.input), out)

			got, err := p.Prompt(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), tt.spec.Key)
		})
	}
}

func TestString(t *testing.T) {
	r := String(bufio.NewReader(strings.NewReader("  padded  \nlast")))

	s, err := r()
	require.NoError(t, err)
	assert.Equal(t, "padded", s)

	s, err = r()
	require.NoError(t, err)
	assert.Equal(t, "last", s)

	_, err = r()
	assert.Error(t, err)
}
