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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const template = `# Database
DATABASE_URL=postgresql://localhost/db  # url, required
PORT=8000  # int, required

# Optional
DEBUG=false  # bool, optional
ADMIN_EMAIL=admin@example.com # email
SECRET_KEY=  # string, required, encrypted
NAME=app
`

func TestBuild(t *testing.T) {
	s, err := Build(strings.NewReader(template))
	require.NoError(t, err)

	assert.Equal(t, []string{"DATABASE_URL", "PORT", "DEBUG", "ADMIN_EMAIL", "SECRET_KEY", "NAME"}, s.Keys())
	assert.Equal(t, 6, s.Len())
	assert.Equal(t, []string{"SECRET_KEY"}, s.Encrypted())

	tests := []VariableSpec{
		{Key: "DATABASE_URL", Type: Url, Required: true, Default: "postgresql://localhost/db", Annotation: "url, required"},
		{Key: "PORT", Type: Int, Required: true, Default: "8000", Annotation: "int, required"},
		{Key: "DEBUG", Type: Bool, Required: false, Default: "false", Annotation: "bool, optional"},
		{Key: "ADMIN_EMAIL", Type: Email, Required: true, Default: "admin@example.com", Annotation: "email"},
		{Key: "SECRET_KEY", Type: String, Required: true, Encrypted: true, Annotation: "string, required, encrypted"},
		{Key: "NAME", Type: String, Required: true, Default: "app"},
	}
	for _, want := range tests {
		t.Run(want.Key, func(t *testing.T) {
			got, ok := s.Get(want.Key)
			assert.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
	assert.Equal(t, tests, s.Specs())

	_, ok := s.Get("MISSING")
	assert.False(t, ok)
}

func TestBuild_Idempotent(t *testing.T) {
	a, err := Build(strings.NewReader(template))
	require.NoError(t, err)
	b, err := Build(strings.NewReader(template))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestBuild_TieBreaks(t *testing.T) {
	s, err := Build(strings.NewReader(strings.Join([]string{
		"A=1 # int, bool",
		"B=x # required, optional",
		"C=x # optional, required",
		"D=x # encrypted, nonsense",
	}, "\n")))
	require.NoError(t, err)

	a, _ := s.Get("A")
	assert.Equal(t, Int, a.Type)

	b, _ := s.Get("B")
	assert.False(t, b.Required)
	c, _ := s.Get("C")
	assert.False(t, c.Required)

	d, _ := s.Get("D")
	assert.True(t, d.Encrypted)
	assert.True(t, d.Required)
	assert.Equal(t, String, d.Type)

	notes := s.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, 4, notes[0].Line)
	assert.Contains(t, notes[0].Text, "nonsense")
}

func TestBuild_DuplicateKey(t *testing.T) {
	s, err := Build(strings.NewReader("A=1 # int\nB=2\nA=x # string, optional\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, s.Keys())
	a, _ := s.Get("A")
	assert.Equal(t, VariableSpec{Key: "A", Type: String, Default: "x", Annotation: "string, optional"}, a)
	assert.Len(t, s.Notes(), 1)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Empty", ""},
		{"OnlyComments", "# nothing here\n\n   # still nothing\n"},
		{"NoValidLines", "garbage\n1BAD=2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(strings.NewReader(tt.data))
			var se *SchemaError
			assert.True(t, errors.As(err, &se))
		})
	}
}

func TestBuild_SkippedLineNotes(t *testing.T) {
	s, err := Build(strings.NewReader("garbage\nA=1\n"))
	require.NoError(t, err)

	assert.Equal(t, []Note{{Line: 1, Text: "not a KEY=value line, skipped"}}, s.Notes())
}

func TestBuildFile(t *testing.T) {
	dir := t.TempDir()

	_, err := BuildFile(filepath.Join(dir, ".env.example"))
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	path := filepath.Join(dir, "empty.example")
	require.NoError(t, os.WriteFile(path, []byte("# only comments\n"), 0600))
	_, err = BuildFile(path)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, path, se.Path)
	assert.Contains(t, err.Error(), path)

	path = filepath.Join(dir, "ok.example")
	require.NoError(t, os.WriteFile(path, []byte(template), 0600))
	s, err := BuildFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, s.Len())
}
