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

package dotenv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# Database
DATABASE_URL=postgresql://localhost/db
PORT = 5432   # local port

export API_KEY="a b # c"
EMPTY=
SINGLE='x y'
COMMENT_ONLY= # nothing
COLOR=#ff0000
not a variable
PORT=6543
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"DATABASE_URL", "PORT", "API_KEY", "EMPTY", "SINGLE", "COMMENT_ONLY", "COLOR"}, f.Keys())
	assert.Equal(t, 7, f.Len())

	tests := []struct {
		key  string
		want string
	}{
		{"DATABASE_URL", "postgresql://localhost/db"},
		{"PORT", "6543"},
		{"API_KEY", "a b # c"},
		{"EMPTY", ""},
		{"SINGLE", "x y"},
		{"COMMENT_ONLY", ""},
		{"COLOR", "#ff0000"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, ok := f.Lookup(tt.key)
			assert.True(t, ok)
			assert.Equal(t, tt.want, v)
		})
	}

	_, ok := f.Lookup("MISSING")
	assert.False(t, ok)
	assert.Equal(t, "", f.Get("MISSING"))

	entries := f.Entries()
	require.Len(t, entries, 8)
	assert.Equal(t, Entry{Key: "PORT", Value: "5432", Line: 3}, entries[1])
	assert.Equal(t, Entry{Key: "PORT", Value: "6543", Line: 11}, entries[7])
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := map[string]string{
		"Sample":    sample,
		"NoEOL":     "A=1\nB=2",
		"CRLF":      "A=1\r\nB=\"x\"\r\n",
		"Empty":     "",
		"BlankOnly": "\n\n",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(in))
			require.NoError(t, err)
			assert.Equal(t, in, string(f.Bytes()))
		})
	}
}

func TestFile_Set(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	f.Set("PORT", "8080")
	f.Set("API_KEY", "enc:aes256gcm:YWJj.ZGVm")
	f.Set("DATABASE_URL", "postgresql://localhost/db")
	f.Set("NEW", "with space")

	want := `# Database
DATABASE_URL=postgresql://localhost/db
PORT = 5432   # local port

export API_KEY=enc:aes256gcm:YWJj.ZGVm
EMPTY=
SINGLE='x y'
COMMENT_ONLY= # nothing
COLOR=#ff0000
not a variable
PORT=8080
NEW="with space"
`
	assert.Equal(t, want, string(f.Bytes()))
	assert.True(t, f.IsEncrypted("API_KEY"))
	assert.False(t, f.IsEncrypted("PORT"))
	assert.False(t, f.IsEncrypted("MISSING"))
}

func TestParse_TextAfterQuote(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		value string
	}{
		{"SingleThenText", "SECRET='abc'def", "'abc'def"},
		{"DoubleThenText", `SECRET="abc"def`, `"abc"def`},
		{"DoubleThenHash", `SECRET="abc"#x`, `"abc"#x`},
		{"SingleThenComment", "SECRET='abc'  # note", "abc"},
		{"DoubleThenBlank", "SECRET=\"abc\"  ", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(tt.in + "\n"))
			require.NoError(t, err)
			assert.Equal(t, tt.value, f.Get("SECRET"))
			assert.Equal(t, tt.in+"\n", string(f.Bytes()))

			f.Set("SECRET", "enc:aes256gcm:YWJj.ZGVm")
			assert.Equal(t, "enc:aes256gcm:YWJj.ZGVm", f.Get("SECRET"))

			f.Set("SECRET", tt.value)
			back, err := Parse(strings.NewReader(string(f.Bytes())))
			require.NoError(t, err)
			assert.Equal(t, tt.value, back.Get("SECRET"))
		})
	}
}

func TestFile_SetDuplicate(t *testing.T) {
	f, err := Parse(strings.NewReader("DUP=first\nA=1\nDUP=second\n"))
	require.NoError(t, err)

	f.Set("DUP", "third")
	assert.Equal(t, "DUP=first\nA=1\nDUP=third\n", string(f.Bytes()))
	assert.Equal(t, "third", f.Get("DUP"))
}

func TestFile_Build(t *testing.T) {
	f := New()
	f.AppendComment("generated")
	f.AppendComment("")
	f.Append("A", "1", "int")
	f.Append("B", `say "hi"`, "")

	assert.Equal(t, "# generated\n\nA=1  # int\nB=\"say \\\"hi\\\"\"\n", string(f.Bytes()))

	back, err := Parse(strings.NewReader(string(f.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, "1", back.Get("A"))
	assert.Equal(t, `say "hi"`, back.Get("B"))
}

func TestQuote(t *testing.T) {
	values := []string{"plain", "", "with space", "hash#tag", `back\slash`, "multi\nline", `"quoted"`, "it's", "tab\there"}
	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			f, err := Parse(strings.NewReader("K=" + Quote(v) + "\n"))
			require.NoError(t, err)
			assert.Equal(t, v, f.Get("K"))
		})
	}
	assert.Equal(t, "plain", Quote("plain"))
}

func TestFile_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	_, err := Load(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	f := New()
	f.Append("A", "1", "")
	require.NoError(t, f.Save(path))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), st.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1", loaded.Get("A"))

	var buf strings.Builder
	_, err = loaded.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "A=1\n", buf.String())
}

func TestEntry_Encrypted(t *testing.T) {
	assert.True(t, Entry{Value: "enc:age:abc"}.Encrypted())
	assert.False(t, Entry{Value: "abc"}.Encrypted())
}
