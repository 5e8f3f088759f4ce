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

// Package dotenv reads and rewrites line-oriented KEY=value files.
//
// Every physical line is kept, so a file written back after Set differs from
// the original only on the lines whose values changed. Values are never
// interpolated.
package dotenv

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/arenadata/envctl/pkg/secrets"
	"github.com/arenadata/envctl/pkg/utils"
)

const exportPrefix = "export "

var keyRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

type line struct {
	raw string

	key    string
	value  string
	export bool
	suffix string
}

func (l *line) isVar() bool {
	return len(l.key) > 0
}

// Entry is a variable assignment as found in the file.
type Entry struct {
	Key   string
	Value string
	Line  int
}

func (e Entry) Encrypted() bool {
	return secrets.IsEncrypted(e.Value)
}

type File struct {
	lines []*line
	noEOL bool
}

func New() *File {
	return &File{}
}

func Load(path string) (*File, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fi.Close()

	return Parse(fi)
}

func Parse(r io.Reader) (*File, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	f := &File{}
	if len(b) == 0 {
		return f, nil
	}

	data := string(b)
	if !strings.HasSuffix(data, "\n") {
		f.noEOL = true
	} else {
		data = data[:len(data)-1]
	}

	for _, raw := range strings.Split(data, "\n") {
		f.lines = append(f.lines, parseLine(raw))
	}

	return f, nil
}

func parseLine(raw string) *line {
	l := &line{raw: raw}

	s := strings.TrimLeft(raw, " \t")
	if trimmed := strings.TrimSpace(s); len(trimmed) == 0 || trimmed[0] == '#' {
		return l
	}
	if strings.HasPrefix(s, exportPrefix) {
		l.export = true
		s = strings.TrimLeft(s[len(exportPrefix):], " \t")
	}

	key, rest, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || !keyRe.MatchString(key) {
		return &line{raw: raw}
	}

	l.key = key
	l.value, l.suffix = parseValue(rest)

	return l
}

// parseValue splits the text after '=' into the value and keeps what follows it
// verbatim.
func parseValue(rest string) (value, suffix string) {
	s := strings.TrimLeft(rest, " \t")
	if len(strings.TrimSpace(s)) == 0 || (s[0] == '#' && len(s) < len(rest)) {
		return "", rest
	}

	switch s[0] {
	case '\'':
		if end := strings.IndexByte(s[1:], '\''); end >= 0 && isSuffix(s[end+2:]) {
			return s[1 : end+1], s[end+2:]
		}
	case '"':
		var buf strings.Builder
		for i := 1; i < len(s); i++ {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				i++
				switch s[i] {
				case 'n':
					buf.WriteByte('\n')
				case 't':
					buf.WriteByte('\t')
				default:
					buf.WriteByte(s[i])
				}
				continue
			}
			if c == '"' {
				if isSuffix(s[i+1:]) {
					return buf.String(), s[i+1:]
				}
				break
			}
			buf.WriteByte(c)
		}
	}

	end := len(s)
	if idx := strings.Index(s, " #"); idx >= 0 {
		end = idx
	}
	if idx := strings.Index(s, "\t#"); idx >= 0 && idx < end {
		end = idx
	}

	value = strings.TrimRight(s[:end], " \t\r")
	return value, s[len(value):]
}

// isSuffix reports whether the text after a closing quote is blank or an
// inline comment. Anything else makes the whole value unquoted text.
func isSuffix(s string) bool {
	t := strings.TrimLeft(s, " \t\r")
	return len(t) == 0 || (t[0] == '#' && len(t) < len(s))
}

// Quote formats v so that Parse reads it back unchanged.
func Quote(v string) string {
	if !strings.ContainsAny(v, " \t\r\n#\"'\\") {
		return v
	}

	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(v) + `"`
}

func (f *File) Len() int {
	return len(f.Keys())
}

// Keys returns variable names in order of first appearance.
func (f *File) Keys() []string {
	var out []string
	seen := map[string]bool{}
	for _, l := range f.lines {
		if l.isVar() && !seen[l.key] {
			seen[l.key] = true
			out = append(out, l.key)
		}
	}
	return out
}

// Entries returns every assignment, duplicates included, in file order.
func (f *File) Entries() []Entry {
	var out []Entry
	for i, l := range f.lines {
		if l.isVar() {
			out = append(out, Entry{Key: l.key, Value: l.value, Line: i + 1})
		}
	}
	return out
}

// Lookup returns the value of the last assignment of key.
func (f *File) Lookup(key string) (string, bool) {
	for i := len(f.lines) - 1; i >= 0; i-- {
		if f.lines[i].key == key {
			return f.lines[i].value, true
		}
	}
	return "", false
}

func (f *File) Get(key string) string {
	v, _ := f.Lookup(key)
	return v
}

func (f *File) IsEncrypted(key string) bool {
	v, ok := f.Lookup(key)
	return ok && secrets.IsEncrypted(v)
}

// Set rewrites the last assignment of key, the one Lookup reads, keeping its
// export prefix and trailing comment. Earlier duplicates are left as they are.
// Missing keys are appended.
func (f *File) Set(key, value string) {
	for i := len(f.lines) - 1; i >= 0; i-- {
		l := f.lines[i]
		if l.key != key {
			continue
		}
		if l.value != value {
			l.value = value
			l.raw = l.render()
		}
		return
	}

	f.Append(key, value, "")
}

// Append adds a new assignment with an optional trailing comment.
func (f *File) Append(key, value, comment string) {
	l := &line{key: key, value: value}
	if len(comment) > 0 {
		l.suffix = "  # " + comment
	}
	l.raw = l.render()
	f.lines = append(f.lines, l)
}

// AppendComment adds a full-line comment, or a blank line for empty text.
func (f *File) AppendComment(text string) {
	raw := ""
	if len(text) > 0 {
		raw = "# " + text
	}
	f.lines = append(f.lines, &line{raw: raw})
}

func (l *line) render() string {
	var b strings.Builder
	if l.export {
		b.WriteString(exportPrefix)
	}
	b.WriteString(l.key)
	b.WriteByte('=')
	b.WriteString(Quote(l.value))
	b.WriteString(l.suffix)
	return b.String()
}

func (f *File) Bytes() []byte {
	buf := new(bytes.Buffer)
	for i, l := range f.lines {
		buf.WriteString(l.raw)
		if i < len(f.lines)-1 || !f.noEOL {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

func (f *File) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

// Save writes the file atomically. New files are created with mode 0600.
func (f *File) Save(path string) error {
	return utils.WriteFileAtomic(path, f.Bytes(), 0600)
}
