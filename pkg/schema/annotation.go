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
	"strings"
)

type Token int

const (
	TokenString Token = iota
	TokenInt
	TokenBool
	TokenUrl
	TokenEmail
	TokenRequired
	TokenOptional
	TokenEncrypted
)

var tokens = map[string]Token{
	"string":    TokenString,
	"int":       TokenInt,
	"bool":      TokenBool,
	"url":       TokenUrl,
	"email":     TokenEmail,
	"required":  TokenRequired,
	"optional":  TokenOptional,
	"encrypted": TokenEncrypted,
}

// Type returns the variable type named by the token, if it names one.
func (t Token) Type() (Type, bool) {
	switch t {
	case TokenString:
		return String, true
	case TokenInt:
		return Int, true
	case TokenBool:
		return Bool, true
	case TokenUrl:
		return Url, true
	case TokenEmail:
		return Email, true
	}
	return String, false
}

// Line is one variable line of a template.
type Line struct {
	Number     int
	Key        string
	Default    string
	Annotation string
	Tokens     []Token
	Unknown    []string
}

func (l Line) Has(tok Token) bool {
	for _, t := range l.Tokens {
		if t == tok {
			return true
		}
	}
	return false
}

// ParseLine parses a single template line. Blank lines, full-line comments and
// lines without a valid KEY= part report false.
func ParseLine(line string) (Line, bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] == '#' {
		return Line{}, false
	}
	trimmed = strings.TrimPrefix(trimmed, "export ")

	idx := splitIndex(trimmed)
	if idx < 0 {
		return Line{}, false
	}

	key := strings.TrimSpace(strings.ReplaceAll(trimmed[:idx], `\=`, "="))
	if !IsValidKey(key) {
		return Line{}, false
	}

	def, annotation := splitComment(trimmed[idx+1:])

	l := Line{Key: key, Default: def, Annotation: annotation}
	l.Tokens, l.Unknown = parseAnnotation(annotation)

	return l, true
}

// IsValidKey reports whether key is usable as a variable name.
func IsValidKey(key string) bool {
	if len(key) == 0 {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case i > 0 && (r == '.' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}

// splitIndex returns the position of the first '=' not escaped by a backslash.
func splitIndex(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' && (i == 0 || s[i-1] != '\\') {
			return i
		}
	}
	return -1
}

func splitComment(rest string) (value, comment string) {
	rest = strings.TrimSpace(rest)

	start := 0
	if len(rest) > 0 && (rest[0] == '"' || rest[0] == '\'') {
		if end := strings.IndexByte(rest[1:], rest[0]); end >= 0 {
			start = end + 2
		}
	}

	idx := strings.IndexByte(rest[start:], '#')
	if idx < 0 {
		return unquote(rest), ""
	}
	idx += start

	return unquote(strings.TrimSpace(rest[:idx])), strings.TrimSpace(rest[idx+1:])
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func parseAnnotation(s string) (known []Token, unknown []string) {
	if len(s) == 0 {
		return nil, nil
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if len(part) == 0 {
			continue
		}
		if tok, ok := tokens[part]; ok {
			known = append(known, tok)
		} else {
			unknown = append(unknown, part)
		}
	}

	return known, unknown
}
