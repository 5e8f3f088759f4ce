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
	"net/url"
	"strings"
	"unicode"
)

type Type int

const (
	String Type = iota
	Int
	Bool
	Url
	Email
)

var typeNames = [...]string{
	String: "string",
	Int:    "int",
	Bool:   "bool",
	Url:    "url",
	Email:  "email",
}

func (t Type) String() string {
	if int(t) < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Accepts reports whether raw is a valid value of type t.
func (t Type) Accepts(raw string) bool {
	return Checker(t).Accepts(raw)
}

type TypeChecker interface {
	Accepts(raw string) bool
}

type checkerFunc func(string) bool

func (f checkerFunc) Accepts(raw string) bool { return f(raw) }

// Checker returns the checker for t. Unknown types fall back to String.
func Checker(t Type) TypeChecker {
	switch t {
	case Int:
		return checkerFunc(isInt)
	case Bool:
		return checkerFunc(isBool)
	case Url:
		return checkerFunc(isURL)
	case Email:
		return checkerFunc(isEmail)
	default:
		return checkerFunc(func(string) bool { return true })
	}
}

func isInt(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isBool(s string) bool {
	_, ok := ParseBool(s)
	return ok
}

// ParseBool coerces the accepted boolean spellings to their canonical value.
func ParseBool(s string) (value, ok bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "1":
		return true, true
	case "false", "no", "0":
		return false, true
	}
	return false, false
}

func isURL(s string) bool {
	scheme, rest, found := strings.Cut(s, "://")
	if !found || len(scheme) == 0 || len(rest) == 0 || strings.ContainsFunc(s, unicode.IsSpace) {
		return false
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	return len(u.Scheme) > 0 && len(u.Hostname()) > 0
}

func isEmail(s string) bool {
	if strings.ContainsFunc(s, unicode.IsSpace) || strings.Count(s, "@") != 1 {
		return false
	}

	local, domain, _ := strings.Cut(s, "@")
	return len(local) > 0 && len(domain) > 0 && strings.Contains(domain, ".")
}
