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

// Package seal encrypts and decrypts the selected values of a dotenv file.
// A key that fails keeps its line untouched and does not stop the others.
package seal

import (
	"github.com/arenadata/envctl/pkg/dotenv"
	"github.com/arenadata/envctl/pkg/schema"
	"github.com/arenadata/envctl/pkg/secrets"
)

type Action string

const (
	Encrypted Action = "encrypted"
	Decrypted Action = "decrypted"
	Skipped   Action = "skipped"
	Failed    Action = "failed"
)

// Selector decides which keys are processed.
type Selector func(key string) bool

func All() Selector {
	return func(string) bool { return true }
}

func Keys(keys ...string) Selector {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return func(key string) bool {
		_, ok := set[key]
		return ok
	}
}

// FromSchema selects the keys flagged as encrypted in the template.
func FromSchema(s *schema.Schema) Selector {
	return Keys(s.Encrypted()...)
}

type KeyResult struct {
	Key    string
	Action Action
	Reason string
	Err    error
}

type Result []KeyResult

func (r Result) Failed() []KeyResult {
	return r.with(Failed)
}

func (r Result) Changed() []KeyResult {
	var out []KeyResult
	for _, kr := range r {
		if kr.Action == Encrypted || kr.Action == Decrypted {
			out = append(out, kr)
		}
	}
	return out
}

func (r Result) with(a Action) []KeyResult {
	var out []KeyResult
	for _, kr := range r {
		if kr.Action == a {
			out = append(out, kr)
		}
	}
	return out
}

func Encrypt(f *dotenv.File, e *secrets.Engine, sel Selector) Result {
	return apply(f, sel, func(key, value string) KeyResult {
		switch {
		case len(value) == 0:
			return KeyResult{Key: key, Action: Skipped, Reason: "empty value"}
		case secrets.IsEncrypted(value):
			return KeyResult{Key: key, Action: Skipped, Reason: "already encrypted"}
		}

		enc, err := e.Encrypt(value)
		if err != nil {
			return KeyResult{Key: key, Action: Failed, Err: err}
		}
		f.Set(key, enc)
		return KeyResult{Key: key, Action: Encrypted}
	})
}

func Decrypt(f *dotenv.File, e *secrets.Engine, sel Selector) Result {
	return apply(f, sel, func(key, value string) KeyResult {
		if !secrets.IsEncrypted(value) {
			return KeyResult{Key: key, Action: Skipped, Reason: "not encrypted"}
		}

		dec, err := e.Decrypt(value)
		if err != nil {
			return KeyResult{Key: key, Action: Failed, Err: err}
		}
		f.Set(key, dec)
		return KeyResult{Key: key, Action: Decrypted}
	})
}

func apply(f *dotenv.File, sel Selector, fn func(key, value string) KeyResult) Result {
	var res Result
	for _, key := range f.Keys() {
		if !sel(key) {
			continue
		}
		res = append(res, fn(key, f.Get(key)))
	}
	return res
}
