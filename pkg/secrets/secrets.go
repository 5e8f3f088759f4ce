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

package secrets

import (
	"errors"
	"fmt"
	"strings"
)

// Marker prefixes every encrypted value: enc:<scheme>:<payload>.
const Marker = "enc:"

var ErrEmptyKey = errors.New("encryption key must not be empty")

// Cipher encrypts single values. The payload it produces carries no marker.
type Cipher interface {
	Scheme() string
	EncryptValue(v string) (string, error)
	DecryptValue(v string) (string, error)
}

type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// IsEncrypted reports whether v carries the encryption marker.
func IsEncrypted(v string) bool {
	return strings.HasPrefix(v, Marker)
}

// Scheme returns the cipher scheme of an encrypted value.
func Scheme(v string) (string, bool) {
	if !IsEncrypted(v) {
		return "", false
	}
	scheme, _, ok := strings.Cut(v[len(Marker):], ":")
	return scheme, ok
}

type Engine struct {
	c Cipher
}

// NewEngine picks the cipher from the key: an age X25519 identity selects age,
// anything else is used as an AES-256-GCM passphrase.
func NewEngine(key string) (*Engine, error) {
	key = strings.TrimSpace(key)
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	var (
		c   Cipher
		err error
	)
	if strings.HasPrefix(key, AgeKeyPrefix) {
		c, err = NewAgeCryptFromString(key)
	} else {
		c, err = NewAesCryptFromPassphrase(key)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}

	return NewEngineWithCipher(c), nil
}

func NewEngineWithCipher(c Cipher) *Engine {
	return &Engine{c: c}
}

func (e *Engine) Scheme() string {
	return e.c.Scheme()
}

// Encrypt returns an already encrypted value unchanged.
func (e *Engine) Encrypt(v string) (string, error) {
	if IsEncrypted(v) {
		return v, nil
	}

	payload, err := e.c.EncryptValue(v)
	if err != nil {
		return "", &CryptoError{Op: "encrypt", Err: err}
	}

	return Marker + e.c.Scheme() + ":" + payload, nil
}

// Decrypt returns a value without the marker unchanged.
func (e *Engine) Decrypt(v string) (string, error) {
	if !IsEncrypted(v) {
		return v, nil
	}

	scheme, payload, ok := strings.Cut(v[len(Marker):], ":")
	if !ok {
		return "", &CryptoError{Op: "decrypt", Err: errInvalidFormat}
	}
	if scheme != e.c.Scheme() {
		return "", &CryptoError{Op: "decrypt", Err: fmt.Errorf("value is encrypted with %q, key is for %q", scheme, e.c.Scheme())}
	}

	plain, err := e.c.DecryptValue(payload)
	if err != nil {
		return "", &CryptoError{Op: "decrypt", Err: err}
	}

	return plain, nil
}
