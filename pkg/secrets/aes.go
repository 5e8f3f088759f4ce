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
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	sep = "."

	aesScheme = "aes256gcm"
	aesKeyLen = 32

	// The passphrase must map to the same key on every run, so the salt is fixed.
	aesSalt = "envctl/" + aesScheme
)

var errInvalidFormat = errors.New("invalid encrypted value format")

type AesCrypt struct {
	gcm cipher.AEAD
}

func NewAesCrypt(key []byte) (*AesCrypt, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	return &AesCrypt{gcm: gcm}, nil
}

// NewAesCryptFromPassphrase derives an AES-256 key from passphrase with scrypt.
func NewAesCryptFromPassphrase(passphrase string) (*AesCrypt, error) {
	key, err := scrypt.Key([]byte(passphrase), []byte(aesSalt), 1<<15, 8, 1, aesKeyLen)
	if err != nil {
		return nil, err
	}
	return NewAesCrypt(key)
}

func (c *AesCrypt) Scheme() string {
	return aesScheme
}

func (c *AesCrypt) EncryptValue(v string) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := c.gcm.Seal(nil, nonce, []byte(v), nil)

	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(ciphertext),
		base64.StdEncoding.EncodeToString(nonce),
	}, sep), nil
}

func (c *AesCrypt) DecryptValue(v string) (string, error) {
	parts := strings.Split(v, sep)
	if len(parts) != 2 {
		return "", errInvalidFormat
	}

	data, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", err
	}

	nonce, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", err
	}
	if len(nonce) != c.gcm.NonceSize() {
		return "", errInvalidFormat
	}

	b, err := c.gcm.Open(nil, nonce, data, nil)
	return string(b), err
}
