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

package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

func GenerateRandomString(length int) (string, error) {
	const strSrc = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0987654321@%^*()_+-=[]{};:,./?~"

	max := big.NewInt(int64(len(strSrc)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = strSrc[n.Int64()]
	}

	return string(b), nil
}

func Ptr[T comparable](v T) *T {
	return &v
}

func PtrIsEmpty[T comparable](v *T) bool {
	if v == nil {
		return true
	}

	var t T
	return *v == t
}

func FileExists(path string) (bool, error) {
	st, err := os.Stat(path)
	if err != nil {
		return false, nil
	}
	if st.IsDir() {
		return false, fmt.Errorf("%s is a directory", path)
	}

	return true, nil
}

// WriteFileAtomic replaces path with data through a temporary file in the same
// directory. An existing file keeps its permissions, otherwise perm is used.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	if st, e := os.Stat(path); e == nil {
		if st.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
		perm = st.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	if len(dir) == 0 {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
