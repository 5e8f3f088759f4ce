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

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/arenadata/envctl/models"
	"github.com/arenadata/envctl/pkg/secrets"
	"github.com/arenadata/envctl/pkg/utils"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"
)

var (
	errNoKeyProvided = errors.New("no encryption key provided")
)

// keyFlags registers --key and --key-file. The key is never read from the
// environment.
func keyFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("key", "k", "", "Encryption key: an age identity (AGE-SECRET-KEY-...) or a passphrase")
	cmd.Flags().String("key-file", "", "Read the encryption key from file (default <project>.key or "+models.KeyFile+")")

	cmd.MarkFlagsMutuallyExclusive("key", "key-file")
}

// defaultKeyFile derives the key file name from the project name.
func defaultKeyFile(project string) string {
	if s := slug.Make(project); len(s) > 0 {
		return s + ".key"
	}
	return models.KeyFile
}

func keyFilePath(cmd *cobra.Command, conf *models.Config) string {
	if p := stringFlag(cmd, "key-file", conf.KeyFile); len(p) > 0 {
		return p
	}
	return defaultKeyFile(*conf.Project)
}

func getKey(cmd *cobra.Command, conf *models.Config) (string, error) {
	key, _ := cmd.Flags().GetString("key")
	if len(key) > 0 {
		return key, nil
	}

	keyFile := keyFilePath(cmd, conf)
	exists, err := utils.FileExists(keyFile)
	if err != nil {
		return "", err
	}
	if !exists {
		if cmd.Flags().Changed("key-file") {
			return "", fmt.Errorf("key file %q not found", keyFile)
		}
		return "", errNoKeyProvided
	}

	key, err = readKeyFromFile(keyFile)
	if err != nil {
		return "", fmt.Errorf("read key from file %q failed: %v", keyFile, err)
	}

	return key, nil
}

// readKeyFromFile returns the first line that is not a comment.
func readKeyFromFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}

	return "", fmt.Errorf("no key found")
}

func newEngine(cmd *cobra.Command, conf *models.Config) (*secrets.Engine, error) {
	key, err := getKey(cmd, conf)
	if err != nil {
		return nil, err
	}
	return secrets.NewEngine(key)
}
