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
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arenadata/envctl/pkg/secrets"
	"github.com/arenadata/envctl/pkg/utils"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const passphraseLength = 32

var newKeyCmd = &cobra.Command{
	Use:   "new-key",
	Short: "Generate a new encryption key",
	Long: `Generates an age X25519 identity, or a random passphrase with --passphrase.
The key is written to --output (default <project>.key) and printed to stdout
with "-o -".`,
	Run: newKey,
}

func init() {
	rootCmd.AddCommand(newKeyCmd)

	newKeyCmd.Flags().StringP("output", "o", "", "Key output filename, - for stdout")
	newKeyCmd.Flags().Bool("passphrase", false, "Generate a random passphrase instead of an age identity")
}

func newKey(cmd *cobra.Command, _ []string) {
	logger := log.WithField("command", "new-key")

	conf, err := loadConfig(cmd)
	if err != nil {
		logger.Fatal(err)
	}

	key, err := generateKey(getBool(cmd, "passphrase"))
	if err != nil {
		logger.Fatal(err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if len(outputPath) == 0 {
		outputPath = defaultKeyFile(*conf.Project)
	}

	if outputPath == "-" {
		_ = fPrintKey(cmd.OutOrStdout(), cmd.ErrOrStderr(), key)
		return
	}

	if err = saveKey(outputPath, key); err != nil {
		logger.Fatal(err)
	}
	logger.Infof("key saved to %s", outputPath)
}

type generatedKey struct {
	secret    string
	recipient string
}

func generateKey(passphrase bool) (*generatedKey, error) {
	if passphrase {
		s, err := utils.GenerateRandomString(passphraseLength)
		if err != nil {
			return nil, err
		}
		return &generatedKey{secret: s}, nil
	}

	age, err := secrets.NewAgeCrypt()
	if err != nil {
		return nil, err
	}
	return &generatedKey{secret: age.String(), recipient: age.Recipient().String()}, nil
}

func saveKey(path string, key *generatedKey) (err error) {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file %s already exists", path)
	}
	fi, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0400)
	if err != nil {
		return err
	}
	defer func() {
		if e := fi.Close(); e != nil && err == nil {
			err = e
		}
	}()

	return fPrintKey(fi, fi, key)
}

func fPrintKey(stdout, stderr io.Writer, key *generatedKey) error {
	if _, err := fmt.Fprintf(stderr, "# created: %s\n", time.Now().Format(time.RFC3339)); err != nil {
		return err
	}
	if len(key.recipient) > 0 {
		if _, err := fmt.Fprintf(stderr, "# public key: %s\n", key.recipient); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(stdout, "%s\n", key.secret)
	return err
}
