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

	"github.com/arenadata/envctl/models"
	"github.com/arenadata/envctl/pkg/dotenv"
	"github.com/arenadata/envctl/pkg/seal"
	"github.com/arenadata/envctl/pkg/utils"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var errNothingSelected = errors.New("template not found: select variables with --keys or --all")

var (
	encryptCmd = &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt sensitive values in a .env file",
		Long: `Encrypts the values of variables flagged as encrypted in the template.
Without a template, variables are selected with --keys or --all. Values that
are already encrypted are left as they are.`,
		Run: sealCommand("encrypt"),
	}

	decryptCmd = &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt values in a .env file",
		Long: `Decrypts the values of variables flagged as encrypted in the template.
Without a template, every encrypted value is decrypted. --keys selects variables
explicitly. A value that cannot be decrypted is reported and left untouched; the
other values are still decrypted.`,
		Run: sealCommand("decrypt"),
	}
)

func init() {
	for _, c := range []*cobra.Command{encryptCmd, decryptCmd} {
		rootCmd.AddCommand(c)

		envFileFlags(c)
		templateFlags(c)
		keyFlags(c)
		c.Flags().StringSlice("keys", nil, "Only process these variables")
		c.Flags().Bool("dry-run", false, "Print the changes instead of writing them")
	}

	encryptCmd.Flags().Bool("all", false, "Encrypt every variable")
	encryptCmd.MarkFlagsMutuallyExclusive("keys", "all")
}

func sealCommand(op string) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		logger := log.WithField("command", op)

		res, err := runSeal(cmd, op)
		if err != nil {
			logger.Fatal(err)
		}

		for _, kr := range res {
			entry := logger.WithField("key", kr.Key)
			switch kr.Action {
			case seal.Failed:
				entry.Error(kr.Err)
			case seal.Skipped:
				entry.Debugf("skipped: %s", kr.Reason)
			default:
				entry.Info(kr.Action)
			}
		}

		if failed := res.Failed(); len(failed) > 0 {
			logger.Errorf("%d of %d variable(s) failed", len(failed), len(res))
			os.Exit(1)
		}
	}
}

func runSeal(cmd *cobra.Command, op string) (seal.Result, error) {
	conf, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	envPath := stringFlag(cmd, "file", conf.File)
	f, err := dotenv.Load(envPath)
	if err != nil {
		return nil, err
	}
	before := f.Bytes()

	engine, err := newEngine(cmd, conf)
	if errors.Is(err, errNoKeyProvided) {
		return nil, fmt.Errorf("%w: use --key or --key-file", err)
	} else if err != nil {
		return nil, err
	}

	var res seal.Result
	switch op {
	case "encrypt":
		sel, err := encryptSelector(cmd, conf)
		if err != nil {
			return nil, err
		}
		res = seal.Encrypt(f, engine, sel)
	case "decrypt":
		sel, err := decryptSelector(cmd, conf)
		if err != nil {
			return nil, err
		}
		res = seal.Decrypt(f, engine, sel)
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}

	after := f.Bytes()
	if getBool(cmd, "dry-run") {
		_, err = fmt.Fprint(cmd.OutOrStdout(), lineDiff(string(before), string(after)))
		return res, err
	}

	if len(res.Changed()) > 0 {
		if err = f.Save(envPath); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func encryptSelector(cmd *cobra.Command, conf *models.Config) (seal.Selector, error) {
	if keys, _ := cmd.Flags().GetStringSlice("keys"); len(keys) > 0 {
		return seal.Keys(keys...), nil
	}
	if getBool(cmd, "all") {
		return seal.All(), nil
	}

	templatePath := stringFlag(cmd, "template", conf.Template)
	exists, err := utils.FileExists(templatePath)
	if err != nil {
		return nil, err
	}
	if !exists && !cmd.Flags().Changed("template") {
		return nil, errNothingSelected
	}

	s, err := loadSchema(log.WithField("command", "encrypt"), templatePath)
	if err != nil {
		return nil, err
	}
	if len(s.Encrypted()) == 0 {
		log.WithField("command", "encrypt").Warnf("no variables in %s are flagged as encrypted", templatePath)
	}

	return seal.FromSchema(s), nil
}

func decryptSelector(cmd *cobra.Command, conf *models.Config) (seal.Selector, error) {
	if keys, _ := cmd.Flags().GetStringSlice("keys"); len(keys) > 0 {
		return seal.Keys(keys...), nil
	}

	templatePath := stringFlag(cmd, "template", conf.Template)
	exists, err := utils.FileExists(templatePath)
	if err != nil {
		return nil, err
	}
	if !exists && !cmd.Flags().Changed("template") {
		return seal.All(), nil
	}

	s, err := loadSchema(log.WithField("command", "decrypt"), templatePath)
	if err != nil {
		return nil, err
	}
	return seal.FromSchema(s), nil
}
