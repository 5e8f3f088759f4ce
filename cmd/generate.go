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
	"github.com/arenadata/envctl/pkg/dotenv"
	"github.com/arenadata/envctl/pkg/generate"
	"github.com/arenadata/envctl/pkg/interactive"
	"github.com/arenadata/envctl/pkg/schema"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Aliases: []string{"gen"},
	Use:     "generate",
	Short:   "Generate a .env file from the template",
	Long: `Generates an environment file from the template in template order.
Values come from --set, then --from-env, then --from, then the interactive
prompt (--interactive) or the template default. Values flagged as encrypted
are encrypted when a key is available.`,
	Run: generateEnv,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	templateFlags(generateCmd)
	keyFlags(generateCmd)
	generateCmd.Flags().StringP("output", "o", models.EnvFile, "Output file path, - for stdout")
	generateCmd.Flags().BoolP("interactive", "i", false, "Prompt for every value")
	generateCmd.Flags().StringArray("set", nil, "Set a value, KEY=VALUE (repeatable)")
	generateCmd.Flags().String("from", "", "Take values from an existing environment file")
	generateCmd.Flags().Bool("from-env", false, "Take values from the process environment")
	generateCmd.Flags().Bool("force", false, "Overwrite an existing output file")
	generateCmd.Flags().Bool("dry-run", false, "Print the result instead of writing it")
	generateCmd.MarkFlagsMutuallyExclusive("dry-run", "force")
}

func generateEnv(cmd *cobra.Command, _ []string) {
	logger := log.WithField("command", "generate")

	conf, err := loadConfig(cmd)
	if err != nil {
		logger.Fatal(err)
	}

	templatePath := stringFlag(cmd, "template", conf.Template)
	outputPath := stringFlag(cmd, "output", conf.File)
	if getBool(cmd, "dry-run") {
		outputPath = "-"
	}

	if outputPath != "-" {
		if err = checkOverwrite(outputPath, getBool(cmd, "force")); err != nil {
			logger.Fatal(err)
		}
	}

	s, err := loadSchema(logger, templatePath)
	if err != nil {
		logger.Fatal(err)
	}

	opts, err := generateOptions(cmd, conf, s, templatePath)
	if err != nil {
		logger.Fatal(err)
	}

	f, err := generate.Generate(s, opts)
	if err != nil {
		logger.Fatal(err)
	}

	if err = writeOutput(cmd, outputPath, f.Bytes()); err != nil {
		logger.Fatal(err)
	}
	if outputPath != "-" {
		logger.Infof("generated %s from %s", outputPath, templatePath)
	}
}

func generateOptions(cmd *cobra.Command, conf *models.Config, s *schema.Schema, templatePath string) (generate.Options, error) {
	logger := log.WithField("command", "generate")

	values, err := seedValues(cmd, s)
	if err != nil {
		return generate.Options{}, err
	}

	opts := generate.Options{Values: values}
	if *conf.Generate.Header {
		opts.Header = []string{"Generated by " + models.AppName + " from " + templatePath, ""}
	}
	if getBool(cmd, "interactive") {
		opts.Prompter = interactive.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	if *conf.Generate.Encrypt && len(s.Encrypted()) > 0 {
		opts.Engine, err = newEngine(cmd, conf)
		switch {
		case errors.Is(err, errNoKeyProvided):
			logger.Warnf("no key provided, %s written in plaintext", strings.Join(s.Encrypted(), ", "))
		case err != nil:
			return generate.Options{}, err
		}
	}

	return opts, nil
}

// seedValues collects pre-set values. --set wins over the environment, which
// wins over --from.
func seedValues(cmd *cobra.Command, s *schema.Schema) (map[string]string, error) {
	values := map[string]string{}

	if from, _ := cmd.Flags().GetString("from"); len(from) > 0 {
		f, err := dotenv.Load(from)
		if err != nil {
			return nil, err
		}
		for _, key := range s.Keys() {
			if v, ok := f.Lookup(key); ok {
				values[key] = v
			}
		}
	}

	if getBool(cmd, "from-env") {
		for _, key := range s.Keys() {
			if v, ok := os.LookupEnv(key); ok {
				values[key] = v
			}
		}
	}

	sets, _ := cmd.Flags().GetStringArray("set")
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !schema.IsValidKey(key) {
			return nil, fmt.Errorf("invalid --set %q, expected KEY=VALUE", kv)
		}
		if _, known := s.Get(key); !known {
			return nil, fmt.Errorf("--set %s: variable is not defined in the template", key)
		}
		values[key] = value
	}

	return values, nil
}

func loadSchema(logger *log.Entry, path string) (*schema.Schema, error) {
	s, err := schema.BuildFile(path)
	if err != nil {
		return nil, err
	}
	for _, n := range s.Notes() {
		logger.Debugf("%s:%d: %s", path, n.Line, n.Text)
	}
	return s, nil
}
