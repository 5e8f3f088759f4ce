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
	"os"

	"github.com/arenadata/envctl/pkg/dotenv"
	"github.com/arenadata/envctl/pkg/validate"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Aliases: []string{"check"},
	Use:     "validate",
	Short:   "Validate a .env file against the template",
	Long: `Checks that every required variable is set and that every value matches
its declared type. Encrypted values are not type-checked. Variables missing
from the template are reported as warnings. Exits with 1 if any error was found.`,
	Run: validateEnv,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	envFileFlags(validateCmd)
	templateFlags(validateCmd)
	validateCmd.Flags().String("format", "text", "Report format: text, json or yaml")
}

func validateEnv(cmd *cobra.Command, _ []string) {
	logger := log.WithField("command", "validate")

	report, err := runValidate(cmd)
	if err != nil {
		logger.Fatal(err)
	}

	if code := report.ExitCode(); code != 0 {
		os.Exit(code)
	}
}

func runValidate(cmd *cobra.Command) (*validate.Report, error) {
	logger := log.WithField("command", "validate")

	conf, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	envPath := stringFlag(cmd, "file", conf.File)
	templatePath := stringFlag(cmd, "template", conf.Template)
	format := stringFlag(cmd, "format", conf.Format)

	s, err := loadSchema(logger, templatePath)
	if err != nil {
		return nil, err
	}

	f, err := dotenv.Load(envPath)
	if err != nil {
		return nil, err
	}

	report := validate.Validate(s, f)
	logger.WithField("file", envPath).Debugf("%d error(s), %d warning(s)", len(report.Errors()), len(report.Warnings()))

	out := cmd.OutOrStdout()
	if report.HasErrors() && format == validate.FormatText {
		out = cmd.ErrOrStderr()
	}

	return report, report.Render(out, format)
}
