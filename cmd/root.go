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
	"os"
	"path"
	goruntime "runtime"

	"github.com/arenadata/envctl/models"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "1.0.0-dev"

var rootCmd = &cobra.Command{
	Use:   models.AppName,
	Short: "Manage .env files against an annotated .env.example template",
	Long: `envctl validates, generates, encrypts and decrypts .env files.

The template (.env.example) annotates each variable with a trailing comment:

  PORT=5432            # int, required
  DEBUG=false          # bool, optional
  DB_PASSWORD=         # string, required, encrypted

Types: string (default), int, bool, url, email. Variables are required unless
marked optional. Values marked encrypted are sealed by "envctl encrypt".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if getBool(cmd, "version") {
			cmd.Println(version)
			return nil
		}
		return cmd.Usage()
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	var verbose bool
	cobra.OnInitialize(func() {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	})

	log.SetReportCaller(true)
	formatter := &log.TextFormatter{
		TimestampFormat:        "20060102150405",
		FullTimestamp:          true,
		DisableLevelTruncation: true,
		CallerPrettyfier: func(f *goruntime.Frame) (string, string) {
			return "", fmt.Sprintf(" %s:%d", path.Base(f.File), f.Line)
		},
	}
	log.SetFormatter(formatter)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose mode")
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+models.ConfigFile+" or "+models.UserConfigFile()+")")
	rootCmd.Flags().Bool("version", false, "Print the version and exit")
}

func getBool(cmd *cobra.Command, key string) bool {
	ok, _ := cmd.Flags().GetBool(key)
	return ok
}

// loadConfig reads the config file selected by --config or found in the
// default locations.
func loadConfig(cmd *cobra.Command) (*models.Config, error) {
	explicit, _ := cmd.Flags().GetString("config")
	configPath, err := models.FindConfigFile(explicit)
	if err != nil {
		return nil, err
	}
	if len(configPath) > 0 {
		log.WithField("config", configPath).Debug("using config file")
	}

	conf, err := models.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	return conf, conf.Validate()
}

// stringFlag returns the flag value when it was set on the command line,
// otherwise the value from the config.
func stringFlag(cmd *cobra.Command, name string, conf *string) string {
	v, _ := cmd.Flags().GetString(name)
	if cmd.Flags().Changed(name) || conf == nil || len(*conf) == 0 {
		return v
	}
	return *conf
}

func templateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("template", "t", models.TemplateFile, "Template file path")
}

func envFileFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", models.EnvFile, "Environment file path")
}
