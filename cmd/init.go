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
	"bytes"
	"fmt"

	"github.com/arenadata/envctl/models"
	"github.com/arenadata/envctl/pkg/utils"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented " + models.ConfigFile + " config file",
	Run:   initConfig,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmdFlags(initCmd)
}

func initCmdFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", models.ConfigFile, "Config output filename")
	cmd.Flags().BoolP("force", "f", false, "Force overwrite existing config")
	cmd.Flags().String("project", "", "Project name")
	cmd.Flags().Bool("slim", false, "Create a minimal config file")
}

func initConfig(cmd *cobra.Command, _ []string) {
	logger := log.WithField("command", "init")

	configFile, _ := cmd.Flags().GetString("output")
	if err := checkOverwrite(configFile, getBool(cmd, "force")); err != nil {
		logger.Fatal(err)
	}

	b, err := renderConfig(cmd)
	if err != nil {
		logger.Fatal(err)
	}

	if err = utils.WriteFileAtomic(configFile, b, 0640); err != nil {
		logger.Fatal(err)
	}
	logger.Infof("config saved to %s", configFile)
}

func checkOverwrite(path string, force bool) error {
	exists, err := utils.FileExists(path)
	if err != nil {
		return err
	}
	if exists && !force {
		return fmt.Errorf("file %s already exists, use --force to overwrite", path)
	}
	return nil
}

func renderConfig(cmd *cobra.Command) ([]byte, error) {
	project, _ := cmd.Flags().GetString("project")

	var (
		configNode *yaml.Node
		err        error
	)
	if getBool(cmd, "slim") {
		configNode, err = models.SetConfigComments(&models.Config{Project: utils.Ptr(project)})
	} else {
		conf := models.FullConfigWithDefaults()
		conf.Project = utils.Ptr(project)
		conf.KeyFile = utils.Ptr(defaultKeyFile(project))
		configNode, err = models.SetConfigComments(conf)
	}
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	confEnc := yaml.NewEncoder(buf)
	confEnc.SetIndent(2)
	if err = confEnc.Encode(configNode); err != nil {
		return nil, err
	}
	if err = confEnc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writeOutput writes data to path atomically, or to stdout for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return utils.WriteFileAtomic(path, data, 0600)
}
