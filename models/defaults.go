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

package models

import (
	"github.com/arenadata/envctl/pkg/utils"
)

const (
	AppName = "envctl"

	ConfigFile         = ".envctl.yaml"
	UserConfigFileName = "config.yaml"

	TemplateFile = ".env.example"
	EnvFile      = ".env"
	KeyFile      = AppName + ".key"
	Format       = "text"

	GenerateHeader  = true
	GenerateEncrypt = true
)

func FullConfigWithDefaults() *Config {
	return &Config{
		Project:  utils.Ptr(""),
		Template: utils.Ptr(TemplateFile),
		File:     utils.Ptr(EnvFile),
		KeyFile:  utils.Ptr(""),
		Format:   utils.Ptr(Format),
		Generate: &GenerateConfig{
			Header:  utils.Ptr(GenerateHeader),
			Encrypt: utils.Ptr(GenerateEncrypt),
		},
	}
}

// SetDefaultsConfig fills unset options. KeyFile stays empty so that the
// caller can derive it from the project name.
func SetDefaultsConfig(in *Config) {
	if in.Project == nil {
		in.Project = utils.Ptr("")
	}

	if utils.PtrIsEmpty(in.Template) {
		in.Template = utils.Ptr(TemplateFile)
	}

	if utils.PtrIsEmpty(in.File) {
		in.File = utils.Ptr(EnvFile)
	}

	if in.KeyFile == nil {
		in.KeyFile = utils.Ptr("")
	}

	if utils.PtrIsEmpty(in.Format) {
		in.Format = utils.Ptr(Format)
	}

	if in.Generate == nil {
		in.Generate = &GenerateConfig{}
	}

	if in.Generate.Header == nil {
		in.Generate.Header = utils.Ptr(GenerateHeader)
	}

	if in.Generate.Encrypt == nil {
		in.Generate.Encrypt = utils.Ptr(GenerateEncrypt)
	}
}
