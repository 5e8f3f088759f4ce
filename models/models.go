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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/arenadata/envctl/pkg/utils"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config sets the envctl project configuration
type Config struct {
	// Project set specific project name.
	Project *string `json:"project,omitempty" yaml:"project,omitempty" doc:"Project name. Used to name the default key file."`
	// Template path to the annotated template.
	Template *string `json:"template,omitempty" yaml:"template,omitempty" doc:"Path to the annotated template (.env.example)."`
	// File path to the environment file.
	File *string `json:"file,omitempty" yaml:"file,omitempty" doc:"Path to the environment file (.env)."`
	// KeyFile path to the file holding the encryption key.
	KeyFile *string `json:"keyFile,omitempty" yaml:"keyFile,omitempty" doc:"File holding the encryption key: an age identity or a passphrase."`
	// Format validation report format.
	Format *string `json:"format,omitempty" yaml:"format,omitempty" doc:"Validation report format: text, json or yaml."`
	// Generate provides generate command options.
	Generate *GenerateConfig `json:"generate,omitempty" yaml:"generate,omitempty" doc:"Provides generate command options."`
}

type GenerateConfig struct {
	// Header writes a comment naming the template on top of generated files.
	Header *bool `json:"header,omitempty" yaml:"header,omitempty" doc:"Write a comment naming the template on top of generated files."`
	// Encrypt encrypts values flagged as encrypted when a key is available.
	Encrypt *bool `json:"encrypt,omitempty" yaml:"encrypt,omitempty" doc:"Encrypt values flagged as encrypted when a key is available."`
}

// FindConfigFile returns the explicit path when set, otherwise the first
// existing file of the project config and the user config. Empty means none.
func FindConfigFile(explicit string) (string, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}

	for _, p := range []string{ConfigFile, UserConfigFile()} {
		ok, err := utils.FileExists(p)
		if err != nil {
			return "", err
		}
		if ok {
			return p, nil
		}
	}

	return "", nil
}

func UserConfigFile() string {
	return filepath.Join(xdg.ConfigHome, AppName, UserConfigFileName)
}

// LoadConfig reads path and fills unset options with defaults. An empty path
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	conf := new(Config)
	if len(path) > 0 {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err = dec.Decode(conf); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	SetDefaultsConfig(conf)
	return conf, nil
}

func (c *Config) Validate() error {
	switch *c.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q", *c.Format)
	}
	return nil
}

func SetConfigComments(conf *Config) (*yaml.Node, error) {
	node := new(yaml.Node)
	if err := node.Encode(conf); err != nil {
		return nil, err
	}

	comments(reflect.ValueOf(conf), node)

	return node, nil
}

func comments(in reflect.Value, out *yaml.Node) {
	if in.Kind() == reflect.Ptr {
		in = in.Elem()
	}
	t := in.Type()

	fields := map[string]int{}
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		fields[name] = i
	}

	for i := 0; i+1 < len(out.Content); i += 2 {
		idx, ok := fields[out.Content[i].Value]
		if !ok {
			continue
		}

		field := t.Field(idx)
		docTag := field.Tag.Get("doc")
		if docTag == "-" || len(docTag) == 0 {
			continue
		}
		out.Content[i].HeadComment = docTag

		if field.Type.Kind() == reflect.Ptr {
			v := in.Field(idx).Elem()
			if v.IsValid() && v.Type().Kind() == reflect.Struct {
				comments(v, out.Content[i+1])
			}
		}
	}
}
