/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package config

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"sron.nl/atmos/go-scia/pkg/config"
)

const (
	OverwriteOptionName = "overwrite"
)

// NewCommand creates a cobra command object for config operations
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Operations with go-scia configuration",
	}
	cmd.AddCommand(NewShowCommand())
	cmd.AddCommand(NewInitCommand())
	return cmd
}

func NewShowCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			cmd.Print(string(data))
			return nil
		},
	}
	return cmd
}

func NewInitCommand() *cobra.Command {
	var overwrite bool
	cfg := config.NewDefaultConfig()
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Persist(overwrite)
		},
	}
	cmd.Flags().BoolVar(&overwrite, OverwriteOptionName, false, "Overwrite an existing configuration file")
	return cmd
}
