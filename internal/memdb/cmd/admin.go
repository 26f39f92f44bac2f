// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/innovationmech/memdb/internal/memdb/app"
)

func newPluginsCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List registered plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withApp(cmd, func(a *app.App) error {
				out := cmd.OutOrStdout()
				names := a.Plugins.ListPlugins()
				if len(names) == 0 {
					fmt.Fprintln(out, "No plugins registered")
					return nil
				}
				for _, name := range names {
					info, err := a.Plugins.GetPluginInfo(name)
					if err != nil {
						return err
					}
					line := fmt.Sprintf("%s %s [%s] - %s",
						info.Metadata.Name, info.Metadata.Version, info.Status, info.Metadata.Description)
					if info.Error != "" {
						line += " (" + info.Error + ")"
					}
					fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}
}

func newConfigCmd(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	var output string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withApp(cmd, func(a *app.App) error {
				data, err := a.Config.Export(output)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
	show.Flags().StringVarP(&output, "output", "o", "yaml", "Output format (yaml, json, toml)")

	cmd.AddCommand(show)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "memdb version %s\n", Version)
		},
	}
}
