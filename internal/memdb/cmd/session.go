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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/innovationmech/memdb/internal/memdb/app"
	"github.com/innovationmech/memdb/internal/memdb/shell"
)

func newInteractiveCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"shell"},
		Short:   "Start an interactive session",
		Long: `Start an interactive session against one store.

Commands are read line by line until END, end of input or Ctrl-C. When stdin
is not a terminal the lines are processed as a batch without a prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withApp(cmd, func(a *app.App) error {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				if err := a.WatchConfig(ctx); err != nil {
					a.Logger.Warn("Could not watch config file", "error", err)
				}

				cli := a.Settings.CLI
				sh := shell.New(a.Registry, a.Logger,
					shell.WithInput(cmd.InOrStdin()),
					shell.WithOutput(cmd.OutOrStdout()),
					shell.WithPrompt(cli.Prompt),
					shell.WithHistoryFile(cli.HistoryFile),
					shell.WithAutoComplete(cli.AutoComplete),
					shell.WithColors(s.colors(a)))
				return sh.Run(ctx)
			})
		},
	}
}

func newRunCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "run [FILE|-]",
		Short: "Execute commands from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open script: %w", err)
				}
				defer f.Close()
				in = f
			}

			return s.withApp(cmd, func(a *app.App) error {
				sh := shell.New(a.Registry, a.Logger,
					shell.WithOutput(cmd.OutOrStdout()),
					shell.WithColors(s.colors(a)))
				return sh.RunScript(cmd.Context(), in)
			})
		},
	}
}
