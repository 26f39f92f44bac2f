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
	"github.com/spf13/cobra"

	"github.com/innovationmech/memdb/internal/memdb/app"
)

type dataCommand struct {
	use   string
	short string
	args  cobra.PositionalArgs
}

var dataCommands = []dataCommand{
	{use: "set KEY VALUE", short: "Set the value of a key", args: cobra.ExactArgs(2)},
	{use: "get KEY", short: "Get the value of a key", args: cobra.ExactArgs(1)},
	{use: "unset KEY", short: "Remove a key", args: cobra.ExactArgs(1)},
	{use: "counts VALUE", short: "Count keys holding a value", args: cobra.ExactArgs(1)},
	{use: "find VALUE", short: "List keys holding a value", args: cobra.ExactArgs(1)},
	{use: "begin", short: "Start a transaction", args: cobra.NoArgs},
	{use: "rollback", short: "Discard the innermost transaction", args: cobra.NoArgs},
	{use: "commit", short: "Merge the innermost transaction into its parent", args: cobra.NoArgs},
	{use: "status", short: "Show the transaction depth", args: cobra.NoArgs},
	{use: "stats", short: "Show store statistics and command metrics", args: cobra.NoArgs},
}

// newDataCommands maps each dispatcher command onto a subcommand of the same name.
func newDataCommands(s *state) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(dataCommands))
	for _, dc := range dataCommands {
		cmds = append(cmds, newDataCmd(s, dc))
	}
	return cmds
}

func newDataCmd(s *state, dc dataCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   dc.use,
		Short: dc.short,
		Args:  dc.args,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return s.withApp(cmd, func(a *app.App) error {
			res, err := a.Registry.Execute(cmd.Context(), cmd.Name(), args...)
			printResult(cmd.OutOrStdout(), res, err)
			return nil
		})
	}
	return cmd
}

func newEndCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withApp(cmd, func(a *app.App) error {
				a.Logger.Info("End command received", "depth", a.Store.TransactionDepth())
				return nil
			})
		},
	}
}

func newExecCmd(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec NAME [ARGS...]",
		Short: "Run any registered command, including plugin commands",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withApp(cmd, func(a *app.App) error {
				res, err := a.Registry.Execute(cmd.Context(), args[0], args[1:]...)
				printResult(cmd.OutOrStdout(), res, err)
				return nil
			})
		},
	}
	// everything after NAME belongs to the command
	cmd.Flags().SetInterspersed(false)
	return cmd
}
