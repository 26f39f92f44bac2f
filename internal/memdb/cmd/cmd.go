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

// Package cmd builds the memdb cobra command tree.
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/innovationmech/memdb/internal/memdb/app"
	"github.com/innovationmech/memdb/internal/memdb/command"
	"github.com/innovationmech/memdb/internal/memdb/config"
	"github.com/innovationmech/memdb/internal/memdb/shell"
)

// Version is the memdb release reported by --version and the version command.
var Version = "1.0.0"

// Option configures the root command.
type Option func(*state)

// WithApp makes every invocation run against a, which the caller owns.
// Commands executed through the same tree then share one store.
func WithApp(a *app.App) Option {
	return func(s *state) {
		s.app = a
	}
}

// WithAppOptions sets the options used to build an App on demand.
// The --config flag still overrides ConfigPath when given.
func WithAppOptions(opts app.Options) Option {
	return func(s *state) {
		s.appOpts = opts
	}
}

type state struct {
	app        *app.App
	appOpts    app.Options
	configFile string
	noColor    bool
}

// NewRootCommand creates the memdb root command with all subcommands.
func NewRootCommand(opts ...Option) *cobra.Command {
	s := &state{}
	for _, opt := range opts {
		opt(s)
	}

	root := &cobra.Command{
		Use:   "memdb",
		Short: "In-Memory Database CLI Application",
		Long: `memdb - In-Memory Database CLI Application

A key-value store with nested transactions. Values live in memory for the
life of the process; use 'memdb interactive' or 'memdb run FILE' to issue a
session of commands against one store.`,
		Version:      Version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&s.configFile, "config", "", "Config file path (default \""+config.DefaultPath+"\")")
	root.PersistentFlags().BoolVar(&s.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newDataCommands(s)...)
	root.AddCommand(
		newEndCmd(s),
		newInteractiveCmd(s),
		newRunCmd(s),
		newExecCmd(s),
		newPluginsCmd(s),
		newConfigCmd(s),
		newVersionCmd(),
	)
	return root
}

// withApp runs fn against the injected App, or against one built for this
// invocation and closed afterwards.
func (s *state) withApp(cmd *cobra.Command, fn func(*app.App) error) (err error) {
	if s.app != nil {
		return fn(s.app)
	}

	opts := s.appOpts
	if s.configFile != "" {
		opts.ConfigPath = s.configFile
	}
	if opts.LogWriter == nil {
		opts.LogWriter = cmd.ErrOrStderr()
	}
	a, err := app.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

func (s *state) colors(a *app.App) bool {
	return a.Settings.CLI.Colors && !s.noColor
}

// printResult writes a dispatcher outcome the way the shell would.
func printResult(w io.Writer, res command.Result, err error) {
	if err != nil {
		fmt.Fprintln(w, shell.ErrorLine(err))
		return
	}
	if out, show := res.Render(); show {
		fmt.Fprintln(w, out)
	}
}
