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

// Package shell implements the line-oriented memdb front end used for both
// interactive sessions and batch scripts.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-shellwords"

	"github.com/innovationmech/memdb/internal/memdb/command"
	"github.com/innovationmech/memdb/internal/memdb/interfaces"
)

// Banner is printed when an interactive session starts.
const Banner = "Interactive mode started. Type 'help' for available commands or 'end' to exit."

// Dispatcher executes commands on behalf of the shell.
type Dispatcher interface {
	Execute(ctx context.Context, name string, args ...string) (command.Result, error)
	Help(name string) string
	List() []string
}

// Option configures a Shell.
type Option func(*Shell)

// WithInput sets the line source. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(s *Shell) {
		s.in = r
	}
}

// WithOutput sets where results are written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) {
		s.out = w
	}
}

// WithPrompt sets the interactive prompt.
func WithPrompt(prompt string) Option {
	return func(s *Shell) {
		s.prompt = prompt
	}
}

// WithHistoryFile sets the readline history file. Empty disables history.
func WithHistoryFile(path string) Option {
	return func(s *Shell) {
		s.historyFile = path
	}
}

// WithAutoComplete toggles command name completion.
func WithAutoComplete(enabled bool) Option {
	return func(s *Shell) {
		s.autoComplete = enabled
	}
}

// WithColors toggles coloured error output.
func WithColors(enabled bool) Option {
	return func(s *Shell) {
		s.colors = enabled
	}
}

// WithInteractive forces interactive or batch mode instead of detecting a terminal.
func WithInteractive(interactive bool) Option {
	return func(s *Shell) {
		s.interactive = &interactive
	}
}

// Shell reads commands line by line and prints their results.
type Shell struct {
	dispatcher   Dispatcher
	logger       interfaces.Logger
	in           io.Reader
	out          io.Writer
	prompt       string
	historyFile  string
	autoComplete bool
	colors       bool
	interactive  *bool
	errColor     *color.Color
	sessionID    string
}

// New creates a shell over d.
func New(d Dispatcher, logger interfaces.Logger, opts ...Option) *Shell {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	s := &Shell{
		dispatcher:   d,
		logger:       logger,
		in:           os.Stdin,
		out:          os.Stdout,
		prompt:       ">",
		autoComplete: true,
		colors:       true,
		sessionID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.errColor = color.New(color.FgRed, color.Bold)
	if !s.colors {
		s.errColor.DisableColor()
	}
	return s
}

// SessionID identifies this shell in log entries.
func (s *Shell) SessionID() string {
	return s.sessionID
}

// IsInteractive reports whether Run will use line editing.
func (s *Shell) IsInteractive() bool {
	if s.interactive != nil {
		return *s.interactive
	}
	f, ok := s.in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run processes input until END, end of input or an interrupt.
func (s *Shell) Run(ctx context.Context) error {
	if s.IsInteractive() {
		return s.runInteractive(ctx)
	}
	return s.RunScript(ctx, s.in)
}

// RunScript processes every line of r as a batch, stopping early at END.
func (s *Shell) RunScript(ctx context.Context, r io.Reader) error {
	s.logger.Info("Batch session started", "session", s.sessionID)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lines := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lines++
		if s.ProcessLine(ctx, scanner.Text()) {
			s.logger.Info("Batch session ended by END command", "session", s.sessionID, "lines", lines)
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	s.logger.Info("Batch session ended by EOF", "session", s.sessionID, "lines", lines)
	return nil
}

func (s *Shell) runInteractive(ctx context.Context) error {
	cfg := &readline.Config{
		Prompt:            s.prompt + " ",
		HistoryFile:       s.historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "^D",
		HistorySearchFold: true,
		Stdout:            s.out,
	}
	if s.autoComplete {
		cfg.AutoComplete = s.completer()
	}
	l, err := readline.NewEx(cfg)
	if err != nil {
		return fmt.Errorf("start line editor: %w", err)
	}
	defer l.Close()

	s.logger.Info("Interactive mode started", "session", s.sessionID)
	fmt.Fprintln(s.out, Banner)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := l.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				s.logger.Info("Interactive mode ended by interrupt", "session", s.sessionID)
				return nil
			}
			if errors.Is(err, io.EOF) {
				s.logger.Info("Interactive mode ended by EOF", "session", s.sessionID)
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("read line: %w", err)
		}
		if s.ProcessLine(ctx, line) {
			s.logger.Info("Interactive mode ended by END command", "session", s.sessionID)
			return nil
		}
	}
}

func (s *Shell) completer() *readline.PrefixCompleter {
	names := append(s.dispatcher.List(), "help", "end")
	items := make([]readline.PrefixCompleterInterface, 0, len(names)*2)
	for _, n := range names {
		items = append(items, readline.PcItem(strings.ToUpper(n)), readline.PcItem(n))
	}
	return readline.NewPrefixCompleter(items...)
}

// ProcessLine executes one input line and reports whether the session should end.
func (s *Shell) ProcessLine(ctx context.Context, line string) bool {
	words, err := split(line)
	if err != nil {
		s.logger.Warn("Could not parse input", "session", s.sessionID, "line", line, "error", err)
		s.printError("ERROR: " + err.Error())
		return false
	}
	if len(words) == 0 {
		return false
	}

	name, args := strings.ToLower(words[0]), words[1:]
	switch name {
	case "end":
		return true
	case "help":
		topic := ""
		if len(args) > 0 {
			topic = args[0]
		}
		fmt.Fprintln(s.out, s.dispatcher.Help(topic))
		return false
	}

	res, err := s.dispatcher.Execute(ctx, name, args...)
	if err != nil {
		s.logger.Error("Error executing command", "session", s.sessionID, "command", name, "error", err)
		s.printError(ErrorLine(err))
		return false
	}
	if out, show := res.Render(); show {
		fmt.Fprintln(s.out, out)
	}
	return false
}

func (s *Shell) printError(msg string) {
	s.errColor.Fprintln(s.out, msg)
}

// ErrorLine maps a dispatcher error to the text shown to the user.
func ErrorLine(err error) string {
	switch {
	case interfaces.IsCode(err, interfaces.ErrCodeUnknownCommand):
		return "UNKNOWN COMMAND"
	case interfaces.IsCode(err, interfaces.ErrCodeInvalidArguments):
		return "INVALID ARGUMENTS"
	}
	var memdbErr *interfaces.MemdbError
	if errors.As(err, &memdbErr) {
		return "ERROR: " + memdbErr.Message
	}
	return "ERROR: " + err.Error()
}

// split breaks a line into words. Quotes group words and backslashes are
// kept literally; shell operators are rejected rather than silently
// truncating the line.
func split(line string) ([]string, error) {
	line = literalBackslashes(line)
	p := shellwords.NewParser()
	p.ParseEnv = false
	p.ParseBacktick = false
	words, err := p.Parse(line)
	if err != nil {
		return nil, err
	}
	// Position counts runes and is -1 unless an operator stopped the parse
	if runes := []rune(line); p.Position >= 0 && p.Position < len(runes) {
		return nil, fmt.Errorf("unexpected %q, quote values containing shell operators", runes[p.Position])
	}
	return words, nil
}

// literalBackslashes doubles every backslash outside single quotes so the
// parser reads it as a plain character. Inside single quotes the parser
// already keeps it.
func literalBackslashes(line string) string {
	if !strings.ContainsRune(line, '\\') {
		return line
	}
	var b strings.Builder
	b.Grow(len(line) + 8)
	single, double := false, false
	for _, r := range line {
		switch {
		case r == '\'' && !double:
			single = !single
		case r == '"' && !single:
			double = !double
		case r == '\\' && !single:
			b.WriteRune(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
