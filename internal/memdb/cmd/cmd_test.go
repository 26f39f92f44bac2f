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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationmech/memdb/internal/memdb/app"
)

const quietConfig = "logging:\n  type: none\n"

// execute runs root with args and captures its output.
func execute(root *cobra.Command, args ...string) (string, string, error) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestApp(t *testing.T, configYAML string) *app.App {
	t.Helper()
	a, err := app.New(app.Options{
		ConfigPath: writeConfig(t, configYAML),
		LogWriter:  new(bytes.Buffer),
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNewRootCommand_Properties(t *testing.T) {
	root := NewRootCommand()
	assert.Equal(t, "memdb", root.Use)
	assert.Equal(t, "In-Memory Database CLI Application", root.Short)
	assert.Equal(t, Version, root.Version)
	assert.False(t, root.HasParent())

	configFlag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
	assert.NotNil(t, root.PersistentFlags().Lookup("no-color"))

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{
		"set", "get", "unset", "counts", "find", "begin", "rollback", "commit", "end",
		"status", "stats", "interactive", "run", "exec", "plugins", "config", "version",
	} {
		assert.Contains(t, names, want)
	}
}

func TestNewRootCommand_Help(t *testing.T) {
	out, _, err := execute(NewRootCommand(), "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "In-Memory Database CLI Application")
	assert.Contains(t, out, "memdb [command]")
}

func TestDataCommands_ShareInjectedApp(t *testing.T) {
	a := newTestApp(t, quietConfig)
	run := func(args ...string) string {
		t.Helper()
		out, _, err := execute(NewRootCommand(WithApp(a)), args...)
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, "NULL\n", run("get", "a"))
	assert.Equal(t, "", run("set", "a", "10"))
	assert.Equal(t, "10\n", run("get", "a"))
	assert.Equal(t, "", run("set", "b", "10"))
	assert.Equal(t, "2\n", run("counts", "10"))
	assert.Equal(t, "a b\n", run("find", "10"))
	assert.Equal(t, "NULL\n", run("find", "20"))

	assert.Equal(t, "", run("begin"))
	assert.Equal(t, "Transaction depth: 1\n", run("status"))
	assert.Equal(t, "", run("unset", "a"))
	assert.Equal(t, "NULL\n", run("get", "a"))
	assert.Equal(t, "", run("rollback"))
	assert.Equal(t, "10\n", run("get", "a"))
	assert.Equal(t, "NO TRANSACTION\n", run("rollback"))
	assert.Equal(t, "NO TRANSACTION\n", run("commit"))
	assert.Equal(t, "", run("end"))

	stats := run("stats")
	assert.Contains(t, stats, "depth: 0")
	assert.Contains(t, stats, "visible_keys: 2")
}

func TestDataCommands_Arity(t *testing.T) {
	a := newTestApp(t, quietConfig)
	tests := []struct {
		name string
		args []string
	}{
		{"get without key", []string{"get"}},
		{"set without value", []string{"set", "a"}},
		{"begin with argument", []string{"begin", "now"}},
		{"run with two files", []string{"run", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(NewRootCommand(WithApp(a)), tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestExecCmd(t *testing.T) {
	a := newTestApp(t, quietConfig)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"exec", "echo", "hello", "world"}, "hello world\n"},
		{[]string{"exec", "ECHO", "-n", "x"}, "-n x\n"},
		{[]string{"exec", "fly"}, "UNKNOWN COMMAND\n"},
		{[]string{"exec", "get"}, "INVALID ARGUMENTS\n"},
		{[]string{"exec", "get", "missing"}, "NULL\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, err := execute(NewRootCommand(WithApp(a)), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRunCmd(t *testing.T) {
	script := "SET a 10\nBEGIN\nSET a 20\nGET a\nROLLBACK\nGET a\nFLY\nEND\nGET a\n"
	want := "20\n10\nUNKNOWN COMMAND\n"

	t.Run("file", func(t *testing.T) {
		a := newTestApp(t, quietConfig)
		path := filepath.Join(t.TempDir(), "script.txt")
		require.NoError(t, os.WriteFile(path, []byte(script), 0644))

		out, _, err := execute(NewRootCommand(WithApp(a)), "run", path)
		require.NoError(t, err)
		assert.Equal(t, want, out)
	})

	t.Run("stdin", func(t *testing.T) {
		a := newTestApp(t, quietConfig)
		root := NewRootCommand(WithApp(a))
		root.SetIn(strings.NewReader(script))
		out, _, err := execute(root, "run", "-")
		require.NoError(t, err)
		assert.Equal(t, want, out)
	})

	t.Run("missing file", func(t *testing.T) {
		a := newTestApp(t, quietConfig)
		_, _, err := execute(NewRootCommand(WithApp(a)), "run", filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open script")
	})
}

func TestInteractiveCmd_PipedInput(t *testing.T) {
	a := newTestApp(t, quietConfig)
	root := NewRootCommand(WithApp(a))
	root.SetIn(strings.NewReader("SET greeting \"hi there\"\nGET greeting\nCOMMIT\n"))

	out, _, err := execute(root, "interactive")
	require.NoError(t, err)
	assert.Equal(t, "hi there\nNO TRANSACTION\n", out)

	// the session wrote into the shared store
	v, ok := a.Store.Get("greeting")
	assert.True(t, ok)
	assert.Equal(t, "hi there", v)
}

func TestPluginsCmd(t *testing.T) {
	a := newTestApp(t, quietConfig)
	out, _, err := execute(NewRootCommand(WithApp(a)), "plugins")
	require.NoError(t, err)
	assert.Equal(t, "echo 1.0.0 [active] - Echo input\n", out)

	disabled := newTestApp(t, quietConfig+"plugins:\n  enabled: []\n")
	out, _, err = execute(NewRootCommand(WithApp(disabled)), "plugins")
	require.NoError(t, err)
	assert.Equal(t, "echo 1.0.0 [disabled] - Echo input\n", out)
}

func TestConfigShowCmd(t *testing.T) {
	a := newTestApp(t, quietConfig+"database:\n  search: scan\n")

	out, _, err := execute(NewRootCommand(WithApp(a)), "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "search: scan")

	out, _, err = execute(NewRootCommand(WithApp(a)), "config", "show", "--output", "json")
	require.NoError(t, err)
	var settings map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &settings))
	assert.Equal(t, "scan", settings["database"].(map[string]interface{})["search"])

	out, _, err = execute(NewRootCommand(WithApp(a)), "config", "show", "-o", "toml")
	require.NoError(t, err)
	assert.Contains(t, out, "[database]")

	_, _, err = execute(NewRootCommand(WithApp(a)), "config", "show", "-o", "xml")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(NewRootCommand(), "version")
	require.NoError(t, err)
	assert.Equal(t, "memdb version "+Version+"\n", out)
}

func TestRootCommand_BuildsAppFromConfigFlag(t *testing.T) {
	path := writeConfig(t, quietConfig+"database:\n  search: scan\n")

	out, _, err := execute(NewRootCommand(), "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "search: scan")

	// each invocation without an injected app starts from an empty store
	out, _, err = execute(NewRootCommand(), "--config", path, "set", "a", "1")
	require.NoError(t, err)
	assert.Empty(t, out)
	out, _, err = execute(NewRootCommand(), "--config", path, "get", "a")
	require.NoError(t, err)
	assert.Equal(t, "NULL\n", out)
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "database:\n  search: hash\n")
	_, _, err := execute(NewRootCommand(WithAppOptions(app.Options{LogWriter: new(bytes.Buffer)})), "--config", path, "get", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize application")
}
