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

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/innovationmech/memdb/internal/memdb/store"
)

// StatsProvider is implemented by stores that expose activity counters.
type StatsProvider interface {
	Stats() store.Stats
}

func (r *Registry) builtins() []Command {
	return []Command{
		{
			Name: "set", Usage: "SET <key> <value>", Help: "Set the value of a key",
			MinArgs: 2, MaxArgs: 2,
			Handler: func(_ context.Context, args []string) (Result, error) {
				r.db.Set(args[0], args[1])
				return None(), nil
			},
		},
		{
			Name: "get", Usage: "GET <key>", Help: "Get the value of a key",
			MinArgs: 1, MaxArgs: 1,
			Handler: func(_ context.Context, args []string) (Result, error) {
				v, ok := r.db.Get(args[0])
				return Value(v, ok), nil
			},
		},
		{
			Name: "unset", Usage: "UNSET <key>", Help: "Remove a key",
			MinArgs: 1, MaxArgs: 1,
			Handler: func(_ context.Context, args []string) (Result, error) {
				r.db.Unset(args[0])
				return None(), nil
			},
		},
		{
			Name: "counts", Usage: "COUNTS <value>", Help: "Count keys holding a value",
			MinArgs: 1, MaxArgs: 1,
			Handler: func(_ context.Context, args []string) (Result, error) {
				return Count(r.db.Counts(args[0])), nil
			},
		},
		{
			Name: "find", Usage: "FIND <value>", Help: "List keys holding a value",
			MinArgs: 1, MaxArgs: 1,
			Handler: func(_ context.Context, args []string) (Result, error) {
				return Keys(r.db.Find(args[0])), nil
			},
		},
		{
			Name: "begin", Usage: "BEGIN", Help: "Start a new transaction",
			Handler: r.begin,
		},
		{
			Name: "rollback", Usage: "ROLLBACK", Help: "Discard the innermost transaction",
			Handler: func(_ context.Context, _ []string) (Result, error) {
				return Ack(r.db.Rollback()), nil
			},
		},
		{
			Name: "commit", Usage: "COMMIT", Help: "Merge the innermost transaction into its parent",
			Handler: func(_ context.Context, _ []string) (Result, error) {
				return Ack(r.db.Commit()), nil
			},
		},
		{
			Name: "status", Usage: "STATUS", Help: "Show the transaction depth",
			Handler: func(_ context.Context, _ []string) (Result, error) {
				return Depth(r.db.TransactionDepth()), nil
			},
		},
		{
			Name: "stats", Usage: "STATS", Help: "Show store and command statistics",
			Handler: r.stats,
		},
	}
}

func (r *Registry) begin(_ context.Context, _ []string) (Result, error) {
	r.db.Begin()
	if depth := r.db.TransactionDepth(); r.maxDepth > 0 && depth > r.maxDepth {
		r.logger.Warn("transaction depth exceeds configured maximum", "depth", depth, "max_depth", r.maxDepth)
	}
	return None(), nil
}

func (r *Registry) stats(_ context.Context, _ []string) (Result, error) {
	var lines []string
	if sp, ok := r.db.(StatsProvider); ok {
		s := sp.Stats()
		lines = append(lines,
			fmt.Sprintf("depth: %d", s.Depth),
			fmt.Sprintf("visible_keys: %d", s.VisibleKeys),
			fmt.Sprintf("reads: %d", s.Reads),
			fmt.Sprintf("writes: %d", s.Writes),
			fmt.Sprintf("scans: %d", s.Scans),
			fmt.Sprintf("commits: %d", s.Commits),
			fmt.Sprintf("rollbacks: %d", s.Rollbacks),
		)
	} else {
		lines = append(lines, fmt.Sprintf("depth: %d", r.db.TransactionDepth()))
	}

	metrics, err := r.metrics.Snapshot()
	if err != nil {
		return None(), err
	}
	lines = append(lines, metrics...)
	return Text(strings.Join(lines, "\n")), nil
}
