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

package store

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationmech/memdb/internal/memdb/interfaces"
)

func strategies() []SearchStrategy {
	return []SearchStrategy{SearchIndex, SearchScan}
}

func TestEngine_GetUnknownKey(t *testing.T) {
	for _, strategy := range strategies() {
		t.Run(string(strategy), func(t *testing.T) {
			e := NewEngine(WithSearchStrategy(strategy))
			_, ok := e.Get("missing")
			assert.False(t, ok)
		})
	}
}

func TestEngine_SetGetUnset(t *testing.T) {
	e := NewEngine()

	e.Set("a", "10")
	v, ok := e.Get("a")
	require.True(t, ok)
	assert.Equal(t, "10", v)

	e.Unset("a")
	_, ok = e.Get("a")
	assert.False(t, ok)

	// repeated unset of an absent key is a no-op
	e.Unset("a")
	e.Unset("never-set")
	_, ok = e.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, e.Counts("10"))
}

func TestEngine_SetGetAtDepth(t *testing.T) {
	e := NewEngine()
	e.Begin()
	e.Begin()

	e.Set("k", "v")
	v, ok := e.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, 2, e.TransactionDepth())
}

func TestEngine_DepthAccounting(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, 0, e.TransactionDepth())

	e.Begin()
	e.Begin()
	assert.Equal(t, 2, e.TransactionDepth())

	assert.True(t, e.Rollback())
	assert.Equal(t, 1, e.TransactionDepth())
	assert.True(t, e.Commit())
	assert.Equal(t, 0, e.TransactionDepth())

	assert.False(t, e.Rollback())
	assert.False(t, e.Commit())
	assert.Equal(t, 0, e.TransactionDepth())
}

func TestEngine_RollbackRestoresState(t *testing.T) {
	for _, strategy := range strategies() {
		t.Run(string(strategy), func(t *testing.T) {
			e := NewEngine(WithSearchStrategy(strategy))
			e.Set("a", "10")
			e.Set("b", "10")

			e.Begin()
			e.Set("a", "20")
			e.Unset("b")
			e.Set("c", "10")
			assert.Equal(t, 1, e.Counts("10"))

			require.True(t, e.Rollback())

			v, ok := e.Get("a")
			require.True(t, ok)
			assert.Equal(t, "10", v)
			v, ok = e.Get("b")
			require.True(t, ok)
			assert.Equal(t, "10", v)
			_, ok = e.Get("c")
			assert.False(t, ok)
			assert.Equal(t, 2, e.Counts("10"))
			assert.Equal(t, 0, e.Counts("20"))
		})
	}
}

func TestEngine_NestedUnsetCommit(t *testing.T) {
	for _, strategy := range strategies() {
		t.Run(string(strategy), func(t *testing.T) {
			e := NewEngine(WithSearchStrategy(strategy))
			e.Set("A", "1")
			e.Begin()
			e.Set("A", "2")
			e.Begin()
			e.Unset("A")

			_, ok := e.Get("A")
			assert.False(t, ok)

			require.True(t, e.Commit())
			_, ok = e.Get("A")
			assert.False(t, ok)

			require.True(t, e.Commit())
			_, ok = e.Get("A")
			assert.False(t, ok)
			assert.Equal(t, 0, e.Counts("1"))
			assert.Equal(t, 0, e.Counts("2"))
		})
	}
}

func TestEngine_CountsAndFind(t *testing.T) {
	e := NewEngine(WithSearchStrategy(SearchScan))
	e.Set("b", "x")
	e.Set("a", "x")
	e.Set("c", "y")
	e.Begin()
	e.Set("d", "x")
	e.Set("c", "x")
	e.Unset("b")

	assert.Equal(t, 3, e.Counts("x"))
	assert.Equal(t, []string{"a", "c", "d"}, e.Find("x"))
	assert.Equal(t, 0, e.Counts("y"))
	assert.Empty(t, e.Find("y"))
	assert.NotNil(t, e.Find("nothing"))
}

func TestEngine_FindOrdering(t *testing.T) {
	setup := func(e *Engine) {
		e.Set("zeta", "v")
		e.Set("alpha", "v")
		e.Begin()
		e.Set("mid", "v")
	}

	scan := NewEngine(WithSearchStrategy(SearchScan))
	setup(scan)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, scan.Find("v"))

	index := NewEngine(WithSearchStrategy(SearchIndex))
	setup(index)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, index.Find("v"))
}

func TestEngine_Stats(t *testing.T) {
	e := NewEngine()
	e.Set("a", "1")
	e.Set("b", "1")
	e.Get("a")
	e.Counts("1")
	e.Begin()
	e.Unset("a")
	e.Rollback()
	e.Begin()
	e.Commit()

	s := e.Stats()
	assert.Equal(t, uint64(3), s.Writes)
	assert.Equal(t, uint64(1), s.Reads)
	assert.Equal(t, uint64(1), s.Scans)
	assert.Equal(t, uint64(1), s.Rollbacks)
	assert.Equal(t, uint64(1), s.Commits)
	assert.Equal(t, 2, s.VisibleKeys)
	assert.Equal(t, 0, s.Depth)
}

func TestParseSearchStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    SearchStrategy
		wantErr bool
	}{
		{in: "index", want: SearchIndex},
		{in: "SCAN", want: SearchScan},
		{in: "", want: SearchIndex},
		{in: "hash", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSearchStrategy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, interfaces.IsCode(err, interfaces.ErrCodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// visibleState resolves every key the random workload may touch.
func visibleState(e *Engine, keys []string) map[string]string {
	state := make(map[string]string)
	for _, k := range keys {
		if v, ok := e.Get(k); ok {
			state[k] = v
		}
	}
	return state
}

func TestEngine_StrategiesAgree(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e", "f"}
	values := []string{"1", "2", "3"}
	sorted := cmpopts.SortSlices(func(a, b string) bool { return a < b })

	for seed := int64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			index := NewEngine(WithSearchStrategy(SearchIndex))
			scan := NewEngine(WithSearchStrategy(SearchScan))

			for step := 0; step < 200; step++ {
				k := keys[rng.Intn(len(keys))]
				v := values[rng.Intn(len(values))]
				op := rng.Intn(6)
				for _, e := range []*Engine{index, scan} {
					switch op {
					case 0, 1:
						e.Set(k, v)
					case 2:
						e.Unset(k)
					case 3:
						e.Begin()
					case 4:
						e.Rollback()
					case 5:
						before := visibleState(e, keys)
						e.Commit()
						if diff := cmp.Diff(before, visibleState(e, keys)); diff != "" {
							t.Fatalf("step %d: commit changed visible state (-before +after):\n%s", step, diff)
						}
					}
				}

				for _, val := range values {
					want := []string{}
					for _, key := range keys {
						if got, ok := scan.Get(key); ok && got == val {
							want = append(want, key)
						}
					}
					sort.Strings(want)

					if diff := cmp.Diff(want, scan.Find(val), sorted); diff != "" {
						t.Fatalf("step %d: scan find(%s) mismatch (-want +got):\n%s", step, val, diff)
					}
					if diff := cmp.Diff(want, index.Find(val)); diff != "" {
						t.Fatalf("step %d: index find(%s) mismatch (-want +got):\n%s", step, val, diff)
					}
					assert.Equal(t, len(want), index.Counts(val))
					assert.Equal(t, len(want), scan.Counts(val))
				}
				require.Equal(t, scan.TransactionDepth(), index.TransactionDepth())
			}
		})
	}
}
