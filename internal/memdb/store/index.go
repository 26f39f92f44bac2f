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
	"github.com/google/btree"
)

const indexDegree = 16

// valueIndex maps every visible value to the ordered set of keys that
// currently resolve to it.
type valueIndex struct {
	byValue  map[string]*btree.BTreeG[string]
	resolved map[string]string
}

func newValueIndex() *valueIndex {
	return &valueIndex{
		byValue:  make(map[string]*btree.BTreeG[string]),
		resolved: make(map[string]string),
	}
}

// refresh re-resolves key through the stack and moves it to the set of its
// new effective value.
func (idx *valueIndex) refresh(stack *LayerStack, key string) {
	value, ok := stack.Resolve(key)
	old, had := idx.resolved[key]
	if had && ok && old == value {
		return
	}
	if had {
		idx.drop(old, key)
		delete(idx.resolved, key)
	}
	if ok {
		keys, exists := idx.byValue[value]
		if !exists {
			keys = btree.NewG[string](indexDegree, func(a, b string) bool { return a < b })
			idx.byValue[value] = keys
		}
		keys.ReplaceOrInsert(key)
		idx.resolved[key] = value
	}
}

func (idx *valueIndex) drop(value, key string) {
	keys, ok := idx.byValue[value]
	if !ok {
		return
	}
	keys.Delete(key)
	if keys.Len() == 0 {
		delete(idx.byValue, value)
	}
}

func (idx *valueIndex) count(value string) int {
	if keys, ok := idx.byValue[value]; ok {
		return keys.Len()
	}
	return 0
}

func (idx *valueIndex) find(value string) []string {
	keys, ok := idx.byValue[value]
	if !ok {
		return []string{}
	}
	out := make([]string, 0, keys.Len())
	keys.Ascend(func(k string) bool {
		out = append(out, k)
		return true
	})
	return out
}

func (idx *valueIndex) visible() int {
	return len(idx.resolved)
}
