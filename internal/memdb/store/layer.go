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
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Entry is the content a layer holds for a key: either a concrete value or
// a tombstone marking the key as unset within that layer.
type Entry struct {
	Value     string
	Tombstone bool
}

// ValueEntry returns an entry holding value.
func ValueEntry(value string) Entry {
	return Entry{Value: value}
}

// TombstoneEntry returns an entry marking its key as unset.
func TombstoneEntry() Entry {
	return Entry{Tombstone: true}
}

// Layer is one scope of the layer stack. Keys keep their insertion order so
// scans over a layer are deterministic.
type Layer struct {
	entries *linkedhashmap.Map
}

func newLayer() *Layer {
	return &Layer{entries: linkedhashmap.New()}
}

// Get returns the entry stored for key in this layer only.
func (l *Layer) Get(key string) (Entry, bool) {
	v, ok := l.entries.Get(key)
	if !ok {
		return Entry{}, false
	}
	return v.(Entry), true
}

// Keys returns the layer's keys in insertion order.
func (l *Layer) Keys() []string {
	raw := l.entries.Keys()
	keys := make([]string, len(raw))
	for i, k := range raw {
		keys[i] = k.(string)
	}
	return keys
}

// Len returns the number of entries, tombstones included.
func (l *Layer) Len() int {
	return l.entries.Size()
}

func (l *Layer) put(key string, e Entry) {
	// linkedhashmap keeps the original position on overwrite
	l.entries.Put(key, e)
}

func (l *Layer) remove(key string) {
	l.entries.Remove(key)
}
