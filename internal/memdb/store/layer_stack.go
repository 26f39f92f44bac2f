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

// LayerStack is the ordered sequence of overlay layers backing the engine.
// Layer 0 is the base layer and is never removed; every other layer is an
// open transaction. The zero value is not usable, use NewLayerStack.
//
// LayerStack is not safe for concurrent use; Engine serializes access.
type LayerStack struct {
	layers []*Layer
}

// NewLayerStack returns a stack holding a single empty base layer.
func NewLayerStack() *LayerStack {
	return &LayerStack{layers: []*Layer{newLayer()}}
}

// Depth returns the number of open transactions.
func (s *LayerStack) Depth() int {
	return len(s.layers) - 1
}

// Begin pushes a new empty layer.
func (s *LayerStack) Begin() {
	s.layers = append(s.layers, newLayer())
}

// Rollback discards the top layer. It reports false and leaves the stack
// untouched when no transaction is open.
func (s *LayerStack) Rollback() bool {
	if s.Depth() == 0 {
		return false
	}
	s.pop()
	return true
}

// Commit merges the top layer into the one beneath it and pops it. It
// reports false and leaves the stack untouched when no transaction is open.
//
// Values overwrite the parent entry. A tombstone removes the key when the
// parent is the base layer; otherwise it replaces the parent entry so it keeps
// shadowing the layers further down until a later commit reaches the base.
func (s *LayerStack) Commit() bool {
	if s.Depth() == 0 {
		return false
	}
	top := s.layers[len(s.layers)-1]
	parentIdx := len(s.layers) - 2
	parent := s.layers[parentIdx]

	for _, key := range top.Keys() {
		e, _ := top.Get(key)
		switch {
		case !e.Tombstone:
			parent.put(key, e)
		case parentIdx == 0:
			parent.remove(key)
		default:
			parent.put(key, e)
		}
	}
	s.pop()
	return true
}

// Write sets key to value in the top layer.
func (s *LayerStack) Write(key, value string) {
	s.Top().put(key, ValueEntry(value))
}

// Delete places a tombstone for key in the top layer.
func (s *LayerStack) Delete(key string) {
	s.Top().put(key, TombstoneEntry())
}

// Resolve returns the effective value of key. Layers are consulted top to
// bottom and the first one holding the key decides; a tombstone resolves to
// absent.
func (s *LayerStack) Resolve(key string) (string, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if e, ok := s.layers[i].Get(key); ok {
			if e.Tombstone {
				return "", false
			}
			return e.Value, true
		}
	}
	return "", false
}

// Layers returns a read-only view of the layers ordered bottom to top.
// Layer has no exported mutators, and the returned slice is a copy.
func (s *LayerStack) Layers() []*Layer {
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Top returns the current top layer.
func (s *LayerStack) Top() *Layer {
	return s.layers[len(s.layers)-1]
}

func (s *LayerStack) pop() {
	last := len(s.layers) - 1
	s.layers[last] = nil
	s.layers = s.layers[:last]
}
