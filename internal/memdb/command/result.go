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
	"strconv"
	"strings"
)

// Kind tags the variant held by a Result.
type Kind int

// Result kinds.
const (
	KindNone  Kind = iota // no output
	KindValue             // value of a key, or NULL
	KindCount             // number of matching keys
	KindKeys              // matching keys, or NULL
	KindAck               // transaction outcome, NO TRANSACTION on failure
	KindDepth             // transaction depth
	KindText              // preformatted text
)

// Result is the outcome of a command. Only the fields belonging to Kind are meaningful.
type Result struct {
	Kind  Kind
	Value string
	Found bool
	Count int
	Keys  []string
	OK    bool
	Depth int
	Text  string
}

// None is the result of a command with nothing to print.
func None() Result { return Result{Kind: KindNone} }

// Value is the result of a lookup; found is false for a missing key.
func Value(v string, found bool) Result { return Result{Kind: KindValue, Value: v, Found: found} }

// Count is the result of COUNTS.
func Count(n int) Result { return Result{Kind: KindCount, Count: n} }

// Keys is the result of FIND.
func Keys(keys []string) Result { return Result{Kind: KindKeys, Keys: keys} }

// Ack reports whether ROLLBACK or COMMIT found a transaction.
func Ack(ok bool) Result { return Result{Kind: KindAck, OK: ok} }

// Depth is the result of STATUS.
func Depth(n int) Result { return Result{Kind: KindDepth, Depth: n} }

// Text is free-form output, always printed.
func Text(s string) Result { return Result{Kind: KindText, Text: s} }

// Render returns the line a front end prints for r, and whether anything
// should be printed at all.
func (r Result) Render() (string, bool) {
	switch r.Kind {
	case KindValue:
		if !r.Found {
			return "NULL", true
		}
		return r.Value, true
	case KindCount:
		return strconv.Itoa(r.Count), true
	case KindKeys:
		if len(r.Keys) == 0 {
			return "NULL", true
		}
		return strings.Join(r.Keys, " "), true
	case KindAck:
		if !r.OK {
			return "NO TRANSACTION", true
		}
		return "", false
	case KindDepth:
		return "Transaction depth: " + strconv.Itoa(r.Depth), true
	case KindText:
		return r.Text, true
	default:
		return "", false
	}
}
