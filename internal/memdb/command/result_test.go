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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_Render(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		wantLine string
		wantShow bool
	}{
		{name: "none", result: None()},
		{name: "found value", result: Value("10", true), wantLine: "10", wantShow: true},
		{name: "missing value", result: Value("", false), wantLine: "NULL", wantShow: true},
		{name: "empty string value", result: Value("", true), wantLine: "", wantShow: true},
		{name: "count", result: Count(3), wantLine: "3", wantShow: true},
		{name: "keys", result: Keys([]string{"a", "b"}), wantLine: "a b", wantShow: true},
		{name: "no keys", result: Keys(nil), wantLine: "NULL", wantShow: true},
		{name: "ack ok", result: Ack(true)},
		{name: "ack failed", result: Ack(false), wantLine: "NO TRANSACTION", wantShow: true},
		{name: "depth", result: Depth(4), wantLine: "Transaction depth: 4", wantShow: true},
		{name: "text", result: Text("hi there"), wantLine: "hi there", wantShow: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, show := tt.result.Render()
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantShow, show)
		})
	}
}
