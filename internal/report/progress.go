//
//   Copyright 2023 The original authors
//
//   Licensed under the Apache License, Version 2.0 (the "License");
//   you may not use this file except in compliance with the License.
//   You may obtain a copy of the License at
//
//       http://www.apache.org/licenses/LICENSE-2.0
//
//   Unless required by applicable law or agreed to in writing, software
//   distributed under the License is distributed on an "AS IS" BASIS,
//   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//   See the License for the specific language governing permissions and
//   limitations under the License.
//

package report

import (
	"fmt"
	"io"
	"strings"
)

// BarWidth is the number of cells in the progress bar.
const BarWidth = 50

// Bar draws "[=====     ] 10%" and redraws it in place with a carriage return.
type Bar struct {
	w     io.Writer
	width int
	last  string
}

// NewBar returns a BarWidth-cell bar writing to w.
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w, width: BarWidth}
}

// Render returns the bar for percent without the leading carriage return.
func (b *Bar) Render(percent float64) string {
	percent = min(max(percent, 0), 100)
	filled := int(percent*float64(b.width)) / 100
	return fmt.Sprintf("[%-*s] %d%%", b.width, strings.Repeat("=", filled), int(percent))
}

// Update redraws the bar. Identical frames are skipped.
func (b *Bar) Update(percent float64) {
	frame := b.Render(percent)
	if frame == b.last {
		return
	}
	b.last = frame
	fmt.Fprint(b.w, "\r"+frame)
}

// Done moves the cursor past the bar.
func (b *Bar) Done() {
	fmt.Fprintln(b.w)
}
