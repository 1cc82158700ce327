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

package verify

import (
	"bytes"
	"fmt"
)

const maxQuotedLine = 120

// FormatError reports the first malformed row found in a measurements file.
type FormatError struct {
	Offset int64
	Line   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("offset %d %q: %s", e.Offset, e.Line, e.Reason)
}

func newFormatError(data []byte, lineStart int, offset int64, reason string) *FormatError {
	line := data[lineStart:]
	if nl := bytes.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}
	if len(line) > maxQuotedLine {
		line = line[:maxQuotedLine]
	}
	return &FormatError{
		Offset: offset + int64(lineStart),
		Line:   string(line),
		Reason: reason,
	}
}
