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

package cli

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ArgumentError reports a missing or invalid command-line argument. It is
// answered with the usage text and a zero exit status.
type ArgumentError struct {
	Err error
}

func (e *ArgumentError) Error() string {
	return e.Err.Error()
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

func argumentErrorf(format string, a ...any) error {
	return &ArgumentError{Err: fmt.Errorf(format, a...)}
}

var errRowCount = errors.New("must be a positive integer, e.g. 1000 or 1_000_000_000")

// MaxRowCount keeps the size estimate of a run representable in bytes.
const MaxRowCount = math.MaxInt / 64

// ParseRowCount parses a positive decimal row count. Single underscores may
// group digits, as in 1_000_000.
func ParseRowCount(s string) (int, error) {
	if s == "" || strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") || strings.Contains(s, "__") {
		return 0, fmt.Errorf("row count %q %w", s, errRowCount)
	}

	digits := strings.ReplaceAll(s, "_", "")
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("row count %q %w", s, errRowCount)
		}
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("row count %q %w", s, errRowCount)
	}
	if n > MaxRowCount {
		return 0, fmt.Errorf("row count %q exceeds the maximum of %d", s, MaxRowCount)
	}
	return n, nil
}
