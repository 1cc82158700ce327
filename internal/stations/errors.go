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

package stations

import (
	"errors"
	"fmt"
)

var (
	// ErrSeparator means a line did not hold exactly one ';'.
	ErrSeparator = errors.New("wrong number of separators")

	// ErrEmptyName means a line had nothing before the ';'.
	ErrEmptyName = errors.New("station name is empty")

	// ErrTemperature means the baseline was not a number.
	ErrTemperature = errors.New("baseline temperature is not a number")
)

// ParseError reports a malformed line of the reference file.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
