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

	"github.com/dolthub/swiss"

	"xpug.it/1brc-measurements/internal/stations"
)

// maxIntegerDigits bounds the integer part of a temperature.
const maxIntegerDigits = 6

type state struct {
	name string
}

var (
	parsingStationName = state{"parsingStationName"}
	skippingSemicolon  = state{"skippingSemicolon"}
	parsingSign        = state{"parsingSign"}
	parsingInteger     = state{"parsingInteger"}
	parsingFraction    = state{"parsingFraction"}
	expectingNewline   = state{"expectingNewline"}
)

// cityData holds temperatures in tenths of a degree.
type cityData struct {
	min, total, max int64
	count           int64
}

func (c *cityData) add(tempTimesTen int64) {
	c.min = min(c.min, tempTimesTen)
	c.max = max(c.max, tempTimesTen)
	c.total += tempTimesTen
	c.count++
}

func (c *cityData) merge(o cityData) {
	c.min = min(c.min, o.min)
	c.max = max(c.max, o.max)
	c.total += o.total
	c.count += o.count
}

type chunkResult struct {
	rows   int64
	cities *swiss.Map[string, *cityData]
}

// parseChunk validates and aggregates newline-terminated rows of
// "name;-?d+.d". offset is the position of data within the file and is only
// used for error reporting.
func parseChunk(data []byte, offset int64, known *stations.Table) (chunkResult, error) {
	res := chunkResult{cities: swiss.NewMap[string, *cityData](1024)}

	st := parsingStationName
	var lineStart, nameEnd, digits int
	var temp, sign int64

	fail := func(reason string) error {
		return newFormatError(data, lineStart, offset, reason)
	}

	for i, c := range data {
		switch st {
		case parsingStationName:
			if c == ';' {
				if i == lineStart {
					return res, fail("empty station name")
				}
				nameEnd = i
				st = skippingSemicolon
			} else if c == '\n' {
				return res, fail("missing ';' separator")
			}
		case skippingSemicolon:
			if c == '-' {
				sign = -1
				temp = 0
				digits = 0
				st = parsingSign
			} else if isDigit(c) {
				sign = 1
				temp = int64(c - '0')
				digits = 1
				st = parsingInteger
			} else {
				return res, fail("expected a temperature after ';'")
			}
		case parsingSign:
			if !isDigit(c) {
				return res, fail("expected a digit after '-'")
			}
			temp = int64(c - '0')
			digits = 1
			st = parsingInteger
		case parsingInteger:
			if isDigit(c) {
				digits++
				if digits > maxIntegerDigits {
					return res, fail("temperature out of range")
				}
				temp = temp*10 + int64(c-'0')
			} else if c == '.' {
				st = parsingFraction
			} else {
				return res, fail("malformed temperature")
			}
		case parsingFraction:
			if !isDigit(c) {
				return res, fail("expected exactly one decimal digit")
			}
			temp = temp*10 + int64(c-'0')
			st = expectingNewline
		case expectingNewline:
			if c != '\n' {
				return res, fail("expected end of line after one decimal digit")
			}
			name := data[lineStart:nameEnd]
			if known != nil && !known.Contains(string(name)) {
				return res, fail("unknown station")
			}
			accumulate(res.cities, name, temp*sign)
			res.rows++
			lineStart = i + 1
			st = parsingStationName
		}
	}

	if st != parsingStationName || lineStart != len(data) {
		return res, fail("last line is not terminated")
	}
	return res, nil
}

func accumulate(cities *swiss.Map[string, *cityData], name []byte, tempTimesTen int64) {
	if previous, ok := cities.Get(string(name)); ok {
		previous.add(tempTimesTen)
		return
	}
	cities.Put(string(name), &cityData{tempTimesTen, tempTimesTen, tempTimesTen, 1})
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// chunkBounds splits data into about n pieces ending on a newline and
// returns the end offset of each piece.
func chunkBounds(data []byte, n int) []int {
	chunkSize := len(data) / max(n, 1)
	if chunkSize == 0 {
		chunkSize = len(data)
	}

	chunks := make([]int, 0, n)
	offset := 0
	for offset < len(data) {
		offset += chunkSize
		if offset >= len(data) {
			chunks = append(chunks, len(data))
			break
		}

		nlPos := bytes.IndexByte(data[offset:], '\n')
		if nlPos == -1 {
			chunks = append(chunks, len(data))
			break
		}
		offset += nlPos + 1
		chunks = append(chunks, offset)
	}
	return chunks
}
