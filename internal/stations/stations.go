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

// Package stations loads the reference list of weather stations and their
// baseline temperatures.
package stations

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	separator     = ";"
	commentMarker = "#"
)

// ErrNoStations is returned when a reference file holds no station lines.
var ErrNoStations = errors.New("no weather stations found")

// Table maps station names to baseline temperatures. Names keep the order
// in which they first appeared so seeded runs sample identically.
type Table struct {
	names     []string
	baselines map[string]float64
}

// Len returns the number of distinct stations.
func (t *Table) Len() int {
	return len(t.names)
}

// Names returns a copy of the station names in first-seen order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Baseline returns the baseline temperature of the named station.
func (t *Table) Baseline(name string) (float64, bool) {
	v, ok := t.baselines[name]
	return v, ok
}

// Contains reports whether name is a known station.
func (t *Table) Contains(name string) bool {
	_, ok := t.baselines[name]
	return ok
}

// LongestName returns the length in bytes of the longest station name.
func (t *Table) LongestName() int {
	longest := 0
	for _, name := range t.names {
		longest = max(longest, len(name))
	}
	return longest
}

func (t *Table) put(name string, baseline float64) {
	if _, ok := t.baselines[name]; !ok {
		t.names = append(t.names, name)
	}
	t.baselines[name] = baseline
}

// Load reads the reference file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening stations file: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse reads "name;baseline" lines from r. Lines containing '#' are
// comments. A duplicate name overwrites the earlier baseline.
func Parse(r io.Reader) (*Table, error) {
	t := &Table{baselines: make(map[string]float64)}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.Contains(line, commentMarker) {
			continue
		}

		name, baseline, err := parseLine(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		t.put(name, baseline)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading stations: %w", err)
	}

	if t.Len() == 0 {
		return nil, ErrNoStations
	}
	return t, nil
}

func parseLine(line string) (string, float64, error) {
	parts := strings.Split(line, separator)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("%w: want 1, got %d", ErrSeparator, len(parts)-1)
	}

	if parts[0] == "" {
		return "", 0, ErrEmptyName
	}

	baseline, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrTemperature, parts[1])
	}
	return parts[0], baseline, nil
}
