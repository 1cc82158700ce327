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

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := ComponentLogger(New(Config{Level: "debug", Format: FormatJSON, Output: &buf}), "generator")

	logger.Debug().Int("rows", 10).Msg("generating measurements")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "generator", entry["component"])
	assert.Equal(t, "generating measurements", entry["message"])
	assert.InDelta(t, 10, entry["rows"], 0)
}

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := New(Config{Level: tt.level, Format: FormatJSON, Output: &bytes.Buffer{}})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNew_ConsoleWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: FormatConsole, Output: &buf})

	logger.Info().Str("path", "measurements.txt").Msg("done")

	out := buf.String()
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "path=measurements.txt")
	assert.NotContains(t, out, "\x1b[", "no colour codes outside a terminal")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
