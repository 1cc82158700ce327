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
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xpug.it/1brc-measurements/internal/generator"
	"xpug.it/1brc-measurements/internal/stations"
	"xpug.it/1brc-measurements/internal/verify"
)

func noEnv(string) (string, bool) { return "", false }

// execute runs the root command with args and returns the failing command,
// stdout, stderr and the error.
func execute(t *testing.T, env func(string) (string, bool), args ...string) (*cobra.Command, string, string, error) {
	t.Helper()
	root := NewRootCmdWithEnv("test", env)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(context.Background())
	return cmd, stdout.String(), stderr.String(), err
}

func writeStations(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weather_stations.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
	}
	require.NoError(t, scanner.Err())
	return n
}

func TestGenerate(t *testing.T) {
	stationsPath := writeStations(t, "A;10.0\nB;20.0\n")
	out := filepath.Join(t.TempDir(), "measurements.txt")

	_, stdout, _, err := execute(t, noEnv, "generate", "20_000", out, "--stations", stationsPath, "--seed", "42")
	require.NoError(t, err)

	assert.Equal(t, 20_000, countLines(t, out))
	assert.Contains(t, stdout, "Estimated max file size is:  156.2 KiB.")
	assert.Contains(t, stdout, "Building test data...")
	assert.Contains(t, stdout, "] 100%")
	assert.Contains(t, stdout, "Test data successfully written to "+out+".")
	assert.Contains(t, stdout, "Rows written: 20,000")
	assert.True(t, strings.HasSuffix(stdout, "Test data build complete.\n"))
}

func TestGenerate_HelpExplainsEstimate(t *testing.T) {
	_, stdout, _, err := execute(t, noEnv, "generate", "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, `followed by ";-99.9" and the newline`)
	assert.Contains(t, stdout, "rows beyond the last full batch")
}

func TestGenerate_SeedIsReproducible(t *testing.T) {
	stationsPath := writeStations(t, "A;10.0\nB;20.0\nC;-5.5\n")
	dir := t.TempDir()

	for _, name := range []string{"first.txt", "second.txt"} {
		_, _, _, err := execute(t, noEnv, "generate", "1000", filepath.Join(dir, name),
			"--stations", stationsPath, "--seed", "7", "--no-progress")
		require.NoError(t, err)
	}

	first, err := os.ReadFile(filepath.Join(dir, "first.txt"))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "second.txt"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerate_ConfigFromEnv(t *testing.T) {
	stationsPath := writeStations(t, "A;10.0\n")
	out := filepath.Join(t.TempDir(), "from-env.txt")
	env := func(key string) (string, bool) {
		switch key {
		case "MEASUREMENTS_STATIONS":
			return stationsPath, true
		case "MEASUREMENTS_OUTPUT":
			return out, true
		case "MEASUREMENTS_PROGRESS":
			return "false", true
		}
		return "", false
	}

	_, stdout, _, err := execute(t, env, "generate", "15")
	require.NoError(t, err)

	assert.Equal(t, 15, countLines(t, out))
	assert.NotContains(t, stdout, "%")
}

func TestGenerate_ConfigFile(t *testing.T) {
	stationsPath := writeStations(t, "A;10.0\nB;20.0\n")
	dir := t.TempDir()
	out := filepath.Join(dir, "measurements.txt")
	cfgPath := filepath.Join(dir, "measurements.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"stations: "+stationsPath+"\noutput: "+out+"\nseed: 3\nprogress: false\nlogging:\n  format: json\n"), 0o600))

	_, _, stderr, err := execute(t, noEnv, "generate", "250", "--config", cfgPath)
	require.NoError(t, err)

	assert.Equal(t, 250, countLines(t, out))
	assert.Contains(t, stderr, `"message":"loaded weather stations"`)
	assert.Contains(t, stderr, `"seed":3`)
}

func TestGenerate_TruncatesRemainder(t *testing.T) {
	stationsPath := writeStations(t, "A;10.0\nB;20.0\n")
	out := filepath.Join(t.TempDir(), "measurements.txt")

	_, _, stderr, err := execute(t, noEnv, "generate", "25000", out,
		"--stations", stationsPath, "--no-progress", "--seed", "1")
	require.NoError(t, err)

	assert.Equal(t, 20_000, countLines(t, out))
	assert.Contains(t, stderr, "rows beyond the last full batch were not generated")
}

func TestGenerate_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: []string{"generate"}},
		{name: "too many arguments", args: []string{"generate", "10", "out.txt", "extra"}},
		{name: "not a number", args: []string{"generate", "not-an-int"}},
		{name: "zero", args: []string{"generate", "0"}},
		{name: "negative", args: []string{"generate", "-100"}},
		{name: "double underscore", args: []string{"generate", "1__000"}},
		{name: "too many rows", args: []string{"generate", "2_000_000_000_000_000_000"}},
		{name: "unknown flag", args: []string{"generate", "10", "--bogus"}},
		{name: "bad seed", args: []string{"generate", "10", "--seed", "x", "--stations", "unused.csv"}},
		{name: "bad log format", args: []string{"generate", "10", "--log-format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, stdout, _, err := execute(t, noEnv, tt.args...)

			var argErr *ArgumentError
			require.ErrorAs(t, err, &argErr)

			cmd.SetOut(&bytes.Buffer{})
			assert.Equal(t, 0, ExitCode(cmd, err))
			assert.Empty(t, stdout)
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Run("argument error prints usage", func(t *testing.T) {
		cmd := newGenerateCmd(&rootOptions{})
		var out bytes.Buffer
		cmd.SetOut(&out)

		code := ExitCode(cmd, &ArgumentError{Err: errors.New("missing rows")})
		assert.Equal(t, 0, code)
		assert.Contains(t, out.String(), "Error: missing rows")
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("write error", func(t *testing.T) {
		cmd := newGenerateCmd(&rootOptions{})
		var errOut bytes.Buffer
		cmd.SetErr(&errOut)

		code := ExitCode(cmd, &generator.WriteError{Path: "m.txt", Err: errors.New("disk full")})
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut.String(), "Something went wrong. Printing error info and exiting...")
		assert.Contains(t, errOut.String(), "disk full")
	})

	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, 0, ExitCode(newGenerateCmd(&rootOptions{}), nil))
	})
}

func TestGenerate_ParseError(t *testing.T) {
	stationsPath := writeStations(t, "A;10.0\nB;warm\n")

	cmd, _, _, err := execute(t, noEnv, "generate", "10", filepath.Join(t.TempDir(), "m.txt"), "--stations", stationsPath)

	var perr *stations.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)

	cmd.SetErr(&bytes.Buffer{})
	assert.Equal(t, 1, ExitCode(cmd, err))
}

func TestGenerate_WriteError(t *testing.T) {
	stationsPath := writeStations(t, "A;10.0\n")
	out := filepath.Join(t.TempDir(), "missing-dir", "m.txt")

	_, _, _, err := execute(t, noEnv, "generate", "10", out, "--stations", stationsPath, "--no-progress")

	var werr *generator.WriteError
	require.ErrorAs(t, err, &werr)
}

func TestGenerate_CPUProfile(t *testing.T) {
	stationsPath := writeStations(t, "A;10.0\n")
	dir := t.TempDir()
	profile := filepath.Join(dir, "cpu.pprof")

	_, _, _, err := execute(t, noEnv, "generate", "100", filepath.Join(dir, "m.txt"),
		"--stations", stationsPath, "--no-progress", "--cpuprofile", profile)
	require.NoError(t, err)
	assert.FileExists(t, profile)
}

func TestVerify(t *testing.T) {
	stationsPath := writeStations(t, "A;10.0\nB;20.0\n")
	out := filepath.Join(t.TempDir(), "measurements.txt")

	_, _, _, err := execute(t, noEnv, "generate", "20000", out, "--stations", stationsPath, "--no-progress", "--seed", "9")
	require.NoError(t, err)

	_, stdout, _, err := execute(t, noEnv, "verify", out, "--stations", stationsPath, "--print")
	require.NoError(t, err)

	assert.Contains(t, stdout, out+": 20,000 rows, 2 stations")
	assert.Contains(t, stdout, "{A=")
	assert.Contains(t, stdout, ", B=")
}

func TestVerify_UnknownStation(t *testing.T) {
	stationsPath := writeStations(t, "A;10.0\n")
	out := filepath.Join(t.TempDir(), "measurements.txt")
	require.NoError(t, os.WriteFile(out, []byte("A;1.0\nZ;2.0\n"), 0o600))

	_, _, _, err := execute(t, noEnv, "verify", out, "--stations", stationsPath)

	var ferr *verify.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, int64(6), ferr.Offset)
}

func TestVerify_TooManyArguments(t *testing.T) {
	_, _, _, err := execute(t, noEnv, "verify", "a.txt", "b.txt")

	var argErr *ArgumentError
	assert.ErrorAs(t, err, &argErr)
}

func TestParseRowCount(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "100", want: 100},
		{input: "1_000_000", want: 1_000_000},
		{input: "1_000_000_000", want: 1_000_000_000},
		{input: "10_0", want: 100},
		{input: "", wantErr: true},
		{input: "0", wantErr: true},
		{input: "-100", wantErr: true},
		{input: "+100", wantErr: true},
		{input: "_100", wantErr: true},
		{input: "100_", wantErr: true},
		{input: "1__0", wantErr: true},
		{input: "1e6", wantErr: true},
		{input: "0x10", wantErr: true},
		{input: "99999999999999999999999", wantErr: true},
		{input: "144_115_188_075_855_871", want: MaxRowCount},
		{input: "144_115_188_075_855_872", wantErr: true},
		{input: "2_000_000_000_000_000_000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRowCount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
