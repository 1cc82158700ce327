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

// Package cli wires the create-measurements commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"xpug.it/1brc-measurements/internal/config"
	"xpug.it/1brc-measurements/internal/generator"
	"xpug.it/1brc-measurements/internal/logging"
)

// rootOptions is shared by the subcommands once PersistentPreRunE has
// resolved configuration and logging.
type rootOptions struct {
	lookupEnv func(string) (string, bool)
	cfg       config.Config
	logger    zerolog.Logger
}

// NewRootCmd creates the root command reading the process environment.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit environment
// lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	opts := &rootOptions{lookupEnv: lookupEnv}

	cmd := &cobra.Command{
		Use:           "create-measurements",
		Short:         "Generate and verify weather station measurement files",
		Long:          "create-measurements writes synthetic \"station;temperature\" files for the one billion row challenge.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().String("config", "", "YAML config file (overrides "+config.EnvConfig+")")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "", "log format: console or json")
	cmd.PersistentFlags().String("cpuprofile", "", "write cpu profile to `file`")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ArgumentError{Err: err}
	})
	cmd.AddCommand(newGenerateCmd(opts), newVerifyCmd(opts))

	return cmd
}

const rootCmdExample = `  # One billion rows into measurements.txt
  create-measurements generate 1_000_000_000

  # Reproducible file from a custom station list
  create-measurements generate 1_000_000 data/measurements-1m.txt --stations data/weather_stations.csv --seed 42

  # Check a generated file and print the aggregates
  create-measurements verify data/measurements-1m.txt --print`

// setup resolves config (defaults, file, env, flags) and installs the
// logger on the command context.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	if path == "" {
		path, _ = o.lookupEnv(config.EnvConfig)
	}

	cfg, err := config.Load(path, o.lookupEnv)
	if err != nil {
		return err
	}

	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format, _ = flags.GetString("log-format")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = logging.FormatConsole
	}
	if err := cfg.Validate(); err != nil {
		return &ArgumentError{Err: err}
	}

	o.cfg = cfg
	o.logger = logging.ComponentLogger(logging.New(cfg.Logging.ToLoggingConfig(cmd.ErrOrStderr())), "cli")
	cmd.SetContext(o.logger.WithContext(cmd.Context()))

	o.logger.Debug().Str("command", cmd.Name()).Str("config", path).Msg("command started")
	return nil
}

// ExitCode reports err for the command that failed and returns the process
// exit status. Argument errors print usage and exit cleanly.
func ExitCode(cmd *cobra.Command, err error) int {
	if err == nil {
		return 0
	}
	stderr := cmd.ErrOrStderr()

	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		fmt.Fprintf(cmd.OutOrStdout(), "Error: %v\n%s", argErr, cmd.UsageString())
		return 0
	}

	var writeErr *generator.WriteError
	if errors.As(err, &writeErr) {
		fmt.Fprintln(stderr, "Something went wrong. Printing error info and exiting...")
		printError(stderr, err)
		return 1
	}

	printError(stderr, err)
	return 1
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
