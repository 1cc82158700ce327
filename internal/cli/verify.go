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
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"xpug.it/1brc-measurements/internal/report"
	"xpug.it/1brc-measurements/internal/stations"
	"xpug.it/1brc-measurements/internal/verify"
)

type verifyFlags struct {
	stations string
	print    bool
	workers  int
}

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	var flags verifyFlags

	cmd := &cobra.Command{
		Use:   "verify [measurements_file]",
		Short: "Check every row of a measurements file and aggregate per station",
		Long: `Memory-map a measurements file, check that every row is "name;-?d+.d"
and compute min/mean/max per station. With --stations, rows naming a station
missing from the reference file are rejected.`,
		Example: `  create-measurements verify measurements.txt --stations data/weather_stations.csv --print`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 1 {
				return argumentErrorf("expected at most one measurements file, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args, opts, flags)
		},
	}

	cmd.Flags().StringVar(&flags.stations, "stations", "", "reject stations missing from this reference file")
	cmd.Flags().BoolVar(&flags.print, "print", false, "print {name=min/mean/max, ...}")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "parallel chunks (default: number of CPUs)")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string, opts *rootOptions, flags verifyFlags) error {
	out := cmd.OutOrStdout()

	path := opts.cfg.Output
	if len(args) == 1 {
		path = args[0]
	}

	profile, _ := cmd.Flags().GetString("cpuprofile")
	stop, err := startCPUProfile(profile)
	if err != nil {
		return err
	}
	defer stop()

	vopts := verify.Options{Workers: flags.workers}
	if flags.stations != "" {
		table, err := stations.Load(flags.stations)
		if err != nil {
			return err
		}
		vopts.Stations = table
	}

	rep, err := verify.File(cmd.Context(), path, vopts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	opts.logger.Info().
		Str("path", path).
		Int64("rows", rep.Rows).
		Int("stations", len(rep.Stations)).
		Msg("measurements verified")

	p := message.NewPrinter(language.English)
	p.Fprintf(out, "%s: %d rows, %d stations, %s\n", path, rep.Rows, len(rep.Stations), report.FormatBytes(rep.Bytes))
	if flags.print {
		fmt.Fprintln(out, rep.Format())
	}
	return nil
}
