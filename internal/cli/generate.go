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
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"xpug.it/1brc-measurements/internal/config"
	"xpug.it/1brc-measurements/internal/generator"
	"xpug.it/1brc-measurements/internal/report"
	"xpug.it/1brc-measurements/internal/stations"
)

type generateFlags struct {
	stations   string
	seed       string
	noProgress bool
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate <number_of_records> [output_file]",
		Short: "Generate a measurements file",
		Long: `Generate <number_of_records> "station;temperature" rows into output_file
(default ` + config.DefaultOutput + `).

You can use underscore notation for large number of records.
For example:  1_000_000_000 for one billion.

Rows are written in batches of up to 10,000; rows beyond the last full batch
are not generated.

The estimated max file size counts every row as the longest station name
followed by ";-99.9" and the newline.`,
		Example: `  create-measurements generate 1_000_000
  create-measurements generate 1_000_000_000 measurements-1b.txt --seed 7`,
		Args: generateArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts, flags)
		},
	}

	cmd.Flags().StringVar(&flags.stations, "stations", "",
		"weather stations reference file (default "+config.DefaultStations+")")
	cmd.Flags().StringVar(&flags.seed, "seed", "", "seed for the random source; unseeded runs use the clock")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "do not draw the progress bar")

	return cmd
}

func generateArgs(_ *cobra.Command, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return argumentErrorf("expected <number_of_records> [output_file], got %d arguments", len(args))
	}
	if _, err := ParseRowCount(args[0]); err != nil {
		return &ArgumentError{Err: err}
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string, opts *rootOptions, flags generateFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	logger := opts.logger

	rows, _ := ParseRowCount(args[0])
	cfg := opts.cfg
	if len(args) == 2 {
		cfg.Output = args[1]
	}
	if flags.stations != "" {
		cfg.Stations = flags.stations
	}
	if flags.noProgress {
		cfg.Progress = false
	}

	seed, err := resolveSeed(cfg, flags.seed)
	if err != nil {
		return err
	}

	profile, _ := cmd.Flags().GetString("cpuprofile")
	stop, err := startCPUProfile(profile)
	if err != nil {
		return err
	}
	defer stop()

	table, err := stations.Load(cfg.Stations)
	if err != nil {
		return err
	}
	logger.Info().
		Str("stations_file", cfg.Stations).
		Int("stations", table.Len()).
		Uint64("seed", seed).
		Msg("loaded weather stations")

	fmt.Fprintln(out, report.Estimate(generator.EstimateSize(table, rows)))

	g := generator.New(table, generator.NewRandom(seed))
	var bar *report.Bar
	if cfg.Progress {
		bar = report.NewBar(out)
		g.Progress = bar.Update
	}

	fmt.Fprintln(out, "Building test data...")
	res, err := g.WriteFile(ctx, cfg.Output, rows)
	if bar != nil {
		bar.Done()
	}
	if err != nil {
		return err
	}

	if res.Rows < rows {
		logger.Warn().
			Int("requested", rows).
			Int("written", res.Rows).
			Int("batch_size", res.BatchSize).
			Msg("rows beyond the last full batch were not generated")
	}

	summary, err := report.NewSummary(cfg.Output, res.Elapsed)
	if err != nil {
		return err
	}
	if err := summary.Write(out); err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(out, "Rows written: %d\n", res.Rows)
	fmt.Fprintln(out, "Test data build complete.")
	return nil
}

// resolveSeed prefers the --seed flag, then configuration, then the clock.
func resolveSeed(cfg config.Config, flagValue string) (uint64, error) {
	if flagValue != "" {
		seed, err := config.ParseSeed(flagValue)
		if err != nil {
			return 0, argumentErrorf("invalid --seed %q: %w", flagValue, err)
		}
		return seed, nil
	}
	if cfg.Seed != nil {
		return *cfg.Seed, nil
	}
	return uint64(time.Now().UnixNano()), nil
}
