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

// Package verify checks a generated measurements file row by row and
// aggregates min/mean/max per station.
package verify

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/alphadose/haxmap"
	"github.com/dolthub/swiss"
	mmap "github.com/edsrzf/mmap-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"xpug.it/1brc-measurements/internal/stations"
)

// Options tune a verification run.
type Options struct {
	// Stations, when set, rejects rows naming a station it does not contain.
	Stations *stations.Table
	// Workers defaults to runtime.NumCPU().
	Workers int
}

// StationStats is the aggregate of one station, in degrees.
type StationStats struct {
	Name  string
	Min   float64
	Mean  float64
	Max   float64
	Count int64
}

// Report is the outcome of a successful verification.
type Report struct {
	Rows     int64
	Bytes    int64
	Stations []StationStats
}

// Format renders the report as "{name=min/mean/max, ...}".
func (r *Report) Format() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, s := range r.Stations {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%.1f/%.1f/%.1f", s.Name, s.Min, s.Mean, s.Max)
	}
	sb.WriteString("}")
	return sb.String()
}

type aggregate struct {
	mu sync.Mutex
	cityData
}

// File memory-maps path and verifies it.
func File(ctx context.Context, path string, opts Options) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening measurements: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("error reading measurements size: %w", err)
	}
	if fi.Size() == 0 {
		return &Report{}, nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("error mapping measurements: %w", err)
	}
	defer data.Unmap()

	return Bytes(ctx, data, opts)
}

// Bytes verifies an in-memory measurements file. Chunks split on line
// boundaries are parsed concurrently.
func Bytes(ctx context.Context, data []byte, opts Options) (*Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	chunks := chunkBounds(data, workers)
	zerolog.Ctx(ctx).Debug().
		Int("bytes", len(data)).
		Int("chunks", len(chunks)).
		Msg("verifying measurements")

	results := haxmap.New[string, *aggregate]()
	rows := make([]int64, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	start := 0
	for i, end := range chunks {
		chunk, offset := data[start:end], int64(start)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := parseChunk(chunk, offset, opts.Stations)
			if err != nil {
				return err
			}
			rows[i] = res.rows
			mergeInto(results, res.cities)
			return nil
		})
		start = end
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Bytes: int64(len(data))}
	for _, n := range rows {
		report.Rows += n
	}

	report.Stations = make([]StationStats, 0, results.Len())
	results.ForEach(func(name string, agg *aggregate) bool {
		report.Stations = append(report.Stations, StationStats{
			Name:  name,
			Min:   float64(agg.min) / 10.0,
			Mean:  roundJava(float64(agg.total)/float64(agg.count)) / 10.0,
			Max:   float64(agg.max) / 10.0,
			Count: agg.count,
		})
		return true
	})
	slices.SortFunc(report.Stations, func(a, b StationStats) int {
		return strings.Compare(a.Name, b.Name)
	})
	return report, nil
}

func mergeInto(results *haxmap.Map[string, *aggregate], cities *swiss.Map[string, *cityData]) {
	cities.Iter(func(name string, d *cityData) bool {
		agg, _ := results.GetOrCompute(name, func() *aggregate {
			return &aggregate{cityData: cityData{min: d.min, max: d.max}}
		})
		agg.mu.Lock()
		agg.merge(*d)
		agg.mu.Unlock()
		return false
	})
}

// roundJava rounds half up, matching the reference results of the challenge.
func roundJava(x float64) float64 {
	return math.Floor(x + 0.5)
}
