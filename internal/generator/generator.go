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

// Package generator writes synthetic "station;temperature" measurement files.
package generator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"xpug.it/1brc-measurements/internal/stations"
)

const (
	// MaxBatchSize caps both the rows written per batch and the size of the
	// working subset of stations.
	MaxBatchSize = 10_000

	// StdDev is the spread of sampled temperatures around a baseline.
	StdDev = 10.0
)

// ProgressFunc receives the approximate completion percentage.
type ProgressFunc func(percent float64)

// FileCreator opens the output file.
type FileCreator interface {
	Create(name string) (io.WriteCloser, error)
}

// OSFileCreator creates files on the local filesystem.
type OSFileCreator struct{}

// Create creates or truncates name.
func (OSFileCreator) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// Result describes a finished run.
type Result struct {
	Rows      int
	Batches   int
	BatchSize int
	Bytes     int64
	Elapsed   time.Duration
}

// Generator samples measurements for the stations of a table.
type Generator struct {
	Stations *stations.Table
	Random   Random
	Progress ProgressFunc
	Files    FileCreator

	now func() time.Time
}

// New returns a Generator writing through OSFileCreator.
func New(table *stations.Table, random Random) *Generator {
	return &Generator{
		Stations: table,
		Random:   random,
		Files:    OSFileCreator{},
	}
}

// BatchSize returns the batch size used for a run of rows records.
func BatchSize(rows int) int {
	return min(rows, MaxBatchSize)
}

// ExpectedRows returns how many records a run of rows actually writes.
// Rows beyond the last full batch are not generated.
func ExpectedRows(rows int) int {
	if rows <= 0 {
		return 0
	}
	b := BatchSize(rows)
	return rows / b * b
}

// WriteFile creates path and runs the generator into it.
func (g *Generator) WriteFile(ctx context.Context, path string, rows int) (Result, error) {
	files := g.Files
	if files == nil {
		files = OSFileCreator{}
	}

	f, err := files.Create(path)
	if err != nil {
		return Result{}, &WriteError{Path: path, Err: err}
	}

	res, err := g.Run(ctx, f, rows)
	var werr *WriteError
	if errors.As(err, &werr) && werr.Path == "" {
		werr.Path = path
	}
	if cerr := f.Close(); cerr != nil && err == nil {
		err = &WriteError{Path: path, Err: cerr}
	}
	return res, err
}

// Run writes floor(rows/B)*B records to w, where B is BatchSize(rows).
// A working subset of B station names is drawn once; every batch then
// resamples B names from that subset with replacement.
func (g *Generator) Run(ctx context.Context, w io.Writer, rows int) (Result, error) {
	if rows <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrRowCount, rows)
	}

	now := g.now
	if now == nil {
		now = time.Now
	}
	start := now()

	batchSize := BatchSize(rows)
	batches := rows / batchSize
	step := max(1, batches/100)
	logger := zerolog.Ctx(ctx)

	names := g.Stations.Names()
	subset := make([]string, batchSize)
	baselines := make([]float64, batchSize)
	for i := range subset {
		subset[i] = names[g.Random.Intn(len(names))]
		baselines[i], _ = g.Stations.Baseline(subset[i])
	}

	logger.Debug().
		Int("rows", rows).
		Int("batch_size", batchSize).
		Int("batches", batches).
		Int("stations", len(names)).
		Msg("generating measurements")

	writer := bufio.NewWriter(w)
	buf := make([]byte, 0, batchSize*(g.Stations.LongestName()+len(worstCaseSuffix)))
	var written int64

	for s := range batches {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		buf = buf[:0]
		for range batchSize {
			j := g.Random.Intn(batchSize)
			buf = append(buf, subset[j]...)
			buf = append(buf, ';')
			buf = strconv.AppendFloat(buf, g.Random.Normal(baselines[j], StdDev), 'f', 1, 64)
			buf = append(buf, '\n')
		}

		n, err := writer.Write(buf)
		written += int64(n)
		if err != nil {
			return Result{}, &WriteError{Err: err}
		}

		if s%step == 0 {
			g.report(float64(s*batchSize+1) / float64(rows) * 100)
		}
	}

	if err := writer.Flush(); err != nil {
		return Result{}, &WriteError{Err: err}
	}
	g.report(100)

	res := Result{
		Rows:      batches * batchSize,
		Batches:   batches,
		BatchSize: batchSize,
		Bytes:     written,
		Elapsed:   now().Sub(start),
	}
	logger.Debug().
		Int("rows", res.Rows).
		Int64("bytes", res.Bytes).
		Dur("elapsed", res.Elapsed).
		Msg("measurements generated")
	return res, nil
}

func (g *Generator) report(percent float64) {
	if g.Progress != nil {
		g.Progress(percent)
	}
}
