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

package generator

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Random is the source of randomness for a run: uniform picks of station
// indexes and normally distributed temperatures.
type Random interface {
	Intn(n int) int
	Normal(mean, stddev float64) float64
}

type seededRandom struct {
	src rand.Source
	rng *rand.Rand
}

// NewRandom returns a Random driven by a PCG source seeded with seed. Two
// values built from the same seed produce the same sequence.
func NewRandom(seed uint64) Random {
	src := rand.NewSource(seed)
	return &seededRandom{src: src, rng: rand.New(src)}
}

func (r *seededRandom) Intn(n int) int {
	return r.rng.Intn(n)
}

func (r *seededRandom) Normal(mean, stddev float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: stddev, Src: r.src}.Rand()
}
