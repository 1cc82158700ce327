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
	"math"

	"xpug.it/1brc-measurements/internal/stations"
)

// worstCaseSuffix is the longest tail a record can have: the separator, a
// two digit negative temperature with one decimal, and the line break.
const worstCaseSuffix = ";-99.9\n"

// EstimateSize returns an upper bound, in bytes, for a file of rows records
// drawn from table. It holds as long as baselines stay within ±99.9, and
// saturates at math.MaxInt64.
func EstimateSize(table *stations.Table, rows int) int64 {
	if rows <= 0 {
		return 0
	}
	perRow := int64(table.LongestName() + len(worstCaseSuffix))
	if int64(rows) > math.MaxInt64/perRow {
		return math.MaxInt64
	}
	return int64(rows) * perRow
}
