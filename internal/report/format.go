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

// Package report renders the progress bar and the human readable summary of
// a generation run.
package report

import (
	"fmt"
	"math"
	"time"
)

var byteUnits = []string{"bytes", "KiB", "MiB", "GiB"}

// FormatBytes renders n with one decimal in 1024-based units, e.g. "1.0 KiB".
func FormatBytes(n int64) string {
	num := float64(n)
	i := 0
	for num >= 1024 && i < len(byteUnits)-1 {
		num /= 1024
		i++
	}
	return fmt.Sprintf("%3.1f %s", num, byteUnits[i])
}

// FormatElapsed renders a duration given in seconds:
// "45.200 seconds", "2 minutes 5 seconds" or "1 hours 1 minutes 5 seconds".
func FormatElapsed(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.3f seconds", seconds)
	case seconds < 3600:
		minutes, secs := divmod(seconds, 60)
		return fmt.Sprintf("%d minutes %d seconds", int(minutes), int(secs))
	default:
		hours, rest := divmod(seconds, 3600)
		minutes, secs := divmod(rest, 60)
		if int(minutes) == 0 {
			return fmt.Sprintf("%d hours %d seconds", int(hours), int(secs))
		}
		return fmt.Sprintf("%d hours %d minutes %d seconds", int(hours), int(minutes), int(secs))
	}
}

// FormatDuration is FormatElapsed for a time.Duration.
func FormatDuration(d time.Duration) string {
	return FormatElapsed(d.Seconds())
}

func divmod(x, y float64) (float64, float64) {
	q := math.Floor(x / y)
	return q, x - q*y
}
