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

package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// labelStyle highlights summary labels. The renderer inspects w, so plain
// text is produced when w has no colour support.
func labelStyle(w io.Writer) lipgloss.Style {
	return lipgloss.NewRenderer(w).NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
}

// Estimate renders the size estimate shown before generation starts.
func Estimate(size int64) string {
	return fmt.Sprintf("Estimated max file size is:  %s.\nTrue size is probably smaller.", FormatBytes(size))
}

// Summary is what gets reported after a successful run.
type Summary struct {
	Path    string
	Size    int64
	Elapsed time.Duration
}

// NewSummary stats path for the actual file size.
func NewSummary(path string, elapsed time.Duration) (Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Summary{}, fmt.Errorf("error reading output size: %w", err)
	}
	return Summary{Path: path, Size: info.Size(), Elapsed: elapsed}, nil
}

// Write prints the summary lines to w.
func (s Summary) Write(w io.Writer) error {
	style := labelStyle(w)
	_, err := fmt.Fprintf(w, "Test data successfully written to %s.\n%s %s\n%s %s\n",
		s.Path,
		style.Render("Actual file size:"), FormatBytes(s.Size),
		style.Render("Elapsed time:"), FormatDuration(s.Elapsed),
	)
	return err
}
