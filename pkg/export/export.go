//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package export writes documents to PDF.
package export

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/timburks/notopad/pkg/types"
)

// WrapWidth is the longest line, in characters, written without wrapping.
const WrapWidth = 80

// Margin is the page margin in points.
const Margin = 50

// Options control the page layout.
type Options struct {
	FontName string
	FontSize int
}

// Wrap splits text into lines of at most WrapWidth characters, breaking
// long lines between words. Runs of spaces in wrapped lines are collapsed.
// A word longer than WrapWidth gets a line of its own.
func Wrap(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if len([]rune(line)) <= WrapWidth {
			lines = append(lines, line)
			continue
		}
		current := ""
		for _, word := range strings.Fields(line) {
			if len([]rune(current+word)) < WrapWidth {
				current += word + " "
				continue
			}
			if current != "" {
				lines = append(lines, strings.TrimSpace(current))
			}
			current = word + " "
		}
		if current != "" {
			lines = append(lines, strings.TrimSpace(current))
		}
	}
	return lines
}

// PDF writes text to a Letter-sized PDF file, adding pages as needed.
func PDF(path string, text string, options Options) error {
	if options.FontName == "" {
		options.FontName = "Courier"
	}
	if options.FontSize <= 0 {
		options.FontSize = 12
	}
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(true, Margin)
	pdf.AddPage()
	pdf.SetFont(options.FontName, "", float64(options.FontSize))
	// core fonts use cp1252
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	lineHeight := float64(options.FontSize) * 1.2
	lines := Wrap(strings.ReplaceAll(text, "\t", "    "))
	for _, line := range lines {
		pdf.CellFormat(0, lineHeight, translate(line), "", 1, "L", false, 0, "")
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return &types.FileError{Op: "export", Path: path, Err: fmt.Errorf("write pdf: %w", err)}
	}
	slog.Info("exported pdf", "path", path, "lines", len(lines), "pages", pdf.PageCount())
	return nil
}
