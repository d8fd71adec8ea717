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

package editor

import (
	"log/slog"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/timburks/notopad/pkg/types"
)

// The Highlighter colors buffers with a lexer chosen by file name.
type Highlighter struct {
	Enabled bool
	style   *chroma.Style
}

func NewHighlighter() *Highlighter {
	return &Highlighter{Enabled: true, style: styles.Fallback}
}

// SetStyle selects a chroma style by name. Unknown names get the fallback style.
func (h *Highlighter) SetStyle(name string) {
	h.style = styles.Get(name)
}

func (h *Highlighter) Highlight(b *Buffer) {
	for _, r := range b.rows {
		clear(r.Colors)
	}
	if !h.Enabled || b.fileName == "" {
		return
	}
	lexer := lexers.Match(b.fileName)
	if lexer == nil {
		return
	}
	lexer = chroma.Coalesce(lexer)
	iterator, err := lexer.Tokenise(nil, b.Text())
	if err != nil {
		slog.Debug("highlighting failed", "file", b.fileName, "err", err)
		return
	}
	row, col := 0, 0
	for _, token := range iterator.Tokens() {
		color := colorForEntry(h.style.Get(token.Type))
		for _, c := range token.Value {
			if row >= len(b.rows) {
				return
			}
			if c == '\n' {
				row++
				col = 0
				continue
			}
			colors := b.rows[row].Colors
			if col < len(colors) {
				colors[col] = color
			}
			col++
		}
	}
}

// colorForEntry maps a style entry to the nearest color in the 6x6x6
// cube of the 256-color palette.
func colorForEntry(entry chroma.StyleEntry) types.Color {
	if !entry.Colour.IsSet() {
		return types.ColorDefault
	}
	r := (int(entry.Colour.Red())*5 + 127) / 255
	g := (int(entry.Colour.Green())*5 + 127) / 255
	b := (int(entry.Colour.Blue())*5 + 127) / 255
	return types.Color(16+36*r+6*g+b) + 1
}
