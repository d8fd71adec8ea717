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
	"github.com/mattn/go-runewidth"

	"github.com/timburks/notopad/pkg/types"
)

// A row of text in the editor
type Row struct {
	Text   []rune
	Colors []types.Color
}

// Tabs are kept in the text and only expanded for display.
func NewRow(text string) *Row {
	r := &Row{}
	r.setText([]rune(text))
	return r
}

func (r *Row) setText(text []rune) {
	r.Text = text
	r.Colors = make([]types.Color, len(r.Text))
}

func (r *Row) SetText(text []rune) {
	r.setText(text)
}

func (r *Row) GetText() []rune {
	return r.Text
}

func (r *Row) GetString() string {
	return string(r.Text)
}

func (r *Row) GetColors() []types.Color {
	return r.Colors
}

func (r *Row) Length() int {
	return len(r.Text)
}

func (r *Row) InsertChar(col int, c rune) {
	line := make([]rune, 0, len(r.Text)+1)
	if col <= len(r.Text) {
		line = append(line, r.Text[0:col]...)
	} else {
		line = append(line, r.Text...)
	}
	line = append(line, c)
	if col < len(r.Text) {
		line = append(line, r.Text[col:]...)
	}
	r.setText(line)
}

// replace character at col and return the replaced character
func (r *Row) ReplaceChar(col int, c rune) rune {
	if (col < 0) || (col >= len(r.Text)) {
		return rune(0)
	}
	result := r.Text[col]
	r.Text[col] = c
	return result
}

// delete character at col and return the deleted character
func (r *Row) DeleteChar(col int) rune {
	if len(r.Text) == 0 {
		return 0
	}
	if col > len(r.Text)-1 {
		col = len(r.Text) - 1
	}
	c := r.Text[col]
	line := make([]rune, 0, len(r.Text)-1)
	line = append(line, r.Text[0:col]...)
	line = append(line, r.Text[col+1:]...)
	r.setText(line)
	return c
}

// splits row at col, return a new row containing the remaining text.
func (r *Row) Split(col int) *Row {
	if col < len(r.Text) {
		after := string(r.Text[col:])
		r.setText(append([]rune{}, r.Text[0:col]...))
		return NewRow(after)
	}
	return NewRow("")
}

// joins rows by appending the passed-in row to the current row
func (r *Row) Join(other *Row) {
	line := make([]rune, 0, len(r.Text)+len(other.Text))
	line = append(line, r.Text...)
	line = append(line, other.Text...)
	r.setText(line)
}

// returns the text after a specified column
func (r *Row) TextAfter(col int) string {
	if col < 0 {
		col = 0
	}
	if col < len(r.Text) {
		return string(r.Text[col:])
	}
	return ""
}

// DisplayColumn returns the screen column where the character at col starts.
func (r *Row) DisplayColumn(col int, tabWidth int) int {
	x := 0
	for i := 0; i < col && i < len(r.Text); i++ {
		x += cellWidth(r.Text[i], x, tabWidth)
	}
	if col > len(r.Text) {
		x += col - len(r.Text)
	}
	return x
}

// A Cell is one screen column of a rendered row. Col is the index of the
// rune it came from; the trailing cells of wide characters have Ch == 0.
type Cell struct {
	Ch    rune
	Color types.Color
	Col   int
}

// DisplayCells expands the row into screen cells. Tabs become spaces up
// to the next tab stop.
func (r *Row) DisplayCells(tabWidth int) []Cell {
	cells := make([]Cell, 0, len(r.Text))
	for i, c := range r.Text {
		var color types.Color
		if i < len(r.Colors) {
			color = r.Colors[i]
		}
		w := cellWidth(c, len(cells), tabWidth)
		if c == '\t' {
			for j := 0; j < w; j++ {
				cells = append(cells, Cell{Ch: ' ', Color: color, Col: i})
			}
			continue
		}
		cells = append(cells, Cell{Ch: c, Color: color, Col: i})
		for j := 1; j < w; j++ {
			cells = append(cells, Cell{Ch: 0, Color: color, Col: i})
		}
	}
	return cells
}

func cellWidth(c rune, x int, tabWidth int) int {
	if c == '\t' {
		if tabWidth <= 0 {
			tabWidth = 8
		}
		return tabWidth - x%tabWidth
	}
	w := runewidth.RuneWidth(c)
	if w < 1 {
		w = 1
	}
	return w
}
