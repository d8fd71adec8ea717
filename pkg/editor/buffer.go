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
	"path/filepath"
	"strings"

	"github.com/timburks/notopad/pkg/types"
)

// A Buffer holds the text of a document as rows of runes.
// A buffer always has at least one row.
type Buffer struct {
	rows        []*Row
	fileName    string
	Highlighted bool
	snapshot    string // text at the last load or save
	version     int    // incremented on every change
	checked     int    // version when modified was last computed
	modified    bool
}

func NewBuffer() *Buffer {
	b := &Buffer{}
	b.rows = []*Row{NewRow("")}
	return b
}

func (b *Buffer) GetFileName() string {
	return b.fileName
}

func (b *Buffer) SetFileName(name string) {
	b.fileName = name
	b.Highlighted = false
}

// GetName returns the base name of the file, or "Untitled".
func (b *Buffer) GetName() string {
	if b.fileName == "" {
		return "Untitled"
	}
	return filepath.Base(b.fileName)
}

// touch records a change to the buffer's contents.
func (b *Buffer) touch() {
	b.version++
	b.Highlighted = false
}

// LoadBytes replaces the contents of the buffer. The saved snapshot is
// not changed, so the buffer is modified unless the text matches it.
func (b *Buffer) LoadBytes(bytes []byte) {
	lines := strings.Split(string(bytes), "\n")
	b.rows = make([]*Row, 0, len(lines))
	for _, line := range lines {
		b.rows = append(b.rows, NewRow(line))
	}
	b.touch()
}

// MarkSaved makes the current text the saved snapshot.
func (b *Buffer) MarkSaved() {
	b.snapshot = b.Text()
	b.checked = b.version
	b.modified = false
}

// IsModified is true iff the text differs from the saved snapshot.
func (b *Buffer) IsModified() bool {
	if b.checked != b.version {
		b.modified = b.Text() != b.snapshot
		b.checked = b.version
	}
	return b.modified
}

// Snapshot returns the text as of the last load or save.
func (b *Buffer) Snapshot() string {
	return b.snapshot
}

func (b *Buffer) Bytes() []byte {
	return []byte(b.Text())
}

func (b *Buffer) Text() string {
	var sb strings.Builder
	for i, row := range b.rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(row.Text))
	}
	return sb.String()
}

// Length returns the number of runes in the buffer's text.
func (b *Buffer) Length() int {
	n := len(b.rows) - 1
	for _, row := range b.rows {
		n += row.Length()
	}
	return n
}

func (b *Buffer) GetRowCount() int {
	return len(b.rows)
}

func (b *Buffer) GetRow(i int) *Row {
	if i >= 0 && i < len(b.rows) {
		return b.rows[i]
	}
	return nil
}

func (b *Buffer) GetRowLength(i int) int {
	if i >= 0 && i < len(b.rows) {
		return b.rows[i].Length()
	}
	return 0
}

func (b *Buffer) GetCharacterAtCursor(cursor types.Point) rune {
	if cursor.Row >= 0 && cursor.Row < len(b.rows) {
		row := b.rows[cursor.Row]
		if cursor.Col < row.Length() && cursor.Col >= 0 {
			return row.Text[cursor.Col]
		}
	}
	return rune(0)
}

func (b *Buffer) TextAfter(row, col int) string {
	if row >= 0 && row < len(b.rows) {
		return b.rows[row].TextAfter(col)
	}
	return ""
}

func (b *Buffer) InsertCharacter(row, col int, c rune) {
	if row < len(b.rows) {
		b.rows[row].InsertChar(col, c)
		b.touch()
	}
}

func (b *Buffer) ReplaceCharacter(row, col int, c rune) rune {
	if row < 0 || row >= len(b.rows) {
		return rune(0)
	}
	old := b.rows[row].ReplaceChar(col, c)
	b.touch()
	return old
}

// SplitRow breaks a row at col, moving the rest of the row to a new row below it.
func (b *Buffer) SplitRow(row, col int) {
	if row >= len(b.rows) {
		return
	}
	newRow := b.rows[row].Split(col)
	b.insertRow(row+1, newRow)
}

// InsertRow adds an empty row at the given position.
func (b *Buffer) InsertRow(position int) {
	b.insertRow(position, NewRow(""))
}

func (b *Buffer) insertRow(position int, r *Row) {
	if position > len(b.rows) {
		position = len(b.rows)
	}
	b.rows = append(b.rows, nil)
	copy(b.rows[position+1:], b.rows[position:])
	b.rows[position] = r
	b.touch()
}

// JoinRows appends the row below to the given row.
func (b *Buffer) JoinRows(row int) bool {
	if row+1 >= len(b.rows) {
		return false
	}
	b.rows[row].Join(b.rows[row+1])
	b.rows = append(b.rows[0:row+1], b.rows[row+2:]...)
	b.touch()
	return true
}

// DeleteRow removes a row. Deleting the only row leaves one empty row.
func (b *Buffer) DeleteRow(row int) {
	if row < 0 || row >= len(b.rows) {
		return
	}
	b.rows = append(b.rows[0:row], b.rows[row+1:]...)
	if len(b.rows) == 0 {
		b.rows = []*Row{NewRow("")}
	}
	b.touch()
}

func (b *Buffer) DeleteCharacters(row int, col int, count int, joinLines bool) string {
	deletedText := ""
	if row >= len(b.rows) {
		return deletedText
	}
	for i := 0; i < count; i++ {
		if col < b.rows[row].Length() {
			c := b.rows[row].DeleteChar(col)
			deletedText += string(c)
		} else if joinLines && row < b.GetRowCount()-1 {
			// join next row to current row
			b.JoinRows(row)
			deletedText += "\n"
		} else {
			break
		}
	}
	b.touch()
	return deletedText
}

// OffsetForPoint converts a row and column to a rune offset into Text().
func (b *Buffer) OffsetForPoint(p types.Point) int {
	if p.Row < 0 {
		return 0
	}
	if p.Row >= len(b.rows) {
		return b.Length()
	}
	offset := 0
	for i := 0; i < p.Row; i++ {
		offset += b.rows[i].Length() + 1
	}
	col := clipToRange(p.Col, 0, b.rows[p.Row].Length())
	return offset + col
}

// PointForOffset converts a rune offset into Text() to a row and column.
func (b *Buffer) PointForOffset(offset int) types.Point {
	if offset < 0 {
		offset = 0
	}
	for i, row := range b.rows {
		if offset <= row.Length() {
			return types.Point{Row: i, Col: offset}
		}
		offset -= row.Length() + 1
	}
	last := len(b.rows) - 1
	return types.Point{Row: last, Col: b.rows[last].Length()}
}

// ReplaceRange replaces the runes in [start, end) with text and returns
// the text that was removed.
func (b *Buffer) ReplaceRange(start, end int, text string) string {
	content := []rune(b.Text())
	start = clipToRange(start, 0, len(content))
	end = clipToRange(end, start, len(content))
	old := string(content[start:end])
	updated := make([]rune, 0, len(content)-len(old)+len(text))
	updated = append(updated, content[:start]...)
	updated = append(updated, []rune(text)...)
	updated = append(updated, content[end:]...)
	b.LoadBytes([]byte(string(updated)))
	return old
}

func clipToRange(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
