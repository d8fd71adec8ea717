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
	"strconv"
	"unicode"

	"github.com/timburks/notopad/pkg/types"
)

// A Window manages the rectangular area of the screen that shows the buffer.
// It owns the cursor and the display offset, so most editing primitives that
// move the cursor are implemented here.
type Window struct {
	editor      *Editor
	origin      types.Point
	size        types.Size
	cursor      types.Point // cursor position
	offset      types.Size  // display offset, in screen cells
	buffer      *Buffer
	selection   *types.Span // highlighted span, usually the last search match
	tabWidth    int
	lineNumbers bool
	gutter      int // width of the line number column
}

func NewWindow(e *Editor, b *Buffer) *Window {
	return &Window{editor: e, buffer: b, tabWidth: 8}
}

func (w *Window) GetBuffer() *Buffer {
	return w.buffer
}

func (w *Window) Layout(r types.Rect) {
	w.origin = r.Origin
	w.size = r.Size
}

func (w *Window) GetSize() types.Size {
	return w.size
}

func (w *Window) textCols() int {
	w.gutter = 0
	if w.lineNumbers {
		w.gutter = len(strconv.Itoa(w.buffer.GetRowCount())) + 1
	}
	cols := w.size.Cols - w.gutter
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Render draws the visible rows of the buffer.
func (w *Window) Render(display types.Display, theme types.Theme) {
	textCols := w.textCols()
	w.adjustDisplayOffsetForScrolling(textCols)

	b := w.buffer
	if !b.Highlighted {
		w.editor.highlighter.Highlight(b)
		b.Highlighted = true
	}

	var selStart, selEnd types.Point
	if w.selection != nil {
		selStart = b.PointForOffset(w.selection.Start)
		selEnd = b.PointForOffset(w.selection.End)
	}

	for i := 0; i < w.size.Rows; i++ {
		y := w.origin.Row + i
		index := i + w.offset.Rows
		if index >= b.GetRowCount() {
			display.SetCell(w.origin.Col, y, '~', theme.Gutter, theme.Background)
			continue
		}
		if w.lineNumbers {
			number := strconv.Itoa(index + 1)
			x := w.origin.Col + w.gutter - 1 - len(number)
			for j, c := range number {
				display.SetCell(x+j, y, c, theme.Gutter, theme.Background)
			}
		}
		cells := b.rows[index].DisplayCells(w.tabWidth)
		for x := w.offset.Cols; x < len(cells) && x-w.offset.Cols < textCols; x++ {
			cell := cells[x]
			if cell.Ch == 0 {
				continue
			}
			fg := cell.Color
			if fg == types.ColorDefault {
				fg = theme.Foreground
			}
			bg := theme.Background
			if w.selection != nil && inSpan(index, cell.Col, selStart, selEnd) {
				fg, bg = theme.Background, theme.Foreground
			}
			display.SetCell(w.origin.Col+w.gutter+x-w.offset.Cols, y, cell.Ch, fg, bg)
		}
	}
}

func inSpan(row, col int, start, end types.Point) bool {
	if row < start.Row || row > end.Row {
		return false
	}
	if row == start.Row && col < start.Col {
		return false
	}
	if row == end.Row && col >= end.Col {
		return false
	}
	return true
}

// Recompute the display offset to keep the cursor onscreen.
func (w *Window) adjustDisplayOffsetForScrolling(textCols int) {
	if w.cursor.Row < w.offset.Rows {
		// scroll up
		w.offset.Rows = w.cursor.Row
	}
	if w.size.Rows > 0 && w.cursor.Row-w.offset.Rows >= w.size.Rows {
		// scroll down
		w.offset.Rows = w.cursor.Row - w.size.Rows + 1
	}
	x := w.displayColumn()
	if x < w.offset.Cols {
		// scroll left
		w.offset.Cols = x
	}
	if x-w.offset.Cols >= textCols {
		// scroll right
		w.offset.Cols = x - textCols + 1
	}
}

func (w *Window) displayColumn() int {
	row := w.buffer.GetRow(w.cursor.Row)
	if row == nil {
		return 0
	}
	return row.DisplayColumn(w.cursor.Col, w.tabWidth)
}

func (w *Window) GetCursor() types.Point {
	return w.cursor
}

func (w *Window) SetCursor(cursor types.Point) {
	w.cursor = cursor
}

func (w *Window) SetCursorForDisplay(d types.Display) {
	d.SetCursor(types.Point{
		Col: w.displayColumn() - w.offset.Cols + w.origin.Col + w.gutter,
		Row: w.cursor.Row - w.offset.Rows + w.origin.Row,
	})
}

func (w *Window) MoveCursor(direction int, multiplier int) {
	for i := 0; i < multiplier; i++ {
		switch direction {
		case types.MoveLeft:
			if w.cursor.Col > 0 {
				w.cursor.Col--
			}
		case types.MoveRight:
			rowLength := w.buffer.GetRowLength(w.cursor.Row)
			if w.cursor.Col < rowLength-1 {
				w.cursor.Col++
			}
		case types.MoveUp:
			if w.cursor.Row > 0 {
				w.cursor.Row--
			}
		case types.MoveDown:
			if w.cursor.Row < w.buffer.GetRowCount()-1 {
				w.cursor.Row++
			}
		}
	}
	// don't go past the end of the current line
	w.KeepCursorInRow()
}

func (w *Window) MoveCursorForward() int {
	if w.cursor.Row >= w.buffer.GetRowCount() {
		return types.AtEndOfFile
	}
	rowLength := w.buffer.GetRowLength(w.cursor.Row)
	if w.cursor.Col < rowLength-1 {
		w.cursor.Col++
		return types.AtNextCharacter
	}
	if w.cursor.Row+1 < w.buffer.GetRowCount() {
		w.cursor.Col = 0
		w.cursor.Row++
		return types.AtNextLine
	}
	return types.AtEndOfFile
}

func (w *Window) MoveCursorBackward() int {
	if w.cursor.Row >= w.buffer.GetRowCount() {
		return types.AtEndOfFile
	}
	if w.cursor.Col > 0 {
		w.cursor.Col--
		return types.AtNextCharacter
	}
	if w.cursor.Row > 0 {
		w.cursor.Row--
		w.cursor.Col = w.buffer.GetRowLength(w.cursor.Row) - 1
		if w.cursor.Col < 0 {
			w.cursor.Col = 0
		}
		return types.AtNextLine
	}
	return types.AtEndOfFile
}

func (w *Window) MoveToBeginningOfLine() {
	w.cursor.Col = 0
}

func (w *Window) MoveToEndOfLine() {
	w.cursor.Col = w.buffer.GetRowLength(w.cursor.Row) - 1
	if w.cursor.Col < 0 {
		w.cursor.Col = 0
	}
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == rune(0)
}

func isAlphaNumeric(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

func isNonAlphaNumeric(c rune) bool {
	return !isAlphaNumeric(c) && !isSpace(c)
}

func (w *Window) MoveCursorToNextWord(multiplier int) {
	for i := 0; i < multiplier; i++ {
		w.moveCursorToNextWord()
	}
}

func (w *Window) moveCursorToNextWord() {
	c := w.buffer.GetCharacterAtCursor(w.cursor)
	if isSpace(c) { // if we're on a space, move to first non-space
		for isSpace(c) {
			if w.MoveCursorForward() != types.AtNextCharacter {
				w.MoveForwardToFirstNonSpace()
				return
			}
			c = w.buffer.GetCharacterAtCursor(w.cursor)
		}
		return
	}
	inWord := isAlphaNumeric
	if !isAlphaNumeric(c) {
		inWord = isNonAlphaNumeric
	}
	// move past the current word
	for inWord(c) {
		if w.MoveCursorForward() != types.AtNextCharacter {
			w.MoveForwardToFirstNonSpace()
			return // we reached a new line or EOF
		}
		c = w.buffer.GetCharacterAtCursor(w.cursor)
	}
	// move past any spaces
	for isSpace(c) {
		if w.MoveCursorForward() != types.AtNextCharacter {
			return // we reached a new line or EOF
		}
		c = w.buffer.GetCharacterAtCursor(w.cursor)
	}
}

func (w *Window) MoveForwardToFirstNonSpace() {
	c := w.buffer.GetCharacterAtCursor(w.cursor)
	for c == ' ' || c == '\t' {
		if w.MoveCursorForward() != types.AtNextCharacter {
			return
		}
		c = w.buffer.GetCharacterAtCursor(w.cursor)
	}
}

func (w *Window) MoveCursorBackToFirstNonSpace() int {
	// move back to first non-space (end of word)
	c := w.buffer.GetCharacterAtCursor(w.cursor)
	for isSpace(c) {
		p := w.MoveCursorBackward()
		if p != types.AtNextCharacter {
			return p
		}
		c = w.buffer.GetCharacterAtCursor(w.cursor)
	}
	return types.AtNextCharacter
}

func (w *Window) MoveCursorBackBeforeCurrentWord() int {
	c := w.buffer.GetCharacterAtCursor(w.cursor)
	inWord := isAlphaNumeric
	if isNonAlphaNumeric(c) {
		inWord = isNonAlphaNumeric
	}
	for inWord(c) {
		p := w.MoveCursorBackward()
		if p != types.AtNextCharacter {
			return p
		}
		c = w.buffer.GetCharacterAtCursor(w.cursor)
	}
	return types.AtNextCharacter
}

func (w *Window) MoveCursorBackToStartOfCurrentWord() {
	c := w.buffer.GetCharacterAtCursor(w.cursor)
	if isSpace(c) {
		return
	}
	p := w.MoveCursorBackBeforeCurrentWord()
	if p == types.AtNextCharacter {
		w.MoveCursorForward()
	}
}

func (w *Window) MoveCursorToPreviousWord(multiplier int) {
	for i := 0; i < multiplier; i++ {
		w.moveCursorToPreviousWord()
	}
}

func (w *Window) moveCursorToPreviousWord() {
	c := w.buffer.GetCharacterAtCursor(w.cursor)
	if isSpace(c) { // we started at a space
		w.MoveCursorBackToFirstNonSpace()
		w.MoveCursorBackToStartOfCurrentWord()
		return
	}
	original := w.GetCursor()
	w.MoveCursorBackToStartOfCurrentWord()
	if original == w.GetCursor() { // cursor didn't move
		if w.MoveCursorBackward() == types.AtEndOfFile {
			return
		}
		w.MoveCursorBackToFirstNonSpace()
		w.MoveCursorBackToStartOfCurrentWord()
	}
}

func (w *Window) PageUp(multiplier int) {
	// move to the top of the screen
	w.cursor.Row = w.offset.Rows
	for m := 0; m < multiplier; m++ {
		// move up by a page
		w.MoveCursor(types.MoveUp, w.size.Rows)
	}
}

func (w *Window) PageDown(multiplier int) {
	// move to the bottom of the screen
	w.cursor.Row = min(
		w.offset.Rows+w.size.Rows-1,
		w.buffer.GetRowCount()-1)
	for m := 0; m < multiplier; m++ {
		// move down by a page
		w.MoveCursor(types.MoveDown, w.size.Rows)
	}
}

func (w *Window) HalfPageUp(multiplier int) {
	for m := 0; m < multiplier; m++ {
		w.MoveCursor(types.MoveUp, max(w.size.Rows/2, 1))
	}
}

func (w *Window) HalfPageDown(multiplier int) {
	for m := 0; m < multiplier; m++ {
		w.MoveCursor(types.MoveDown, max(w.size.Rows/2, 1))
	}
}

// ReverseCaseCharactersAtCursor flips the case of up to multiplier characters,
// stopping at the end of the row.
func (w *Window) ReverseCaseCharactersAtCursor(multiplier int) {
	row := w.buffer.GetRow(w.cursor.Row)
	if row == nil {
		return
	}
	for i := 0; i < multiplier; i++ {
		if w.cursor.Col >= row.Length() {
			break
		}
		c := row.GetText()[w.cursor.Col]
		if unicode.IsUpper(c) {
			w.buffer.ReplaceCharacter(w.cursor.Row, w.cursor.Col, unicode.ToLower(c))
		} else if unicode.IsLower(c) {
			w.buffer.ReplaceCharacter(w.cursor.Row, w.cursor.Col, unicode.ToUpper(c))
		}
		if w.cursor.Col < row.Length()-1 {
			w.cursor.Col++
		} else {
			break
		}
	}
}

// InsertChar inserts a typed character and records it in the open insert operation.
func (w *Window) InsertChar(c rune) {
	insert := w.editor.GetInsertOperation()
	if insert != nil {
		insert.AddCharacter(c)
	}
	w.insertChar(c)
}

func (w *Window) insertChar(c rune) {
	if w.cursor.Row >= w.buffer.GetRowCount() {
		w.cursor.Row = w.buffer.GetRowCount() - 1
		w.cursor.Col = w.buffer.GetRowLength(w.cursor.Row)
	}
	if c == '\n' {
		w.buffer.SplitRow(w.cursor.Row, w.cursor.Col)
		w.cursor.Row++
		w.cursor.Col = 0
		return
	}
	w.buffer.InsertCharacter(w.cursor.Row, w.cursor.Col, c)
	w.cursor.Col++
}

// BackspaceChar deletes the character before the cursor. Only characters
// typed in the current insert operation can be deleted.
func (w *Window) BackspaceChar() rune {
	insert := w.editor.GetInsertOperation()
	if insert == nil || insert.Length() == 0 {
		return rune(0)
	}
	insert.DeleteCharacter()
	if w.cursor.Col > 0 {
		c := w.buffer.DeleteCharacters(w.cursor.Row, w.cursor.Col-1, 1, false)
		w.cursor.Col--
		return []rune(c)[0]
	} else if w.cursor.Row > 0 {
		// remove the current row and join it with the previous one
		col := w.buffer.GetRowLength(w.cursor.Row - 1)
		w.buffer.JoinRows(w.cursor.Row - 1)
		w.cursor.Row--
		w.cursor.Col = col
		return rune('\n')
	}
	return rune(0)
}

// JoinRow joins rows below the cursor onto the cursor row and returns the
// offsets where newlines were removed.
func (w *Window) JoinRow(multiplier int) []int {
	offsets := make([]int, 0)
	for i := 0; i < multiplier; i++ {
		col := w.buffer.GetRowLength(w.cursor.Row)
		offset := w.buffer.OffsetForPoint(types.Point{Row: w.cursor.Row, Col: col})
		if !w.buffer.JoinRows(w.cursor.Row) {
			break
		}
		w.cursor.Col = col
		offsets = append(offsets, offset)
	}
	return offsets
}

func (w *Window) YankRow(multiplier int) {
	pasteText := ""
	for i := 0; i < multiplier; i++ {
		position := w.cursor.Row + i
		if position < w.buffer.GetRowCount() {
			pasteText += w.buffer.rows[position].GetString() + "\n"
		}
	}
	w.editor.SetPasteBoard(pasteText, types.PasteNewLine)
}

func (w *Window) KeepCursorInRow() {
	if w.cursor.Row >= w.buffer.GetRowCount() {
		w.cursor.Row = w.buffer.GetRowCount() - 1
	}
	if w.cursor.Row < 0 {
		w.cursor.Row = 0
	}
	lastIndexInRow := w.buffer.GetRowLength(w.cursor.Row) - 1
	if w.cursor.Col > lastIndexInRow {
		w.cursor.Col = lastIndexInRow
	}
	if w.cursor.Col < 0 {
		w.cursor.Col = 0
	}
}

func (w *Window) InsertLineAboveCursor() {
	w.buffer.InsertRow(w.cursor.Row)
	w.cursor.Col = 0
}

func (w *Window) InsertLineBelowCursor() {
	w.buffer.InsertRow(w.cursor.Row + 1)
	w.cursor.Row += 1
	w.cursor.Col = 0
}

func (w *Window) ReplaceCharacterAtCursor(cursor types.Point, c rune) rune {
	return w.buffer.ReplaceCharacter(cursor.Row, cursor.Col, c)
}

// DeleteRowsAtCursor removes whole rows starting at the cursor row. It
// returns the offset where text was removed and the removed text, which
// includes the newline that separated the rows from their neighbors.
func (w *Window) DeleteRowsAtCursor(multiplier int) (int, string) {
	b := w.buffer
	first := w.cursor.Row
	last := min(first+multiplier-1, b.GetRowCount()-1)
	var start, end int
	if last < b.GetRowCount()-1 {
		start = b.OffsetForPoint(types.Point{Row: first, Col: 0})
		end = b.OffsetForPoint(types.Point{Row: last + 1, Col: 0})
	} else if first > 0 {
		start = b.OffsetForPoint(types.Point{Row: first - 1, Col: b.GetRowLength(first - 1)})
		end = b.Length()
	} else {
		start = 0
		end = b.Length()
	}
	pasteText := ""
	for i := first; i <= last; i++ {
		pasteText += b.rows[i].GetString() + "\n"
	}
	w.editor.SetPasteBoard(pasteText, types.PasteNewLine)
	deleted := b.ReplaceRange(start, end, "")
	w.cursor.Col = 0
	w.KeepCursorInRow()
	return start, deleted
}

// DeleteWordsAtCursor deletes through the next space for each word. On an
// empty row the row itself is deleted.
func (w *Window) DeleteWordsAtCursor(multiplier int) string {
	b := w.buffer
	deletedText := ""
	for i := 0; i < multiplier; i++ {
		row := w.cursor.Row
		if b.GetRowLength(row) == 0 {
			if row >= b.GetRowCount()-1 {
				break
			}
			deletedText += b.DeleteCharacters(row, 0, 1, true)
			continue
		}
		if w.cursor.Col >= b.GetRowLength(row) {
			break
		}
		c := []rune(b.DeleteCharacters(row, w.cursor.Col, 1, false))[0]
		deletedText += string(c)
		for w.cursor.Col < b.GetRowLength(row) && c != ' ' {
			c = []rune(b.DeleteCharacters(row, w.cursor.Col, 1, false))[0]
			deletedText += string(c)
		}
	}
	w.KeepCursorInRow()
	return deletedText
}

// DeleteCharactersAtCursor deletes characters from the cursor to, at most,
// the end of the row.
func (w *Window) DeleteCharactersAtCursor(multiplier int) string {
	deletedText := w.buffer.DeleteCharacters(w.cursor.Row, w.cursor.Col, multiplier, false)
	w.KeepCursorInRow()
	return deletedText
}

// InsertText moves the cursor to the requested position and inserts text there.
// It returns the point where the text starts and the mode the commander should
// enter: edit mode when text was given, insert mode when it will be typed.
func (w *Window) InsertText(text string, position int) (types.Point, int) {
	if w.cursor.Row >= w.buffer.GetRowCount() {
		w.cursor.Row = w.buffer.GetRowCount() - 1
		w.cursor.Col = w.buffer.GetRowLength(w.cursor.Row)
	}
	switch position {
	case types.InsertAtCursor:
		break
	case types.InsertAfterCursor:
		w.cursor.Col++
	case types.InsertAtStartOfLine:
		w.cursor.Col = 0
	case types.InsertAfterEndOfLine:
		w.cursor.Col = w.buffer.GetRowLength(w.cursor.Row)
	case types.InsertAtNewLineBelowCursor:
		w.buffer.SplitRow(w.cursor.Row, w.buffer.GetRowLength(w.cursor.Row))
		w.cursor.Row++
		w.cursor.Col = 0
	case types.InsertAtNewLineAboveCursor:
		w.InsertLineAboveCursor()
	}
	w.cursor.Col = clipToRange(w.cursor.Col, 0, w.buffer.GetRowLength(w.cursor.Row))
	start := w.cursor
	if text == "" {
		return start, types.ModeInsert
	}
	for _, c := range text {
		w.insertChar(c)
	}
	w.cursor = start
	return start, types.ModeEdit
}
