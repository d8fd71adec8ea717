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
	"fmt"
	"log/slog"
	"os"

	"github.com/timburks/notopad/pkg/types"
)

// The Editor manages text editing in a single buffer shown in a single window.
type Editor struct {
	window      *Window               // window showing the buffer
	highlighter *Highlighter          // colors the buffer for display
	theme       types.Theme           // colors used when rendering
	pasteText   string                // used to cut/copy and paste
	pasteMode   int                   // how to paste the string on the pasteboard
	previous    types.Operation       // last operation performed, available to repeat
	undo        []types.Operation     // stack of operations to undo
	redo        []types.Operation     // stack of undone operations to redo
	insert      types.InsertOperation // when in insert mode, the current insert operation
}

func NewEditor() *Editor {
	e := &Editor{}
	e.highlighter = NewHighlighter()
	e.window = NewWindow(e, NewBuffer())
	return e
}

func (e *Editor) GetBuffer() *Buffer {
	return e.window.GetBuffer()
}

func (e *Editor) GetWindow() *Window {
	return e.window
}

func (e *Editor) GetFileName() string {
	return e.GetBuffer().GetFileName()
}

func (e *Editor) GetName() string {
	return e.GetBuffer().GetName()
}

func (e *Editor) IsModified() bool {
	return e.GetBuffer().IsModified()
}

func (e *Editor) Text() string {
	return e.GetBuffer().Text()
}

func (e *Editor) Bytes() []byte {
	return e.GetBuffer().Bytes()
}

// setBuffer replaces the buffer being edited and forgets everything tied to the old one.
func (e *Editor) setBuffer(b *Buffer) {
	e.window.buffer = b
	e.window.cursor = types.Point{}
	e.window.offset = types.Size{}
	e.window.selection = nil
	e.undo = nil
	e.redo = nil
	e.previous = nil
	e.insert = nil
}

// New starts an empty, untitled document.
func (e *Editor) New() {
	b := NewBuffer()
	b.MarkSaved()
	e.setBuffer(b)
}

// Load reads a file into a new buffer. If the file can't be read,
// the current buffer is left as it is.
func (e *Editor) Load(path string) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return &types.FileError{Op: "open", Path: path, Err: err}
	}
	b := NewBuffer()
	b.SetFileName(path)
	b.LoadBytes(bytes)
	b.MarkSaved()
	e.setBuffer(b)
	slog.Info("loaded file", "path", path, "rows", b.GetRowCount())
	return nil
}

// Reload rereads the current file, keeping the cursor where it was.
func (e *Editor) Reload() error {
	path := e.GetFileName()
	if path == "" {
		return &types.InputError{Field: "path", Reason: "no file name"}
	}
	cursor := e.GetCursor()
	if err := e.Load(path); err != nil {
		return err
	}
	e.SetCursor(cursor)
	e.KeepCursorInRow()
	return nil
}

// Save writes the buffer to path, or to the buffer's file when path is empty.
// The file is overwritten in place.
func (e *Editor) Save(path string) error {
	b := e.GetBuffer()
	if path == "" {
		path = b.GetFileName()
	}
	if path == "" {
		return &types.InputError{Field: "path", Reason: "no file name"}
	}
	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		return &types.FileError{Op: "save", Path: path, Err: err}
	}
	if path != b.GetFileName() {
		b.SetFileName(path)
	}
	b.MarkSaved()
	slog.Info("saved file", "path", path)
	return nil
}

func (e *Editor) Perform(op types.Operation, multiplier int) {
	// perform the operation
	inverse := op.Perform(e, multiplier)
	// save the operation for repeats
	e.previous = op
	e.window.selection = nil
	// save the inverse of the operation for undo
	if inverse != nil {
		e.undo = append(e.undo, inverse)
		e.redo = nil
	}
}

func (e *Editor) Repeat() {
	if e.previous != nil {
		inverse := e.previous.Perform(e, 0)
		if inverse != nil {
			e.undo = append(e.undo, inverse)
			e.redo = nil
		}
	}
}

// PerformUndo reverts the most recent operation. It returns false when
// there is nothing to undo.
func (e *Editor) PerformUndo() bool {
	if len(e.undo) == 0 {
		return false
	}
	last := len(e.undo) - 1
	undo := e.undo[last]
	e.undo = e.undo[0:last]
	if redo := undo.Perform(e, 0); redo != nil {
		e.redo = append(e.redo, redo)
	}
	e.window.selection = nil
	return true
}

// PerformRedo reapplies the most recently undone operation.
func (e *Editor) PerformRedo() bool {
	if len(e.redo) == 0 {
		return false
	}
	last := len(e.redo) - 1
	redo := e.redo[last]
	e.redo = e.redo[0:last]
	if undo := redo.Perform(e, 0); undo != nil {
		e.undo = append(e.undo, undo)
	}
	e.window.selection = nil
	return true
}

func (e *Editor) CanUndo() bool {
	return len(e.undo) > 0
}

func (e *Editor) CanRedo() bool {
	return len(e.redo) > 0
}

// MoveCursorToLine moves to the start of a 1-based line.
func (e *Editor) MoveCursorToLine(line int) error {
	count := e.GetRowCount()
	if line < 1 || line > count {
		return &types.InputError{
			Field:  "line",
			Reason: fmt.Sprintf("%d is not between 1 and %d", line, count),
		}
	}
	e.SetCursor(types.Point{Row: line - 1, Col: 0})
	return nil
}

func (e *Editor) MoveCursorToOffset(offset int) {
	e.SetCursor(e.GetBuffer().PointForOffset(offset))
}

func (e *Editor) CursorOffset() int {
	return e.GetBuffer().OffsetForPoint(e.GetCursor())
}

// SetSelection highlights a span of text, usually a search match.
func (e *Editor) SetSelection(span *types.Span) {
	e.window.selection = span
}

func (e *Editor) GetSelection() *types.Span {
	return e.window.selection
}

func (e *Editor) Stats() Stats {
	return ComputeStats(e.Text())
}

func (e *Editor) MoveCursor(direction int, multiplier int) {
	e.window.MoveCursor(direction, multiplier)
}

func (e *Editor) MoveCursorToNextWord(multiplier int) {
	e.window.MoveCursorToNextWord(multiplier)
}

func (e *Editor) MoveCursorToPreviousWord(multiplier int) {
	e.window.MoveCursorToPreviousWord(multiplier)
}

func (e *Editor) MoveToBeginningOfLine() {
	e.window.MoveToBeginningOfLine()
}

func (e *Editor) MoveToEndOfLine() {
	e.window.MoveToEndOfLine()
}

func (e *Editor) PageUp(multiplier int) {
	e.window.PageUp(multiplier)
}

func (e *Editor) PageDown(multiplier int) {
	e.window.PageDown(multiplier)
}

func (e *Editor) HalfPageUp(multiplier int) {
	e.window.HalfPageUp(multiplier)
}

func (e *Editor) HalfPageDown(multiplier int) {
	e.window.HalfPageDown(multiplier)
}

func (e *Editor) KeepCursorInRow() {
	e.window.KeepCursorInRow()
}

// These editor primitives make changes in insert mode and associate them with the current operation.

func (e *Editor) InsertChar(c rune) {
	e.window.InsertChar(c)
}

func (e *Editor) BackspaceChar() rune {
	return e.window.BackspaceChar()
}

func (e *Editor) CloseInsert() {
	if e.insert != nil {
		e.insert.Close()
		e.insert = nil
	}
}

func (e *Editor) YankRow(multiplier int) {
	e.window.YankRow(multiplier)
}

// editable

func (e *Editor) GetCursor() types.Point {
	return e.window.GetCursor()
}

// SetCursor moves the cursor, keeping it inside the text. The column may
// be one past the end of a row so that text can be appended.
func (e *Editor) SetCursor(cursor types.Point) {
	b := e.GetBuffer()
	cursor.Row = clipToRange(cursor.Row, 0, b.GetRowCount()-1)
	cursor.Col = clipToRange(cursor.Col, 0, b.GetRowLength(cursor.Row))
	e.window.SetCursor(cursor)
}

func (e *Editor) GetRowCount() int {
	return e.GetBuffer().GetRowCount()
}

func (e *Editor) GetRowLength(row int) int {
	return e.GetBuffer().GetRowLength(row)
}

func (e *Editor) InsertText(text string, position int) (types.Point, int) {
	return e.window.InsertText(text, position)
}

func (e *Editor) DeleteCharactersAtCursor(multiplier int) string {
	return e.window.DeleteCharactersAtCursor(multiplier)
}

func (e *Editor) DeleteWordsAtCursor(multiplier int) string {
	return e.window.DeleteWordsAtCursor(multiplier)
}

func (e *Editor) DeleteRowsAtCursor(multiplier int) (int, string) {
	return e.window.DeleteRowsAtCursor(multiplier)
}

func (e *Editor) ReplaceCharacterAtCursor(cursor types.Point, c rune) rune {
	return e.window.ReplaceCharacterAtCursor(cursor, c)
}

func (e *Editor) ReverseCaseCharactersAtCursor(multiplier int) {
	e.window.ReverseCaseCharactersAtCursor(multiplier)
}

func (e *Editor) JoinRow(multiplier int) []int {
	return e.window.JoinRow(multiplier)
}

func (e *Editor) ReplaceRange(start, end int, text string) string {
	return e.GetBuffer().ReplaceRange(start, end, text)
}

func (e *Editor) OffsetForPoint(p types.Point) int {
	return e.GetBuffer().OffsetForPoint(p)
}

func (e *Editor) PointForOffset(offset int) types.Point {
	return e.GetBuffer().PointForOffset(offset)
}

func (e *Editor) SetInsertOperation(insert types.InsertOperation) {
	e.insert = insert
}

func (e *Editor) GetInsertOperation() types.InsertOperation {
	return e.insert
}

func (e *Editor) SetPasteBoard(text string, mode int) {
	e.pasteText = text
	e.pasteMode = mode
}

func (e *Editor) GetPasteMode() int {
	return e.pasteMode
}

func (e *Editor) GetPasteText() string {
	return e.pasteText
}

// display

func (e *Editor) SetTheme(theme types.Theme) {
	e.theme = theme
	e.highlighter.SetStyle(theme.Style)
	e.GetBuffer().Highlighted = false
}

func (e *Editor) GetTheme() types.Theme {
	return e.theme
}

func (e *Editor) SetHighlighting(enabled bool) {
	e.highlighter.Enabled = enabled
	e.GetBuffer().Highlighted = false
}

func (e *Editor) SetTabWidth(width int) {
	if width > 0 {
		e.window.tabWidth = width
	}
}

func (e *Editor) SetLineNumbers(on bool) {
	e.window.lineNumbers = on
}

func (e *Editor) GetLineNumbers() bool {
	return e.window.lineNumbers
}

func (e *Editor) Layout(r types.Rect) {
	e.window.Layout(r)
}

func (e *Editor) Render(d types.Display) {
	e.window.Render(d, e.theme)
	// the window also places the cursor
	e.window.SetCursorForDisplay(d)
}
