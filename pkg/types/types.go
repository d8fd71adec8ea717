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

// Package types holds the values and interfaces shared by the notopad
// packages. Keeping them here lets operations call into the editor
// without importing it.
package types

// Editor modes
const (
	ModeEdit           = 0
	ModeInsert         = 1
	ModeCommand        = 2
	ModeSearchForward  = 3
	ModeSearchBackward = 4
	ModeReplace        = 5
	ModeConfirm        = 6
	ModeLisp           = 7
	ModeQuit           = 9999
)

// Move directions
const (
	MoveUp    = 0
	MoveDown  = 1
	MoveRight = 2
	MoveLeft  = 3
)

// Results of single-character cursor moves
const (
	AtNextCharacter = 0
	AtNextLine      = 1
	AtEndOfFile     = 2
)

// Kinds of words
const (
	WordSpace        = 0
	WordAlphaNumeric = 1
	WordPunctuation  = 2
)

// Insert positions
const (
	InsertAtCursor             = 0
	InsertAfterCursor          = 1
	InsertAtStartOfLine        = 2
	InsertAfterEndOfLine       = 3
	InsertAtNewLineBelowCursor = 4
	InsertAtNewLineAboveCursor = 5
)

// Paste modes
const (
	PasteAtCursor = 0
	PasteNewLine  = 1
)

// Event types
const (
	EventKey = iota
	EventResize
	EventTick
	EventFileChanged
	EventFileDropped
	EventInterrupt
	EventError
)

type Point struct {
	Row int
	Col int
}

type Size struct {
	Rows int
	Cols int
}

type Rect struct {
	Origin Point
	Size   Size
}

// Color is a 256-color terminal palette index.
type Color uint16

const (
	ColorDefault Color = 0
	ColorBlack   Color = 1
	ColorWhite   Color = 8
)

// An Event is anything the session loop reacts to: keys from the
// terminal, auto-save ticks and file system notifications.
type Event struct {
	Type int
	Key  Key
	Ch   rune
	Path string
	Err  error
}

// Span is a half-open range of rune offsets into a document's text.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Editor is the set of editing primitives that operations are built on.
// Offsets are rune offsets into the text of the buffer being edited.
type Editor interface {
	GetCursor() Point
	SetCursor(cursor Point)
	GetRowCount() int
	GetRowLength(row int) int

	InsertText(text string, position int) (Point, int)
	DeleteCharactersAtCursor(multiplier int) string
	DeleteWordsAtCursor(multiplier int) string
	DeleteRowsAtCursor(multiplier int) (int, string)
	ReplaceCharacterAtCursor(cursor Point, c rune) rune
	ReverseCaseCharactersAtCursor(multiplier int)
	JoinRow(multiplier int) []int

	ReplaceRange(start, end int, text string) string
	OffsetForPoint(p Point) int
	PointForOffset(offset int) Point

	SetInsertOperation(insert InsertOperation)
	GetInsertOperation() InsertOperation
	SetPasteBoard(text string, mode int)
	GetPasteText() string
	GetPasteMode() int
}

type Operation interface {
	Perform(e Editor, multiplier int) Operation // performs the operation and returns its inverse
}

type InsertOperation interface {
	Operation
	AddCharacter(c rune)
	DeleteCharacter()
	Close()
	Length() int
}

// Commander is the part of the commander that operations may change.
type Commander interface {
	SetMode(int)
}

// A Theme names the colors used to draw the editor.
type Theme struct {
	Name       string
	Foreground Color
	Background Color
	Gutter     Color // line numbers and the ~ marks past the end of text
	BarFg      Color // status bar
	BarBg      Color
	Style      string // highlighting style
}

// A Display receives rendered cells.
type Display interface {
	SetCell(col int, row int, c rune, fg Color, bg Color)
	SetCursor(p Point)
}
