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

package operations

import (
	"github.com/timburks/notopad/pkg/types"
)

// Insert adds text at a position relative to the cursor. An Insert with
// no text puts the editor in insert mode and collects the typed characters.
type Insert struct {
	operation
	Position  int
	Text      string
	Inverse   *ReplaceText
	Commander types.Commander
}

func (op *Insert) Perform(e types.Editor, multiplier int) types.Operation {
	op.init(e, multiplier)

	if op.Text == "" {
		e.SetInsertOperation(op)
	}

	start, newMode := e.InsertText(op.Text, op.Position)
	if op.Commander != nil {
		op.Commander.SetMode(newMode)
	}

	offset := e.OffsetForPoint(start)
	inverse := restore(&op.operation, offset, "")
	// inserting on a new line also added a newline
	switch op.Position {
	case types.InsertAtNewLineBelowCursor:
		inverse.Start = offset - 1
		inverse.End = offset
	case types.InsertAtNewLineAboveCursor:
		inverse.End = offset + 1
	}
	op.Inverse = inverse
	op.Close()
	return inverse
}

func (op *Insert) Length() int {
	return runeCount(op.Text)
}

func (op *Insert) AddCharacter(c rune) {
	op.Text += string(c)
}

func (op *Insert) DeleteCharacter() {
	text := []rune(op.Text)
	if len(text) > 0 {
		op.Text = string(text[0 : len(text)-1])
	}
}

// Close fixes the extent of the inverse once typing is finished.
func (op *Insert) Close() {
	if op.Inverse == nil {
		return
	}
	extra := 0
	if op.Position == types.InsertAtNewLineBelowCursor ||
		op.Position == types.InsertAtNewLineAboveCursor {
		extra = 1
	}
	op.Inverse.End = op.Inverse.Start + runeCount(op.Text) + extra
}
