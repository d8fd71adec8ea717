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

// ChangeWord deletes words at the cursor and replaces them with typed text.
type ChangeWord struct {
	operation
	Text      string
	Inverse   *ReplaceText
	Commander types.Commander
}

func (op *ChangeWord) Perform(e types.Editor, multiplier int) types.Operation {
	op.init(e, multiplier)

	if op.Text == "" {
		e.SetInsertOperation(op)
	}

	offset := e.OffsetForPoint(op.Cursor)
	deletedText := e.DeleteWordsAtCursor(op.Multiplier)
	e.SetCursor(e.PointForOffset(offset))

	_, newMode := e.InsertText(op.Text, types.InsertAtCursor)
	if op.Commander != nil {
		op.Commander.SetMode(newMode)
	}

	inverse := restore(&op.operation, offset, deletedText)
	op.Inverse = inverse
	op.Close()
	return inverse
}

func (op *ChangeWord) Length() int {
	return runeCount(op.Text)
}

func (op *ChangeWord) AddCharacter(c rune) {
	op.Text += string(c)
}

func (op *ChangeWord) DeleteCharacter() {
	text := []rune(op.Text)
	if len(text) > 0 {
		op.Text = string(text[0 : len(text)-1])
	}
}

func (op *ChangeWord) Close() {
	if op.Inverse != nil {
		op.Inverse.End = op.Inverse.Start + runeCount(op.Text)
	}
}
