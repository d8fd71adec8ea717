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
	"strings"

	"github.com/timburks/notopad/pkg/types"
)

// Paste pastes the contents of the pasteboard into a buffer.
type Paste struct {
	operation
}

func (op *Paste) Perform(e types.Editor, multiplier int) types.Operation {
	op.init(e, multiplier)
	text := e.GetPasteText()
	if text == "" {
		return nil
	}
	text = strings.Repeat(text, op.Multiplier)

	var offset int
	var cursor types.Point
	if e.GetPasteMode() == types.PasteNewLine {
		row := op.Cursor.Row + 1
		if row < e.GetRowCount() {
			cursor = types.Point{Row: row, Col: 0}
			offset = e.OffsetForPoint(cursor)
		} else {
			// there is no row below, so start one
			cursor = types.Point{Row: row, Col: 0}
			offset = e.OffsetForPoint(types.Point{Row: row - 1, Col: e.GetRowLength(row - 1)})
			text = "\n" + strings.TrimSuffix(text, "\n")
		}
	} else {
		offset = e.OffsetForPoint(op.Cursor)
		cursor = op.Cursor
	}
	e.ReplaceRange(offset, offset, text)
	e.SetCursor(cursor)

	inverse := &ReplaceText{Start: offset, End: offset + runeCount(text)}
	inverse.copyForUndo(&op.operation)
	return inverse
}
