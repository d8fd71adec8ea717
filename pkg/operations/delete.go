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

// DeleteCharacter deletes characters from the cursor to at most the end of the row.
type DeleteCharacter struct {
	operation
}

func (op *DeleteCharacter) Perform(e types.Editor, multiplier int) types.Operation {
	op.init(e, multiplier)
	offset := e.OffsetForPoint(op.Cursor)
	deletedText := e.DeleteCharactersAtCursor(op.Multiplier)
	if deletedText == "" {
		return nil
	}
	e.SetPasteBoard(deletedText, types.PasteAtCursor)
	return restore(&op.operation, offset, deletedText)
}

// DeleteWord deletes words starting at the cursor.
type DeleteWord struct {
	operation
}

func (op *DeleteWord) Perform(e types.Editor, multiplier int) types.Operation {
	op.init(e, multiplier)
	offset := e.OffsetForPoint(op.Cursor)
	deletedText := e.DeleteWordsAtCursor(op.Multiplier)
	if deletedText == "" {
		return nil
	}
	e.SetPasteBoard(deletedText, types.PasteAtCursor)
	return restore(&op.operation, offset, deletedText)
}

// DeleteRow deletes whole rows and puts them on the pasteboard.
type DeleteRow struct {
	operation
}

func (op *DeleteRow) Perform(e types.Editor, multiplier int) types.Operation {
	op.init(e, multiplier)
	offset, deletedText := e.DeleteRowsAtCursor(op.Multiplier)
	if deletedText == "" {
		return nil
	}
	return restore(&op.operation, offset, deletedText)
}
