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

// ReplaceText replaces the runes in [Start, End) with Text. It is the
// inverse of most other operations, and its own inverse is another ReplaceText.
type ReplaceText struct {
	operation
	Start int
	End   int
	Text  string
	Keep  bool // leave the cursor where it is instead of moving to Start
}

func (op *ReplaceText) Perform(e types.Editor, multiplier int) types.Operation {
	before := e.GetCursor()
	op.init(e, multiplier)
	old := e.ReplaceRange(op.Start, op.End, op.Text)
	switch {
	case op.Undo:
		e.SetCursor(op.Cursor)
	case op.Keep:
		e.SetCursor(before)
	default:
		e.SetCursor(e.PointForOffset(op.Start))
	}
	inverse := &ReplaceText{
		Start: op.Start,
		End:   op.Start + runeCount(op.Text),
		Text:  old,
	}
	inverse.copyForUndo(&op.operation)
	inverse.Cursor = before
	return inverse
}
