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

// A Sequence performs several operations in order.
type Sequence struct {
	operation
	Operations []types.Operation
}

func (op *Sequence) Perform(e types.Editor, multiplier int) types.Operation {
	op.init(e, multiplier)
	inverses := make([]types.Operation, 0, len(op.Operations))
	for _, o := range op.Operations {
		if inverse := o.Perform(e, 1); inverse != nil {
			inverses = append([]types.Operation{inverse}, inverses...)
		}
	}
	inverse := &Sequence{Operations: inverses}
	inverse.copyForUndo(&op.operation)
	return inverse
}
