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
	"strings"
	"unicode"
)

// Stats summarizes the text of a buffer.
type Stats struct {
	Words              int
	Lines              int
	Characters         int
	CharactersNoSpaces int
}

func ComputeStats(text string) Stats {
	s := Stats{
		Words: len(strings.Fields(text)),
		Lines: strings.Count(text, "\n") + 1,
	}
	for _, c := range text {
		s.Characters++
		if !unicode.IsSpace(c) {
			s.CharactersNoSpaces++
		}
	}
	return s
}
