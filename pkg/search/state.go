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

package search

import (
	"unicode/utf8"

	"github.com/timburks/notopad/pkg/types"
)

// State remembers the current query and the last match so that repeated
// searches continue where the previous one stopped.
//
// A search with a new query or new options starts at the beginning of the
// text. Repeating a search continues from the cursor, skipping the last
// match when the cursor still sits on it, and stops with ErrNotFound at the
// end of the text instead of wrapping.
type State struct {
	Query string
	Options
	Last *types.Span // the last match, if any

	searched bool
	previous Options
	query    string
}

func (s *State) changed() bool {
	return !s.searched || s.query != s.Query || s.previous != s.Options
}

func (s *State) remember(span types.Span, err error) (types.Span, error) {
	if s.changed() {
		s.Last = nil
	}
	s.searched = true
	s.query = s.Query
	s.previous = s.Options
	if err == nil {
		s.Last = &span
	}
	return span, err
}

// valid reports whether the last match still lies inside the text.
func (s *State) valid(content string) bool {
	return s.Last != nil && s.Last.End <= utf8.RuneCountInString(content)
}

// Next finds the next match at or after cursor.
func (s *State) Next(content string, cursor int) (types.Span, error) {
	from := cursor
	switch {
	case s.changed():
		from = 0
	case s.valid(content) && cursor == s.Last.Start:
		from = s.Last.End
	}
	return s.remember(FindNext(content, from, s.Query, s.Options))
}

// Previous finds the closest match that starts before cursor. A new query
// searches back from the end of the text.
func (s *State) Previous(content string, cursor int) (types.Span, error) {
	before := cursor + utf8.RuneCountInString(s.Query) - 1
	if s.changed() {
		before = utf8.RuneCountInString(content)
	}
	return s.remember(FindPrevious(content, before, s.Query, s.Options))
}

// ReplaceCurrent replaces the last match and returns the new content. The
// next search continues after the replacement text.
func (s *State) ReplaceCurrent(content string, replacement string) (string, error) {
	if !s.valid(content) || s.changed() {
		return content, &types.InputError{Field: "match", Reason: "no current match"}
	}
	m, err := newMatcher(content, s.Query, s.Options)
	if err != nil {
		return content, err
	}
	if !m.matchAt(s.Last.Start) {
		return content, &types.InputError{Field: "match", Reason: "text changed since the last search"}
	}
	r := []rune(replacement)
	updated := make([]rune, 0, len(m.text)-len(m.query)+len(r))
	updated = append(updated, m.text[:s.Last.Start]...)
	updated = append(updated, r...)
	updated = append(updated, m.text[s.Last.End:]...)
	s.Last = &types.Span{Start: s.Last.Start, End: s.Last.Start + len(r)}
	return string(updated), nil
}

// Reset forgets the last match.
func (s *State) Reset() {
	s.Last = nil
	s.searched = false
}
