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

// Package search finds and replaces text in a document. Offsets and spans
// are measured in runes. Case-insensitive searches fold each rune to lower
// case, and whole-word searches only match when the characters on both
// sides of the match are not letters, digits or underscores.
package search

import (
	"errors"
	"unicode"

	"github.com/timburks/notopad/pkg/types"
)

// ErrNotFound is returned when a search reaches the end of the text without a match.
var ErrNotFound = errors.New("text not found")

type Options struct {
	CaseSensitive bool
	WholeWord     bool
}

type matcher struct {
	text  []rune
	query []rune
	Options
}

func newMatcher(content, query string, options Options) (*matcher, error) {
	if query == "" {
		return nil, &types.InputError{Field: "query", Reason: "empty search text"}
	}
	return &matcher{text: []rune(content), query: []rune(query), Options: options}, nil
}

func isWordCharacter(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

func (m *matcher) matchAt(i int) bool {
	if i < 0 || i+len(m.query) > len(m.text) {
		return false
	}
	for j, q := range m.query {
		c := m.text[i+j]
		if !m.CaseSensitive {
			c = unicode.ToLower(c)
			q = unicode.ToLower(q)
		}
		if c != q {
			return false
		}
	}
	if m.WholeWord {
		if i > 0 && isWordCharacter(m.text[i-1]) {
			return false
		}
		end := i + len(m.query)
		if end < len(m.text) && isWordCharacter(m.text[end]) {
			return false
		}
	}
	return true
}

func (m *matcher) span(i int) types.Span {
	return types.Span{Start: i, End: i + len(m.query)}
}

// FindNext returns the first match that starts at or after from.
// It does not wrap around to the start of the text.
func FindNext(content string, from int, query string, options Options) (types.Span, error) {
	m, err := newMatcher(content, query, options)
	if err != nil {
		return types.Span{}, err
	}
	if from < 0 {
		from = 0
	}
	for i := from; i+len(m.query) <= len(m.text); i++ {
		if m.matchAt(i) {
			return m.span(i), nil
		}
	}
	return types.Span{}, ErrNotFound
}

// FindPrevious returns the last match that ends at or before before.
func FindPrevious(content string, before int, query string, options Options) (types.Span, error) {
	m, err := newMatcher(content, query, options)
	if err != nil {
		return types.Span{}, err
	}
	if before > len(m.text) {
		before = len(m.text)
	}
	for i := before - len(m.query); i >= 0; i-- {
		if m.matchAt(i) {
			return m.span(i), nil
		}
	}
	return types.Span{}, ErrNotFound
}

// FindAll returns every non-overlapping match, scanning from the start.
func FindAll(content string, query string, options Options) ([]types.Span, error) {
	m, err := newMatcher(content, query, options)
	if err != nil {
		return nil, err
	}
	spans := make([]types.Span, 0)
	for i := 0; i+len(m.query) <= len(m.text); {
		if m.matchAt(i) {
			spans = append(spans, m.span(i))
			i += len(m.query)
		} else {
			i++
		}
	}
	return spans, nil
}

// ReplaceAll replaces every non-overlapping match in a single pass and
// returns the new content with the number of replacements.
func ReplaceAll(content string, query string, replacement string, options Options) (string, int, error) {
	m, err := newMatcher(content, query, options)
	if err != nil {
		return content, 0, err
	}
	r := []rune(replacement)
	updated := make([]rune, 0, len(m.text))
	count := 0
	for i := 0; i < len(m.text); {
		if m.matchAt(i) {
			updated = append(updated, r...)
			i += len(m.query)
			count++
		} else {
			updated = append(updated, m.text[i])
			i++
		}
	}
	if count == 0 {
		return content, 0, nil
	}
	return string(updated), count, nil
}
