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
	"errors"
	"testing"

	"github.com/timburks/notopad/pkg/types"
)

func TestFindNext(t *testing.T) {
	tests := []struct {
		name    string
		content string
		from    int
		query   string
		options Options
		want    types.Span
		err     error
	}{
		{"single match", "the quick brown fox", 0, "brown", Options{CaseSensitive: true}, types.Span{Start: 10, End: 15}, nil},
		{"case sensitive miss", "the quick Brown fox", 0, "brown", Options{CaseSensitive: true}, types.Span{}, ErrNotFound},
		{"case insensitive", "the quick Brown fox", 0, "bROWN", Options{}, types.Span{Start: 10, End: 15}, nil},
		{"from offset", "foo bar foo", 1, "foo", Options{CaseSensitive: true}, types.Span{Start: 8, End: 11}, nil},
		{"no wrap", "foo bar foo", 9, "foo", Options{CaseSensitive: true}, types.Span{}, ErrNotFound},
		{"whole word", "category cat", 0, "cat", Options{WholeWord: true}, types.Span{Start: 9, End: 12}, nil},
		{"whole word underscore", "a_cat cat_b", 0, "cat", Options{WholeWord: true}, types.Span{}, ErrNotFound},
		{"runes", "naïve café", 0, "café", Options{}, types.Span{Start: 6, End: 10}, nil},
		{"multiline", "one\ntwo\nthree", 0, "two\nth", Options{}, types.Span{Start: 4, End: 10}, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			span, err := FindNext(test.content, test.from, test.query, test.options)
			if !errors.Is(err, test.err) {
				t.Fatalf("Unexpected error: %v", err)
			}
			if span != test.want {
				t.Errorf("Got %+v, want %+v", span, test.want)
			}
		})
	}
}

func TestFindNextSingleOccurrence(t *testing.T) {
	contents := []string{
		"needle",
		"haystack needle haystack",
		"hay\nstack\nneedle",
	}
	for _, content := range contents {
		span, err := FindNext(content, 0, "needle", Options{CaseSensitive: true})
		if err != nil {
			t.Fatalf("Search of %q failed: %v", content, err)
		}
		if got := string([]rune(content)[span.Start:span.End]); got != "needle" {
			t.Errorf("Span %+v of %q covers %q", span, content, got)
		}
	}
}

func TestEmptyQuery(t *testing.T) {
	var inputErr *types.InputError
	if _, err := FindNext("text", 0, "", Options{}); !errors.As(err, &inputErr) {
		t.Errorf("Expected an InputError, got %v", err)
	}
	if _, _, err := ReplaceAll("text", "", "x", Options{}); !errors.As(err, &inputErr) {
		t.Errorf("Expected an InputError, got %v", err)
	}
}

func TestFindPrevious(t *testing.T) {
	span, err := FindPrevious("foo bar foo", 11, "foo", Options{})
	if err != nil || span.Start != 8 {
		t.Errorf("Unexpected result: %+v %v", span, err)
	}
	span, err = FindPrevious("foo bar foo", 10, "foo", Options{})
	if err != nil || span.Start != 0 {
		t.Errorf("Unexpected result: %+v %v", span, err)
	}
	if _, err = FindPrevious("foo bar foo", 2, "foo", Options{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFindAll(t *testing.T) {
	spans, err := FindAll("aaaa", "aa", Options{CaseSensitive: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) != 2 || spans[1].Start != 2 {
		t.Errorf("Matches overlap: %+v", spans)
	}
}

func TestReplaceAll(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		query       string
		replacement string
		options     Options
		want        string
		count       int
	}{
		{"whole word", "foo bar foo", "foo", "baz", Options{CaseSensitive: true, WholeWord: true}, "baz bar baz", 2},
		{"not inside identifiers", "cat category concat cat.", "cat", "dog", Options{WholeWord: true}, "dog category concat dog.", 2},
		{"substring", "cat category", "cat", "dog", Options{CaseSensitive: true}, "dog dogegory", 2},
		{"case folded", "Foo fOO foo", "foo", "x", Options{}, "x x x", 3},
		{"case sensitive", "Foo fOO foo", "foo", "x", Options{CaseSensitive: true}, "Foo fOO x", 1},
		{"no overlap", "aaa", "aa", "b", Options{CaseSensitive: true}, "ba", 1},
		{"no match", "abc", "z", "y", Options{}, "abc", 0},
		{"replacement contains query", "ab", "a", "aa", Options{}, "aab", 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, count, err := ReplaceAll(test.content, test.query, test.replacement, test.options)
			if err != nil {
				t.Fatal(err)
			}
			if got != test.want || count != test.count {
				t.Errorf("Got %q (%d), want %q (%d)", got, count, test.want, test.count)
			}
		})
	}
}

func TestStateNext(t *testing.T) {
	content := "foo bar foo"
	s := &State{Query: "foo", Options: Options{CaseSensitive: true}}
	span, err := s.Next(content, 5)
	if err != nil || span.Start != 0 {
		t.Fatalf("A new query should start at the beginning: %+v %v", span, err)
	}
	span, err = s.Next(content, 0)
	if err != nil || span.Start != 8 {
		t.Fatalf("Repeated search should continue: %+v %v", span, err)
	}
	if _, err = s.Next(content, 8); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Search wrapped at the end of the text: %v", err)
	}
	if _, err = s.Next(content, 8); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Search wrapped on a repeat: %v", err)
	}
	// changing the query starts over
	s.Query = "bar"
	span, err = s.Next(content, 10)
	if err != nil || span.Start != 4 {
		t.Fatalf("Changed query should start over: %+v %v", span, err)
	}
	// so does changing an option
	s.Query = "FOO"
	s.Next(content, 0)
	s.CaseSensitive = false
	span, err = s.Next(content, 10)
	if err != nil || span.Start != 0 {
		t.Fatalf("Changed options should start over: %+v %v", span, err)
	}
}

func TestStatePrevious(t *testing.T) {
	content := "foo bar foo"
	s := &State{Query: "foo"}
	span, err := s.Previous(content, 0)
	if err != nil || span.Start != 8 {
		t.Fatalf("A new query should search back from the end: %+v %v", span, err)
	}
	span, err = s.Previous(content, 8)
	if err != nil || span.Start != 0 {
		t.Fatalf("Repeated search should continue: %+v %v", span, err)
	}
	if _, err = s.Previous(content, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Search wrapped at the start of the text: %v", err)
	}
}

func TestStateFollowsCursor(t *testing.T) {
	content := "foo\nfoo\nfoo\nfoo"
	s := &State{Query: "foo"}
	if span, err := s.Next(content, 0); err != nil || span.Start != 0 {
		t.Fatalf("Unexpected first match: %+v %v", span, err)
	}
	// the cursor moved to the middle of the last line
	if _, err := s.Next(content, 13); !errors.Is(err, ErrNotFound) {
		t.Errorf("Search went back behind the cursor: %v", err)
	}
	span, err := s.Next(content, 5)
	if err != nil || span.Start != 8 {
		t.Errorf("Search should continue from the cursor: %+v %v", span, err)
	}
	span, err = s.Previous(content, 13)
	if err != nil || span.Start != 12 {
		t.Errorf("Backward search should start from the cursor: %+v %v", span, err)
	}
	span, err = s.Previous(content, 12)
	if err != nil || span.Start != 8 {
		t.Errorf("Backward search should skip the match at the cursor: %+v %v", span, err)
	}
}

func TestReplaceCurrent(t *testing.T) {
	content := "foo bar foo"
	s := &State{Query: "foo"}
	if _, err := s.ReplaceCurrent(content, "x"); err == nil {
		t.Errorf("Replaced without a match")
	}
	if _, err := s.Next(content, 0); err != nil {
		t.Fatal(err)
	}
	content, err := s.ReplaceCurrent(content, "x")
	if err != nil {
		t.Fatal(err)
	}
	if content != "x bar foo" {
		t.Errorf("Unexpected content: %q", content)
	}
	span, err := s.Next(content, 0)
	if err != nil || span.Start != 6 {
		t.Errorf("Search after replacement should continue: %+v %v", span, err)
	}
}
