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

// Package spell checks words against a word list.
package spell

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/timburks/notopad/pkg/types"
)

// A Checker knows a set of words. Lookups ignore case.
type Checker struct {
	words map[string]struct{}
}

func NewChecker(words []string) *Checker {
	c := &Checker{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		c.Add(w)
	}
	return c
}

// Load reads a word list with one word per line. A dictionary that can't
// be read makes spell-checking unavailable.
func Load(path string) (*Checker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spell-check: %w", &types.FileError{Op: "read", Path: path, Err: fmt.Errorf("%w: %v", types.ErrFeatureUnavailable, err)})
	}
	defer f.Close()
	c := NewChecker(nil)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		c.Add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &types.FileError{Op: "read", Path: path, Err: err}
	}
	if len(c.words) == 0 {
		return nil, fmt.Errorf("spell-check: %s has no words: %w", path, types.ErrFeatureUnavailable)
	}
	return c, nil
}

func (c *Checker) Add(word string) {
	word = strings.TrimSpace(word)
	if word != "" {
		c.words[strings.ToLower(word)] = struct{}{}
	}
}

func (c *Checker) Len() int {
	return len(c.words)
}

func (c *Checker) Known(word string) bool {
	_, ok := c.words[strings.ToLower(word)]
	return ok
}

// Words splits text into runs of letters, digits and underscores.
func Words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// Check returns the unknown words of text in the order they appear.
// Numbers are never reported.
func (c *Checker) Check(text string) []string {
	misspelled := make([]string, 0)
	for _, w := range Words(text) {
		if isNumber(w) || c.Known(w) {
			continue
		}
		misspelled = append(misspelled, w)
	}
	return misspelled
}

func isNumber(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
