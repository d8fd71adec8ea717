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

package commander

import (
	"unicode/utf8"

	"github.com/timburks/notopad/pkg/operations"
	"github.com/timburks/notopad/pkg/search"
	"github.com/timburks/notopad/pkg/types"
)

// find moves to the next (or previous) match of the current query and selects it.
func (c *Commander) find(forward bool) error {
	e := c.editor
	c.searchForward = forward
	content := e.Text()
	var span types.Span
	var err error
	if forward {
		span, err = c.search.Next(content, e.CursorOffset())
	} else {
		span, err = c.search.Previous(content, e.CursorOffset())
	}
	if err != nil {
		e.SetSelection(nil)
		return err
	}
	e.MoveCursorToOffset(span.Start)
	e.SetSelection(&span)
	return nil
}

// replaceNext replaces the selected match, or finds the next match and
// replaces that, then selects the match after it.
func (c *Commander) replaceNext(query string, replacement string) error {
	e := c.editor
	c.search.Query = query
	content := e.Text()
	selected := e.GetSelection()
	if selected == nil || c.search.Last == nil || *selected != *c.search.Last {
		if _, err := c.search.Next(content, e.CursorOffset()); err != nil {
			return err
		}
	}
	span := *c.search.Last
	if _, err := c.search.ReplaceCurrent(content, replacement); err != nil {
		// the query or options changed after the match was selected
		if _, err := c.search.Next(content, e.CursorOffset()); err != nil {
			return err
		}
		span = *c.search.Last
		if _, err := c.search.ReplaceCurrent(content, replacement); err != nil {
			return err
		}
	}
	e.Perform(&operations.ReplaceText{Start: span.Start, End: span.End, Text: replacement}, 1)
	// select the next match so that it can be replaced in turn
	if err := c.find(true); err != nil {
		c.setMessage("Replaced 1 occurrence, no more matches")
		return nil
	}
	c.setMessage("Replaced 1 occurrence")
	return nil
}

// replaceAll replaces every match as a single undoable operation.
func (c *Commander) replaceAll(query string, replacement string) (int, error) {
	e := c.editor
	content := e.Text()
	updated, count, err := search.ReplaceAll(content, query, replacement, c.search.Options)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		offset := e.CursorOffset()
		e.Perform(&operations.ReplaceText{
			Start: 0,
			End:   utf8.RuneCountInString(content),
			Text:  updated,
			Keep:  true,
		}, 1)
		e.MoveCursorToOffset(min(offset, utf8.RuneCountInString(updated)))
	}
	c.search.Reset()
	c.setMessage("Replaced %d occurrence(s)", count)
	return count, nil
}
