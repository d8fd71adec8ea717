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
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unicode"

	"github.com/steelseries/golisp"

	"github.com/timburks/notopad/pkg/operations"
	"github.com/timburks/notopad/pkg/types"
)

// Primitives act on the most recently created commander.
var (
	current *Commander
	once    sync.Once
)

type primitive struct {
	name     string
	argCount string
	function func(c *Commander, args *golisp.Data) (*golisp.Data, error)
}

func (c *Commander) bindPrimitives() {
	current = c
	once.Do(func() {
		for _, p := range primitives {
			golisp.MakePrimitiveFunction(p.name, p.argCount,
				func(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
					if current == nil {
						return nil, fmt.Errorf("%s: no editor", p.name)
					}
					return p.function(current, args)
				})
		}
	})
}

// parseEval evaluates an expression for a key or the lisp command line.
// Errors go to the message bar. An empty result means there is nothing to show.
func (c *Commander) parseEval(command string) string {
	value, err := golisp.ParseAndEval(command)
	if err != nil {
		slog.Debug("lisp evaluation failed", "expr", command, "err", err)
		c.reportError(err)
		return ""
	}
	if golisp.NilP(value) {
		return ""
	}
	return golisp.String(value)
}

// ParseEval evaluates an expression as a script. Commands that would
// ask a question fail instead.
func (c *Commander) ParseEval(command string) (string, error) {
	batch := c.batch
	c.batch = true
	defer func() { c.batch = batch }()
	value, err := golisp.ParseAndEval(command)
	if err != nil {
		return "", err
	}
	if golisp.NilP(value) {
		return "", nil
	}
	return golisp.String(value), nil
}

// ParseEvalScript evaluates each top-level expression of a script in
// order and returns the value of the last one.
func (c *Commander) ParseEvalScript(script string) (string, error) {
	forms, err := splitForms(script)
	if err != nil {
		return "", err
	}
	result := ""
	for _, form := range forms {
		if result, err = c.ParseEval(form); err != nil {
			return result, fmt.Errorf("%s: %w", form, err)
		}
	}
	return result, nil
}

// splitForms splits a script into its top-level parenthesized expressions.
// Comments run from ; to the end of the line.
func splitForms(script string) ([]string, error) {
	var forms []string
	depth, start := 0, 0
	inString, escaped, comment := false, false, false
	for i, r := range script {
		switch {
		case comment:
			comment = r != '\n'
		case inString:
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
		case r == ';':
			comment = true
		case r == '"' && depth > 0:
			inString = true
		case r == '(':
			if depth == 0 {
				start = i
			}
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return nil, errors.New("unbalanced )")
			}
			if depth == 0 {
				forms = append(forms, script[start:i+1])
			}
		case depth == 0 && !unicode.IsSpace(r):
			return nil, fmt.Errorf("unexpected %q outside an expression", r)
		}
	}
	if depth > 0 {
		return nil, errors.New("unterminated expression")
	}
	return forms, nil
}

func stringArg(name string, d *golisp.Data) (string, error) {
	if !golisp.StringP(d) {
		return "", fmt.Errorf("%s requires a string argument", name)
	}
	return golisp.StringValue(d), nil
}

func intArg(name string, d *golisp.Data) (int, error) {
	if !golisp.IntegerP(d) {
		return 0, fmt.Errorf("%s requires an integer argument", name)
	}
	return int(golisp.IntegerValue(d)), nil
}

// optionalStringArg returns the first argument, or "" if there is none.
func optionalStringArg(name string, args *golisp.Data) (string, error) {
	if golisp.NilP(args) {
		return "", nil
	}
	return stringArg(name, golisp.Car(args))
}

// move builds a primitive that moves the cursor without changing the text.
func move(name string, f func(c *Commander, multiplier int)) primitive {
	return primitive{name, "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		f(c, c.getMultiplier())
		return nil, nil
	}}
}

// perform builds a primitive that performs an undoable operation.
func perform(name string, newOperation func(c *Commander) types.Operation) primitive {
	return primitive{name, "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		c.editor.Perform(newOperation(c), c.getMultiplier())
		return nil, nil
	}}
}

func insert(name string, position int) primitive {
	return perform(name, func(c *Commander) types.Operation {
		return &operations.Insert{Position: position, Commander: c}
	})
}

// enter builds a primitive that switches to one of the message bar's input modes.
func enter(name string, mode int, text func(c *Commander) *string, initial string) primitive {
	return primitive{name, "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		c.mode = mode
		*text(c) = initial
		return nil, nil
	}}
}

var primitives = []primitive{
	//
	// cursor movement
	//
	move("up", func(c *Commander, m int) { c.editor.MoveCursor(types.MoveUp, m) }),
	move("down", func(c *Commander, m int) { c.editor.MoveCursor(types.MoveDown, m) }),
	move("left", func(c *Commander, m int) { c.editor.MoveCursor(types.MoveLeft, m) }),
	move("right", func(c *Commander, m int) { c.editor.MoveCursor(types.MoveRight, m) }),
	move("next-word", func(c *Commander, m int) { c.editor.MoveCursorToNextWord(m) }),
	move("previous-word", func(c *Commander, m int) { c.editor.MoveCursorToPreviousWord(m) }),
	move("page-up", func(c *Commander, m int) { c.editor.PageUp(m) }),
	move("page-down", func(c *Commander, m int) { c.editor.PageDown(m) }),
	move("half-page-up", func(c *Commander, m int) { c.editor.HalfPageUp(m) }),
	move("half-page-down", func(c *Commander, m int) { c.editor.HalfPageDown(m) }),
	move("beginning-of-line", func(c *Commander, m int) { c.editor.MoveToBeginningOfLine() }),
	move("end-of-line", func(c *Commander, m int) { c.editor.MoveToEndOfLine() }),
	move("goto-end", func(c *Commander, m int) { _ = c.editor.MoveCursorToLine(c.editor.GetRowCount()) }),
	{"goto", "1", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		line, err := intArg("goto", golisp.Car(args))
		if err != nil {
			return nil, err
		}
		return nil, c.editor.MoveCursorToLine(line)
	}},
	//
	// modes
	//
	{"command-mode", "*", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		text, err := optionalStringArg("command-mode", args)
		if err != nil {
			return nil, err
		}
		c.mode = types.ModeCommand
		c.commandText = text
		return nil, nil
	}},
	enter("lisp-mode", types.ModeLisp, func(c *Commander) *string { return &c.lispText }, "("),
	enter("search-forward-mode", types.ModeSearchForward, func(c *Commander) *string { return &c.searchText }, ""),
	enter("search-backward-mode", types.ModeSearchBackward, func(c *Commander) *string { return &c.searchText }, ""),
	{"replace-mode", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		if c.search.Query == "" {
			return nil, &types.InputError{Field: "query", Reason: "search for the text to replace first"}
		}
		c.mode = types.ModeReplace
		c.replaceText = ""
		return nil, nil
	}},
	//
	// searching
	//
	{"repeat-search-forward", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		return nil, c.find(true)
	}},
	{"repeat-search-backward", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		return nil, c.find(false)
	}},
	{"find", "1", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		query, err := stringArg("find", golisp.Car(args))
		if err != nil {
			return nil, err
		}
		c.search.Query = query
		if err := c.find(true); err != nil {
			return golisp.BooleanWithValue(false), err
		}
		return golisp.BooleanWithValue(true), nil
	}},
	{"replace-all", "2", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		query, err := stringArg("replace-all", golisp.Car(args))
		if err != nil {
			return nil, err
		}
		replacement, err := stringArg("replace-all", golisp.Cadr(args))
		if err != nil {
			return nil, err
		}
		count, err := c.replaceAll(query, replacement)
		if err != nil {
			return nil, err
		}
		return golisp.IntegerWithValue(int64(count)), nil
	}},
	//
	// "performed" operations are saved for undo and repetition
	//
	insert("insert-at-cursor", types.InsertAtCursor),
	insert("insert-after-cursor", types.InsertAfterCursor),
	insert("insert-at-start-of-line", types.InsertAtStartOfLine),
	insert("insert-after-end-of-line", types.InsertAfterEndOfLine),
	insert("insert-at-new-line-below-cursor", types.InsertAtNewLineBelowCursor),
	insert("insert-at-new-line-above-cursor", types.InsertAtNewLineAboveCursor),
	perform("delete-character", func(c *Commander) types.Operation { return &operations.DeleteCharacter{} }),
	perform("delete-word", func(c *Commander) types.Operation { return &operations.DeleteWord{} }),
	perform("delete-row", func(c *Commander) types.Operation { return &operations.DeleteRow{} }),
	perform("join-line", func(c *Commander) types.Operation { return &operations.JoinLine{} }),
	perform("paste", func(c *Commander) types.Operation { return &operations.Paste{} }),
	perform("reverse-case-character", func(c *Commander) types.Operation { return &operations.ReverseCaseCharacter{} }),
	perform("change-word", func(c *Commander) types.Operation { return &operations.ChangeWord{Commander: c} }),
	perform("replace-character", func(c *Commander) types.Operation {
		return &operations.ReplaceCharacter{Character: c.lastCh}
	}),
	{"insert", "1", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		text, err := stringArg("insert", golisp.Car(args))
		if err != nil {
			return nil, err
		}
		c.editor.Perform(&operations.Insert{Position: types.InsertAtCursor, Text: text}, 1)
		return nil, nil
	}},
	{"yank-row", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		c.editor.YankRow(c.getMultiplier())
		return nil, nil
	}},
	{"cut-row", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		c.cutRow(c.getMultiplier())
		return nil, nil
	}},
	{"copy-row", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		c.copyRow(c.getMultiplier())
		return nil, nil
	}},
	{"paste-clipboard", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		c.pasteClipboard(c.getMultiplier())
		return nil, nil
	}},
	//
	// undo, redo and repeat
	//
	{"undo", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		c.multiplierText = ""
		if !c.editor.CanUndo() {
			c.setMessage("Nothing to undo")
			return golisp.BooleanWithValue(false), nil
		}
		return golisp.BooleanWithValue(c.editor.PerformUndo()), nil
	}},
	{"redo", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		c.multiplierText = ""
		if !c.editor.CanRedo() {
			c.setMessage("Nothing to redo")
			return golisp.BooleanWithValue(false), nil
		}
		return golisp.BooleanWithValue(c.editor.PerformRedo()), nil
	}},
	{"repeat", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		c.multiplierText = ""
		c.editor.Repeat()
		return nil, nil
	}},
	//
	// files
	//
	{"save", "*", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		path, err := optionalStringArg("save", args)
		if err != nil {
			return nil, err
		}
		if path == "" && c.editor.GetFileName() == "" && !c.batch {
			c.mode = types.ModeCommand
			c.commandText = "saveas "
			return nil, nil
		}
		return nil, c.save(path)
	}},
	{"open", "1", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		path, err := stringArg("open", golisp.Car(args))
		if err != nil {
			return nil, err
		}
		return nil, c.confirm(func() error { return c.open(path) })
	}},
	{"new", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		return nil, c.confirm(c.newDocument)
	}},
	{"quit", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		return nil, c.confirm(c.quit)
	}},
	//
	// information and appearance
	//
	{"word-count", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		return golisp.IntegerWithValue(int64(c.editor.Stats().Words)), nil
	}},
	{"text", "0", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		return golisp.StringWithValue(c.editor.Text()), nil
	}},
	{"theme", "1", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		name, err := stringArg("theme", golisp.Car(args))
		if err != nil {
			return nil, err
		}
		return nil, c.setTheme([]string{name})
	}},
	{"message", "1", func(c *Commander, args *golisp.Data) (*golisp.Data, error) {
		text, err := stringArg("message", golisp.Car(args))
		if err != nil {
			return nil, err
		}
		c.setMessage("%s", text)
		return nil, nil
	}},
}
