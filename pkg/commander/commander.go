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
	"strconv"
	"time"

	"github.com/timburks/notopad/pkg/capability"
	"github.com/timburks/notopad/pkg/config"
	"github.com/timburks/notopad/pkg/editor"
	"github.com/timburks/notopad/pkg/recent"
	"github.com/timburks/notopad/pkg/search"
	"github.com/timburks/notopad/pkg/types"
)

// MessageTimeout is how long a message stays on the message bar.
const MessageTimeout = 3 * time.Second

// Ready is shown on the message bar when there is nothing else to say.
const Ready = "Ready"

// A FileWatcher is told which file is being edited so that it can
// report changes made by other programs.
type FileWatcher interface {
	SetFile(path string) error
}

// An IntervalTimer drives auto-save and can change its interval while running.
type IntervalTimer interface {
	Reset(interval time.Duration)
}

// Options holds the parts of a session that the commander works with.
// Missing settings and recent lists are replaced with in-memory defaults.
type Options struct {
	Settings     *config.Settings
	Recent       *recent.List
	Capabilities capability.Capabilities
	Watcher      FileWatcher
	Timer        IntervalTimer
}

// The Commander converts user input into commands to the editor.
type Commander struct {
	editor         *editor.Editor
	settings       *config.Settings
	recent         *recent.List
	caps           capability.Capabilities
	watcher        FileWatcher
	timer          IntervalTimer
	search         search.State     // query, options and last match
	batch          bool             // true if commander is running a lisp script
	mode           int              // editor mode
	debug          bool             // debug mode displays information about events (key codes, etc)
	editKeys       string           // edit key sequences in progress
	commandText    string           // command as it is being typed on the command line
	searchText     string           // text for searches as it is being typed
	searchForward  bool             // true to search forward, false to search backward
	replaceText    string           // replacement text as it is being typed
	lispText       string           // lisp command as it is being typed
	multiplierText string           // multiplier string as it is being entered
	message        string           // status message
	messageTime    time.Time        // when the message was set
	pending        func() error     // action waiting for the answer to "save changes?"
	lastKey        types.Key        // last key pressed
	lastCh         rune             // last character pressed (if key == 0)
	now            func() time.Time // clock for message expiry
}

func NewCommander(e *editor.Editor, options Options) *Commander {
	c := &Commander{
		editor:        e,
		settings:      options.Settings,
		recent:        options.Recent,
		caps:          options.Capabilities,
		watcher:       options.Watcher,
		timer:         options.Timer,
		mode:          types.ModeEdit,
		searchForward: true,
		now:           time.Now,
	}
	if c.settings == nil {
		c.settings = config.Default()
	}
	if c.recent == nil {
		c.recent = recent.New("")
	}
	c.applySettings()
	c.bindPrimitives()
	return c
}

// applySettings pushes the display settings into the editor.
func (c *Commander) applySettings() {
	e := c.editor
	e.SetTheme(editor.ThemeNamed(c.settings.Theme))
	e.SetTabWidth(c.settings.TabWidth)
	e.SetLineNumbers(c.settings.LineNumbers)
	e.SetHighlighting(c.settings.Highlighting && c.caps.Has(capability.Highlighting))
}

func (c *Commander) GetEditor() *editor.Editor {
	return c.editor
}

func (c *Commander) GetSettings() *config.Settings {
	return c.settings
}

func (c *Commander) getMode() int {
	return c.mode
}

func (c *Commander) SetMode(m int) {
	c.mode = m
}

func (c *Commander) getModeName() string {
	switch c.mode {
	case types.ModeEdit:
		return "edit"
	case types.ModeInsert:
		return "insert"
	case types.ModeCommand:
		return "command"
	case types.ModeSearchForward:
		return "search-forward"
	case types.ModeSearchBackward:
		return "search-backward"
	case types.ModeReplace:
		return "replace"
	case types.ModeConfirm:
		return "confirm"
	case types.ModeLisp:
		return "lisp"
	case types.ModeQuit:
		return "quit"
	default:
		return "unknown"
	}
}

func (c *Commander) IsRunning() bool {
	return c.mode != types.ModeQuit
}

// SetBatch marks the commander as running a script, so commands that
// would prompt fail instead.
func (c *Commander) SetBatch(batch bool) {
	c.batch = batch
}

func (c *Commander) setMessage(format string, args ...any) {
	c.message = fmt.Sprintf(format, args...)
	c.messageTime = c.now()
}

// reportError puts an error on the message bar. Errors are never fatal.
func (c *Commander) reportError(err error) {
	if err == nil {
		return
	}
	slog.Info("command failed", "mode", c.getModeName(), "err", err)
	switch {
	case errors.Is(err, search.ErrNotFound):
		c.setMessage("Text not found")
	default:
		c.setMessage("%s", err.Error())
	}
}

// Message returns the current message, or Ready once it has expired.
func (c *Commander) Message() string {
	if c.message == "" || (!c.debug && c.now().Sub(c.messageTime) >= MessageTimeout) {
		return Ready
	}
	return c.message
}

// MessageExpiry returns when the current message will revert to Ready,
// or the zero time if there is nothing to expire.
func (c *Commander) MessageExpiry() time.Time {
	if c.message == "" || c.debug {
		return time.Time{}
	}
	return c.messageTime.Add(MessageTimeout)
}

func (c *Commander) ProcessEvent(event *types.Event) error {
	if c.debug {
		c.setMessage("event=%+v", *event)
	}
	switch event.Type {
	case types.EventKey:
		return c.processKey(event)
	case types.EventTick:
		c.autoSave()
	case types.EventFileChanged:
		c.fileChanged(event.Path)
	case types.EventFileDropped:
		c.fileDropped(event.Path)
	case types.EventError:
		c.reportError(event.Err)
	}
	return nil
}

// Shortcuts work in edit and insert mode.
var shortcuts = map[types.Key]string{
	types.KeyCtrlS: "(save)",
	types.KeyCtrlO: `(command-mode "e ")`,
	types.KeyCtrlN: "(new)",
	types.KeyCtrlQ: "(quit)",
	types.KeyCtrlZ: "(undo)",
	types.KeyCtrlY: "(redo)",
	types.KeyCtrlF: "(search-forward-mode)",
	types.KeyCtrlG: `(command-mode "goto ")`,
	types.KeyCtrlR: "(replace-mode)",
	types.KeyCtrlX: "(cut-row)",
	types.KeyCtrlC: "(copy-row)",
	types.KeyCtrlV: "(paste-clipboard)",
}

func (c *Commander) processShortcut(key types.Key) bool {
	expression, ok := shortcuts[key]
	if !ok {
		return false
	}
	if c.mode == types.ModeInsert {
		c.endInsert()
	}
	c.parseEval(expression)
	return true
}

func (c *Commander) processKeyEditMode(event *types.Event) error {
	key := event.Key
	ch := event.Ch

	c.lastKey = event.Key
	c.lastCh = event.Ch

	// multikey commands have highest precedence
	if len(c.editKeys) > 0 {
		switch c.editKeys {
		case "c":
			switch ch {
			case 'w':
				c.parseEval("(change-word)")
			}
		case "d":
			switch ch {
			case 'd':
				c.parseEval("(delete-row)")
			case 'w':
				c.parseEval("(delete-word)")
			}
		case "r":
			if key == types.KeySpace {
				c.lastCh = ' '
				c.parseEval("(replace-character)")
			} else if ch != 0 {
				c.parseEval("(replace-character)")
			}
		case "y":
			switch ch {
			case 'y':
				c.parseEval("(yank-row)")
			}
		}
		c.editKeys = ""
		return nil
	}
	if key != 0 {
		switch key {
		case types.KeyEsc:
			c.multiplierText = ""
		case types.KeyCtrlB, types.KeyPgup:
			c.parseEval("(page-up)")
		case types.KeyPgdn:
			c.parseEval("(page-down)")
		case types.KeyCtrlD:
			c.parseEval("(half-page-down)")
		case types.KeyCtrlU:
			c.parseEval("(half-page-up)")
		case types.KeyCtrlA, types.KeyHome:
			c.parseEval("(beginning-of-line)")
		case types.KeyCtrlE, types.KeyEnd:
			c.parseEval("(end-of-line)")
		case types.KeyArrowUp:
			c.parseEval("(up)")
		case types.KeyArrowDown:
			c.parseEval("(down)")
		case types.KeyArrowLeft:
			c.parseEval("(left)")
		case types.KeyArrowRight:
			c.parseEval("(right)")
		case types.KeyDelete:
			c.parseEval("(delete-character)")
		}
	}
	if ch != 0 {
		switch ch {
		//
		// command multipliers are saved when operations are created
		//
		case '1', '2', '3', '4', '5', '6', '7', '8', '9':
			c.multiplierText += string(ch)
		case '0':
			if c.multiplierText == "" {
				c.parseEval("(beginning-of-line)")
			} else {
				c.multiplierText += string(ch)
			}
		case '$':
			c.parseEval("(end-of-line)")
		case 'G':
			if c.multiplierText == "" {
				c.parseEval("(goto-end)")
			} else {
				c.parseEval(fmt.Sprintf("(goto %d)", c.getMultiplier()))
			}
		//
		// commands go to the message bar
		//
		case ':':
			c.parseEval("(command-mode)")
		//
		// lisp commands go to the message bar
		//
		case '(':
			c.parseEval("(lisp-mode)")
		//
		// search queries go to the message bar
		//
		case '/':
			c.parseEval("(search-forward-mode)")
		case '?':
			c.parseEval("(search-backward-mode)")
		//
		// repeat the last search
		//
		case 'n':
			if c.searchForward {
				c.parseEval("(repeat-search-forward)")
			} else {
				c.parseEval("(repeat-search-backward)")
			}
		//
		// cursor movement isn't logged
		//
		case 'h':
			c.parseEval("(left)")
		case 'j':
			c.parseEval("(down)")
		case 'k':
			c.parseEval("(up)")
		case 'l':
			c.parseEval("(right)")
		case 'w':
			c.parseEval("(next-word)")
		case 'b':
			c.parseEval("(previous-word)")
		//
		// "performed" operations are saved for undo and repetition
		//
		case 'i':
			c.parseEval("(insert-at-cursor)")
		case 'a':
			c.parseEval("(insert-after-cursor)")
		case 'I':
			c.parseEval("(insert-at-start-of-line)")
		case 'A':
			c.parseEval("(insert-after-end-of-line)")
		case 'o':
			c.parseEval("(insert-at-new-line-below-cursor)")
		case 'O':
			c.parseEval("(insert-at-new-line-above-cursor)")
		case 'x':
			c.parseEval("(delete-character)")
		case 'J':
			c.parseEval("(join-line)")
		case 'p':
			c.parseEval("(paste)")
		case '~':
			c.parseEval("(reverse-case-character)")
		//
		// a few keys open multi-key commands
		//
		case 'c':
			c.editKeys = "c"
		case 'd':
			c.editKeys = "d"
		case 'y':
			c.editKeys = "y"
		case 'r':
			c.editKeys = "r"
		//
		// undo
		//
		case 'u':
			c.parseEval("(undo)")
		//
		// repeat
		//
		case '.':
			c.parseEval("(repeat)")
		}
	}
	return nil
}

// endInsert finishes the insert operation in progress.
func (c *Commander) endInsert() {
	e := c.editor
	e.CloseInsert()
	c.mode = types.ModeEdit
	e.KeepCursorInRow()
}

func (c *Commander) processKeyInsertMode(event *types.Event) error {
	e := c.editor

	key := event.Key
	ch := event.Ch
	if key != 0 {
		switch key {
		case types.KeyEsc: // end an insert operation.
			c.endInsert()
		case types.KeyBackspace2, types.KeyCtrlH:
			e.BackspaceChar()
		case types.KeyTab:
			e.InsertChar('\t')
		case types.KeyEnter:
			e.InsertChar('\n')
		case types.KeySpace:
			e.InsertChar(' ')
		case types.KeyArrowUp:
			c.endInsert()
			e.MoveCursor(types.MoveUp, 1)
		case types.KeyArrowDown:
			c.endInsert()
			e.MoveCursor(types.MoveDown, 1)
		case types.KeyArrowLeft:
			c.endInsert()
			e.MoveCursor(types.MoveLeft, 1)
		case types.KeyArrowRight:
			c.endInsert()
			e.MoveCursor(types.MoveRight, 1)
		}
	}
	if ch != 0 {
		e.InsertChar(ch)
	}
	return nil
}

// editLine applies a key to one of the message bar's input lines.
// It returns true when the line is finished with Enter.
func (c *Commander) editLine(text *string, event *types.Event) (done bool) {
	switch event.Key {
	case types.KeyEsc:
		c.mode = types.ModeEdit
	case types.KeyEnter:
		return true
	case types.KeyBackspace2, types.KeyCtrlH:
		if r := []rune(*text); len(r) > 0 {
			*text = string(r[0 : len(r)-1])
		}
	case types.KeySpace:
		*text += " "
	}
	if event.Ch != 0 {
		*text += string(event.Ch)
	}
	return false
}

func (c *Commander) processKeyCommandMode(event *types.Event) error {
	done := c.editLine(&c.commandText, event)
	if done {
		c.performCommand()
	}
	if c.pending == nil || c.mode == types.ModeCommand || c.mode == types.ModeConfirm {
		return nil
	}
	// the prompt was naming an untitled document before a pending action
	switch {
	case !done:
		c.cancelPending()
	case c.editor.IsModified():
		c.pending = nil
	default:
		c.runPending()
	}
	return nil
}

func (c *Commander) processKeySearchMode(event *types.Event) error {
	if !c.editLine(&c.searchText, event) {
		return nil
	}
	forward := c.mode == types.ModeSearchForward
	c.mode = types.ModeEdit
	c.search.Query = c.searchText
	if forward {
		c.parseEval("(repeat-search-forward)")
	} else {
		c.parseEval("(repeat-search-backward)")
	}
	return nil
}

func (c *Commander) processKeyReplaceMode(event *types.Event) error {
	if !c.editLine(&c.replaceText, event) {
		return nil
	}
	c.mode = types.ModeEdit
	if err := c.replaceNext(c.search.Query, c.replaceText); err != nil {
		c.reportError(err)
	}
	return nil
}

func (c *Commander) processKeyLispMode(event *types.Event) error {
	if !c.editLine(&c.lispText, event) {
		return nil
	}
	result := c.parseEval(c.lispText)
	// if evaluation didn't change the mode, set it back to edit
	if c.mode == types.ModeLisp {
		c.mode = types.ModeEdit
	}
	if result != "" {
		c.setMessage("%s", result)
	}
	return nil
}

func (c *Commander) processKeyConfirmMode(event *types.Event) error {
	switch event.Ch {
	case 'y', 'Y':
		if c.editor.GetFileName() == "" {
			c.mode = types.ModeCommand
			c.commandText = "saveas "
			return nil
		}
		c.mode = types.ModeEdit
		if err := c.save(""); err != nil {
			c.pending = nil
			c.reportError(err)
			return nil
		}
		c.runPending()
	case 'n', 'N':
		c.mode = types.ModeEdit
		c.runPending()
	case 'c', 'C':
		c.cancelPending()
	}
	if event.Key == types.KeyEsc {
		c.cancelPending()
	}
	return nil
}

func (c *Commander) processKey(event *types.Event) error {
	if c.mode == types.ModeEdit || c.mode == types.ModeInsert {
		if c.processShortcut(event.Key) {
			return nil
		}
	}
	var err error
	switch c.mode {
	case types.ModeEdit:
		err = c.processKeyEditMode(event)
	case types.ModeInsert:
		err = c.processKeyInsertMode(event)
	case types.ModeCommand:
		err = c.processKeyCommandMode(event)
	case types.ModeSearchForward, types.ModeSearchBackward:
		err = c.processKeySearchMode(event)
	case types.ModeReplace:
		err = c.processKeyReplaceMode(event)
	case types.ModeConfirm:
		err = c.processKeyConfirmMode(event)
	case types.ModeLisp:
		err = c.processKeyLispMode(event)
	}
	return err
}

func (c *Commander) getMultiplier() int {
	if c.multiplierText == "" {
		return 1
	}
	i, err := strconv.ParseInt(c.multiplierText, 10, 64)
	c.multiplierText = ""
	if err != nil || i < 1 {
		return 1
	}
	return int(i)
}

// GetMessageBarText returns the input line being typed, a question, or the current message.
func (c *Commander) GetMessageBarText(length int) string {
	var line string
	switch c.getMode() {
	case types.ModeCommand:
		line = ":" + c.commandText
	case types.ModeSearchForward:
		line = "/" + c.searchText
	case types.ModeSearchBackward:
		line = "?" + c.searchText
	case types.ModeReplace:
		line = fmt.Sprintf("replace %q with: %s", c.search.Query, c.replaceText)
	case types.ModeLisp:
		line = c.lispText
	case types.ModeConfirm:
		line = fmt.Sprintf("Save changes to %s? (y/n/c)", c.editor.GetName())
	default:
		line = c.Message()
	}
	return truncate(line, length)
}

// GetStatusBarText describes the document and cursor position.
func (c *Commander) GetStatusBarText(length int) string {
	e := c.editor
	name := e.GetName()
	if e.IsModified() {
		name += "*"
	}
	cursor := e.GetCursor()
	left := fmt.Sprintf(" %s", name)
	right := fmt.Sprintf("Ln %d, Col %d | Words: %d | %s ",
		cursor.Row+1, cursor.Col+1, e.Stats().Words, c.getModeName())
	padding := length - len([]rune(left)) - len([]rune(right))
	if padding < 1 {
		padding = 1
	}
	return truncate(left+fmt.Sprintf("%*s", padding, "")+right, length)
}

func truncate(line string, length int) string {
	if r := []rune(line); len(r) > length {
		return string(r[0:max(length, 0)])
	}
	return line
}
