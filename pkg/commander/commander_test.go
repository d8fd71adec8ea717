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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/timburks/notopad/pkg/capability"
	"github.com/timburks/notopad/pkg/config"
	"github.com/timburks/notopad/pkg/editor"
	"github.com/timburks/notopad/pkg/recent"
	"github.com/timburks/notopad/pkg/spell"
	"github.com/timburks/notopad/pkg/types"
)

func setup(t *testing.T, text string, caps capability.Capabilities) *Commander {
	t.Helper()
	e := editor.NewEditor()
	e.GetBuffer().LoadBytes([]byte(text))
	e.GetBuffer().MarkSaved()
	c := NewCommander(e, Options{
		Settings:     config.Default(),
		Recent:       recent.New(""),
		Capabilities: caps,
	})
	return c
}

// writeFile creates a file in a temporary directory and returns its path.
func writeFile(t *testing.T, name string, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("Write failed: %+v", err)
	}
	return path
}

func typeKeys(c *Commander, text string) {
	for _, ch := range text {
		c.ProcessEvent(&types.Event{Type: types.EventKey, Ch: ch})
	}
}

func pressKey(c *Commander, key types.Key) {
	c.ProcessEvent(&types.Event{Type: types.EventKey, Key: key})
}

func command(c *Commander, text string) {
	typeKeys(c, ":"+text)
	pressKey(c, types.KeyEnter)
}

func expectText(t *testing.T, c *Commander, expected string) {
	t.Helper()
	if text := c.GetEditor().Text(); text != expected {
		t.Errorf("Unexpected text: got %q, expected %q", text, expected)
	}
}

func expectMessage(t *testing.T, c *Commander, fragment string) {
	t.Helper()
	if message := c.Message(); !strings.Contains(message, fragment) {
		t.Errorf("Unexpected message: got %q, expected it to contain %q", message, fragment)
	}
}

func TestInsertUndoRedo(t *testing.T) {
	c := setup(t, "", capability.New(nil))
	typeKeys(c, "ihello world")
	pressKey(c, types.KeyEsc)
	expectText(t, c, "hello world")
	if !c.GetEditor().IsModified() {
		t.Errorf("Expected document to be modified")
	}
	typeKeys(c, "u")
	expectText(t, c, "")
	if c.GetEditor().IsModified() {
		t.Errorf("Expected undo back to the saved text to clear the modified flag")
	}
	pressKey(c, types.KeyCtrlY)
	expectText(t, c, "hello world")
	pressKey(c, types.KeyCtrlZ)
	expectText(t, c, "")
}

func TestShortcutEndsInsert(t *testing.T) {
	c := setup(t, "", capability.New(nil))
	typeKeys(c, "iabc")
	pressKey(c, types.KeyCtrlZ)
	expectText(t, c, "")
	if c.getMode() != types.ModeEdit {
		t.Errorf("Expected edit mode, got %s", c.getModeName())
	}
}

func TestEditKeys(t *testing.T) {
	c := setup(t, "one two three\nfour", capability.New(nil))
	typeKeys(c, "dw")
	expectText(t, c, "two three\nfour")
	typeKeys(c, "x")
	expectText(t, c, "wo three\nfour")
	typeKeys(c, "rW")
	expectText(t, c, "Wo three\nfour")
	typeKeys(c, "J")
	expectText(t, c, "Wo threefour")
	typeKeys(c, "dd")
	expectText(t, c, "")
	typeKeys(c, "uuuuu")
	expectText(t, c, "one two three\nfour")
}

func TestMultiplier(t *testing.T) {
	c := setup(t, "abcdef", capability.New(nil))
	typeKeys(c, "3x")
	expectText(t, c, "def")
	typeKeys(c, ".")
	expectText(t, c, "")
}

func TestSaveAs(t *testing.T) {
	c := setup(t, "", capability.New(nil))
	typeKeys(c, "inotes")
	pressKey(c, types.KeyEsc)
	path := filepath.Join(t.TempDir(), "notes.txt")
	command(c, "saveas "+path)
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read failed: %+v", err)
	}
	if string(got) != "notes" {
		t.Errorf("Unexpected file contents %q", got)
	}
	if c.GetEditor().IsModified() {
		t.Errorf("Expected document to be unmodified after saving")
	}
	if entries := c.recent.List(); len(entries) != 1 || entries[0] != path {
		t.Errorf("Expected %s to be recorded, got %v", path, entries)
	}
}

func TestSaveShortcutPromptsForName(t *testing.T) {
	c := setup(t, "text", capability.New(nil))
	pressKey(c, types.KeyCtrlS)
	if c.getMode() != types.ModeCommand || c.commandText != "saveas " {
		t.Errorf("Expected a saveas prompt, got mode %s and %q", c.getModeName(), c.commandText)
	}
}

func TestConfirmBeforeOpen(t *testing.T) {
	other := writeFile(t, "other.txt", "other text")
	c := setup(t, "", capability.New(nil))
	typeKeys(c, "ichanged")
	pressKey(c, types.KeyEsc)

	command(c, "e "+other)
	if c.getMode() != types.ModeConfirm {
		t.Fatalf("Expected to be asked about unsaved changes, got mode %s", c.getModeName())
	}
	if bar := c.GetMessageBarText(80); !strings.Contains(bar, "Save changes to Untitled?") {
		t.Errorf("Unexpected message bar %q", bar)
	}
	typeKeys(c, "c")
	expectText(t, c, "changed")

	command(c, "e "+other)
	typeKeys(c, "n")
	expectText(t, c, "other text")
	if c.GetEditor().GetFileName() != other {
		t.Errorf("Expected file name %s, got %s", other, c.GetEditor().GetFileName())
	}
}

func TestConfirmSaveBeforeQuit(t *testing.T) {
	path := writeFile(t, "quit.txt", "abc")
	c := setup(t, "", capability.New(nil))
	command(c, "e "+path)
	typeKeys(c, "x")
	command(c, "q")
	if !c.IsRunning() || c.getMode() != types.ModeConfirm {
		t.Fatalf("Expected a question before quitting")
	}
	typeKeys(c, "y")
	if c.IsRunning() {
		t.Errorf("Expected to quit after saving")
	}
	got, _ := os.ReadFile(path)
	if string(got) != "bc" {
		t.Errorf("Unexpected file contents %q", got)
	}
}

func TestConfirmSaveUntitled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untitled.txt")
	c := setup(t, "", capability.New(nil))
	typeKeys(c, "ichanged")
	pressKey(c, types.KeyEsc)
	command(c, "q")
	typeKeys(c, "y")
	if c.getMode() != types.ModeCommand || c.commandText != "saveas " {
		t.Fatalf("Expected a saveas prompt, got mode %s and %q", c.getModeName(), c.commandText)
	}
	if !c.IsRunning() {
		t.Fatalf("Quit before the document was saved")
	}
	typeKeys(c, path)
	pressKey(c, types.KeyEnter)
	if c.IsRunning() {
		t.Errorf("Expected to quit after saving")
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "changed" {
		t.Errorf("Unexpected file contents %q %v", got, err)
	}
}

func TestConfirmSaveUntitledCancelled(t *testing.T) {
	c := setup(t, "", capability.New(nil))
	typeKeys(c, "ichanged")
	pressKey(c, types.KeyEsc)
	command(c, "q")
	typeKeys(c, "y")
	pressKey(c, types.KeyEsc)
	if !c.IsRunning() || c.getMode() != types.ModeEdit {
		t.Fatalf("Expected to keep editing, got mode %s", c.getModeName())
	}
	expectMessage(t, c, "Cancelled")
	if c.pending != nil {
		t.Errorf("Expected the pending quit to be dropped")
	}
	// a later save must not quit
	command(c, "saveas "+filepath.Join(t.TempDir(), "later.txt"))
	if !c.IsRunning() {
		t.Errorf("Quit after an unrelated save")
	}
}

func TestQuitWithoutChanges(t *testing.T) {
	c := setup(t, "abc", capability.New(nil))
	command(c, "q")
	if c.IsRunning() {
		t.Errorf("Expected to quit")
	}
}

func TestForceQuit(t *testing.T) {
	c := setup(t, "abc", capability.New(nil))
	typeKeys(c, "x")
	command(c, "q!")
	if c.IsRunning() {
		t.Errorf("Expected to quit")
	}
}

func TestReplaceAllCommand(t *testing.T) {
	c := setup(t, "foo bar foo", capability.New(nil))
	command(c, "replaceall foo baz")
	expectText(t, c, "baz bar baz")
	expectMessage(t, c, "Replaced 2")
	typeKeys(c, "u")
	expectText(t, c, "foo bar foo")
}

func TestWholeWordReplace(t *testing.T) {
	c := setup(t, "cat category cat", capability.New(nil))
	command(c, "word on")
	command(c, "replaceall cat dog")
	expectText(t, c, "dog category dog")
}

func TestCaseSensitiveReplace(t *testing.T) {
	c := setup(t, "Foo foo", capability.New(nil))
	command(c, "replaceall foo x")
	expectText(t, c, "x x")
	c = setup(t, "Foo foo", capability.New(nil))
	command(c, "case on")
	command(c, "replaceall foo x")
	expectText(t, c, "Foo x")
}

func TestSearchKeys(t *testing.T) {
	c := setup(t, "foo bar\nbar foo", capability.New(nil))
	typeKeys(c, "/bar")
	pressKey(c, types.KeyEnter)
	if cursor := c.GetEditor().GetCursor(); cursor != (types.Point{Row: 0, Col: 4}) {
		t.Errorf("Unexpected cursor %+v", cursor)
	}
	typeKeys(c, "n")
	if cursor := c.GetEditor().GetCursor(); cursor != (types.Point{Row: 1, Col: 0}) {
		t.Errorf("Unexpected cursor %+v", cursor)
	}
	typeKeys(c, "n")
	expectMessage(t, c, "Text not found")
}

func TestSearchFromCursor(t *testing.T) {
	c := setup(t, "foo\nfoo\nfoo\nfoo", capability.New(nil))
	typeKeys(c, "/foo")
	pressKey(c, types.KeyEnter)
	command(c, "4")
	typeKeys(c, "l")
	typeKeys(c, "n")
	expectMessage(t, c, "Text not found")
	if cursor := c.GetEditor().GetCursor(); cursor != (types.Point{Row: 3, Col: 1}) {
		t.Errorf("Expected the cursor to stay put, got %+v", cursor)
	}
	command(c, "2")
	typeKeys(c, "n")
	if cursor := c.GetEditor().GetCursor(); cursor != (types.Point{Row: 1, Col: 0}) {
		t.Errorf("Expected the match under the cursor, got %+v", cursor)
	}
	typeKeys(c, "n")
	if cursor := c.GetEditor().GetCursor(); cursor != (types.Point{Row: 2, Col: 0}) {
		t.Errorf("Expected the following match, got %+v", cursor)
	}
	typeKeys(c, "?foo")
	pressKey(c, types.KeyEnter)
	if cursor := c.GetEditor().GetCursor(); cursor != (types.Point{Row: 1, Col: 0}) {
		t.Errorf("Expected the previous match, got %+v", cursor)
	}
}

func TestReplacePrompt(t *testing.T) {
	c := setup(t, "foo bar foo", capability.New(nil))
	typeKeys(c, "/foo")
	pressKey(c, types.KeyEnter)
	pressKey(c, types.KeyCtrlR)
	typeKeys(c, "X")
	pressKey(c, types.KeyEnter)
	expectText(t, c, "X bar foo")
	if selection := c.GetEditor().GetSelection(); selection == nil || *selection != (types.Span{Start: 6, End: 9}) {
		t.Errorf("Expected the next match to be selected, got %+v", selection)
	}
	pressKey(c, types.KeyCtrlR)
	typeKeys(c, "X")
	pressKey(c, types.KeyEnter)
	expectText(t, c, "X bar X")
	expectMessage(t, c, "no more matches")
	pressKey(c, types.KeyCtrlR)
	typeKeys(c, "X")
	pressKey(c, types.KeyEnter)
	expectText(t, c, "X bar X")
	expectMessage(t, c, "Text not found")
}

func TestReplaceCommand(t *testing.T) {
	c := setup(t, "a-a-a", capability.New(nil))
	command(c, "replace a bb")
	expectText(t, c, "bb-a-a")
	command(c, "replace a bb")
	expectText(t, c, "bb-bb-a")
}

func TestGoto(t *testing.T) {
	c := setup(t, "one\ntwo\nthree", capability.New(nil))
	command(c, "goto 3")
	if row := c.GetEditor().GetCursor().Row; row != 2 {
		t.Errorf("Expected row 2, got %d", row)
	}
	command(c, "goto 9")
	expectMessage(t, c, "not between 1 and 3")
	if row := c.GetEditor().GetCursor().Row; row != 2 {
		t.Errorf("Expected the cursor to stay on row 2, got %d", row)
	}
	command(c, "1")
	if row := c.GetEditor().GetCursor().Row; row != 0 {
		t.Errorf("Expected row 0, got %d", row)
	}
	command(c, "$")
	if row := c.GetEditor().GetCursor().Row; row != 2 {
		t.Errorf("Expected row 2, got %d", row)
	}
	command(c, "goto x")
	expectMessage(t, c, "not a number")
}

func TestUnknownCommand(t *testing.T) {
	c := setup(t, "", capability.New(nil))
	command(c, "frobnicate")
	expectMessage(t, c, `unknown command "frobnicate"`)
}

func TestMessageExpires(t *testing.T) {
	c := setup(t, "", capability.New(nil))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	if c.Message() != Ready {
		t.Errorf("Expected %q, got %q", Ready, c.Message())
	}
	command(c, "cursor")
	expectMessage(t, c, "0,0")
	if expiry := c.MessageExpiry(); !expiry.Equal(now.Add(MessageTimeout)) {
		t.Errorf("Unexpected expiry %v", expiry)
	}
	now = now.Add(MessageTimeout)
	if c.Message() != Ready {
		t.Errorf("Expected %q, got %q", Ready, c.Message())
	}
}

func TestCountCommand(t *testing.T) {
	c := setup(t, "Foo foo food", capability.New(nil))
	command(c, "count foo")
	expectMessage(t, c, `3 match(es) for "foo"`)
	command(c, "word on")
	command(c, "count foo")
	expectMessage(t, c, `2 match(es) for "foo"`)
	typeKeys(c, "/food")
	pressKey(c, types.KeyEnter)
	command(c, "count")
	expectMessage(t, c, `1 match(es) for "food"`)
}

func TestNothingToUndo(t *testing.T) {
	c := setup(t, "abc", capability.New(nil))
	typeKeys(c, "u")
	expectMessage(t, c, "Nothing to undo")
	typeKeys(c, "x")
	expectText(t, c, "bc")
	typeKeys(c, "u")
	expectText(t, c, "abc")
	pressKey(c, types.KeyCtrlY)
	expectText(t, c, "bc")
	pressKey(c, types.KeyCtrlY)
	expectMessage(t, c, "Nothing to redo")
	expectText(t, c, "bc")
}

func TestWordCount(t *testing.T) {
	c := setup(t, "one two\nthree", capability.New(nil))
	command(c, "wc")
	expectMessage(t, c, "Words: 3, Lines: 2, Characters: 13 (11 without spaces)")
	command(c, "chars")
	expectMessage(t, c, "Total characters: 13")
}

func TestStatusBar(t *testing.T) {
	c := setup(t, "one two", capability.New(nil))
	bar := c.GetStatusBarText(80)
	for _, fragment := range []string{"Untitled", "Ln 1, Col 1", "Words: 2", "edit"} {
		if !strings.Contains(bar, fragment) {
			t.Errorf("Expected %q in status bar %q", fragment, bar)
		}
	}
	if strings.Contains(bar, "Untitled*") {
		t.Errorf("Unexpected modified marker in %q", bar)
	}
	typeKeys(c, "x")
	if bar := c.GetStatusBarText(80); !strings.Contains(bar, "Untitled*") {
		t.Errorf("Expected modified marker in %q", bar)
	}
	if bar := c.GetStatusBarText(10); len([]rune(bar)) != 10 {
		t.Errorf("Expected the status bar to be truncated, got %q", bar)
	}
}

func TestAutoSaveTick(t *testing.T) {
	path := writeFile(t, "auto.txt", "abc")
	c := setup(t, "", capability.New(nil))
	command(c, "e "+path)
	c.ProcessEvent(&types.Event{Type: types.EventTick})
	expectMessage(t, c, "Opened")

	typeKeys(c, "x")
	c.settings.AutoSave = false
	c.ProcessEvent(&types.Event{Type: types.EventTick})
	if got, _ := os.ReadFile(path); string(got) != "abc" {
		t.Errorf("Expected no save with auto-save off, got %q", got)
	}

	c.settings.AutoSave = true
	c.ProcessEvent(&types.Event{Type: types.EventTick})
	if got, _ := os.ReadFile(path); string(got) != "bc" {
		t.Errorf("Expected auto-save, got %q", got)
	}
	expectMessage(t, c, "Auto-saved auto.txt")
}

func TestFileChangedOnDisk(t *testing.T) {
	path := writeFile(t, "watched.txt", "before")
	abs, _ := filepath.Abs(path)
	c := setup(t, "", capability.New(nil))
	command(c, "e "+path)

	c.ProcessEvent(&types.Event{Type: types.EventFileChanged, Path: abs})
	expectMessage(t, c, "Opened")

	if err := os.WriteFile(path, []byte("after"), 0644); err != nil {
		t.Fatalf("Write failed: %+v", err)
	}
	c.ProcessEvent(&types.Event{Type: types.EventFileChanged, Path: abs})
	expectMessage(t, c, "changed on disk")
	command(c, "e!")
	expectText(t, c, "after")
}

func TestFileDropped(t *testing.T) {
	path := writeFile(t, "dropped.txt", "dropped")

	c := setup(t, "", capability.New(nil))
	c.ProcessEvent(&types.Event{Type: types.EventFileDropped, Path: path})
	expectMessage(t, c, "feature unavailable")
	expectText(t, c, "")

	c = setup(t, "", capability.New(nil, capability.DragDrop))
	c.ProcessEvent(&types.Event{Type: types.EventFileDropped, Path: path})
	expectText(t, c, "dropped")
}

func TestSpellCommand(t *testing.T) {
	c := setup(t, "the catt sat 42", capability.New(nil))
	command(c, "spell")
	expectMessage(t, c, "feature unavailable")

	dictionary := spell.NewChecker([]string{"the", "cat"})
	c = setup(t, "The catt sat 42", capability.New(dictionary, capability.SpellCheck))
	command(c, "spell")
	expectMessage(t, c, "Misspelled words found: 2. First few: catt, sat")

	c = setup(t, "the cat", capability.New(dictionary, capability.SpellCheck))
	command(c, "spell")
	expectMessage(t, c, "No misspelled words found!")
}

func TestExportCommand(t *testing.T) {
	path := writeFile(t, "letter.txt", "Dear reader,\n\thello.")
	c := setup(t, "", capability.New(nil))
	command(c, "e "+path)
	command(c, "pdf")
	pdf := strings.TrimSuffix(path, ".txt") + ".pdf"
	if _, err := os.Stat(pdf); err != nil {
		t.Errorf("Expected %s to be written: %v", pdf, err)
	}

	c = setup(t, "untitled", capability.New(nil))
	command(c, "pdf")
	expectMessage(t, c, "no file name")
}

func TestSettingsCommands(t *testing.T) {
	c := setup(t, "", capability.New(nil))
	command(c, "theme toggle")
	if c.settings.Theme != config.ThemeDark || c.GetEditor().GetTheme().Name != "dark" {
		t.Errorf("Expected the dark theme, got %s", c.settings.Theme)
	}
	command(c, "numbers off")
	if c.settings.LineNumbers || c.GetEditor().GetLineNumbers() {
		t.Errorf("Expected line numbers to be off")
	}
	command(c, "set tab_width 4")
	if c.settings.TabWidth != 4 {
		t.Errorf("Expected tab width 4, got %d", c.settings.TabWidth)
	}
	command(c, "set tab_width 99")
	if c.settings.TabWidth != 4 {
		t.Errorf("Expected an invalid tab width to be rejected, got %d", c.settings.TabWidth)
	}
	command(c, "set bogus 1")
	expectMessage(t, c, "unknown setting")
	command(c, "zoom in")
	if c.settings.FontSize != config.DefaultFontSize+1 {
		t.Errorf("Unexpected font size %d", c.settings.FontSize)
	}
	command(c, "zoom reset")
	if c.settings.FontSize != config.DefaultFontSize {
		t.Errorf("Unexpected font size %d", c.settings.FontSize)
	}
	command(c, `font "Times"`)
	if c.settings.FontName != "Times" {
		t.Errorf("Unexpected font %s", c.settings.FontName)
	}
	command(c, "font Comic")
	if c.settings.FontName != "Times" {
		t.Errorf("Expected an unknown font to be rejected, got %s", c.settings.FontName)
	}
}

type fakeTimer struct {
	intervals []time.Duration
}

func (f *fakeTimer) Reset(interval time.Duration) {
	f.intervals = append(f.intervals, interval)
}

func TestAutoSaveIntervalResetsTimer(t *testing.T) {
	timer := &fakeTimer{}
	e := editor.NewEditor()
	c := NewCommander(e, Options{Capabilities: capability.New(nil), Timer: timer})
	command(c, "set auto_save_interval 1m")
	if len(timer.intervals) != 1 || timer.intervals[0] != time.Minute {
		t.Errorf("Expected the timer to be reset to 1m, got %v", timer.intervals)
	}
	command(c, "set tab_width 4")
	command(c, "set auto_save_interval 0s")
	if len(timer.intervals) != 1 {
		t.Errorf("Unexpected resets %v", timer.intervals)
	}
}

func TestRecentCommand(t *testing.T) {
	first := writeFile(t, "first.txt", "first")
	second := writeFile(t, "second.txt", "second")
	c := setup(t, "", capability.New(nil))
	command(c, "recent")
	expectMessage(t, c, "No recent files")
	command(c, "e "+first)
	command(c, "e "+second)
	command(c, "recent")
	expectMessage(t, c, "1:second.txt 2:first.txt")
	command(c, "recent 2")
	expectText(t, c, "first")
	command(c, "recent 7")
	expectMessage(t, c, "no entry 7")
}

func TestNewCommand(t *testing.T) {
	path := writeFile(t, "new.txt", "text")
	c := setup(t, "", capability.New(nil))
	command(c, "e "+path)
	pressKey(c, types.KeyCtrlN)
	expectText(t, c, "")
	if c.GetEditor().GetFileName() != "" {
		t.Errorf("Expected an untitled document")
	}
}

func TestOpenFiles(t *testing.T) {
	existing := writeFile(t, "existing.txt", "existing")
	missing := filepath.Join(t.TempDir(), "missing.txt")

	c := setup(t, "", capability.New(nil))
	if err := c.OpenFiles([]string{missing, existing}); err != nil {
		t.Fatalf("OpenFiles failed: %+v", err)
	}
	expectText(t, c, "")
	if c.GetEditor().GetFileName() != missing {
		t.Errorf("Expected the missing file to name the new document")
	}
	if entries := c.recent.List(); len(entries) != 1 || entries[0] != existing {
		t.Errorf("Expected %s in the recent list, got %v", existing, entries)
	}

	c = setup(t, "", capability.New(nil))
	if err := c.OpenFiles([]string{filepath.Join(t.TempDir(), "no", "such", "dir")}); err != nil {
		t.Fatalf("OpenFiles failed: %+v", err)
	}
}

func TestLispPrimitives(t *testing.T) {
	c := setup(t, "", capability.New(nil))
	if _, err := c.ParseEval(`(insert "a b c")`); err != nil {
		t.Fatalf("insert failed: %+v", err)
	}
	expectText(t, c, "a b c")
	if result, err := c.ParseEval("(word-count)"); err != nil || result != "3" {
		t.Errorf("Unexpected word count %q (%v)", result, err)
	}
	if result, err := c.ParseEval(`(replace-all "b" "x")`); err != nil || result != "1" {
		t.Errorf("Unexpected replacement count %q (%v)", result, err)
	}
	expectText(t, c, "a x c")
	if _, err := c.ParseEval("(undo)"); err != nil {
		t.Errorf("undo failed: %+v", err)
	}
	expectText(t, c, "a b c")
	if _, err := c.ParseEval("(goto 2)"); err == nil {
		t.Errorf("Expected goto past the last line to fail")
	}
	if _, err := c.ParseEval("(quit)"); err == nil {
		t.Errorf("Expected quit with unsaved changes to fail in a script")
	}
	if _, err := c.ParseEval(`(message "hello")`); err != nil {
		t.Errorf("message failed: %+v", err)
	}
	expectMessage(t, c, "hello")
}

func TestLispMode(t *testing.T) {
	c := setup(t, "", capability.New(nil))
	typeKeys(c, `(insert "xyz")`)
	pressKey(c, types.KeyEnter)
	expectText(t, c, "xyz")
	if c.getMode() != types.ModeEdit {
		t.Errorf("Expected edit mode, got %s", c.getModeName())
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		command  string
		expected []string
	}{
		{"replace a b", []string{"replace", "a", "b"}},
		{"replace  a   b ", []string{"replace", "a", "b"}},
		{`replace "two words" x`, []string{"replace", "two words", "x"}},
		{`replace "" x`, []string{"replace", "", "x"}},
	}
	for _, test := range tests {
		got := splitArgs(test.command)
		if strings.Join(got, "|") != strings.Join(test.expected, "|") || len(got) != len(test.expected) {
			t.Errorf("splitArgs(%q) = %q, expected %q", test.command, got, test.expected)
		}
	}
}

func TestSplitForms(t *testing.T) {
	forms, err := splitForms("; setup\n(insert \"a (b\")\n  (goto 1) ; done\n(message \"\\\"x\\\"\")")
	if err != nil {
		t.Fatalf("splitForms failed: %+v", err)
	}
	expected := []string{`(insert "a (b")`, "(goto 1)", `(message "\"x\"")`}
	if strings.Join(forms, "|") != strings.Join(expected, "|") {
		t.Errorf("Unexpected forms %q", forms)
	}
	for _, script := range []string{"(insert \"x\"", "(goto 1))", "goto 1"} {
		if _, err := splitForms(script); err == nil {
			t.Errorf("Expected %q to be rejected", script)
		}
	}
}

func TestEvalCommand(t *testing.T) {
	c := setup(t, "(word-count)", capability.New(nil))
	command(c, "eval")
	expectMessage(t, c, "1")

	if _, err := c.ParseEvalScript("(insert \"x \")\n(insert \"y \")"); err != nil {
		t.Fatalf("script failed: %+v", err)
	}
	expectText(t, c, "y x (word-count)")
}
