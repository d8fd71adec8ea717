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
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/timburks/notopad/pkg/autosave"
	"github.com/timburks/notopad/pkg/capability"
	"github.com/timburks/notopad/pkg/operations"
	"github.com/timburks/notopad/pkg/types"
)

// OpenFiles opens the first of the files named on the command line. A
// missing file starts an empty document that will be saved under that
// name. The rest are added to the recent list.
func (c *Commander) OpenFiles(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	for i := len(paths) - 1; i > 0; i-- {
		if _, err := os.Stat(paths[i]); err == nil {
			c.remember(paths[i])
		}
	}
	path := paths[0]
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		c.editor.New()
		c.editor.GetBuffer().SetFileName(path)
		c.watchFile(path)
		c.setMessage("New file %s", path)
		return nil
	}
	if err := c.open(path); err != nil {
		c.reportError(err)
		return err
	}
	return nil
}

// remember records a file in the recent list and starts watching it.
func (c *Commander) remember(path string) {
	if err := c.recent.Record(path); err != nil {
		slog.Warn("could not record recent file", "path", path, "err", err)
	}
	c.watchFile(path)
}

func (c *Commander) watchFile(path string) {
	if c.watcher == nil || !c.settings.WatchFile {
		return
	}
	if err := c.watcher.SetFile(path); err != nil {
		slog.Warn("could not watch file", "path", path, "err", err)
	}
}

func (c *Commander) open(path string) error {
	if err := c.editor.Load(path); err != nil {
		return err
	}
	c.search.Reset()
	c.remember(path)
	c.setMessage("Opened %s", c.editor.GetName())
	return nil
}

func (c *Commander) newDocument() error {
	c.editor.New()
	c.search.Reset()
	c.watchFile("")
	c.setMessage("New document")
	return nil
}

// save writes the document. Saving under a new name counts as a save-as.
func (c *Commander) save(path string) error {
	e := c.editor
	previous := e.GetFileName()
	if err := e.Save(path); err != nil {
		return err
	}
	if e.GetFileName() != previous {
		c.remember(e.GetFileName())
	}
	c.setMessage("Saved %s", e.GetName())
	return nil
}

func (c *Commander) quit() error {
	c.mode = types.ModeQuit
	return nil
}

// confirm runs action right away if there are no unsaved changes.
// Otherwise it asks whether to save them first and runs action after
// the answer, unless the question is cancelled.
func (c *Commander) confirm(action func() error) error {
	if !c.editor.IsModified() {
		return action()
	}
	if c.batch {
		return &types.InputError{Field: "document", Reason: "unsaved changes"}
	}
	if c.mode == types.ModeInsert {
		c.endInsert()
	}
	c.pending = action
	c.mode = types.ModeConfirm
	return nil
}

func (c *Commander) runPending() {
	action := c.pending
	c.pending = nil
	if action != nil {
		c.reportError(action())
	}
}

func (c *Commander) cancelPending() {
	c.pending = nil
	c.mode = types.ModeEdit
	c.setMessage("Cancelled")
}

func (c *Commander) autoSave() {
	if !c.settings.AutoSave {
		return
	}
	saved, err := autosave.Tick(c.editor)
	if err != nil {
		c.reportError(err)
		return
	}
	if saved {
		c.setMessage("Auto-saved %s", c.editor.GetName())
	}
}

// fileChanged reports when the file being edited no longer holds the
// text that was last loaded or saved.
func (c *Commander) fileChanged(path string) {
	name := c.editor.GetFileName()
	if name == "" {
		return
	}
	if abs, err := filepath.Abs(name); err != nil || abs != path {
		return
	}
	bytes, err := os.ReadFile(name)
	if err != nil {
		c.setMessage("%s was removed or renamed", c.editor.GetName())
		return
	}
	if string(bytes) == c.editor.GetBuffer().Snapshot() {
		return
	}
	slog.Info("file changed on disk", "path", name)
	c.setMessage("%s changed on disk; :e! reloads it", c.editor.GetName())
}

func (c *Commander) fileDropped(path string) {
	if err := c.caps.Require(capability.DragDrop); err != nil {
		c.reportError(err)
		return
	}
	slog.Info("file dropped", "path", path)
	c.reportError(c.confirm(func() error { return c.open(path) }))
}

// cutRow deletes rows into the pasteboard and the system clipboard.
func (c *Commander) cutRow(multiplier int) {
	c.editor.Perform(&operations.DeleteRow{}, multiplier)
	c.copyToClipboard()
}

// copyRow copies rows into the pasteboard and the system clipboard.
func (c *Commander) copyRow(multiplier int) {
	c.editor.YankRow(multiplier)
	c.copyToClipboard()
}

func (c *Commander) copyToClipboard() {
	if !c.caps.Has(capability.Clipboard) {
		return
	}
	if err := clipboard.WriteAll(c.editor.GetPasteText()); err != nil {
		slog.Warn("clipboard write failed", "err", err)
	}
}

// pasteClipboard pastes the system clipboard, or the editor's own
// pasteboard when there is no clipboard. Text ending in a newline is
// pasted as whole lines.
func (c *Commander) pasteClipboard(multiplier int) {
	if c.caps.Has(capability.Clipboard) {
		text, err := clipboard.ReadAll()
		if err != nil {
			slog.Warn("clipboard read failed", "err", err)
		} else if text != "" && text != c.editor.GetPasteText() {
			mode := types.PasteAtCursor
			if strings.HasSuffix(text, "\n") {
				mode = types.PasteNewLine
			}
			c.editor.SetPasteBoard(text, mode)
		}
	}
	c.editor.Perform(&operations.Paste{}, multiplier)
}
