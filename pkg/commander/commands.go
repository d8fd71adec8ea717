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
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/timburks/notopad/pkg/capability"
	"github.com/timburks/notopad/pkg/config"
	"github.com/timburks/notopad/pkg/export"
	"github.com/timburks/notopad/pkg/search"
	"github.com/timburks/notopad/pkg/types"
)

// MaxMisspellings is the number of misspelled words listed by :spell.
const MaxMisspellings = 10

func (c *Commander) performCommand() {
	command := strings.TrimSpace(c.commandText)
	c.commandText = ""
	c.mode = types.ModeEdit
	if command == "" {
		return
	}
	c.reportError(c.execute(command))
}

func usage(text string) error {
	return &types.InputError{Field: "usage", Reason: text}
}

// execute runs one command line. Commands may leave the commander in
// another mode, for example to ask about unsaved changes.
func (c *Commander) execute(command string) error {
	e := c.editor

	parts := splitArgs(command)
	if len(parts) == 0 {
		return nil
	}
	name, args := parts[0], parts[1:]
	if line, err := strconv.Atoi(name); err == nil {
		return e.MoveCursorToLine(line)
	}
	switch name {
	case "q", "quit":
		return c.confirm(c.quit)
	case "q!":
		return c.quit()
	case "w":
		return c.save(strings.Join(args, " "))
	case "wq":
		if err := c.save(strings.Join(args, " ")); err != nil {
			return err
		}
		return c.quit()
	case "saveas":
		if len(args) != 1 {
			return usage("saveas path")
		}
		return c.save(args[0])
	case "e", "open":
		if len(args) != 1 {
			return usage("e path")
		}
		path := args[0]
		return c.confirm(func() error { return c.open(path) })
	case "e!", "reload":
		if err := e.Reload(); err != nil {
			return err
		}
		c.search.Reset()
		c.setMessage("Reloaded %s", e.GetName())
	case "new":
		return c.confirm(c.newDocument)
	case "recent":
		return c.recentCommand(args)
	case "find":
		if len(args) == 0 {
			return usage("find text")
		}
		c.search.Query = strings.Join(args, " ")
		return c.find(true)
	case "count":
		query := strings.Join(args, " ")
		if query == "" {
			query = c.search.Query
		}
		if query == "" {
			return usage("count text")
		}
		spans, err := search.FindAll(e.Text(), query, c.search.Options)
		if err != nil {
			return err
		}
		c.setMessage("%d match(es) for %q", len(spans), query)
	case "replace":
		if len(args) != 2 {
			return usage("replace old new")
		}
		return c.replaceNext(args[0], args[1])
	case "replaceall":
		if len(args) != 2 {
			return usage("replaceall old new")
		}
		_, err := c.replaceAll(args[0], args[1])
		return err
	case "case":
		on, err := onOff(args, c.search.CaseSensitive)
		if err != nil {
			return err
		}
		c.search.CaseSensitive = on
		c.setMessage("Match case %s", onOffName(on))
	case "word":
		on, err := onOff(args, c.search.WholeWord)
		if err != nil {
			return err
		}
		c.search.WholeWord = on
		c.setMessage("Whole word %s", onOffName(on))
	case "goto":
		if len(args) != 1 {
			return usage("goto line")
		}
		return c.gotoLine(args[0])
	case "$":
		return c.gotoLine("$")
	case "wc":
		s := e.Stats()
		c.setMessage("Words: %d, Lines: %d, Characters: %d (%d without spaces)",
			s.Words, s.Lines, s.Characters, s.CharactersNoSpaces)
	case "chars":
		c.setMessage("Total characters: %d", e.Stats().Characters)
	case "spell":
		return c.spellCheck()
	case "pdf":
		return c.exportPDF(strings.Join(args, " "))
	case "theme":
		return c.setTheme(args)
	case "numbers":
		on, err := onOff(args, c.settings.LineNumbers)
		if err != nil {
			return err
		}
		return c.set("line_numbers", strconv.FormatBool(on))
	case "autosave":
		on, err := onOff(args, c.settings.AutoSave)
		if err != nil {
			return err
		}
		return c.set("auto_save", strconv.FormatBool(on))
	case "zoom":
		return c.zoom(args)
	case "font":
		if len(args) == 0 {
			c.setMessage("Font: %s %dpt", c.settings.FontName, c.settings.FontSize)
			return nil
		}
		return c.set("font_name", strings.Join(args, " "))
	case "set":
		if len(args) == 0 {
			c.setMessage("%s", c.settingsSummary())
			return nil
		}
		if len(args) < 2 {
			return usage("set key value")
		}
		return c.set(args[0], strings.Join(args[1:], " "))
	case "debug":
		on, err := onOff(args, c.debug)
		if err != nil {
			return err
		}
		c.debug = on
		if !on {
			c.message = ""
		}
	case "eval":
		result, err := c.ParseEvalScript(e.Text())
		if err != nil {
			return err
		}
		c.setMessage("%s", result)
	case "cursor":
		cursor := e.GetCursor()
		c.setMessage("%d,%d", cursor.Row, cursor.Col)
	default:
		return &types.InputError{Field: "command", Reason: fmt.Sprintf("unknown command %q", name)}
	}
	return nil
}

// splitArgs splits a command line at spaces. Double quotes group words
// and allow empty arguments.
func splitArgs(command string) []string {
	var args []string
	var current strings.Builder
	quoted, started := false, false
	for _, r := range command {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case r == ' ' && !quoted:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}
	return args
}

// onOff reads an on/off argument. No argument, or "toggle", flips current.
func onOff(args []string, current bool) (bool, error) {
	if len(args) == 0 {
		return !current, nil
	}
	switch args[0] {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	case "toggle":
		return !current, nil
	}
	return current, &types.InputError{Field: "value", Reason: fmt.Sprintf("expected on or off, got %q", args[0])}
}

func onOffName(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// gotoLine moves to a 1-based line number, or to the last line for "$".
func (c *Commander) gotoLine(arg string) error {
	e := c.editor
	if arg == "$" {
		return e.MoveCursorToLine(e.GetRowCount())
	}
	line, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return &types.InputError{Field: "line", Reason: fmt.Sprintf("%q is not a number", arg)}
	}
	return e.MoveCursorToLine(line)
}

func (c *Commander) recentCommand(args []string) error {
	paths := c.recent.List()
	if len(args) == 0 {
		if len(paths) == 0 {
			c.setMessage("No recent files")
			return nil
		}
		names := make([]string, len(paths))
		for i, path := range paths {
			names[i] = fmt.Sprintf("%d:%s", i+1, filepath.Base(path))
		}
		c.setMessage("%s", strings.Join(names, " "))
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(paths) {
		return &types.InputError{Field: "recent", Reason: fmt.Sprintf("no entry %s", args[0])}
	}
	path := paths[n-1]
	return c.confirm(func() error { return c.open(path) })
}

func (c *Commander) spellCheck() error {
	if err := c.caps.Require(capability.SpellCheck); err != nil {
		return err
	}
	misspelled := c.caps.Dictionary().Check(c.editor.Text())
	if len(misspelled) == 0 {
		c.setMessage("No misspelled words found!")
		return nil
	}
	shown := misspelled[:min(len(misspelled), MaxMisspellings)]
	c.setMessage("Misspelled words found: %d. First few: %s", len(misspelled), strings.Join(shown, ", "))
	return nil
}

// exportPDF writes the document as a PDF. Without a path, the PDF goes
// next to the document's file.
func (c *Commander) exportPDF(path string) error {
	e := c.editor
	if path == "" {
		name := e.GetFileName()
		if name == "" {
			return &types.InputError{Field: "path", Reason: "no file name for the PDF"}
		}
		path = strings.TrimSuffix(name, filepath.Ext(name)) + ".pdf"
	}
	options := export.Options{FontName: c.settings.FontName, FontSize: c.settings.FontSize}
	if err := export.PDF(path, e.Text(), options); err != nil {
		return err
	}
	c.setMessage("Exported %s", path)
	return nil
}

func (c *Commander) setTheme(args []string) error {
	if len(args) != 1 {
		return usage("theme light|dark|toggle")
	}
	name := args[0]
	if name == "toggle" {
		name = config.ThemeDark
		if c.settings.Theme == config.ThemeDark {
			name = config.ThemeLight
		}
	}
	return c.set("theme", name)
}

func (c *Commander) zoom(args []string) error {
	if len(args) != 1 {
		return usage("zoom in|out|reset")
	}
	var size int
	switch args[0] {
	case "in":
		size = c.settings.Zoom(1)
	case "out":
		size = c.settings.Zoom(-1)
	case "reset":
		size = c.settings.Zoom(0)
	default:
		return usage("zoom in|out|reset")
	}
	c.saveSettings()
	c.setMessage("Font size %dpt", size)
	return nil
}

// set changes a setting, applies it and saves the settings file.
func (c *Commander) set(key string, value string) error {
	if err := c.settings.Set(key, value); err != nil {
		return err
	}
	c.applySettings()
	if key == "auto_save_interval" && c.timer != nil {
		c.timer.Reset(c.settings.AutoSaveInterval)
	}
	c.saveSettings()
	c.setMessage("%s = %s", key, value)
	return nil
}

func (c *Commander) saveSettings() {
	if err := c.settings.Save(); err != nil {
		slog.Warn("could not save settings", "path", c.settings.Path(), "err", err)
	}
}

func (c *Commander) settingsSummary() string {
	s := c.settings
	return fmt.Sprintf("font_name=%s font_size=%d theme=%s line_numbers=%t tab_width=%d auto_save=%t auto_save_interval=%s",
		s.FontName, s.FontSize, s.Theme, s.LineNumbers, s.TabWidth, s.AutoSave, s.AutoSaveInterval)
}
