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

// Package screen draws the editor on the terminal with termbox and turns
// terminal input into events.
package screen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"github.com/timburks/notopad/pkg/editor"
	"github.com/timburks/notopad/pkg/types"
)

// Bars provides the text of the status bar and the message bar.
type Bars interface {
	GetStatusBarText(length int) string
	GetMessageBarText(length int) string
}

// The Screen draws the state of an Editor.
type Screen struct {
	size types.Size // screen size
}

func NewScreen() (*Screen, error) {
	// Open the terminal.
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	termbox.SetOutputMode(termbox.Output256)
	termbox.SetInputMode(termbox.InputEsc)
	return &Screen{}, nil
}

func (s *Screen) Close() {
	termbox.Close()
}

func (s *Screen) Render(e *editor.Editor, bars Bars) {
	theme := e.GetTheme()
	termbox.Clear(termbox.Attribute(theme.Foreground), termbox.Attribute(theme.Background))
	s.size.Cols, s.size.Rows = termbox.Size()

	// the bottom two rows hold the status bar and the message bar
	e.Layout(types.Rect{Size: types.Size{Rows: s.size.Rows - 2, Cols: s.size.Cols}})
	e.Render(s)

	s.renderBar(s.size.Rows-2, bars.GetStatusBarText(s.size.Cols), theme.BarFg, theme.BarBg)
	s.renderBar(s.size.Rows-1, bars.GetMessageBarText(s.size.Cols), theme.Foreground, theme.Background)
	if err := termbox.Flush(); err != nil {
		slog.Warn("flush failed", "err", err)
	}
}

// renderBar fills a row with text, padding it to the width of the screen.
func (s *Screen) renderBar(row int, text string, fg types.Color, bg types.Color) {
	if row < 0 {
		return
	}
	x := 0
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		if x+w > s.size.Cols {
			break
		}
		s.SetCell(x, row, ch, fg, bg)
		x += max(w, 1)
	}
	for ; x < s.size.Cols; x++ {
		s.SetCell(x, row, ' ', fg, bg)
	}
}

func (s *Screen) SetCell(col int, row int, c rune, fg types.Color, bg types.Color) {
	termbox.SetCell(col, row, c, termbox.Attribute(fg), termbox.Attribute(bg))
}

func (s *Screen) SetCursor(p types.Point) {
	termbox.SetCursor(p.Col, p.Row)
}

// Poll sends terminal events until ctx is cancelled. Interrupt unblocks
// a Poll that is waiting for input.
func (s *Screen) Poll(ctx context.Context, events chan<- types.Event) error {
	for {
		event := termbox.PollEvent()
		if ctx.Err() != nil {
			return nil
		}
		var ev types.Event
		switch event.Type {
		case termbox.EventKey:
			ev = types.Event{Type: types.EventKey, Key: key(event.Key, event.Ch), Ch: event.Ch}
		case termbox.EventResize:
			ev = types.Event{Type: types.EventResize}
		case termbox.EventError:
			ev = types.Event{Type: types.EventError, Err: event.Err}
		default:
			continue
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Screen) Interrupt() {
	termbox.Interrupt()
}

func key(k termbox.Key, ch rune) types.Key {
	if ch != 0 {
		return types.KeyNone
	}
	switch k {
	case termbox.KeyArrowDown:
		return types.KeyArrowDown
	case termbox.KeyArrowLeft:
		return types.KeyArrowLeft
	case termbox.KeyArrowRight:
		return types.KeyArrowRight
	case termbox.KeyArrowUp:
		return types.KeyArrowUp
	case termbox.KeyBackspace2:
		return types.KeyBackspace2
	case termbox.KeyCtrlA:
		return types.KeyCtrlA
	case termbox.KeyCtrlB:
		return types.KeyCtrlB
	case termbox.KeyCtrlC:
		return types.KeyCtrlC
	case termbox.KeyCtrlD:
		return types.KeyCtrlD
	case termbox.KeyCtrlE:
		return types.KeyCtrlE
	case termbox.KeyCtrlF:
		return types.KeyCtrlF
	case termbox.KeyCtrlG:
		return types.KeyCtrlG
	case termbox.KeyCtrlH:
		return types.KeyCtrlH
	case termbox.KeyCtrlJ:
		return types.KeyCtrlJ
	case termbox.KeyCtrlK:
		return types.KeyCtrlK
	case termbox.KeyCtrlL:
		return types.KeyCtrlL
	case termbox.KeyCtrlN:
		return types.KeyCtrlN
	case termbox.KeyCtrlO:
		return types.KeyCtrlO
	case termbox.KeyCtrlP:
		return types.KeyCtrlP
	case termbox.KeyCtrlQ:
		return types.KeyCtrlQ
	case termbox.KeyCtrlR:
		return types.KeyCtrlR
	case termbox.KeyCtrlS:
		return types.KeyCtrlS
	case termbox.KeyCtrlT:
		return types.KeyCtrlT
	case termbox.KeyCtrlU:
		return types.KeyCtrlU
	case termbox.KeyCtrlV:
		return types.KeyCtrlV
	case termbox.KeyCtrlW:
		return types.KeyCtrlW
	case termbox.KeyCtrlX:
		return types.KeyCtrlX
	case termbox.KeyCtrlY:
		return types.KeyCtrlY
	case termbox.KeyCtrlZ:
		return types.KeyCtrlZ
	case termbox.KeyDelete:
		return types.KeyDelete
	case termbox.KeyEnd:
		return types.KeyEnd
	case termbox.KeyEnter:
		return types.KeyEnter
	case termbox.KeyEsc:
		return types.KeyEsc
	case termbox.KeyHome:
		return types.KeyHome
	case termbox.KeyPgdn:
		return types.KeyPgdn
	case termbox.KeyPgup:
		return types.KeyPgup
	case termbox.KeySpace:
		return types.KeySpace
	case termbox.KeyTab:
		return types.KeyTab
	default:
		return types.KeyUnsupported
	}
}
