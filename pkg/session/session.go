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

// Package session owns everything a running editor needs and runs its
// event loop.
//
// All editor state is touched by the loop goroutine only. The terminal,
// the auto-save timer and the file watcher each run in their own
// goroutine and send events to the loop.
package session

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/timburks/notopad/pkg/autosave"
	"github.com/timburks/notopad/pkg/capability"
	"github.com/timburks/notopad/pkg/commander"
	"github.com/timburks/notopad/pkg/config"
	"github.com/timburks/notopad/pkg/editor"
	"github.com/timburks/notopad/pkg/recent"
	"github.com/timburks/notopad/pkg/screen"
	"github.com/timburks/notopad/pkg/types"
	"github.com/timburks/notopad/pkg/watch"
)

// A Terminal draws the editor and reads input.
type Terminal interface {
	Render(e *editor.Editor, bars screen.Bars)
	Poll(ctx context.Context, events chan<- types.Event) error
	Interrupt()
}

// A Session runs one editor until the user quits.
type Session struct {
	settings  *config.Settings
	caps      capability.Capabilities
	editor    *editor.Editor
	commander *commander.Commander
	recent    *recent.List
	watcher   *watch.Watcher
	timer     *autosave.Timer
}

// New builds a session. Capabilities are fixed for the life of the session.
func New(settings *config.Settings, caps capability.Capabilities) (*Session, error) {
	recentList, err := recent.Load(settings.RecentFile)
	if err != nil {
		slog.Warn("could not read recent files", "path", settings.RecentFile, "err", err)
		recentList = recent.New(settings.RecentFile)
	}

	s := &Session{
		settings: settings,
		caps:     caps,
		editor:   editor.NewEditor(),
		recent:   recentList,
		timer:    autosave.NewTimer(settings.AutoSaveInterval),
	}

	dropDir := ""
	if caps.Has(capability.DragDrop) {
		dropDir = settings.DropDir
	}
	if settings.WatchFile || dropDir != "" {
		watcher, err := watch.New(dropDir)
		if err != nil {
			slog.Warn("file watching unavailable", "err", err)
		} else {
			s.watcher = watcher
		}
	}

	options := commander.Options{
		Settings:     settings,
		Recent:       recentList,
		Capabilities: caps,
		Timer:        s.timer,
	}
	if s.watcher != nil {
		options.Watcher = s.watcher
	}
	s.commander = commander.NewCommander(s.editor, options)
	return s, nil
}

func (s *Session) Commander() *commander.Commander {
	return s.commander
}

func (s *Session) Editor() *editor.Editor {
	return s.editor
}

// Open opens the files named on the command line.
func (s *Session) Open(paths []string) error {
	return s.commander.OpenFiles(paths)
}

// Eval runs a lisp script against the document without a terminal.
func (s *Session) Eval(script string) (string, error) {
	return s.commander.ParseEvalScript(script)
}

// Run draws the editor and handles events until the user quits or ctx
// is cancelled. The session is closed when Run returns.
func (s *Session) Run(ctx context.Context, term Terminal) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan types.Event, 16)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return term.Poll(gCtx, events)
	})
	g.Go(func() error {
		return s.timer.Run(gCtx, events)
	})
	if s.watcher != nil {
		g.Go(func() error {
			return s.watcher.Run(gCtx, events)
		})
	}

	s.loop(gCtx, term, events)

	cancel()
	// Interrupt blocks until the poll goroutine takes it, and that
	// goroutine may already have stopped.
	go term.Interrupt()
	err := g.Wait()
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	return err
}

func (s *Session) loop(ctx context.Context, term Terminal, events <-chan types.Event) {
	for s.commander.IsRunning() {
		term.Render(s.editor, s.commander)

		// redraw when the message expires
		var expired <-chan time.Time
		if expiry := s.commander.MessageExpiry(); !expiry.IsZero() {
			if wait := time.Until(expiry); wait > 0 {
				expired = time.After(wait)
			}
		}

		select {
		case <-ctx.Done():
			slog.Info("session cancelled", "err", ctx.Err())
			return
		case event := <-events:
			if err := s.commander.ProcessEvent(&event); err != nil {
				slog.Error("event failed", "event", event.Type, "err", err)
			}
		case <-expired:
		}
	}
	slog.Info("session ended")
}

// Close saves the settings and the recent list and stops watching files.
func (s *Session) Close() error {
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			slog.Warn("could not close watcher", "err", err)
		}
	}
	if err := s.recent.Save(); err != nil {
		slog.Warn("could not save recent files", "err", err)
	}
	return s.settings.Save()
}
