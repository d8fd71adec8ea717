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

// Package watch reports file system changes that matter to the editor:
// files arriving in the drop folder and changes to the file being edited.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/timburks/notopad/pkg/types"
)

// settle is how long a dropped file must be quiet before it is reported.
const settle = 200 * time.Millisecond

// A Watcher watches the drop folder and the directory of the current file.
type Watcher struct {
	w       *fsnotify.Watcher
	dropDir string

	mu      sync.Mutex
	file    string // absolute path of the file being edited
	fileDir string // directory watched for it, if not the drop folder
}

// New starts watching dropDir. An empty dropDir watches no folder.
func New(dropDir string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	watcher := &Watcher{w: w}
	if dropDir != "" {
		abs, err := filepath.Abs(dropDir)
		if err == nil {
			err = w.Add(abs)
		}
		if err != nil {
			w.Close()
			return nil, err
		}
		watcher.dropDir = abs
	}
	return watcher, nil
}

// SetFile changes the file whose changes are reported. An empty path stops reporting.
func (w *Watcher) SetFile(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fileDir != "" {
		_ = w.w.Remove(w.fileDir)
		w.fileDir = ""
	}
	w.file = ""
	if path == "" {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.file = abs
	dir := filepath.Dir(abs)
	if dir == w.dropDir {
		return nil
	}
	if err := w.w.Add(dir); err != nil {
		w.file = ""
		return err
	}
	w.fileDir = dir
	return nil
}

func (w *Watcher) currentFile() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file
}

func (w *Watcher) Close() error {
	return w.w.Close()
}

func send(ctx context.Context, events chan<- types.Event, ev types.Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

func ignored(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~")
}

// Run reports events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, events chan<- types.Event) error {
	slog.Debug("watcher: started", "drop_dir", w.dropDir)

	// dropped files are reported once they stop changing
	pending := make(map[string]time.Time)
	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("watcher: stopped")
			return nil

		case <-timer.C:
			now := time.Now()
			for path, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, path)
				if info, err := os.Stat(path); err == nil && !info.IsDir() {
					slog.Info("watcher: file dropped", "path", path)
					send(ctx, events, types.Event{Type: types.EventFileDropped, Path: path})
				}
			}
			if len(pending) > 0 {
				timer.Reset(settle)
			}

		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if ignored(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if w.dropDir != "" && filepath.Dir(ev.Name) == w.dropDir {
				if ev.Op&fsnotify.Create != 0 {
					slog.Debug("watcher: drop pending", "path", ev.Name)
				}
				pending[ev.Name] = time.Now()
				timer.Reset(settle)
			}
			if file := w.currentFile(); file != "" && ev.Name == file {
				send(ctx, events, types.Event{Type: types.EventFileChanged, Path: file})
			}

		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher: error", "err", err)
			send(ctx, events, types.Event{Type: types.EventError, Err: err})
		}
	}
}
