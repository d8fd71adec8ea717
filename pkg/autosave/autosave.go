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

// Package autosave periodically saves the document being edited.
//
// The timer only sends tick events. The save itself happens in the
// session loop, so it never runs at the same time as an edit.
package autosave

import (
	"context"
	"log/slog"
	"time"

	"github.com/timburks/notopad/pkg/types"
)

// DefaultInterval is the time between auto-save ticks.
const DefaultInterval = 30 * time.Second

// A Document is anything that can be saved to its own file.
type Document interface {
	IsModified() bool
	GetFileName() string
	Save(path string) error
}

// Tick saves the document if it has changed and has a file to go to.
// It reports whether a save was attempted.
func Tick(doc Document) (bool, error) {
	if !doc.IsModified() || doc.GetFileName() == "" {
		return false, nil
	}
	if err := doc.Save(""); err != nil {
		return true, err
	}
	slog.Debug("auto-saved", "path", doc.GetFileName())
	return true, nil
}

// A Timer sends an EventTick at a fixed interval.
type Timer struct {
	Interval time.Duration

	reset chan time.Duration
}

func NewTimer(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Timer{Interval: interval, reset: make(chan time.Duration, 1)}
}

// Reset changes the interval of a running timer. If several changes
// arrive before Run takes them, the last one wins.
func (t *Timer) Reset(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	for {
		select {
		case t.reset <- interval:
			return
		default:
			select {
			case <-t.reset:
			default:
			}
		}
	}
}

// Run sends ticks until ctx is cancelled. A tick is dropped if the
// previous one hasn't been taken yet.
func (t *Timer) Run(ctx context.Context, events chan<- types.Event) error {
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()
	slog.Debug("auto-save timer started", "interval", t.Interval)
	for {
		select {
		case <-ctx.Done():
			slog.Debug("auto-save timer stopped")
			return nil
		case interval := <-t.reset:
			ticker.Reset(interval)
			slog.Debug("auto-save interval changed", "interval", interval)
		case <-ticker.C:
			select {
			case events <- types.Event{Type: types.EventTick}:
			case <-ctx.Done():
				return nil
			default:
			}
		}
	}
}
