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

package autosave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/timburks/notopad/pkg/types"
)

type document struct {
	modified bool
	fileName string
	saves    int
	err      error
}

func (d *document) IsModified() bool {
	return d.modified
}

func (d *document) GetFileName() string {
	return d.fileName
}

func (d *document) Save(path string) error {
	d.saves++
	if d.err != nil {
		return d.err
	}
	d.modified = false
	return nil
}

func TestTick(t *testing.T) {
	tests := []struct {
		name     string
		doc      *document
		attempts bool
	}{
		{"unmodified", &document{modified: false, fileName: "notes.txt"}, false},
		{"untitled", &document{modified: true}, false},
		{"modified", &document{modified: true, fileName: "notes.txt"}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			attempted, err := Tick(test.doc)
			if err != nil {
				t.Fatal(err)
			}
			if attempted != test.attempts {
				t.Errorf("attempted = %v", attempted)
			}
			if want := map[bool]int{false: 0, true: 1}[test.attempts]; test.doc.saves != want {
				t.Errorf("saves = %d, want %d", test.doc.saves, want)
			}
		})
	}
}

func TestTickReportsErrors(t *testing.T) {
	failure := errors.New("disk full")
	doc := &document{modified: true, fileName: "notes.txt", err: failure}
	if _, err := Tick(doc); !errors.Is(err, failure) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTimerSendsTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan types.Event, 1)
	done := make(chan error)
	go func() {
		done <- NewTimer(10*time.Millisecond).Run(ctx, events)
	}()
	select {
	case ev := <-events:
		if ev.Type != types.EventTick {
			t.Errorf("unexpected event type %d", ev.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no tick received")
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
}

func TestTimerReset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan types.Event, 1)
	done := make(chan error)
	timer := NewTimer(time.Hour)
	timer.Reset(time.Minute)
	timer.Reset(10 * time.Millisecond)
	go func() {
		done <- timer.Run(ctx, events)
	}()
	select {
	case <-events:
	case <-time.After(2 * time.Second):
		t.Fatal("the new interval was not applied")
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
}
