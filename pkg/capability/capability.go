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

// Package capability decides which optional features a session can offer.
// The decision is made once, when the session starts, and never changes.
package capability

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/timburks/notopad/pkg/config"
	"github.com/timburks/notopad/pkg/spell"
	"github.com/timburks/notopad/pkg/types"
)

type Feature string

const (
	SpellCheck   Feature = "spell-check"
	DragDrop     Feature = "drag-and-drop"
	Clipboard    Feature = "clipboard"
	Highlighting Feature = "highlighting"
)

// Capabilities records which optional features are available.
type Capabilities struct {
	features   map[Feature]bool
	dictionary *spell.Checker
}

// Detect checks each optional feature against the settings and the environment.
func Detect(s *config.Settings) Capabilities {
	c := Capabilities{features: make(map[Feature]bool)}

	if s.SpellCheck {
		checker, err := spell.Load(s.Dictionary)
		if err != nil {
			slog.Info("spell-check unavailable", "dictionary", s.Dictionary, "err", err)
		} else {
			c.features[SpellCheck] = true
			c.dictionary = checker
		}
	}

	if s.DropDir != "" {
		if info, err := os.Stat(s.DropDir); err == nil && info.IsDir() {
			c.features[DragDrop] = true
		} else {
			slog.Info("drop folder unavailable", "dir", s.DropDir, "err", err)
		}
	}

	c.features[Clipboard] = !clipboard.Unsupported
	c.features[Highlighting] = s.Highlighting

	slog.Info("capabilities detected", "features", c.String())
	return c
}

// New builds capabilities directly, mostly for tests.
func New(dictionary *spell.Checker, features ...Feature) Capabilities {
	c := Capabilities{features: make(map[Feature]bool), dictionary: dictionary}
	for _, f := range features {
		c.features[f] = true
	}
	if dictionary == nil {
		delete(c.features, SpellCheck)
	}
	return c
}

func (c Capabilities) Has(f Feature) bool {
	return c.features[f]
}

// Require returns an error wrapping types.ErrFeatureUnavailable if f is not available.
func (c Capabilities) Require(f Feature) error {
	if c.Has(f) {
		return nil
	}
	return fmt.Errorf("%s: %w", f, types.ErrFeatureUnavailable)
}

// Dictionary returns the spell-check word list, or nil without spell-check.
func (c Capabilities) Dictionary() *spell.Checker {
	return c.dictionary
}

func (c Capabilities) String() string {
	parts := make([]string, 0, 4)
	for _, f := range []Feature{SpellCheck, DragDrop, Clipboard, Highlighting} {
		state := "off"
		if c.Has(f) {
			state = "on"
		}
		parts = append(parts, string(f)+" "+state)
	}
	return strings.Join(parts, ", ")
}
