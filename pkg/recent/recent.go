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

// Package recent keeps the list of recently opened files.
package recent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/timburks/notopad/pkg/types"
)

// MaxEntries is the most files the list remembers.
const MaxEntries = 10

// A List holds file paths, most recently used first. It is saved to a
// YAML file after every change.
type List struct {
	path  string
	paths []string
}

type record struct {
	Files []string `yaml:"files"`
}

// New returns an empty list that is saved to path. An empty path keeps
// the list in memory only.
func New(path string) *List {
	return &List{path: path}
}

// Load reads the list stored at path. A missing file is an empty list.
func Load(path string) (*List, error) {
	l := &List{path: path}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return l, &types.FileError{Op: "read", Path: path, Err: err}
	}
	var r record
	if err := yaml.Unmarshal(b, &r); err != nil {
		return l, &types.FileError{Op: "read", Path: path, Err: fmt.Errorf("parse yaml: %w", err)}
	}
	// the file is most recent first
	for i := len(r.Files) - 1; i >= 0; i-- {
		l.add(r.Files[i])
	}
	return l, nil
}

// add moves path to the front, dropping duplicates and anything past the maximum.
func (l *List) add(path string) {
	paths := make([]string, 0, len(l.paths)+1)
	paths = append(paths, path)
	for _, p := range l.paths {
		if p != path {
			paths = append(paths, p)
		}
	}
	if len(paths) > MaxEntries {
		paths = paths[:MaxEntries]
	}
	l.paths = paths
}

// Record makes path the most recent entry and saves the list.
func (l *List) Record(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return &types.FileError{Op: "record", Path: path, Err: err}
	}
	l.add(abs)
	return l.Save()
}

// List returns the recorded files that still exist, most recent first.
// Missing files are skipped but stay in the list.
func (l *List) List() []string {
	existing := make([]string, 0, len(l.paths))
	for _, p := range l.paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	return existing
}

// Entries returns every recorded path, including missing files.
func (l *List) Entries() []string {
	return append([]string{}, l.paths...)
}

// Save writes the list to its file, creating the directory if necessary.
// A list with no file is kept in memory only.
func (l *List) Save() error {
	if l.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return &types.FileError{Op: "save", Path: l.path, Err: err}
	}
	b, err := yaml.Marshal(&record{Files: l.paths})
	if err != nil {
		return &types.FileError{Op: "save", Path: l.path, Err: fmt.Errorf("marshal yaml: %w", err)}
	}
	if err := os.WriteFile(l.path, b, 0o644); err != nil {
		return &types.FileError{Op: "save", Path: l.path, Err: err}
	}
	return nil
}
