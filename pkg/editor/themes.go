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

package editor

import (
	"github.com/timburks/notopad/pkg/types"
)

// Colors are 256-color palette indices plus one, as termbox expects in 256-color mode.
var Themes = map[string]types.Theme{
	"light": {
		Name:       "light",
		Foreground: 1,   // black
		Background: 232, // white
		Gutter:     246, // gray
		BarFg:      232,
		BarBg:      25, // blue
		Style:      "github",
	},
	"dark": {
		Name:       "dark",
		Foreground: 253, // light gray
		Background: 235, // near black
		Gutter:     242,
		BarFg:      235,
		BarBg:      110, // steel blue
		Style:      "monokai",
	},
}

// ThemeNamed returns the named theme, or the light theme for unknown names.
func ThemeNamed(name string) types.Theme {
	if theme, ok := Themes[name]; ok {
		return theme
	}
	return Themes["light"]
}
