// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package recipe holds the built-in patch steps for the site pages.
package recipe

import (
	"sort"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pagepatch/pkg/config"
	"github.com/walteh/pagepatch/pkg/text"
)

// ErrUnknownRecipe is returned when a recipe name is not registered
var ErrUnknownRecipe = errors.Base("unknown recipe")

const (
	RemoveInstrumentPanel = "remove-instrument-panel"
	FixIndexSnippet       = "fix-index-snippet"
	FixPageSnippets       = "fix-page-snippets"
	InsertDebugLoader     = "insert-debug-loader"
)

// InstrumentPanelCSS is the debug panel block removed from music.css
const InstrumentPanelCSS = `.instrument-level-panel {
    position: fixed;
    right: 16px;
    top: calc(var(--header-height, 10rem) + 3.5rem);
    z-index: 1200;
    display: flex;
    gap: 12px;
    align-items: flex-start;
    padding: 10px 12px;
    background: rgba(0,0,0,0.45);
    border-radius: 10px;
    box-shadow: 0 6px 20px rgba(0,0,0,0.45);
    color: #e8fff4;
    font: 12px/1.3 "Source Sans 3", system-ui;
    transition: transform 0.2s ease;
}
.instrument-level-panel.is-collapsed {
    transform: translateX(calc(100% - 26px));
}
body.debug-overlays-hidden .instrument-level-panel,
body.debug-overlays-hidden #uiDebugCanvas {
    display: none !important;
}
.instrument-level-toggle {
    position: absolute;
    right: -13px;
    top: 50%;
    transform: translateY(-50%);
    width: 26px;
    height: 72px;
    border-radius: 12px;
    border: 1px solid rgba(120,200,160,0.55);
    background: rgba(12,40,26,0.9);
    color: #cfe8d8;
    font: 700 16px/1 "Source Sans 3", system-ui;
    box-shadow: 0 6px 16px rgba(0,0,0,0.45);
    cursor: pointer;
}
`

const (
	// BrokenDebugLoader is the loader tag with its quotes lost
	BrokenDebugLoader = `<script type= module>import { loadDebugIfEnabled } from ./debug/debug-loader.js; loadDebugIfEnabled();</script>`

	// DebugLoader is the well formed loader tag
	DebugLoader = `<script type="module">import { loadDebugIfEnabled } from "./debug/debug-loader.js"; loadDebugIfEnabled();</script>`

	BodyClose = "</body>"
)

// SitePages are the pages that carry the debug loader, index.html first
var SitePages = []string{
	"index.html",
	"about.html",
	"docs.html",
	"videos.html",
	"games.html",
	"graphics.html",
	"music-2d.html",
	"music.html",
}

var registry = map[string]func() config.Step{
	RemoveInstrumentPanel: func() config.Step {
		return config.Step{
			Name:        RemoveInstrumentPanel,
			Kind:        string(text.KindReplaceBlock),
			Files:       []string{"music.css"},
			Needle:      InstrumentPanelCSS,
			Replacement: "",
		}
	},
	FixIndexSnippet: func() config.Step {
		return config.Step{
			Name:        FixIndexSnippet,
			Kind:        string(text.KindReplaceBlock),
			Files:       []string{"index.html"},
			Needle:      BrokenDebugLoader,
			Replacement: DebugLoader,
		}
	},
	FixPageSnippets: func() config.Step {
		return config.Step{
			Name:        FixPageSnippets,
			Kind:        string(text.KindReplaceIfPresent),
			Files:       append([]string(nil), SitePages...),
			Needle:      BrokenDebugLoader,
			Replacement: DebugLoader,
			Lenient:     true,
		}
	},
	InsertDebugLoader: func() config.Step {
		return config.Step{
			Name:    InsertDebugLoader,
			Kind:    string(text.KindInsertBeforeMarker),
			Files:   append([]string(nil), SitePages[1:]...),
			Payload: DebugLoader,
			Marker:  BodyClose,
			SkipIf:  []string{BrokenDebugLoader},
			Lenient: true,
		}
	},
}

// Names returns the registered recipe names, sorted
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a fresh copy of the named recipe step
func Get(name string) (config.Step, error) {
	build, ok := registry[name]
	if !ok {
		return config.Step{}, errors.Errorf("%w: %q", ErrUnknownRecipe, name)
	}
	return build(), nil
}

// Plan builds a plan running the named recipes in the given order
func Plan(baseDir string, names ...string) (*config.Plan, error) {
	if len(names) == 0 {
		return nil, errors.New("at least one recipe is required")
	}
	plan := &config.Plan{BaseDir: baseDir}
	for _, name := range names {
		step, err := Get(name)
		if err != nil {
			return nil, err
		}
		plan.Steps = append(plan.Steps, step)
	}
	if err := plan.Validate(); err != nil {
		return nil, errors.Errorf("validating recipes: %w", err)
	}
	return plan, nil
}

// Describe returns a one line summary of a recipe
func Describe(name string) string {
	switch name {
	case RemoveInstrumentPanel:
		return "delete the instrument level panel CSS from music.css"
	case FixIndexSnippet:
		return "restore the quotes in the debug loader tag of index.html"
	case FixPageSnippets:
		return "restore the debug loader quotes on every page that has the broken tag"
	case InsertDebugLoader:
		return "insert the debug loader before </body> on the content pages"
	}
	return ""
}
