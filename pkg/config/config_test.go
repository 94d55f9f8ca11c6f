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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pagepatch/pkg/text"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		errContains string
		check       func(t *testing.T, dir string, plan *Plan)
	}{
		{
			name:     "hcl_plan",
			filename: ".pagepatch.hcl",
			config: `
base_dir = "site"

step "remove-panel" {
  kind        = "replace_block"
  files       = ["music.css"]
  needle      = ".panel {\n}\n"
  replacement = ""
}

step "insert-debug" {
  kind    = "insert_before_marker"
  files   = ["*.html", "docs/**/*.html"]
  payload = "<script src=\"debug.js\"></script>"
  marker  = body_close
  skip_if = ["<script src=debug.js></script>"]
  lenient = true
}
`,
			check: func(t *testing.T, dir string, plan *Plan) {
				assert.Equal(t, filepath.Join(dir, "site"), plan.BaseDir, "base_dir should resolve against plan directory")
				require.Len(t, plan.Steps, 2)

				assert.Equal(t, "remove-panel", plan.Steps[0].Name)
				assert.Equal(t, ".panel {\n}\n", plan.Steps[0].Needle)
				assert.Equal(t, MissingFail, plan.Steps[0].MissingPolicy())

				assert.Equal(t, "insert-debug", plan.Steps[1].Name)
				assert.Equal(t, []string{"*.html", "docs/**/*.html"}, plan.Steps[1].Files)
				assert.Equal(t, `<script src="debug.js"></script>`, plan.Steps[1].Payload)
				assert.Equal(t, "</body>", plan.Steps[1].Marker, "body_close variable should expand")
				assert.Equal(t, []string{"<script src=debug.js></script>"}, plan.Steps[1].SkipIf)
				assert.True(t, plan.Steps[1].Lenient)
				assert.Equal(t, MissingSkip, plan.Steps[1].MissingPolicy())
			},
		},
		{
			name:     "yaml_plan",
			filename: "plan.yaml",
			config: `
steps:
  - name: fix-snippet
    kind: replace_if_present
    files: [index.html, about.html]
    needle: "from ./x.js"
    replacement: "from \"./x.js\""
    if_missing: fail
`,
			check: func(t *testing.T, dir string, plan *Plan) {
				assert.Equal(t, dir, plan.BaseDir, "empty base_dir should default to plan directory")
				require.Len(t, plan.Steps, 1)
				assert.Equal(t, text.KindReplaceIfPresent, plan.Steps[0].Patch().Kind)
				assert.Equal(t, `from "./x.js"`, plan.Steps[0].Patch().Replacement)
				assert.Equal(t, MissingFail, plan.Steps[0].MissingPolicy(), "explicit policy should win")
			},
		},
		{
			name:     "json_plan",
			filename: "plan.json",
			config: `{
  "base_dir": "/srv/www",
  "steps": [
    {"name": "a", "kind": "insert_before_marker", "files": ["a.html"], "payload": "<x>", "marker": "</body>"}
  ]
}`,
			check: func(t *testing.T, dir string, plan *Plan) {
				assert.Equal(t, "/srv/www", plan.BaseDir, "absolute base_dir should be kept")
				assert.Len(t, plan.Steps, 1)
			},
		},
		{
			name:        "yaml_unknown_field",
			filename:    "plan.yml",
			config:      "steps:\n  - name: a\n    kind: replace_block\n    files: [a.css]\n    needle: x\n    colour: red\n",
			errContains: "parsing YAML",
		},
		{
			name:        "json_unknown_field",
			filename:    "plan.json",
			config:      `{"steps": [], "extra": true}`,
			errContains: "parsing JSON",
		},
		{
			name:        "hcl_missing_files",
			filename:    "plan.hcl",
			config:      "step \"a\" {\n  kind = \"replace_block\"\n  needle = \"x\"\n}\n",
			errContains: "decoding HCL",
		},
		{
			name:        "unsupported_extension",
			filename:    "plan.toml",
			config:      "x = 1",
			errContains: "no parser found",
		},
		{
			name:        "no_steps",
			filename:    "plan.yaml",
			config:      "base_dir: site\n",
			errContains: "at least one step is required",
		},
	}

	ctx := zerolog.New(os.Stderr).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, tt.filename)
			err := os.WriteFile(configPath, []byte(tt.config), 0644)
			require.NoError(t, err, "writing config file should succeed")

			plan, err := Load(ctx, configPath)
			if tt.errContains != "" {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, configPath, plan.Location())
			if tt.check != nil {
				tt.check(t, tmpDir, plan)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist), "error should wrap os.ErrNotExist")
}

func TestPlanValidate(t *testing.T) {
	valid := Step{Name: "a", Kind: "replace_block", Files: []string{"a.css"}, Needle: "x"}

	tests := []struct {
		name        string
		steps       []Step
		errContains string
	}{
		{
			name:  "valid",
			steps: []Step{valid},
		},
		{
			name:        "missing_name",
			steps:       []Step{{Kind: "replace_block", Files: []string{"a.css"}, Needle: "x"}},
			errContains: "step name is required",
		},
		{
			name:        "unknown_kind",
			steps:       []Step{{Name: "a", Kind: "regex", Files: []string{"a.css"}, Needle: "x"}},
			errContains: `unknown kind "regex" (expected one of replace_block, insert_before_marker, replace_if_present)`,
		},
		{
			name:        "empty_files",
			steps:       []Step{{Name: "a", Kind: "replace_block", Needle: "x"}},
			errContains: "files are required",
		},
		{
			name:        "bad_pattern",
			steps:       []Step{{Name: "a", Kind: "replace_block", Files: []string{"[a.css"}, Needle: "x"}},
			errContains: "invalid file pattern",
		},
		{
			name:        "bad_policy",
			steps:       []Step{{Name: "a", Kind: "replace_block", Files: []string{"a.css"}, Needle: "x", IfMissing: "ignore"}},
			errContains: `invalid if_missing "ignore"`,
		},
		{
			name:        "invalid_patch",
			steps:       []Step{{Name: "a", Kind: "insert_before_marker", Files: []string{"a.html"}, Payload: "x"}},
			errContains: "marker is required",
		},
		{
			name:        "duplicate_names",
			steps:       []Step{valid, valid},
			errContains: `duplicate step name "a"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := &Plan{Steps: tt.steps}
			err := plan.Validate()
			if tt.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPlan), "error should wrap ErrInvalidPlan")
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestStepMissingPolicy(t *testing.T) {
	assert.Equal(t, MissingFail, Step{Kind: "replace_block"}.MissingPolicy())
	assert.Equal(t, MissingSkip, Step{Kind: "insert_before_marker"}.MissingPolicy())
	assert.Equal(t, MissingSkip, Step{Kind: "replace_if_present"}.MissingPolicy())
	assert.Equal(t, MissingSkip, Step{Kind: "replace_block", IfMissing: "skip"}.MissingPolicy())
}

func TestPlanString(t *testing.T) {
	plan := &Plan{Steps: []Step{{Name: "a"}, {Name: "b"}}}
	assert.Equal(t, ". [a, b]", plan.String())

	plan.BaseDir = "site"
	assert.Equal(t, "site [a, b]", plan.String())
}
