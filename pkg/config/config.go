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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pagepatch/pkg/text"
)

// ErrInvalidPlan is returned when a plan fails validation
var ErrInvalidPlan = errors.Base("invalid plan")

// 🔌 Parser is the interface for plan parsers
type Parser interface {
	// 📝 Parse parses the plan from bytes
	Parse(ctx context.Context, data []byte) (*Plan, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🚦 MissingPolicy decides what happens when a target file does not exist
type MissingPolicy string

const (
	MissingFail MissingPolicy = "fail"
	MissingSkip MissingPolicy = "skip"
)

// 🔧 Step is one named patch applied to a list of files
type Step struct {
	Name        string   `json:"name" yaml:"name" hcl:"name,label"`
	Kind        string   `json:"kind" yaml:"kind" hcl:"kind"`
	Files       []string `json:"files" yaml:"files" hcl:"files"`
	Needle      string   `json:"needle,omitempty" yaml:"needle,omitempty" hcl:"needle,optional"`
	Replacement string   `json:"replacement,omitempty" yaml:"replacement,omitempty" hcl:"replacement,optional"`
	Payload     string   `json:"payload,omitempty" yaml:"payload,omitempty" hcl:"payload,optional"`
	Marker      string   `json:"marker,omitempty" yaml:"marker,omitempty" hcl:"marker,optional"`
	SkipIf      []string `json:"skip_if,omitempty" yaml:"skip_if,omitempty" hcl:"skip_if,optional"`
	IfMissing   string   `json:"if_missing,omitempty" yaml:"if_missing,omitempty" hcl:"if_missing,optional"`
	Lenient     bool     `json:"lenient,omitempty" yaml:"lenient,omitempty" hcl:"lenient,optional"`
}

// 📚 Plan is an ordered list of steps rooted at a base directory
type Plan struct {
	BaseDir string `json:"base_dir,omitempty" yaml:"base_dir,omitempty" hcl:"base_dir,optional"`
	Steps   []Step `json:"steps" yaml:"steps" hcl:"step,block"`

	location string
}

// 🎯 Patch returns the text level patch described by the step
func (s Step) Patch() text.Patch {
	return text.Patch{
		Kind:        text.Kind(s.Kind),
		Needle:      s.Needle,
		Replacement: s.Replacement,
		Payload:     s.Payload,
		Marker:      s.Marker,
		SkipIf:      append([]string(nil), s.SkipIf...),
	}
}

// 🚦 MissingPolicy returns the effective policy for absent files.
// replace_block fails by default, every other kind skips.
func (s Step) MissingPolicy() MissingPolicy {
	if s.IfMissing != "" {
		return MissingPolicy(s.IfMissing)
	}
	if text.Kind(s.Kind) == text.KindReplaceBlock {
		return MissingFail
	}
	return MissingSkip
}

// 🔍 Validate checks a single step
func (s Step) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.Errorf("%w: step name is required", ErrInvalidPlan)
	}
	if !text.Kind(s.Kind).Valid() {
		return errors.Errorf("%w: step %q: unknown kind %q (expected one of %s)", ErrInvalidPlan, s.Name, s.Kind, kindList())
	}
	if len(s.Files) == 0 {
		return errors.Errorf("%w: step %q: files are required", ErrInvalidPlan, s.Name)
	}
	for _, f := range s.Files {
		pattern := strings.TrimPrefix(f, "./")
		if strings.TrimSpace(pattern) == "" || !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("%w: step %q: invalid file pattern %q", ErrInvalidPlan, s.Name, f)
		}
	}
	switch MissingPolicy(s.IfMissing) {
	case "", MissingFail, MissingSkip:
	default:
		return errors.Errorf("%w: step %q: invalid if_missing %q", ErrInvalidPlan, s.Name, s.IfMissing)
	}
	if err := s.Patch().Validate(); err != nil {
		return errors.Errorf("%w: step %q: %w", ErrInvalidPlan, s.Name, err)
	}
	return nil
}

func kindList() string {
	kinds := text.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

// 🔍 Validate checks every step and rejects duplicate names
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return errors.Errorf("%w: at least one step is required", ErrInvalidPlan)
	}
	seen := make(map[string]bool, len(p.Steps))
	for _, s := range p.Steps {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return errors.Errorf("%w: duplicate step name %q", ErrInvalidPlan, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// 📍 Location returns the file the plan was loaded from, if any
func (p *Plan) Location() string {
	return p.location
}

// 📝 String returns a short description of the plan
func (p *Plan) String() string {
	names := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		names = append(names, s.Name)
	}
	base := p.BaseDir
	if base == "" {
		base = "."
	}
	return fmt.Sprintf("%s [%s]", base, strings.Join(names, ", "))
}

// 🎯 Load loads a plan from a file. The format is chosen by extension.
// A relative base_dir is resolved against the plan's directory, and an empty
// one defaults to that directory.
func Load(ctx context.Context, path string) (*Plan, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading plan")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading plan file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	plan, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing plan: %w", err)
	}

	if err := plan.Validate(); err != nil {
		return nil, errors.Errorf("validating plan: %w", err)
	}

	plan.location = path
	dir := filepath.Dir(path)
	switch {
	case plan.BaseDir == "":
		plan.BaseDir = dir
	case !filepath.IsAbs(plan.BaseDir):
		plan.BaseDir = filepath.Join(dir, plan.BaseDir)
	}

	logger.Debug().
		Str("base_dir", plan.BaseDir).
		Int("steps", len(plan.Steps)).
		Msg("plan loaded")

	return plan, nil
}
