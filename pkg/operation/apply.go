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

package operation

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pagepatch/pkg/config"
	"github.com/walteh/pagepatch/pkg/status"
)

// 🎯 target is one entry of an expanded file list
type target struct {
	path      string
	unmatched bool // a glob that matched nothing, path holds the pattern
}

// 📋 Apply runs a step over its files in order. Globs are expanded with
// doublestar; a glob matching nothing counts as one missing file. The first
// error stops the step and files already patched stay patched.
func (p *TextPatcher) Apply(ctx context.Context, step config.Step) ([]status.FileInfo, error) {
	logger := zerolog.Ctx(ctx)

	if err := step.Validate(); err != nil {
		return nil, errors.Errorf("validating step: %w", err)
	}

	targets, err := p.targets(ctx, step)
	if err != nil {
		return nil, errors.Errorf("step %q: %w", step.Name, err)
	}

	logger.Debug().
		Str("step", step.Name).
		Str("kind", step.Kind).
		Int("targets", len(targets)).
		Msg("applying step")

	if p.status != nil {
		p.status.StartOperation(ctx, len(targets))
		defer p.status.FinishOperation(ctx)
	}

	patch := step.Patch()
	policy := step.MissingPolicy()

	results := make([]status.FileInfo, 0, len(targets))
	for i, t := range targets {
		if err := ctx.Err(); err != nil {
			return results, errors.Errorf("step %q: %w", step.Name, err)
		}

		var info status.FileInfo
		if t.unmatched {
			info, err = p.missing(ctx, status.FileInfo{Path: t.path, Step: step.Name}, policy)
		} else {
			info, err = p.patchFile(ctx, step.Name, t.path, patch, policy, step.Lenient)
		}
		results = append(results, info)

		if p.status != nil {
			p.status.UpdateProgress(ctx, i+1)
		}
		if err != nil {
			return results, errors.Errorf("step %q: %w", step.Name, err)
		}
	}

	return results, nil
}

// 🔍 targets expands the step's file list, dropping repeated files
func (p *TextPatcher) targets(ctx context.Context, step config.Step) ([]target, error) {
	seen := make(map[string]bool)
	var out []target

	add := func(path string) {
		key := filepath.Clean(path)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, target{path: path})
	}

	for _, entry := range step.Files {
		if !status.IsGlob(entry) {
			add(entry)
			continue
		}

		matches, err := p.files.Glob(ctx, entry)
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", entry, err)
		}
		if len(matches) == 0 {
			out = append(out, target{path: entry, unmatched: true})
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}

	return out, nil
}
