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
	"fmt"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pagepatch/pkg/config"
	"github.com/walteh/pagepatch/pkg/diff"
	"github.com/walteh/pagepatch/pkg/status"
	"github.com/walteh/pagepatch/pkg/text"
)

// ErrMissingFile is returned when a target that must exist does not
var ErrMissingFile = errors.Base("file does not exist")

// number of unchanged lines shown around a dry-run change
const previewContext = 2

// 🔧 Options contains configuration for the patcher
type Options struct {
	// Files reads and writes the target files
	Files status.FileManager
	// Status records per-file outcomes, optional
	Status status.StatusReporter
	// DryRun computes outcomes and previews without touching the disk
	DryRun bool
}

// 🩹 TextPatcher applies literal patches to files, one read and at most one
// write per file
type TextPatcher struct {
	files  status.FileManager
	status status.StatusReporter
	dryRun bool
}

// 🏭 New creates a new patcher with the given options
func New(opts Options) (*TextPatcher, error) {
	if opts.Files == nil {
		return nil, errors.Errorf("file manager is required")
	}
	files := opts.Files
	if opts.DryRun {
		files = newStagedFiles(files)
	}
	return &TextPatcher{
		files:  files,
		status: opts.Status,
		dryRun: opts.DryRun,
	}, nil
}

// DryRun reports whether writes are staged in memory instead of on disk
func (p *TextPatcher) DryRun() bool {
	return p.dryRun
}

// ✂️ DeleteOrReplaceBlock replaces the first occurrence of needle in the file
// with replacement. An empty replacement deletes the block. When needle is
// absent nothing is written and the error wraps text.ErrNeedleNotFound. A
// missing file is an error.
func (p *TextPatcher) DeleteOrReplaceBlock(ctx context.Context, path, needle, replacement string) (status.FileInfo, error) {
	patch := text.Patch{
		Kind:        text.KindReplaceBlock,
		Needle:      needle,
		Replacement: replacement,
	}
	return p.patchFile(ctx, string(patch.Kind), path, patch, config.MissingFail, false)
}

// 📌 InsertBeforeLastMarker inserts payload on its own line before the last
// line matching marker after trim and lowercase. Files already holding the
// payload are left alone, and a missing file is skipped. A file without a
// marker line fails with text.ErrMarkerNotFound.
func (p *TextPatcher) InsertBeforeLastMarker(ctx context.Context, path, payload, marker string) (status.FileInfo, error) {
	patch := text.Patch{
		Kind:    text.KindInsertBeforeMarker,
		Payload: payload,
		Marker:  marker,
	}
	return p.patchFile(ctx, string(patch.Kind), path, patch, config.MissingSkip, false)
}

// 🔁 ConditionalReplace replaces the first occurrence of old with new when
// present. Absent spans and missing files are not errors.
func (p *TextPatcher) ConditionalReplace(ctx context.Context, path, old, new string) (status.FileInfo, error) {
	patch := text.Patch{
		Kind:        text.KindReplaceIfPresent,
		Needle:      old,
		Replacement: new,
	}
	return p.patchFile(ctx, string(patch.Kind), path, patch, config.MissingSkip, false)
}

// 🔄 patchFile is the single read, check, write sequence every operation
// goes through
func (p *TextPatcher) patchFile(ctx context.Context, step, path string, patch text.Patch, policy config.MissingPolicy, lenient bool) (status.FileInfo, error) {
	logger := zerolog.Ctx(ctx).With().Str("step", step).Str("file", path).Logger()
	info := status.FileInfo{Path: path, Step: step}

	if err := patch.Validate(); err != nil {
		return p.fail(ctx, info, err)
	}

	exists, err := p.files.FileExists(ctx, path)
	if err != nil {
		return p.fail(ctx, info, errors.Errorf("checking %s: %w", path, err))
	}
	if !exists {
		return p.missing(ctx, info, policy)
	}

	data, err := p.files.ReadFile(ctx, path)
	if err != nil {
		return p.fail(ctx, info, err)
	}

	before := text.Decode(data, lenient)
	res, err := patch.Apply(before)
	if err != nil {
		return p.fail(ctx, info, describe(err, path, patch))
	}

	info.Detail = res.Reason.String()
	if !res.WasModified {
		info.Outcome = outcomeFor(res)
		info.Checksum = status.Checksum(data)
		logger.Debug().Stringer("reason", res.Reason).Msg("nothing to write")
		p.track(ctx, info)
		return info, nil
	}

	after := []byte(res.ModifiedContent)
	if p.dryRun {
		stats := diff.Count(diff.Lines(before, res.ModifiedContent))
		info.Diff = diff.Unified(path, before, res.ModifiedContent, previewContext)
		info.Detail = fmt.Sprintf("%s (+%d -%d)", info.Detail, stats.Insertions, stats.Deletions)
	}
	if err := p.files.WriteFile(ctx, path, after); err != nil {
		return p.fail(ctx, info, err)
	}

	info.Outcome = status.OutcomePatched
	info.Checksum = status.Checksum(after)
	logger.Debug().
		Stringer("reason", res.Reason).
		Int("bytes_before", len(data)).
		Int("bytes_after", len(after)).
		Bool("dry_run", p.dryRun).
		Msg("patched file")

	p.track(ctx, info)
	return info, nil
}

func (p *TextPatcher) missing(ctx context.Context, info status.FileInfo, policy config.MissingPolicy) (status.FileInfo, error) {
	if policy == config.MissingFail {
		return p.fail(ctx, info, errors.Errorf("%w: %s", ErrMissingFile, info.Path))
	}
	info.Outcome = status.OutcomeMissing
	info.Detail = "skipped"
	zerolog.Ctx(ctx).Debug().Str("file", info.Path).Msg("skipping missing file")
	p.track(ctx, info)
	return info, nil
}

func (p *TextPatcher) fail(ctx context.Context, info status.FileInfo, err error) (status.FileInfo, error) {
	info.Outcome = status.OutcomeFailed
	info.Error = err
	info.Detail = err.Error()
	p.track(ctx, info)
	return info, err
}

func (p *TextPatcher) track(ctx context.Context, info status.FileInfo) {
	if p.status != nil {
		p.status.TrackFile(ctx, info)
	}
}

// describe names the file and the missing construct in a precondition error
func describe(err error, path string, patch text.Patch) error {
	switch {
	case errors.Is(err, text.ErrNeedleNotFound):
		return errors.Errorf("%w in %s", err, path)
	case errors.Is(err, text.ErrMarkerNotFound):
		return errors.Errorf("%w in %s (looking for %q)", err, path, patch.Marker)
	default:
		return errors.Errorf("patching %s: %w", path, err)
	}
}

// outcomeFor maps a patch result to the outcome reported for the file
func outcomeFor(res *text.Result) status.Outcome {
	switch {
	case res.WasModified:
		return status.OutcomePatched
	case res.Reason == text.ReasonAlreadyPresent:
		return status.OutcomeApplied
	default:
		return status.OutcomeUnchanged
	}
}
