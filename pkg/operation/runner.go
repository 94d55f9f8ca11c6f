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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pagepatch/pkg/config"
	"github.com/walteh/pagepatch/pkg/log"
	"github.com/walteh/pagepatch/pkg/status"
)

// 🏃 OperationRunner executes the steps of a plan one after another
type OperationRunner struct {
	patcher *TextPatcher
	console *log.Logger
}

// 🏗️ NewRunner creates a new runner. console may be nil.
func NewRunner(patcher *TextPatcher, console *log.Logger) *OperationRunner {
	return &OperationRunner{
		patcher: patcher,
		console: console,
	}
}

// 🏃 Run executes every step of the plan in order and returns the per-file
// results. The first error aborts the run; results up to and including the
// failing file are still returned.
func (r *OperationRunner) Run(ctx context.Context, plan *config.Plan) ([]status.FileInfo, error) {
	logger := zerolog.Ctx(ctx)

	if r.patcher == nil {
		return nil, errors.Errorf("patcher is required")
	}
	if plan == nil {
		return nil, errors.Errorf("plan is required")
	}
	if err := plan.Validate(); err != nil {
		return nil, errors.Errorf("validating plan: %w", err)
	}

	logger.Debug().
		Int("steps", len(plan.Steps)).
		Bool("dry_run", r.patcher.DryRun()).
		Msg("running plan")

	var all []status.FileInfo
	for _, step := range plan.Steps {
		if r.console != nil {
			r.console.StartStepOperation(ctx, log.StepOperation{
				Name:   step.Name,
				Kind:   step.Kind,
				Files:  len(step.Files),
				DryRun: r.patcher.DryRun(),
			})
		}

		results, err := r.patcher.Apply(ctx, step)
		all = append(all, results...)
		r.report(ctx, results)

		if r.console != nil {
			r.console.EndStepOperation(ctx)
		}
		if err != nil {
			return all, err
		}
	}

	return all, nil
}

func (r *OperationRunner) report(ctx context.Context, results []status.FileInfo) {
	if r.console == nil {
		return
	}
	for _, info := range results {
		r.console.LogFileOperation(ctx, log.FileOperation{
			Path:    info.Path,
			Step:    info.Step,
			Outcome: info.Outcome,
			Detail:  info.Detail,
			Diff:    info.Diff,
		})
	}
}
