package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pagepatch/cmd/pagepatch/opts"
	"github.com/walteh/pagepatch/pkg/config"
	"github.com/walteh/pagepatch/pkg/log"
	"github.com/walteh/pagepatch/pkg/operation"
	"github.com/walteh/pagepatch/pkg/status"
)

// runPlan applies a plan and prints the per outcome summary
func runPlan(ctx context.Context, o *opts.RootOpts, plan *config.Plan, dryRun bool) error {
	console := log.FromContext(ctx)

	mgr := status.New(plan.BaseDir)
	patcher, err := operation.New(operation.Options{
		Files:  mgr,
		Status: mgr,
		DryRun: dryRun,
	})
	if err != nil {
		return errors.Errorf("creating patcher: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("plan", plan.String()).Bool("dry_run", dryRun).Msg("running plan")

	mode := "applying"
	if dryRun {
		mode = "previewing"
	}
	console.Header(fmt.Sprintf("%s %d step(s) in %s", mode, len(plan.Steps), mgr.BaseDir()))

	_, runErr := operation.NewRunner(patcher, console).Run(ctx, plan)

	console.LogNewline()
	o.UserLogger.LogSummary(mgr.Summary(ctx))

	if runErr != nil {
		return errors.Errorf("running plan: %w", runErr)
	}
	if dryRun {
		console.Warning("dry run, no files were written")
		return nil
	}
	console.Successf("applied %d step(s)", len(plan.Steps))
	return nil
}

// checkPlan reports the pending outcome of every step without writing
func checkPlan(ctx context.Context, o *opts.RootOpts, plan *config.Plan) error {
	console := log.FromContext(ctx)

	mgr := status.New(plan.BaseDir)
	patcher, err := operation.New(operation.Options{Files: mgr, Status: mgr})
	if err != nil {
		return errors.Errorf("creating patcher: %w", err)
	}

	results, err := patcher.Check(ctx, plan)
	if err != nil {
		return errors.Errorf("checking plan: %w", err)
	}

	console.Header(fmt.Sprintf("pending changes in %s", mgr.BaseDir()))

	current := ""
	for _, info := range results {
		if info.Step != current {
			current = info.Step
			console.StartStepOperation(ctx, log.StepOperation{Name: info.Step, Kind: kindOf(plan, info.Step)})
		}
		console.LogFileOperation(ctx, log.FileOperation{
			Path:    info.Path,
			Step:    info.Step,
			Outcome: info.Outcome,
			Detail:  info.Detail,
		})
	}
	console.EndStepOperation(ctx)

	console.LogNewline()
	console.Infof("checked %d file(s), nothing was written", len(results))
	counts := mgr.Summary(ctx)
	o.UserLogger.LogSummary(counts)
	o.UserLogger.LogValidation(counts[status.OutcomeFailed] == 0, "preconditions checked", nil)
	return nil
}

func kindOf(plan *config.Plan, step string) string {
	for _, s := range plan.Steps {
		if s.Name == step {
			return s.Kind
		}
	}
	return ""
}
