package operation

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/pagepatch/pkg/config"
	"github.com/walteh/pagepatch/pkg/status"
	"github.com/walteh/pagepatch/pkg/text"
)

// maximum number of files read at once by Check
const checkConcurrency = 8

type checkItem struct {
	step   config.Step
	target target
}

// 🔍 Check computes the pending outcome of every (step, file) pair without
// writing anything. Each file is read once and its steps are applied in
// memory in plan order, so a step sees the output of the steps before it.
// Files are read concurrently. Failed preconditions are reported as failed
// outcomes, not returned as errors. Results come back in plan order.
func (p *TextPatcher) Check(ctx context.Context, plan *config.Plan) ([]status.FileInfo, error) {
	logger := zerolog.Ctx(ctx)

	if plan == nil {
		return nil, errors.Errorf("plan is required")
	}
	if err := plan.Validate(); err != nil {
		return nil, errors.Errorf("validating plan: %w", err)
	}

	var items []checkItem
	for _, step := range plan.Steps {
		targets, err := p.targets(ctx, step)
		if err != nil {
			return nil, errors.Errorf("step %q: %w", step.Name, err)
		}
		for _, t := range targets {
			items = append(items, checkItem{step: step, target: t})
		}
	}

	results := make([]status.FileInfo, len(items))

	// group pairs by file, keeping first-seen order
	var order []string
	byPath := make(map[string][]int)
	for i, item := range items {
		if item.target.unmatched {
			results[i] = pendingMissing(item)
			continue
		}
		key := filepath.Clean(item.target.path)
		if _, ok := byPath[key]; !ok {
			order = append(order, key)
		}
		byPath[key] = append(byPath[key], i)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)
	for _, key := range order {
		idxs := byPath[key]
		g.Go(func() error {
			return p.checkFile(gctx, items, idxs, results)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("checking files: %w", err)
	}

	for _, info := range results {
		p.track(ctx, info)
	}

	logger.Debug().Int("pairs", len(results)).Int("files", len(order)).Msg("check complete")
	return results, nil
}

// checkFile fills results for every pair that targets the same file
func (p *TextPatcher) checkFile(ctx context.Context, items []checkItem, idxs []int, results []status.FileInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := items[idxs[0]].target.path

	exists, err := p.files.FileExists(ctx, path)
	if err != nil {
		return errors.Errorf("checking %s: %w", path, err)
	}
	if !exists {
		for _, i := range idxs {
			results[i] = pendingMissing(items[i])
		}
		return nil
	}

	data, err := p.files.ReadFile(ctx, path)
	if err != nil {
		return err
	}

	current := data
	for _, i := range idxs {
		item := items[i]
		info := status.FileInfo{Path: item.target.path, Step: item.step.Name}

		patch := item.step.Patch()
		res, err := patch.Apply(text.Decode(current, item.step.Lenient))
		if err != nil {
			err = describe(err, path, patch)
			info.Outcome = status.OutcomeFailed
			info.Error = err
			info.Detail = err.Error()
			info.Checksum = status.Checksum(current)
			results[i] = info
			continue
		}

		if res.WasModified {
			current = []byte(res.ModifiedContent)
		}
		info.Outcome = outcomeFor(res)
		info.Detail = res.Reason.String()
		info.Checksum = status.Checksum(current)
		results[i] = info
	}

	return nil
}

// pendingMissing reports an absent target under the step's missing policy
func pendingMissing(item checkItem) status.FileInfo {
	info := status.FileInfo{Path: item.target.path, Step: item.step.Name}
	if item.step.MissingPolicy() == config.MissingFail {
		err := errors.Errorf("%w: %s", ErrMissingFile, item.target.path)
		info.Outcome = status.OutcomeFailed
		info.Error = err
		info.Detail = err.Error()
		return info
	}
	info.Outcome = status.OutcomeMissing
	info.Detail = "skipped"
	return info
}
