package operation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pagepatch/pkg/config"
	"github.com/walteh/pagepatch/pkg/recipe"
	"github.com/walteh/pagepatch/pkg/status"
	"github.com/walteh/pagepatch/pkg/text"
)

func TestCheckReportsPendingOutcomes(t *testing.T) {
	files := siteFixture()
	files["music.css"] = "body {}\n"
	ctx, dir, _, p := createTestEnv(t, files, false)

	plan, err := recipe.Plan(dir,
		recipe.RemoveInstrumentPanel,
		recipe.FixPageSnippets,
		recipe.InsertDebugLoader,
	)
	require.NoError(t, err)

	results, err := p.Check(ctx, plan)
	require.NoError(t, err, "failed preconditions are outcomes, not errors")

	for name, content := range files {
		assert.Equal(t, content, readFixture(t, dir, name), "check must not write %s", name)
	}

	require.Len(t, results, 1+8+7)

	assert.Equal(t, "music.css", results[0].Path)
	assert.Equal(t, status.OutcomeFailed, results[0].Outcome)
	assert.True(t, errors.Is(results[0].Error, text.ErrNeedleNotFound))

	byKey := map[string]status.Outcome{}
	for _, r := range results {
		byKey[r.Step+"/"+r.Path] = r.Outcome
	}
	assert.Equal(t, status.OutcomePatched, byKey[recipe.FixPageSnippets+"/index.html"])
	assert.Equal(t, status.OutcomeUnchanged, byKey[recipe.FixPageSnippets+"/about.html"])
	assert.Equal(t, status.OutcomeMissing, byKey[recipe.FixPageSnippets+"/videos.html"])
	assert.Equal(t, status.OutcomePatched, byKey[recipe.InsertDebugLoader+"/about.html"])
	assert.Equal(t, status.OutcomeApplied, byKey[recipe.InsertDebugLoader+"/docs.html"], "insert should see the pending fix")
}

func TestCheckKeepsPlanOrder(t *testing.T) {
	files := map[string]string{}
	var names []string
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("page-%02d.html", i)
		names = append(names, name)
		if i%3 != 0 {
			files[name] = page
		}
	}
	ctx, _, _, p := createTestEnv(t, files, false)

	plan := &config.Plan{Steps: []config.Step{insertStep(names...)}}
	results, err := p.Check(ctx, plan)
	require.NoError(t, err)

	require.Len(t, results, len(names))
	for i, r := range results {
		assert.Equal(t, names[i], r.Path)
		if i%3 == 0 {
			assert.Equal(t, status.OutcomeMissing, r.Outcome)
		} else {
			assert.Equal(t, status.OutcomePatched, r.Outcome)
			assert.NotEmpty(t, r.Checksum)
		}
	}
}

func TestCheckMissingPolicy(t *testing.T) {
	ctx, _, _, p := createTestEnv(t, nil, false)

	plan := &config.Plan{Steps: []config.Step{
		{Name: "block", Kind: string(text.KindReplaceBlock), Files: []string{"music.css"}, Needle: "x"},
		{Name: "glob", Kind: string(text.KindReplaceIfPresent), Files: []string{"*.html"}, Needle: "x", Replacement: "y"},
	}}

	results, err := p.Check(ctx, plan)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, status.OutcomeFailed, results[0].Outcome)
	assert.True(t, errors.Is(results[0].Error, ErrMissingFile))
	assert.Equal(t, "*.html", results[1].Path)
	assert.Equal(t, status.OutcomeMissing, results[1].Outcome)
}
