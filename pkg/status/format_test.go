package status

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 🧪 TestDefaultFileFormatter tests the default file formatter implementation
func TestDefaultFileFormatter(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		outcome Outcome
		want    string
	}{
		{name: "patched", path: "index.html", outcome: OutcomePatched, want: "📝 Patched index.html"},
		{name: "applied", path: "about.html", outcome: OutcomeApplied, want: "✅ Already applied about.html"},
		{name: "missing", path: "games.html", outcome: OutcomeMissing, want: "⏭️  Missing games.html"},
		{name: "failed", path: "music.css", outcome: OutcomeFailed, want: "❌ Failed music.css"},
		{name: "unchanged", path: "docs.html", outcome: OutcomeUnchanged, want: "👍 Unchanged docs.html"},
	}

	formatter := NewDefaultFileFormatter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatter.FormatOutcome(tt.path, tt.outcome))
		})
	}
}

func TestFormatProgress(t *testing.T) {
	formatter := NewDefaultFileFormatter()

	assert.Equal(t, "⏳ Progress: 1/4 (25%)", formatter.FormatProgress(1, 4))
	assert.Equal(t, "✅ Progress: 4/4 (100%)", formatter.FormatProgress(4, 4))
	assert.Equal(t, "✅ Progress: 0/0 (0%)", formatter.FormatProgress(0, 0))
}

func TestFormatError(t *testing.T) {
	formatter := NewDefaultFileFormatter()

	assert.Equal(t, "", formatter.FormatError(nil))
	assert.Equal(t, "❌ Error: boom", formatter.FormatError(fmt.Errorf("boom")))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "patched", OutcomePatched.String())
	assert.Equal(t, "applied", OutcomeApplied.String())
	assert.Equal(t, "unchanged", OutcomeUnchanged.String())
	assert.Equal(t, "missing", OutcomeMissing.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
