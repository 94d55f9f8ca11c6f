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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pagepatch/pkg/status"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_step_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartStepOperation(context.Background(), StepOperation{
					Name:  "insert-debug-loader",
					Kind:  "insert_before_marker",
					Files: 7,
				})
				logger.EndStepOperation(context.Background())
			},
			wantLogs: []string{
				"◆ insert-debug-loader • insert_before_marker",
			},
		},
		{
			name: "log_dry_run_step",
			op: func(t *testing.T, logger *Logger) {
				logger.StartStepOperation(context.Background(), StepOperation{
					Name:   "remove-instrument-panel",
					Kind:   "replace_block",
					DryRun: true,
				})
			},
			wantLogs: []string{
				"◆ remove-instrument-panel • replace_block (dry run)",
			},
		},
		{
			name: "log_diff_preview",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileOperation(context.Background(), FileOperation{
					Path:    "about.html",
					Outcome: status.OutcomePatched,
					Diff:    "--- a/about.html\n+++ b/about.html\n+<script></script>\n </body>\n",
				})
			},
			wantLogs: []string{
				"⟳ about.html                          patched",
				"--- a/about.html",
				"+++ b/about.html",
				"+<script></script>",
				"</body>",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("applying built-in recipes")
			},
			wantLogs: []string{
				"pagepatch • applying built-in recipes",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerMirrorsToZerolog(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	zbuf := &bytes.Buffer{}
	logger := New(io.Discard, zerolog.New(zbuf).Level(zerolog.DebugLevel))

	logger.LogFileOperation(context.Background(), FileOperation{
		Path:    "music.css",
		Step:    "remove-instrument-panel",
		Outcome: status.OutcomeFailed,
		Detail:  "needle not found",
	})

	out := zbuf.String()
	assert.Contains(t, out, `"file":"music.css"`)
	assert.Contains(t, out, `"step":"remove-instrument-panel"`)
	assert.Contains(t, out, `"outcome":"failed"`)
	assert.Contains(t, out, `"level":"debug"`)
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())

	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestFileOperationFormatting(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "patched_file",
			op:   FileOperation{Path: "index.html", Outcome: status.OutcomePatched},
			want: "    ⟳ index.html                          patched",
		},
		{
			name: "applied_file",
			op:   FileOperation{Path: "about.html", Outcome: status.OutcomeApplied, Detail: "already present"},
			want: "    ✓ about.html                          applied      already present",
		},
		{
			name: "missing_file",
			op:   FileOperation{Path: "games.html", Outcome: status.OutcomeMissing},
			want: "    - games.html                          missing",
		},
		{
			name: "failed_file",
			op:   FileOperation{Path: "music.css", Outcome: status.OutcomeFailed, Detail: "needle not found"},
			want: "    ✗ music.css                           failed       needle not found",
		},
		{
			name: "unchanged_file",
			op:   FileOperation{Path: "docs.html", Outcome: status.OutcomeUnchanged},
			want: "    • docs.html                           unchanged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())

			logger.LogFileOperation(context.Background(), tt.op)

			output := strings.TrimRight(buf.String(), " \n")
			assert.Equal(t, tt.want, output, "formatted output should match")
		})
	}
}
