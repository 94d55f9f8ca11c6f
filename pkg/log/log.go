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
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/pagepatch/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	outcomeWidth = 12 // Width for outcome text
	diffIndent   = 6  // spaces to indent diff previews
)

// 🎯 FileOperation represents a per-file result for logging
type FileOperation struct {
	Path    string         // File path
	Step    string         // Step name
	Outcome status.Outcome // What happened
	Detail  string         // Optional reason
	Diff    string         // Optional dry-run preview
}

// 📦 StepOperation represents a step header for logging
type StepOperation struct {
	Name   string // Step name
	Kind   string // Patch kind
	Files  int    // Number of file entries
	DryRun bool   // Whether writes are suppressed
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *StepOperation
	operations []FileOperation
}

// 🏭 New creates a new logger writing user facing lines to console and
// mirroring every line into zlog at debug level
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.Outcome {
	case status.OutcomePatched:
		symbol = '⟳'
		symbolColor = color.FgBlue
	case status.OutcomeApplied:
		symbol = '✓'
		symbolColor = color.FgGreen
	case status.OutcomeMissing:
		symbol = '-'
		symbolColor = color.FgYellow
	case status.OutcomeFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	line := fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", outcomeWidth, op.Outcome.String())))

	if op.Detail != "" {
		line += " " + color.New(color.Faint).Sprint(op.Detail)
	}
	return line
}

// 📝 formatDiff colors a dry-run preview line by line
func formatDiff(preview string) string {
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(preview, "\n"), "\n") {
		sb.WriteString(strings.Repeat(" ", diffIndent))
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			sb.WriteString(color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "+"):
			sb.WriteString(color.GreenString("%s", line))
		case strings.HasPrefix(line, "-"):
			sb.WriteString(color.RedString("%s", line))
		default:
			sb.WriteString(color.New(color.Faint).Sprint(line))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// 📝 LogFileOperation logs a per-file result
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))
	if op.Diff != "" {
		fmt.Fprint(l.console, formatDiff(op.Diff))
	}

	l.zlog.Debug().
		Str("file", op.Path).
		Str("step", op.Step).
		Stringer("outcome", op.Outcome).
		Str("detail", op.Detail).
		Bool("has_diff", op.Diff != "").
		Msg("file operation")
}

// 📝 StartStepOperation starts a new step
func (l *Logger) StartStepOperation(ctx context.Context, op StepOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	mode := ""
	if op.DryRun {
		mode = " " + color.New(color.FgYellow).Sprint("(dry run)")
	}

	fmt.Fprintf(l.console, "%s %s %s %s%s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Kind),
		mode)

	l.zlog.Debug().
		Str("step", op.Name).
		Str("kind", op.Kind).
		Int("files", op.Files).
		Bool("dry_run", op.DryRun).
		Msg("starting step")
}

// 📝 EndStepOperation ends the current step
func (l *Logger) EndStepOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	l.zlog.Debug().
		Str("step", l.currentOp.Name).
		Int("files", len(l.operations)).
		Msg("step complete")

	l.currentOp = nil
	l.operations = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("pagepatch")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
