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

// Package diff renders line oriented previews of a pending patch
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
)

// Line is one line of a diff
type Line struct {
	Op   Op
	Text string
}

// Stats counts inserted and deleted lines
type Stats struct {
	Insertions int
	Deletions  int
}

// Lines computes a line level diff between before and after
func Lines(before, after string) []Line {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var lines []Line
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		}
		for _, text := range splitKeepingLast(d.Text) {
			lines = append(lines, Line{Op: op, Text: text})
		}
	}
	return lines
}

// Count returns how many lines were inserted and deleted
func Count(lines []Line) Stats {
	var stats Stats
	for _, l := range lines {
		switch l.Op {
		case OpInsert:
			stats.Insertions++
		case OpDelete:
			stats.Deletions++
		}
	}
	return stats
}

// Unified renders a compact preview with a/b headers, keeping context
// unchanged lines around every change. Runs of hidden lines become "...".
// Identical inputs render as an empty string.
func Unified(path, before, after string, context int) string {
	if before == after {
		return ""
	}

	lines := Lines(before, after)

	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == OpEqual {
			continue
		}
		for j := max(0, i-context); j <= min(len(lines)-1, i+context); j++ {
			keep[j] = true
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)

	hidden := false
	for i, l := range lines {
		if !keep[i] {
			hidden = true
			continue
		}
		if hidden {
			sb.WriteString("...\n")
			hidden = false
		}
		switch l.Op {
		case OpInsert:
			sb.WriteString("+")
		case OpDelete:
			sb.WriteString("-")
		default:
			sb.WriteString(" ")
		}
		sb.WriteString(l.Text)
		sb.WriteString("\n")
	}
	if hidden {
		sb.WriteString("...\n")
	}

	return sb.String()
}

// splitKeepingLast splits a chunk on "\n" without producing an empty entry
// for a trailing newline
func splitKeepingLast(chunk string) []string {
	chunk = strings.TrimSuffix(chunk, "\n")
	return strings.Split(chunk, "\n")
}
