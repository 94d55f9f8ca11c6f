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

package text

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ReplaceFirst replaces the first occurrence of needle with replacement.
// Every other occurrence is left untouched. It returns ErrNeedleNotFound
// when needle does not occur in content.
func ReplaceFirst(content, needle, replacement string) (string, error) {
	if needle == "" {
		return "", errors.Errorf("%w: needle is required", ErrInvalidPatch)
	}
	if !strings.Contains(content, needle) {
		return "", ErrNeedleNotFound
	}
	return strings.Replace(content, needle, replacement, 1), nil
}

// ReplaceIfPresent replaces the first occurrence of old with new when old
// occurs in content. The bool reports whether content changed.
func ReplaceIfPresent(content, old, new string) (string, bool) {
	if old == "" || old == new || !strings.Contains(content, old) {
		return content, false
	}
	return strings.Replace(content, old, new, 1), true
}

// InsertBeforeLastMarker inserts payload as its own line immediately before
// the last line whose normalized text equals marker. Only the file lines are
// normalized, so marker is expected in trimmed lowercase form.
//
// When any line already contains payload, content is returned unchanged and
// the bool is false. When no marker line exists, ErrMarkerNotFound is
// returned. The result is always rejoined with "\n" and a trailing newline.
func InsertBeforeLastMarker(content, payload, marker string) (string, bool, error) {
	if payload == "" {
		return "", false, errors.Errorf("%w: payload is required", ErrInvalidPatch)
	}

	lines := SplitLines(content)
	for _, line := range lines {
		if strings.Contains(line, payload) {
			return content, false, nil
		}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if NormalizeLine(lines[i]) != marker {
			continue
		}
		out := make([]string, 0, len(lines)+1)
		out = append(out, lines[:i]...)
		out = append(out, payload)
		out = append(out, lines[i:]...)
		return JoinLines(out), true, nil
	}

	return "", false, ErrMarkerNotFound
}

// Apply runs the patch against content
func (p Patch) Apply(content string) (*Result, error) {
	result := &Result{
		OriginalContent: content,
		ModifiedContent: content,
	}

	switch p.Kind {
	case KindReplaceBlock:
		modified, err := ReplaceFirst(content, p.Needle, p.Replacement)
		if err != nil {
			return nil, err
		}
		if modified == content {
			result.Reason = ReasonIdentity
			return result, nil
		}
		result.ModifiedContent = modified
		result.WasModified = true
		result.Reason = ReasonReplaced

	case KindReplaceIfPresent:
		if p.Needle == p.Replacement {
			result.Reason = ReasonIdentity
			return result, nil
		}
		modified, ok := ReplaceIfPresent(content, p.Needle, p.Replacement)
		if !ok {
			result.Reason = ReasonNeedleAbsent
			return result, nil
		}
		result.ModifiedContent = modified
		result.WasModified = true
		result.Reason = ReasonReplaced

	case KindInsertBeforeMarker:
		if containsLine(content, p.SkipIf) {
			result.Reason = ReasonAlreadyPresent
			return result, nil
		}
		modified, inserted, err := InsertBeforeLastMarker(content, p.Payload, p.Marker)
		if err != nil {
			return nil, err
		}
		if !inserted {
			result.Reason = ReasonAlreadyPresent
			return result, nil
		}
		result.ModifiedContent = modified
		result.WasModified = true
		result.Reason = ReasonInserted

	default:
		return nil, errors.Errorf("%w: unknown kind %q", ErrInvalidPatch, p.Kind)
	}

	return result, nil
}

// containsLine reports whether any line of content holds one of snippets
func containsLine(content string, snippets []string) bool {
	if len(snippets) == 0 {
		return false
	}
	for _, line := range SplitLines(content) {
		for _, snippet := range snippets {
			if snippet != "" && strings.Contains(line, snippet) {
				return true
			}
		}
	}
	return false
}

// Validate checks that the patch has every field its kind needs
func (p Patch) Validate() error {
	switch p.Kind {
	case KindReplaceBlock, KindReplaceIfPresent:
		if p.Needle == "" {
			return errors.Errorf("%w: needle is required", ErrInvalidPatch)
		}
	case KindInsertBeforeMarker:
		if p.Payload == "" {
			return errors.Errorf("%w: payload is required", ErrInvalidPatch)
		}
		if strings.ContainsAny(p.Payload, "\r\n") {
			return errors.Errorf("%w: payload must be a single line", ErrInvalidPatch)
		}
		if NormalizeLine(p.Marker) == "" {
			return errors.Errorf("%w: marker is required", ErrInvalidPatch)
		}
		if strings.ContainsAny(p.Marker, "\r\n") {
			return errors.Errorf("%w: marker must be a single line", ErrInvalidPatch)
		}
		for _, snippet := range p.SkipIf {
			if snippet == "" || strings.ContainsAny(snippet, "\r\n") {
				return errors.Errorf("%w: skip_if entries must be non-empty single lines", ErrInvalidPatch)
			}
		}
	default:
		return errors.Errorf("%w: unknown kind %q", ErrInvalidPatch, p.Kind)
	}
	return nil
}
