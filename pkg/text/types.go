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
	"slices"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNeedleNotFound is returned when a required literal is absent from the content
	ErrNeedleNotFound = errors.Base("needle not found")

	// ErrMarkerNotFound is returned when no line matches the marker
	ErrMarkerNotFound = errors.Base("marker line not found")

	// ErrInvalidPatch is returned when a patch is missing a required field
	ErrInvalidPatch = errors.Base("invalid patch")
)

// 🔧 Kind identifies how a Patch transforms content
type Kind string

const (
	// KindReplaceBlock replaces the first occurrence of a needle and fails if it is absent
	KindReplaceBlock Kind = "replace_block"

	// KindInsertBeforeMarker inserts a payload line before the last marker line
	KindInsertBeforeMarker Kind = "insert_before_marker"

	// KindReplaceIfPresent replaces the first occurrence of a needle when there is one
	KindReplaceIfPresent Kind = "replace_if_present"
)

// Kinds lists every supported kind in a stable order
func Kinds() []Kind {
	return []Kind{KindReplaceBlock, KindInsertBeforeMarker, KindReplaceIfPresent}
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	return slices.Contains(Kinds(), k)
}

// 🔄 Patch defines a single literal transformation
type Patch struct {
	// Kind selects the transformation
	Kind Kind

	// Needle is the literal text to find (replace kinds)
	Needle string

	// Replacement is substituted for the first Needle; empty deletes it
	Replacement string

	// Payload is the line to insert (insert kind)
	Payload string

	// Marker is the anchor line text. File lines are trimmed and lowercased
	// before they are compared to it.
	Marker string

	// SkipIf lists other snippets that count as the payload already being
	// present (insert kind)
	SkipIf []string
}

// 📊 Reason explains what applying a patch did
type Reason int

const (
	ReasonUnknown        Reason = iota
	ReasonReplaced              // needle replaced
	ReasonInserted              // payload inserted before marker
	ReasonAlreadyPresent        // payload already in content
	ReasonNeedleAbsent          // optional needle not present
	ReasonIdentity              // needle equals replacement
)

// String returns a string representation of Reason
func (r Reason) String() string {
	switch r {
	case ReasonReplaced:
		return "replaced"
	case ReasonInserted:
		return "inserted"
	case ReasonAlreadyPresent:
		return "already present"
	case ReasonNeedleAbsent:
		return "needle absent"
	case ReasonIdentity:
		return "identity replacement"
	default:
		return "unknown"
	}
}

// 📦 Result contains the outcome of applying a patch to some content
type Result struct {
	// WasModified indicates if the content changed
	WasModified bool

	// Reason explains the result
	Reason Reason

	// OriginalContent is the content before the patch
	OriginalContent string

	// ModifiedContent is the content after the patch
	ModifiedContent string
}
