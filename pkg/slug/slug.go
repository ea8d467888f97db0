// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// Article slugs come from titles and category slugs from names
// ("Tech & Science" becomes "tech-science").
package slug

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any run of characters outside [a-z0-9].
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

	// valid matches a finished slug.
	valid = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
//  1. NFD normalization, then combining marks (accents) are dropped.
//  2. Lowercase.
//  3. Every run of other characters becomes one hyphen.
//  4. Leading and trailing hyphens are trimmed.
func From(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Derive returns From(s), or "<prefix>-<digest>" when s has text but no
// Latin letters or digits survive (Tamil, Chinese, Thai titles). The digest
// is the first 10 hex characters of the SHA-256 of the NFC form, so the same
// text always yields the same slug. Blank input yields "".
func Derive(s, prefix string) string {
	if out := From(s); out != "" {
		return out
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(norm.NFC.String(trimmed)))
	return prefix + "-" + hex.EncodeToString(sum[:5])
}

// Valid reports whether s is already a well-formed slug.
func Valid(s string) bool {
	return valid.MatchString(s)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
