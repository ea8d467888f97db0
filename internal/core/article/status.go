// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/sec"
	"github.com/vadali/newsroom/internal/platform/validate"
)

// Status is the review state of an article.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPending   Status = "Pending Review"
	StatusPublished Status = "Published"
	StatusRejected  Status = "Rejected"
)

// StatusAll is the listing filter value that disables status filtering.
const StatusAll = "ALL"

// statusAliases maps folded spellings to statuses, including legacy synonyms.
var statusAliases = map[string]Status{
	"draft":          StatusDraft,
	"pendingreview":  StatusPending,
	"pending":        StatusPending,
	"submitted":      StatusPending,
	"awaitingreview": StatusPending,
	"published":      StatusPublished,
	"approved":       StatusPublished,
	"live":           StatusPublished,
	"rejected":       StatusRejected,
	"declined":       StatusRejected,
	"denied":         StatusRejected,
}

// fold lowercases and drops separators, so "Pending-Review" and
// "pending_review" compare equal.
func fold(raw string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(raw) {
		if r == '-' || r == '_' || unicode.IsSpace(r) {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

/*
ParseStatus resolves a status string strictly.

Returns:
  - error: VALIDATION_ERROR on the status field for anything unrecognised
*/
func ParseStatus(raw string) (Status, error) {
	if status, ok := statusAliases[fold(raw)]; ok {
		return status, nil
	}
	return "", validate.RequiredError(FieldStatus,
		fmt.Sprintf("Must be one of: %s, %s, %s, %s", StatusDraft, StatusPending, StatusPublished, StatusRejected))
}

// NormalizeStatus resolves a status string leniently. Unknown values become
// Draft; it is only used for create and update payloads.
func NormalizeStatus(raw string) Status {
	if status, ok := statusAliases[fold(raw)]; ok {
		return status
	}
	return StatusDraft
}

// # Transitions

type transition struct {
	from Status
	to   Status
}

var (
	anyWriter = []sec.Role{sec.RoleAuthor, sec.RoleEditor, sec.RoleAdmin}
	reviewers = []sec.Role{sec.RoleEditor, sec.RoleAdmin}
)

// transitions lists the moves allowed on the status endpoint and who may make them.
var transitions = map[transition][]sec.Role{
	{StatusDraft, StatusPending}:     anyWriter,
	{StatusDraft, StatusPublished}:   reviewers,
	{StatusPending, StatusPublished}: reviewers,
	{StatusPending, StatusRejected}:  reviewers,
	{StatusPending, StatusDraft}:     anyWriter,
	{StatusRejected, StatusPending}:  anyWriter,
	{StatusRejected, StatusDraft}:    anyWriter,
	{StatusPublished, StatusDraft}:   reviewers,
}

/*
CheckTransition validates a review move for the acting role.

Returns:
  - error: UNPROCESSABLE when the move does not exist, FORBIDDEN when the
    role may not make it
*/
func CheckTransition(from, to Status, role sec.Role) error {
	allowed, ok := transitions[transition{from: from, to: to}]
	if !ok {
		return apperr.Unprocessable(fmt.Sprintf("Cannot move an article from %s to %s", from, to))
	}
	if !role.In(allowed...) {
		return apperr.Forbidden(fmt.Sprintf("Your role cannot move an article from %s to %s", from, to))
	}
	return nil
}

// authorWritable reports whether an author may still edit an article in this state.
func authorWritable(status Status) bool {
	return status == StatusDraft || status == StatusRejected
}

// authorSettable reports whether an author may set this status directly.
func authorSettable(status Status) bool {
	return status == StatusDraft || status == StatusPending
}
