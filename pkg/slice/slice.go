// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with generic
functional helpers and the case-insensitive string operations tags need.
*/
package slice

import "strings"

// Map maps a slice of type T to a slice of type U.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}

// Filter returns the elements for which predicate is true.
func Filter[T any](input []T, predicate func(T) bool) []T {
	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}
	return result
}

// ContainsFold reports whether any element equals target, ignoring case.
func ContainsFold(input []string, target string) bool {
	for _, v := range input {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

// UniqueFold trims every element, drops empties, and removes
// case-insensitive duplicates while keeping the first-seen casing and order.
func UniqueFold(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, v := range input {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, v)
	}
	return result
}
