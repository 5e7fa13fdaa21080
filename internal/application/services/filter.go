package services

import (
	"strconv"
	"strings"
)

// predicate narrows a list; a nil predicate imposes no constraint
type predicate[T any] func(T) bool

// applyFilters keeps the items matching every predicate, in order
func applyFilters[T any](items []T, preds ...predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, preds) {
			out = append(out, item)
		}
	}
	return out
}

func matchesAll[T any](item T, preds []predicate[T]) bool {
	for _, p := range preds {
		if p != nil && !p(item) {
			return false
		}
	}
	return true
}

func equalFold[T any](want string, field func(T) string) predicate[T] {
	if want == "" {
		return nil
	}
	return func(item T) bool {
		return strings.EqualFold(field(item), want)
	}
}

func containsFold[T any](want string, field func(T) string) predicate[T] {
	if want == "" {
		return nil
	}
	want = strings.ToLower(want)
	return func(item T) bool {
		return strings.Contains(strings.ToLower(field(item)), want)
	}
}

// exactInt and atLeast expect raw to be validated as unsigned digits already.
// A value too large for int matches no record.
func exactInt[T any](raw string, field func(T) int) predicate[T] {
	if raw == "" {
		return nil
	}
	want, err := strconv.Atoi(raw)
	if err != nil {
		return matchNone[T]
	}
	return func(item T) bool {
		return field(item) == want
	}
}

func atLeast[T any](raw string, field func(T) int) predicate[T] {
	if raw == "" {
		return nil
	}
	floor, err := strconv.Atoi(raw)
	if err != nil {
		return matchNone[T]
	}
	return func(item T) bool {
		return field(item) >= floor
	}
}

func matchNone[T any](T) bool { return false }

func flag[T any](raw string, field func(T) bool) predicate[T] {
	if raw == "" {
		return nil
	}
	want := raw == "true"
	return func(item T) bool {
		return field(item) == want
	}
}

func member[T any](want string, field func(T) []string) predicate[T] {
	if want == "" {
		return nil
	}
	return func(item T) bool {
		for _, v := range field(item) {
			if v == want {
				return true
			}
		}
		return false
	}
}
