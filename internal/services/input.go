// Package services – input normalisation and validation shared by every
// service: subject names and descriptions are NFC-normalised and trimmed,
// and input structs are checked with go-playground/validator.
package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-mentorship-backend/internal/repo"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs struct-tag validation and maps failures to ErrInvalidInput.
func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		return invalid(err)
	}
	return nil
}

// normalizeText returns s in NFC with surrounding whitespace removed.
// Subject names stay case-sensitive.
func normalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// normalizeName normalises a single subject name.
func normalizeName(name string) (string, error) {
	n := normalizeText(name)
	if n == "" {
		return "", ErrEmptySubjectName
	}
	return n, nil
}

// normalizeNames normalises names and drops duplicates, keeping first-seen
// order. Any blank name fails the whole call before anything is written.
func normalizeNames(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		n, err := normalizeName(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

// normalizeDescription rejects blank descriptions.
func normalizeDescription(desc string) (string, error) {
	d := normalizeText(desc)
	if d == "" {
		return "", ErrEmptyDescription
	}
	return d, nil
}

// lookupErr maps a repository not-found error to missing and classifies
// everything else with storeErr.
func lookupErr(op string, err error, missing error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return missing
	}
	return storeErr(op, err)
}

// uniqueIDs drops duplicate ids, keeping order.
func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
