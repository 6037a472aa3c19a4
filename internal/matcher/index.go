// Package matcher implements the entity-resolution core: an immutable
// survey index, an exact+fuzzy baseline pass, an ordered second pass of
// weaker strategies, unmatched diagnostics, and the match report builder.
package matcher

import (
	"github.com/member-matcher/app/models"
	"github.com/member-matcher/internal/normalizer"
)

// SurveyEntry is one survey row with its precomputed comparison keys.
type SurveyEntry struct {
	Name            string
	Email           string
	NormalizedName  string
	NormalizedEmail string
	Skeleton        string // consonant skeleton of NormalizedName
	Status          models.RetentionStatus
}

// SurveyIndex holds the lookup structures built once per survey dataset.
// It is read-only after construction; matchers borrow it by reference.
//
// Duplicate normalized keys follow last-write-wins: a later survey row with
// the same key silently overwrites an earlier one. Empty keys are excluded
// so a blank field can never act as a wildcard.
type SurveyIndex struct {
	entries []SurveyEntry
	byEmail map[string]models.RetentionStatus
	byName  map[string]models.RetentionStatus
}

// NewSurveyIndex derives keys for every survey record and builds the exact
// lookup maps. Entry order preserves survey iteration order, which the
// in-order strategies and tie-breaking depend on.
func NewSurveyIndex(records []models.SurveyRecord, norm *normalizer.Normalizer) *SurveyIndex {
	idx := &SurveyIndex{
		entries: make([]SurveyEntry, 0, len(records)),
		byEmail: make(map[string]models.RetentionStatus, len(records)),
		byName:  make(map[string]models.RetentionStatus, len(records)),
	}

	for _, rec := range records {
		name := rec.NormalizedName
		if name == "" {
			name = norm.NormalizeName(rec.Name)
		}
		email := rec.NormalizedEmail
		if email == "" {
			email = norm.NormalizeEmail(rec.Email)
		}

		idx.entries = append(idx.entries, SurveyEntry{
			Name:            rec.Name,
			Email:           rec.Email,
			NormalizedName:  name,
			NormalizedEmail: email,
			Skeleton:        normalizer.ConsonantSkeleton(name),
			Status:          rec.Status,
		})

		if email != "" {
			idx.byEmail[email] = rec.Status
		}
		if name != "" {
			idx.byName[name] = rec.Status
		}
	}

	return idx
}

// LookupEmail resolves a normalized email key. Empty keys never match.
func (idx *SurveyIndex) LookupEmail(key string) (models.RetentionStatus, bool) {
	if key == "" {
		return models.StatusUnknown, false
	}
	st, ok := idx.byEmail[key]
	return st, ok
}

// LookupName resolves a normalized name key. Empty keys never match.
func (idx *SurveyIndex) LookupName(key string) (models.RetentionStatus, bool) {
	if key == "" {
		return models.StatusUnknown, false
	}
	st, ok := idx.byName[key]
	return st, ok
}

// Entries returns the survey rows in load order. Callers must not mutate.
func (idx *SurveyIndex) Entries() []SurveyEntry { return idx.entries }

func (idx *SurveyIndex) Len() int { return len(idx.entries) }
