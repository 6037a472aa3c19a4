package matcher

import (
	"strings"

	"github.com/member-matcher/app/config"
	"github.com/member-matcher/app/models"
	"github.com/member-matcher/internal/normalizer"
	"github.com/member-matcher/internal/similarity"
)

// Strategy is one second-pass heuristic. Attempt returns the adopted result
// for a still-unmatched registration, or false. The driver tries strategies
// in a fixed order and stops at the first acceptance; there is no
// cross-strategy score comparison.
type Strategy interface {
	Method() models.MatchMethod
	Attempt(reg *models.RegistrationRecord, idx *SurveyIndex) (models.MatchResult, bool)
}

// CandidateCollector is implemented by strategies that can also run in
// collecting mode for diagnostics: instead of stopping at the first
// acceptable candidate, gather every candidate at or above a display floor.
// Collecting never mutates a MatchResult.
type CandidateCollector interface {
	Collect(reg *models.RegistrationRecord, idx *SurveyIndex, floor int) []models.CandidateMatch
}

// newStrategies builds the second-pass chain in its fixed priority order.
func newStrategies(scorer *similarity.Scorer, cfg config.MatcherConfig) []Strategy {
	return []Strategy{
		&partialNameStrategy{scorer: scorer, threshold: cfg.ConfidenceThreshold},
		&phoneticStrategy{
			scorer:         scorer,
			threshold:      cfg.ConfidenceThreshold + cfg.PhoneticBonus,
			minSkeletonLen: cfg.MinSkeletonLen,
		},
		&emailUsernameStrategy{scorer: scorer, threshold: cfg.ConfidenceThreshold},
		&nameVariantStrategy{scorer: scorer, threshold: cfg.VariantFloor},
	}
}

// partialNameStrategy reduces the registration name to "first token + last
// token" and fuzzy-matches the reduced string against full survey names.
// The first survey row at or above the threshold wins (in-order scan, not
// best-of).
type partialNameStrategy struct {
	scorer    *similarity.Scorer
	threshold int
}

func (s *partialNameStrategy) Method() models.MatchMethod { return models.MethodPartialName }

func firstLast(name string) (string, bool) {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return "", false
	}
	return parts[0] + " " + parts[len(parts)-1], true
}

func (s *partialNameStrategy) Attempt(reg *models.RegistrationRecord, idx *SurveyIndex) (models.MatchResult, bool) {
	reduced, ok := firstLast(reg.NormalizedName)
	if !ok {
		return models.NoMatch(), false
	}
	for _, e := range idx.Entries() {
		if e.NormalizedName == "" {
			continue
		}
		if score := s.scorer.NameScore(reduced, e.NormalizedName); score >= s.threshold {
			return models.MatchResult{Status: e.Status, Method: s.Method(), Confidence: score}, true
		}
	}
	return models.NoMatch(), false
}

func (s *partialNameStrategy) Collect(reg *models.RegistrationRecord, idx *SurveyIndex, floor int) []models.CandidateMatch {
	reduced, ok := firstLast(reg.NormalizedName)
	if !ok {
		return nil
	}
	var out []models.CandidateMatch
	for _, e := range idx.Entries() {
		if e.NormalizedName == "" {
			continue
		}
		if score := s.scorer.NameScore(reduced, e.NormalizedName); score >= floor {
			out = append(out, models.CandidateMatch{
				Name: e.Name, Email: e.Email, Status: e.Status,
				Method: s.Method(), Score: score,
			})
		}
	}
	return out
}

// phoneticStrategy compares consonant skeletons. Skeletons must each exceed
// the minimum length to be considered, and the bar is stricter than the base
// threshold because skeletons collide more often than full names.
type phoneticStrategy struct {
	scorer         *similarity.Scorer
	threshold      int
	minSkeletonLen int
}

func (s *phoneticStrategy) Method() models.MatchMethod { return models.MethodPhonetic }

func (s *phoneticStrategy) Attempt(reg *models.RegistrationRecord, idx *SurveyIndex) (models.MatchResult, bool) {
	skeleton := normalizer.ConsonantSkeleton(reg.NormalizedName)
	if len(skeleton) <= s.minSkeletonLen {
		return models.NoMatch(), false
	}
	for _, e := range idx.Entries() {
		if len(e.Skeleton) <= s.minSkeletonLen {
			continue
		}
		if score := s.scorer.Ratio(skeleton, e.Skeleton); score >= s.threshold {
			return models.MatchResult{Status: e.Status, Method: s.Method(), Confidence: score}, true
		}
	}
	return models.NoMatch(), false
}

// emailUsernameStrategy compares email local parts. Registrations without a
// well-formed email are skipped, as are survey rows without one.
type emailUsernameStrategy struct {
	scorer    *similarity.Scorer
	threshold int
}

func (s *emailUsernameStrategy) Method() models.MatchMethod { return models.MethodEmailUsername }

func (s *emailUsernameStrategy) Attempt(reg *models.RegistrationRecord, idx *SurveyIndex) (models.MatchResult, bool) {
	local, ok := normalizer.EmailLocalPart(reg.NormalizedEmail)
	if !ok {
		return models.NoMatch(), false
	}
	for _, e := range idx.Entries() {
		sLocal, ok := normalizer.EmailLocalPart(e.NormalizedEmail)
		if !ok {
			continue
		}
		if score := s.scorer.Ratio(local, sLocal); score >= s.threshold {
			return models.MatchResult{Status: e.Status, Method: s.Method(), Confidence: score}, true
		}
	}
	return models.NoMatch(), false
}

func (s *emailUsernameStrategy) Collect(reg *models.RegistrationRecord, idx *SurveyIndex, floor int) []models.CandidateMatch {
	local, ok := normalizer.EmailLocalPart(reg.NormalizedEmail)
	if !ok {
		return nil
	}
	var out []models.CandidateMatch
	for _, e := range idx.Entries() {
		sLocal, ok := normalizer.EmailLocalPart(e.NormalizedEmail)
		if !ok {
			continue
		}
		if score := s.scorer.Ratio(local, sLocal); score >= floor {
			out = append(out, models.CandidateMatch{
				Name: e.Name, Email: e.Email, Status: e.Status,
				Method: s.Method(), Score: score,
			})
		}
	}
	return out
}

// nameVariantStrategy fuzzy-matches deterministic name variants (reversed
// order, dropped middle tokens, nickname substitution) against survey
// names. Variants are tried in generation order; within a variant the scan
// is in survey order.
type nameVariantStrategy struct {
	scorer    *similarity.Scorer
	threshold int
}

func (s *nameVariantStrategy) Method() models.MatchMethod { return models.MethodNameVariant }

func (s *nameVariantStrategy) Attempt(reg *models.RegistrationRecord, idx *SurveyIndex) (models.MatchResult, bool) {
	for _, variant := range nameVariants(reg.NormalizedName) {
		for _, e := range idx.Entries() {
			if e.NormalizedName == "" {
				continue
			}
			if score := s.scorer.NameScore(variant, e.NormalizedName); score >= s.threshold {
				return models.MatchResult{Status: e.Status, Method: s.Method(), Confidence: score}, true
			}
		}
	}
	return models.NoMatch(), false
}

func (s *nameVariantStrategy) Collect(reg *models.RegistrationRecord, idx *SurveyIndex, floor int) []models.CandidateMatch {
	var out []models.CandidateMatch
	for _, variant := range nameVariants(reg.NormalizedName) {
		for _, e := range idx.Entries() {
			if e.NormalizedName == "" {
				continue
			}
			if score := s.scorer.NameScore(variant, e.NormalizedName); score >= floor {
				out = append(out, models.CandidateMatch{
					Name: e.Name, Email: e.Email, Status: e.Status,
					Method: s.Method(), Score: score, Variant: variant,
				})
			}
		}
	}
	return out
}
