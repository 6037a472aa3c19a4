package matcher

import (
	"sort"

	"go.uber.org/zap"

	"github.com/member-matcher/app/config"
	"github.com/member-matcher/app/models"
	"github.com/member-matcher/internal/similarity"
)

// Pipeline drives matching against one survey index. It is stateless across
// records: every registration's result depends only on the registration and
// the index, so runs are deterministic and records could be processed in
// any order.
type Pipeline struct {
	index      *SurveyIndex
	scorer     *similarity.Scorer
	cfg        config.MatcherConfig
	strategies []Strategy
	logger     *zap.Logger
}

func NewPipeline(index *SurveyIndex, scorer *similarity.Scorer, cfg config.MatcherConfig, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		index:      index,
		scorer:     scorer,
		cfg:        cfg,
		strategies: newStrategies(scorer, cfg),
		logger:     logger,
	}
}

// Baseline runs the first matching stage for one registration: exact email
// lookup, then exact name lookup, then best-candidate fuzzy name matching.
// Email is tried first because institutional emails are assumed unique per
// person while names collide.
func (p *Pipeline) Baseline(reg *models.RegistrationRecord) models.MatchResult {
	if st, ok := p.index.LookupEmail(reg.NormalizedEmail); ok {
		return models.MatchResult{Status: st, Method: models.MethodEmail, Confidence: 100}
	}
	if st, ok := p.index.LookupName(reg.NormalizedName); ok {
		return models.MatchResult{Status: st, Method: models.MethodNameExact, Confidence: 100}
	}
	return p.fuzzyName(reg)
}

// fuzzyName scores the registration name against every survey name and
// adopts the best candidate at or above the fuzzy floor. Ties go to the
// first occurrence in survey order.
func (p *Pipeline) fuzzyName(reg *models.RegistrationRecord) models.MatchResult {
	name := reg.NormalizedName
	if name == "" {
		return models.NoMatch()
	}

	bestScore := 0
	var bestStatus models.RetentionStatus
	for _, e := range p.index.Entries() {
		if e.NormalizedName == "" {
			continue
		}
		if score := p.scorer.NameScore(name, e.NormalizedName); score > bestScore {
			bestScore = score
			bestStatus = e.Status
		}
	}

	if bestScore >= p.cfg.FuzzyNameFloor {
		return models.MatchResult{Status: bestStatus, Method: models.MethodNameFuzzy, Confidence: bestScore}
	}
	return models.NoMatch()
}

// Improve runs the ordered second-pass strategies for one still-unmatched
// registration. The first strategy to accept wins.
func (p *Pipeline) Improve(reg *models.RegistrationRecord) (models.MatchResult, bool) {
	for _, s := range p.strategies {
		if res, ok := s.Attempt(reg, p.index); ok {
			return res, true
		}
	}
	return models.NoMatch(), false
}

// Run matches every registration in input order: baseline first, then the
// second pass over whatever the baseline left unresolved. Results are
// written to each record exactly once; a matched record is never revisited.
func (p *Pipeline) Run(regs []*models.RegistrationRecord) {
	matched := 0
	for _, reg := range regs {
		reg.Match = p.Baseline(reg)
		if reg.Match.Matched() {
			matched++
		}
	}
	baseline := matched

	for _, reg := range regs {
		if reg.Match.Matched() {
			continue
		}
		if res, ok := p.Improve(reg); ok {
			reg.Match = res
			matched++
		}
	}

	p.logger.Info("matching completed",
		zap.Int("registrations", len(regs)),
		zap.Int("baseline_matched", baseline),
		zap.Int("matched", matched),
		zap.Int("survey_rows", p.index.Len()))
}

// Candidates gathers up to MaxCandidates ranked near-miss suggestions for
// one unresolved registration by re-running the partial-name,
// email-username and name-variant strategies in collecting mode with their
// display floors. Presentation-only: the registration is not touched.
func (p *Pipeline) Candidates(reg *models.RegistrationRecord) []models.CandidateMatch {
	var out []models.CandidateMatch
	for _, s := range p.strategies {
		c, ok := s.(CandidateCollector)
		if !ok {
			continue
		}
		out = append(out, c.Collect(reg, p.index, p.candidateFloor(s.Method()))...)
	}

	// Rank by score, then Jaro-Winkler against the registration name as a
	// deterministic tie-break, preserving collection order beyond that.
	regName := reg.NormalizedName
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return similarity.JaroWinkler(regName, out[i].Name) > similarity.JaroWinkler(regName, out[j].Name)
	})

	if len(out) > p.cfg.MaxCandidates {
		out = out[:p.cfg.MaxCandidates]
	}
	return out
}

func (p *Pipeline) candidateFloor(m models.MatchMethod) int {
	switch m {
	case models.MethodPartialName:
		return p.cfg.CandidatePartialFloor
	case models.MethodEmailUsername:
		return p.cfg.CandidateUsernameFloor
	case models.MethodNameVariant:
		return p.cfg.CandidateVariantFloor
	default:
		return p.cfg.ConfidenceThreshold
	}
}
