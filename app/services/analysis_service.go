package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/member-matcher/app/config"
	"github.com/member-matcher/app/models"
	"github.com/member-matcher/internal/matcher"
	"github.com/member-matcher/internal/normalizer"
	"github.com/member-matcher/internal/similarity"
)

var (
	// ErrSurveyNotLoaded is returned when matching is requested before a
	// survey dataset exists. Matching against nothing must fail loudly.
	ErrSurveyNotLoaded = errors.New("survey dataset not loaded")

	// ErrYearNotLoaded is returned for a year with no registration roster.
	ErrYearNotLoaded = errors.New("no registration dataset loaded for year")
)

// AnalysisService owns the per-run datasets and drives the matching
// pipeline. The mutex guards the dataset maps against concurrent HTTP
// handlers; every match run works on its own copy of the roster, so runs
// never write to shared records.
type AnalysisService struct {
	mu     sync.RWMutex
	cfg    *config.Config
	norm   *normalizer.Normalizer
	scorer *similarity.Scorer
	logger *zap.Logger

	survey        []models.SurveyRecord
	index         *matcher.SurveyIndex
	registrations map[int][]*models.RegistrationRecord
}

func NewAnalysisService(cfg *config.Config, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		cfg:           cfg,
		norm:          normalizer.New(),
		scorer:        similarity.NewScorer(cfg.Matcher.ScoreCacheSize),
		logger:        logger,
		registrations: make(map[int][]*models.RegistrationRecord),
	}
}

// LoadSurvey normalizes and indexes the survey dataset, replacing any
// previous one. Later rows overwrite earlier rows sharing a normalized key.
func (s *AnalysisService) LoadSurvey(records []models.SurveyRecord) int {
	for i := range records {
		records[i].NormalizedName = s.norm.NormalizeName(records[i].Name)
		records[i].NormalizedEmail = s.norm.NormalizeEmail(records[i].Email)
	}
	index := matcher.NewSurveyIndex(records, s.norm)

	s.mu.Lock()
	s.survey = records
	s.index = index
	s.mu.Unlock()

	s.logger.Info("survey dataset loaded", zap.Int("records", len(records)))
	return len(records)
}

// LoadRegistrations filters a yearly roster down to region-eligible
// records, normalizes them, and stores them under the given year. Returns
// how many records survived the eligibility filter.
func (s *AnalysisService) LoadRegistrations(year int, records []models.RegistrationRecord) int {
	eligible := s.filterEligible(records)

	regs := make([]*models.RegistrationRecord, 0, len(eligible))
	for i := range eligible {
		rec := eligible[i]
		rec.NormalizedName = s.norm.NormalizeName(rec.Name)
		rec.NormalizedEmail = s.norm.NormalizeEmail(rec.Email)
		rec.Match = models.NoMatch()
		regs = append(regs, &rec)
	}

	s.mu.Lock()
	s.registrations[year] = regs
	s.mu.Unlock()

	s.logger.Info("registration dataset loaded",
		zap.Int("year", year),
		zap.Int("total", len(records)),
		zap.Int("eligible", len(regs)))
	return len(regs)
}

// filterEligible keeps registrations belonging to the configured region.
// When the roster carries region data the alias list decides; otherwise the
// institution allowlist is used as a fallback signal.
func (s *AnalysisService) filterEligible(records []models.RegistrationRecord) []models.RegistrationRecord {
	hasRegion := false
	for i := range records {
		if strings.TrimSpace(records[i].Region) != "" {
			hasRegion = true
			break
		}
	}

	if hasRegion {
		aliases := lowerSet(s.cfg.Region.Aliases)
		out := records[:0:0]
		for _, rec := range records {
			if _, ok := aliases[strings.ToLower(strings.TrimSpace(rec.Region))]; ok {
				out = append(out, rec)
			}
		}
		return out
	}

	if len(s.cfg.Region.Institutions) > 0 {
		insts := lowerSet(s.cfg.Region.Institutions)
		out := records[:0:0]
		for _, rec := range records {
			if _, ok := insts[strings.ToLower(strings.TrimSpace(rec.Institution))]; ok {
				out = append(out, rec)
			}
		}
		return out
	}

	return records
}

// Years lists the loaded registration years in ascending order.
func (s *AnalysisService) Years() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	years := make([]int, 0, len(s.registrations))
	for y := range s.registrations {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// MatchYear runs the full pipeline over one year's roster and returns the
// records in input order with results attached.
func (s *AnalysisService) MatchYear(year int) ([]*models.RegistrationRecord, error) {
	pipeline, regs, err := s.pipelineFor(year)
	if err != nil {
		return nil, err
	}
	pipeline.Run(regs)
	return regs, nil
}

// Report compares the baseline stage against the full pipeline for one
// year and derives recommendations.
func (s *AnalysisService) Report(year int) (*matcher.MatchReport, error) {
	pipeline, regs, err := s.pipelineFor(year)
	if err != nil {
		return nil, err
	}
	return pipeline.BuildReport(regs, year, s.cfg.Analysis), nil
}

// Diagnostics aggregates the unresolved remainder of one year's roster,
// including per-record candidate suggestions for manual review.
func (s *AnalysisService) Diagnostics(year int) (*matcher.UnmatchedDiagnostics, error) {
	pipeline, regs, err := s.pipelineFor(year)
	if err != nil {
		return nil, err
	}
	pipeline.Run(regs)
	return pipeline.Diagnose(regs, s.cfg.Analysis), nil
}

// pipelineFor hands each request its own copy of the year's records. The
// stored roster is never written after load, so concurrent handlers can
// match, report and diagnose the same year without sharing match state.
func (s *AnalysisService) pipelineFor(year int) (*matcher.Pipeline, []*models.RegistrationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return nil, nil, ErrSurveyNotLoaded
	}
	stored, ok := s.registrations[year]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", ErrYearNotLoaded, year)
	}

	regs := make([]*models.RegistrationRecord, len(stored))
	for i, rec := range stored {
		c := *rec
		c.Match = models.NoMatch()
		regs[i] = &c
	}
	return matcher.NewPipeline(s.index, s.scorer, s.cfg.Matcher, s.logger), regs, nil
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}
