package services

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/member-matcher/app/config"
	"github.com/member-matcher/app/models"
)

// StatusBreakdown counts match outcomes for one slice of the roster and
// expresses retention as a percentage of the matched subset.
type StatusBreakdown struct {
	Total            int     `json:"total"`
	Matched          int     `json:"matched"`
	StillPresent     int     `json:"still_present"`
	NoLongerPresent  int     `json:"no_longer_present"`
	Inconclusive     int     `json:"inconclusive"`
	Unknown          int     `json:"unknown"`
	MatchRate        float64 `json:"match_rate_percent"`
	RetentionRate    float64 `json:"retention_rate_percent"`
	AttritionRate    float64 `json:"attrition_rate_percent"`
	InconclusiveRate float64 `json:"inconclusive_rate_percent"`
}

// MatchQuality distributes matched records over confidence bands.
type MatchQuality struct {
	High          int     `json:"high_confidence"`
	Medium        int     `json:"medium_confidence"`
	Low           int     `json:"low_confidence"`
	AvgConfidence float64 `json:"avg_confidence"`

	ByMethod map[models.MatchMethod]int `json:"by_method"`
}

// TimelinePoint is one enrollment month's retention slice.
type TimelinePoint struct {
	Month     string  `json:"month"`
	Total     int     `json:"total"`
	Matched   int     `json:"matched"`
	Retained  int     `json:"retained"`
	Departed  int     `json:"departed"`
	Retention float64 `json:"retention_rate_percent"`
}

// GraduationBreakdown splits retention by the roster's student status.
type GraduationBreakdown struct {
	Graduates       StatusBreakdown `json:"graduates"`
	CurrentStudents StatusBreakdown `json:"current_students"`
	Unclassified    StatusBreakdown `json:"unclassified"`
	Insights        []string        `json:"insights"`
}

// RetentionAnalysis is the full rollup for one matched year.
type RetentionAnalysis struct {
	Year          int                        `json:"year"`
	Summary       StatusBreakdown            `json:"summary"`
	ByInstitution map[string]StatusBreakdown `json:"by_institution"`
	ByProgram     map[string]StatusBreakdown `json:"by_program"`
	ByCountry     map[string]StatusBreakdown `json:"by_country"`
	Quality       MatchQuality               `json:"match_quality"`
	Timeline      []TimelinePoint            `json:"enrollment_timeline"`
	Graduation    GraduationBreakdown        `json:"graduation"`
}

// YearComparison pairs two years' summaries with the rate deltas.
type YearComparison struct {
	FromYear       int             `json:"from_year"`
	ToYear         int             `json:"to_year"`
	From           StatusBreakdown `json:"from"`
	To             StatusBreakdown `json:"to"`
	RetentionDelta float64         `json:"retention_delta"`
	MatchRateDelta float64         `json:"match_rate_delta"`
	Observations   []string        `json:"observations"`
}

// RetentionService turns matched rosters into retention rollups. It holds
// no dataset state of its own; every method takes already-matched records.
type RetentionService struct {
	analysis *AnalysisService
	cfg      config.AnalysisConfig
	logger   *zap.Logger
}

func NewRetentionService(analysis *AnalysisService, cfg config.AnalysisConfig, logger *zap.Logger) *RetentionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionService{analysis: analysis, cfg: cfg, logger: logger}
}

// Analyze matches one year's roster and builds the full retention rollup.
func (s *RetentionService) Analyze(year int) (*RetentionAnalysis, error) {
	regs, err := s.analysis.MatchYear(year)
	if err != nil {
		return nil, err
	}

	a := &RetentionAnalysis{
		Year:          year,
		Summary:       breakdown(regs),
		ByInstitution: s.groupBreakdown(regs, 1, func(r *models.RegistrationRecord) string { return r.Institution }),
		ByProgram:     s.groupBreakdown(regs, s.cfg.MinProgramSize, func(r *models.RegistrationRecord) string { return r.Program }),
		ByCountry:     s.groupBreakdown(regs, s.cfg.MinCountrySize, func(r *models.RegistrationRecord) string { return r.Country }),
		Quality:       s.matchQuality(regs),
		Timeline:      s.timeline(regs),
	}
	a.Graduation = s.graduation(regs)

	s.logger.Info("retention analysis built",
		zap.Int("year", year),
		zap.Int("total", a.Summary.Total),
		zap.Float64("retention_rate", a.Summary.RetentionRate))
	return a, nil
}

// CompareYears contrasts two matched years' summaries.
func (s *RetentionService) CompareYears(fromYear, toYear int) (*YearComparison, error) {
	fromRegs, err := s.analysis.MatchYear(fromYear)
	if err != nil {
		return nil, err
	}
	toRegs, err := s.analysis.MatchYear(toYear)
	if err != nil {
		return nil, err
	}

	c := &YearComparison{
		FromYear: fromYear,
		ToYear:   toYear,
		From:     breakdown(fromRegs),
		To:       breakdown(toRegs),
	}
	c.RetentionDelta = c.To.RetentionRate - c.From.RetentionRate
	c.MatchRateDelta = c.To.MatchRate - c.From.MatchRate
	c.Observations = compareObservations(c)
	return c, nil
}

func breakdown(regs []*models.RegistrationRecord) StatusBreakdown {
	var b StatusBreakdown
	b.Total = len(regs)
	for _, reg := range regs {
		if !reg.Match.Matched() {
			b.Unknown++
			continue
		}
		b.Matched++
		switch reg.Match.Status {
		case models.StatusStillPresent:
			b.StillPresent++
		case models.StatusNoLongerPresent:
			b.NoLongerPresent++
		default:
			b.Inconclusive++
		}
	}
	if b.Total > 0 {
		b.MatchRate = 100 * float64(b.Matched) / float64(b.Total)
	}
	if b.Matched > 0 {
		b.RetentionRate = 100 * float64(b.StillPresent) / float64(b.Matched)
		b.AttritionRate = 100 * float64(b.NoLongerPresent) / float64(b.Matched)
		b.InconclusiveRate = 100 * float64(b.Inconclusive) / float64(b.Matched)
	}
	return b
}

// groupBreakdown rolls up by the given key, dropping blank keys and groups
// below minSize so tiny cohorts do not skew the percentages.
func (s *RetentionService) groupBreakdown(regs []*models.RegistrationRecord, minSize int, key func(*models.RegistrationRecord) string) map[string]StatusBreakdown {
	groups := make(map[string][]*models.RegistrationRecord)
	for _, reg := range regs {
		k := key(reg)
		if k == "" {
			continue
		}
		groups[k] = append(groups[k], reg)
	}

	out := make(map[string]StatusBreakdown, len(groups))
	for k, members := range groups {
		if len(members) < minSize {
			continue
		}
		out[k] = breakdown(members)
	}
	return out
}

func (s *RetentionService) matchQuality(regs []*models.RegistrationRecord) MatchQuality {
	q := MatchQuality{ByMethod: make(map[models.MatchMethod]int)}
	matched, confidenceSum := 0, 0
	for _, reg := range regs {
		if !reg.Match.Matched() {
			continue
		}
		matched++
		confidenceSum += reg.Match.Confidence
		q.ByMethod[reg.Match.Method]++
		switch {
		case reg.Match.Confidence >= s.cfg.HighConfidenceBand:
			q.High++
		case reg.Match.Confidence >= s.cfg.MediumConfidenceBand:
			q.Medium++
		default:
			q.Low++
		}
	}
	if matched > 0 {
		q.AvgConfidence = float64(confidenceSum) / float64(matched)
	}
	return q
}

// timeline buckets matched outcomes by enrollment month. Records with no
// parseable enrollment date are left out.
func (s *RetentionService) timeline(regs []*models.RegistrationRecord) []TimelinePoint {
	byMonth := make(map[string][]*models.RegistrationRecord)
	for _, reg := range regs {
		if reg.EnrollmentDate.IsZero() {
			continue
		}
		month := reg.EnrollmentDate.Format("2006-01")
		byMonth[month] = append(byMonth[month], reg)
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]TimelinePoint, 0, len(months))
	for _, m := range months {
		b := breakdown(byMonth[m])
		out = append(out, TimelinePoint{
			Month:     m,
			Total:     b.Total,
			Matched:   b.Matched,
			Retained:  b.StillPresent,
			Departed:  b.NoLongerPresent,
			Retention: b.RetentionRate,
		})
	}
	return out
}

func (s *RetentionService) graduation(regs []*models.RegistrationRecord) GraduationBreakdown {
	var grads, current, other []*models.RegistrationRecord
	for _, reg := range regs {
		switch models.ClassifyGraduation(reg.StudentStatus) {
		case models.GraduationGraduate:
			grads = append(grads, reg)
		case models.GraduationCurrent:
			current = append(current, reg)
		default:
			other = append(other, reg)
		}
	}

	g := GraduationBreakdown{
		Graduates:       breakdown(grads),
		CurrentStudents: breakdown(current),
		Unclassified:    breakdown(other),
	}
	g.Insights = graduationInsights(g)
	return g
}

func graduationInsights(g GraduationBreakdown) []string {
	var out []string
	if g.Graduates.Matched > 0 && g.CurrentStudents.Matched > 0 {
		diff := g.Graduates.RetentionRate - g.CurrentStudents.RetentionRate
		switch {
		case diff > 10:
			out = append(out, fmt.Sprintf("graduates are retained at a notably higher rate than current students (%.1f%% vs %.1f%%)",
				g.Graduates.RetentionRate, g.CurrentStudents.RetentionRate))
		case diff < -10:
			out = append(out, fmt.Sprintf("current students are retained at a notably higher rate than graduates (%.1f%% vs %.1f%%)",
				g.CurrentStudents.RetentionRate, g.Graduates.RetentionRate))
		}
	}
	if g.Graduates.Matched > 0 && g.Graduates.AttritionRate > 50 {
		out = append(out, "more than half of matched graduates have left; review post-graduation retention programs")
	}
	if g.Unclassified.Total > g.Graduates.Total+g.CurrentStudents.Total {
		out = append(out, "most records lack a usable student status; graduation rollups may be unreliable")
	}
	return out
}

func compareObservations(c *YearComparison) []string {
	var out []string
	switch {
	case c.RetentionDelta > 5:
		out = append(out, fmt.Sprintf("retention improved by %.1f points between %d and %d", c.RetentionDelta, c.FromYear, c.ToYear))
	case c.RetentionDelta < -5:
		out = append(out, fmt.Sprintf("retention declined by %.1f points between %d and %d", -c.RetentionDelta, c.FromYear, c.ToYear))
	default:
		out = append(out, fmt.Sprintf("retention held roughly steady between %d and %d", c.FromYear, c.ToYear))
	}
	if c.MatchRateDelta < -10 {
		out = append(out, "match coverage dropped sharply; rate comparisons may not be like-for-like")
	}
	return out
}
