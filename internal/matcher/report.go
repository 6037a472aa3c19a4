package matcher

import (
	"fmt"

	"github.com/member-matcher/app/config"
	"github.com/member-matcher/app/models"
)

// StageStats are the match counts for one stage of the pipeline.
type StageStats struct {
	Total     int     `json:"total_registrations"`
	Matched   int     `json:"matched"`
	Unmatched int     `json:"unmatched"`
	MatchRate float64 `json:"match_rate_percent"`
}

// MatchReport compares the baseline stage with the full pipeline and
// derives the recommendation list.
type MatchReport struct {
	Year               int                        `json:"year"`
	Baseline           StageStats                 `json:"baseline"`
	Improved           StageStats                 `json:"improved"`
	AdditionalMatches  int                        `json:"additional_matches"`
	ImprovementPercent float64                    `json:"improvement_percent"`
	MethodBreakdown    map[models.MatchMethod]int `json:"method_breakdown"`
	Recommendations    []string                   `json:"recommendations"`
}

// BuildReport runs the baseline stage and the full pipeline independently
// over the given registrations and compares their match rates. The records
// themselves keep the full-pipeline results (matching only ever adds
// coverage: the baseline-matched set is a subset of the final matched set).
func (p *Pipeline) BuildReport(regs []*models.RegistrationRecord, year int, cfg config.AnalysisConfig) *MatchReport {
	r := &MatchReport{
		Year:            year,
		MethodBreakdown: make(map[models.MatchMethod]int),
	}

	baselineMatched := 0
	for _, reg := range regs {
		reg.Match = p.Baseline(reg)
		if reg.Match.Matched() {
			baselineMatched++
		}
	}
	r.Baseline = stageStats(len(regs), baselineMatched)

	improvedMatched := baselineMatched
	for _, reg := range regs {
		if reg.Match.Matched() {
			continue
		}
		if res, ok := p.Improve(reg); ok {
			reg.Match = res
			improvedMatched++
		}
	}
	r.Improved = stageStats(len(regs), improvedMatched)

	for _, reg := range regs {
		if reg.Match.Matched() {
			r.MethodBreakdown[reg.Match.Method]++
		}
	}

	r.AdditionalMatches = improvedMatched - baselineMatched
	if len(regs) > 0 {
		r.ImprovementPercent = 100 * float64(r.AdditionalMatches) / float64(len(regs))
	}
	r.Recommendations = p.recommendations(regs, r, cfg)

	return r
}

func stageStats(total, matched int) StageStats {
	s := StageStats{Total: total, Matched: matched, Unmatched: total - matched}
	if total > 0 {
		s.MatchRate = 100 * float64(matched) / float64(total)
	}
	return s
}

func (p *Pipeline) recommendations(regs []*models.RegistrationRecord, r *MatchReport, cfg config.AnalysisConfig) []string {
	var out []string

	if r.AdditionalMatches > 0 {
		out = append(out,
			fmt.Sprintf("second-pass matching found %d additional matches", r.AdditionalMatches),
			"consider enabling the second-pass strategies in the standard run")
	}

	remaining := r.Improved.Unmatched
	if remaining > cfg.HighUnmatched {
		out = append(out,
			"high number of unmatched records requires manual investigation",
			"export the unmatched list for manual review",
			"consider contacting institutions for updated member lists")
	}
	if remaining > cfg.ModerateUnmatched {
		out = append(out,
			"consider sending follow-up requests to unmatched members",
			"review data collection processes for consistency")
	}

	byInstitution := make(map[string]int)
	for _, reg := range regs {
		if !reg.Match.Matched() {
			byInstitution[reg.Institution]++
		}
	}
	if inst, count := topCount(byInstitution); count > 0 {
		out = append(out, fmt.Sprintf("%s has the most unmatched records (%d); review their data quality", inst, count))
	}

	return out
}
