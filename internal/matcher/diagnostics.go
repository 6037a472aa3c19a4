package matcher

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/member-matcher/app/config"
	"github.com/member-matcher/app/models"
	"github.com/member-matcher/internal/normalizer"
)

var reSpecialChars = regexp.MustCompile(`[^\w\s]`)

// NameStats summarizes name characteristics of the unresolved subset.
type NameStats struct {
	AvgLength        float64 `json:"avg_length"`
	WithSpecialChars int     `json:"with_special_chars"`
	VeryShort        int     `json:"very_short"`
	VeryLong         int     `json:"very_long"`
}

// RecordCandidates pairs one unresolved registration with its ranked
// near-miss suggestions.
type RecordCandidates struct {
	Name    string                  `json:"name"`
	Email   string                  `json:"email"`
	Matches []models.CandidateMatch `json:"matches"`
}

// UnmatchedDiagnostics aggregates the still-unknown subset for human
// review. It is derived from match results and never mutates them.
type UnmatchedDiagnostics struct {
	Total         int            `json:"total_registrations"`
	Unmatched     int            `json:"total_unmatched"`
	UnmatchedPct  float64        `json:"unmatched_percent"`
	ByInstitution map[string]int `json:"by_institution"`
	ByProgram     map[string]int `json:"by_program"`
	ByCountry     map[string]int `json:"by_country"`
	ByEmailDomain map[string]int `json:"by_email_domain"`
	NameStats     NameStats      `json:"name_characteristics"`
	Suggestions   []string       `json:"suggestions"`

	// Candidates holds one entry per unresolved registration that has at
	// least one suggestion, in registration input order.
	Candidates []RecordCandidates `json:"potential_matches"`
}

// Diagnose builds diagnostics over the registrations that every matching
// stage left unresolved.
func (p *Pipeline) Diagnose(regs []*models.RegistrationRecord, cfg config.AnalysisConfig) *UnmatchedDiagnostics {
	d := &UnmatchedDiagnostics{
		Total:         len(regs),
		ByInstitution: make(map[string]int),
		ByProgram:     make(map[string]int),
		ByCountry:     make(map[string]int),
		ByEmailDomain: make(map[string]int),
	}

	var unresolved []*models.RegistrationRecord
	for _, reg := range regs {
		if !reg.Match.Matched() {
			unresolved = append(unresolved, reg)
		}
	}
	d.Unmatched = len(unresolved)
	if d.Total > 0 {
		d.UnmatchedPct = 100 * float64(d.Unmatched) / float64(d.Total)
	}

	totalNameLen := 0
	shortNames := 0
	for _, reg := range unresolved {
		d.ByInstitution[reg.Institution]++
		d.ByProgram[reg.Program]++
		d.ByCountry[reg.Country]++
		if domain, ok := normalizer.EmailDomain(reg.NormalizedEmail); ok {
			d.ByEmailDomain[domain]++
		}

		nameLen := len(reg.NormalizedName)
		totalNameLen += nameLen
		if nameLen < cfg.VeryShortNameLen {
			d.NameStats.VeryShort++
		}
		if nameLen > cfg.VeryLongNameLen {
			d.NameStats.VeryLong++
		}
		if nameLen < cfg.ShortNameLen {
			shortNames++
		}
		if reSpecialChars.MatchString(reg.Name) {
			d.NameStats.WithSpecialChars++
		}

		if matches := p.Candidates(reg); len(matches) > 0 {
			d.Candidates = append(d.Candidates, RecordCandidates{
				Name:    reg.Name,
				Email:   reg.Email,
				Matches: matches,
			})
		}
	}
	if len(unresolved) > 0 {
		d.NameStats.AvgLength = float64(totalNameLen) / float64(len(unresolved))
	}

	d.Suggestions = p.suggestions(d, shortNames, cfg)
	return d
}

func (p *Pipeline) suggestions(d *UnmatchedDiagnostics, shortNames int, cfg config.AnalysisConfig) []string {
	var out []string

	if d.Unmatched > cfg.HighUnmatched {
		out = append(out,
			"high number of unmatched records suggests data quality issues",
			"review data entry processes for consistency")
	}

	if domain, count := topCount(d.ByEmailDomain); count > 0 {
		out = append(out,
			fmt.Sprintf("most common email domain among unmatched records: %s (%d records)", domain, count),
			"check with institution IT for email format standards")
	}

	if d.Unmatched > 0 && float64(shortNames) > 0.3*float64(d.Unmatched) {
		out = append(out, "many unmatched records have short names; source data may be incomplete")
	}

	return out
}

// topCount returns the key with the highest count, breaking ties by the
// lexicographically smallest key so output is stable across runs.
func topCount(counts map[string]int) (string, int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		if strings.TrimSpace(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestCount := "", 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best, bestCount
}
