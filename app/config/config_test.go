package config

import "testing"

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Matcher.FuzzyNameFloor != 85 {
		t.Errorf("fuzzy floor = %d", cfg.Matcher.FuzzyNameFloor)
	}
	if cfg.Matcher.ConfidenceThreshold != 75 || cfg.Matcher.PhoneticBonus != 10 {
		t.Errorf("second-pass thresholds = %d / %d", cfg.Matcher.ConfidenceThreshold, cfg.Matcher.PhoneticBonus)
	}
	if cfg.Matcher.VariantFloor != 80 || cfg.Matcher.MaxCandidates != 5 {
		t.Errorf("variant floor / cap = %d / %d", cfg.Matcher.VariantFloor, cfg.Matcher.MaxCandidates)
	}
	if cfg.Matcher.CandidatePartialFloor != 70 || cfg.Matcher.CandidateUsernameFloor != 60 || cfg.Matcher.CandidateVariantFloor != 80 {
		t.Errorf("display floors = %+v", cfg.Matcher)
	}
	if len(cfg.Region.Aliases) == 0 || len(cfg.Region.Institutions) == 0 {
		t.Error("region defaults missing")
	}
}

func TestLoadWithoutFile(t *testing.T) {
	// No app.yaml exists in the test working directory, so Load must fall
	// back to the defaults rather than erroring.
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Matcher.FuzzyNameFloor != Default().Matcher.FuzzyNameFloor {
		t.Errorf("defaults not applied: %+v", cfg.Matcher)
	}
	if cfg.App.Port != "8080" {
		t.Errorf("port = %q", cfg.App.Port)
	}
}
