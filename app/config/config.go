package config

import (
	"strings"

	"github.com/spf13/viper"
)

// MatcherConfig gathers every numeric threshold of the matching pipeline in
// one place so tuning never touches matching logic.
type MatcherConfig struct {
	// First pass: minimum fuzzy name score to adopt a match.
	FuzzyNameFloor int `mapstructure:"fuzzy_name_floor" yaml:"fuzzy_name_floor"`

	// Second pass: base threshold for the partial-name and email-username
	// strategies. The phonetic strategy adds PhoneticBonus on top because
	// consonant skeletons collide more often.
	ConfidenceThreshold int `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
	PhoneticBonus       int `mapstructure:"phonetic_bonus" yaml:"phonetic_bonus"`
	VariantFloor        int `mapstructure:"variant_floor" yaml:"variant_floor"`

	// Skeletons at or below this length are too ambiguous to compare.
	MinSkeletonLen int `mapstructure:"min_skeleton_len" yaml:"min_skeleton_len"`

	// Display floors for diagnostics candidate collection. Lower than the
	// adoption thresholds: near misses are the point.
	CandidatePartialFloor  int `mapstructure:"candidate_partial_floor" yaml:"candidate_partial_floor"`
	CandidateUsernameFloor int `mapstructure:"candidate_username_floor" yaml:"candidate_username_floor"`
	CandidateVariantFloor  int `mapstructure:"candidate_variant_floor" yaml:"candidate_variant_floor"`
	MaxCandidates          int `mapstructure:"max_candidates" yaml:"max_candidates"`

	ScoreCacheSize int `mapstructure:"score_cache_size" yaml:"score_cache_size"`
}

// RegionConfig drives registration eligibility filtering. Records whose
// region field matches an alias are kept; when a roster has no region data
// at all, the institution allowlist is used instead.
type RegionConfig struct {
	Name         string   `mapstructure:"name" yaml:"name"`
	Aliases      []string `mapstructure:"aliases" yaml:"aliases"`
	Institutions []string `mapstructure:"institutions" yaml:"institutions"`
}

// AnalysisConfig holds the rollup and recommendation knobs.
type AnalysisConfig struct {
	MinProgramSize       int `mapstructure:"min_program_size" yaml:"min_program_size"`
	MinCountrySize       int `mapstructure:"min_country_size" yaml:"min_country_size"`
	HighUnmatched        int `mapstructure:"high_unmatched" yaml:"high_unmatched"`
	ModerateUnmatched    int `mapstructure:"moderate_unmatched" yaml:"moderate_unmatched"`
	ShortNameLen         int `mapstructure:"short_name_len" yaml:"short_name_len"`
	VeryShortNameLen     int `mapstructure:"very_short_name_len" yaml:"very_short_name_len"`
	VeryLongNameLen      int `mapstructure:"very_long_name_len" yaml:"very_long_name_len"`
	HighConfidenceBand   int `mapstructure:"high_confidence_band" yaml:"high_confidence_band"`
	MediumConfidenceBand int `mapstructure:"medium_confidence_band" yaml:"medium_confidence_band"`
}

type AppConfig struct {
	Port string `mapstructure:"port" yaml:"port"`
	Env  string `mapstructure:"env" yaml:"env"`
}

type Config struct {
	App      AppConfig      `mapstructure:"app" yaml:"app"`
	Matcher  MatcherConfig  `mapstructure:"matcher" yaml:"matcher"`
	Region   RegionConfig   `mapstructure:"region" yaml:"region"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
}

// Default returns the configuration the matching semantics were calibrated
// with. Thresholds are empirical: the fuzzy floor sits above the generic
// threshold to suppress common-surname collisions.
func Default() *Config {
	return &Config{
		App: AppConfig{Port: "8080", Env: "development"},
		Matcher: MatcherConfig{
			FuzzyNameFloor:         85,
			ConfidenceThreshold:    75,
			PhoneticBonus:          10,
			VariantFloor:           80,
			MinSkeletonLen:         3,
			CandidatePartialFloor:  70,
			CandidateUsernameFloor: 60,
			CandidateVariantFloor:  80,
			MaxCandidates:          5,
			ScoreCacheSize:         8192,
		},
		Region: RegionConfig{
			Name: "Prince Edward Island",
			Aliases: []string{
				"Prince Edward Island",
				"Prince-Edward-Island",
				"PEI",
				"P.E.I.",
				"Prince Edward Island, Canada",
				"PE",
			},
			Institutions: []string{
				"UPEI",
				"University of Prince Edward Island",
				"Holland College",
				"Collège de l'Île",
				"College de l'Ile",
				"Maritime Christian College",
				"PEI Paramedic Academy",
			},
		},
		Analysis: AnalysisConfig{
			MinProgramSize:       5,
			MinCountrySize:       3,
			HighUnmatched:        50,
			ModerateUnmatched:    20,
			ShortNameLen:         10,
			VeryShortNameLen:     5,
			VeryLongNameLen:      30,
			HighConfidenceBand:   95,
			MediumConfidenceBand: 80,
		},
	}
}

// Load reads config/app.yaml (when present) over the defaults, with ENV
// overrides via viper's automatic env binding (e.g. APP_PORT).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	setDefaults(v, Default())

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("app.port", d.App.Port)
	v.SetDefault("app.env", d.App.Env)

	v.SetDefault("matcher.fuzzy_name_floor", d.Matcher.FuzzyNameFloor)
	v.SetDefault("matcher.confidence_threshold", d.Matcher.ConfidenceThreshold)
	v.SetDefault("matcher.phonetic_bonus", d.Matcher.PhoneticBonus)
	v.SetDefault("matcher.variant_floor", d.Matcher.VariantFloor)
	v.SetDefault("matcher.min_skeleton_len", d.Matcher.MinSkeletonLen)
	v.SetDefault("matcher.candidate_partial_floor", d.Matcher.CandidatePartialFloor)
	v.SetDefault("matcher.candidate_username_floor", d.Matcher.CandidateUsernameFloor)
	v.SetDefault("matcher.candidate_variant_floor", d.Matcher.CandidateVariantFloor)
	v.SetDefault("matcher.max_candidates", d.Matcher.MaxCandidates)
	v.SetDefault("matcher.score_cache_size", d.Matcher.ScoreCacheSize)

	v.SetDefault("region.name", d.Region.Name)
	v.SetDefault("region.aliases", d.Region.Aliases)
	v.SetDefault("region.institutions", d.Region.Institutions)

	v.SetDefault("analysis.min_program_size", d.Analysis.MinProgramSize)
	v.SetDefault("analysis.min_country_size", d.Analysis.MinCountrySize)
	v.SetDefault("analysis.high_unmatched", d.Analysis.HighUnmatched)
	v.SetDefault("analysis.moderate_unmatched", d.Analysis.ModerateUnmatched)
	v.SetDefault("analysis.short_name_len", d.Analysis.ShortNameLen)
	v.SetDefault("analysis.very_short_name_len", d.Analysis.VeryShortNameLen)
	v.SetDefault("analysis.very_long_name_len", d.Analysis.VeryLongNameLen)
	v.SetDefault("analysis.high_confidence_band", d.Analysis.HighConfidenceBand)
	v.SetDefault("analysis.medium_confidence_band", d.Analysis.MediumConfidenceBand)
}
