// Command analyze runs the full matching and retention analysis offline
// against CSV exports and writes the results as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/member-matcher/app/config"
	"github.com/member-matcher/app/services"
	"github.com/member-matcher/internal/loader"
)

func main() {
	surveyPath := flag.String("survey", "", "path to the status survey CSV (required)")
	regsPath := flag.String("registrations", "", "path to the yearly roster CSV (required)")
	year := flag.Int("year", 0, "roster year (required)")
	outDir := flag.String("out", "reports", "directory for JSON output")
	dumpConfig := flag.Bool("dump-config", false, "print the effective configuration as YAML and exit")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	if *dumpConfig {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			logger.Fatal("marshal config", zap.Error(err))
		}
		os.Stdout.Write(data)
		return
	}

	if *surveyPath == "" || *regsPath == "" || *year == 0 {
		flag.Usage()
		os.Exit(2)
	}

	l := loader.New(logger)
	survey, err := l.LoadSurvey(*surveyPath)
	if err != nil {
		logger.Fatal("load survey", zap.Error(err))
	}
	regs, err := l.LoadRegistrations(*regsPath)
	if err != nil {
		logger.Fatal("load registrations", zap.Error(err))
	}

	analysis := services.NewAnalysisService(cfg, logger)
	retention := services.NewRetentionService(analysis, cfg.Analysis, logger)

	analysis.LoadSurvey(survey)
	eligible := analysis.LoadRegistrations(*year, regs)
	logger.Info("datasets loaded",
		zap.Int("survey_rows", len(survey)),
		zap.Int("roster_rows", len(regs)),
		zap.Int("eligible", eligible))

	report, err := analysis.Report(*year)
	if err != nil {
		logger.Fatal("build report", zap.Error(err))
	}
	diag, err := analysis.Diagnostics(*year)
	if err != nil {
		logger.Fatal("build diagnostics", zap.Error(err))
	}
	rollup, err := retention.Analyze(*year)
	if err != nil {
		logger.Fatal("build retention analysis", zap.Error(err))
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatal("create output dir", zap.Error(err))
	}
	writeJSON(logger, *outDir, fmt.Sprintf("match_report_%d.json", *year), report)
	writeJSON(logger, *outDir, fmt.Sprintf("diagnostics_%d.json", *year), diag)
	writeJSON(logger, *outDir, fmt.Sprintf("retention_%d.json", *year), rollup)

	fmt.Printf("Year %d: %d/%d matched (%.1f%%), retention %.1f%%\n",
		*year,
		report.Improved.Matched, report.Improved.Total, report.Improved.MatchRate,
		rollup.Summary.RetentionRate)
	for _, rec := range report.Recommendations {
		fmt.Println("  -", rec)
	}
}

func writeJSON(logger *zap.Logger, dir, name string, v any) {
	path := filepath.Join(dir, name)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Fatal("marshal output", zap.String("file", name), zap.Error(err))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Fatal("write output", zap.String("path", path), zap.Error(err))
	}
	logger.Info("wrote report", zap.String("path", path))
}
