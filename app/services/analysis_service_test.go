package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/member-matcher/app/config"
	"github.com/member-matcher/app/models"
)

func testService() *AnalysisService {
	return NewAnalysisService(config.Default(), nil)
}

func testSurveyRecords() []models.SurveyRecord {
	return []models.SurveyRecord{
		{Name: "Alice Johnson", Email: "alice.johnson@upei.ca", Status: models.StatusStillPresent},
		{Name: "William Turner", Email: "wturner@upei.ca", Status: models.StatusNoLongerPresent},
	}
}

func TestMatchYearRequiresSurvey(t *testing.T) {
	s := testService()
	s.LoadRegistrations(2023, []models.RegistrationRecord{{Name: "Anyone", Region: "PEI"}})

	if _, err := s.MatchYear(2023); !errors.Is(err, ErrSurveyNotLoaded) {
		t.Errorf("err = %v, want ErrSurveyNotLoaded", err)
	}
}

func TestMatchYearRequiresRoster(t *testing.T) {
	s := testService()
	s.LoadSurvey(testSurveyRecords())

	if _, err := s.MatchYear(1999); !errors.Is(err, ErrYearNotLoaded) {
		t.Errorf("err = %v, want ErrYearNotLoaded", err)
	}
	if _, err := s.Diagnostics(1999); !errors.Is(err, ErrYearNotLoaded) {
		t.Errorf("Diagnostics err = %v, want ErrYearNotLoaded", err)
	}
	if _, err := s.Report(1999); !errors.Is(err, ErrYearNotLoaded) {
		t.Errorf("Report err = %v, want ErrYearNotLoaded", err)
	}
}

func TestRegionFilterByAlias(t *testing.T) {
	s := testService()
	loaded := s.LoadRegistrations(2023, []models.RegistrationRecord{
		{Name: "In Region", Region: "PEI"},
		{Name: "Also In", Region: "prince edward island"},
		{Name: "Out", Region: "Ontario"},
	})
	if loaded != 2 {
		t.Errorf("loaded = %d, want 2", loaded)
	}
}

func TestRegionFilterFallsBackToInstitutions(t *testing.T) {
	s := testService()
	// No record carries region data, so the institution allowlist decides.
	loaded := s.LoadRegistrations(2023, []models.RegistrationRecord{
		{Name: "In", Institution: "UPEI"},
		{Name: "Also In", Institution: "Holland College"},
		{Name: "Out", Institution: "University of Toronto"},
	})
	if loaded != 2 {
		t.Errorf("loaded = %d, want 2", loaded)
	}
}

func TestMatchYearEndToEnd(t *testing.T) {
	s := testService()
	s.LoadSurvey(testSurveyRecords())
	s.LoadRegistrations(2023, []models.RegistrationRecord{
		{Name: "Alice Johnson", Email: "alice.johnson@upei.ca", Region: "PEI"},
		{Name: "Bill Turner", Email: "", Region: "PEI"},
		{Name: "Nobody Here", Email: "nobody@gmail.com", Region: "PEI"},
	})

	regs, err := s.MatchYear(2023)
	if err != nil {
		t.Fatal(err)
	}
	if len(regs) != 3 {
		t.Fatalf("got %d records", len(regs))
	}
	if regs[0].Match.Method != models.MethodEmail || regs[0].Match.Status != models.StatusStillPresent {
		t.Errorf("record 0 = %+v", regs[0].Match)
	}
	if regs[1].Match.Method != models.MethodNameVariant || regs[1].Match.Status != models.StatusNoLongerPresent {
		t.Errorf("record 1 = %+v", regs[1].Match)
	}
	if regs[2].Match.Matched() {
		t.Errorf("record 2 should stay unmatched: %+v", regs[2].Match)
	}

	years := s.Years()
	if len(years) != 1 || years[0] != 2023 {
		t.Errorf("years = %v", years)
	}
}

func TestMatchYearReturnsIndependentCopies(t *testing.T) {
	s := testService()
	s.LoadSurvey(testSurveyRecords())
	s.LoadRegistrations(2023, []models.RegistrationRecord{
		{Name: "Alice Johnson", Email: "alice.johnson@upei.ca", Region: "PEI"},
		{Name: "Bill Turner", Region: "PEI"},
	})

	first, err := s.MatchYear(2023)
	if err != nil {
		t.Fatal(err)
	}
	want := []models.MatchResult{first[0].Match, first[1].Match}

	// Report rebuilds its records from baseline; a shared roster would let
	// that pass transiently reset the first call's results.
	if _, err := s.Report(2023); err != nil {
		t.Fatal(err)
	}
	for i, reg := range first {
		if reg.Match != want[i] {
			t.Errorf("record %d changed under a later call: %+v vs %+v", i, reg.Match, want[i])
		}
	}

	second, err := s.MatchYear(2023)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i] == second[i] {
			t.Errorf("record %d shared between calls", i)
		}
		if first[i].Match != second[i].Match {
			t.Errorf("record %d results diverged: %+v vs %+v", i, first[i].Match, second[i].Match)
		}
	}
}

func TestConcurrentMatchAndReport(t *testing.T) {
	s := testService()
	s.LoadSurvey(testSurveyRecords())
	s.LoadRegistrations(2023, []models.RegistrationRecord{
		{Name: "Alice Johnson", Email: "alice.johnson@upei.ca", Region: "PEI"},
		{Name: "Bill Turner", Region: "PEI"},
		{Name: "Nobody Here", Email: "nobody@gmail.com", Region: "PEI"},
	})

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			regs, err := s.MatchYear(2023)
			if err != nil {
				errs <- err.Error()
				return
			}
			if regs[0].Match.Method != models.MethodEmail || !regs[1].Match.Matched() || regs[2].Match.Matched() {
				errs <- "inconsistent match results under concurrency"
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := s.Report(2023)
			if err != nil {
				errs <- err.Error()
				return
			}
			if r.Improved.Matched != 2 {
				errs <- "inconsistent report under concurrency"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}

func TestLoadSurveyReplacesDataset(t *testing.T) {
	s := testService()
	s.LoadSurvey(testSurveyRecords())
	s.LoadSurvey([]models.SurveyRecord{
		{Name: "Alice Johnson", Email: "alice.johnson@upei.ca", Status: models.StatusNoLongerPresent},
	})
	s.LoadRegistrations(2023, []models.RegistrationRecord{
		{Name: "Alice Johnson", Email: "alice.johnson@upei.ca", Region: "PEI"},
	})

	regs, err := s.MatchYear(2023)
	if err != nil {
		t.Fatal(err)
	}
	if regs[0].Match.Status != models.StatusNoLongerPresent {
		t.Errorf("stale survey data used: %+v", regs[0].Match)
	}
}
