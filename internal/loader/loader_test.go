package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/member-matcher/app/models"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSurvey(t *testing.T) {
	path := writeCSV(t, "survey.csv",
		"Name,Email Address,Status\n"+
			"Alice Johnson,alice@upei.ca,Still on PEI\n"+
			"Bob Lee,bob@upei.ca,No longer on PEI\n"+
			"Carol King,,\n")

	records, err := New(nil).LoadSurvey(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0].Name != "Alice Johnson" || records[0].Status != models.StatusStillPresent {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[1].Status != models.StatusNoLongerPresent {
		t.Errorf("record 1 = %+v", records[1])
	}
	if records[2].Email != "" || records[2].Status != models.StatusInconclusive {
		t.Errorf("blank cells should degrade: %+v", records[2])
	}
}

func TestLoadSurveyHeaderCaseInsensitive(t *testing.T) {
	path := writeCSV(t, "survey.csv",
		"NAME, email ,STATUS\n"+
			"Alice Johnson,alice@upei.ca,Still on PEI\n")

	records, err := New(nil).LoadSurvey(path)
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Email != "alice@upei.ca" {
		t.Errorf("header lookup failed: %+v", records[0])
	}
}

func TestLoadRegistrations(t *testing.T) {
	path := writeCSV(t, "regs.csv",
		"Name,Email,Institution of Study,Program of Study,Country of Origin,Date of Enrollment,Student Status,Province\n"+
			"Jane Doe,jane@upei.ca,UPEI,Biology,Canada,2022-09-01,Current Student,PEI\n"+
			"John Roe,john@upei.ca,UPEI,Nursing,India,not-a-date,Graduate,PEI\n")

	records, err := New(nil).LoadRegistrations(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}

	want := time.Date(2022, 9, 1, 0, 0, 0, 0, time.UTC)
	if !records[0].EnrollmentDate.Equal(want) {
		t.Errorf("enrollment date = %v", records[0].EnrollmentDate)
	}
	if records[0].Region != "PEI" || records[0].Program != "Biology" {
		t.Errorf("record 0 = %+v", records[0])
	}
	if !records[1].EnrollmentDate.IsZero() {
		t.Errorf("bad date should degrade to zero time, got %v", records[1].EnrollmentDate)
	}
}

func TestLoadRegistrationsRaggedRows(t *testing.T) {
	path := writeCSV(t, "regs.csv",
		"Name,Email,Institution of Study\n"+
			"Jane Doe,jane@upei.ca,UPEI\n"+
			"Short Row\n")

	records, err := New(nil).LoadRegistrations(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
	if records[1].Name != "Short Row" || records[1].Email != "" {
		t.Errorf("short row should pad with blanks: %+v", records[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := New(nil).LoadSurvey(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
