// Package loader reads the survey and yearly roster CSV files into the
// in-memory record collections the matching core consumes. Missing columns
// and blank cells degrade to empty strings; only unreadable files are
// reported as errors.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/member-matcher/app/models"
)

// Column headers as they appear in the source exports. Lookup is
// case-insensitive and trims surrounding whitespace.
const (
	colName        = "name"
	colEmail       = "email"
	colSurveyEmail = "email address"
	colStatus      = "status"
	colInstitution = "institution of study"
	colProgram     = "program of study"
	colCountry     = "country of origin"
	colEnrollment  = "date of enrollment"
	colStudentStat = "student status"
	colProvince    = "province"
)

var enrollmentLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
}

type Loader struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadSurvey reads the status survey CSV.
func (l *Loader) LoadSurvey(path string) ([]models.SurveyRecord, error) {
	rows, header, err := l.readAll(path)
	if err != nil {
		return nil, fmt.Errorf("load survey %s: %w", path, err)
	}

	records := make([]models.SurveyRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.SurveyRecord{
			Name:   header.get(row, colName),
			Email:  firstNonEmpty(header.get(row, colSurveyEmail), header.get(row, colEmail)),
			Status: models.ParseRetentionStatus(header.get(row, colStatus)),
		})
	}

	l.logger.Info("loaded survey", zap.String("path", path), zap.Int("records", len(records)))
	return records, nil
}

// LoadRegistrations reads one yearly roster CSV.
func (l *Loader) LoadRegistrations(path string) ([]models.RegistrationRecord, error) {
	rows, header, err := l.readAll(path)
	if err != nil {
		return nil, fmt.Errorf("load registrations %s: %w", path, err)
	}

	records := make([]models.RegistrationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.RegistrationRecord{
			Name:           header.get(row, colName),
			Email:          header.get(row, colEmail),
			Institution:    header.get(row, colInstitution),
			Program:        header.get(row, colProgram),
			Country:        header.get(row, colCountry),
			Region:         header.get(row, colProvince),
			StudentStatus:  header.get(row, colStudentStat),
			EnrollmentDate: parseEnrollmentDate(header.get(row, colEnrollment)),
		})
	}

	l.logger.Info("loaded registrations", zap.String("path", path), zap.Int("records", len(records)))
	return records, nil
}

type headerIndex map[string]int

func (h headerIndex) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (l *Loader) readAll(path string) ([][]string, headerIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged exports are common; pad per-cell instead

	headerRow, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	header := make(headerIndex, len(headerRow))
	for i, h := range headerRow {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip rows the reader cannot parse instead of failing the run.
			l.logger.Warn("skipping malformed csv row", zap.String("path", path), zap.Error(err))
			continue
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

// parseEnrollmentDate tries the known export layouts; unparseable dates
// degrade to the zero time rather than failing the row.
func parseEnrollmentDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range enrollmentLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
