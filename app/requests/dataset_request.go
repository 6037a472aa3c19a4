package requests

import (
	"time"

	"github.com/member-matcher/app/models"
)

// SurveyRow is one survey record as posted by a client.
type SurveyRow struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// LoadSurveyRequest replaces the survey dataset.
type LoadSurveyRequest struct {
	Records []SurveyRow `json:"records" binding:"required,min=1"`
}

func (r *LoadSurveyRequest) ToModels() []models.SurveyRecord {
	out := make([]models.SurveyRecord, 0, len(r.Records))
	for _, row := range r.Records {
		out = append(out, models.SurveyRecord{
			Name:   row.Name,
			Email:  row.Email,
			Status: models.ParseRetentionStatus(row.Status),
		})
	}
	return out
}

// RegistrationRow is one roster record as posted by a client. Dates arrive
// as strings; unparseable values degrade to the zero time.
type RegistrationRow struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email"`
	Institution    string `json:"institution"`
	Program        string `json:"program"`
	Country        string `json:"country"`
	Region         string `json:"region"`
	StudentStatus  string `json:"student_status"`
	EnrollmentDate string `json:"enrollment_date"`
}

// LoadRegistrationsRequest replaces one year's registration roster.
type LoadRegistrationsRequest struct {
	Records []RegistrationRow `json:"records" binding:"required,min=1"`
}

func (r *LoadRegistrationsRequest) ToModels() []models.RegistrationRecord {
	out := make([]models.RegistrationRecord, 0, len(r.Records))
	for _, row := range r.Records {
		out = append(out, models.RegistrationRecord{
			Name:           row.Name,
			Email:          row.Email,
			Institution:    row.Institution,
			Program:        row.Program,
			Country:        row.Country,
			Region:         row.Region,
			StudentStatus:  row.StudentStatus,
			EnrollmentDate: parseDate(row.EnrollmentDate),
		})
	}
	return out
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "01/02/2006"}

func parseDate(raw string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
