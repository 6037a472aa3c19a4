package models

import "time"

// SurveyRecord is one row of the longitudinal status survey. Immutable once
// loaded; the normalized keys are derived at load time.
type SurveyRecord struct {
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Status RetentionStatus `json:"status"`

	NormalizedName  string `json:"normalized_name,omitempty"`
	NormalizedEmail string `json:"normalized_email,omitempty"`
}

// RegistrationRecord is one row of a yearly roster. It is mutated in place
// only to attach the MatchResult.
type RegistrationRecord struct {
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Institution    string    `json:"institution"`
	Program        string    `json:"program"`
	Country        string    `json:"country"`
	Region         string    `json:"region"`
	StudentStatus  string    `json:"student_status"`
	EnrollmentDate time.Time `json:"enrollment_date,omitempty"`

	NormalizedName  string `json:"normalized_name,omitempty"`
	NormalizedEmail string `json:"normalized_email,omitempty"`

	Match MatchResult `json:"match"`
}

// GraduationStatus classifies the free-text student status field.
type GraduationStatus string

const (
	GraduationGraduate GraduationStatus = "graduate"
	GraduationCurrent  GraduationStatus = "current_student"
	GraduationUnknown  GraduationStatus = "unknown"
)

// ClassifyGraduation maps the roster's "Student Status" column. Unexpected
// values degrade to GraduationUnknown.
func ClassifyGraduation(studentStatus string) GraduationStatus {
	switch normalizeToken(studentStatus) {
	case "graduate", "graduated":
		return GraduationGraduate
	case "current student", "student", "current":
		return GraduationCurrent
	default:
		return GraduationUnknown
	}
}

func normalizeToken(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			space = len(out) > 0
			continue
		}
		if space {
			out = append(out, ' ')
			space = false
		}
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
