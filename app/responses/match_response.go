package responses

import "github.com/member-matcher/app/models"

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// DatasetLoadedResponse confirms a dataset upload.
type DatasetLoadedResponse struct {
	Year     int    `json:"year,omitempty"`
	Received int    `json:"received"`
	Loaded   int    `json:"loaded"`
	Message  string `json:"message"`
}

// MatchResponse carries one year's matched roster.
type MatchResponse struct {
	Year      int                          `json:"year"`
	Total     int                          `json:"total"`
	Matched   int                          `json:"matched"`
	MatchRate float64                      `json:"match_rate_percent"`
	Results   []*models.RegistrationRecord `json:"results"`
}

// HealthCheckResponse reports service liveness.
type HealthCheckResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version"`
	YearsLoaded []int  `json:"years_loaded"`
}
