package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/member-matcher/app/requests"
	"github.com/member-matcher/app/responses"
	"github.com/member-matcher/app/services"
)

// AnalysisController exposes dataset loading, matching and retention
// analysis over HTTP.
type AnalysisController struct {
	analysis  *services.AnalysisService
	retention *services.RetentionService
	logger    *zap.Logger
}

func NewAnalysisController(analysis *services.AnalysisService, retention *services.RetentionService, logger *zap.Logger) *AnalysisController {
	return &AnalysisController{
		analysis:  analysis,
		retention: retention,
		logger:    logger,
	}
}

// LoadSurvey replaces the survey dataset.
func (ac *AnalysisController) LoadSurvey(c *gin.Context) {
	var req requests.LoadSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: err.Error(),
		})
		return
	}

	loaded := ac.analysis.LoadSurvey(req.ToModels())
	c.JSON(http.StatusOK, responses.DatasetLoadedResponse{
		Received: len(req.Records),
		Loaded:   loaded,
		Message:  "survey dataset loaded",
	})
}

// LoadRegistrations replaces one year's roster.
func (ac *AnalysisController) LoadRegistrations(c *gin.Context) {
	year, ok := ac.yearParam(c)
	if !ok {
		return
	}

	var req requests.LoadRegistrationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: err.Error(),
		})
		return
	}

	loaded := ac.analysis.LoadRegistrations(year, req.ToModels())
	c.JSON(http.StatusOK, responses.DatasetLoadedResponse{
		Year:     year,
		Received: len(req.Records),
		Loaded:   loaded,
		Message:  "registration dataset loaded",
	})
}

// Match runs the pipeline for one year and returns the matched roster.
func (ac *AnalysisController) Match(c *gin.Context) {
	year, ok := ac.yearParam(c)
	if !ok {
		return
	}

	regs, err := ac.analysis.MatchYear(year)
	if err != nil {
		ac.serviceError(c, err)
		return
	}

	matched := 0
	for _, reg := range regs {
		if reg.Match.Matched() {
			matched++
		}
	}
	resp := responses.MatchResponse{
		Year:    year,
		Total:   len(regs),
		Matched: matched,
		Results: regs,
	}
	if resp.Total > 0 {
		resp.MatchRate = 100 * float64(matched) / float64(resp.Total)
	}
	c.JSON(http.StatusOK, resp)
}

// Report returns the baseline-vs-improved match report for one year.
func (ac *AnalysisController) Report(c *gin.Context) {
	year, ok := ac.yearParam(c)
	if !ok {
		return
	}
	report, err := ac.analysis.Report(year)
	if err != nil {
		ac.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Diagnostics returns the unmatched analysis for one year.
func (ac *AnalysisController) Diagnostics(c *gin.Context) {
	year, ok := ac.yearParam(c)
	if !ok {
		return
	}
	diag, err := ac.analysis.Diagnostics(year)
	if err != nil {
		ac.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, diag)
}

// Retention returns the retention rollup for one year.
func (ac *AnalysisController) Retention(c *gin.Context) {
	year, ok := ac.yearParam(c)
	if !ok {
		return
	}
	analysis, err := ac.retention.Analyze(year)
	if err != nil {
		ac.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// CompareRetention contrasts two loaded years (?from=2019&to=2020).
func (ac *AnalysisController) CompareRetention(c *gin.Context) {
	from, err1 := strconv.Atoi(c.Query("from"))
	to, err2 := strconv.Atoi(c.Query("to"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_YEAR",
			Message: "from and to must be integer years",
		})
		return
	}

	cmp, err := ac.retention.CompareYears(from, to)
	if err != nil {
		ac.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// HealthCheck reports liveness and which years have data.
func (ac *AnalysisController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:      "healthy",
		Timestamp:   time.Now().Format(time.RFC3339),
		Version:     "1.0.0",
		YearsLoaded: ac.analysis.Years(),
	})
}

func (ac *AnalysisController) yearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_YEAR",
			Message: "year must be an integer",
		})
		return 0, false
	}
	return year, true
}

func (ac *AnalysisController) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSurveyNotLoaded):
		c.JSON(http.StatusConflict, responses.ErrorResponse{
			Error:   "SURVEY_NOT_LOADED",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrYearNotLoaded):
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "YEAR_NOT_LOADED",
			Message: err.Error(),
		})
	default:
		ac.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "INTERNAL_ERROR",
			Message: err.Error(),
		})
	}
}
