// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/report"
	domainerror "github.com/bartlangelaan/slicing-pie-sub000/internal/domain/error"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/entrypoint/dto"
)

// ReportController handles report endpoints.
type ReportController struct {
	getReportUseCase      *report.GetReportUseCase
	getHoursDetailUseCase *report.GetHoursDetailUseCase
	demoToken             string
	demoYear              int
}

// NewReportController creates a new report controller instance.
func NewReportController(
	getReportUseCase *report.GetReportUseCase,
	getHoursDetailUseCase *report.GetHoursDetailUseCase,
	demoToken string,
	demoYear int,
) *ReportController {
	return &ReportController{
		getReportUseCase:      getReportUseCase,
		getHoursDetailUseCase: getHoursDetailUseCase,
		demoToken:             demoToken,
		demoYear:              demoYear,
	}
}

// GetReport handles GET /reports/:year requests.
func (c *ReportController) GetReport(ctx *gin.Context) {
	year, ok := c.parseYear(ctx)
	if !ok {
		return
	}

	output, err := c.getReportUseCase.Execute(ctx.Request.Context(), report.GetReportInput{Year: year})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReportResponse(output))
}

// Simulate handles POST /reports/:year/simulate requests. The body is the
// what-if overlay; the response is a full report computed with it applied.
func (c *ReportController) Simulate(ctx *gin.Context) {
	year, ok := c.parseYear(ctx)
	if !ok {
		return
	}

	var request dto.SimulateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeInvalidOverlay),
		})
		return
	}

	overlay, err := request.ToOverlay()
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	output, err := c.getReportUseCase.Execute(ctx.Request.Context(), report.GetReportInput{
		Year:    year,
		Overlay: overlay,
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReportResponse(output))
}

// GetHoursDetail handles GET /reports/:year/hours requests.
func (c *ReportController) GetHoursDetail(ctx *gin.Context) {
	year, ok := c.parseYear(ctx)
	if !ok {
		return
	}

	output, err := c.getHoursDetailUseCase.Execute(ctx.Request.Context(), year)
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToHoursDetailResponse(output))
}

// GetDemoReport handles GET /reports/demo/:token requests. The demo view is
// the anonymized report for a fixed year, shared through an opaque token
// instead of basic auth.
func (c *ReportController) GetDemoReport(ctx *gin.Context) {
	token := ctx.Param("token")
	if c.demoToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(c.demoToken)) != 1 {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Not found",
		})
		return
	}

	output, err := c.getReportUseCase.Execute(ctx.Request.Context(), report.GetReportInput{
		Year: c.demoYear,
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	response := dto.ToReportResponse(output)
	response.Anonymize()
	ctx.JSON(http.StatusOK, response)
}

func (c *ReportController) parseYear(ctx *gin.Context) (int, bool) {
	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Year must be a number",
			Code:  string(domainerror.ErrCodeInvalidYear),
		})
		return 0, false
	}
	return year, true
}

// handleReportError maps report errors to HTTP responses.
func (c *ReportController) handleReportError(ctx *gin.Context, err error) {
	var reportErr *domainerror.ReportError
	if errors.As(err, &reportErr) {
		ctx.JSON(c.statusCodeForReportError(reportErr.Code), dto.ErrorResponse{
			Error: reportErr.Message,
			Code:  string(reportErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

func (c *ReportController) statusCodeForReportError(code domainerror.ReportErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidYear,
		domainerror.ErrCodeInvalidOverlay,
		domainerror.ErrCodeUnknownPerson:
		return http.StatusBadRequest
	case domainerror.ErrCodeNoData:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
