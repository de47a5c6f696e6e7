package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	usecasesync "github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/sync"
	domainerror "github.com/bartlangelaan/slicing-pie-sub000/internal/domain/error"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/infra/metrics"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/entrypoint/dto"
)

// SyncController handles synchronization endpoints.
type SyncController struct {
	triggerSyncUseCase *usecasesync.TriggerSyncUseCase
	listTasksUseCase   *usecasesync.ListTasksUseCase
}

// NewSyncController creates a new sync controller instance.
func NewSyncController(
	triggerSyncUseCase *usecasesync.TriggerSyncUseCase,
	listTasksUseCase *usecasesync.ListTasksUseCase,
) *SyncController {
	return &SyncController{
		triggerSyncUseCase: triggerSyncUseCase,
		listTasksUseCase:   listTasksUseCase,
	}
}

// TriggerSync handles POST /sync requests. Resources come from the JSON body
// or, for convenience, from ?resource= query parameters; ?full=true or an
// empty request refreshes everything.
func (c *SyncController) TriggerSync(ctx *gin.Context) {
	var request dto.TriggerSyncRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeUnknownResource),
		})
		return
	}

	if resources := ctx.QueryArray("resource"); len(resources) > 0 {
		request.Resources = resources
	}
	if full, err := strconv.ParseBool(ctx.Query("full")); err == nil && full {
		request.Full = true
	}
	if len(request.Resources) == 0 {
		request.Full = true
	}

	created, err := c.triggerSyncUseCase.Execute(ctx.Request.Context(), usecasesync.TriggerSyncInput{
		Resources: request.Resources,
		Full:      request.Full,
	})
	if err != nil {
		c.handleSyncError(ctx, err)
		return
	}

	for _, task := range created {
		for _, resource := range task.Resources {
			metrics.SyncTasksEnqueuedTotal.WithLabelValues(string(resource)).Inc()
		}
	}

	ctx.JSON(http.StatusAccepted, gin.H{
		"tasks": dto.ToSyncTaskResponses(created),
	})
}

// ListTasks handles GET /sync/tasks requests.
func (c *SyncController) ListTasks(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	tasks, err := c.listTasksUseCase.Execute(ctx.Request.Context(), limit)
	if err != nil {
		c.handleSyncError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToSyncTaskResponses(tasks),
	})
}

// handleSyncError maps sync errors to HTTP responses.
func (c *SyncController) handleSyncError(ctx *gin.Context, err error) {
	var syncErr *domainerror.SyncError
	if errors.As(err, &syncErr) {
		ctx.JSON(c.statusCodeForSyncError(syncErr.Code), dto.ErrorResponse{
			Error: syncErr.Message,
			Code:  string(syncErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

func (c *SyncController) statusCodeForSyncError(code domainerror.SyncErrorCode) int {
	switch code {
	case domainerror.ErrCodeUnknownResource:
		return http.StatusBadRequest
	case domainerror.ErrCodeTaskNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeUpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
