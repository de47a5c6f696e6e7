package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	domainerror "github.com/bartlangelaan/slicing-pie-sub000/internal/domain/error"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/entrypoint/dto"
)

// RawController exposes the mirrored documents as-is, for debugging and for
// frontend views that want the untouched upstream payloads.
type RawController struct {
	store adapter.RecordStore
}

// NewRawController creates a new raw controller instance.
func NewRawController(store adapter.RecordStore) *RawController {
	return &RawController{store: store}
}

// GetDocuments handles GET /raw/:resource requests.
func (c *RawController) GetDocuments(ctx *gin.Context) {
	resource, err := entity.ParseResource(ctx.Param("resource"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
			Code:  string(domainerror.ErrCodeUnknownResource),
		})
		return
	}

	payloads, err := c.store.RawDocuments(ctx.Request.Context(), resource)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"resource":  string(resource),
		"documents": payloads,
	})
}
