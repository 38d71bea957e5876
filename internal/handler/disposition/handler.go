package disposition

import (
	"github.com/gin-gonic/gin"

	"github.com/Stranger261/hospital-er-api/internal/handler"
	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/service/disposition"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
	"github.com/Stranger261/hospital-er-api/pkg/httputil"
)

type Handler struct {
	service *disposition.Service
}

func NewHandler(service *disposition.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/er/disposition-outcomes", h.ListOutcomes)

	visits := rg.Group("/er/visits/:id/disposition")
	{
		visits.POST("", h.Dispose)
		visits.GET("", h.GetByVisit)
	}
}

// ListOutcomes returns the outcomes enabled for this deployment.
func (h *Handler) ListOutcomes(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.service.EnabledOutcomes())
}

func (h *Handler) Dispose(c *gin.Context) {
	visitID, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.DispositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	result, err := h.service.Dispose(c.Request.Context(), visitID, actor, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, result)
}

func (h *Handler) GetByVisit(c *gin.Context) {
	visitID, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	result, err := h.service.GetByVisit(c.Request.Context(), visitID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}
