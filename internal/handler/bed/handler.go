package bed

import (
	"github.com/gin-gonic/gin"

	"github.com/Stranger261/hospital-er-api/internal/handler"
	"github.com/Stranger261/hospital-er-api/internal/service/bed"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
	"github.com/Stranger261/hospital-er-api/pkg/httputil"
)

// Handler serves the floor > room > bed browse used by the admit dialog.
type Handler struct {
	service *bed.Service
}

func NewHandler(service *bed.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/floors", h.ListFloors)
	rg.GET("/floors/:id/rooms", h.ListRooms)
	rg.GET("/rooms/:id/beds", h.ListBeds)

	beds := rg.Group("/beds/:id")
	{
		beds.GET("", h.Get)
		beds.PATCH("/maintenance", h.SetMaintenance)
		beds.POST("/release", h.Release)
	}
}

func (h *Handler) ListFloors(c *gin.Context) {
	floors, err := h.service.ListFloors(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, floors)
}

func (h *Handler) ListRooms(c *gin.Context) {
	floorID, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	rooms, err := h.service.ListRooms(c.Request.Context(), floorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, rooms)
}

func (h *Handler) ListBeds(c *gin.Context) {
	roomID, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	beds, err := h.service.ListBeds(c.Request.Context(), roomID, c.Query("available") == "true")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, beds)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, b)
}

type maintenanceRequest struct {
	UnderMaintenance *bool `json:"under_maintenance" binding:"required"`
}

func (h *Handler) SetMaintenance(c *gin.Context) {
	id, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	b, err := h.service.SetMaintenance(c.Request.Context(), id, *req.UnderMaintenance)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, b)
}

func (h *Handler) Release(c *gin.Context) {
	id, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	b, err := h.service.Release(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, b)
}
