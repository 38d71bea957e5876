package assignment

import (
	"github.com/gin-gonic/gin"

	"github.com/Stranger261/hospital-er-api/internal/handler"
	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/service/assignment"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
	"github.com/Stranger261/hospital-er-api/pkg/httputil"
)

// Handler covers doctor assignment and the doctor roster.
type Handler struct {
	service *assignment.Service
}

func NewHandler(service *assignment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	visits := rg.Group("/er/visits/:id")
	{
		visits.POST("/assign", h.Assign)
		visits.POST("/release", h.Release)
	}

	doctors := rg.Group("/er/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.POST("/:id/shift/start", h.StartShift)
		doctors.POST("/:id/shift/end", h.EndShift)
		doctors.PATCH("/:id/availability", h.SetAvailability)
	}
}

// Assign puts a doctor on the visit. With no body the least-loaded available
// doctor is dispatched; with a doctor_id that doctor is used.
func (h *Handler) Assign(c *gin.Context) {
	visitID, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var doctor *model.ERDoctor
	if c.Request.ContentLength == 0 {
		doctor, err = h.service.AutoAssign(c.Request.Context(), visitID)
	} else {
		var req model.AssignDoctorRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", bindErr))
			return
		}
		doctor, err = h.service.ManualAssign(c.Request.Context(), visitID, req.DoctorID)
	}
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) Release(c *gin.Context) {
	visitID, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if err := h.service.Release(c.Request.Context(), visitID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"released": true})
}

func (h *Handler) ListDoctors(c *gin.Context) {
	filters := &model.ERDoctorFilters{
		OnShiftOnly:   c.Query("on_shift") == "true",
		AvailableOnly: c.Query("available") == "true",
	}
	doctors, err := h.service.ListDoctors(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) StartShift(c *gin.Context) {
	doctorID, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if err := h.service.StartShift(c.Request.Context(), doctorID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"on_shift": true})
}

func (h *Handler) EndShift(c *gin.Context) {
	doctorID, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if err := h.service.EndShift(c.Request.Context(), doctorID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"on_shift": false})
}

type availabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

func (h *Handler) SetAvailability(c *gin.Context) {
	doctorID, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	if err := h.service.SetAvailability(c.Request.Context(), doctorID, *req.Available); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"available": *req.Available})
}
