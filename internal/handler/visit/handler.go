package visit

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Stranger261/hospital-er-api/internal/handler"
	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/service/stats"
	"github.com/Stranger261/hospital-er-api/internal/service/visit"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
	"github.com/Stranger261/hospital-er-api/pkg/httputil"
)

// Handler serves the tracking board: the visit list, per-visit detail with
// its action set, and the summary counts.
type Handler struct {
	visits *visit.Service
	stats  *stats.Service
}

func NewHandler(visits *visit.Service, statsSvc *stats.Service) *Handler {
	return &Handler{visits: visits, stats: statsSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	er := rg.Group("/er")
	{
		er.GET("/board", h.ListBoard)
		er.GET("/board/stats", h.BoardStats)
		er.GET("/visits/:id", h.GetVisit)
	}
	rg.GET("/patients/:id/visits", h.ListByPatient)
}

// ListBoard returns the visits for the board, filtered by the query tab.
func (h *Handler) ListBoard(c *gin.Context) {
	filters := &model.ERVisitFilters{
		Status: model.ERStatus(c.Query("status")),
		Active: c.Query("active") == "true",
	}
	if level := c.Query("triage_level"); level != "" {
		n, err := strconv.Atoi(level)
		if err != nil || n < 1 || n > 5 {
			httputil.RespondWithError(c, apperrors.Validation("triage_level", "triage level must be between 1 and 5"))
			return
		}
		filters.TriageLevel = n
	}
	if date := c.Query("date"); date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("date", "date must be YYYY-MM-DD"))
			return
		}
		filters.Date = d
	}

	visits, err := h.visits.ListBoard(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, visits)
}

type visitDetail struct {
	*model.ERVisit
	Actions []model.VisitAction `json:"actions"`
}

func (h *Handler) GetVisit(c *gin.Context) {
	id, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	v, err := h.visits.GetVisit(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, visitDetail{
		ERVisit: v,
		Actions: h.visits.AvailableActions(v, v.Patient),
	})
}

func (h *Handler) ListByPatient(c *gin.Context) {
	patientID, err := handler.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	visits, err := h.visits.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, visits)
}

func (h *Handler) BoardStats(c *gin.Context) {
	boardStats, err := h.stats.BoardStats(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, boardStats)
}
