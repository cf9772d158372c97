package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adaptlearn/learning-service/internal/services"
	"github.com/adaptlearn/learning-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StudentHandler serves routes scoped to one student: analytics, revision
// plans and study streaks. Every route runs behind StudentScopeMiddleware.
type StudentHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
	planService      services.PlanService
	streakService    services.StreakService
}

type GeneratePlanRequest struct {
	// ExamID overrides the student's target exam.
	ExamID string `json:"exam_id"`
}

func NewStudentHandler(
	analyticsService services.AnalyticsService,
	planService services.PlanService,
	streakService services.StreakService,
	logger utils.Logger,
) *StudentHandler {
	return &StudentHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
		planService:      planService,
		streakService:    streakService,
	}
}

// GetAnalytics returns per-topic performance and recent attempts
// @Router /students/{student_id}/analytics [get]
func (h *StudentHandler) GetAnalytics(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	analytics, err := h.analyticsService.GetStudentAnalytics(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// GeneratePlan replaces the student's active plan with a fresh one
// @Router /students/{student_id}/plans [post]
func (h *StudentHandler) GeneratePlan(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	var req GeneratePlanRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	plan, err := h.planService.GenerateForStudent(c.Request.Context(), studentID, req.ExamID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "Revision plan generated", plan, "plan_id", plan.ID)
}

// GetActivePlan returns the student's active plan
// @Router /students/{student_id}/plans/active [get]
func (h *StudentHandler) GetActivePlan(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	plan, err := h.planService.GetActive(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ExportActivePlan downloads the active plan as an Excel workbook
// @Router /students/{student_id}/plans/active/export [get]
func (h *StudentHandler) ExportActivePlan(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	var buf bytes.Buffer
	if err := h.planService.ExportExcel(c.Request.Context(), studentID, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("revision_plan_%d.xlsx", studentID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// LogActivity adds today's study minutes and tests
// @Router /students/{student_id}/streak [post]
func (h *StudentHandler) LogActivity(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	var req services.LogActivityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.streakService.Log(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetStreak returns the streak and consistency summary
// @Router /students/{student_id}/streak [get]
func (h *StudentHandler) GetStreak(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	summary, err := h.streakService.Get(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
