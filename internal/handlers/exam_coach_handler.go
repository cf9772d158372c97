package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adaptlearn/learning-service/internal/services"
	"github.com/adaptlearn/learning-service/internal/utils"
)

// ExamCoachHandler serves the stateless exam tools: catalog lookups,
// analysis, plan generation and score prediction.
type ExamCoachHandler struct {
	BaseHandler
	examCoachService services.ExamCoachService
}

func NewExamCoachHandler(examCoachService services.ExamCoachService, logger utils.Logger) *ExamCoachHandler {
	return &ExamCoachHandler{
		BaseHandler:      NewBaseHandler(logger),
		examCoachService: examCoachService,
	}
}

// ListExams returns every supported exam
// @Router /exam-coach/exams [get]
func (h *ExamCoachHandler) ListExams(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"exams": h.examCoachService.ListExams(c.Request.Context())})
}

// GetExam returns an exam with its chapter lists
// @Router /exam-coach/exams/{exam_id} [get]
func (h *ExamCoachHandler) GetExam(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	if examID == "" {
		return
	}

	exam, err := h.examCoachService.GetExam(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exam)
}

// GetStrategy returns exam-day advice
// @Router /exam-coach/exams/{exam_id}/strategy [get]
func (h *ExamCoachHandler) GetStrategy(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	if examID == "" {
		return
	}

	strategy, err := h.examCoachService.GetStrategy(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exam_id": examID, "strategy": strategy})
}

// Analyze classifies topic scores and predicts a score
// @Router /exam-coach/analyze [post]
func (h *ExamCoachHandler) Analyze(c *gin.Context) {
	var req services.AnalyzeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Analyzing topic scores", "exam_id", req.ExamID, "topics", len(req.Scores))

	analysis, err := h.examCoachService.Analyze(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// GeneratePlan builds a 7-day plan from weakness records
// @Router /exam-coach/plan [post]
func (h *ExamCoachHandler) GeneratePlan(c *gin.Context) {
	var req services.PlanRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Generating stateless plan", "exam_id", req.ExamID, "records", len(req.Weaknesses))

	plan, err := h.examCoachService.GeneratePlan(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Predict estimates an exam score from chapter accuracies
// @Router /exam-coach/predict [post]
func (h *ExamCoachHandler) Predict(c *gin.Context) {
	var req services.PredictRequest
	if !h.bindJSON(c, &req) {
		return
	}

	prediction, err := h.examCoachService.Predict(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, prediction)
}
