package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adaptlearn/learning-service/internal/services"
	"github.com/adaptlearn/learning-service/internal/utils"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
}

func NewAttemptHandler(attemptService services.AttemptService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
	}
}

// SubmitAttempt scores a completed mock test for the authenticated student
// @Router /attempts [post]
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	var req services.SubmitAttemptRequest
	if !h.bindJSON(c, &req) {
		return
	}

	studentID := h.getUserID(c)
	if studentID == 0 {
		return
	}

	h.LogRequest(c, "Submitting attempt", "test_id", req.TestID, "answers", len(req.Answers))

	result, err := h.attemptService.Submit(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetQuestions lists a test's questions without their answers
// @Router /tests/{test_id}/questions [get]
func (h *AttemptHandler) GetQuestions(c *gin.Context) {
	testID := h.parseIDParam(c, "test_id")
	if testID == 0 {
		return
	}

	questions, err := h.attemptService.GetQuestions(c.Request.Context(), testID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"test_id": testID, "questions": questions})
}
