package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adaptlearn/learning-service/internal/services"
	"github.com/adaptlearn/learning-service/internal/utils"
)

type CoachHandler struct {
	BaseHandler
	coachService services.CoachService
}

func NewCoachHandler(coachService services.CoachService, logger utils.Logger) *CoachHandler {
	return &CoachHandler{
		BaseHandler:  NewBaseHandler(logger),
		coachService: coachService,
	}
}

// Chat answers one message from the authenticated student
// @Router /coach/chat [post]
func (h *CoachHandler) Chat(c *gin.Context) {
	var req services.ChatRequest
	if !h.bindJSON(c, &req) {
		return
	}

	studentID := h.getUserID(c)
	if studentID == 0 {
		return
	}

	resp, err := h.coachService.Chat(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
