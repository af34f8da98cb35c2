package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"compliance-service/internal/middleware"
	"compliance-service/internal/service"
)

type AnswerHandler struct {
	Service *service.ScoringService
}

func NewAnswerHandler(s *service.ScoringService) *AnswerHandler {
	return &AnswerHandler{Service: s}
}

// SubmitAnswers scores an exam submission. The employee id always comes
// from the authenticated identity, never from the payload.
func (h *AnswerHandler) SubmitAnswers(c *gin.Context) {
	var payload service.SubmitAnswersRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}
	payload.EmployeeID = middleware.EmployeeID(c)

	env := h.Service.SubmitAnswers(c.Request.Context(), &payload)
	c.JSON(env.Code, env)
}

func (h *AnswerHandler) GetSubmittedAnswers(c *gin.Context) {
	var payload service.SubmittedAnswersRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	env := h.Service.GetSubmittedAnswers(c.Request.Context(), &payload)
	c.JSON(env.Code, env)
}
