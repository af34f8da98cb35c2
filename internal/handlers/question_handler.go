package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"compliance-service/internal/middleware"
	"compliance-service/internal/service"
)

type QuestionHandler struct {
	Service *service.QuestionService
}

func NewQuestionHandler(s *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{Service: s}
}

func (h *QuestionHandler) CreateQuestions(c *gin.Context) {
	var payload service.CreateQuestionsRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}
	payload.CreatedBy = middleware.EmployeeID(c)

	env := h.Service.CreateQuestions(c.Request.Context(), &payload)
	c.JSON(env.Code, env)
}

func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	var payload service.ListQuestionsRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	env := h.Service.ListQuestions(c.Request.Context(), &payload)
	c.JSON(env.Code, env)
}

func (h *QuestionHandler) QuestionDetail(c *gin.Context) {
	env := h.Service.QuestionDetail(c.Request.Context(), c.Param("id"))
	c.JSON(env.Code, env)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	var payload service.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}
	if payload.QuestionID == "" {
		payload.QuestionID = c.Param("id")
	}

	env := h.Service.UpdateQuestion(c.Request.Context(), &payload)
	c.JSON(env.Code, env)
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	env := h.Service.DeleteQuestion(c.Request.Context(), c.Param("id"))
	c.JSON(env.Code, env)
}

// ExamQuestions draws a fresh randomized paper for the caller.
func (h *QuestionHandler) ExamQuestions(c *gin.Context) {
	var payload service.ExamQuestionsRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	env := h.Service.ExamQuestions(c.Request.Context(), &payload)
	c.JSON(env.Code, env)
}
