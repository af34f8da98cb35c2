package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"compliance-service/internal/middleware"
	"compliance-service/internal/models"
	"compliance-service/internal/service"
)

type ResultHandler struct {
	Reports *service.ReportService
	Admin   *service.AdminReportService
}

func NewResultHandler(reports *service.ReportService, admin *service.AdminReportService) *ResultHandler {
	return &ResultHandler{Reports: reports, Admin: admin}
}

// bindReport fills the employee id from the caller's identity unless the
// caller is an admin querying someone else.
func bindReport(c *gin.Context) (*service.ReportRequest, bool) {
	var payload service.ReportRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return nil, false
	}
	role, _ := c.Get(middleware.ContextRole)
	if payload.EmployeeID == "" || role != models.RoleAdmin {
		payload.EmployeeID = middleware.EmployeeID(c)
	}
	return &payload, true
}

func (h *ResultHandler) CompletedList(c *gin.Context) {
	payload, ok := bindReport(c)
	if !ok {
		return
	}
	env := h.Reports.CompletedList(c.Request.Context(), payload)
	c.JSON(env.Code, env)
}

func (h *ResultHandler) OutstandingList(c *gin.Context) {
	payload, ok := bindReport(c)
	if !ok {
		return
	}
	env := h.Reports.OutstandingList(c.Request.Context(), payload)
	c.JSON(env.Code, env)
}

func (h *ResultHandler) FleetSummary(c *gin.Context) {
	var payload service.FleetSummaryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}
	env := h.Admin.FleetSummary(c.Request.Context(), &payload)
	c.JSON(env.Code, env)
}
