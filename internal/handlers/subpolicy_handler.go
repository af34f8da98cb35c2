package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"compliance-service/internal/service"
)

type SubPolicyHandler struct {
	Service *service.SubPolicyService
}

func NewSubPolicyHandler(s *service.SubPolicyService) *SubPolicyHandler {
	return &SubPolicyHandler{Service: s}
}

func (h *SubPolicyHandler) CreateSubPolicy(c *gin.Context) {
	var payload service.CreateSubPolicyRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	env := h.Service.CreateSubPolicy(c.Request.Context(), &payload)
	c.JSON(env.Code, env)
}

func (h *SubPolicyHandler) ListSubPolicies(c *gin.Context) {
	var payload service.ListSubPolicyRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	env := h.Service.ListSubPolicies(c.Request.Context(), &payload)
	c.JSON(env.Code, env)
}

func (h *SubPolicyHandler) SubPolicyDetail(c *gin.Context) {
	env := h.Service.SubPolicyDetail(c.Request.Context(), c.Param("id"))
	c.JSON(env.Code, env)
}

func (h *SubPolicyHandler) DeleteSubPolicy(c *gin.Context) {
	env := h.Service.DeleteSubPolicy(c.Request.Context(), c.Param("id"))
	c.JSON(env.Code, env)
}

func (h *SubPolicyHandler) SavePolicySetting(c *gin.Context) {
	var payload service.SavePolicySettingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	env := h.Service.SavePolicySetting(c.Request.Context(), &payload)
	c.JSON(env.Code, env)
}

func (h *SubPolicyHandler) PolicySettingDetail(c *gin.Context) {
	env := h.Service.PolicySettingDetail(c.Request.Context(), c.Param("id"))
	c.JSON(env.Code, env)
}
