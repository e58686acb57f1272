package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"degree-compass/backend/internal/service"
	"degree-compass/backend/pkg/response"
)

// ProgressHandler 学业进度模块 HTTP 处理器
type ProgressHandler struct {
	reqSvc service.RequirementService
}

// NewProgressHandler 创建 ProgressHandler
func NewProgressHandler(reqSvc service.RequirementService) *ProgressHandler {
	return &ProgressHandler{reqSvc: reqSvc}
}

// GetProgress 当前学生的培养方案完成进度
// GET /api/v1/progress
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	result, err := h.reqSvc.EvaluateProgress(c.Request.Context(), studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(c, 11003, "学生不存在")
		case errors.Is(err, service.ErrProgrammeNotAssigned):
			response.BadRequest(c, 13001, "学生未绑定培养方案")
		case errors.Is(err, service.ErrUnknownRuleNode):
			// 培养方案配置错误，面向用户的 500
			response.InternalError(c)
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
