package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"degree-compass/backend/internal/dto"
	"degree-compass/backend/internal/service"
	"degree-compass/backend/pkg/response"
)

// PlannerHandler 排课规划模块 HTTP 处理器
type PlannerHandler struct {
	plannerSvc service.PlannerService
}

// NewPlannerHandler 创建 PlannerHandler
func NewPlannerHandler(plannerSvc service.PlannerService) *PlannerHandler {
	return &PlannerHandler{plannerSvc: plannerSvc}
}

// Generate 生成候选排课方案
// POST /api/v1/planner/generate
func (h *PlannerHandler) Generate(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	var req dto.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.plannerSvc.GeneratePlan(c.Request.Context(), studentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(c, 11003, "学生不存在")
		case errors.Is(err, service.ErrTermNotFound):
			response.NotFound(c, 14001, "学期不存在")
		case errors.Is(err, service.ErrUnknownRuleNode):
			response.InternalError(c)
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
