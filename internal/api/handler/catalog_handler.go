package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"degree-compass/backend/internal/dto"
	"degree-compass/backend/internal/service"
	"degree-compass/backend/pkg/response"
)

// CatalogHandler 课程目录模块 HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListTerms 学期列表
// GET /api/v1/terms
func (h *CatalogHandler) ListTerms(c *gin.Context) {
	result, err := h.catalogSvc.ListTerms(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ListCourses 课程列表（分页 + 搜索）
// GET /api/v1/courses?page=&page_size=&search=
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	var req dto.CourseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.catalogSvc.ListCourses(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// ListSections 课程班次列表
// GET /api/v1/courses/:id/sections?year=&term_id=
func (h *CatalogHandler) ListSections(c *gin.Context) {
	var req dto.SectionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.catalogSvc.ListSections(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 12001, "课程不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
