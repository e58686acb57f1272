package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"degree-compass/backend/internal/dto"
	"degree-compass/backend/internal/model"
	"degree-compass/backend/internal/repository"
)

// ── 课程目录模块业务错误 ──

var ErrCourseNotFound = errors.New("课程不存在")

// CatalogService 课程目录查询接口
type CatalogService interface {
	// 学期列表
	ListTerms(ctx context.Context) ([]dto.TermResponse, error)
	// 课程列表（分页 + 搜索）
	ListCourses(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error)
	// 课程在目标学年/学期的班次
	ListSections(ctx context.Context, courseID string, req *dto.SectionListRequest) ([]dto.SectionResponse, error)
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger}
}

func (s *catalogService) ListTerms(ctx context.Context) ([]dto.TermResponse, error) {
	terms, err := s.repo.Term.List(ctx)
	if err != nil {
		s.logger.Error("查询学期列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.TermResponse, 0, len(terms))
	for _, t := range terms {
		out = append(out, dto.TermResponse{
			TermID:     t.TermID,
			Name:       t.Name,
			TermNumber: t.TermNumber,
			StartDate:  t.StartDate.Format("2006-01-02"),
			EndDate:    t.EndDate.Format("2006-01-02"),
		})
	}
	return out, nil
}

func (s *catalogService) ListCourses(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	offset := (req.Page - 1) * req.PageSize
	courses, total, err := s.repo.Course.List(ctx, req.Search, offset, req.PageSize)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, dto.CourseResponse{
			CourseID:       c.CourseID,
			Code:           c.Code,
			DepartmentCode: c.DepartmentCode,
			Title:          c.Title,
		})
	}
	return out, total, nil
}

func (s *catalogService) ListSections(ctx context.Context, courseID string, req *dto.SectionListRequest) ([]dto.SectionResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	// 课程全部版本的班次都纳入（目录浏览不限定在读版本）
	versions, err := s.repo.Course.ListVersionsByCourse(ctx, course.CourseID)
	if err != nil {
		s.logger.Error("查询课程版本失败", zap.Error(err))
		return nil, err
	}
	versionIDs := make([]string, 0, len(versions))
	for _, v := range versions {
		versionIDs = append(versionIDs, v.CourseVersionID)
	}
	if len(versionIDs) == 0 {
		return []dto.SectionResponse{}, nil
	}

	sections, err := s.repo.CourseSection.ListByCourseVersions(ctx, versionIDs, req.AcademicYear, req.TermID)
	if err != nil {
		s.logger.Error("查询班次失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.SectionResponse, 0, len(sections))
	for i := range sections {
		out = append(out, buildSectionResponse(&sections[i], course))
	}
	return out, nil
}

func buildSectionResponse(sec *model.CourseSection, course *model.Course) dto.SectionResponse {
	resp := dto.SectionResponse{
		SectionID:     sec.SectionID,
		SectionNumber: sec.SectionNumber,
		Credits:       sectionCredits(sec),
		CourseCode:    course.Code,
		CourseTitle:   course.Title,
	}
	for _, m := range sec.Meetings {
		resp.Meetings = append(resp.Meetings, dto.MeetingResponse{
			DayOfWeek:   m.DayOfWeek,
			StartTime:   m.StartTime,
			EndTime:     m.EndTime,
			MeetingType: m.MeetingType,
		})
	}
	return resp
}
