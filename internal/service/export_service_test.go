package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"degree-compass/backend/internal/dto"
	"degree-compass/backend/internal/model"
)

func setupExportService() (ExportService, *testRepos) {
	repos := newTestRepos()
	svc := NewExportService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func seedExportScenario(repos *testRepos) {
	term := &model.Term{
		TermID:    "term-1",
		StartDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), // 周一
		EndDate:   time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC),
	}
	repos.term.terms["term-1"] = term

	sec := sectionWith("s-1", "v-1", "COMP2045", 3, 3, "10:00", "11:30")
	sec.TermID = "term-1"
	sec.Term = term
	repos.section.sections["s-1"] = &sec
}

func TestExportExcelWritesWorkbook(t *testing.T) {
	svc, repos := setupExportService()
	seedExportScenario(repos)

	buf, filename, err := svc.ExportExcel(context.Background(), &dto.ExportRequest{
		SectionIDs:   []string{"s-1"},
		AcademicYear: 2026,
	})
	if err != nil {
		t.Fatalf("ExportExcel 返回错误: %v", err)
	}
	if filename != "timetable.xlsx" {
		t.Errorf("文件名错误: %s", filename)
	}
	if buf.Len() == 0 {
		t.Error("Excel 输出为空")
	}
	// xlsx 是 zip 容器，以 PK 开头
	if !strings.HasPrefix(buf.String(), "PK") {
		t.Error("输出不是合法的 xlsx 文件")
	}
}

func TestExportExcelNoSections(t *testing.T) {
	svc, _ := setupExportService()

	_, _, err := svc.ExportExcel(context.Background(), &dto.ExportRequest{SectionIDs: []string{"ghost"}})
	if !errors.Is(err, ErrExportNoSections) {
		t.Errorf("期望 ErrExportNoSections，实际 %v", err)
	}
}

func TestExportICSContainsEvent(t *testing.T) {
	svc, repos := setupExportService()
	seedExportScenario(repos)

	buf, filename, err := svc.ExportICS(context.Background(), &dto.ExportRequest{
		SectionIDs: []string{"s-1"},
	})
	if err != nil {
		t.Fatalf("ExportICS 返回错误: %v", err)
	}
	if filename != "timetable.ics" {
		t.Errorf("文件名错误: %s", filename)
	}

	out := buf.String()
	if !strings.Contains(out, "BEGIN:VEVENT") {
		t.Error("输出缺少 VEVENT")
	}
	if !strings.Contains(out, "COMP2045") {
		t.Error("VEVENT 摘要应含课程代码")
	}
	if !strings.Contains(out, "FREQ=WEEKLY") {
		t.Error("关联学期的班次应按周重复")
	}
	// 学期开始于周一，周三的班次首次上课应为 2026-09-09
	if !strings.Contains(out, "20260909T1000") {
		t.Errorf("首次上课时间错误:\n%s", out)
	}
}

// 无学期信息的班次退化为单次事件（无 RRULE）
func TestExportICSNoTermSingleEvent(t *testing.T) {
	svc, repos := setupExportService()
	sec := sectionWith("s-1", "v-1", "COMP2045", 3, 3, "10:00", "11:30")
	repos.section.sections["s-1"] = &sec

	buf, _, err := svc.ExportICS(context.Background(), &dto.ExportRequest{SectionIDs: []string{"s-1"}})
	if err != nil {
		t.Fatalf("ExportICS 返回错误: %v", err)
	}
	if strings.Contains(buf.String(), "RRULE") {
		t.Error("无学期信息不应生成 RRULE")
	}
}

func TestFirstOccurrence(t *testing.T) {
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		dayOfWeek int
		want      time.Time
	}{
		{1, time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)},  // 当天
		{3, time.Date(2026, 9, 9, 10, 0, 0, 0, time.UTC)},  // 两天后
		{7, time.Date(2026, 9, 13, 10, 0, 0, 0, time.UTC)}, // 周日
	}
	for _, tc := range cases {
		got := firstOccurrence(monday, tc.dayOfWeek, "10:00")
		if !got.Equal(tc.want) {
			t.Errorf("dayOfWeek=%d: 期望 %v，实际 %v", tc.dayOfWeek, tc.want, got)
		}
	}
}
