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

	"exam-portal/backend/internal/model"
	"exam-portal/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoAccounts   = errors.New("暂无账号可导出")
	ErrExportNoExams      = errors.New("暂无考试安排可导出")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 花名册导出为 Excel (.xlsx)，与导入格式对称，可作导入模板
//   - 考试安排导出为 iCalendar (.ics)，可订阅进日历客户端
//   - 导出以 bytes.Buffer / string 返回，落盘或下发由调用方决定
type ExportService interface {
	// ExportRoster 导出全部账号花名册为 Excel
	ExportRoster(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportExamCalendar 导出考试场次安排为 iCalendar
	ExportExamCalendar(ctx context.Context) (string, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportRoster — 导出花名册为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "花名册"
//   - 表头：名 | 姓 | 学号 | 邮箱 | 电话 | 角色 | 注册时间
//   - 按学号升序排列
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportRoster(ctx context.Context) (*bytes.Buffer, string, error) {
	accounts, err := s.repo.Account.List(ctx)
	if err != nil {
		s.logger.Error("查询账号失败", zap.Error(err))
		return nil, "", err
	}
	if len(accounts) == 0 {
		return nil, "", ErrExportNoAccounts
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].StudentID < accounts[j].StudentID
	})

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "花名册"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "D", 28)
	f.SetColWidth(sheetName, "E", "G", 16)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"名", "姓", "学号", "邮箱", "电话", "角色", "注册时间"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row := 2
	for i := range accounts {
		a := &accounts[i]
		f.SetCellValue(sheetName, cell("A", row), a.FirstName)
		f.SetCellValue(sheetName, cell("B", row), a.LastName)
		f.SetCellValue(sheetName, cell("C", row), a.StudentID)
		f.SetCellValue(sheetName, cell("D", row), a.Email)
		f.SetCellValue(sheetName, cell("E", row), a.Phone)
		f.SetCellValue(sheetName, cell("F", row), string(a.Role))
		f.SetCellValue(sheetName, cell("G", row), a.CreatedAt.Format("2006-01-02"))
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("花名册_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportExamCalendar — 导出考试安排为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个有场次安排的考试生成一个 VEVENT：
//   - SUMMARY: 考试名
//   - DTSTART/DTEND: 场次日期 + 起止时间（本地时区）
//   - LOCATION: 考场
//
// 返回值：ics 文本, filename（建议文件名）, error

func (s *exportService) ExportExamCalendar(ctx context.Context) (string, string, error) {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		s.logger.Error("读取讲师端聚合失败", zap.Error(err))
		return "", "", err
	}
	if len(data.ExamSchedule) == 0 {
		return "", "", ErrExportNoExams
	}

	names := make(map[string]string, len(data.Exams))
	for i := range data.Exams {
		names[data.Exams[i].ID] = data.Exams[i].Name
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ExamPortal//Exam Schedule//EN")

	for i := range data.ExamSchedule {
		sched := &data.ExamSchedule[i]
		start, end, err := scheduleWindow(sched)
		if err != nil {
			s.logger.Warn("场次时间无法解析，跳过",
				zap.String("schedule_id", sched.ID), zap.Error(err))
			continue
		}

		event := cal.AddEvent(sched.ID)
		event.SetCreatedTime(time.Now())
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(names[sched.ExamID])
		if sched.Location != "" {
			event.SetLocation(sched.Location)
		}
	}

	filename := fmt.Sprintf("考试安排_%s.ics", time.Now().Format("20060102"))
	return cal.Serialize(), filename, nil
}

// scheduleWindow 解析场次的起止时刻（本地时区）
func scheduleWindow(sched *model.ExamSchedule) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout+" "+timeLayout,
		sched.Date+" "+sched.StartTime, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation(dateLayout+" "+timeLayout,
		sched.Date+" "+sched.EndTime, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	// 跨午夜的场次，结束日期进一天
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
