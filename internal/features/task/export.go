package task

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{"Title", "Status", "Priority", "Team", "Project", "Assignee", "Due Date", "Created At"}

// ExportService renders task lists as spreadsheets for offline review.
type ExportService interface {
	ExportTasks(ctx context.Context, filter TaskFilter) ([]byte, string, error)
}

type ExportServiceImpl struct {
	repo TaskRepository
}

func NewExportService(repo TaskRepository) ExportService {
	return &ExportServiceImpl{repo: repo}
}

func (s *ExportServiceImpl) ExportTasks(ctx context.Context, filter TaskFilter) ([]byte, string, error) {
	tasks, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Tasks"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, t := range tasks {
		assignee := ""
		if t.Assignee != nil {
			assignee = t.Assignee.Hex()
		}
		dueDate := ""
		if t.DueDate != nil {
			dueDate = t.DueDate.Format("2006-01-02")
		}
		values := []any{
			t.Title,
			t.Status,
			t.Priority,
			t.Team,
			t.Project,
			assignee,
			dueDate,
			t.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("tasks_%s.xlsx", time.Now().Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}
