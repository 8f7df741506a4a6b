package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/DaniilYevlanov/serverwok/internal/middleware"
	"github.com/DaniilYevlanov/serverwok/internal/progress"
	"github.com/DaniilYevlanov/serverwok/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出当前用户的关卡进度
type ExportHandler struct {
	Engine *progress.Engine
}

func NewExportHandler(engine *progress.Engine) *ExportHandler {
	return &ExportHandler{Engine: engine}
}

// LevelsXLSX 导出关卡进度为 XLSX
func (h *ExportHandler) LevelsXLSX(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	levels, err := h.Engine.GetLevels(user.Username)
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	f := excelize.NewFile()
	sheetName := "Progress"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	// 表头
	headers := []string{"Level", "Completed", "Completion time", "Completion date"}
	for i, name := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, name)
	}

	// 写入数据
	for idx, lvl := range levels {
		row := idx + 2

		completedText := "no"
		if lvl.Completed {
			completedText = "yes"
		}
		timeText := ""
		if lvl.CompletionTime != nil {
			timeText = *lvl.CompletionTime
		}
		dateText := ""
		if lvl.CompletionDate != nil {
			dateText = lvl.CompletionDate.UTC().Format(time.RFC3339)
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), lvl.Number)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), completedText)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), timeText)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), dateText)
	}

	// 设置列宽
	f.SetColWidth(sheetName, "A", "B", 10)
	f.SetColWidth(sheetName, "C", "C", 15)
	f.SetColWidth(sheetName, "D", "D", 24)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"levels_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, "export failed")
	}
}
