package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"ollamahub/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const timeLayout = "2006-01-02 15:04:05"

var exportHeaders = []string{"ID", "轮次", "模型", "用户消息", "AI 回复", "耗时(秒)", "创建时间"}

// ExportSession 导出会话记录
// @Summary 导出会话记录
// @Description 将一个会话的全部轮次导出为 Excel、CSV 或 JSON
// @Tags 对话
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Produce json
// @Param session_id path string true "会话ID"
// @Param format query string false "导出格式" Enums(xlsx, csv, json) default(xlsx)
// @Success 200 {file} file "导出文件"
// @Failure 400 {object} ErrorResponse "不支持的格式"
// @Failure 404 {object} ErrorResponse "会话不存在"
// @Router /chat/sessions/{session_id}/export [get]
func (h *ChatHandler) ExportSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	format := c.DefaultQuery("format", "xlsx")
	if format != "xlsx" && format != "csv" && format != "json" {
		BadRequest(c, "Unsupported export format: "+format)
		return
	}

	turns, ok := h.loadSession(c, sessionID)
	if !ok {
		return
	}

	switch format {
	case "csv":
		h.exportCSV(c, sessionID, turns)
	case "json":
		h.exportJSON(c, sessionID, turns)
	default:
		h.exportExcel(c, sessionID, turns)
	}
}

func exportRow(i int, t models.ChatInteraction) []string {
	processing := ""
	if t.ProcessingTime != nil {
		processing = strconv.FormatFloat(*t.ProcessingTime, 'f', 3, 64)
	}
	return []string{
		strconv.FormatUint(uint64(t.ID), 10),
		strconv.Itoa(i + 1),
		t.ModelName,
		t.UserMessage,
		t.AIResponse,
		processing,
		t.CreatedAt.Format(timeLayout),
	}
}

func (h *ChatHandler) exportCSV(c *gin.Context, sessionID string, turns []models.ChatInteraction) {
	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}
	for i, t := range turns {
		if err := writer.Write(exportRow(i, t)); err != nil {
			InternalError(c, "Failed to generate CSV")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	filename := fmt.Sprintf("session_%s.csv", sessionID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ChatHandler) exportJSON(c *gin.Context, sessionID string, turns []models.ChatInteraction) {
	var total float64
	for _, t := range turns {
		if t.ProcessingTime != nil {
			total += *t.ProcessingTime
		}
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=session_%s.json", sessionID))
	c.JSON(http.StatusOK, gin.H{
		"session_id":            sessionID,
		"total_turns":           len(turns),
		"total_processing_time": total,
		"turns":                 turns,
	})
}

func (h *ChatHandler) exportExcel(c *gin.Context, sessionID string, turns []models.ChatInteraction) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "会话记录"
	f.SetSheetName("Sheet1", sheetName)

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	// 消息列较长，自动换行
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    border,
	})

	f.SetColWidth(sheetName, "A", "B", 8)
	f.SetColWidth(sheetName, "C", "C", 16)
	f.SetColWidth(sheetName, "D", "E", 60)
	f.SetColWidth(sheetName, "F", "F", 10)
	f.SetColWidth(sheetName, "G", "G", 20)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, t := range turns {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.ModelName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.UserMessage)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.AIResponse)
		if t.ProcessingTime != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), *t.ProcessingTime)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), t.CreatedAt.Format(timeLayout))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), dataStyle)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		h.log.Error("生成 Excel 失败", zap.String("session_id", sessionID), zap.Error(err))
		InternalError(c, "Failed to generate Excel")
		return
	}

	filename := fmt.Sprintf("session_%s.xlsx", sessionID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
