package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"runcoach/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HistoryExportHeader 历史导出表头
var HistoryExportHeader = []string{
	"ID", "Date", "Duration", "Avg Cadence", "Avg Stride", "Avg Score", "Feedback",
}

// GenerateHistoryExport 生成训练历史 Excel
func GenerateHistoryExport(records []models.HistoryRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "History"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		return nil, err
	}
	if err := writeRow(f, sheet, 1, toRow(HistoryExportHeader)); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, rec := range records {
		row := []interface{}{rec.ID, rec.Date, rec.Duration, rec.AvgCadence, rec.AvgStride, rec.AvgScore, rec.Feedback}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	widths := []float64{8, 14, 12, 14, 12, 12, 30}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	return writeBuffer(f)
}

// GenerateAnalysisExport 生成分析报告 Excel：Summary / Metrics / Recommendations
func GenerateAnalysisExport(sessionID string, report models.AnalysisReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{"Metrics", "Recommendations"} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}
	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		return nil, err
	}

	summary := [][]interface{}{
		{"Session", sessionID},
		{"Summary", report.Summary},
		{"Gait Analysis", report.GaitAnalysis.Description},
		{"Support Phase", report.GaitAnalysis.SupportPhase},
		{"Flight Phase", report.GaitAnalysis.FlightPhase},
		{"Pressure Analysis", report.PressureAnalysis.Description},
		{"Forefoot %", report.PressureAnalysis.Forefoot},
		{"Midfoot %", report.PressureAnalysis.Midfoot},
		{"Rearfoot %", report.PressureAnalysis.Rearfoot},
	}
	for i, row := range summary {
		if err := writeRow(f, "Summary", i+1, row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle("Summary", "A1", fmt.Sprintf("A%d", len(summary)), headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth("Summary", "A", "A", 18); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth("Summary", "B", "B", 80); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	m := report.Metrics
	metrics := [][]interface{}{
		{"Metric", "Value"},
		{"Avg Cadence", m.AvgCadence},
		{"Avg Stride", m.AvgStride},
		{"Posture Score", m.PostureScore},
		{"Landing Pattern", m.LandingPattern},
		{"Vertical Oscillation", m.VerticalOscillation},
		{"Ground Contact Time", m.GroundContactTime},
	}
	for i, row := range metrics {
		if err := writeRow(f, "Metrics", i+1, row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle("Metrics", "A1", "B1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	if err := writeRow(f, "Recommendations", 1, toRow([]string{"Title", "Description", "Exercises"})); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle("Recommendations", "A1", "C1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	for i, rec := range report.Recommendations {
		row := []interface{}{rec.Title, rec.Description, strings.Join(rec.Exercises, "\n")}
		if err := writeRow(f, "Recommendations", i+2, row); err != nil {
			return nil, err
		}
	}

	return writeBuffer(f)
}

func newHeaderStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	return style, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

func writeBuffer(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

func writeXLSX(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ExportHistory GET /api/history/export
func (h *CoachHandler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	data, err := GenerateHistoryExport(h.history.Generate())
	if err != nil {
		h.logger.Error("GenerateHistoryExport failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeXLSX(w, "training-history.xlsx", data)
}

// ExportAnalysis GET /api/analysis/{sessionId}/export
func (h *CoachHandler) ExportAnalysis(w http.ResponseWriter, r *http.Request, sessionID string) {
	data, err := GenerateAnalysisExport(sessionID, h.analysis(sessionID))
	if err != nil {
		h.logger.Error("GenerateAnalysisExport failed", zap.String("session_id", sessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeXLSX(w, "analysis-report.xlsx", data)
}
