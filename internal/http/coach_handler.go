package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"runcoach/internal/models"
)

// HistorySource 训练历史；每次调用都重新生成
type HistorySource interface {
	Generate() []models.HistoryRecord
	Page(page, size int) models.HistoryPage
}

// FeedbackSource 生成一条教练反馈
type FeedbackSource interface {
	Feedback() models.FeedbackEvent
}

// AnalysisFunc 按会话 ID 返回分析报告
type AnalysisFunc func(sessionID string) models.AnalysisReport

// CoachHandler 历史、分析、反馈
type CoachHandler struct {
	history  HistorySource
	analysis AnalysisFunc
	feedback FeedbackSource
	logger   *zap.Logger
}

func NewCoachHandler(history HistorySource, analysis AnalysisFunc, feedback FeedbackSource, logger *zap.Logger) *CoachHandler {
	return &CoachHandler{
		history:  history,
		analysis: analysis,
		feedback: feedback,
		logger:   logger,
	}
}

// GetHistory GET /api/history?page=&size=
func (h *CoachHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	page, size := pagination(r)
	writeJSON(w, http.StatusOK, h.history.Page(page, size))
}

// GetAnalysis GET /api/analysis/{sessionId}
func (h *CoachHandler) GetAnalysis(w http.ResponseWriter, r *http.Request, sessionID string) {
	report := h.analysis(sessionID)
	writeJSON(w, http.StatusOK, report)
}

// GetFeedback GET /api/feedback，与实时通道 get_feedback 相同
func (h *CoachHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.feedback.Feedback())
}
