package models

// HistoryRecord 历史训练记录（每次请求重新生成）
type HistoryRecord struct {
	ID         int    `json:"id"`
	Date       string `json:"date"`     // YYYY-MM-DD
	Duration   string `json:"duration"` // "45分钟"
	AvgCadence int    `json:"avgCadence"`
	AvgStride  int    `json:"avgStride"`
	AvgScore   int    `json:"avgScore"`
	Feedback   string `json:"feedback"`
}

// HistoryPage GET /api/history 的响应体
type HistoryPage struct {
	Records []HistoryRecord `json:"records"`
	Total   int             `json:"total"`
}
