package models

// SensorSample 一次模拟传感器采样（每个 tick 新建，不持久化）
// 与前端 sensor_data 事件的字段保持一致
type SensorSample struct {
	Timestamp     int64      `json:"timestamp"`     // ms since epoch
	Cadence       int        `json:"cadence"`       // 步频 steps/min
	StrideLength  int        `json:"strideLength"`  // 步幅 cm
	PostureScore  int        `json:"postureScore"`  // [60,95]
	PressureRatio string     `json:"pressureRatio"` // "front:rear"，两者之和为 100
	Acceleration  [4]float64 `json:"acceleration"`  // [ts, x, y, z]
	Pressure      [5]float64 `json:"pressure"`      // [ts, 前脚掌, 中脚掌, 后脚掌, 外侧]
}

// FeedbackType 实时反馈级别
type FeedbackType string

const (
	FeedbackSuccess FeedbackType = "success"
	FeedbackWarning FeedbackType = "warning"
	FeedbackDanger  FeedbackType = "danger"
	FeedbackInfo    FeedbackType = "info"
)

// FeedbackEvent get_feedback 的返回值
type FeedbackEvent struct {
	Type      FeedbackType `json:"type"`
	Message   string       `json:"message"`
	Timestamp string       `json:"timestamp"` // HH:MM:SS
}
