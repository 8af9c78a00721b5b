package models

import "time"

// CollectionSession 一次 start→stop 之间的采集会话记录
type CollectionSession struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"startedAt"`
	StoppedAt    *time.Time `json:"stoppedAt,omitempty"`
	IsRealSensor bool       `json:"isRealSensor"`
	SampleCount  int64      `json:"sampleCount"`
}

// CollectionSessionPage GET /api/sessions 的响应体
type CollectionSessionPage struct {
	Records []CollectionSession `json:"records"`
	Total   int                 `json:"total"`
}

// CollectionStatus 当前采集状态快照
type CollectionStatus struct {
	IsRunning    bool       `json:"isRunning"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	SessionID    string     `json:"sessionId,omitempty"`
	IsRealSensor bool       `json:"isRealSensor"`
	Subscribers  int        `json:"subscribers"`
}

// CommandAck start_collection / stop_collection 的确认
type CommandAck struct {
	Status string `json:"status"`
}

// AckOK {"status":"ok"}
func AckOK() CommandAck {
	return CommandAck{Status: "ok"}
}
