package realtime

import "encoding/json"

// 事件名
const (
	EventConnected       = "connected"
	EventSensorData      = "sensor_data"
	EventFeedback        = "feedback"
	EventAck             = "ack"
	EventError           = "error"
	EventStartCollection = "start_collection"
	EventStopCollection  = "stop_collection"
	EventGetFeedback     = "get_feedback"
)

// InboundMessage 客户端→服务端：{"event":..., "id":..., "data":...}
type InboundMessage struct {
	Event string          `json:"event"`
	ID    *int64          `json:"id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// OutboundMessage 服务端→客户端；ack 时 ID 与请求一致
type OutboundMessage struct {
	Event string      `json:"event"`
	ID    *int64      `json:"id,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// isRealSensorFlag 读取 start_collection 的 isRealSensor；缺失或非布尔时为 false
func isRealSensorFlag(data json.RawMessage) bool {
	if len(data) == 0 {
		return false
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return false
	}
	v, ok := payload["isRealSensor"].(bool)
	return ok && v
}
