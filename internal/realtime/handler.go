package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"runcoach/internal/models"
)

// Collector 采集会话控制
type Collector interface {
	Start(ctx context.Context, isRealSensor bool) models.CommandAck
	Stop(ctx context.Context) models.CommandAck
	Status() models.CollectionStatus
}

// FeedbackSource 生成一条教练反馈
type FeedbackSource interface {
	Feedback() models.FeedbackEvent
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler /ws 端点
type Handler struct {
	hub       *Hub
	collector Collector
	feedback  FeedbackSource
	logger    *zap.Logger
	timeout   time.Duration
}

func NewHandler(hub *Hub, collector Collector, feedback FeedbackSource, logger *zap.Logger) *Handler {
	return &Handler{
		hub:       hub,
		collector: collector,
		feedback:  feedback,
		logger:    logger,
		timeout:   5 * time.Second,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	client := newClient(uuid.NewString(), conn, h.logger)
	if !h.hub.register(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	h.logger.Info("Client connected",
		zap.String("client_id", client.id),
		zap.String("remote", r.RemoteAddr),
	)

	go client.writePump()

	h.reply(client, OutboundMessage{Event: EventConnected, Data: h.status()})

	client.readPump(func(raw []byte) {
		h.dispatch(client, raw)
	})

	h.hub.unregister(client)
	h.logger.Info("Client disconnected", zap.String("client_id", client.id))
}

func (h *Handler) status() models.CollectionStatus {
	st := h.collector.Status()
	st.Subscribers = h.hub.Count()
	return st
}

func (h *Handler) dispatch(c *Client, raw []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.reply(c, OutboundMessage{Event: EventError, Data: errorPayload{Error: "invalid message"}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	switch msg.Event {
	case EventStartCollection:
		ack := h.collector.Start(ctx, isRealSensorFlag(msg.Data))
		h.ack(c, msg.ID, ack)
	case EventStopCollection:
		ack := h.collector.Stop(ctx)
		h.ack(c, msg.ID, ack)
	case EventGetFeedback:
		fb := h.feedback.Feedback()
		if msg.ID != nil {
			h.reply(c, OutboundMessage{Event: EventAck, ID: msg.ID, Data: fb})
		} else {
			h.reply(c, OutboundMessage{Event: EventFeedback, Data: fb})
		}
	default:
		h.logger.Debug("Unknown event", zap.String("client_id", c.id), zap.String("event", msg.Event))
		h.reply(c, OutboundMessage{Event: EventError, ID: msg.ID, Data: errorPayload{Error: "unknown event: " + msg.Event}})
	}
}

// ack 仅在请求带 id 时回复
func (h *Handler) ack(c *Client, id *int64, data interface{}) {
	if id == nil {
		return
	}
	h.reply(c, OutboundMessage{Event: EventAck, ID: id, Data: data})
}

func (h *Handler) reply(c *Client, msg OutboundMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode reply", zap.String("event", msg.Event), zap.Error(err))
		return
	}
	if !c.enqueue(payload) {
		h.logger.Debug("Reply dropped", zap.String("client_id", c.id), zap.String("event", msg.Event))
	}
}
