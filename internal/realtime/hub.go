package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"runcoach/internal/metrics"
	"runcoach/internal/models"
)

// Hub 管理所有实时连接；广播为非阻塞，慢客户端会丢消息
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewHub(logger *zap.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
		metrics: m,
	}
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetClients(n)
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.closeSend()
		h.metrics.SetClients(n)
	}
}

// Count 当前连接数
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast 编码一次后投递给所有连接
func (h *Hub) Broadcast(msg OutboundMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode broadcast", zap.String("event", msg.Event), zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.enqueue(payload) {
			h.logger.Debug("Client send buffer full, dropping message",
				zap.String("client_id", c.id),
				zap.String("event", msg.Event),
			)
		}
	}
}

// BroadcastSample 推送 sensor_data 事件
func (h *Hub) BroadcastSample(sample models.SensorSample) {
	h.Broadcast(OutboundMessage{Event: EventSensorData, Data: sample})
}

// Close 断开所有连接，之后的新连接会被拒绝
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.closeConn()
	}
	h.logger.Info("Realtime hub closed", zap.Int("clients", len(clients)))
}
