package httpapi

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"runcoach/internal/models"
	"runcoach/internal/repository"
	"runcoach/internal/sink"
	"runcoach/internal/store"
)

// Collector 采集会话控制
type Collector interface {
	Start(ctx context.Context, isRealSensor bool) models.CommandAck
	Stop(ctx context.Context) models.CommandAck
	Status() models.CollectionStatus
}

// CollectionHandler 采集状态、命令镜像、会话记录、最新样本
type CollectionHandler struct {
	collector   Collector
	subscribers func() int
	sessions    repository.SessionsRepository
	kv          store.KV
	logger      *zap.Logger
}

func NewCollectionHandler(
	collector Collector,
	subscribers func() int,
	sessions repository.SessionsRepository,
	kv store.KV,
	logger *zap.Logger,
) *CollectionHandler {
	if subscribers == nil {
		subscribers = func() int { return 0 }
	}
	return &CollectionHandler{
		collector:   collector,
		subscribers: subscribers,
		sessions:    sessions,
		kv:          kv,
		logger:      logger,
	}
}

// GetStatus GET /api/collection/status
func (h *CollectionHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st := h.collector.Status()
	st.Subscribers = h.subscribers()
	writeJSON(w, http.StatusOK, st)
}

type startRequest struct {
	IsRealSensor *bool `json:"isRealSensor"`
}

// Start POST /api/collection/start，body 可选 {"isRealSensor": bool}
func (h *CollectionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := readBodyJSON(r, 4<<10, &req); err != nil {
		h.logger.Debug("Invalid start body, defaulting isRealSensor=false", zap.Error(err))
		req = startRequest{}
	}
	isReal := req.IsRealSensor != nil && *req.IsRealSensor
	writeJSON(w, http.StatusOK, h.collector.Start(r.Context(), isReal))
}

// Stop POST /api/collection/stop
func (h *CollectionHandler) Stop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collector.Stop(r.Context()))
}

// ListSessions GET /api/sessions?page=&size=
func (h *CollectionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	page, size := pagination(r)
	records, total, err := h.sessions.List(r.Context(), page, size)
	if err != nil {
		h.logger.Error("ListSessions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []models.CollectionSession{}
	}
	writeJSON(w, http.StatusOK, models.CollectionSessionPage{Records: records, Total: total})
}

// GetLive GET /api/live
func (h *CollectionHandler) GetLive(w http.ResponseWriter, r *http.Request) {
	sample, err := sink.LatestSample(r.Context(), h.kv)
	if errors.Is(err, store.ErrMiss) {
		writeError(w, http.StatusNotFound, "no live sample")
		return
	}
	if err != nil {
		h.logger.Error("LatestSample failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sample)
}
