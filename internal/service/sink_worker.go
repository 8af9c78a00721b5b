package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"runcoach/internal/metrics"
	"runcoach/internal/models"
	"runcoach/internal/sink"
)

// SinkWorker 把样本异步转发给各 SampleSink；队列满时丢弃，不阻塞推送循环
type SinkWorker struct {
	sinks   []sink.SampleSink
	queue   chan models.SensorSample
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

func NewSinkWorker(sinks []sink.SampleSink, buffer int, logger *zap.Logger, m *metrics.Metrics) *SinkWorker {
	if buffer <= 0 {
		buffer = 256
	}
	return &SinkWorker{
		sinks:   sinks,
		queue:   make(chan models.SensorSample, buffer),
		timeout: 2 * time.Second,
		logger:  logger,
		metrics: m,
	}
}

// Start 启动消费 goroutine，ctx 取消后退出
func (w *SinkWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.logger.Info("Starting sample sink worker", zap.Int("sink_count", len(w.sinks)))
		for {
			select {
			case <-ctx.Done():
				return
			case sample := <-w.queue:
				w.publish(ctx, sample)
			}
		}
	}()
}

// Submit 非阻塞入队；返回 false 表示队列已满被丢弃
func (w *SinkWorker) Submit(sample models.SensorSample) bool {
	if len(w.sinks) == 0 {
		return true
	}
	select {
	case w.queue <- sample:
		return true
	default:
		w.logger.Debug("Sink queue full, dropping sample", zap.Int64("timestamp", sample.Timestamp))
		return false
	}
}

// Wait 等待消费 goroutine 退出
func (w *SinkWorker) Wait() {
	w.wg.Wait()
}

func (w *SinkWorker) publish(ctx context.Context, sample models.SensorSample) {
	for _, s := range w.sinks {
		pctx, cancel := context.WithTimeout(ctx, w.timeout)
		err := s.Publish(pctx, sample)
		cancel()
		if err != nil {
			w.metrics.SinkError(s.Name())
			w.logger.Warn("Failed to publish sample",
				zap.String("sink", s.Name()),
				zap.Error(err),
			)
		}
	}
}
