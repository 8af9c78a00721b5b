package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"runcoach/internal/metrics"
	"runcoach/internal/models"
	"runcoach/internal/repository"
	"runcoach/internal/simulator"
)

// SampleBroadcaster 向所有实时订阅者推送样本；实现必须是非阻塞的
type SampleBroadcaster interface {
	BroadcastSample(sample models.SensorSample)
}

// CollectionService 进程内唯一的采集会话（Idle / Collecting）及其推送循环
//
// 同一时刻最多只有一个推送循环：重复 start 只重置开始时间。
// 发送前在锁内检查状态，Stop 返回后不会再有样本发出。
type CollectionService struct {
	generator   *simulator.SampleGenerator
	broadcaster SampleBroadcaster
	sinks       *SinkWorker
	sessions    repository.SessionsRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
	interval    time.Duration
	now         func() time.Time

	mu          sync.Mutex
	running     bool
	gen         uint64
	startTime   time.Time
	session     models.CollectionSession
	sampleCount int64
	cancel      context.CancelFunc
	done        chan struct{}

	loops int32

	// logMu 保证同一会话的 Create 先于 Close 写入会话日志
	logMu sync.Mutex
}

const sessionLogTimeout = 5 * time.Second

// CollectionOptions 可选依赖；零值字段使用默认值
type CollectionOptions struct {
	Interval time.Duration
	Sinks    *SinkWorker
	Sessions repository.SessionsRepository
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

func NewCollectionService(
	generator *simulator.SampleGenerator,
	broadcaster SampleBroadcaster,
	logger *zap.Logger,
	opts CollectionOptions,
) *CollectionService {
	if opts.Interval <= 0 {
		opts.Interval = 100 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sessions == nil {
		opts.Sessions = repository.NewMemorySessionsRepo()
	}
	return &CollectionService{
		generator:   generator,
		broadcaster: broadcaster,
		sinks:       opts.Sinks,
		sessions:    opts.Sessions,
		metrics:     opts.Metrics,
		logger:      logger,
		interval:    opts.Interval,
		now:         opts.Now,
	}
}

// Start Idle→Collecting；已在采集时只重置开始时间，不会启动第二个循环
func (s *CollectionService) Start(ctx context.Context, isRealSensor bool) models.CommandAck {
	s.mu.Lock()
	now := s.now()
	if s.running {
		s.startTime = now
		sessionID := s.session.ID
		s.mu.Unlock()

		s.logger.Info("Restart collection, start time reset",
			zap.String("session_id", sessionID),
			zap.Bool("is_real_sensor", isRealSensor),
		)
		return models.AckOK()
	}

	s.running = true
	s.gen++
	s.startTime = now
	s.sampleCount = 0
	s.session = models.CollectionSession{
		ID:           uuid.NewString(),
		StartedAt:    now,
		IsRealSensor: isRealSensor,
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	prev := s.done
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	gen := s.gen
	session := s.session
	go s.run(loopCtx, gen, prev, done)
	// 释放 mu 之前拿到 logMu，之后的 Stop 只能在 Create 完成后写 Close
	s.logMu.Lock()
	s.mu.Unlock()
	defer s.logMu.Unlock()

	s.metrics.SetCollectionRunning(true)
	s.logger.Info("Start collection",
		zap.String("session_id", session.ID),
		zap.Bool("is_real_sensor", isRealSensor),
		zap.Duration("interval", s.interval),
	)

	logCtx, logCancel := context.WithTimeout(context.WithoutCancel(ctx), sessionLogTimeout)
	defer logCancel()
	if err := s.sessions.Create(logCtx, session); err != nil {
		s.logger.Warn("Failed to record collection session",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}
	return models.AckOK()
}

// Stop Collecting→Idle；已停止时为 no-op。返回时推送循环已退出
func (s *CollectionService) Stop(ctx context.Context) models.CommandAck {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return models.AckOK()
	}
	s.running = false
	cancel, done := s.cancel, s.done
	s.cancel = nil
	session := s.session
	count := s.sampleCount
	stoppedAt := s.now()
	s.mu.Unlock()

	cancel()
	<-done

	s.metrics.SetCollectionRunning(false)
	s.logger.Info("Stop collection",
		zap.String("session_id", session.ID),
		zap.Int64("sample_count", count),
		zap.Duration("duration", stoppedAt.Sub(session.StartedAt)),
	)

	s.logMu.Lock()
	defer s.logMu.Unlock()
	logCtx, logCancel := context.WithTimeout(context.WithoutCancel(ctx), sessionLogTimeout)
	defer logCancel()
	if err := s.sessions.Close(logCtx, session.ID, stoppedAt, count); err != nil {
		s.logger.Warn("Failed to close collection session",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}
	return models.AckOK()
}

// Status 当前状态快照（Subscribers 由调用方补充）
func (s *CollectionService) Status() models.CollectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := models.CollectionStatus{IsRunning: s.running}
	if s.running {
		t := s.startTime
		st.StartTime = &t
		st.SessionID = s.session.ID
		st.IsRealSensor = s.session.IsRealSensor
	}
	return st
}

// ActiveLoops 当前存活的推送循环数（始终 <= 1）
func (s *CollectionService) ActiveLoops() int {
	return int(atomic.LoadInt32(&s.loops))
}

// run 先等待上一个循环退出，保证任意时刻只有一个循环存活
func (s *CollectionService) run(ctx context.Context, gen uint64, prev <-chan struct{}, done chan struct{}) {
	if prev != nil {
		<-prev
	}
	atomic.AddInt32(&s.loops, 1)
	defer close(done)
	defer atomic.AddInt32(&s.loops, -1)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if !s.tick(gen) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.tick(gen) {
				return
			}
		}
	}
}

// tick 在锁内确认会话仍有效后生成并推送一条样本
func (s *CollectionService) tick(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.gen != gen {
		return false
	}

	elapsed := s.now().Sub(s.startTime).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	sample := s.generator.Generate(elapsed)
	s.sampleCount++

	s.broadcaster.BroadcastSample(sample)
	if s.sinks != nil {
		s.sinks.Submit(sample)
	}
	s.metrics.SampleEmitted()
	return true
}
