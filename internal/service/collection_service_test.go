package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"runcoach/internal/models"
	"runcoach/internal/repository"
	"runcoach/internal/simulator"
)

type recordingBroadcaster struct {
	mu      sync.Mutex
	samples []models.SensorSample
	times   []time.Time
}

func (b *recordingBroadcaster) BroadcastSample(sample models.SensorSample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = append(b.samples, sample)
	b.times = append(b.times, time.Now())
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

func (b *recordingBroadcaster) lastAt() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.times) == 0 {
		return time.Time{}
	}
	return b.times[len(b.times)-1]
}

func newTestCollection(b SampleBroadcaster, repo repository.SessionsRepository) *CollectionService {
	gen := simulator.NewSampleGenerator(simulator.NewRand(1), time.Now)
	return NewCollectionService(gen, b, zap.NewNop(), CollectionOptions{
		Interval: 100 * time.Millisecond,
		Sessions: repo,
	})
}

func TestCollectionService_StreamsAtInterval(t *testing.T) {
	b := &recordingBroadcaster{}
	svc := newTestCollection(b, nil)

	ack := svc.Start(context.Background(), false)
	assert.Equal(t, "ok", ack.Status)

	time.Sleep(1100 * time.Millisecond)
	svc.Stop(context.Background())

	n := b.count()
	assert.GreaterOrEqual(t, n, 9)
	assert.LessOrEqual(t, n, 12)
}

func TestCollectionService_NoSamplesAfterStop(t *testing.T) {
	b := &recordingBroadcaster{}
	svc := newTestCollection(b, nil)

	svc.Start(context.Background(), false)
	time.Sleep(350 * time.Millisecond)

	svc.Stop(context.Background())
	stoppedAt := time.Now()
	countAtStop := b.count()

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, countAtStop, b.count())
	assert.False(t, b.lastAt().After(stoppedAt.Add(150*time.Millisecond)))
	assert.Equal(t, 0, svc.ActiveLoops())
}

func TestCollectionService_StopWhenIdle(t *testing.T) {
	svc := newTestCollection(&recordingBroadcaster{}, nil)

	assert.Equal(t, "ok", svc.Stop(context.Background()).Status)
	assert.Equal(t, "ok", svc.Stop(context.Background()).Status)
	assert.False(t, svc.Status().IsRunning)
}

func TestCollectionService_DoubleStartSingleLoop(t *testing.T) {
	b := &recordingBroadcaster{}
	svc := newTestCollection(b, nil)

	svc.Start(context.Background(), false)
	first := svc.Status()
	time.Sleep(150 * time.Millisecond)

	svc.Start(context.Background(), true)
	second := svc.Status()
	assert.Equal(t, 1, svc.ActiveLoops())
	assert.Equal(t, first.SessionID, second.SessionID)
	require.NotNil(t, second.StartTime)
	assert.True(t, second.StartTime.After(*first.StartTime))

	time.Sleep(1000 * time.Millisecond)
	svc.Stop(context.Background())

	// 两个循环会产生约 20 条
	assert.LessOrEqual(t, b.count(), 14)
}

func TestCollectionService_RestartResetsElapsed(t *testing.T) {
	b := &recordingBroadcaster{}
	svc := newTestCollection(b, nil)

	svc.Start(context.Background(), false)
	time.Sleep(450 * time.Millisecond)
	svc.Stop(context.Background())
	svc.Start(context.Background(), false)
	time.Sleep(50 * time.Millisecond)
	svc.Stop(context.Background())

	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.samples)
	last := b.samples[len(b.samples)-1]
	// elapsed 归零后前脚掌压力约为 2±0.5；未归零时 (elapsed>=0.45) 会超过 2.9
	assert.Less(t, last.Pressure[1], 2.9)
}

func TestCollectionService_StatusAndSessionLog(t *testing.T) {
	repo := repository.NewMemorySessionsRepo()
	svc := newTestCollection(&recordingBroadcaster{}, repo)

	st := svc.Status()
	assert.False(t, st.IsRunning)
	assert.Nil(t, st.StartTime)

	svc.Start(context.Background(), true)
	st = svc.Status()
	assert.True(t, st.IsRunning)
	assert.True(t, st.IsRealSensor)
	require.NotEmpty(t, st.SessionID)

	time.Sleep(250 * time.Millisecond)
	svc.Stop(context.Background())

	sessions, total, err := repo.List(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, st.SessionID, sessions[0].ID)
	assert.True(t, sessions[0].IsRealSensor)
	require.NotNil(t, sessions[0].StoppedAt)
	assert.Greater(t, sessions[0].SampleCount, int64(0))
}

// slowCreateRepo Create 较慢，并拒绝已取消的 ctx
type slowCreateRepo struct {
	*repository.MemorySessionsRepo
	delay time.Duration
}

func (r *slowCreateRepo) Create(ctx context.Context, s models.CollectionSession) error {
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.MemorySessionsRepo.Create(ctx, s)
}

func (r *slowCreateRepo) Close(ctx context.Context, id string, stoppedAt time.Time, sampleCount int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.MemorySessionsRepo.Close(ctx, id, stoppedAt, sampleCount)
}

func TestCollectionService_StopDuringSlowCreateClosesSession(t *testing.T) {
	repo := &slowCreateRepo{MemorySessionsRepo: repository.NewMemorySessionsRepo(), delay: 50 * time.Millisecond}
	svc := newTestCollection(&recordingBroadcaster{}, repo)

	started := make(chan struct{})
	go func() {
		defer close(started)
		svc.Start(context.Background(), false)
	}()
	time.Sleep(10 * time.Millisecond)
	svc.Stop(context.Background())
	<-started

	assert.False(t, svc.Status().IsRunning)
	sessions, total, err := repo.List(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.NotNil(t, sessions[0].StoppedAt, "idle service must not leave an open session")
}

func TestCollectionService_SessionLogIgnoresCallerCancel(t *testing.T) {
	repo := &slowCreateRepo{MemorySessionsRepo: repository.NewMemorySessionsRepo(), delay: 20 * time.Millisecond}
	svc := newTestCollection(&recordingBroadcaster{}, repo)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	svc.Start(ctx, true)
	svc.Stop(ctx)

	sessions, total, err := repo.List(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.True(t, sessions[0].IsRealSensor)
	assert.NotNil(t, sessions[0].StoppedAt)
}

func TestCollectionService_ConcurrentCommands(t *testing.T) {
	b := &recordingBroadcaster{}
	svc := newTestCollection(b, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%3 == 0 {
				svc.Stop(context.Background())
			} else {
				svc.Start(context.Background(), false)
			}
			assert.LessOrEqual(t, svc.ActiveLoops(), 1)
		}(i)
	}
	wg.Wait()

	svc.Stop(context.Background())
	assert.Equal(t, 0, svc.ActiveLoops())
	assert.False(t, svc.Status().IsRunning)
}
