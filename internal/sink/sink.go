package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"runcoach/internal/models"
	"runcoach/internal/redisx"
	"runcoach/internal/store"
)

// LatestSampleKey 最新样本快照的 KV key
const LatestSampleKey = "runcoach:sensor:latest"

// SampleSink 实时样本的旁路输出（不影响 WebSocket 广播）
type SampleSink interface {
	Name() string
	Publish(ctx context.Context, sample models.SensorSample) error
}

// SnapshotSink 把最新样本写入 KV（Redis 或内存），供 GET /api/live 读取
type SnapshotSink struct {
	kv  store.KV
	ttl time.Duration
}

func NewSnapshotSink(kv store.KV, ttl time.Duration) *SnapshotSink {
	return &SnapshotSink{kv: kv, ttl: ttl}
}

func (s *SnapshotSink) Name() string { return "snapshot" }

func (s *SnapshotSink) Publish(ctx context.Context, sample models.SensorSample) error {
	raw, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}
	return s.kv.Set(ctx, LatestSampleKey, string(raw), s.ttl)
}

// LatestSample 读取快照；无快照时返回 store.ErrMiss
func LatestSample(ctx context.Context, kv store.KV) (models.SensorSample, error) {
	var sample models.SensorSample
	raw, err := kv.Get(ctx, LatestSampleKey)
	if err != nil {
		return sample, err
	}
	if err := json.Unmarshal([]byte(raw), &sample); err != nil {
		return sample, fmt.Errorf("failed to decode latest sample: %w", err)
	}
	return sample, nil
}

// StreamSink XADD 到 Redis Streams
type StreamSink struct {
	client redisx.StreamAdder
	stream string
	maxLen int64
}

func NewStreamSink(client redisx.StreamAdder, stream string, maxLen int64) *StreamSink {
	return &StreamSink{client: client, stream: stream, maxLen: maxLen}
}

func (s *StreamSink) Name() string { return "redis_stream" }

func (s *StreamSink) Publish(ctx context.Context, sample models.SensorSample) error {
	_, err := redisx.PublishJSONToStream(ctx, s.client, s.stream, s.maxLen, sample)
	return err
}

// Publisher MQTT 发布的最小接口（*mqtt.Client 满足）
type Publisher interface {
	Publish(topic string, retained bool, payload []byte) error
}

// MQTTSink 把样本发布到 MQTT 主题
type MQTTSink struct {
	publisher Publisher
	topic     string
}

func NewMQTTSink(p Publisher, topic string) *MQTTSink {
	return &MQTTSink{publisher: p, topic: topic}
}

func (s *MQTTSink) Name() string { return "mqtt" }

func (s *MQTTSink) Publish(_ context.Context, sample models.SensorSample) error {
	raw, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}
	return s.publisher.Publish(s.topic, false, raw)
}
