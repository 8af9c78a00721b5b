package simulator

import (
	"fmt"
	"math"
	"time"

	"runcoach/internal/models"
)

const (
	PostureScoreMin  = 60
	PostureScoreMax  = 95
	FrontPressureMin = 40
	FrontPressureMax = 60
)

// SampleGenerator 根据采集已进行的秒数生成一条模拟传感器数据
type SampleGenerator struct {
	rand Rand
	now  func() time.Time
}

// NewSampleGenerator now 为 nil 时使用 time.Now
func NewSampleGenerator(r Rand, now func() time.Time) *SampleGenerator {
	if now == nil {
		now = time.Now
	}
	return &SampleGenerator{rand: r, now: now}
}

// Generate 纯计算，无错误路径；只读取时钟和随机源
func (g *SampleGenerator) Generate(elapsed float64) models.SensorSample {
	r := g.rand
	nowMs := float64(g.now().UnixMilli())

	cadence := 160 + int(math.Round(10*math.Sin(elapsed/60))) + uniformInt(r, 0, 10)
	stride := 100 + int(math.Round(10*math.Cos(elapsed/90))) + uniformInt(r, 0, 10)

	posture := 75 + int(math.Round(15*math.Sin(elapsed/120))) + uniformInt(r, -5, 5)
	posture = clamp(posture, PostureScoreMin, PostureScoreMax)

	front := 40 + int(math.Round(10*math.Sin(elapsed/45))) + uniformInt(r, 0, 10)
	front = clamp(front, FrontPressureMin, FrontPressureMax)

	acceleration := [4]float64{
		nowMs,
		math.Sin(elapsed/0.5)*2 + jitter(r),
		math.Cos(elapsed/0.5)*2 + jitter(r),
		math.Sin(elapsed/0.3)*1.5 + jitter(r),
	}

	pressure := [5]float64{
		nowMs,
		math.Abs(math.Sin(elapsed/0.6))*3 + 2 + jitter(r),     // 前脚掌
		math.Abs(math.Sin(elapsed/0.6+1))*2 + 1 + jitter(r),   // 中脚掌
		math.Abs(math.Cos(elapsed/0.6))*2.5 + 1.5 + jitter(r), // 后脚掌
		r.Float64() * 2,                                       // 外侧
	}

	return models.SensorSample{
		Timestamp:     int64(nowMs),
		Cadence:       cadence,
		StrideLength:  stride,
		PostureScore:  posture,
		PressureRatio: fmt.Sprintf("%d:%d", front, 100-front),
		Acceleration:  acceleration,
		Pressure:      pressure,
	}
}
