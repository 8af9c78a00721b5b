package simulator

import (
	"math/rand"
	"sync"
	"time"
)

// Rand 生成器使用的随机源（*rand.Rand 满足此接口；测试可替换为固定值实现）
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// lockedRand 可被多个 goroutine 共享的随机源
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand 创建并发安全的随机源；seed 为 0 时使用当前时间
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// uniformInt 闭区间 [lo, hi] 上的均匀整数
func uniformInt(r Rand, lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}

// jitter [-0.5, 0.5) 上的均匀抖动
func jitter(r Rand) float64 {
	return r.Float64() - 0.5
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
