package simulator

// stubRand 固定输出的随机源，用于断言公式的精确结果
type stubRand struct {
	intn    func(n int) int
	float64 func() float64
}

func (s stubRand) Intn(n int) int   { return s.intn(n) }
func (s stubRand) Float64() float64 { return s.float64() }

func minRand(f float64) stubRand {
	return stubRand{
		intn:    func(int) int { return 0 },
		float64: func() float64 { return f },
	}
}

func maxRand(f float64) stubRand {
	return stubRand{
		intn:    func(n int) int { return n - 1 },
		float64: func() float64 { return f },
	}
}
