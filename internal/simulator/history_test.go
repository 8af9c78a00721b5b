package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryGenerate_AllDaysKept(t *testing.T) {
	g := NewHistoryGenerator(minRand(0.9), fixedClock)

	records := g.Generate()

	require.Len(t, records, 30)
	assert.Equal(t, "2024-05-01", records[0].Date)
	assert.Equal(t, "2024-04-02", records[29].Date)
	for i, r := range records {
		assert.Equal(t, i+1, r.ID)
		assert.Equal(t, "20分钟", r.Duration)
		assert.Equal(t, 165, r.AvgCadence)
		assert.Equal(t, 100, r.AvgStride)
		assert.Equal(t, 65, r.AvgScore)
		if i > 0 {
			assert.Greater(t, records[i-1].Date, r.Date)
		}
	}
}

func TestHistoryGenerate_NoDaysKept(t *testing.T) {
	g := NewHistoryGenerator(minRand(0.1), fixedClock)

	page := g.Page(1, 10)

	assert.Equal(t, 0, page.Total)
	assert.NotNil(t, page.Records)
	assert.Empty(t, page.Records)
}

func TestHistoryGenerate_FieldRanges(t *testing.T) {
	g := NewHistoryGenerator(NewRand(99), nil)

	for n := 0; n < 20; n++ {
		for _, r := range g.Generate() {
			require.GreaterOrEqual(t, r.AvgCadence, 165)
			require.LessOrEqual(t, r.AvgCadence, 185)
			require.GreaterOrEqual(t, r.AvgStride, 100)
			require.LessOrEqual(t, r.AvgStride, 120)
			require.GreaterOrEqual(t, r.AvgScore, 65)
			require.LessOrEqual(t, r.AvgScore, 95)
			require.Contains(t, historyFeedbacks, r.Feedback)
		}
	}
}

func TestPaginate_PagesCoverFullSetWithoutGaps(t *testing.T) {
	g := NewHistoryGenerator(NewRand(3), nil)
	all := g.Generate()

	full := Paginate(all, 1, 1000)
	require.Equal(t, len(all), full.Total)
	require.Len(t, full.Records, len(all))

	seen := map[string]bool{}
	covered := 0
	for page := 1; ; page++ {
		p := Paginate(all, page, 5)
		require.Equal(t, len(all), p.Total)
		require.LessOrEqual(t, len(p.Records), 5)
		if len(p.Records) == 0 {
			break
		}
		for i, r := range p.Records {
			require.False(t, seen[r.Date], "duplicate %s", r.Date)
			seen[r.Date] = true
			if i > 0 {
				require.Greater(t, p.Records[i-1].Date, r.Date)
			}
		}
		covered += len(p.Records)
	}
	assert.Equal(t, len(all), covered)
}

func TestPaginate_OutOfRangePage(t *testing.T) {
	g := NewHistoryGenerator(minRand(0.9), fixedClock)

	p := g.Page(99, 10)

	assert.Equal(t, 30, p.Total)
	assert.NotNil(t, p.Records)
	assert.Len(t, p.Records, 0)
}
