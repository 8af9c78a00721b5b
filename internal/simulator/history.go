package simulator

import (
	"fmt"
	"sort"
	"time"

	"runcoach/internal/models"
)

const (
	historyDays     = 30
	historyDateFmt  = "2006-01-02"
	historyKeepProb = 0.5
)

var historyFeedbacks = []string{
	"步频稳定，姿态良好",
	"足外翻角度过大，建议调整",
	"前后足压比例良好",
	"支撑相时间偏长",
	"整体表现良好",
	"垂直振幅偏大，能量消耗增加",
	"手臂摆动幅度不足",
}

// HistoryGenerator 每次调用都重新生成最近 30 天的训练记录，不做持久化
type HistoryGenerator struct {
	rand Rand
	now  func() time.Time
}

func NewHistoryGenerator(r Rand, now func() time.Time) *HistoryGenerator {
	if now == nil {
		now = time.Now
	}
	return &HistoryGenerator{rand: r, now: now}
}

// Generate 今天往前 29 天，每天以 0.5 的概率有一条记录；按日期倒序
func (g *HistoryGenerator) Generate() []models.HistoryRecord {
	now := g.now()
	records := make([]models.HistoryRecord, 0, historyDays)
	for i := 0; i < historyDays; i++ {
		date := now.AddDate(0, 0, -i)
		if g.rand.Float64() < historyKeepProb {
			continue
		}
		duration := uniformInt(g.rand, 20, 60)
		records = append(records, models.HistoryRecord{
			ID:         len(records) + 1,
			Date:       date.Format(historyDateFmt),
			Duration:   fmt.Sprintf("%d分钟", duration),
			AvgCadence: uniformInt(g.rand, 165, 185),
			AvgStride:  uniformInt(g.rand, 100, 120),
			AvgScore:   uniformInt(g.rand, 65, 95),
			Feedback:   historyFeedbacks[g.rand.Intn(len(historyFeedbacks))],
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
	return records
}

// Page 生成一份完整记录后切片 [(page-1)*size, page*size)
// 调用方负责把 page/size 规范到 >= 1
func (g *HistoryGenerator) Page(page, size int) models.HistoryPage {
	return Paginate(g.Generate(), page, size)
}

// Paginate 越界页返回空 records（非 nil），total 始终为全集大小
func Paginate(records []models.HistoryRecord, page, size int) models.HistoryPage {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	out := models.HistoryPage{Records: []models.HistoryRecord{}, Total: len(records)}
	start := (page - 1) * size
	if start >= len(records) {
		return out
	}
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	out.Records = append(out.Records, records[start:end]...)
	return out
}
