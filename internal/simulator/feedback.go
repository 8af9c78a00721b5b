package simulator

import (
	"time"

	"runcoach/internal/models"
)

// FeedbackTypes 反馈级别（均匀选择）
var FeedbackTypes = []models.FeedbackType{
	models.FeedbackSuccess,
	models.FeedbackWarning,
	models.FeedbackDanger,
	models.FeedbackInfo,
}

// FeedbackMessages 实时指导文案
var FeedbackMessages = []string{
	"步频保持良好，维持在170-180步/分钟之间",
	"步幅略有偏短，可适当增加",
	"落地冲击力偏大，尝试更柔和的着地方式",
	"前后足压比例良好，保持当前姿态",
	"身体轻微左倾，注意保持身体平衡",
	"手臂摆动幅度过大，可适当收紧",
	"膝盖抬起高度适中，能量利用效率高",
	"支撑相时间偏长，可提高步频以改善",
	"足外翻角度过大，注意调整足部着地姿态",
}

// FeedbackTimeLayout HH:MM:SS
const FeedbackTimeLayout = "15:04:05"

// FeedbackGenerator 无状态，按需生成一条反馈
type FeedbackGenerator struct {
	rand Rand
	now  func() time.Time
}

func NewFeedbackGenerator(r Rand, now func() time.Time) *FeedbackGenerator {
	if now == nil {
		now = time.Now
	}
	return &FeedbackGenerator{rand: r, now: now}
}

func (g *FeedbackGenerator) Feedback() models.FeedbackEvent {
	t := FeedbackTypes[g.rand.Intn(len(FeedbackTypes))]
	msg := FeedbackMessages[g.rand.Intn(len(FeedbackMessages))]
	return models.FeedbackEvent{
		Type:      t,
		Message:   msg,
		Timestamp: g.now().Format(FeedbackTimeLayout),
	}
}
