package simulator

import "runcoach/internal/models"

// AnalysisReport 返回固定的分析报告；sessionID 不参与计算
// 每次返回新的值，调用方修改不会影响后续调用
func AnalysisReport(sessionID string) models.AnalysisReport {
	_ = sessionID
	return models.AnalysisReport{
		Summary: "本次训练整体表现良好，步频保持稳定，姿态评分为85分。着地方式为中足着地，垂直振幅控制在适当范围内。建议关注足部外翻过度的问题，可通过特定练习改善。",
		Metrics: models.AnalysisMetrics{
			AvgCadence:          172,
			AvgStride:           115,
			PostureScore:        85,
			LandingPattern:      "中足着地",
			VerticalOscillation: 8.5,
			GroundContactTime:   220,
		},
		GaitAnalysis: models.GaitAnalysis{
			Description:  "步态周期分析显示支撑相与摆动相比例适中，步态节奏均匀稳定。支撑相时间在理想范围内，摆动相展现出良好的弹性。",
			SupportPhase: "220毫秒 (38%)",
			FlightPhase:  "360毫秒 (62%)",
		},
		PressureAnalysis: models.PressureAnalysis{
			Description: "足压分布以中前脚掌为主，外侧压力略大。前脚掌受力占比45%，中脚掌占比30%，后脚掌占比25%，符合中足着地模式。",
			Forefoot:    45,
			Midfoot:     30,
			Rearfoot:    25,
		},
		Recommendations: []models.Recommendation{
			{
				Title:       "改善足部外翻",
				Description: "根据数据分析，您的足部在支撑相有轻微的外翻现象，长期可能导致胫骨内侧应力综合征。建议通过强化内侧肌群和改进着地技术来纠正。",
				Exercises: []string{
					"单腿平衡练习 (每侧30秒，3组)",
					"内侧抗阻训练 (每侧15次，3组)",
					"赤足短距离慢跑，注意足部感受",
				},
			},
			{
				Title:       "优化步频",
				Description: "您的平均步频为172步/分钟，略低于最佳范围(175-185步/分钟)。提高步频可减少冲击力并改善跑步经济性。",
				Exercises: []string{
					"节拍器训练 (设置180BPM，跟随节奏跑步)",
					"高抬腿练习 (30秒，4组)",
					"短距离加速跑 (100米，专注于步频)",
				},
			},
		},
	}
}
