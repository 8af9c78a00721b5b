package models

// AnalysisReport 单次训练的分析报告（固定内容）
type AnalysisReport struct {
	Summary          string           `json:"summary"`
	Metrics          AnalysisMetrics  `json:"metrics"`
	GaitAnalysis     GaitAnalysis     `json:"gaitAnalysis"`
	PressureAnalysis PressureAnalysis `json:"pressureAnalysis"`
	Recommendations  []Recommendation `json:"recommendations"`
}

type AnalysisMetrics struct {
	AvgCadence          int     `json:"avgCadence"`
	AvgStride           int     `json:"avgStride"`
	PostureScore        int     `json:"postureScore"`
	LandingPattern      string  `json:"landingPattern"`
	VerticalOscillation float64 `json:"verticalOscillation"`
	GroundContactTime   int     `json:"groundContactTime"`
}

type GaitAnalysis struct {
	Description  string `json:"description"`
	SupportPhase string `json:"supportPhase"`
	FlightPhase  string `json:"flightPhase"`
}

type PressureAnalysis struct {
	Description string `json:"description"`
	Forefoot    int    `json:"forefoot"`
	Midfoot     int    `json:"midfoot"`
	Rearfoot    int    `json:"rearfoot"`
}

type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Exercises   []string `json:"exercises"`
}
