// Package emotion holds Yeri's emotion stages, their transitions, the ending
// resolver and the evaluators that judge a player's answer.
package emotion

// Stage is one of Yeri's discrete emotion stages.
type Stage string

const (
	StageNeutral      Stage = "S0"
	StagePlayful      Stage = "S1"
	StageCurious      Stage = "S2"
	StageUpset        Stage = "S3"
	StageAffectionate Stage = "S4"
)

// StageInfo is the display metadata of a stage.
type StageInfo struct {
	Stage          Stage   `json:"stage"`
	EmotionName    string  `json:"emotion_name"`
	Description    string  `json:"description"`
	ExpressionFile string  `json:"expression_file"`
	Multiplier     float64 `json:"emotion_multiplier"`
}

var stageTable = map[Stage]StageInfo{
	StageNeutral: {
		Stage:          StageNeutral,
		EmotionName:    "Neutral",
		Description:    "기본 표정, 밝은 톤",
		ExpressionFile: "YERI_S0_default.png",
		Multiplier:     1.0,
	},
	StagePlayful: {
		Stage:          StagePlayful,
		EmotionName:    "Playful",
		Description:    "장난스러움, 미소",
		ExpressionFile: "YERI_S1_smile.png",
		Multiplier:     1.0,
	},
	StageCurious: {
		Stage:          StageCurious,
		EmotionName:    "Curious",
		Description:    "약간 짜증, 눈살 찌푸림",
		ExpressionFile: "YERI_S2_curiosity.png",
		Multiplier:     0.95,
	},
	StageUpset: {
		Stage:          StageUpset,
		EmotionName:    "Upset",
		Description:    "울상, 낮은 톤",
		ExpressionFile: "YERI_S3_sad.png",
		Multiplier:     0.85,
	},
	StageAffectionate: {
		Stage:          StageAffectionate,
		EmotionName:    "Affectionate",
		Description:    "눈웃음, 부드러운 미소",
		ExpressionFile: "YERI_S4_love.png",
		Multiplier:     1.2,
	},
}

// Lookup returns the metadata of stage, falling back to S0 for unknown stages.
func Lookup(stage Stage) StageInfo {
	if info, ok := stageTable[stage]; ok {
		return info
	}
	return stageTable[StageNeutral]
}

// Valid reports whether s is one of S0..S4.
func (s Stage) Valid() bool {
	_, ok := stageTable[s]
	return ok
}

// Stages lists S0..S4 in order.
func Stages() []Stage {
	return []Stage{StageNeutral, StagePlayful, StageCurious, StageUpset, StageAffectionate}
}
