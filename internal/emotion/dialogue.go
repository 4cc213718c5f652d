package emotion

// OpeningLine is what Yeri says when a session starts.
const OpeningLine = "오빠~~ 나 뭐 달라진 거 없어?"

const fallbackLine = "응~"

// Dialogue supplies Yeri's reply line for a stage.
type Dialogue interface {
	Line(stage Stage) string
}

// StaticDialogue is a fixed stage->line table.
type StaticDialogue map[Stage]string

// DefaultDialogue is the canned reply table.
var DefaultDialogue = StaticDialogue{
	StageNeutral:      "응~ 잘 봐봐~",
	StagePlayful:      "오~ 오빠 감각 있는데?",
	StageCurious:      "진짜 몰라? 나 바꿨단 말이야!",
	StageUpset:        "하아... 이번에도 몰라?",
	StageAffectionate: "오빠, 역시 내 사람이야♡",
}

// Line returns the line for stage, or a short filler when none is set.
func (d StaticDialogue) Line(stage Stage) string {
	if line, ok := d[stage]; ok && line != "" {
		return line
	}
	return fallbackLine
}

// ToneInstruction returns a short voice/tone guideline for the stage, used in prompts.
func ToneInstruction(stage Stage) string {
	switch stage {
	case StagePlayful:
		return "장난스럽고 밝은 톤으로 짧게 말한다."
	case StageCurious:
		return "살짝 토라진 톤, 힌트를 주듯이 말한다."
	case StageUpset:
		return "낮고 서운한 톤, 말수가 줄어든다."
	case StageAffectionate:
		return "부드럽고 애정 어린 톤으로 말한다."
	default:
		return "밝고 자연스러운 기본 톤."
	}
}
