package emotion

// Ending is one of the three narrative outcomes.
type Ending string

const (
	EndingAffectionate Ending = "affectionate"
	EndingMildlyUpset  Ending = "mildly-upset"
	EndingBreakup      Ending = "breakup"
)

// EndingRules holds the score thresholds and messages of the endings.
type EndingRules struct {
	AffectionateMin float64
	MildlyUpsetMin  float64
	Messages        map[Ending]string
}

// DefaultEndingRules returns the >=80 / >=50 / <50 table.
func DefaultEndingRules() EndingRules {
	return EndingRules{
		AffectionateMin: 80,
		MildlyUpsetMin:  50,
		Messages: map[Ending]string{
			EndingAffectionate: "오빠 너무 멋져... 사랑해♡",
			EndingMildlyUpset:  "흠... 그래도 오늘은 봐줄게~",
			EndingBreakup:      "오빠... 우리 이제 그만하자...",
		},
	}
}

// Resolve picks the ending for total.
func (r EndingRules) Resolve(total float64) (Ending, string) {
	var ending Ending
	switch {
	case total >= r.AffectionateMin:
		ending = EndingAffectionate
	case total >= r.MildlyUpsetMin:
		ending = EndingMildlyUpset
	default:
		ending = EndingBreakup
	}
	return ending, r.Messages[ending]
}

// EndingStage is the stage Yeri shows for an ending.
func EndingStage(ending Ending) Stage {
	switch ending {
	case EndingAffectionate:
		return StageAffectionate
	case EndingMildlyUpset:
		return StageCurious
	default:
		return StageUpset
	}
}
