package examcoach

// MasteryThreshold is the accuracy at or above which a chapter is considered
// mastered and is left out of plan targeting.
const MasteryThreshold = 85

// ClassifyMistake maps an accuracy to exactly one MistakeType.
func ClassifyMistake(accuracy float64) MistakeType {
	switch {
	case accuracy < 40:
		return MistakeConceptual
	case accuracy < 60:
		return MistakeCalculation
	case accuracy < 75:
		return MistakeCareless
	case accuracy < MasteryThreshold:
		return MistakeTimePressure
	default:
		return MistakeStrong
	}
}

// ClassifyPriority maps an accuracy to a study priority.
func ClassifyPriority(accuracy float64) Priority {
	switch {
	case accuracy < 50:
		return PriorityHigh
	case accuracy < 70:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Classify returns the classified form of r. The boolean is false when the
// record is mastered and therefore not part of the weak set.
func Classify(r WeaknessRecord) (ClassifiedWeakness, bool) {
	if r.Accuracy >= MasteryThreshold {
		return ClassifiedWeakness{WeaknessRecord: r, MistakeType: MistakeStrong, Priority: PriorityLow}, false
	}
	return ClassifiedWeakness{
		WeaknessRecord: r,
		MistakeType:    ClassifyMistake(r.Accuracy),
		Priority:       ClassifyPriority(r.Accuracy),
	}, true
}
