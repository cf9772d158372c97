package examcoach

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMistake_Boundaries(t *testing.T) {
	cases := map[float64]MistakeType{
		0:     MistakeConceptual,
		39.9:  MistakeConceptual,
		40:    MistakeCalculation,
		59:    MistakeCalculation,
		60:    MistakeCareless,
		74.5:  MistakeCareless,
		75:    MistakeTimePressure,
		84.99: MistakeTimePressure,
		85:    MistakeStrong,
		100:   MistakeStrong,
	}
	for acc, want := range cases {
		assert.Equal(t, want, ClassifyMistake(acc), "accuracy %v", acc)
	}
}

func TestClassifyMistake_Partition(t *testing.T) {
	labels := []MistakeType{MistakeConceptual, MistakeCalculation, MistakeCareless, MistakeTimePressure, MistakeStrong}
	for acc := 0.0; acc <= 100; acc += 0.5 {
		got := ClassifyMistake(acc)
		matches := 0
		for _, l := range labels {
			if l == got {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "accuracy %v", acc)
	}
}

func TestClassifyPriority(t *testing.T) {
	assert.Equal(t, PriorityHigh, ClassifyPriority(49))
	assert.Equal(t, PriorityMedium, ClassifyPriority(50))
	assert.Equal(t, PriorityMedium, ClassifyPriority(69))
	assert.Equal(t, PriorityLow, ClassifyPriority(70))
}

func TestClassify_MasteredRecord(t *testing.T) {
	_, ok := Classify(WeaknessRecord{Chapter: "Optics", Subject: "Physics", Accuracy: 85})
	assert.False(t, ok)

	cw, ok := Classify(WeaknessRecord{Chapter: "Optics", Subject: "Physics", Accuracy: 84})
	assert.True(t, ok)
	assert.Equal(t, MistakeTimePressure, cw.MistakeType)
	assert.Equal(t, PriorityLow, cw.Priority)
}
