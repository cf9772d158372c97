package examcoach

import "sort"

// slowAnswerSeconds marks a topic as time-pressured when answers take longer
// than this on average and accuracy is below the careless ceiling.
const (
	slowAnswerSeconds   = 120
	slowAccuracyCeiling = 75
)

// TopicScore is one chapter's result from a mock test analysis.
type TopicScore struct {
	Chapter      string  `json:"chapter" validate:"required"`
	Subject      string  `json:"subject" validate:"required"`
	Accuracy     float64 `json:"accuracy" validate:"accuracy"`
	TimeTakenAvg float64 `json:"time_taken_avg" validate:"min=0"`
	Attempted    int     `json:"attempted" validate:"min=0"`
}

// Analysis summarises a set of topic scores for one exam.
type Analysis struct {
	WeakTopics     []ClassifiedWeakness `json:"weak_topics"`
	SubjectSummary map[string]float64   `json:"subject_summary"`
	Prediction     ScorePrediction      `json:"prediction"`
}

// Analyze classifies weak topics and predicts the exam score.
func Analyze(exam ExamConfig, scores []TopicScore) Analysis {
	weak := make([]ClassifiedWeakness, 0, len(scores))
	sums := make(map[string]float64)
	counts := make(map[string]int)
	accuracies := make([]ChapterAccuracy, 0, len(scores))

	for _, s := range scores {
		sums[s.Subject] += s.Accuracy
		counts[s.Subject]++
		accuracies = append(accuracies, ChapterAccuracy{Chapter: s.Chapter, Subject: s.Subject, Accuracy: s.Accuracy})

		cw, ok := Classify(WeaknessRecord{Chapter: s.Chapter, Subject: s.Subject, Accuracy: s.Accuracy})
		if !ok {
			continue
		}
		if s.TimeTakenAvg > slowAnswerSeconds && s.Accuracy < slowAccuracyCeiling {
			cw.MistakeType = MistakeTimePressure
		}
		weak = append(weak, cw)
	}

	sort.SliceStable(weak, func(i, j int) bool {
		return weak[i].Accuracy < weak[j].Accuracy
	})

	summary := make(map[string]float64, len(sums))
	for subject, sum := range sums {
		summary[subject] = round1(sum / float64(counts[subject]))
	}

	return Analysis{
		WeakTopics:     weak,
		SubjectSummary: summary,
		Prediction:     PredictScore(exam, accuracies),
	}
}
