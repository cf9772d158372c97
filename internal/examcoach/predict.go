package examcoach

import "math"

const (
	// BaselineAccuracy is assumed for a subject with no recorded accuracy.
	BaselineAccuracy = 70.0

	fallbackWeightage = 33
	maxPercentile     = 99.9
	percentileFactor  = 0.95
)

// PredictScore estimates the exam score from chapter accuracies.
//
// Each subject's mean accuracy is applied to its share of exam.MaxMarks.
// Callers must keep accuracies inside [0,100] and exam.Weightage summing to
// 100; under those preconditions the total stays within [0, MaxMarks].
func PredictScore(exam ExamConfig, accuracies []ChapterAccuracy) ScorePrediction {
	sums := make(map[string]float64, len(exam.Subjects))
	counts := make(map[string]int, len(exam.Subjects))
	for _, a := range accuracies {
		sums[a.Subject] += a.Accuracy
		counts[a.Subject]++
	}

	var total float64
	perSubject := make([]SubjectScoreBreakdown, 0, len(exam.Subjects))
	for _, subject := range exam.Subjects {
		avg := BaselineAccuracy
		if n := counts[subject]; n > 0 {
			avg = sums[subject] / float64(n)
		}

		weight, ok := exam.Weightage[subject]
		if !ok {
			weight = fallbackWeightage
		}
		subjectMax := float64(weight) / 100 * float64(exam.MaxMarks)
		score := avg / 100 * subjectMax
		total += score

		var pct float64
		if subjectMax > 0 {
			pct = round1(score / subjectMax * 100)
		}
		perSubject = append(perSubject, SubjectScoreBreakdown{
			Subject:             subject,
			AverageAccuracy:     round1(avg),
			PredictedScore:      int(math.Round(score)),
			SubjectMaxMarks:     int(math.Round(subjectMax)),
			PercentOfSubjectMax: pct,
		})
	}

	readiness := 0
	if exam.MaxMarks > 0 {
		readiness = int(math.Round(total / float64(exam.MaxMarks) * 100))
	}

	return ScorePrediction{
		ExamID:           exam.ID,
		PredictedTotal:   int(math.Round(total)),
		MaxMarks:         exam.MaxMarks,
		ReadinessPercent: readiness,
		Percentile:       Percentile(readiness),
		RankBand:         RankBand(readiness),
		PerSubject:       perSubject,
	}
}

// Percentile is an indicative percentile for a readiness percentage.
func Percentile(readiness int) float64 {
	return math.Min(maxPercentile, float64(readiness)*percentileFactor)
}

// RankBand is an indicative rank range for a readiness percentage.
func RankBand(readiness int) string {
	switch {
	case readiness >= 80:
		return "< 5,000"
	case readiness >= 65:
		return "5K – 20K"
	case readiness >= 50:
		return "20K – 80K"
	default:
		return "> 80K"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
