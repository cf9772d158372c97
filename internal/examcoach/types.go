package examcoach

// MistakeType is the coarse error category inferred from a chapter's accuracy.
type MistakeType string

const (
	MistakeConceptual   MistakeType = "Conceptual"
	MistakeCalculation  MistakeType = "Calculation"
	MistakeCareless     MistakeType = "Careless"
	MistakeTimePressure MistakeType = "Time Pressure"
	MistakeStrong       MistakeType = "Strong"
)

// Priority orders weak chapters for study time.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// SessionType is the kind of activity scheduled in a study session.
type SessionType string

const (
	SessionConcept  SessionType = "Concept"
	SessionPractice SessionType = "Practice"
	SessionRevision SessionType = "Revision"
	SessionMiniTest SessionType = "Mini Test"
	SessionPYQ      SessionType = "PYQ"
)

// WeaknessRecord is a student's accuracy on one chapter of one subject.
// Accuracy is a percentage in [0,100].
type WeaknessRecord struct {
	Chapter  string  `json:"chapter" validate:"required"`
	Subject  string  `json:"subject" validate:"required"`
	Accuracy float64 `json:"accuracy" validate:"accuracy"`
}

// ClassifiedWeakness is a WeaknessRecord with its mistake type and priority.
type ClassifiedWeakness struct {
	WeaknessRecord
	MistakeType MistakeType `json:"mistake_type"`
	Priority    Priority    `json:"priority"`
}

// StudySession is one time-boxed activity inside a DayPlan.
type StudySession struct {
	Subject         string      `json:"subject"`
	Chapter         string      `json:"chapter"`
	DurationMinutes int         `json:"duration_minutes"`
	SessionType     SessionType `json:"session_type"`
}

// DayPlan is one day of a revision plan. Date is formatted as YYYY-MM-DD.
type DayPlan struct {
	Day          int            `json:"day"`
	Date         string         `json:"date"`
	Sessions     []StudySession `json:"sessions"`
	TotalMinutes int            `json:"total_minutes"`
}

// ChapterAccuracy is the input unit of the score predictor.
type ChapterAccuracy struct {
	Chapter  string  `json:"chapter"`
	Subject  string  `json:"subject" validate:"required"`
	Accuracy float64 `json:"accuracy" validate:"accuracy"`
}

// SubjectScoreBreakdown is the predicted score of a single subject.
type SubjectScoreBreakdown struct {
	Subject             string  `json:"subject"`
	AverageAccuracy     float64 `json:"average_accuracy"`
	PredictedScore      int     `json:"predicted_score"`
	SubjectMaxMarks     int     `json:"subject_max_marks"`
	PercentOfSubjectMax float64 `json:"percent_of_subject_max"`
}

// ScorePrediction is the output of PredictScore.
//
// Percentile and RankBand are static heuristic mappings of ReadinessPercent.
// They are not calibrated against any real exam population and are meant for
// display only.
type ScorePrediction struct {
	ExamID           string                  `json:"exam_id"`
	PredictedTotal   int                     `json:"predicted_total"`
	MaxMarks         int                     `json:"max_marks"`
	ReadinessPercent int                     `json:"readiness_percent"`
	Percentile       float64                 `json:"percentile"`
	RankBand         string                  `json:"rank_band"`
	PerSubject       []SubjectScoreBreakdown `json:"per_subject"`
}
