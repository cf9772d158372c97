package examcoach

import (
	"slices"
	"time"
)

const (
	PlanDays = 7

	highPriorityMinutes = 45
	defaultMinutes      = 30
	pyqMinutes          = 20
	revisionMinutes     = 30
	miniTestMinutes     = 60
	revisionTargets     = 3

	MiniTestSubject = "All Subjects"
	MiniTestChapter = "Full Mock Test"
	pyqPrefix       = "PYQ — "

	dateLayout = "2006-01-02"
)

// WeakSet filters out mastered records, classifies the rest and returns them
// ordered weakest first. Records with equal accuracy keep their input order.
func WeakSet(weaknesses []WeaknessRecord) []ClassifiedWeakness {
	weak := make([]ClassifiedWeakness, 0, len(weaknesses))
	for _, w := range weaknesses {
		if cw, ok := Classify(w); ok {
			weak = append(weak, cw)
		}
	}
	slices.SortStableFunc(weak, func(a, b ClassifiedWeakness) int {
		switch {
		case a.Accuracy < b.Accuracy:
			return -1
		case a.Accuracy > b.Accuracy:
			return 1
		}
		return 0
	})
	return weak
}

// GeneratePlan builds a 7-day revision plan starting on start's calendar day.
//
// Days 1-6 walk the weak set two chapters at a time, wrapping around when
// there are fewer than twelve, and each closes with a PYQ block on the single
// weakest chapter. Day 7 revises the three weakest chapters and ends with a
// full mini test. The result only depends on weaknesses and the date of start.
func GeneratePlan(weaknesses []WeaknessRecord, start time.Time) []DayPlan {
	sorted := WeakSet(weaknesses)
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	plan := make([]DayPlan, 0, PlanDays)
	for i := 0; i < PlanDays; i++ {
		var sessions []StudySession
		if i == PlanDays-1 {
			sessions = finalDaySessions(sorted)
		} else {
			sessions = studyDaySessions(sorted, i)
		}
		plan = append(plan, DayPlan{
			Day:          i + 1,
			Date:         first.AddDate(0, 0, i).Format(dateLayout),
			Sessions:     sessions,
			TotalMinutes: totalMinutes(sessions),
		})
	}
	return plan
}

func studyDaySessions(sorted []ClassifiedWeakness, day int) []StudySession {
	sessions := []StudySession{}
	n := len(sorted)
	if n == 0 {
		return sessions
	}

	// With a single record both picks land on it and it is studied twice.
	a := (2 * day) % n
	b := (2*day + 1) % n
	sessions = append(sessions, targetSession(sorted[a]), targetSession(sorted[b]))

	weakest := sorted[0]
	sessions = append(sessions, StudySession{
		Subject:         weakest.Subject,
		Chapter:         pyqPrefix + weakest.Chapter,
		DurationMinutes: pyqMinutes,
		SessionType:     SessionPYQ,
	})
	return sessions
}

func finalDaySessions(sorted []ClassifiedWeakness) []StudySession {
	sessions := []StudySession{}
	for _, t := range sorted[:min(revisionTargets, len(sorted))] {
		sessions = append(sessions, StudySession{
			Subject:         t.Subject,
			Chapter:         t.Chapter,
			DurationMinutes: revisionMinutes,
			SessionType:     SessionRevision,
		})
	}
	return append(sessions, StudySession{
		Subject:         MiniTestSubject,
		Chapter:         MiniTestChapter,
		DurationMinutes: miniTestMinutes,
		SessionType:     SessionMiniTest,
	})
}

func targetSession(t ClassifiedWeakness) StudySession {
	stype := SessionPractice
	if t.MistakeType == MistakeConceptual {
		stype = SessionConcept
	}
	minutes := defaultMinutes
	if t.Priority == PriorityHigh {
		minutes = highPriorityMinutes
	}
	return StudySession{
		Subject:         t.Subject,
		Chapter:         t.Chapter,
		DurationMinutes: minutes,
		SessionType:     stype,
	}
}

func totalMinutes(sessions []StudySession) int {
	total := 0
	for _, s := range sessions {
		total += s.DurationMinutes
	}
	return total
}
