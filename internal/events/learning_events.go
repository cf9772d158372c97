package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of events the learning service emits
type EventType string

const (
	EventPlanGenerated    EventType = "plan.generated"
	EventAttemptSubmitted EventType = "attempt.submitted"
	EventStreakLogged     EventType = "streak.logged"
)

const (
	eventSource  = "learning-service"
	eventVersion = "1.0"
)

// Event is the envelope shared by every published event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type PlanGeneratedEvent struct {
	PlanID       uint      `json:"plan_id"`
	StudentID    uint      `json:"student_id"`
	ExamID       string    `json:"exam_id,omitempty"`
	StartDate    string    `json:"start_date"`
	WeakTopics   int       `json:"weak_topics"`
	TotalMinutes int       `json:"total_minutes"`
	GeneratedAt  time.Time `json:"generated_at"`
}

type AttemptSubmittedEvent struct {
	AttemptID   uint      `json:"attempt_id"`
	TestID      uint      `json:"test_id"`
	StudentID   uint      `json:"student_id"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Accuracy    float64   `json:"accuracy"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type StreakLoggedEvent struct {
	StudentID      uint   `json:"student_id"`
	Date           string `json:"date"`
	MinutesStudied int    `json:"minutes_studied"`
	CurrentStreak  int    `json:"current_streak"`
}

func newEvent(t EventType, data interface{}) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewPlanGeneratedEvent(data PlanGeneratedEvent) *Event {
	return newEvent(EventPlanGenerated, data)
}

func NewAttemptSubmittedEvent(data AttemptSubmittedEvent) *Event {
	return newEvent(EventAttemptSubmitted, data)
}

func NewStreakLoggedEvent(data StreakLoggedEvent) *Event {
	return newEvent(EventStreakLogged, data)
}

// GenerateEventID returns a random event id.
func GenerateEventID() string {
	return uuid.NewString()
}
