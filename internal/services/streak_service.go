package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/adaptlearn/learning-service/internal/events"
	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/repositories"
	"github.com/adaptlearn/learning-service/internal/validator"
)

const (
	consistencyWindowDays = 30
	recentActivityLimit   = 14
	isoDate               = "2006-01-02"
)

// StreakService records daily study activity and summarises it.
type StreakService interface {
	Log(ctx context.Context, studentID uint, req *LogActivityRequest) (*LogActivityResponse, error)
	Get(ctx context.Context, studentID uint) (*StreakSummary, error)
}

type LogActivityRequest struct {
	MinutesStudied int `json:"minutes_studied" validate:"min=0,max=1440"`
	TestsTaken     int `json:"tests_taken" validate:"min=0,max=100"`
}

type LogActivityResponse struct {
	Status         string `json:"status"`
	Date           string `json:"date"`
	MinutesStudied int    `json:"minutes_studied"`
	TestsTaken     int    `json:"tests_taken"`
	CurrentStreak  int    `json:"current_streak"`
}

type ActivityDay struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
	Tests   int    `json:"tests"`
}

type StreakSummary struct {
	CurrentStreak       int           `json:"current_streak"`
	LongestStreak       int           `json:"longest_streak"`
	TotalDaysActive     int           `json:"total_days_active"`
	TotalMinutesStudied int           `json:"total_minutes_studied"`
	ConsistencyScore    float64       `json:"consistency_score"`
	RecentActivity      []ActivityDay `json:"recent_activity"`
}

type streakService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *ServiceLogger
	validator *validator.Validator
	now       func() time.Time
}

func NewStreakService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) StreakService {
	return &streakService{
		repo:      repo,
		publisher: publisher,
		logger:    NewServiceLogger(logger, "streak"),
		validator: validator,
		now:       time.Now,
	}
}

func (s *streakService) Log(ctx context.Context, studentID uint, req *LogActivityRequest) (*LogActivityResponse, error) {
	op := s.logger.WithOperation(ctx, "log_activity", studentID)

	if err := s.validator.Validate(req); err != nil {
		err = validationFailure(err)
		op.LogResult(err)
		return nil, err
	}

	today := dayOf(s.now())
	entry, err := s.repo.Streak().Log(ctx, studentID, today, req.MinutesStudied, req.TestsTaken)
	if err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to log activity: %w", err)
	}

	entries, err := s.repo.Streak().ListByStudent(ctx, studentID)
	if err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}
	summary := ComputeStreak(entries, today)

	event := events.NewStreakLoggedEvent(events.StreakLoggedEvent{
		StudentID:      studentID,
		Date:           today.Format(isoDate),
		MinutesStudied: entry.MinutesStudied,
		CurrentStreak:  summary.CurrentStreak,
	})
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Logger().Warn("Failed to publish streak event", "student_id", studentID, "error", err)
	}

	op.LogResult(nil, "current_streak", summary.CurrentStreak)
	return &LogActivityResponse{
		Status:         "ok",
		Date:           today.Format(isoDate),
		MinutesStudied: entry.MinutesStudied,
		TestsTaken:     entry.TestsTaken,
		CurrentStreak:  summary.CurrentStreak,
	}, nil
}

func (s *streakService) Get(ctx context.Context, studentID uint) (*StreakSummary, error) {
	entries, err := s.repo.Streak().ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.LogOperation(ctx, "get_streak", studentID, 0, err)
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}
	summary := ComputeStreak(entries, dayOf(s.now()))
	return &summary, nil
}

// ComputeStreak summarises a student's activity as of today. Entries may be
// in any order; a streak still counts when the latest active day is yesterday.
func ComputeStreak(entries []models.StreakEntry, today time.Time) StreakSummary {
	summary := StreakSummary{RecentActivity: []ActivityDay{}}
	if len(entries) == 0 {
		return summary
	}
	today = dayOf(today)

	byDate := make([]models.StreakEntry, len(entries))
	copy(byDate, entries)
	sort.SliceStable(byDate, func(i, j int) bool {
		return byDate[i].Date.After(byDate[j].Date)
	})

	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, e := range byDate {
		summary.TotalMinutesStudied += e.MinutesStudied
		d := dayOf(e.Date)
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	summary.TotalDaysActive = len(dates)

	// dates is most recent first.
	if dates[0].Equal(today) || dates[0].Equal(today.AddDate(0, 0, -1)) {
		summary.CurrentStreak = 1
		for i := 1; i < len(dates); i++ {
			if !dates[i].Equal(dates[i-1].AddDate(0, 0, -1)) {
				break
			}
			summary.CurrentStreak++
		}
	}

	run := 1
	summary.LongestStreak = 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Equal(dates[i-1].AddDate(0, 0, -1)) {
			run++
		} else {
			run = 1
		}
		summary.LongestStreak = max(summary.LongestStreak, run)
	}

	windowStart := today.AddDate(0, 0, -(consistencyWindowDays - 1))
	active := 0
	for _, d := range dates {
		if !d.Before(windowStart) && !d.After(today) {
			active++
		}
	}
	summary.ConsistencyScore = math.Round(float64(active)/consistencyWindowDays*1000) / 10

	for i, e := range byDate {
		if i == recentActivityLimit {
			break
		}
		summary.RecentActivity = append(summary.RecentActivity, ActivityDay{
			Date:    e.Date.Format(isoDate),
			Minutes: e.MinutesStudied,
			Tests:   e.TestsTaken,
		})
	}

	return summary
}

// dayOf truncates t to midnight UTC of its calendar date.
// dayOf is the UTC calendar day of t. Streaks and plan dates share it.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
