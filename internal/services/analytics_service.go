package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/adaptlearn/learning-service/internal/cache"
	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/repositories"
)

const (
	analyticsCacheTTL   = 5 * time.Minute
	recentAttemptsLimit = 10
	topicListLimit      = 5
	weakThreshold       = 0.5
	strongThreshold     = 0.25
)

// AnalyticsService summarises a student's test history.
type AnalyticsService interface {
	GetStudentAnalytics(ctx context.Context, studentID uint) (*StudentAnalytics, error)
}

type TopicPerformanceView struct {
	Topic          string  `json:"topic"`
	Subject        string  `json:"subject,omitempty"`
	Correct        int     `json:"correct"`
	TotalAttempted int     `json:"total_attempted"`
	Accuracy       float64 `json:"accuracy"`
	WeaknessScore  float64 `json:"weakness_score"`
}

type RecentAttempt struct {
	AttemptID  uint      `json:"attempt_id"`
	TestID     uint      `json:"test_id"`
	TestName   string    `json:"test_name"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
	CreatedAt  time.Time `json:"created_at"`
}

type StudentAnalytics struct {
	StudentID        uint                   `json:"student_id"`
	TotalTestsTaken  int64                  `json:"total_tests_taken"`
	OverallAccuracy  float64                `json:"overall_accuracy"`
	TopicPerformance []TopicPerformanceView `json:"topic_performance"`
	WeakestTopics    []string               `json:"weakest_topics"`
	StrongestTopics  []string               `json:"strongest_topics"`
	RecentAttempts   []RecentAttempt        `json:"recent_attempts"`
}

// AnalyticsCacheKey is the cache key holding a student's analytics.
func AnalyticsCacheKey(studentID uint) string {
	return fmt.Sprintf("analytics:%d", studentID)
}

type analyticsService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *ServiceLogger
}

func NewAnalyticsService(repo repositories.Repository, cache cache.CacheService, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		cache:  cache,
		logger: NewServiceLogger(logger, "analytics"),
	}
}

func (s *analyticsService) GetStudentAnalytics(ctx context.Context, studentID uint) (*StudentAnalytics, error) {
	key := AnalyticsCacheKey(studentID)

	var cached StudentAnalytics
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Logger().Warn("Analytics cache read failed", "student_id", studentID, "error", err)
	}

	op := s.logger.WithOperation(ctx, "get_analytics", studentID)

	summary, err := s.repo.Attempt().SummarizeByStudent(ctx, studentID)
	if err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to summarize attempts: %w", err)
	}
	recent, err := s.repo.Attempt().ListRecentByStudent(ctx, studentID, recentAttemptsLimit)
	if err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	topics, err := s.repo.TopicPerformance().ListByStudent(ctx, studentID)
	if err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to list topic performance: %w", err)
	}

	analytics := buildAnalytics(studentID, summary, recent, topics)

	if err := s.cache.Set(ctx, key, analytics, analyticsCacheTTL); err != nil {
		s.logger.Logger().Warn("Analytics cache write failed", "student_id", studentID, "error", err)
	}

	op.LogResult(nil, "tests", summary.Tests, "topics", len(topics))
	return analytics, nil
}

// buildAnalytics expects topics ordered weakest first.
func buildAnalytics(studentID uint, summary repositories.AttemptSummary, recent []models.StudentAttempt, topics []models.TopicPerformance) *StudentAnalytics {
	out := &StudentAnalytics{
		StudentID:        studentID,
		TotalTestsTaken:  summary.Tests,
		TopicPerformance: make([]TopicPerformanceView, 0, len(topics)),
		WeakestTopics:    []string{},
		StrongestTopics:  []string{},
		RecentAttempts:   make([]RecentAttempt, 0, len(recent)),
	}
	if summary.Questions > 0 {
		out.OverallAccuracy = math.Round(float64(summary.Correct)/float64(summary.Questions)*10000) / 100
	}

	for _, tp := range topics {
		out.TopicPerformance = append(out.TopicPerformance, TopicPerformanceView{
			Topic:          tp.Topic,
			Subject:        tp.Subject,
			Correct:        tp.Correct,
			TotalAttempted: tp.TotalAttempted,
			Accuracy:       tp.Accuracy(),
			WeaknessScore:  tp.WeaknessScore,
		})
		if tp.WeaknessScore > weakThreshold && len(out.WeakestTopics) < topicListLimit {
			out.WeakestTopics = append(out.WeakestTopics, tp.Topic)
		}
	}
	for i := len(topics) - 1; i >= 0 && len(out.StrongestTopics) < topicListLimit; i-- {
		if topics[i].WeaknessScore < strongThreshold {
			out.StrongestTopics = append(out.StrongestTopics, topics[i].Topic)
		}
	}

	for _, a := range recent {
		name := "Unknown"
		if a.MockTest != nil {
			name = a.MockTest.Name
		}
		out.RecentAttempts = append(out.RecentAttempts, RecentAttempt{
			AttemptID:  a.ID,
			TestID:     a.TestID,
			TestName:   name,
			Score:      a.Score,
			Total:      a.Total,
			Percentage: a.Percentage(),
			CreatedAt:  a.CreatedAt,
		})
	}
	return out
}
