package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"gorm.io/datatypes"

	"github.com/adaptlearn/learning-service/internal/cache"
	"github.com/adaptlearn/learning-service/internal/events"
	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/repositories"
	"github.com/adaptlearn/learning-service/internal/validator"
)

// AttemptService scores mock test submissions and serves test questions.
type AttemptService interface {
	Submit(ctx context.Context, studentID uint, req *SubmitAttemptRequest) (*AttemptResult, error)
	GetQuestions(ctx context.Context, testID uint) ([]models.Question, error)
}

type SubmitAttemptRequest struct {
	TestID uint `json:"test_id" validate:"required"`
	// Answers maps question id to the selected option index.
	Answers          map[string]int `json:"answers" validate:"required"`
	TimeTakenSeconds *int           `json:"time_taken_seconds" validate:"omitempty,min=0"`
}

type TopicTally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type AttemptResult struct {
	AttemptID          uint                  `json:"attempt_id"`
	Score              int                   `json:"score"`
	Total              int                   `json:"total"`
	Percentage         float64               `json:"percentage"`
	CorrectQuestions   []uint                `json:"correct_questions"`
	IncorrectQuestions []uint                `json:"incorrect_questions"`
	TopicBreakdown     map[string]TopicTally `json:"topic_breakdown"`
}

type attemptService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	cache     cache.CacheService
	logger    *ServiceLogger
	validator *validator.Validator
}

func NewAttemptService(repo repositories.Repository, publisher events.EventPublisher, cache cache.CacheService, logger *slog.Logger, validator *validator.Validator) AttemptService {
	return &attemptService{
		repo:      repo,
		publisher: publisher,
		cache:     cache,
		logger:    NewServiceLogger(logger, "attempt"),
		validator: validator,
	}
}

func (s *attemptService) Submit(ctx context.Context, studentID uint, req *SubmitAttemptRequest) (*AttemptResult, error) {
	op := s.logger.WithOperation(ctx, "submit_attempt", studentID)

	if err := s.validator.Validate(req); err != nil {
		err = validationFailure(err)
		op.LogResult(err)
		return nil, err
	}

	test, err := s.repo.MockTest().GetByID(ctx, req.TestID)
	if err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to load test: %w", err)
	}
	if test == nil {
		op.LogResult(ErrTestNotFound)
		return nil, ErrTestNotFound
	}

	questions, err := s.repo.MockTest().GetQuestions(ctx, req.TestID)
	if err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	if len(questions) == 0 {
		op.LogResult(ErrTestNotFound)
		return nil, ErrTestNotFound
	}

	subject := ""
	if test.Subject != nil {
		subject = test.Subject.Name
	}

	result, topics := scoreAttempt(questions, req.Answers, subject)

	attempt := &models.StudentAttempt{
		StudentID:        studentID,
		TestID:           req.TestID,
		Answers:          datatypes.NewJSONType(req.Answers),
		Score:            result.Score,
		Total:            result.Total,
		TimeTakenSeconds: req.TimeTakenSeconds,
		Completed:        true,
	}
	if err := s.repo.Attempt().Submit(ctx, attempt, topics); err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}
	result.AttemptID = attempt.ID

	if err := s.cache.Delete(ctx, AnalyticsCacheKey(studentID)); err != nil {
		s.logger.Logger().Warn("Failed to invalidate analytics cache", "student_id", studentID, "error", err)
	}

	event := events.NewAttemptSubmittedEvent(events.AttemptSubmittedEvent{
		AttemptID:   attempt.ID,
		TestID:      req.TestID,
		StudentID:   studentID,
		Score:       result.Score,
		Total:       result.Total,
		Accuracy:    result.Percentage,
		SubmittedAt: time.Now().UTC(),
	})
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Logger().Warn("Failed to publish attempt event", "attempt_id", attempt.ID, "error", err)
	}

	op.LogResult(nil, "test_id", req.TestID, "score", result.Score, "total", result.Total)
	return result, nil
}

func (s *attemptService) GetQuestions(ctx context.Context, testID uint) ([]models.Question, error) {
	questions, err := s.repo.MockTest().GetQuestions(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrTestNotFound
	}
	return questions, nil
}

// scoreAttempt grades answers against questions. An unanswered question
// counts as incorrect. Topic results keep first-seen question order.
func scoreAttempt(questions []models.Question, answers map[string]int, subject string) (*AttemptResult, []repositories.TopicResult) {
	result := &AttemptResult{
		Total:              len(questions),
		CorrectQuestions:   []uint{},
		IncorrectQuestions: []uint{},
		TopicBreakdown:     make(map[string]TopicTally),
	}

	var order []string
	for _, q := range questions {
		selected, answered := answers[strconv.FormatUint(uint64(q.ID), 10)]
		correct := answered && selected == q.CorrectAnswer

		tally, seen := result.TopicBreakdown[q.Topic]
		if !seen {
			order = append(order, q.Topic)
		}
		tally.Total++
		if correct {
			tally.Correct++
			result.Score++
			result.CorrectQuestions = append(result.CorrectQuestions, q.ID)
		} else {
			result.IncorrectQuestions = append(result.IncorrectQuestions, q.ID)
		}
		result.TopicBreakdown[q.Topic] = tally
	}

	if result.Total > 0 {
		result.Percentage = models.StudentAttempt{Score: result.Score, Total: result.Total}.Percentage()
	}

	topics := make([]repositories.TopicResult, 0, len(order))
	for _, topic := range order {
		tally := result.TopicBreakdown[topic]
		topics = append(topics, repositories.TopicResult{
			Topic:   topic,
			Subject: subject,
			Correct: tally.Correct,
			Total:   tally.Total,
		})
	}
	return result, topics
}
