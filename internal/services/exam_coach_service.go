package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adaptlearn/learning-service/internal/examcoach"
	"github.com/adaptlearn/learning-service/internal/validator"
)

// ExamCoachService exposes the exam catalog and the stateless planning,
// analysis and prediction operations.
type ExamCoachService interface {
	ListExams(ctx context.Context) []examcoach.ExamConfig
	GetExam(ctx context.Context, examID string) (*ExamDetail, error)
	GetStrategy(ctx context.Context, examID string) (*examcoach.Strategy, error)
	Analyze(ctx context.Context, req *AnalyzeRequest) (*examcoach.Analysis, error)
	GeneratePlan(ctx context.Context, req *PlanRequest) (*PlanResponse, error)
	Predict(ctx context.Context, req *PredictRequest) (*examcoach.ScorePrediction, error)
}

type ExamDetail struct {
	examcoach.ExamConfig
	Chapters map[string][]string `json:"chapters"`
}

type AnalyzeRequest struct {
	ExamID string                 `json:"exam_id" validate:"required,exam_id"`
	Scores []examcoach.TopicScore `json:"scores" validate:"dive"`
}

type PlanRequest struct {
	// ExamID is optional; when set the response carries the exam strategy.
	ExamID     string                     `json:"exam_id" validate:"omitempty,exam_id"`
	Weaknesses []examcoach.WeaknessRecord `json:"weaknesses" validate:"dive"`
	// StartDate defaults to today.
	StartDate string `json:"start_date" validate:"omitempty,iso_date"`
}

type PlanResponse struct {
	ExamID     string                          `json:"exam_id,omitempty"`
	StartDate  string                          `json:"start_date"`
	WeakTopics []examcoach.ClassifiedWeakness  `json:"weak_topics"`
	Days       []examcoach.DayPlan             `json:"days"`
	Strategy   *examcoach.Strategy             `json:"strategy,omitempty"`
	Resources  map[string][]examcoach.Resource `json:"resources,omitempty"`
}

type PredictRequest struct {
	ExamID     string                      `json:"exam_id" validate:"required,exam_id"`
	Accuracies []examcoach.ChapterAccuracy `json:"accuracies" validate:"dive"`
}

type examCoachService struct {
	catalog   *examcoach.Catalog
	logger    *ServiceLogger
	validator *validator.Validator
	now       func() time.Time
}

func NewExamCoachService(catalog *examcoach.Catalog, logger *slog.Logger, validator *validator.Validator) ExamCoachService {
	return &examCoachService{
		catalog:   catalog,
		logger:    NewServiceLogger(logger, "exam_coach"),
		validator: validator,
		now:       time.Now,
	}
}

func (s *examCoachService) ListExams(ctx context.Context) []examcoach.ExamConfig {
	return s.catalog.Exams()
}

func (s *examCoachService) GetExam(ctx context.Context, examID string) (*ExamDetail, error) {
	exam, ok := s.catalog.Exam(examID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExam, examID)
	}

	chapters := make(map[string][]string, len(exam.Subjects))
	for _, subject := range exam.Subjects {
		chapters[subject] = s.catalog.Chapters(subject)
	}
	return &ExamDetail{ExamConfig: exam, Chapters: chapters}, nil
}

func (s *examCoachService) GetStrategy(ctx context.Context, examID string) (*examcoach.Strategy, error) {
	strategy, ok := s.catalog.Strategy(examID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExam, examID)
	}
	return &strategy, nil
}

func (s *examCoachService) Analyze(ctx context.Context, req *AnalyzeRequest) (*examcoach.Analysis, error) {
	op := s.logger.WithOperation(ctx, "analyze", 0)

	if err := s.validator.Validate(req); err != nil {
		err = validationFailure(err)
		op.LogResult(err)
		return nil, err
	}

	exam, _ := s.catalog.Exam(req.ExamID)
	analysis := examcoach.Analyze(exam, req.Scores)
	op.LogResult(nil, "exam_id", req.ExamID, "weak_topics", len(analysis.WeakTopics))
	return &analysis, nil
}

func (s *examCoachService) GeneratePlan(ctx context.Context, req *PlanRequest) (*PlanResponse, error) {
	op := s.logger.WithOperation(ctx, "generate_plan", 0)

	if err := s.validator.Validate(req); err != nil {
		err = validationFailure(err)
		op.LogResult(err)
		return nil, err
	}

	start, err := parseStartDate(req.StartDate, dayOf(s.now()))
	if err != nil {
		op.LogResult(err)
		return nil, err
	}

	weak := examcoach.WeakSet(req.Weaknesses)
	resp := &PlanResponse{
		ExamID:     req.ExamID,
		StartDate:  start.Format(isoDate),
		WeakTopics: weak,
		Days:       examcoach.GeneratePlan(req.Weaknesses, start),
		Resources:  resourcesFor(s.catalog, weak),
	}
	if req.ExamID != "" {
		if strategy, ok := s.catalog.Strategy(req.ExamID); ok {
			resp.Strategy = &strategy
		}
	}

	op.LogResult(nil, "weak_topics", len(weak))
	return resp, nil
}

func (s *examCoachService) Predict(ctx context.Context, req *PredictRequest) (*examcoach.ScorePrediction, error) {
	op := s.logger.WithOperation(ctx, "predict", 0)

	if err := s.validator.Validate(req); err != nil {
		err = validationFailure(err)
		op.LogResult(err)
		return nil, err
	}

	exam, _ := s.catalog.Exam(req.ExamID)
	prediction := examcoach.PredictScore(exam, req.Accuracies)
	op.LogResult(nil, "exam_id", req.ExamID, "readiness", prediction.ReadinessPercent)
	return &prediction, nil
}

// resourcesFor collects catalog resources for every subject in the weak set.
func resourcesFor(catalog *examcoach.Catalog, weak []examcoach.ClassifiedWeakness) map[string][]examcoach.Resource {
	out := make(map[string][]examcoach.Resource)
	for _, w := range weak {
		if _, seen := out[w.Subject]; seen {
			continue
		}
		if res := catalog.Resources(w.Subject); len(res) > 0 {
			out[w.Subject] = res
		}
	}
	return out
}

// parseStartDate reads a YYYY-MM-DD start date, falling back when empty.
func parseStartDate(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	start, err := time.Parse(isoDate, value)
	if err != nil {
		return time.Time{}, validationFailure(fmt.Errorf("start_date must be YYYY-MM-DD: %w", err))
	}
	return start, nil
}
