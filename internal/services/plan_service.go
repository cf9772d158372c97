package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"github.com/adaptlearn/learning-service/internal/cache"
	"github.com/adaptlearn/learning-service/internal/events"
	"github.com/adaptlearn/learning-service/internal/examcoach"
	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/repositories"
)

const (
	activePlanCacheTTL = 10 * time.Minute
	planSheetName      = "Revision Plan"
	defaultSubject     = "General"
)

// PlanService builds and stores revision plans from a student's recorded
// topic performance.
type PlanService interface {
	GenerateForStudent(ctx context.Context, studentID uint, examID string) (*models.RevisionPlan, error)
	GetActive(ctx context.Context, studentID uint) (*models.RevisionPlan, error)
	ExportExcel(ctx context.Context, studentID uint, w io.Writer) error
}

// ActivePlanCacheKey is the cache key holding a student's active plan.
func ActivePlanCacheKey(studentID uint) string {
	return fmt.Sprintf("plan:active:%d", studentID)
}

type planService struct {
	repo      repositories.Repository
	catalog   *examcoach.Catalog
	publisher events.EventPublisher
	cache     cache.CacheService
	logger    *ServiceLogger
	now       func() time.Time
}

func NewPlanService(repo repositories.Repository, catalog *examcoach.Catalog, publisher events.EventPublisher, cache cache.CacheService, logger *slog.Logger) PlanService {
	return &planService{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		cache:     cache,
		logger:    NewServiceLogger(logger, "plan"),
		now:       time.Now,
	}
}

func (s *planService) GenerateForStudent(ctx context.Context, studentID uint, examID string) (*models.RevisionPlan, error) {
	op := s.logger.WithOperation(ctx, "generate_plan", studentID)

	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		op.LogResult(ErrStudentNotFound)
		return nil, ErrStudentNotFound
	}

	if examID == "" {
		examID = student.TargetExam
	}
	if examID != "" {
		if _, ok := s.catalog.Exam(examID); !ok {
			err := fmt.Errorf("%w: %s", ErrUnknownExam, examID)
			op.LogResult(err)
			return nil, err
		}
	}

	topics, err := s.repo.TopicPerformance().ListByStudent(ctx, studentID)
	if err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to load topic performance: %w", err)
	}
	weaknesses := WeaknessRecords(topics)
	if len(weaknesses) == 0 {
		err := noTopicDataError(studentID, len(topics))
		op.LogResult(err)
		return nil, err
	}

	start := s.now()
	days := examcoach.GeneratePlan(weaknesses, dayOf(start))
	weak := examcoach.WeakSet(weaknesses)

	plan := &models.RevisionPlan{
		StudentID: studentID,
		ExamID:    examID,
		StartDate: days[0].Date,
		PlanData: datatypes.NewJSONType(models.PlanData{
			Days:      days,
			Resources: resourcesFor(s.catalog, weak),
		}),
		TotalTopicsCovered: len(weak),
	}
	if err := s.repo.RevisionPlan().ReplaceActive(ctx, plan); err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to save revision plan: %w", err)
	}

	if err := s.cache.Delete(ctx, ActivePlanCacheKey(studentID)); err != nil {
		s.logger.Logger().Warn("Failed to invalidate plan cache", "student_id", studentID, "error", err)
	}

	total := 0
	for _, d := range days {
		total += d.TotalMinutes
	}
	event := events.NewPlanGeneratedEvent(events.PlanGeneratedEvent{
		PlanID:       plan.ID,
		StudentID:    studentID,
		ExamID:       examID,
		StartDate:    plan.StartDate,
		WeakTopics:   len(weak),
		TotalMinutes: total,
		GeneratedAt:  start.UTC(),
	})
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Logger().Warn("Failed to publish plan event", "plan_id", plan.ID, "error", err)
	}

	op.LogResult(nil, "plan_id", plan.ID, "weak_topics", len(weak))
	return plan, nil
}

func (s *planService) GetActive(ctx context.Context, studentID uint) (*models.RevisionPlan, error) {
	key := ActivePlanCacheKey(studentID)

	var cached models.RevisionPlan
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Logger().Warn("Plan cache read failed", "student_id", studentID, "error", err)
	}

	plan, err := s.repo.RevisionPlan().GetActive(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active plan: %w", err)
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	if err := s.cache.Set(ctx, key, plan, activePlanCacheTTL); err != nil {
		s.logger.Logger().Warn("Plan cache write failed", "student_id", studentID, "error", err)
	}
	return plan, nil
}

func (s *planService) ExportExcel(ctx context.Context, studentID uint, w io.Writer) error {
	plan, err := s.GetActive(ctx, studentID)
	if err != nil {
		return err
	}

	f, err := RenderPlanWorkbook(plan.PlanData.Data().Days)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	s.logger.Logger().InfoContext(ctx, "Exported revision plan", "student_id", studentID, "plan_id", plan.ID)
	return nil
}

// RenderPlanWorkbook lays a plan out as one row per study session.
func RenderPlanWorkbook(days []examcoach.DayPlan) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", planSheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headers := []interface{}{"Day", "Date", "Subject", "Chapter", "Session Type", "Minutes"}
	if err := f.SetSheetRow(planSheetName, "A1", &headers); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetCellStyle(planSheetName, "A1", "F1", style)
	}
	f.SetColWidth(planSheetName, "C", "D", 28)
	f.SetColWidth(planSheetName, "E", "E", 14)

	row := 2
	for _, day := range days {
		for _, session := range day.Sessions {
			values := []interface{}{day.Day, day.Date, session.Subject, session.Chapter, string(session.SessionType), session.DurationMinutes}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(planSheetName, cell, &values); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
			row++
		}
	}

	return f, nil
}

// WeaknessRecords turns recorded topic performance into plan input.
// Topics without attempts are skipped; accuracy is rounded to a whole percent.
func WeaknessRecords(topics []models.TopicPerformance) []examcoach.WeaknessRecord {
	out := make([]examcoach.WeaknessRecord, 0, len(topics))
	for _, tp := range topics {
		if tp.TotalAttempted == 0 {
			continue
		}
		subject := tp.Subject
		if subject == "" {
			subject = defaultSubject
		}
		out = append(out, examcoach.WeaknessRecord{
			Chapter:  tp.Topic,
			Subject:  subject,
			Accuracy: math.Round(float64(tp.Correct) / float64(tp.TotalAttempted) * 100),
		})
	}
	return out
}
