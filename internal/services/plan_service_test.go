package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"github.com/adaptlearn/learning-service/internal/cache"
	"github.com/adaptlearn/learning-service/internal/events"
	"github.com/adaptlearn/learning-service/internal/examcoach"
	"github.com/adaptlearn/learning-service/internal/models"
)

func newTestPlanService(repo *mockRepository) (*planService, *events.MockEventPublisher, *cache.MemoryCache) {
	publisher := events.NewMockEventPublisher(testLogger())
	memCache := cache.NewMemoryCache()
	svc := NewPlanService(repo, examcoach.DefaultCatalog(), publisher, memCache, testLogger()).(*planService)
	svc.now = fixedClock("2026-03-01T09:30:00Z")
	return svc, publisher, memCache
}

func samplePerformance() []models.TopicPerformance {
	return []models.TopicPerformance{
		{Topic: "Kinematics", Subject: "Physics", Correct: 3, TotalAttempted: 10},
		{Topic: "Thermodynamics", Subject: "Physics", Correct: 9, TotalAttempted: 20},
		{Topic: "Aldehydes", Subject: "", Correct: 5, TotalAttempted: 8},
		{Topic: "Hydrocarbons", Subject: "Chemistry", Correct: 9, TotalAttempted: 10},
		{Topic: "Vectors", Subject: "Mathematics", Correct: 0, TotalAttempted: 0},
	}
}

func TestWeaknessRecords(t *testing.T) {
	records := WeaknessRecords(samplePerformance())

	require.Len(t, records, 4)
	assert.Equal(t, examcoach.WeaknessRecord{Chapter: "Kinematics", Subject: "Physics", Accuracy: 30}, records[0])
	assert.Equal(t, 45.0, records[1].Accuracy)
	assert.Equal(t, "General", records[2].Subject)
	assert.Equal(t, 63.0, records[2].Accuracy, "5/8 rounds to 63")
	assert.Equal(t, 90.0, records[3].Accuracy)
}

func TestPlanService_GenerateForStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("stores an active plan and publishes an event", func(t *testing.T) {
		repo := newMockRepository()
		svc, publisher, memCache := newTestPlanService(repo)

		require.NoError(t, memCache.Set(ctx, ActivePlanCacheKey(4), "stale", 0))

		repo.student.On("GetByID", ctx, uint(4)).Return(&models.Student{ID: 4, TargetExam: "jee_main"}, nil)
		repo.topics.On("ListByStudent", ctx, uint(4)).Return(samplePerformance(), nil)
		repo.plans.On("ReplaceActive", ctx, mock.AnythingOfType("*models.RevisionPlan")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.RevisionPlan).ID = 11
			}).Return(nil)

		plan, err := svc.GenerateForStudent(ctx, 4, "")
		require.NoError(t, err)

		assert.Equal(t, uint(11), plan.ID)
		assert.Equal(t, "jee_main", plan.ExamID)
		assert.Equal(t, "2026-03-01", plan.StartDate)
		assert.Equal(t, 3, plan.TotalTopicsCovered)

		data := plan.PlanData.Data()
		require.Len(t, data.Days, 7)
		assert.Equal(t, "2026-03-07", data.Days[6].Date)
		assert.Equal(t, "Kinematics", data.Days[0].Sessions[0].Chapter)
		assert.Equal(t, examcoach.SessionConcept, data.Days[0].Sessions[0].SessionType)
		assert.Contains(t, data.Resources, "Physics")
		assert.NotContains(t, data.Resources, "Chemistry", "mastered subjects get no resources")

		var cached string
		assert.ErrorIs(t, memCache.Get(ctx, ActivePlanCacheKey(4), &cached), cache.ErrCacheMiss)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventPlanGenerated, published[0].Type)
		payload := published[0].Data.(events.PlanGeneratedEvent)
		assert.Equal(t, uint(11), payload.PlanID)
		assert.Equal(t, 3, payload.WeakTopics)

		total := 0
		for _, d := range data.Days {
			total += d.TotalMinutes
		}
		assert.Equal(t, total, payload.TotalMinutes)
		repo.AssertExpectations(t)
	})

	t.Run("explicit exam overrides the target exam", func(t *testing.T) {
		repo := newMockRepository()
		svc, _, _ := newTestPlanService(repo)

		repo.student.On("GetByID", ctx, uint(4)).Return(&models.Student{ID: 4, TargetExam: "jee_main"}, nil)
		repo.topics.On("ListByStudent", ctx, uint(4)).Return(samplePerformance(), nil)
		repo.plans.On("ReplaceActive", ctx, mock.Anything).Return(nil)

		plan, err := svc.GenerateForStudent(ctx, 4, "neet")
		require.NoError(t, err)
		assert.Equal(t, "neet", plan.ExamID)
	})

	t.Run("unknown student", func(t *testing.T) {
		repo := newMockRepository()
		svc, publisher, _ := newTestPlanService(repo)

		repo.student.On("GetByID", ctx, uint(9)).Return(nil, nil)

		_, err := svc.GenerateForStudent(ctx, 9, "")
		assert.ErrorIs(t, err, ErrStudentNotFound)
		assert.Empty(t, publisher.GetPublishedEvents())
	})

	t.Run("unknown exam", func(t *testing.T) {
		repo := newMockRepository()
		svc, _, _ := newTestPlanService(repo)

		repo.student.On("GetByID", ctx, uint(4)).Return(&models.Student{ID: 4}, nil)

		_, err := svc.GenerateForStudent(ctx, 4, "gate")
		assert.ErrorIs(t, err, ErrUnknownExam)
		repo.plans.AssertNotCalled(t, "ReplaceActive", mock.Anything, mock.Anything)
	})

	t.Run("no topic data", func(t *testing.T) {
		repo := newMockRepository()
		svc, _, _ := newTestPlanService(repo)

		repo.student.On("GetByID", ctx, uint(4)).Return(&models.Student{ID: 4}, nil)
		repo.topics.On("ListByStudent", ctx, uint(4)).Return([]models.TopicPerformance{
			{Topic: "Vectors", TotalAttempted: 0},
		}, nil)

		_, err := svc.GenerateForStudent(ctx, 4, "")
		assert.ErrorIs(t, err, ErrNoTopicData)
		assert.True(t, IsBusinessRule(err))

		var bre *BusinessRuleError
		require.ErrorAs(t, err, &bre)
		assert.Equal(t, "no_topic_data", bre.Rule)
		assert.Equal(t, uint(4), bre.Context["student_id"])
		assert.Equal(t, 1, bre.Context["topics_seen"])
	})

	t.Run("start date is the UTC day shared with streaks", func(t *testing.T) {
		repo := newMockRepository()
		svc, _, _ := newTestPlanService(repo)
		// 23:30 in UTC-5 is already 2026-03-02 in UTC.
		local := time.Date(2026, 3, 1, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
		svc.now = func() time.Time { return local }

		repo.student.On("GetByID", ctx, uint(4)).Return(&models.Student{ID: 4, TargetExam: "jee_main"}, nil)
		repo.topics.On("ListByStudent", ctx, uint(4)).Return(samplePerformance(), nil)
		repo.plans.On("ReplaceActive", ctx, mock.Anything).Return(nil)

		plan, err := svc.GenerateForStudent(ctx, 4, "")
		require.NoError(t, err)

		assert.Equal(t, "2026-03-02", plan.StartDate)
		assert.Equal(t, dayOf(local).Format(isoDate), plan.StartDate)
		assert.Equal(t, "2026-03-08", plan.PlanData.Data().Days[6].Date)
	})

	t.Run("repository failure is wrapped", func(t *testing.T) {
		repo := newMockRepository()
		svc, _, _ := newTestPlanService(repo)
		boom := errors.New("connection reset")

		repo.student.On("GetByID", ctx, uint(4)).Return(&models.Student{ID: 4}, nil)
		repo.topics.On("ListByStudent", ctx, uint(4)).Return(samplePerformance(), nil)
		repo.plans.On("ReplaceActive", ctx, mock.Anything).Return(boom)

		_, err := svc.GenerateForStudent(ctx, 4, "")
		assert.ErrorIs(t, err, boom)
	})
}

func storedPlan() *models.RevisionPlan {
	days := examcoach.GeneratePlan([]examcoach.WeaknessRecord{
		{Chapter: "Kinematics", Subject: "Physics", Accuracy: 30},
		{Chapter: "Thermodynamics", Subject: "Physics", Accuracy: 45},
	}, fixedClock("2026-03-01T00:00:00Z")())

	return &models.RevisionPlan{
		ID:                 11,
		StudentID:          4,
		StartDate:          "2026-03-01",
		PlanData:           datatypes.NewJSONType(models.PlanData{Days: days}),
		TotalTopicsCovered: 2,
		IsActive:           true,
	}
}

func TestPlanService_GetActive(t *testing.T) {
	ctx := context.Background()

	t.Run("second read is served from cache", func(t *testing.T) {
		repo := newMockRepository()
		svc, _, _ := newTestPlanService(repo)

		repo.plans.On("GetActive", ctx, uint(4)).Return(storedPlan(), nil).Once()

		first, err := svc.GetActive(ctx, 4)
		require.NoError(t, err)
		second, err := svc.GetActive(ctx, 4)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.PlanData.Data().Days, second.PlanData.Data().Days)
		repo.AssertExpectations(t)
	})

	t.Run("no active plan", func(t *testing.T) {
		repo := newMockRepository()
		svc, _, _ := newTestPlanService(repo)

		repo.plans.On("GetActive", ctx, uint(4)).Return(nil, nil)

		_, err := svc.GetActive(ctx, 4)
		assert.ErrorIs(t, err, ErrPlanNotFound)
		assert.True(t, IsNotFound(err))
	})
}

func TestPlanService_ExportExcel(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc, _, _ := newTestPlanService(repo)

	plan := storedPlan()
	repo.plans.On("GetActive", ctx, uint(4)).Return(plan, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportExcel(ctx, 4, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(planSheetName)
	require.NoError(t, err)

	sessions := 0
	for _, d := range plan.PlanData.Data().Days {
		sessions += len(d.Sessions)
	}
	require.Len(t, rows, sessions+1)
	assert.Equal(t, []string{"Day", "Date", "Subject", "Chapter", "Session Type", "Minutes"}, rows[0])
	assert.Equal(t, []string{"1", "2026-03-01", "Physics", "Kinematics", "Concept", "45"}, rows[1])
	assert.Equal(t, []string{"7", "2026-03-07", "All Subjects", "Full Mock Test", "Mini Test", "60"}, rows[len(rows)-1])
}
