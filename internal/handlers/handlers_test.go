package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adaptlearn/learning-service/internal/examcoach"
	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/services"
	"github.com/adaptlearn/learning-service/internal/utils"
	"github.com/adaptlearn/learning-service/internal/validator"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Signup(ctx context.Context, req *services.SignupRequest) (*services.TokenResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*services.TokenResponse)
	return resp, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *services.LoginRequest) (*services.TokenResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*services.TokenResponse)
	return resp, args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, studentID uint) (*models.Student, error) {
	args := m.Called(ctx, studentID)
	student, _ := args.Get(0).(*models.Student)
	return student, args.Error(1)
}

func (m *MockAuthService) ValidateToken(token string) (*services.Claims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*services.Claims)
	return claims, args.Error(1)
}

type MockAttemptService struct{ mock.Mock }

func (m *MockAttemptService) Submit(ctx context.Context, studentID uint, req *services.SubmitAttemptRequest) (*services.AttemptResult, error) {
	args := m.Called(ctx, studentID, req)
	result, _ := args.Get(0).(*services.AttemptResult)
	return result, args.Error(1)
}

func (m *MockAttemptService) GetQuestions(ctx context.Context, testID uint) ([]models.Question, error) {
	args := m.Called(ctx, testID)
	questions, _ := args.Get(0).([]models.Question)
	return questions, args.Error(1)
}

type MockAnalyticsService struct{ mock.Mock }

func (m *MockAnalyticsService) GetStudentAnalytics(ctx context.Context, studentID uint) (*services.StudentAnalytics, error) {
	args := m.Called(ctx, studentID)
	analytics, _ := args.Get(0).(*services.StudentAnalytics)
	return analytics, args.Error(1)
}

type MockPlanService struct{ mock.Mock }

func (m *MockPlanService) GenerateForStudent(ctx context.Context, studentID uint, examID string) (*models.RevisionPlan, error) {
	args := m.Called(ctx, studentID, examID)
	plan, _ := args.Get(0).(*models.RevisionPlan)
	return plan, args.Error(1)
}

func (m *MockPlanService) GetActive(ctx context.Context, studentID uint) (*models.RevisionPlan, error) {
	args := m.Called(ctx, studentID)
	plan, _ := args.Get(0).(*models.RevisionPlan)
	return plan, args.Error(1)
}

func (m *MockPlanService) ExportExcel(ctx context.Context, studentID uint, w io.Writer) error {
	args := m.Called(ctx, studentID, w)
	return args.Error(0)
}

type MockStreakService struct{ mock.Mock }

func (m *MockStreakService) Log(ctx context.Context, studentID uint, req *services.LogActivityRequest) (*services.LogActivityResponse, error) {
	args := m.Called(ctx, studentID, req)
	resp, _ := args.Get(0).(*services.LogActivityResponse)
	return resp, args.Error(1)
}

func (m *MockStreakService) Get(ctx context.Context, studentID uint) (*services.StreakSummary, error) {
	args := m.Called(ctx, studentID)
	summary, _ := args.Get(0).(*services.StreakSummary)
	return summary, args.Error(1)
}

type MockCoachService struct{ mock.Mock }

func (m *MockCoachService) Chat(ctx context.Context, studentID uint, req *services.ChatRequest) (*services.ChatResponse, error) {
	args := m.Called(ctx, studentID, req)
	resp, _ := args.Get(0).(*services.ChatResponse)
	return resp, args.Error(1)
}

type stubServiceManager struct {
	examCoach services.ExamCoachService
	attempt   *MockAttemptService
	analytics *MockAnalyticsService
	plan      *MockPlanService
	streak    *MockStreakService
	coach     *MockCoachService
	auth      *MockAuthService
}

func (s *stubServiceManager) ExamCoach() services.ExamCoachService { return s.examCoach }
func (s *stubServiceManager) Attempt() services.AttemptService     { return s.attempt }
func (s *stubServiceManager) Analytics() services.AnalyticsService { return s.analytics }
func (s *stubServiceManager) Plan() services.PlanService           { return s.plan }
func (s *stubServiceManager) Streak() services.StreakService       { return s.streak }
func (s *stubServiceManager) Coach() services.CoachService         { return s.coach }
func (s *stubServiceManager) Auth() services.AuthService           { return s.auth }

const goodToken = "good-token"

func setupRouter(t *testing.T) (*gin.Engine, *stubServiceManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := examcoach.DefaultCatalog()
	sm := &stubServiceManager{
		examCoach: services.NewExamCoachService(catalog, slogger, validator.New(catalog)),
		attempt:   &MockAttemptService{},
		analytics: &MockAnalyticsService{},
		plan:      &MockPlanService{},
		streak:    &MockStreakService{},
		coach:     &MockCoachService{},
		auth:      &MockAuthService{},
	}
	sm.auth.On("ValidateToken", goodToken).Return(&services.Claims{StudentID: 4}, nil).Maybe()
	sm.auth.On("ValidateToken", mock.Anything).Return(nil, services.ErrInvalidToken).Maybe()

	router := gin.New()
	NewHandlerManager(sm, utils.NewSlogLogger(slogger)).SetupRoutes(router)
	return router, sm
}

func doRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, _ := json.Marshal(b)
			reader = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "learning-service")
}

func TestExamCoachRoutes(t *testing.T) {
	router, _ := setupRouter(t)

	t.Run("list exams", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/exam-coach/exams", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Exams []examcoach.ExamConfig `json:"exams"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Len(t, body.Exams, 5)
	})

	t.Run("unknown exam", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/exam-coach/exams/gate", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "UNKNOWN_EXAM", decodeError(t, w).Code)
	})

	t.Run("exam id is case insensitive", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/exam-coach/exams/NEET/strategy", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("plan", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/exam-coach/plan", map[string]interface{}{
			"start_date": "2026-03-01",
			"weaknesses": []map[string]interface{}{
				{"chapter": "Kinematics", "subject": "Physics", "accuracy": 30},
			},
		}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp services.PlanResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Days, 7)
		require.Len(t, resp.Days[0].Sessions, 3)
		assert.Equal(t, 110, resp.Days[0].TotalMinutes)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/exam-coach/plan", "{", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request payload", decodeError(t, w).Message)
	})

	t.Run("validation failure", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/exam-coach/predict", map[string]interface{}{"exam_id": "gate"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_FAILED", decodeError(t, w).Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	router, sm := setupRouter(t)

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/students/4/analytics", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHENTICATED", decodeError(t, w).Code)
	})

	t.Run("bad token", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/students/4/analytics", nil, "forged")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", decodeError(t, w).Code)
	})

	t.Run("other student's data", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/students/5/analytics", nil, goodToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		sm.analytics.AssertNotCalled(t, "GetStudentAnalytics", mock.Anything, mock.Anything)
	})

	t.Run("invalid student id", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/students/abc/streak", nil, goodToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("own data", func(t *testing.T) {
		sm.analytics.On("GetStudentAnalytics", mock.Anything, uint(4)).
			Return(&services.StudentAnalytics{StudentID: 4, OverallAccuracy: 72.5}, nil).Once()

		w := doRequest(router, http.MethodGet, "/api/v1/students/4/analytics", nil, goodToken)
		require.Equal(t, http.StatusOK, w.Code)

		var analytics services.StudentAnalytics
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analytics))
		assert.Equal(t, 72.5, analytics.OverallAccuracy)
	})
}

func TestStudentRoutes(t *testing.T) {
	router, sm := setupRouter(t)

	t.Run("generate plan without topic data", func(t *testing.T) {
		sm.plan.On("GenerateForStudent", mock.Anything, uint(4), "").Return(nil, services.ErrNoTopicData).Once()

		w := doRequest(router, http.MethodPost, "/api/v1/students/4/plans", nil, goodToken)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "NO_TOPIC_DATA", decodeError(t, w).Code)
	})

	t.Run("business rule violation", func(t *testing.T) {
		violation := services.NewBusinessRuleError("no_topic_data", "No topic performance data. Take some tests first.", map[string]interface{}{"student_id": 4})
		violation.Err = services.ErrNoTopicData
		sm.plan.On("GenerateForStudent", mock.Anything, uint(4), "jee_main").Return(nil, violation).Once()

		w := doRequest(router, http.MethodPost, "/api/v1/students/4/plans", map[string]string{"exam_id": "jee_main"}, goodToken)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := decodeError(t, w)
		assert.Equal(t, "NO_TOPIC_DATA", resp.Code)
		assert.Equal(t, "No topic performance data. Take some tests first.", resp.Message)
	})

	t.Run("generate plan for an exam", func(t *testing.T) {
		sm.plan.On("GenerateForStudent", mock.Anything, uint(4), "neet").
			Return(&models.RevisionPlan{ID: 9, StudentID: 4, ExamID: "neet"}, nil).Once()

		w := doRequest(router, http.MethodPost, "/api/v1/students/4/plans", map[string]string{"exam_id": "neet"}, goodToken)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"exam_id":"neet"`)
	})

	t.Run("no active plan", func(t *testing.T) {
		sm.plan.On("GetActive", mock.Anything, uint(4)).Return(nil, services.ErrPlanNotFound).Once()

		w := doRequest(router, http.MethodGet, "/api/v1/students/4/plans/active", nil, goodToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("export", func(t *testing.T) {
		sm.plan.On("ExportExcel", mock.Anything, uint(4), mock.Anything).
			Run(func(args mock.Arguments) {
				args.Get(2).(io.Writer).Write([]byte("PK-xlsx"))
			}).Return(nil).Once()

		w := doRequest(router, http.MethodGet, "/api/v1/students/4/plans/active/export", nil, goodToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "revision_plan_4.xlsx")
		assert.Equal(t, "PK-xlsx", w.Body.String())
	})

	t.Run("log streak", func(t *testing.T) {
		sm.streak.On("Log", mock.Anything, uint(4), &services.LogActivityRequest{MinutesStudied: 40, TestsTaken: 1}).
			Return(&services.LogActivityResponse{Status: "ok", Date: "2026-03-01", CurrentStreak: 3}, nil).Once()

		w := doRequest(router, http.MethodPost, "/api/v1/students/4/streak", map[string]int{"minutes_studied": 40, "tests_taken": 1}, goodToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"current_streak":3`)
	})
}

func TestAttemptAndCoachRoutes(t *testing.T) {
	router, sm := setupRouter(t)

	t.Run("submit uses the token's student", func(t *testing.T) {
		sm.attempt.On("Submit", mock.Anything, uint(4), mock.AnythingOfType("*services.SubmitAttemptRequest")).
			Return(&services.AttemptResult{AttemptID: 3, Score: 2, Total: 2, Percentage: 100}, nil).Once()

		w := doRequest(router, http.MethodPost, "/api/v1/attempts", map[string]interface{}{
			"test_id": 1,
			"answers": map[string]int{"1": 0, "2": 3},
		}, goodToken)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("unknown test", func(t *testing.T) {
		sm.attempt.On("GetQuestions", mock.Anything, uint(77)).Return(nil, services.ErrTestNotFound).Once()

		w := doRequest(router, http.MethodGet, "/api/v1/tests/77/questions", nil, goodToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("chat", func(t *testing.T) {
		sm.coach.On("Chat", mock.Anything, uint(4), mock.AnythingOfType("*services.ChatRequest")).
			Return(&services.ChatResponse{Response: "Hi!", StudentID: 4, Source: services.SourceStatic}, nil).Once()

		w := doRequest(router, http.MethodPost, "/api/v1/coach/chat", map[string]string{"message": "hello"}, goodToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"source":"static"`)
	})
}

func TestAuthRoutes(t *testing.T) {
	router, sm := setupRouter(t)

	t.Run("signup conflict", func(t *testing.T) {
		sm.auth.On("Signup", mock.Anything, mock.Anything).Return(nil, services.ErrEmailTaken).Once()

		w := doRequest(router, http.MethodPost, "/api/v1/auth/signup", map[string]string{
			"name": "Asha", "email": "asha@example.com", "password": "secret123",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("login failure", func(t *testing.T) {
		sm.auth.On("Login", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidCredentials).Once()

		w := doRequest(router, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email": "asha@example.com", "password": "nope",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me", func(t *testing.T) {
		sm.auth.On("Me", mock.Anything, uint(4)).Return(&models.Student{ID: 4, Name: "Asha", PasswordHash: "hash"}, nil).Once()

		w := doRequest(router, http.MethodGet, "/api/v1/auth/me", nil, goodToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Asha"`)
		assert.NotContains(t, w.Body.String(), "hash")
	})
}
