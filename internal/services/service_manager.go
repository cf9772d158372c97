package services

import (
	"log/slog"
	"time"

	"github.com/adaptlearn/learning-service/internal/cache"
	"github.com/adaptlearn/learning-service/internal/events"
	"github.com/adaptlearn/learning-service/internal/examcoach"
	"github.com/adaptlearn/learning-service/internal/llm"
	"github.com/adaptlearn/learning-service/internal/repositories"
	"github.com/adaptlearn/learning-service/internal/validator"
)

// ServiceManager hands each handler the service it needs.
type ServiceManager interface {
	ExamCoach() ExamCoachService
	Attempt() AttemptService
	Analytics() AnalyticsService
	Plan() PlanService
	Streak() StreakService
	Coach() CoachService
	Auth() AuthService
}

// Dependencies are the shared collaborators every service is built from.
// Provider may be nil when no language model is configured.
type Dependencies struct {
	Repo      repositories.Repository
	Catalog   *examcoach.Catalog
	Publisher events.EventPublisher
	Cache     cache.CacheService
	Provider  llm.Provider
	LLM       llm.Config
	Validator *validator.Validator
	Logger    *slog.Logger
	JWTSecret string
	JWTTTL    time.Duration
}

type serviceManager struct {
	examCoach ExamCoachService
	attempt   AttemptService
	analytics AnalyticsService
	plan      PlanService
	streak    StreakService
	coach     CoachService
	auth      AuthService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	return &serviceManager{
		examCoach: NewExamCoachService(deps.Catalog, deps.Logger, deps.Validator),
		attempt:   NewAttemptService(deps.Repo, deps.Publisher, deps.Cache, deps.Logger, deps.Validator),
		analytics: NewAnalyticsService(deps.Repo, deps.Cache, deps.Logger),
		plan:      NewPlanService(deps.Repo, deps.Catalog, deps.Publisher, deps.Cache, deps.Logger),
		streak:    NewStreakService(deps.Repo, deps.Publisher, deps.Logger, deps.Validator),
		coach:     NewCoachService(deps.Repo, deps.Provider, deps.LLM, deps.Logger, deps.Validator),
		auth:      NewAuthService(deps.Repo, deps.JWTSecret, deps.JWTTTL, deps.Logger, deps.Validator),
	}
}

func (m *serviceManager) ExamCoach() ExamCoachService { return m.examCoach }
func (m *serviceManager) Attempt() AttemptService     { return m.attempt }
func (m *serviceManager) Analytics() AnalyticsService { return m.analytics }
func (m *serviceManager) Plan() PlanService           { return m.plan }
func (m *serviceManager) Streak() StreakService       { return m.streak }
func (m *serviceManager) Coach() CoachService         { return m.coach }
func (m *serviceManager) Auth() AuthService           { return m.auth }
