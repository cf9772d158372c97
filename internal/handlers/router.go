package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/adaptlearn/learning-service/internal/services"
	"github.com/adaptlearn/learning-service/internal/utils"
)

type HandlerManager struct {
	examCoachHandler *ExamCoachHandler
	attemptHandler   *AttemptHandler
	studentHandler   *StudentHandler
	coachHandler     *CoachHandler
	authHandler      *AuthHandler
	authService      services.AuthService
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		examCoachHandler: NewExamCoachHandler(serviceManager.ExamCoach(), logger),
		attemptHandler:   NewAttemptHandler(serviceManager.Attempt(), logger),
		studentHandler: NewStudentHandler(
			serviceManager.Analytics(),
			serviceManager.Plan(),
			serviceManager.Streak(),
			logger,
		),
		coachHandler: NewCoachHandler(serviceManager.Coach(), logger),
		authHandler:  NewAuthHandler(serviceManager.Auth(), logger),
		authService:  serviceManager.Auth(),
	}
}

// CORSMiddleware allows the web frontend at origins to call the API.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	requireAuth := AuthMiddleware(hm.authService)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", hm.authHandler.Signup)
			auth.POST("/login", hm.authHandler.Login)
			auth.GET("/me", requireAuth, hm.authHandler.Me)
		}

		// Stateless exam tools, no account needed
		examCoach := v1.Group("/exam-coach")
		{
			examCoach.GET("/exams", hm.examCoachHandler.ListExams)
			examCoach.GET("/exams/:exam_id", hm.examCoachHandler.GetExam)
			examCoach.GET("/exams/:exam_id/strategy", hm.examCoachHandler.GetStrategy)
			examCoach.POST("/analyze", hm.examCoachHandler.Analyze)
			examCoach.POST("/plan", hm.examCoachHandler.GeneratePlan)
			examCoach.POST("/predict", hm.examCoachHandler.Predict)
		}

		authed := v1.Group("", requireAuth)
		{
			authed.POST("/attempts", hm.attemptHandler.SubmitAttempt)
			authed.GET("/tests/:test_id/questions", hm.attemptHandler.GetQuestions)
			authed.POST("/coach/chat", hm.coachHandler.Chat)

			students := authed.Group("/students/:student_id", StudentScopeMiddleware())
			{
				students.GET("/analytics", hm.studentHandler.GetAnalytics)
				students.POST("/plans", hm.studentHandler.GeneratePlan)
				students.GET("/plans/active", hm.studentHandler.GetActivePlan)
				students.GET("/plans/active/export", hm.studentHandler.ExportActivePlan)
				students.POST("/streak", hm.studentHandler.LogActivity)
				students.GET("/streak", hm.studentHandler.GetStreak)
			}
		}
	}
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "learning-service",
	})
}
