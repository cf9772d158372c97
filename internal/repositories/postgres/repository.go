package postgres

import (
	"gorm.io/gorm"

	"github.com/adaptlearn/learning-service/internal/repositories"
)

type repository struct {
	student          repositories.StudentRepository
	mockTest         repositories.MockTestRepository
	attempt          repositories.AttemptRepository
	topicPerformance repositories.TopicPerformanceRepository
	revisionPlan     repositories.RevisionPlanRepository
	streak           repositories.StreakRepository
}

// NewRepository wires every gorm-backed repository to db.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		student:          NewStudentPostgreSQL(db),
		mockTest:         NewMockTestPostgreSQL(db),
		attempt:          NewAttemptPostgreSQL(db),
		topicPerformance: NewTopicPerformancePostgreSQL(db),
		revisionPlan:     NewRevisionPlanPostgreSQL(db),
		streak:           NewStreakPostgreSQL(db),
	}
}

func (r *repository) Student() repositories.StudentRepository { return r.student }

func (r *repository) MockTest() repositories.MockTestRepository { return r.mockTest }

func (r *repository) Attempt() repositories.AttemptRepository { return r.attempt }

func (r *repository) TopicPerformance() repositories.TopicPerformanceRepository {
	return r.topicPerformance
}

func (r *repository) RevisionPlan() repositories.RevisionPlanRepository { return r.revisionPlan }

func (r *repository) Streak() repositories.StreakRepository { return r.streak }
