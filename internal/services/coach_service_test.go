package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adaptlearn/learning-service/internal/llm"
	"github.com/adaptlearn/learning-service/internal/models"
)

func newTestCoachService(repo *mockRepository, provider llm.Provider) *coachService {
	cfg := llm.Config{MaxTokens: 512, Temperature: 0.7}
	svc := NewCoachService(repo, provider, cfg, testLogger(), testValidator()).(*coachService)
	svc.now = fixedClock("2026-03-01T10:00:00Z")
	return svc
}

func TestStaticReply(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"I am struggling with optics", "break them into small pieces"},
		{"What should I study today?", "7-day revision plan"},
		{"How is my accuracy?", "**Analytics** page"},
		{"Define osmosis", "Great question"},
		{"HELLO", "I'm **LearnBot**"},
		{"Tell me about Newton", "demo mode"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Contains(t, StaticReply(tt.message), tt.want)
		})
	}
}

func TestCoachService_Chat(t *testing.T) {
	ctx := context.Background()

	t.Run("static reply without a provider", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestCoachService(repo, nil)

		resp, err := svc.Chat(ctx, 4, &ChatRequest{Message: "hi coach"})
		require.NoError(t, err)

		assert.Equal(t, SourceStatic, resp.Source)
		assert.Equal(t, uint(4), resp.StudentID)
		assert.Contains(t, resp.Response, "LearnBot")
		repo.topics.AssertNotCalled(t, "ListByStudent", mock.Anything, mock.Anything)
	})

	t.Run("model reply with student context", func(t *testing.T) {
		repo := newMockRepository()
		provider := llm.NewMockProvider(llm.MockResponse{Text: "Focus on Kinematics today."})
		svc := newTestCoachService(repo, provider)

		repo.topics.On("ListByStudent", ctx, uint(4)).Return([]models.TopicPerformance{
			{Topic: "Kinematics", WeaknessScore: 0.7},
			{Topic: "Thermodynamics", WeaknessScore: 0.55},
			{Topic: "Waves", WeaknessScore: 0.4},
			{Topic: "Optics", WeaknessScore: 0.1},
		}, nil)
		repo.plans.On("GetActive", ctx, uint(4)).Return(storedPlan(), nil)

		var history []llm.Message
		for i := 0; i < 12; i++ {
			role := llm.RoleUser
			if i%2 == 1 {
				role = llm.RoleAssistant
			}
			history = append(history, llm.Message{Role: role, Content: fmt.Sprintf("turn %d", i)})
		}

		resp, err := svc.Chat(ctx, 4, &ChatRequest{Message: "What next?", History: history})
		require.NoError(t, err)
		assert.Equal(t, SourceLLM, resp.Source)
		assert.Equal(t, "Focus on Kinematics today.", resp.Response)

		require.Len(t, provider.Calls, 1)
		req := provider.Calls[0]
		assert.Contains(t, req.System, "You are LearnBot")
		assert.Contains(t, req.System, "Weak topics: Kinematics, Thermodynamics")
		assert.Contains(t, req.System, "Strong topics: Optics")
		assert.Contains(t, req.System, "Today's plan: Kinematics, Thermodynamics")
		assert.Equal(t, 512, req.MaxTokens)

		require.Len(t, req.Messages, 11)
		assert.Equal(t, "turn 2", req.Messages[0].Content)
		assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "What next?"}, req.Messages[10])
		repo.AssertExpectations(t)
	})

	t.Run("provider failure falls back to static reply", func(t *testing.T) {
		repo := newMockRepository()
		provider := llm.NewMockProvider(llm.MockResponse{Err: errors.New("quota exceeded")})
		svc := newTestCoachService(repo, provider)

		repo.topics.On("ListByStudent", ctx, uint(4)).Return([]models.TopicPerformance{}, nil)

		resp, err := svc.Chat(ctx, 4, &ChatRequest{Message: "explain entropy"})
		require.NoError(t, err)
		assert.Equal(t, SourceStatic, resp.Source)
		assert.Contains(t, resp.Response, "Great question")

		require.Len(t, provider.Calls, 1)
		assert.Contains(t, provider.Calls[0].System, "has not completed any tests yet")
		repo.plans.AssertNotCalled(t, "GetActive", mock.Anything, mock.Anything)
	})

	t.Run("context lookup failure still chats", func(t *testing.T) {
		repo := newMockRepository()
		provider := llm.NewMockProvider(llm.MockResponse{Text: "Keep going!"})
		svc := newTestCoachService(repo, provider)

		repo.topics.On("ListByStudent", ctx, uint(4)).Return(nil, errors.New("db down"))

		resp, err := svc.Chat(ctx, 4, &ChatRequest{Message: "motivate me"})
		require.NoError(t, err)
		assert.Equal(t, SourceLLM, resp.Source)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		svc := newTestCoachService(newMockRepository(), nil)

		_, err := svc.Chat(ctx, 4, &ChatRequest{})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})
}
