package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/adaptlearn/learning-service/internal/llm"
	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/repositories"
	"github.com/adaptlearn/learning-service/internal/validator"
)

const (
	coachHistoryLimit = 10
	contextTopicLimit = 10

	SourceLLM    = "llm"
	SourceStatic = "static"
)

const coachSystemPrompt = `You are LearnBot, a warm, encouraging, and expert AI learning coach.
Your personality: patient, motivating, clear, and adaptive.

Your capabilities:
- Explain any academic concept in simple terms with examples
- Identify student mistake patterns and give targeted advice
- Motivate students who are struggling
- Create micro-summaries of topics
- Suggest study strategies based on performance data

When responding:
- Be concise (3-5 sentences for explanations unless asked for more)
- Always end with an encouraging note or actionable next step
- Use bullet points for structured advice
- Reference the student's specific weak topics when relevant
- Use emojis sparingly to make responses friendly`

// CoachService answers study questions, through a language model when one
// is configured and with canned replies otherwise.
type CoachService interface {
	Chat(ctx context.Context, studentID uint, req *ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	Message string        `json:"message" validate:"required,max=4000"`
	History []llm.Message `json:"history" validate:"omitempty,max=50,dive"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	StudentID uint   `json:"student_id"`
	// Source is "llm" or "static".
	Source string `json:"source"`
}

type coachService struct {
	repo        repositories.Repository
	provider    llm.Provider
	maxTokens   int
	temperature float64
	logger      *ServiceLogger
	validator   *validator.Validator
	now         func() time.Time
}

// NewCoachService builds the coach. provider may be nil, in which case
// every reply comes from the static fallback.
func NewCoachService(repo repositories.Repository, provider llm.Provider, cfg llm.Config, logger *slog.Logger, validator *validator.Validator) CoachService {
	return &coachService{
		repo:        repo,
		provider:    provider,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      NewServiceLogger(logger, "coach"),
		validator:   validator,
		now:         time.Now,
	}
}

func (s *coachService) Chat(ctx context.Context, studentID uint, req *ChatRequest) (*ChatResponse, error) {
	op := s.logger.WithOperation(ctx, "chat", studentID)

	if err := s.validator.Validate(req); err != nil {
		err = validationFailure(err)
		op.LogResult(err)
		return nil, err
	}

	resp := &ChatResponse{StudentID: studentID, Source: SourceStatic}

	if s.provider == nil {
		resp.Response = StaticReply(req.Message)
		op.LogResult(nil, "source", resp.Source)
		return resp, nil
	}

	system := coachSystemPrompt + "\n\n--- Student Context ---\n" + s.studentContext(ctx, studentID) + "\n--- End Context ---"
	out, err := s.provider.Generate(ctx, llm.Request{
		System:      system,
		Messages:    chatMessages(req.History, req.Message),
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil || strings.TrimSpace(out.Text) == "" {
		s.logger.Logger().Warn("Coach model failed, using static reply",
			"student_id", studentID, "model", s.provider.ModelID(), "error", err)
		resp.Response = StaticReply(req.Message)
		op.LogResult(nil, "source", resp.Source)
		return resp, nil
	}

	resp.Response = out.Text
	resp.Source = SourceLLM
	op.LogResult(nil, "source", resp.Source, "model", out.Model, "output_tokens", out.Usage.OutputTokens)
	return resp, nil
}

// studentContext summarises the student's weak and strong topics and
// today's planned chapters. Lookup failures shrink the context rather than
// failing the chat.
func (s *coachService) studentContext(ctx context.Context, studentID uint) string {
	topics, err := s.repo.TopicPerformance().ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Logger().Warn("Failed to load topics for coach context", "student_id", studentID, "error", err)
	}
	if len(topics) == 0 {
		return "The student has not completed any tests yet."
	}
	if len(topics) > contextTopicLimit {
		topics = topics[:contextTopicLimit]
	}

	var weak, strong []string
	for _, tp := range topics {
		switch {
		case tp.WeaknessScore > weakThreshold:
			weak = append(weak, tp.Topic)
		case tp.WeaknessScore < strongThreshold:
			strong = append(strong, tp.Topic)
		}
	}

	lines := []string{
		fmt.Sprintf("Student ID: %d", studentID),
		"Weak topics: " + joinOrNone(weak, 5),
		"Strong topics: " + joinOrNone(strong, 3),
	}

	plan, err := s.repo.RevisionPlan().GetActive(ctx, studentID)
	if err != nil {
		s.logger.Logger().Warn("Failed to load plan for coach context", "student_id", studentID, "error", err)
	}
	if plan != nil {
		if chapters := todaysChapters(plan, dayOf(s.now())); len(chapters) > 0 {
			lines = append(lines, "Today's plan: "+strings.Join(chapters, ", "))
		}
	}
	return strings.Join(lines, "\n")
}

// todaysChapters returns the chapters of the plan day dated today, or of
// the first day when today falls outside the plan.
func todaysChapters(plan *models.RevisionPlan, now time.Time) []string {
	days := plan.PlanData.Data().Days
	if len(days) == 0 {
		return nil
	}
	day := days[0]
	for _, d := range days {
		if d.Date == now.Format(isoDate) {
			day = d
			break
		}
	}
	chapters := make([]string, 0, len(day.Sessions))
	for _, session := range day.Sessions {
		chapters = append(chapters, session.Chapter)
	}
	return chapters
}

func chatMessages(history []llm.Message, message string) []llm.Message {
	if len(history) > coachHistoryLimit {
		history = history[len(history)-coachHistoryLimit:]
	}
	out := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			continue
		}
		out = append(out, m)
	}
	return append(out, llm.Message{Role: llm.RoleUser, Content: message})
}

func joinOrNone(items []string, limit int) string {
	if len(items) == 0 {
		return "None identified yet"
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}

var staticReplies = []struct {
	keywords []string
	reply    string
}{
	{
		keywords: []string{"weak", "struggling", "hard", "difficult", "fail"},
		reply: "🎯 I see you're finding some topics challenging, and that's completely normal! " +
			"The key is to break them into small pieces and practice one concept at a time.\n\n" +
			"• Check your revision plan for today's recommended topics\n" +
			"• Focus 20-minute sessions on your weakest areas\n" +
			"• Review the explanations after each test submission\n\n" +
			"💪 You've got this! Every expert was once a beginner.",
	},
	{
		keywords: []string{"plan", "today", "study", "schedule", "revision"},
		reply: "📅 Your personalized 7-day revision plan is on the **Planner** page!\n\n" +
			"It's generated from your test performance, so weaker topics get more study time. " +
			"Head to the Planner page, click **Generate My Plan**, and you'll see day-by-day sessions " +
			"with resource links.\n\n" +
			"🎯 Aim for at least 60-90 minutes of focused study today!",
	},
	{
		keywords: []string{"topic", "analytics", "performance", "score", "accuracy"},
		reply: "📊 Your analytics are on the **Analytics** page. It shows:\n\n" +
			"• Per-topic accuracy bars (green = strong, red = weak)\n" +
			"• Overall test accuracy across all attempts\n" +
			"• Your weakest and strongest topics ranked\n" +
			"• Complete attempt history\n\n" +
			"Once you've taken a few tests, click **Generate Revision Plan** on that page " +
			"to get a personalized study schedule! 🚀",
	},
	{
		keywords: []string{"explain", "what is", "how does", "define", "what are"},
		reply: "🔍 Great question! Full concept explanations need a language model configured on the server:\n\n" +
			"1. Get a Gemini key at https://aistudio.google.com (free tier available)\n" +
			"2. Set `LLM_PROVIDER=gemini` and `GEMINI_API_KEY=your_key`\n" +
			"3. Restart the server\n\n" +
			"Once set up, I can explain any topic in depth with worked examples! 📚",
	},
	{
		keywords: []string{"hello", "hi", "hey", "start", "help"},
		reply: "👋 Hello! I'm **LearnBot**, your AI study coach!\n\n" +
			"Here's what I can help you with:\n" +
			"• 📚 Explain any topic or concept\n" +
			"• 🎯 Review your weak areas from analytics\n" +
			"• 📅 Discuss your revision plan\n" +
			"• 💪 Motivate and guide your study sessions\n\n" +
			"What would you like to work on today?",
	},
}

const demoReply = "🤖 Thanks for your question! I'm in **demo mode** right now (no language model configured).\n\n" +
	"To get real AI responses, set one of:\n" +
	"- `GEMINI_API_KEY=your_key` (free at aistudio.google.com)\n" +
	"- `OPENAI_API_KEY=your_key`\n" +
	"- `ANTHROPIC_API_KEY=your_key`\n\n" +
	"Meanwhile, explore your **Analytics** and **Planner** pages for personalized study insights! 📊"

// StaticReply picks a canned reply by keyword. Groups are checked in order
// and the first match wins.
func StaticReply(message string) string {
	msg := strings.ToLower(message)
	for _, group := range staticReplies {
		for _, kw := range group.keywords {
			if strings.Contains(msg, kw) {
				return group.reply
			}
		}
	}
	return demoReply
}
