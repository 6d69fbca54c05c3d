package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ai-interview-coach-be/internal/constant"
	"ai-interview-coach-be/internal/pkg/apperror"
	"ai-interview-coach-be/pkg/llm"
)

const (
	questionTemperature = 0.7
	questionMaxTokens   = 100

	scoreTemperature = 0.3
	scoreMaxTokens   = 10

	feedbackTemperature = 0.7
	feedbackMaxTokens   = 150

	// DefaultScore is used when the model returns something that is not a
	// number.
	DefaultScore = 0.5

	generationTimeout = 45 * time.Second
)

// Client implements Generator on top of any llm.LLMProvider.
type Client struct {
	provider llm.LLMProvider
}

func NewClient(provider llm.LLMProvider) *Client {
	return &Client{provider: provider}
}

var _ Generator = (*Client)(nil)

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func previousQuestionsBlock(asked []string) string {
	if len(asked) == 0 {
		return ""
	}
	recent := asked
	if len(recent) > constant.PromptHistoryQuestions {
		recent = recent[len(recent)-constant.PromptHistoryQuestions:]
	}
	var b strings.Builder
	b.WriteString("\nQuestions already asked:\n")
	for _, q := range recent {
		b.WriteString("- ")
		b.WriteString(q)
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Client) GenerateQuestion(ctx context.Context, sc SessionContext) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	prompt := fmt.Sprintf(constant.InterviewerQuestionPrompt,
		sc.Role,
		truncate(sc.JobDescription, constant.PromptContextMaxChars),
		truncate(sc.ResumeText, constant.PromptContextMaxChars),
		previousQuestionsBlock(sc.AskedQuestions),
	)

	out, err := c.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.InterviewerSystemPrompt},
		{Role: "user", Content: prompt},
	},
		llm.WithTemperature(questionTemperature),
		llm.WithMaxTokens(questionMaxTokens),
	)
	if err != nil {
		return "", apperror.UpstreamGeneration("failed to generate interview question", err)
	}

	question := strings.TrimSpace(out)
	if question == "" {
		return "", apperror.UpstreamGeneration("model returned an empty question", nil)
	}
	return question, nil
}

func (c *Client) ScoreResponse(ctx context.Context, sc SessionContext, question, response string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	prompt := fmt.Sprintf(constant.ScorerPrompt,
		sc.Role,
		truncate(sc.JobDescription, constant.PromptContextMaxChars),
		question,
		response,
	)
	out, err := c.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.ScorerSystemPrompt},
		{Role: "user", Content: prompt},
	},
		llm.WithTemperature(scoreTemperature),
		llm.WithMaxTokens(scoreMaxTokens),
	)
	if err != nil {
		return 0, apperror.UpstreamGeneration("failed to score response", err)
	}

	return ParseScore(out), nil
}

// ParseScore extracts a score from model output, clamping to [0, 1] and
// falling back to DefaultScore when nothing numeric comes back.
func ParseScore(out string) float64 {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) == 0 {
		return DefaultScore
	}
	score, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "."), 64)
	if err != nil {
		return DefaultScore
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func (c *Client) GenerateFeedback(ctx context.Context, sc SessionContext, question, response string, score float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	prompt := fmt.Sprintf(constant.FeedbackPrompt,
		sc.Role,
		question,
		response,
		fmt.Sprintf("%.2f%%", score*100),
	)
	out, err := c.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.FeedbackSystemPrompt},
		{Role: "user", Content: prompt},
	},
		llm.WithTemperature(feedbackTemperature),
		llm.WithMaxTokens(feedbackMaxTokens),
	)
	if err != nil {
		return "", apperror.UpstreamGeneration("failed to generate feedback", err)
	}

	feedback := strings.TrimSpace(out)
	if feedback == "" {
		return "", apperror.UpstreamGeneration("model returned empty feedback", nil)
	}
	return feedback, nil
}
