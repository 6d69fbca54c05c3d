package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-interview-coach-be/internal/pkg/apperror"
	"ai-interview-coach-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply   string
	err     error
	history []llm.Message
	opts    llm.Options
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.history = history
	for _, opt := range options {
		opt(&f.opts)
	}
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func TestGenerateQuestion(t *testing.T) {
	provider := &fakeProvider{reply: "  What is a goroutine?  \n"}
	client := NewClient(provider)

	question, err := client.GenerateQuestion(context.Background(), SessionContext{
		Role:           "Backend Engineer",
		JobDescription: "Build Go services.",
		ResumeText:     "Go and Postgres.",
	})
	require.NoError(t, err)
	assert.Equal(t, "What is a goroutine?", question)
	assert.InDelta(t, 0.7, provider.opts.Temperature, 0.001)
	assert.Equal(t, 100, provider.opts.MaxTokens)
	require.Len(t, provider.history, 2)
	assert.Equal(t, "system", provider.history[0].Role)
}

func TestGenerateQuestion_TruncatesContext(t *testing.T) {
	provider := &fakeProvider{reply: "Next question?"}
	client := NewClient(provider)

	long := strings.Repeat("x", 2000)
	_, err := client.GenerateQuestion(context.Background(), SessionContext{
		Role:           "Backend Engineer",
		JobDescription: long,
		ResumeText:     long,
	})
	require.NoError(t, err)
	assert.Less(t, len(provider.history[1].Content), 1500)
}

func TestGenerateQuestion_IncludesOnlyRecentQuestions(t *testing.T) {
	provider := &fakeProvider{reply: "Next question?"}
	client := NewClient(provider)

	_, err := client.GenerateQuestion(context.Background(), SessionContext{
		Role:           "Backend Engineer",
		JobDescription: "Build Go services.",
		ResumeText:     "Go and Postgres.",
		AskedQuestions: []string{"first", "second", "third"},
	})
	require.NoError(t, err)

	prompt := provider.history[1].Content
	assert.NotContains(t, prompt, "first")
	assert.Contains(t, prompt, "second")
	assert.Contains(t, prompt, "third")
}

func TestGenerateQuestion_EmptyReply(t *testing.T) {
	provider := &fakeProvider{reply: "   "}
	client := NewClient(provider)

	_, err := client.GenerateQuestion(context.Background(), SessionContext{Role: "Backend Engineer"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindUpstreamGeneration, apperror.KindOf(err))
}

func TestScoreResponse(t *testing.T) {
	provider := &fakeProvider{reply: "0.8"}
	client := NewClient(provider)

	sc := SessionContext{Role: "Backend Engineer", JobDescription: "Build Go services."}
	score, err := client.ScoreResponse(context.Background(), sc, "Q?", "A.")
	require.NoError(t, err)
	assert.InDelta(t, 0.8, score, 0.001)
	assert.InDelta(t, 0.3, provider.opts.Temperature, 0.001)
	assert.Equal(t, 10, provider.opts.MaxTokens)

	prompt := provider.history[1].Content
	assert.Contains(t, prompt, "Backend Engineer")
	assert.Contains(t, prompt, "Build Go services.")
	assert.Contains(t, prompt, "technical accuracy at 40%")
	assert.Contains(t, prompt, "clarity at 30%")
	assert.Contains(t, prompt, "practical understanding at 30%")
}

func TestScoreResponse_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}
	client := NewClient(provider)

	_, err := client.ScoreResponse(context.Background(), SessionContext{Role: "Backend Engineer"}, "Q?", "A.")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUpstreamGeneration, apperror.KindOf(err))
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want float64
	}{
		{"plain number", "0.8", 0.8},
		{"with whitespace", "  0.65\n", 0.65},
		{"trailing period", "0.9.", 0.9},
		{"number with trailing words", "0.7 out of 1", 0.7},
		{"clamped high", "1.5", 1},
		{"clamped low", "-0.2", 0},
		{"not a number", "great answer", DefaultScore},
		{"empty", "", DefaultScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseScore(tt.out), 0.0001)
		})
	}
}

func TestGenerateFeedback(t *testing.T) {
	provider := &fakeProvider{reply: "Strong answer. Be more specific. Practice examples."}
	client := NewClient(provider)

	sc := SessionContext{Role: "Backend Engineer"}
	feedback, err := client.GenerateFeedback(context.Background(), sc, "Q?", "A.", 0.8)
	require.NoError(t, err)
	assert.Contains(t, feedback, "Strong answer")
	assert.Equal(t, 150, provider.opts.MaxTokens)

	prompt := provider.history[1].Content
	assert.Contains(t, prompt, "Backend Engineer")
	assert.Contains(t, prompt, "80.00%")
}
