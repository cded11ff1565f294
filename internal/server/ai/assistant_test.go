package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, m := range messages {
		for _, p := range m.Parts {
			if t, ok := p.(llms.TextContent); ok {
				f.prompts = append(f.prompts, t.Text)
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

var letterReq = CoverLetterRequest{
	JobTitle:        "Backend Engineer",
	Company:         "Stripe",
	Name:            "Ada",
	Skills:          []string{"Go", "SQL", "AWS", "Docker"},
	ExperienceYears: 4,
	CustomMessage:   "I love payments",
}

func TestCoverLetter_NoModelUsesTemplate(t *testing.T) {
	a := New(nil, nil)
	assert.False(t, a.Enabled())

	got := a.CoverLetter(context.Background(), letterReq)
	assert.True(t, strings.HasPrefix(got, "Dear Hiring Manager,"))
	assert.Contains(t, got, "Backend Engineer position at Stripe")
	assert.Contains(t, got, "4 years of experience and expertise in Go, SQL, AWS,")
	assert.Contains(t, got, "includes Go, SQL, AWS, Docker.")
	assert.True(t, strings.HasSuffix(got, "Best regards,\nAda"))
}

func TestCoverLetter_UsesModel(t *testing.T) {
	m := &fakeModel{reply: "Hello Stripe"}
	a := New(m, nil)

	assert.Equal(t, "Hello Stripe", a.CoverLetter(context.Background(), letterReq))
	require.Len(t, m.prompts, 1)
	assert.Contains(t, m.prompts[0], "Position: Backend Engineer")
	assert.Contains(t, m.prompts[0], "Additional Notes from Candidate: I love payments")
}

func TestCoverLetter_ModelFailureFallsBack(t *testing.T) {
	for name, m := range map[string]*fakeModel{
		"error": {err: errors.New("quota")},
		"empty": {reply: "  \n"},
	} {
		t.Run(name, func(t *testing.T) {
			got := New(m, nil).CoverLetter(context.Background(), letterReq)
			assert.Equal(t, FallbackCoverLetter(letterReq), got)
		})
	}
}

func TestAnalyzeMatch_ParsesModelJSON(t *testing.T) {
	m := &fakeModel{reply: "Sure!\n```json\n{\"score\": 87.4, \"reasons\": [\"Go\", \"SQL\"]}\n```"}
	got := New(m, nil).AnalyzeMatch(context.Background(), "desc", []string{"Go"}, 2)
	assert.Equal(t, MatchResult{Score: 87, Reasons: []string{"Go", "SQL"}}, got)
	assert.Contains(t, m.prompts[0], "Experience: 2 years")
}

func TestAnalyzeMatch_ClampsScore(t *testing.T) {
	m := &fakeModel{reply: `{"score": 140}`}
	got := New(m, nil).AnalyzeMatch(context.Background(), "desc", nil, 0)
	assert.Equal(t, 100, got.Score)
	assert.Empty(t, got.Reasons)
}

func TestAnalyzeMatch_FallsBack(t *testing.T) {
	skills := []string{"Python", "React"}
	for name, m := range map[string]*fakeModel{
		"error":    {err: errors.New("boom")},
		"no json":  {reply: "I think they fit well"},
		"bad json": {reply: `{"score": "high"}`},
		"no score": {reply: `{"reasons": ["x"]}`},
	} {
		t.Run(name, func(t *testing.T) {
			got := New(m, nil).AnalyzeMatch(context.Background(), "desc", skills, 1)
			assert.Equal(t, FallbackMatch(skills), got)
		})
	}
}

func TestFallbackMatch(t *testing.T) {
	tests := []struct {
		name   string
		skills []string
		score  int
		strong string
	}{
		{"none", nil, 50, "Diverse skill set"},
		{"non tech", []string{"Cooking"}, 50, "Diverse skill set"},
		{"two", []string{"Python", "Go", "ReactJS"}, 70, "Strong in: Python, ReactJS"},
		{"capped", []string{"JavaScript", "Python", "React", "Node.js", "TypeScript", "AWS"}, 95, "Strong in: JavaScript, Python, React"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FallbackMatch(tt.skills)
			assert.Equal(t, tt.score, got.Score)
			require.Len(t, got.Reasons, 3)
			assert.Equal(t, tt.strong, got.Reasons[1])
			assert.Equal(t, "Profile appears complete", got.Reasons[2])
		})
	}
}

func TestNewGemini(t *testing.T) {
	a, err := NewGemini(context.Background(), "", "gemini-1.5-flash", nil)
	require.NoError(t, err)
	assert.False(t, a.Enabled())

	orig := newGoogleAI
	t.Cleanup(func() { newGoogleAI = orig })

	var gotKey, gotModel string
	newGoogleAI = func(_ context.Context, key, model string) (llms.Model, error) {
		gotKey, gotModel = key, model
		return &fakeModel{}, nil
	}
	a, err = NewGemini(context.Background(), "k", "m", nil)
	require.NoError(t, err)
	assert.True(t, a.Enabled())
	assert.Equal(t, "k", gotKey)
	assert.Equal(t, "m", gotModel)

	newGoogleAI = func(context.Context, string, string) (llms.Model, error) {
		return nil, errors.New("no network")
	}
	_, err = NewGemini(context.Background(), "k", "m", nil)
	assert.Error(t, err)
}
