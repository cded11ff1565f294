// Package ai wraps a language model for cover letters and job-fit scoring.
// Every call degrades to a deterministic template when no model is
// configured or the model misbehaves, so callers never see model errors.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/dmitrijs2005/jobassist/internal/logging"
)

// CoverLetterRequest carries what the letter is written from.
type CoverLetterRequest struct {
	JobTitle        string
	Company         string
	JobDescription  string
	Name            string
	Skills          []string
	ExperienceYears float64
	PreferredRoles  []string
	CustomMessage   string
}

// MatchResult is a 0..100 fit score with short human-readable reasons.
type MatchResult struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

type Assistant struct {
	model  llms.Model
	logger logging.Logger
}

// New returns an assistant over model. A nil model means fallbacks only.
func New(model llms.Model, logger logging.Logger) *Assistant {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Assistant{model: model, logger: logger.With("module", "ai")}
}

var newGoogleAI = func(ctx context.Context, apiKey, model string) (llms.Model, error) {
	return googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
}

// NewGemini connects to Gemini when apiKey is set and otherwise returns a
// fallback-only assistant.
func NewGemini(ctx context.Context, apiKey, model string, logger logging.Logger) (*Assistant, error) {
	if apiKey == "" {
		return New(nil, logger), nil
	}
	m, err := newGoogleAI(ctx, apiKey, model)
	if err != nil {
		return nil, fmt.Errorf("error creating gemini client: %w", err)
	}
	return New(m, logger), nil
}

// Enabled reports whether a model is configured.
func (a *Assistant) Enabled() bool {
	return a != nil && a.model != nil
}

const coverLetterPrompt = `Generate a professional cover letter for a job application.

Job Details:
- Position: %s
- Company: %s
- Description: %s

Candidate Profile:
- Name: %s
- Skills: %s
- Experience: %s years
- Preferred Roles: %s
%s
Write a compelling, personalized cover letter that opens with enthusiasm for the role,
highlights relevant skills and experience, and ends with a call to action.
Keep it concise (about 300-400 words) and professional.`

// CoverLetter asks the model for a letter and falls back to a template.
func (a *Assistant) CoverLetter(ctx context.Context, req CoverLetterRequest) string {
	if !a.Enabled() {
		return FallbackCoverLetter(req)
	}

	notes := ""
	if req.CustomMessage != "" {
		notes = "\nAdditional Notes from Candidate: " + req.CustomMessage + "\n"
	}
	prompt := fmt.Sprintf(coverLetterPrompt,
		req.JobTitle, req.Company, req.JobDescription,
		req.Name, strings.Join(req.Skills, ", "), formatYears(req.ExperienceYears),
		strings.Join(req.PreferredRoles, ", "), notes,
	)

	resp, err := llms.GenerateFromSinglePrompt(ctx, a.model, prompt,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(1024),
	)
	if err != nil {
		a.logger.Warn(ctx, "cover letter generation failed, using template", "error", err)
		return FallbackCoverLetter(req)
	}
	if strings.TrimSpace(resp) == "" {
		return FallbackCoverLetter(req)
	}
	return resp
}

const matchPrompt = `Analyze how well this candidate matches the job.

Job Description:
%s

Candidate:
- Skills: %s
- Experience: %s years

Respond in JSON format only:
{
  "score": <number 0-100>,
  "reasons": ["reason1", "reason2", "reason3"]
}`

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// AnalyzeMatch scores a candidate against a job description.
func (a *Assistant) AnalyzeMatch(ctx context.Context, jobDescription string, skills []string, experienceYears float64) MatchResult {
	if !a.Enabled() {
		return FallbackMatch(skills)
	}

	prompt := fmt.Sprintf(matchPrompt, jobDescription, strings.Join(skills, ", "), formatYears(experienceYears))
	resp, err := llms.GenerateFromSinglePrompt(ctx, a.model, prompt,
		llms.WithTemperature(0.3),
		llms.WithMaxTokens(256),
	)
	if err != nil {
		a.logger.Warn(ctx, "match analysis failed, using fallback score", "error", err)
		return FallbackMatch(skills)
	}

	res, ok := parseMatch(resp)
	if !ok {
		a.logger.Warn(ctx, "unparsable match analysis, using fallback score")
		return FallbackMatch(skills)
	}
	return res
}

func parseMatch(text string) (MatchResult, bool) {
	raw := jsonObject.FindString(text)
	if raw == "" {
		return MatchResult{}, false
	}
	var out struct {
		Score   *float64 `json:"score"`
		Reasons []string `json:"reasons"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out.Score == nil {
		return MatchResult{}, false
	}
	score := int(math.Round(math.Max(0, math.Min(100, *out.Score))))
	if out.Reasons == nil {
		out.Reasons = []string{}
	}
	return MatchResult{Score: score, Reasons: out.Reasons}, true
}

func formatYears(y float64) string {
	return strconv.FormatFloat(y, 'f', -1, 64)
}
