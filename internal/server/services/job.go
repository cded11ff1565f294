package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/logging"
	"github.com/dmitrijs2005/jobassist/internal/server/ai"
	"github.com/dmitrijs2005/jobassist/internal/server/jobsource"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/repomanager"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// Matches only analyzes this many of the newest cached jobs.
	maxMatchCandidates = 50
)

var defaultRequiredSkills = []string{"Python", "JavaScript", "React", "Node.js", "AWS", "PostgreSQL"}

type SearchParams struct {
	Query      string
	Location   string
	RemoteOnly bool
	Page       int
	Limit      int
}

type SearchResult struct {
	Jobs       []models.ScoredJob `json:"jobs"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
}

type JobDetails struct {
	Job           *models.Job          `json:"job"`
	MatchAnalysis models.MatchAnalysis `json:"matchAnalysis"`
}

type MatchesResult struct {
	Matches         []models.JobMatch `json:"matches"`
	ProfileStrength int               `json:"profileStrength"`
	Suggestions     []string          `json:"suggestions"`
}

type JobService struct {
	repomanager repomanager.RepositoryManager
	source      jobsource.Source
	assistant   *ai.Assistant
	profiles    *ProfileService
	logger      logging.Logger
}

func NewJobService(m repomanager.RepositoryManager, source jobsource.Source, assistant *ai.Assistant, profiles *ProfileService, logger logging.Logger) *JobService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &JobService{
		repomanager: m,
		source:      source,
		assistant:   assistant,
		profiles:    profiles,
		logger:      logger.With("module", "jobs"),
	}
}

// searchScore is 70 without profile skills, otherwise 50 plus 15 per
// skill mentioned in the title or description, capped at 95.
func searchScore(j *models.Job, skills []string) int {
	if len(skills) == 0 {
		return 70
	}
	text := strings.ToLower(j.Title + "\n" + j.Description)
	n := 0
	for _, s := range skills {
		if s != "" && strings.Contains(text, strings.ToLower(s)) {
			n++
		}
	}
	return min(95, 50+15*n)
}

func (s *JobService) Search(ctx context.Context, p *models.Principal, params SearchParams) (*SearchResult, error) {
	if params.Page == 0 {
		params.Page = 1
	}
	if params.Limit == 0 {
		params.Limit = defaultPageSize
	}
	if params.Page < 1 {
		return nil, fmt.Errorf("%w: page must be positive", common.ErrorValidation)
	}
	if params.Limit < 1 || params.Limit > maxPageSize {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", common.ErrorValidation, maxPageSize)
	}

	prof, err := s.profiles.Get(ctx, p)
	if err != nil {
		return nil, err
	}

	found, err := s.source.Search(ctx, jobsource.Query{
		Text:       strings.TrimSpace(params.Query),
		Location:   strings.TrimSpace(params.Location),
		RemoteOnly: params.RemoteOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("error searching jobs: %w", err)
	}

	if err := s.repomanager.Jobs().SaveAll(ctx, found); err != nil {
		return nil, fmt.Errorf("error caching jobs: %w", err)
	}

	scored := make([]models.ScoredJob, 0, len(found))
	for _, j := range found {
		scored = append(scored, models.ScoredJob{Job: *j, MatchScore: searchScore(j, prof.Skills)})
	}
	sort.SliceStable(scored, func(i, k int) bool { return scored[i].MatchScore > scored[k].MatchScore })

	total := len(scored)
	start := min((params.Page-1)*params.Limit, total)
	end := min(start+params.Limit, total)

	s.logger.Debug(ctx, "jobs searched", "user_id", p.UserID, "query", params.Query, "total", total)

	return &SearchResult{
		Jobs:       scored[start:end],
		Total:      total,
		Page:       params.Page,
		TotalPages: (total + params.Limit - 1) / params.Limit,
	}, nil
}

func requiredSkills(j *models.Job) []string {
	if len(j.Skills) > 0 {
		return j.Skills
	}
	return defaultRequiredSkills
}

func splitSkills(required, have []string) (matching, missing []string) {
	matching, missing = []string{}, []string{}
	for _, r := range required {
		found := false
		for _, h := range have {
			if strings.EqualFold(r, h) {
				found = true
				break
			}
		}
		if found {
			matching = append(matching, r)
		} else {
			missing = append(missing, r)
		}
	}
	return matching, missing
}

func recommendation(score int, reasons []string) string {
	switch {
	case len(reasons) > 0:
		return strings.Join(reasons, " ")
	case score >= 80:
		return "Excellent match! Your skills align very well with this position. We recommend applying."
	case score >= 60:
		return "Good match! You have most of the required skills. Consider highlighting relevant projects in your application."
	case score >= 40:
		return "Moderate match. Focus on transferable skills and consider upskilling in the missing areas."
	}
	return "This role may require skills outside your current profile. Consider it as a stretch opportunity."
}

// Details returns a cached job with an analysis of the caller's fit.
func (s *JobService) Details(ctx context.Context, p *models.Principal, jobID string) (*JobDetails, error) {
	job, err := s.repomanager.Jobs().Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	prof, err := s.profiles.Get(ctx, p)
	if err != nil {
		return nil, err
	}

	matching, missing := splitSkills(requiredSkills(job), prof.Skills)
	res := s.assistant.AnalyzeMatch(ctx, job.Description, prof.Skills, prof.ExperienceYears)

	return &JobDetails{
		Job: job,
		MatchAnalysis: models.MatchAnalysis{
			Score:          res.Score,
			MatchingSkills: matching,
			MissingSkills:  missing,
			Recommendation: recommendation(res.Score, res.Reasons),
			Reasons:        res.Reasons,
		},
	}, nil
}

// Matches scores cached jobs against the caller's profile and returns those
// at or above minScore, best first.
func (s *JobService) Matches(ctx context.Context, p *models.Principal, minScore, limit int) (*MatchesResult, error) {
	if minScore < 0 || minScore > 100 {
		return nil, fmt.Errorf("%w: minScore must be between 0 and 100", common.ErrorValidation)
	}
	if limit < 1 || limit > maxPageSize {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", common.ErrorValidation, maxPageSize)
	}

	prof, err := s.profiles.Get(ctx, p)
	if err != nil {
		return nil, err
	}
	cached, err := s.repomanager.Jobs().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing jobs: %w", err)
	}
	sort.SliceStable(cached, func(i, k int) bool { return cached[i].PostedAt.After(cached[k].PostedAt) })
	if len(cached) > maxMatchCandidates {
		cached = cached[:maxMatchCandidates]
	}

	all := make([]models.JobMatch, 0, len(cached))
	for _, j := range cached {
		res := s.assistant.AnalyzeMatch(ctx, j.Description, prof.Skills, prof.ExperienceYears)
		_, missing := splitSkills(requiredSkills(j), prof.Skills)
		all = append(all, models.JobMatch{
			JobID:         j.ID,
			JobTitle:      j.Title,
			Company:       j.Company,
			OverallScore:  res.Score,
			Reasons:       res.Reasons,
			MissingSkills: missing,
		})
	}
	sort.SliceStable(all, func(i, k int) bool { return all[i].OverallScore > all[k].OverallScore })

	matches := make([]models.JobMatch, 0, limit)
	for _, m := range all {
		if len(matches) == limit {
			break
		}
		if m.OverallScore >= minScore {
			matches = append(matches, m)
		}
	}

	suggestions := prof.Suggestions()
	if top := topMissingSkills(all, 10, 3); len(top) > 0 {
		suggestions = append(suggestions, "Consider learning: "+strings.Join(top, ", "))
	}

	return &MatchesResult{
		Matches:         matches,
		ProfileStrength: prof.Strength(),
		Suggestions:     suggestions,
	}, nil
}

// topMissingSkills counts missing skills over the first window matches and
// returns the n most frequent, ties in first-seen order.
func topMissingSkills(matches []models.JobMatch, window, n int) []string {
	if len(matches) > window {
		matches = matches[:window]
	}
	counts := map[string]int{}
	var order []string
	for _, m := range matches {
		for _, sk := range m.MissingSkills {
			if _, ok := counts[sk]; !ok {
				order = append(order, sk)
			}
			counts[sk]++
		}
	}
	sort.SliceStable(order, func(i, k int) bool { return counts[order[i]] > counts[order[k]] })
	if len(order) > n {
		order = order[:n]
	}
	return order
}
