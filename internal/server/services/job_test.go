package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
)

func setSkills(t *testing.T, f *fixture, p *models.Principal, skills ...string) {
	t.Helper()
	_, err := f.profiles.Update(context.Background(), p, ProfileUpdate{Skills: skills})
	require.NoError(t, err)
}

func TestSearch_PaginatesAndCaches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.signUp(t, "u1@example.com")

	res, err := f.jobs.Search(ctx, p, SearchParams{Page: 4, Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, 15, res.Total)
	assert.Equal(t, 4, res.TotalPages)
	assert.Equal(t, 4, res.Page)
	assert.Len(t, res.Jobs, 3)
	for _, j := range res.Jobs {
		assert.Equal(t, 70, j.MatchScore, "no skills means a neutral score")
	}

	cached, err := f.manager.Jobs().List(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 15)

	res, err = f.jobs.Search(ctx, p, SearchParams{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, res.Jobs)
	assert.Equal(t, 1, res.TotalPages)
}

func TestSearch_ScoresBySkills(t *testing.T) {
	f := newFixture(t)
	p := f.signUp(t, "u1@example.com")
	setSkills(t, f, p, "Python")

	res, err := f.jobs.Search(context.Background(), p, SearchParams{})
	require.NoError(t, err)
	require.NotEmpty(t, res.Jobs)

	for i, j := range res.Jobs {
		want := 50
		if strings.Contains(strings.ToLower(j.Title+j.Description), "python") {
			want = 65
		}
		assert.Equal(t, want, j.MatchScore, j.Title)
		if i > 0 {
			assert.LessOrEqual(t, j.MatchScore, res.Jobs[i-1].MatchScore)
		}
	}
	assert.Equal(t, 65, res.Jobs[0].MatchScore)
}

func TestSearchScore_Capped(t *testing.T) {
	j := &models.Job{Title: "go python java rust", Description: "sql aws"}
	assert.Equal(t, 95, searchScore(j, []string{"go", "python", "java", "rust"}))
	assert.Equal(t, 50, searchScore(j, []string{"cobol", ""}))
}

func TestSearch_Validation(t *testing.T) {
	f := newFixture(t)
	p := f.signUp(t, "u1@example.com")

	for name, params := range map[string]SearchParams{
		"negative page": {Page: -1},
		"huge limit":    {Limit: 101},
		"negative":      {Limit: -5},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.jobs.Search(context.Background(), p, params)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.signUp(t, "u1@example.com")
	setSkills(t, f, p, "python", "AWS")

	_, err := f.jobs.Details(ctx, p, "unknown")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	res, err := f.jobs.Search(ctx, p, SearchParams{Query: "Stripe"})
	require.NoError(t, err)
	require.Len(t, res.Jobs, 1)

	d, err := f.jobs.Details(ctx, p, res.Jobs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, res.Jobs[0].ID, d.Job.ID)
	assert.Equal(t, []string{"Python", "AWS"}, d.MatchAnalysis.MatchingSkills)
	assert.Equal(t, []string{"PyTorch"}, d.MatchAnalysis.MissingSkills)
	assert.Equal(t, 70, d.MatchAnalysis.Score)
	assert.Equal(t, "Has 2 relevant skills Strong in: python, AWS Profile appears complete", d.MatchAnalysis.Recommendation)
}

func TestRecommendationTiers(t *testing.T) {
	assert.Equal(t, "a b", recommendation(10, []string{"a", "b"}))
	assert.True(t, strings.HasPrefix(recommendation(85, nil), "Excellent match!"))
	assert.True(t, strings.HasPrefix(recommendation(60, nil), "Good match!"))
	assert.True(t, strings.HasPrefix(recommendation(40, nil), "Moderate match."))
	assert.True(t, strings.HasPrefix(recommendation(39, nil), "This role may require"))
}

func TestMatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.signUp(t, "u1@example.com")
	setSkills(t, f, p, "Python", "AWS")

	_, err := f.jobs.Search(ctx, p, SearchParams{})
	require.NoError(t, err)

	res, err := f.jobs.Matches(ctx, p, 70, 20)
	require.NoError(t, err)
	assert.Len(t, res.Matches, 15)
	assert.Equal(t, 8, res.ProfileStrength)
	for _, m := range res.Matches {
		assert.Equal(t, 70, m.OverallScore)
		assert.Len(t, m.Reasons, 3)
	}
	assert.Contains(t, res.Suggestions, "Add more skills to your profile for better matches")
	last := res.Suggestions[len(res.Suggestions)-1]
	assert.True(t, strings.HasPrefix(last, "Consider learning: "), last)

	res, err = f.jobs.Matches(ctx, p, 70, 5)
	require.NoError(t, err)
	assert.Len(t, res.Matches, 5)

	res, err = f.jobs.Matches(ctx, p, 80, 20)
	require.NoError(t, err)
	assert.Empty(t, res.Matches)

	_, err = f.jobs.Matches(ctx, p, 101, 20)
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = f.jobs.Matches(ctx, p, 70, 0)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestTopMissingSkills(t *testing.T) {
	matches := []models.JobMatch{
		{MissingSkills: []string{"Go", "Rust"}},
		{MissingSkills: []string{"Rust", "Kafka"}},
		{MissingSkills: []string{"Rust", "Go", "Zig"}},
		{MissingSkills: []string{"Haskell"}},
	}
	assert.Equal(t, []string{"Rust", "Go", "Kafka"}, topMissingSkills(matches, 10, 3))
	assert.Equal(t, []string{"Go", "Rust"}, topMissingSkills(matches, 1, 3))
	assert.Empty(t, topMissingSkills(nil, 10, 3))
}
