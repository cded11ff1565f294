package models

import "time"

type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Salary      string    `json:"salary,omitempty"`
	Remote      bool      `json:"remote"`
	ApplyURL    string    `json:"applyUrl"`
	PostedAt    time.Time `json:"postedAt"`
	Source      string    `json:"source"`
	Skills      []string  `json:"skills,omitempty"`
}

// ScoredJob is a job annotated with how well it fits the caller.
type ScoredJob struct {
	Job
	MatchScore int `json:"matchScore"`
}

// MatchAnalysis explains a score for one job.
type MatchAnalysis struct {
	Score          int      `json:"score"`
	MatchingSkills []string `json:"matchingSkills"`
	MissingSkills  []string `json:"missingSkills"`
	Recommendation string   `json:"recommendation"`
	Reasons        []string `json:"reasons,omitempty"`
}

// JobMatch is one entry of the matches listing.
type JobMatch struct {
	JobID         string   `json:"jobId"`
	JobTitle      string   `json:"jobTitle"`
	Company       string   `json:"company"`
	OverallScore  int      `json:"overallScore"`
	Reasons       []string `json:"reasons"`
	MissingSkills []string `json:"missingSkills,omitempty"`
}
