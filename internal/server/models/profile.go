package models

import (
	"math"
	"time"
)

type Profile struct {
	UserID          string    `json:"userId"`
	Skills          []string  `json:"skills"`
	ExperienceYears float64   `json:"experienceYears"`
	PreferredRoles  []string  `json:"preferredRoles"`
	Education       []string  `json:"education"`
	Phone           string    `json:"phone,omitempty"`
	ResumeID        string    `json:"resumeId,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// EmptyProfile is what a user without a stored profile sees.
func EmptyProfile(userID string) *Profile {
	return &Profile{
		UserID:         userID,
		Skills:         []string{},
		PreferredRoles: []string{},
		Education:      []string{},
	}
}

// Strength scores profile completeness from 0 to 100: skills weigh 40,
// experience 30, education 15 and an uploaded resume 15.
func (p *Profile) Strength() int {
	if p == nil {
		return 0
	}
	s := math.Min(float64(len(p.Skills))*4, 40)
	s += math.Min(p.ExperienceYears*5, 30)
	s += math.Min(float64(len(p.Education))*7.5, 15)
	if p.ResumeID != "" {
		s += 15
	}
	return int(math.Round(s))
}

// Suggestions lists what the user could add to improve matching.
func (p *Profile) Suggestions() []string {
	out := []string{}
	if p == nil || p.ResumeID == "" {
		out = append(out, "Upload your resume to improve job matching accuracy")
	}
	if p == nil || len(p.Skills) < 5 {
		out = append(out, "Add more skills to your profile for better matches")
	}
	if p == nil || p.ExperienceYears == 0 {
		out = append(out, "Add your years of experience to improve matching")
	}
	return out
}

// Complete reports whether skills, experience and a resume are all present.
func (p *Profile) Complete() bool {
	return p != nil && len(p.Skills) > 0 && p.ExperienceYears > 0 && p.ResumeID != ""
}
