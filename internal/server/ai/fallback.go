package ai

import (
	"fmt"
	"strings"
)

var commonTechSkills = []string{"javascript", "python", "react", "node.js", "typescript", "aws", "docker", "sql"}

// FallbackCoverLetter renders the template letter used without a model.
func FallbackCoverLetter(req CoverLetterRequest) string {
	top := req.Skills
	if len(top) > 3 {
		top = top[:3]
	}

	var b strings.Builder
	b.WriteString("Dear Hiring Manager,\n\n")
	fmt.Fprintf(&b, "I am writing to express my strong interest in the %s position at %s. ", req.JobTitle, req.Company)
	fmt.Fprintf(&b, "With %s years of experience and expertise in %s, I am confident in my ability to make a meaningful contribution to your team.\n\n",
		formatYears(req.ExperienceYears), strings.Join(top, ", "))
	fmt.Fprintf(&b, "Throughout my career, I have developed a comprehensive skill set that includes %s. ", strings.Join(req.Skills, ", "))
	b.WriteString("These skills, combined with my passion for delivering high-quality work, make me an ideal candidate for this role.\n\n")
	fmt.Fprintf(&b, "I am particularly drawn to %s because of its reputation for innovation and excellence. ", req.Company)
	b.WriteString("I am excited about the opportunity to bring my experience and enthusiasm to your team.\n\n")
	b.WriteString("I would welcome the opportunity to discuss how my background and skills would be a great fit for this position. ")
	b.WriteString("Thank you for considering my application.\n\n")
	b.WriteString("Best regards,\n")
	b.WriteString(req.Name)
	return b.String()
}

// FallbackMatch scores by counting well-known tech skills: 50 plus 10 per
// hit, capped at 95.
func FallbackMatch(skills []string) MatchResult {
	var hits []string
	for _, s := range skills {
		l := strings.ToLower(s)
		for _, tech := range commonTechSkills {
			if strings.Contains(l, tech) {
				hits = append(hits, s)
				break
			}
		}
	}

	score := min(95, 50+10*len(hits))

	strong := "Diverse skill set"
	if len(hits) > 0 {
		top := hits
		if len(top) > 3 {
			top = top[:3]
		}
		strong = "Strong in: " + strings.Join(top, ", ")
	}

	return MatchResult{
		Score: score,
		Reasons: []string{
			fmt.Sprintf("Has %d relevant skills", len(skills)),
			strong,
			"Profile appears complete",
		},
	}
}
