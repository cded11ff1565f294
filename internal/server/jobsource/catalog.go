// Package jobsource produces job listings for search. The built-in Catalog
// is deterministic: the same query yields the same jobs and ids, which lets
// search results be cached and applied to later.
package jobsource

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/jobassist/internal/server/models"
)

// Query filters a search. Empty fields do not filter.
type Query struct {
	Text       string
	Location   string
	RemoteOnly bool
}

type Source interface {
	Search(ctx context.Context, q Query) ([]*models.Job, error)
}

type company struct {
	name    string
	careers string
}

type role struct {
	title  string
	salary string
	skills []string
}

var companies = []company{
	{"Google", "https://careers.google.com"},
	{"Microsoft", "https://careers.microsoft.com"},
	{"Amazon", "https://www.amazon.jobs"},
	{"Meta", "https://www.metacareers.com"},
	{"Apple", "https://jobs.apple.com"},
	{"Netflix", "https://jobs.netflix.com"},
	{"Stripe", "https://stripe.com/jobs"},
	{"Airbnb", "https://careers.airbnb.com"},
	{"Uber", "https://www.uber.com/careers"},
	{"Spotify", "https://www.lifeatspotify.com"},
	{"Slack", "https://slack.com/careers"},
	{"Shopify", "https://www.shopify.com/careers"},
	{"GitHub", "https://github.com/about/careers"},
	{"Twitter/X", "https://careers.twitter.com"},
	{"LinkedIn", "https://careers.linkedin.com"},
}

var roles = []role{
	{"Senior Software Engineer", "$150,000 - $200,000", []string{"Go", "Python", "AWS"}},
	{"Full Stack Developer", "$120,000 - $170,000", []string{"JavaScript", "React", "Node.js", "SQL"}},
	{"Frontend Engineer", "$110,000 - $160,000", []string{"JavaScript", "TypeScript", "React"}},
	{"Backend Engineer", "$130,000 - $180,000", []string{"Go", "PostgreSQL", "Docker"}},
	{"DevOps Engineer", "$140,000 - $190,000", []string{"Docker", "Kubernetes", "AWS"}},
	{"Data Scientist", "$130,000 - $175,000", []string{"Python", "SQL"}},
	{"Machine Learning Engineer", "$160,000 - $220,000", []string{"Python", "PyTorch", "AWS"}},
	{"Cloud Architect", "$170,000 - $230,000", []string{"AWS", "GCP", "Azure"}},
	{"Site Reliability Engineer", "$145,000 - $195,000", []string{"Go", "Kubernetes", "Linux"}},
	{"Product Manager", "$140,000 - $190,000", nil},
}

var locations = []string{
	"San Francisco, CA",
	"New York, NY",
	"Seattle, WA",
	"Austin, TX",
	"Boston, MA",
	"Remote (US)",
	"Remote (Worldwide)",
	"Los Angeles, CA",
	"Denver, CO",
	"Chicago, IL",
}

var descriptions = []string{
	`We're looking for a talented engineer to join our team and help build scalable systems that power millions of users. You'll work with cutting-edge technologies and collaborate with brilliant minds.

Requirements:
- 5+ years of experience in software development
- Strong proficiency in JavaScript, Python, or Go
- Experience with cloud platforms (AWS, GCP, or Azure)
- Excellent problem-solving skills`,

	`Join our engineering team to design and develop innovative solutions. You'll have the opportunity to work on high-impact projects that reach millions of users worldwide.

What we're looking for:
- Strong CS fundamentals
- Experience with React, Node.js, or similar technologies
- Database design experience (SQL and NoSQL)
- Great communication skills`,

	`We're expanding our team and looking for engineers passionate about solving complex problems. This is an opportunity to make a significant impact on our platform.

Qualifications:
- Bachelor's in CS or equivalent experience
- 3+ years professional development experience
- Experience with microservices architecture
- Strong analytical skills`,
}

const catalogSize = 15

// Catalog generates featured listings from fixed company and role tables.
type Catalog struct {
	now func() time.Time
}

func NewCatalog() *Catalog {
	return &Catalog{now: time.Now}
}

var jobNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("jobassist/jobs"))

// jobID is stable for a given query, location and slot.
func jobID(q Query, slot int) string {
	name := fmt.Sprintf("%s|%s|%d", strings.ToLower(q.Text), strings.ToLower(q.Location), slot)
	return uuid.NewSHA1(jobNamespace, []byte(name)).String()
}

func (c *Catalog) Search(ctx context.Context, q Query) ([]*models.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	day := c.now().UTC().Truncate(24 * time.Hour)

	var out []*models.Job
	for i := 0; i < catalogSize; i++ {
		co := companies[i%len(companies)]
		r := roles[i%len(roles)]

		if text != "" && !strings.Contains(strings.ToLower(r.title), text) && !strings.Contains(strings.ToLower(co.name), text) {
			continue
		}

		loc := q.Location
		if loc == "" {
			loc = locations[i%len(locations)]
		}
		remote := strings.Contains(strings.ToLower(loc), "remote") || i%3 == 0

		title := r.title
		if q.Text != "" {
			title = r.title + " - " + q.Text
		}

		out = append(out, &models.Job{
			ID:          jobID(q, i),
			Title:       title,
			Company:     co.name,
			Location:    loc,
			Description: descriptions[i%len(descriptions)],
			Salary:      r.salary,
			Remote:      remote,
			ApplyURL:    co.careers,
			PostedAt:    day.Add(-time.Duration(i) * 24 * time.Hour),
			Source:      "Featured",
			Skills:      r.skills,
		})
	}

	return filter(out, q), nil
}

// filter applies location and remote filters, drops duplicate
// title/company pairs and orders newest first.
func filter(jobs []*models.Job, q Query) []*models.Job {
	loc := strings.ToLower(q.Location)
	seen := make(map[string]struct{}, len(jobs))
	out := make([]*models.Job, 0, len(jobs))

	for _, j := range jobs {
		if loc != "" && !strings.Contains(strings.ToLower(j.Location), loc) && !j.Remote {
			continue
		}
		if q.RemoteOnly && !j.Remote {
			continue
		}
		k := strings.ToLower(j.Title) + "_" + strings.ToLower(j.Company)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, j)
	}

	sort.SliceStable(out, func(i, k int) bool { return out[i].PostedAt.After(out[k].PostedAt) })
	return out
}
