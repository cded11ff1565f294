package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobassist/internal/logging"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/repomanager"
)

const recentActivitySize = 5

type DashboardUser struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileComplete bool   `json:"profileComplete"`
}

type RecentApplication struct {
	ID        string        `json:"id"`
	JobTitle  string        `json:"jobTitle"`
	Company   string        `json:"company"`
	Status    models.Status `json:"status"`
	AppliedAt *time.Time    `json:"appliedAt,omitempty"`
}

type DashboardApplications struct {
	TotalApplications    int                   `json:"totalApplications"`
	InterviewsScheduled  int                   `json:"interviewsScheduled"`
	OffersReceived       int                   `json:"offersReceived"`
	ApplicationsByStatus map[models.Status]int `json:"applicationsByStatus"`
	RecentApplications   []RecentApplication   `json:"recentApplications"`
}

type DashboardJobMatches struct {
	ActiveJobMatches int `json:"activeJobMatches"`
	ProfileStrength  int `json:"profileStrength"`
}

type Dashboard struct {
	User         DashboardUser         `json:"user"`
	Applications DashboardApplications `json:"applications"`
	JobMatches   DashboardJobMatches   `json:"jobMatches"`
}

type DashboardService struct {
	repomanager  repomanager.RepositoryManager
	users        *UserService
	applications *ApplicationService
	logger       logging.Logger
}

func NewDashboardService(m repomanager.RepositoryManager, users *UserService, apps *ApplicationService, logger logging.Logger) *DashboardService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &DashboardService{
		repomanager:  m,
		users:        users,
		applications: apps,
		logger:       logger.With("module", "dashboard"),
	}
}

func (s *DashboardService) Get(ctx context.Context, p *models.Principal) (*Dashboard, error) {
	user, err := s.users.User(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	prof, err := loadProfile(ctx, s.repomanager, p.UserID)
	if err != nil {
		return nil, err
	}
	stats, err := s.applications.Stats(ctx, p)
	if err != nil {
		return nil, err
	}
	recent, err := s.applications.Recent(ctx, p, recentActivitySize)
	if err != nil {
		return nil, err
	}
	jobs, err := s.repomanager.Jobs().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing jobs: %w", err)
	}

	activity := make([]RecentApplication, 0, len(recent))
	for _, a := range recent {
		activity = append(activity, RecentApplication{
			ID:        a.ID,
			JobTitle:  a.JobTitle,
			Company:   a.Company,
			Status:    a.Status,
			AppliedAt: a.AppliedAt,
		})
	}

	return &Dashboard{
		User: DashboardUser{
			Name:            user.Name,
			Email:           user.Email,
			ProfileComplete: prof.Complete(),
		},
		Applications: DashboardApplications{
			TotalApplications:    stats.Total,
			InterviewsScheduled:  stats.Interview,
			OffersReceived:       stats.Offer,
			ApplicationsByStatus: stats.ByStatus(),
			RecentApplications:   activity,
		},
		JobMatches: DashboardJobMatches{
			ActiveJobMatches: len(jobs),
			ProfileStrength:  prof.Strength(),
		},
	}, nil
}
