package services

import (
	"github.com/dmitrijs2005/jobassist/internal/logging"
	"github.com/dmitrijs2005/jobassist/internal/server/ai"
	"github.com/dmitrijs2005/jobassist/internal/server/config"
	"github.com/dmitrijs2005/jobassist/internal/server/jobsource"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/repomanager"
)

// Set bundles the services both transports are built on.
type Set struct {
	Users        *UserService
	Profiles     *ProfileService
	Jobs         *JobService
	Applications *ApplicationService
	Dashboard    *DashboardService
	Assistant    *ai.Assistant
	Repositories repomanager.RepositoryManager
}

func NewSet(m repomanager.RepositoryManager, source jobsource.Source, assistant *ai.Assistant, cfg *config.Config, logger logging.Logger) *Set {
	users := NewUserService(m, cfg, logger)
	profiles := NewProfileService(m, logger)
	apps := NewApplicationService(m, assistant, cfg, logger)

	return &Set{
		Users:        users,
		Profiles:     profiles,
		Jobs:         NewJobService(m, source, assistant, profiles, logger),
		Applications: apps,
		Dashboard:    NewDashboardService(m, users, apps, logger),
		Assistant:    assistant,
		Repositories: m,
	}
}
