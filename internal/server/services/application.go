package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/keylock"
	"github.com/dmitrijs2005/jobassist/internal/logging"
	"github.com/dmitrijs2005/jobassist/internal/server/ai"
	"github.com/dmitrijs2005/jobassist/internal/server/config"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/repomanager"
)

const (
	maxRecordAttempts = 5
	maxIndexAttempts  = 5
)

// CreateInput describes a new application. InitialStatus is draft or
// applied; empty means draft.
type CreateInput struct {
	JobID               string
	InitialStatus       string
	GenerateCoverLetter bool
	CustomMessage       string
}

// ApplyResult is a freshly created application plus what the caller needs
// to finish applying on the employer's site.
type ApplyResult struct {
	Application *models.Application
	ApplyURL    string
	PrefillData models.PrefillData
}

// TransitionInput requests a status change. InterviewDate is RFC 3339.
type TransitionInput struct {
	ApplicationID string
	Status        string
	Notes         string
	InterviewDate string
}

type ReconcileResult struct {
	Changed bool                    `json:"changed"`
	Stats   models.ApplicationStats `json:"stats"`
}

// ApplicationService owns application records and the per-user index.
// Every mutation of a user's records and index runs under that user's
// lock. Records and the index are written with compare-and-set, and index
// updates copy the record's current status rather than applying deltas, so
// writers in other processes and retried writes converge.
type ApplicationService struct {
	repomanager repomanager.RepositoryManager
	assistant   *ai.Assistant
	locks       *keylock.Locker
	policy      models.TransitionPolicy
	now         func() time.Time
	newID       func() string
	logger      logging.Logger
}

func NewApplicationService(m repomanager.RepositoryManager, assistant *ai.Assistant, cfg *config.Config, logger logging.Logger) *ApplicationService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &ApplicationService{
		repomanager: m,
		assistant:   assistant,
		locks:       keylock.New(),
		policy:      cfg.Policy(),
		now:         time.Now,
		newID:       uuid.NewString,
		logger:      logger.With("module", "applications"),
	}
}

// errUnchanged tells updateIndex that the mutation left the index as is.
var errUnchanged = errors.New("index unchanged")

// errIndexDrift means the index does not know an application it should.
var errIndexDrift = errors.New("application missing from index")

func placeholderJob(jobID string) *models.Job {
	return &models.Job{
		ID:       jobID,
		Title:    "Position",
		Company:  "Company",
		ApplyURL: "https://apply.example.com/job/" + jobID,
	}
}

func (s *ApplicationService) lookupJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := s.repomanager.Jobs().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return placeholderJob(jobID), nil
		}
		return nil, fmt.Errorf("error loading job: %w", err)
	}
	if job.ApplyURL == "" {
		job.ApplyURL = placeholderJob(jobID).ApplyURL
	}
	return job, nil
}

func (s *ApplicationService) lookupUser(ctx context.Context, p *models.Principal) (*models.User, error) {
	u, err := s.repomanager.Users().GetByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &models.User{ID: p.UserID, Email: p.Email}, nil
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u, nil
}

func experienceSummary(prof *models.Profile) string {
	roles := "software development"
	if len(prof.PreferredRoles) > 0 {
		roles = strings.Join(prof.PreferredRoles, ", ")
	}
	return strconv.FormatFloat(prof.ExperienceYears, 'f', -1, 64) + " years of experience in " + roles
}

// Create stores a new application and registers it in the owner's index.
func (s *ApplicationService) Create(ctx context.Context, p *models.Principal, in CreateInput) (*ApplyResult, error) {
	initial := models.StatusDraft
	if in.InitialStatus != "" {
		st, err := models.ParseStatus(in.InitialStatus)
		if err != nil {
			return nil, err
		}
		initial = st
	}
	if initial != models.StatusDraft && initial != models.StatusApplied {
		return nil, fmt.Errorf("%w: initialStatus must be draft or applied", common.ErrorValidation)
	}

	jobID := strings.TrimSpace(in.JobID)
	if jobID == "" {
		return nil, fmt.Errorf("%w: jobId is required", common.ErrorValidation)
	}

	job, err := s.lookupJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	user, err := s.lookupUser(ctx, p)
	if err != nil {
		return nil, err
	}
	prof, err := loadProfile(ctx, s.repomanager, p.UserID)
	if err != nil {
		return nil, err
	}

	prefill := models.PrefillData{
		Name:       user.Name,
		Email:      user.Email,
		Phone:      prof.Phone,
		Skills:     prof.Skills,
		Experience: experienceSummary(prof),
	}

	var letter string
	if in.GenerateCoverLetter {
		description := job.Description
		if description == "" {
			description = fmt.Sprintf("Job at %s for %s", job.Company, job.Title)
		}
		name := user.Name
		if name == "" {
			name = "Applicant"
		}
		letter = s.assistant.CoverLetter(ctx, ai.CoverLetterRequest{
			JobTitle:        job.Title,
			Company:         job.Company,
			JobDescription:  description,
			Name:            name,
			Skills:          prof.Skills,
			ExperienceYears: prof.ExperienceYears,
			PreferredRoles:  prof.PreferredRoles,
			CustomMessage:   in.CustomMessage,
		})
	}

	app := models.NewApplication(s.newID(), p.UserID, job, initial, s.now().UTC())
	app.CoverLetter = letter
	app.CustomMessage = in.CustomMessage
	app.PrefillData = &prefill

	unlock, err := s.locks.Lock(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.createRecord(ctx, app); err != nil {
		return nil, err
	}

	_, err = s.updateIndex(ctx, p.UserID, func(idx *models.ApplicationIndex) error {
		if !idx.Add(app.ID, app.Status) {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		if err := s.repairIndex(ctx, p.UserID, err); err != nil {
			return nil, err
		}
	}

	s.logger.Info(ctx, "application created", "user_id", p.UserID, "application_id", app.ID, "status", app.Status)

	return &ApplyResult{Application: app, ApplyURL: job.ApplyURL, PrefillData: prefill}, nil
}

// TransitionStatus moves an application owned by p to a new status and
// keeps the owner's index counts in step.
func (s *ApplicationService) TransitionStatus(ctx context.Context, p *models.Principal, in TransitionInput) (*models.Application, error) {
	next, err := models.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	var interview *time.Time
	if in.InterviewDate != "" {
		t, err := time.Parse(time.RFC3339, in.InterviewDate)
		if err != nil {
			return nil, fmt.Errorf("%w: interviewDate must be an RFC 3339 timestamp", common.ErrorValidation)
		}
		interview = &t
	}

	unlock, err := s.locks.Lock(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	app, prev, err := s.writeTransition(ctx, p, in.ApplicationID, next, in.Notes, interview)
	if err != nil {
		return nil, err
	}

	_, err = s.updateIndex(ctx, p.UserID, func(idx *models.ApplicationIndex) error {
		// The index was read before this, so the record is at least as new.
		cur, _, err := s.repomanager.Applications().Get(ctx, app.ID)
		if err != nil {
			return fmt.Errorf("error loading application: %w", err)
		}
		changed, known := idx.SetStatus(cur.ID, cur.Status)
		if !known {
			return errIndexDrift
		}
		if !changed {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		if err := s.repairIndex(ctx, p.UserID, err); err != nil {
			return nil, err
		}
	}

	s.logger.Info(ctx, "application status changed",
		"user_id", p.UserID, "application_id", app.ID, "from", prev, "to", next)

	return app, nil
}

// createRecord stores app. A retried write that already landed surfaces as
// already exists and is recognised by its creation stamp.
func (s *ApplicationService) createRecord(ctx context.Context, app *models.Application) error {
	repo := s.repomanager.Applications()

	err := repo.Create(ctx, app)
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrorAlreadyExists) {
		stored, _, gerr := repo.Get(ctx, app.ID)
		if gerr == nil && stored.UserID == app.UserID && stored.CreatedAt.Equal(app.CreatedAt) {
			s.logger.Debug(ctx, "application write already landed", "application_id", app.ID)
			return nil
		}
	}
	return fmt.Errorf("error saving application: %w", err)
}

// ownChange reports whether app's newest history entry is the change
// stamped at.
func ownChange(app *models.Application, next models.Status, at time.Time) bool {
	last := app.LastChange()
	return last != nil && last.Status == next && last.ChangedAt.Equal(at) && app.UpdatedAt.Equal(at)
}

// writeTransition applies the change to the record, reloading it when a
// concurrent writer bumped its version. Every attempt uses the same stamp so
// a write that landed despite a reported failure is not applied twice.
func (s *ApplicationService) writeTransition(ctx context.Context, p *models.Principal, id string, next models.Status, notes string, interview *time.Time) (*models.Application, models.Status, error) {
	repo := s.repomanager.Applications()
	at := s.now().UTC()

	var prev models.Status
	for attempt := 1; ; attempt++ {
		app, version, err := repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, "", common.ErrorNotFound
			}
			return nil, "", fmt.Errorf("error loading application: %w", err)
		}
		if app.UserID != p.UserID {
			return nil, "", common.ErrorNotFound
		}

		if attempt > 1 && ownChange(app, next, at) {
			s.logger.Debug(ctx, "application write already landed", "application_id", id)
			return app, prev, nil
		}

		prev = app.Status
		if err := s.policy.Check(prev, next); err != nil {
			return nil, "", err
		}

		app.Transition(next, at, notes, interview)

		if _, err := repo.Update(ctx, app, version); err != nil {
			if errors.Is(err, common.ErrVersionConflict) && attempt < maxRecordAttempts {
				s.logger.Debug(ctx, "application version conflict, retrying", "application_id", id, "attempt", attempt)
				continue
			}
			return nil, "", fmt.Errorf("error saving application: %w", err)
		}
		return app, prev, nil
	}
}

// updateIndex runs a read-modify-write of the user's index, retrying on
// version conflicts.
func (s *ApplicationService) updateIndex(ctx context.Context, userID string, mutate func(*models.ApplicationIndex) error) (*models.ApplicationIndex, error) {
	repo := s.repomanager.ApplicationIndexes()

	for attempt := 1; ; attempt++ {
		idx, version, err := repo.GetIndex(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("error loading index: %w", err)
		}

		if err := mutate(idx); err != nil {
			if errors.Is(err, errUnchanged) {
				return idx, nil
			}
			return nil, err
		}

		if _, err := repo.SaveIndex(ctx, idx, version); err != nil {
			if errors.Is(err, common.ErrVersionConflict) && attempt < maxIndexAttempts {
				s.logger.Debug(ctx, "index version conflict, retrying", "user_id", userID, "attempt", attempt)
				continue
			}
			return nil, fmt.Errorf("error saving index: %w", err)
		}
		return idx, nil
	}
}

// repairIndex is called with the user lock held after a record write whose
// index update failed.
func (s *ApplicationService) repairIndex(ctx context.Context, userID string, cause error) error {
	s.logger.Warn(ctx, "index update failed, reconciling", "user_id", userID, "error", cause)

	if _, _, err := s.rebuildIndex(ctx, userID); err != nil {
		s.logger.Error(ctx, "index reconciliation failed", "user_id", userID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrConsistencyGap, err)
	}
	return nil
}

func (s *ApplicationService) rebuildIndex(ctx context.Context, userID string) (bool, *models.ApplicationIndex, error) {
	apps, err := s.repomanager.Applications().ListByUser(ctx, userID)
	if err != nil {
		return false, nil, fmt.Errorf("error listing applications: %w", err)
	}
	rebuilt := models.RebuildIndex(userID, apps)

	changed := false
	idx, err := s.updateIndex(ctx, userID, func(idx *models.ApplicationIndex) error {
		if idx.Equal(rebuilt) {
			return errUnchanged
		}
		changed = true
		*idx = *rebuilt
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return changed, idx, nil
}

// Reconcile recomputes the caller's index from their records.
func (s *ApplicationService) Reconcile(ctx context.Context, p *models.Principal) (*ReconcileResult, error) {
	var res *ReconcileResult
	err := s.locks.Do(ctx, p.UserID, func() error {
		changed, idx, err := s.rebuildIndex(ctx, p.UserID)
		if err != nil {
			return err
		}
		if changed {
			s.logger.Warn(ctx, "index reconciled", "user_id", p.UserID, "stats", idx.Stats)
		}
		res = &ReconcileResult{Changed: changed, Stats: idx.Stats}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Get returns an application owned by p. Foreign records look absent.
func (s *ApplicationService) Get(ctx context.Context, p *models.Principal, id string) (*models.Application, error) {
	app, _, err := s.repomanager.Applications().Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading application: %w", err)
	}
	if app.UserID != p.UserID {
		return nil, common.ErrorNotFound
	}
	return app, nil
}

// List returns the caller's applications newest first, optionally only
// those in status.
func (s *ApplicationService) List(ctx context.Context, p *models.Principal, status string) ([]*models.Application, error) {
	var filter models.Status
	if status != "" {
		st, err := models.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter = st
	}

	apps, err := s.repomanager.Applications().ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}

	out := make([]*models.Application, 0, len(apps))
	for _, a := range apps {
		if filter == "" || a.Status == filter {
			out = append(out, a)
		}
	}
	models.SortNewestFirst(out)
	return out, nil
}

// Stats reads the caller's counts from the index.
func (s *ApplicationService) Stats(ctx context.Context, p *models.Principal) (models.ApplicationStats, error) {
	idx, _, err := s.repomanager.ApplicationIndexes().GetIndex(ctx, p.UserID)
	if err != nil {
		return models.ApplicationStats{}, fmt.Errorf("error loading index: %w", err)
	}
	return idx.Stats, nil
}

// Recent returns up to n of the most recently indexed applications, newest
// first. Ids whose record is gone are skipped.
func (s *ApplicationService) Recent(ctx context.Context, p *models.Principal, n int) ([]*models.Application, error) {
	idx, _, err := s.repomanager.ApplicationIndexes().GetIndex(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading index: %w", err)
	}

	repo := s.repomanager.Applications()
	out := make([]*models.Application, 0, n)
	for i := len(idx.ApplicationIDs) - 1; i >= 0 && len(out) < n; i-- {
		app, _, err := repo.Get(ctx, idx.ApplicationIDs[i])
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			return nil, fmt.Errorf("error loading application: %w", err)
		}
		if app.UserID == p.UserID {
			out = append(out, app)
		}
	}
	return out, nil
}
