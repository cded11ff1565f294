package models

import "time"

// StatusChange is one entry of an application's status history.
type StatusChange struct {
	Status    Status    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
	Notes     string    `json:"notes,omitempty"`
}

// PrefillData is what an applicant would type into an employer's form.
type PrefillData struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone,omitempty"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
}

// Application tracks one user's pursuit of one job.
//
// ID, UserID, JobID and the job snapshot (JobTitle, Company, ApplyURL) never
// change after creation. StatusHistory only grows, one entry per transition;
// creation itself is not a history entry.
type Application struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	JobID         string         `json:"jobId"`
	JobTitle      string         `json:"jobTitle"`
	Company       string         `json:"company"`
	ApplyURL      string         `json:"applyUrl"`
	Status        Status         `json:"status"`
	StatusHistory []StatusChange `json:"statusHistory"`
	CoverLetter   string         `json:"coverLetter,omitempty"`
	CustomMessage string         `json:"customMessage,omitempty"`
	PrefillData   *PrefillData   `json:"prefillData,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	InterviewDate *time.Time     `json:"interviewDate,omitempty"`
	AppliedAt     *time.Time     `json:"appliedAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// NewApplication builds a record in its initial status. AppliedAt is set
// when the record starts out as applied.
func NewApplication(id, userID string, job *Job, initial Status, now time.Time) *Application {
	a := &Application{
		ID:            id,
		UserID:        userID,
		JobID:         job.ID,
		JobTitle:      job.Title,
		Company:       job.Company,
		ApplyURL:      job.ApplyURL,
		Status:        initial,
		StatusHistory: []StatusChange{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if initial == StatusApplied {
		t := now
		a.AppliedAt = &t
	}
	return a
}

// Transition moves the record to next at now. It does not check the policy.
// Notes and interviewDate replace the stored values only when provided.
func (a *Application) Transition(next Status, now time.Time, notes string, interviewDate *time.Time) {
	a.StatusHistory = append(a.StatusHistory, StatusChange{Status: next, ChangedAt: now, Notes: notes})
	if next == StatusApplied && a.AppliedAt == nil {
		t := now
		a.AppliedAt = &t
	}
	a.Status = next
	a.UpdatedAt = now
	if notes != "" {
		a.Notes = notes
	}
	if interviewDate != nil {
		d := *interviewDate
		a.InterviewDate = &d
	}
}

// LastChange returns the newest history entry, or nil before any transition.
func (a *Application) LastChange() *StatusChange {
	if len(a.StatusHistory) == 0 {
		return nil
	}
	return &a.StatusHistory[len(a.StatusHistory)-1]
}
