package rpcapi

import "time"

type Empty struct{}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
}

type PingResponse struct {
	Status string `json:"status"`
}

type ApplyRequest struct {
	JobID               string `json:"jobId"`
	InitialStatus       string `json:"initialStatus"`
	GenerateCoverLetter bool   `json:"generateCoverLetter"`
	CustomMessage       string `json:"customMessage"`
}

type ApplyResponse struct {
	Application *Application `json:"application"`
	ApplyURL    string       `json:"applyUrl"`
}

type TransitionRequest struct {
	ApplicationID string `json:"applicationId"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
	InterviewDate string `json:"interviewDate"`
}

type GetApplicationRequest struct {
	ApplicationID string `json:"applicationId"`
}

type ApplicationResponse struct {
	Application *Application `json:"application"`
}

type ListApplicationsRequest struct {
	Status string `json:"status"`
}

type ListApplicationsResponse struct {
	Applications []*Application `json:"applications"`
	Stats        Stats          `json:"stats"`
}

type StatsResponse struct {
	Stats Stats `json:"stats"`
}

type ReconcileResponse struct {
	Changed bool  `json:"changed"`
	Stats   Stats `json:"stats"`
}

// Application is the wire form of an application record.
type Application struct {
	ID            string     `json:"id"`
	JobID         string     `json:"jobId"`
	JobTitle      string     `json:"jobTitle"`
	Company       string     `json:"company"`
	ApplyURL      string     `json:"applyUrl"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	CoverLetter   string     `json:"coverLetter,omitempty"`
	InterviewDate *time.Time `json:"interviewDate,omitempty"`
	AppliedAt     *time.Time `json:"appliedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type Stats struct {
	Total     int `json:"total"`
	Draft     int `json:"draft"`
	Applied   int `json:"applied"`
	Interview int `json:"interview"`
	Offer     int `json:"offer"`
	Rejected  int `json:"rejected"`
	Withdrawn int `json:"withdrawn"`
}
