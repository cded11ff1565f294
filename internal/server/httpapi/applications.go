package httpapi

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/jobassist/internal/server/export"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/services"
)

type applyRequest struct {
	JobID               string `json:"jobId"`
	InitialStatus       string `json:"initialStatus"`
	GenerateCoverLetter bool   `json:"generateCoverLetter"`
	CustomMessage       string `json:"customMessage"`
}

type applyResponse struct {
	ApplicationID string             `json:"applicationId"`
	Status        models.Status      `json:"status"`
	ApplyURL      string             `json:"applyUrl"`
	CoverLetter   string             `json:"coverLetter,omitempty"`
	PrefillData   models.PrefillData `json:"prefillData"`
}

type statusRequest struct {
	Status        string `json:"status"`
	Notes         string `json:"notes"`
	InterviewDate string `json:"interviewDate"`
}

type statusResponse struct {
	Message     string             `json:"message"`
	Application statusApplication `json:"application"`
}

type statusApplication struct {
	ID        string        `json:"id"`
	Status    models.Status `json:"status"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// bindOptional decodes a JSON body that may be absent.
func bindOptional(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return badRequest("invalid request body")
	}
	return nil
}

func (h *Handler) create(c *gin.Context, in services.CreateInput) {
	res, err := h.svc.Applications.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, applyResponse{
		ApplicationID: res.Application.ID,
		Status:        res.Application.Status,
		ApplyURL:      res.ApplyURL,
		CoverLetter:   res.Application.CoverLetter,
		PrefillData:   res.PrefillData,
	})
}

// applyToJob records that the caller applied to the job in the path.
func (h *Handler) applyToJob(c *gin.Context) {
	var req applyRequest
	if err := bindOptional(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if req.InitialStatus == "" {
		req.InitialStatus = string(models.StatusApplied)
	}

	h.create(c, services.CreateInput{
		JobID:               c.Param("jobId"),
		InitialStatus:       req.InitialStatus,
		GenerateCoverLetter: req.GenerateCoverLetter,
		CustomMessage:       req.CustomMessage,
	})
}

// assistedApply prepares a draft the caller finishes on the employer's site.
func (h *Handler) assistedApply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("invalid request body"))
		return
	}
	if req.InitialStatus == "" {
		req.InitialStatus = string(models.StatusDraft)
	}

	h.create(c, services.CreateInput{
		JobID:               req.JobID,
		InitialStatus:       req.InitialStatus,
		GenerateCoverLetter: req.GenerateCoverLetter,
		CustomMessage:       req.CustomMessage,
	})
}

func (h *Handler) listApplications(c *gin.Context) {
	ctx := c.Request.Context()
	p := principal(c)

	apps, err := h.svc.Applications.List(ctx, p, c.Query("status"))
	if err != nil {
		h.fail(c, err)
		return
	}
	stats, err := h.svc.Applications.Stats(ctx, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "stats": stats})
}

func (h *Handler) applicationStats(c *gin.Context) {
	stats, err := h.svc.Applications.Stats(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) exportApplications(c *gin.Context) {
	ctx := c.Request.Context()
	p := principal(c)

	apps, err := h.svc.Applications.List(ctx, p, "")
	if err != nil {
		h.fail(c, err)
		return
	}
	stats, err := h.svc.Applications.Stats(ctx, p)
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteApplications(&buf, apps, stats); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="applications.xlsx"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *Handler) reconcileApplications(c *gin.Context) {
	res, err := h.svc.Applications.Reconcile(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) getApplication(c *gin.Context) {
	app, err := h.svc.Applications.Get(c.Request.Context(), principal(c), c.Param("applicationId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

func (h *Handler) updateApplicationStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("invalid request body"))
		return
	}

	app, err := h.svc.Applications.TransitionStatus(c.Request.Context(), principal(c), services.TransitionInput{
		ApplicationID: c.Param("applicationId"),
		Status:        req.Status,
		Notes:         req.Notes,
		InterviewDate: req.InterviewDate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, statusResponse{
		Message:     "Application status updated",
		Application: statusApplication{ID: app.ID, Status: app.Status, UpdatedAt: app.UpdatedAt},
	})
}
