package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/services"
)

func (h *Handler) getProfile(c *gin.Context) {
	prof, err := h.svc.Profiles.Get(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": prof})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req services.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("invalid request body"))
		return
	}

	prof, err := h.svc.Profiles.Update(c.Request.Context(), principal(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "profile": prof})
}

func (h *Handler) profileStrength(c *gin.Context) {
	s, err := h.svc.Profiles.Strength(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

type resumeUploadRequest struct {
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
	FileContent []byte `json:"fileContent"`
	FileSize    int    `json:"fileSize"`
}

type resumeUploadResponse struct {
	Message  string `json:"message"`
	ResumeID string `json:"resumeId"`
	Status   string `json:"status"`
}

// uploadBodyLimit leaves room for base64 and multipart framing.
const uploadBodyLimit = models.MaxResumeSize*4/3 + 64<<10

const errTooLarge = "file size exceeds 5MB limit"

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// readResumeForm reads the multipart file field "resume".
func readResumeForm(c *gin.Context) (services.ResumeUpload, error) {
	fh, err := c.FormFile("resume")
	if err != nil {
		if tooLarge(err) {
			return services.ResumeUpload{}, badRequest(errTooLarge)
		}
		return services.ResumeUpload{}, badRequest("multipart field resume is required")
	}
	if fh.Size > models.MaxResumeSize {
		return services.ResumeUpload{}, badRequest(errTooLarge)
	}

	f, err := fh.Open()
	if err != nil {
		return services.ResumeUpload{}, fmt.Errorf("error opening upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, models.MaxResumeSize+1))
	if err != nil {
		return services.ResumeUpload{}, fmt.Errorf("error reading upload: %w", err)
	}
	return services.ResumeUpload{FileName: fh.Filename, FileType: c.PostForm("fileType"), Content: content}, nil
}

func (h *Handler) uploadResume(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uploadBodyLimit)

	var up services.ResumeUpload
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		var err error
		if up, err = readResumeForm(c); err != nil {
			h.fail(c, err)
			return
		}
	} else {
		var req resumeUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if tooLarge(err) {
				h.fail(c, badRequest(errTooLarge))
				return
			}
			h.fail(c, badRequest("invalid request body"))
			return
		}
		if req.FileSize > models.MaxResumeSize {
			h.fail(c, badRequest(errTooLarge))
			return
		}
		up = services.ResumeUpload{FileName: req.FileName, FileType: req.FileType, Content: req.FileContent}
	}

	r, err := h.svc.Profiles.UploadResume(c.Request.Context(), principal(c), up)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resumeUploadResponse{
		Message:  "Resume uploaded successfully.",
		ResumeID: r.ID,
		Status:   r.Status,
	})
}
