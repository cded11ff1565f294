package models

import "time"

const (
	ResumeTypePDF  = "pdf"
	ResumeTypeDOCX = "docx"

	ResumeStatusUploaded = "uploaded"

	// MaxResumeSize caps uploaded resume files at 5 MB.
	MaxResumeSize = 5 << 20
)

// Resume is an uploaded resume file owned by one user.
type Resume struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	FileSize   int       `json:"fileSize"`
	Content    []byte    `json:"content"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploadedAt"`
}
