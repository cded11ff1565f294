package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/logging"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/repomanager"
)

// ProfileUpdate is a partial update: nil fields keep their stored value.
type ProfileUpdate struct {
	Skills          []string `json:"skills"`
	ExperienceYears *float64 `json:"experienceYears"`
	PreferredRoles  []string `json:"preferredRoles"`
	Education       []string `json:"education"`
	Phone           *string  `json:"phone"`
	ResumeID        *string  `json:"resumeId"`
}

// ProfileStrength is the profile score with improvement hints.
type ProfileStrength struct {
	Strength    int      `json:"profileStrength"`
	Complete    bool     `json:"profileComplete"`
	Suggestions []string `json:"suggestions"`
}

// ResumeUpload is a resume file as received from the client. FileType may be
// empty, in which case it is taken from the file name.
type ResumeUpload struct {
	FileName string
	FileType string
	Content  []byte
}

type ProfileService struct {
	repomanager repomanager.RepositoryManager
	now         func() time.Time
	newID       func() string
	logger      logging.Logger
}

func NewProfileService(m repomanager.RepositoryManager, logger logging.Logger) *ProfileService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &ProfileService{
		repomanager: m,
		now:         time.Now,
		newID:       func() string { return "resume_" + uuid.NewString() },
		logger:      logger.With("module", "profiles"),
	}
}

func loadProfile(ctx context.Context, m repomanager.RepositoryManager, userID string) (*models.Profile, error) {
	prof, err := m.Profiles().Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.EmptyProfile(userID), nil
		}
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	return prof, nil
}

// Get returns the stored profile, or an empty one if none was saved yet.
func (s *ProfileService) Get(ctx context.Context, p *models.Principal) (*models.Profile, error) {
	return loadProfile(ctx, s.repomanager, p.UserID)
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		k := strings.ToLower(v)
		if v == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (s *ProfileService) Update(ctx context.Context, p *models.Principal, u ProfileUpdate) (*models.Profile, error) {
	if u.ExperienceYears != nil && (*u.ExperienceYears < 0 || *u.ExperienceYears > 80) {
		return nil, fmt.Errorf("%w: experienceYears must be between 0 and 80", common.ErrorValidation)
	}

	prof, err := s.Get(ctx, p)
	if err != nil {
		return nil, err
	}

	if u.Skills != nil {
		prof.Skills = cleanList(u.Skills)
	}
	if u.ExperienceYears != nil {
		prof.ExperienceYears = *u.ExperienceYears
	}
	if u.PreferredRoles != nil {
		prof.PreferredRoles = cleanList(u.PreferredRoles)
	}
	if u.Education != nil {
		prof.Education = cleanList(u.Education)
	}
	if u.Phone != nil {
		prof.Phone = strings.TrimSpace(*u.Phone)
	}
	if u.ResumeID != nil {
		id := strings.TrimSpace(*u.ResumeID)
		if id != "" {
			if err := s.checkResume(ctx, p, id); err != nil {
				return nil, err
			}
		}
		prof.ResumeID = id
	}
	prof.UserID = p.UserID
	prof.UpdatedAt = s.now().UTC()

	if err := s.repomanager.Profiles().Save(ctx, prof); err != nil {
		return nil, fmt.Errorf("error saving profile: %w", err)
	}
	s.logger.Info(ctx, "profile updated", "user_id", p.UserID)
	return prof, nil
}

func (s *ProfileService) Strength(ctx context.Context, p *models.Principal) (*ProfileStrength, error) {
	prof, err := s.Get(ctx, p)
	if err != nil {
		return nil, err
	}
	return &ProfileStrength{
		Strength:    prof.Strength(),
		Complete:    prof.Complete(),
		Suggestions: prof.Suggestions(),
	}, nil
}

func (s *ProfileService) checkResume(ctx context.Context, p *models.Principal, id string) error {
	r, err := s.repomanager.Resumes().Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: unknown resumeId", common.ErrorValidation)
		}
		return fmt.Errorf("error loading resume: %w", err)
	}
	if r.UserID != p.UserID {
		return fmt.Errorf("%w: unknown resumeId", common.ErrorValidation)
	}
	return nil
}

var (
	pdfSignature = []byte("%PDF-")
	zipSignature = []byte("PK\x03\x04")
)

func resumeType(u ResumeUpload) (string, error) {
	t := strings.ToLower(strings.TrimSpace(u.FileType))
	if t == "" {
		t = strings.TrimPrefix(strings.ToLower(filepath.Ext(u.FileName)), ".")
	}

	var sig []byte
	switch t {
	case models.ResumeTypePDF:
		sig = pdfSignature
	case models.ResumeTypeDOCX:
		sig = zipSignature
	default:
		return "", fmt.Errorf("%w: fileType must be pdf or docx", common.ErrorValidation)
	}
	if !bytes.HasPrefix(u.Content, sig) {
		return "", fmt.Errorf("%w: file content is not a %s document", common.ErrorValidation, t)
	}
	return t, nil
}

// UploadResume stores a resume file and makes it the caller's current one.
func (s *ProfileService) UploadResume(ctx context.Context, p *models.Principal, u ResumeUpload) (*models.Resume, error) {
	name := filepath.Base(strings.TrimSpace(u.FileName))
	if name == "" || name == "." || name == "/" {
		return nil, fmt.Errorf("%w: fileName is required", common.ErrorValidation)
	}
	if len(u.Content) == 0 {
		return nil, fmt.Errorf("%w: file is empty", common.ErrorValidation)
	}
	if len(u.Content) > models.MaxResumeSize {
		return nil, fmt.Errorf("%w: file size exceeds 5MB limit", common.ErrorValidation)
	}
	fileType, err := resumeType(u)
	if err != nil {
		return nil, err
	}

	prof, err := s.Get(ctx, p)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	r := &models.Resume{
		ID:         s.newID(),
		UserID:     p.UserID,
		FileName:   name,
		FileType:   fileType,
		FileSize:   len(u.Content),
		Content:    u.Content,
		Status:     models.ResumeStatusUploaded,
		UploadedAt: now,
	}
	if err := s.repomanager.Resumes().Save(ctx, r); err != nil {
		return nil, fmt.Errorf("error saving resume: %w", err)
	}

	prof.UserID = p.UserID
	prof.ResumeID = r.ID
	prof.UpdatedAt = now
	if err := s.repomanager.Profiles().Save(ctx, prof); err != nil {
		return nil, fmt.Errorf("error saving profile: %w", err)
	}

	s.logger.Info(ctx, "resume uploaded", "user_id", p.UserID, "resume_id", r.ID, "file_type", fileType, "size", r.FileSize)
	return r, nil
}
