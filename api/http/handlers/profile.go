package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/zhiyanlab/research-match/api/http/presenter"
	"github.com/zhiyanlab/research-match/pkg/profile"
	"github.com/zhiyanlab/research-match/pkg/resume"
)

type ProfileHandler struct {
	profiles  profile.Repository
	resumes   resume.Repository
	extractor *resume.Extractor
	// Limit uploaded file size read into memory (bytes)
	maxBytes int64
}

func NewProfileHandler(profiles profile.Repository, resumes resume.Repository, extractor *resume.Extractor) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, resumes: resumes, extractor: extractor, maxBytes: 15 << 20} // 15MB
}

// Get returns the current student's profile.
// @Summary Get own profile
// @Tags    profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} profile.StudentProfile
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /profile [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
	}
	p, err := h.profiles.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "profile not filled in yet")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load profile")
	}
	return presenter.JSON(c, http.StatusOK, p)
}

type updateProfileRequest struct {
	StudentNo         string `json:"studentNo"`
	Major             string `json:"major"`
	Grade             string `json:"grade"`
	GPA               string `json:"gpa"`
	Skills            string `json:"skills"`
	ResearchInterests string `json:"researchInterests"`
	ProjectExperience string `json:"projectExperience"`
	AvailableTime     string `json:"availableTime"`
	ResumeID          string `json:"resumeId"`
}

// Update replaces the current student's profile.
// @Summary Update own profile
// @Tags    profile
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   input body updateProfileRequest true "profile fields"
// @Success 200 {object} profile.StudentProfile
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /profile [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
	}
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	p := profile.StudentProfile{
		UserID:            userID,
		StudentNo:         strings.TrimSpace(req.StudentNo),
		Major:             strings.TrimSpace(req.Major),
		Grade:             strings.TrimSpace(req.Grade),
		GPA:               strings.TrimSpace(req.GPA),
		Skills:            strings.TrimSpace(req.Skills),
		ResearchInterests: strings.TrimSpace(req.ResearchInterests),
		ProjectExperience: strings.TrimSpace(req.ProjectExperience),
		AvailableTime:     strings.TrimSpace(req.AvailableTime),
		UpdatedAt:         time.Now().UTC(),
	}
	if req.ResumeID != "" {
		resumeID, err := uuid.Parse(req.ResumeID)
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, "invalid resumeId")
		}
		// The referenced resume must exist and belong to the caller.
		if _, err := h.resumes.GetForOwner(c.Context(), userID, resumeID); err != nil {
			if errors.Is(err, resume.ErrNotFound) {
				return presenter.Error(c, http.StatusBadRequest, "resumeId does not refer to one of your resumes")
			}
			return presenter.Error(c, http.StatusInternalServerError, "failed to check resume")
		}
		p.ResumeID = resumeID
	}

	if err := h.profiles.Upsert(c.Context(), p); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to save profile")
	}
	return presenter.JSON(c, http.StatusOK, p)
}

// UploadResume accepts a PDF/DOCX resume, stores it and returns the field
// patch extracted from it. Merging the patch into the profile is the
// client's decision, so nothing is written to the profile here.
// @Summary Upload resume and extract profile fields
// @Tags    profile
// @Accept  multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param   file formData file true "resume file (PDF or DOCX)"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /profile/resume [post]
func (h *ProfileHandler) UploadResume(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
	}
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required (pdf or docx)")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" && ext != ".docx" {
		return presenter.Error(c, http.StatusBadRequest, "unsupported file format: only pdf and docx are allowed")
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	text, err := resume.ExtractText(fh.Filename, data)
	if err != nil {
		var perr *resume.DocumentParseError
		if errors.As(err, &perr) {
			return presenter.Error(c, http.StatusBadRequest, "failed to read resume: "+perr.Err.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to read resume")
	}

	rec := resume.Resume{
		ID:        uuid.New(),
		OwnerID:   userID,
		Filename:  fh.Filename,
		MimeType:  fh.Header.Get("Content-Type"),
		Size:      int64(len(data)),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.resumes.Create(c.Context(), rec); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to store resume")
	}

	patch := resume.ParseResult{}
	if h.extractor != nil {
		patch = h.extractor.ParseFields(c.Context(), text)
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"resumeId": rec.ID.String(),
		"filename": rec.Filename,
		"fields":   patch,
	})
}

// ListResumes returns the current student's uploaded resumes, newest first.
// @Summary List own resumes
// @Tags    profile
// @Produce json
// @Security BearerAuth
// @Param   limit  query int false "page size" default(20)
// @Param   offset query int false "page offset" default(0)
// @Success 200 {array} resume.Resume
// @Router  /profile/resumes [get]
func (h *ProfileHandler) ListResumes(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
	}
	limit, offset := parseLimitOffset(c, 20)
	list, err := h.resumes.ListByOwner(c.Context(), userID, limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list resumes")
	}
	return presenter.JSON(c, http.StatusOK, list)
}

// DeleteResume removes one of the current student's resumes.
// @Summary Delete own resume
// @Tags    profile
// @Produce json
// @Security BearerAuth
// @Param   id path string true "resume id"
// @Success 204
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /profile/resumes/{id} [delete]
func (h *ProfileHandler) DeleteResume(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid resume id")
	}
	if err := h.resumes.DeleteForOwner(c.Context(), userID, id); err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "resume not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to delete resume")
	}
	return c.SendStatus(http.StatusNoContent)
}

// readAtMost reads up to max bytes and fails when the stream is longer.
func readAtMost(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, errors.New("failed to read uploaded file")
	}
	if int64(len(data)) > max {
		return nil, errors.New("file is too large")
	}
	return data, nil
}
