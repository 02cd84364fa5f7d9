package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/zhiyanlab/research-match/api/http/presenter"
	"github.com/zhiyanlab/research-match/pkg/draft"
	"github.com/zhiyanlab/research-match/pkg/project"
)

type ProjectHandler struct {
	useCase project.UseCase
	drafts  *draft.Service
}

func NewProjectHandler(useCase project.UseCase, drafts *draft.Service) *ProjectHandler {
	return &ProjectHandler{useCase: useCase, drafts: drafts}
}

type createProjectRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	ResearchField  string `json:"researchField"`
	RequiredSkills string `json:"requiredSkills"`
	Requirements   string `json:"requirements"`
}

// Create publishes a new project owned by the calling teacher.
// @Summary Create project
// @Tags    projects
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   input body createProjectRequest true "project fields"
// @Success 201 {object} project.Project
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	teacherID, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
	}
	var req createProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	created, err := h.useCase.Create(c.Context(), project.Project{
		TeacherID:      teacherID,
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		ResearchField:  strings.TrimSpace(req.ResearchField),
		RequiredSkills: strings.TrimSpace(req.RequiredSkills),
		Requirements:   strings.TrimSpace(req.Requirements),
	})
	if err != nil {
		var verr project.ErrValidation
		if errors.As(err, &verr) {
			return presenter.Error(c, http.StatusBadRequest, verr.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to create project")
	}
	return presenter.JSON(c, http.StatusCreated, created)
}

// List returns open projects, newest first.
// @Summary List projects
// @Tags    projects
// @Produce json
// @Security BearerAuth
// @Param   limit query int false "page size (default 20, max 200)"
// @Param   offset query int false "page offset"
// @Param   mine query bool false "only projects owned by the caller"
// @Success 200 {array} project.Project
// @Router  /projects [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 20)
	if c.QueryBool("mine") {
		teacherID, ok := currentUserID(c)
		if !ok {
			return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
		}
		list, err := h.useCase.ListByTeacher(c.Context(), teacherID, limit, offset)
		if err != nil {
			return presenter.Error(c, http.StatusInternalServerError, "failed to list projects")
		}
		return presenter.JSON(c, http.StatusOK, list)
	}
	list, err := h.useCase.List(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list projects")
	}
	return presenter.JSON(c, http.StatusOK, list)
}

// Get returns one project by id.
// @Summary Get project
// @Tags    projects
// @Produce json
// @Security BearerAuth
// @Param   id path string true "project id"
// @Success 200 {object} project.Project
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /projects/{id} [get]
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid project id")
	}
	pr, err := h.useCase.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "project not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load project")
	}
	return presenter.JSON(c, http.StatusOK, pr)
}

type expandDescriptionRequest struct {
	Keywords string `json:"keywords"`
}

// ExpandDescription turns keywords into a full Markdown posting draft.
// @Summary Expand keywords into a project description
// @Tags    projects
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   input body expandDescriptionRequest true "keywords"
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /projects/expand-description [post]
func (h *ProjectHandler) ExpandDescription(c *fiber.Ctx) error {
	var req expandDescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	keywords := strings.TrimSpace(req.Keywords)
	if keywords == "" {
		return presenter.Error(c, http.StatusBadRequest, "keywords are required")
	}
	description := h.drafts.ExpandDescription(c.Context(), keywords)
	return presenter.JSON(c, http.StatusOK, fiber.Map{"description": description})
}
