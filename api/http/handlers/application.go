package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/zhiyanlab/research-match/api/http/presenter"
	"github.com/zhiyanlab/research-match/pkg/application"
	"github.com/zhiyanlab/research-match/pkg/project"
)

type ApplicationHandler struct {
	useCase application.UseCase
}

func NewApplicationHandler(useCase application.UseCase) *ApplicationHandler {
	return &ApplicationHandler{useCase: useCase}
}

type applyRequest struct {
	Statement string `json:"statement"`
}

// Apply submits an application of the calling student to a project.
// @Summary Apply to project
// @Tags    applications
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   id path string true "project id"
// @Param   input body applyRequest true "application statement"
// @Success 201 {object} application.Application
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /projects/{id}/applications [post]
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	studentID, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
	}
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid project id")
	}
	var req applyRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	app, err := h.useCase.Apply(c.Context(), studentID, projectID, strings.TrimSpace(req.Statement))
	if err != nil {
		var verr application.ErrValidation
		switch {
		case errors.As(err, &verr):
			return presenter.Error(c, http.StatusBadRequest, verr.Error())
		case errors.Is(err, project.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "project not found")
		case errors.Is(err, application.ErrAlreadyExists):
			return presenter.Error(c, http.StatusConflict, "already applied to this project")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to submit application")
		}
	}
	return presenter.JSON(c, http.StatusCreated, app)
}

// ListForProject returns a project's applications to its owner.
// @Summary List applications of a project
// @Tags    applications
// @Produce json
// @Security BearerAuth
// @Param   id path string true "project id"
// @Param   limit query int false "page size (default 20, max 200)"
// @Param   offset query int false "page offset"
// @Success 200 {array} application.Application
// @Failure 403 {object} presenter.ErrorResponse
// @Router  /projects/{id}/applications [get]
func (h *ApplicationHandler) ListForProject(c *fiber.Ctx) error {
	teacherID, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
	}
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid project id")
	}
	limit, offset := parseLimitOffset(c, 20)

	list, err := h.useCase.ListByProject(c.Context(), teacherID, projectID, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, project.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "project not found")
		case errors.Is(err, application.ErrNotOwner):
			return presenter.Error(c, http.StatusForbidden, "not the project owner")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to list applications")
		}
	}
	return presenter.JSON(c, http.StatusOK, list)
}

// ListMine returns the calling student's applications.
// @Summary List own applications
// @Tags    applications
// @Produce json
// @Security BearerAuth
// @Param   limit query int false "page size (default 20, max 200)"
// @Param   offset query int false "page offset"
// @Success 200 {array} application.Application
// @Router  /applications [get]
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	studentID, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
	}
	limit, offset := parseLimitOffset(c, 20)
	list, err := h.useCase.ListByStudent(c.Context(), studentID, limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list applications")
	}
	return presenter.JSON(c, http.StatusOK, list)
}

type decideRequest struct {
	Status string `json:"status"` // accepted or rejected
}

// Decide accepts or rejects an application.
// @Summary Decide on application
// @Tags    applications
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   id path string true "application id"
// @Param   input body decideRequest true "decision"
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Router  /applications/{id}/decision [post]
func (h *ApplicationHandler) Decide(c *fiber.Ctx) error {
	teacherID, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid application id")
	}
	var req decideRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	err = h.useCase.Decide(c.Context(), teacherID, appID, application.Status(req.Status))
	if err != nil {
		var verr application.ErrValidation
		switch {
		case errors.As(err, &verr):
			return presenter.Error(c, http.StatusBadRequest, verr.Error())
		case errors.Is(err, application.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "application not found")
		case errors.Is(err, application.ErrNotOwner):
			return presenter.Error(c, http.StatusForbidden, "not the project owner")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to update application")
		}
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"status": req.Status})
}
