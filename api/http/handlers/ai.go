package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/zhiyanlab/research-match/api/http/presenter"
	"github.com/zhiyanlab/research-match/pkg/application"
	"github.com/zhiyanlab/research-match/pkg/assistant"
	"github.com/zhiyanlab/research-match/pkg/draft"
	"github.com/zhiyanlab/research-match/pkg/llm"
	"github.com/zhiyanlab/research-match/pkg/match"
	"github.com/zhiyanlab/research-match/pkg/profile"
	"github.com/zhiyanlab/research-match/pkg/project"
	"github.com/zhiyanlab/research-match/pkg/ranking"
)

// AIHandler groups the endpoints backed by the matching and generation
// services. The engine is fixed at startup: either local or generative,
// never both.
type AIHandler struct {
	matcher  match.UseCase
	engine   match.Engine
	drafts   *draft.Service
	rankings *ranking.Service
	chat     *assistant.Service
	profiles profile.Repository
	projects project.Repository
	apps     application.UseCase
}

func NewAIHandler(
	matcher match.UseCase,
	engine match.Engine,
	drafts *draft.Service,
	rankings *ranking.Service,
	chat *assistant.Service,
	profiles profile.Repository,
	projects project.Repository,
	apps application.UseCase,
) *AIHandler {
	return &AIHandler{
		matcher:  matcher,
		engine:   engine,
		drafts:   drafts,
		rankings: rankings,
		chat:     chat,
		profiles: profiles,
		projects: projects,
		apps:     apps,
	}
}

type matchRequest struct {
	ProjectID string `json:"projectId"`
}

// Match computes the calling student's fit for a project.
// @Summary Match current student against a project
// @Tags    ai
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   input body matchRequest true "target project"
// @Success 200 {object} match.Result
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /ai/match [post]
func (h *AIHandler) Match(c *fiber.Ctx) error {
	studentID, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
	}
	var req matchRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid projectId")
	}

	result, err := h.matcher.Compute(c.Context(), studentID, projectID, h.engine)
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "fill in your profile before matching")
		case errors.Is(err, project.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "project not found")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to compute match")
		}
	}
	return presenter.JSON(c, http.StatusOK, result)
}

type statementRequest struct {
	ProjectID string `json:"projectId"`
}

// Statement drafts an application statement for the calling student.
// @Summary Draft application statement
// @Tags    ai
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   input body statementRequest true "target project"
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /ai/statement [post]
func (h *AIHandler) Statement(c *fiber.Ctx) error {
	studentID, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
	}
	var req statementRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid projectId")
	}

	p, err := h.profiles.GetByUserID(c.Context(), studentID)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		return presenter.Error(c, http.StatusInternalServerError, "failed to load profile")
	}
	pr, err := h.projects.GetByID(c.Context(), projectID)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "project not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load project")
	}

	statement := h.drafts.Statement(c.Context(), p, pr)
	return presenter.JSON(c, http.StatusOK, fiber.Map{"statement": statement})
}

type rankRequest struct {
	ProjectID string `json:"projectId"`
	TopN      int    `json:"topN"`
}

// Rank returns the project's applicants ordered by match score plus a prose
// comparison, for the project owner.
// @Summary Rank applicants of a project
// @Tags    ai
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   input body rankRequest true "target project and list size"
// @Success 200 {object} ranking.Outcome
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /ai/rank [post]
func (h *AIHandler) Rank(c *fiber.Ctx) error {
	teacherID, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "missing user identity")
	}
	var req rankRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid projectId")
	}

	applicants, err := h.apps.Applicants(c.Context(), teacherID, projectID)
	if err != nil {
		switch {
		case errors.Is(err, project.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "project not found")
		case errors.Is(err, application.ErrNotOwner):
			return presenter.Error(c, http.StatusForbidden, "not the project owner")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to load applicants")
		}
	}
	pr, err := h.projects.GetByID(c.Context(), projectID)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to load project")
	}

	outcome, err := h.rankings.RankAndAnalyze(c.Context(), applicants, pr, req.TopN)
	if err != nil {
		if llm.IsConfigError(err) {
			return presenter.Error(c, http.StatusServiceUnavailable, "ranking requires a configured model backend")
		}
		return presenter.Error(c, http.StatusBadGateway, "failed to analyze applicants")
	}
	return presenter.JSON(c, http.StatusOK, outcome)
}

type chatRequest struct {
	Message string           `json:"message"`
	History []assistant.Turn `json:"history"`
}

// Chat relays a message to the role-aware assistant.
// @Summary Chat with the platform assistant
// @Tags    ai
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   input body chatRequest true "message and optional history"
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /ai/chat [post]
func (h *AIHandler) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return presenter.Error(c, http.StatusBadRequest, "message is required")
	}
	reply := h.chat.Chat(c.Context(), currentRole(c), req.History, message)
	return presenter.JSON(c, http.StatusOK, fiber.Map{"reply": reply})
}
