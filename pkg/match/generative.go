package match

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zhiyanlab/research-match/pkg/llm"
	"github.com/zhiyanlab/research-match/pkg/logger"
	"github.com/zhiyanlab/research-match/pkg/profile"
	"github.com/zhiyanlab/research-match/pkg/project"
)

const (
	matchSystemPrompt = "You are a research project matching expert, skilled at assessing how well a student's capabilities fit a project's requirements."

	// summaryPlaceholder fills in when the model omits the summary field.
	summaryPlaceholder = "match analysis complete"

	defaultMaxLogLen = 200
)

// GenerativeEngine scores a profile against a project through the gateway,
// requesting schema-constrained JSON. It never fails: any gateway or parse
// problem yields FallbackResult.
type GenerativeEngine struct {
	gw        llm.Gateway
	logger    *zap.Logger
	maxLogLen int
}

func NewGenerativeEngine(gw llm.Gateway, log *zap.Logger) *GenerativeEngine {
	if log == nil {
		log = zap.NewNop()
	}
	return &GenerativeEngine{gw: gw, logger: log, maxLogLen: defaultMaxLogLen}
}

func (e *GenerativeEngine) Name() string { return "generative" }

type matchPayload struct {
	Score       float64  `json:"score"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
	Summary     string   `json:"summary"`
}

func (e *GenerativeEngine) Match(ctx context.Context, p profile.StudentProfile, pr project.Project) Result {
	prompt := buildMatchPrompt(p, pr)

	e.logger.Debug("match prompt",
		zap.String("project", pr.Title),
		zap.String("preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	res, err := e.gw.Invoke(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: matchSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		ResponseSchema: matchResultSchema(),
	})
	if err != nil {
		e.logger.Warn("generative match failed, using fallback", zap.Error(err))
		return FallbackResult()
	}

	var payload matchPayload
	if err := llm.UnmarshalLenient(res, &payload); err != nil {
		e.logger.Warn("generative match returned unparseable content, using fallback",
			zap.Error(err),
			zap.String("preview", logger.TruncateForLog(res.Text, e.maxLogLen)),
		)
		return FallbackResult()
	}

	out := Result{
		Score: clampScore(int(payload.Score)),
		Analysis: Analysis{
			Strengths:   payload.Strengths,
			Weaknesses:  payload.Weaknesses,
			Suggestions: payload.Suggestions,
			Summary:     payload.Summary,
		},
	}
	out.Analysis.normalize()
	if strings.TrimSpace(out.Analysis.Summary) == "" {
		out.Analysis.Summary = summaryPlaceholder
	}
	return out
}

// buildMatchPrompt renders every profile and project field into one user
// message. Absent fields become an explicit "unknown" marker: silently
// omitting them changes model behavior, so the rendering must be
// deterministic.
func buildMatchPrompt(p profile.StudentProfile, pr project.Project) string {
	return fmt.Sprintf(`Analyze how well the student profile matches the project requirements.

Student profile:
- Major: %s
- Grade: %s
- GPA: %s
- Skills: %s
- Research interests: %s
- Project experience: %s

Project requirements:
- Title: %s
- Description: %s
- Research field: %s
- Required skills: %s
- Requirements: %s

Output the match analysis as JSON in this form:
{
  "score": 85,
  "strengths": ["strength 1", "strength 2"],
  "weaknesses": ["weakness 1", "weakness 2"],
  "suggestions": ["suggestion 1", "suggestion 2"],
  "summary": "overall assessment"
}

Scoring guide:
- 90-100: highly matched, skills and background fully fit
- 70-89: well matched, most requirements fit
- 50-69: partially matched, some requirements fit
- below 50: poorly matched, substantial learning needed`,
		orUnknown(p.Major),
		orUnknown(p.Grade),
		orUnknown(p.GPA),
		orUnknown(p.Skills),
		orUnknown(p.ResearchInterests),
		orUnknown(p.ProjectExperience),
		pr.Title,
		pr.Description,
		orUnknown(pr.ResearchField),
		orUnknown(pr.RequiredSkills),
		orUnknown(pr.Requirements),
	)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

func matchResultSchema() *llm.Schema {
	stringArray := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	return &llm.Schema{
		Name:   "match_result",
		Strict: true,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score":       map[string]any{"type": "integer", "description": "match score (0-100)"},
				"strengths":   stringArray,
				"weaknesses":  stringArray,
				"suggestions": stringArray,
				"summary":     map[string]any{"type": "string"},
			},
			"required":             []string{"score", "strengths", "weaknesses", "suggestions", "summary"},
			"additionalProperties": false,
		},
	}
}
