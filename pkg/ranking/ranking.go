// Package ranking orders a project's applicants by match score and produces
// a prose comparison of the strongest candidates for the project owner.
package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/zhiyanlab/research-match/pkg/application"
	"github.com/zhiyanlab/research-match/pkg/llm"
	"github.com/zhiyanlab/research-match/pkg/project"
)

// NoApplicantsAnalysis is returned when the project has no applicants. The
// gateway is not called in that case.
const NoApplicantsAnalysis = "no applicants yet, nothing to analyze"

const (
	rankingSystemPrompt = "You are a research advisor's assistant, skilled at comparing student applicants for a research project."

	// DefaultTopN bounds how many applicants the analysis covers when the
	// caller does not say.
	DefaultTopN = 5
)

// Outcome pairs the ranked applicant list with the generated analysis text.
type Outcome struct {
	Applicants []application.ApplicantSummary `json:"applicants"`
	Analysis   string                         `json:"analysis"`
}

// Service ranks applicants and asks the gateway for a comparison. Unlike the
// match and draft paths there is no canned fallback: the ranked list is
// meaningless without the analysis, so gateway errors propagate.
type Service struct {
	gw     llm.Gateway
	logger *zap.Logger
}

func NewService(gw llm.Gateway, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gw: gw, logger: log}
}

// RankAndAnalyze sorts applicants by match score descending and analyzes the
// top topN. Applicants without a score sort last and are still listed, but
// the prompt shows their score as unknown.
func (s *Service) RankAndAnalyze(ctx context.Context, applicants []application.ApplicantSummary, pr project.Project, topN int) (Outcome, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	ranked := make([]application.ApplicantSummary, len(applicants))
	copy(ranked, applicants)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scoreOf(ranked[i]) > scoreOf(ranked[j])
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	if len(ranked) == 0 {
		return Outcome{Applicants: []application.ApplicantSummary{}, Analysis: NoApplicantsAnalysis}, nil
	}

	prompt, err := buildRankingPrompt(ranked, pr)
	if err != nil {
		return Outcome{}, fmt.Errorf("build ranking prompt: %w", err)
	}

	res, err := s.gw.Invoke(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: rankingSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("rank applicants for project %s: %w", pr.ID, err)
	}

	analysis := strings.TrimSpace(res.Text)
	if analysis == "" {
		return Outcome{}, fmt.Errorf("rank applicants for project %s: empty analysis", pr.ID)
	}

	s.logger.Debug("applicant ranking produced",
		zap.String("project_id", pr.ID.String()),
		zap.Int("applicants", len(ranked)),
	)

	return Outcome{Applicants: ranked, Analysis: analysis}, nil
}

func scoreOf(a application.ApplicantSummary) int {
	if a.MatchScore == nil {
		return -1
	}
	return *a.MatchScore
}

type promptApplicant struct {
	Rank              int    `json:"rank"`
	Name              string `json:"name"`
	MatchScore        string `json:"matchScore"`
	GPA               string `json:"gpa,omitempty"`
	Major             string `json:"major,omitempty"`
	Skills            string `json:"skills,omitempty"`
	ResearchInterests string `json:"researchInterests,omitempty"`
	ProjectExperience string `json:"projectExperience,omitempty"`
}

func buildRankingPrompt(ranked []application.ApplicantSummary, pr project.Project) (string, error) {
	rows := make([]promptApplicant, 0, len(ranked))
	for i, a := range ranked {
		score := "unknown"
		if a.MatchScore != nil {
			score = fmt.Sprintf("%d", *a.MatchScore)
		}
		rows = append(rows, promptApplicant{
			Rank:              i + 1,
			Name:              a.Name,
			MatchScore:        score,
			GPA:               a.GPA,
			Major:             a.Major,
			Skills:            a.Skills,
			ResearchInterests: a.ResearchInterests,
			ProjectExperience: a.ProjectExperience,
		})
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Analyze the applicants for the research project "%s".

Applicant list (sorted by match score, highest first):
%s

Produce:
1. A comparative assessment of the top applicants' strengths
2. The fit between each applicant and the project
3. A recommended acceptance order with reasoning
4. Points the advisor should watch out for

Answer in Markdown, concise and concrete.`, pr.Title, string(data)), nil
}
