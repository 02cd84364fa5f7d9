// Package draft generates first drafts of user-editable text: application
// statements for students and project postings for teachers. Every entry
// point returns usable text even when the generative backend is down,
// because both outputs are overwritable by hand before submission.
package draft

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

// StatementFallback is returned whenever statement generation fails.
const StatementFallback = "statement generation is temporarily unavailable, please write your application statement manually"

const (
	statementSystemPrompt = "You are a professional research application writer, skilled at producing persuasive application statements."

	descriptionSystemPrompt = "You are a research project posting writer, skilled at producing professional and appealing recruitment copy."

	defaultMaxLogLen = 200
)

type Service struct {
	gw        llm.Gateway
	logger    *zap.Logger
	maxLogLen int
}

func NewService(gw llm.Gateway, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gw: gw, logger: log, maxLogLen: defaultMaxLogLen}
}

// NewLocalService builds the variant used when no generative backend is
// configured. Statements and descriptions come from the deterministic
// templates and never hit the network.
func NewLocalService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{logger: log, maxLogLen: defaultMaxLogLen}
}

// Statement drafts a first-person application statement for the given
// profile and project. Never fails; the fallback string tells the student to
// write the statement themselves.
func (s *Service) Statement(ctx context.Context, p profile.StudentProfile, pr project.Project) string {
	if s.gw == nil {
		return LocalStatement(p, pr)
	}
	prompt := fmt.Sprintf(`Write a professional project application statement for the student below.

Student background:
- Major: %s
- Grade: %s
- Skills: %s
- Research interests: %s
- Project experience: %s

Project applied for:
- Title: %s
- Description: %s
- Research field: %s

Requirements:
1. Between 300 and 500 characters
2. Highlight the student's relevant skills and experience
3. Express interest in and understanding of the project
4. Explain the value the student would bring
5. Professional, sincere and persuasive tone
6. Written in the first person`,
		orUnknown(p.Major),
		orUnknown(p.Grade),
		orUnknown(p.Skills),
		orUnknown(p.ResearchInterests),
		orUnknown(p.ProjectExperience),
		pr.Title,
		pr.Description,
		orUnknown(pr.ResearchField),
	)

	res, err := s.gw.Invoke(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: statementSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		s.logger.Warn("statement generation failed, using fallback", zap.Error(err))
		return StatementFallback
	}
	statement := strings.TrimSpace(res.Text)
	if statement == "" {
		return StatementFallback
	}
	s.logger.Debug("statement generated",
		zap.String("project", pr.Title),
		zap.String("preview", logger.TruncateForLog(statement, s.maxLogLen)),
	)
	return statement
}

// ExpandDescription turns a short keyword set into a full Markdown project
// posting. Never fails; on any backend problem it falls back to the
// deterministic local template so the output is always well-formed Markdown.
func (s *Service) ExpandDescription(ctx context.Context, keywords string) string {
	if s.gw == nil {
		return LocalDescription(keywords)
	}
	prompt := fmt.Sprintf(`Generate a structured research project recruitment posting from the keywords below.

Keywords: %s

Requirements:
1. Include these sections:
   - project background and significance
   - research content and goals
   - responsibilities
   - requirements
   - expected outcomes
2. Professional, detailed and appealing content
3. Between 500 and 800 words
4. Markdown format`, keywords)

	res, err := s.gw.Invoke(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: descriptionSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		s.logger.Warn("description expansion failed, using local template", zap.Error(err))
		return LocalDescription(keywords)
	}
	description := strings.TrimSpace(res.Text)
	if description == "" {
		return LocalDescription(keywords)
	}
	return description
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
