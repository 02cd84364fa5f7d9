package draft

import (
	"fmt"
	"strings"

	"github.com/zhiyanlab/research-match/pkg/profile"
	"github.com/zhiyanlab/research-match/pkg/project"
)

// LocalStatement assembles an application statement from the profile fields
// alone. Used when the deployment runs without a generative backend.
func LocalStatement(p profile.StudentProfile, pr project.Project) string {
	var b strings.Builder

	b.WriteString("Dear Professor,\n\n")

	grade := valueOr(p.Grade, "student")
	major := valueOr(p.Major, "a related field")
	fmt.Fprintf(&b, "I am a %s majoring in %s, and I am very interested in the \"%s\" project.\n", grade, major, pr.Title)

	if strings.TrimSpace(p.Skills) != "" {
		fmt.Fprintf(&b, "My skills include: %s.\n", p.Skills)
	}
	if strings.TrimSpace(p.ResearchInterests) != "" {
		fmt.Fprintf(&b, "My research interests include: %s.\n", p.ResearchInterests)
	}
	if strings.TrimSpace(p.ProjectExperience) != "" {
		fmt.Fprintf(&b, "I have taken part in the following projects: %s.\n", p.ProjectExperience)
	}

	b.WriteString("\nI believe my background and experience can add value to the project, and I look forward to the opportunity to join your team.\n\nSincerely yours")

	return b.String()
}

// LocalDescription renders the fixed five-section posting template. Also the
// fallback for ExpandDescription, so teachers always get editable Markdown.
func LocalDescription(keywords string) string {
	kw := strings.TrimSpace(keywords)
	if kw == "" {
		kw = "the research topic"
	}
	return fmt.Sprintf(`# Project Background

%s is an important direction in current research.

## Research Content

This project focuses on %s, exploring related theory and practical applications through systematic study and experiments.

## Responsibilities

- Participate in project research work
- Carry out related experiments
- Write research reports

## Requirements

- Relevant academic background
- Skills related to %s
- Enthusiasm for research and a sense of responsibility

## Expected Outcomes

- Achieve the project research goals
- Publish related findings
- Build up research experience`, kw, kw, kw)
}

func valueOr(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
