package draft

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhiyanlab/research-match/pkg/llm"
	"github.com/zhiyanlab/research-match/pkg/profile"
	"github.com/zhiyanlab/research-match/pkg/project"
)

type stubGateway struct {
	res   llm.Result
	err   error
	calls int
}

func (s *stubGateway) Invoke(_ context.Context, _ llm.Request) (llm.Result, error) {
	s.calls++
	return s.res, s.err
}

func TestStatementSuccess(t *testing.T) {
	gw := &stubGateway{res: llm.Result{Text: "  I am excited to apply to this project.  "}}
	svc := NewService(gw, nil)

	got := svc.Statement(context.Background(), profile.StudentProfile{Major: "CS"}, project.Project{Title: "NLP Research"})

	require.Equal(t, 1, gw.calls)
	assert.Equal(t, "I am excited to apply to this project.", got)
}

func TestStatementFallbackOnError(t *testing.T) {
	gw := &stubGateway{err: errors.New("backend down")}
	svc := NewService(gw, nil)

	got := svc.Statement(context.Background(), profile.StudentProfile{}, project.Project{Title: "X"})

	assert.Equal(t, StatementFallback, got)
}

func TestStatementFallbackOnEmptyText(t *testing.T) {
	gw := &stubGateway{res: llm.Result{Text: "   "}}
	svc := NewService(gw, nil)

	got := svc.Statement(context.Background(), profile.StudentProfile{}, project.Project{Title: "X"})

	assert.Equal(t, StatementFallback, got)
}

func TestExpandDescriptionFallsBackToLocalTemplate(t *testing.T) {
	gw := &stubGateway{err: errors.New("timeout")}
	svc := NewService(gw, nil)

	got := svc.ExpandDescription(context.Background(), "federated learning, privacy")

	assert.Equal(t, LocalDescription("federated learning, privacy"), got)
}

func TestLocalServiceDraftsWithoutGateway(t *testing.T) {
	svc := NewLocalService(nil)
	p := profile.StudentProfile{Major: "cs"}
	pr := project.Project{Title: "NLP Research"}

	assert.Equal(t, LocalStatement(p, pr), svc.Statement(context.Background(), p, pr))
	assert.Equal(t, LocalDescription("nlp"), svc.ExpandDescription(context.Background(), "nlp"))
}

func TestLocalDescriptionShape(t *testing.T) {
	got := LocalDescription("graph neural networks")

	for _, heading := range []string{
		"# Project Background",
		"## Research Content",
		"## Responsibilities",
		"## Requirements",
		"## Expected Outcomes",
	} {
		assert.Contains(t, got, heading)
	}
	assert.Equal(t, 3, strings.Count(got, "graph neural networks"))
}

func TestLocalDescriptionEmptyKeywords(t *testing.T) {
	got := LocalDescription("   ")
	assert.Contains(t, got, "the research topic")
}

func TestLocalStatementIncludesProfileFields(t *testing.T) {
	p := profile.StudentProfile{
		Grade:             "junior",
		Major:             "computer science",
		Skills:            "python, pytorch",
		ResearchInterests: "computer vision",
	}
	got := LocalStatement(p, project.Project{Title: "Medical Imaging"})

	assert.Contains(t, got, "junior majoring in computer science")
	assert.Contains(t, got, "My skills include: python, pytorch.")
	assert.Contains(t, got, "My research interests include: computer vision.")
	assert.NotContains(t, got, "I have taken part in the following projects")
}

func TestLocalStatementDefaults(t *testing.T) {
	got := LocalStatement(profile.StudentProfile{}, project.Project{Title: "X"})
	assert.Contains(t, got, "a student majoring in a related field")
}
