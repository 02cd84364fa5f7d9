package match

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhiyanlab/research-match/pkg/llm"
	"github.com/zhiyanlab/research-match/pkg/profile"
	"github.com/zhiyanlab/research-match/pkg/project"
)

type stubGateway struct {
	res     llm.Result
	err     error
	lastReq llm.Request
	calls   int
}

func (s *stubGateway) Invoke(_ context.Context, req llm.Request) (llm.Result, error) {
	s.calls++
	s.lastReq = req
	return s.res, s.err
}

func TestGenerativeEngineParsesFencedJSON(t *testing.T) {
	gw := &stubGateway{res: llm.Result{Text: "```json\n" + `{
		"score": 85,
		"strengths": ["solid python background"],
		"weaknesses": ["no prior nlp work"],
		"suggestions": ["read recent survey papers"],
		"summary": "well matched overall"
	}` + "\n```"}}
	engine := NewGenerativeEngine(gw, nil)

	got := engine.Match(context.Background(), profile.StudentProfile{Major: "cs"}, project.Project{Title: "NLP"})

	require.Equal(t, 1, gw.calls)
	assert.Equal(t, 85, got.Score)
	assert.Equal(t, []string{"solid python background"}, got.Analysis.Strengths)
	assert.Equal(t, "well matched overall", got.Analysis.Summary)
}

func TestGenerativeEngineParsesStructuredContent(t *testing.T) {
	gw := &stubGateway{res: llm.Result{JSON: []byte(`{"score":72.0,"strengths":[],"weaknesses":[],"suggestions":[],"summary":"ok"}`)}}
	engine := NewGenerativeEngine(gw, nil)

	got := engine.Match(context.Background(), profile.StudentProfile{}, project.Project{Title: "X"})

	assert.Equal(t, 72, got.Score)
	assert.Equal(t, "ok", got.Analysis.Summary)
}

func TestGenerativeEngineFallbackOnGatewayError(t *testing.T) {
	gw := &stubGateway{err: errors.New("upstream unavailable")}
	engine := NewGenerativeEngine(gw, nil)

	got := engine.Match(context.Background(), profile.StudentProfile{}, project.Project{Title: "X"})

	assert.Equal(t, FallbackResult(), got)
}

func TestGenerativeEngineFallbackOnUnparseableContent(t *testing.T) {
	gw := &stubGateway{res: llm.Result{Text: "I cannot produce JSON today."}}
	engine := NewGenerativeEngine(gw, nil)

	got := engine.Match(context.Background(), profile.StudentProfile{}, project.Project{Title: "X"})

	assert.Equal(t, FallbackResult(), got)
}

func TestGenerativeEngineClampsScore(t *testing.T) {
	for _, tt := range []struct {
		raw  float64
		want int
	}{
		{raw: 150, want: 100},
		{raw: -10, want: 0},
		{raw: 42, want: 42},
	} {
		gw := &stubGateway{res: llm.Result{Text: fmt.Sprintf(`{"score":%v,"strengths":[],"weaknesses":[],"suggestions":[],"summary":"s"}`, tt.raw)}}
		engine := NewGenerativeEngine(gw, nil)

		got := engine.Match(context.Background(), profile.StudentProfile{}, project.Project{Title: "X"})

		assert.Equal(t, tt.want, got.Score)
	}
}

func TestGenerativeEngineFillsMissingPieces(t *testing.T) {
	gw := &stubGateway{res: llm.Result{Text: `{"score":55}`}}
	engine := NewGenerativeEngine(gw, nil)

	got := engine.Match(context.Background(), profile.StudentProfile{}, project.Project{Title: "X"})

	assert.Equal(t, 55, got.Score)
	assert.Equal(t, []string{}, got.Analysis.Strengths)
	assert.Equal(t, []string{}, got.Analysis.Weaknesses)
	assert.Equal(t, []string{}, got.Analysis.Suggestions)
	assert.Equal(t, summaryPlaceholder, got.Analysis.Summary)
}

func TestGenerativeEngineRequestShape(t *testing.T) {
	gw := &stubGateway{res: llm.Result{Text: `{"score":60,"strengths":[],"weaknesses":[],"suggestions":[],"summary":"s"}`}}
	engine := NewGenerativeEngine(gw, nil)

	engine.Match(context.Background(), profile.StudentProfile{Major: "math"}, project.Project{Title: "Topology", Description: "knots"})

	require.NotNil(t, gw.lastReq.ResponseSchema)
	assert.Equal(t, "match_result", gw.lastReq.ResponseSchema.Name)
	require.Len(t, gw.lastReq.Messages, 2)
	assert.Equal(t, llm.RoleSystem, gw.lastReq.Messages[0].Role)
	assert.Contains(t, gw.lastReq.Messages[1].Content, "- Major: math")
	assert.Contains(t, gw.lastReq.Messages[1].Content, "- Grade: unknown")
}
