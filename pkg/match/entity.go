package match

import (
	"context"

	"github.com/zhiyanlab/research-match/pkg/profile"
	"github.com/zhiyanlab/research-match/pkg/project"
)

// Analysis is the human-readable part of a match result. Lists may be empty
// but are never nil.
type Analysis struct {
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
	Summary     string   `json:"summary"`
}

// Result is one compatibility verdict for a (student, project) pair. Score is
// always within [0,100]. Results are computed fresh per invocation; callers
// may cache them with an expiry.
type Result struct {
	Score    int      `json:"score"`
	Analysis Analysis `json:"analysis"`
}

// Engine computes a match. Engines never fail: the local engine is pure, the
// generative engine degrades to a fixed fallback result. Which engine handles
// a request is an explicit caller choice, not a runtime fallback chain.
type Engine interface {
	Name() string
	Match(ctx context.Context, p profile.StudentProfile, pr project.Project) Result
}

// FallbackResult is the fixed result returned when the generative engine
// cannot produce an analysis. The exact shape is a contract: the UI renders
// it in place of raw errors and tests assert on it verbatim.
func FallbackResult() Result {
	return Result{
		Score: 60,
		Analysis: Analysis{
			Strengths:   []string{"basic criteria met"},
			Weaknesses:  []string{"needs further evaluation"},
			Suggestions: []string{"complete your profile for a more accurate match"},
			Summary:     "match analysis temporarily unavailable, please retry later",
		},
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func (a *Analysis) normalize() {
	if a.Strengths == nil {
		a.Strengths = []string{}
	}
	if a.Weaknesses == nil {
		a.Weaknesses = []string{}
	}
	if a.Suggestions == nil {
		a.Suggestions = []string{}
	}
}
