package match

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/zhiyanlab/research-match/pkg/profile"
	"github.com/zhiyanlab/research-match/pkg/project"
)

// Summary buckets of the local engine. Fixed contract, bucketed by final
// score at 80/60/40.
const (
	SummaryStrong   = "strong match, applying is highly recommended"
	SummaryGood     = "good match, applying is recommended"
	SummaryModerate = "partial match, some capabilities need supplementing"
	SummaryWeak     = "weak match, consider looking for a better-fit project"
)

// LocalEngine is the rule-based matcher: a pure function over explicit field
// comparisons, usable without any generative backend. Identical inputs always
// produce identical results.
type LocalEngine struct{}

func NewLocalEngine() *LocalEngine { return &LocalEngine{} }

func (e *LocalEngine) Name() string { return "local" }

// Match scores additively from a base of 50:
//   - major vs research field: +20 on substring containment either way, +5 otherwise
//   - skills vs required skills: floor(coverage ratio * 30)
//   - research interests vs description: +15 on any keyword hit, +5 otherwise
//   - project experience present: +15
//
// A comparison is skipped entirely when either side is missing, except
// project experience which always contributes a strength or a weakness.
func (e *LocalEngine) Match(_ context.Context, p profile.StudentProfile, pr project.Project) Result {
	score := 50
	strengths := []string{}
	weaknesses := []string{}
	suggestions := []string{}

	if p.Major != "" && pr.ResearchField != "" {
		major := strings.ToLower(p.Major)
		field := strings.ToLower(pr.ResearchField)
		if strings.Contains(major, field) || strings.Contains(field, major) {
			score += 20
			strengths = append(strengths, "major is highly aligned with the research field")
		} else {
			score += 5
			weaknesses = append(weaknesses, "major is not fully aligned with the research field")
			suggestions = append(suggestions, "consider supplementing knowledge of the project's field")
		}
	}

	if p.Skills != "" && pr.RequiredSkills != "" {
		studentSkills := splitTags(p.Skills)
		requiredSkills := splitTags(pr.RequiredSkills)
		if len(requiredSkills) > 0 {
			matched, missing := coverSkills(studentSkills, requiredSkills)
			ratio := float64(len(matched)) / float64(len(requiredSkills))
			score += int(math.Floor(ratio * 30))

			switch {
			case ratio > 0.7:
				strengths = append(strengths,
					fmt.Sprintf("covers most of the required skills (%d/%d)", len(matched), len(requiredSkills)))
			case ratio > 0.4:
				weaknesses = append(weaknesses,
					fmt.Sprintf("some required skills are missing (%d/%d covered)", len(matched), len(requiredSkills)))
				suggestions = append(suggestions, "consider learning the missing skills: "+strings.Join(missing, ", "))
			default:
				weaknesses = append(weaknesses,
					fmt.Sprintf("low coverage of the required skills (%d/%d)", len(matched), len(requiredSkills)))
				suggestions = append(suggestions, "substantial upskilling is needed for this project")
			}
		}
	}

	if p.ResearchInterests != "" && pr.Description != "" {
		description := strings.ToLower(pr.Description)
		hit := false
		for _, keyword := range splitTags(p.ResearchInterests) {
			if len(keyword) > 2 && strings.Contains(description, keyword) {
				hit = true
				break
			}
		}
		if hit {
			score += 15
			strengths = append(strengths, "research interests align with the project direction")
		} else {
			score += 5
			weaknesses = append(weaknesses, "research interests do not fully align with the project direction")
		}
	}

	if strings.TrimSpace(p.ProjectExperience) != "" {
		score += 15
		strengths = append(strengths, "has prior project experience")
	} else {
		weaknesses = append(weaknesses, "no project experience yet")
		suggestions = append(suggestions, "consider joining related projects to gain experience")
	}

	score = clampScore(score)

	return Result{
		Score: score,
		Analysis: Analysis{
			Strengths:   strengths,
			Weaknesses:  weaknesses,
			Suggestions: suggestions,
			Summary:     summaryFor(score),
		},
	}
}

func summaryFor(score int) string {
	switch {
	case score >= 80:
		return SummaryStrong
	case score >= 60:
		return SummaryGood
	case score >= 40:
		return SummaryModerate
	default:
		return SummaryWeak
	}
}

// splitTags lowercases and splits a tag string on commas and whitespace.
func splitTags(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// coverSkills marks a required token as covered when any student token is a
// substring of it or vice versa. Short tokens can therefore over-match
// ("r" covers "rust"); the behavior is kept as-is because scores computed
// with it are already persisted and compared across the platform.
func coverSkills(studentSkills, requiredSkills []string) (matched, missing []string) {
	matched = []string{}
	missing = []string{}
	for _, req := range requiredSkills {
		covered := false
		for _, own := range studentSkills {
			if strings.Contains(own, req) || strings.Contains(req, own) {
				covered = true
				break
			}
		}
		if covered {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}
	return matched, missing
}
