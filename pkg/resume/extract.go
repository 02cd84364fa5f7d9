package resume

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/zhiyanlab/research-match/pkg/llm"
	"github.com/zhiyanlab/research-match/pkg/logger"
)

const (
	extractSystemPrompt = "You are a resume information extraction assistant. Extract structured fields from resume text accurately and without inventing values."

	// maxPromptChars caps the resume text fed to the model. Longer resumes
	// are cut, not rejected.
	maxPromptChars = 8000

	// nullToken is the literal string some models emit for fields they could
	// not find, despite instructions. Treated the same as an absent field.
	nullToken = "null"
)

// Extractor parses profile fields out of resume text through the gateway.
// ParseFields never returns an error: extraction is an assist, so any
// failure simply yields an empty patch and the student fills fields by hand.
type Extractor struct {
	gw        llm.Gateway
	logger    *zap.Logger
	maxLogLen int
}

func NewExtractor(gw llm.Gateway, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{gw: gw, logger: log, maxLogLen: 200}
}

func (e *Extractor) ParseFields(ctx context.Context, text string) ParseResult {
	if strings.TrimSpace(text) == "" {
		return ParseResult{}
	}
	if len(text) > maxPromptChars {
		cut := maxPromptChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	prompt := fmt.Sprintf(`Extract the following fields from the resume text. Omit any field the text does not mention.

Resume text:
<<<
%s
>>>

Fields to extract:
- studentNo: student id number
- grade: school year, e.g. "junior" or "first-year graduate"
- major: field of study
- gpa: grade point average, keep the original notation
- skills: comma-separated skill list
- researchInterests: comma-separated research interests
- projectExperience: short description of past projects
- availableTime: weekly availability

Output JSON with only the fields actually present in the text.`, text)

	res, err := e.gw.Invoke(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: extractSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		ResponseSchema: parseResultSchema(),
	})
	if err != nil {
		e.logger.Warn("resume field extraction failed", zap.Error(err))
		return ParseResult{}
	}

	var out ParseResult
	if err := llm.UnmarshalLenient(res, &out); err != nil {
		e.logger.Warn("resume field extraction returned unparseable content",
			zap.Error(err),
			zap.String("preview", logger.TruncateForLog(res.Text, e.maxLogLen)),
		)
		return ParseResult{}
	}
	out.scrub()
	return out
}

// scrub drops fields that are empty or carry the literal null token.
func (r *ParseResult) scrub() {
	for _, f := range []*string{
		&r.StudentNo, &r.Grade, &r.Major, &r.GPA,
		&r.Skills, &r.ResearchInterests, &r.ProjectExperience, &r.AvailableTime,
	} {
		v := strings.TrimSpace(*f)
		if v == "" || v == nullToken {
			*f = ""
			continue
		}
		*f = v
	}
}

func parseResultSchema() *llm.Schema {
	str := map[string]any{"type": "string"}
	return &llm.Schema{
		Name:   "resume_fields",
		Strict: false,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"studentNo":         str,
				"grade":             str,
				"major":             str,
				"gpa":               str,
				"skills":            str,
				"researchInterests": str,
				"projectExperience": str,
				"availableTime":     str,
			},
			"additionalProperties": false,
		},
	}
}
