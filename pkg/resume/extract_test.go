package resume

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhiyanlab/research-match/pkg/llm"
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

func TestParseFieldsDropsNullAndEmpty(t *testing.T) {
	gw := &stubGateway{res: llm.Result{Text: `{"major":"computer science","grade":"null","skills":null,"gpa":"  "}`}}
	ex := NewExtractor(gw, nil)

	got := ex.ParseFields(context.Background(), "some resume text")

	assert.Equal(t, ParseResult{Major: "computer science"}, got)
}

func TestParseFieldsKeepsUppercaseNull(t *testing.T) {
	// Only the lowercase literal marks an absent field; "NULL" could be a
	// real value (e.g. a skill list mentioning SQL NULL handling).
	gw := &stubGateway{res: llm.Result{Text: `{"grade":"null","skills":"NULL"}`}}
	ex := NewExtractor(gw, nil)

	got := ex.ParseFields(context.Background(), "some resume text")

	assert.Empty(t, got.Grade)
	assert.Equal(t, "NULL", got.Skills)
}

func TestParseFieldsFullPatch(t *testing.T) {
	gw := &stubGateway{res: llm.Result{JSON: []byte(`{
		"studentNo": "20230142",
		"grade": "junior",
		"major": "software engineering",
		"gpa": "3.8/4.0",
		"skills": "go, python, sql",
		"researchInterests": "distributed systems",
		"projectExperience": "campus course scheduling system",
		"availableTime": "15 hours per week"
	}`)}}
	ex := NewExtractor(gw, nil)

	got := ex.ParseFields(context.Background(), "some resume text")

	require.False(t, got.IsEmpty())
	assert.Equal(t, "20230142", got.StudentNo)
	assert.Equal(t, "go, python, sql", got.Skills)
	assert.Equal(t, "15 hours per week", got.AvailableTime)
}

func TestParseFieldsEmptyOnGatewayError(t *testing.T) {
	gw := &stubGateway{err: errors.New("upstream down")}
	ex := NewExtractor(gw, nil)

	got := ex.ParseFields(context.Background(), "text")

	assert.True(t, got.IsEmpty())
}

func TestParseFieldsEmptyOnUnparseableContent(t *testing.T) {
	gw := &stubGateway{res: llm.Result{Text: "sorry, no structured data here"}}
	ex := NewExtractor(gw, nil)

	got := ex.ParseFields(context.Background(), "text")

	assert.True(t, got.IsEmpty())
}

func TestParseFieldsSkipsGatewayForBlankText(t *testing.T) {
	gw := &stubGateway{}
	ex := NewExtractor(gw, nil)

	got := ex.ParseFields(context.Background(), "   \n ")

	assert.True(t, got.IsEmpty())
	assert.Equal(t, 0, gw.calls)
}

func TestParseFieldsTruncatesLongText(t *testing.T) {
	gw := &stubGateway{res: llm.Result{Text: `{}`}}
	ex := NewExtractor(gw, nil)

	long := strings.Repeat("a", maxPromptChars+500)
	ex.ParseFields(context.Background(), long)

	require.Equal(t, 1, gw.calls)
	userMsg := gw.lastReq.Messages[1].Content
	assert.Contains(t, userMsg, strings.Repeat("a", maxPromptChars))
	assert.NotContains(t, userMsg, strings.Repeat("a", maxPromptChars+1))
}

func TestParseFieldsTruncatesOnRuneBoundary(t *testing.T) {
	gw := &stubGateway{res: llm.Result{Text: `{}`}}
	ex := NewExtractor(gw, nil)

	// 汉 is three bytes, so the byte cap lands mid-rune unless the cut backs up.
	long := strings.Repeat("汉", maxPromptChars/3+100)
	ex.ParseFields(context.Background(), long)

	require.Equal(t, 1, gw.calls)
	assert.True(t, utf8.ValidString(gw.lastReq.Messages[1].Content))
}
