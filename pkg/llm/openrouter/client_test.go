package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhiyanlab/research-match/pkg/llm"
)

func newTestServer(t *testing.T, status int, body string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestInvokeStringContent(t *testing.T) {
	var captured map[string]any
	srv := newTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`, &captured)
	defer srv.Close()

	c := New("test-key", srv.URL, "test/model", "research-match", "http://localhost")
	res, err := c.Invoke(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "hello there", res.Text)
	assert.Nil(t, res.JSON)
	assert.Equal(t, "test/model", captured["model"])
	_, hasFormat := captured["response_format"]
	assert.False(t, hasFormat)
}

func TestInvokeStructuredContent(t *testing.T) {
	srv := newTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":{"score":80}}}]}`, nil)
	defer srv.Close()

	c := New("test-key", srv.URL, "test/model", "", "")
	res, err := c.Invoke(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	assert.Empty(t, res.Text)
	assert.JSONEq(t, `{"score":80}`, string(res.JSON))
}

func TestInvokeSendsResponseFormat(t *testing.T) {
	var captured map[string]any
	srv := newTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"{}"}}]}`, &captured)
	defer srv.Close()

	c := New("test-key", srv.URL, "test/model", "", "")
	_, err := c.Invoke(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
		ResponseSchema: &llm.Schema{
			Name:   "thing",
			Strict: true,
			Schema: map[string]any{"type": "object"},
		},
	})
	require.NoError(t, err)

	rf, ok := captured["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", rf["type"])
	schema, ok := rf["json_schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "thing", schema["name"])
}

func TestInvokeMissingKeyIsConfigError(t *testing.T) {
	c := New("", "http://unused", "m", "", "")
	_, err := c.Invoke(context.Background(), llm.Request{})

	require.Error(t, err)
	assert.True(t, llm.IsConfigError(err))
}

func TestInvokeHTTPErrorIsBackendError(t *testing.T) {
	srv := newTestServer(t, http.StatusServiceUnavailable, `{"error":{"message":"overloaded"}}`, nil)
	defer srv.Close()

	c := New("test-key", srv.URL, "m", "", "")
	_, err := c.Invoke(context.Background(), llm.Request{})

	require.Error(t, err)
	assert.False(t, llm.IsConfigError(err))
	var ge *llm.GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, llm.ErrKindBackend, ge.Kind)
	assert.Contains(t, ge.Error(), "503")
}

func TestInvokeNoChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"choices":[]}`, nil)
	defer srv.Close()

	c := New("test-key", srv.URL, "m", "", "")
	_, err := c.Invoke(context.Background(), llm.Request{})
	assert.Error(t, err)
}

func TestInvokeNullContent(t *testing.T) {
	srv := newTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":null}}]}`, nil)
	defer srv.Close()

	c := New("test-key", srv.URL, "m", "", "")
	_, err := c.Invoke(context.Background(), llm.Request{})
	assert.Error(t, err)
}
