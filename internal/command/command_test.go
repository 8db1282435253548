package command

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentit/Prompty-Veille/internal/model"
)

// recordingServer serves canned JSON per path and records what it was asked.
type recordingServer struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []json.RawMessage
	respond  map[string]any
	server   *httptest.Server
}

func newRecordingServer(t *testing.T, respond map[string]any) *recordingServer {
	t.Helper()

	rs := &recordingServer{respond: respond}
	rs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.requests = append(rs.requests, r.Clone(r.Context()))
		var body json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&body)
		rs.bodies = append(rs.bodies, body)
		rs.mu.Unlock()

		resp, ok := respond[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(rs.server.Close)
	return rs
}

func execute(t *testing.T, server string, args ...string) error {
	t.Helper()

	rootCmd.SetArgs(append(args, "--server", server))
	err := rootCmd.Execute()

	// reset flag state between runs
	jsonOut = false
	return err
}

func TestSourcesList(t *testing.T) {
	rs := newRecordingServer(t, map[string]any{
		"/api/sources": []model.Source{
			{ID: "s1", Name: "Blog A", URL: "https://a.example", Tags: []string{"llm"}, Active: true},
		},
	})

	require.NoError(t, execute(t, rs.server.URL, "sources", "list"))

	require.Len(t, rs.requests, 1)
	assert.Equal(t, http.MethodGet, rs.requests[0].Method)
	assert.Equal(t, "/api/sources", rs.requests[0].URL.Path)
}

func TestSourcesAddSendsInput(t *testing.T) {
	rs := newRecordingServer(t, map[string]any{
		"/api/sources": model.Source{ID: "s1", Name: "Blog A"},
	})

	require.NoError(t, execute(t, rs.server.URL,
		"sources", "add", "--name", "Blog A", "--url", "https://a.example",
		"--category", "LLM", "--tag", "openai", "--tag", "gpt"))

	require.Len(t, rs.bodies, 1)

	var in model.SourceInput
	require.NoError(t, json.Unmarshal(rs.bodies[0], &in))
	assert.Equal(t, "Blog A", in.Name)
	require.NotNil(t, in.Category)
	assert.Equal(t, "LLM", *in.Category)
	assert.Equal(t, []string{"openai", "gpt"}, in.Tags)
}

func TestSummariesListOnlyNewFiltersServerSide(t *testing.T) {
	rs := newRecordingServer(t, map[string]any{
		"/api/summaries": []model.Summary{},
	})

	require.NoError(t, execute(t, rs.server.URL,
		"summaries", "list", "--new", "--category", "LLM"))

	require.Len(t, rs.requests, 1)
	query := rs.requests[0].URL.Query()
	assert.Equal(t, "true", query.Get("is_new"))
	// category filtering happens client-side, not in the request
	assert.Empty(t, query.Get("category"))
}

func TestSummariesShowMarksRead(t *testing.T) {
	rs := newRecordingServer(t, map[string]any{
		"/api/summaries/m1":           model.Summary{ID: "m1", Title: "T", IsNew: true},
		"/api/summaries/m1/mark-read": map[string]string{"message": "Marked as read"},
	})

	require.NoError(t, execute(t, rs.server.URL, "summaries", "show", "m1"))

	require.Len(t, rs.requests, 2)
	assert.Equal(t, "/api/summaries/m1", rs.requests[0].URL.Path)
	assert.Equal(t, "/api/summaries/m1/mark-read", rs.requests[1].URL.Path)
	assert.Equal(t, http.MethodPost, rs.requests[1].Method)
}

func TestSummariesShowReadSummarySkipsMarkRead(t *testing.T) {
	rs := newRecordingServer(t, map[string]any{
		"/api/summaries/m1": model.Summary{ID: "m1", Title: "T", IsNew: false},
	})

	require.NoError(t, execute(t, rs.server.URL, "summaries", "show", "m1"))
	assert.Len(t, rs.requests, 1)
}

func TestProcessSave(t *testing.T) {
	rs := newRecordingServer(t, map[string]any{
		"/api/process-url": model.Summary{ID: "m1", SourceName: "Single URL"},
	})

	require.NoError(t, execute(t, rs.server.URL, "process", "https://a.example/p", "--save"))

	require.Len(t, rs.bodies, 1)

	var req model.ProcessURLRequest
	require.NoError(t, json.Unmarshal(rs.bodies[0], &req))
	assert.Equal(t, "https://a.example/p", req.URL)
	assert.True(t, req.Save)
}

func TestArticlesCompileRequiresTwoSummaries(t *testing.T) {
	rs := newRecordingServer(t, nil)

	err := execute(t, rs.server.URL,
		"articles", "compile", "--title", "T", "--theme", "X", "m1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two summaries")
	assert.Empty(t, rs.requests, "no request must leave the client")
}

func TestArticlesCompile(t *testing.T) {
	rs := newRecordingServer(t, map[string]any{
		"/api/articles": model.Article{ID: "a1", Title: "T"},
	})

	require.NoError(t, execute(t, rs.server.URL,
		"articles", "compile", "--title", "T", "--theme", "X", "m1", "m2"))

	require.Len(t, rs.bodies, 1)

	var req model.CompileArticleRequest
	require.NoError(t, json.Unmarshal(rs.bodies[0], &req))
	assert.Equal(t, []string{"m1", "m2"}, req.SummaryIDs)
}

func TestDeleteFailureSurfacesAPIError(t *testing.T) {
	rs := newRecordingServer(t, nil)

	err := execute(t, rs.server.URL, "sources", "delete", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestCheck(t *testing.T) {
	rs := newRecordingServer(t, map[string]any{
		"/api/check-sources": map[string]string{"message": "Source check started in background"},
	})

	require.NoError(t, execute(t, rs.server.URL, "check"))
	require.Len(t, rs.requests, 1)
	assert.Equal(t, http.MethodPost, rs.requests[0].Method)
}
