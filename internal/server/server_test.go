package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonathan/pagesmith/internal/pipeline"
	"github.com/jonathan/pagesmith/internal/publish"
	"github.com/jonathan/pagesmith/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner counts pipeline invocations and replies with a scripted result.
type stubRunner struct {
	calls   int
	lastReq *types.DeployRequest
	result  *types.DeployResult
	err     error
}

func (s *stubRunner) Run(_ context.Context, req *types.DeployRequest) (*types.DeployResult, error) {
	s.calls++
	s.lastReq = req
	return s.result, s.err
}

func newTestServer(runner DeployRunner) *Server {
	return New(Config{Port: 0, StoredSecret: "S"}, runner)
}

func postDeploy(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api-endpoint", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.handleDeploy(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleDeploy_UnparseableBody(t *testing.T) {
	runner := &stubRunner{}
	s := newTestServer(runner)

	w := postDeploy(t, s, "this is not json")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorBody(t, w)["error"], "Invalid JSON")
	assert.Zero(t, runner.calls)
}

func TestHandleDeploy_SchemaShapeRejected(t *testing.T) {
	runner := &stubRunner{}
	s := newTestServer(runner)

	tests := []struct {
		name string
		body string
	}{
		{"array body", `["secret"]`},
		{"string round", `{"secret":"S","round":"abc"}`},
		{"numeric secret", `{"secret":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postDeploy(t, s, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Zero(t, runner.calls)
}

func TestHandleDeploy_WrongSecret(t *testing.T) {
	runner := &stubRunner{}
	s := newTestServer(runner)

	w := postDeploy(t, s, `{"secret":"wrong","task":"Quiz App","brief":"a quiz app"}`)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid secret", errorBody(t, w)["error"])
	assert.Zero(t, runner.calls)
}

func TestHandleDeploy_MissingSecret(t *testing.T) {
	runner := &stubRunner{}
	s := newTestServer(runner)

	w := postDeploy(t, s, `{"task":"Quiz App"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, runner.calls)
}

func TestHandleDeploy_BadEvaluationURL(t *testing.T) {
	runner := &stubRunner{}
	s := newTestServer(runner)

	w := postDeploy(t, s, `{"secret":"S","evaluation_url":"not a url"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, runner.calls)
}

func TestHandleDeploy_PipelineFailure(t *testing.T) {
	runner := &stubRunner{err: &pipeline.StageError{
		Stage: pipeline.StageGenerate,
		Err:   assert.AnError,
	}}
	s := newTestServer(runner)

	w := postDeploy(t, s, `{"secret":"S","brief":"a quiz app"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, errorBody(t, w)["error"], "generate stage failed")
	assert.Equal(t, 1, runner.calls)
}

func TestHandleDeploy_Success(t *testing.T) {
	runner := &stubRunner{result: &types.DeployResult{
		Email:     "student@example.com",
		Task:      "Quiz App",
		Round:     1,
		RepoURL:   "https://github.com/u/quiz-app-1",
		CommitSHA: "abc123",
		PagesURL:  "https://u.github.io/quiz-app-1/",
	}}
	s := newTestServer(runner)

	w := postDeploy(t, s, `{"secret":"S","task":"Quiz App","round":1,"brief":"a quiz app"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var result types.DeployResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "abc123", result.CommitSHA)
	assert.Equal(t, "Quiz App", runner.lastReq.Task)
}

// End-to-end stubs at the component level: a real pipeline wired with a
// stub generator and publisher behind the real handler.

type fixedGenerator struct{ artifact string }

func (f *fixedGenerator) GenerateApp(context.Context, string) (string, error) {
	return f.artifact, nil
}

type fixedPublisher struct{ result publish.Result }

func (f *fixedPublisher) Publish(_ context.Context, _, _, _, _ string) (publish.Result, error) {
	return f.result, nil
}

type noopNotifier struct{ calls int }

func (n *noopNotifier) Notify(_ context.Context, url string, _ *types.DeployResult) int {
	if url == "" {
		return 0
	}
	n.calls++
	return 1
}

func TestHandleDeploy_EndToEnd(t *testing.T) {
	gen := &fixedGenerator{artifact: "<html>..</html>"}
	pub := &fixedPublisher{result: publish.Result{
		RepoURL:   "https://github.com/u/quiz-app-1",
		CommitSHA: "abc123",
		PagesURL:  "https://u.github.io/quiz-app-1/",
	}}
	not := &noopNotifier{}

	p := pipeline.New(gen, pub, not, t.TempDir())
	s := newTestServer(p)

	w := postDeploy(t, s, `{"secret":"S","task":"Quiz App","round":1,"brief":"a quiz app"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var result map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "student@example.com", result["email"])
	assert.Equal(t, "Quiz App", result["task"])
	assert.Equal(t, float64(1), result["round"])
	assert.Nil(t, result["nonce"])
	assert.Equal(t, "https://github.com/u/quiz-app-1", result["repo_url"])
	assert.Equal(t, "abc123", result["commit_sha"])
	assert.Equal(t, "https://u.github.io/quiz-app-1/", result["pages_url"])

	// No callback URL was supplied, so nothing was dispatched.
	assert.Zero(t, not.calls)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&stubRunner{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
