package matching

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/queue"
	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/usage"
)

func newTestRouter(t *testing.T, limit int, q queue.Client) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, _ := newTestService(Settings{})
	h := NewHandler(svc, usage.NewService(limit), q)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Identity())
	h.RegisterRoutes(api)
	return r, svc
}

func doRequest(r http.Handler, method, path, user, role string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if user != "" {
		req.Header.Set("X-User-Id", user)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateEndpointConsumesAllowance(t *testing.T) {
	r, _ := newTestRouter(t, 1, nil)

	w := doRequest(r, http.MethodPost, "/api/v1/candidates/cand-1/recommendations", "cand-1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Items []resultResponse `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 3 || body.Items[0].JobID != "job-perfect" {
		t.Fatalf("unexpected items %+v", body.Items)
	}

	w = doRequest(r, http.MethodPost, "/api/v1/candidates/cand-1/recommendations", "cand-1", "", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	var errBody map[string]map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errBody["error"]["code"] != "limit_reached" {
		t.Fatalf("unexpected error body %s", w.Body.String())
	}
}

func TestGenerateEndpointRejectsOtherCandidate(t *testing.T) {
	r, _ := newTestRouter(t, 10, nil)
	w := doRequest(r, http.MethodPost, "/api/v1/candidates/cand-1/recommendations", "cand-2", "", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	w = doRequest(r, http.MethodPost, "/api/v1/candidates/cand-1/recommendations", "ops", "admin", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin expected 200, got %d", w.Code)
	}
}

func TestGenerateEndpointUnknownCandidate(t *testing.T) {
	r, _ := newTestRouter(t, 10, nil)
	w := doRequest(r, http.MethodPost, "/api/v1/candidates/ghost/recommendations", "ghost", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGenerateEndpointAsyncEnqueues(t *testing.T) {
	q := &queue.MemoryClient{}
	r, svc := newTestRouter(t, 10, q)

	w := doRequest(r, http.MethodPost, "/api/v1/candidates/cand-1/recommendations?async=true", "cand-1", "", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
	sent := q.Sent()
	if len(sent) != 1 || sent[0].Kind != queue.KindRecommendations || sent[0].CandidateID != "cand-1" {
		t.Fatalf("unexpected messages %+v", sent)
	}
	list, _ := svc.ListRecommendations(t.Context(), "cand-1", ListOptions{})
	if len(list) != 0 {
		t.Fatalf("async request ran generation inline")
	}
}

func TestRecommendationLifecycleEndpoints(t *testing.T) {
	r, svc := newTestRouter(t, 10, nil)
	results, err := svc.GenerateRecommendations(t.Context(), "cand-1")
	if err != nil {
		t.Fatalf("GenerateRecommendations: %v", err)
	}
	id := results[0].ID

	w := doRequest(r, http.MethodGet, "/api/v1/recommendations/"+id, "cand-2", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("other candidate expected 404, got %d", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/api/v1/recommendations/"+id+"/apply", "cand-1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("apply expected 200, got %d", w.Code)
	}
	var res resultResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Applied || !res.Viewed {
		t.Fatalf("unexpected flags %+v", res)
	}

	w = doRequest(r, http.MethodPost, "/api/v1/recommendations/"+id+"/dismiss", "cand-1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dismiss expected 200, got %d", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/api/v1/candidates/cand-1/recommendations", "cand-1", "", nil)
	var list struct {
		Items []resultResponse `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected dismissed result hidden, got %d items", len(list.Items))
	}

	w = doRequest(r, http.MethodPost, "/api/v1/recommendations/missing/view", "cand-1", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing expected 404, got %d", w.Code)
	}
}

func TestListEndpointValidatesPaging(t *testing.T) {
	r, _ := newTestRouter(t, 10, nil)
	w := doRequest(r, http.MethodGet, "/api/v1/candidates/cand-1/recommendations?limit=abc", "cand-1", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	w = doRequest(r, http.MethodGet, "/api/v1/candidates/cand-1/recommendations?offset=-1", "cand-1", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestScoreEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, 10, nil)
	body := []byte(`{
		"candidate": {"skills": ["React", "Node.js"], "experienceLevel": "mid", "location": "São Paulo, SP", "expectedSalary": 8000},
		"job": {"requiredSkills": ["React", "Node.js", "MongoDB"], "experienceLevel": "mid", "location": "São Paulo, SP", "salaryMin": 6000, "salaryMax": 12000}
	}`)
	w := doRequest(r, http.MethodPost, "/api/v1/match/score", "cand-1", "", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var score MatchScore
	if err := json.Unmarshal(w.Body.Bytes(), &score); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if score.Overall != 87 {
		t.Fatalf("overall = %d, want 87", score.Overall)
	}

	w = doRequest(r, http.MethodPost, "/api/v1/match/score", "cand-1", "", []byte(`{`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
