package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/job-matcher/internal/matching"
)

const lusakaProfile = `{
	"id": "profile-1",
	"skills": [{"name": "React"}, {"name": "TypeScript"}, {"name": "Node.js"}],
	"location": {"city": "Lusaka"},
	"salary": {"min": 65000, "max": 85000},
	"employment_types": ["full-time"]
}`

const lusakaOpportunity = `{
	"id": "opp-lusaka",
	"skills": ["React", "TypeScript"],
	"location": {"city": "Lusaka"},
	"salary": {"min": 60000, "max": 80000},
	"type": "full-time"
}`

func newTestServer(t *testing.T) (*Server, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := matching.New(matching.DefaultWeights(), matching.WithClock(func() time.Time {
		return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	return New(engine, zap.New(core), Options{Workers: 2, Version: "test"}), logs
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var resp Response
	if w.Header().Get("Content-Type") != "" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestScoreEndpoint(t *testing.T) {
	s, logs := newTestServer(t)

	w, resp := do(t, s, http.MethodPost, "/v1/score",
		`{"opportunity": `+lusakaOpportunity+`, "profile": `+lusakaProfile+`}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, w.Header().Get(headerRequestID))

	data := resp.Data.(map[string]any)
	assert.Equal(t, "opp-lusaka", data["opportunity_id"])
	assert.EqualValues(t, 91, data["score"])
	assert.InDelta(t, 0.75, data["confidence"], 0.0001)

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
}

func TestScoreEndpointRejectsBadBodies(t *testing.T) {
	s, logs := newTestServer(t)

	cases := []struct {
		name string
		body string
		code string
	}{
		{name: "malformed json", body: `{"opportunity":`, code: ErrCodeBadRequest},
		{name: "missing profile", body: `{"opportunity": ` + lusakaOpportunity + `}`, code: ErrCodeBadRequest},
		{name: "profile without id", body: `{"opportunity": ` + lusakaOpportunity + `, "profile": {"skills": []}}`, code: ErrCodeValidation},
		{name: "negative salary", body: `{"opportunity": {"id": "o", "salary": {"min": -1}}, "profile": ` + lusakaProfile + `}`, code: ErrCodeValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := do(t, s, http.MethodPost, "/v1/score", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}

	assert.Equal(t, len(cases), logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestMatchEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{
		"profile": ` + lusakaProfile + `,
		"opportunities": [
			{"id": "far", "skills": ["COBOL"], "location": {"city": "Oslo"}},
			` + lusakaOpportunity + `
		],
		"min_score": 80
	}`

	req := httptest.NewRequest(http.MethodPost, "/v1/match", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerRequestID, "req-42")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(headerRequestID))

	var resp struct {
		Success bool                   `json:"success"`
		Data    []matching.MatchResult `json:"data"`
		Meta    Meta                   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "opp-lusaka", resp.Data[0].OpportunityID)
	assert.Equal(t, 2, resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Returned)
	require.NotNil(t, resp.Meta.MinScore)
	assert.Equal(t, 80, *resp.Meta.MinScore)
	assert.Equal(t, "req-42", resp.Meta.RunID)
}

func TestMatchEndpointOrdersWithoutThreshold(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"profile": ` + lusakaProfile + `, "opportunities": [
		{"id": "far", "skills": ["COBOL"], "location": {"city": "Oslo"}},
		` + lusakaOpportunity + `
	]}`

	w, resp := do(t, s, http.MethodPost, "/v1/match", body)
	require.Equal(t, http.StatusOK, w.Code)

	data := resp.Data.([]any)
	require.Len(t, data, 2)
	assert.Equal(t, "opp-lusaka", data[0].(map[string]any)["opportunity_id"])
	assert.Equal(t, "far", data[1].(map[string]any)["opportunity_id"])
	assert.Nil(t, resp.Meta.MinScore)
}

func TestMatchEndpointRejectsInvalidOpportunity(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"profile": ` + lusakaProfile + `, "opportunities": [` + lusakaOpportunity + `, {"title": "no id"}]}`
	w, resp := do(t, s, http.MethodPost, "/v1/match", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "opportunity 1")
}

func TestMatchEndpointRejectsDuplicateIDs(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"profile": ` + lusakaProfile + `, "opportunities": [` + lusakaOpportunity + `, ` + lusakaOpportunity + `]}`
	w, resp := do(t, s, http.MethodPost, "/v1/match", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "duplicate id")
}

func TestMatchEndpointRejectsThresholdOutOfRange(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"profile": ` + lusakaProfile + `, "opportunities": [], "min_score": 101}`
	w, resp := do(t, s, http.MethodPost, "/v1/match", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeBadRequest, resp.Error.Code)
}

func TestWeightsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	w, resp := do(t, s, http.MethodGet, "/v1/weights", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := resp.Data.(map[string]any)
	assert.InDelta(t, 1.0, data["sum"], 0.0001)
	weights := data["weights"].(map[string]any)
	assert.InDelta(t, 0.30, weights["skills"], 0.0001)
	assert.Len(t, weights, len(matching.Criteria))
}

func TestHealthAndNoRoute(t *testing.T) {
	s, _ := newTestServer(t)

	w, _ := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, w.Body.String())

	w, resp := do(t, s, http.MethodGet, "/v2/nothing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestTokenProtectsV1Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine, err := matching.New(matching.DefaultWeights())
	require.NoError(t, err)
	s := New(engine, zap.NewNop(), Options{Token: "s3cret"})

	w, resp := do(t, s, http.MethodGet, "/v1/weights", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeUnauthorized, resp.Error.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/weights", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/weights", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Health stays open without a token.
	w, _ = do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
