package algorithms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/sysalgs.net/internal/adapter/logging"
	"gitlab.com/sysalgs.net/internal/adapter/memory"
	"gitlab.com/sysalgs.net/internal/core/services/algorithm"
	"gitlab.com/sysalgs.net/internal/core/services/console"
	"gitlab.com/sysalgs.net/internal/core/services/execution"
	"gitlab.com/sysalgs.net/internal/domain"
	"gitlab.com/sysalgs.net/internal/handlers"
)

func newTestRouter(t *testing.T, secret string) (*mux.Router, *AlgorithmHandler) {
	t.Helper()
	logger := logging.NewNopLogger()
	hub := console.NewHub(memory.NewConsoleLogRepository(100), 16, logger)
	executions := execution.NewExecutionService(memory.NewExecutionRepository(), hub, logger)
	t.Cleanup(func() { _ = executions.Shutdown(context.Background()) })

	algorithms := algorithm.NewAlgorithmService(
		algorithm.NewRegistry(algorithm.DefaultEntries(executions, time.Millisecond)...),
		logger,
	)
	consoleStream := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}

	h := NewAlgorithmHandler(algorithms, executions, consoleStream, 256, logger)
	router := mux.NewRouter()
	h.RegisterRoutes(router, handlers.New(secret, "*"))
	return router, h
}

func post(router http.Handler, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/algorithms", strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) domain.AlgorithmResponse {
	t.Helper()
	var resp domain.AlgorithmResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleRequestAlwaysAnswers200(t *testing.T) {
	router, h := newTestRouter(t, "")

	rec := post(router, `{"request_type":"list","content":{"list_type":"approximation"}}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decodeResponse(t, rec)
	assert.Equal(t, domain.StatusOk, resp.Status)
	assert.JSONEq(t, `["Rucksack-PTAS","Rucksack-FPTAS"]`, resp.Message)

	rec = post(router, `not json`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	resp = decodeResponse(t, rec)
	assert.Equal(t, domain.StatusError, resp.Status)
	assert.Contains(t, resp.Message, "error parsing toplevel request")

	rec = post(router, `{"request_type":"execution","content":{"algorithm":"bogus","data":""}}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeResponse(t, rec).Message, "unknown algorithm")

	assert.Equal(t, uint64(3), h.Requests())
}

func TestHandleRequestRejectsOversizedBody(t *testing.T) {
	router, _ := newTestRouter(t, "")

	body := `{"request_type":"execution","content":{"algorithm":"prim","data":"` + strings.Repeat("x", 512) + `"}}`
	rec := post(router, body, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StatusError, decodeResponse(t, rec).Status)
}

func TestLongRunningExecutionIsTracked(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := post(router, `{"request_type":"execution","content":{"algorithm":"rucksack-fptas","data":"3 4 5"}}`, nil)
	resp := decodeResponse(t, rec)
	require.Equal(t, domain.StatusOk, resp.Status)
	require.NotNil(t, resp.ConsoleID)

	path := "/api/algorithms/executions/" + resp.ConsoleID.String()
	require.Eventually(t, func() bool {
		rec := get(router, path)
		if rec.Code != http.StatusOK {
			return false
		}
		var record domain.Execution
		if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
			return false
		}
		return record.Status == domain.ExecutionStatusCompleted
	}, 2*time.Second, 5*time.Millisecond)

	rec = get(router, "/api/algorithms/executions?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var recent map[string][]domain.Execution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recent))
	require.Len(t, recent["executions"], 1)
	assert.Equal(t, *resp.ConsoleID, recent["executions"][0].ID)
}

func TestGetExecutionErrors(t *testing.T) {
	router, _ := newTestRouter(t, "")

	assert.Equal(t, http.StatusBadRequest, get(router, "/api/algorithms/executions/not-a-uuid").Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/api/algorithms/executions/6f1c2a7e-0d5b-4d8e-9a51-3f1f1e2b7c10").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/algorithms/executions?limit=0").Code)

	rec := get(router, "/api/algorithms/executions")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"executions":[]}`, rec.Body.String())
}

func TestGetDescriptorsAndConsoleRoute(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := get(router, "/api/algorithms")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string][]domain.AlgorithmDescriptor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body["algorithms"], 5)
	assert.Equal(t, domain.AlgorithmDijkstra, body["algorithms"][0].ID)

	assert.Equal(t, http.StatusTeapot, get(router, "/api/algorithms/ws/console").Code)
}

func TestHandleRequestRequiresTokenWhenSecretSet(t *testing.T) {
	router, h := newTestRouter(t, "s3cret")
	body := `{"request_type":"list","content":{}}`

	rec := post(router, body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"status":"Error","message":"Authorization header missing"}`, rec.Body.String())
	assert.Equal(t, http.StatusUnauthorized, post(router, body, http.Header{"Authorization": {"Bearer garbage"}}).Code)
	assert.Equal(t, uint64(0), h.Requests())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "tester"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	rec = post(router, body, http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StatusOk, decodeResponse(t, rec).Status)
}
