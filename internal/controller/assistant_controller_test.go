package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"civics-tutor-be/internal/dto"
	"civics-tutor-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearchService struct {
	searchErr error
	infoErr   error
	randomErr error
}

func (s *stubSearchService) Search(_ context.Context, query string, limit int) (*dto.SearchResponse, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return &dto.SearchResponse{
		Query: query,
		Results: []dto.SearchResultItem{
			{QuestionID: 1, Question: "What is the supreme law of the land?", Answer: "the Constitution", Similarity: 0.93},
		},
		Count: 1,
	}, nil
}

func (s *stubSearchService) Info(context.Context) (*dto.CorpusInfoResponse, error) {
	if s.infoErr != nil {
		return nil, s.infoErr
	}
	return &dto.CorpusInfoResponse{TotalDocuments: 100, Status: "ready", EmbeddingModel: "fake-embedding"}, nil
}

func (s *stubSearchService) RandomQuestion(context.Context) (*dto.QuestionResponse, error) {
	if s.randomErr != nil {
		return nil, s.randomErr
	}
	return &dto.QuestionResponse{QuestionID: 18, Question: "How many U.S. Senators are there?", Answer: "one hundred (100)"}, nil
}

func (s *stubSearchService) QuestionByID(context.Context, int) (*dto.QuestionResponse, error) {
	return nil, nil
}

func (s *stubSearchService) CheckAnswer(_ context.Context, req *dto.CheckAnswerRequest) (*dto.CheckAnswerResponse, error) {
	return &dto.CheckAnswerResponse{
		Correct:         true,
		CanonicalAnswer: "the Constitution",
		UserAnswer:      req.UserAnswer,
		Feedback:        "Correct!",
	}, nil
}

type stubEnhancementService struct{}

func (s *stubEnhancementService) Enhance(_ context.Context, message string) (*dto.EnhanceMessageResponse, error) {
	return &dto.EnhanceMessageResponse{
		OriginalMessage: message,
		EnhancedMessage: message,
		HasContext:      false,
	}, nil
}

func newTestApp(search *stubSearchService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())

	api := app.Group("/api")
	NewAssistantController(search, &stubEnhancementService{}).RegisterRoutes(api)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var parsed map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp, parsed
}

func TestSearchEndpoint(t *testing.T) {
	app := newTestApp(&stubSearchService{})

	resp, body := doJSON(t, app, http.MethodPost, "/api/assistant/v1/search", dto.SearchRequest{Query: "supreme law", Limit: 3})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "supreme law", data["query"])
	assert.Equal(t, float64(1), data["count"])
}

func TestSearchValidation(t *testing.T) {
	app := newTestApp(&stubSearchService{})

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing query", dto.SearchRequest{Limit: 3}},
		{"limit above maximum", dto.SearchRequest{Query: "senators", Limit: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, http.MethodPost, "/api/assistant/v1/search", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestSearchMalformedBody(t *testing.T) {
	app := newTestApp(&stubSearchService{})

	req := httptest.NewRequest(http.MethodPost, "/api/assistant/v1/search", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServiceErrorsMapToStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		searchErr  error
		wantStatus int
	}{
		{"empty corpus", serverutils.ErrEmptyStore, http.StatusNotFound},
		{"store not initialized", serverutils.ErrNotInitialized, http.StatusServiceUnavailable},
		{"embedding provider down", serverutils.ErrEmbedding, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubSearchService{searchErr: tt.searchErr})

			resp, body := doJSON(t, app, http.MethodPost, "/api/assistant/v1/search", dto.SearchRequest{Query: "senators"})

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, float64(tt.wantStatus), body["code"])
		})
	}
}

func TestSearchInfoEndpoint(t *testing.T) {
	app := newTestApp(&stubSearchService{})

	resp, body := doJSON(t, app, http.MethodGet, "/api/assistant/v1/search/info", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ready", data["status"])
	assert.Equal(t, float64(100), data["totalDocuments"])
}

func TestEnhanceMessageEndpoint(t *testing.T) {
	app := newTestApp(&stubSearchService{})

	resp, body := doJSON(t, app, http.MethodPost, "/api/assistant/v1/enhance-message", dto.EnhanceMessageRequest{Message: "what is the constitution?"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "what is the constitution?", data["originalMessage"])
}

func TestEnhanceMessageRequiresMessage(t *testing.T) {
	app := newTestApp(&stubSearchService{})

	resp, _ := doJSON(t, app, http.MethodPost, "/api/assistant/v1/enhance-message", dto.EnhanceMessageRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRandomQuestionEndpoint(t *testing.T) {
	app := newTestApp(&stubSearchService{})

	resp, body := doJSON(t, app, http.MethodGet, "/api/assistant/v1/random-question", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(18), data["id"])
}

func TestRandomQuestionEmptyCorpus(t *testing.T) {
	app := newTestApp(&stubSearchService{randomErr: serverutils.ErrEmptyStore})

	resp, _ := doJSON(t, app, http.MethodGet, "/api/assistant/v1/random-question", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckAnswerEndpoint(t *testing.T) {
	app := newTestApp(&stubSearchService{})

	resp, body := doJSON(t, app, http.MethodPost, "/api/assistant/v1/check-answer", dto.CheckAnswerRequest{QuestionID: 1, UserAnswer: "the Constitution"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["correct"])
	assert.Equal(t, "Correct!", data["feedback"])
}

func TestCheckAnswerValidation(t *testing.T) {
	app := newTestApp(&stubSearchService{})

	resp, _ := doJSON(t, app, http.MethodPost, "/api/assistant/v1/check-answer", dto.CheckAnswerRequest{UserAnswer: "the Constitution"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
