package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cora-leaf-be/internal/dto"
	"cora-leaf-be/internal/entity"
	"cora-leaf-be/internal/pkg/logger"
	"cora-leaf-be/internal/pkg/mailer"
	"cora-leaf-be/internal/pkg/serverutils"
	"cora-leaf-be/internal/repository/memory"
	"cora-leaf-be/internal/service"
	"cora-leaf-be/pkg/governance"
	"cora-leaf-be/pkg/llm"
	"cora-leaf-be/pkg/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-test-secret-0123"

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.reply, f.err
}

func (f *fakeLLM) Name() string { return "fake" }

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Field   string          `json:"field"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	app      *fiber.App
	sessions service.ISessionService
	token    string
	created  dto.StartSessionResponse
}

func newTestApp(t *testing.T, gateway llm.LLMProvider) *testApp {
	t.Helper()

	catalog, err := policy.DefaultCatalog()
	require.NoError(t, err)

	log := logger.NewNopLogger()
	sessions := service.NewSessionService(
		memory.NewSessionRepository(time.Hour, time.Minute),
		catalog,
		mailer.NewSimulatedEmailService(log),
		nil,
		log,
		service.SessionConfig{Secret: testSecret, TTL: time.Hour},
	)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	auth := serverutils.SessionMiddleware(testSecret)

	NewSessionController(sessions).RegisterRoutes(api, auth)
	NewCustomerController(service.NewCustomerService(sessions, log)).RegisterRoutes(api, auth)
	NewChatController(service.NewChatService(sessions, gateway, nil, nil, log, service.ChatConfig{HistoryWindow: 10})).RegisterRoutes(api, auth)
	NewGovernanceController(service.NewGovernanceService(sessions, governance.NewEngine(), nil, nil, log)).RegisterRoutes(api, auth)
	NewDispatchController(service.NewDispatchService(sessions, nil, nil, log)).RegisterRoutes(api, auth)
	NewAuditController(service.NewAuditService(nil, log)).RegisterRoutes(api, auth)

	ta := &testApp{app: app, sessions: sessions}

	status, env := ta.do(t, http.MethodPost, "/api/session/v1", nil, false)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &ta.created))
	ta.token = ta.created.Token

	return ta
}

func (ta *testApp) do(t *testing.T, method, path string, body interface{}, withToken bool) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withToken {
		req.Header.Set("Authorization", "Bearer "+ta.token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (ta *testApp) doRaw(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ta.token)

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestSessionRoutes(t *testing.T) {
	ta := newTestApp(t, &fakeLLM{reply: "ok"})

	assert.NotEmpty(t, ta.token)
	require.NotNil(t, ta.created.Greeting)
	assert.Contains(t, ta.created.Greeting.Content, "Amazon")

	status, _ := ta.do(t, http.MethodGet, "/api/session/v1", nil, false)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := ta.do(t, http.MethodGet, "/api/session/v1", nil, true)
	require.Equal(t, http.StatusOK, status)
	var state dto.SessionStateResponse
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, ta.created.SessionId, state.SessionId)
	assert.Len(t, state.Messages, 1)

	status, env = ta.do(t, http.MethodPut, "/api/session/v1/customer", map[string]string{"name": "Tesla"}, true)
	require.Equal(t, http.StatusOK, status)
	var card dto.CustomerResponse
	require.NoError(t, json.Unmarshal(env.Data, &card))
	assert.Equal(t, "Tesla", card.Name)

	status, env = ta.do(t, http.MethodPut, "/api/session/v1/customer", map[string]string{"name": " "}, true)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "name", env.Field)

	status, _ = ta.do(t, http.MethodPut, "/api/session/v1/customer", map[string]string{"name": "Nobody"}, true)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = ta.do(t, http.MethodDelete, "/api/session/v1/conversation", nil, true)
	assert.Equal(t, http.StatusOK, status)
}

func TestGovernanceRoutes(t *testing.T) {
	ta := newTestApp(t, &fakeLLM{reply: "ok"})

	tests := []struct {
		name        string
		body        map[string]interface{}
		wantStatus  int
		wantOutcome string
	}{
		{name: "amazon boundary approved", body: map[string]interface{}{"customer": "Amazon", "discount_percent": 15}, wantStatus: http.StatusOK, wantOutcome: "Approved"},
		{name: "tesla rejected", body: map[string]interface{}{"customer": "Tesla", "discount_percent": 5}, wantStatus: http.StatusOK, wantOutcome: "Rejected"},
		{name: "missing discount", body: map[string]interface{}{"customer": "Amazon"}, wantStatus: http.StatusBadRequest},
		{name: "out of range discount", body: map[string]interface{}{"customer": "Amazon", "discount_percent": 101}, wantStatus: http.StatusBadRequest},
		{name: "unknown customer", body: map[string]interface{}{"customer": "Nobody", "discount_percent": 1}, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := ta.do(t, http.MethodPost, "/api/governance/v1/decisions", tt.body, true)
			require.Equal(t, tt.wantStatus, status, env.Message)
			if tt.wantOutcome == "" {
				assert.False(t, env.Success)
				return
			}
			var decision dto.DecisionResponse
			require.NoError(t, json.Unmarshal(env.Data, &decision))
			assert.Equal(t, tt.wantOutcome, decision.Outcome)
		})
	}

	status, env := ta.do(t, http.MethodGet, "/api/governance/v1/decisions?limit=1", nil, true)
	require.Equal(t, http.StatusOK, status)
	var history []dto.DecisionResponse
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "Tesla", history[0].Customer)

	status, env = ta.do(t, http.MethodGet, "/api/governance/v1/limits/Google", nil, true)
	require.Equal(t, http.StatusOK, status)
	var limit dto.LimitResponse
	require.NoError(t, json.Unmarshal(env.Data, &limit))
	assert.Equal(t, 5, limit.LimitPercent)
	assert.Equal(t, "risk_tier", limit.Source)

	status, _ = ta.do(t, http.MethodPost, "/api/customer/v1", map[string]interface{}{"name": "Umbrella", "risk_tier": "Extreme"}, true)
	require.Equal(t, http.StatusOK, status)
	status, _ = ta.do(t, http.MethodGet, "/api/governance/v1/limits/Umbrella", nil, true)
	assert.Equal(t, http.StatusConflict, status)
}

func TestMalformedBodiesAreBadRequests(t *testing.T) {
	ta := newTestApp(t, &fakeLLM{reply: "ok"})

	tests := []struct {
		name      string
		path      string
		body      string
		wantField string
	}{
		{name: "fractional discount", path: "/api/governance/v1/decisions", body: `{"customer": "Amazon", "discount_percent": 12.5}`, wantField: "discount_percent"},
		{name: "string discount", path: "/api/governance/v1/decisions", body: `{"customer": "Amazon", "discount_percent": "abc"}`, wantField: "discount_percent"},
		{name: "truncated json", path: "/api/governance/v1/decisions", body: `{"discount_percent": 5`, wantField: "body"},
		{name: "chat not a string", path: "/api/chat/v1", body: `{"chat": 42}`, wantField: "chat"},
		{name: "email garbage", path: "/api/dispatch/v1/emails", body: `not json`, wantField: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := ta.doRaw(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, status, env.Message)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantField, env.Field)
		})
	}

	status, env := ta.do(t, http.MethodGet, "/api/governance/v1/decisions", nil, true)
	require.Equal(t, http.StatusOK, status)
	var history []dto.DecisionResponse
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Empty(t, history)
}

func TestChatRoutes(t *testing.T) {
	ta := newTestApp(t, &fakeLLM{err: &entity.GatewayError{Message: "quota exceeded", Err: errors.New("429")}})

	status, env := ta.do(t, http.MethodPost, "/api/chat/v1", map[string]string{"chat": "   "}, true)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "chat", env.Field)

	status, env = ta.do(t, http.MethodPost, "/api/chat/v1", map[string]string{"chat": "Summarize the account"}, true)
	require.Equal(t, http.StatusOK, status)
	var res dto.ChatResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.Failed)
	assert.Contains(t, res.Reply.Content, "quota exceeded")

	status, env = ta.do(t, http.MethodGet, "/api/chat/v1/history", nil, true)
	require.Equal(t, http.StatusOK, status)
	var history []dto.MessageResponse
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history, 3)
}

func TestBusySessionReturnsConflict(t *testing.T) {
	ta := newTestApp(t, &fakeLLM{reply: "ok"})

	sess, err := ta.sessions.Find(ta.created.SessionId)
	require.NoError(t, err)
	require.NoError(t, sess.Acquire())
	defer sess.Release()

	status, _ := ta.do(t, http.MethodPost, "/api/chat/v1", map[string]string{"chat": "hello"}, true)
	assert.Equal(t, http.StatusConflict, status)

	status, env := ta.do(t, http.MethodGet, "/api/session/v1", nil, true)
	require.Equal(t, http.StatusOK, status)
	var state dto.SessionStateResponse
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.True(t, state.Busy)
}

func TestDispatchAndAuditRoutes(t *testing.T) {
	ta := newTestApp(t, &fakeLLM{reply: "ok"})

	status, env := ta.do(t, http.MethodPost, "/api/dispatch/v1/emails", map[string]string{"customer": "Amazon", "subject": "Renewal"}, true)
	require.Equal(t, http.StatusOK, status)
	var email dto.EmailResponse
	require.NoError(t, json.Unmarshal(env.Data, &email))
	assert.Equal(t, "procurement@amazon.example.com", email.RecipientEmailAddress)

	status, _ = ta.do(t, http.MethodPost, "/api/dispatch/v1/emails", map[string]string{"customer": "Amazon", "subject": ""}, true)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = ta.do(t, http.MethodPost, "/api/customer/v1", map[string]interface{}{"name": "NoMail", "risk_tier": "Low"}, true)
	require.Equal(t, http.StatusOK, status)
	status, _ = ta.do(t, http.MethodPost, "/api/dispatch/v1/emails", map[string]string{"customer": "NoMail", "subject": "Hi"}, true)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = ta.do(t, http.MethodGet, "/api/dispatch/v1/emails", nil, true)
	require.Equal(t, http.StatusOK, status)
	var emails []dto.EmailResponse
	require.NoError(t, json.Unmarshal(env.Data, &emails))
	assert.Len(t, emails, 1)

	status, _ = ta.do(t, http.MethodGet, "/api/audit/v1/decisions", nil, true)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = ta.do(t, http.MethodGet, "/api/audit/v1/logs", nil, true)
	assert.Equal(t, http.StatusOK, status)

	status, _ = ta.do(t, http.MethodGet, "/api/audit/v1/logs/unknown-id", nil, true)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCustomerRoutes(t *testing.T) {
	ta := newTestApp(t, &fakeLLM{reply: "ok"})

	status, env := ta.do(t, http.MethodGet, "/api/customer/v1", nil, true)
	require.Equal(t, http.StatusOK, status)
	var customers []dto.CustomerResponse
	require.NoError(t, json.Unmarshal(env.Data, &customers))
	assert.Len(t, customers, 3)

	status, env = ta.do(t, http.MethodPost, "/api/customer/v1", map[string]interface{}{"name": "Bad", "email": "not-an-email"}, true)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "email", env.Field)

	status, _ = ta.do(t, http.MethodGet, "/api/customer/v1/Hooli", nil, true)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = ta.do(t, http.MethodPost, "/api/product/v1", map[string]string{"name": "Leaf Insights", "price": "$9k"}, true)
	require.Equal(t, http.StatusOK, status)

	status, env = ta.do(t, http.MethodGet, "/api/product/v1", nil, true)
	require.Equal(t, http.StatusOK, status)
	var products []dto.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &products))
	assert.Len(t, products, 1)

	status, env = ta.do(t, http.MethodGet, "/api/product/v1/Leaf%20Insights", nil, true)
	require.Equal(t, http.StatusOK, status)
	var product dto.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, "$9k", product.Price)

	status, _ = ta.do(t, http.MethodGet, "/api/product/v1/Unknown", nil, true)
	assert.Equal(t, http.StatusNotFound, status)
}
