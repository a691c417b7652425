package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	orchestratorx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
)

type fakeAssistant struct {
	sessionID string
	message   string
	err       error
	panicking bool
}

func (f *fakeAssistant) HandleMessage(_ context.Context, sessionID string, message string) (orchestratorx.Reply, error) {
	if f.panicking {
		panic("boom")
	}
	f.sessionID = sessionID
	f.message = message
	if f.err != nil {
		return orchestratorx.Reply{}, f.err
	}
	if sessionID == "" {
		sessionID = "generated"
	}
	return orchestratorx.Reply{
		SessionID:  sessionID,
		Response:   "6205 has a bore of 25 mm.",
		Timestamp:  time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		QueryType:  contractx.QueryTypeSpecific,
		SourceData: contractx.SourceLanguageModel,

		UsedFunctions: []string{"getPartDimensions"},
	}, nil
}

func post(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, ChatPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChatSuccess(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{}
	router := NewRouter(assistant, zerolog.Nop())

	rec := post(t, router, `{"message":"  bore of 6205? ","sessionId":" s-1 "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, "s-1", assistant.sessionID)
	require.Equal(t, "bore of 6205?", assistant.message)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "s-1", body["sessionId"])
	require.Equal(t, "6205 has a bore of 25 mm.", body["response"])
	require.Equal(t, "specific", body["queryType"])
	require.Equal(t, "azure_openai_enhanced", body["sourceData"])
	require.Equal(t, "2026-05-01T12:00:00Z", body["timestamp"])
	require.Equal(t, []any{"getPartDimensions"}, body["usedFunctions"])
}

func TestChatWithoutSession(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{}
	rec := post(t, NewRouter(assistant, zerolog.Nop()), `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, assistant.sessionID)
	require.Contains(t, rec.Body.String(), `"sessionId":"generated"`)
}

func TestChatAcceptsOpaqueSessionID(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("s", 200)
	assistant := &fakeAssistant{}
	rec := post(t, NewRouter(assistant, zerolog.Nop()), `{"message":"what is 6205","sessionId":"`+long+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, long, assistant.sessionID)
	require.Equal(t, "what is 6205", assistant.message)
	require.Contains(t, rec.Body.String(), `"sessionId":"`+long+`"`)
}

func TestChatBadRequests(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty body":    ``,
		"invalid json":  `{"message":`,
		"blank message": `{"message":"   "}`,
		"missing":       `{"sessionId":"s"}`,
	}
	for name, body := range tests {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assistant := &fakeAssistant{}
			rec := post(t, NewRouter(assistant, zerolog.Nop()), body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, msgInvalidRequest, resp.Error)
			require.False(t, resp.Timestamp.IsZero())
			require.Empty(t, assistant.message)
		})
	}
}

func TestChatErrors(t *testing.T) {
	t.Parallel()

	rec := post(t, NewRouter(&fakeAssistant{err: orchestratorx.ErrInvalidMessage}, zerolog.Nop()), `{"message":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, NewRouter(&fakeAssistant{err: errors.New("graph failed")}, zerolog.Nop()), `{"message":"x"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), msgInternal)
	require.NotContains(t, rec.Body.String(), "graph failed")

	rec = post(t, NewRouter(&fakeAssistant{panicking: true}, zerolog.Nop()), `{"message":"x"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthAndRequestID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	NewRouter(&fakeAssistant{}, zerolog.Nop()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
