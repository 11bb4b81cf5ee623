package botapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientTalk(t *testing.T) {
	serverTime := time.Date(2024, 6, 1, 15, 4, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/talk", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["text"])
		assert.Equal(t, "ctx-1", body["contextId"])
		assert.Equal(t, map[string]any{"action": "renew"}, body["parameters"])

		_ = json.NewEncoder(w).Encode(TalkResponse{
			Text:        "hi",
			ContextID:   "ctx-2",
			ServerTime:  serverTime,
			AskFeedback: true,
		})
	}))
	defer srv.Close()

	c, err := NewHTTPClient(Config{URL: srv.URL})
	require.NoError(t, err)

	resp, err := c.Talk(context.Background(), "hello", "ctx-1", map[string]any{"action": "renew"})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Text)
	assert.Equal(t, "ctx-2", resp.ContextID)
	assert.True(t, resp.AskFeedback)
	assert.False(t, resp.StartLivechat)
	assert.True(t, resp.ServerTime.Equal(serverTime))
}

func TestHTTPClientSuggestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/suggestions", r.URL.Path)
		require.Equal(t, "renew dom", r.URL.Query().Get("text"))
		_ = json.NewEncoder(w).Encode([]Suggestion{
			{RootConditionReword: "renew domain", Score: 0.9},
			{RootConditionReword: "renew hosting", Score: 0.5},
		})
	}))
	defer srv.Close()

	c, err := NewHTTPClient(Config{URL: srv.URL})
	require.NoError(t, err)

	got, err := c.Suggestions(context.Background(), "renew dom")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "renew domain", got[0].RootConditionReword)
}

func TestHTTPClientHistoryRequiresContextID(t *testing.T) {
	c, err := NewHTTPClient(Config{URL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	_, err = c.History(context.Background(), "  ")
	require.Error(t, err)
}

func TestHTTPClientFeedback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/feedback", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ctx-1", body["contextId"])
		assert.Equal(t, SentimentNegative, body["sentiment"])
		_, hasDetails := body["details"]
		assert.False(t, hasDetails)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(Config{URL: srv.URL})
	require.NoError(t, err)
	require.NoError(t, c.Feedback(context.Background(), "ctx-1", SentimentNegative, ""))
}

func TestHTTPClientSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(Config{URL: srv.URL})
	require.NoError(t, err)

	_, err = c.InformationBanner(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNewHTTPClientRequiresURL(t *testing.T) {
	_, err := NewHTTPClient(Config{})
	require.Error(t, err)
}

func TestSetConfigIgnoresEmptyFields(t *testing.T) {
	c, err := NewHTTPClient(Config{URL: "http://example.test", Universe: "web", Subsidiary: "FR"})
	require.NoError(t, err)

	c.SetConfig(Config{Subsidiary: "DE"})
	cfg := c.config()
	assert.Equal(t, "http://example.test", cfg.URL)
	assert.Equal(t, "web", cfg.Universe)
	assert.Equal(t, "DE", cfg.Subsidiary)
}
