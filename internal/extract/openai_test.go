package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-service/internal/quote/model"
)

func fakeCompletion(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, "user", req.Messages[1].Role)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
}

func TestOpenAI_Extract(t *testing.T) {
	srv := fakeCompletion(t, "```json\n{\"items\":[{\"name\":\"Afastador Senn Mueller\",\"quantity\":2},{\"name\":\"Pinça Kelly\"}]}\n```", http.StatusOK)
	defer srv.Close()

	o := NewOpenAI(OpenAIOptions{APIKey: "test-key", BaseURL: srv.URL + "/v1", Timeout: 5 * time.Second, RPS: 10})
	got, err := o.Extract(context.Background(), "Bom dia, preciso de 2 afastador senn mueller e uma pinça kelly")
	require.NoError(t, err)
	assert.Equal(t, []model.QueryTerm{
		{Text: "Afastador Senn Mueller", Quantity: 2},
		{Text: "Pinça Kelly", Quantity: 1},
	}, got)
}

func TestOpenAI_ServerError(t *testing.T) {
	srv := fakeCompletion(t, "", http.StatusInternalServerError)
	defer srv.Close()

	o := NewOpenAI(OpenAIOptions{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	_, err := o.Extract(context.Background(), "pinça")
	assert.Error(t, err)
}

func TestOpenAI_EmptyTextSkipsCall(t *testing.T) {
	o := NewOpenAI(OpenAIOptions{APIKey: "test-key", BaseURL: "http://127.0.0.1:1/v1"})
	got, err := o.Extract(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseItems(t *testing.T) {
	got, err := parseItems(`Here you go: {"items":[{"name":"Cuba Rim","quantity":"3"},{"name":" ","quantity":2},{"name":"Cureta","quantity":0}]}`)
	require.NoError(t, err)
	assert.Equal(t, []model.QueryTerm{
		{Text: "Cuba Rim", Quantity: 3},
		{Text: "Cureta", Quantity: 1},
	}, got)

	_, err = parseItems("sorry, no items")
	assert.Error(t, err)
	_, err = parseItems(`{"items": [}`)
	assert.Error(t, err)
}
