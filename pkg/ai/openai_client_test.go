package ai

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

func TestOpenAIComplete(t *testing.T) {
	var got chatReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Regá el lote 2.  "}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(srv.URL+"/", "sk-test", "", time.Second, nil)
	out, err := c.Complete(context.Background(), []Message{{Role: "system", Content: "x"}, {Role: "user", Content: "y"}})
	require.NoError(t, err)
	assert.Equal(t, "Regá el lote 2.", out)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, 0.7, got.Temperature)
	assert.Equal(t, 500, got.MaxTokens)
	assert.Len(t, got.Messages, 2)
}

func TestOpenAIErrors(t *testing.T) {
	status := http.StatusOK
	body := `{"choices":[]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()
	c := NewOpenAI(srv.URL, "k", "gpt-4o-mini", time.Second, nil)

	_, err := c.Complete(context.Background(), nil)
	assert.ErrorContains(t, err, "no choices")

	status, body = http.StatusUnauthorized, `{"error":"bad key"}`
	_, err = c.Complete(context.Background(), nil)
	assert.ErrorContains(t, err, "status 401")
}
