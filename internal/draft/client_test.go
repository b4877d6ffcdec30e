package draft

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		apiKey:  "sk-or-test",
		model:   "test-model",
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func TestCompleteReturnsContent(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[{\"subject\":\"S\"}]"}}]}`))
	})

	content, err := client.Complete(context.Background(), "write me an email")
	require.NoError(t, err)

	assert.Equal(t, `[{"subject":"S"}]`, content)
	assert.Equal(t, "Bearer sk-or-test", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.InDelta(t, 0.4, gotReq.Temperature, 0.001)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
}

func TestCompleteMissingAPIKey(t *testing.T) {
	client := NewClient("", "test-model")

	_, err := client.Complete(context.Background(), "prompt")
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestCompleteNonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	})

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusTooManyRequests, svcErr.Status)
	assert.Contains(t, svcErr.Body, "rate limited")
}

func TestCompleteTruncatesErrorBody(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(long)
	})

	_, err := client.Complete(context.Background(), "prompt")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Len(t, svcErr.Body, errBodyLimit)
}

func TestCompleteNoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
