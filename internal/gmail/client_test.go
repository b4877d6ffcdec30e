package gmail

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/mailsmith/mailsmith/internal/instrumentation"
	"github.com/mailsmith/mailsmith/internal/message"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gmail.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	return &Client{
		svc:     svc,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: &instrumentation.Metrics{},
	}
}

func testAssembled() *message.Assembled {
	return &message.Assembled{Raw: []byte("raw"), Envelope: "cmF3"}
}

func TestDeliverSend(t *testing.T) {
	var gotRaw string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/users/me/messages/send"))
		var msg gmail.Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		gotRaw = msg.Raw
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"m123"}`))
	})

	id, err := client.Deliver(context.Background(), testAssembled(), ModeSend, nil)
	require.NoError(t, err)
	assert.Equal(t, "m123", id)
	assert.Equal(t, "cmF3", gotRaw)
}

func TestDeliverDraft(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/users/me/drafts"))
		var draft gmail.Draft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		require.NotNil(t, draft.Message)
		assert.Equal(t, "cmF3", draft.Message.Raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"d456"}`))
	})

	id, err := client.Deliver(context.Background(), testAssembled(), ModeDraft, nil)
	require.NoError(t, err)
	assert.Equal(t, "d456", id)
}

func TestDeliverSendAppliesLabels(t *testing.T) {
	var modifyCalled bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/messages/send"):
			_, _ = w.Write([]byte(`{"id":"m123"}`))
		case strings.HasSuffix(r.URL.Path, "/messages/m123/modify"):
			modifyCalled = true
			var req gmail.ModifyMessageRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []string{"Label_1"}, req.AddLabelIds)
			_, _ = w.Write([]byte(`{"id":"m123"}`))
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
		}
	})

	id, err := client.Deliver(context.Background(), testAssembled(), ModeSend, []string{"Label_1"})
	require.NoError(t, err)
	assert.Equal(t, "m123", id)
	assert.True(t, modifyCalled)
}

func TestDeliverLabelFailureIsSwallowed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/messages/send") {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"m123"}`))
			return
		}
		http.Error(w, `{"error":{"code":403}}`, http.StatusForbidden)
	})

	// Label mutation fails but the send already happened.
	id, err := client.Deliver(context.Background(), testAssembled(), ModeSend, []string{"Label_1"})
	require.NoError(t, err)
	assert.Equal(t, "m123", id)
}

func TestDeliverSendFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":400,"message":"Invalid To header"}}`, http.StatusBadRequest)
	})

	_, err := client.Deliver(context.Background(), testAssembled(), ModeSend, nil)
	require.Error(t, err)

	var delErr *DeliveryError
	require.ErrorAs(t, err, &delErr)
	assert.Equal(t, "send", delErr.Op)
}

func TestDeliverUnknownMode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.Deliver(context.Background(), testAssembled(), Mode("forward"), nil)
	require.Error(t, err)

	var delErr *DeliveryError
	require.ErrorAs(t, err, &delErr)
}

func TestAddLabelsNoOpWithoutIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	require.NoError(t, client.AddLabels(context.Background(), "m123", nil))
}

func TestListLabels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/users/me/labels"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"labels":[
			{"id":"INBOX","name":"INBOX","type":"system"},
			{"id":"Label_7","name":"Follow up","type":"user"}
		]}`))
	})

	labels, err := client.ListLabels(context.Background())
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "Label_7", labels[1].ID)
	assert.Equal(t, "Follow up", labels[1].Name)
}
