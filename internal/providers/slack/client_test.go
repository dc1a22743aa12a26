package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BotToken: "xoxb-test", BaseURL: srv.URL, Timeout: 2 * time.Second}, zap.NewNop())
}

func TestPostMessageReturnsReceipt(t *testing.T) {
	var gotBody map[string]any
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		assert.Equal(t, "Bearer xoxb-test", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = io.WriteString(w, `{"ok":true,"channel":"D123","ts":"1700000000.000100"}`)
	})

	receipt, err := client.PostMessage(context.Background(), Message{
		Channel: "U123",
		Text:    "hello",
		Blocks:  []map[string]any{{"type": "divider"}},
	})
	require.NoError(t, err)
	assert.Equal(t, Receipt{Channel: "D123", TS: "1700000000.000100"}, receipt)
	assert.Equal(t, "U123", gotBody["channel"])
	assert.Len(t, gotBody["blocks"], 1)
}

func TestPostMessageNotOK(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ok":false,"error":"channel_not_found"}`)
	})

	_, err := client.PostMessage(context.Background(), Message{Channel: "U1", Text: "x"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindDependencyFailed))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "channel_not_found", apiErr.Code)
}

func TestAddRemoteFile(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "resume_cand_1", r.PostForm.Get("external_id"))
		assert.Equal(t, "pdf", r.PostForm.Get("filetype"))
		_, _ = io.WriteString(w, `{"ok":true,"file":{"id":"F123","external_id":"resume_cand_1"}}`)
	})

	id, err := client.AddRemoteFile(context.Background(), RemoteFile{ExternalID: "resume_cand_1", URL: "https://s3/x.pdf", Title: "cv.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "F123", id)
}

func TestListUsersCursor(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		values, _ := url.ParseQuery(string(raw))
		assert.Equal(t, "next1", values.Get("cursor"))
		_, _ = io.WriteString(w, `{"ok":true,"members":[{"id":"U1","real_name":"Ada","profile":{"email":"Ada@Example.com","display_name":"ada"}}],"response_metadata":{"next_cursor":"next2"}}`)
	})

	page, err := client.ListUsers(context.Background(), "next1")
	require.NoError(t, err)
	require.Len(t, page.Members, 1)
	assert.Equal(t, "Ada@Example.com", page.Members[0].Profile.Email)
	assert.Equal(t, "next2", page.NextCursor)
}
