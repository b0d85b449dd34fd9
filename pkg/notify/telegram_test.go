package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegram_Send_Photo(t *testing.T) {
	var gotPath, gotPhoto, gotCaption, gotParseMode, gotChatID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotPhoto = r.FormValue("photo")
		gotCaption = r.FormValue("caption")
		gotParseMode = r.FormValue("parse_mode")
		gotChatID = r.FormValue("chat_id")
		fmt.Fprint(w, `{"ok": true, "result": {"message_id": 42}}`)
	}))
	defer ts.Close()

	tg := NewTelegram("test-token", "@channel", 5*time.Second)
	tg.apiBase = ts.URL

	err := tg.Send(context.Background(), "post text", "https://cdn.com/photo.jpg")
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendPhoto", gotPath)
	assert.Equal(t, "https://cdn.com/photo.jpg", gotPhoto)
	assert.Equal(t, "post text", gotCaption)
	assert.Equal(t, "HTML", gotParseMode)
	assert.Equal(t, "@channel", gotChatID)
}

func TestTelegram_Send_TextOnly(t *testing.T) {
	var gotPath, gotText string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotText = r.FormValue("text")
		fmt.Fprint(w, `{"ok": true, "result": {"message_id": 1}}`)
	}))
	defer ts.Close()

	tg := NewTelegram("test-token", "@channel", 5*time.Second)
	tg.apiBase = ts.URL

	require.NoError(t, tg.Send(context.Background(), "just text", ""))
	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "just text", gotText)
}

func TestTelegram_Send_CaptionTrimmed(t *testing.T) {
	var gotCaption string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotCaption = r.FormValue("caption")
		fmt.Fprint(w, `{"ok": true}`)
	}))
	defer ts.Close()

	tg := NewTelegram("test-token", "@channel", 5*time.Second)
	tg.apiBase = ts.URL

	long := strings.Repeat("x", 2000)
	require.NoError(t, tg.Send(context.Background(), long, "https://cdn.com/p.jpg"))
	assert.Len(t, gotCaption, 1024)
}

func TestTelegram_Send_RetriesTransientFailure(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, `{"ok": false, "description": "bad gateway"}`)
			return
		}
		fmt.Fprint(w, `{"ok": true, "result": {"message_id": 7}}`)
	}))
	defer ts.Close()

	tg := NewTelegram("test-token", "@channel", 5*time.Second)
	tg.apiBase = ts.URL

	require.NoError(t, tg.Send(context.Background(), "text", ""))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTelegram_Send_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"ok": false, "description": "bot was blocked"}`)
	}))
	defer ts.Close()

	tg := NewTelegram("test-token", "@channel", 5*time.Second)
	tg.apiBase = ts.URL

	err := tg.Send(context.Background(), "text", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot was blocked")
}

func TestTelegram_Send_Misconfigured(t *testing.T) {
	tg := NewTelegram("", "", time.Second)
	err := tg.Send(context.Background(), "text", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "misconfigured")
}

func TestTelegram_SendMessage(t *testing.T) {
	var gotChatID, gotText string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotChatID = r.FormValue("chat_id")
		gotText = r.FormValue("text")
		fmt.Fprint(w, `{"ok": true}`)
	}))
	defer ts.Close()

	tg := NewTelegram("test-token", "@channel", 5*time.Second)
	tg.apiBase = ts.URL

	require.NoError(t, tg.SendMessage(context.Background(), "12345", "no posts published today"))
	assert.Equal(t, "12345", gotChatID, "monitoring goes to its own chat")
	assert.Equal(t, "no posts published today", gotText)
}
