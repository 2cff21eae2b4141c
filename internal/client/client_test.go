package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/check-update", r.URL.Path)
		assert.Equal(t, "1.0.0", r.URL.Query().Get("version"))
		assert.Equal(t, "windows", r.URL.Query().Get("platform"))
		fmt.Fprint(w, `{"has_update":true,"version":"1.2.0","download_url":"https://dl.example.com/pace-1.2.0.exe","description":"bug fixes"}`)
	}))
	defer srv.Close()

	info, err := New(srv.URL).CheckUpdate(context.Background(), "1.0.0", "windows")
	require.NoError(t, err)
	assert.True(t, info.HasUpdate)
	assert.Equal(t, "1.2.0", info.Version)
	assert.Equal(t, "https://dl.example.com/pace-1.2.0.exe", info.DownloadURL)
}

func TestCheckUpdateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).CheckUpdate(context.Background(), "1.0.0", "windows")
	assert.Error(t, err)
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		fmt.Fprint(w, `{"success":true,"response":"hello there"}`)
	}))
	defer srv.Close()

	reply, err := New(srv.URL).Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)
}

func TestChatFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"success":false,"error":"chat is not configured"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat is not configured")
}

func TestChatStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"content\":\"hel\"}\n\n")
		fmt.Fprint(w, "data: {\"content\":\"lo\"}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	var chunks []string
	err := New(srv.URL).ChatStream(context.Background(), []Message{{Role: "user", Content: "hi"}},
		func(chunk string) error {
			chunks = append(chunks, chunk)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"hel", "lo"}, chunks)
}

func TestChatStreamErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"success":false,"error":"upstream returned status 401"}`)
	}))
	defer srv.Close()

	err := New(srv.URL).ChatStream(context.Background(), []Message{{Role: "user", Content: "hi"}},
		func(string) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream returned status 401")
}
