package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	n := NewTelegramNotifier(srv.URL, "TOKEN", "42", "")
	require.NoError(t, n.Send(context.Background(), "<b>hi</b>"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "<b>hi</b>", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestSendWithRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, `{"ok":false}`, http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	n := NewTelegramNotifier(srv.URL, "T", "1", "")
	n.RetryBase = time.Millisecond
	require.NoError(t, n.SendWithRetry(context.Background(), "x", 3))
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(-100)
	err := n.SendWithRetry(context.Background(), "x", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 retries exhausted")
}

func TestPollOnce(t *testing.T) {
	var mu sync.Mutex
	var sent []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botT/getUpdates":
			assert.Equal(t, "7", r.URL.Query().Get("offset"))
			fmt.Fprint(w, `{"ok":true,"result":[
				{"update_id":7,"message":{"text":" /status "}},
				{"update_id":8},
				{"update_id":9,"message":{"text":"/quiet"}}
			]}`)
		case "/botT/sendMessage":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			sent = append(sent, body["text"].(string))
			mu.Unlock()
			fmt.Fprint(w, `{"ok":true}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	n := NewTelegramNotifier(srv.URL, "T", "1", "")
	var commands []string
	handler := func(_ context.Context, cmd string) string {
		commands = append(commands, cmd)
		if cmd == "/quiet" {
			return ""
		}
		return "reply to " + cmd
	}

	next, err := n.pollOnce(context.Background(), srv.Client(), 7, handler)
	require.NoError(t, err)
	assert.Equal(t, 10, next)
	assert.Equal(t, []string{"/status", "/quiet"}, commands)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"reply to /status"}, sent)
}

func TestStartPolling_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := NewTelegramNotifier("http://127.0.0.1:0", "T", "1", "")

	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(context.Context, string) string { return "" })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("polling did not stop")
	}
}
