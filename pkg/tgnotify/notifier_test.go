package tgnotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type sentMessage struct {
	ChatID string
	Text   string
}

// fakeBotAPI отвечает на getMe и sendMessage как Bot API
func fakeBotAPI(t *testing.T, failChat string) (*httptest.Server, func() []sentMessage) {
	t.Helper()
	var (
		mu   sync.Mutex
		sent []sentMessage
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"gym","username":"gym_bot"}}`)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			chatID := r.PostForm.Get("chat_id")
			if chatID == failChat {
				fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
				return
			}
			mu.Lock()
			sent = append(sent, sentMessage{ChatID: chatID, Text: r.PostForm.Get("text")})
			mu.Unlock()
			fmt.Fprintf(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":%s,"type":"private"}}}`, chatID)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []sentMessage {
		mu.Lock()
		defer mu.Unlock()
		return append([]sentMessage(nil), sent...)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Chats: []int64{1}}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := New(Config{Token: "x"}); !errors.Is(err, ErrNoChats) {
		t.Errorf("expected ErrNoChats, got %v", err)
	}
}

func TestNew_TelegramInitError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	}))
	defer srv.Close()

	_, err := New(Config{Token: "bad", Chats: []int64{1}, Endpoint: srv.URL + "/bot%s/%s", Client: srv.Client()})
	if !errors.Is(err, ErrTelegramInit) {
		t.Errorf("expected ErrTelegramInit, got %v", err)
	}
}

func TestNotify_SendsToAllChats(t *testing.T) {
	srv, sent := fakeBotAPI(t, "")
	n, err := New(Config{
		Token:    "token",
		Chats:    []int64{100, 200},
		Endpoint: srv.URL + "/bot%s/%s",
		Client:   srv.Client(),
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := n.Notify(context.Background(), "error", "Check-in failed"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	got := sent()
	if len(got) != 2 {
		t.Fatalf("sent %d messages, want 2", len(got))
	}
	for _, m := range got {
		if m.Text != "[error] Check-in failed" {
			t.Errorf("text = %q", m.Text)
		}
	}
	if got[0].ChatID != "100" || got[1].ChatID != "200" {
		t.Errorf("chat ids = %s, %s", got[0].ChatID, got[1].ChatID)
	}
}

func TestNotify_ContinuesAfterChatFailure(t *testing.T) {
	srv, sent := fakeBotAPI(t, "100")
	n, err := New(Config{
		Token:    "token",
		Chats:    []int64{100, 200},
		Endpoint: srv.URL + "/bot%s/%s",
		Client:   srv.Client(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = n.Notify(context.Background(), "warning", "boom")
	if err == nil {
		t.Fatal("expected error for failed chat")
	}
	if !strings.Contains(err.Error(), "chat 100") {
		t.Errorf("error should name failed chat: %v", err)
	}
	if got := sent(); len(got) != 1 || got[0].ChatID != "200" {
		t.Errorf("sent = %+v", got)
	}
}

func TestNotify_CanceledContext(t *testing.T) {
	srv, sent := fakeBotAPI(t, "")
	n, err := New(Config{Token: "token", Chats: []int64{1}, Endpoint: srv.URL + "/bot%s/%s", Client: srv.Client()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.Notify(ctx, "error", "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(sent()) != 0 {
		t.Error("nothing should be sent with canceled context")
	}
}

func TestNotify_HungAPITimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/getMe") {
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"gym","username":"gym_bot"}}`)
			return
		}
		// sendMessage зависает
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	n, err := New(Config{
		Token:    "token",
		Chats:    []int64{1},
		Endpoint: srv.URL + "/bot%s/%s",
		Timeout:  200 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- n.Notify(context.Background(), "error", "boom") }()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected timeout error")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Notify blocked past the client timeout")
	}
}
