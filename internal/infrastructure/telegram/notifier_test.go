package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPublishDigestPostsForm(t *testing.T) {
	t.Parallel()

	type request struct{ path, chat, text, mode string }
	received := make(chan request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		received <- request{
			path: r.URL.Path,
			chat: r.PostForm.Get("chat_id"),
			text: r.PostForm.Get("text"),
			mode: r.PostForm.Get("parse_mode"),
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewNotifierWithBase(srv.URL+"/", "TOKEN", "42")
	if err := n.PublishDigest(context.Background(), "*hello*"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := <-received
	if got.path != "/botTOKEN/sendMessage" {
		t.Fatalf("path = %q", got.path)
	}
	if got.chat != "42" || got.text != "*hello*" || got.mode != "Markdown" {
		t.Fatalf("unexpected form: %+v", got)
	}
}

func TestPublishDigestErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	if err := NewNotifierWithBase(srv.URL, "TOKEN", "42").PublishDigest(context.Background(), "x"); err == nil {
		t.Fatalf("expected error on 400")
	}

	err := NewNotifier("", "42").PublishDigest(context.Background(), "x")
	if !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
}
