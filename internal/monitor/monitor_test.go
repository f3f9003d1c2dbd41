package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-test/deep"
	"github.com/paraleipsis/proxyprobe/internal/checker"
)

type staticSource []string

func (s staticSource) Proxies() []string { return s }

type fakeTester struct {
	calls atomic.Int32
	dead  func(call int32, proxy string) bool
}

func (f *fakeTester) TestAll(_ context.Context, proxies []string) ([]checker.ProxyResult, error) {
	call := f.calls.Add(1)

	results := make([]checker.ProxyResult, len(proxies))
	for i, p := range proxies {
		results[i] = checker.ProxyResult{Proxy: p, Status: checker.Working}
		if f.dead(call, p) {
			results[i].Status = checker.NotWorking
		}
	}

	return results, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recordingNotifier) Notify(_ context.Context, dead []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, dead)
	return nil
}

func TestTick_AlertsOnChange(t *testing.T) {
	tester := &fakeTester{dead: func(call int32, proxy string) bool {
		// b dies from the second pass on.
		return proxy == "a" || (proxy == "b" && call >= 2)
	}}
	n := &recordingNotifier{}

	var reported atomic.Int32
	m := New(tester, staticSource{"a", "b", "a"}, "@every 1h", n, func([]checker.ProxyResult, time.Duration) { reported.Add(1) })

	for i := 0; i < 3; i++ {
		m.Tick(context.Background())
	}

	want := [][]string{{"a"}, {"a", "b"}}
	if diff := deep.Equal(n.calls, want); diff != nil {
		t.Fatal(diff)
	}
	if reported.Load() != 3 {
		t.Fatalf("reported %d passes", reported.Load())
	}
}

func TestRun(t *testing.T) {
	tester := &fakeTester{dead: func(int32, string) bool { return false }}
	m := New(tester, staticSource{"a"}, "@every 50ms", nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tester.calls.Load() < 2 {
		t.Fatalf("calls = %d", tester.calls.Load())
	}
}

func TestRun_InvalidSchedule(t *testing.T) {
	m := New(&fakeTester{}, staticSource{"a"}, "every now and then", nil, nil)

	if err := m.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestTelegramAlerter(t *testing.T) {
	var (
		mu      sync.Mutex
		deleted []string
		sent    []string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		q := r.URL.Query()
		if q.Get("chat_id") != "42" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/bottoken/sendMessage":
			sent = append(sent, q.Get("text"))
			if len(sent) == 1 {
				_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7}}`))
			} else {
				_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":8}}`))
			}
		case "/bottoken/deleteMessage":
			deleted = append(deleted, q.Get("message_id"))
			_, _ = w.Write([]byte(`{"ok":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := newTelegramAlerter(srv.URL, "token", "42")

	if err := a.Notify(context.Background(), []string{"1.2.3.4:80"}); err != nil {
		t.Fatalf("first Notify: %v", err)
	}
	if err := a.Notify(context.Background(), []string{"5.6.7.8:80", "`x`"}); err != nil {
		t.Fatalf("second Notify: %v", err)
	}

	if diff := deep.Equal(deleted, []string{"7"}); diff != nil {
		t.Fatal(diff)
	}
	if sent[1] != "Offline proxies: ```copy\n5.6.7.8:80\n\\`x\\````" {
		t.Fatalf("text = %q", sent[1])
	}
}

func TestTelegramAlerter_Unsuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := newTelegramAlerter(srv.URL, "bad", "42")
	if err := a.Notify(context.Background(), []string{"1.2.3.4:80"}); err != UnsuccessfulRequestError {
		t.Fatalf("err = %v", err)
	}
}

func TestNewTelegramAlerter_MissingEnv(t *testing.T) {
	t.Setenv("TG_BOT_TOKEN", "")
	t.Setenv("TG_BOT_CHAT", "")

	if _, err := NewTelegramAlerter(); err != ErrMissingTelegramEnv {
		t.Fatalf("err = %v", err)
	}
}
