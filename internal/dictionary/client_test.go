package dictionary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, time.Second, zerolog.Nop()), srv
}

func TestCheckKnownWord(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crane" {
			t.Errorf("path = %s, want /crane", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})
	if !c.Check(context.Background(), "crane") {
		t.Fatal("Check(crane) = false, want true")
	}
}

func TestCheckUnknownWord(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	if c.Check(context.Background(), "ZZZZZ") {
		t.Fatal("Check(ZZZZZ) = true, want false")
	}
}

func TestCheckCachesVerdicts(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	for i := 0; i < 3; i++ {
		if !c.Check(context.Background(), "crane") {
			t.Fatal("Check(crane) = false")
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("API calls = %d, want 1", got)
	}
}

func TestCheckCaseInsensitiveCache(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	c.Check(context.Background(), "CRANE")
	c.Check(context.Background(), "crane")
	if got := calls.Load(); got != 1 {
		t.Fatalf("API calls = %d, want 1", got)
	}
}

func TestCheckWrongLengthSkipsAPI(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("API should not be called for a malformed word")
	})
	if c.Check(context.Background(), "CAT") {
		t.Fatal("Check(CAT) = true, want false")
	}
}

func TestCheckFailsOpenOnServerError(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	if !c.Check(context.Background(), "CRANE") {
		t.Fatal("Check = false on server error, want fail-open true")
	}
	// Not cached, so the next check retries.
	c.Check(context.Background(), "CRANE")
	if got := calls.Load(); got != 2 {
		t.Fatalf("API calls = %d, want 2", got)
	}
}

func TestCheckFailsOpenOnUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	c := New(url, 200*time.Millisecond, zerolog.Nop())
	if !c.Check(context.Background(), "CRANE") {
		t.Fatal("Check = false with unreachable host, want fail-open true")
	}
}
