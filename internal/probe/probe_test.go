package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestReachable_Success(t *testing.T) {
	t.Parallel()

	var gotMethod string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
	}))
	defer s.Close()

	if !Reachable(context.Background(), s.URL, 2*time.Second) {
		t.Fatalf("expected reachable")
	}
	if gotMethod != http.MethodHead {
		t.Fatalf("method=%q", gotMethod)
	}
}

func TestReachable_ErrorStatus(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer s.Close()

	if Reachable(context.Background(), s.URL, 2*time.Second) {
		t.Fatalf("5xx should read unreachable")
	}
}

func TestReachable_ConnectionRefused(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	s.Close()

	if Reachable(context.Background(), s.URL, time.Second) {
		t.Fatalf("closed server should read unreachable")
	}
}

func TestReachable_BadURL(t *testing.T) {
	t.Parallel()

	if Reachable(context.Background(), "://not-a-url", time.Second) {
		t.Fatalf("bad URL should read unreachable")
	}
}
