package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCheck_OK(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("hello archive"))
	}))
	defer s.Close()

	chk := NewHTTPChecker(2 * time.Second)
	res := chk.Check(context.Background(), "Test Archive", s.URL)

	if !res.IsAccessible {
		t.Fatalf("want accessible, got %+v", res)
	}
	if res.StatusCode == nil || *res.StatusCode != 200 {
		t.Fatalf("want status 200, got %v", res.StatusCode)
	}
	if res.ContentLength == nil || *res.ContentLength != int64(len("hello archive")) {
		t.Fatalf("want content length %d, got %v", len("hello archive"), res.ContentLength)
	}
	if res.ResponseTime == nil || *res.ResponseTime < 0 {
		t.Fatalf("want non-negative response time, got %v", res.ResponseTime)
	}
	if res.ErrorMessage != nil {
		t.Fatalf("want nil error message, got %q", *res.ErrorMessage)
	}
	if res.CollectionName != "Test Archive" || res.URL != s.URL {
		t.Fatalf("identity fields wrong: %+v", res)
	}
	if res.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}
}

func TestCheck_HTTPError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", 500)
	}))
	defer s.Close()

	chk := NewHTTPChecker(2 * time.Second)
	res := chk.Check(context.Background(), "broken", s.URL)

	if res.IsAccessible {
		t.Fatalf("want inaccessible, got %+v", res)
	}
	if res.StatusCode == nil || *res.StatusCode != 500 {
		t.Fatalf("want status 500, got %v", res.StatusCode)
	}
	if res.ErrorMessage == nil || *res.ErrorMessage != "HTTP 500" {
		t.Fatalf("want error message %q, got %v", "HTTP 500", res.ErrorMessage)
	}
	if res.ResponseTime == nil || res.ContentLength == nil {
		t.Fatalf("completed response should keep timing and length: %+v", res)
	}
}

func TestCheck_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	s := httptest.NewServer(mux)
	defer s.Close()

	chk := NewHTTPChecker(2 * time.Second)
	res := chk.Check(context.Background(), "redirecting", s.URL)

	if !res.IsAccessible {
		t.Fatalf("redirect should be followed to 200, got %+v", res)
	}
	if res.StatusCode == nil || *res.StatusCode != 200 {
		t.Fatalf("want final status 200, got %v", res.StatusCode)
	}
}

func TestCheck_Timeout(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	chk := NewHTTPChecker(50 * time.Millisecond)
	res := chk.Check(context.Background(), "slow", s.URL)

	if res.IsAccessible {
		t.Fatalf("want inaccessible on timeout, got %+v", res)
	}
	if res.ErrorMessage == nil || *res.ErrorMessage != "Request timeout" {
		t.Fatalf("want %q, got %v", "Request timeout", res.ErrorMessage)
	}
	if res.StatusCode != nil || res.ResponseTime != nil || res.ContentLength != nil {
		t.Fatalf("timeout should leave optional fields unset: %+v", res)
	}
}

func TestCheck_ContextDeadlineIsTimeout(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	chk := NewHTTPChecker(5 * time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res := chk.Check(ctx, "slow", s.URL)

	if res.ErrorMessage == nil || *res.ErrorMessage != "Request timeout" {
		t.Fatalf("want %q, got %v", "Request timeout", res.ErrorMessage)
	}
}

func TestCheck_ConnectionError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := s.URL
	s.Close() // nothing listens any more

	chk := NewHTTPChecker(2 * time.Second)
	res := chk.Check(context.Background(), "gone", url)

	if res.IsAccessible {
		t.Fatalf("want inaccessible, got %+v", res)
	}
	if res.ErrorMessage == nil || *res.ErrorMessage != "Connection error" {
		t.Fatalf("want %q, got %v", "Connection error", res.ErrorMessage)
	}
	if res.StatusCode != nil {
		t.Fatalf("connection failure should leave status unset, got %v", *res.StatusCode)
	}
}

func TestCheck_InvalidURL(t *testing.T) {
	chk := NewHTTPChecker(time.Second)
	res := chk.Check(context.Background(), "bad", "http://[::1]:namedport")

	if res.IsAccessible {
		t.Fatalf("want inaccessible, got %+v", res)
	}
	if res.ErrorMessage == nil || !strings.HasPrefix(*res.ErrorMessage, "Unexpected error:") {
		t.Fatalf("want Unexpected error prefix, got %v", res.ErrorMessage)
	}
}

func TestCheck_SendsUserAgent(t *testing.T) {
	var got string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.WriteHeader(200)
	}))
	defer s.Close()

	chk := NewHTTPChecker(2 * time.Second)
	chk.Check(context.Background(), "ua", s.URL)

	if got != userAgent {
		t.Fatalf("want User-Agent %q, got %q", userAgent, got)
	}
}
