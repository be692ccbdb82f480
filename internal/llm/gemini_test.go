package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestAvailable(t *testing.T) {
	if NewClient("", "gemini-1.5-flash", time.Second).Available() {
		t.Error("client without key should not be available")
	}
	if !NewClient("secret", "gemini-1.5-flash", time.Second).Available() {
		t.Error("client with key should be available")
	}
}

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-1.5-flash:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.GenerationConfig.TopK != 40 {
			t.Errorf("expected topK 40, got %d", req.GenerationConfig.TopK)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "hello "}, {"text": "world"}}}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("key", "gemini-1.5-flash", time.Second)
	c.SetBaseURL(srv.URL)

	got, err := c.Complete(context.Background(), "say hello", DefaultSampling())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", got)
	}
}

func TestComplete_EmptyReplyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	c := NewClient("key", "gemini-1.5-flash", time.Second)
	c.SetBaseURL(srv.URL)

	if _, err := c.Complete(context.Background(), "prompt", DefaultSampling()); err == nil {
		t.Error("expected error for empty candidates")
	}
}

func TestComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"quota"}}`))
	}))
	defer srv.Close()

	c := NewClient("key", "gemini-1.5-flash", time.Second)
	c.SetBaseURL(srv.URL)

	if _, err := c.Complete(context.Background(), "prompt", DefaultSampling()); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n[1,2]\n```", "[1,2]"},
		{"```\ntext\n```", "text"},
		{"plain reply", "plain reply"},
		{"  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := StripCodeFence(tc.in); got != tc.want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
