package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLines(t *testing.T) {
	in := "1. golang\n- Golang\n* \"gopher\"\n\n2) concurrency\n3d-printing\n`tooling`\n"
	want := []string{"golang", "gopher", "concurrency", "3d-printing", "tooling"}
	if diff := cmp.Diff(want, ParseLines(in)); diff != "" {
		t.Errorf("ParseLines() mismatch (-want +got):\n%s", diff)
	}
}

func TestClaude_Suggest(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "golang\ngopher\ngoroutines"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	c := NewClaude(ClaudeConfig{APIKey: "test", BaseURL: srv.URL, Count: 2, MaxRetries: 0})
	res, err := c.Suggest(context.Background(), "go")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	if diff := cmp.Diff([]string{"golang", "gopher"}, res.Strings); diff != "" {
		t.Errorf("Suggest() mismatch (-want +got):\n%s", diff)
	}
	if body["model"] != "claude-haiku-4-5" {
		t.Errorf("request model = %v, want claude-haiku-4-5", body["model"])
	}
}

func TestClaude_EmptyQuery(t *testing.T) {
	c := NewClaude(ClaudeConfig{APIKey: "test", BaseURL: "http://127.0.0.1:0"})
	res, err := c.Suggest(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if res.Len() != 0 {
		t.Errorf("Suggest() = %v, want no suggestions", res.Strings)
	}
}
