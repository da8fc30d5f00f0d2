package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// reviewResponse wraps review JSON in the generateContent envelope.
func reviewResponse(reviewJSON string) string {
	return fmt.Sprintf(`{"candidates": [{"content": {"parts": [{"text": %q}]}}]}`, reviewJSON)
}

func TestAnalyzeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "key=test-key") {
			t.Errorf("API key missing from request: %s", r.URL.String())
		}
		w.Write([]byte(reviewResponse(`{"summary": "good paper", "rating": 4}`)))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	review, err := c.Analyze(context.Background(), "paper text")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if review.Summary != "good paper" || review.Rating != 4 {
		t.Errorf("review = %+v", review)
	}
}

func TestAnalyzeFallsThroughOnModelNotFound(t *testing.T) {
	var models []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Path looks like /models/<model>:generateContent
		model := strings.TrimPrefix(r.URL.Path, "/models/")
		model = strings.TrimSuffix(model, ":generateContent")
		models = append(models, model)

		if model == "second" {
			w.Write([]byte(reviewResponse(`{"summary": "ok", "rating": 3}`)))
			return
		}
		http.Error(w, `{"error": {"message": "model not found"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithModels([]string{"first", "second", "third"}))
	review, err := c.Analyze(context.Background(), "text")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if review.Summary != "ok" {
		t.Errorf("review = %+v", review)
	}
	if len(models) != 2 || models[0] != "first" || models[1] != "second" {
		t.Errorf("model attempts = %v, want [first second]", models)
	}
}

func TestAnalyzeAbortsOnInvalidCredential(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, `{"error": {"message": "API key not valid"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient("bad-key", WithBaseURL(srv.URL), WithModels([]string{"a", "b", "c"}))
	_, err := c.Analyze(context.Background(), "text")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("error = %v, want ErrInvalidCredential", err)
	}
	if attempts != 1 {
		t.Errorf("made %d attempts after credential failure, want 1", attempts)
	}
}

func TestAnalyzeAllModelsExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "not found"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithModels([]string{"a", "b"}))
	_, err := c.Analyze(context.Background(), "text")
	if err == nil {
		t.Fatal("Analyze succeeded, want error")
	}
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("error = %v, want wrapped ErrModelNotFound", err)
	}
}

func TestAnalyzeUnparsableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(reviewResponse("I cannot produce JSON today, sorry.")))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithModels([]string{"only"}))
	_, err := c.Analyze(context.Background(), "text")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("error = %v, want ErrParse", err)
	}
}

func TestAnalyzeRequiresAPIKey(t *testing.T) {
	c := NewClient("")
	_, err := c.Analyze(context.Background(), "text")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("error = %v, want ErrInvalidCredential", err)
	}
}

func TestBuildPromptTruncates(t *testing.T) {
	long := strings.Repeat("#", MaxInputChars+500)
	prompt := buildPrompt(long)
	if strings.Count(prompt, "#") != MaxInputChars {
		t.Errorf("prompt carries %d source chars, want %d", strings.Count(prompt, "#"), MaxInputChars)
	}
}
