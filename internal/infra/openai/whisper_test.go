package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"voice-coding/internal/infra"
	"voice-coding/internal/infra/openai"
)

func fastRetry() infra.RetryConfig {
	return infra.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
}

func TestWhisperClient_Transcribe(t *testing.T) {
	audio := []byte("RIFF....WAVEfmt fake")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization: got %q", got)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart form: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model: got %q, want whisper-1", got)
		}
		if got := r.FormValue("language"); got != "en" {
			t.Errorf("language: got %q, want en", got)
		}
		if got := r.FormValue("prompt"); !strings.Contains(got, "kubectl") {
			t.Errorf("prompt: got %q, want memory content", got)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("reading file part: %v", err)
		} else {
			defer file.Close()
			data, _ := io.ReadAll(file)
			if string(data) != string(audio) {
				t.Errorf("uploaded audio mismatch")
			}
			if header.Filename != "audio.wav" {
				t.Errorf("filename: got %q", header.Filename)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": " open paren x close paren \n"})
	}))
	defer server.Close()

	client := openai.NewWhisperClientWithURL("test-key", "", "en", server.URL)
	client.SetPrompt("| kubectl | not cube cuddle |")

	text, err := client.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}
	if text != "open paren x close paren" {
		t.Errorf("text: got %q", text)
	}
}

func TestWhisperClient_OmitsEmptyFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart form: %v", err)
		}
		if _, ok := r.MultipartForm.Value["prompt"]; ok {
			t.Error("prompt should be omitted when empty")
		}
		if _, ok := r.MultipartForm.Value["language"]; ok {
			t.Error("language should be omitted when empty")
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	defer server.Close()

	client := openai.NewWhisperClientWithURL("k", "whisper-1", "", server.URL)
	if _, err := client.Transcribe(context.Background(), []byte("wav")); err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}
}

func TestWhisperClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "dot env"})
	}))
	defer server.Close()

	client := openai.NewWhisperClientWithURL("k", "", "en", server.URL)
	client.SetRetryConfig(fastRetry())

	text, err := client.Transcribe(context.Background(), []byte("wav"))
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}
	if text != "dot env" {
		t.Errorf("text: got %q", text)
	}
	if calls.Load() != 2 {
		t.Errorf("calls: got %d, want 2", calls.Load())
	}
}

func TestWhisperClient_DoesNotRetryAuthErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := openai.NewWhisperClientWithURL("bad", "", "en", server.URL)
	client.SetRetryConfig(fastRetry())

	_, err := client.Transcribe(context.Background(), []byte("wav"))

	var se *infra.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 StatusError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls: got %d, want 1", calls.Load())
	}
}

func TestWhisperClient_EmptyAudio(t *testing.T) {
	client := openai.NewWhisperClientWithURL("k", "", "en", "http://127.0.0.1:0")
	if _, err := client.Transcribe(context.Background(), nil); err == nil {
		t.Error("expected an error for an empty payload")
	}
}

func TestWhisperClient_PromptIsTruncated(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrompt = r.FormValue("prompt")
		json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	defer server.Close()

	client := openai.NewWhisperClientWithURL("k", "", "en", server.URL)
	client.SetPrompt(strings.Repeat("é", 2000))

	if _, err := client.Transcribe(context.Background(), []byte("wav")); err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}
	if len(gotPrompt) > 1000 || len(gotPrompt) == 0 {
		t.Errorf("prompt length: got %d bytes", len(gotPrompt))
	}
	if !strings.HasPrefix(gotPrompt, "é") {
		t.Error("prompt should keep the head of the memory file")
	}
}
