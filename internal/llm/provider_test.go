package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantNil bool
		wantErr bool
	}{
		{"empty kind", Config{}, true, false},
		{"none", Config{Kind: "none"}, true, false},
		{"anthropic", Config{Kind: "anthropic", APIKey: "k", Model: "m"}, false, false},
		{"anthropic without key", Config{Kind: "anthropic"}, true, true},
		{"openai", Config{Kind: "OpenAI", APIKey: "k", Model: "m"}, false, false},
		{"openai compatible", Config{Kind: "openai", BaseURL: "http://localhost:1234/v1"}, false, false},
		{"openai without key", Config{Kind: "openai"}, true, true},
		{"ollama", Config{Kind: "ollama", Model: "llama3", BaseURL: "http://localhost:11434"}, false, false},
		{"unknown", Config{Kind: "gemini"}, true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := New(tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("expected err=%v, got %v", tc.wantErr, err)
			}
			if (b == nil) != tc.wantNil {
				t.Fatalf("expected nil backend=%v, got %T", tc.wantNil, b)
			}
		})
	}
}

type stubBackend struct {
	out string
	err error
}

func (s stubBackend) Complete(ctx context.Context, system, user string) (string, error) {
	return s.out, s.err
}

func TestInstrumentRecordsCalls(t *testing.T) {
	stats := NewStats(time.Hour)

	ok := Instrument(stubBackend{out: "{}"}, stats, nil)
	if out, err := ok.Complete(context.Background(), "s", "u"); err != nil || out != "{}" {
		t.Fatalf("unexpected result %q, %v", out, err)
	}

	failing := Instrument(stubBackend{err: &APIError{Provider: "x", StatusCode: 503}}, stats, nil)
	if _, err := failing.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error to pass through")
	} else {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
	}

	snap := stats.Snapshot()
	if snap.Count != 2 || snap.Failures != 1 {
		t.Fatalf("expected count=2 failures=1, got count=%d failures=%d", snap.Count, snap.Failures)
	}
	if ok.Model() != "" {
		t.Errorf("expected empty model for stub, got %q", ok.Model())
	}
}

func TestAPIErrorMessageTruncatedOnRunes(t *testing.T) {
	err := &APIError{Provider: "anthropic", StatusCode: 500, Message: strings.Repeat("ü", 250)}
	msg := err.Error()
	if !utf8.ValidString(msg) {
		t.Fatalf("expected valid UTF-8, got %q", msg)
	}
	if !strings.HasSuffix(msg, strings.Repeat("ü", 200)+"...") {
		t.Errorf("expected message cut to 200 characters, got %q", msg)
	}
	if short := (&APIError{Provider: "x", StatusCode: 429, Message: "slow down"}).Error(); !strings.HasSuffix(short, "slow down") {
		t.Errorf("expected short message kept, got %q", short)
	}
}
