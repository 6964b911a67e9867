package assist

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBuildSummaryPromptJoinsTexts(t *testing.T) {
	p := buildSummaryPrompt([]string{"Bedava çorba", "Ders veriyorum"})
	if !strings.Contains(p, "Bedava çorba | Ders veriyorum") {
		t.Fatalf("texts not joined with separator: %q", p)
	}
	if !strings.HasPrefix(p, "Aşağıdaki dayanışma mesajlarını") {
		t.Fatalf("unexpected prompt prefix: %q", p)
	}
}

func TestBuildChatPromptLabelsTurns(t *testing.T) {
	p := buildChatPrompt([]ChatTurn{
		{Role: "ai", Text: "Merhaba!"},
		{Role: "user", Text: "Nasıl ilan veririm?"},
	}, "Teşekkürler")

	want := "Asistan: Merhaba!\nKullanıcı: Nasıl ilan veririm?\nSoru: Teşekkürler"
	if p != want {
		t.Fatalf("prompt mismatch:\n got %q\nwant %q", p, want)
	}
}

func TestBuildChatPromptNoHistory(t *testing.T) {
	p := buildChatPrompt(nil, "Merhaba")
	if p != "Soru: Merhaba" {
		t.Fatalf("unexpected prompt: %q", p)
	}
}

func TestDisabledAlwaysFails(t *testing.T) {
	var svc Service = Disabled{}
	if _, err := svc.Summarize(context.Background(), []string{"x"}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if _, err := svc.Chat(context.Background(), nil, "x"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestNewOpenAIServiceRequiresKey(t *testing.T) {
	if _, err := NewOpenAIService("", ""); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled without key, got %v", err)
	}
	svc, err := NewOpenAIService("sk-test", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("expected a service")
	}
}
