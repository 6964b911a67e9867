// Package assist wraps the outbound text-generation service. Both
// operations are one-shot and best-effort: callers translate any failure
// into the fixed fallback strings and the feed stays fully usable.
package assist

import (
	"context"
	"errors"
	"strings"
)

// Fixed user-facing fallback strings. These are what the UI shows when the
// text service is unavailable; they never expose the underlying error.
const (
	SummaryFallback = "Özet şu anda hazırlanamıyor. Lütfen daha sonra tekrar deneyin."
	ChatFallback    = "Üzgünüm, şu an cevap veremiyorum. Lütfen sonra tekrar dene."
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("text service disabled: no api key configured")

// ChatTurn is one exchange in the assistant conversation.
type ChatTurn struct {
	// Role is "user" or "ai".
	Role string `json:"role"`
	Text string `json:"text"`
}

// Service produces summaries and chat replies. Implementations must not
// panic on failure; they return an error and the caller falls back.
type Service interface {
	// Summarize condenses the feed's message bodies into a short Turkish
	// summary. Callers must not invoke it with an empty slice.
	Summarize(ctx context.Context, texts []string) (string, error)
	// Chat answers userText with the platform assistant persona, given the
	// prior conversation.
	Chat(ctx context.Context, history []ChatTurn, userText string) (string, error)
}

const chatPersona = `Sen "İstanbul El Ele" platformunun yardımcı asistanısın.
Bu platform öğrencilerin, esnafların ve velilerin dayanışması için kuruldu.
Kısa, samimi ve yapıcı cevaplar ver.`

// buildSummaryPrompt joins the message bodies into the summary request.
func buildSummaryPrompt(texts []string) string {
	return "Aşağıdaki dayanışma mesajlarını kısaca özetle ve bugünün dayanışma ruhunu bir cümleyle anlat. Mesajlar: " +
		strings.Join(texts, " | ")
}

// buildChatPrompt renders the conversation so far plus the new question.
func buildChatPrompt(history []ChatTurn, userText string) string {
	var b strings.Builder
	for _, turn := range history {
		label := "Kullanıcı"
		if turn.Role == "ai" {
			label = "Asistan"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(turn.Text)
		b.WriteString("\n")
	}
	b.WriteString("Soru: ")
	b.WriteString(userText)
	return b.String()
}

// Disabled is the Service used when no API key is configured; every call
// fails with ErrDisabled so callers surface the fixed fallbacks.
type Disabled struct{}

func (Disabled) Summarize(context.Context, []string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Chat(context.Context, []ChatTurn, string) (string, error) {
	return "", ErrDisabled
}
