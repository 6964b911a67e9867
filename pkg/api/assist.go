package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"elele/pkg/assist"
	"elele/pkg/logger"
	"elele/pkg/telemetry"
)

const assistTimeout = 20 * time.Second

// summary handles GET /v1/summary. The text service is never invoked on an
// empty feed; any service failure degrades to the fixed fallback string with
// a 200 so the feed stays usable.
func (a *API) summary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	texts := a.Feed.Texts()
	if len(texts) == 0 {
		http.Error(w, `{"error":"feed is empty"}`, http.StatusConflict)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), assistTimeout)
	defer cancel()
	sum, err := a.Assist.Summarize(ctx, texts)
	if err != nil {
		telemetry.AssistFailures.WithLabelValues("summarize").Inc()
		logger.Warn("summary_failed", "error", err)
		sum = assist.SummaryFallback
	}
	_ = json.NewEncoder(w).Encode(struct {
		Summary string `json:"summary"`
	}{Summary: sum})
}

// chat handles POST /v1/chat. Failures produce the fixed apology string,
// never an unhandled fault.
func (a *API) chat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		History []assist.ChatTurn `json:"history"`
		Message string            `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), assistTimeout)
	defer cancel()
	reply, err := a.Assist.Chat(ctx, req.History, req.Message)
	if err != nil {
		telemetry.AssistFailures.WithLabelValues("chat").Inc()
		logger.Warn("chat_failed", "error", err)
		reply = assist.ChatFallback
	}
	_ = json.NewEncoder(w).Encode(struct {
		Reply string `json:"reply"`
	}{Reply: reply})
}
