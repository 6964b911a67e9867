package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"elele/pkg/assist"
	"elele/pkg/config"
	"elele/pkg/feed"
	"elele/pkg/models"
	"elele/pkg/storage"
)

// stubAssist answers with canned text, or fails when broken.
type stubAssist struct {
	broken  bool
	summary string
	reply   string
	calls   int
}

func (s *stubAssist) Summarize(_ context.Context, texts []string) (string, error) {
	s.calls++
	if s.broken {
		return "", errors.New("quota exceeded")
	}
	if len(texts) == 0 {
		return "", errors.New("empty input")
	}
	return s.summary, nil
}

func (s *stubAssist) Chat(_ context.Context, _ []assist.ChatTurn, _ string) (string, error) {
	s.calls++
	if s.broken {
		return "", errors.New("quota exceeded")
	}
	return s.reply, nil
}

func newTestServer(t *testing.T, svc assist.Service) (*httptest.Server, *feed.Store, storage.Substrate) {
	t.Helper()
	sub := storage.NewMemory()
	store := feed.NewStore(sub, config.DefaultStorageKeys())
	if err := store.Load(); err != nil {
		t.Fatalf("store.Load: %v", err)
	}
	a := &API{Feed: store, Assist: svc, Sub: sub, Keys: config.DefaultStorageKeys()}
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv, store, sub
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := client.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestCreateAndListMessages(t *testing.T) {
	srv, _, _ := newTestServer(t, &stubAssist{})
	client := srv.Client()

	resp := postJSON(t, client, srv.URL+"/v1/messages", models.Draft{
		FullName: "Ayşe Kaya",
		Phone:    "05442223344",
		Email:    "ayse@veli.com",
		Message:  "Servis arıyorum",
		Role:     models.RoleParent,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created models.SolidarityMessage
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" || created.CreatedAt == 0 {
		t.Fatalf("missing id or createdAt: %+v", created)
	}

	resp2, err := client.Get(srv.URL + "/v1/messages")
	if err != nil {
		t.Fatalf("GET messages: %v", err)
	}
	defer resp2.Body.Close()
	var list struct {
		Messages []models.SolidarityMessage `json:"messages"`
		Count    int                        `json:"count"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 1 || list.Messages[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	srv, store, _ := newTestServer(t, &stubAssist{})

	resp := postJSON(t, srv.Client(), srv.URL+"/v1/messages", models.Draft{
		FullName: "  ",
		Phone:    "1234",
		Email:    "abc",
		Message:  "yardım",
		Role:     models.RoleStudent,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	var body struct {
		Errors []struct {
			Field string `json:"field"`
			Code  string `json:"code"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode errors: %v", err)
	}
	if len(body.Errors) != 3 {
		t.Fatalf("expected 3 field errors together, got %+v", body.Errors)
	}
	if store.Len() != 0 {
		t.Fatalf("invalid draft must not enter the feed")
	}
}

func TestCreateAcceptsTurkishRoleLabel(t *testing.T) {
	srv, _, _ := newTestServer(t, &stubAssist{})

	resp := postJSON(t, srv.Client(), srv.URL+"/v1/messages", map[string]string{
		"fullName": "Can Mert",
		"phone":    "05553334455",
		"email":    "can@edu.tr",
		"message":  "Kitaplarımı hediye ediyorum",
		"role":     "Öğrenci",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created models.SolidarityMessage
	_ = json.NewDecoder(resp.Body).Decode(&created)
	if created.Role != models.RoleStudent {
		t.Fatalf("expected role normalization, got %q", created.Role)
	}
}

func TestListFilters(t *testing.T) {
	srv, store, _ := newTestServer(t, &stubAssist{})
	store.Create(models.Draft{FullName: "Ahmet", Phone: "05321112233", Email: "a@b.com", Message: "simit", Role: models.RoleShopkeeper})
	store.Create(models.Draft{FullName: "Can", Phone: "05321112234", Email: "c@d.com", Message: "kitap", Role: models.RoleStudent})

	get := func(q string) int {
		resp, err := srv.Client().Get(srv.URL + "/v1/messages" + q)
		if err != nil {
			t.Fatalf("GET %s: %v", q, err)
		}
		defer resp.Body.Close()
		var list struct {
			Count int `json:"count"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&list)
		return list.Count
	}

	if n := get("?role=student"); n != 1 {
		t.Fatalf("role filter: expected 1, got %d", n)
	}
	if n := get("?role=Esnaf"); n != 1 {
		t.Fatalf("label filter: expected 1, got %d", n)
	}
	if n := get("?role=all"); n != 2 {
		t.Fatalf("role=all: expected 2, got %d", n)
	}
	if n := get("?q=kitap"); n != 1 {
		t.Fatalf("search: expected 1, got %d", n)
	}
	if n := get("?role=student&q=simit"); n != 0 {
		t.Fatalf("combined: expected 0, got %d", n)
	}
}

func TestDeleteOwnerGated(t *testing.T) {
	srv, store, _ := newTestServer(t, &stubAssist{})
	client := srv.Client()
	m := store.Create(models.Draft{FullName: "A", Phone: "05321112233", Email: "a@b.com", Message: "m", Role: models.RoleStudent})

	del := func(path string) int {
		req, _ := http.NewRequest(http.MethodDelete, srv.URL+path, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("DELETE %s: %v", path, err)
		}
		defer resp.Body.Close()
		return resp.StatusCode
	}

	if code := del("/v1/messages/no-such-id"); code != http.StatusForbidden {
		t.Fatalf("not-owned id: expected 403, got %d", code)
	}
	if code := del("/v1/messages/" + m.ID); code != http.StatusNoContent {
		t.Fatalf("owned delete: expected 204, got %d", code)
	}
	if store.Len() != 0 {
		t.Fatal("message should be gone")
	}
	// ownership marker is gone, so the gated path now refuses
	if code := del("/v1/messages/" + m.ID); code != http.StatusForbidden {
		t.Fatalf("second gated delete: expected 403, got %d", code)
	}
	// the admin surface is idempotent
	if code := del("/v1/admin/messages/" + m.ID); code != http.StatusNoContent {
		t.Fatalf("admin delete: expected 204, got %d", code)
	}
}

func TestOwnedIDsEndpoint(t *testing.T) {
	srv, store, _ := newTestServer(t, &stubAssist{})
	m := store.Create(models.Draft{FullName: "A", Phone: "05321112233", Email: "a@b.com", Message: "m", Role: models.RoleStudent})

	resp, err := srv.Client().Get(srv.URL + "/v1/messages/owned")
	if err != nil {
		t.Fatalf("GET owned: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		OwnedIDs []string `json:"ownedIds"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if len(body.OwnedIDs) != 1 || body.OwnedIDs[0] != m.ID {
		t.Fatalf("unexpected owned ids: %+v", body.OwnedIDs)
	}
}

func TestSummaryEmptyFeedConflict(t *testing.T) {
	svc := &stubAssist{summary: "özet"}
	srv, _, _ := newTestServer(t, svc)

	resp, err := srv.Client().Get(srv.URL + "/v1/summary")
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on empty feed, got %d", resp.StatusCode)
	}
	if svc.calls != 0 {
		t.Fatal("text service must not be invoked for an empty feed")
	}
}

func TestSummarySuccessAndFallback(t *testing.T) {
	svc := &stubAssist{summary: "Bugün dayanışma ruhu yüksek."}
	srv, store, _ := newTestServer(t, svc)
	store.Create(models.Draft{FullName: "A", Phone: "05321112233", Email: "a@b.com", Message: "m", Role: models.RoleStudent})

	getSummary := func() (int, string) {
		resp, err := srv.Client().Get(srv.URL + "/v1/summary")
		if err != nil {
			t.Fatalf("GET summary: %v", err)
		}
		defer resp.Body.Close()
		var body struct {
			Summary string `json:"summary"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return resp.StatusCode, body.Summary
	}

	code, sum := getSummary()
	if code != http.StatusOK || sum != svc.summary {
		t.Fatalf("expected summary, got %d %q", code, sum)
	}

	svc.broken = true
	code, sum = getSummary()
	if code != http.StatusOK || sum != assist.SummaryFallback {
		t.Fatalf("expected fallback with 200, got %d %q", code, sum)
	}
}

func TestChatFallbackOnFailure(t *testing.T) {
	svc := &stubAssist{reply: "Merhaba!", broken: true}
	srv, _, _ := newTestServer(t, svc)

	resp := postJSON(t, srv.Client(), srv.URL+"/v1/chat", map[string]any{
		"history": []assist.ChatTurn{{Role: "ai", Text: "Merhaba! Ben İstanbul El Ele asistanıyım."}},
		"message": "Nasıl ilan verebilirim?",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Reply string `json:"reply"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Reply != assist.ChatFallback {
		t.Fatalf("expected apology fallback, got %q", body.Reply)
	}
}

func TestChatRequiresMessage(t *testing.T) {
	srv, _, _ := newTestServer(t, &stubAssist{})
	resp := postJSON(t, srv.Client(), srv.URL+"/v1/chat", map[string]any{"message": "   "})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestThemeRoundTrip(t *testing.T) {
	srv, _, sub := newTestServer(t, &stubAssist{})
	client := srv.Client()

	// default
	resp, err := client.Get(srv.URL + "/v1/theme")
	if err != nil {
		t.Fatalf("GET theme: %v", err)
	}
	var body struct {
		Theme string `json:"theme"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if body.Theme != "light" {
		t.Fatalf("expected default light, got %q", body.Theme)
	}

	// put dark
	b, _ := json.Marshal(map[string]string{"theme": "dark"})
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/v1/theme", bytes.NewReader(b))
	resp2, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT theme: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp2.StatusCode)
	}
	if v, ok, _ := sub.Get(config.DefaultStorageKeys().Theme); !ok || v != "dark" {
		t.Fatalf("theme not persisted: %q %v", v, ok)
	}

	// invalid value
	b, _ = json.Marshal(map[string]string{"theme": "sepia"})
	req, _ = http.NewRequest(http.MethodPut, srv.URL+"/v1/theme", bytes.NewReader(b))
	resp3, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT invalid theme: %v", err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp3.StatusCode)
	}
}
