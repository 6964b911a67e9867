package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"elele/pkg/feed"
	"elele/pkg/logger"
	"elele/pkg/models"
	"elele/pkg/telemetry"
	"elele/pkg/validation"
)

// createMessage handles POST /v1/messages. The draft must pass validation
// before it is admitted to the feed; all field errors are returned together
// so the client can show every problem at once.
func (a *API) createMessage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var d models.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	// Accept the Turkish display label as well as the role code.
	if role, ok := models.ParseRole(string(d.Role)); ok {
		d.Role = role
	}
	if errs := validation.ValidateDraft(d); len(errs) > 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(struct {
			Errors []validation.FieldError `json:"errors"`
		}{Errors: errs})
		return
	}

	msg := a.Feed.Create(d)
	telemetry.MessagesCreated.Inc()
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(msg)
}

// listMessages handles GET /v1/messages. Optional query parameters:
//   - "role": role code or Turkish label; "all" or absent disables the filter.
//   - "q": case-insensitive substring search over fullName, message, district.
func (a *API) listMessages(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	roleQ := r.URL.Query().Get("role")
	if role, ok := models.ParseRole(roleQ); ok {
		roleQ = string(role)
	}
	msgs := a.Feed.List(feed.Filter{
		Role:   roleQ,
		Search: r.URL.Query().Get("q"),
	})
	logger.Debug("messages_list", "count", len(msgs))
	_ = json.NewEncoder(w).Encode(struct {
		Messages []models.SolidarityMessage `json:"messages"`
		Count    int                        `json:"count"`
	}{Messages: msgs, Count: len(msgs)})
}

// listOwned handles GET /v1/messages/owned so the client can decide where to
// render the delete action.
func (a *API) listOwned(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		OwnedIDs []string `json:"ownedIds"`
	}{OwnedIDs: a.Feed.OwnedIDs()})
}

// deleteMessage handles DELETE /v1/messages/{id}, the owner-gated path.
func (a *API) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.Feed.DeleteOwned(id); err != nil {
		if errors.Is(err, feed.ErrNotOwner) {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"message not owned by this session"}`, http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	telemetry.MessagesDeleted.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// adminDeleteMessage handles DELETE /v1/admin/messages/{id}: unconditional
// removal by id; deleting an absent id is a no-op.
func (a *API) adminDeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if a.Feed.Delete(id) {
		telemetry.MessagesDeleted.Inc()
	}
	w.WriteHeader(http.StatusNoContent)
}
