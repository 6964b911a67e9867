// Package feed owns the solidarity message list and the ownership set, and
// mediates all reads and writes to the persistence substrate.
package feed

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"elele/pkg/config"
	"elele/pkg/logger"
	"elele/pkg/models"
	"elele/pkg/storage"
	"elele/pkg/telemetry"
)

// ErrNotOwner is returned by DeleteOwned when the caller does not hold the
// ownership marker for the id.
var ErrNotOwner = errors.New("message not owned by this session")

// Filter narrows List results. Zero value matches everything.
type Filter struct {
	// Role restricts results to one role; empty or "all" disables the
	// role filter.
	Role string
	// Search is matched case-insensitively as a substring of fullName,
	// message and district.
	Search string
}

// Store is the single source of truth for the feed. Messages are kept
// newest-first; every mutation persists both collections to the substrate
// best-effort (a failed write is logged, in-memory state stands for the
// session).
type Store struct {
	mu       sync.RWMutex
	messages []models.SolidarityMessage
	owned    map[string]struct{}

	sub  storage.Substrate
	keys config.StorageKeys
}

// NewStore builds a store over the given substrate. Call Load before use.
func NewStore(sub storage.Substrate, keys config.StorageKeys) *Store {
	return &Store{
		owned: make(map[string]struct{}),
		sub:   sub,
		keys:  keys.OrDefaults(),
	}
}

// Load rehydrates messages and owned ids from the substrate. Absent keys
// mean an empty feed and an empty ownership set; that is not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.sub.Get(s.keys.Messages)
	if err != nil {
		return err
	}
	if ok {
		var msgs []models.SolidarityMessage
		if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
			return err
		}
		s.messages = msgs
	} else {
		s.messages = nil
	}

	raw, ok, err = s.sub.Get(s.keys.OwnedIDs)
	if err != nil {
		return err
	}
	s.owned = make(map[string]struct{})
	if ok {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return err
		}
		for _, id := range ids {
			s.owned[id] = struct{}{}
		}
	}
	telemetry.SetFeedSize(len(s.messages))
	logger.Info("feed_loaded", "messages", len(s.messages), "owned", len(s.owned))
	return nil
}

// Create admits a validated draft to the feed: assigns a fresh unique id and
// creation timestamp, prepends the message, marks it owned, and persists.
// There is no error path once validation has passed.
func (s *Store) Create(d models.Draft) models.SolidarityMessage {
	msg := models.SolidarityMessage{
		ID:        uuid.NewString(),
		FullName:  d.FullName,
		Phone:     d.Phone,
		Email:     d.Email,
		Message:   d.Message,
		Role:      d.Role,
		District:  d.District,
		CreatedAt: time.Now().UnixMilli(),
	}

	s.mu.Lock()
	s.messages = append([]models.SolidarityMessage{msg}, s.messages...)
	s.owned[msg.ID] = struct{}{}
	s.persistLocked()
	s.mu.Unlock()

	logger.Info("message_created", "id", msg.ID, "role", string(msg.Role))
	return msg
}

// Delete removes the message with the given id unconditionally. Removing an
// absent id is a no-op, not an error. The ownership marker is dropped either
// way, so a second delete of the same id observes the same final state.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	removed := s.removeLocked(id)
	s.persistLocked()
	s.mu.Unlock()

	if removed {
		logger.Info("message_deleted", "id", id)
	}
	return removed
}

// DeleteOwned is the owner-gated delete path: it refuses ids that are not in
// this session's ownership set. Ownership is a convenience marker, not a
// security boundary; Delete stays available for ungated callers.
func (s *Store) DeleteOwned(id string) error {
	s.mu.Lock()
	if _, ok := s.owned[id]; !ok {
		s.mu.Unlock()
		return ErrNotOwner
	}
	s.removeLocked(id)
	s.persistLocked()
	s.mu.Unlock()

	logger.Info("message_deleted", "id", id, "gated", true)
	return nil
}

// removeLocked drops the message and its ownership marker. Caller holds the
// write lock.
func (s *Store) removeLocked(id string) bool {
	removed := false
	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i:i], s.messages[i+1:]...)
			removed = true
			break
		}
	}
	delete(s.owned, id)
	return removed
}

// List returns the subset of messages matching the filter, in feed order
// (newest first). The result is a fresh slice, not a live view.
func (s *Store) List(f Filter) []models.SolidarityMessage {
	role := strings.TrimSpace(f.Role)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SolidarityMessage, 0, len(s.messages))
	for _, m := range s.messages {
		if role != "" && role != "all" && string(m.Role) != role {
			continue
		}
		if search != "" && !matchesSearch(m, search) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesSearch(m models.SolidarityMessage, lowered string) bool {
	return strings.Contains(strings.ToLower(m.FullName), lowered) ||
		strings.Contains(strings.ToLower(m.Message), lowered) ||
		strings.Contains(strings.ToLower(m.District), lowered)
}

// Owns reports whether id is in this session's ownership set.
func (s *Store) Owns(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.owned[id]
	return ok
}

// OwnedIDs returns a sorted copy of the ownership set.
func (s *Store) OwnedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.owned))
	for id := range s.owned {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of messages in the feed.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Texts returns the message bodies in feed order, for the summarizer.
func (s *Store) Texts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, m.Message)
	}
	return out
}

// PruneOlderThan removes messages created before cutoff and persists. It
// returns how many were removed.
func (s *Store) PruneOlderThan(cutoff time.Time) int {
	limit := cutoff.UnixMilli()

	s.mu.Lock()
	kept := s.messages[:0:0]
	removed := 0
	for _, m := range s.messages {
		if m.CreatedAt < limit {
			delete(s.owned, m.ID)
			removed++
			continue
		}
		kept = append(kept, m)
	}
	s.messages = kept
	if removed > 0 {
		s.persistLocked()
	}
	s.mu.Unlock()

	if removed > 0 {
		logger.Info("feed_pruned", "removed", removed, "cutoff_ms", limit)
	}
	return removed
}

// persistLocked writes both collections to the substrate. Persistence is
// best-effort: a failed write leaves the in-memory state authoritative for
// the rest of the session. Caller holds the write lock.
func (s *Store) persistLocked() {
	msgs := s.messages
	if msgs == nil {
		msgs = []models.SolidarityMessage{}
	}
	b, err := json.Marshal(msgs)
	if err == nil {
		err = s.sub.Set(s.keys.Messages, string(b))
	}
	if err != nil {
		telemetry.PersistFailures.Inc()
		logger.Error("persist_messages_failed", "key", s.keys.Messages, "error", err)
	}

	ids := make([]string, 0, len(s.owned))
	for id := range s.owned {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	b, err = json.Marshal(ids)
	if err == nil {
		err = s.sub.Set(s.keys.OwnedIDs, string(b))
	}
	if err != nil {
		telemetry.PersistFailures.Inc()
		logger.Error("persist_owned_ids_failed", "key", s.keys.OwnedIDs, "error", err)
	}

	telemetry.SetFeedSize(len(s.messages))
}
