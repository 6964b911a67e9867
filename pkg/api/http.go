// Package api exposes the solidarity feed over HTTP JSON.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"elele/pkg/assist"
	"elele/pkg/config"
	"elele/pkg/feed"
	"elele/pkg/storage"
)

// API bundles the feed store, the text service and the substrate the
// handlers operate on.
type API struct {
	Feed   *feed.Store
	Assist assist.Service
	Sub    storage.Substrate
	Keys   config.StorageKeys
}

// Handler builds the versioned API router.
func (a *API) Handler() http.Handler {
	r := mux.NewRouter()

	// Feed
	r.HandleFunc("/v1/messages", a.createMessage).Methods(http.MethodPost)
	r.HandleFunc("/v1/messages", a.listMessages).Methods(http.MethodGet)
	r.HandleFunc("/v1/messages/owned", a.listOwned).Methods(http.MethodGet)
	r.HandleFunc("/v1/messages/{id}", a.deleteMessage).Methods(http.MethodDelete)

	// Ungated removal for operators; the owner gate is a UI convenience,
	// not a security boundary.
	r.HandleFunc("/v1/admin/messages/{id}", a.adminDeleteMessage).Methods(http.MethodDelete)

	// Assistant
	r.HandleFunc("/v1/summary", a.summary).Methods(http.MethodGet)
	r.HandleFunc("/v1/chat", a.chat).Methods(http.MethodPost)

	// Cosmetic theme persistence
	r.HandleFunc("/v1/theme", a.getTheme).Methods(http.MethodGet)
	r.HandleFunc("/v1/theme", a.putTheme).Methods(http.MethodPut)

	return r
}
