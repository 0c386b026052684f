// Package server exposes the persistence gateway HTTP API: CRUD for songs,
// favorites, playlists, settings and play history over the local store.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmateos82/tunecase/internal/logger"
	"github.com/dmateos82/tunecase/internal/store"
)

type Handler struct {
	Songs     *store.SongRepo
	Favorites *store.FavoriteRepo
	Playlists *store.PlaylistRepo
	Settings  *store.SettingsRepo
	History   *store.HistoryRepo
	Status    *store.StatusRepo
	Logger    *logger.Logger
}

func NewHandler(db *store.DB, log *logger.Logger) *Handler {
	return &Handler{
		Songs:     store.NewSongRepo(db),
		Favorites: store.NewFavoriteRepo(db),
		Playlists: store.NewPlaylistRepo(db),
		Settings:  store.NewSettingsRepo(db),
		History:   store.NewHistoryRepo(db),
		Status:    store.NewStatusRepo(db),
		Logger:    log.WithComponent("server"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.Root)

		r.Post("/status", h.CreateStatusCheck)
		r.Get("/status", h.ListStatusChecks)

		r.Post("/songs", h.CreateSong)
		r.Get("/songs", h.ListSongs)
		r.Get("/songs/random", h.RandomSong)
		r.Get("/songs/{id}", h.GetSong)
		r.Delete("/songs/{id}", h.DeleteSong)

		r.Post("/favorites", h.CreateFavorite)
		r.Get("/favorites", h.ListFavorites)
		r.Delete("/favorites/{songID}", h.DeleteFavorite)

		r.Post("/playlists", h.CreatePlaylist)
		r.Get("/playlists", h.ListPlaylists)
		r.Put("/playlists/{id}", h.UpdatePlaylist)
		r.Delete("/playlists/{id}", h.DeletePlaylist)

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)

		r.Post("/history", h.CreateHistory)
		r.Get("/history", h.ListHistory)
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"detail": msg})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
