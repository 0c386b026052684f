package server

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmateos82/tunecase/internal/domain"
)

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Music Player API"})
}

func (h *Handler) CreateStatusCheck(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ClientName string `json:"client_name"`
	}
	if !h.decode(w, r, &in) {
		return
	}
	if in.ClientName == "" {
		h.writeError(w, http.StatusBadRequest, "client_name is required")
		return
	}

	check, err := h.Status.Create(in.ClientName)
	if err != nil {
		h.Logger.Error("Failed to create status check", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create status check")
		return
	}
	h.writeJSON(w, http.StatusOK, check)
}

func (h *Handler) ListStatusChecks(w http.ResponseWriter, r *http.Request) {
	checks, err := h.Status.List(0)
	if err != nil {
		h.Logger.Error("Failed to list status checks", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list status checks")
		return
	}
	h.writeJSON(w, http.StatusOK, checks)
}

func (h *Handler) CreateSong(w http.ResponseWriter, r *http.Request) {
	var song domain.Song
	if !h.decode(w, r, &song) {
		return
	}
	if song.Title == "" || song.FilePath == "" {
		h.writeError(w, http.StatusBadRequest, "title and file_path are required")
		return
	}

	if err := h.Songs.Create(&song); err != nil {
		h.Logger.Error("Failed to create song", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create song")
		return
	}
	h.writeJSON(w, http.StatusOK, song)
}

func (h *Handler) ListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.Songs.List()
	if err != nil {
		h.Logger.Error("Failed to list songs", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list songs")
		return
	}
	if songs == nil {
		songs = []domain.Song{}
	}
	h.writeJSON(w, http.StatusOK, songs)
}

func (h *Handler) GetSong(w http.ResponseWriter, r *http.Request) {
	song, err := h.Songs.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.Logger.Error("Failed to get song", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get song")
		return
	}
	if song == nil {
		h.writeError(w, http.StatusNotFound, "song not found")
		return
	}
	h.writeJSON(w, http.StatusOK, song)
}

// RandomSong picks a random song, optionally restricted to the folders in the
// folder_paths query parameter (repeated or comma separated).
func (h *Handler) RandomSong(w http.ResponseWriter, r *http.Request) {
	var folders []string
	for _, raw := range r.URL.Query()["folder_paths"] {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				folders = append(folders, p)
			}
		}
	}

	song, err := h.Songs.Random(folders)
	if err != nil {
		h.Logger.Error("Failed to pick random song", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to pick random song")
		return
	}
	if song == nil {
		h.writeError(w, http.StatusNotFound, "no songs found")
		return
	}
	h.writeJSON(w, http.StatusOK, song)
}

func (h *Handler) DeleteSong(w http.ResponseWriter, r *http.Request) {
	err := h.Songs.Delete(chi.URLParam(r, "id"))
	if err == sql.ErrNoRows {
		h.writeError(w, http.StatusNotFound, "song not found")
		return
	}
	if err != nil {
		h.Logger.Error("Failed to delete song", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to delete song")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "song deleted"})
}

func (h *Handler) CreateFavorite(w http.ResponseWriter, r *http.Request) {
	var in struct {
		SongID string `json:"song_id"`
	}
	if !h.decode(w, r, &in) {
		return
	}
	if in.SongID == "" {
		h.writeError(w, http.StatusBadRequest, "song_id is required")
		return
	}

	fav, err := h.Favorites.Add(in.SongID)
	if err != nil {
		h.Logger.Error("Failed to add favorite", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to add favorite")
		return
	}
	h.writeJSON(w, http.StatusOK, fav)
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.Favorites.List()
	if err != nil {
		h.Logger.Error("Failed to list favorites", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list favorites")
		return
	}
	if favs == nil {
		favs = []domain.Favorite{}
	}
	h.writeJSON(w, http.StatusOK, favs)
}

func (h *Handler) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	err := h.Favorites.RemoveBySongID(chi.URLParam(r, "songID"))
	if err == sql.ErrNoRows {
		h.writeError(w, http.StatusNotFound, "favorite not found")
		return
	}
	if err != nil {
		h.Logger.Error("Failed to remove favorite", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to remove favorite")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "favorite removed"})
}

func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name    string   `json:"name"`
		SongIDs []string `json:"song_ids"`
	}
	if !h.decode(w, r, &in) {
		return
	}
	if in.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	pl, err := h.Playlists.Create(in.Name, in.SongIDs)
	if err != nil {
		h.Logger.Error("Failed to create playlist", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create playlist")
		return
	}
	h.writeJSON(w, http.StatusOK, pl)
}

func (h *Handler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.Playlists.List()
	if err != nil {
		h.Logger.Error("Failed to list playlists", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list playlists")
		return
	}
	if playlists == nil {
		playlists = []domain.Playlist{}
	}
	h.writeJSON(w, http.StatusOK, playlists)
}

func (h *Handler) UpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name    *string   `json:"name"`
		SongIDs *[]string `json:"song_ids"`
	}
	if !h.decode(w, r, &in) {
		return
	}

	pl, err := h.Playlists.Update(chi.URLParam(r, "id"), in.Name, in.SongIDs)
	if err != nil {
		h.Logger.Error("Failed to update playlist", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update playlist")
		return
	}
	if pl == nil {
		h.writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	h.writeJSON(w, http.StatusOK, pl)
}

func (h *Handler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	err := h.Playlists.Delete(chi.URLParam(r, "id"))
	if err == sql.ErrNoRows {
		h.writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		h.Logger.Error("Failed to delete playlist", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to delete playlist")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "playlist deleted"})
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get()
	if err != nil {
		h.Logger.Error("Failed to get settings", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get settings")
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var update domain.SettingsUpdate
	if !h.decode(w, r, &update) {
		return
	}
	if update.RepeatMode != nil && !update.RepeatMode.Valid() {
		h.writeError(w, http.StatusBadRequest, "repeat_mode must be one of: none, one, all")
		return
	}

	settings, err := h.Settings.Update(update)
	if err != nil {
		h.Logger.Error("Failed to update settings", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}

// CreateHistory records a play. song_id and play_duration arrive as query
// parameters; the song snapshot is resolved from the store when present.
func (h *Handler) CreateHistory(w http.ResponseWriter, r *http.Request) {
	songID := r.URL.Query().Get("song_id")
	if songID == "" {
		h.writeError(w, http.StatusBadRequest, "song_id is required")
		return
	}
	playDuration, _ := strconv.ParseInt(r.URL.Query().Get("play_duration"), 10, 64)

	song, err := h.Songs.Get(songID)
	if err != nil {
		h.Logger.Error("Failed to resolve history song", "error", err)
	}

	entry, err := h.History.Append(songID, song, playDuration)
	if err != nil {
		h.Logger.Error("Failed to append history", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to append history")
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.History.List(limit)
	if err != nil {
		h.Logger.Error("Failed to list history", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	if entries == nil {
		entries = []domain.PlayHistoryEntry{}
	}
	h.writeJSON(w, http.StatusOK, entries)
}
