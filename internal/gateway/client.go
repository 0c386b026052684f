// Package gateway is the HTTP client side of the persistence gateway plus
// the fire-and-forget outbox the player submits writes through.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmateos82/tunecase/internal/constants"
	"github.com/dmateos82/tunecase/internal/domain"
)

// Client is a typed client for the gateway API. Requests are single-shot;
// callers that want durability go through the Outbox instead.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Ping checks the gateway is reachable.
func (c *Client) Ping(ctx context.Context) error {
	var out map[string]string
	return c.do(ctx, http.MethodGet, "/api/", nil, &out)
}

func (c *Client) CreateSong(ctx context.Context, song domain.Song) (*domain.Song, error) {
	var out domain.Song
	if err := c.do(ctx, http.MethodPost, "/api/songs", song, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListSongs(ctx context.Context) ([]domain.Song, error) {
	var out []domain.Song
	if err := c.do(ctx, http.MethodGet, "/api/songs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSong(ctx context.Context, id string) (*domain.Song, error) {
	var out domain.Song
	if err := c.do(ctx, http.MethodGet, "/api/songs/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RandomSong asks the gateway for a random song from the given folders; an
// empty folder list means the whole catalog.
func (c *Client) RandomSong(ctx context.Context, folderPaths []string) (*domain.Song, error) {
	path := "/api/songs/random"
	if len(folderPaths) > 0 {
		q := url.Values{}
		for _, p := range folderPaths {
			q.Add("folder_paths", p)
		}
		path += "?" + q.Encode()
	}
	var out domain.Song
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSong(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/songs/"+url.PathEscape(id), nil, nil)
}

func (c *Client) AddFavorite(ctx context.Context, songID string) (*domain.Favorite, error) {
	var out domain.Favorite
	in := map[string]string{"song_id": songID}
	if err := c.do(ctx, http.MethodPost, "/api/favorites", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	var out []domain.Favorite
	if err := c.do(ctx, http.MethodGet, "/api/favorites", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RemoveFavorite(ctx context.Context, songID string) error {
	return c.do(ctx, http.MethodDelete, "/api/favorites/"+url.PathEscape(songID), nil, nil)
}

func (c *Client) CreatePlaylist(ctx context.Context, name string, songIDs []string) (*domain.Playlist, error) {
	in := map[string]interface{}{"name": name, "song_ids": songIDs}
	var out domain.Playlist
	if err := c.do(ctx, http.MethodPost, "/api/playlists", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPlaylists(ctx context.Context) ([]domain.Playlist, error) {
	var out []domain.Playlist
	if err := c.do(ctx, http.MethodGet, "/api/playlists", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdatePlaylist(ctx context.Context, id string, name *string, songIDs *[]string) (*domain.Playlist, error) {
	in := map[string]interface{}{}
	if name != nil {
		in["name"] = *name
	}
	if songIDs != nil {
		in["song_ids"] = *songIDs
	}
	var out domain.Playlist
	if err := c.do(ctx, http.MethodPut, "/api/playlists/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePlaylist(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/playlists/"+url.PathEscape(id), nil, nil)
}

func (c *Client) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var out domain.Settings
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSettings(ctx context.Context, update domain.SettingsUpdate) (*domain.Settings, error) {
	var out domain.Settings
	if err := c.do(ctx, http.MethodPut, "/api/settings", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordPlay reports that a song was played for playDuration milliseconds.
func (c *Client) RecordPlay(ctx context.Context, songID string, playDuration int64) (*domain.PlayHistoryEntry, error) {
	path := "/api/history?song_id=" + url.QueryEscape(songID) +
		"&play_duration=" + strconv.FormatInt(playDuration, 10)
	var out domain.PlayHistoryEntry
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListHistory(ctx context.Context, limit int) ([]domain.PlayHistoryEntry, error) {
	path := "/api/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []domain.PlayHistoryEntry
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Detail != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Detail, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
