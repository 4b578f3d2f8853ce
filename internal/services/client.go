package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/desertthunder/queued/internal/models"
	"github.com/desertthunder/queued/internal/shared"
)

// QueueClient wraps [APIService] with typed methods for every queue endpoint.
type QueueClient struct {
	api *APIService
}

// NewQueueClient creates a typed client for the queue server at baseURL.
func NewQueueClient(api *APIService) *QueueClient {
	return &QueueClient{api: api}
}

// GetQueue retrieves the full queue view.
func (c *QueueClient) GetQueue(ctx context.Context) (*models.QueueView, error) {
	resp, err := c.api.Get(ctx, "/api/queue")
	if err != nil {
		return nil, err
	}

	var view models.QueueView
	if err := c.decode(resp, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ClearQueue removes every entry from the queue.
func (c *QueueClient) ClearQueue(ctx context.Context) error {
	resp, err := c.api.Delete(ctx, "/api/queue")
	if err != nil {
		return err
	}
	return c.check(resp)
}

// AddTracks appends the given track ids to the queue.
func (c *QueueClient) AddTracks(ctx context.Context, trackIDs []string, clearExisting bool) (int, error) {
	return c.postCount(ctx, "/api/queue/tracks", map[string]any{
		"track_ids":      trackIDs,
		"source_type":    models.SourceManual,
		"clear_existing": clearExisting,
	})
}

// AddAlbum enqueues an album's tracks in disc/track order.
func (c *QueueClient) AddAlbum(ctx context.Context, albumID string, clearExisting bool) (int, error) {
	return c.postCount(ctx, collectionPath("albums", albumID, clearExisting), nil)
}

// AddPlaylist enqueues a playlist's tracks in playlist order.
func (c *QueueClient) AddPlaylist(ctx context.Context, playlistID string, clearExisting bool) (int, error) {
	return c.postCount(ctx, collectionPath("playlists", playlistID, clearExisting), nil)
}

// AddArtist enqueues an artist's catalog.
func (c *QueueClient) AddArtist(ctx context.Context, artistID string, clearExisting bool) (int, error) {
	return c.postCount(ctx, collectionPath("artists", artistID, clearExisting), nil)
}

// RemoveEntry deletes a queue entry by its id.
func (c *QueueClient) RemoveEntry(ctx context.Context, entryID string) error {
	resp, err := c.api.Delete(ctx, "/api/queue/items/"+url.PathEscape(entryID))
	if err != nil {
		return err
	}
	return c.check(resp)
}

// MoveEntry relocates a queue entry to a new position.
func (c *QueueClient) MoveEntry(ctx context.Context, entryID string, position int) error {
	data, _ := json.Marshal(map[string]int{"position": position})
	resp, err := c.api.Post(ctx, "/api/queue/items/"+url.PathEscape(entryID)+"/move", data)
	if err != nil {
		return err
	}
	return c.check(resp)
}

// PlayIndex jumps the playhead to the given play-order index.
func (c *QueueClient) PlayIndex(ctx context.Context, index int) (*models.NowPlaying, error) {
	data, _ := json.Marshal(map[string]int{"index": index})
	return c.postNowPlaying(ctx, "/api/queue/play", data)
}

// Next advances the playhead.
func (c *QueueClient) Next(ctx context.Context) (*models.NowPlaying, error) {
	return c.postNowPlaying(ctx, "/api/queue/next", nil)
}

// Previous steps the playhead backward.
func (c *QueueClient) Previous(ctx context.Context) (*models.NowPlaying, error) {
	return c.postNowPlaying(ctx, "/api/queue/previous", nil)
}

// SetShuffle toggles shuffle mode.
func (c *QueueClient) SetShuffle(ctx context.Context, enabled bool) error {
	data, _ := json.Marshal(map[string]bool{"enabled": enabled})
	resp, err := c.api.Post(ctx, "/api/queue/shuffle", data)
	if err != nil {
		return err
	}
	return c.check(resp)
}

// SetRepeat sets the repeat mode ("off", "one", "all").
func (c *QueueClient) SetRepeat(ctx context.Context, mode string) error {
	data, _ := json.Marshal(map[string]string{"mode": mode})
	resp, err := c.api.Post(ctx, "/api/queue/repeat", data)
	if err != nil {
		return err
	}
	return c.check(resp)
}

// PlayNext inserts a track immediately after the current one.
func (c *QueueClient) PlayNext(ctx context.Context, trackID string) (*models.QueueEntry, error) {
	return c.postEntry(ctx, "/api/queue/play-next", trackID)
}

// Enqueue appends a track to the tail of the queue.
func (c *QueueClient) Enqueue(ctx context.Context, trackID string) (*models.QueueEntry, error) {
	return c.postEntry(ctx, "/api/queue/enqueue", trackID)
}

// Upcoming returns the next entries in play order.
func (c *QueueClient) Upcoming(ctx context.Context, limit int) ([]models.QueueViewItem, error) {
	return c.getWindow(ctx, "/api/queue/upcoming", limit)
}

// History returns the previously played entries in play order.
func (c *QueueClient) History(ctx context.Context, limit int) ([]models.QueueViewItem, error) {
	return c.getWindow(ctx, "/api/queue/history", limit)
}

// Health reports whether the server is reachable and healthy.
func (c *QueueClient) Health(ctx context.Context) error {
	resp, err := c.api.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return c.check(resp)
}

func (c *QueueClient) postCount(ctx context.Context, path string, body map[string]any) (int, error) {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	resp, err := c.api.Post(ctx, path, data)
	if err != nil {
		return 0, err
	}

	var result models.CountResult
	if err := c.decode(resp, &result); err != nil {
		return 0, err
	}
	return result.Added, nil
}

func (c *QueueClient) postNowPlaying(ctx context.Context, path string, data []byte) (*models.NowPlaying, error) {
	resp, err := c.api.Post(ctx, path, data)
	if err != nil {
		return nil, err
	}

	var now models.NowPlaying
	if err := c.decode(resp, &now); err != nil {
		return nil, err
	}
	return &now, nil
}

func (c *QueueClient) postEntry(ctx context.Context, path, trackID string) (*models.QueueEntry, error) {
	data, _ := json.Marshal(map[string]string{"track_id": trackID})
	resp, err := c.api.Post(ctx, path, data)
	if err != nil {
		return nil, err
	}

	var entry models.QueueEntry
	if err := c.decode(resp, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *QueueClient) getWindow(ctx context.Context, path string, limit int) ([]models.QueueViewItem, error) {
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	resp, err := c.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var items []models.QueueViewItem
	if err := c.decode(resp, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// decode checks the status and unmarshals the body into v.
func (c *QueueClient) decode(resp *APIResponse, v any) error {
	if err := c.check(resp); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// check maps non-2xx responses to ErrAPIRequest with the server's message.
func (c *QueueClient) check(resp *APIResponse) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%w: %s (status %d)", shared.ErrAPIRequest, payload.Error, resp.StatusCode)
	}
	return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
}

// collectionPath builds the album/playlist/artist add path with the clear flag.
func collectionPath(kind, id string, clear bool) string {
	path := "/api/queue/" + kind + "/" + url.PathEscape(id)
	if clear {
		path += "?clear=true"
	}
	return path
}
