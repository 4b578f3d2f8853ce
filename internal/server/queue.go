package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/queued/internal/models"
	"github.com/desertthunder/queued/internal/queue"
	"github.com/desertthunder/queued/internal/repositories"
	"github.com/desertthunder/queued/internal/shared"
)

// defaultViewLimit bounds upcoming/history windows when the caller gives none.
const defaultViewLimit = 10

// QueueHandler exposes the queue engine over HTTP.
// Implements the [Handler] interface for registration with a [Router].
//
// Every mutating endpoint persists a fresh snapshot through the queue
// repository after the engine call returns; persistence failures are logged
// and do not fail the request.
type QueueHandler struct {
	engine  *queue.Engine
	library *repositories.LibraryRepository
	store   *repositories.QueueRepository
	logger  *log.Logger
	mux     *http.ServeMux
}

// NewQueueHandler creates a QueueHandler. store may be nil to run the queue
// purely in memory.
func NewQueueHandler(engine *queue.Engine, library *repositories.LibraryRepository, store *repositories.QueueRepository, logger *log.Logger) *QueueHandler {
	h := &QueueHandler{
		engine:  engine,
		library: library,
		store:   store,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/queue", h.getQueue)
	mux.HandleFunc("DELETE /api/queue", h.clearQueue)
	mux.HandleFunc("POST /api/queue/tracks", h.addTracks)
	mux.HandleFunc("POST /api/queue/albums/{id}", h.addAlbum)
	mux.HandleFunc("POST /api/queue/playlists/{id}", h.addPlaylist)
	mux.HandleFunc("POST /api/queue/artists/{id}", h.addArtist)
	mux.HandleFunc("DELETE /api/queue/items/{id}", h.removeEntry)
	mux.HandleFunc("POST /api/queue/items/{id}/move", h.moveEntry)
	mux.HandleFunc("POST /api/queue/play", h.playIndex)
	mux.HandleFunc("POST /api/queue/next", h.next)
	mux.HandleFunc("POST /api/queue/previous", h.previous)
	mux.HandleFunc("POST /api/queue/shuffle", h.setShuffle)
	mux.HandleFunc("POST /api/queue/repeat", h.setRepeat)
	mux.HandleFunc("POST /api/queue/play-next", h.playNext)
	mux.HandleFunc("POST /api/queue/enqueue", h.enqueue)
	mux.HandleFunc("GET /api/queue/upcoming", h.upcoming)
	mux.HandleFunc("GET /api/queue/history", h.history)
	h.mux = mux

	return h
}

// Routes returns the method-qualified patterns this handler serves.
func (h *QueueHandler) Routes() []string {
	return []string{"/api/queue", "/api/queue/"}
}

// ServeHTTP dispatches to the handler's internal mux.
func (h *QueueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// getQueue returns every entry in natural order plus aggregate state and totals.
func (h *QueueHandler) getQueue(w http.ResponseWriter, r *http.Request) {
	view, err := h.buildView(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *QueueHandler) clearQueue(w http.ResponseWriter, r *http.Request) {
	h.engine.Clear()
	h.persist(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

func (h *QueueHandler) addTracks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TrackIDs      []string `json:"track_ids"`
		SourceType    string   `json:"source_type"`
		SourceID      string   `json:"source_id"`
		ClearExisting bool     `json:"clear_existing"`
	}
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	added, err := h.engine.AddTracks(r.Context(), req.TrackIDs, req.SourceType, req.SourceID, req.ClearExisting)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.persist(r.Context())
	h.writeJSON(w, http.StatusOK, models.CountResult{Added: added})
}

func (h *QueueHandler) addAlbum(w http.ResponseWriter, r *http.Request) {
	h.addCollection(w, r, h.engine.AddAlbum)
}

func (h *QueueHandler) addPlaylist(w http.ResponseWriter, r *http.Request) {
	h.addCollection(w, r, h.engine.AddPlaylist)
}

func (h *QueueHandler) addArtist(w http.ResponseWriter, r *http.Request) {
	h.addCollection(w, r, h.engine.AddArtist)
}

// addCollection handles the shared shape of album/playlist/artist adds.
func (h *QueueHandler) addCollection(w http.ResponseWriter, r *http.Request, add func(context.Context, string, bool) (int, error)) {
	id := r.PathValue("id")
	clearExisting := r.URL.Query().Get("clear") == "true"

	added, err := add(r.Context(), id, clearExisting)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.persist(r.Context())
	h.writeJSON(w, http.StatusOK, models.CountResult{Added: added})
}

func (h *QueueHandler) removeEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if !h.engine.Remove(id) {
		h.writeError(w, shared.ErrEntryNotFound)
		return
	}

	h.persist(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func (h *QueueHandler) moveEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Position int `json:"position"`
	}
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.engine.Move(id, req.Position); err != nil {
		h.writeError(w, err)
		return
	}

	h.persist(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]bool{"moved": true})
}

func (h *QueueHandler) playIndex(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	entry, err := h.engine.PlayAt(req.Index)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.persist(r.Context())
	h.writeJSON(w, http.StatusOK, h.nowPlaying(r.Context(), entry, true))
}

func (h *QueueHandler) next(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.engine.Next()
	h.persist(r.Context())
	h.writeJSON(w, http.StatusOK, h.nowPlaying(r.Context(), entry, ok))
}

func (h *QueueHandler) previous(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.engine.Previous()
	h.persist(r.Context())
	h.writeJSON(w, http.StatusOK, h.nowPlaying(r.Context(), entry, ok))
}

func (h *QueueHandler) setShuffle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	h.engine.SetShuffle(req.Enabled)
	h.persist(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]bool{"shuffle_enabled": req.Enabled})
}

func (h *QueueHandler) setRepeat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	mode, err := h.engine.SetRepeat(req.Mode)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.persist(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]models.RepeatMode{"repeat_mode": mode})
}

func (h *QueueHandler) playNext(w http.ResponseWriter, r *http.Request) {
	h.addSingle(w, r, h.engine.PlayNext)
}

func (h *QueueHandler) enqueue(w http.ResponseWriter, r *http.Request) {
	h.addSingle(w, r, h.engine.Enqueue)
}

// addSingle handles the shared shape of play-next/enqueue.
func (h *QueueHandler) addSingle(w http.ResponseWriter, r *http.Request, add func(context.Context, string) (models.QueueEntry, error)) {
	var req struct {
		TrackID string `json:"track_id"`
	}
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	entry, err := add(r.Context(), req.TrackID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.persist(r.Context())
	h.writeJSON(w, http.StatusOK, entry)
}

func (h *QueueHandler) upcoming(w http.ResponseWriter, r *http.Request) {
	h.writeWindow(w, r, h.engine.Upcoming)
}

func (h *QueueHandler) history(w http.ResponseWriter, r *http.Request) {
	h.writeWindow(w, r, h.engine.History)
}

// writeWindow serves an upcoming/history projection with resolved tracks.
func (h *QueueHandler) writeWindow(w http.ResponseWriter, r *http.Request, view func(int) []models.QueueEntry) {
	limit := defaultViewLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, shared.ErrInvalidArgument)
			return
		}
		limit = parsed
	}

	entries := view(limit)
	items, err := h.resolveItems(r.Context(), entries)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

// buildView assembles the full queue projection from a snapshot.
func (h *QueueHandler) buildView(ctx context.Context) (*models.QueueView, error) {
	s := h.engine.Snapshot()

	ids := make([]string, 0, len(s.Entries))
	for _, entry := range s.Entries {
		ids = append(ids, entry.TrackID)
	}
	tracks, err := h.library.TracksByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Items are in natural order, so the index is folded back to natural
	// space while shuffle is on.
	current := s.CurrentIndex
	if s.ShuffleEnabled && current >= 0 && current < len(s.ShuffleOrder) {
		current = s.ShuffleOrder[current]
	}

	view := &models.QueueView{
		Items:          make([]models.QueueViewItem, 0, len(s.Entries)),
		CurrentIndex:   current,
		ShuffleEnabled: s.ShuffleEnabled,
		RepeatMode:     s.RepeatMode,
		TotalTracks:    len(s.Entries),
		TotalDuration:  s.TotalDuration(tracks),
	}

	for _, entry := range s.Entries {
		item := models.QueueViewItem{QueueEntry: entry}
		if t, ok := tracks[entry.TrackID]; ok {
			track := t
			item.Track = &track
		}
		view.Items = append(view.Items, item)
	}

	if entry, ok := h.engine.Current(); ok {
		if t, ok := tracks[entry.TrackID]; ok {
			track := t
			view.CurrentTrack = &track
		}
	}

	return view, nil
}

// resolveItems attaches track metadata to a window of entries.
func (h *QueueHandler) resolveItems(ctx context.Context, entries []models.QueueEntry) ([]models.QueueViewItem, error) {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.TrackID)
	}
	tracks, err := h.library.TracksByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.QueueViewItem, 0, len(entries))
	for _, entry := range entries {
		item := models.QueueViewItem{QueueEntry: entry}
		if t, ok := tracks[entry.TrackID]; ok {
			track := t
			item.Track = &track
		}
		items = append(items, item)
	}
	return items, nil
}

// nowPlaying resolves the navigation result's track metadata. A miss in the
// catalog still reports the entry; an empty result reports both as null.
func (h *QueueHandler) nowPlaying(ctx context.Context, entry models.QueueEntry, ok bool) models.NowPlaying {
	if !ok {
		return models.NowPlaying{}
	}

	now := models.NowPlaying{Entry: &entry}
	track, err := h.library.ResolveTrack(ctx, entry.TrackID)
	if err == nil {
		now.Track = track
	}
	return now
}

// persist saves a snapshot through the queue repository, outside the engine
// lock. Best effort: a failed save is logged, never surfaced to the caller.
func (h *QueueHandler) persist(ctx context.Context) {
	if h.store == nil {
		return
	}
	if err := h.store.Save(ctx, h.engine.Snapshot()); err != nil {
		h.logger.Error("failed to persist queue snapshot", "error", err)
	}
}

// decode reads a JSON request body, mapping malformed input to ErrInvalidInput.
func (h *QueueHandler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return shared.ErrInvalidInput
	}
	return nil
}

// writeJSON serializes a response body with the given status.
func (h *QueueHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses:
// unresolved ids are 404, bad indices and arguments 400, the rest 500.
func (h *QueueHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, shared.ErrTrackNotFound),
		errors.Is(err, shared.ErrAlbumNotFound),
		errors.Is(err, shared.ErrArtistNotFound),
		errors.Is(err, shared.ErrPlaylistNotFound),
		errors.Is(err, shared.ErrEntryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidIndex),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrMissingArgument):
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
