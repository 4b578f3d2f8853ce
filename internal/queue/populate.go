package queue

import (
	"context"
	"fmt"

	"github.com/desertthunder/queued/internal/models"
	"github.com/desertthunder/queued/internal/shared"
)

// AddAlbum enqueues an album's tracks in disc/track order and returns the
// number added. Fails with [shared.ErrAlbumNotFound] for an unknown album.
func (e *Engine) AddAlbum(ctx context.Context, albumID string, clearExisting bool) (int, error) {
	trackIDs, err := e.catalog.TracksOfAlbum(ctx, albumID)
	if err != nil {
		return 0, err
	}
	return e.AddTracks(ctx, trackIDs, models.SourceAlbum, albumID, clearExisting)
}

// AddPlaylist enqueues a playlist's tracks in stored order.
func (e *Engine) AddPlaylist(ctx context.Context, playlistID string, clearExisting bool) (int, error) {
	trackIDs, err := e.catalog.TracksOfPlaylist(ctx, playlistID)
	if err != nil {
		return 0, err
	}
	return e.AddTracks(ctx, trackIDs, models.SourcePlaylist, playlistID, clearExisting)
}

// AddArtist enqueues an artist's tracks in album-then-track order.
func (e *Engine) AddArtist(ctx context.Context, artistID string, clearExisting bool) (int, error) {
	trackIDs, err := e.catalog.TracksOfArtist(ctx, artistID)
	if err != nil {
		return 0, err
	}
	return e.AddTracks(ctx, trackIDs, models.SourceArtist, artistID, clearExisting)
}

// PlayNext inserts a track immediately after the currently playing entry.
//
// The insertion point is computed in natural space: the natural position of
// the current entry plus one, even while shuffled. An active shuffle order
// is regenerated afterwards since every position past the insertion point
// shifts; the current track stays pinned.
func (e *Engine) PlayNext(ctx context.Context, trackID string) (models.QueueEntry, error) {
	if _, err := e.catalog.ResolveTrack(ctx, trackID); err != nil {
		return models.QueueEntry{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	position := 0
	if len(e.entries) > 0 {
		position = e.naturalIndexLocked() + 1
	}

	cur := e.naturalIndexLocked()
	entry := e.insertLocked(trackID, position, models.SourceManual, "")

	if e.shuffleEnabled {
		e.regenerateLocked(cur)
	}
	return entry, nil
}

// Enqueue appends a single track at the end of the queue.
func (e *Engine) Enqueue(ctx context.Context, trackID string) (models.QueueEntry, error) {
	if _, err := e.catalog.ResolveTrack(ctx, trackID); err != nil {
		return models.QueueEntry{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	entry := e.insertLocked(trackID, len(e.entries), models.SourceManual, "")
	if e.shuffleEnabled {
		e.regenerateLocked(e.naturalIndexLocked())
	}
	return entry, nil
}

// InsertAt places a track at an explicit natural position, shifting entries
// at or after it up by one. position may equal the queue length (append).
func (e *Engine) InsertAt(ctx context.Context, trackID string, position int, sourceType string) (models.QueueEntry, error) {
	if _, err := e.catalog.ResolveTrack(ctx, trackID); err != nil {
		return models.QueueEntry{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if position < 0 || position > len(e.entries) {
		return models.QueueEntry{}, fmt.Errorf("%w: position %d with %d entries", shared.ErrInvalidIndex, position, len(e.entries))
	}

	cur := e.naturalIndexLocked()
	if position <= cur && len(e.entries) > 0 {
		cur++
	}

	entry := e.insertLocked(trackID, position, sourceType, "")

	if e.shuffleEnabled {
		e.regenerateLocked(cur)
	} else {
		e.currentIndex = cur
	}
	return entry, nil
}
