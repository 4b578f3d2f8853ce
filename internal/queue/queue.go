// Package queue implements the play queue engine: an ordered, mutable
// sequence of track references with a single logical playhead, shuffle,
// and repeat semantics.
//
// The whole aggregate (entries, current index, shuffle order, repeat mode)
// lives behind one mutex; every mutating operation executes as a single
// atomic unit. Catalog lookups block and therefore happen before the lock
// is taken, never inside it.
//
// Two index spaces exist. Natural order is the dense 0..N-1 ranking stored
// on each entry. While shuffle is enabled, the current index points into a
// permutation of natural positions instead, and slot 0 of that permutation
// is always the entry that was playing when the permutation was generated.
package queue

import (
	"context"
	"sync"

	"github.com/desertthunder/queued/internal/models"
)

// Catalog is the library collaborator the engine resolves track and
// collection ids against. Implementations may block (database, network);
// the engine never calls them while holding its lock.
type Catalog interface {
	// ResolveTrack returns track metadata, or wraps [shared.ErrTrackNotFound].
	ResolveTrack(ctx context.Context, trackID string) (*models.Track, error)

	// TracksOfAlbum returns the album's track ids in disc/track order,
	// or wraps [shared.ErrAlbumNotFound].
	TracksOfAlbum(ctx context.Context, albumID string) ([]string, error)

	// TracksOfPlaylist returns the playlist's track ids in stored order,
	// or wraps [shared.ErrPlaylistNotFound].
	TracksOfPlaylist(ctx context.Context, playlistID string) ([]string, error)

	// TracksOfArtist returns the artist's track ids in album-then-track order,
	// or wraps [shared.ErrArtistNotFound].
	TracksOfArtist(ctx context.Context, artistID string) ([]string, error)
}

// Engine is the process-wide queue aggregate. Exactly one instance serves
// all callers; construct it once and share it.
type Engine struct {
	mu      sync.RWMutex
	catalog Catalog

	// entries is kept sorted so that entries[i].Position == i.
	entries        []models.QueueEntry
	currentIndex   int
	shuffleEnabled bool
	shuffleOrder   []int
	repeatMode     models.RepeatMode
}

// New creates an empty queue engine backed by the given catalog.
func New(catalog Catalog) *Engine {
	return &Engine{
		catalog:    catalog,
		repeatMode: models.RepeatOff,
	}
}

// Len returns the number of entries in the queue.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.entries)
}

// Snapshot returns a consistent copy of the whole aggregate.
func (e *Engine) Snapshot() models.QueueSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() models.QueueSnapshot {
	s := models.QueueSnapshot{
		CurrentIndex:   e.currentIndex,
		ShuffleEnabled: e.shuffleEnabled,
		RepeatMode:     e.repeatMode,
	}
	s.Entries = make([]models.QueueEntry, len(e.entries))
	copy(s.Entries, e.entries)
	if e.shuffleOrder != nil {
		s.ShuffleOrder = make([]int, len(e.shuffleOrder))
		copy(s.ShuffleOrder, e.shuffleOrder)
	}
	return s
}

// Restore replaces the aggregate with a previously persisted snapshot.
// The snapshot is validated first; a snapshot that violates the queue
// invariants is rejected and leaves the engine untouched.
func (e *Engine) Restore(s models.QueueSnapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	entries := make([]models.QueueEntry, len(s.Entries))
	for _, entry := range s.Entries {
		entries[entry.Position] = entry
	}
	e.entries = entries
	e.repeatMode = s.RepeatMode
	e.shuffleEnabled = s.ShuffleEnabled
	e.shuffleOrder = nil
	if s.ShuffleEnabled {
		e.shuffleOrder = make([]int, len(s.ShuffleOrder))
		copy(e.shuffleOrder, s.ShuffleOrder)
	}
	e.currentIndex = s.CurrentIndex
	if len(entries) == 0 {
		e.currentIndex = 0
	}
	return nil
}

// Clear removes every entry and resets the playhead. Shuffle and repeat
// modes survive a clear; the permutation itself does not.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = nil
	e.currentIndex = 0
	e.shuffleOrder = nil
}

// naturalIndexLocked returns the natural position of the entry the playhead
// is on, mapping through the shuffle order when one is active.
func (e *Engine) naturalIndexLocked() int {
	if e.shuffleEnabled && e.currentIndex >= 0 && e.currentIndex < len(e.shuffleOrder) {
		return e.shuffleOrder[e.currentIndex]
	}
	return e.currentIndex
}

// entryAtLocked returns a copy of the entry at the given natural position.
func (e *Engine) entryAtLocked(naturalPos int) (models.QueueEntry, bool) {
	if naturalPos < 0 || naturalPos >= len(e.entries) {
		return models.QueueEntry{}, false
	}
	return e.entries[naturalPos], true
}
