package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/queued/internal/shared"
)

// RepeatMode defines the repeat behavior of the play queue.
type RepeatMode string

const (
	RepeatOff RepeatMode = "off" // stop at the end of the queue
	RepeatOne RepeatMode = "one" // replay the current track indefinitely
	RepeatAll RepeatMode = "all" // wrap around at either end
)

// ParseRepeatMode validates a repeat mode string.
// Returns [shared.ErrInvalidArgument] for anything outside off|one|all.
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch RepeatMode(s) {
	case RepeatOff, RepeatOne, RepeatAll:
		return RepeatMode(s), nil
	default:
		return "", fmt.Errorf("%w: repeat mode %q", shared.ErrInvalidArgument, s)
	}
}

// Provenance tags recorded on queue entries. Informational only;
// never consulted by ordering or navigation logic.
const (
	SourceAlbum    = "album"
	SourcePlaylist = "playlist"
	SourceArtist   = "artist"
	SourceManual   = "manual"
)

// QueueEntry is one occupant of a queue slot.
//
// Position is the entry's rank in natural order and is mutated by
// remove/move operations. ID is stable across reordering.
type QueueEntry struct {
	ID         string    `json:"id"`
	TrackID    string    `json:"track_id"`
	Position   int       `json:"position"`
	SourceType string    `json:"source_type,omitempty"`
	SourceID   string    `json:"source_id,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

// NewQueueEntry creates a queue entry for the given track with a fresh ID.
func NewQueueEntry(trackID string, position int, sourceType, sourceID string) QueueEntry {
	return QueueEntry{
		ID:         shared.GenerateID(),
		TrackID:    trackID,
		Position:   position,
		SourceType: sourceType,
		SourceID:   sourceID,
		AddedAt:    time.Now().UTC(),
	}
}

// QueueSnapshot is a consistent copy of the queue aggregate, produced under
// the engine's lock. It is what gets persisted and what read-only callers see.
//
// When ShuffleEnabled is true, ShuffleOrder is a permutation of [0, N) and
// CurrentIndex points into it; otherwise CurrentIndex is a natural position
// and ShuffleOrder is nil.
type QueueSnapshot struct {
	Entries        []QueueEntry `json:"entries"`
	CurrentIndex   int          `json:"current_index"`
	ShuffleEnabled bool         `json:"shuffle_enabled"`
	RepeatMode     RepeatMode   `json:"repeat_mode"`
	ShuffleOrder   []int        `json:"shuffle_order,omitempty"`
}

// Validate checks the aggregate invariants: dense natural positions,
// current index bounds, and (when shuffled) that ShuffleOrder is a
// permutation of [0, N).
func (s *QueueSnapshot) Validate() error {
	n := len(s.Entries)

	seen := make(map[int]bool, n)
	for _, e := range s.Entries {
		if e.Position < 0 || e.Position >= n || seen[e.Position] {
			return fmt.Errorf("%w: positions are not dense over [0, %d)", shared.ErrInvalidInput, n)
		}
		seen[e.Position] = true
	}

	if _, err := ParseRepeatMode(string(s.RepeatMode)); err != nil {
		return err
	}

	if n == 0 {
		return nil
	}

	if s.CurrentIndex < 0 || s.CurrentIndex >= n {
		return fmt.Errorf("%w: current index %d with %d entries", shared.ErrInvalidIndex, s.CurrentIndex, n)
	}

	if s.ShuffleEnabled {
		if len(s.ShuffleOrder) != n {
			return fmt.Errorf("%w: shuffle order has %d positions, want %d", shared.ErrInvalidInput, len(s.ShuffleOrder), n)
		}
		seen := make(map[int]bool, n)
		for _, p := range s.ShuffleOrder {
			if p < 0 || p >= n || seen[p] {
				return fmt.Errorf("%w: shuffle order is not a permutation of [0, %d)", shared.ErrInvalidInput, n)
			}
			seen[p] = true
		}
	}

	return nil
}

// TotalDuration sums the durations of the given tracks, keyed by track ID,
// for the entries in the snapshot. Entries without a resolved track count zero.
func (s *QueueSnapshot) TotalDuration(tracks map[string]Track) int {
	total := 0
	for _, e := range s.Entries {
		if t, ok := tracks[e.TrackID]; ok {
			total += t.Duration
		}
	}
	return total
}
