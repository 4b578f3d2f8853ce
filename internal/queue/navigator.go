package queue

import (
	"fmt"

	"github.com/desertthunder/queued/internal/models"
	"github.com/desertthunder/queued/internal/shared"
)

// Current returns the entry the playhead is on, or false for an empty queue.
func (e *Engine) Current() (models.QueueEntry, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.entries) == 0 {
		return models.QueueEntry{}, false
	}
	return e.entryAtLocked(e.naturalIndexLocked())
}

// Next advances the playhead and returns the new current entry.
//
// Repeat one replays the current entry without moving. At the tail, repeat
// all wraps to the head; repeat off returns false and leaves the playhead
// where it is, so a later repeat-mode change can still resume.
func (e *Engine) Next() (models.QueueEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.entries)
	if n == 0 {
		return models.QueueEntry{}, false
	}

	if e.repeatMode == models.RepeatOne {
		return e.entryAtLocked(e.naturalIndexLocked())
	}

	candidate := e.currentIndex + 1
	if candidate >= n {
		if e.repeatMode != models.RepeatAll {
			return models.QueueEntry{}, false
		}
		candidate = 0
	}

	e.currentIndex = candidate
	return e.entryAtLocked(e.naturalIndexLocked())
}

// Previous steps the playhead back and returns the new current entry.
//
// At the head, repeat all wraps to the tail; otherwise the playhead clamps
// to 0 and the first entry is returned. Unlike Next, Previous never reports
// "no track" for a non-empty queue.
func (e *Engine) Previous() (models.QueueEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.entries)
	if n == 0 {
		return models.QueueEntry{}, false
	}

	candidate := e.currentIndex - 1
	if candidate < 0 {
		if e.repeatMode == models.RepeatAll {
			candidate = n - 1
		} else {
			candidate = 0
		}
	}

	e.currentIndex = candidate
	return e.entryAtLocked(e.naturalIndexLocked())
}

// PlayAt points the playhead at the given index and returns the entry there.
// The index is interpreted in the caller's active space: natural order when
// shuffle is off, shuffle order when it is on.
func (e *Engine) PlayAt(index int) (models.QueueEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.entries) {
		return models.QueueEntry{}, fmt.Errorf("%w: index %d with %d entries", shared.ErrInvalidIndex, index, len(e.entries))
	}

	e.currentIndex = index
	entry, _ := e.entryAtLocked(e.naturalIndexLocked())
	return entry, nil
}

// SetRepeat sets the repeat mode: off, one, or all.
func (e *Engine) SetRepeat(mode string) (models.RepeatMode, error) {
	parsed, err := models.ParseRepeatMode(mode)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.repeatMode = parsed
	return parsed, nil
}

// RepeatMode returns the active repeat mode.
func (e *Engine) RepeatMode() models.RepeatMode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.repeatMode
}
