package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/queued/internal/models"
	"github.com/desertthunder/queued/internal/shared"
)

// AddTracks appends the given tracks to the end of the queue and returns the
// number actually added. Track ids that do not resolve in the catalog are
// skipped silently; the count distinguishes that from a hard failure.
//
// With clearExisting set, the queue is emptied first. If shuffle is active
// and at least one entry was added, the permutation is regenerated with the
// current track pinned.
func (e *Engine) AddTracks(ctx context.Context, trackIDs []string, sourceType, sourceID string, clearExisting bool) (int, error) {
	resolved, err := e.resolveAll(ctx, trackIDs)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if clearExisting {
		e.entries = nil
		e.currentIndex = 0
		e.shuffleOrder = nil
	}

	return e.appendLocked(resolved, sourceType, sourceID), nil
}

// resolveAll resolves track ids against the catalog, dropping unresolved
// ids. Runs outside the engine lock: catalog calls may block.
func (e *Engine) resolveAll(ctx context.Context, trackIDs []string) ([]string, error) {
	resolved := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		_, err := e.catalog.ResolveTrack(ctx, id)
		if errors.Is(err, shared.ErrTrackNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve track %s: %w", id, err)
		}
		resolved = append(resolved, id)
	}
	return resolved, nil
}

// appendLocked creates entries for the given (already resolved) track ids at
// the tail of the queue and regenerates the shuffle order if one is active.
func (e *Engine) appendLocked(trackIDs []string, sourceType, sourceID string) int {
	if len(trackIDs) == 0 {
		return 0
	}

	for _, id := range trackIDs {
		e.entries = append(e.entries, models.NewQueueEntry(id, len(e.entries), sourceType, sourceID))
	}

	if e.shuffleEnabled {
		e.regenerateLocked(e.naturalIndexLocked())
	}
	return len(trackIDs)
}

// insertLocked places a new entry at the given natural position, shifting
// every entry at or after it up by one. position may equal len(entries),
// which appends.
func (e *Engine) insertLocked(trackID string, position int, sourceType, sourceID string) models.QueueEntry {
	entry := models.NewQueueEntry(trackID, position, sourceType, sourceID)

	e.entries = append(e.entries, models.QueueEntry{})
	copy(e.entries[position+1:], e.entries[position:])
	e.entries[position] = entry
	for i := position + 1; i < len(e.entries); i++ {
		e.entries[i].Position = i
	}
	return entry
}

// Remove deletes the entry with the given id. Returns false if no such
// entry exists. Entries after the removed slot shift down by one.
//
// Playhead adjustment happens in natural space: a removal below the current
// track pulls the pointer down with it; removing the current track leaves
// the pointer on the slot now occupied by what used to be the next track,
// clamped to the new tail. Any removal invalidates an active shuffle order,
// which is regenerated around the adjusted current track.
func (e *Engine) Remove(entryID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	removedPos := -1
	for i, entry := range e.entries {
		if entry.ID == entryID {
			removedPos = i
			break
		}
	}
	if removedPos < 0 {
		return false
	}

	cur := e.naturalIndexLocked()

	e.entries = append(e.entries[:removedPos], e.entries[removedPos+1:]...)
	for i := removedPos; i < len(e.entries); i++ {
		e.entries[i].Position = i
	}

	if removedPos < cur {
		cur--
	} else if removedPos == cur && cur >= len(e.entries) {
		cur = max(0, len(e.entries)-1)
	}

	if e.shuffleEnabled {
		e.regenerateLocked(cur)
	} else {
		e.currentIndex = cur
	}
	return true
}

// Move relocates the entry with the given id to newPosition, shifting the
// interval between its old and new slots by one. The playhead follows the
// same natural-space rules as Remove: it tracks the current entry if that
// entry is the one being moved, and steps aside when an entry crosses it.
func (e *Engine) Move(entryID string, newPosition int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	oldPosition := -1
	for i, entry := range e.entries {
		if entry.ID == entryID {
			oldPosition = i
			break
		}
	}
	if oldPosition < 0 {
		return fmt.Errorf("%w: %s", shared.ErrEntryNotFound, entryID)
	}

	if newPosition < 0 || newPosition >= len(e.entries) {
		return fmt.Errorf("%w: position %d with %d entries", shared.ErrInvalidIndex, newPosition, len(e.entries))
	}

	if oldPosition == newPosition {
		return nil
	}

	cur := e.naturalIndexLocked()

	moved := e.entries[oldPosition]
	e.entries = append(e.entries[:oldPosition], e.entries[oldPosition+1:]...)
	e.entries = append(e.entries, models.QueueEntry{})
	copy(e.entries[newPosition+1:], e.entries[newPosition:])
	e.entries[newPosition] = moved
	for i := range e.entries {
		e.entries[i].Position = i
	}

	if oldPosition == cur {
		cur = newPosition
	} else if oldPosition < cur && newPosition >= cur {
		cur--
	} else if oldPosition > cur && newPosition <= cur {
		cur++
	}

	if e.shuffleEnabled {
		e.regenerateLocked(cur)
	} else {
		e.currentIndex = cur
	}
	return nil
}
