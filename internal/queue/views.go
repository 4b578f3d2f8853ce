package queue

import "github.com/desertthunder/queued/internal/models"

// Upcoming returns up to limit entries after the playhead in play order,
// mapping through the shuffle order when one is active. The walk stops at
// the end of the queue; it never wraps, regardless of repeat mode.
func (e *Engine) Upcoming(limit int) []models.QueueEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	n := len(e.entries)
	if n == 0 || limit <= 0 {
		return nil
	}

	end := min(e.currentIndex+1+limit, n)
	out := make([]models.QueueEntry, 0, max(0, end-e.currentIndex-1))
	for i := e.currentIndex + 1; i < end; i++ {
		out = append(out, e.entryInPlayOrderLocked(i))
	}
	return out
}

// History returns up to limit entries before the playhead in play order,
// oldest first.
func (e *Engine) History(limit int) []models.QueueEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.entries) == 0 || limit <= 0 {
		return nil
	}

	start := max(0, e.currentIndex-limit)
	out := make([]models.QueueEntry, 0, max(0, e.currentIndex-start))
	for i := start; i < e.currentIndex; i++ {
		out = append(out, e.entryInPlayOrderLocked(i))
	}
	return out
}

// entryInPlayOrderLocked resolves play-order index i to an entry, mapping
// through the shuffle order when active. i must be in [0, N).
func (e *Engine) entryInPlayOrderLocked(i int) models.QueueEntry {
	if e.shuffleEnabled && i < len(e.shuffleOrder) {
		i = e.shuffleOrder[i]
	}
	return e.entries[i]
}
