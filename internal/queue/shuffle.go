package queue

import "math/rand/v2"

// SetShuffle toggles shuffle mode.
//
// Enabling generates a fresh permutation with the currently playing entry
// pinned at slot 0, so toggling shuffle never changes what is playing.
// Enabling while already shuffled reshuffles the future order, current
// track still pinned. Disabling drops the permutation and folds the
// playhead back into natural space: the current index becomes the natural
// position the current track occupies, not the stale shuffle-space value.
func (e *Engine) SetShuffle(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if enabled {
		cur := e.naturalIndexLocked()
		e.shuffleEnabled = true
		e.regenerateLocked(cur)
		return
	}

	if !e.shuffleEnabled {
		return
	}

	e.currentIndex = e.naturalIndexLocked()
	e.shuffleEnabled = false
	e.shuffleOrder = nil
}

// ShuffleEnabled reports whether shuffle mode is active.
func (e *Engine) ShuffleEnabled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.shuffleEnabled
}

// regenerateLocked rebuilds the shuffle permutation with the entry at
// natural position cur pinned to slot 0, then parks the playhead there.
// Only the future order changes; the playing track does not.
//
// Callers adjust cur for any position shifts before regenerating. An empty
// queue yields an empty order.
func (e *Engine) regenerateLocked(cur int) {
	n := len(e.entries)
	if n == 0 {
		e.shuffleOrder = nil
		e.currentIndex = 0
		return
	}

	if cur < 0 || cur >= n {
		cur = 0
	}

	rest := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != cur {
			rest = append(rest, i)
		}
	}
	rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	e.shuffleOrder = append([]int{cur}, rest...)
	e.currentIndex = 0
}
