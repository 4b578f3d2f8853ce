package models

// QueueViewItem pairs a queue entry with its resolved track metadata.
// Track is nil when the catalog no longer knows the referenced id.
type QueueViewItem struct {
	QueueEntry
	Track *Track `json:"track,omitempty"`
}

// QueueView is the full read projection served by getQueue: every entry in
// natural order plus the aggregate state and totals. CurrentIndex is the
// natural position of the playing entry, so it always indexes into Items
// even while shuffle is on.
type QueueView struct {
	Items          []QueueViewItem `json:"items"`
	CurrentIndex   int             `json:"current_index"`
	CurrentTrack   *Track          `json:"current_track"`
	ShuffleEnabled bool            `json:"shuffle_enabled"`
	RepeatMode     RepeatMode      `json:"repeat_mode"`
	TotalTracks    int             `json:"total_tracks"`
	TotalDuration  int             `json:"total_duration"`
}

// NowPlaying is the navigation result: the entry the playhead landed on and
// its track. Both are nil when there is nothing to play (empty queue, or
// next() past the tail with repeat off).
type NowPlaying struct {
	Entry *QueueEntry `json:"entry,omitempty"`
	Track *Track      `json:"track,omitempty"`
}

// CountResult reports how many tracks a bulk add actually enqueued.
type CountResult struct {
	Added int `json:"added"`
}
