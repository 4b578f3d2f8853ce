// Package models defines domain entities for the queued play queue service.
//
// The package contains two categories of types:
//
// 1. Library catalog DTOs: read-only metadata consumed from the catalog
//   - [Track] : Song metadata (title, artist, album, duration)
//   - [Album] : Album metadata with canonical disc/track ordering
//   - [Artist] : Artist metadata
//   - [Playlist] : Playlist metadata with stored track ordering
//
// 2. Queue aggregate types: owned and mutated by the queue engine
//   - [QueueEntry] : One occupant of a queue slot, referencing a catalog track
//   - [QueueSnapshot] : A consistent copy of the whole aggregate
//   - [RepeatMode] : off | one | all
//
// Natural positions of queue entries are dense: a queue of N entries occupies
// positions 0..N-1 with no gaps or duplicates. The engine maintains that
// invariant; these types just carry the data.
package models
