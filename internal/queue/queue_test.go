package queue

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/desertthunder/queued/internal/models"
	"github.com/desertthunder/queued/internal/shared"
)

// fakeCatalog is an in-memory Catalog for engine tests.
type fakeCatalog struct {
	tracks    map[string]models.Track
	albums    map[string][]string
	playlists map[string][]string
	artists   map[string][]string
}

func (c *fakeCatalog) ResolveTrack(_ context.Context, trackID string) (*models.Track, error) {
	if t, ok := c.tracks[trackID]; ok {
		return &t, nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID)
}

func (c *fakeCatalog) TracksOfAlbum(_ context.Context, albumID string) ([]string, error) {
	if ids, ok := c.albums[albumID]; ok {
		return ids, nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, albumID)
}

func (c *fakeCatalog) TracksOfPlaylist(_ context.Context, playlistID string) ([]string, error) {
	if ids, ok := c.playlists[playlistID]; ok {
		return ids, nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
}

func (c *fakeCatalog) TracksOfArtist(_ context.Context, artistID string) ([]string, error) {
	if ids, ok := c.artists[artistID]; ok {
		return ids, nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrArtistNotFound, artistID)
}

// newTestEngine builds an engine over a catalog holding tracks t1..tn.
func newTestEngine(t *testing.T, n int) (*Engine, *fakeCatalog) {
	t.Helper()

	catalog := &fakeCatalog{
		tracks:    map[string]models.Track{},
		albums:    map[string][]string{},
		playlists: map[string][]string{},
		artists:   map[string][]string{},
	}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("t%d", i)
		catalog.tracks[id] = models.Track{ID: id, Title: "Track " + id, Duration: 100 + i}
	}
	return New(catalog), catalog
}

// fill enqueues tracks t1..tn and fails the test on any error.
func fill(t *testing.T, e *Engine, n int) {
	t.Helper()

	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, fmt.Sprintf("t%d", i))
	}
	added, err := e.AddTracks(context.Background(), ids, models.SourceManual, "", false)
	if err != nil {
		t.Fatalf("failed to add tracks: %v", err)
	}
	if added != n {
		t.Fatalf("expected %d tracks added, got %d", n, added)
	}
}

// checkInvariants validates density and (when shuffled) the permutation.
func checkInvariants(t *testing.T, e *Engine) {
	t.Helper()

	s := e.Snapshot()
	if err := s.Validate(); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
	for i, entry := range s.Entries {
		if entry.Position != i {
			t.Fatalf("entry at slot %d has position %d", i, entry.Position)
		}
	}
}

func currentTrackID(t *testing.T, e *Engine) string {
	t.Helper()

	entry, ok := e.Current()
	if !ok {
		t.Fatal("expected a current track")
	}
	return entry.TrackID
}

func TestAddTracks(t *testing.T) {
	t.Run("first add makes first track current", func(t *testing.T) {
		// Scenario: three tracks onto an empty queue.
		e, _ := newTestEngine(t, 3)
		fill(t, e, 3)

		s := e.Snapshot()
		if s.CurrentIndex != 0 {
			t.Errorf("expected current index 0, got %d", s.CurrentIndex)
		}
		if got := currentTrackID(t, e); got != "t1" {
			t.Errorf("expected current track t1, got %s", got)
		}
		checkInvariants(t, e)
	})

	t.Run("unknown ids are skipped not errors", func(t *testing.T) {
		e, _ := newTestEngine(t, 2)

		added, err := e.AddTracks(context.Background(), []string{"t1", "ghost", "t2"}, models.SourceManual, "", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if added != 2 {
			t.Errorf("expected 2 added, got %d", added)
		}
		if e.Len() != 2 {
			t.Errorf("expected 2 entries, got %d", e.Len())
		}
	})

	t.Run("clear existing replaces the queue", func(t *testing.T) {
		e, _ := newTestEngine(t, 3)
		fill(t, e, 2)
		if _, err := e.PlayAt(1); err != nil {
			t.Fatalf("failed to play index 1: %v", err)
		}

		added, err := e.AddTracks(context.Background(), []string{"t3"}, models.SourceManual, "", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if added != 1 || e.Len() != 1 {
			t.Errorf("expected queue of 1, got added=%d len=%d", added, e.Len())
		}
		if got := currentTrackID(t, e); got != "t3" {
			t.Errorf("expected current track t3, got %s", got)
		}
		checkInvariants(t, e)
	})

	t.Run("provenance is recorded", func(t *testing.T) {
		e, _ := newTestEngine(t, 1)
		if _, err := e.AddTracks(context.Background(), []string{"t1"}, models.SourceAlbum, "al1", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		s := e.Snapshot()
		if s.Entries[0].SourceType != models.SourceAlbum || s.Entries[0].SourceID != "al1" {
			t.Errorf("expected album provenance, got %s/%s", s.Entries[0].SourceType, s.Entries[0].SourceID)
		}
	})
}

func TestRemove(t *testing.T) {
	t.Run("unknown entry returns false", func(t *testing.T) {
		e, _ := newTestEngine(t, 2)
		fill(t, e, 2)
		if e.Remove("nope") {
			t.Error("expected false for unknown entry")
		}
	})

	t.Run("removal below current pulls index down", func(t *testing.T) {
		e, _ := newTestEngine(t, 3)
		fill(t, e, 3)
		if _, err := e.PlayAt(2); err != nil {
			t.Fatal(err)
		}

		s := e.Snapshot()
		if !e.Remove(s.Entries[0].ID) {
			t.Fatal("remove failed")
		}

		s = e.Snapshot()
		if s.CurrentIndex != 1 {
			t.Errorf("expected current index 1, got %d", s.CurrentIndex)
		}
		if got := currentTrackID(t, e); got != "t3" {
			t.Errorf("expected current track t3, got %s", got)
		}
		checkInvariants(t, e)
	})

	t.Run("removing current stays on next track", func(t *testing.T) {
		e, _ := newTestEngine(t, 3)
		fill(t, e, 3)
		if _, err := e.PlayAt(1); err != nil {
			t.Fatal(err)
		}

		s := e.Snapshot()
		if !e.Remove(s.Entries[1].ID) {
			t.Fatal("remove failed")
		}

		s = e.Snapshot()
		if s.CurrentIndex != 1 {
			t.Errorf("expected current index 1, got %d", s.CurrentIndex)
		}
		if got := currentTrackID(t, e); got != "t3" {
			t.Errorf("expected current track t3, got %s", got)
		}
	})

	t.Run("removing current at tail clamps", func(t *testing.T) {
		e, _ := newTestEngine(t, 3)
		fill(t, e, 3)
		if _, err := e.PlayAt(2); err != nil {
			t.Fatal(err)
		}

		s := e.Snapshot()
		if !e.Remove(s.Entries[2].ID) {
			t.Fatal("remove failed")
		}

		s = e.Snapshot()
		if s.CurrentIndex != 1 {
			t.Errorf("expected clamped index 1, got %d", s.CurrentIndex)
		}
		checkInvariants(t, e)
	})

	t.Run("removing last entry empties cleanly", func(t *testing.T) {
		e, _ := newTestEngine(t, 1)
		fill(t, e, 1)

		s := e.Snapshot()
		if !e.Remove(s.Entries[0].ID) {
			t.Fatal("remove failed")
		}
		if e.Len() != 0 {
			t.Errorf("expected empty queue, got %d", e.Len())
		}
		if _, ok := e.Current(); ok {
			t.Error("empty queue should have no current track")
		}
		if s := e.Snapshot(); s.CurrentIndex != 0 {
			t.Errorf("expected current index reset to 0, got %d", s.CurrentIndex)
		}
	})
}

func TestMove(t *testing.T) {
	t.Run("moving the current entry carries the playhead", func(t *testing.T) {
		// Scenario: [A,B,C] with C playing; move C to the front.
		e, _ := newTestEngine(t, 3)
		fill(t, e, 3)
		if _, err := e.PlayAt(2); err != nil {
			t.Fatal(err)
		}

		s := e.Snapshot()
		if err := e.Move(s.Entries[2].ID, 0); err != nil {
			t.Fatalf("move failed: %v", err)
		}

		s = e.Snapshot()
		if s.CurrentIndex != 0 {
			t.Errorf("expected current index 0, got %d", s.CurrentIndex)
		}
		want := []string{"t3", "t1", "t2"}
		for i, w := range want {
			if s.Entries[i].TrackID != w {
				t.Errorf("slot %d: expected %s, got %s", i, w, s.Entries[i].TrackID)
			}
		}
		checkInvariants(t, e)
	})

	t.Run("entry crossing the playhead from below increments it back", func(t *testing.T) {
		e, _ := newTestEngine(t, 4)
		fill(t, e, 4)
		if _, err := e.PlayAt(2); err != nil {
			t.Fatal(err)
		}

		s := e.Snapshot()
		if err := e.Move(s.Entries[0].ID, 3); err != nil {
			t.Fatalf("move failed: %v", err)
		}

		s = e.Snapshot()
		if s.CurrentIndex != 1 {
			t.Errorf("expected current index 1, got %d", s.CurrentIndex)
		}
		if got := currentTrackID(t, e); got != "t3" {
			t.Errorf("current track should still be t3, got %s", got)
		}
	})

	t.Run("entry crossing the playhead from above increments it", func(t *testing.T) {
		e, _ := newTestEngine(t, 4)
		fill(t, e, 4)
		if _, err := e.PlayAt(1); err != nil {
			t.Fatal(err)
		}

		s := e.Snapshot()
		if err := e.Move(s.Entries[3].ID, 0); err != nil {
			t.Fatalf("move failed: %v", err)
		}

		s = e.Snapshot()
		if s.CurrentIndex != 2 {
			t.Errorf("expected current index 2, got %d", s.CurrentIndex)
		}
		if got := currentTrackID(t, e); got != "t2" {
			t.Errorf("current track should still be t2, got %s", got)
		}
		checkInvariants(t, e)
	})

	t.Run("invalid target position", func(t *testing.T) {
		e, _ := newTestEngine(t, 2)
		fill(t, e, 2)
		s := e.Snapshot()

		if err := e.Move(s.Entries[0].ID, 2); !errors.Is(err, shared.ErrInvalidIndex) {
			t.Errorf("expected ErrInvalidIndex, got %v", err)
		}
		if err := e.Move(s.Entries[0].ID, -1); !errors.Is(err, shared.ErrInvalidIndex) {
			t.Errorf("expected ErrInvalidIndex, got %v", err)
		}
	})

	t.Run("unknown entry", func(t *testing.T) {
		e, _ := newTestEngine(t, 2)
		fill(t, e, 2)
		if err := e.Move("nope", 0); !errors.Is(err, shared.ErrEntryNotFound) {
			t.Errorf("expected ErrEntryNotFound, got %v", err)
		}
	})
}

func TestNavigator(t *testing.T) {
	t.Run("empty queue", func(t *testing.T) {
		e, _ := newTestEngine(t, 0)

		if _, ok := e.Next(); ok {
			t.Error("next on empty queue should return nothing")
		}
		if _, ok := e.Previous(); ok {
			t.Error("previous on empty queue should return nothing")
		}
		if _, ok := e.Current(); ok {
			t.Error("current on empty queue should return nothing")
		}
	})

	t.Run("next at tail with repeat off stays put", func(t *testing.T) {
		// Scenario: [t1,t2,t3] at index 2, repeat off.
		e, _ := newTestEngine(t, 3)
		fill(t, e, 3)
		if _, err := e.PlayAt(2); err != nil {
			t.Fatal(err)
		}

		if _, ok := e.Next(); ok {
			t.Error("next at tail with repeat off should return nothing")
		}
		if s := e.Snapshot(); s.CurrentIndex != 2 {
			t.Errorf("current index should stay 2, got %d", s.CurrentIndex)
		}
	})

	t.Run("next wraps with repeat all", func(t *testing.T) {
		e, _ := newTestEngine(t, 2)
		fill(t, e, 2)
		if _, err := e.SetRepeat("all"); err != nil {
			t.Fatal(err)
		}
		if _, err := e.PlayAt(1); err != nil {
			t.Fatal(err)
		}

		entry, ok := e.Next()
		if !ok || entry.TrackID != "t1" {
			t.Errorf("expected wrap to t1, got %+v ok=%v", entry, ok)
		}
	})

	t.Run("repeat one replays without moving", func(t *testing.T) {
		e, _ := newTestEngine(t, 3)
		fill(t, e, 3)
		if _, err := e.SetRepeat("one"); err != nil {
			t.Fatal(err)
		}
		if _, err := e.PlayAt(1); err != nil {
			t.Fatal(err)
		}

		for range 3 {
			entry, ok := e.Next()
			if !ok || entry.TrackID != "t2" {
				t.Fatalf("repeat one should stay on t2, got %+v ok=%v", entry, ok)
			}
		}
		if s := e.Snapshot(); s.CurrentIndex != 1 {
			t.Errorf("current index should stay 1, got %d", s.CurrentIndex)
		}
	})

	t.Run("previous clamps to zero with repeat off", func(t *testing.T) {
		e, _ := newTestEngine(t, 3)
		fill(t, e, 3)

		entry, ok := e.Previous()
		if !ok {
			t.Fatal("previous on a non-empty queue must return a track")
		}
		if entry.TrackID != "t1" {
			t.Errorf("expected clamp onto t1, got %s", entry.TrackID)
		}
		if s := e.Snapshot(); s.CurrentIndex != 0 {
			t.Errorf("current index should clamp to 0, got %d", s.CurrentIndex)
		}
	})

	t.Run("previous wraps with repeat all", func(t *testing.T) {
		// Scenario: [t1,t2] at index 0, repeat all.
		e, _ := newTestEngine(t, 2)
		fill(t, e, 2)
		if _, err := e.SetRepeat("all"); err != nil {
			t.Fatal(err)
		}

		entry, ok := e.Previous()
		if !ok || entry.TrackID != "t2" {
			t.Errorf("expected wrap to t2, got %+v ok=%v", entry, ok)
		}
		if s := e.Snapshot(); s.CurrentIndex != 1 {
			t.Errorf("expected current index 1, got %d", s.CurrentIndex)
		}
	})

	t.Run("next then previous walks the queue", func(t *testing.T) {
		e, _ := newTestEngine(t, 3)
		fill(t, e, 3)

		if entry, _ := e.Next(); entry.TrackID != "t2" {
			t.Errorf("expected t2, got %s", entry.TrackID)
		}
		if entry, _ := e.Next(); entry.TrackID != "t3" {
			t.Errorf("expected t3, got %s", entry.TrackID)
		}
		if entry, _ := e.Previous(); entry.TrackID != "t2" {
			t.Errorf("expected t2, got %s", entry.TrackID)
		}
	})

	t.Run("play at validates bounds", func(t *testing.T) {
		e, _ := newTestEngine(t, 2)
		fill(t, e, 2)

		if _, err := e.PlayAt(2); !errors.Is(err, shared.ErrInvalidIndex) {
			t.Errorf("expected ErrInvalidIndex, got %v", err)
		}
		if _, err := e.PlayAt(-1); !errors.Is(err, shared.ErrInvalidIndex) {
			t.Errorf("expected ErrInvalidIndex, got %v", err)
		}
	})

	t.Run("set repeat rejects malformed modes", func(t *testing.T) {
		e, _ := newTestEngine(t, 0)
		if _, err := e.SetRepeat("loop"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestShuffle(t *testing.T) {
	t.Run("enabling pins the current track at slot zero", func(t *testing.T) {
		// Scenario: [t1,t2,t3] with t2 playing.
		e, _ := newTestEngine(t, 3)
		fill(t, e, 3)
		if _, err := e.PlayAt(1); err != nil {
			t.Fatal(err)
		}

		e.SetShuffle(true)

		s := e.Snapshot()
		if s.CurrentIndex != 0 {
			t.Errorf("expected current index 0, got %d", s.CurrentIndex)
		}
		if s.ShuffleOrder[0] != 1 {
			t.Errorf("expected shuffle order to start at natural position 1, got %d", s.ShuffleOrder[0])
		}
		if got := currentTrackID(t, e); got != "t2" {
			t.Errorf("current track must remain t2, got %s", got)
		}
		checkInvariants(t, e)
	})

	t.Run("disable folds the playhead back to natural space", func(t *testing.T) {
		e, _ := newTestEngine(t, 5)
		fill(t, e, 5)
		if _, err := e.PlayAt(3); err != nil {
			t.Fatal(err)
		}

		e.SetShuffle(true)
		before := currentTrackID(t, e)

		e.SetShuffle(false)

		s := e.Snapshot()
		if s.ShuffleOrder != nil {
			t.Error("shuffle order should be cleared")
		}
		if got := currentTrackID(t, e); got != before {
			t.Errorf("current track changed across disable: %s -> %s", before, got)
		}
		if s.CurrentIndex != 3 {
			t.Errorf("expected natural index 3, got %d", s.CurrentIndex)
		}
	})

	t.Run("disable then enable still pins the same track", func(t *testing.T) {
		e, _ := newTestEngine(t, 6)
		fill(t, e, 6)
		if _, err := e.PlayAt(4); err != nil {
			t.Fatal(err)
		}

		e.SetShuffle(true)
		want := currentTrackID(t, e)
		e.SetShuffle(false)
		e.SetShuffle(true)

		if got := currentTrackID(t, e); got != want {
			t.Errorf("current track changed across toggle: %s -> %s", want, got)
		}
		checkInvariants(t, e)
	})

	t.Run("repeated enable reshuffles the future order", func(t *testing.T) {
		e, _ := newTestEngine(t, 8)
		fill(t, e, 8)
		if _, err := e.PlayAt(5); err != nil {
			t.Fatal(err)
		}

		e.SetShuffle(true)
		want := currentTrackID(t, e)
		before := e.Snapshot().ShuffleOrder

		// The draw is random, so allow a few tries before declaring the
		// permutation stuck.
		changed := false
		for range 10 {
			e.SetShuffle(true)
			checkInvariants(t, e)
			if got := currentTrackID(t, e); got != want {
				t.Fatalf("re-enable changed current track: %s -> %s", want, got)
			}
			if !slices.Equal(e.Snapshot().ShuffleOrder, before) {
				changed = true
				break
			}
		}
		if !changed {
			t.Error("re-enabling shuffle never produced a fresh permutation")
		}
	})

	t.Run("mutations while shuffled keep the current track", func(t *testing.T) {
		e, _ := newTestEngine(t, 8)
		fill(t, e, 5)
		if _, err := e.PlayAt(2); err != nil {
			t.Fatal(err)
		}
		e.SetShuffle(true)
		want := currentTrackID(t, e)

		if _, err := e.AddTracks(context.Background(), []string{"t6", "t7"}, models.SourceManual, "", false); err != nil {
			t.Fatal(err)
		}
		if got := currentTrackID(t, e); got != want {
			t.Fatalf("append changed current track: %s -> %s", want, got)
		}
		checkInvariants(t, e)

		s := e.Snapshot()
		var victim models.QueueEntry
		for _, entry := range s.Entries {
			if entry.TrackID != want {
				victim = entry
				break
			}
		}
		if !e.Remove(victim.ID) {
			t.Fatal("remove failed")
		}
		if got := currentTrackID(t, e); got != want {
			t.Fatalf("remove changed current track: %s -> %s", want, got)
		}
		checkInvariants(t, e)

		s = e.Snapshot()
		for _, entry := range s.Entries {
			if entry.TrackID != want {
				victim = entry
				break
			}
		}
		if err := e.Move(victim.ID, 0); err != nil {
			t.Fatal(err)
		}
		if got := currentTrackID(t, e); got != want {
			t.Fatalf("move changed current track: %s -> %s", want, got)
		}
		checkInvariants(t, e)
	})

	t.Run("removing the shuffled current track regenerates cleanly", func(t *testing.T) {
		e, _ := newTestEngine(t, 4)
		fill(t, e, 4)
		if _, err := e.PlayAt(1); err != nil {
			t.Fatal(err)
		}
		e.SetShuffle(true)

		cur, _ := e.Current()
		if !e.Remove(cur.ID) {
			t.Fatal("remove failed")
		}
		checkInvariants(t, e)
		if e.Len() != 3 {
			t.Errorf("expected 3 entries, got %d", e.Len())
		}
		if _, ok := e.Current(); !ok {
			t.Error("expected a current track after removing the playing entry")
		}
	})

	t.Run("navigation under shuffle walks the permutation", func(t *testing.T) {
		e, _ := newTestEngine(t, 4)
		fill(t, e, 4)
		e.SetShuffle(true)

		s := e.Snapshot()
		seen := []string{currentTrackID(t, e)}
		for range 3 {
			entry, ok := e.Next()
			if !ok {
				t.Fatal("expected next track")
			}
			seen = append(seen, entry.TrackID)
		}

		// The walk must visit every track exactly once, in permutation order.
		uniq := map[string]bool{}
		for i, id := range seen {
			uniq[id] = true
			wantNat := s.ShuffleOrder[i]
			if s.Entries[wantNat].TrackID != id {
				t.Errorf("step %d: expected %s, got %s", i, s.Entries[wantNat].TrackID, id)
			}
		}
		if len(uniq) != 4 {
			t.Errorf("walk visited %d unique tracks, want 4", len(uniq))
		}

		if _, ok := e.Next(); ok {
			t.Error("next past the end of the permutation with repeat off should return nothing")
		}
	})

	t.Run("enable on empty queue is a no-op", func(t *testing.T) {
		e, _ := newTestEngine(t, 0)
		e.SetShuffle(true)

		s := e.Snapshot()
		if len(s.ShuffleOrder) != 0 {
			t.Errorf("expected empty shuffle order, got %v", s.ShuffleOrder)
		}
		if !s.ShuffleEnabled {
			t.Error("shuffle flag should still be set")
		}
	})
}

func TestDensityUnderOperationSequences(t *testing.T) {
	e, _ := newTestEngine(t, 9)
	fill(t, e, 6)
	ctx := context.Background()

	if _, err := e.InsertAt(ctx, "t7", 3, models.SourceManual); err != nil {
		t.Fatal(err)
	}
	checkInvariants(t, e)

	s := e.Snapshot()
	if !e.Remove(s.Entries[5].ID) {
		t.Fatal("remove failed")
	}
	checkInvariants(t, e)

	s = e.Snapshot()
	if err := e.Move(s.Entries[1].ID, 4); err != nil {
		t.Fatal(err)
	}
	checkInvariants(t, e)

	if _, err := e.PlayNext(ctx, "t8"); err != nil {
		t.Fatal(err)
	}
	checkInvariants(t, e)

	if _, err := e.Enqueue(ctx, "t9"); err != nil {
		t.Fatal(err)
	}
	checkInvariants(t, e)

	e.SetShuffle(true)
	checkInvariants(t, e)

	s = e.Snapshot()
	if !e.Remove(s.Entries[2].ID) {
		t.Fatal("remove failed")
	}
	checkInvariants(t, e)

	e.SetShuffle(false)
	checkInvariants(t, e)
}

func TestPlayNext(t *testing.T) {
	t.Run("inserts after the current entry", func(t *testing.T) {
		e, _ := newTestEngine(t, 4)
		fill(t, e, 3)
		if _, err := e.PlayAt(1); err != nil {
			t.Fatal(err)
		}

		entry, err := e.PlayNext(context.Background(), "t4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entry.Position != 2 {
			t.Errorf("expected position 2, got %d", entry.Position)
		}

		s := e.Snapshot()
		want := []string{"t1", "t2", "t4", "t3"}
		for i, w := range want {
			if s.Entries[i].TrackID != w {
				t.Errorf("slot %d: expected %s, got %s", i, w, s.Entries[i].TrackID)
			}
		}
		if got := currentTrackID(t, e); got != "t2" {
			t.Errorf("current track should remain t2, got %s", got)
		}
		checkInvariants(t, e)
	})

	t.Run("under shuffle the insertion point is natural-order adjacent", func(t *testing.T) {
		e, _ := newTestEngine(t, 6)
		fill(t, e, 5)
		if _, err := e.PlayAt(2); err != nil {
			t.Fatal(err)
		}
		e.SetShuffle(true)
		want := currentTrackID(t, e)

		entry, err := e.PlayNext(context.Background(), "t6")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		s := e.Snapshot()
		// Find the natural position of the playing track; the new entry
		// must sit directly after it in natural order.
		curNat := -1
		for _, en := range s.Entries {
			if en.TrackID == want {
				curNat = en.Position
				break
			}
		}
		if entry.Position != curNat+1 {
			t.Errorf("expected insertion at natural position %d, got %d", curNat+1, entry.Position)
		}
		if got := currentTrackID(t, e); got != want {
			t.Errorf("current track changed: %s -> %s", want, got)
		}
		checkInvariants(t, e)
	})

	t.Run("empty queue makes the new track current", func(t *testing.T) {
		e, _ := newTestEngine(t, 1)

		entry, err := e.PlayNext(context.Background(), "t1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entry.Position != 0 {
			t.Errorf("expected position 0, got %d", entry.Position)
		}
		if got := currentTrackID(t, e); got != "t1" {
			t.Errorf("expected current track t1, got %s", got)
		}
	})

	t.Run("unknown track", func(t *testing.T) {
		e, _ := newTestEngine(t, 1)
		if _, err := e.PlayNext(context.Background(), "ghost"); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})
}

func TestEnqueue(t *testing.T) {
	e, _ := newTestEngine(t, 3)
	fill(t, e, 2)

	entry, err := e.Enqueue(context.Background(), "t3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Position != 2 {
		t.Errorf("expected position 2, got %d", entry.Position)
	}
	if entry.SourceType != models.SourceManual {
		t.Errorf("expected manual provenance, got %s", entry.SourceType)
	}

	if _, err := e.Enqueue(context.Background(), "ghost"); !errors.Is(err, shared.ErrTrackNotFound) {
		t.Errorf("expected ErrTrackNotFound, got %v", err)
	}
}

func TestInsertAt(t *testing.T) {
	t.Run("insertion below the playhead shifts it", func(t *testing.T) {
		e, _ := newTestEngine(t, 4)
		fill(t, e, 3)
		if _, err := e.PlayAt(1); err != nil {
			t.Fatal(err)
		}

		if _, err := e.InsertAt(context.Background(), "t4", 0, models.SourceManual); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := currentTrackID(t, e); got != "t2" {
			t.Errorf("current track should remain t2, got %s", got)
		}
		if s := e.Snapshot(); s.CurrentIndex != 2 {
			t.Errorf("expected current index 2, got %d", s.CurrentIndex)
		}
		checkInvariants(t, e)
	})

	t.Run("bounds", func(t *testing.T) {
		e, _ := newTestEngine(t, 2)
		fill(t, e, 1)

		if _, err := e.InsertAt(context.Background(), "t2", 5, models.SourceManual); !errors.Is(err, shared.ErrInvalidIndex) {
			t.Errorf("expected ErrInvalidIndex, got %v", err)
		}
		if _, err := e.InsertAt(context.Background(), "t2", 1, models.SourceManual); err != nil {
			t.Errorf("insert at tail should be allowed: %v", err)
		}
	})
}

func TestViews(t *testing.T) {
	t.Run("empty queue yields empty views", func(t *testing.T) {
		e, _ := newTestEngine(t, 0)
		if got := e.Upcoming(5); len(got) != 0 {
			t.Errorf("expected no upcoming, got %d", len(got))
		}
		if got := e.History(5); len(got) != 0 {
			t.Errorf("expected no history, got %d", len(got))
		}
	})

	t.Run("natural order windows", func(t *testing.T) {
		e, _ := newTestEngine(t, 5)
		fill(t, e, 5)
		if _, err := e.PlayAt(2); err != nil {
			t.Fatal(err)
		}

		up := e.Upcoming(10)
		if len(up) != 2 || up[0].TrackID != "t4" || up[1].TrackID != "t5" {
			t.Errorf("unexpected upcoming window: %+v", up)
		}

		hist := e.History(10)
		if len(hist) != 2 || hist[0].TrackID != "t1" || hist[1].TrackID != "t2" {
			t.Errorf("unexpected history window: %+v", hist)
		}

		if got := e.Upcoming(1); len(got) != 1 || got[0].TrackID != "t4" {
			t.Errorf("limit not applied to upcoming: %+v", got)
		}
		if got := e.History(1); len(got) != 1 || got[0].TrackID != "t2" {
			t.Errorf("history should keep the window adjacent to the playhead: %+v", got)
		}
	})

	t.Run("shuffle windows follow the permutation", func(t *testing.T) {
		e, _ := newTestEngine(t, 5)
		fill(t, e, 5)
		e.SetShuffle(true)

		s := e.Snapshot()
		up := e.Upcoming(10)
		if len(up) != 4 {
			t.Fatalf("expected 4 upcoming, got %d", len(up))
		}
		for i, entry := range up {
			wantNat := s.ShuffleOrder[i+1]
			if entry.Position != wantNat {
				t.Errorf("upcoming[%d]: expected natural position %d, got %d", i, wantNat, entry.Position)
			}
		}

		// Advance two steps; history must mirror the permutation prefix.
		e.Next()
		e.Next()
		hist := e.History(10)
		if len(hist) != 2 {
			t.Fatalf("expected 2 history entries, got %d", len(hist))
		}
		for i, entry := range hist {
			wantNat := s.ShuffleOrder[i]
			if entry.Position != wantNat {
				t.Errorf("history[%d]: expected natural position %d, got %d", i, wantNat, entry.Position)
			}
		}
	})

	t.Run("views do not mutate state", func(t *testing.T) {
		e, _ := newTestEngine(t, 3)
		fill(t, e, 3)
		before := e.Snapshot()

		e.Upcoming(10)
		e.History(10)

		after := e.Snapshot()
		if before.CurrentIndex != after.CurrentIndex || len(before.Entries) != len(after.Entries) {
			t.Error("views mutated the aggregate")
		}
	})
}

func TestPopulate(t *testing.T) {
	newCatalogEngine := func(t *testing.T) *Engine {
		t.Helper()
		e, c := newTestEngine(t, 6)
		c.albums["al1"] = []string{"t1", "t2", "t3"}
		c.playlists["pl1"] = []string{"t3", "t1"}
		c.artists["ar1"] = []string{"t4", "t5", "t6"}
		return e
	}

	t.Run("album order is preserved", func(t *testing.T) {
		e := newCatalogEngine(t)
		added, err := e.AddAlbum(context.Background(), "al1", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if added != 3 {
			t.Errorf("expected 3 added, got %d", added)
		}

		s := e.Snapshot()
		for i, want := range []string{"t1", "t2", "t3"} {
			if s.Entries[i].TrackID != want {
				t.Errorf("slot %d: expected %s, got %s", i, want, s.Entries[i].TrackID)
			}
			if s.Entries[i].SourceType != models.SourceAlbum || s.Entries[i].SourceID != "al1" {
				t.Errorf("slot %d: missing album provenance", i)
			}
		}
	})

	t.Run("playlist stored order", func(t *testing.T) {
		e := newCatalogEngine(t)
		if _, err := e.AddPlaylist(context.Background(), "pl1", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		s := e.Snapshot()
		if s.Entries[0].TrackID != "t3" || s.Entries[1].TrackID != "t1" {
			t.Errorf("playlist order not preserved: %+v", s.Entries)
		}
	})

	t.Run("artist with clear replaces queue", func(t *testing.T) {
		e := newCatalogEngine(t)
		if _, err := e.AddAlbum(context.Background(), "al1", false); err != nil {
			t.Fatal(err)
		}
		added, err := e.AddArtist(context.Background(), "ar1", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if added != 3 || e.Len() != 3 {
			t.Errorf("expected replaced queue of 3, got added=%d len=%d", added, e.Len())
		}
		if got := currentTrackID(t, e); got != "t4" {
			t.Errorf("expected current track t4, got %s", got)
		}
	})

	t.Run("unknown collection ids", func(t *testing.T) {
		e := newCatalogEngine(t)
		if _, err := e.AddAlbum(context.Background(), "nope", false); !errors.Is(err, shared.ErrAlbumNotFound) {
			t.Errorf("expected ErrAlbumNotFound, got %v", err)
		}
		if _, err := e.AddPlaylist(context.Background(), "nope", false); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
		if _, err := e.AddArtist(context.Background(), "nope", false); !errors.Is(err, shared.ErrArtistNotFound) {
			t.Errorf("expected ErrArtistNotFound, got %v", err)
		}
	})
}

func TestSnapshotRestore(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		e, catalog := newTestEngine(t, 4)
		fill(t, e, 4)
		if _, err := e.PlayAt(2); err != nil {
			t.Fatal(err)
		}
		e.SetShuffle(true)
		if _, err := e.SetRepeat("all"); err != nil {
			t.Fatal(err)
		}

		s := e.Snapshot()

		restored := New(catalog)
		if err := restored.Restore(s); err != nil {
			t.Fatalf("restore failed: %v", err)
		}

		got := restored.Snapshot()
		if got.CurrentIndex != s.CurrentIndex || got.ShuffleEnabled != s.ShuffleEnabled || got.RepeatMode != s.RepeatMode {
			t.Errorf("state mismatch after restore: %+v vs %+v", got, s)
		}
		if currentTrackID(t, restored) != currentTrackID(t, e) {
			t.Error("current track differs after restore")
		}
		checkInvariants(t, restored)
	})

	t.Run("invalid snapshot is rejected", func(t *testing.T) {
		e, _ := newTestEngine(t, 1)
		bad := models.QueueSnapshot{
			Entries:    []models.QueueEntry{models.NewQueueEntry("t1", 5, models.SourceManual, "")},
			RepeatMode: models.RepeatOff,
		}
		if err := e.Restore(bad); err == nil {
			t.Error("expected validation error")
		}
		if e.Len() != 0 {
			t.Error("failed restore must leave the engine untouched")
		}
	})
}

func TestConcurrentAccess(t *testing.T) {
	e, _ := newTestEngine(t, 30)
	fill(t, e, 10)

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range 25 {
				switch (w + i) % 5 {
				case 0:
					e.Next()
				case 1:
					e.Previous()
				case 2:
					e.SetShuffle(i%2 == 0)
				case 3:
					e.Upcoming(5)
				case 4:
					id := fmt.Sprintf("t%d", 10+(w*25+i)%20+1)
					e.Enqueue(context.Background(), id)
				}
			}
		}(w)
	}
	wg.Wait()

	checkInvariants(t, e)
}
