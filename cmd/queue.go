package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/queued/internal/formatter"
	"github.com/desertthunder/queued/internal/models"
	"github.com/desertthunder/queued/internal/shared"
	"github.com/urfave/cli/v3"
)

// QueueShow displays the queue in natural order with the playhead marked.
func (r *Runner) QueueShow(ctx context.Context, cmd *cli.Command) error {
	view, err := r.client.GetQueue(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch queue: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, cmd.Bool("pretty"))
	}

	r.writePlain("Queue: %d tracks (%s) • shuffle %s • repeat %s\n\n",
		view.TotalTracks,
		shared.FormatDuration(view.TotalDuration),
		onOff(view.ShuffleEnabled),
		view.RepeatMode,
	)

	for i, item := range view.Items {
		marker := "  "
		if i == view.CurrentIndex && view.TotalTracks > 0 {
			marker = "▶ "
		}
		r.writePlain("%s%3d. %s\n", marker, i+1, itemLabel(item))
	}

	return nil
}

// QueueAdd appends the given track ids to the queue.
func (r *Runner) QueueAdd(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one track id is required", shared.ErrMissingArgument)
	}

	added, err := r.client.AddTracks(ctx, ids, cmd.Bool("clear"))
	if err != nil {
		return fmt.Errorf("failed to add tracks: %w", err)
	}

	return r.writePlain("✓ Added %d tracks to the queue\n", added)
}

// QueueAddAlbum enqueues an album in disc/track order.
func (r *Runner) QueueAddAlbum(ctx context.Context, cmd *cli.Command) error {
	return r.addCollection(ctx, cmd, "album", r.client.AddAlbum)
}

// QueueAddPlaylist enqueues a playlist in playlist order.
func (r *Runner) QueueAddPlaylist(ctx context.Context, cmd *cli.Command) error {
	return r.addCollection(ctx, cmd, "playlist", r.client.AddPlaylist)
}

// QueueAddArtist enqueues an artist's catalog.
func (r *Runner) QueueAddArtist(ctx context.Context, cmd *cli.Command) error {
	return r.addCollection(ctx, cmd, "artist", r.client.AddArtist)
}

func (r *Runner) addCollection(ctx context.Context, cmd *cli.Command, kind string, add func(context.Context, string, bool) (int, error)) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: %s id is required", shared.ErrMissingArgument, kind)
	}

	added, err := add(ctx, id, cmd.Bool("clear"))
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", kind, err)
	}

	return r.writePlain("✓ Added %d tracks from %s %s\n", added, kind, id)
}

// QueueRemove deletes a queue entry by its id.
func (r *Runner) QueueRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: entry id is required", shared.ErrMissingArgument)
	}

	if err := r.client.RemoveEntry(ctx, id); err != nil {
		return fmt.Errorf("failed to remove entry: %w", err)
	}

	return r.writePlain("✓ Removed entry %s\n", id)
}

// QueueMove relocates a queue entry to a new position.
func (r *Runner) QueueMove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: entry id is required", shared.ErrMissingArgument)
	}

	position := cmd.Int("position")
	if err := r.client.MoveEntry(ctx, id, position); err != nil {
		return fmt.Errorf("failed to move entry: %w", err)
	}

	return r.writePlain("✓ Moved entry %s to position %d\n", id, position)
}

// QueueClear removes every entry from the queue.
func (r *Runner) QueueClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.ClearQueue(ctx); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}

	return r.writePlain("✓ Queue cleared\n")
}

// QueuePlay jumps the playhead to a play-order index.
func (r *Runner) QueuePlay(ctx context.Context, cmd *cli.Command) error {
	now, err := r.client.PlayIndex(ctx, cmd.Int("index"))
	if err != nil {
		return fmt.Errorf("failed to jump playhead: %w", err)
	}

	return r.writeNowPlaying(now)
}

// QueueNext advances the playhead.
func (r *Runner) QueueNext(ctx context.Context, cmd *cli.Command) error {
	now, err := r.client.Next(ctx)
	if err != nil {
		return fmt.Errorf("failed to advance: %w", err)
	}

	return r.writeNowPlaying(now)
}

// QueuePrevious steps the playhead backward.
func (r *Runner) QueuePrevious(ctx context.Context, cmd *cli.Command) error {
	now, err := r.client.Previous(ctx)
	if err != nil {
		return fmt.Errorf("failed to step back: %w", err)
	}

	return r.writeNowPlaying(now)
}

// QueueShuffle toggles shuffle mode on or off.
func (r *Runner) QueueShuffle(ctx context.Context, cmd *cli.Command) error {
	state := cmd.StringArg("state")

	var enabled bool
	switch state {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		return fmt.Errorf("%w: shuffle state must be 'on' or 'off'", shared.ErrInvalidArgument)
	}

	if err := r.client.SetShuffle(ctx, enabled); err != nil {
		return fmt.Errorf("failed to set shuffle: %w", err)
	}

	return r.writePlain("✓ Shuffle %s\n", state)
}

// QueueRepeat sets the repeat mode.
func (r *Runner) QueueRepeat(ctx context.Context, cmd *cli.Command) error {
	mode := cmd.StringArg("mode")
	if mode == "" {
		return fmt.Errorf("%w: repeat mode is required (off/one/all)", shared.ErrMissingArgument)
	}

	if err := r.client.SetRepeat(ctx, mode); err != nil {
		return fmt.Errorf("failed to set repeat mode: %w", err)
	}

	return r.writePlain("✓ Repeat %s\n", mode)
}

// QueuePlayNext inserts a track immediately after the current one.
func (r *Runner) QueuePlayNext(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrMissingArgument)
	}

	entry, err := r.client.PlayNext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return r.writePlain("✓ Track %s will play next (position %d)\n", entry.TrackID, entry.Position)
}

// QueueEnqueue appends a track to the tail of the queue.
func (r *Runner) QueueEnqueue(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrMissingArgument)
	}

	entry, err := r.client.Enqueue(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to enqueue track: %w", err)
	}

	return r.writePlain("✓ Track %s enqueued at position %d\n", entry.TrackID, entry.Position)
}

// QueueUpcoming shows the next tracks in play order.
func (r *Runner) QueueUpcoming(ctx context.Context, cmd *cli.Command) error {
	items, err := r.client.Upcoming(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to fetch upcoming tracks: %w", err)
	}

	return r.writeWindow("Up next", items)
}

// QueueHistory shows previously played tracks in play order.
func (r *Runner) QueueHistory(ctx context.Context, cmd *cli.Command) error {
	items, err := r.client.History(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	return r.writeWindow("History", items)
}

// QueueExport writes the queue to a file in the requested format.
func (r *Runner) QueueExport(ctx context.Context, cmd *cli.Command) error {
	view, err := r.client.GetQueue(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch queue: %w", err)
	}

	path, err := formatter.WriteExport(view, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return fmt.Errorf("failed to export queue: %w", err)
	}

	return r.writePlain("✓ Queue exported to %s\n", path)
}

func (r *Runner) writeNowPlaying(now *models.NowPlaying) error {
	if now.Entry == nil {
		return r.writePlain("Nothing to play\n")
	}

	if now.Track != nil {
		return r.writePlain("▶ %s - %s [%s]\n", now.Track.ArtistName, now.Track.Title, shared.FormatDuration(now.Track.Duration))
	}
	return r.writePlain("▶ %s\n", now.Entry.TrackID)
}

func (r *Runner) writeWindow(title string, items []models.QueueViewItem) error {
	if len(items) == 0 {
		return r.writePlain("%s: empty\n", title)
	}

	r.writePlain("%s:\n", title)
	for i, item := range items {
		r.writePlain("%3d. %s\n", i+1, itemLabel(item))
	}
	return nil
}

func itemLabel(item models.QueueViewItem) string {
	if item.Track == nil {
		return fmt.Sprintf("%s (unavailable)", item.TrackID)
	}

	label := fmt.Sprintf("%s - %s", item.Track.ArtistName, item.Track.Title)
	if item.Track.AlbumName != "" {
		label = fmt.Sprintf("%s (%s)", label, item.Track.AlbumName)
	}
	return fmt.Sprintf("%s [%s]", label, shared.FormatDuration(item.Track.Duration))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
