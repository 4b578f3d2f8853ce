package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/queued/internal/models"
	"github.com/desertthunder/queued/internal/shared"
)

// LibraryRepository exposes read-only queries over the library catalog
// tables. It satisfies the queue engine's Catalog interface.
type LibraryRepository struct {
	db *sql.DB
}

// NewLibraryRepository creates a new LibraryRepository with the given database connection
func NewLibraryRepository(db *sql.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// ResolveTrack retrieves a track with its artist and album names joined in.
// Returns [shared.ErrTrackNotFound] for an unknown id.
func (r *LibraryRepository) ResolveTrack(ctx context.Context, trackID string) (*models.Track, error) {
	query := `
		SELECT t.id, t.title, t.artist_id, ar.name, t.album_id, al.title, al.cover_path,
		       t.disc_number, t.track_number, t.duration, t.path
		FROM tracks t
		LEFT JOIN artists ar ON ar.id = t.artist_id
		LEFT JOIN albums al ON al.id = t.album_id
		WHERE t.id = ?
	`

	var (
		track      models.Track
		artistID   sql.NullString
		artistName sql.NullString
		albumID    sql.NullString
		albumName  sql.NullString
		coverPath  sql.NullString
		path       sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, trackID).Scan(
		&track.ID,
		&track.Title,
		&artistID,
		&artistName,
		&albumID,
		&albumName,
		&coverPath,
		&track.DiscNumber,
		&track.TrackNumber,
		&track.Duration,
		&path,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	track.ArtistID = artistID.String
	track.ArtistName = artistName.String
	track.AlbumID = albumID.String
	track.AlbumName = albumName.String
	track.CoverPath = coverPath.String
	track.Path = path.String

	return &track, nil
}

// TracksOfAlbum returns the album's track ids in disc/track order.
// Returns [shared.ErrAlbumNotFound] for an unknown album.
func (r *LibraryRepository) TracksOfAlbum(ctx context.Context, albumID string) ([]string, error) {
	if err := r.exists(ctx, "albums", albumID, shared.ErrAlbumNotFound); err != nil {
		return nil, err
	}

	query := `
		SELECT id FROM tracks
		WHERE album_id = ?
		ORDER BY disc_number, track_number
	`
	return r.queryIDs(ctx, query, albumID)
}

// TracksOfPlaylist returns the playlist's track ids in stored order.
// Returns [shared.ErrPlaylistNotFound] for an unknown playlist.
func (r *LibraryRepository) TracksOfPlaylist(ctx context.Context, playlistID string) ([]string, error) {
	if err := r.exists(ctx, "playlists", playlistID, shared.ErrPlaylistNotFound); err != nil {
		return nil, err
	}

	query := `
		SELECT track_id FROM playlist_tracks
		WHERE playlist_id = ?
		ORDER BY position
	`
	return r.queryIDs(ctx, query, playlistID)
}

// TracksOfArtist returns the artist's track ids in album-then-track order.
// Returns [shared.ErrArtistNotFound] for an unknown artist.
func (r *LibraryRepository) TracksOfArtist(ctx context.Context, artistID string) ([]string, error) {
	if err := r.exists(ctx, "artists", artistID, shared.ErrArtistNotFound); err != nil {
		return nil, err
	}

	query := `
		SELECT id FROM tracks
		WHERE artist_id = ?
		ORDER BY album_id, disc_number, track_number
	`
	return r.queryIDs(ctx, query, artistID)
}

// TracksByIDs fetches metadata for the given track ids, keyed by id.
// Missing ids are simply absent from the result; no error is raised.
func (r *LibraryRepository) TracksByIDs(ctx context.Context, trackIDs []string) (map[string]models.Track, error) {
	tracks := make(map[string]models.Track, len(trackIDs))
	for _, id := range trackIDs {
		if _, ok := tracks[id]; ok {
			continue
		}
		track, err := r.ResolveTrack(ctx, id)
		if errors.Is(err, shared.ErrTrackNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		tracks[id] = *track
	}
	return tracks, nil
}

// exists checks for a row with the given id in table, mapping absence to notFound.
func (r *LibraryRepository) exists(ctx context.Context, table, id string, notFound error) error {
	var found bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)", table)
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&found); err != nil {
		return fmt.Errorf("failed to check %s: %w", table, err)
	}
	if !found {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}

// queryIDs runs a single-column id query and collects the results in order.
func (r *LibraryRepository) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query track ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan track id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}
