package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/desertthunder/queued/internal/shared"
)

// SeedFile is the JSON layout accepted by SeedLibrary: a flat dump of
// catalog rows. Missing ids are generated; re-seeding an id overwrites it.
type SeedFile struct {
	Artists []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artists"`
	Albums []struct {
		ID        string `json:"id"`
		ArtistID  string `json:"artist_id"`
		Title     string `json:"title"`
		Year      int    `json:"year"`
		CoverPath string `json:"cover_path"`
	} `json:"albums"`
	Tracks []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		ArtistID    string `json:"artist_id"`
		AlbumID     string `json:"album_id"`
		DiscNumber  int    `json:"disc_number"`
		TrackNumber int    `json:"track_number"`
		Duration    int    `json:"duration"`
		Path        string `json:"path"`
	} `json:"tracks"`
	Playlists []struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		TrackIDs    []string `json:"track_ids"`
	} `json:"playlists"`
}

// SeedCounts reports how many rows of each kind a seed run wrote.
type SeedCounts struct {
	Artists   int
	Albums    int
	Tracks    int
	Playlists int
}

// SeedLibrary loads a JSON library file into the catalog tables so the
// service is usable without an external scanner.
func SeedLibrary(ctx context.Context, db *sql.DB, path string) (SeedCounts, error) {
	var counts SeedCounts

	data, err := os.ReadFile(path)
	if err != nil {
		return counts, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return counts, fmt.Errorf("%w: seed file is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range seed.Artists {
		if a.ID == "" {
			a.ID = shared.GenerateID()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO artists (id, name) VALUES (?, ?)",
			a.ID, a.Name,
		); err != nil {
			return counts, fmt.Errorf("failed to seed artist %s: %w", a.Name, err)
		}
		counts.Artists++
	}

	for _, al := range seed.Albums {
		if al.ID == "" {
			al.ID = shared.GenerateID()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO albums (id, artist_id, title, year, cover_path) VALUES (?, ?, ?, ?, ?)",
			al.ID, nullable(al.ArtistID), al.Title, al.Year, nullable(al.CoverPath),
		); err != nil {
			return counts, fmt.Errorf("failed to seed album %s: %w", al.Title, err)
		}
		counts.Albums++
	}

	for _, t := range seed.Tracks {
		if t.ID == "" {
			t.ID = shared.GenerateID()
		}
		disc := t.DiscNumber
		if disc == 0 {
			disc = 1
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO tracks (id, title, artist_id, album_id, disc_number, track_number, duration, path) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			t.ID, t.Title, nullable(t.ArtistID), nullable(t.AlbumID), disc, t.TrackNumber, t.Duration, nullable(t.Path),
		); err != nil {
			return counts, fmt.Errorf("failed to seed track %s: %w", t.Title, err)
		}
		counts.Tracks++
	}

	for _, p := range seed.Playlists {
		if p.ID == "" {
			p.ID = shared.GenerateID()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO playlists (id, name, description) VALUES (?, ?, ?)",
			p.ID, p.Name, nullable(p.Description),
		); err != nil {
			return counts, fmt.Errorf("failed to seed playlist %s: %w", p.Name, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM playlist_tracks WHERE playlist_id = ?", p.ID); err != nil {
			return counts, fmt.Errorf("failed to reset playlist tracks: %w", err)
		}
		for i, trackID := range p.TrackIDs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO playlist_tracks (playlist_id, track_id, position) VALUES (?, ?, ?)",
				p.ID, trackID, i,
			); err != nil {
				return counts, fmt.Errorf("failed to seed playlist track %s: %w", trackID, err)
			}
		}
		counts.Playlists++
	}

	if err := tx.Commit(); err != nil {
		return counts, fmt.Errorf("failed to commit seed: %w", err)
	}

	return counts, nil
}

// nullable maps the empty string to NULL so optional foreign keys stay unset.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
